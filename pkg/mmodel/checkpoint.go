package mmodel

import "time"

// Checkpoint records how far a projector has consumed one channel's stream.
// LastEventIndex is -1 for a freshly seeded checkpoint, meaning no event of
// LastBlock has been applied yet.
type Checkpoint struct {
	TenantID       string    `json:"tenantId"`
	ProjectorName  string    `json:"projectorName"`
	Channel        string    `json:"channel"`
	LastBlock      uint64    `json:"lastBlock"`
	LastEventIndex int64     `json:"lastEventIndex"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
