package mmodel

import "time"

// AppliedEvent is the notification published to the fan-out exchange after a
// projected event commits. Downstream consumers (notifications, webhooks)
// subscribe to it; delivery is best-effort and never blocks the checkpoint.
type AppliedEvent struct {
	EventName   string    `msgpack:"eventName" json:"eventName"`
	TxID        string    `msgpack:"txId" json:"txId"`
	BlockNumber uint64    `msgpack:"blockNumber" json:"blockNumber"`
	EventIndex  uint32    `msgpack:"eventIndex" json:"eventIndex"`
	TenantID    string    `msgpack:"tenantId" json:"tenantId"`
	AppliedAt   time.Time `msgpack:"appliedAt" json:"appliedAt"`
}
