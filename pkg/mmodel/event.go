package mmodel

import "time"

// BlockchainEvent is one chaincode event as delivered by the block stream,
// ordered by (BlockNumber, TxIndex, EventIndex) with no gaps.
type BlockchainEvent struct {
	EventName   string    `json:"eventName"`
	Payload     []byte    `json:"payload"`
	TxID        string    `json:"txId"`
	BlockNumber uint64    `json:"blockNumber"`
	TxIndex     uint32    `json:"txIndex"`
	EventIndex  uint32    `json:"eventIndex"`
	Timestamp   time.Time `json:"timestamp"`
}

// After reports whether the event is strictly beyond the given checkpoint
// position. The projector drops redelivered events at or below it.
func (e BlockchainEvent) After(lastBlock uint64, lastEventIndex int64) bool {
	if e.BlockNumber != lastBlock {
		return e.BlockNumber > lastBlock
	}

	return int64(e.EventIndex) > lastEventIndex
}

// EventEnvelope is the decoded shape handed to schema validation.
type EventEnvelope struct {
	EventName    string         `json:"eventName"`
	EventVersion string         `json:"eventVersion"`
	Payload      map[string]any `json:"payload"`
}
