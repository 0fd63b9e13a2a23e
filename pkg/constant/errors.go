package constant

import "errors"

var (
	ErrEntityNotFound         = errors.New("0001")
	ErrAggregateIDRequired    = errors.New("0002")
	ErrCommandTypeUnknown     = errors.New("0003")
	ErrIdempotencyKeyTooLong  = errors.New("0004")
	ErrCheckpointConflict     = errors.New("0005")
	ErrMaxAttemptsExceeded    = errors.New("0006")
	ErrMalformedEventPayload  = errors.New("0007")
	ErrConfigInvalid          = errors.New("0008")
	ErrWalletIdentityMissing  = errors.New("0009")
	ErrSchemaValidationFailed = errors.New("0010")
)
