package fabric

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRetryable_Classification(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{
			name:      "chaincode rejection is terminal",
			err:       ChaincodeError{Function: "TransferTokens", Message: "insufficient balance"},
			retryable: false,
		},
		{
			name:      "permission denied is terminal",
			err:       PermissionDeniedError{MSPID: "GxMSP", Err: errors.New("access denied")},
			retryable: false,
		},
		{
			name:      "timeout is retryable",
			err:       TimeoutError{Err: errors.New("deadline exceeded")},
			retryable: true,
		},
		{
			name:      "endorsement failure is retryable",
			err:       EndorsementError{Err: errors.New("peer unavailable")},
			retryable: true,
		},
		{
			name:      "ordering failure is retryable",
			err:       OrderingError{Err: errors.New("orderer unavailable")},
			retryable: true,
		},
		{
			name:      "circuit open is retryable",
			err:       ErrCircuitOpen,
			retryable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.retryable, Retryable(tt.err))
		})
	}
}

func TestErrorMessages(t *testing.T) {
	assert.Contains(t, ChaincodeError{Function: "Fn", Message: "nope"}.Error(), "nope")
	assert.Contains(t, PermissionDeniedError{MSPID: "GxMSP"}.Error(), "GxMSP")
	assert.Contains(t, ConnectError{Network: "testnet", Err: errors.New("dial")}.Error(), "testnet")
}

func TestErrorUnwrap(t *testing.T) {
	inner := errors.New("inner")

	assert.ErrorIs(t, TimeoutError{Err: inner}, inner)
	assert.ErrorIs(t, EndorsementError{Err: inner}, inner)
	assert.ErrorIs(t, OrderingError{Err: inner}, inner)
	assert.ErrorIs(t, ConnectError{Network: "dev", Err: inner}, inner)
}
