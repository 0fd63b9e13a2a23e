package schema

import (
	"testing"

	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mmodel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()

	registry, err := NewRegistry(false)
	require.NoError(t, err)

	return registry
}

func TestValidate_ValidTransferPayload(t *testing.T) {
	registry := newTestRegistry(t)

	result := registry.Validate(mmodel.EventEnvelope{
		EventName:    "TransferCompleted",
		EventVersion: "1.0",
		Payload: map[string]any{
			"fromWalletId": "W-A",
			"toWalletId":   "W-B",
			"amount":       100,
			"fee":          1,
			"remark":       "test",
		},
	})

	assert.True(t, result.OK)
	assert.False(t, result.UnknownEvent)
	assert.Empty(t, result.Errors)
}

func TestValidate_MissingRequiredField(t *testing.T) {
	registry := newTestRegistry(t)

	result := registry.Validate(mmodel.EventEnvelope{
		EventName:    "TransferCompleted",
		EventVersion: "1.0",
		Payload: map[string]any{
			"fromWalletId": "W-A",
		},
	})

	assert.False(t, result.OK)
	assert.NotEmpty(t, result.Errors)
}

func TestValidate_UnknownEventPassesWithSignal(t *testing.T) {
	registry := newTestRegistry(t)

	result := registry.Validate(mmodel.EventEnvelope{
		EventName:    "BrandNewEvent",
		EventVersion: "1.0",
		Payload:      map[string]any{"anything": true},
	})

	assert.True(t, result.OK)
	assert.True(t, result.UnknownEvent)
}

func TestValidate_LegacyAliasSharesSchema(t *testing.T) {
	registry := newTestRegistry(t)

	payload := map[string]any{
		"fromWalletId": "W-A",
		"toWalletId":   "W-B",
		"amount":       "50",
	}

	canonical := registry.Validate(mmodel.EventEnvelope{EventName: "TransferCompleted", EventVersion: "1.0", Payload: payload})
	alias := registry.Validate(mmodel.EventEnvelope{EventName: "InternalTransferEvent", EventVersion: "1.0", Payload: payload})

	assert.True(t, canonical.OK)
	assert.True(t, alias.OK)
	assert.False(t, alias.UnknownEvent)
}

func TestValidate_MissingVersionAssumesDefault(t *testing.T) {
	registry := newTestRegistry(t)

	result := registry.Validate(mmodel.EventEnvelope{
		EventName: "WalletCreated",
		Payload: map[string]any{
			"walletId":     "W-1",
			"fabricUserId": "U-1",
		},
	})

	assert.True(t, result.OK)
}

func TestValidate_UnknownVersionPassesWithSignal(t *testing.T) {
	registry := newTestRegistry(t)

	result := registry.Validate(mmodel.EventEnvelope{
		EventName:    "WalletCreated",
		EventVersion: "9.9",
		Payload:      map[string]any{},
	})

	assert.True(t, result.OK)
	assert.True(t, result.UnknownEvent)
}

func TestNewRegistry_StrictFlag(t *testing.T) {
	strict, err := NewRegistry(true)
	require.NoError(t, err)
	assert.True(t, strict.Strict())

	advisory, err := NewRegistry(false)
	require.NoError(t, err)
	assert.False(t, advisory.Strict())
}
