package command

import (
	"encoding/json"
	"testing"

	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/constant"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCommandTable_RegistersDeclaredCommands(t *testing.T) {
	table := DefaultCommandTable()

	assert.Equal(t, []string{
		constant.CommandCastVote,
		constant.CommandCreateProposal,
		constant.CommandCreateWallet,
		constant.CommandFreezeWallet,
		constant.CommandRegisterUser,
		constant.CommandTransferTokens,
		constant.CommandUnfreezeWallet,
	}, table.Types())
}

func TestCommandTable_DuplicateRegistrationPanics(t *testing.T) {
	table := NewCommandTable()
	table.Register("X", "1.0", "Fn", nil)

	assert.Panics(t, func() {
		table.Register("X", "1.0", "Fn", nil)
	})
}

func TestTransferEncoder_LaysOutArgs(t *testing.T) {
	table := DefaultCommandTable()

	fn, encoder, ok := table.Resolve(constant.CommandTransferTokens)
	require.True(t, ok)
	assert.Equal(t, "TransferTokens", fn)

	args, err := encoder(json.RawMessage(`{"fromUserId":"U-A","toUserId":"U-B","amount":"100","remark":"lunch"}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"U-A", "U-B", "100", "lunch"}, args)
}

func TestTransferEncoder_RejectsMissingFields(t *testing.T) {
	table := DefaultCommandTable()

	_, encoder, ok := table.Resolve(constant.CommandTransferTokens)
	require.True(t, ok)

	_, err := encoder(json.RawMessage(`{"fromUserId":"U-A"}`))
	assert.Error(t, err)

	_, err = encoder(json.RawMessage(`not json`))
	assert.Error(t, err)
}

func TestCastVoteEncoder_EncodesBool(t *testing.T) {
	table := DefaultCommandTable()

	_, encoder, ok := table.Resolve(constant.CommandCastVote)
	require.True(t, ok)

	args, err := encoder(json.RawMessage(`{"proposalId":"P-1","voterId":"U-A","inFavor":true}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"P-1", "U-A", "true"}, args)

	args, err = encoder(json.RawMessage(`{"proposalId":"P-1","voterId":"U-A","inFavor":false}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"P-1", "U-A", "false"}, args)
}

func TestResolve_UnknownType(t *testing.T) {
	table := DefaultCommandTable()

	_, _, ok := table.Resolve("NOT_A_COMMAND")
	assert.False(t, ok)
}
