package fabric

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperledger/fabric-protos-go-apiv2/common"
	"github.com/hyperledger/fabric-protos-go-apiv2/peer"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/timestamppb"
)

func mustMarshal(t *testing.T, m proto.Message) []byte {
	t.Helper()

	b, err := proto.Marshal(m)
	require.NoError(t, err)

	return b
}

func buildEnvelope(t *testing.T, txID, chaincode, eventName string, payload []byte, ts time.Time) []byte {
	t.Helper()

	chaincodeEvent := &peer.ChaincodeEvent{
		ChaincodeId: chaincode,
		TxId:        txID,
		EventName:   eventName,
		Payload:     payload,
	}

	chaincodeAction := &peer.ChaincodeAction{
		Events: mustMarshal(t, chaincodeEvent),
	}

	responsePayload := &peer.ProposalResponsePayload{
		Extension: mustMarshal(t, chaincodeAction),
	}

	actionPayload := &peer.ChaincodeActionPayload{
		Action: &peer.ChaincodeEndorsedAction{
			ProposalResponsePayload: mustMarshal(t, responsePayload),
		},
	}

	transaction := &peer.Transaction{
		Actions: []*peer.TransactionAction{
			{Payload: mustMarshal(t, actionPayload)},
		},
	}

	channelHeader := &common.ChannelHeader{
		Type:      int32(common.HeaderType_ENDORSER_TRANSACTION),
		TxId:      txID,
		Timestamp: timestamppb.New(ts),
	}

	payloadMsg := &common.Payload{
		Header: &common.Header{
			ChannelHeader: mustMarshal(t, channelHeader),
		},
		Data: mustMarshal(t, transaction),
	}

	envelope := &common.Envelope{
		Payload: mustMarshal(t, payloadMsg),
	}

	return mustMarshal(t, envelope)
}

func buildBlock(number uint64, envelopes [][]byte, validationFlags []byte) *common.Block {
	metadata := make([][]byte, int(common.BlockMetadataIndex_TRANSACTIONS_FILTER)+1)
	metadata[common.BlockMetadataIndex_TRANSACTIONS_FILTER] = validationFlags

	return &common.Block{
		Header:   &common.BlockHeader{Number: number},
		Data:     &common.BlockData{Data: envelopes},
		Metadata: &common.BlockMetadata{Metadata: metadata},
	}
}

func TestParseBlockEvents_OrdersByTxIndex(t *testing.T) {
	ts := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

	block := buildBlock(42, [][]byte{
		buildEnvelope(t, "tx-0", "gxcoin", "WalletCreated", []byte(`{"walletId":"W-1"}`), ts),
		buildEnvelope(t, "tx-1", "gxcoin", "TransferCompleted", []byte(`{"amount":100}`), ts),
	}, []byte{
		byte(peer.TxValidationCode_VALID),
		byte(peer.TxValidationCode_VALID),
	})

	events, err := parseBlockEvents(block, "gxcoin")
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, uint64(42), events[0].BlockNumber)
	assert.Equal(t, uint32(0), events[0].TxIndex)
	assert.Equal(t, uint32(0), events[0].EventIndex)
	assert.Equal(t, "WalletCreated", events[0].EventName)
	assert.Equal(t, "tx-0", events[0].TxID)
	assert.Equal(t, ts, events[0].Timestamp)

	assert.Equal(t, uint32(1), events[1].TxIndex)
	assert.Equal(t, uint32(1), events[1].EventIndex)
	assert.Equal(t, "TransferCompleted", events[1].EventName)
}

func TestParseBlockEvents_SkipsInvalidTransactions(t *testing.T) {
	ts := time.Now().UTC()

	block := buildBlock(7, [][]byte{
		buildEnvelope(t, "tx-bad", "gxcoin", "WalletCreated", nil, ts),
		buildEnvelope(t, "tx-good", "gxcoin", "WalletCreated", nil, ts),
	}, []byte{
		byte(peer.TxValidationCode_MVCC_READ_CONFLICT),
		byte(peer.TxValidationCode_VALID),
	})

	events, err := parseBlockEvents(block, "gxcoin")
	require.NoError(t, err)
	require.Len(t, events, 1)

	assert.Equal(t, "tx-good", events[0].TxID)
	// Event index counts delivered events, not transactions.
	assert.Equal(t, uint32(0), events[0].EventIndex)
	assert.Equal(t, uint32(1), events[0].TxIndex)
}

func TestParseBlockEvents_FiltersOtherChaincodes(t *testing.T) {
	ts := time.Now().UTC()

	block := buildBlock(9, [][]byte{
		buildEnvelope(t, "tx-0", "other", "SomethingElse", nil, ts),
		buildEnvelope(t, "tx-1", "gxcoin", "UserCreated", nil, ts),
	}, []byte{
		byte(peer.TxValidationCode_VALID),
		byte(peer.TxValidationCode_VALID),
	})

	events, err := parseBlockEvents(block, "gxcoin")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "UserCreated", events[0].EventName)
}

func TestParseBlockEvents_EmptyBlock(t *testing.T) {
	events, err := parseBlockEvents(nil, "gxcoin")
	require.NoError(t, err)
	assert.Empty(t, events)
}
