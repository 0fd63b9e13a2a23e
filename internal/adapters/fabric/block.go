package fabric

import (
	"fmt"
	"time"

	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mmodel"

	"github.com/hyperledger/fabric-protos-go-apiv2/common"
	"github.com/hyperledger/fabric-protos-go-apiv2/peer"
	"google.golang.org/protobuf/proto"
)

// parseBlockEvents walks one block and extracts every chaincode event emitted
// by valid endorser transactions of the given chaincode. EventIndex enumerates
// events within the block, TxIndex is the transaction's position, so the
// stream order (blockNumber, txIndex, eventIndex) is total and gapless.
func parseBlockEvents(block *common.Block, chaincodeName string) ([]mmodel.BlockchainEvent, error) {
	if block == nil || block.GetData() == nil {
		return nil, nil
	}

	blockNumber := block.GetHeader().GetNumber()
	validationFlags := transactionFilter(block)

	events := make([]mmodel.BlockchainEvent, 0)

	var eventIndex uint32

	for txIndex, envelopeBytes := range block.GetData().GetData() {
		if int(txIndex) < len(validationFlags) &&
			peer.TxValidationCode(validationFlags[txIndex]) != peer.TxValidationCode_VALID {
			continue
		}

		txEvents, err := parseEnvelopeEvents(envelopeBytes, chaincodeName)
		if err != nil {
			return nil, fmt.Errorf("block %d tx %d: %w", blockNumber, txIndex, err)
		}

		for _, chaincodeEvent := range txEvents {
			events = append(events, mmodel.BlockchainEvent{
				EventName:   chaincodeEvent.event.GetEventName(),
				Payload:     chaincodeEvent.event.GetPayload(),
				TxID:        chaincodeEvent.txID,
				BlockNumber: blockNumber,
				TxIndex:     uint32(txIndex),
				EventIndex:  eventIndex,
				Timestamp:   chaincodeEvent.timestamp,
			})

			eventIndex++
		}
	}

	return events, nil
}

type envelopeEvent struct {
	event     *peer.ChaincodeEvent
	txID      string
	timestamp time.Time
}

// parseEnvelopeEvents unwraps one transaction envelope down to its chaincode
// actions and collects their events. Non-endorser transactions (config blocks)
// yield nothing.
func parseEnvelopeEvents(envelopeBytes []byte, chaincodeName string) ([]envelopeEvent, error) {
	envelope := &common.Envelope{}
	if err := proto.Unmarshal(envelopeBytes, envelope); err != nil {
		return nil, fmt.Errorf("unmarshal envelope: %w", err)
	}

	payload := &common.Payload{}
	if err := proto.Unmarshal(envelope.GetPayload(), payload); err != nil {
		return nil, fmt.Errorf("unmarshal payload: %w", err)
	}

	channelHeader := &common.ChannelHeader{}
	if err := proto.Unmarshal(payload.GetHeader().GetChannelHeader(), channelHeader); err != nil {
		return nil, fmt.Errorf("unmarshal channel header: %w", err)
	}

	if common.HeaderType(channelHeader.GetType()) != common.HeaderType_ENDORSER_TRANSACTION {
		return nil, nil
	}

	transaction := &peer.Transaction{}
	if err := proto.Unmarshal(payload.GetData(), transaction); err != nil {
		return nil, fmt.Errorf("unmarshal transaction: %w", err)
	}

	timestamp := channelHeader.GetTimestamp().AsTime()
	events := make([]envelopeEvent, 0, 1)

	for _, action := range transaction.GetActions() {
		actionPayload := &peer.ChaincodeActionPayload{}
		if err := proto.Unmarshal(action.GetPayload(), actionPayload); err != nil {
			return nil, fmt.Errorf("unmarshal chaincode action payload: %w", err)
		}

		responsePayload := &peer.ProposalResponsePayload{}
		if err := proto.Unmarshal(actionPayload.GetAction().GetProposalResponsePayload(), responsePayload); err != nil {
			return nil, fmt.Errorf("unmarshal proposal response payload: %w", err)
		}

		chaincodeAction := &peer.ChaincodeAction{}
		if err := proto.Unmarshal(responsePayload.GetExtension(), chaincodeAction); err != nil {
			return nil, fmt.Errorf("unmarshal chaincode action: %w", err)
		}

		if len(chaincodeAction.GetEvents()) == 0 {
			continue
		}

		chaincodeEvent := &peer.ChaincodeEvent{}
		if err := proto.Unmarshal(chaincodeAction.GetEvents(), chaincodeEvent); err != nil {
			return nil, fmt.Errorf("unmarshal chaincode event: %w", err)
		}

		if chaincodeEvent.GetChaincodeId() != chaincodeName {
			continue
		}

		events = append(events, envelopeEvent{
			event:     chaincodeEvent,
			txID:      channelHeader.GetTxId(),
			timestamp: timestamp,
		})
	}

	return events, nil
}

// transactionFilter returns the per-transaction validation codes recorded in
// the block metadata.
func transactionFilter(block *common.Block) []byte {
	metadata := block.GetMetadata().GetMetadata()
	if int(common.BlockMetadataIndex_TRANSACTIONS_FILTER) >= len(metadata) {
		return nil
	}

	return metadata[common.BlockMetadataIndex_TRANSACTIONS_FILTER]
}
