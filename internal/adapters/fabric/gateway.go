package fabric

import (
	"context"
	"time"

	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mcircuitbreaker"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mmodel"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mopentelemetry"

	"github.com/cenkalti/backoff/v4"
	"github.com/hyperledger/fabric-gateway/pkg/client"
)

// SubmitResult is the outcome of a committed transaction.
type SubmitResult struct {
	TxID        string
	BlockNumber uint64
	Payload     []byte
}

// Repository provides an interface for the fabric gateway operations used by
// the submitter and the projector.
//
//go:generate mockgen --destination=gateway.mock.go --package=fabric . Repository
type Repository interface {
	Connect(ctx context.Context) error
	Disconnect()
	Submit(ctx context.Context, fn string, args ...string) (*SubmitResult, error)
	StreamEvents(ctx context.Context, fromBlock uint64) (<-chan mmodel.BlockchainEvent, error)
	HealthCheck(ctx context.Context) error
	BreakerState() mcircuitbreaker.State
}

// FabricGatewayRepository is the fabric-gateway implementation of Repository.
// Submits run under the circuit breaker; the event stream reconnects on its
// own with capped exponential backoff.
type FabricGatewayRepository struct {
	conn    *FabricConnection
	breaker *mcircuitbreaker.CircuitBreaker

	// ReconnectMaxInterval caps the stream reconnect backoff. It mirrors the
	// breaker reset timeout so both paths recover on the same cadence.
	ReconnectMaxInterval time.Duration
}

// NewFabricGatewayRepository returns a new instance of FabricGatewayRepository using the given fabric connection.
func NewFabricGatewayRepository(fc *FabricConnection, breaker *mcircuitbreaker.CircuitBreaker, reconnectMaxInterval time.Duration) *FabricGatewayRepository {
	return &FabricGatewayRepository{
		conn:                 fc,
		breaker:              breaker,
		ReconnectMaxInterval: reconnectMaxInterval,
	}
}

// Connect establishes the gateway connection. Idempotent.
func (r *FabricGatewayRepository) Connect(ctx context.Context) error {
	return r.conn.Connect(ctx)
}

// Disconnect closes the gateway connection.
func (r *FabricGatewayRepository) Disconnect() {
	r.conn.Disconnect()
}

// HealthCheck verifies gateway liveness with a lightweight query.
func (r *FabricGatewayRepository) HealthCheck(ctx context.Context) error {
	contract, err := r.conn.GetContract(ctx)
	if err != nil {
		return err
	}

	if _, err := contract.Evaluate("org.hyperledger.fabric:GetMetadata"); err != nil {
		return ConnectError{Network: r.conn.Network, Err: err}
	}

	return nil
}

// BreakerState exposes the current circuit state for readiness and metrics.
func (r *FabricGatewayRepository) BreakerState() mcircuitbreaker.State {
	return r.breaker.State()
}

type submitOutcome struct {
	result *SubmitResult
	err    error
}

// Submit endorses and commits a transaction, returning its id and commit
// block. Non-retryable rejections (chaincode, permission) pass through the
// breaker without counting as infrastructure failures.
func (r *FabricGatewayRepository) Submit(ctx context.Context, fn string, args ...string) (*SubmitResult, error) {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "fabric.submit")
	defer span.End()

	out, err := r.breaker.Execute(func() (any, error) {
		result, submitErr := r.doSubmit(ctx, fn, args...)
		if submitErr != nil && !Retryable(submitErr) {
			return submitOutcome{result: result, err: submitErr}, nil
		}

		return submitOutcome{result: result}, submitErr
	})
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to submit transaction", err)

		return nil, err
	}

	outcome := out.(submitOutcome)
	if outcome.err != nil {
		mopentelemetry.HandleSpanError(&span, "Transaction rejected", outcome.err)

		return outcome.result, outcome.err
	}

	return outcome.result, nil
}

func (r *FabricGatewayRepository) doSubmit(ctx context.Context, fn string, args ...string) (*SubmitResult, error) {
	contract, err := r.conn.GetContract(ctx)
	if err != nil {
		return nil, err
	}

	// Deadlines are bound on the gateway at connect time: endorsement by
	// EndorseTimeout, submit and commit status each by SubmitTimeout.
	payload, commit, err := contract.SubmitAsync(fn, client.WithArguments(args...))
	if err != nil {
		return nil, mapSubmitError(fn, r.conn.MSPID, err)
	}

	status, err := commit.Status()
	if err != nil {
		return nil, mapSubmitError(fn, r.conn.MSPID, err)
	}

	if !status.Successful {
		return nil, ChaincodeError{
			Function: fn,
			Message:  "transaction invalidated with code " + status.Code.String(),
		}
	}

	return &SubmitResult{
		TxID:        status.TransactionID,
		BlockNumber: status.BlockNumber,
		Payload:     payload,
	}, nil
}

// StreamEvents returns a cold, resumable stream of chaincode events ordered
// by (blockNumber, txIndex, eventIndex), gapless from fromBlock inclusive.
// On disconnect the stream re-establishes from the last delivered block + 1
// with exponential backoff capped at ReconnectMaxInterval. The channel closes
// when ctx is cancelled.
func (r *FabricGatewayRepository) StreamEvents(ctx context.Context, fromBlock uint64) (<-chan mmodel.BlockchainEvent, error) {
	logger := pkg.NewLoggerFromContext(ctx)

	if err := r.conn.Connect(ctx); err != nil {
		return nil, err
	}

	out := make(chan mmodel.BlockchainEvent)

	go func() {
		defer close(out)

		nextBlock := fromBlock

		bo := backoff.NewExponentialBackOff()
		bo.MaxInterval = r.ReconnectMaxInterval
		bo.MaxElapsedTime = 0

		for {
			delivered, err := r.streamOnce(ctx, nextBlock, out)
			if ctx.Err() != nil {
				return
			}

			if delivered > 0 {
				nextBlock = delivered + 1

				bo.Reset()
			}

			wait := bo.NextBackOff()
			logger.Warnf("fabric event stream interrupted (next block %d, retry in %v): %v", nextBlock, wait, err)

			select {
			case <-ctx.Done():
				return
			case <-time.After(wait):
			}

			// The gateway connection may be the reason the stream died.
			r.conn.Disconnect()

			if err := r.conn.Connect(ctx); err != nil {
				logger.Errorf("fabric reconnect failed: %v", err)
			}
		}
	}()

	return out, nil
}

// streamOnce consumes block events until the stream breaks, returning the
// last fully delivered block number (0 when none).
func (r *FabricGatewayRepository) streamOnce(ctx context.Context, fromBlock uint64, out chan<- mmodel.BlockchainEvent) (uint64, error) {
	network, err := r.conn.GetNetwork(ctx)
	if err != nil {
		return 0, err
	}

	blocks, err := network.BlockEvents(ctx, client.WithStartBlock(fromBlock))
	if err != nil {
		return 0, err
	}

	var lastDelivered uint64

	for block := range blocks {
		events, err := parseBlockEvents(block, r.conn.Chaincode)
		if err != nil {
			return lastDelivered, err
		}

		for _, event := range events {
			select {
			case out <- event:
			case <-ctx.Done():
				return lastDelivered, ctx.Err()
			}
		}

		lastDelivered = block.GetHeader().GetNumber()
	}

	return lastDelivered, ctx.Err()
}
