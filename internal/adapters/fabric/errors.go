package fabric

import (
	"context"
	"errors"
	"fmt"

	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mcircuitbreaker"

	"github.com/hyperledger/fabric-gateway/pkg/client"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ConnectError means the gateway could not be established or probed.
type ConnectError struct {
	Network string
	Err     error
}

// Error implements the error interface.
func (e ConnectError) Error() string {
	return fmt.Sprintf("fabric connect failed on network %s: %v", e.Network, e.Err)
}

// Unwrap implements the error interface introduced in Go 1.13 to unwrap the internal error.
func (e ConnectError) Unwrap() error { return e.Err }

// ChaincodeError is a business rejection from the chaincode. Never retried.
type ChaincodeError struct {
	Function string
	Message  string
	Err      error
}

// Error implements the error interface.
func (e ChaincodeError) Error() string {
	return fmt.Sprintf("chaincode rejected %s: %s", e.Function, e.Message)
}

// Unwrap implements the error interface introduced in Go 1.13 to unwrap the internal error.
func (e ChaincodeError) Unwrap() error { return e.Err }

// PermissionDeniedError means MSP validation failed, almost always because the
// wallet identity went stale after a certificate rotation. Never retried; the
// operator must install a fresh identity.
type PermissionDeniedError struct {
	MSPID string
	Err   error
}

// Error implements the error interface.
func (e PermissionDeniedError) Error() string {
	return fmt.Sprintf("permission denied for msp %s: %v", e.MSPID, e.Err)
}

// Unwrap implements the error interface introduced in Go 1.13 to unwrap the internal error.
func (e PermissionDeniedError) Unwrap() error { return e.Err }

// EndorsementError is a transient endorsement failure. Retryable.
type EndorsementError struct {
	Err error
}

// Error implements the error interface.
func (e EndorsementError) Error() string {
	return fmt.Sprintf("endorsement failed: %v", e.Err)
}

// Unwrap implements the error interface introduced in Go 1.13 to unwrap the internal error.
func (e EndorsementError) Unwrap() error { return e.Err }

// OrderingError is a transient ordering-service failure. Retryable.
type OrderingError struct {
	Err error
}

// Error implements the error interface.
func (e OrderingError) Error() string {
	return fmt.Sprintf("ordering failed: %v", e.Err)
}

// Unwrap implements the error interface introduced in Go 1.13 to unwrap the internal error.
func (e OrderingError) Unwrap() error { return e.Err }

// TimeoutError means a deadline elapsed before commit was observed. The
// transaction may still commit, so callers rely on chaincode idempotency when
// they retry.
type TimeoutError struct {
	Err error
}

// Error implements the error interface.
func (e TimeoutError) Error() string {
	return fmt.Sprintf("fabric call timed out: %v", e.Err)
}

// Unwrap implements the error interface introduced in Go 1.13 to unwrap the internal error.
func (e TimeoutError) Unwrap() error { return e.Err }

// ErrCircuitOpen is surfaced while the breaker refuses submits.
var ErrCircuitOpen = mcircuitbreaker.ErrCircuitOpen

// Retryable classifies an error from Submit. Chaincode rejections and
// permission failures are terminal; everything else is assumed transient.
func Retryable(err error) bool {
	var (
		chaincodeErr  ChaincodeError
		permissionErr PermissionDeniedError
	)

	if errors.As(err, &chaincodeErr) || errors.As(err, &permissionErr) {
		return false
	}

	return true
}

// mapSubmitError rewraps a fabric-gateway error into the bridge taxonomy.
func mapSubmitError(fn, mspID string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrCircuitOpen) {
		return err
	}

	if code := grpcCode(err); code == codes.PermissionDenied || code == codes.Unauthenticated {
		return PermissionDeniedError{MSPID: mspID, Err: err}
	}

	var endorseErr *client.EndorseError
	if errors.As(err, &endorseErr) {
		// An endorsement rejection carrying a chaincode message is a business
		// rejection, not an infrastructure failure.
		if grpcCode(err) == codes.Aborted || grpcCode(err) == codes.Unknown {
			return ChaincodeError{Function: fn, Message: statusMessage(err), Err: err}
		}

		if grpcCode(err) == codes.DeadlineExceeded {
			return TimeoutError{Err: err}
		}

		return EndorsementError{Err: err}
	}

	var submitErr *client.SubmitError
	if errors.As(err, &submitErr) {
		if grpcCode(err) == codes.DeadlineExceeded {
			return TimeoutError{Err: err}
		}

		return OrderingError{Err: err}
	}

	var commitStatusErr *client.CommitStatusError
	if errors.As(err, &commitStatusErr) {
		if errors.Is(err, context.DeadlineExceeded) || grpcCode(err) == codes.DeadlineExceeded {
			return TimeoutError{Err: err}
		}

		return OrderingError{Err: err}
	}

	var commitErr *client.CommitError
	if errors.As(err, &commitErr) {
		// The transaction made it into a block but failed validation.
		return ChaincodeError{Function: fn, Message: commitErr.Error(), Err: err}
	}

	if errors.Is(err, context.DeadlineExceeded) || grpcCode(err) == codes.DeadlineExceeded {
		return TimeoutError{Err: err}
	}

	return EndorsementError{Err: err}
}

func grpcCode(err error) codes.Code {
	if s, ok := status.FromError(err); ok {
		return s.Code()
	}

	type grpcStatus interface{ GRPCStatus() *status.Status }

	var gs grpcStatus
	if errors.As(err, &gs) {
		return gs.GRPCStatus().Code()
	}

	return codes.Unknown
}

func statusMessage(err error) string {
	type grpcStatus interface{ GRPCStatus() *status.Status }

	var gs grpcStatus
	if errors.As(err, &gs) {
		return gs.GRPCStatus().Message()
	}

	return err.Error()
}
