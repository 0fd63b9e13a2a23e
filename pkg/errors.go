package pkg

import (
	"errors"
	"fmt"
	"strings"

	cn "github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/constant"
)

// EntityNotFoundError records an error indicating an entity was not found in any case that caused it.
// You can use it to representing a Database not found, cache not found or any other repository.
type EntityNotFoundError struct {
	EntityType string
	Title      string
	Message    string
	Code       string
	Err        error
}

// NewEntityNotFoundError creates an instance of EntityNotFoundError.
func NewEntityNotFoundError(entityType string) EntityNotFoundError {
	return EntityNotFoundError{
		EntityType: entityType,
	}
}

// WrapEntityNotFoundError creates an instance of EntityNotFoundError wrapping err.
func WrapEntityNotFoundError(entityType string, err error) EntityNotFoundError {
	return EntityNotFoundError{
		EntityType: entityType,
		Err:        err,
	}
}

// Error implements the error interface.
func (e EntityNotFoundError) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		if strings.TrimSpace(e.EntityType) != "" {
			return fmt.Sprintf("Entity %s not found", e.EntityType)
		}

		if e.Err != nil {
			return e.Err.Error()
		}

		return "entity not found"
	}

	return e.Message
}

// Unwrap implements the error interface introduced in Go 1.13 to unwrap the internal error.
func (e EntityNotFoundError) Unwrap() error {
	return e.Err
}

// ValidationError records input that failed a business validation rule.
type ValidationError struct {
	EntityType string
	Title      string
	Message    string
	Code       string
	Err        error
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if strings.TrimSpace(e.Code) != "" {
		return fmt.Sprintf("%s - %s", e.Code, e.Message)
	}

	return e.Message
}

// Unwrap implements the error interface introduced in Go 1.13 to unwrap the internal error.
func (e ValidationError) Unwrap() error {
	return e.Err
}

// InternalServerError records an unexpected infrastructure failure.
type InternalServerError struct {
	EntityType string
	Title      string
	Message    string
	Code       string
	Err        error
}

// Error implements the error interface.
func (e InternalServerError) Error() string {
	return e.Message
}

// Unwrap implements the error interface introduced in Go 1.13 to unwrap the internal error.
func (e InternalServerError) Unwrap() error {
	return e.Err
}

// ValidateBusinessError translates a sentinel business error into a typed error
// carrying the code/title/message triple surfaced to operators.
func ValidateBusinessError(err error, entityType string, args ...any) error {
	errorMap := map[error]error{
		cn.ErrEntityNotFound: EntityNotFoundError{
			EntityType: entityType,
			Code:       cn.ErrEntityNotFound.Error(),
			Title:      "Entity Not Found",
			Message:    fmt.Sprintf("No %s was found for the given ids.", entityType),
		},
		cn.ErrAggregateIDRequired: ValidationError{
			EntityType: entityType,
			Code:       cn.ErrAggregateIDRequired.Error(),
			Title:      "Aggregate ID Required",
			Message:    "Every command must name the aggregate it belongs to so ordering can be enforced.",
		},
		cn.ErrCommandTypeUnknown: ValidationError{
			EntityType: entityType,
			Code:       cn.ErrCommandTypeUnknown.Error(),
			Title:      "Unknown Command Type",
			Message:    fmt.Sprintf("Command type %v has no registered chaincode mapping.", args),
		},
		cn.ErrIdempotencyKeyTooLong: ValidationError{
			EntityType: entityType,
			Code:       cn.ErrIdempotencyKeyTooLong.Error(),
			Title:      "Idempotency Key Too Long",
			Message:    "The X-Idempotency-Key header is limited to 255 bytes.",
		},
		cn.ErrCheckpointConflict: InternalServerError{
			EntityType: entityType,
			Code:       cn.ErrCheckpointConflict.Error(),
			Title:      "Checkpoint Conflict",
			Message:    "Another consumer advanced this checkpoint row. Reconcile before restarting.",
		},
	}

	if mapped, found := errorMap[err]; found {
		return mapped
	}

	return err
}

// IsEntityNotFound reports whether err is (or wraps) an EntityNotFoundError.
func IsEntityNotFound(err error) bool {
	var notFound EntityNotFoundError

	return errors.As(err, &notFound)
}
