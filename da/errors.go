package da

import (
	"errors"
	"fmt"

	"github.com/dymensionxyz/gerr-cosmos/gerrc"
)

var (
	// ErrInvalidAppID is returned when the configured namespace is not 32 bytes of hex.
	ErrInvalidAppID = fmt.Errorf("invalid app id: %w", gerrc.ErrInvalidArgument)
	// ErrBlobNotFound is returned when a dispersed blob was not observed in any validator block.
	ErrBlobNotFound = fmt.Errorf("blob not found after exhaustive search: %w", gerrc.ErrNotFound)
	// ErrUnsupported is returned by backends whose protocol is not implemented by this client.
	ErrUnsupported = fmt.Errorf("backend protocol not supported: %w", gerrc.ErrUnimplemented)
)

// Error is the error shape returned by every Client. Retriable tells the caller whether
// resubmitting the same request may succeed.
type Error struct {
	Err       error
	Retriable bool
}

// NewRetriable wraps err in an Error that the caller may retry.
func NewRetriable(err error) *Error {
	return &Error{Err: err, Retriable: true}
}

// NewPermanent wraps err in an Error that must not be retried.
func NewPermanent(err error) *Error {
	return &Error{Err: err, Retriable: false}
}

func (e *Error) Error() string {
	if e.Retriable {
		return fmt.Sprintf("retriable: %s", e.Err)
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsRetriable reports whether err carries a retriable Error. Errors that do not carry one are
// treated as permanent.
func IsRetriable(err error) bool {
	var daErr *Error
	if errors.As(err, &daErr) {
		return daErr.Retriable
	}
	return false
}
