// errors.go defines the error taxonomy for DSN parsing, header construction
// and payload encoding.

package raven

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDsn matches any *InvalidDsnError.
	ErrInvalidDsn = errors.New("raven: invalid dsn")

	// ErrMissingCredentials matches any *MissingCredentialsError.
	ErrMissingCredentials = errors.New("raven: missing credentials")

	// ErrEncoding matches any *EncodingError.
	ErrEncoding = errors.New("raven: payload encoding failed")
)

// InvalidDsnError reports a malformed or incomplete connection string.
// It is fatal to client construction and is never retried.
// The message never contains the DSN itself, since it carries credentials.
type InvalidDsnError struct {
	// Reason is a short description of what is wrong.
	Reason string

	// Err is the underlying parse error, if any.
	Err error
}

func (e *InvalidDsnError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("raven: invalid dsn: %s: %v", e.Reason, e.Err)
	}
	return "raven: invalid dsn: " + e.Reason
}

func (e *InvalidDsnError) Unwrap() error { return e.Err }

func (e *InvalidDsnError) Is(target error) bool { return target == ErrInvalidDsn }

// MissingCredentialsError reports a DSN without a public key at the time an
// auth header is built. It aborts only the current send.
type MissingCredentialsError struct{}

func (e *MissingCredentialsError) Error() string {
	return "raven: missing credentials: dsn has no public key"
}

func (e *MissingCredentialsError) Is(target error) bool { return target == ErrMissingCredentials }

// EncodingError reports a compression or encoding failure.
type EncodingError struct {
	// Op names the failing step (compress, decode, decompress).
	Op  string
	Err error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("raven: payload %s: %v", e.Op, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

func (e *EncodingError) Is(target error) bool { return target == ErrEncoding }
