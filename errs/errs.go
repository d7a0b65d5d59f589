// Package errs defines the sentinel errors shared by the wod packages.
//
// Callers match error kinds with errors.Is. Decoding failures additionally carry
// the byte offset and grammar field through *DecodeError, recoverable with errors.As.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrUnexpectedEndOfInput is returned when a field needs more characters than remain.
	ErrUnexpectedEndOfInput = errors.New("unexpected end of input")
	// ErrInvalidDigit is returned when a numeric field holds a non-digit character.
	ErrInvalidDigit = errors.New("invalid digit")
	// ErrInconsistentLevelCount is returned when the level rows do not match the declared count.
	ErrInconsistentLevelCount = errors.New("inconsistent level count")
	// ErrEncodingOverflow is returned when a count or width digit would exceed 9.
	ErrEncodingOverflow = errors.New("encoding overflow")
	// ErrInvalidProbeCode is reported, never raised, for probe codes outside the known table.
	ErrInvalidProbeCode = errors.New("invalid probe code")
	// ErrUnknownDialect is returned for a record whose version marker is not recognised.
	ErrUnknownDialect = errors.New("unknown dialect")
	// ErrLengthMismatch is returned when a declared block size disagrees with the consumed bytes.
	ErrLengthMismatch = errors.New("length mismatch")
	// ErrInvalidProfile is returned when a profile built in memory violates a structural invariant.
	ErrInvalidProfile = errors.New("invalid profile")
	// ErrDuplicateCast is returned when a cast with the same unique number and record content is tracked twice.
	ErrDuplicateCast = errors.New("duplicate cast")
	// ErrDeadlineExceeded is returned when a bounded batch does not finish within its timeout.
	ErrDeadlineExceeded = errors.New("deadline exceeded")
)

// DecodeError locates a decoding failure in the input.
type DecodeError struct {
	Offset int    // byte offset of the failing field, line breaks included
	Field  string // grammar field being decoded
	Err    error  // one of the sentinel errors, possibly wrapped
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s at offset %d: %v", e.Field, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// AtField wraps err into a *DecodeError unless it already is one, in which case
// err is returned as is so the innermost location wins.
func AtField(err error, offset int, field string) error {
	if err == nil {
		return nil
	}

	var de *DecodeError
	if errors.As(err, &de) {
		return err
	}

	return &DecodeError{Offset: offset, Field: field, Err: err}
}
