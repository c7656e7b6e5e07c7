package codec

import (
	"errors"
	"fmt"
)

var (
	ErrTruncated             = errors.New("codec: truncated data")
	ErrInvalidValidation     = errors.New("codec: invalid validation kind")
	ErrContentLengthMismatch = errors.New("codec: content length mismatch")
	ErrWidthMismatch         = errors.New("codec: validation id width mismatch")
)

// DecodeError reports where in an account buffer decoding failed.
type DecodeError struct {
	Field  string // logical field name, e.g. "header.staleness_validation"
	Offset int    // absolute offset into the account data, -1 when not applicable
	Want   int
	Got    int
	Err    error
}

func (e *DecodeError) Error() string {
	msg := fmt.Sprintf("decode %s", e.Field)
	if e.Offset >= 0 {
		msg += fmt.Sprintf(" at offset %d", e.Offset)
	}
	switch {
	case e.Want != 0:
		msg += fmt.Sprintf(": want %d, got %d", e.Want, e.Got)
	case e.Got != 0:
		msg += fmt.Sprintf(": value %d", e.Got)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func truncated(field string, offset, want, got int) error {
	return &DecodeError{Field: field, Offset: offset, Want: want, Got: got, Err: ErrTruncated}
}
