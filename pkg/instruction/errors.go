package instruction

import (
	"errors"
	"fmt"
)

var (
	ErrPayloadTooLarge = errors.New("instruction: payload too large")
	ErrLengthOverflow  = errors.New("instruction: length exceeds u32 prefix")
	ErrMissingAccount  = errors.New("instruction: missing account")
	ErrInvalidArgument = errors.New("instruction: invalid argument")
)

// EncodingError reports an argument that cannot be encoded.
type EncodingError struct {
	Op    Tag
	Field string
	Len   int
	Max   int
	Err   error
}

func (e *EncodingError) Error() string {
	msg := fmt.Sprintf("encode %s.%s", e.Op, e.Field)
	if e.Max > 0 {
		msg += fmt.Sprintf(": length %d exceeds %d", e.Len, e.Max)
	}
	return msg + ": " + e.Err.Error()
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}
