package bencode

import (
	"errors"
	"fmt"
)

// Decode failure kinds. The set is closed: every decode failure wraps
// exactly one of these sentinels and can be matched with errors.Is.
var (
	ErrUnexpectedEOF         = errors.New("bencode: unexpected end of input")
	ErrInvalidLength         = errors.New("bencode: invalid string length prefix")
	ErrInvalidInteger        = errors.New("bencode: invalid integer")
	ErrIntegerOverflow       = errors.New("bencode: integer out of int64 range")
	ErrInvalidTypePrefix     = errors.New("bencode: invalid type prefix")
	ErrUnterminatedContainer = errors.New("bencode: unterminated container")
	ErrNonStringDictKey      = errors.New("bencode: dictionary key is not a byte string")
	ErrUnsortedKey           = errors.New("bencode: dictionary keys not in strict ascending order")
	ErrTrailingData          = errors.New("bencode: trailing data after top-level value")
	ErrNestingTooDeep        = errors.New("bencode: nesting too deep")
)

// DecodeError reports a decode failure with the byte offset at which
// it was detected. Err is one of the package sentinels above.
type DecodeError struct {
	Err    error
	Offset int
	Detail string
}

func (e *DecodeError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%v: %s (offset %d)", e.Err, e.Detail, e.Offset)
	}
	return fmt.Sprintf("%v (offset %d)", e.Err, e.Offset)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
