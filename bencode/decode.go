package bencode

import (
	"fmt"
	"strconv"
)

// DefaultMaxDepth is the container nesting bound applied when
// DecodeOptions does not set one. Nesting depth is adversary
// controlled, so the recursive descent refuses to go deeper.
const DefaultMaxDepth = 1024

// DecodeOptions configures the decoder.
type DecodeOptions struct {
	// MaxDepth bounds container nesting. Inputs nested deeper are
	// rejected with ErrNestingTooDeep. Zero or negative means
	// DefaultMaxDepth.
	MaxDepth int
}

// DefaultDecodeOptions returns the default decode options.
func DefaultDecodeOptions() DecodeOptions {
	return DecodeOptions{MaxDepth: DefaultMaxDepth}
}

// Decode parses a complete bencode buffer into a Value tree. The
// whole buffer must form exactly one value; unconsumed trailing bytes
// fail with ErrTrailingData. On failure no partial tree is returned.
func Decode(input []byte) (*Value, error) {
	return DecodeWithOptions(input, DefaultDecodeOptions())
}

// DecodeWithOptions parses with explicit options.
func DecodeWithOptions(input []byte, opts DecodeOptions) (*Value, error) {
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	d := &decoder{input: input, maxDepth: maxDepth}
	v, err := d.decodeValue(0)
	if err != nil {
		return nil, err
	}
	if d.pos != len(d.input) {
		return nil, d.errAt(ErrTrailingData, d.pos, "%d unconsumed bytes", len(d.input)-d.pos)
	}
	return v, nil
}

// decoder walks the input with a single forward-only cursor.
type decoder struct {
	input    []byte
	pos      int
	maxDepth int
}

func (d *decoder) errAt(sentinel error, off int, format string, args ...interface{}) error {
	return &DecodeError{Err: sentinel, Offset: off, Detail: fmt.Sprintf(format, args...)}
}

// decodeValue parses any value. One byte of lookahead selects the
// production: digit starts a byte string, 'i' an integer, 'l' a list,
// 'd' a dictionary.
func (d *decoder) decodeValue(depth int) (*Value, error) {
	if d.pos >= len(d.input) {
		return nil, d.errAt(ErrUnexpectedEOF, d.pos, "expected a value")
	}

	switch c := d.input[d.pos]; {
	case c == 'i':
		return d.decodeInteger()
	case c == 'l':
		return d.decodeList(depth)
	case c == 'd':
		return d.decodeDict(depth)
	case c >= '0' && c <= '9':
		return d.decodeString()
	default:
		return nil, d.errAt(ErrInvalidTypePrefix, d.pos, "byte %q starts no value", c)
	}
}

// decodeString parses <length>:<bytes>. The cursor is on the first
// length digit.
func (d *decoder) decodeString() (*Value, error) {
	start := d.pos
	i := d.pos
	for i < len(d.input) && d.input[i] >= '0' && d.input[i] <= '9' {
		i++
	}

	if i >= len(d.input) {
		return nil, d.errAt(ErrUnexpectedEOF, i, "length prefix missing ':'")
	}
	if d.input[i] != ':' {
		return nil, d.errAt(ErrInvalidLength, i, "expected ':' after length, got %q", d.input[i])
	}
	if i-start > 1 && d.input[start] == '0' {
		return nil, d.errAt(ErrInvalidLength, start, "length has leading zero")
	}

	n, err := strconv.ParseInt(string(d.input[start:i]), 10, 63)
	if err != nil {
		return nil, d.errAt(ErrInvalidLength, start, "length %s does not fit", d.input[start:i])
	}

	d.pos = i + 1
	if int64(len(d.input)-d.pos) < n {
		return nil, d.errAt(ErrUnexpectedEOF, len(d.input), "string content truncated, need %d more bytes", n-int64(len(d.input)-d.pos))
	}

	content := d.input[d.pos : d.pos+int(n)]
	d.pos += int(n)
	return Bytes(content), nil
}

// decodeInteger parses i<digits>e. The cursor is on the 'i'.
func (d *decoder) decodeInteger() (*Value, error) {
	d.pos++ // consume 'i'

	i := d.pos
	negative := false
	if i < len(d.input) && d.input[i] == '-' {
		negative = true
		i++
	}

	digitStart := i
	for i < len(d.input) && d.input[i] >= '0' && d.input[i] <= '9' {
		i++
	}

	if i >= len(d.input) {
		return nil, d.errAt(ErrUnexpectedEOF, i, "integer missing terminator 'e'")
	}
	if d.input[i] != 'e' {
		return nil, d.errAt(ErrInvalidInteger, i, "unexpected byte %q in integer", d.input[i])
	}
	if i == digitStart {
		return nil, d.errAt(ErrInvalidInteger, digitStart, "integer has no digits")
	}
	if d.input[digitStart] == '0' {
		if negative {
			return nil, d.errAt(ErrInvalidInteger, digitStart-1, "-0 is not a valid integer")
		}
		if i-digitStart > 1 {
			return nil, d.errAt(ErrInvalidInteger, digitStart, "integer has leading zero")
		}
	}

	n, err := strconv.ParseInt(string(d.input[d.pos:i]), 10, 64)
	if err != nil {
		// Syntax was validated above, so only range errors remain.
		return nil, d.errAt(ErrIntegerOverflow, d.pos, "%s", d.input[d.pos:i])
	}

	d.pos = i + 1
	return Integer(n), nil
}

// decodeList parses l<value>*e. The cursor is on the 'l'.
func (d *decoder) decodeList(depth int) (*Value, error) {
	if depth >= d.maxDepth {
		return nil, d.errAt(ErrNestingTooDeep, d.pos, "exceeds %d levels", d.maxDepth)
	}

	open := d.pos
	d.pos++ // consume 'l'

	var elements []*Value
	for {
		if d.pos >= len(d.input) {
			return nil, d.errAt(ErrUnterminatedContainer, open, "list missing closing 'e'")
		}
		if d.input[d.pos] == 'e' {
			d.pos++
			return List(elements...), nil
		}

		elem, err := d.decodeValue(depth + 1)
		if err != nil {
			return nil, err
		}
		elements = append(elements, elem)
	}
}

// decodeDict parses d(<key><value>)*e. Keys must be byte strings in
// strictly ascending byte order. The cursor is on the 'd'.
func (d *decoder) decodeDict(depth int) (*Value, error) {
	if depth >= d.maxDepth {
		return nil, d.errAt(ErrNestingTooDeep, d.pos, "exceeds %d levels", d.maxDepth)
	}

	open := d.pos
	d.pos++ // consume 'd'

	var entries []DictEntry
	var lastKey string
	for {
		if d.pos >= len(d.input) {
			return nil, d.errAt(ErrUnterminatedContainer, open, "dictionary missing closing 'e'")
		}
		if d.input[d.pos] == 'e' {
			d.pos++
			return Dict(entries...), nil
		}

		keyOff := d.pos
		if c := d.input[d.pos]; c < '0' || c > '9' {
			return nil, d.errAt(ErrNonStringDictKey, keyOff, "key starts with %q", c)
		}
		keyVal, err := d.decodeString()
		if err != nil {
			return nil, err
		}
		key := string(keyVal.strVal)

		if len(entries) > 0 && key <= lastKey {
			return nil, d.errAt(ErrUnsortedKey, keyOff, "key %q follows %q", key, lastKey)
		}

		val, err := d.decodeValue(depth + 1)
		if err != nil {
			return nil, err
		}

		entries = append(entries, DictEntry{Key: key, Value: val})
		lastKey = key
	}
}
