package bencode

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"unicode/utf8"
)

// ============================================================
// JSON Bridge
// ============================================================
//
// Converts between JSON and Value for tooling and interop.
// Supports two modes:
//   - Strict (default): fully JSON compatible; byte strings must be
//     valid UTF-8 and JSON numbers must be whole
//   - Extended: uses a $bencode:b64 marker object for lossless
//     round-trip of binary byte strings

// bytesMarker wraps binary strings in Extended mode:
// {"$bencode:b64": "<base64>"}
const bytesMarker = "$bencode:b64"

// BridgeOpts configures JSON bridge behavior.
type BridgeOpts struct {
	// Extended enables the $bencode:b64 marker for lossless
	// round-trip of byte strings that are not valid UTF-8. When
	// false (default), such strings make ToJSON fail and marker
	// objects are treated as plain dictionaries by FromJSON.
	Extended bool
}

// DefaultBridgeOpts returns the default (strict/JSON-compatible) options.
func DefaultBridgeOpts() BridgeOpts {
	return BridgeOpts{Extended: false}
}

// ============================================================
// FromJSON - JSON to Value
// ============================================================

// FromJSON converts JSON bytes to a Value using strict mode.
func FromJSON(data []byte) (*Value, error) {
	return FromJSONWithOpts(data, DefaultBridgeOpts())
}

// FromJSONWithOpts converts JSON bytes to a Value with options.
func FromJSONWithOpts(data []byte, opts BridgeOpts) (*Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber() // keep full int64 precision

	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("JSON parse error: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("JSON parse error: trailing data after value")
	}
	return fromJSONValue(v, opts)
}

func fromJSONValue(v interface{}, opts BridgeOpts) (*Value, error) {
	switch val := v.(type) {
	case nil:
		return nil, fmt.Errorf("null is not representable in bencode")

	case bool:
		return nil, fmt.Errorf("booleans are not representable in bencode")

	case json.Number:
		n, err := strconv.ParseInt(string(val), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("number %s is not a bencode integer", val)
		}
		return Integer(n), nil

	case string:
		return String(val), nil

	case []interface{}:
		elements := make([]*Value, 0, len(val))
		for i, elem := range val {
			bv, err := fromJSONValue(elem, opts)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			elements = append(elements, bv)
		}
		return List(elements...), nil

	case map[string]interface{}:
		if opts.Extended && len(val) == 1 {
			if b64, ok := val[bytesMarker].(string); ok {
				raw, err := base64.StdEncoding.DecodeString(b64)
				if err != nil {
					return nil, fmt.Errorf("invalid %s payload: %w", bytesMarker, err)
				}
				return Bytes(raw), nil
			}
		}

		// JSON object keys have no defined order; sort for a
		// deterministic tree.
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		entries := make([]DictEntry, 0, len(val))
		for _, k := range keys {
			bv, err := fromJSONValue(val[k], opts)
			if err != nil {
				return nil, fmt.Errorf("object[%q]: %w", k, err)
			}
			entries = append(entries, DictEntry{Key: k, Value: bv})
		}
		return Dict(entries...), nil

	default:
		return nil, fmt.Errorf("unsupported JSON value of type %T", v)
	}
}

// ============================================================
// ToJSON - Value to JSON
// ============================================================

// ToJSON converts a Value to JSON bytes using strict mode.
func ToJSON(v *Value) ([]byte, error) {
	return ToJSONWithOpts(v, DefaultBridgeOpts())
}

// ToJSONWithOpts converts a Value to JSON bytes with options.
func ToJSONWithOpts(v *Value, opts BridgeOpts) ([]byte, error) {
	g, err := toJSONValue(v, opts)
	if err != nil {
		return nil, err
	}
	return json.Marshal(g)
}

func toJSONValue(v *Value, opts BridgeOpts) (interface{}, error) {
	if v == nil {
		return nil, fmt.Errorf("bencode: nil value")
	}

	switch v.typ {
	case TypeString:
		if utf8.Valid(v.strVal) {
			return string(v.strVal), nil
		}
		if opts.Extended {
			return map[string]interface{}{
				bytesMarker: base64.StdEncoding.EncodeToString(v.strVal),
			}, nil
		}
		return nil, fmt.Errorf("byte string is not valid UTF-8 (enable Extended mode)")

	case TypeInteger:
		return v.intVal, nil

	case TypeList:
		elements := make([]interface{}, 0, len(v.listVal))
		for i, elem := range v.listVal {
			g, err := toJSONValue(elem, opts)
			if err != nil {
				return nil, fmt.Errorf("list[%d]: %w", i, err)
			}
			elements = append(elements, g)
		}
		return elements, nil

	case TypeDict:
		obj := make(map[string]interface{}, len(v.dictVal))
		for _, entry := range v.dictVal {
			if !utf8.ValidString(entry.Key) {
				return nil, fmt.Errorf("dictionary key %q is not valid UTF-8", entry.Key)
			}
			g, err := toJSONValue(entry.Value, opts)
			if err != nil {
				return nil, fmt.Errorf("dict[%q]: %w", entry.Key, err)
			}
			obj[entry.Key] = g
		}
		return obj, nil

	default:
		return nil, fmt.Errorf("unknown value type %d", v.typ)
	}
}
