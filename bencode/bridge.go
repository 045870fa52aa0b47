package bencode

import (
	"fmt"
	"math"
	"math/big"
	"sort"
)

// Shared Go-value conversion used by the CBOR and msgpack bridges.
// Both libraries unmarshal into interface{} trees; the shapes below
// cover what either of them produces.

// toGoValue converts a Value to the interface{} shape the bridge
// encoders marshal. Byte strings stay []byte so formats with a native
// binary type keep them binary.
func toGoValue(v *Value) (interface{}, error) {
	if v == nil {
		return nil, fmt.Errorf("bencode: nil value")
	}

	switch v.typ {
	case TypeString:
		return v.strVal, nil

	case TypeInteger:
		return v.intVal, nil

	case TypeList:
		elements := make([]interface{}, 0, len(v.listVal))
		for i, elem := range v.listVal {
			g, err := toGoValue(elem)
			if err != nil {
				return nil, fmt.Errorf("list[%d]: %w", i, err)
			}
			elements = append(elements, g)
		}
		return elements, nil

	case TypeDict:
		obj := make(map[string]interface{}, len(v.dictVal))
		for _, entry := range v.dictVal {
			g, err := toGoValue(entry.Value)
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

// fromGoValue converts an unmarshaled interface{} tree to a Value.
// Values outside the bencode data model (floats, booleans, nil) are
// rejected rather than coerced.
func fromGoValue(v interface{}) (*Value, error) {
	switch val := v.(type) {
	case []byte:
		return Bytes(val), nil

	case string:
		return String(val), nil

	case int:
		return Integer(int64(val)), nil

	case int8:
		return Integer(int64(val)), nil

	case int16:
		return Integer(int64(val)), nil

	case int32:
		return Integer(int64(val)), nil

	case int64:
		return Integer(val), nil

	case uint8:
		return Integer(int64(val)), nil

	case uint16:
		return Integer(int64(val)), nil

	case uint32:
		return Integer(int64(val)), nil

	case uint:
		if uint64(val) > math.MaxInt64 {
			return nil, fmt.Errorf("integer %d overflows int64", val)
		}
		return Integer(int64(val)), nil

	case uint64:
		if val > math.MaxInt64 {
			return nil, fmt.Errorf("integer %d overflows int64", val)
		}
		return Integer(int64(val)), nil

	case *big.Int:
		if !val.IsInt64() {
			return nil, fmt.Errorf("integer %s overflows int64", val)
		}
		return Integer(val.Int64()), nil

	case []interface{}:
		elements := make([]*Value, 0, len(val))
		for i, elem := range val {
			bv, err := fromGoValue(elem)
			if err != nil {
				return nil, fmt.Errorf("list[%d]: %w", i, err)
			}
			elements = append(elements, bv)
		}
		return List(elements...), nil

	case map[string]interface{}:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		entries := make([]DictEntry, 0, len(val))
		for _, k := range keys {
			bv, err := fromGoValue(val[k])
			if err != nil {
				return nil, fmt.Errorf("map[%q]: %w", k, err)
			}
			entries = append(entries, DictEntry{Key: k, Value: bv})
		}
		return Dict(entries...), nil

	case map[interface{}]interface{}:
		// CBOR maps with non-text keys land here; only string or
		// byte-string keys are representable.
		converted := make(map[string]interface{}, len(val))
		for k, elem := range val {
			switch key := k.(type) {
			case string:
				converted[key] = elem
			case []byte:
				converted[string(key)] = elem
			default:
				return nil, fmt.Errorf("map key of type %T is not a byte string", k)
			}
		}
		return fromGoValue(converted)

	default:
		return nil, fmt.Errorf("value of type %T is not representable in bencode", v)
	}
}
