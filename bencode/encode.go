package bencode

import (
	"bytes"
	"strconv"
)

// Encode serializes a Value tree into its canonical byte form. It is
// total over well-formed trees: integers are emitted with minimal
// digits and dictionary entries are re-sorted by ascending byte order
// of the key regardless of how the tree was built, so structurally
// equal trees always produce byte-identical output.
//
// Encoding a nil value is a programming error and panics.
func Encode(v *Value) []byte {
	e := &encoder{}
	e.emit(v)
	return e.buf.Bytes()
}

type encoder struct {
	buf bytes.Buffer
}

func (e *encoder) emit(v *Value) {
	if v == nil {
		panic("bencode: cannot encode nil value")
	}

	switch v.typ {
	case TypeString:
		e.buf.WriteString(strconv.Itoa(len(v.strVal)))
		e.buf.WriteByte(':')
		e.buf.Write(v.strVal)

	case TypeInteger:
		e.buf.WriteByte('i')
		e.buf.WriteString(strconv.FormatInt(v.intVal, 10))
		e.buf.WriteByte('e')

	case TypeList:
		e.buf.WriteByte('l')
		for _, elem := range v.listVal {
			e.emit(elem)
		}
		e.buf.WriteByte('e')

	case TypeDict:
		e.buf.WriteByte('d')
		for _, entry := range sortDictEntries(v.dictVal) {
			e.buf.WriteString(strconv.Itoa(len(entry.Key)))
			e.buf.WriteByte(':')
			e.buf.WriteString(entry.Key)
			e.emit(entry.Value)
		}
		e.buf.WriteByte('e')
	}
}

// sortDictEntries returns entries sorted by ascending byte order of
// the key. Duplicate keys collapse to the last entry, matching Set
// replace semantics; decoded trees can never contain duplicates.
func sortDictEntries(entries []DictEntry) []DictEntry {
	if len(entries) <= 1 {
		return entries
	}

	sorted := make([]DictEntry, len(entries))
	copy(sorted, entries)

	// Insertion sort, stable (dictionaries are typically small)
	for i := 1; i < len(sorted); i++ {
		j := i
		for j > 0 && sorted[j].Key < sorted[j-1].Key {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
			j--
		}
	}

	dst := sorted[:0]
	for i := range sorted {
		if len(dst) > 0 && dst[len(dst)-1].Key == sorted[i].Key {
			dst[len(dst)-1] = sorted[i]
			continue
		}
		dst = append(dst, sorted[i])
	}
	return dst
}
