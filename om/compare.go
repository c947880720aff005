package om

import (
	"bytes"
	"math"
	"strings"
)

// Compare defines a total order over Objects so they can key sorted
// containers. Kinds rank in declaration order; floats compare by the
// IEEE 754 total order (so NaN is ordered rather than poisonous);
// composites compare child by child.
func Compare(a, b *Object) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	if a.Kind != b.Kind {
		if a.Kind < b.Kind {
			return -1
		}
		return 1
	}
	switch a.Kind {
	case OMI:
		return a.Int.Cmp(b.Int)
	case OMF:
		return cmpOrd(floatOrd(a.Float), floatOrd(b.Float))
	case OMSTR:
		return strings.Compare(a.String, b.String)
	case OMB:
		return bytes.Compare(a.Bytes, b.Bytes)
	case OMV:
		return strings.Compare(a.Name, b.Name)
	case OMS:
		return cmpSymbol(a.Symbol, b.Symbol)
	case OMA:
		if c := Compare(a.Applicant, b.Applicant); c != 0 {
			return c
		}
		return cmpSlice(a.Arguments, b.Arguments)
	case OMBIND:
		if c := Compare(a.Applicant, b.Applicant); c != 0 {
			return c
		}
		if c := cmpSlice(a.Variables, b.Variables); c != 0 {
			return c
		}
		return Compare(a.Body, b.Body)
	case OMATTR:
		if c := cmpAttrs(a.Attrs, b.Attrs); c != 0 {
			return c
		}
		return Compare(a.Body, b.Body)
	case OME:
		if c := cmpSymbol(a.Symbol, b.Symbol); c != 0 {
			return c
		}
		return cmpSlice(a.Arguments, b.Arguments)
	case OMFOREIGN:
		if c := strings.Compare(a.Encoding, b.Encoding); c != 0 {
			return c
		}
		return bytes.Compare(a.Data, b.Data)
	}
	return 0
}

// Equal is structural equality under Compare.
func Equal(a, b *Object) bool {
	return Compare(a, b) == 0
}

// floatOrd maps a float64 onto a uint64 whose natural order is the
// IEEE 754 totalOrder of the float.
func floatOrd(f float64) uint64 {
	b := math.Float64bits(f)
	if b&(1<<63) != 0 {
		return ^b
	}
	return b | (1 << 63)
}

func cmpOrd(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpSymbol(a, b Symbol) int {
	if c := strings.Compare(a.CDBase, b.CDBase); c != 0 {
		return c
	}
	if c := strings.Compare(a.CD, b.CD); c != 0 {
		return c
	}
	return strings.Compare(a.Name, b.Name)
}

func cmpSlice(a, b []*Object) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	for i := range a {
		if c := Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return 0
}

func cmpAttrs(a, b []Attr) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	for i := range a {
		if c := cmpSymbol(a[i].Symbol, b[i].Symbol); c != 0 {
			return c
		}
		if c := Compare(a[i].Value, b[i].Value); c != 0 {
			return c
		}
	}
	return 0
}
