package om

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
)

// Int is an arbitrary precision integer optimized for small values.
//
// Values that fit in an int64 are stored inline; anything larger is held
// in a big.Int. The representation is canonical: the big arm is populated
// iff the value does not fit in int64, and every constructor and every
// arithmetic operation maintains that. Equality, ordering and rendering
// are representation independent.
type Int struct {
	small int64
	big   *big.Int // nil iff the value fits in small
}

// Int64 returns the Int holding v.
func Int64(v int64) Int {
	return Int{small: v}
}

// IntFromBig returns the Int holding v, normalizing to the small form
// when v fits in an int64. The big.Int is copied; later mutation of v
// does not affect the result.
func IntFromBig(v *big.Int) Int {
	if v.IsInt64() {
		return Int{small: v.Int64()}
	}
	return Int{big: new(big.Int).Set(v)}
}

// ParseInt parses a decimal integer literal with an optional leading sign.
// An empty string or any non-digit character is a FormatError.
func ParseInt(s string) (Int, error) {
	if err := checkDecimal(s); err != nil {
		return Int{}, err
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int{small: v}, nil
	}
	b, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Int{}, &FormatError{Offset: -1, Msg: fmt.Sprintf("malformed integer literal %q", s)}
	}
	return IntFromBig(b), nil
}

// ParseIntBase parses an integer literal in the given base (10 or 16),
// normalizing to the canonical decimal-valued form. Base-16 literals are
// an unsigned digit run; callers keep any sign outside of it.
func ParseIntBase(s string, base int) (Int, error) {
	if base == 10 {
		return ParseInt(s)
	}
	if err := checkHex(s); err != nil {
		return Int{}, err
	}
	b, ok := new(big.Int).SetString(s, base)
	if !ok {
		return Int{}, &FormatError{Offset: -1, Msg: fmt.Sprintf("malformed base-%d integer literal %q", base, s)}
	}
	return IntFromBig(b), nil
}

func checkHex(s string) error {
	if len(s) == 0 {
		return &FormatError{Offset: -1, Msg: fmt.Sprintf("malformed hexadecimal integer literal %q", s)}
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return &FormatError{Offset: -1, Msg: fmt.Sprintf("malformed hexadecimal integer literal %q", s)}
		}
	}
	return nil
}

func checkDecimal(s string) error {
	d := s
	if len(d) > 0 && (d[0] == '+' || d[0] == '-') {
		d = d[1:]
	}
	if len(d) == 0 {
		return &FormatError{Offset: -1, Msg: fmt.Sprintf("malformed integer literal %q", s)}
	}
	for i := 0; i < len(d); i++ {
		if d[i] < '0' || d[i] > '9' {
			return &FormatError{Offset: -1, Msg: fmt.Sprintf("malformed integer literal %q", s)}
		}
	}
	return nil
}

// IsInt64 reports whether the value is stored in (and fits) the small form.
func (x Int) IsInt64() bool {
	return x.big == nil
}

// AsInt64 returns the small form value and whether it applies.
func (x Int) AsInt64() (int64, bool) {
	if x.big != nil {
		return 0, false
	}
	return x.small, true
}

// Big returns the value as a freshly allocated big.Int, regardless of
// representation.
func (x Int) Big() *big.Int {
	if x.big != nil {
		return new(big.Int).Set(x.big)
	}
	return big.NewInt(x.small)
}

// ref returns a big.Int view for arithmetic. Read only.
func (x Int) ref() *big.Int {
	if x.big != nil {
		return x.big
	}
	return big.NewInt(x.small)
}

func (x Int) IsZero() bool {
	return x.big == nil && x.small == 0
}

// Sign returns -1, 0, or 1.
func (x Int) Sign() int {
	if x.big != nil {
		return x.big.Sign()
	}
	switch {
	case x.small < 0:
		return -1
	case x.small > 0:
		return 1
	}
	return 0
}

// Cmp compares x and y, returning -1, 0, or 1. The result does not depend
// on which arm holds either value.
func (x Int) Cmp(y Int) int {
	if x.big == nil && y.big == nil {
		switch {
		case x.small < y.small:
			return -1
		case x.small > y.small:
			return 1
		}
		return 0
	}
	return x.ref().Cmp(y.ref())
}

func (x Int) Equal(y Int) bool {
	return x.Cmp(y) == 0
}

// Add returns x + y, promoting to the big form only on int64 overflow.
func (x Int) Add(y Int) Int {
	if x.big == nil && y.big == nil {
		r := x.small + y.small
		if !((y.small > 0 && r < x.small) || (y.small < 0 && r > x.small)) {
			return Int{small: r}
		}
	}
	return IntFromBig(new(big.Int).Add(x.ref(), y.ref()))
}

// Sub returns x - y.
func (x Int) Sub(y Int) Int {
	if x.big == nil && y.big == nil {
		r := x.small - y.small
		if !((y.small < 0 && r < x.small) || (y.small > 0 && r > x.small)) {
			return Int{small: r}
		}
	}
	return IntFromBig(new(big.Int).Sub(x.ref(), y.ref()))
}

// Mul returns x * y.
func (x Int) Mul(y Int) Int {
	if x.big == nil && y.big == nil {
		a, b := x.small, y.small
		if a == 0 || b == 0 {
			return Int{}
		}
		if !(a == math.MinInt64 && b == -1) && !(b == math.MinInt64 && a == -1) {
			r := a * b
			if r/b == a {
				return Int{small: r}
			}
		}
	}
	return IntFromBig(new(big.Int).Mul(x.ref(), y.ref()))
}

// Neg returns -x.
func (x Int) Neg() Int {
	if x.big == nil && x.small != math.MinInt64 {
		return Int{small: -x.small}
	}
	return IntFromBig(new(big.Int).Neg(x.ref()))
}

// String renders the canonical decimal form used by every codec.
func (x Int) String() string {
	if x.big != nil {
		return x.big.String()
	}
	return strconv.FormatInt(x.small, 10)
}
