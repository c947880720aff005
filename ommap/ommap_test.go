package ommap

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/openmath/openmath-go/om"
)

type span struct {
	Lo, Hi int64
	Label  string
	note   string // unexported, never mapped
	Skip   bool   `om:"-"`
}

func (s *span) OMSymbol() om.Symbol {
	return om.Symbol{CD: "interval1", Name: "integer_interval"}
}

type taggedSpan struct {
	Lo int64 `om:"cd=interval1,name=integer_interval"`
	Hi int64
}

type basedPoint struct {
	X float64 `om:"cdbase=http://example.org/cd,cd=plangeo1,name=point"`
	Y float64
}

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want *om.Object
	}{
		{"int", 42, om.FromInt(42)},
		{"int64", int64(math.MinInt64), om.FromInt(math.MinInt64)},
		{"uint64 beyond int64", uint64(math.MaxUint64), om.FromIntValue(om.Int64(math.MaxInt64).Add(om.Int64(math.MaxInt64)).Add(om.Int64(1)))},
		{"float", 3.25, om.FromFloat(3.25)},
		{"string", "hi", om.FromString("hi")},
		{"bytes", []byte{1, 2}, om.FromBytes([]byte{1, 2})},
		{"true", true, om.FromSymbol(symTrue)},
		{"false", false, om.FromSymbol(symFalse)},
		{"om int", om.Int64(7), om.FromInt(7)},
		{"object passthrough", om.Var("x"), om.Var("x")},
		{
			"slice",
			[]int{1, 2, 3},
			om.Apply(om.FromSymbol(symList), om.FromInt(1), om.FromInt(2), om.FromInt(3)),
		},
		{
			"nested slice",
			[][]string{{"a"}, {}},
			om.Apply(om.FromSymbol(symList),
				om.Apply(om.FromSymbol(symList), om.FromString("a")),
				om.Apply(om.FromSymbol(symList)),
			),
		},
		{
			"struct",
			&span{Lo: 1, Hi: 9, Label: "d", note: "x", Skip: true},
			om.Apply(
				om.FromSymbol(om.Symbol{CD: "interval1", Name: "integer_interval"}),
				om.FromInt(1), om.FromInt(9), om.FromString("d"),
			),
		},
		{
			"tagged struct",
			taggedSpan{Lo: 1, Hi: 9},
			om.Apply(
				om.FromSymbol(om.Symbol{CD: "interval1", Name: "integer_interval"}),
				om.FromInt(1), om.FromInt(9),
			),
		},
		{
			"tagged struct with cdbase",
			basedPoint{X: 1, Y: 2},
			om.Apply(
				om.FromSymbol(om.Symbol{CDBase: "http://example.org/cd", CD: "plangeo1", Name: "point"}),
				om.FromFloat(1), om.FromFloat(2),
			),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.v)
			if err != nil {
				t.Fatal(err)
			}
			if !om.Equal(got, tt.want) {
				t.Errorf("Encode(%v) = %+v, want %+v", tt.v, got, tt.want)
			}
		})
	}
}

func TestEncodeUnsupported(t *testing.T) {
	for _, v := range []any{make(chan int), map[string]int{}, struct{ X int }{1}} {
		if _, err := Encode(v); !errors.Is(err, om.ErrSemantic) {
			t.Errorf("Encode(%T) = %v, want ErrSemantic", v, err)
		}
	}
	if _, err := Encode(nil); err == nil {
		t.Error("Encode(nil) succeeded")
	}
}

func TestDecode(t *testing.T) {
	var i int
	if err := Decode(om.FromInt(42), &i); err != nil || i != 42 {
		t.Errorf("int = %d, %v", i, err)
	}
	var f float64
	if err := Decode(om.FromFloat(2.5), &f); err != nil || f != 2.5 {
		t.Errorf("float = %v, %v", f, err)
	}
	var s string
	if err := Decode(om.FromString("hi"), &s); err != nil || s != "hi" {
		t.Errorf("string = %q, %v", s, err)
	}
	var b bool
	if err := Decode(om.FromSymbol(symTrue), &b); err != nil || !b {
		t.Errorf("bool = %v, %v", b, err)
	}
	var bs []byte
	if err := Decode(om.FromBytes([]byte{1, 2}), &bs); err != nil || len(bs) != 2 {
		t.Errorf("bytes = %v, %v", bs, err)
	}
	var v om.Int
	if err := Decode(om.FromIntValue(om.Int64(math.MaxInt64).Add(om.Int64(1))), &v); err != nil || v.IsInt64() {
		t.Errorf("om.Int = %s, %v", v, err)
	}

	var xs []int
	list := om.Apply(om.FromSymbol(symList), om.FromInt(1), om.FromInt(2))
	if err := Decode(list, &xs); err != nil || len(xs) != 2 || xs[1] != 2 {
		t.Errorf("slice = %v, %v", xs, err)
	}

	var sp span
	app := om.Apply(
		om.FromSymbol(om.Symbol{CD: "interval1", Name: "integer_interval"}),
		om.FromInt(1), om.FromInt(9), om.FromString("d"),
	)
	if err := Decode(app, &sp); err != nil {
		t.Fatal(err)
	}
	if sp.Lo != 1 || sp.Hi != 9 || sp.Label != "d" {
		t.Errorf("struct = %+v", sp)
	}

	var ts taggedSpan
	tagged := om.Apply(
		om.FromSymbol(om.Symbol{CD: "interval1", Name: "integer_interval"}),
		om.FromInt(4), om.FromInt(7),
	)
	if err := Decode(tagged, &ts); err != nil {
		t.Fatal(err)
	}
	if ts.Lo != 4 || ts.Hi != 7 {
		t.Errorf("tagged struct = %+v", ts)
	}
}

func TestTaggedStructRoundTrip(t *testing.T) {
	in := basedPoint{X: -0.5, Y: 2}
	node, err := Encode(in)
	if err != nil {
		t.Fatal(err)
	}
	var out basedPoint
	if err := Decode(node, &out); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("round trip mismatch:\n%s", diff)
	}
}

func TestStructTagErrors(t *testing.T) {
	type half struct {
		Lo int64 `om:"cd=interval1"`
	}
	type dup struct {
		Lo int64 `om:"cd=interval1,name=integer_interval"`
		Hi int64 `om:"cd=interval1,name=interval"`
	}
	for _, v := range []any{half{Lo: 1}, dup{Lo: 1, Hi: 2}} {
		if _, err := Encode(v); !errors.Is(err, om.ErrSemantic) {
			t.Errorf("Encode(%T) = %v, want ErrSemantic", v, err)
		}
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	in := []span{{Lo: 1, Hi: 2, Label: "a"}, {Lo: -3, Hi: 3, Label: "b"}}
	node, err := Encode(in)
	if err != nil {
		t.Fatal(err)
	}
	var out []span
	if err := Decode(node, &out); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(in, out, cmp.AllowUnexported(span{})); diff != "" {
		t.Errorf("round trip mismatch:\n%s", diff)
	}
}

func TestDecodeErrors(t *testing.T) {
	interval := om.Symbol{CD: "interval1", Name: "integer_interval"}
	tests := []struct {
		name string
		node *om.Object
		dst  func() any
		kind om.SemanticKind
	}{
		{"kind mismatch", om.FromString("x"), func() any { var i int; return &i }, om.UnexpectedKind},
		{"overflow int8", om.FromInt(1000), func() any { var i int8; return &i }, om.HostDefined},
		{"big into int64", om.FromIntValue(om.Int64(math.MaxInt64).Add(om.Int64(1))), func() any { var i int64; return &i }, om.HostDefined},
		{"negative into uint", om.FromInt(-1), func() any { var u uint; return &u }, om.HostDefined},
		{"bad truth symbol", om.Sym("logic1", "xor"), func() any { var b bool; return &b }, om.InvalidSymbol},
		{"wrong list head", om.Apply(om.Sym("arith1", "plus"), om.FromInt(1)), func() any { var xs []int; return &xs }, om.InvalidSymbol},
		{"struct arity", om.Apply(om.FromSymbol(interval), om.FromInt(1)), func() any { return &span{} }, om.ArityMismatch},
		{"struct head", om.Apply(om.Sym("interval1", "interval"), om.FromInt(1), om.FromInt(2), om.FromString("l")), func() any { return &span{} }, om.InvalidSymbol},
		{"struct not application", om.Var("x"), func() any { return &span{} }, om.UnexpectedKind},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Decode(tt.node, tt.dst())
			if err == nil {
				t.Fatal("expected error")
			}
			var se *om.SemanticError
			if !errors.As(err, &se) {
				t.Fatalf("not a SemanticError: %v", err)
			}
			if se.Kind != tt.kind {
				t.Errorf("kind = %s, want %s", se.Kind, tt.kind)
			}
		})
	}
}

func TestDecodeErrorPath(t *testing.T) {
	list := om.Apply(om.FromSymbol(symList), om.FromInt(1), om.FromString("x"))
	var xs []int
	err := Decode(list, &xs)
	var se *om.SemanticError
	if !errors.As(err, &se) {
		t.Fatalf("not a SemanticError: %v", err)
	}
	if se.Path != "arguments[1]" {
		t.Errorf("path = %q", se.Path)
	}
}
