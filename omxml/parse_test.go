package omxml

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/openmath/openmath-go/om"
)

func mustParse(t *testing.T, in string) *om.Object {
	t.Helper()
	obj, err := Parse([]byte(in))
	if err != nil {
		t.Fatalf("Parse(%q): %v", in, err)
	}
	return obj
}

func TestParseLeaves(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want *om.Object
	}{
		{"integer", `<OMI>2</OMI>`, om.FromInt(2)},
		{"negative integer", `<OMI>-42</OMI>`, om.FromInt(-42)},
		{"signed integer", `<OMI>+42</OMI>`, om.FromInt(42)},
		{"padded integer", "<OMI>\n  17\n</OMI>", om.FromInt(17)},
		{"hex integer", `<OMI>x1A</OMI>`, om.FromInt(26)},
		{"negative hex integer", `<OMI>-x1A</OMI>`, om.FromInt(-26)},
		{"big integer", `<OMI>1267650600228229401496703205376</OMI>`, om.FromIntValue(mustInt(t, "1267650600228229401496703205376"))},
		{"float", `<OMF dec="3.25"/>`, om.FromFloat(3.25)},
		{"float exponent", `<OMF dec="1e+21"/>`, om.FromFloat(1e21)},
		{"float infinity", `<OMF dec="INF"/>`, om.FromFloat(math.Inf(1))},
		{"float negative infinity", `<OMF dec="-INF"/>`, om.FromFloat(math.Inf(-1))},
		{"hex float", `<OMF hex="3ff0000000000000"/>`, om.FromFloat(1)},
		{"string", `<OMSTR>hello</OMSTR>`, om.FromString("hello")},
		{"string entities", `<OMSTR>a &amp;&lt; b&#33;&#x21;</OMSTR>`, om.FromString("a &< b!!")},
		{"empty string", `<OMSTR></OMSTR>`, om.FromString("")},
		{"bytes", `<OMB>aGVsbG8=</OMB>`, om.FromBytes([]byte("hello"))},
		{"bytes with whitespace", "<OMB>aGVs\n  bG8=</OMB>", om.FromBytes([]byte("hello"))},
		{"empty bytes", `<OMB></OMB>`, om.FromBytes(nil)},
		{"variable", `<OMV name="x"/>`, om.Var("x")},
		{"symbol", `<OMS cd="arith1" name="plus"/>`, om.Sym("arith1", "plus")},
		{"symbol with cdbase", `<OMS cdbase="http://www.openmath.org/cd" cd="arith1" name="plus"/>`, om.FromSymbol(om.Symbol{CDBase: "http://www.openmath.org/cd", CD: "arith1", Name: "plus"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustParse(t, tt.in)
			if !om.Equal(got, tt.want) {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func mustInt(t *testing.T, s string) om.Int {
	t.Helper()
	v, err := om.ParseInt(s)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func TestParseNaN(t *testing.T) {
	got := mustParse(t, `<OMF dec="NaN"/>`)
	if got.Kind != om.OMF || !math.IsNaN(got.Float) {
		t.Errorf("got %+v, want NaN", got)
	}
}

func TestParseComposites(t *testing.T) {
	in := `
	<OMA>
	  <OMS cd="arith1" name="plus"/>
	  <OMI>2</OMI>
	  <OMI>3</OMI>
	</OMA>`
	want := om.Apply(om.Sym("arith1", "plus"), om.FromInt(2), om.FromInt(3))
	if got := mustParse(t, in); !om.Equal(got, want) {
		t.Errorf("application parsed wrong: %+v", got)
	}

	in = `<OMBIND><OMS cd="fns1" name="lambda"/><OMBVAR><OMV name="x"/></OMBVAR><OMV name="x"/></OMBIND>`
	wantB := om.Bind(om.Sym("fns1", "lambda"), []*om.Object{om.Var("x")}, om.Var("x"))
	if got := mustParse(t, in); !om.Equal(got, wantB) {
		t.Errorf("binding parsed wrong: %+v", got)
	}

	in = `<OMATTR><OMATP><OMS cd="meta" name="note"/><OMSTR>n</OMSTR></OMATP><OMV name="x"/></OMATTR>`
	wantA := om.Attribute(om.Var("x"), om.Attr{Symbol: om.Symbol{CD: "meta", Name: "note"}, Value: om.FromString("n")})
	if got := mustParse(t, in); !om.Equal(got, wantA) {
		t.Errorf("attribution parsed wrong: %+v", got)
	}

	in = `<OME><OMS cd="aritherror1" name="DivisionByZero"/><OMV name="y"/></OME>`
	wantE := om.ErrorObj(om.Symbol{CD: "aritherror1", Name: "DivisionByZero"}, om.Var("y"))
	if got := mustParse(t, in); !om.Equal(got, wantE) {
		t.Errorf("error object parsed wrong: %+v", got)
	}

	// Zero-argument applications are accepted.
	in = `<OMA><OMS cd="set1" name="emptyset"/></OMA>`
	if got := mustParse(t, in); got.Kind != om.OMA || len(got.Arguments) != 0 {
		t.Errorf("zero-argument application parsed wrong: %+v", got)
	}
}

func TestParseForeign(t *testing.T) {
	in := `<OMFOREIGN encoding="application/mathml+xml"><mi>&lambda;</mi></OMFOREIGN>`
	got := mustParse(t, in)
	want := om.Foreign("application/mathml+xml", []byte(`<mi>&lambda;</mi>`))
	if !om.Equal(got, want) {
		t.Errorf("foreign payload not verbatim: %q", got.Data)
	}

	// Nested same-name elements stay balanced inside the payload.
	in = `<OMFOREIGN>a<OMFOREIGN>b</OMFOREIGN>c</OMFOREIGN>`
	got = mustParse(t, in)
	if string(got.Data) != "a<OMFOREIGN>b</OMFOREIGN>c" {
		t.Errorf("nested foreign payload = %q", got.Data)
	}
}

func TestParseDocumentWrapper(t *testing.T) {
	in := `<?xml version="1.0" encoding="UTF-8"?>
<!-- a document -->
<OMOBJ version="2.0">
  <OMI>1</OMI>
</OMOBJ>
`
	if got := mustParse(t, in); !om.Equal(got, om.FromInt(1)) {
		t.Errorf("wrapped object parsed wrong: %+v", got)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"missing closing tag", `<OMA><OMS cd="a" name="b"/>`},
		{"mismatched closing tag", `<OMA><OMI>1</OMA></OMI>`},
		{"unterminated leaf", `<OMI>12`},
		{"bad integer", `<OMI>12a3</OMI>`},
		{"empty integer", `<OMI></OMI>`},
		{"sign inside hex digits", `<OMI>x-1A</OMI>`},
		{"double sign on hex", `<OMI>-x-1A</OMI>`},
		{"empty hex", `<OMI>x</OMI>`},
		{"bad float", `<OMF dec="1.2.3"/>`},
		{"float without value", `<OMF/>`},
		{"short hex float", `<OMF hex="3ff"/>`},
		{"variable without name", `<OMV/>`},
		{"symbol without cd", `<OMS name="plus"/>`},
		{"symbol without name", `<OMS cd="arith1"/>`},
		{"empty application", `<OMA></OMA>`},
		{"binding without variables group", `<OMBIND><OMS cd="fns1" name="lambda"/><OMV name="x"/></OMBIND>`},
		{"attribution without pair group", `<OMATTR><OMV name="x"/></OMATTR>`},
		{"uneven attribute pairs", `<OMATTR><OMATP><OMS cd="m" name="n"/></OMATP><OMV name="x"/></OMATTR>`},
		{"error without symbol", `<OME><OMI>1</OMI></OME>`},
		{"unknown element", `<OMX/>`},
		{"structure sharing", `<OMR href="#one"/>`},
		{"trailing content", `<OMI>1</OMI><OMI>2</OMI>`},
		{"empty document", `<OMOBJ version="2.0"></OMOBJ>`},
		{"unknown entity", `<OMSTR>&bogus;</OMSTR>`},
		{"bare text", `hello`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, err := Parse([]byte(tt.in))
			if err == nil {
				t.Fatalf("Parse(%q) = %+v, want error", tt.in, obj)
			}
			if !errors.Is(err, om.ErrFormat) {
				t.Errorf("error not classed ErrFormat: %v", err)
			}
			var fe *om.FormatError
			if !errors.As(err, &fe) {
				t.Fatalf("not a FormatError: %v", err)
			}
			if fe.Offset < 0 || fe.Offset > len(tt.in) {
				t.Errorf("offset %d out of range for %q", fe.Offset, tt.in)
			}
		})
	}
}

func TestParseBadBase64Offset(t *testing.T) {
	in := `<OMB>aGV!bG8=</OMB>`
	_, err := Parse([]byte(in))
	if err == nil {
		t.Fatal("bad base64 accepted")
	}
	var fe *om.FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("not a FormatError: %v", err)
	}
	if want := strings.IndexByte(in, '!'); fe.Offset != want {
		t.Errorf("offset = %d, want %d", fe.Offset, want)
	}
}

func TestParseBadPaddingOffset(t *testing.T) {
	// Whitespace inside the content must not shift the reported offset.
	in := "<OMB>aG\n Vs=</OMB>"
	_, err := Parse([]byte(in))
	if err == nil {
		t.Fatal("bad padding accepted")
	}
	var fe *om.FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("not a FormatError: %v", err)
	}
	if fe.Offset < strings.IndexByte(in, 'a') || fe.Offset >= len(in) {
		t.Errorf("offset %d does not point into the content", fe.Offset)
	}
}

type headCount struct {
	sym  om.Symbol
	args int
}

func (h *headCount) BuildOM(node *om.Object) error {
	if node.Kind != om.OMA {
		return om.Unexpected(om.OMA, node.Kind)
	}
	if node.Applicant.Kind != om.OMS {
		return om.Unexpected(om.OMS, node.Applicant.Kind)
	}
	h.sym = node.Applicant.Symbol
	h.args = len(node.Arguments)
	return nil
}

func TestRead(t *testing.T) {
	var h headCount
	err := Read([]byte(`<OMA><OMS cd="arith1" name="plus"/><OMI>2</OMI><OMI>3</OMI></OMA>`), &h)
	if err != nil {
		t.Fatal(err)
	}
	if h.sym != (om.Symbol{CD: "arith1", Name: "plus"}) || h.args != 2 {
		t.Errorf("built %+v", h)
	}

	err = Read([]byte(`<OMI>1</OMI>`), &h)
	if !errors.Is(err, om.ErrSemantic) {
		t.Errorf("want ErrSemantic, got %v", err)
	}
}
