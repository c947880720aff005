// Package omjson reads and writes the OpenMath JSON encoding: one JSON
// object per node, a "kind" tag from the closed element-name vocabulary
// and kind-specific sibling fields.
//
// Integers are written as decimal strings so arbitrary precision values
// survive transport through numeric-typed JSON readers; on reading, the
// numeric literal form is also accepted, but only in plain integer
// syntax: an optional sign and decimal digits, with no exponent or
// fraction part. Non-finite floats use the
// "INF", "-INF" and "NaN" string forms. Byte arrays are base64 text.
// Parse failures are om.FormatError values carrying the document path of
// the defect.
//
// A YAML view of the same mapping is available through EncodeYAML and
// ParseYAML.
package omjson

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/openmath/openmath-go/om"
)

// Encode lowers e to JSON on w, compact form.
func Encode(e om.Emitter, w io.Writer) error {
	js := &jsonSink{}
	if err := e.EmitOM(js); err != nil {
		return err
	}
	if _, err := w.Write(js.buf.Bytes()); err != nil {
		return fmt.Errorf("%w: %w", om.ErrIO, err)
	}
	return nil
}

// EncodeString renders e to a JSON string.
func EncodeString(e om.Emitter) (string, error) {
	var b bytes.Buffer
	if err := Encode(e, &b); err != nil {
		return "", err
	}
	return b.String(), nil
}

// jsonSink is the om.Sink backend producing JSON text directly, so field
// order is fixed: kind first, then the kind-specific fields in their
// declaration order.
type jsonSink struct {
	buf bytes.Buffer
}

func (js *jsonSink) begin(kind om.Kind) {
	js.buf.WriteString(`{"kind":`)
	js.str(kind.String())
}

func (js *jsonSink) finish() error {
	js.buf.WriteByte('}')
	return nil
}

func (js *jsonSink) field(name string) {
	js.buf.WriteByte(',')
	js.str(name)
	js.buf.WriteByte(':')
}

func (js *jsonSink) str(s string) {
	b, _ := json.Marshal(s)
	js.buf.Write(b)
}

func (js *jsonSink) emit(e om.Emitter) error {
	return e.EmitOM(js)
}

func (js *jsonSink) list(es []om.Emitter) error {
	js.buf.WriteByte('[')
	for i, e := range es {
		if i > 0 {
			js.buf.WriteByte(',')
		}
		if err := js.emit(e); err != nil {
			return err
		}
	}
	js.buf.WriteByte(']')
	return nil
}

func (js *jsonSink) OMI(v om.Int) error {
	js.begin(om.OMI)
	js.field("integer")
	js.str(v.String())
	return js.finish()
}

func (js *jsonSink) OMF(f float64) error {
	js.begin(om.OMF)
	js.field("float")
	switch {
	case math.IsInf(f, 1):
		js.str("INF")
	case math.IsInf(f, -1):
		js.str("-INF")
	case math.IsNaN(f):
		js.str("NaN")
	default:
		js.buf.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
	}
	return js.finish()
}

func (js *jsonSink) OMSTR(s string) error {
	js.begin(om.OMSTR)
	js.field("string")
	js.str(s)
	return js.finish()
}

func (js *jsonSink) OMB(b []byte) error {
	js.begin(om.OMB)
	js.field("bytes")
	js.str(base64.StdEncoding.EncodeToString(b))
	return js.finish()
}

func (js *jsonSink) OMV(name string) error {
	js.begin(om.OMV)
	js.field("name")
	js.str(name)
	return js.finish()
}

func (js *jsonSink) symbolFields(s om.Symbol) {
	if s.CDBase != "" {
		js.field("cdbase")
		js.str(s.CDBase)
	}
	js.field("cd")
	js.str(s.CD)
	js.field("name")
	js.str(s.Name)
}

func (js *jsonSink) OMS(s om.Symbol) error {
	js.begin(om.OMS)
	js.symbolFields(s)
	return js.finish()
}

func (js *jsonSink) OMA(head om.Emitter, args []om.Emitter) error {
	js.begin(om.OMA)
	js.field("applicant")
	if err := js.emit(head); err != nil {
		return err
	}
	js.field("arguments")
	if err := js.list(args); err != nil {
		return err
	}
	return js.finish()
}

func (js *jsonSink) OMBIND(binder om.Emitter, vars []om.Emitter, body om.Emitter) error {
	js.begin(om.OMBIND)
	js.field("binder")
	if err := js.emit(binder); err != nil {
		return err
	}
	js.field("variables")
	if err := js.list(vars); err != nil {
		return err
	}
	js.field("object")
	if err := js.emit(body); err != nil {
		return err
	}
	return js.finish()
}

func (js *jsonSink) OMATTR(pairs []om.Pair, object om.Emitter) error {
	js.begin(om.OMATTR)
	js.field("attributes")
	js.buf.WriteByte('[')
	for i, p := range pairs {
		if i > 0 {
			js.buf.WriteByte(',')
		}
		js.buf.WriteByte('[')
		if err := js.OMS(p.Symbol); err != nil {
			return err
		}
		js.buf.WriteByte(',')
		if err := js.emit(p.Value); err != nil {
			return err
		}
		js.buf.WriteByte(']')
	}
	js.buf.WriteByte(']')
	js.field("object")
	if err := js.emit(object); err != nil {
		return err
	}
	return js.finish()
}

func (js *jsonSink) OME(sym om.Symbol, args []om.Emitter) error {
	js.begin(om.OME)
	js.symbolFields(sym)
	js.field("arguments")
	if err := js.list(args); err != nil {
		return err
	}
	return js.finish()
}

func (js *jsonSink) OMFOREIGN(encoding string, data []byte) error {
	js.begin(om.OMFOREIGN)
	if encoding != "" {
		js.field("encoding")
		js.str(encoding)
	}
	js.field("data")
	js.str(string(data))
	return js.finish()
}
