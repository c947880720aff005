package omxml

import (
	"encoding/base64"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/openmath/openmath-go/om"
)

// Encode lowers e to markup on w. Output is compact wire form by
// default; see the options for indentation, the OMOBJ document wrapper
// and terminal colors.
func Encode(e om.Emitter, w io.Writer, opts ...EncodeOption) error {
	es := &EncState{w: w}
	for _, opt := range opts {
		opt(es)
	}
	return es.encodeDocument(e)
}

// EncodeString renders e to a markup string.
func EncodeString(e om.Emitter, opts ...EncodeOption) (string, error) {
	var b strings.Builder
	if err := Encode(e, &b, opts...); err != nil {
		return "", err
	}
	return b.String(), nil
}

// EncState carries the writer state threaded through one encoding.
type EncState struct {
	w        io.Writer
	indent   string
	depth    int
	document bool
	hexFloat bool
	color    func(om.Kind, ColorAttr, string) string
}

func (es *EncState) encodeDocument(e om.Emitter) error {
	if !es.document {
		return e.EmitOM(es)
	}
	if err := es.open(om.OMA, "OMOBJ", []xattr{{"version", "2.0"}}, false); err != nil {
		return err
	}
	es.depth++
	if err := es.child(e); err != nil {
		return err
	}
	es.depth--
	return es.closeTag(om.OMA, "OMOBJ")
}

type xattr struct {
	name, value string
}

func (es *EncState) write(s string) error {
	if _, err := io.WriteString(es.w, s); err != nil {
		return fmt.Errorf("%w: %w", om.ErrIO, err)
	}
	return nil
}

func (es *EncState) paint(k om.Kind, a ColorAttr, s string) string {
	if es.color == nil {
		return s
	}
	return es.color(k, a, s)
}

// open writes a start tag, self-closing when self is set.
func (es *EncState) open(k om.Kind, name string, attrs []xattr, self bool) error {
	var b strings.Builder
	b.WriteString(es.paint(k, TagColor, "<"+name))
	for _, a := range attrs {
		b.WriteString(" ")
		b.WriteString(es.paint(k, AttrNameColor, a.name))
		b.WriteString(es.paint(k, TagColor, `="`))
		b.WriteString(es.paint(k, AttrValueColor, escapeAttr(a.value)))
		b.WriteString(es.paint(k, TagColor, `"`))
	}
	if self {
		b.WriteString(es.paint(k, TagColor, "/>"))
	} else {
		b.WriteString(es.paint(k, TagColor, ">"))
	}
	return es.write(b.String())
}

func (es *EncState) closeTag(k om.Kind, name string) error {
	return es.write(es.paint(k, TagColor, "</"+name+">"))
}

// leaf writes a complete element with text content.
func (es *EncState) leaf(k om.Kind, name, text string) error {
	if err := es.open(k, name, nil, false); err != nil {
		return err
	}
	if err := es.write(es.paint(k, TextColor, escapeText(text))); err != nil {
		return err
	}
	return es.closeTag(k, name)
}

// child emits one nested object, on its own indented line when
// indentation is on.
func (es *EncState) child(e om.Emitter) error {
	if err := es.newline(); err != nil {
		return err
	}
	return e.EmitOM(es)
}

func (es *EncState) newline() error {
	if es.indent == "" {
		return nil
	}
	return es.write("\n" + strings.Repeat(es.indent, es.depth))
}

// container writes an element whose content is emitted by f, indenting
// the closing tag back to the container's depth.
func (es *EncState) container(k om.Kind, name string, attrs []xattr, f func() error) error {
	if err := es.open(k, name, attrs, false); err != nil {
		return err
	}
	es.depth++
	if err := f(); err != nil {
		return err
	}
	es.depth--
	if err := es.newline(); err != nil {
		return err
	}
	return es.closeTag(k, name)
}

func (es *EncState) OMI(v om.Int) error {
	return es.leaf(om.OMI, "OMI", v.String())
}

func (es *EncState) OMF(f float64) error {
	if es.hexFloat {
		hex := fmt.Sprintf("%016x", math.Float64bits(f))
		return es.open(om.OMF, "OMF", []xattr{{"hex", hex}}, true)
	}
	return es.open(om.OMF, "OMF", []xattr{{"dec", formatFloat(f)}}, true)
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "INF"
	case math.IsInf(f, -1):
		return "-INF"
	case math.IsNaN(f):
		return "NaN"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func (es *EncState) OMSTR(s string) error {
	return es.leaf(om.OMSTR, "OMSTR", s)
}

func (es *EncState) OMB(b []byte) error {
	return es.leaf(om.OMB, "OMB", base64.StdEncoding.EncodeToString(b))
}

func (es *EncState) OMV(name string) error {
	return es.open(om.OMV, "OMV", []xattr{{"name", name}}, true)
}

func (es *EncState) OMS(s om.Symbol) error {
	return es.open(om.OMS, "OMS", symbolAttrs(s), true)
}

func symbolAttrs(s om.Symbol) []xattr {
	attrs := make([]xattr, 0, 3)
	if s.CDBase != "" {
		attrs = append(attrs, xattr{"cdbase", s.CDBase})
	}
	return append(attrs, xattr{"cd", s.CD}, xattr{"name", s.Name})
}

func (es *EncState) OMA(head om.Emitter, args []om.Emitter) error {
	return es.container(om.OMA, "OMA", nil, func() error {
		if err := es.child(head); err != nil {
			return err
		}
		for _, a := range args {
			if err := es.child(a); err != nil {
				return err
			}
		}
		return nil
	})
}

func (es *EncState) OMBIND(binder om.Emitter, vars []om.Emitter, body om.Emitter) error {
	return es.container(om.OMBIND, "OMBIND", nil, func() error {
		if err := es.child(binder); err != nil {
			return err
		}
		if err := es.newline(); err != nil {
			return err
		}
		err := es.container(om.OMBIND, "OMBVAR", nil, func() error {
			for _, v := range vars {
				if err := es.child(v); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
		return es.child(body)
	})
}

func (es *EncState) OMATTR(pairs []om.Pair, object om.Emitter) error {
	return es.container(om.OMATTR, "OMATTR", nil, func() error {
		if err := es.newline(); err != nil {
			return err
		}
		err := es.container(om.OMATTR, "OMATP", nil, func() error {
			for _, p := range pairs {
				if err := es.newline(); err != nil {
					return err
				}
				if err := es.OMS(p.Symbol); err != nil {
					return err
				}
				if err := es.child(p.Value); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
		return es.child(object)
	})
}

func (es *EncState) OME(sym om.Symbol, args []om.Emitter) error {
	return es.container(om.OME, "OME", nil, func() error {
		if err := es.newline(); err != nil {
			return err
		}
		if err := es.OMS(sym); err != nil {
			return err
		}
		for _, a := range args {
			if err := es.child(a); err != nil {
				return err
			}
		}
		return nil
	})
}

func (es *EncState) OMFOREIGN(encoding string, data []byte) error {
	var attrs []xattr
	if encoding != "" {
		attrs = []xattr{{"encoding", encoding}}
	}
	if err := es.open(om.OMFOREIGN, "OMFOREIGN", attrs, false); err != nil {
		return err
	}
	// Foreign payload goes out verbatim, no escaping and no indentation.
	if err := es.write(string(data)); err != nil {
		return err
	}
	return es.closeTag(om.OMFOREIGN, "OMFOREIGN")
}

func escapeText(s string) string {
	return textEscaper.Replace(s)
}

func escapeAttr(s string) string {
	return attrEscaper.Replace(s)
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
)
