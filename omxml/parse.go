// Package omxml reads and writes the OpenMath 2.0 XML encoding.
//
// The reader is a recursive descent parser over an in-memory document.
// The writer is an om.Sink, so any Emitter streams straight to markup
// with no intermediate tree. Parse failures are om.FormatError values
// carrying the byte offset of the defect; no partial object is returned.
package omxml

import (
	"encoding/base64"
	"math"
	"strconv"
	"strings"

	"github.com/openmath/openmath-go/om"
)

// Parse reads one OpenMath object, with or without its OMOBJ document
// wrapper, and returns the tree. Anything but trailing whitespace and
// comments after the object is an error.
func Parse(data []byte) (*om.Object, error) {
	s := newScanner(data)
	e, err := s.start()
	if err != nil {
		return nil, err
	}
	var obj *om.Object
	if e.name == "OMOBJ" {
		if e.close {
			return nil, s.errf(e.off, "empty OMOBJ")
		}
		inner, err := s.start()
		if err != nil {
			return nil, err
		}
		if obj, err = parseObject(s, inner); err != nil {
			return nil, err
		}
		if err := s.end("OMOBJ"); err != nil {
			return nil, err
		}
	} else if obj, err = parseObject(s, e); err != nil {
		return nil, err
	}
	if err := s.skipMisc(); err != nil {
		return nil, err
	}
	if !s.eof() {
		return nil, s.errf(s.off, "trailing content after object")
	}
	return obj, nil
}

// Read parses data and hands the tree to a construction-interface host.
func Read(data []byte, b om.Builder) error {
	obj, err := Parse(data)
	if err != nil {
		return err
	}
	return b.BuildOM(obj)
}

// parseObject reads the object whose start tag e the scanner has already
// consumed, including its end tag.
func parseObject(s *scanner, e *elem) (*om.Object, error) {
	switch e.name {
	case "OMI":
		return parseOMI(s, e)
	case "OMF":
		return parseOMF(s, e)
	case "OMSTR":
		return parseOMSTR(s, e)
	case "OMB":
		return parseOMB(s, e)
	case "OMV":
		name, ok := e.attr("name")
		if !ok {
			return nil, s.errf(e.off, "OMV has no name attribute")
		}
		return om.Var(name), closeLeaf(s, e)
	case "OMS":
		sym, err := parseSymbolAttrs(s, e)
		if err != nil {
			return nil, err
		}
		return om.FromSymbol(sym), closeLeaf(s, e)
	case "OMA":
		return parseOMA(s, e)
	case "OMBIND":
		return parseOMBIND(s, e)
	case "OMATTR":
		return parseOMATTR(s, e)
	case "OME":
		return parseOME(s, e)
	case "OMFOREIGN":
		return parseOMFOREIGN(s, e)
	case "OMR":
		return nil, s.errf(e.off, "structure sharing (OMR) is not supported")
	}
	return nil, s.errf(e.off, "unexpected element <%s>", e.name)
}

// closeLeaf consumes the end tag of a leaf element unless its start tag
// was self-closing.
func closeLeaf(s *scanner, e *elem) error {
	if e.close {
		return nil
	}
	return s.end(e.name)
}

// leafText reads the character data of a leaf element and its end tag.
func leafText(s *scanner, e *elem) (string, int, error) {
	if e.close {
		return "", e.off, nil
	}
	txt, off, err := s.text()
	if err != nil {
		return "", off, err
	}
	return txt, off, s.end(e.name)
}

func parseOMI(s *scanner, e *elem) (*om.Object, error) {
	txt, off, err := leafText(s, e)
	if err != nil {
		return nil, err
	}
	lit := strings.TrimSpace(txt)
	neg := false
	if h, ok := strings.CutPrefix(lit, "-"); ok && strings.HasPrefix(h, "x") {
		lit, neg = h, true
	}
	var v om.Int
	if h, ok := strings.CutPrefix(lit, "x"); ok {
		if v, err = om.ParseIntBase(h, 16); err == nil && neg {
			v = v.Neg()
		}
	} else {
		v, err = om.ParseInt(lit)
	}
	if err != nil {
		return nil, s.errf(off, "malformed integer %q", strings.TrimSpace(txt))
	}
	return om.FromIntValue(v), nil
}

func parseOMF(s *scanner, e *elem) (*om.Object, error) {
	if dec, ok := e.attr("dec"); ok {
		f, err := parseFloatDec(dec)
		if err != nil {
			return nil, s.errf(e.off, "malformed float %q", dec)
		}
		return om.FromFloat(f), closeLeaf(s, e)
	}
	if hex, ok := e.attr("hex"); ok {
		if len(hex) != 16 {
			return nil, s.errf(e.off, "hex float needs 16 digits, got %d", len(hex))
		}
		bits, err := strconv.ParseUint(hex, 16, 64)
		if err != nil {
			return nil, s.errf(e.off, "malformed hex float %q", hex)
		}
		return om.FromFloat(math.Float64frombits(bits)), closeLeaf(s, e)
	}
	return nil, s.errf(e.off, "OMF has neither dec nor hex attribute")
}

func parseFloatDec(s string) (float64, error) {
	switch s {
	case "INF":
		return math.Inf(1), nil
	case "-INF":
		return math.Inf(-1), nil
	case "NaN":
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}

func parseOMSTR(s *scanner, e *elem) (*om.Object, error) {
	txt, _, err := leafText(s, e)
	if err != nil {
		return nil, err
	}
	return om.FromString(txt), nil
}

func parseOMB(s *scanner, e *elem) (*om.Object, error) {
	if e.close {
		return om.FromBytes([]byte{}), nil
	}
	at := s.off
	end := at
	for end < len(s.data) && s.data[end] != '<' {
		end++
	}
	// Filter insignificant whitespace, keeping the original offset of
	// every remaining byte so decode errors point into the input.
	var b64 []byte
	var offs []int
	for i := at; i < end; i++ {
		if isSpace(s.data[i]) {
			continue
		}
		b64 = append(b64, s.data[i])
		offs = append(offs, i)
	}
	dec := make([]byte, base64.StdEncoding.DecodedLen(len(b64)))
	n, err := base64.StdEncoding.Decode(dec, b64)
	if err != nil {
		off := end
		if ce, ok := err.(base64.CorruptInputError); ok && int(ce) < len(offs) {
			off = offs[ce]
		}
		return nil, &om.FormatError{Offset: off, Msg: "malformed base64", Err: err}
	}
	s.off = end
	if err := s.end("OMB"); err != nil {
		return nil, err
	}
	return om.FromBytes(dec[:n]), nil
}

func parseSymbolAttrs(s *scanner, e *elem) (om.Symbol, error) {
	cd, ok := e.attr("cd")
	if !ok {
		return om.Symbol{}, s.errf(e.off, "OMS has no cd attribute")
	}
	name, ok := e.attr("name")
	if !ok {
		return om.Symbol{}, s.errf(e.off, "OMS has no name attribute")
	}
	cdbase, _ := e.attr("cdbase")
	return om.Symbol{CDBase: cdbase, CD: cd, Name: name}, nil
}

// children reads objects until the end tag of e, which it consumes.
func children(s *scanner, e *elem) ([]*om.Object, error) {
	var res []*om.Object
	for {
		if err := s.skipMisc(); err != nil {
			return nil, err
		}
		if s.peekEnd() {
			return res, s.end(e.name)
		}
		c, err := s.start()
		if err != nil {
			return nil, err
		}
		obj, err := parseObject(s, c)
		if err != nil {
			return nil, err
		}
		res = append(res, obj)
	}
}

func parseOMA(s *scanner, e *elem) (*om.Object, error) {
	if e.close {
		return nil, s.errf(e.off, "OMA has no head")
	}
	objs, err := children(s, e)
	if err != nil {
		return nil, err
	}
	if len(objs) == 0 {
		return nil, s.errf(e.off, "OMA has no head")
	}
	return om.Apply(objs[0], objs[1:]...), nil
}

func parseOMBIND(s *scanner, e *elem) (*om.Object, error) {
	if e.close {
		return nil, s.errf(e.off, "OMBIND has no binder")
	}
	be, err := s.start()
	if err != nil {
		return nil, err
	}
	binder, err := parseObject(s, be)
	if err != nil {
		return nil, err
	}
	ve, err := s.start()
	if err != nil {
		return nil, err
	}
	if ve.name != "OMBVAR" {
		return nil, s.errf(ve.off, "OMBIND wants OMBVAR, got <%s>", ve.name)
	}
	var vars []*om.Object
	if !ve.close {
		if vars, err = children(s, ve); err != nil {
			return nil, err
		}
	}
	be2, err := s.start()
	if err != nil {
		return nil, err
	}
	body, err := parseObject(s, be2)
	if err != nil {
		return nil, err
	}
	if err := s.end("OMBIND"); err != nil {
		return nil, err
	}
	return om.Bind(binder, vars, body), nil
}

func parseOMATTR(s *scanner, e *elem) (*om.Object, error) {
	if e.close {
		return nil, s.errf(e.off, "OMATTR has no attribute pairs")
	}
	pe, err := s.start()
	if err != nil {
		return nil, err
	}
	if pe.name != "OMATP" {
		return nil, s.errf(pe.off, "OMATTR wants OMATP, got <%s>", pe.name)
	}
	var attrs []om.Attr
	if !pe.close {
		pairs, err := children(s, pe)
		if err != nil {
			return nil, err
		}
		if len(pairs)%2 != 0 {
			return nil, s.errf(pe.off, "OMATP pairs are uneven")
		}
		for i := 0; i < len(pairs); i += 2 {
			if pairs[i].Kind != om.OMS {
				return nil, s.errf(pe.off, "attribute pair key is %s, want OMS", pairs[i].Kind)
			}
			attrs = append(attrs, om.Attr{Symbol: pairs[i].Symbol, Value: pairs[i+1]})
		}
	}
	oe, err := s.start()
	if err != nil {
		return nil, err
	}
	obj, err := parseObject(s, oe)
	if err != nil {
		return nil, err
	}
	if err := s.end("OMATTR"); err != nil {
		return nil, err
	}
	return om.Attribute(obj, attrs...), nil
}

func parseOME(s *scanner, e *elem) (*om.Object, error) {
	if e.close {
		return nil, s.errf(e.off, "OME has no error symbol")
	}
	objs, err := children(s, e)
	if err != nil {
		return nil, err
	}
	if len(objs) == 0 {
		return nil, s.errf(e.off, "OME has no error symbol")
	}
	if objs[0].Kind != om.OMS {
		return nil, s.errf(e.off, "OME symbol is %s, want OMS", objs[0].Kind)
	}
	return om.ErrorObj(objs[0].Symbol, objs[1:]...), nil
}

func parseOMFOREIGN(s *scanner, e *elem) (*om.Object, error) {
	enc, _ := e.attr("encoding")
	if e.close {
		return om.Foreign(enc, nil), nil
	}
	data, err := s.raw("OMFOREIGN")
	if err != nil {
		return nil, err
	}
	return om.Foreign(enc, data), nil
}
