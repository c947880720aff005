package omxml

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/openmath/openmath-go/om"
)

// attr is one attribute of a start tag, entity-decoded, with the byte
// offset of its value in the input.
type attr struct {
	name  string
	value string
	off   int
}

// elem is a scanned start tag. For self-closing tags close is true and no
// matching end tag follows.
type elem struct {
	name  string
	attrs []attr
	close bool
	off   int // offset of the '<'
}

func (e *elem) attr(name string) (string, bool) {
	for i := range e.attrs {
		if e.attrs[i].name == name {
			return e.attrs[i].value, true
		}
	}
	return "", false
}

// scanner is a pull scanner over a markup document held fully in memory.
// It understands just enough XML for the OpenMath grammar: tags,
// attributes, character data, entities, comments and processing
// instructions. Every error it returns is a FormatError carrying the
// byte offset of the defect.
type scanner struct {
	data []byte
	off  int
}

func newScanner(data []byte) *scanner {
	return &scanner{data: data}
}

func (s *scanner) errf(off int, format string, args ...any) error {
	return &om.FormatError{Offset: off, Msg: fmt.Sprintf(format, args...)}
}

func (s *scanner) eof() bool {
	return s.off >= len(s.data)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// skipMisc advances over whitespace, comments, processing instructions
// and an XML declaration.
func (s *scanner) skipMisc() error {
	for {
		for !s.eof() && isSpace(s.data[s.off]) {
			s.off++
		}
		if s.off+1 >= len(s.data) || s.data[s.off] != '<' {
			return nil
		}
		switch s.data[s.off+1] {
		case '?':
			end := strings.Index(string(s.data[s.off:]), "?>")
			if end < 0 {
				return s.errf(s.off, "unterminated processing instruction")
			}
			s.off += end + 2
		case '!':
			if !strings.HasPrefix(string(s.data[s.off:]), "<!--") {
				return s.errf(s.off, "unsupported markup declaration")
			}
			end := strings.Index(string(s.data[s.off+4:]), "-->")
			if end < 0 {
				return s.errf(s.off, "unterminated comment")
			}
			s.off += 4 + end + 3
		default:
			return nil
		}
	}
}

// peekEnd reports whether the next markup is an end tag, without
// consuming it.
func (s *scanner) peekEnd() bool {
	return s.off+1 < len(s.data) && s.data[s.off] == '<' && s.data[s.off+1] == '/'
}

// start scans a start tag, with its attributes.
func (s *scanner) start() (*elem, error) {
	if err := s.skipMisc(); err != nil {
		return nil, err
	}
	at := s.off
	if s.eof() || s.data[s.off] != '<' {
		return nil, s.errf(at, "expected an element")
	}
	if s.peekEnd() {
		return nil, s.errf(at, "unexpected closing tag")
	}
	s.off++
	name, err := s.name()
	if err != nil {
		return nil, err
	}
	e := &elem{name: name, off: at}
	for {
		for !s.eof() && isSpace(s.data[s.off]) {
			s.off++
		}
		if s.eof() {
			return nil, s.errf(at, "unterminated tag <%s", name)
		}
		switch s.data[s.off] {
		case '>':
			s.off++
			return e, nil
		case '/':
			if s.off+1 >= len(s.data) || s.data[s.off+1] != '>' {
				return nil, s.errf(s.off, "malformed tag end")
			}
			s.off += 2
			e.close = true
			return e, nil
		}
		aname, err := s.name()
		if err != nil {
			return nil, err
		}
		for !s.eof() && isSpace(s.data[s.off]) {
			s.off++
		}
		if s.eof() || s.data[s.off] != '=' {
			return nil, s.errf(s.off, "attribute %s has no value", aname)
		}
		s.off++
		for !s.eof() && isSpace(s.data[s.off]) {
			s.off++
		}
		if s.eof() || (s.data[s.off] != '"' && s.data[s.off] != '\'') {
			return nil, s.errf(s.off, "attribute %s value is not quoted", aname)
		}
		q := s.data[s.off]
		s.off++
		voff := s.off
		end := s.off
		for end < len(s.data) && s.data[end] != q && s.data[end] != '<' {
			end++
		}
		if end >= len(s.data) || s.data[end] != q {
			return nil, s.errf(voff, "unterminated attribute value")
		}
		val, err := s.unescape(s.data[voff:end], voff)
		if err != nil {
			return nil, err
		}
		s.off = end + 1
		e.attrs = append(e.attrs, attr{name: aname, value: val, off: voff})
	}
}

// end scans the end tag </name>.
func (s *scanner) end(name string) error {
	if err := s.skipMisc(); err != nil {
		return err
	}
	at := s.off
	if !s.peekEnd() {
		return s.errf(at, "missing closing tag </%s>", name)
	}
	s.off += 2
	got, err := s.name()
	if err != nil {
		return err
	}
	for !s.eof() && isSpace(s.data[s.off]) {
		s.off++
	}
	if s.eof() || s.data[s.off] != '>' {
		return s.errf(at, "malformed closing tag </%s", got)
	}
	s.off++
	if got != name {
		return s.errf(at, "closing tag </%s> does not match <%s>", got, name)
	}
	return nil
}

func nameByte(c byte, first bool) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_', c == ':':
		return true
	case !first && (c >= '0' && c <= '9' || c == '-' || c == '.'):
		return true
	}
	return c >= 0x80 // non-ascii name characters pass through unvalidated
}

func (s *scanner) name() (string, error) {
	at := s.off
	for s.off < len(s.data) && nameByte(s.data[s.off], s.off == at) {
		s.off++
	}
	if s.off == at {
		return "", s.errf(at, "expected a name")
	}
	return string(s.data[at:s.off]), nil
}

// text consumes character data up to the next tag, entity-decoded. off
// reports where the data started.
func (s *scanner) text() (string, int, error) {
	at := s.off
	end := s.off
	for end < len(s.data) && s.data[end] != '<' {
		end++
	}
	dec, err := s.unescape(s.data[at:end], at)
	if err != nil {
		return "", at, err
	}
	s.off = end
	return dec, at, nil
}

// raw consumes everything up to the matching </name>, verbatim, balancing
// nested elements of the same name. The closing tag itself is consumed.
func (s *scanner) raw(name string) ([]byte, error) {
	at := s.off
	depth := 0
	open := "<" + name
	close := "</" + name
	for i := s.off; i < len(s.data); {
		if s.data[i] != '<' {
			i++
			continue
		}
		rest := string(s.data[i:])
		switch {
		case strings.HasPrefix(rest, close) && afterName(rest, len(close)):
			if depth == 0 {
				body := s.data[at:i]
				s.off = i
				if err := s.end(name); err != nil {
					return nil, err
				}
				return append([]byte(nil), body...), nil
			}
			depth--
			i += len(close)
		case strings.HasPrefix(rest, open) && afterName(rest, len(open)):
			depth++
			i += len(open)
		default:
			i++
		}
	}
	return nil, s.errf(at, "missing closing tag </%s>", name)
}

// afterName reports whether the byte following a matched tag name ends
// the name, so "<OMFOREIGNx" does not count as a nested open.
func afterName(rest string, n int) bool {
	if n >= len(rest) {
		return false
	}
	c := rest[n]
	return isSpace(c) || c == '>' || c == '/'
}

// unescape decodes the five predefined entities and numeric character
// references. base is the offset of d in the input, for error reporting.
func (s *scanner) unescape(d []byte, base int) (string, error) {
	amp := -1
	for i := range d {
		if d[i] == '&' {
			amp = i
			break
		}
	}
	if amp < 0 {
		return string(d), nil
	}
	var b strings.Builder
	b.Write(d[:amp])
	for i := amp; i < len(d); {
		if d[i] != '&' {
			b.WriteByte(d[i])
			i++
			continue
		}
		semi := i + 1
		for semi < len(d) && d[semi] != ';' {
			semi++
		}
		if semi >= len(d) {
			return "", s.errf(base+i, "unterminated entity")
		}
		ent := string(d[i+1 : semi])
		switch {
		case ent == "amp":
			b.WriteByte('&')
		case ent == "lt":
			b.WriteByte('<')
		case ent == "gt":
			b.WriteByte('>')
		case ent == "quot":
			b.WriteByte('"')
		case ent == "apos":
			b.WriteByte('\'')
		case strings.HasPrefix(ent, "#"):
			num := ent[1:]
			b64 := 10
			if strings.HasPrefix(num, "x") || strings.HasPrefix(num, "X") {
				num, b64 = num[1:], 16
			}
			cp, err := strconv.ParseUint(num, b64, 32)
			if err != nil {
				return "", s.errf(base+i, "malformed character reference &%s;", ent)
			}
			b.WriteRune(rune(cp))
		default:
			return "", s.errf(base+i, "unknown entity &%s;", ent)
		}
		i = semi + 1
	}
	return b.String(), nil
}
