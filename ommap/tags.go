package ommap

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/openmath/openmath-go/om"
)

// parseStructTag splits the content of an `om:"..."` tag into key=value
// pairs. Comma-separated parts without an '=' become flags mapped to the
// empty string, so `om:"-"` yields {"-": ""}.
func parseStructTag(tag string) (map[string]string, error) {
	res := make(map[string]string)
	for _, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		idx := strings.IndexByte(part, '=')
		if idx < 0 {
			res[part] = ""
			continue
		}
		key := strings.TrimSpace(part[:idx])
		if key == "" {
			return nil, fmt.Errorf("empty key in %q", part)
		}
		res[key] = strings.TrimSpace(part[idx+1:])
	}
	return res, nil
}

// structInfo describes how a struct type maps to an application: the
// indices of the fields that become arguments, in declaration order, and
// the head symbol when a field tag declares one.
type structInfo struct {
	fields []int
	sym    om.Symbol
	tagged bool
}

// structTagInfo reads the `om` tags of t's exported fields. `om:"-"`
// removes a field from the mapping; cd= and name= keys (plus an optional
// cdbase=) on any one field declare the head symbol for the whole struct.
func structTagInfo(t reflect.Type) (structInfo, error) {
	var info structInfo
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tags, err := parseStructTag(f.Tag.Get("om"))
		if err != nil {
			return info, &om.SemanticError{
				Kind: om.HostDefined,
				Msg:  fmt.Sprintf("bad om tag on %s.%s: %v", t, f.Name, err),
			}
		}
		if _, skip := tags["-"]; skip {
			continue
		}
		cd, name := tags["cd"], tags["name"]
		if cd != "" || name != "" {
			if cd == "" || name == "" {
				return info, &om.SemanticError{
					Kind: om.InvalidSymbol,
					Msg:  fmt.Sprintf("om tag on %s.%s needs both cd and name", t, f.Name),
				}
			}
			if info.tagged {
				return info, &om.SemanticError{
					Kind: om.InvalidSymbol,
					Msg:  fmt.Sprintf("%s declares its head symbol on more than one field", t),
				}
			}
			info.sym = om.Symbol{CDBase: tags["cdbase"], CD: cd, Name: name}
			info.tagged = true
		}
		info.fields = append(info.fields, i)
	}
	return info, nil
}

// headSymbol resolves the application head for a struct value: a field
// tag wins, then a SymbolNamer implementation on the value or its
// pointer.
func headSymbol(val reflect.Value, info structInfo) (om.Symbol, error) {
	if info.tagged {
		return info.sym, nil
	}
	namer, ok := val.Interface().(SymbolNamer)
	if !ok && val.CanAddr() {
		namer, ok = val.Addr().Interface().(SymbolNamer)
	}
	if !ok {
		// The method may live on the pointer receiver of a value we
		// cannot address.
		pv := reflect.New(val.Type())
		pv.Elem().Set(val)
		namer, ok = pv.Interface().(SymbolNamer)
	}
	if !ok {
		return om.Symbol{}, &om.SemanticError{
			Kind: om.HostDefined,
			Msg:  val.Type().String() + " has no om symbol tag and does not implement SymbolNamer",
		}
	}
	return namer.OMSymbol(), nil
}
