// Package ommap maps ordinary Go values to and from OpenMath objects by
// reflection, so plain ints, slices and structs can cross the conversion
// interfaces without hand-written Emitter and Builder implementations.
//
// Types implementing om.Emitter or om.Builder are always used directly.
// Booleans map to the logic1 truth symbols, slices to list1.list
// applications, and structs to an application with exported fields as
// arguments in declaration order. The head symbol comes from an
// `om:"cd=...,name=..."` tag on one of the fields (with an optional
// cdbase= key), or from a SymbolNamer implementation when no field is
// tagged. A field tagged `om:"-"` is skipped on both sides.
package ommap

import (
	"math/big"
	"reflect"

	"github.com/openmath/openmath-go/om"
)

// SymbolNamer gives a struct its content dictionary symbol. Encode heads
// the struct's application with it; Decode requires the parsed head to
// match it.
type SymbolNamer interface {
	OMSymbol() om.Symbol
}

var (
	symList  = om.Symbol{CD: "list1", Name: "list"}
	symTrue  = om.Symbol{CD: "logic1", Name: "true"}
	symFalse = om.Symbol{CD: "logic1", Name: "false"}
)

// Encode converts a Go value to an OpenMath object.
func Encode(v any) (*om.Object, error) {
	if v == nil {
		return nil, &om.SemanticError{Kind: om.MissingField, Msg: "cannot encode nil"}
	}
	switch t := v.(type) {
	case om.Emitter:
		return om.BuildTree(t)
	case om.Int:
		return om.FromIntValue(t), nil
	case *big.Int:
		return om.FromIntValue(om.IntFromBig(t)), nil
	case []byte:
		return om.FromBytes(t), nil
	}
	return encodeValue(reflect.ValueOf(v))
}

func encodeValue(val reflect.Value) (*om.Object, error) {
	switch val.Kind() {
	case reflect.Bool:
		if val.Bool() {
			return om.FromSymbol(symTrue), nil
		}
		return om.FromSymbol(symFalse), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return om.FromInt(val.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := val.Uint()
		return om.FromIntValue(om.IntFromBig(new(big.Int).SetUint64(u))), nil
	case reflect.Float32, reflect.Float64:
		return om.FromFloat(val.Float()), nil
	case reflect.String:
		return om.FromString(val.String()), nil
	case reflect.Pointer, reflect.Interface:
		if val.IsNil() {
			return nil, &om.SemanticError{Kind: om.MissingField, Msg: "cannot encode nil " + val.Type().String()}
		}
		return Encode(val.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if val.Kind() == reflect.Slice && val.Type().Elem().Kind() == reflect.Uint8 {
			return om.FromBytes(val.Bytes()), nil
		}
		args := make([]*om.Object, val.Len())
		for i := range args {
			a, err := Encode(val.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			args[i] = a
		}
		return om.Apply(om.FromSymbol(symList), args...), nil
	case reflect.Struct:
		return encodeStruct(val)
	}
	return nil, &om.SemanticError{
		Kind: om.HostDefined,
		Msg:  "cannot encode " + val.Type().String(),
	}
}

func encodeStruct(val reflect.Value) (*om.Object, error) {
	info, err := structTagInfo(val.Type())
	if err != nil {
		return nil, err
	}
	sym, err := headSymbol(val, info)
	if err != nil {
		return nil, err
	}
	args := []*om.Object{}
	for _, f := range info.fields {
		a, err := Encode(val.Field(f).Interface())
		if err != nil {
			return nil, err
		}
		args = append(args, a)
	}
	return om.Apply(om.FromSymbol(sym), args...), nil
}
