package ommap

import (
	"fmt"
	"math"
	"math/big"
	"reflect"

	"github.com/openmath/openmath-go/om"
)

// Decode converts an OpenMath object to the Go value v points at.
func Decode(node *om.Object, v any) error {
	if node == nil {
		return &om.SemanticError{Kind: om.MissingField, Msg: "no node to decode"}
	}
	if v == nil {
		return &om.SemanticError{Kind: om.MissingField, Msg: "destination is nil"}
	}
	if b, ok := v.(om.Builder); ok {
		return b.BuildOM(node)
	}
	val := reflect.ValueOf(v)
	if val.Kind() != reflect.Pointer || val.IsNil() {
		return &om.SemanticError{Kind: om.MissingField, Msg: "destination must be a non-nil pointer"}
	}
	return decodeValue(node, val.Elem(), "")
}

func semAt(path string, kind om.SemanticKind, msg string) error {
	return &om.SemanticError{Kind: kind, Path: path, Msg: msg}
}

func unexpectedAt(path string, want, got om.Kind) error {
	return &om.SemanticError{Kind: om.UnexpectedKind, Path: path, Want: want, Got: got}
}

func decodeValue(node *om.Object, val reflect.Value, path string) error {
	// A pointer destination that itself builds takes priority over the
	// reflective rules below.
	if val.CanAddr() {
		if b, ok := val.Addr().Interface().(om.Builder); ok {
			return b.BuildOM(node)
		}
		if iv, ok := val.Addr().Interface().(*om.Int); ok {
			if node.Kind != om.OMI {
				return unexpectedAt(path, om.OMI, node.Kind)
			}
			*iv = node.Int
			return nil
		}
		if bv, ok := val.Addr().Interface().(**big.Int); ok {
			if node.Kind != om.OMI {
				return unexpectedAt(path, om.OMI, node.Kind)
			}
			*bv = node.Int.Big()
			return nil
		}
	}

	switch val.Kind() {
	case reflect.Pointer:
		if val.IsNil() {
			val.Set(reflect.New(val.Type().Elem()))
		}
		return decodeValue(node, val.Elem(), path)
	case reflect.Bool:
		if node.Kind != om.OMS {
			return unexpectedAt(path, om.OMS, node.Kind)
		}
		switch node.Symbol {
		case symTrue:
			val.SetBool(true)
		case symFalse:
			val.SetBool(false)
		default:
			return semAt(path, om.InvalidSymbol, fmt.Sprintf("%s.%s is not a truth symbol", node.Symbol.CD, node.Symbol.Name))
		}
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if node.Kind != om.OMI {
			return unexpectedAt(path, om.OMI, node.Kind)
		}
		i, ok := node.Int.AsInt64()
		if !ok || val.OverflowInt(i) {
			return semAt(path, om.HostDefined, fmt.Sprintf("%s does not fit %s", node.Int, val.Type()))
		}
		val.SetInt(i)
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if node.Kind != om.OMI {
			return unexpectedAt(path, om.OMI, node.Kind)
		}
		b := node.Int.Big()
		if !b.IsUint64() || val.OverflowUint(b.Uint64()) {
			return semAt(path, om.HostDefined, fmt.Sprintf("%s does not fit %s", node.Int, val.Type()))
		}
		val.SetUint(b.Uint64())
		return nil
	case reflect.Float32, reflect.Float64:
		if node.Kind != om.OMF {
			return unexpectedAt(path, om.OMF, node.Kind)
		}
		f := node.Float
		if val.Kind() == reflect.Float32 && val.OverflowFloat(f) && !math.IsInf(f, 0) {
			return semAt(path, om.HostDefined, fmt.Sprintf("%v does not fit float32", f))
		}
		val.SetFloat(f)
		return nil
	case reflect.String:
		if node.Kind != om.OMSTR {
			return unexpectedAt(path, om.OMSTR, node.Kind)
		}
		val.SetString(node.String)
		return nil
	case reflect.Slice:
		if val.Type().Elem().Kind() == reflect.Uint8 {
			if node.Kind != om.OMB {
				return unexpectedAt(path, om.OMB, node.Kind)
			}
			val.SetBytes(append([]byte(nil), node.Bytes...))
			return nil
		}
		return decodeList(node, val, path)
	case reflect.Struct:
		return decodeStruct(node, val, path)
	case reflect.Interface:
		if val.Type() == reflect.TypeOf((*any)(nil)).Elem() {
			val.Set(reflect.ValueOf(node.Clone()))
			return nil
		}
	}
	return semAt(path, om.HostDefined, "cannot decode into "+val.Type().String())
}

func decodeList(node *om.Object, val reflect.Value, path string) error {
	if node.Kind != om.OMA {
		return unexpectedAt(path, om.OMA, node.Kind)
	}
	if node.Applicant.Kind != om.OMS || node.Applicant.Symbol != symList {
		return semAt(path, om.InvalidSymbol, "head is not list1.list")
	}
	res := reflect.MakeSlice(val.Type(), len(node.Arguments), len(node.Arguments))
	for i, arg := range node.Arguments {
		if err := decodeValue(arg, res.Index(i), elemPath(path, i)); err != nil {
			return err
		}
	}
	val.Set(res)
	return nil
}

func decodeStruct(node *om.Object, val reflect.Value, path string) error {
	info, err := structTagInfo(val.Type())
	if err != nil {
		return err
	}
	want, err := headSymbol(val, info)
	if err != nil {
		return err
	}
	if node.Kind != om.OMA {
		return unexpectedAt(path, om.OMA, node.Kind)
	}
	if node.Applicant.Kind != om.OMS || node.Applicant.Symbol != want {
		return semAt(path, om.InvalidSymbol, fmt.Sprintf("head is not %s.%s", want.CD, want.Name))
	}
	if len(node.Arguments) != len(info.fields) {
		return semAt(path, om.ArityMismatch,
			fmt.Sprintf("%d arguments for %d fields of %s", len(node.Arguments), len(info.fields), val.Type()))
	}
	for i, f := range info.fields {
		if err := decodeValue(node.Arguments[i], val.Field(f), elemPath(path, i)); err != nil {
			return err
		}
	}
	return nil
}

func elemPath(path string, i int) string {
	return fmt.Sprintf("%sarguments[%d]", dot(path), i)
}

func dot(path string) string {
	if path == "" {
		return ""
	}
	return path + "."
}
