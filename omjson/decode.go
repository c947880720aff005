package omjson

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/openmath/openmath-go/om"
)

// Parse reads one JSON-encoded OpenMath object.
func Parse(data []byte) (*om.Object, error) {
	return decodeNode(data, "$")
}

// Read parses data and hands the tree to a construction-interface host.
func Read(data []byte, b om.Builder) error {
	obj, err := Parse(data)
	if err != nil {
		return err
	}
	return b.BuildOM(obj)
}

func errAt(path, format string, args ...any) error {
	return &om.FormatError{Offset: -1, Path: path, Msg: fmt.Sprintf(format, args...)}
}

// doc is the union of every kind's fields; decodeNode dispatches on Kind
// and checks the ones that kind requires.
type doc struct {
	Kind       string            `json:"kind"`
	Integer    json.RawMessage   `json:"integer"`
	Float      json.RawMessage   `json:"float"`
	String     *string           `json:"string"`
	Bytes      *string           `json:"bytes"`
	Name       *string           `json:"name"`
	CD         *string           `json:"cd"`
	CDBase     string            `json:"cdbase"`
	Applicant  json.RawMessage   `json:"applicant"`
	Arguments  []json.RawMessage `json:"arguments"`
	Binder     json.RawMessage   `json:"binder"`
	Variables  []json.RawMessage `json:"variables"`
	Object     json.RawMessage   `json:"object"`
	Attributes []json.RawMessage `json:"attributes"`
	Encoding   string            `json:"encoding"`
	Data       *string           `json:"data"`
}

func decodeNode(data []byte, path string) (*om.Object, error) {
	var d doc
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, &om.FormatError{Offset: -1, Path: path, Msg: "malformed document", Err: err}
	}
	if d.Kind == "" {
		return nil, errAt(path, "missing kind")
	}
	kind, ok := om.KindOf(d.Kind)
	if !ok {
		return nil, errAt(path, "unknown kind %q", d.Kind)
	}
	switch kind {
	case om.OMI:
		v, err := decodeInteger(d.Integer, path+".integer")
		if err != nil {
			return nil, err
		}
		return om.FromIntValue(v), nil
	case om.OMF:
		f, err := decodeFloat(d.Float, path+".float")
		if err != nil {
			return nil, err
		}
		return om.FromFloat(f), nil
	case om.OMSTR:
		if d.String == nil {
			return nil, errAt(path, "OMSTR has no string field")
		}
		return om.FromString(*d.String), nil
	case om.OMB:
		if d.Bytes == nil {
			return nil, errAt(path, "OMB has no bytes field")
		}
		b, err := base64.StdEncoding.DecodeString(*d.Bytes)
		if err != nil {
			return nil, &om.FormatError{Offset: -1, Path: path + ".bytes", Msg: "malformed base64", Err: err}
		}
		return om.FromBytes(b), nil
	case om.OMV:
		if d.Name == nil {
			return nil, errAt(path, "OMV has no name field")
		}
		return om.Var(*d.Name), nil
	case om.OMS:
		sym, err := d.symbol(path)
		if err != nil {
			return nil, err
		}
		return om.FromSymbol(sym), nil
	case om.OMA:
		if d.Applicant == nil {
			return nil, errAt(path, "OMA has no applicant field")
		}
		head, err := decodeNode(d.Applicant, path+".applicant")
		if err != nil {
			return nil, err
		}
		args, err := decodeList(d.Arguments, path+".arguments")
		if err != nil {
			return nil, err
		}
		return om.Apply(head, args...), nil
	case om.OMBIND:
		if d.Binder == nil {
			return nil, errAt(path, "OMBIND has no binder field")
		}
		binder, err := decodeNode(d.Binder, path+".binder")
		if err != nil {
			return nil, err
		}
		vars, err := decodeList(d.Variables, path+".variables")
		if err != nil {
			return nil, err
		}
		if d.Object == nil {
			return nil, errAt(path, "OMBIND has no object field")
		}
		body, err := decodeNode(d.Object, path+".object")
		if err != nil {
			return nil, err
		}
		return om.Bind(binder, vars, body), nil
	case om.OMATTR:
		attrs, err := decodeAttrs(d.Attributes, path+".attributes")
		if err != nil {
			return nil, err
		}
		if d.Object == nil {
			return nil, errAt(path, "OMATTR has no object field")
		}
		obj, err := decodeNode(d.Object, path+".object")
		if err != nil {
			return nil, err
		}
		return om.Attribute(obj, attrs...), nil
	case om.OME:
		sym, err := d.symbol(path)
		if err != nil {
			return nil, err
		}
		args, err := decodeList(d.Arguments, path+".arguments")
		if err != nil {
			return nil, err
		}
		return om.ErrorObj(sym, args...), nil
	case om.OMFOREIGN:
		if d.Data == nil {
			return nil, errAt(path, "OMFOREIGN has no data field")
		}
		return om.Foreign(d.Encoding, []byte(*d.Data)), nil
	}
	return nil, errAt(path, "unknown kind %q", d.Kind)
}

func (d *doc) symbol(path string) (om.Symbol, error) {
	if d.CD == nil {
		return om.Symbol{}, errAt(path, "%s has no cd field", d.Kind)
	}
	if d.Name == nil {
		return om.Symbol{}, errAt(path, "%s has no name field", d.Kind)
	}
	return om.Symbol{CDBase: d.CDBase, CD: *d.CD, Name: *d.Name}, nil
}

func decodeList(raws []json.RawMessage, path string) ([]*om.Object, error) {
	res := make([]*om.Object, len(raws))
	for i, raw := range raws {
		obj, err := decodeNode(raw, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		res[i] = obj
	}
	return res, nil
}

func decodeAttrs(raws []json.RawMessage, path string) ([]om.Attr, error) {
	var res []om.Attr
	for i, raw := range raws {
		at := fmt.Sprintf("%s[%d]", path, i)
		var pair []json.RawMessage
		if err := json.Unmarshal(raw, &pair); err != nil {
			return nil, &om.FormatError{Offset: -1, Path: at, Msg: "attribute pair is not an array", Err: err}
		}
		if len(pair) != 2 {
			return nil, errAt(at, "attribute pair has %d elements, want 2", len(pair))
		}
		key, err := decodeNode(pair[0], at+"[0]")
		if err != nil {
			return nil, err
		}
		if key.Kind != om.OMS {
			return nil, errAt(at+"[0]", "attribute pair key is %s, want OMS", key.Kind)
		}
		val, err := decodeNode(pair[1], at+"[1]")
		if err != nil {
			return nil, err
		}
		res = append(res, om.Attr{Symbol: key.Symbol, Value: val})
	}
	return res, nil
}

// decodeInteger accepts the decimal string form for any value, and the
// bare numeric literal form when it is written in exact integer syntax.
func decodeInteger(raw json.RawMessage, path string) (om.Int, error) {
	if raw == nil {
		return om.Int{}, errAt(path, "OMI has no integer field")
	}
	lit := string(raw)
	if strings.HasPrefix(lit, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return om.Int{}, &om.FormatError{Offset: -1, Path: path, Msg: "malformed string", Err: err}
		}
		lit = s
	}
	v, err := om.ParseInt(lit)
	if err != nil {
		return om.Int{}, errAt(path, "malformed integer %q", lit)
	}
	return v, nil
}

func decodeFloat(raw json.RawMessage, path string) (float64, error) {
	if raw == nil {
		return 0, errAt(path, "OMF has no float field")
	}
	if strings.HasPrefix(string(raw), `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, &om.FormatError{Offset: -1, Path: path, Msg: "malformed string", Err: err}
		}
		switch s {
		case "INF":
			return math.Inf(1), nil
		case "-INF":
			return math.Inf(-1), nil
		case "NaN":
			return math.NaN(), nil
		}
		return 0, errAt(path, "malformed float %q", s)
	}
	f, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return 0, errAt(path, "malformed float %s", raw)
	}
	return f, nil
}
