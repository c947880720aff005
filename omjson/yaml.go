package omjson

import (
	"github.com/goccy/go-yaml"

	"github.com/openmath/openmath-go/om"
)

// EncodeYAML renders e in the YAML view of the JSON mapping.
func EncodeYAML(e om.Emitter) ([]byte, error) {
	j, err := EncodeString(e)
	if err != nil {
		return nil, err
	}
	out, err := yaml.JSONToYAML([]byte(j))
	if err != nil {
		return nil, &om.FormatError{Offset: -1, Msg: "yaml rendering failed", Err: err}
	}
	return out, nil
}

// ParseYAML reads one YAML-encoded OpenMath object.
func ParseYAML(data []byte) (*om.Object, error) {
	j, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, &om.FormatError{Offset: -1, Msg: "malformed yaml", Err: err}
	}
	return Parse(j)
}
