package om

import "fmt"

// Kind identifies the variant of an Object. The set is closed: these are
// the eleven node kinds of the OpenMath 2.0 object model.
type Kind uint8

const (
	OMI       Kind = iota // arbitrary precision integer
	OMF                   // 64-bit IEEE floating point number
	OMSTR                 // unicode character string
	OMB                   // byte array
	OMV                   // variable
	OMS                   // content dictionary symbol
	OMA                   // application
	OMBIND                // binding
	OMATTR                // attribution
	OME                   // error object
	OMFOREIGN             // foreign (non-OpenMath) content
)

// Kinds returns all node kinds in rank order.
func Kinds() []Kind {
	return []Kind{OMI, OMF, OMSTR, OMB, OMV, OMS, OMA, OMBIND, OMATTR, OME, OMFOREIGN}
}

func (k Kind) String() string {
	switch k {
	case OMI:
		return "OMI"
	case OMF:
		return "OMF"
	case OMSTR:
		return "OMSTR"
	case OMB:
		return "OMB"
	case OMV:
		return "OMV"
	case OMS:
		return "OMS"
	case OMA:
		return "OMA"
	case OMBIND:
		return "OMBIND"
	case OMATTR:
		return "OMATTR"
	case OME:
		return "OME"
	case OMFOREIGN:
		return "OMFOREIGN"
	default:
		return "Unknown"
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(d []byte) error {
	pk, ok := KindOf(string(d))
	if !ok {
		return fmt.Errorf("unknown kind %q", string(d))
	}
	*k = pk
	return nil
}

// KindOf maps an element name to its Kind.
func KindOf(name string) (Kind, bool) {
	k, ok := map[string]Kind{
		"OMI":       OMI,
		"OMF":       OMF,
		"OMSTR":     OMSTR,
		"OMB":       OMB,
		"OMV":       OMV,
		"OMS":       OMS,
		"OMA":       OMA,
		"OMBIND":    OMBIND,
		"OMATTR":    OMATTR,
		"OME":       OME,
		"OMFOREIGN": OMFOREIGN,
	}[name]
	return k, ok
}
