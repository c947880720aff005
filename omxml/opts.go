package omxml

type EncodeOption func(*EncState)

// Indent switches the writer from compact wire output to one element per
// line, nested elements indented by s.
func Indent(s string) EncodeOption {
	return func(es *EncState) { es.indent = s }
}

// Document wraps the output in an OMOBJ root carrying version="2.0".
func Document(v bool) EncodeOption {
	return func(es *EncState) { es.document = v }
}

// HexFloats writes OMF elements in the hexadecimal attribute form, the
// bit-exact rendering, instead of the decimal one.
func HexFloats(v bool) EncodeOption {
	return func(es *EncState) { es.hexFloat = v }
}

// EncodeColors turns on terminal colors.
func EncodeColors(c *Colors) EncodeOption {
	return func(es *EncState) { es.color = c.Color }
}
