package om

// Symbol names a content dictionary symbol. The cd and name pair is
// opaque: nothing in this module resolves it against dictionary content.
// CDBase is the optional disambiguating base URI.
type Symbol struct {
	CDBase string
	CD     string
	Name   string
}

// Attr is one (symbol, value) annotation pair of an OMATTR node. Pairs
// are metadata and do not change the annotated object's meaning.
type Attr struct {
	Symbol Symbol
	Value  *Object
}

// Object is a single OpenMath node. The Kind discriminant selects which
// payload fields apply; the others stay zero. Composite kinds exclusively
// own their children, so a built tree is a strict tree with no sharing.
//
// Objects are immutable once constructed. A modification is a new tree;
// unchanged subtrees may be referenced from the new one, but any child
// has exactly one parent within a single tree.
type Object struct {
	Kind Kind

	Int    Int     // OMI
	Float  float64 // OMF
	String string  // OMSTR
	Bytes  []byte  // OMB
	Name   string  // OMV
	Symbol Symbol  // OMS; OME error symbol

	Applicant *Object   // OMA head; OMBIND binder
	Arguments []*Object // OMA and OME arguments, in order
	Variables []*Object // OMBIND bound variables, in order
	Body      *Object   // OMBIND body; OMATTR annotated object
	Attrs     []Attr    // OMATTR pairs, in order

	Encoding string // OMFOREIGN encoding tag, "" when absent
	Data     []byte // OMFOREIGN payload, preserved verbatim
}

func FromInt(v int64) *Object {
	return &Object{Kind: OMI, Int: Int64(v)}
}

func FromIntValue(v Int) *Object {
	return &Object{Kind: OMI, Int: v}
}

func FromFloat(f float64) *Object {
	return &Object{Kind: OMF, Float: f}
}

func FromString(s string) *Object {
	return &Object{Kind: OMSTR, String: s}
}

func FromBytes(b []byte) *Object {
	return &Object{Kind: OMB, Bytes: b}
}

func Var(name string) *Object {
	return &Object{Kind: OMV, Name: name}
}

func Sym(cd, name string) *Object {
	return &Object{Kind: OMS, Symbol: Symbol{CD: cd, Name: name}}
}

func FromSymbol(s Symbol) *Object {
	return &Object{Kind: OMS, Symbol: s}
}

func Apply(head *Object, args ...*Object) *Object {
	return &Object{Kind: OMA, Applicant: head, Arguments: args}
}

func Bind(binder *Object, vars []*Object, body *Object) *Object {
	return &Object{Kind: OMBIND, Applicant: binder, Variables: vars, Body: body}
}

func Attribute(object *Object, pairs ...Attr) *Object {
	return &Object{Kind: OMATTR, Attrs: pairs, Body: object}
}

func ErrorObj(sym Symbol, args ...*Object) *Object {
	return &Object{Kind: OME, Symbol: sym, Arguments: args}
}

func Foreign(encoding string, data []byte) *Object {
	return &Object{Kind: OMFOREIGN, Encoding: encoding, Data: data}
}

// Clone deep-copies the tree, including byte payloads.
func (o *Object) Clone() *Object {
	if o == nil {
		return nil
	}
	dst := &Object{
		Kind:     o.Kind,
		Int:      o.Int,
		Float:    o.Float,
		String:   o.String,
		Name:     o.Name,
		Symbol:   o.Symbol,
		Encoding: o.Encoding,
	}
	if o.Bytes != nil {
		dst.Bytes = append([]byte(nil), o.Bytes...)
	}
	if o.Data != nil {
		dst.Data = append([]byte(nil), o.Data...)
	}
	dst.Applicant = o.Applicant.Clone()
	dst.Body = o.Body.Clone()
	if o.Arguments != nil {
		dst.Arguments = make([]*Object, len(o.Arguments))
		for i, a := range o.Arguments {
			dst.Arguments[i] = a.Clone()
		}
	}
	if o.Variables != nil {
		dst.Variables = make([]*Object, len(o.Variables))
		for i, v := range o.Variables {
			dst.Variables[i] = v.Clone()
		}
	}
	if o.Attrs != nil {
		dst.Attrs = make([]Attr, len(o.Attrs))
		for i, a := range o.Attrs {
			dst.Attrs[i] = Attr{Symbol: a.Symbol, Value: a.Value.Clone()}
		}
	}
	return dst
}

// Visit walks the tree in pre and post order, diving into children when
// the pre-order call returns true.
func (o *Object) Visit(f func(o *Object, isPost bool) (bool, error)) error {
	dive, err := f(o, false)
	if err != nil {
		return err
	}
	if dive {
		for _, c := range o.children() {
			if err := c.Visit(f); err != nil {
				return err
			}
		}
	}
	_, err = f(o, true)
	return err
}

func (o *Object) children() []*Object {
	var res []*Object
	if o.Applicant != nil {
		res = append(res, o.Applicant)
	}
	res = append(res, o.Arguments...)
	res = append(res, o.Variables...)
	for i := range o.Attrs {
		res = append(res, o.Attrs[i].Value)
	}
	if o.Body != nil {
		res = append(res, o.Body)
	}
	return res
}

// BuildOM makes *Object a construction-interface host type: asking a
// codec for an *Object is asking for the parsed tree itself.
func (o *Object) BuildOM(node *Object) error {
	if node == nil {
		return &SemanticError{Kind: MissingField, Msg: "no node to build from"}
	}
	*o = *node.Clone()
	return nil
}
