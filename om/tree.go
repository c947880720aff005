package om

// TreeSink is the Sink backend that materializes an Object tree. It is
// the "direct in-memory builder" counterpart of the wire-format writers:
// every emission call produces exactly one node, and composite calls
// recursively run their children through fresh TreeSinks.
type TreeSink struct {
	obj *Object
}

// Object returns the node built by the last emission call, or nil.
func (t *TreeSink) Object() *Object {
	return t.obj
}

// BuildTree lowers an Emitter into an owned Object tree.
func BuildTree(e Emitter) (*Object, error) {
	var ts TreeSink
	if err := e.EmitOM(&ts); err != nil {
		return nil, err
	}
	if ts.obj == nil {
		return nil, &SemanticError{Kind: MissingField, Msg: "emitter produced no node"}
	}
	return ts.obj, nil
}

func buildAll(es []Emitter) ([]*Object, error) {
	if es == nil {
		return nil, nil
	}
	res := make([]*Object, len(es))
	for i, e := range es {
		o, err := BuildTree(e)
		if err != nil {
			return nil, err
		}
		res[i] = o
	}
	return res, nil
}

func (t *TreeSink) OMI(v Int) error {
	t.obj = FromIntValue(v)
	return nil
}

func (t *TreeSink) OMF(f float64) error {
	t.obj = FromFloat(f)
	return nil
}

func (t *TreeSink) OMSTR(s string) error {
	t.obj = FromString(s)
	return nil
}

func (t *TreeSink) OMB(b []byte) error {
	t.obj = FromBytes(append([]byte(nil), b...))
	return nil
}

func (t *TreeSink) OMV(name string) error {
	t.obj = Var(name)
	return nil
}

func (t *TreeSink) OMS(s Symbol) error {
	t.obj = FromSymbol(s)
	return nil
}

func (t *TreeSink) OMA(head Emitter, args []Emitter) error {
	h, err := BuildTree(head)
	if err != nil {
		return err
	}
	as, err := buildAll(args)
	if err != nil {
		return err
	}
	t.obj = Apply(h, as...)
	return nil
}

func (t *TreeSink) OMBIND(binder Emitter, vars []Emitter, body Emitter) error {
	b, err := BuildTree(binder)
	if err != nil {
		return err
	}
	vs, err := buildAll(vars)
	if err != nil {
		return err
	}
	bd, err := BuildTree(body)
	if err != nil {
		return err
	}
	t.obj = Bind(b, vs, bd)
	return nil
}

func (t *TreeSink) OMATTR(pairs []Pair, object Emitter) error {
	attrs := make([]Attr, len(pairs))
	for i, p := range pairs {
		v, err := BuildTree(p.Value)
		if err != nil {
			return err
		}
		attrs[i] = Attr{Symbol: p.Symbol, Value: v}
	}
	obj, err := BuildTree(object)
	if err != nil {
		return err
	}
	t.obj = Attribute(obj, attrs...)
	return nil
}

func (t *TreeSink) OME(sym Symbol, args []Emitter) error {
	as, err := buildAll(args)
	if err != nil {
		return err
	}
	t.obj = ErrorObj(sym, as...)
	return nil
}

func (t *TreeSink) OMFOREIGN(encoding string, data []byte) error {
	t.obj = Foreign(encoding, append([]byte(nil), data...))
	return nil
}
