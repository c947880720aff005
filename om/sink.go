package om

// Emitter is the emission half of the conversion interfaces. A host value
// describes exactly one OpenMath node per EmitOM call, recursing through
// child Emitters for sub-objects. Emission never mutates the host value,
// so a value may be emitted any number of times.
type Emitter interface {
	EmitOM(s Sink) error
}

// Pair is one attribution pair handed to Sink.OMATTR.
type Pair struct {
	Symbol Symbol
	Value  Emitter
}

// Sink consumes the description of one OpenMath node. A sink may stream
// its output immediately (the wire-format writers do) or materialize an
// Object tree (TreeSink does); both satisfy the same contract, and no
// host value is required to build an intermediate tree.
type Sink interface {
	OMI(v Int) error
	OMF(f float64) error
	OMSTR(s string) error
	OMB(b []byte) error
	OMV(name string) error
	OMS(s Symbol) error
	OMA(head Emitter, args []Emitter) error
	OMBIND(binder Emitter, vars []Emitter, body Emitter) error
	OMATTR(pairs []Pair, object Emitter) error
	OME(sym Symbol, args []Emitter) error
	OMFOREIGN(encoding string, data []byte) error
}

// Builder is the construction half: a host type builds itself from a
// parsed node. It may inspect the node and the subtree it owns, nothing
// past it, and reports typed SemanticError failures rather than silently
// defaulting.
type Builder interface {
	BuildOM(node *Object) error
}

// EmitOM makes *Object an Emitter, so a materialized tree can be handed
// to any writer backend.
func (o *Object) EmitOM(s Sink) error {
	switch o.Kind {
	case OMI:
		return s.OMI(o.Int)
	case OMF:
		return s.OMF(o.Float)
	case OMSTR:
		return s.OMSTR(o.String)
	case OMB:
		return s.OMB(o.Bytes)
	case OMV:
		return s.OMV(o.Name)
	case OMS:
		return s.OMS(o.Symbol)
	case OMA:
		return s.OMA(o.Applicant, emitters(o.Arguments))
	case OMBIND:
		return s.OMBIND(o.Applicant, emitters(o.Variables), o.Body)
	case OMATTR:
		pairs := make([]Pair, len(o.Attrs))
		for i, a := range o.Attrs {
			pairs[i] = Pair{Symbol: a.Symbol, Value: a.Value}
		}
		return s.OMATTR(pairs, o.Body)
	case OME:
		return s.OME(o.Symbol, emitters(o.Arguments))
	case OMFOREIGN:
		return s.OMFOREIGN(o.Encoding, o.Data)
	}
	return &SemanticError{Kind: UnexpectedKind, Msg: "object has no kind"}
}

func emitters(objs []*Object) []Emitter {
	res := make([]Emitter, len(objs))
	for i, o := range objs {
		res[i] = o
	}
	return res
}
