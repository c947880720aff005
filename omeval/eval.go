// Package omeval evaluates arithmetic OpenMath objects. It is a
// construction-interface host: an Evaluator builds itself from any
// object made of arith1 applications, numeric leaves and variables, and
// runs the compiled expression against a variable environment. Anything
// outside that fragment fails with an om.SemanticError.
package omeval

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/openmath/openmath-go/om"
)

// Env supplies variable values during evaluation.
type Env map[string]any

// Evaluator is a compiled arithmetic expression.
type Evaluator struct {
	src     string
	program *vm.Program
}

// New lowers and compiles node.
func New(node *om.Object) (*Evaluator, error) {
	ev := &Evaluator{}
	if err := ev.BuildOM(node); err != nil {
		return nil, err
	}
	return ev, nil
}

// BuildOM makes *Evaluator a construction-interface host type.
func (ev *Evaluator) BuildOM(node *om.Object) error {
	var b strings.Builder
	if err := lower(node, &b); err != nil {
		return err
	}
	src := b.String()
	program, err := expr.Compile(src)
	if err != nil {
		return &om.SemanticError{Kind: om.HostDefined, Msg: "compile failed", Err: err}
	}
	ev.src = src
	ev.program = program
	return nil
}

// Source returns the lowered expression text.
func (ev *Evaluator) Source() string {
	return ev.src
}

// Eval runs the expression. Free variables are looked up in env.
func (ev *Evaluator) Eval(env Env) (any, error) {
	if env == nil {
		env = Env{}
	}
	res, err := vm.Run(ev.program, map[string]any(env))
	if err != nil {
		return nil, &om.SemanticError{Kind: om.HostDefined, Msg: "evaluation failed", Err: err}
	}
	return res, nil
}

// arith1 operators by symbol name: the expr operator text and the arity
// it demands, -1 for two-or-more.
var arithOps = map[string]struct {
	op    string
	arity int
}{
	"plus":        {"+", -1},
	"minus":       {"-", 2},
	"times":       {"*", -1},
	"divide":      {"/", 2},
	"power":       {"^", 2},
	"unary_minus": {"-", 1},
}

func lower(node *om.Object, b *strings.Builder) error {
	switch node.Kind {
	case om.OMI:
		v, ok := node.Int.AsInt64()
		if !ok {
			return &om.SemanticError{Kind: om.HostDefined, Msg: node.Int.String() + " does not fit int64"}
		}
		if v < 0 {
			fmt.Fprintf(b, "(%d)", v)
		} else {
			fmt.Fprintf(b, "%d", v)
		}
		return nil
	case om.OMF:
		lit := strconv.FormatFloat(node.Float, 'g', -1, 64)
		if !strings.ContainsAny(lit, ".eE") {
			lit += ".0"
		}
		if node.Float < 0 {
			lit = "(" + lit + ")"
		}
		b.WriteString(lit)
		return nil
	case om.OMV:
		if !identifier(node.Name) {
			return &om.SemanticError{Kind: om.InvalidSymbol, Msg: fmt.Sprintf("variable %q is not an identifier", node.Name)}
		}
		b.WriteString(node.Name)
		return nil
	case om.OMA:
		return lowerApply(node, b)
	case om.OMATTR:
		// Attribution pairs do not change meaning.
		return lower(node.Body, b)
	}
	return om.Unexpected(om.OMA, node.Kind)
}

func lowerApply(node *om.Object, b *strings.Builder) error {
	head := node.Applicant
	if head.Kind != om.OMS {
		return om.Unexpected(om.OMS, head.Kind)
	}
	if head.Symbol.CD != "arith1" {
		return &om.SemanticError{
			Kind: om.InvalidSymbol,
			Msg:  fmt.Sprintf("%s.%s is not an arith1 operation", head.Symbol.CD, head.Symbol.Name),
		}
	}
	def, ok := arithOps[head.Symbol.Name]
	if !ok {
		return &om.SemanticError{
			Kind: om.InvalidSymbol,
			Msg:  fmt.Sprintf("unknown arith1 operation %q", head.Symbol.Name),
		}
	}
	args := node.Arguments
	switch {
	case def.arity == -1 && len(args) < 2:
		return &om.SemanticError{Kind: om.ArityMismatch, Msg: fmt.Sprintf("arith1.%s wants at least 2 arguments, got %d", head.Symbol.Name, len(args))}
	case def.arity > 0 && len(args) != def.arity:
		return &om.SemanticError{Kind: om.ArityMismatch, Msg: fmt.Sprintf("arith1.%s wants %d arguments, got %d", head.Symbol.Name, def.arity, len(args))}
	}
	if def.arity == 1 {
		b.WriteString("(" + def.op)
		if err := lower(args[0], b); err != nil {
			return err
		}
		b.WriteString(")")
		return nil
	}
	b.WriteString("(")
	for i, a := range args {
		if i > 0 {
			b.WriteString(" " + def.op + " ")
		}
		if err := lower(a, b); err != nil {
			return err
		}
	}
	b.WriteString(")")
	return nil
}

func identifier(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		case i > 0 && c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}
