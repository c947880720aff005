package om

import (
	"errors"
	"fmt"
)

// The three error classes every fallible operation reports under.
var (
	ErrIO       = errors.New("io failure")
	ErrFormat   = errors.New("bad format")
	ErrSemantic = errors.New("semantic error")
)

// FormatError reports malformed wire input: a bad literal, bad base64, or
// a broken structure. Offset carries the byte offset for markup input;
// Path carries the document path for structured input.
type FormatError struct {
	Offset int    // byte offset in the input, -1 when not applicable
	Path   string // structured-document path, "" for markup input
	Msg    string
	Err    error // underlying cause, if any
}

func (e *FormatError) Error() string {
	switch {
	case e.Path != "":
		return fmt.Sprintf("bad format at %s: %s", e.Path, e.Msg)
	case e.Offset >= 0:
		return fmt.Sprintf("bad format at offset %d: %s", e.Offset, e.Msg)
	}
	return "bad format: " + e.Msg
}

func (e *FormatError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrFormat, e.Err}
	}
	return []error{ErrFormat}
}

// SemanticKind classifies construction-interface failures.
type SemanticKind int

const (
	UnexpectedKind SemanticKind = iota // node kind does not match what the host type expects
	MissingField                       // a required kind-specific field is absent
	ArityMismatch                      // wrong argument or variable count
	InvalidSymbol                      // namespace/name fails a syntactic check
	HostDefined                        // host-specific semantic failure
)

func (k SemanticKind) String() string {
	switch k {
	case UnexpectedKind:
		return "unexpected kind"
	case MissingField:
		return "missing field"
	case ArityMismatch:
		return "arity mismatch"
	case InvalidSymbol:
		return "invalid symbol"
	case HostDefined:
		return "host error"
	default:
		return "semantic error"
	}
}

// SemanticError reports a construction-interface failure: the parsed node
// is well formed but cannot become the requested host value.
type SemanticError struct {
	Kind      SemanticKind
	Want, Got Kind   // populated for UnexpectedKind
	Path      string // node path, when known
	Msg       string
	Err       error // host cause for HostDefined
}

func (e *SemanticError) Error() string {
	msg := e.Msg
	if msg == "" && e.Kind == UnexpectedKind {
		msg = fmt.Sprintf("want %s, got %s", e.Want, e.Got)
	}
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Path != "" {
		return fmt.Sprintf("%s at %s: %s", e.Kind, e.Path, msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *SemanticError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrSemantic, e.Err}
	}
	return []error{ErrSemantic}
}

// Unexpected builds the UnexpectedKind failure for a host type that wanted
// one node kind and was handed another.
func Unexpected(want, got Kind) *SemanticError {
	return &SemanticError{Kind: UnexpectedKind, Want: want, Got: got}
}
