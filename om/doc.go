// Package om provides the OpenMath 2.0 object model: a tree of
// mathematical expression nodes with variable binding, an arbitrary
// precision integer type, and the two conversion interfaces every codec
// in this module is built against.
//
// # Object Model
//
// An Object is a single node with a Kind discriminant and per-kind
// payload fields:
//
//   - OMI: integer (Int, small/big dual form)
//   - OMF: 64-bit IEEE float
//   - OMSTR: character string
//   - OMB: byte array
//   - OMV: variable
//   - OMS: content dictionary symbol (cd, name, optional cdbase)
//   - OMA: application (head plus ordered arguments)
//   - OMBIND: binding (binder, bound variables, body)
//   - OMATTR: attribution (symbol/value pairs, annotated object)
//   - OME: error object (error symbol plus arguments)
//   - OMFOREIGN: foreign content, preserved verbatim
//
// Composite nodes exclusively own their children; there is no structure
// sharing and no back-references. Objects are immutable after
// construction and may be read concurrently without locking.
//
// Symbols are opaque (cd, name) pairs. Nothing resolves them against
// content dictionary definitions.
//
// # Conversion Interfaces
//
// Emitter and Sink decouple how a host value looks as OpenMath from
// which backend consumes it. A host value implements Emitter; the sink
// is a markup writer, a structured-document writer, or the in-memory
// TreeSink, all behind the same contract. Builder is the reverse: a host
// type constructs itself from a parsed Object. *Object implements both,
// so "give me the tree" is just another host type.
//
// # Errors
//
// Every fallible operation returns an explicit error classed under
// ErrIO, ErrFormat or ErrSemantic. FormatError carries a byte offset or
// document path; SemanticError carries the construction failure kind.
//
// # Related Packages
//
//   - github.com/openmath/openmath-go/omxml - OpenMath XML encoding
//   - github.com/openmath/openmath-go/omjson - OpenMath JSON encoding
//   - github.com/openmath/openmath-go/ommap - Go value mapping
package om
