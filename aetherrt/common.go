// Package aetherrt is the runtime support library for lexers and parsers
// produced by aether. Generated code imports this package; it is also used
// directly by aether itself to recognize its own grammar files, so the
// lexical/parsing engine here is exercised by both the bootstrap grammar and
// every grammar aether ever generates from.
package aetherrt

import "fmt"

// Position identifies a single point in a source file by rune index, line,
// and column, all 1-indexed except Index which is 0-indexed.
type Position struct {
	Filename string
	Index    int
	Line     int
	Column   int
}

// NewPosition returns the starting Position of filename: index 0, line 1,
// column 1.
func NewPosition(filename string) Position {
	return Position{Filename: filename, Index: 0, Line: 1, Column: 1}
}

// Copy returns a copy of p.
func (p Position) Copy() Position {
	return p
}

// Update advances p past the single rune c, adjusting Line/Column when c is
// a newline.
func (p Position) Update(c rune) Position {
	p.Index++

	if c == '\n' {
		p.Line++
		p.Column = 1
	} else {
		p.Column++
	}

	return p
}

func (p Position) String() string {
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

// Kind classifies the diagnostics aether (and generated parsers) can raise.
type Kind int

const (
	// KindInternal signals a bug in the engine itself: a code path believed
	// unreachable was reached. It is never expected to surface to an
	// operator of a correct grammar.
	KindInternal Kind = iota

	// KindNoTerminal means the lexer could not match any terminal tag
	// starting at the current position.
	KindNoTerminal

	// KindNoStart means a grammar defines no start symbol.
	KindNoStart

	// KindMultipleStarts means a grammar defines more than one start
	// symbol.
	KindMultipleStarts

	// KindNoDerivation means the parser consumed all recognizable input but
	// could not derive the start symbol over the whole of it.
	KindNoDerivation

	// KindDuplicateSymbolDefinition means a symbol table entry was defined
	// more than once in a scope that does not permit shadowing.
	KindDuplicateSymbolDefinition

	// KindUndefinedSymbol means a grammar referenced a symbol that was
	// never defined.
	KindUndefinedSymbol

	// KindAmbiguousGrammar means a BSR disambiguation pass found more than
	// one EPN for a position and had no rule to prefer one.
	KindAmbiguousGrammar
)

func (k Kind) String() string {
	switch k {
	case KindInternal:
		return "internal error"
	case KindNoTerminal:
		return "no terminal"
	case KindNoStart:
		return "no start symbol"
	case KindMultipleStarts:
		return "multiple start symbols"
	case KindNoDerivation:
		return "no derivation"
	case KindDuplicateSymbolDefinition:
		return "duplicate symbol definition"
	case KindUndefinedSymbol:
		return "undefined symbol"
	case KindAmbiguousGrammar:
		return "ambiguous grammar"
	default:
		return "unknown error"
	}
}

// Error is the single error type raised by the lexing, parsing, and
// semantic-analysis stages. It carries the Kind of problem, the source
// Position it was found at (the zero Position if not applicable), and
// optionally wraps a lower-level cause.
type Error struct {
	Kind    Kind
	Pos     Position
	Message string
	wrapped error
}

func (e *Error) Error() string {
	if e.Pos.Filename == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Pos, e.Kind, e.Message)
}

// Unwrap gives the error e wraps, if any.
func (e *Error) Unwrap() error {
	return e.wrapped
}

// Diagnostic renders e as a single "FILE:LINE:COLUMN: KIND: description"
// line, or "KIND: description" if e has no associated position.
func (e *Error) Diagnostic() string {
	return e.Error()
}

// New returns a new Error of the given kind at pos with the given message.
func New(kind Kind, pos Position, format string, a ...interface{}) *Error {
	return &Error{Kind: kind, Pos: pos, Message: fmt.Sprintf(format, a...)}
}

// Wrap returns a new Error of the given kind at pos, wrapping cause.
func Wrap(cause error, kind Kind, pos Position, format string, a ...interface{}) *Error {
	return &Error{Kind: kind, Pos: pos, Message: fmt.Sprintf(format, a...), wrapped: cause}
}

// errInternal is the non-public "this derivation path failed" sentinel
// raised within a single call() invocation and caught by its immediate
// caller. It is never allowed to escape Parser.Parse.
var errInternal = &Error{Kind: KindInternal, Message: "no viable derivation on this path"}

// IsInternal reports whether err is the internal retry-signal sentinel.
func IsInternal(err error) bool {
	return err == errInternal
}
