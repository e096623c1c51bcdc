// Package semantic builds the lexical and syntactic symbol tables a grammar
// is checked and compiled against: definitions, declarations and
// references of terminal tags, nonterminal types and conditions, the NFA
// fragments compiled from lexical patterns, and the FIRST sets (pruned to
// their owning strongly-connected component) that drive left-recursion
// ascent in the generated parser.
package semantic

import (
	"github.com/dekarrin/aether/aetherrt"
)

// Symbol is one named entry of a SymbolTable: an optional definition of
// type T, plus every position it was declared or referenced at.
type Symbol[T any] struct {
	Name         string
	Definition   *T
	Declarations []aetherrt.Position
	References   []aetherrt.Position
}

// SymbolTable is a (optional parent, name -> Symbol) scope. Lookups that
// fall through to Table walk up the parent chain. The lexical and syntactic
// tables are both built as root tables; the syntactic builder checks
// terminal tag references against the lexical table separately.
type SymbolTable[T any] struct {
	Parent  *SymbolTable[T]
	Symbols map[string]*Symbol[T]
}

// NewSymbolTable returns an empty table chained to parent (nil for a root
// table).
func NewSymbolTable[T any](parent *SymbolTable[T]) *SymbolTable[T] {
	return &SymbolTable[T]{Parent: parent, Symbols: make(map[string]*Symbol[T])}
}

// Table returns the nearest table (starting at t) that already has an entry
// named name, or nil if none does.
func (t *SymbolTable[T]) Table(name string) *SymbolTable[T] {
	for cur := t; cur != nil; cur = cur.Parent {
		if _, ok := cur.Symbols[name]; ok {
			return cur
		}
	}
	return nil
}

// AddGet returns the existing Symbol named name if one exists anywhere in
// t's ancestor chain and shadow is false; otherwise it inserts (and
// returns) a fresh Symbol in t itself.
func (t *SymbolTable[T]) AddGet(name string, shadow bool) *Symbol[T] {
	if !shadow {
		if owner := t.Table(name); owner != nil {
			return owner.Symbols[name]
		}
	}

	sym := &Symbol[T]{Name: name}
	t.Symbols[name] = sym
	return sym
}

// Lookup returns the Symbol named name visible from t (walking to parents),
// or nil.
func (t *SymbolTable[T]) Lookup(name string) *Symbol[T] {
	owner := t.Table(name)
	if owner == nil {
		return nil
	}
	return owner.Symbols[name]
}
