package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_SymbolTable_AddGetWithoutShadowReturnsAncestor(t *testing.T) {
	parent := NewSymbolTable[int](nil)
	def := 42
	parentSym := parent.AddGet("x", false)
	parentSym.Definition = &def

	child := NewSymbolTable[int](parent)
	got := child.AddGet("x", false)

	assert.Same(t, parentSym, got)
	assert.Empty(t, child.Symbols)
}

func Test_SymbolTable_AddGetWithShadowInsertsFresh(t *testing.T) {
	parent := NewSymbolTable[int](nil)
	parentSym := parent.AddGet("x", false)

	child := NewSymbolTable[int](parent)
	got := child.AddGet("x", true)

	require.NotSame(t, parentSym, got)
	assert.Same(t, got, child.Symbols["x"])
	assert.Same(t, parentSym, parent.Symbols["x"])

	// lookups from the child now see the shadowing entry.
	assert.Same(t, got, child.Lookup("x"))
	assert.Same(t, parentSym, parent.Lookup("x"))
}

func Test_SymbolTable_LookupWalksToParent(t *testing.T) {
	parent := NewSymbolTable[int](nil)
	sym := parent.AddGet("only", false)

	child := NewSymbolTable[int](parent)

	assert.Same(t, sym, child.Lookup("only"))
	assert.Nil(t, child.Lookup("missing"))
}

func Test_SymbolTable_TableFindsOwningScope(t *testing.T) {
	parent := NewSymbolTable[int](nil)
	parent.AddGet("x", false)
	child := NewSymbolTable[int](parent)

	assert.Same(t, parent, child.Table("x"))
	assert.Nil(t, child.Table("y"))
}
