package aether

import (
	"testing"

	"github.com/dekarrin/aether/aetherrt"
	"github.com/dekarrin/aether/internal/front/semantic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lexNames(t *testing.T, input string, conditions aetherrt.Conditions) []string {
	t.Helper()
	lexer := NewLexer("<test>", input, conditions)

	idOf := map[int]string{}
	for name, tag := range Terminals {
		idOf[tag.ID] = name
	}

	var out []string
	var last *aetherrt.Terminal
	for {
		term, err := lexer.NextTerminal(last)
		require.NoError(t, err)
		if term == nil {
			break
		}
		names := make([]string, 0, len(term.Tags))
		for _, id := range term.Tags {
			names = append(names, idOf[id])
		}
		out = append(out, names[0])
		last = term
	}
	return out
}

func Test_Bootstrap_LexesLexicalProduction(t *testing.T) {
	names := lexNames(t, "Id: [A-Za-z]+;", ConditionLexical)

	assert.Equal(t, []string{"Identifier", "Colon", "BracketExpression", "PlusSign", "Semicolon"}, names)
}

func Test_Bootstrap_StartKeywordSuppressesIdentifier(t *testing.T) {
	lexer := NewLexer("<test>", "start", ConditionSyntactic)

	term, err := lexer.NextTerminal(nil)
	require.NoError(t, err)
	require.NotNil(t, term)
	assert.Equal(t, []int{Terminals["Start"].ID}, term.Tags)
	assert.Equal(t, "start", term.Value)
}

func Test_Bootstrap_IgnoreKeywordOnlyInLexicalDialect(t *testing.T) {
	lexer := NewLexer("<test>", "ignore", ConditionLexical)
	term, err := lexer.NextTerminal(nil)
	require.NoError(t, err)
	require.NotNil(t, term)
	assert.Contains(t, term.Tags, Terminals["Ignore"].ID)
	assert.NotContains(t, term.Tags, Terminals["Identifier"].ID)

	lexer = NewLexer("<test>", "ignore", ConditionSyntactic)
	term, err = lexer.NextTerminal(nil)
	require.NoError(t, err)
	require.NotNil(t, term)
	assert.Equal(t, []int{Terminals["Identifier"].ID}, term.Tags)
}

func Test_ParseFile_LexicalGrammar(t *testing.T) {
	tree, err := ParseFile("lexical.aether", "Id: [A-Za-z]+;\n", ConditionLexical)
	require.NoError(t, err)

	prods := LoadLexicalProductions(tree)
	require.Len(t, prods, 1)
	assert.Equal(t, "Id", prods[0].Name)

	iter, ok := prods[0].Expr.(semantic.IterationExpr)
	require.True(t, ok)
	assert.Equal(t, semantic.IterPlus, iter.Kind)

	pl, ok := iter.Inner.(semantic.PatternLeaf)
	require.True(t, ok)
	bracket, ok := pl.Pattern.(semantic.BracketPattern)
	require.True(t, ok)
	assert.False(t, bracket.Negative)
	assert.Equal(t, []semantic.BracketItem{{Lo: 'A', Hi: 'Z'}, {Lo: 'a', Hi: 'z'}}, bracket.Items)
}

func Test_ParseFile_LexicalSpecifiers(t *testing.T) {
	src := "Kw (-Id, ignore @dbg): start;\nId: [A-Za-z]+;\n"
	tree, err := ParseFile("lexical.aether", src, ConditionLexical)
	require.NoError(t, err)

	prods := LoadLexicalProductions(tree)
	require.Len(t, prods, 2)

	kw := prods[0]
	assert.Equal(t, "Kw", kw.Name)
	require.Len(t, kw.Specifiers, 2)

	neg := kw.Specifiers[0]
	assert.Equal(t, semantic.SpecifierNegative, neg.Kind)
	assert.Equal(t, "Id", neg.Name)
	assert.Nil(t, neg.Condition)

	ign := kw.Specifiers[1]
	assert.Equal(t, semantic.SpecifierIgnore, ign.Kind)
	assert.Equal(t, semantic.Primary{Name: "dbg"}, ign.Condition)

	// the word pattern lowers to one simple pattern per character.
	seq, ok := kw.Expr.(semantic.SequenceExpr)
	require.True(t, ok)
	require.Len(t, seq.Items, 5)
	first, ok := seq.Items[0].(semantic.PatternLeaf)
	require.True(t, ok)
	assert.Equal(t, semantic.SimplePattern{Char: 's'}, first.Pattern)
}

func Test_ParseFile_LexicalEscapesAndRanges(t *testing.T) {
	src := "Ws: [\\t\\n ]{1,3};\n"
	tree, err := ParseFile("lexical.aether", src, ConditionLexical)
	require.NoError(t, err)

	prods := LoadLexicalProductions(tree)
	require.Len(t, prods, 1)

	iter, ok := prods[0].Expr.(semantic.IterationExpr)
	require.True(t, ok)
	assert.Equal(t, semantic.IterRange, iter.Kind)
	assert.Equal(t, 1, iter.Min)
	assert.Equal(t, 3, iter.Max)

	pl := iter.Inner.(semantic.PatternLeaf)
	bracket := pl.Pattern.(semantic.BracketPattern)
	assert.Equal(t, []semantic.BracketItem{{Lo: '\t', Hi: '\t'}, {Lo: '\n', Hi: '\n'}, {Lo: ' ', Hi: ' '}}, bracket.Items)
}

func Test_ParseFile_SyntacticGrammar(t *testing.T) {
	src := "S (start): Id | {/ T };\nT: Id;\n"
	tree, err := ParseFile("syntactic.aether", src, ConditionSyntactic)
	require.NoError(t, err)

	prods := LoadSyntacticProductions(tree)
	require.Len(t, prods, 2)

	s := prods[0]
	assert.Equal(t, "S", s.Name)
	assert.True(t, s.IsStart)
	assert.Nil(t, s.StartCondition)

	sel, ok := s.Expr.(semantic.SelectionSyn)
	require.True(t, ok)
	require.Len(t, sel.Alternatives, 2)
	assert.Equal(t, semantic.IdentifierSyn{Name: "Id"}, sel.Alternatives[0])

	iter, ok := sel.Alternatives[1].(semantic.IterationSyn)
	require.True(t, ok)
	assert.True(t, iter.Ordered)
	assert.Equal(t, semantic.IdentifierSyn{Name: "T"}, iter.Inner)

	tProd := prods[1]
	assert.False(t, tProd.IsStart)
}

func Test_ParseFile_SyntacticConditions(t *testing.T) {
	src := "S (start @full || !lite): A @full [ B ] ;\nA: Id;\nB: Id;\n"
	tree, err := ParseFile("syntactic.aether", src, ConditionSyntactic)
	require.NoError(t, err)

	prods := LoadSyntacticProductions(tree)
	require.Len(t, prods, 3)

	s := prods[0]
	require.True(t, s.IsStart)
	disj, ok := s.StartCondition.(semantic.Disjunction)
	require.True(t, ok)
	require.Len(t, disj.Operands, 2)
	assert.Equal(t, semantic.Primary{Name: "full"}, disj.Operands[0])
	assert.Equal(t, semantic.Negation{Operand: semantic.Primary{Name: "lite"}}, disj.Operands[1])

	seq, ok := s.Expr.(semantic.SequenceSyn)
	require.True(t, ok)
	require.Len(t, seq.Items, 2)
	assert.Equal(t, semantic.IdentifierSyn{Name: "A", Condition: semantic.Primary{Name: "full"}}, seq.Items[0])

	opt, ok := seq.Items[1].(semantic.OptionalSyn)
	require.True(t, ok)
	assert.False(t, opt.Ordered)
	assert.Equal(t, semantic.IdentifierSyn{Name: "B"}, opt.Inner)
}

func Test_ParseFile_DoubleNegationCancels(t *testing.T) {
	src := "S (start @!!full): Id;\n"
	tree, err := ParseFile("syntactic.aether", src, ConditionSyntactic)
	require.NoError(t, err)

	prods := LoadSyntacticProductions(tree)
	require.Len(t, prods, 1)
	assert.Equal(t, semantic.Primary{Name: "full"}, prods[0].StartCondition)
}

func Test_ParseFile_EmptyInputHasNoTree(t *testing.T) {
	tree, err := ParseFile("lexical.aether", "", ConditionLexical)

	require.NoError(t, err)
	assert.Nil(t, tree)
}
