package golang

import (
	"strings"
	"testing"

	"github.com/dekarrin/aether/internal/front/back"
	"github.com/dekarrin/aether/internal/front/semantic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Fold_Condition(t *testing.T) {
	f := New("generated", []string{"full", "lite"})

	testCases := []struct {
		name string
		expr semantic.ConditionExpr
		exp  string
	}{
		{
			name: "primary",
			expr: semantic.Primary{Name: "full"},
			exp:  "c.Has(ConditionFull)",
		},
		{
			name: "negation",
			expr: semantic.Negation{Operand: semantic.Primary{Name: "lite"}},
			exp:  "!c.Has(ConditionLite)",
		},
		{
			name: "double negation cancels",
			expr: semantic.Negation{Operand: semantic.Negation{Operand: semantic.Primary{Name: "full"}}},
			exp:  "c.Has(ConditionFull)",
		},
		{
			name: "disjunction of conjunction",
			expr: semantic.Disjunction{Operands: []semantic.ConditionExpr{
				semantic.Primary{Name: "full"},
				semantic.Conjunction{Operands: []semantic.ConditionExpr{
					semantic.Primary{Name: "lite"},
					semantic.Negation{Operand: semantic.Primary{Name: "full"}},
				}},
			}},
			exp: "(c.Has(ConditionFull) || (c.Has(ConditionLite) && !c.Has(ConditionFull)))",
		},
		{
			name: "parenthesized subcondition",
			expr: semantic.Primary{Sub: semantic.Primary{Name: "lite"}},
			exp:  "(c.Has(ConditionLite))",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.exp, back.FoldCondition(f, tc.expr))
		})
	}
}

func Test_Fold_CommonFile(t *testing.T) {
	f := New("generated", []string{"zeta", "alpha"})

	out := f.FoldCommonFile(f.Conditions)

	assert.Contains(t, out, "package generated")
	assert.Contains(t, out, "ConditionAlpha aetherrt.Conditions = 1 << iota")
	assert.Contains(t, out, "ConditionZeta")
	// sorted order assigns alpha the low bit.
	assert.Less(t, strings.Index(out, "ConditionAlpha"), strings.Index(out, "ConditionZeta"))
}

func Test_Fold_CommonFileWithoutConditions(t *testing.T) {
	f := New("generated", nil)

	out := f.FoldCommonFile(nil)

	assert.Contains(t, out, "package generated")
	assert.NotContains(t, out, "const (")
}

func compiled(t *testing.T, name string, expr semantic.LexicalExpr) *semantic.LexicalSymbolData {
	t.Helper()
	b := semantic.NewLexicalSymbolTableBuilder()
	require.NoError(t, b.Add(semantic.LexicalProduction{Name: name, Expr: expr}))
	return b.Table.Symbols[name].Definition
}

func Test_Fold_LexicalFile(t *testing.T) {
	data := compiled(t, "Ab", semantic.SequenceExpr{Items: []semantic.LexicalExpr{
		semantic.PatternLeaf{Pattern: semantic.SimplePattern{Char: 'a'}},
		semantic.PatternLeaf{Pattern: semantic.SimplePattern{Char: 'b'}},
	}})

	f := New("generated", nil)
	out := f.FoldLexicalFile([]back.NamedLexical{{Name: "Ab", Data: data}})

	assert.Contains(t, out, "var Terminals = map[string]aetherrt.TerminalTag{")
	assert.Contains(t, out, "func nfaAb(live uint64, c rune) (bool, uint64)")
	assert.Contains(t, out, "if live&(1<<0) != 0 && c == 'a' {")
	assert.Contains(t, out, "if live&(1<<1) != 0 && c == 'b' {")
	assert.Contains(t, out, "NFA: nfaAb,")
	assert.Contains(t, out, "StatesStart: 1<<0,")
}

func Test_Fold_TerminalTagHooks(t *testing.T) {
	data := compiled(t, "Kw", semantic.PatternLeaf{Pattern: semantic.SimplePattern{Char: 'k'}})
	data.Start = semantic.Primary{Name: "full"}
	data.IsIgnoreUnconditional = true
	data.StaticPositives = []string{"Other"}
	data.ConditionalNegatives["Id"] = semantic.Primary{Name: "strict"}

	f := New("generated", []string{"full", "strict"})
	out := f.FoldTerminalTag("Kw", data, f)

	assert.Contains(t, out, "Start: func(c aetherrt.Conditions) bool { return c.Has(ConditionFull) }")
	assert.Contains(t, out, "Ignore: func(c aetherrt.Conditions) bool { return true }")
	assert.Contains(t, out, `out = append(out, Terminals["Other"].ID)`)
	assert.Contains(t, out, "if c.Has(ConditionStrict) {")
}

func Test_Fold_PatternExpr(t *testing.T) {
	testCases := []struct {
		name string
		pat  semantic.Pattern
		exp  string
	}{
		{"simple", semantic.SimplePattern{Char: 'x'}, "c == 'x'"},
		{"wildcard", semantic.WildcardPattern{}, "true"},
		{"bracket", semantic.BracketPattern{Items: []semantic.BracketItem{{Lo: 'a', Hi: 'z'}, {Lo: '_', Hi: '_'}}}, "((c >= 'a' && c <= 'z') || c == '_')"},
		{"negated bracket", semantic.BracketPattern{Negative: true, Items: []semantic.BracketItem{{Lo: '0', Hi: '9'}}}, "!((c >= '0' && c <= '9'))"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.exp, patternExpr(tc.pat))
		})
	}
}

func Test_Fold_PrimaryEmission(t *testing.T) {
	f := New("generated", nil)

	term := f.FoldPrimary("Id", true, "", false)
	assert.Contains(t, term, `p.CallTerminal(Terminals["Id"].ID, s)`)

	firstRef := f.FoldPrimary("E", false, "", true)
	assert.Contains(t, firstRef, `p.Call(self, nontermRefs["E"], []aetherrt.ParsingState{s}, nil)`)

	interior := f.FoldPrimary("E", false, "", false)
	assert.Contains(t, interior, `p.Call(nil, nontermRefs["E"], []aetherrt.ParsingState{s}, nil)`)

	guarded := f.FoldPrimary("Id", true, "c.Has(ConditionFull)", false)
	assert.Contains(t, guarded, "if !(c.Has(ConditionFull)) {")
	assert.Contains(t, guarded, "aetherrt.InternalSkip()")
}

func Test_Fold_SyntacticFile(t *testing.T) {
	f := New("generated", nil)

	sym := &semantic.SyntacticSymbolData{
		ID:          0,
		IsStart:     true,
		StaticFirst: []string{"E"},
		Expr:        semantic.IdentifierSyn{Name: "Id"},
	}
	body := back.FoldExpression(f, f, sym.Expr, func(string) bool { return true }, map[string]bool{"E": true})
	nt := f.FoldNonterminal("E", sym, body)
	out := f.FoldSyntacticFile([]string{nt})

	assert.Contains(t, out, "var Nonterminals = map[string]aetherrt.NonterminalType{")
	assert.Contains(t, out, `"E": {`)
	assert.Contains(t, out, "Start: func(c aetherrt.Conditions) bool { return true },")
	assert.Contains(t, out, `out = append(out, Nonterminals["E"].ID)`)
	assert.Contains(t, out, "var nontermRefs = map[string]*aetherrt.NonterminalType{}")
}

func Test_FoldExpression_FirstReferencePolicy(t *testing.T) {
	f := New("generated", nil)

	// E Plus E: only the leftmost E is a first reference.
	expr := semantic.SequenceSyn{Items: []semantic.SyntacticExpr{
		semantic.IdentifierSyn{Name: "E"},
		semantic.IdentifierSyn{Name: "Plus"},
		semantic.IdentifierSyn{Name: "E"},
	}}
	isTerminal := func(name string) bool { return name == "Plus" }

	out := back.FoldExpression(f, f, expr, isTerminal, map[string]bool{"E": true})

	assert.Equal(t, 1, strings.Count(out, `p.Call(self, nontermRefs["E"]`))
	assert.Equal(t, 1, strings.Count(out, `p.Call(nil, nontermRefs["E"]`))
	assert.Contains(t, out, `p.CallTerminal(Terminals["Plus"].ID, s)`)
}

func Test_FoldExpression_NullablePrefixExtendsFirstReferences(t *testing.T) {
	f := New("generated", nil)

	// [ A ] B: both A and B sit in leftmost position.
	expr := semantic.SequenceSyn{Items: []semantic.SyntacticExpr{
		semantic.OptionalSyn{Inner: semantic.IdentifierSyn{Name: "A"}},
		semantic.IdentifierSyn{Name: "B"},
	}}
	isTerminal := func(string) bool { return false }

	out := back.FoldExpression(f, f, expr, isTerminal, map[string]bool{"A": true, "B": true})

	assert.Contains(t, out, `p.Call(self, nontermRefs["A"]`)
	assert.Contains(t, out, `p.Call(self, nontermRefs["B"]`)
}

func Test_Fold_IterationLowersToOptionalLoop(t *testing.T) {
	f := New("generated", nil)

	out := f.FoldIteration("body", false)

	assert.Contains(t, out, "p.Optional(false, s, func(")
	assert.Contains(t, out, "p.Iteration(false, s, ")
}

func Test_EscapeIdentifier(t *testing.T) {
	assert.Equal(t, "func_", ident("func"))
	assert.Equal(t, "typical", ident("typical"))
	assert.Equal(t, "string_", ident("string"))
}
