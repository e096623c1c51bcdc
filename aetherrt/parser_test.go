package aetherrt

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	tagN    = 1
	tagPlus = 2
	tagA    = 3
)

func charNFA(ch rune) func(uint64, rune) (bool, uint64) {
	return func(states uint64, c rune) (bool, uint64) {
		if states&1 != 0 && c == ch {
			return true, 0
		}
		return false, 0
	}
}

func exprTags() []TerminalTag {
	return []TerminalTag{
		{ID: tagN, Name: "N", StatesStart: 1, NFA: charNFA('n')},
		{ID: tagPlus, Name: "Plus", StatesStart: 1, NFA: charNFA('+')},
		{ID: tagA, Name: "A", StatesStart: 1, NFA: charNFA('a')},
	}
}

// exprGrammar is E: E Plus E | N, the canonical ambiguous left-recursive
// production, written the same way the Go back end emits a Descend body:
// the leftmost E reference names its caller, the interior one does not.
func exprGrammar() []NonterminalType {
	e := &NonterminalType{ID: 0, Name: "E"}
	e.Start = func(Conditions) bool { return true }
	e.First = func(Conditions) []int { return []int{0} }
	e.Descend = func(p *Parser, s ParsingState) ([]ParsingState, error) {
		return p.Selection(false, s, []DescendAlt{
			func(p *Parser, s ParsingState) ([]ParsingState, error) {
				return p.Sequence(s, []DescendAlt{
					func(p *Parser, s ParsingState) ([]ParsingState, error) {
						return p.Call(e, e, []ParsingState{s}, nil)
					},
					func(p *Parser, s ParsingState) ([]ParsingState, error) {
						return p.CallTerminal(tagPlus, s)
					},
					func(p *Parser, s ParsingState) ([]ParsingState, error) {
						return p.Call(nil, e, []ParsingState{s}, nil)
					},
				})
			},
			func(p *Parser, s ParsingState) ([]ParsingState, error) {
				return p.CallTerminal(tagN, s)
			},
		})
	}
	return []NonterminalType{*e}
}

// doubledGrammar is S: S S | A on single-letter input, ambiguous for any
// input longer than two letters.
func doubledGrammar() []NonterminalType {
	s := &NonterminalType{ID: 0, Name: "S"}
	s.Start = func(Conditions) bool { return true }
	s.First = func(Conditions) []int { return []int{0} }
	s.Descend = func(p *Parser, st ParsingState) ([]ParsingState, error) {
		return p.Selection(false, st, []DescendAlt{
			func(p *Parser, st ParsingState) ([]ParsingState, error) {
				return p.Sequence(st, []DescendAlt{
					func(p *Parser, st ParsingState) ([]ParsingState, error) {
						return p.Call(s, s, []ParsingState{st}, nil)
					},
					func(p *Parser, st ParsingState) ([]ParsingState, error) {
						return p.Call(nil, s, []ParsingState{st}, nil)
					},
				})
			},
			func(p *Parser, st ParsingState) ([]ParsingState, error) {
				return p.CallTerminal(tagA, st)
			},
		})
	}
	return []NonterminalType{*s}
}

// singleTagGrammar is S: A, with no recursion at all.
func singleTagGrammar() []NonterminalType {
	s := &NonterminalType{ID: 0, Name: "S"}
	s.Start = func(Conditions) bool { return true }
	s.Descend = func(p *Parser, st ParsingState) ([]ParsingState, error) {
		return p.CallTerminal(tagA, st)
	}
	return []NonterminalType{*s}
}

func parseInput(t *testing.T, input string, types []NonterminalType) (*Parser, error) {
	t.Helper()
	lexer := NewLexer("<test>", input, exprTags(), 0)
	parser, err := NewParser(lexer, types, 0)
	require.NoError(t, err)
	return parser, parser.Parse()
}

func Test_Parser_SimpleDerivation(t *testing.T) {
	parser, err := parseInput(t, "a", singleTagGrammar())

	require.NoError(t, err)
	bsr := parser.BSR()
	assert.True(t, bsr.HasStart)

	root := bsr.get(bsrKeyFor(parser.Start(), 0, 1))
	require.Len(t, root, 1)
	assert.Equal(t, []Sym{{Nonterminal: false, ID: tagA}}, root[0].State.Seen)
}

func Test_Parser_EmptyInputIsNotAnError(t *testing.T) {
	parser, err := parseInput(t, "", singleTagGrammar())

	require.NoError(t, err)
	assert.False(t, parser.BSR().HasStart)
}

func Test_Parser_TrailingInputIsNoDerivation(t *testing.T) {
	_, err := parseInput(t, "aa", singleTagGrammar())

	require.Error(t, err)
	var aerr *Error
	require.True(t, errors.As(err, &aerr))
	assert.Equal(t, KindNoDerivation, aerr.Kind)
	assert.Equal(t, 1, aerr.Pos.Index)
}

func Test_Parser_LexErrorPropagates(t *testing.T) {
	_, err := parseInput(t, "!", singleTagGrammar())

	require.Error(t, err)
	var aerr *Error
	require.True(t, errors.As(err, &aerr))
	assert.Equal(t, KindNoTerminal, aerr.Kind)
}

func Test_Parser_LeftRecursionTerminates(t *testing.T) {
	parser, err := parseInput(t, "n+n+n", exprGrammar())

	require.NoError(t, err)
	assert.True(t, parser.BSR().HasStart)

	// the ascent rounds leave at least the bare N derivation and the grown
	// E Plus E derivations memoized at the start position.
	assert.GreaterOrEqual(t, len(parser.memo[memoKey{nt: 0, start: 0}]), 2)
}

func Test_Parser_MemoGrowsMonotonically(t *testing.T) {
	types := exprGrammar()
	inner := types[0].Descend

	var sizes []int
	types[0].Descend = func(p *Parser, s ParsingState) ([]ParsingState, error) {
		sizes = append(sizes, len(p.memo[memoKey{nt: 0, start: 0}]))
		return inner(p, s)
	}

	_, err := parseInput(t, "n+n+n", types)
	require.NoError(t, err)

	require.NotEmpty(t, sizes)
	for i := 1; i < len(sizes); i++ {
		assert.GreaterOrEqual(t, sizes[i], sizes[i-1])
	}
}

func Test_Parser_AmbiguityIsPackedIntoOneKey(t *testing.T) {
	parser, err := parseInput(t, "aaa", doubledGrammar())

	require.NoError(t, err)
	bsr := parser.BSR()
	require.True(t, bsr.HasStart)

	// (a(aa)) and ((aa)a) pack as two EPNs, split at 1 and at 2, under the
	// same (S, 0, 3) key.
	root := bsr.get(bsrKeyFor(parser.Start(), 0, 3))
	assert.Len(t, root, 2)
}

func Test_Parser_AmbiguousExpressionDetectedByDisambiguator(t *testing.T) {
	parser, err := parseInput(t, "n+n+n", exprGrammar())
	require.NoError(t, err)

	derr := NewBSRDisambiguator(parser.BSR()).Run()

	require.Error(t, derr)
	var aerr *Error
	require.True(t, errors.As(derr, &aerr))
	assert.Equal(t, KindAmbiguousGrammar, aerr.Kind)
}

// convergentGrammar is S: A | B; A: a; B: a — two distinct derivations of
// any input that both end on the same terminal.
func convergentGrammar() []NonterminalType {
	s := &NonterminalType{ID: 0, Name: "S"}
	a := &NonterminalType{ID: 1, Name: "A"}
	b := &NonterminalType{ID: 2, Name: "B"}

	s.Start = func(Conditions) bool { return true }
	s.First = func(Conditions) []int { return []int{1, 2} }
	s.Descend = func(p *Parser, st ParsingState) ([]ParsingState, error) {
		return p.Selection(false, st, []DescendAlt{
			func(p *Parser, st ParsingState) ([]ParsingState, error) {
				return p.Call(nil, a, []ParsingState{st}, nil)
			},
			func(p *Parser, st ParsingState) ([]ParsingState, error) {
				return p.Call(nil, b, []ParsingState{st}, nil)
			},
		})
	}
	a.Descend = func(p *Parser, st ParsingState) ([]ParsingState, error) {
		return p.CallTerminal(tagA, st)
	}
	b.Descend = func(p *Parser, st ParsingState) ([]ParsingState, error) {
		return p.CallTerminal(tagA, st)
	}

	return []NonterminalType{*s, *a, *b}
}

func Test_Parser_MemoKeysByEndTerminal(t *testing.T) {
	parser, err := parseInput(t, "a", convergentGrammar())
	require.NoError(t, err)

	// both alternatives reach the same terminal: the memo coalesces them
	// into one entry, while the packed forest keeps both reductions.
	assert.Len(t, parser.memo[memoKey{nt: 0, start: 0}], 1)

	root := parser.BSR().get(bsrKeyFor(parser.Start(), 0, 1))
	assert.Len(t, root, 2)
}

func Test_Parser_ForcedNoAscendStopsGrowth(t *testing.T) {
	// with ascent suppressed at the top, only the bare N derivation exists
	// and the rest of the input is left unconsumed.
	types := exprGrammar()
	lexer := NewLexer("<test>", "n+n", exprTags(), 0)
	parser, err := NewParser(lexer, types, 0)
	require.NoError(t, err)

	seed := ParsingState{StartPosition: NewPosition("<test>"), SplitPosition: NewPosition("<test>")}
	_, err = parser.Call(nil, parser.Start(), []ParsingState{seed}, AscendFlag(false))
	require.NoError(t, err)

	assert.Len(t, parser.memo[memoKey{nt: 0, start: 0}], 1)
}

func Test_Parser_NoStart(t *testing.T) {
	types := singleTagGrammar()
	types[0].Start = nil

	lexer := NewLexer("<test>", "a", exprTags(), 0)
	_, err := NewParser(lexer, types, 0)

	require.Error(t, err)
	var aerr *Error
	require.True(t, errors.As(err, &aerr))
	assert.Equal(t, KindNoStart, aerr.Kind)
}

func Test_Parser_MultipleStarts(t *testing.T) {
	a := singleTagGrammar()[0]
	b := singleTagGrammar()[0]
	a.Name = "Alpha"
	b.ID, b.Name = 1, "Beta"

	lexer := NewLexer("<test>", "a", exprTags(), 0)
	_, err := NewParser(lexer, []NonterminalType{a, b}, 0)

	require.Error(t, err)
	var aerr *Error
	require.True(t, errors.As(err, &aerr))
	assert.Equal(t, KindMultipleStarts, aerr.Kind)
	assert.Contains(t, aerr.Message, "Alpha and Beta")
}

func Test_Parser_ConditionalStart(t *testing.T) {
	const condAlt Conditions = 1

	a := singleTagGrammar()[0]
	b := singleTagGrammar()[0]
	a.Name = "Alpha"
	a.Start = func(c Conditions) bool { return !c.Has(condAlt) }
	b.ID, b.Name = 1, "Beta"
	b.Start = func(c Conditions) bool { return c.Has(condAlt) }

	lexer := NewLexer("<test>", "a", exprTags(), condAlt)
	parser, err := NewParser(lexer, []NonterminalType{a, b}, condAlt)

	require.NoError(t, err)
	assert.Equal(t, "Beta", parser.Start().Name)
}
