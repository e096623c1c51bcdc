package aetherrt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// digitNFA accepts one-or-more ASCII digits via a single self-looping state.
func digitNFA(states uint64, c rune) (bool, uint64) {
	if states&1 == 0 {
		return false, 0
	}
	if c < '0' || c > '9' {
		return false, 0
	}
	return true, 1
}

// letterNFA accepts one-or-more ASCII letters via a single self-looping
// state.
func letterNFA(states uint64, c rune) (bool, uint64) {
	if states&1 == 0 {
		return false, 0
	}
	if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') {
		return false, 0
	}
	return true, 1
}

// spaceNFA accepts one-or-more ASCII spaces and newlines via a single
// self-looping state.
func spaceNFA(states uint64, c rune) (bool, uint64) {
	if states&1 == 0 {
		return false, 0
	}
	if c != ' ' && c != '\n' {
		return false, 0
	}
	return true, 1
}

func namedTags() []TerminalTag {
	return []TerminalTag{
		{ID: 1, Name: "Digits", StatesStart: 1, NFA: digitNFA},
		{ID: 2, Name: "Ident", StatesStart: 1, NFA: letterNFA},
		{ID: 3, Name: "Space", StatesStart: 1, NFA: spaceNFA, Ignore: func(Conditions) bool { return true }},
	}
}

func lexAll(t *testing.T, input string, tags []TerminalTag, c Conditions) []*Terminal {
	t.Helper()
	lexer := NewLexer("<test>", input, tags, c)

	var out []*Terminal
	var last *Terminal
	for {
		term, err := lexer.NextTerminal(last)
		require.NoError(t, err)
		if term == nil {
			break
		}
		out = append(out, term)
		last = term
	}
	return out
}

func Test_Lexer_LongestMatch(t *testing.T) {
	terms := lexAll(t, "123abc", namedTags(), 0)

	require.Len(t, terms, 2)
	assert.Equal(t, "123", terms[0].Value)
	assert.Equal(t, []int{1}, terms[0].Tags)
	assert.Equal(t, "abc", terms[1].Value)
	assert.Equal(t, []int{2}, terms[1].Tags)
}

func Test_Lexer_IgnoresWhitespace(t *testing.T) {
	terms := lexAll(t, "12 ab  34", namedTags(), 0)

	require.Len(t, terms, 3)
	assert.Equal(t, "12", terms[0].Value)
	assert.Equal(t, "ab", terms[1].Value)
	assert.Equal(t, "34", terms[2].Value)
}

func Test_Lexer_ChainsNextTerminal(t *testing.T) {
	terms := lexAll(t, "1 2", namedTags(), 0)
	require.Len(t, terms, 2)

	assert.Same(t, terms[1], terms[0].Next)
}

func Test_Lexer_TracksPositions(t *testing.T) {
	terms := lexAll(t, "1\n22", namedTags(), 0)
	require.Len(t, terms, 2)

	assert.Equal(t, 1, terms[0].StartPosition.Line)
	assert.Equal(t, 1, terms[0].StartPosition.Column)
	assert.Equal(t, 2, terms[1].StartPosition.Line)
	assert.Equal(t, 1, terms[1].StartPosition.Column)
}

func Test_Lexer_NoTerminalMatches(t *testing.T) {
	lexer := NewLexer("<test>", "!", namedTags(), 0)
	_, err := lexer.NextTerminal(nil)
	require.Error(t, err)
}

func Test_Lexer_EmptyInputYieldsNoTerminals(t *testing.T) {
	terms := lexAll(t, "", namedTags(), 0)
	assert.Empty(t, terms)
}

func Test_Lexer_TagClosure_PositivesAddTag(t *testing.T) {
	// Keyword "if" is lexed as Ident but Positives forces the Keyword tag
	// (id 4) into the accepted set alongside it, as generated code does for
	// reserved words layered over a general identifier pattern.
	tags := []TerminalTag{
		{ID: 2, Name: "Ident", StatesStart: 1, NFA: letterNFA,
			Positives: func(Conditions) []int { return []int{4} }},
		{ID: 4, Name: "KeywordIf", StatesStart: 0, NFA: func(uint64, rune) (bool, uint64) { return false, 0 }},
	}

	terms := lexAll(t, "if", tags, 0)
	require.Len(t, terms, 1)
	assert.ElementsMatch(t, []int{2, 4}, terms[0].Tags)
}

func Test_Lexer_TagClosure_NegativesRemoveTag(t *testing.T) {
	// Keyword "if" forces out the general Ident tag via Negatives, the
	// opposite closure direction: only the more specific tag survives.
	tags := []TerminalTag{
		{ID: 2, Name: "Ident", StatesStart: 1, NFA: letterNFA},
		{ID: 4, Name: "KeywordIf", StatesStart: 1, NFA: letterNFA,
			Negatives: func(Conditions) []int { return []int{2} }},
	}

	terms := lexAll(t, "if", tags, 0)
	require.Len(t, terms, 1)
	assert.Equal(t, []int{4}, terms[0].Tags)
}

func Test_Lexer_ClosureIsIdempotent(t *testing.T) {
	// Kw forces in Extra (positively) which forces out Ident; a second
	// application of the closure must not change the result.
	tags := []TerminalTag{
		{ID: 2, Name: "Ident", StatesStart: 1, NFA: letterNFA},
		{ID: 4, Name: "Kw", StatesStart: 1, NFA: letterNFA,
			Positives: func(Conditions) []int { return []int{5} }},
		{ID: 5, Name: "Extra", StatesStart: 0, NFA: func(uint64, rune) (bool, uint64) { return false, 0 },
			Negatives: func(Conditions) []int { return []int{2} }},
	}

	lexer := NewLexer("<test>", "if", tags, 0)

	once := lexer.closure([]int{2, 4})
	twice := lexer.closure(once)

	assert.Equal(t, []int{4, 5}, once)
	assert.Equal(t, once, twice)
}

func Test_Lexer_AllIgnoredAcceptsAreSkippedContiguously(t *testing.T) {
	terms := lexAll(t, "  1  2", namedTags(), 0)

	require.Len(t, terms, 2)
	assert.Equal(t, "1", terms[0].Value)
	assert.Equal(t, 2, terms[0].StartPosition.Index)
	assert.Equal(t, "2", terms[1].Value)
	assert.Equal(t, 5, terms[1].StartPosition.Index)
}

func Test_Lexer_StartRestrictsActiveAlphabet(t *testing.T) {
	const condCode Conditions = 1

	tags := []TerminalTag{
		{ID: 1, Name: "Digits", StatesStart: 1, NFA: digitNFA,
			Start: func(c Conditions) bool { return !c.Has(condCode) }},
		{ID: 2, Name: "Ident", StatesStart: 1, NFA: letterNFA,
			Start: func(c Conditions) bool { return c.Has(condCode) }},
	}

	// under the default conditions, only Digits is active
	lexer := NewLexer("<test>", "abc", tags, 0)
	_, err := lexer.NextTerminal(nil)
	require.Error(t, err)

	// with condCode set, only Ident is active and matches
	terms := lexAll(t, "abc", tags, condCode)
	require.Len(t, terms, 1)
	assert.Equal(t, []int{2}, terms[0].Tags)
}
