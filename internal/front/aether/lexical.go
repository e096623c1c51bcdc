// Package aether is the hand-written bootstrap grammar aether uses to read
// its own input: the terminal tags and nonterminal types recognizing
// `lexical.aether`/`syntactic.aether` files. It is built out of exactly the
// same aetherrt.TerminalTag/aetherrt.NonterminalType machinery the code
// generator emits for a user's own grammar, which is what lets aether parse
// its own meta-grammar with the identical engine it ships.
package aether

import "github.com/dekarrin/aether/aetherrt"

// Conditions bits: a lexical-grammar file and a syntactic-grammar file
// share almost all of this grammar's terminals, but a few tokens (the
// iteration/range operators vs. the bracketed-repetition delimiters, the
// `/` ordered alternation) only make sense in one of the two files.
const (
	ConditionLexical aetherrt.Conditions = 1 << iota
	ConditionSyntactic
)

func terminalID(name string) int { return Terminals[name].ID }

var tagID int

func nextTagID() int {
	id := tagID
	tagID++
	return id
}

func isOrdCharExcluded(c rune) bool {
	if c >= '\000' && c <= '\037' {
		return true
	}
	switch c {
	case ' ', '$', '(', ')', '*', '+', '.', ';', '?', '[', '\\', '^', '{', '|', '\177':
		return true
	}
	return false
}

// Terminals is the bootstrap grammar's terminal tag table.
var Terminals map[string]aetherrt.TerminalTag

func init() {
	Terminals = buildTerminals()
}

func buildTerminals() map[string]aetherrt.TerminalTag {
	t := map[string]aetherrt.TerminalTag{}
	add := func(name string, tag aetherrt.TerminalTag) {
		tag.ID = nextTagID()
		tag.Name = name
		t[name] = tag
	}

	add("Whitespace", aetherrt.TerminalTag{
		StatesStart: 1<<0 | 1<<1 | 1<<2,
		Ignore:      func(aetherrt.Conditions) bool { return true },
		NFA: func(states uint64, c rune) (bool, uint64) {
			accept := false
			var next uint64
			if states&(1<<0) != 0 && (c == '\t' || c == ' ') {
				accept = true
				next |= 1<<0 | 1<<1 | 1<<2
			}
			if states&(1<<1) != 0 && c == '\r' {
				next |= 1 << 2
			}
			if states&(1<<2) != 0 && c == '\n' {
				accept = true
				next |= 1<<0 | 1<<1 | 1<<2
			}
			return accept, next
		},
	})

	add("Identifier", aetherrt.TerminalTag{
		StatesStart: 1 << 0,
		Positives:   func(aetherrt.Conditions) []int { return []int{terminalID("OrdChar")} },
		NFA: func(states uint64, c rune) (bool, uint64) {
			accept := false
			var next uint64
			isWordStart := (c >= 'A' && c <= 'Z') || c == '_' || (c >= 'a' && c <= 'z')
			isWordCont := isWordStart || (c >= '0' && c <= '9')
			if states&(1<<0) != 0 && isWordStart {
				accept = true
				next |= 1 << 1
			}
			if states&(1<<1) != 0 && isWordCont {
				accept = true
				next |= 1 << 1
			}
			return accept, next
		},
	})

	simple := func(name string, ch rune, positivesOrdChar bool, start func(aetherrt.Conditions) bool) {
		tag := aetherrt.TerminalTag{
			StatesStart: 1 << 0,
			Start:       start,
			NFA: func(states uint64, c rune) (bool, uint64) {
				if states&(1<<0) != 0 && c == ch {
					return true, 0
				}
				return false, 0
			},
		}
		if positivesOrdChar {
			tag.Positives = func(aetherrt.Conditions) []int { return []int{terminalID("OrdChar")} }
		}
		add(name, tag)
	}

	simple("Colon", ':', true, nil)
	simple("Semicolon", ';', false, nil)
	simple("CommercialAt", '@', true, nil)
	simple("LeftParenthesis", '(', false, nil)
	simple("RightParenthesis", ')', false, nil)
	simple("VerticalLine", '|', false, nil)
	simple("Solidus", '/', false, func(c aetherrt.Conditions) bool { return c.Has(ConditionSyntactic) })

	add("DoubleVerticalLine", aetherrt.TerminalTag{
		StatesStart: 1 << 0,
		NFA:         twoCharNFA('|', '|'),
	})

	simple("Comma", ',', true, nil)

	add("DoubleAmpersand", aetherrt.TerminalTag{
		StatesStart: 1 << 0,
		NFA:         twoCharNFA('&', '&'),
	})

	simple("PlusSign", '+', false, func(c aetherrt.Conditions) bool { return c.Has(ConditionLexical) })
	simple("HyphenMinus", '-', true, func(c aetherrt.Conditions) bool { return c.Has(ConditionLexical) })

	add("Ignore", aetherrt.TerminalTag{
		StatesStart: 1 << 0,
		Start:       func(c aetherrt.Conditions) bool { return c.Has(ConditionLexical) },
		Positives:   func(aetherrt.Conditions) []int { return []int{terminalID("OrdChar")} },
		Negatives:   func(aetherrt.Conditions) []int { return []int{terminalID("Identifier")} },
		NFA:         wordNFA("ignore"),
	})

	add("Start", aetherrt.TerminalTag{
		StatesStart: 1 << 0,
		Start:       func(c aetherrt.Conditions) bool { return c.Has(ConditionSyntactic) },
		Negatives:   func(aetherrt.Conditions) []int { return []int{terminalID("Identifier")} },
		NFA:         wordNFA("start"),
	})

	simple("Asterisk", '*', false, func(c aetherrt.Conditions) bool { return c.Has(ConditionLexical) })
	simple("QuestionMark", '?', false, func(c aetherrt.Conditions) bool { return c.Has(ConditionLexical) })

	add("ExpressionRange", aetherrt.TerminalTag{
		StatesStart: 1 << 0,
		Start:       func(c aetherrt.Conditions) bool { return c.Has(ConditionLexical) },
		NFA:         expressionRangeNFA,
	})

	simple("LeftCurlyBracket", '{', false, func(c aetherrt.Conditions) bool { return c.Has(ConditionSyntactic) })

	add("LeftCurlyBracketSolidus", aetherrt.TerminalTag{
		StatesStart: 1 << 0,
		Start:       func(c aetherrt.Conditions) bool { return c.Has(ConditionSyntactic) },
		NFA:         twoCharNFA('{', '/'),
	})

	simple("RightCurlyBracket", '}', false, func(c aetherrt.Conditions) bool { return c.Has(ConditionSyntactic) })

	add("OrdChar", aetherrt.TerminalTag{
		StatesStart: 1 << 0,
		Start:       func(c aetherrt.Conditions) bool { return c.Has(ConditionLexical) },
		NFA: func(states uint64, c rune) (bool, uint64) {
			if states&(1<<0) != 0 && !isOrdCharExcluded(c) {
				return true, 0
			}
			return false, 0
		},
	})

	add("QuotedChar", aetherrt.TerminalTag{
		StatesStart: 1 << 0,
		Start:       func(c aetherrt.Conditions) bool { return c.Has(ConditionLexical) },
		NFA:         quotedCharNFA,
	})

	simple("FullStop", '.', false, func(c aetherrt.Conditions) bool { return c.Has(ConditionLexical) })

	add("BracketExpression", aetherrt.TerminalTag{
		StatesStart: 1 << 0,
		Start:       func(c aetherrt.Conditions) bool { return c.Has(ConditionLexical) },
		NFA:         bracketExpressionNFA,
	})

	simple("ExclamationMark", '!', true, nil)
	simple("LeftSquareBracket", '[', false, func(c aetherrt.Conditions) bool { return c.Has(ConditionSyntactic) })

	add("LeftSquareBracketSolidus", aetherrt.TerminalTag{
		StatesStart: 1 << 0,
		Start:       func(c aetherrt.Conditions) bool { return c.Has(ConditionSyntactic) },
		NFA:         twoCharNFA('[', '/'),
	})

	simple("RightSquareBracket", ']', false, func(c aetherrt.Conditions) bool { return c.Has(ConditionSyntactic) })

	return t
}

func twoCharNFA(first, second rune) func(uint64, rune) (bool, uint64) {
	return func(states uint64, c rune) (bool, uint64) {
		accept := false
		var next uint64
		if states&(1<<0) != 0 && c == first {
			next |= 1 << 1
		}
		if states&(1<<1) != 0 && c == second {
			accept = true
		}
		return accept, next
	}
}

// wordNFA builds a linear-chain NFA accepting exactly word, one state per
// character, matching the Ignore/Start tags' handwritten chains.
func wordNFA(word string) func(uint64, rune) (bool, uint64) {
	runes := []rune(word)
	return func(states uint64, c rune) (bool, uint64) {
		accept := false
		var next uint64
		for i, r := range runes {
			if states&(1<<uint(i)) == 0 || c != r {
				continue
			}
			if i == len(runes)-1 {
				accept = true
			} else {
				next |= 1 << uint(i+1)
			}
		}
		return accept, next
	}
}

func expressionRangeNFA(states uint64, c rune) (bool, uint64) {
	accept := false
	var next uint64
	if states&(1<<0) != 0 && c == '{' {
		next |= 1<<1 | 1<<2
	}
	if states&(1<<1) != 0 && c == '0' {
		next |= 1<<4 | 1<<8
	}
	if states&(1<<2) != 0 && c >= '1' && c <= '9' {
		next |= 1<<3 | 1<<4 | 1<<8
	}
	if states&(1<<3) != 0 && c >= '0' && c <= '9' {
		next |= 1<<3 | 1<<4 | 1<<8
	}
	if states&(1<<4) != 0 && c == ',' {
		next |= 1<<5 | 1<<6 | 1<<8
	}
	if states&(1<<5) != 0 && c == '0' {
		next |= 1 << 8
	}
	if states&(1<<6) != 0 && c >= '1' && c <= '9' {
		next |= 1<<7 | 1<<8
	}
	if states&(1<<7) != 0 && c >= '0' && c <= '9' {
		next |= 1<<7 | 1<<8
	}
	if states&(1<<8) != 0 && c == '}' {
		accept = true
	}
	return accept, next
}

func quotedCharNFA(states uint64, c rune) (bool, uint64) {
	accept := false
	var next uint64
	if states&(1<<0) != 0 && c == '\\' {
		next |= 1<<1 | 1<<2
	}
	if states&(1<<1) != 0 && isQuotedEscape(c) {
		accept = true
	}
	if states&(1<<2) != 0 && (c == '0' || c == '1') {
		next |= 1 << 3
	}
	if states&(1<<3) != 0 && c >= '0' && c <= '7' {
		next |= 1 << 4
	}
	if states&(1<<4) != 0 && c >= '0' && c <= '7' {
		accept = true
	}
	return accept, next
}

func isQuotedEscape(c rune) bool {
	switch c {
	case ' ', '$', '(', ')', '*', '+', '.', ';', '?', '[', '\\', '^', 'a', 'b', 'f', 'n', 'r', 't', 'v', '{', '|':
		return true
	}
	return false
}

// bracketExpressionNFA is the 32-state bracket-expression automaton:
// POSIX-like `[...]` with `^` negation, escapes, octal escapes and `-`
// ranges.
func bracketExpressionNFA(states uint64, c rune) (bool, uint64) {
	accept := false
	var next uint64
	notBackslashCaretDel := func(c rune) bool {
		return !(c >= '\000' && c <= '\037') && c != '\\' && c != '^' && c != '\177'
	}
	notCloseBracketEtc := func(c rune, extra ...rune) bool {
		if c == ']' || (c >= '\000' && c <= '\037') || c == '\\' || c == '\177' {
			return false
		}
		for _, e := range extra {
			if c == e {
				return false
			}
		}
		return true
	}

	if states&(1<<0) != 0 && c == '[' {
		next |= 1<<1 | 1<<2 | 1<<3 | 1<<8
	}
	if states&(1<<1) != 0 && c == '^' {
		next |= 1<<2 | 1<<3
	}
	if states&(1<<2) != 0 && notBackslashCaretDel(c) {
		next |= 1<<10 | 1<<17 | 1<<18 | 1<<30 | 1<<31
	}
	if states&(1<<3) != 0 && c == '\\' {
		next |= 1<<4 | 1<<5
	}
	if states&(1<<4) != 0 && isQuotedEscape(c) && c != ' ' && c != '$' && c != '(' && c != ')' && c != '*' && c != '+' && c != '.' && c != ';' && c != '?' && c != '[' && c != '|' || (states&(1<<4) != 0 && (c == '\\' || c == 'a' || c == 'b' || c == 'f' || c == 'n' || c == 'r' || c == 't' || c == 'v')) {
		next |= 1<<10 | 1<<17 | 1<<18 | 1<<30 | 1<<31
	}
	if states&(1<<5) != 0 && (c == '0' || c == '1') {
		next |= 1 << 6
	}
	if states&(1<<6) != 0 && c >= '0' && c <= '7' {
		next |= 1 << 7
	}
	if states&(1<<7) != 0 && c >= '0' && c <= '7' {
		next |= 1<<10 | 1<<17 | 1<<18 | 1<<30 | 1<<31
	}
	if states&(1<<8) != 0 && c == '^' {
		next |= 1 << 9
	}
	if states&(1<<9) != 0 && c == '^' {
		next |= 1<<10 | 1<<17 | 1<<18 | 1<<30 | 1<<31
	}
	if states&(1<<10) != 0 && c == '-' {
		next |= 1<<11 | 1<<12
	}
	if states&(1<<11) != 0 && notCloseBracketEtc(c) {
		next |= 1<<17 | 1<<18 | 1<<30 | 1<<31
	}
	if states&(1<<12) != 0 && c == '\\' {
		next |= 1<<13 | 1<<14
	}
	if states&(1<<13) != 0 && (c == '\\' || c == 'a' || c == 'b' || c == 'f' || c == 'n' || c == 'r' || c == 't' || c == 'v') {
		next |= 1<<17 | 1<<18 | 1<<30 | 1<<31
	}
	if states&(1<<14) != 0 && (c == '0' || c == '1') {
		next |= 1 << 15
	}
	if states&(1<<15) != 0 && c >= '0' && c <= '7' {
		next |= 1 << 16
	}
	if states&(1<<16) != 0 && c >= '0' && c <= '7' {
		next |= 1<<17 | 1<<18 | 1<<30 | 1<<31
	}
	if states&(1<<17) != 0 && notCloseBracketEtc(c, '-') {
		next |= 1<<17 | 1<<18 | 1<<23 | 1<<30 | 1<<31
	}
	if states&(1<<18) != 0 && c == '\\' {
		next |= 1<<19 | 1<<20
	}
	if states&(1<<19) != 0 && (c == '\\' || c == 'a' || c == 'b' || c == 'f' || c == 'n' || c == 'r' || c == 't' || c == 'v') {
		next |= 1<<17 | 1<<18 | 1<<23 | 1<<30 | 1<<31
	}
	if states&(1<<20) != 0 && (c == '0' || c == '1') {
		next |= 1 << 21
	}
	if states&(1<<21) != 0 && c >= '0' && c <= '7' {
		next |= 1 << 22
	}
	if states&(1<<22) != 0 && c >= '0' && c <= '7' {
		next |= 1<<17 | 1<<18 | 1<<23 | 1<<30 | 1<<31
	}
	if states&(1<<23) != 0 && c == '-' {
		next |= 1<<24 | 1<<25
	}
	if states&(1<<24) != 0 && notCloseBracketEtc(c) {
		next |= 1<<17 | 1<<18 | 1<<30 | 1<<31
	}
	if states&(1<<25) != 0 && c == '\\' {
		next |= 1<<26 | 1<<27
	}
	if states&(1<<26) != 0 && (c == '\\' || c == 'a' || c == 'b' || c == 'f' || c == 'n' || c == 'r' || c == 't' || c == 'v') {
		next |= 1<<17 | 1<<18 | 1<<30 | 1<<31
	}
	if states&(1<<27) != 0 && (c == '0' || c == '1') {
		next |= 1 << 28
	}
	if states&(1<<28) != 0 && c >= '0' && c <= '7' {
		next |= 1 << 29
	}
	if states&(1<<29) != 0 && c >= '0' && c <= '7' {
		next |= 1<<17 | 1<<18 | 1<<30 | 1<<31
	}
	if states&(1<<30) != 0 && c == '-' {
		next |= 1 << 31
	}
	if states&(1<<31) != 0 && c == ']' {
		accept = true
	}
	return accept, next
}
