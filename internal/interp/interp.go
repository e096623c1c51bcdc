// Package interp builds runtime aetherrt.TerminalTag/NonterminalType tables
// directly from a compiled symbol table, by walking the same
// condition/pattern/expression trees internal/front/back/golang folds into
// Go source, but evaluating them immediately instead of emitting text. It
// exists so cmd/aetheri can drive a grammar from its compiled symbol tables
// without compiling generated Go source first.
package interp

import (
	"sort"

	"github.com/dekarrin/aether/aetherrt"
	"github.com/dekarrin/aether/internal/front/semantic"
)

// ConditionSet assigns each condition name a stable bit, the same
// sorted-order-by-name scheme golang.New uses for the emitted Condition*
// constants, so a cache built under one run folds conditions identically
// under another.
type ConditionSet struct {
	bits map[string]aetherrt.Conditions
}

// NewConditionSet returns a set assigning names their bits in sorted order.
func NewConditionSet(names []string) *ConditionSet {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	bits := make(map[string]aetherrt.Conditions, len(sorted))
	for i, name := range sorted {
		bits[name] = 1 << uint(i)
	}
	return &ConditionSet{bits: bits}
}

// Bit returns the bit assigned to name, or 0 if name is not a known
// condition.
func (cs *ConditionSet) Bit(name string) aetherrt.Conditions {
	return cs.bits[name]
}

// Names returns the condition names known to cs, sorted.
func (cs *ConditionSet) Names() []string {
	out := make([]string, 0, len(cs.bits))
	for name := range cs.bits {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func evalCondition(expr semantic.ConditionExpr, cs *ConditionSet, c aetherrt.Conditions) bool {
	if expr == nil {
		return true
	}
	switch e := expr.(type) {
	case semantic.Disjunction:
		for _, o := range e.Operands {
			if evalCondition(o, cs, c) {
				return true
			}
		}
		return false
	case semantic.Conjunction:
		for _, o := range e.Operands {
			if !evalCondition(o, cs, c) {
				return false
			}
		}
		return true
	case semantic.Negation:
		return !evalCondition(e.Operand, cs, c)
	case semantic.Primary:
		if e.Sub != nil {
			return evalCondition(e.Sub, cs, c)
		}
		return c.Has(cs.bits[e.Name])
	default:
		return false
	}
}

func matches(p semantic.Pattern, c rune) bool {
	switch pat := p.(type) {
	case semantic.SimplePattern:
		return c == pat.Char
	case semantic.WildcardPattern:
		return true
	case semantic.BracketPattern:
		return pat.Matches(c)
	default:
		return false
	}
}

func bitmaskOf(indexes []int) uint64 {
	var mask uint64
	for _, i := range indexes {
		mask |= 1 << uint(i)
	}
	return mask
}

// BuildTerminalTags walks table's definitions into the slice form
// aetherrt.NewLexer expects, the interpreted analogue of
// golang.Fold.FoldLexicalFile.
func BuildTerminalTags(table *semantic.SymbolTable[semantic.LexicalSymbolData], cs *ConditionSet) []aetherrt.TerminalTag {
	names := make([]string, 0, len(table.Symbols))
	for name := range table.Symbols {
		names = append(names, name)
	}
	sort.Strings(names)

	ids := make(map[string]int, len(names))
	for _, name := range names {
		ids[name] = table.Symbols[name].Definition.ID
	}

	tags := make([]aetherrt.TerminalTag, 0, len(names))
	for _, name := range names {
		sym := table.Symbols[name].Definition
		tags = append(tags, buildTag(name, sym, cs, ids))
	}
	return tags
}

func buildTag(name string, sym *semantic.LexicalSymbolData, cs *ConditionSet, ids map[string]int) aetherrt.TerminalTag {
	tag := aetherrt.TerminalTag{
		ID:          sym.ID,
		Name:        name,
		StatesStart: bitmaskOf(sym.StatesStartIndexes),
		NFA:         buildNFA(sym.States),
	}

	if sym.Start != nil {
		start := sym.Start
		tag.Start = func(c aetherrt.Conditions) bool { return evalCondition(start, cs, c) }
	}

	if sym.IsIgnoreUnconditional {
		tag.Ignore = func(aetherrt.Conditions) bool { return true }
	} else if sym.Ignore != nil {
		ignore := sym.Ignore
		tag.Ignore = func(c aetherrt.Conditions) bool { return evalCondition(ignore, cs, c) }
	}

	if len(sym.StaticPositives) > 0 || len(sym.ConditionalPositives) > 0 {
		tag.Positives = func(c aetherrt.Conditions) []int {
			var out []int
			for _, n := range sym.StaticPositives {
				out = append(out, ids[n])
			}
			for n, cond := range sym.ConditionalPositives {
				if evalCondition(cond, cs, c) {
					out = append(out, ids[n])
				}
			}
			return out
		}
	}

	if len(sym.StaticNegatives) > 0 || len(sym.ConditionalNegatives) > 0 {
		tag.Negatives = func(c aetherrt.Conditions) []int {
			var out []int
			for _, n := range sym.StaticNegatives {
				out = append(out, ids[n])
			}
			for n, cond := range sym.ConditionalNegatives {
				if evalCondition(cond, cs, c) {
					out = append(out, ids[n])
				}
			}
			return out
		}
	}

	return tag
}

func buildNFA(states []*semantic.LexicalState) func(uint64, rune) (bool, uint64) {
	return func(live uint64, c rune) (bool, uint64) {
		accept := false
		var next uint64
		for i, s := range states {
			if live&(1<<uint(i)) == 0 {
				continue
			}
			if !matches(s.Pattern, c) {
				continue
			}
			if s.Accept {
				accept = true
			}
			next |= bitmaskOf(s.NextStatesIndexes)
		}
		return accept, next
	}
}

// BuildNonterminalTypes walks synTable's definitions into the slice form
// aetherrt.NewParser expects, the interpreted analogue of
// golang.Fold.FoldSyntacticFile/FoldExpression. lexTable is consulted to
// tell terminal references apart from nonterminal ones.
func BuildNonterminalTypes(synTable *semantic.SymbolTable[semantic.SyntacticSymbolData], lexTable *semantic.SymbolTable[semantic.LexicalSymbolData], cs *ConditionSet) []aetherrt.NonterminalType {
	names := make([]string, 0, len(synTable.Symbols))
	for name := range synTable.Symbols {
		names = append(names, name)
	}
	sort.Strings(names)

	termIDs := make(map[string]int, len(lexTable.Symbols))
	for name, sym := range lexTable.Symbols {
		termIDs[name] = sym.Definition.ID
	}
	nontermIDs := make(map[string]int, len(names))
	for _, name := range names {
		nontermIDs[name] = synTable.Symbols[name].Definition.ID
	}

	refs := make(map[string]*aetherrt.NonterminalType, len(names))
	for _, name := range names {
		refs[name] = &aetherrt.NonterminalType{}
	}

	isTerminal := func(name string) bool {
		_, isNonterm := nontermIDs[name]
		return !isNonterm
	}

	for _, name := range names {
		sym := synTable.Symbols[name].Definition
		nt := refs[name]
		nt.ID = sym.ID
		nt.Name = name

		if sym.IsStart {
			cond := sym.StartCondition
			nt.Start = func(c aetherrt.Conditions) bool { return evalCondition(cond, cs, c) }
		}

		if len(sym.StaticFirst) > 0 || len(sym.ConditionalFirst) > 0 {
			static, conditional := sym.StaticFirst, sym.ConditionalFirst
			nt.First = func(c aetherrt.Conditions) []int {
				var out []int
				for _, n := range static {
					out = append(out, memberID(n, termIDs, nontermIDs))
				}
				for n, cond := range conditional {
					if evalCondition(cond, cs, c) {
						out = append(out, memberID(n, termIDs, nontermIDs))
					}
				}
				return out
			}
		}

		firstMembers := map[string]bool{}
		for _, n := range sym.StaticFirst {
			firstMembers[n] = true
		}
		for n := range sym.ConditionalFirst {
			firstMembers[n] = true
		}

		expr := sym.Expr
		self := refs[name]
		nt.Descend = func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
			return evalExpr(expr, true, p, s, self, isTerminal, firstMembers, termIDs, refs, cs)
		}
	}

	out := make([]aetherrt.NonterminalType, 0, len(names))
	for _, name := range names {
		out = append(out, *refs[name])
	}
	return out
}

func memberID(name string, termIDs map[string]int, nontermIDs map[string]int) int {
	if id, ok := nontermIDs[name]; ok {
		return id
	}
	return termIDs[name]
}

// evalExpr interprets one SyntacticExpr node against the live parser state,
// mirroring back.FoldExpression's walk but running the derivation directly
// instead of emitting a closure literal. leftmost tracks whether the node
// sits in leftmost position of the production body; a leftmost reference to
// a pruned-FIRST member passes self as the engine call's caller, every
// other nonterminal reference passes nil, the same policy the emitted code
// follows.
func evalExpr(
	expr semantic.SyntacticExpr,
	leftmost bool,
	p *aetherrt.Parser,
	s aetherrt.ParsingState,
	self *aetherrt.NonterminalType,
	isTerminal func(string) bool,
	firstMembers map[string]bool,
	termIDs map[string]int,
	refs map[string]*aetherrt.NonterminalType,
	cs *ConditionSet,
) ([]aetherrt.ParsingState, error) {
	switch n := expr.(type) {
	case semantic.SelectionSyn:
		alts := make([]aetherrt.DescendAlt, len(n.Alternatives))
		for i, a := range n.Alternatives {
			a := a
			alts[i] = func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
				return evalExpr(a, leftmost, p, s, self, isTerminal, firstMembers, termIDs, refs, cs)
			}
		}
		return p.Selection(n.Ordered, s, alts)
	case semantic.SequenceSyn:
		items := make([]aetherrt.DescendAlt, len(n.Items))
		lm := leftmost
		for i, it := range n.Items {
			it, itemLM := it, lm
			items[i] = func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
				return evalExpr(it, itemLM, p, s, self, isTerminal, firstMembers, termIDs, refs, cs)
			}
			lm = lm && semantic.IsNullable(it)
		}
		return p.Sequence(s, items)
	case semantic.IterationSyn:
		// `{ }` matches zero or more repetitions.
		inner := n.Inner
		return p.Optional(n.Ordered, s, func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
			return p.Iteration(n.Ordered, s, func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
				return evalExpr(inner, leftmost, p, s, self, isTerminal, firstMembers, termIDs, refs, cs)
			})
		})
	case semantic.OptionalSyn:
		inner := n.Inner
		return p.Optional(n.Ordered, s, func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
			return evalExpr(inner, leftmost, p, s, self, isTerminal, firstMembers, termIDs, refs, cs)
		})
	case semantic.IdentifierSyn:
		if n.Condition != nil && !evalCondition(n.Condition, cs, p.Conditions()) {
			return nil, aetherrt.InternalSkip()
		}
		if isTerminal(n.Name) {
			return p.CallTerminal(termIDs[n.Name], s)
		}
		var caller *aetherrt.NonterminalType
		if leftmost && firstMembers[n.Name] {
			caller = self
		}
		return p.Call(caller, refs[n.Name], []aetherrt.ParsingState{s}, nil)
	case semantic.ConditionalSyn:
		if !evalCondition(n.Condition, cs, p.Conditions()) {
			return nil, aetherrt.InternalSkip()
		}
		return evalExpr(n.Inner, leftmost, p, s, self, isTerminal, firstMembers, termIDs, refs, cs)
	default:
		return nil, aetherrt.InternalSkip()
	}
}
