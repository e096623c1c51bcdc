// Package pipeline is the front-end path shared by cmd/aether and
// cmd/aetheri: lex and parse a lexical.aether/syntactic.aether pair under
// the bootstrap grammar, load the resulting trees into productions, and
// build the two resolved symbol tables everything downstream (code
// generation, or direct interpretation) is folded from.
package pipeline

import (
	"sort"

	"github.com/dekarrin/aether/internal/front/aether"
	"github.com/dekarrin/aether/internal/front/semantic"
)

// Tables is a fully resolved grammar: its lexical and syntactic symbol
// tables, plus every condition name referenced anywhere in either one, in
// the order a Fold (or an interp.ConditionSet) needs to assign stable bits.
type Tables struct {
	Lexical    *semantic.SymbolTable[semantic.LexicalSymbolData]
	Syntactic  *semantic.SymbolTable[semantic.SyntacticSymbolData]
	Conditions []string
}

// IsTerminal reports whether name resolves to a lexical tag rather than a
// nonterminal, the same rule SyntacticSymbolTableBuilder.Resolve checks
// names against.
func (t *Tables) IsTerminal(name string) bool {
	_, isNonterminal := t.Syntactic.Symbols[name]
	return !isNonterminal
}

// Compile lexes, parses, and semantically analyzes a lexical.aether/
// syntactic.aether pair.
func Compile(lexicalSrc, syntacticSrc string) (*Tables, error) {
	lexTree, err := aether.ParseFile("lexical.aether", lexicalSrc, aether.ConditionLexical)
	if err != nil {
		return nil, err
	}
	synTree, err := aether.ParseFile("syntactic.aether", syntacticSrc, aether.ConditionSyntactic)
	if err != nil {
		return nil, err
	}

	lexBuilder := semantic.NewLexicalSymbolTableBuilder()
	for _, p := range aether.LoadLexicalProductions(lexTree) {
		if err := lexBuilder.Add(p); err != nil {
			return nil, err
		}
	}
	if err := lexBuilder.Resolve(); err != nil {
		return nil, err
	}

	synBuilder := semantic.NewSyntacticSymbolTableBuilder(lexBuilder.Table)
	for _, p := range aether.LoadSyntacticProductions(synTree) {
		if err := synBuilder.Add(p); err != nil {
			return nil, err
		}
	}
	if err := synBuilder.Resolve(); err != nil {
		return nil, err
	}
	synBuilder.PruneFirstSets()

	return &Tables{
		Lexical:    lexBuilder.Table,
		Syntactic:  synBuilder.Table,
		Conditions: collectConditionNames(lexBuilder.Table, synBuilder.Table),
	}, nil
}

func collectConditionNames(
	lex *semantic.SymbolTable[semantic.LexicalSymbolData],
	syn *semantic.SymbolTable[semantic.SyntacticSymbolData],
) []string {
	seen := map[string]bool{}

	var add func(expr semantic.ConditionExpr)
	add = func(expr semantic.ConditionExpr) {
		switch e := expr.(type) {
		case nil:
			return
		case semantic.Disjunction:
			for _, o := range e.Operands {
				add(o)
			}
		case semantic.Conjunction:
			for _, o := range e.Operands {
				add(o)
			}
		case semantic.Negation:
			add(e.Operand)
		case semantic.Primary:
			if e.Sub != nil {
				add(e.Sub)
			} else {
				seen[e.Name] = true
			}
		}
	}

	for _, sym := range lex.Symbols {
		d := sym.Definition
		add(d.Start)
		add(d.Ignore)
		for _, c := range d.ConditionalPositives {
			add(c)
		}
		for _, c := range d.ConditionalNegatives {
			add(c)
		}
	}

	var addExpr func(e semantic.SyntacticExpr)
	addExpr = func(e semantic.SyntacticExpr) {
		switch n := e.(type) {
		case semantic.SelectionSyn:
			for _, a := range n.Alternatives {
				addExpr(a)
			}
		case semantic.SequenceSyn:
			for _, it := range n.Items {
				addExpr(it)
			}
		case semantic.IterationSyn:
			addExpr(n.Inner)
		case semantic.OptionalSyn:
			addExpr(n.Inner)
		case semantic.IdentifierSyn:
			add(n.Condition)
		case semantic.ConditionalSyn:
			add(n.Condition)
			addExpr(n.Inner)
		}
	}

	for _, sym := range syn.Symbols {
		d := sym.Definition
		add(d.StartCondition)
		addExpr(d.Expr)
	}

	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
