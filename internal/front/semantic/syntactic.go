package semantic

import (
	"github.com/dekarrin/aether/aetherrt"
	"github.com/dekarrin/aether/internal/util"
)

// SyntacticExpr is the parsed body of a production: the right-hand side of
// `Name [@Condition] [(start)]: <SyntacticExpr>;`.
type SyntacticExpr interface {
	isSyntacticExpr()
}

// SelectionSyn is alt1 (| or /) alt2 ...; Ordered distinguishes `/`
// (first-match, commit) from `|` (unordered, union of successes).
type SelectionSyn struct {
	Alternatives []SyntacticExpr
	Ordered      bool
}

// SequenceSyn is item1 item2 ...
type SequenceSyn struct {
	Items []SyntacticExpr
}

// IterationSyn is `{ inner }` / `{/ inner }`: zero or more repetitions,
// ordered or not.
type IterationSyn struct {
	Inner   SyntacticExpr
	Ordered bool
}

// OptionalSyn is `[ inner ]` / `[/ inner ]`.
type OptionalSyn struct {
	Inner   SyntacticExpr
	Ordered bool
}

// IdentifierSyn is a reference to another nonterminal or terminal tag,
// optionally condition-guarded.
type IdentifierSyn struct {
	Name      string
	Condition ConditionExpr
}

// ConditionalSyn guards an arbitrary subexpression with a `@Condition`
// suffix, the form a parenthesized group or an optional/iteration
// expression takes (an identifier reference carries its own condition on
// IdentifierSyn instead of wrapping).
type ConditionalSyn struct {
	Inner     SyntacticExpr
	Condition ConditionExpr
}

func (SelectionSyn) isSyntacticExpr()   {}
func (SequenceSyn) isSyntacticExpr()    {}
func (IterationSyn) isSyntacticExpr()   {}
func (OptionalSyn) isSyntacticExpr()    {}
func (IdentifierSyn) isSyntacticExpr()  {}
func (ConditionalSyn) isSyntacticExpr() {}

// SyntacticSymbolData is the payload of a Symbol in the syntactic symbol
// table. IsStart marks a `(start)` specifier; StartCondition, nil or not,
// is the `@Condition` attached to it, so a bare `(start)` (IsStart true,
// StartCondition nil) means unconditionally the start symbol.
type SyntacticSymbolData struct {
	ID             int
	IsStart        bool
	StartCondition ConditionExpr

	StaticFirst      []string
	ConditionalFirst map[string]ConditionExpr

	Expr SyntacticExpr
}

// SyntacticProduction is one parsed nonterminal production.
type SyntacticProduction struct {
	Name           string
	Pos            aetherrt.Position
	IsStart        bool
	StartCondition ConditionExpr
	Expr           SyntacticExpr
}

// SyntacticSymbolTableBuilder builds the syntactic symbol table, chained to
// a lexical table so identifier references can resolve against either
// table without the caller needing to know which one defines a given name.
type SyntacticSymbolTableBuilder struct {
	Table   *SymbolTable[SyntacticSymbolData]
	Lexical *SymbolTable[LexicalSymbolData]

	nextID int
}

// NewSyntacticSymbolTableBuilder returns a builder whose table has no
// parent; terminal references are checked separately against lexical.
func NewSyntacticSymbolTableBuilder(lexical *SymbolTable[LexicalSymbolData]) *SyntacticSymbolTableBuilder {
	return &SyntacticSymbolTableBuilder{
		Table:   NewSymbolTable[SyntacticSymbolData](nil),
		Lexical: lexical,
	}
}

// Add processes one production.
func (b *SyntacticSymbolTableBuilder) Add(p SyntacticProduction) error {
	sym := b.Table.AddGet(p.Name, false)
	if sym.Definition != nil {
		return aetherrt.New(aetherrt.KindDuplicateSymbolDefinition, p.Pos, "nonterminal %q already defined", p.Name)
	}
	sym.Declarations = append(sym.Declarations, p.Pos)

	data := SyntacticSymbolData{
		ID:               b.nextID,
		IsStart:          p.IsStart,
		StartCondition:   p.StartCondition,
		ConditionalFirst: map[string]ConditionExpr{},
		Expr:             p.Expr,
	}
	b.nextID++

	static, conditional := firstSet(p.Expr)
	data.StaticFirst = static
	for k, v := range conditional {
		data.ConditionalFirst[k] = v
	}

	sym.Definition = &data
	return nil
}

// Resolve checks every identifier reference in every production body
// against the syntactic table (nonterminals) then the lexical table
// (terminals), returning KindUndefinedSymbol for the first name found in
// neither.
func (b *SyntacticSymbolTableBuilder) Resolve() error {
	for name, sym := range b.Table.Symbols {
		if sym.Definition == nil {
			return aetherrt.New(aetherrt.KindUndefinedSymbol, aetherrt.Position{}, "undefined nonterminal %q", name)
		}

		var undefined string
		walkIdentifiers(sym.Definition.Expr, func(n string) {
			if undefined != "" {
				return
			}
			if b.Table.Lookup(n) != nil {
				return
			}
			if b.Lexical != nil && b.Lexical.Lookup(n) != nil {
				return
			}
			undefined = n
		})
		if undefined != "" {
			return aetherrt.New(aetherrt.KindUndefinedSymbol, aetherrt.Position{}, "undefined symbol %q referenced by %q", undefined, name)
		}
	}
	return nil
}

func walkIdentifiers(expr SyntacticExpr, visit func(name string)) {
	switch n := expr.(type) {
	case IdentifierSyn:
		visit(n.Name)
	case SequenceSyn:
		for _, it := range n.Items {
			walkIdentifiers(it, visit)
		}
	case SelectionSyn:
		for _, a := range n.Alternatives {
			walkIdentifiers(a, visit)
		}
	case IterationSyn:
		walkIdentifiers(n.Inner, visit)
	case OptionalSyn:
		walkIdentifiers(n.Inner, visit)
	case ConditionalSyn:
		walkIdentifiers(n.Inner, visit)
	}
}

// PruneFirstSets reduces every nonterminal's FIRST set to only the members
// of its own strongly-connected component in the FIRST graph, leaving
// exactly the information the parser's ascend machinery needs.
func (b *SyntacticSymbolTableBuilder) PruneFirstSets() {
	var ids []string
	edgesOf := make(map[string][]string)
	for name, sym := range b.Table.Symbols {
		ids = append(ids, name)
		var e []string
		e = append(e, sym.Definition.StaticFirst...)
		for n := range sym.Definition.ConditionalFirst {
			e = append(e, n)
		}
		edgesOf[name] = e
	}

	sccs := aetherrt.ComputeSCCs(ids, func(n string) []string {
		var out []string
		for _, e := range edgesOf[n] {
			if _, ok := b.Table.Symbols[e]; ok {
				out = append(out, e)
			}
		}
		return out
	})

	for _, members := range sccs {
		memberSet := util.KeySetOf(members)
		for _, name := range members {
			sym := b.Table.Symbols[name]
			var prunedStatic []string
			for _, n := range sym.Definition.StaticFirst {
				if memberSet.Has(n) {
					prunedStatic = append(prunedStatic, n)
				}
			}
			prunedConditional := map[string]ConditionExpr{}
			for n, c := range sym.Definition.ConditionalFirst {
				if memberSet.Has(n) {
					prunedConditional[n] = c
				}
			}
			sym.Definition.StaticFirst = prunedStatic
			sym.Definition.ConditionalFirst = prunedConditional
		}
	}
}

// firstSet folds expr into the set of identifiers that may appear as its
// leftmost symbol: a sequence contributes its first item's FIRST (and,
// while that prefix is nullable, the next item's too); a selection unions
// every alternative; iteration and optional contribute their inner FIRST
// and mark the prefix nullable, since both match zero occurrences.
func firstSet(expr SyntacticExpr) (static []string, conditional map[string]ConditionExpr) {
	conditional = map[string]ConditionExpr{}
	var walk func(e SyntacticExpr) bool // returns nullable
	walk = func(e SyntacticExpr) bool {
		switch n := e.(type) {
		case IdentifierSyn:
			if n.Condition == nil {
				static = append(static, n.Name)
			} else {
				conditional[n.Name] = mergeCondition(conditional[n.Name], n.Condition)
			}
			return false
		case SequenceSyn:
			for _, item := range n.Items {
				nullable := walk(item)
				if !nullable {
					return false
				}
			}
			return true
		case SelectionSyn:
			allNullable := true
			for _, alt := range n.Alternatives {
				if !walk(alt) {
					allNullable = false
				}
			}
			return allNullable
		case IterationSyn:
			walk(n.Inner)
			return true
		case OptionalSyn:
			walk(n.Inner)
			return true
		case ConditionalSyn:
			innerStatic, innerConditional := firstSet(n.Inner)
			for _, nm := range innerStatic {
				conditional[nm] = mergeCondition(conditional[nm], n.Condition)
			}
			for nm, c := range innerConditional {
				merged := Conjunction{Operands: []ConditionExpr{c, n.Condition}}
				conditional[nm] = mergeCondition(conditional[nm], merged)
			}
			return IsNullable(n.Inner)
		default:
			return false
		}
	}
	walk(expr)
	return static, conditional
}

// IsNullable reports whether expr may derive the empty sequence, the same
// nullability rule firstSet's own walk uses. The back end and the
// interpreter both consult it to decide which identifier occurrences sit in
// leftmost position within a production body.
func IsNullable(expr SyntacticExpr) bool {
	switch n := expr.(type) {
	case IdentifierSyn:
		return false
	case SequenceSyn:
		for _, item := range n.Items {
			if !IsNullable(item) {
				return false
			}
		}
		return true
	case SelectionSyn:
		for _, alt := range n.Alternatives {
			if !IsNullable(alt) {
				return false
			}
		}
		return true
	case IterationSyn:
		return true
	case OptionalSyn:
		return true
	case ConditionalSyn:
		return IsNullable(n.Inner)
	default:
		return false
	}
}
