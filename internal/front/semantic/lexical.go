package semantic

import (
	"github.com/dekarrin/aether/aetherrt"
)

// LexicalSymbolData is the payload of a Symbol in a lexical symbol table:
// everything the back end needs to emit one terminal tag.
type LexicalSymbolData struct {
	ID int

	Start  ConditionExpr // nil means "always a start tag"
	Ignore ConditionExpr // nil means no conditional ignore; IsIgnoreUnconditional below marks an unconditional one

	IsIgnoreUnconditional bool

	StaticPositives       []string
	ConditionalPositives  map[string]ConditionExpr
	StaticNegatives       []string
	ConditionalNegatives  map[string]ConditionExpr

	Expr   LexicalExpr
	States []*LexicalState
	StatesStartIndexes []int
}

// LexicalProduction is one parsed `Name [@Condition] [(specifiers)]: expr;`
// production, as handed to the builder by whatever lowers the bootstrap
// parse tree into this intermediate form.
type LexicalProduction struct {
	Name       string
	Pos        aetherrt.Position
	Start      ConditionExpr
	Specifiers []LexicalSpecifier
	Expr       LexicalExpr
}

// LexicalSpecifier is one `(+Name | -Name | ignore) [@Condition]` entry.
type LexicalSpecifier struct {
	Kind      LexicalSpecifierKind
	Name      string // unused when Kind == SpecifierIgnore
	Condition ConditionExpr
}

type LexicalSpecifierKind int

const (
	SpecifierPositive LexicalSpecifierKind = iota
	SpecifierNegative
	SpecifierIgnore
)

// LexicalSymbolTableBuilder consumes LexicalProductions in declaration
// order and builds a SymbolTable[LexicalSymbolData], assigning each defined
// terminal a dense id and compiling its pattern into NFA states.
type LexicalSymbolTableBuilder struct {
	Table *SymbolTable[LexicalSymbolData]

	nextID int
}

// NewLexicalSymbolTableBuilder returns a builder with a fresh root table.
func NewLexicalSymbolTableBuilder() *LexicalSymbolTableBuilder {
	return &LexicalSymbolTableBuilder{Table: NewSymbolTable[LexicalSymbolData](nil)}
}

// Add processes one production. It returns a KindDuplicateSymbolDefinition
// error if Name was already defined.
func (b *LexicalSymbolTableBuilder) Add(p LexicalProduction) error {
	sym := b.Table.AddGet(p.Name, false)
	if sym.Definition != nil {
		return aetherrt.New(aetherrt.KindDuplicateSymbolDefinition, p.Pos, "terminal %q already defined", p.Name)
	}
	sym.Declarations = append(sym.Declarations, p.Pos)

	data := LexicalSymbolData{
		ID:                   b.nextID,
		Start:                p.Start,
		ConditionalPositives: map[string]ConditionExpr{},
		ConditionalNegatives: map[string]ConditionExpr{},
		Expr:                 p.Expr,
	}
	b.nextID++

	for _, spec := range p.Specifiers {
		switch spec.Kind {
		case SpecifierIgnore:
			if spec.Condition == nil {
				data.IsIgnoreUnconditional = true
			} else {
				data.Ignore = mergeCondition(data.Ignore, spec.Condition)
			}
		case SpecifierPositive:
			if spec.Condition == nil {
				data.StaticPositives = append(data.StaticPositives, spec.Name)
			} else {
				if _, exists := data.ConditionalPositives[spec.Name]; exists {
					return aetherrt.New(aetherrt.KindDuplicateSymbolDefinition, p.Pos,
						"colliding conditional +%s specifiers on %q", spec.Name, p.Name)
				}
				data.ConditionalPositives[spec.Name] = spec.Condition
			}
		case SpecifierNegative:
			if spec.Condition == nil {
				data.StaticNegatives = append(data.StaticNegatives, spec.Name)
			} else {
				if _, exists := data.ConditionalNegatives[spec.Name]; exists {
					return aetherrt.New(aetherrt.KindDuplicateSymbolDefinition, p.Pos,
						"colliding conditional -%s specifiers on %q", spec.Name, p.Name)
				}
				data.ConditionalNegatives[spec.Name] = spec.Condition
			}
		}
	}

	states, starts := CompilePattern(p.Expr)
	data.States = states
	data.StatesStartIndexes = starts

	sym.Definition = &data
	return nil
}

// Resolve checks that every referenced terminal name (in positives,
// negatives, or elsewhere) names a defined symbol, returning
// KindUndefinedSymbol for the first that doesn't.
func (b *LexicalSymbolTableBuilder) Resolve() error {
	for name, sym := range b.Table.Symbols {
		if sym.Definition == nil {
			pos := aetherrt.Position{}
			if len(sym.References) > 0 {
				pos = sym.References[0]
			}
			return aetherrt.New(aetherrt.KindUndefinedSymbol, pos, "undefined terminal %q", name)
		}
		for _, n := range sym.Definition.StaticPositives {
			if err := b.requireDefined(n); err != nil {
				return err
			}
		}
		for n := range sym.Definition.ConditionalPositives {
			if err := b.requireDefined(n); err != nil {
				return err
			}
		}
		for _, n := range sym.Definition.StaticNegatives {
			if err := b.requireDefined(n); err != nil {
				return err
			}
		}
		for n := range sym.Definition.ConditionalNegatives {
			if err := b.requireDefined(n); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *LexicalSymbolTableBuilder) requireDefined(name string) error {
	sym := b.Table.Lookup(name)
	if sym == nil || sym.Definition == nil {
		return aetherrt.New(aetherrt.KindUndefinedSymbol, aetherrt.Position{}, "undefined terminal %q", name)
	}
	return nil
}

func mergeCondition(existing, add ConditionExpr) ConditionExpr {
	if existing == nil {
		return add
	}
	return Disjunction{Operands: []ConditionExpr{existing, add}}
}
