// Package back holds the abstract fold family the code-generator back end
// is built from: one fold per concern (conditions, the lexical file, a
// syntactic expression, the syntactic file), each parameterized so a
// concrete target language supplies only the text-emission policy.
// internal/front/back/golang is the one concrete target this repository
// wires up.
package back

import (
	"strings"

	"github.com/dekarrin/aether/internal/front/semantic"
)

// ConditionFold lowers a parsed ConditionExpr into one target-language
// boolean expression.
type ConditionFold interface {
	Disjunction(operands []string) string
	Conjunction(operands []string) string
	Negation(operand string) string
	Primary(name string) string
	SubCondition(inner string) string
}

// FoldCondition walks expr bottom-up via f, collapsing double negation
// (two Negation layers cancel instead of emitting a doubled operator).
func FoldCondition(f ConditionFold, expr semantic.ConditionExpr) string {
	return foldCondition(f, expr, 0)
}

func foldCondition(f ConditionFold, expr semantic.ConditionExpr, negDepth int) string {
	switch e := expr.(type) {
	case semantic.Disjunction:
		parts := make([]string, len(e.Operands))
		for i, o := range e.Operands {
			parts[i] = foldCondition(f, o, 0)
		}
		return f.Disjunction(parts)
	case semantic.Conjunction:
		parts := make([]string, len(e.Operands))
		for i, o := range e.Operands {
			parts[i] = foldCondition(f, o, 0)
		}
		return f.Conjunction(parts)
	case semantic.Negation:
		if neg, ok := e.Operand.(semantic.Negation); ok {
			// double negation cancels
			return foldCondition(f, neg.Operand, 0)
		}
		return f.Negation(foldCondition(f, e.Operand, 0))
	case semantic.Primary:
		if e.Sub != nil {
			return f.SubCondition(foldCondition(f, e.Sub, 0))
		}
		return f.Primary(e.Name)
	default:
		panic("back: unknown ConditionExpr variant")
	}
}

// CommonFileFold emits the condition enumeration shared by the lexical and
// syntactic output files.
type CommonFileFold interface {
	FoldCommonFile(conditionNames []string) string
}

// LexicalFileFold emits one target-language value per terminal tag, plus
// whatever wrapper the target needs around the collection.
type LexicalFileFold interface {
	FoldTerminalTag(name string, sym *semantic.LexicalSymbolData, cond ConditionFold) string
	FoldLexicalFile(terminals []NamedLexical) string
}

// NamedLexical pairs a terminal's name with its compiled data, in
// declaration order, for folds that need to iterate a table
// deterministically.
type NamedLexical struct {
	Name string
	Data *semantic.LexicalSymbolData
}

// ExpressionFold lowers one SyntacticExpr production body into
// target-language code implementing a Descend function. FoldPrimary's
// firstRef reports whether the reference is a leftmost occurrence of a
// member of the owning nonterminal's pruned intra-SCC FIRST set, which
// decides the caller argument of the emitted engine call (a first
// reference names its caller so the engine can suppress re-descent inside
// the SCC; every other reference leaves the caller nil and lets the engine
// ascend).
type ExpressionFold interface {
	FoldSelection(alternatives []string, ordered bool) string
	FoldSequence(items []string) string
	FoldIteration(inner string, ordered bool) string
	FoldOptional(inner string, ordered bool) string
	FoldPrimary(name string, isTerminal bool, condition string, firstRef bool) string
	FoldConditional(inner string, condition string) string
}

// FoldExpression walks expr bottom-up via f. firstMembers is the set of
// identifier names in the owning nonterminal's own pruned FIRST set
// (SCC-local); an identifier folds as a first reference when it names a
// member of that set from leftmost position (every symbol before it in its
// sequence is nullable).
func FoldExpression(f ExpressionFold, cond ConditionFold, expr semantic.SyntacticExpr, isTerminal func(name string) bool, firstMembers map[string]bool) string {
	var walk func(e semantic.SyntacticExpr, leftmost bool) string
	walk = func(e semantic.SyntacticExpr, leftmost bool) string {
		switch n := e.(type) {
		case semantic.SelectionSyn:
			parts := make([]string, len(n.Alternatives))
			for i, a := range n.Alternatives {
				parts[i] = walk(a, leftmost)
			}
			return f.FoldSelection(parts, n.Ordered)
		case semantic.SequenceSyn:
			parts := make([]string, len(n.Items))
			lm := leftmost
			for i, it := range n.Items {
				parts[i] = walk(it, lm)
				lm = lm && semantic.IsNullable(it)
			}
			return f.FoldSequence(parts)
		case semantic.IterationSyn:
			return f.FoldIteration(walk(n.Inner, leftmost), n.Ordered)
		case semantic.OptionalSyn:
			return f.FoldOptional(walk(n.Inner, leftmost), n.Ordered)
		case semantic.IdentifierSyn:
			condStr := ""
			if n.Condition != nil {
				condStr = FoldCondition(cond, n.Condition)
			}
			return f.FoldPrimary(n.Name, isTerminal(n.Name), condStr, leftmost && firstMembers[n.Name])
		case semantic.ConditionalSyn:
			return f.FoldConditional(walk(n.Inner, leftmost), FoldCondition(cond, n.Condition))
		default:
			panic("back: unknown SyntacticExpr variant")
		}
	}
	return walk(expr, true)
}

// SyntacticFileFold emits one nonterminal type per production.
type SyntacticFileFold interface {
	FoldNonterminal(name string, sym *semantic.SyntacticSymbolData, descendBody string) string
	FoldSyntacticFile(nonterminals []string) string
}

// Indent reindents value by level tab stops, used throughout the back end
// to assemble nested blocks of emitted source.
func Indent(value string, level int) string {
	if level <= 0 || value == "" {
		return value
	}
	prefix := strings.Repeat("\t", level)
	lines := strings.Split(value, "\n")
	for i, l := range lines {
		if l == "" {
			continue
		}
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

// EscapeIdentifier mangles name if it collides with a target-language
// reserved word or a runtime-support identifier, by the caller's rules.
func EscapeIdentifier(name string, reserved map[string]bool) string {
	if reserved[name] {
		return name + "_"
	}
	return name
}
