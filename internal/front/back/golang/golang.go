// Package golang is the one concrete code-generator target this repository
// wires up: it implements the back.ConditionFold, back.CommonFileFold,
// back.LexicalFileFold, back.ExpressionFold and back.SyntacticFileFold
// interfaces, emitting Go source that imports aetherrt.
package golang

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dekarrin/aether/internal/front/back"
	"github.com/dekarrin/aether/internal/front/semantic"
)

// reserved holds Go keywords and predeclared identifiers that a grammar's
// own condition/terminal/nonterminal names might collide with.
var reserved = map[string]bool{
	"break": true, "default": true, "func": true, "interface": true, "select": true,
	"case": true, "defer": true, "go": true, "map": true, "struct": true,
	"chan": true, "else": true, "goto": true, "package": true, "switch": true,
	"const": true, "fallthrough": true, "if": true, "range": true, "type": true,
	"continue": true, "for": true, "import": true, "return": true, "var": true,
	"nil": true, "true": true, "false": true, "error": true, "string": true, "int": true,
}

func ident(name string) string {
	return back.EscapeIdentifier(name, reserved)
}

// Fold is the Go target's combined fold: it implements every back interface
// on one receiver since the Go emission policy for conditions, terminals
// and nonterminals shares state (the package name, the condition name
// list) and is small enough not to warrant separate types.
type Fold struct {
	Package    string
	Conditions []string
}

// New returns a Go-target fold emitting into the named package.
func New(pkg string, conditions []string) *Fold {
	sorted := append([]string(nil), conditions...)
	sort.Strings(sorted)
	return &Fold{Package: pkg, Conditions: sorted}
}

// --- back.ConditionFold ---

func (f *Fold) Disjunction(operands []string) string {
	return "(" + strings.Join(operands, " || ") + ")"
}

func (f *Fold) Conjunction(operands []string) string {
	return "(" + strings.Join(operands, " && ") + ")"
}

func (f *Fold) Negation(operand string) string {
	return "!" + operand
}

func (f *Fold) Primary(name string) string {
	return "c.Has(Condition" + exportName(name) + ")"
}

func (f *Fold) SubCondition(inner string) string {
	return "(" + inner + ")"
}

// --- back.CommonFileFold ---

// FoldCommonFile emits common.go: a Conditions-bit constant per declared
// condition name.
func (f *Fold) FoldCommonFile(conditionNames []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "// Code generated by aether. DO NOT EDIT.\n\npackage %s\n", f.Package)
	if len(conditionNames) == 0 {
		return b.String()
	}
	b.WriteString("\nimport \"github.com/dekarrin/aether/aetherrt\"\n\n")
	b.WriteString("const (\n")
	for i, name := range conditionNames {
		if i == 0 {
			fmt.Fprintf(&b, "\tCondition%s aetherrt.Conditions = 1 << iota\n", exportName(name))
		} else {
			fmt.Fprintf(&b, "\tCondition%s\n", exportName(name))
		}
	}
	b.WriteString(")\n")
	return b.String()
}

// --- back.LexicalFileFold ---

func (f *Fold) FoldTerminalTag(name string, sym *semantic.LexicalSymbolData, cond back.ConditionFold) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\t%q: {\n", name)
	fmt.Fprintf(&b, "\t\tID:          %d,\n", sym.ID)
	fmt.Fprintf(&b, "\t\tName:        %q,\n", name)
	fmt.Fprintf(&b, "\t\tStatesStart: %s,\n", bitmask(sym.StatesStartIndexes))

	if sym.Start != nil {
		fmt.Fprintf(&b, "\t\tStart: func(c aetherrt.Conditions) bool { return %s },\n", back.FoldCondition(cond, sym.Start))
	}

	if sym.IsIgnoreUnconditional {
		b.WriteString("\t\tIgnore: func(c aetherrt.Conditions) bool { return true },\n")
	} else if sym.Ignore != nil {
		fmt.Fprintf(&b, "\t\tIgnore: func(c aetherrt.Conditions) bool { return %s },\n", back.FoldCondition(cond, sym.Ignore))
	}

	if len(sym.StaticPositives) > 0 || len(sym.ConditionalPositives) > 0 {
		b.WriteString("\t\tPositives: func(c aetherrt.Conditions) []int {\n")
		b.WriteString("\t\t\tvar out []int\n")
		for _, n := range sym.StaticPositives {
			fmt.Fprintf(&b, "\t\t\tout = append(out, Terminals[%q].ID)\n", n)
		}
		for _, n := range sortedKeys(sym.ConditionalPositives) {
			fmt.Fprintf(&b, "\t\t\tif %s {\n\t\t\t\tout = append(out, Terminals[%q].ID)\n\t\t\t}\n", back.FoldCondition(cond, sym.ConditionalPositives[n]), n)
		}
		b.WriteString("\t\t\treturn out\n\t\t},\n")
	}

	if len(sym.StaticNegatives) > 0 || len(sym.ConditionalNegatives) > 0 {
		b.WriteString("\t\tNegatives: func(c aetherrt.Conditions) []int {\n")
		b.WriteString("\t\t\tvar out []int\n")
		for _, n := range sym.StaticNegatives {
			fmt.Fprintf(&b, "\t\t\tout = append(out, Terminals[%q].ID)\n", n)
		}
		for _, n := range sortedKeys(sym.ConditionalNegatives) {
			fmt.Fprintf(&b, "\t\t\tif %s {\n\t\t\t\tout = append(out, Terminals[%q].ID)\n\t\t\t}\n", back.FoldCondition(cond, sym.ConditionalNegatives[n]), n)
		}
		b.WriteString("\t\t\treturn out\n\t\t},\n")
	}

	fmt.Fprintf(&b, "\t\tNFA: nfa%s,\n", exportName(name))
	b.WriteString("\t},\n")
	return b.String()
}

func (f *Fold) FoldLexicalFile(terminals []back.NamedLexical) string {
	var b strings.Builder
	fmt.Fprintf(&b, "// Code generated by aether. DO NOT EDIT.\n\npackage %s\n\n", f.Package)
	b.WriteString("import \"github.com/dekarrin/aether/aetherrt\"\n\n")

	for _, t := range terminals {
		b.WriteString(f.foldNFAFunc(t.Name, t.Data.States))
		b.WriteString("\n")
	}

	cond := f
	b.WriteString("var Terminals = map[string]aetherrt.TerminalTag{\n")
	for _, t := range terminals {
		b.WriteString(f.FoldTerminalTag(t.Name, t.Data, cond))
	}
	b.WriteString("}\n")
	return b.String()
}

// foldNFAFunc emits one tag's NFA stepping function, matching
// aetherrt.TerminalTag.NFA's (states uint64, c rune) (bool, uint64)
// signature: one guarded block per state testing its bit and its pattern
// against c, recording acceptance when a matched state is accepting and
// OR-ing the matched states' next-state bits.
func (f *Fold) foldNFAFunc(name string, states []*semantic.LexicalState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "func nfa%s(live uint64, c rune) (bool, uint64) {\n", exportName(name))
	b.WriteString("\taccept := false\n\tvar next uint64\n")
	for i, s := range states {
		cond := patternExpr(s.Pattern)
		if cond == "true" {
			fmt.Fprintf(&b, "\tif live&(1<<%d) != 0 {\n", i)
		} else {
			fmt.Fprintf(&b, "\tif live&(1<<%d) != 0 && %s {\n", i, cond)
		}
		if s.Accept {
			b.WriteString("\t\taccept = true\n")
		}
		if len(s.NextStatesIndexes) > 0 {
			fmt.Fprintf(&b, "\t\tnext |= %s\n", bitmask(s.NextStatesIndexes))
		}
		b.WriteString("\t}\n")
	}
	b.WriteString("\treturn accept, next\n}\n")
	return b.String()
}

func patternExpr(p semantic.Pattern) string {
	switch pat := p.(type) {
	case semantic.SimplePattern:
		return fmt.Sprintf("c == %q", pat.Char)
	case semantic.WildcardPattern:
		return "true"
	case semantic.BracketPattern:
		var parts []string
		for _, it := range pat.Items {
			if it.Lo == it.Hi {
				parts = append(parts, fmt.Sprintf("c == %q", it.Lo))
			} else {
				parts = append(parts, fmt.Sprintf("(c >= %q && c <= %q)", it.Lo, it.Hi))
			}
		}
		expr := strings.Join(parts, " || ")
		if pat.Negative {
			return "!(" + expr + ")"
		}
		return "(" + expr + ")"
	default:
		panic("golang: unknown Pattern variant")
	}
}

func bitmask(indexes []int) string {
	if len(indexes) == 0 {
		return "0"
	}
	var parts []string
	for _, i := range indexes {
		parts = append(parts, fmt.Sprintf("1<<%d", i))
	}
	return strings.Join(parts, " | ")
}

// --- back.ExpressionFold ---
//
// Every fold method here returns a Go expression of type aetherrt.DescendAlt
// (a func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error)
// literal), so they compose uniformly and a Descend body is just
// "return (<expr>)(p, s)".

func (f *Fold) FoldSelection(alternatives []string, ordered bool) string {
	return fmt.Sprintf(
		"func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {\n\treturn p.Selection(%t, s, []aetherrt.DescendAlt{\n%s,\n\t})\n}",
		ordered, strings.Join(indentAll(alternatives), ",\n"))
}

func (f *Fold) FoldSequence(items []string) string {
	return fmt.Sprintf(
		"func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {\n\treturn p.Sequence(s, []aetherrt.DescendAlt{\n%s,\n\t})\n}",
		strings.Join(indentAll(items), ",\n"))
}

// FoldIteration lowers `{ }`/`{/ }`, which match zero or more repetitions:
// the one-or-more engine loop wrapped in an optional.
func (f *Fold) FoldIteration(inner string, ordered bool) string {
	return fmt.Sprintf(
		"func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {\n\treturn p.Optional(%t, s, func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {\n\t\treturn p.Iteration(%t, s, %s)\n\t})\n}",
		ordered, ordered, back.Indent(inner, 2))
}

func (f *Fold) FoldOptional(inner string, ordered bool) string {
	return fmt.Sprintf(
		"func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {\n\treturn p.Optional(%t, s, %s)\n}",
		ordered, back.Indent(inner, 1))
}

func (f *Fold) FoldPrimary(name string, isTerminal bool, condition string, firstRef bool) string {
	var call string
	if isTerminal {
		call = fmt.Sprintf("p.CallTerminal(Terminals[%q].ID, s)", name)
	} else {
		caller := "nil"
		if firstRef {
			caller = "self"
		}
		call = fmt.Sprintf("p.Call(%s, nontermRefs[%q], []aetherrt.ParsingState{s}, nil)", caller, name)
	}
	body := "return " + call
	if condition != "" {
		body = fmt.Sprintf("c := p.Conditions()\n\tif !(%s) {\n\t\treturn nil, aetherrt.InternalSkip()\n\t}\n\t%s", condition, body)
	}
	return fmt.Sprintf("func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {\n\t%s\n}", body)
}

func (f *Fold) FoldConditional(inner string, condition string) string {
	return fmt.Sprintf(
		"func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {\n\tc := p.Conditions()\n\tif !(%s) {\n\t\treturn nil, aetherrt.InternalSkip()\n\t}\n\treturn (%s)(p, s)\n}",
		condition, back.Indent(inner, 1))
}

// --- back.SyntacticFileFold ---

func (f *Fold) FoldNonterminal(name string, sym *semantic.SyntacticSymbolData, descendBody string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\t%q: {\n", name)
	fmt.Fprintf(&b, "\t\tID:   %d,\n", sym.ID)
	fmt.Fprintf(&b, "\t\tName: %q,\n", name)
	if sym.IsStart {
		if sym.StartCondition != nil {
			fmt.Fprintf(&b, "\t\tStart: func(c aetherrt.Conditions) bool { return %s },\n", back.FoldCondition(f, sym.StartCondition))
		} else {
			b.WriteString("\t\tStart: func(c aetherrt.Conditions) bool { return true },\n")
		}
	}
	if len(sym.StaticFirst) > 0 || len(sym.ConditionalFirst) > 0 {
		b.WriteString("\t\tFirst: func(c aetherrt.Conditions) []int {\n\t\t\tvar out []int\n")
		for _, n := range sym.StaticFirst {
			fmt.Fprintf(&b, "\t\t\tout = append(out, Nonterminals[%q].ID)\n", n)
		}
		for _, n := range sortedNames(sym.ConditionalFirst) {
			fmt.Fprintf(&b, "\t\t\tif %s {\n\t\t\t\tout = append(out, Nonterminals[%q].ID)\n\t\t\t}\n", back.FoldCondition(f, sym.ConditionalFirst[n]), n)
		}
		b.WriteString("\t\t\treturn out\n\t\t},\n")
	}
	b.WriteString("\t\tDescend: func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {\n")
	if strings.Contains(descendBody, "self") {
		fmt.Fprintf(&b, "\t\t\tself := nontermRefs[%q]\n", name)
	}
	b.WriteString("\t\t\tbody := " + back.Indent(descendBody, 0) + "\n")
	b.WriteString("\t\t\treturn body(p, s)\n")
	b.WriteString("\t\t},\n\t},\n")
	return b.String()
}

func (f *Fold) FoldSyntacticFile(nonterminals []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "// Code generated by aether. DO NOT EDIT.\n\npackage %s\n\n", f.Package)
	b.WriteString("import \"github.com/dekarrin/aether/aetherrt\"\n\n")
	b.WriteString("var Nonterminals = map[string]aetherrt.NonterminalType{\n")
	for _, n := range nonterminals {
		b.WriteString(n)
	}
	b.WriteString("}\n\n")
	b.WriteString("// nontermRefs holds one stable *NonterminalType per entry of Nonterminals,\n")
	b.WriteString("// since a map's values are not addressable: generated Descend bodies pass\n")
	b.WriteString("// these pointers to Call instead of indexing the map directly.\n")
	b.WriteString("var nontermRefs = map[string]*aetherrt.NonterminalType{}\n\n")
	b.WriteString("func init() {\n\tfor name, t := range Nonterminals {\n\t\tt := t\n\t\tnontermRefs[name] = &t\n\t}\n}\n")
	return b.String()
}

func exportName(name string) string {
	if name == "" {
		return name
	}
	r := []rune(name)
	if r[0] >= 'a' && r[0] <= 'z' {
		r[0] = r[0] - 'a' + 'A'
	}
	return string(r)
}

func sortedKeys(m map[string]semantic.ConditionExpr) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedNames(m map[string]semantic.ConditionExpr) []string {
	return sortedKeys(m)
}

func indentAll(items []string) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = back.Indent(it, 1)
	}
	return out
}
