package aether

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dekarrin/aether/aetherrt"
	"github.com/dekarrin/aether/internal/front/semantic"
)

// asNonterminal type-asserts node to a *aetherrt.NonterminalTreeNode of the
// given bootstrap production name, panicking (an internal inconsistency,
// not a user-facing error) if it isn't.
func asNonterminal(node aetherrt.TreeNode, name string) *aetherrt.NonterminalTreeNode {
	n, ok := node.(*aetherrt.NonterminalTreeNode)
	if !ok || n.Type == nil || n.Type.Name != name {
		panic(fmt.Sprintf("aether: expected %s node, got %T", name, node))
	}
	return n
}

func isTerminal(node aetherrt.TreeNode, tagName string) bool {
	t, ok := node.(*aetherrt.TerminalTreeNode)
	return ok && t.Tag == terminalID(tagName)
}

func terminalText(node aetherrt.TreeNode) string {
	t, ok := node.(*aetherrt.TerminalTreeNode)
	if !ok || t.EndTerm == nil {
		panic(fmt.Sprintf("aether: expected terminal leaf, got %T", node))
	}
	return t.EndTerm.Value
}

func position(node aetherrt.TreeNode) aetherrt.Position {
	return node.Start()
}

// LoadLexicalProductions walks a tree parsed under ConditionLexical and
// builds the intermediate productions a LexicalSymbolTableBuilder consumes.
func LoadLexicalProductions(root aetherrt.TreeNode) []semantic.LexicalProduction {
	grammar := asNonterminal(root, "Grammar")
	out := make([]semantic.LexicalProduction, 0, len(grammar.Children))
	for _, child := range grammar.Children {
		out = append(out, loadLexicalProduction(child))
	}
	return out
}

func loadLexicalProduction(node aetherrt.TreeNode) semantic.LexicalProduction {
	prod := asNonterminal(node, "Production")
	header := asNonterminal(prod.Children[0], "ProductionHeader")
	body := asNonterminal(prod.Children[1], "ProductionBody")

	p := semantic.LexicalProduction{
		Name: terminalText(header.Children[0]),
		Pos:  position(header),
	}

	for _, c := range header.Children[1:] {
		switch n := c.(type) {
		case *aetherrt.NonterminalTreeNode:
			switch n.Type.Name {
			case "Condition":
				p.Start = buildCondition(n)
			case "ProductionSpecifiers":
				p.Specifiers = loadLexicalSpecifiers(n)
			}
		}
	}

	p.Expr = buildLexicalExpr(asNonterminal(body.Children[0], "SelectionExpression"))
	return p
}

func loadLexicalSpecifiers(node *aetherrt.NonterminalTreeNode) []semantic.LexicalSpecifier {
	list := asNonterminal(node.Children[1], "ProductionSpecifierList")
	var out []semantic.LexicalSpecifier
	for _, c := range list.Children {
		if spec, ok := c.(*aetherrt.NonterminalTreeNode); ok && spec.Type.Name == "ProductionSpecifier" {
			out = append(out, loadLexicalSpecifier(spec))
		}
	}
	return out
}

func loadLexicalSpecifier(node *aetherrt.NonterminalTreeNode) semantic.LexicalSpecifier {
	var spec semantic.LexicalSpecifier

	first := node.Children[0]
	switch {
	case isTerminal(first, "Ignore"):
		spec.Kind = semantic.SpecifierIgnore
	case isTerminal(first, "PlusSign"), isTerminal(first, "HyphenMinus"):
		spec.Kind = semantic.SpecifierPositive
		if isTerminal(first, "HyphenMinus") {
			spec.Kind = semantic.SpecifierNegative
		}
		spec.Name = terminalText(node.Children[1])
	default:
		panic("aether: unrecognized ProductionSpecifier shape")
	}

	for _, c := range node.Children {
		if n, ok := c.(*aetherrt.NonterminalTreeNode); ok && n.Type.Name == "Condition" {
			spec.Condition = buildCondition(n)
		}
	}
	return spec
}

// LoadSyntacticProductions walks a tree parsed under ConditionSyntactic and
// builds the intermediate productions a SyntacticSymbolTableBuilder
// consumes.
func LoadSyntacticProductions(root aetherrt.TreeNode) []semantic.SyntacticProduction {
	grammar := asNonterminal(root, "Grammar")
	out := make([]semantic.SyntacticProduction, 0, len(grammar.Children))
	for _, child := range grammar.Children {
		out = append(out, loadSyntacticProduction(child))
	}
	return out
}

func loadSyntacticProduction(node aetherrt.TreeNode) semantic.SyntacticProduction {
	prod := asNonterminal(node, "Production")
	header := asNonterminal(prod.Children[0], "ProductionHeader")
	body := asNonterminal(prod.Children[1], "ProductionBody")

	p := semantic.SyntacticProduction{
		Name: terminalText(header.Children[0]),
		Pos:  position(header),
	}

	for _, c := range header.Children[1:] {
		if n, ok := c.(*aetherrt.NonterminalTreeNode); ok && n.Type.Name == "ProductionSpecifiers" {
			list := asNonterminal(n.Children[1], "ProductionSpecifierList")
			for _, sc := range list.Children {
				spec, ok := sc.(*aetherrt.NonterminalTreeNode)
				if !ok || spec.Type.Name != "ProductionSpecifier" {
					continue
				}
				// syntactic ProductionSpecifier: Start [Condition]
				p.IsStart = true
				for _, sub := range spec.Children {
					if cn, ok := sub.(*aetherrt.NonterminalTreeNode); ok && cn.Type.Name == "Condition" {
						p.StartCondition = buildCondition(cn)
					}
				}
			}
		}
	}

	p.Expr = buildSyntacticExpr(asNonterminal(body.Children[0], "SelectionExpression"))
	return p
}

// ---- conditions -------------------------------------------------------

func buildCondition(node *aetherrt.NonterminalTreeNode) semantic.ConditionExpr {
	// Condition: CommercialAt DisjunctionCondition
	return buildDisjunction(asNonterminal(node.Children[1], "DisjunctionCondition"))
}

func buildDisjunction(node *aetherrt.NonterminalTreeNode) semantic.ConditionExpr {
	var operands []semantic.ConditionExpr
	for _, c := range node.Children {
		if n, ok := c.(*aetherrt.NonterminalTreeNode); ok && n.Type.Name == "ConjunctionCondition" {
			operands = append(operands, buildConjunction(n))
		}
	}
	if len(operands) == 1 {
		return operands[0]
	}
	return semantic.Disjunction{Operands: operands}
}

func buildConjunction(node *aetherrt.NonterminalTreeNode) semantic.ConditionExpr {
	var operands []semantic.ConditionExpr
	for _, c := range node.Children {
		if n, ok := c.(*aetherrt.NonterminalTreeNode); ok && n.Type.Name == "NegationCondition" {
			operands = append(operands, buildNegation(n))
		}
	}
	if len(operands) == 1 {
		return operands[0]
	}
	return semantic.Conjunction{Operands: operands}
}

func buildNegation(node *aetherrt.NonterminalTreeNode) semantic.ConditionExpr {
	count := 0
	var primitive *aetherrt.NonterminalTreeNode
	for _, c := range node.Children {
		if isTerminal(c, "ExclamationMark") {
			count++
			continue
		}
		primitive = asNonterminal(c, "PrimitiveCondition")
	}
	result := buildPrimitive(primitive)
	// double negation cancels; an odd count of `!` negates once.
	if count%2 == 1 {
		result = semantic.Negation{Operand: result}
	}
	return result
}

func buildPrimitive(node *aetherrt.NonterminalTreeNode) semantic.ConditionExpr {
	first := node.Children[0]
	if isTerminal(first, "Identifier") {
		return semantic.Primary{Name: terminalText(first)}
	}
	// LeftParenthesis DisjunctionCondition RightParenthesis
	inner := asNonterminal(node.Children[1], "DisjunctionCondition")
	return semantic.Primary{Sub: buildDisjunction(inner)}
}

// ---- lexical expressions -----------------------------------------------

func buildLexicalExpr(node *aetherrt.NonterminalTreeNode) semantic.LexicalExpr {
	// SelectionExpression: SequenceExpression (VerticalLine SequenceExpression)*
	var alts []semantic.LexicalExpr
	for _, c := range node.Children {
		if n, ok := c.(*aetherrt.NonterminalTreeNode); ok && n.Type.Name == "SequenceExpression" {
			alts = append(alts, buildLexicalSequence(n))
		}
	}
	if len(alts) == 1 {
		return alts[0]
	}
	return semantic.SelectionExpr{Alternatives: alts}
}

func buildLexicalSequence(node *aetherrt.NonterminalTreeNode) semantic.LexicalExpr {
	var items []semantic.LexicalExpr
	for _, c := range node.Children {
		if n, ok := c.(*aetherrt.NonterminalTreeNode); ok && n.Type.Name == "IterationExpression" {
			items = append(items, buildLexicalIteration(n))
		}
	}
	if len(items) == 1 {
		return items[0]
	}
	return semantic.SequenceExpr{Items: items}
}

func buildLexicalIteration(node *aetherrt.NonterminalTreeNode) semantic.LexicalExpr {
	inner := buildLexicalPrimary(asNonterminal(node.Children[0], "PrimaryExpression"))
	if len(node.Children) == 1 {
		return inner
	}

	switch op := node.Children[1]; {
	case isTerminal(op, "Asterisk"):
		return semantic.IterationExpr{Inner: inner, Kind: semantic.IterStar}
	case isTerminal(op, "PlusSign"):
		return semantic.IterationExpr{Inner: inner, Kind: semantic.IterPlus}
	case isTerminal(op, "QuestionMark"):
		return semantic.IterationExpr{Inner: inner, Kind: semantic.IterQuestion}
	case isTerminal(op, "ExpressionRange"):
		min, max := parseExpressionRange(terminalText(op))
		return semantic.IterationExpr{Inner: inner, Kind: semantic.IterRange, Min: min, Max: max}
	default:
		panic("aether: unrecognized IterationExpression operator")
	}
}

// parseExpressionRange parses `{m}` or `{m,}` or `{m,n}` into (min, max),
// max -1 meaning unbounded.
func parseExpressionRange(text string) (int, int) {
	body := strings.TrimSuffix(strings.TrimPrefix(text, "{"), "}")
	parts := strings.SplitN(body, ",", 2)
	min, _ := strconv.Atoi(parts[0])
	if len(parts) == 1 {
		return min, min
	}
	if parts[1] == "" {
		return min, -1
	}
	max, _ := strconv.Atoi(parts[1])
	return min, max
}

func buildLexicalPrimary(node *aetherrt.NonterminalTreeNode) semantic.LexicalExpr {
	leaf := node.Children[0]
	switch {
	case isTerminal(leaf, "OrdChar"):
		// a run of ordinary characters lexes as one terminal; it denotes
		// the sequence of its characters, one simple pattern each.
		r := []rune(terminalText(leaf))
		if len(r) == 1 {
			return semantic.PatternLeaf{Pattern: semantic.SimplePattern{Char: r[0]}}
		}
		items := make([]semantic.LexicalExpr, len(r))
		for i, c := range r {
			items[i] = semantic.PatternLeaf{Pattern: semantic.SimplePattern{Char: c}}
		}
		return semantic.SequenceExpr{Items: items}
	case isTerminal(leaf, "QuotedChar"):
		return semantic.PatternLeaf{Pattern: semantic.SimplePattern{Char: decodeQuotedChar(terminalText(leaf))}}
	case isTerminal(leaf, "FullStop"):
		return semantic.PatternLeaf{Pattern: semantic.WildcardPattern{}}
	case isTerminal(leaf, "BracketExpression"):
		return semantic.PatternLeaf{Pattern: decodeBracketExpression(terminalText(leaf))}
	default:
		panic("aether: unrecognized PrimaryExpression leaf")
	}
}

// decodeQuotedChar decodes a `\x` / `\0xx` / `\1xx` QuotedChar terminal's
// literal text into the rune it denotes.
func decodeQuotedChar(text string) rune {
	r := decodeEscape([]rune(text))
	return r
}

// decodeEscape decodes one escape token (`c`, `\x` or `\0xx`/`\1xx`
// three-digit octal) at the front of tok, which must consist of exactly
// that one token.
func decodeEscape(tok []rune) rune {
	if len(tok) == 1 {
		return tok[0]
	}
	if tok[0] != '\\' {
		panic("aether: malformed escape token " + string(tok))
	}
	if len(tok) == 2 {
		switch tok[1] {
		case 'a':
			return '\a'
		case 'b':
			return '\b'
		case 'f':
			return '\f'
		case 'n':
			return '\n'
		case 'r':
			return '\r'
		case 't':
			return '\t'
		case 'v':
			return '\v'
		default:
			// an escaped metacharacter like \( \. \\ stands for itself.
			return tok[1]
		}
	}
	// \DDD: three octal digits.
	val := 0
	for _, d := range tok[1:] {
		val = val*8 + int(d-'0')
	}
	return rune(val)
}

// decodeBracketExpression parses a `[...]` BracketExpression terminal's
// literal text into a BracketPattern, handling `^` negation, `-` ranges,
// and the same escapes decodeEscape understands.
func decodeBracketExpression(text string) semantic.BracketPattern {
	body := []rune(strings.TrimSuffix(strings.TrimPrefix(text, "["), "]"))

	negative := false
	if len(body) > 0 && body[0] == '^' {
		negative = true
		body = body[1:]
	}

	var items []semantic.BracketItem
	for i := 0; i < len(body); {
		tok, next := takeBracketToken(body, i)
		lo := decodeEscape(tok)
		hi := lo
		i = next

		if i+1 < len(body) && body[i] == '-' {
			i++
			tok2, next2 := takeBracketToken(body, i)
			hi = decodeEscape(tok2)
			i = next2
		}

		items = append(items, semantic.BracketItem{Lo: lo, Hi: hi})
	}

	return semantic.BracketPattern{Negative: negative, Items: items}
}

// takeBracketToken reads one escape token (or plain rune) from body
// starting at i, returning the token and the index just past it.
func takeBracketToken(body []rune, i int) ([]rune, int) {
	if body[i] != '\\' {
		return body[i : i+1], i + 1
	}
	if i+1 < len(body) && (body[i+1] == '0' || body[i+1] == '1') {
		return body[i : i+4], i + 4
	}
	return body[i : i+2], i + 2
}

// ---- syntactic expressions ----------------------------------------------

func buildSyntacticExpr(node *aetherrt.NonterminalTreeNode) semantic.SyntacticExpr {
	var alts []semantic.SyntacticExpr
	ordered := false
	for _, c := range node.Children {
		switch {
		case isTerminal(c, "Solidus"):
			ordered = true
		case isTerminal(c, "VerticalLine"):
		default:
			if n, ok := c.(*aetherrt.NonterminalTreeNode); ok && n.Type.Name == "SequenceExpression" {
				alts = append(alts, buildSyntacticSequence(n))
			}
		}
	}
	if len(alts) == 1 {
		return alts[0]
	}
	return semantic.SelectionSyn{Alternatives: alts, Ordered: ordered}
}

func buildSyntacticSequence(node *aetherrt.NonterminalTreeNode) semantic.SyntacticExpr {
	var items []semantic.SyntacticExpr
	for _, c := range node.Children {
		if n, ok := c.(*aetherrt.NonterminalTreeNode); ok && n.Type.Name == "PrimaryExpression" {
			items = append(items, buildSyntacticPrimary(n))
		}
	}
	if len(items) == 1 {
		return items[0]
	}
	return semantic.SequenceSyn{Items: items}
}

func buildSyntacticPrimary(node *aetherrt.NonterminalTreeNode) semantic.SyntacticExpr {
	first := node.Children[0]

	if isTerminal(first, "Identifier") {
		id := semantic.IdentifierSyn{Name: terminalText(first)}
		if cond := findCondition(node.Children[1:]); cond != nil {
			id.Condition = cond
		}
		return id
	}

	if isTerminal(first, "LeftParenthesis") {
		inner := buildSyntacticExpr(asNonterminal(node.Children[1], "SelectionExpression"))
		if cond := findCondition(node.Children[3:]); cond != nil {
			return semantic.ConditionalSyn{Inner: inner, Condition: cond}
		}
		return inner
	}

	// (OptionalExpression|IterationExpression) [Condition]
	inner := buildSyntacticOptionalOrIteration(first)
	if cond := findCondition(node.Children[1:]); cond != nil {
		return semantic.ConditionalSyn{Inner: inner, Condition: cond}
	}
	return inner
}

func buildSyntacticOptionalOrIteration(node aetherrt.TreeNode) semantic.SyntacticExpr {
	n, ok := node.(*aetherrt.NonterminalTreeNode)
	if !ok {
		panic("aether: expected OptionalExpression or IterationExpression node")
	}
	switch n.Type.Name {
	case "OptionalExpression":
		return buildOptionalExpression(n)
	case "IterationExpression":
		return buildSyntacticIteration(n)
	default:
		panic("aether: unrecognized syntactic repetition node " + n.Type.Name)
	}
}

func buildOptionalExpression(node *aetherrt.NonterminalTreeNode) semantic.SyntacticExpr {
	ordered := isTerminal(node.Children[0], "LeftSquareBracketSolidus")
	inner := buildSyntacticExpr(asNonterminal(node.Children[1], "SelectionExpression"))
	return semantic.OptionalSyn{Inner: inner, Ordered: ordered}
}

func buildSyntacticIteration(node *aetherrt.NonterminalTreeNode) semantic.SyntacticExpr {
	ordered := isTerminal(node.Children[0], "LeftCurlyBracketSolidus")
	inner := buildSyntacticExpr(asNonterminal(node.Children[1], "SelectionExpression"))
	return semantic.IterationSyn{Inner: inner, Ordered: ordered}
}

func findCondition(nodes []aetherrt.TreeNode) semantic.ConditionExpr {
	for _, c := range nodes {
		if n, ok := c.(*aetherrt.NonterminalTreeNode); ok && n.Type.Name == "Condition" {
			return buildCondition(n)
		}
	}
	return nil
}
