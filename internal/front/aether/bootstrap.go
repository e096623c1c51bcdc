package aether

import "github.com/dekarrin/aether/aetherrt"

// TerminalTable returns the bootstrap terminal tags as the slice form
// aetherrt.NewLexer expects.
func TerminalTable() []aetherrt.TerminalTag {
	out := make([]aetherrt.TerminalTag, 0, len(Terminals))
	for _, t := range Terminals {
		out = append(out, t)
	}
	return out
}

// NonterminalTable returns the bootstrap nonterminal types as the slice form
// aetherrt.NewParser expects.
func NonterminalTable() []aetherrt.NonterminalType {
	out := make([]aetherrt.NonterminalType, 0, len(Nonterminals))
	for _, t := range Nonterminals {
		out = append(out, t)
	}
	return out
}

// NewLexer builds a Lexer over input (named filename for diagnostics) that
// recognizes the bootstrap grammar's terminals under conditions. condition
// is ConditionLexical when reading a lexical.aether file, ConditionSyntactic
// when reading a syntactic.aether file.
func NewLexer(filename, input string, conditions aetherrt.Conditions) *aetherrt.Lexer {
	return aetherrt.NewLexer(filename, input, TerminalTable(), conditions)
}

// NewParser builds a Parser over lexer that derives the bootstrap grammar
// under conditions, ready for Parse.
func NewParser(lexer *aetherrt.Lexer, conditions aetherrt.Conditions) (*aetherrt.Parser, error) {
	return aetherrt.NewParser(lexer, NonterminalTable(), conditions)
}

// ParseFile lexes and parses input (named filename for diagnostics) under
// conditions, disambiguates the resulting BSR, and converts it to a
// concrete syntax tree rooted at Grammar. Pass ConditionLexical for a
// lexical.aether file, ConditionSyntactic for a syntactic.aether file.
func ParseFile(filename, input string, conditions aetherrt.Conditions) (aetherrt.TreeNode, error) {
	lexer := NewLexer(filename, input, conditions)
	parser, err := NewParser(lexer, conditions)
	if err != nil {
		return nil, err
	}
	if err := parser.Parse(); err != nil {
		return nil, err
	}

	bsr := parser.BSR()
	disambig := aetherrt.NewBSRDisambiguator(bsr)
	if err := disambig.Run(); err != nil {
		return nil, err
	}

	converter := aetherrt.NewBSRToTreeConverter(bsr)
	converter.Run()
	return converter.Tree, nil
}
