/*
Aetheri starts an interactive grammar console.

It loads a .aethercache image written by a prior aether run, locates the
lexical.aether/syntactic.aether pair it was built from alongside it, and
builds a live lexer and parser directly from the compiled symbol tables
(no generated-code compile step in between). Lines typed at the prompt are
lexed and parsed under the grammar, and the resulting terminal stream, BSR
key count, and (if unambiguous) concrete syntax tree are printed.

Usage:

	aetheri CACHE_FILE

Once started, type any line recognized by the loaded grammar's start
symbol to see it derived. A handful of console commands begin with ":":

	:conditions
		List the grammar's condition names and whether each is set.

	:set NAME
	:unset NAME
		Toggle a condition for subsequent input.

	:quit
		Exit the console.
*/
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/dekarrin/aether/aetherrt"
	"github.com/dekarrin/aether/internal/cache"
	"github.com/dekarrin/aether/internal/interp"
	"github.com/dekarrin/aether/internal/pipeline"
	"github.com/dekarrin/aether/internal/version"
	"github.com/dekarrin/rosed"
	"github.com/spf13/pflag"
)

const consoleOutputWidth = 80

var flagVersion = pflag.BoolP("version", "v", false, "Give the current version of aetheri and then exit.")

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("aetheri %s\n", version.Current)
		return
	}

	args := pflag.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "Expected exactly one CACHE_FILE argument\nDo -h for help.")
		os.Exit(1)
	}

	if err := run(args[0]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cachePath string) error {
	img, err := cache.Load(cachePath)
	if err != nil {
		return fmt.Errorf("loading %s: %w", cachePath, err)
	}
	fmt.Printf("loaded build %s (package %s, %d files)\n", img.RunID, img.Package, len(img.Files))

	dir := filepath.Dir(cachePath)
	lexicalSrc, err := os.ReadFile(filepath.Join(dir, "lexical.aether"))
	if err != nil {
		return err
	}
	syntacticSrc, err := os.ReadFile(filepath.Join(dir, "syntactic.aether"))
	if err != nil {
		return err
	}

	tables, err := pipeline.Compile(string(lexicalSrc), string(syntacticSrc))
	if err != nil {
		return err
	}

	cs := interp.NewConditionSet(tables.Conditions)
	terminals := interp.BuildTerminalTags(tables.Lexical, cs)
	nonterminals := interp.BuildNonterminalTypes(tables.Syntactic, tables.Lexical, cs)

	termNames := make(map[int]string, len(tables.Lexical.Symbols))
	for name, sym := range tables.Lexical.Symbols {
		termNames[sym.Definition.ID] = name
	}

	rl, err := readline.NewEx(&readline.Config{Prompt: "aetheri> "})
	if err != nil {
		return fmt.Errorf("create readline config: %w", err)
	}
	defer rl.Close()

	var active aetherrt.Conditions

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == io.EOF || err == readline.ErrInterrupt {
				return nil
			}
			return err
		}

		switch {
		case line == "":
			continue
		case line == ":quit":
			return nil
		case line == ":conditions":
			fmt.Println(conditionsTable(cs, active))
		case strings.HasPrefix(line, ":set "):
			active = active.With(cs.Bit(strings.TrimPrefix(line, ":set ")))
		case strings.HasPrefix(line, ":unset "):
			active &^= cs.Bit(strings.TrimPrefix(line, ":unset "))
		default:
			deriveLine(line, terminals, nonterminals, termNames, active)
		}
	}
}

func deriveLine(line string, terminals []aetherrt.TerminalTag, nonterminals []aetherrt.NonterminalType, termNames map[int]string, conditions aetherrt.Conditions) {
	lexer := aetherrt.NewLexer("<input>", line, terminals, conditions)

	var stream []string
	var last *aetherrt.Terminal
	for {
		t, err := lexer.NextTerminal(last)
		if err != nil {
			fmt.Printf("  lex error: %v\n", err)
			return
		}
		if t == nil {
			break
		}
		name := "?"
		if len(t.Tags) > 0 {
			if n, ok := termNames[t.Tags[0]]; ok {
				name = n
			}
		}
		stream = append(stream, fmt.Sprintf("%s(%q)", name, t.Value))
		last = t
	}
	fmt.Println(rosed.
		Edit("terminals: " + strings.Join(stream, " ")).
		Wrap(consoleOutputWidth).
		String())

	lexer = aetherrt.NewLexer("<input>", line, terminals, conditions)
	parser, err := aetherrt.NewParser(lexer, nonterminals, conditions)
	if err != nil {
		fmt.Printf("  parser error: %v\n", err)
		return
	}
	if err := parser.Parse(); err != nil {
		fmt.Printf("  parse error: %v\n", err)
		return
	}

	bsr := parser.BSR()
	fmt.Printf("  bsr keys: %d\n", len(bsr.AllKeys()))

	disambig := aetherrt.NewBSRDisambiguator(bsr)
	if err := disambig.Run(); err != nil {
		fmt.Printf("  ambiguous derivation: %v\n", err)
		return
	}

	converter := aetherrt.NewBSRToTreeConverter(bsr)
	converter.Run()
	printTree(converter.Tree, termNames, 1)
}

// conditionsTable renders the grammar's condition names and whether each is
// currently set as a text table.
func conditionsTable(cs *interp.ConditionSet, active aetherrt.Conditions) string {
	data := [][]string{{"Condition", "Set"}}
	for _, name := range cs.Names() {
		data = append(data, []string{name, fmt.Sprintf("%t", active.Has(cs.Bit(name)))})
	}

	tableOpts := rosed.Options{
		TableHeaders:             true,
		NoTrailingLineSeparators: true,
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, consoleOutputWidth, tableOpts).
		String()
}

func printTree(node aetherrt.TreeNode, termNames map[int]string, depth int) {
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}
	switch n := node.(type) {
	case *aetherrt.TerminalTreeNode:
		name := termNames[n.Tag]
		value := ""
		if n.EndTerminal() != nil {
			value = n.EndTerminal().Value
		}
		fmt.Printf("%s%s %q\n", indent, name, value)
	case *aetherrt.NonterminalTreeNode:
		fmt.Printf("%s%s\n", indent, n.Type.Name)
		for _, c := range n.Children {
			printTree(c, termNames, depth+1)
		}
	}
}
