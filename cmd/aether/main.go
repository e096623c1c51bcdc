/*
Aether reads a lexical.aether/syntactic.aether grammar pair and emits a
lexer and parser pair in a target language.

Usage:

	aether [flags] INPUT_DIR

Once run, aether lexes and parses the grammar sources under its own
bootstrap meta-grammar, resolves the lexical and syntactic symbol tables,
and folds them into generated source files importing aetherrt. By default
it writes common.go, lexical.go, and syntactic.go to the current directory.

The flags are:

	-v, --version
		Give the current version of aether and then exit.

	-L, --language LANG
		Generate for the named target language. Only "go" is supported.
		Defaults to "go".

	-o, --output DIR
		Write generated files to DIR. Defaults to the current directory.

	--pkg NAME
		Package name for the generated files. Defaults to "generated".

	-c, --config FILE
		Read a TOML manifest of [[build]] tables instead of a single
		INPUT_DIR, each with its own input/output/package/language. Runs
		every entry in sequence; the first error aborts the rest.

	--no-cache
		Skip the .aethercache read/write that would otherwise let an
		unchanged grammar short-circuit straight to rewriting the
		previously generated files.
*/
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/dekarrin/aether/internal/cache"
	"github.com/dekarrin/aether/internal/config"
	"github.com/dekarrin/aether/internal/front/back"
	"github.com/dekarrin/aether/internal/front/back/golang"
	"github.com/dekarrin/aether/internal/pipeline"
	"github.com/dekarrin/aether/internal/util"
	"github.com/dekarrin/aether/internal/version"
	"github.com/google/uuid"
	"github.com/spf13/pflag"
)

var (
	flagVersion  = pflag.BoolP("version", "v", false, "Give the current version of aether and then exit.")
	flagLanguage = pflag.StringP("language", "L", "go", "Target language to generate. Only \"go\" is supported.")
	flagOutput   = pflag.StringP("output", "o", ".", "Directory to write generated files to.")
	flagPackage  = pflag.String("pkg", "generated", "Package name for the generated files.")
	flagConfig   = pflag.StringP("config", "c", "", "TOML manifest of [[build]] tables to run instead of a single INPUT_DIR.")
	flagNoCache  = pflag.Bool("no-cache", false, "Skip the .aethercache read/write.")
)

// job is one resolved generation request, whether it came from a single
// INPUT_DIR invocation or one [[build]] table of a -c manifest.
type job struct {
	input    string
	output   string
	pkg      string
	language string
	noCache  bool
}

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("aether %s\n", version.Current)
		return
	}

	jobs, err := resolveJobs()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := util.StderrLogger()

	for _, j := range jobs {
		if err := runJob(j, logger); err != nil {
			fmt.Fprintln(os.Stderr, diagnostic(err))
			os.Exit(1)
		}
	}
}

// diagnostic renders err as aether's "FILE:LINE:COLUMN: KIND: description"
// line when it carries that shape, or just its message otherwise.
func diagnostic(err error) string {
	type diag interface{ Diagnostic() string }
	if d, ok := err.(diag); ok {
		return d.Diagnostic()
	}
	return err.Error()
}

func resolveJobs() ([]job, error) {
	if *flagConfig != "" {
		manifest, err := config.Load(*flagConfig)
		if err != nil {
			return nil, err
		}
		jobs := make([]job, 0, len(manifest.Build))
		for i, b := range manifest.Build {
			if b.Input == "" {
				return nil, fmt.Errorf("%s: [[build]] entry %d: no input directory given", *flagConfig, i)
			}
			j := job{
				input:    b.Input,
				output:   b.Output,
				pkg:      b.Package,
				language: b.Language,
				noCache:  b.NoCache || *flagNoCache,
			}
			if j.output == "" {
				j.output = *flagOutput
			}
			if j.pkg == "" {
				j.pkg = *flagPackage
			}
			if j.language == "" {
				j.language = *flagLanguage
			}
			jobs = append(jobs, j)
		}
		return jobs, nil
	}

	args := pflag.Args()
	if len(args) != 1 {
		return nil, fmt.Errorf("expected exactly one INPUT_DIR argument\nDo -h for help.")
	}
	return []job{{
		input:    args[0],
		output:   *flagOutput,
		pkg:      *flagPackage,
		language: *flagLanguage,
		noCache:  *flagNoCache,
	}}, nil
}

func runJob(j job, logger *util.Logger) error {
	if j.language != "go" {
		return fmt.Errorf("%s: unsupported target language %q (only \"go\" is supported)", j.input, j.language)
	}

	lexicalSrc, err := os.ReadFile(filepath.Join(j.input, "lexical.aether"))
	if err != nil {
		return err
	}
	syntacticSrc, err := os.ReadFile(filepath.Join(j.input, "syntactic.aether"))
	if err != nil {
		return err
	}

	sum := cache.SumOf(j.language, j.pkg, lexicalSrc, syntacticSrc)
	cachePath := filepath.Join(j.input, ".aethercache")

	if !j.noCache {
		if img, err := cache.Load(cachePath); err == nil && img.Sum == sum {
			logger.Infof("%s: cache hit, reusing prior build %s", j.input, img.RunID)
			return writeFiles(j.output, img.Files)
		}
	}

	logger.Infof("%s: compiling grammar", j.input)
	tables, err := pipeline.Compile(string(lexicalSrc), string(syntacticSrc))
	if err != nil {
		return err
	}
	logger.Infof("%s: %d terminal tags, %d nonterminal types, %d conditions",
		j.input, len(tables.Lexical.Symbols), len(tables.Syntactic.Symbols), len(tables.Conditions))

	files, err := generate(j.pkg, tables)
	if err != nil {
		return err
	}

	if err := writeFiles(j.output, files); err != nil {
		return err
	}

	if !j.noCache {
		img := &cache.Image{
			RunID:    uuid.New(),
			Sum:      sum,
			Language: j.language,
			Package:  j.pkg,
			Files:    files,
		}
		if err := cache.Save(cachePath, img); err != nil {
			logger.Warnf("%s: could not write cache: %v", j.input, err)
		}
	}

	return nil
}

// generate folds a compiled grammar into the Go target's three output
// files.
func generate(pkg string, tables *pipeline.Tables) (map[string][]byte, error) {
	fold := golang.New(pkg, tables.Conditions)

	termNames := make([]string, 0, len(tables.Lexical.Symbols))
	for name := range tables.Lexical.Symbols {
		termNames = append(termNames, name)
	}
	sort.Slice(termNames, func(i, j int) bool {
		return tables.Lexical.Symbols[termNames[i]].Definition.ID < tables.Lexical.Symbols[termNames[j]].Definition.ID
	})

	terminals := make([]back.NamedLexical, 0, len(termNames))
	for _, name := range termNames {
		terminals = append(terminals, back.NamedLexical{Name: name, Data: tables.Lexical.Symbols[name].Definition})
	}

	nontermNames := make([]string, 0, len(tables.Syntactic.Symbols))
	for name := range tables.Syntactic.Symbols {
		nontermNames = append(nontermNames, name)
	}
	sort.Slice(nontermNames, func(i, j int) bool {
		return tables.Syntactic.Symbols[nontermNames[i]].Definition.ID < tables.Syntactic.Symbols[nontermNames[j]].Definition.ID
	})

	nonterminals := make([]string, 0, len(nontermNames))
	for _, name := range nontermNames {
		sym := tables.Syntactic.Symbols[name].Definition

		firstMembers := map[string]bool{}
		for _, n := range sym.StaticFirst {
			firstMembers[n] = true
		}
		for n := range sym.ConditionalFirst {
			firstMembers[n] = true
		}

		descendBody := back.FoldExpression(fold, fold, sym.Expr, tables.IsTerminal, firstMembers)
		nonterminals = append(nonterminals, fold.FoldNonterminal(name, sym, descendBody))
	}

	return map[string][]byte{
		"common.go":    []byte(fold.FoldCommonFile(tables.Conditions)),
		"lexical.go":   []byte(fold.FoldLexicalFile(terminals)),
		"syntactic.go": []byte(fold.FoldSyntacticFile(nonterminals)),
	}, nil
}

func writeFiles(dir string, files map[string][]byte) error {
	if err := os.MkdirAll(dir, 0775); err != nil {
		return err
	}
	for name, contents := range files {
		if err := os.WriteFile(filepath.Join(dir, name), contents, 0664); err != nil {
			return err
		}
	}
	return nil
}
