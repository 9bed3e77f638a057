// This is the main-driver for our compiler.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/skx/pine/ast"
	"github.com/skx/pine/compiler"
	"github.com/skx/pine/errors"
	"github.com/skx/pine/profile"
)

var (
	errorColor = color.New(color.FgRed, color.Bold)
	lineColor  = color.New(color.FgWhite)
	caretColor = color.New(color.FgYellow, color.Bold)
	infoColor  = color.New(color.FgCyan)
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	//
	// Look for flags.
	//
	fs := flag.NewFlagSet("pine", flag.ContinueOnError)
	output := fs.String("o", "", "Output assembly path (default: input path with .s extension).")
	fs.StringVar(output, "output", "", "Output assembly path (default: input path with .s extension).")
	print := fs.Bool("p", false, "Write assembly to standard output instead of a file.")
	fs.BoolVar(print, "print", false, "Write assembly to standard output instead of a file.")
	verbose := fs.Bool("v", false, "Emit phase-progress lines to standard error.")
	fs.BoolVar(verbose, "verbose", false, "Emit phase-progress lines to standard error.")
	dumpTokens := fs.String("dump-tokens", "", "Write the token stream to PATH.")
	dumpAST := fs.String("dump-ast", "", "Write a human-readable AST dump to PATH.")
	profileName := fs.String("profile", "", "Simulator profile: venus (default) or rars.")
	profilePath := fs.String("profile-file", "", "Load a simulator profile from a TOML file.")
	repl := fs.Bool("repl", false, "Start an interactive line-at-a-time session.")

	if err := fs.Parse(args); err != nil {
		return 3
	}

	if *repl {
		return runRepl(resolveProfile(*profileName, *profilePath))
	}

	if len(fs.Args()) != 1 {
		fmt.Fprintf(os.Stderr, "Usage: pine [flags] file.pine\n")
		return 3
	}
	path := fs.Args()[0]

	//
	// Read the source.
	//
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading %s: %s\n", path, err)
		return 2
	}

	prof := resolveProfile(*profileName, *profilePath)

	comp := compiler.New(string(source))
	comp.SetProfile(prof)

	if *verbose {
		infoColor.Fprintln(os.Stderr, "lexing and parsing "+path)
	}

	if *dumpTokens != "" {
		toks, terr := comp.Tokens()
		if terr != nil {
			reportError(terr, string(source))
			return 1
		}
		var sb strings.Builder
		for _, tok := range toks {
			sb.WriteString(tok.String())
			sb.WriteByte('\n')
		}
		if werr := os.WriteFile(*dumpTokens, []byte(sb.String()), 0o644); werr != nil {
			fmt.Fprintf(os.Stderr, "error writing %s: %s\n", *dumpTokens, werr)
			return 2
		}
	}

	if *dumpAST != "" {
		prog, _, _, perr := comp.Parse()
		if perr != nil {
			reportError(perr, string(source))
			return 1
		}
		if werr := os.WriteFile(*dumpAST, []byte(ast.Dump(prog)), 0o644); werr != nil {
			fmt.Fprintf(os.Stderr, "error writing %s: %s\n", *dumpAST, werr)
			return 2
		}
	}

	if *verbose {
		infoColor.Fprintln(os.Stderr, "generating code")
	}

	asm, cerr := comp.Compile()
	if cerr != nil {
		reportError(cerr, string(source))
		return 1
	}

	if *print {
		fmt.Print(asm)
		return 0
	}

	outPath := *output
	if outPath == "" {
		outPath = strings.TrimSuffix(path, filepath.Ext(path)) + ".s"
	}
	if werr := os.WriteFile(outPath, []byte(asm), 0o644); werr != nil {
		fmt.Fprintf(os.Stderr, "error writing %s: %s\n", outPath, werr)
		return 2
	}

	if *verbose {
		infoColor.Fprintln(os.Stderr, "wrote "+outPath)
	}
	return 0
}

// resolveProfile picks the simulator profile a run should use: an explicit
// TOML file wins, then a named built-in, then the default (Venus).
func resolveProfile(name, path string) profile.Profile {
	if path != "" {
		p, err := profile.Load(path)
		if err == nil {
			return p
		}
		fmt.Fprintf(os.Stderr, "warning: could not load profile %s: %s, falling back to default\n", path, err)
	}
	if p, ok := profile.Named(name); ok {
		return p
	}
	fmt.Fprintf(os.Stderr, "warning: unknown profile %q, falling back to default\n", name)
	return profile.Default()
}

// reportError renders a diagnostic with a colorized category label,
// source line, and caret underline.
func reportError(d *errors.Diagnostic, source string) {
	errorColor.Fprintf(os.Stderr, "%s error [%s]: ", d.Stage, d.Kind)
	fmt.Fprintln(os.Stderr, d.Message)

	rendered := d.Render(source)
	lines := strings.SplitN(rendered, "\n", 2)
	if len(lines) == 2 {
		for _, l := range strings.Split(lines[1], "\n") {
			if strings.Contains(l, "^") {
				caretColor.Fprintln(os.Stderr, l)
			} else {
				lineColor.Fprintln(os.Stderr, l)
			}
		}
	}
}
