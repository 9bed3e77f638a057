package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"github.com/skx/pine/compiler"
	"github.com/skx/pine/profile"
)

// runRepl drives an interactive, line-at-a-time Pine session: each
// accepted line is appended to a growing buffer, which is recompiled from
// scratch (there is no incremental-compile API) so that every line is
// checked against the variables and types established by the lines before
// it. A line that fails to compile is dropped and the buffer reverts to
// its last good state, so a mistake doesn't wedge the session.
func runRepl(prof profile.Profile) int {
	rl, err := readline.New("pine> ")
	if err != nil {
		errorColor.Fprintln(os.Stderr, err)
		return 2
	}
	defer rl.Close()

	infoColor.Fprintln(rl.Stdout(), "Pine interactive session. Enter statements; Ctrl-D to quit.")

	var lines []string
	for {
		line, err := rl.Readline()
		if err != nil {
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		rl.SaveHistory(line)

		candidate := append(append([]string{}, lines...), line)
		source := strings.Join(candidate, "\n") + "\n"

		comp := compiler.New(source)
		comp.SetProfile(prof)
		asm, cerr := comp.Compile()
		if cerr != nil {
			reportError(cerr, source)
			continue
		}

		lines = candidate
		fmt.Fprint(rl.Stdout(), asm)
	}

	return 0
}
