package main

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	env := DefaultEnv()
	configureMaxProcs(os.Args, env.Stderr)
	os.Exit(runMain(os.Args, env))
}

// configureMaxProcs aligns GOMAXPROCS with the container CPU quota.
// Verbose invocations route the adjustment message to stderr; quiet
// ones discard it.
// Error ignored: maxprocs.Set only fails if the GOMAXPROCS env var is
// invalid, in which case Go runtime defaults apply and the program
// continues safely.
func configureMaxProcs(args []string, stderr io.Writer) {
	verbose := false
	for _, arg := range args[1:] {
		if arg == "-v" || arg == "--verbose" {
			verbose = true
			break
		}
	}

	if verbose {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, fmtArgs ...interface{}) {
			fmt.Fprintf(stderr, format+"\n", fmtArgs...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}
}
