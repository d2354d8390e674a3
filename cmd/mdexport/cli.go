package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	flag "github.com/spf13/pflag"

	mdexport "github.com/avrile/go-mdexport"
	"github.com/avrile/go-mdexport/internal/config"
	"github.com/avrile/go-mdexport/internal/hints"
)

// commandNames lists the commands runMain dispatches on.
var commandNames = []string{"export", "formats", "themes", "doctor", "version", "help"}

// runMain dispatches to a command handler and returns the process exit
// code. Kept separate from main so tests can drive it with an injected
// Environment.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd := args[1]
	rest := args[2:]

	switch cmd {
	case "export":
		return runExportCmd(rest, env)
	case "formats":
		return runFormats(env)
	case "themes":
		return runThemes(env)
	case "doctor":
		return runDoctorCmd(rest, env)
	case "version":
		fmt.Fprintf(env.Stdout, "go-mdexport %s\n", Version)
		return ExitSuccess
	case "help":
		runHelp(rest, env)
		return ExitSuccess
	}

	// Legacy invocation: a bare markdown path still exports, with a
	// deprecation warning pointing at the command form.
	if looksLikeMarkdown(cmd) {
		fmt.Fprintf(env.Stderr, "DEPRECATED: use 'mdexport export %s' instead\n", cmd)
		return runExportCmd(args[1:], env)
	}

	fmt.Fprintf(env.Stderr, "unknown command: %s\n", cmd)
	printUsage(env.Stderr)
	return ExitUsage
}

// runExportCmd parses export flags, wires signal handling, and maps the
// export outcome to an exit code with an actionable hint appended.
func runExportCmd(args []string, env *Environment) int {
	flags, positional, err := parseExportFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintln(env.Stderr, err)
		return ExitUsage
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := runExport(ctx, positional, flags, env); err != nil {
		fmt.Fprintf(env.Stderr, "Error: %v%s\n", err, hintFor(err))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// hintFor returns a formatted hint for errors with a known remedy, or
// an empty string.
func hintFor(err error) string {
	switch {
	case errors.Is(err, mdexport.ErrBrowserConnect),
		errors.Is(err, mdexport.ErrPrintWindow):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, config.ErrProfileNotFound):
		return hints.ForProfileNotFound(profileSearchPaths())
	case errors.Is(err, mdexport.ErrUnknownFormat):
		return hints.ForUnknownFormat(formatNames())
	case errors.Is(err, ErrUnknownTheme):
		return hints.ForUnknownTheme(mdexport.ThemeNames())
	case errors.Is(err, os.ErrPermission):
		return hints.ForOutputDirectory()
	}
	return ""
}

// profileSearchPaths lists where named profiles are looked up, for the
// profile-not-found hint.
func profileSearchPaths() []string {
	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		return nil
	}
	return []string{userConfigDir + "/go-mdexport/<name>.yaml"}
}

// formatNames returns the supported format names as strings.
func formatNames() []string {
	formats := mdexport.Formats()
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return names
}

// runFormats lists the supported export formats.
func runFormats(env *Environment) int {
	fmt.Fprintln(env.Stdout, "Supported formats:")
	for _, f := range mdexport.Formats() {
		fmt.Fprintf(env.Stdout, "  %-8s %-6s %s\n", f, f.Extension(), f.MIME())
	}
	return ExitSuccess
}

// runThemes lists the registered themes.
func runThemes(env *Environment) int {
	fmt.Fprintln(env.Stdout, "Available themes:")
	for _, name := range mdexport.ThemeNames() {
		if name == "default" {
			fmt.Fprintf(env.Stdout, "  %s (default)\n", name)
		} else {
			fmt.Fprintf(env.Stdout, "  %s\n", name)
		}
	}
	return ExitSuccess
}

// isCommand reports whether s names a known command. Case sensitive.
func isCommand(s string) bool {
	for _, name := range commandNames {
		if s == name {
			return true
		}
	}
	return false
}

// looksLikeMarkdown reports whether path has a markdown extension.
func looksLikeMarkdown(path string) bool {
	return strings.HasSuffix(path, ".md") || strings.HasSuffix(path, ".markdown")
}
