package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdexport <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  export     Export markdown files to print, word, ebook, or slides")
	fmt.Fprintln(w, "  formats    List supported export formats")
	fmt.Fprintln(w, "  themes     List available color themes")
	fmt.Fprintln(w, "  doctor     Check browser availability for print exports")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'mdexport help <command>' for details on a specific command.")
}

// printExportUsage prints usage for the export command.
func printExportUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdexport export <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export markdown files to a document format.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Markdown file or directory (optional if profile has input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -f, --format <s>          Format: print, word, ebook, slides (default: print)")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "  -c, --profile <name>      Profile name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Print render timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Document:")
	fmt.Fprintln(w, "      --title <s>           Document title (\"\" = auto from H1)")
	fmt.Fprintln(w, "      --author <s>          Author name")
	fmt.Fprintln(w, "      --description <s>     Document description")
	fmt.Fprintln(w, "      --date <s>            Date: \"auto\", \"auto:FORMAT\", or literal")
	fmt.Fprintln(w, "                            Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D")
	fmt.Fprintln(w, "                            Presets (case-insensitive): iso, european, us, long")
	fmt.Fprintln(w, "                            Use [text] to escape literals: [Date]: YYYY")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "  -p, --page-size <s>       Page size: letter, a4, legal")
	fmt.Fprintln(w, "      --orientation <s>     Orientation: portrait, landscape")
	fmt.Fprintln(w, "      --page-numbers        Show page numbers")
	fmt.Fprintln(w, "      --header-footer       Show running header/footer band")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Typography:")
	fmt.Fprintln(w, "      --font-size <n>       Font size in points (8-24)")
	fmt.Fprintln(w, "      --font-family <s>     CSS font stack")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Styling:")
	fmt.Fprintln(w, "      --theme <s>           Color theme (see 'mdexport themes')")
	fmt.Fprintln(w, "      --css <s>             CSS file or inline rules appended after built-in styles")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom asset directory")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Table of Contents:")
	fmt.Fprintln(w, "      --toc                 Include a numbered table of contents")
	fmt.Fprintln(w, "      --no-toc              Disable table of contents")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Watermark:")
	fmt.Fprintln(w, "      --watermark <s>       Watermark text (e.g., DRAFT)")
	fmt.Fprintln(w, "      --no-watermark        Disable watermark")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exit Codes:")
	fmt.Fprintln(w, "  0  Success")
	fmt.Fprintln(w, "  1  General error")
	fmt.Fprintln(w, "  2  Usage or validation error")
	fmt.Fprintln(w, "  3  I/O error")
	fmt.Fprintln(w, "  4  Browser error (print format)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  mdexport export document.md")
	fmt.Fprintln(w, "  mdexport export -f ebook -o book.html document.md")
	fmt.Fprintln(w, "  mdexport export -f slides --theme dark talk.md")
	fmt.Fprintln(w, "  mdexport export ./docs/ -o ./dist/")
	fmt.Fprintln(w, "  mdexport export -c work --watermark DRAFT --timeout 2m report.md")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "export":
		printExportUsage(env.Stdout)
	case "formats":
		fmt.Fprintln(env.Stdout, "Usage: mdexport formats")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "List supported export formats with their file extensions and media types.")
	case "themes":
		fmt.Fprintln(env.Stdout, "Usage: mdexport themes")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "List available color themes.")
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: mdexport doctor [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check Chrome/Chromium availability and environment for print exports.")
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: mdexport version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: mdexport help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
