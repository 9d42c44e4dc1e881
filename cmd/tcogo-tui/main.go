package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	flag "github.com/spf13/pflag"

	"github.com/rgehrsitz/tcogo/internal/tui"
)

func main() {
	catalogPath := flag.String("catalog", "", "vendor catalog (YAML, JSON or SQLite); defaults to the input's catalog or the built-in one")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tcogo-tui [--catalog path] <input-file>")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	inputPath := flag.Arg(0)

	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: input file not found: %s\n", inputPath)
		os.Exit(1)
	}

	p := tea.NewProgram(
		tui.NewModel(inputPath, *catalogPath),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
