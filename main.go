package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	username := CurrentUser()
	if len(os.Args) > 1 && os.Args[1] != "" {
		username = os.Args[1]
	}
	if username == "" {
		fmt.Fprintln(os.Stderr, "could not determine username; pass one as the first argument")
		os.Exit(1)
	}

	p := tea.NewProgram(NewModel(NewSlurmSource(), username), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error running slurmtop: %v\n", err)
		os.Exit(1)
	}
}
