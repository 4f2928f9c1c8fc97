package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/sgprop/internal/tui"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: sgprop-tui <portfolio-file>")
		os.Exit(1)
	}
	portfolioPath := os.Args[1]

	if _, err := os.Stat(portfolioPath); os.IsNotExist(err) {
		fmt.Printf("Error: portfolio file not found: %s\n", portfolioPath)
		os.Exit(1)
	}

	// a nil engine uses default assumptions and the wall clock
	model := tui.NewModel(portfolioPath, nil)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
