package main

import (
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"docuchat/internal/apiclient"
	"docuchat/internal/tui"
)

func main() {
	_ = godotenv.Load()

	client := apiclient.New()
	program := tea.NewProgram(tui.NewModel(client), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		log.Fatalf("chat client failed: %v", err)
	}
}
