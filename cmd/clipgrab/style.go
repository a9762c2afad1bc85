package main

import "github.com/charmbracelet/lipgloss"

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Padding(0, 1)
	styleError   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	styleWarn    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	styleSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	styleFaint   = lipgloss.NewStyle().Faint(true)
	styleTag     = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("63")).Padding(0, 1)
)
