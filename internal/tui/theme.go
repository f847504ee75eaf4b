package tui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha, the subset the review screens use.
const (
	colorRed      lipgloss.Color = "#f38ba8"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorPink     lipgloss.Color = "#f5c2e7"
	colorLavender lipgloss.Color = "#b4befe"
	colorOverlay0 lipgloss.Color = "#6c7086"
)

const (
	colorBrand   = colorPink
	colorFocus   = colorLavender
	colorIncome  = colorGreen
	colorExpense = colorRed
	colorMuted   = colorOverlay0
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(colorBrand)
	cursorStyle   = lipgloss.NewStyle().Foreground(colorFocus).Bold(true)
	excludedStyle = lipgloss.NewStyle().Foreground(colorMuted).Strikethrough(true)
	expenseStyle  = lipgloss.NewStyle().Foreground(colorExpense)
	incomeStyle   = lipgloss.NewStyle().Foreground(colorIncome)
	transferStyle = lipgloss.NewStyle()
	helpStyle     = lipgloss.NewStyle().Foreground(colorMuted)
)
