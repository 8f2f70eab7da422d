// Package cli provides styled terminal output using lipgloss.
package cli

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	// PrimaryColor is the main theme color.
	PrimaryColor = lipgloss.Color("#4ECDC4")
	// SuccessColor indicates successful operations and bargains.
	SuccessColor = lipgloss.Color("#4ECDC4")
	// WarningColor indicates warnings and fair prices.
	WarningColor = lipgloss.Color("#FFE66D")
	// ErrorColor indicates errors and overpayments.
	ErrorColor = lipgloss.Color("#FF6B6B")
	// InfoColor indicates informational messages.
	InfoColor = lipgloss.Color("#95E1D3")
	// SubtleColor indicates less prominent UI elements.
	SubtleColor = lipgloss.Color("#666666")

	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	// SuccessStyle formats success messages and DEAL verdicts.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	// WarningStyle formats warnings and FAIR verdicts.
	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	// ErrorStyle formats errors and OVERPAY verdicts.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	// InfoStyle formats informational messages.
	InfoStyle = lipgloss.NewStyle().
			Foreground(InfoColor)

	// SubtleStyle formats less prominent text.
	SubtleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	// BoldStyle makes text bold.
	BoldStyle = lipgloss.NewStyle().
			Bold(true)

	// HighlightStyle marks the requester's own leaderboard row.
	HighlightStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#1A1A1A")).
			Background(PrimaryColor)

	// TableHeaderStyle is used for table headers.
	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(lipgloss.Color("#333"))

	// TableCellStyle formats table cells with appropriate padding.
	TableCellStyle = lipgloss.NewStyle().
			PaddingRight(2)
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	ReceiptIcon = "🧾"
	ChartIcon   = "📊"
	CoinIcon    = "💰"
)
