// Package styles defines the visual styling for the application.
package styles

import "github.com/charmbracelet/lipgloss"

// Color definitions for the dashboard theme.
var (
	// Primary colors
	Primary   = lipgloss.Color("205") // Pink
	Secondary = lipgloss.Color("63")  // Purple
	Subtle    = lipgloss.Color("240") // Gray

	// Status colors
	Success = lipgloss.Color("42")  // Green
	Error   = lipgloss.Color("196") // Red
	Warning = lipgloss.Color("220") // Yellow
	Info    = lipgloss.Color("39")  // Blue

	// Background colors
	BgDark   = lipgloss.Color("235")
	BgAccent = lipgloss.Color("236")

	// Text colors
	TextPrimary   = lipgloss.Color("252")
	TextSecondary = lipgloss.Color("245")
	TextMuted     = lipgloss.Color("240")

	// ToastStyle for floating notifications.
	ToastStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1).
			MarginBottom(1)
)

// Palette colors chart series and provider bars in a stable order.
var Palette = []lipgloss.Color{
	lipgloss.Color("39"),  // Blue
	lipgloss.Color("208"), // Orange
	lipgloss.Color("42"),  // Green
	lipgloss.Color("205"), // Pink
	lipgloss.Color("220"), // Yellow
	lipgloss.Color("63"),  // Purple
}

// HeatScale runs from cold to hot.
var HeatScale = []lipgloss.Color{
	lipgloss.Color("24"),
	lipgloss.Color("31"),
	lipgloss.Color("37"),
	lipgloss.Color("142"),
	lipgloss.Color("214"),
	lipgloss.Color("202"),
	lipgloss.Color("196"),
}

// TitleStyle is used for main headings.
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Primary).
	MarginBottom(1)

// SubTitleStyle is used for section headings.
var SubTitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Secondary)

// DocStyle provides consistent document margins.
var DocStyle = lipgloss.NewStyle().
	Margin(1, 2).
	Padding(0, 1)

// CardStyle creates a bordered card container.
var CardStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Subtle).
	Padding(1, 2).
	MarginBottom(1)

// CardTitleStyle styles card headers.
var CardTitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Primary).
	MarginBottom(1)

// StatLabelStyle styles the caption under a headline number.
var StatLabelStyle = lipgloss.NewStyle().
	Foreground(TextMuted)

// StatValueStyle styles a headline number.
var StatValueStyle = lipgloss.NewStyle().
	Foreground(TextPrimary).
	Bold(true)

// StatBoxStyle frames a single headline number.
var StatBoxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Subtle).
	Padding(0, 1).
	MarginRight(1).
	Width(18)

// FocusedStyle is used for focused input elements.
var FocusedStyle = lipgloss.NewStyle().
	Foreground(Primary).
	Bold(true)

// BlurredStyle is used for unfocused input elements.
var BlurredStyle = lipgloss.NewStyle().
	Foreground(TextMuted)

// FocusedBorderStyle creates a focused border.
var FocusedBorderStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Primary).
	Padding(0, 1)

// BlurredBorderStyle creates an unfocused border.
var BlurredBorderStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Subtle).
	Padding(0, 1)

// HelpStyle is the base style for help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(TextMuted)

// HelpPanelStyle creates the help overlay panel.
var HelpPanelStyle = lipgloss.NewStyle().
	Border(lipgloss.DoubleBorder()).
	BorderForeground(Primary).
	Padding(1, 3).
	Background(BgDark)

// ListItemStyle styles list items.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedListItemStyle styles selected list items.
var SelectedListItemStyle = lipgloss.NewStyle().
	Foreground(Primary).
	Bold(true)

// CheckedStyle marks a selected code.
var CheckedStyle = lipgloss.NewStyle().
	Foreground(Success)

// TableHeaderStyle styles table headers.
var TableHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Primary).
	BorderStyle(lipgloss.NormalBorder()).
	BorderBottom(true).
	BorderForeground(Subtle)

// TableCellStyle styles table cells.
var TableCellStyle = lipgloss.NewStyle().
	Padding(0, 1)

// TableSelectedStyle styles selected table rows.
var TableSelectedStyle = lipgloss.NewStyle().
	Background(BgAccent).
	Foreground(TextPrimary).
	Bold(true)

// ErrorTextStyle for error messages.
var ErrorTextStyle = lipgloss.NewStyle().
	Foreground(Error)

// SuccessTextStyle for success messages.
var SuccessTextStyle = lipgloss.NewStyle().
	Foreground(Success)

// WarningTextStyle for warning messages.
var WarningTextStyle = lipgloss.NewStyle().
	Foreground(Warning)

// InfoTextStyle for info messages.
var InfoTextStyle = lipgloss.NewStyle().
	Foreground(Info)

// BadgeStyle highlights a toggle such as the active sort.
var BadgeStyle = lipgloss.NewStyle().
	Foreground(Primary).
	Bold(true).
	Padding(0, 1).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Primary)

// PaletteColor returns the series color for index i.
func PaletteColor(i int) lipgloss.Color {
	return Palette[i%len(Palette)]
}

// HeatStyle colors a cell by its position between lo and hi.
func HeatStyle(v, lo, hi float64) lipgloss.Style {
	idx := 0
	if hi > lo {
		idx = int((v - lo) / (hi - lo) * float64(len(HeatScale)-1))
	}
	idx = max(0, min(idx, len(HeatScale)-1))
	return lipgloss.NewStyle().Foreground(HeatScale[idx])
}

// CorrelationStyle colors a Pearson coefficient by strength.
func CorrelationStyle(r float64) lipgloss.Style {
	switch {
	case r >= 0.5 || r <= -0.5:
		return ErrorTextStyle.Bold(true)
	case r >= 0.2 || r <= -0.2:
		return WarningTextStyle
	default:
		return SuccessTextStyle
	}
}

// CenterBoth centers content both horizontally and vertically.
func CenterBoth(content string, width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center).
		AlignVertical(lipgloss.Center).
		Render(content)
}
