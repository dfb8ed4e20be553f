package style

import (
	"github.com/charmbracelet/lipgloss"
)

const (
	ColorLightGrey = lipgloss.Color("245")
	ColorCyan      = lipgloss.Color("63")
	ColorBrightRed = lipgloss.Color("196")
	ColorFuscia    = lipgloss.Color("170")
	ColorDarkGrey  = lipgloss.Color("241")
	ColorGrey2     = lipgloss.Color("235")
	ColorSpinner   = lipgloss.Color("205")
)

const Background1 = "☖"

// Styles
var (
	AppStyle = lipgloss.NewStyle().Padding(1, 2)

	// Banner styles
	HotkeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	// Navigation links in the header.
	LinkStyle = lipgloss.NewStyle().
			Foreground(ColorLightGrey).
			Padding(0, 1)

	ActiveLinkStyle = lipgloss.NewStyle().
			Foreground(ColorFuscia).
			Underline(true).
			Bold(true).
			Padding(0, 1)

	// Status line under the header.
	StatusStyle = lipgloss.NewStyle().
			Foreground(ColorLightGrey).
			MarginTop(1)

	// Screens are dimmed while a request is in flight.
	BusyStyle = lipgloss.NewStyle().Faint(true)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorDarkGrey).
			Padding(0, 1)

	FocusedPanelStyle = PanelStyle.
				BorderForeground(ColorCyan)

	// Topic badges; the background comes from TopicBadge.
	TopicStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("231")).
			Padding(0, 1)

	CounterStyle = lipgloss.NewStyle().
			Foreground(ColorDarkGrey)

	SubScreenStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(ColorCyan). // Cyan border
			Background(ColorGrey2).      // Dark gray background
			Padding(1, 1)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorFuscia)
)

var Subtle = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}

var DialogBoxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("#874BFD")).
	Padding(1, 0).
	BorderTop(true).
	BorderLeft(true).
	BorderRight(true).
	BorderBottom(true)

func RenderSubscreen(w, h int, title, content string) string {
	return lipgloss.Place(
		w,
		h,
		lipgloss.Center,
		lipgloss.Center,
		SubScreenStyle.Render(
			lipgloss.JoinVertical(
				lipgloss.Left,
				TitleStyle.Render(title),
				content,
			),
		),
		lipgloss.WithWhitespaceChars(Background1),
		lipgloss.WithWhitespaceForeground(Subtle),
	)

}
