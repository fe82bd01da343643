// Package ui is the terminal doctor browser. The query store is the source
// of truth: every widget renders from the current state, and every user
// action writes to the store.
package ui

import "github.com/charmbracelet/lipgloss"

// Palette
var (
	Primary     = lipgloss.AdaptiveColor{Light: "#1e3a8a", Dark: "#93c5fd"}
	Accent      = lipgloss.AdaptiveColor{Light: "#2563eb", Dark: "#60a5fa"}
	Foreground  = lipgloss.AdaptiveColor{Light: "#1f2937", Dark: "#f3f4f6"}
	Muted       = lipgloss.AdaptiveColor{Light: "#6b7280", Dark: "#9ca3af"}
	Border      = lipgloss.AdaptiveColor{Light: "#d1d5db", Dark: "#374151"}
	Destructive = lipgloss.Color("#dc2626")
	Fee         = lipgloss.AdaptiveColor{Light: "#047857", Dark: "#34d399"}
)

// Styles holds every style the browser renders with.
type Styles struct {
	Header    lipgloss.Style
	Location  lipgloss.Style
	Muted     lipgloss.Style
	Error     lipgloss.Style
	Spinner   lipgloss.Style
	Panel     lipgloss.Style
	Focused   lipgloss.Style
	Section   lipgloss.Style
	Cursor    lipgloss.Style
	Selected  lipgloss.Style
	Card      lipgloss.Style
	CardTitle lipgloss.Style
	Avatar    lipgloss.Style
	Fee       lipgloss.Style
	Help      lipgloss.Style
}

// DefaultStyles returns the browser's styles.
func DefaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(lipgloss.Color("#1e3a8a")).
			Padding(0, 2).
			Bold(true),
		Location: lipgloss.NewStyle().
			Foreground(Accent),
		Muted: lipgloss.NewStyle().
			Foreground(Muted),
		Error: lipgloss.NewStyle().
			Foreground(Destructive).
			Bold(true),
		Spinner: lipgloss.NewStyle().
			Foreground(Accent),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 1),
		Focused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Accent).
			Padding(0, 1),
		Section: lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true),
		Cursor: lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true),
		Selected: lipgloss.NewStyle().
			Foreground(Foreground).
			Background(Border),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 1).
			MarginBottom(1),
		CardTitle: lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true),
		Avatar: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(Accent).
			Padding(0, 1).
			Bold(true),
		Fee: lipgloss.NewStyle().
			Foreground(Fee).
			Bold(true),
		Help: lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true),
	}
}
