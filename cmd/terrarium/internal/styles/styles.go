package styles

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	ColorFg      = lipgloss.Color("7")
	ColorMuted   = lipgloss.Color("8")
	ColorAccent  = lipgloss.Color("4")
	ColorError   = lipgloss.Color("1")
	ColorSuccess = lipgloss.Color("2")
	ColorWarning = lipgloss.Color("3")
	ColorWarm    = lipgloss.Color("208")
	ColorCold    = lipgloss.Color("39")
)

// Centralized style definitions for the TUI.
var (
	// Shell.
	TitleStyle     = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	TabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(ColorMuted)
	ActiveTabStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).Underline(true).Foreground(ColorFg)
	OnlineStyle    = lipgloss.NewStyle().Foreground(ColorSuccess)
	OfflineStyle   = lipgloss.NewStyle().Foreground(ColorError)

	// Mode badges.
	AutoBadge   = lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(lipgloss.Color("0")).Background(ColorSuccess)
	ManualBadge = lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(lipgloss.Color("0")).Background(ColorWarning)

	// Cards.
	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted).
			Padding(0, 1)
	CardTitleStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	WarmStyle      = lipgloss.NewStyle().Bold(true).Foreground(ColorWarm)
	ColdStyle      = lipgloss.NewStyle().Bold(true).Foreground(ColorCold)

	// Relays.
	RelayOnStyle  = lipgloss.NewStyle().Bold(true).Foreground(ColorSuccess)
	RelayOffStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	SelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)

	// Toasts.
	SuccessToast = lipgloss.NewStyle().Padding(0, 1).BorderLeft(true).BorderStyle(lipgloss.ThickBorder()).BorderForeground(ColorSuccess)
	ErrorToast   = lipgloss.NewStyle().Padding(0, 1).BorderLeft(true).BorderStyle(lipgloss.ThickBorder()).BorderForeground(ColorError)
	InfoToast    = lipgloss.NewStyle().Padding(0, 1).BorderLeft(true).BorderStyle(lipgloss.ThickBorder()).BorderForeground(ColorAccent)

	// General utility styles.
	DimStyle     = lipgloss.NewStyle().Foreground(ColorMuted)
	WarningStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ColorError)
	HeaderStyle  = lipgloss.NewStyle().Bold(true)
	SpinnerStyle = lipgloss.NewStyle().Foreground(ColorAccent)
)
