package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines color scheme for the TUI
type Theme struct {
	Name    string
	Node    lipgloss.Color
	Author  lipgloss.Color
	Edge    lipgloss.Color
	Dragged lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Accent  lipgloss.Color
}

var (
	ThemeCyberpunk = Theme{
		Name:    "cyberpunk",
		Node:    lipgloss.Color("#00ffff"),
		Author:  lipgloss.Color("#ff00ff"),
		Edge:    lipgloss.Color("#444466"),
		Dragged: lipgloss.Color("#ffff00"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#666666"),
		Accent:  lipgloss.Color("#ff8800"),
	}

	ThemeRetroGreen = Theme{
		Name:    "retro",
		Node:    lipgloss.Color("#00ff00"),
		Author:  lipgloss.Color("#88ff88"),
		Edge:    lipgloss.Color("#005500"),
		Dragged: lipgloss.Color("#ffff00"),
		Text:    lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#005500"),
		Accent:  lipgloss.Color("#88ff88"),
	}

	ThemeMinimal = Theme{
		Name:    "minimal",
		Node:    lipgloss.Color("#cccccc"),
		Author:  lipgloss.Color("#ffffff"),
		Edge:    lipgloss.Color("#555555"),
		Dragged: lipgloss.Color("#0088ff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888888"),
		Accent:  lipgloss.Color("#0088ff"),
	}

	ThemeOcean = Theme{
		Name:    "ocean",
		Node:    lipgloss.Color("#00a8cc"),
		Author:  lipgloss.Color("#ffd700"),
		Edge:    lipgloss.Color("#1d4466"),
		Dragged: lipgloss.Color("#ff4444"),
		Text:    lipgloss.Color("#e0f0ff"),
		Muted:   lipgloss.Color("#4488aa"),
		Accent:  lipgloss.Color("#ffd700"),
	}

	CurrentTheme = ThemeCyberpunk

	Themes = []Theme{
		ThemeCyberpunk,
		ThemeRetroGreen,
		ThemeMinimal,
		ThemeOcean,
	}
)

// GetTheme returns a theme by name, falling back to cyberpunk.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeCyberpunk
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// NextTheme returns the name after current in ThemeNames order.
func NextTheme(current string) string {
	names := ThemeNames()
	for i, n := range names {
		if n == current {
			return names[(i+1)%len(names)]
		}
	}
	return names[0]
}

// inkStyles maps canvas ink layers to theme colours.
func (t Theme) inkStyles() map[uint8]lipgloss.Style {
	return map[uint8]lipgloss.Style{
		InkEdge:    lipgloss.NewStyle().Foreground(t.Edge),
		InkNode:    lipgloss.NewStyle().Foreground(t.Node),
		InkAuthor:  lipgloss.NewStyle().Foreground(t.Author).Bold(true),
		InkDragged: lipgloss.NewStyle().Foreground(t.Dragged).Bold(true),
	}
}
