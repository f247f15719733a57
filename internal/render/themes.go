package render

import (
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

// styleOption resolves a style name. TUI theme names win over glamour's
// standard names so replies match the chat colors; anything unknown is
// treated as a path to a JSON style file.
func styleOption(style string) glamour.TermRendererOption {
	if theme, ok := GetTUIThemeByName(style); ok {
		return glamour.WithStyles(MarkdownStyle(theme))
	}
	if IsStandardStyle(style) {
		return glamour.WithStandardStyle(style)
	}
	return glamour.WithStylePath(style)
}

// IsStandardStyle reports whether glamour ships a style with this name.
func IsStandardStyle(style string) bool {
	_, ok := styles.DefaultStyles[style]
	return ok
}

// MarkdownStyle derives a glamour style from a TUI theme, starting from
// glamour's dark style. The document margin is dropped since replies are
// already drawn inside a bubble.
func MarkdownStyle(theme TUITheme) ansi.StyleConfig {
	cfg := styles.DarkStyleConfig

	cfg.Document.Color = color(theme.Text)
	cfg.Document.Margin = uintPtr(0)
	cfg.Heading.Color = color(theme.Primary)
	cfg.H1.Color = color(theme.Background)
	cfg.H1.BackgroundColor = color(theme.Primary)
	cfg.Strong.Color = color(theme.Accent)
	cfg.Link.Color = color(theme.Secondary)
	cfg.LinkText.Color = color(theme.Accent)
	cfg.Code.Color = color(theme.Warning)
	cfg.BlockQuote.Color = color(theme.TextDim)
	cfg.HorizontalRule.Color = color(theme.Border)

	return cfg
}

func color(c lipgloss.Color) *string {
	s := string(c)
	return &s
}

func uintPtr(u uint) *uint {
	return &u
}
