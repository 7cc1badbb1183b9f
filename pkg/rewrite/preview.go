package rewrite

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// DefaultPreviewColor is the colour used when none is configured.
const DefaultPreviewColor = "red"

// markdownEscaper backslash-escapes the characters a Markdown renderer would treat as
// structure inside link syntax.
var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	`[`, `\[`,
	`]`, `\]`,
	`|`, `\|`,
	`(`, `\(`,
	`)`, `\)`,
	`*`, `\*`,
	`_`, `\_`,
	"`", "\\`",
	`<`, `&lt;`,
	`>`, `&gt;`,
)

// MarkdownPreview wraps the escaped link in a coloured HTML span, for hosts that render
// the preview as Markdown.
type MarkdownPreview struct {
	Color string
}

// Decorate implements Decorator.
func (p MarkdownPreview) Decorate(link string) string {
	color := p.Color
	if color == "" {
		color = DefaultPreviewColor
	}
	color = strings.NewReplacer(`"`, "", "<", "", ">", "").Replace(color)
	return `<span style="color:` + color + `">` + markdownEscaper.Replace(link) + `</span>`
}

// namedColors maps CSS-style colour names to ANSI colour indexes.
var namedColors = map[string]string{
	"black":   "0",
	"red":     "1",
	"green":   "2",
	"yellow":  "3",
	"blue":    "4",
	"magenta": "5",
	"purple":  "5",
	"cyan":    "6",
	"white":   "7",
	"gray":    "8",
	"grey":    "8",
	"orange":  "208",
}

// TerminalPreview colours the link for display in a terminal.
// Color is a name from a small CSS-like palette, an ANSI index, or a hex value.
type TerminalPreview struct {
	Color string
}

// Decorate implements Decorator.
func (p TerminalPreview) Decorate(link string) string {
	return p.style().Render(link)
}

func (p TerminalPreview) style() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(TerminalColor(p.Color)).
		Bold(true).
		Underline(true)
}

// TerminalColor resolves a configured colour to a lipgloss colour.
func TerminalColor(c string) lipgloss.Color {
	c = strings.TrimSpace(strings.ToLower(c))
	if c == "" {
		c = DefaultPreviewColor
	}
	if ansi, ok := namedColors[c]; ok {
		return lipgloss.Color(ansi)
	}
	return lipgloss.Color(c)
}

// PlainPreview leaves the link undecorated. A Markdown host would render it as a live
// link, so it is only used when selected explicitly.
type PlainPreview struct{}

// Decorate implements Decorator.
func (PlainPreview) Decorate(link string) string { return link }

// NewDecorator returns the decorator for a preview style name: "markdown", "terminal" or "plain".
func NewDecorator(style, color string) Decorator {
	switch style {
	case "markdown":
		return MarkdownPreview{Color: color}
	case "plain":
		return PlainPreview{}
	default:
		return TerminalPreview{Color: color}
	}
}
