package engine

import (
	"fmt"

	"github.com/nickrallison/obsidian-linker-new/pkg/review"
	"github.com/nickrallison/obsidian-linker-new/pkg/rewrite"
)

// Preview styles.
const (
	PreviewTerminal = "terminal"
	PreviewMarkdown = "markdown"
	PreviewPlain    = "plain"
)

// Config is the per-run configuration injected into the scanner and rewrite engine.
type Config struct {
	CaseInsensitive bool
	LinkToSelf      bool
	PreviewColor    string
	PreviewStyle    string
	LinkTemplate    string
	Aliases         bool
	Flush           review.FlushPolicy
}

// DefaultConfig returns the defaults: case-insensitive, no self links, red terminal
// previews, wikilinks labelled with the matched text, aliases on, flush on each accept.
func DefaultConfig() Config {
	return Config{
		CaseInsensitive: true,
		LinkToSelf:      false,
		PreviewColor:    rewrite.DefaultPreviewColor,
		PreviewStyle:    PreviewTerminal,
		LinkTemplate:    rewrite.DefaultLinkTemplate,
		Aliases:         true,
		Flush:           review.FlushEachAccept,
	}
}

// Validate rejects unknown preview styles and templates missing a placeholder.
func (c Config) Validate() error {
	switch c.PreviewStyle {
	case "", PreviewTerminal, PreviewMarkdown, PreviewPlain:
	default:
		return fmt.Errorf("unknown preview style %q", c.PreviewStyle)
	}
	if c.LinkTemplate != "" {
		if err := rewrite.Template(c.LinkTemplate).Validate(); err != nil {
			return err
		}
	}
	if c.Flush != review.FlushEachAccept && c.Flush != review.FlushBatch {
		return fmt.Errorf("unknown flush policy %d", int(c.Flush))
	}
	return nil
}

func (c Config) decorator() rewrite.Decorator {
	return rewrite.NewDecorator(c.PreviewStyle, c.PreviewColor)
}
