// Package rewrite splices a link into document content for a single candidate.
package rewrite

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/nickrallison/obsidian-linker-new/pkg/core"
)

// DefaultLinkTemplate renders Obsidian wikilinks with the matched text as the label.
const DefaultLinkTemplate = "[[{target}|{text}]]"

// Template renders the canonical link syntax. "{target}" is replaced by the target
// document ID and "{text}" by the matched text; everything else is literal.
type Template string

// Validate reports templates that would drop the target or the matched text.
func (t Template) Validate() error {
	s := string(t)
	if !strings.Contains(s, "{target}") {
		return fmt.Errorf("link template %q has no {target} placeholder", s)
	}
	if !strings.Contains(s, "{text}") {
		return fmt.Errorf("link template %q has no {text} placeholder", s)
	}
	return nil
}

// Render returns the link for target labelled with text.
func (t Template) Render(target, text string) string {
	if t == "" {
		t = DefaultLinkTemplate
	}
	return strings.NewReplacer("{target}", target, "{text}", text).Replace(string(t))
}

// Decorator renders the reviewer-facing form of a proposed link.
// MarkdownPreview and TerminalPreview keep the proposal from being rendered as a live
// link; PlainPreview does not and is meant for hosts that show raw text.
type Decorator interface {
	Decorate(link string) string
}

// Compute splices the rendered link into content at the candidate's span.
//
// Slicing happens on bytes only. A span that is out of range or not on a code-point
// boundary fails with core.ErrBoundaryViolation; a span whose bytes differ from the
// candidate's matched text fails with core.ErrStaleOffset. A nil preview behaves like
// PlainPreview.
func Compute(content []byte, c core.Candidate, link Template, preview Decorator) (core.Outcome, error) {
	if c.Start < 0 || c.Start > c.End || c.End > len(content) {
		return core.Outcome{}, fmt.Errorf("%w: [%d:%d] outside %d bytes of %s",
			core.ErrBoundaryViolation, c.Start, c.End, len(content), c.SourceID)
	}
	if !boundary(content, c.Start) || !boundary(content, c.End) {
		return core.Outcome{}, fmt.Errorf("%w: [%d:%d] splits a character in %s",
			core.ErrBoundaryViolation, c.Start, c.End, c.SourceID)
	}
	if !bytes.Equal(content[c.Start:c.End], []byte(c.MatchedText)) {
		return core.Outcome{}, fmt.Errorf("%w: %s[%d:%d] is %q, want %q",
			core.ErrStaleOffset, c.SourceID, c.Start, c.End, content[c.Start:c.End], c.MatchedText)
	}

	head := content[:c.Start]
	tail := content[c.End:]
	replacement := link.Render(c.TargetID, c.MatchedText)

	decorated := replacement
	if preview != nil {
		decorated = preview.Decorate(replacement)
	}

	return core.Outcome{
		Canonical:    splice(head, replacement, tail),
		Preview:      splice(head, decorated, tail),
		Delta:        len(replacement) - c.Len(),
		PreviewStart: len(head),
		PreviewEnd:   len(head) + len(decorated),
	}, nil
}

func splice(head []byte, mid string, tail []byte) string {
	var sb strings.Builder
	sb.Grow(len(head) + len(mid) + len(tail))
	sb.Write(head)
	sb.WriteString(mid)
	sb.Write(tail)
	return sb.String()
}

func boundary(b []byte, off int) bool {
	return off == len(b) || utf8.RuneStart(b[off])
}
