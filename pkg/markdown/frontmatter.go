// Package markdown understands just enough of an Obsidian-style note to link it safely:
// where the YAML frontmatter ends, which aliases it declares, and which byte ranges of the
// body hold ordinary prose that may receive a link.
package markdown

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Frontmatter is the YAML header of a note.
type Frontmatter struct {
	// Meta is the decoded header, nil when the note has none.
	Meta map[string]any
	// BodyStart is the byte offset of the first byte after the closing delimiter line.
	BodyStart int
}

var (
	errUnclosedFrontmatter = errors.New("frontmatter started but no closing delimiter found")
)

// SplitFrontmatter locates and decodes the frontmatter at the top of content.
// Content without a leading "---" line has no frontmatter and a BodyStart of 0.
func SplitFrontmatter(content []byte) (Frontmatter, error) {
	var open int
	switch {
	case bytes.HasPrefix(content, []byte("---\n")):
		open = 4
	case bytes.HasPrefix(content, []byte("---\r\n")):
		open = 5
	default:
		return Frontmatter{}, nil
	}

	yamlStart := open
	pos := open
	for pos <= len(content) {
		lineEnd := bytes.IndexByte(content[pos:], '\n')
		var line []byte
		next := len(content)
		if lineEnd >= 0 {
			line = content[pos : pos+lineEnd]
			next = pos + lineEnd + 1
		} else {
			line = content[pos:]
		}
		trimmed := bytes.TrimRight(line, "\r")
		if bytes.Equal(trimmed, []byte("---")) || bytes.Equal(trimmed, []byte("...")) {
			fm := Frontmatter{BodyStart: next}
			raw := content[yamlStart:pos]
			if len(bytes.TrimSpace(raw)) > 0 {
				if err := yaml.Unmarshal(raw, &fm.Meta); err != nil {
					return Frontmatter{}, fmt.Errorf("failed to parse frontmatter: %w", err)
				}
			}
			return fm, nil
		}
		if lineEnd < 0 {
			break
		}
		pos = next
	}

	return Frontmatter{}, errUnclosedFrontmatter
}

// Aliases returns the alternative titles a note declares under "aliases" or "alias".
// Both a YAML list and a single string are accepted. Empty values are dropped.
func (f Frontmatter) Aliases() []string {
	var out []string
	for _, key := range []string{"aliases", "alias"} {
		switch v := f.Meta[key].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				out = append(out, s)
			}
		case []any:
			for _, item := range v {
				if s, ok := item.(string); ok {
					if s = strings.TrimSpace(s); s != "" {
						out = append(out, s)
					}
				}
			}
		case []string:
			for _, s := range v {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
		}
	}
	return out
}
