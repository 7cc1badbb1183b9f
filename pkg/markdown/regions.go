package markdown

import (
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// Span is a half-open byte range [Start, End).
type Span struct {
	Start int
	End   int
}

// Contains reports whether [start, end) lies entirely inside the span.
func (s Span) Contains(start, end int) bool {
	return start >= s.Start && end <= s.End
}

// wikiLinkRe matches Obsidian wikilinks and embeds, e.g. [[Note]], [[Note|text]], ![[img.png]].
var wikiLinkRe = regexp.MustCompile(`!?\[\[[^\[\]\n]*\]\]`)

var parser = goldmark.New(goldmark.WithExtensions(extension.GFM)).Parser()

// IsMarkdown reports whether a document ID names a Markdown note.
func IsMarkdown(id string) bool {
	switch strings.ToLower(path.Ext(id)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// LinkableRegions returns the sorted, non-overlapping byte ranges of content that hold
// prose eligible for new links. Offsets are relative to content, not to the body.
//
// Markdown notes are parsed with goldmark and only text nodes outside code, raw HTML,
// links, autolinks and images qualify. Other documents contribute their whole body.
// Existing wikilinks are cut out of every region.
func LinkableRegions(id string, content []byte, bodyStart int) []Span {
	if bodyStart < 0 || bodyStart > len(content) {
		return nil
	}

	var regions []Span
	if IsMarkdown(id) {
		regions = textRegions(content[bodyStart:], bodyStart)
	} else if bodyStart < len(content) {
		regions = []Span{{Start: bodyStart, End: len(content)}}
	}

	var protected []Span
	for _, loc := range wikiLinkRe.FindAllIndex(content[bodyStart:], -1) {
		protected = append(protected, Span{Start: loc[0] + bodyStart, End: loc[1] + bodyStart})
	}
	return subtract(regions, protected)
}

func textRegions(body []byte, offset int) []Span {
	doc := parser.Parse(text.NewReader(body))

	var spans []Span
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindCodeBlock, ast.KindFencedCodeBlock, ast.KindHTMLBlock, ast.KindRawHTML,
			ast.KindCodeSpan, ast.KindLink, ast.KindAutoLink, ast.KindImage:
			return ast.WalkSkipChildren, nil
		case ast.KindText:
			seg := n.(*ast.Text).Segment
			if seg.Len() > 0 {
				spans = append(spans, Span{Start: seg.Start + offset, End: seg.Stop + offset})
			}
		}
		return ast.WalkContinue, nil
	})

	return merge(spans)
}

// merge sorts spans and joins the ones that touch or overlap.
func merge(spans []Span) []Span {
	if len(spans) == 0 {
		return nil
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })

	out := []Span{spans[0]}
	for _, s := range spans[1:] {
		last := &out[len(out)-1]
		if s.Start <= last.End {
			if s.End > last.End {
				last.End = s.End
			}
			continue
		}
		out = append(out, s)
	}
	return out
}

// subtract removes every protected range from the regions. Both inputs must be sorted.
func subtract(regions, protected []Span) []Span {
	if len(protected) == 0 {
		return regions
	}
	var out []Span
	for _, r := range regions {
		cur := r
		for _, p := range protected {
			if p.End <= cur.Start || p.Start >= cur.End {
				continue
			}
			if p.Start > cur.Start {
				out = append(out, Span{Start: cur.Start, End: p.Start})
			}
			cur.Start = p.End
			if cur.Start >= cur.End {
				break
			}
		}
		if cur.Start < cur.End {
			out = append(out, cur)
		}
	}
	return out
}
