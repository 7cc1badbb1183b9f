// Package scan finds occurrences of indexed titles inside document bodies.
//
// All titles are compiled into one Aho-Corasick automaton, so each document is read once
// regardless of how many titles the vault has. Matches are byte-anchored, confined to the
// linkable regions of a note, checked for word and UTF-8 boundaries, and finally reduced
// to a non-overlapping, ascending list of candidates.
package scan

import (
	"sort"
	"unicode"
	"unicode/utf8"

	aho "github.com/petar-dambovaliev/aho-corasick"

	"github.com/nickrallison/obsidian-linker-new/pkg/core"
	"github.com/nickrallison/obsidian-linker-new/pkg/markdown"
	"github.com/nickrallison/obsidian-linker-new/pkg/titles"
)

// Options carries the matching policy of a run.
type Options struct {
	// CaseInsensitive folds case on both the titles and the content.
	CaseInsensitive bool
	// LinkToSelf allows a document to receive links to itself.
	LinkToSelf bool
}

// Result is the output of a scan.
type Result struct {
	// Candidates are grouped by document in index order, ascending Start within a document.
	Candidates []core.Candidate
	// Discarded counts raw matches rejected for splitting a code point.
	Discarded int
	// Collisions lists titles that only collide once case is folded.
	Collisions []core.Collision
}

// Scanner is a compiled set of titles. It is safe to reuse across documents of one run.
type Scanner struct {
	automaton aho.AhoCorasick
	patterns  []string
	// owners maps a pattern index to the entries sharing that (folded) text, first-seen first.
	// All owners of a pattern target the same document.
	owners     [][]int
	entries    []core.TitleEntry
	opts       Options
	collisions []core.Collision
}

// New compiles the titles of entries into a scanner.
func New(entries []core.TitleEntry, opts Options) *Scanner {
	s := &Scanner{entries: entries, opts: opts}

	byPattern := make(map[string]int)
	for i, e := range entries {
		p := e.Title
		if opts.CaseInsensitive {
			p = string(fold([]byte(p)))
		}
		if p == "" {
			continue
		}
		if at, ok := byPattern[p]; ok {
			kept := entries[s.owners[at][0]]
			if kept.TargetID != e.TargetID {
				s.collisions = append(s.collisions, core.Collision{
					Title:     e.Title,
					KeptID:    kept.TargetID,
					DroppedID: e.TargetID,
				})
				continue
			}
			s.owners[at] = append(s.owners[at], i)
			continue
		}
		byPattern[p] = len(s.patterns)
		s.patterns = append(s.patterns, p)
		s.owners = append(s.owners, []int{i})
	}

	if len(s.patterns) > 0 {
		builder := aho.NewAhoCorasickBuilder(aho.Opts{
			DFA: true,
		})
		s.automaton = builder.Build(s.patterns)
	}
	return s
}

// Scan runs a scanner built from the index over every parsed document of the index.
// Documents listed in idx.BadParse are not part of idx.Documents and are skipped.
func Scan(idx *titles.Index, opts Options) Result {
	s := New(idx.Entries, opts)

	res := Result{Collisions: s.Collisions()}
	for _, doc := range idx.Documents {
		cands, discarded := s.Document(doc)
		res.Candidates = append(res.Candidates, cands...)
		res.Discarded += discarded
	}
	return res
}

// Collisions returns the titles dropped because their folded text was already claimed
// by another document. First-seen wins, as in the title index.
func (s *Scanner) Collisions() []core.Collision {
	return s.collisions
}

type rawMatch struct {
	start, end int
	entry      int
}

// Document returns the candidates of a single document and the number of discarded matches.
func (s *Scanner) Document(doc titles.Parsed) ([]core.Candidate, int) {
	if len(s.patterns) == 0 {
		return nil, 0
	}
	content := doc.Content
	regions := markdown.LinkableRegions(doc.ID, content, doc.BodyStart)
	if len(regions) == 0 {
		return nil, 0
	}

	haystack := content
	if s.opts.CaseInsensitive {
		haystack = fold(content)
	}

	var raw []rawMatch
	discarded := 0
	iter := s.automaton.IterOverlappingByte(haystack)
	for next := iter.Next(); next != nil; next = iter.Next() {
		m := *next
		start, end := m.Start(), m.End()

		if !inRegions(regions, start, end) {
			continue
		}
		if !onRuneBoundary(content, start) || !onRuneBoundary(content, end) {
			discarded++
			continue
		}
		if !wholeWord(content, start, end) {
			continue
		}
		entry, ok := s.owner(m.Pattern(), doc.ID)
		if !ok {
			continue
		}
		raw = append(raw, rawMatch{start: start, end: end, entry: entry})
	}

	kept := resolveOverlaps(raw)
	cands := make([]core.Candidate, 0, len(kept))
	for _, r := range kept {
		cands = append(cands, core.Candidate{
			SourceID:    doc.ID,
			TargetID:    s.entries[r.entry].TargetID,
			Start:       r.start,
			End:         r.end,
			MatchedText: string(content[r.start:r.end]),
		})
	}
	return cands, discarded
}

// owner picks the first entry of a pattern that may link from sourceID.
func (s *Scanner) owner(pattern int, sourceID string) (int, bool) {
	for _, i := range s.owners[pattern] {
		if !s.opts.LinkToSelf && s.entries[i].TargetID == sourceID {
			continue
		}
		return i, true
	}
	return 0, false
}

// resolveOverlaps keeps the earliest-starting match of every overlapping group.
// Ties on start prefer the longer span, then the earlier index entry.
func resolveOverlaps(raw []rawMatch) []rawMatch {
	sort.Slice(raw, func(i, j int) bool {
		a, b := raw[i], raw[j]
		if a.start != b.start {
			return a.start < b.start
		}
		if a.end != b.end {
			return a.end > b.end
		}
		return a.entry < b.entry
	})

	var out []rawMatch
	lastEnd := -1
	for _, r := range raw {
		if r.start < lastEnd {
			continue
		}
		out = append(out, r)
		lastEnd = r.end
	}
	return out
}

func inRegions(regions []markdown.Span, start, end int) bool {
	i := sort.Search(len(regions), func(i int) bool { return regions[i].End > start })
	return i < len(regions) && regions[i].Contains(start, end)
}

func onRuneBoundary(b []byte, off int) bool {
	if off < 0 || off > len(b) {
		return false
	}
	return off == len(b) || utf8.RuneStart(b[off])
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

// wholeWord applies regex \b semantics: an edge of the match that is a word character
// must not touch another word character.
func wholeWord(b []byte, start, end int) bool {
	if start >= end {
		return false
	}
	first, _ := utf8.DecodeRune(b[start:end])
	if isWordRune(first) && start > 0 {
		if prev, _ := utf8.DecodeLastRune(b[:start]); isWordRune(prev) {
			return false
		}
	}
	last, _ := utf8.DecodeLastRune(b[start:end])
	if isWordRune(last) && end < len(b) {
		if next, _ := utf8.DecodeRune(b[end:]); isWordRune(next) {
			return false
		}
	}
	return true
}
