// Package titles builds the per-run lookup of document titles.
package titles

import (
	"path"
	"strings"
	"unicode/utf8"

	"github.com/nickrallison/obsidian-linker-new/pkg/core"
	"github.com/nickrallison/obsidian-linker-new/pkg/markdown"
)

// Options controls which titles are derived from a document.
type Options struct {
	// Aliases adds the frontmatter aliases of each note as extra titles.
	Aliases bool
}

// Parsed is a document that decoded cleanly, with the offset where its body starts.
type Parsed struct {
	core.Document
	BodyStart int
}

// Index is the title lookup for one run plus its diagnostics.
type Index struct {
	// Entries are in first-seen order: snapshot order, file-name title before aliases.
	Entries []core.TitleEntry
	// Documents are the documents eligible for scanning, in snapshot order.
	Documents []Parsed
	// BadParse lists the IDs excluded because their content could not be decoded.
	BadParse []string
	// Collisions lists titles claimed by more than one document.
	Collisions []core.Collision

	byTitle map[string]int
}

// TitleFor derives the title of a document from its identifier: the base name without extension.
func TitleFor(id string) string {
	base := path.Base(strings.ReplaceAll(id, "\\", "/"))
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSuffix(base, path.Ext(base))
}

// Build derives the title index from a corpus snapshot.
// Documents that are not valid UTF-8, or whose frontmatter cannot be decoded, are excluded
// and reported in BadParse. When two documents claim the same title the first one wins.
func Build(docs []core.Document, opts Options) *Index {
	idx := &Index{byTitle: make(map[string]int)}

	for _, doc := range docs {
		if !utf8.Valid(doc.Content) {
			idx.BadParse = append(idx.BadParse, doc.ID)
			continue
		}
		fm, err := markdown.SplitFrontmatter(doc.Content)
		if err != nil && markdown.IsMarkdown(doc.ID) {
			idx.BadParse = append(idx.BadParse, doc.ID)
			continue
		}
		idx.Documents = append(idx.Documents, Parsed{Document: doc, BodyStart: fm.BodyStart})

		idx.add(core.TitleEntry{Title: TitleFor(doc.ID), TargetID: doc.ID})
		if opts.Aliases {
			for _, alias := range fm.Aliases() {
				idx.add(core.TitleEntry{Title: alias, TargetID: doc.ID, Alias: true})
			}
		}
	}

	return idx
}

func (idx *Index) add(e core.TitleEntry) {
	if e.Title == "" {
		return
	}
	if i, ok := idx.byTitle[e.Title]; ok {
		kept := idx.Entries[i]
		if kept.TargetID != e.TargetID {
			idx.Collisions = append(idx.Collisions, core.Collision{
				Title:     e.Title,
				KeptID:    kept.TargetID,
				DroppedID: e.TargetID,
			})
		}
		return
	}
	idx.byTitle[e.Title] = len(idx.Entries)
	idx.Entries = append(idx.Entries, e)
}

// Lookup returns the entry for an exact title.
func (idx *Index) Lookup(title string) (core.TitleEntry, bool) {
	i, ok := idx.byTitle[title]
	if !ok {
		return core.TitleEntry{}, false
	}
	return idx.Entries[i], true
}
