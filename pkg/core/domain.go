// Package core holds the domain model shared by every stage of a linking run:
// documents, title entries, link candidates, rewrite outcomes and review decisions.
package core

import (
	"context"
	"fmt"
)

// Document is a single text file of the corpus.
// ID is the vault-relative slash path including its extension (e.g. "notes/Beta.md").
type Document struct {
	ID      string
	Content []byte
}

// Clone returns a copy that does not share the content buffer.
func (d Document) Clone() Document {
	c := make([]byte, len(d.Content))
	copy(c, d.Content)
	return Document{ID: d.ID, Content: c}
}

// TitleEntry maps a literal title to the document it should link to.
type TitleEntry struct {
	Title    string
	TargetID string
	// Alias is true when the title comes from frontmatter rather than the file name.
	Alias bool
}

// Collision records a title that two documents claimed. The first one seen is kept.
type Collision struct {
	Title     string
	KeptID    string
	DroppedID string
}

func (c Collision) String() string {
	return fmt.Sprintf("title %q claimed by %s and %s (kept %s)", c.Title, c.KeptID, c.DroppedID, c.KeptID)
}

// Err returns the collision as an error wrapping ErrTitleCollision.
func (c Collision) Err() error {
	return fmt.Errorf("%w: %s", ErrTitleCollision, c)
}

// Candidate is a detected, not yet decided occurrence of a title in a document.
// Start and End are byte offsets into the source content at scan time.
type Candidate struct {
	SourceID    string `json:"source"`
	TargetID    string `json:"target"`
	Start       int    `json:"start"`
	End         int    `json:"end"`
	MatchedText string `json:"matched_text"`
}

// Shift returns the candidate with both offsets moved by delta bytes.
func (c Candidate) Shift(delta int) Candidate {
	c.Start += delta
	c.End += delta
	return c
}

// Len is the byte length of the matched span.
func (c Candidate) Len() int {
	return c.End - c.Start
}

func (c Candidate) String() string {
	return fmt.Sprintf("%s[%d:%d] %q -> %s", c.SourceID, c.Start, c.End, c.MatchedText, c.TargetID)
}

// Outcome is the result of rewriting one candidate against the current content.
// It is computed per candidate and never persisted.
type Outcome struct {
	// Canonical is the full document content with the link inserted.
	Canonical string
	// Preview is the full document content with a decorated, non-live rendering of the link.
	Preview string
	// Delta is len(replacement) - (End - Start).
	Delta int
	// PreviewStart and PreviewEnd locate the decorated span inside Preview.
	PreviewStart int
	PreviewEnd   int
}

// Decision is the reviewer's verdict on a candidate.
type Decision int

const (
	Declined Decision = iota
	Accepted
)

func (d Decision) String() string {
	switch d {
	case Accepted:
		return "accepted"
	case Declined:
		return "declined"
	default:
		return fmt.Sprintf("decision(%d)", int(d))
	}
}

// contextKey namespaces the values a linking run stores in a context.
type contextKey string

// RunIDKey is the context key carrying the identifier of the current linking run.
const RunIDKey contextKey = "run_id"

// RunID returns the run identifier stored in ctx, or "" outside a run.
func RunID(ctx context.Context) string {
	id, _ := ctx.Value(RunIDKey).(string)
	return id
}
