package review

import (
	"errors"
	"fmt"

	"github.com/nickrallison/obsidian-linker-new/pkg/core"
)

// Status is the final state of one candidate.
type Status int

const (
	// Pending candidates were never presented because the run stopped first.
	Pending Status = iota
	Accepted
	Declined
	// Skipped candidates belonged to a document whose write-back failed.
	Skipped
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Accepted:
		return "accepted"
	case Declined:
		return "declined"
	case Skipped:
		return "skipped"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Resolution records what happened to a candidate.
type Resolution struct {
	Candidate core.Candidate `json:"candidate"`
	// Applied is the candidate after offset reconciliation; zero if never presented.
	Applied core.Candidate `json:"applied"`
	Status  Status         `json:"status"`
}

// DocumentResult is the end state of a document touched by the run.
type DocumentResult struct {
	ID       string `json:"id"`
	Content  []byte `json:"-"`
	Accepted int    `json:"accepted"`
	Written  bool   `json:"written"`
	Err      error  `json:"-"`
}

// Report summarises a review run.
type Report struct {
	RunID       string           `json:"run_id"`
	Resolutions []Resolution     `json:"resolutions"`
	Documents   []DocumentResult `json:"documents"`
	// Canceled is set when the run stopped before every candidate was presented.
	Canceled bool `json:"canceled"`
}

// Err joins the write-back errors of every document.
func (r *Report) Err() error {
	var errs []error
	for _, d := range r.Documents {
		if d.Err != nil {
			errs = append(errs, d.Err)
		}
	}
	return errors.Join(errs...)
}

// Count returns how many candidates ended in status s.
func (r *Report) Count(s Status) int {
	n := 0
	for _, res := range r.Resolutions {
		if res.Status == s {
			n++
		}
	}
	return n
}

// Written lists the IDs of documents whose new content reached storage.
func (r *Report) Written() []string {
	var ids []string
	for _, d := range r.Documents {
		if d.Written {
			ids = append(ids, d.ID)
		}
	}
	return ids
}

// Document returns the result for id.
func (r *Report) Document(id string) (DocumentResult, bool) {
	for _, d := range r.Documents {
		if d.ID == id {
			return d, true
		}
	}
	return DocumentResult{}, false
}
