// Package review drives link candidates through a sequential accept/decline gate and
// applies accepted rewrites with per-document offset reconciliation.
package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/nickrallison/obsidian-linker-new/pkg/core"
	"github.com/nickrallison/obsidian-linker-new/pkg/rewrite"
)

// FlushPolicy selects when accepted edits are written back.
type FlushPolicy int

const (
	// FlushEachAccept writes the document after every accepted candidate.
	FlushEachAccept FlushPolicy = iota
	// FlushBatch writes every edited document once, when the run ends.
	FlushBatch
)

func (p FlushPolicy) String() string {
	if p == FlushBatch {
		return "batch"
	}
	return "each"
}

// ParseFlushPolicy accepts "each" or "batch".
func ParseFlushPolicy(s string) (FlushPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "each", "each-accept":
		return FlushEachAccept, nil
	case "batch":
		return FlushBatch, nil
	default:
		return FlushEachAccept, fmt.Errorf("unknown flush policy %q (want each or batch)", s)
	}
}

// Writer receives write-backs. *core.Service satisfies it.
type Writer interface {
	Save(ctx context.Context, id string, content []byte) error
}

// Config configures a Controller.
type Config struct {
	Link rewrite.Template
	// Preview defaults to rewrite.MarkdownPreview.
	Preview rewrite.Decorator
	Flush   FlushPolicy
	// Writer may be nil, in which case edits stay in the report only.
	Writer Writer
	Logger *slog.Logger
	RunID  string
}

// Controller runs one review session at a time.
type Controller struct {
	cfg     Config
	decider Decider

	run     sync.Mutex
	stateMu sync.Mutex
	state   ControllerState
}

// New creates a Controller.
func New(cfg Config, decider Decider) *Controller {
	if cfg.Link == "" {
		cfg.Link = rewrite.DefaultLinkTemplate
	}
	if cfg.Preview == nil {
		cfg.Preview = rewrite.MarkdownPreview{}
	}
	return &Controller{cfg: cfg, decider: decider}
}

type document struct {
	id       string
	content  []byte
	adjust   int
	dirty    bool
	written  bool
	accepted int
	err      error
}

// Run presents every candidate, in order, to the decider.
//
// Candidates must come from a scan of docs. The returned report is never nil. Run
// returns an error wrapping core.ErrAborted when the context or the decider stopped the
// run early, and a core.ErrStaleOffset or core.ErrBoundaryViolation error when a
// reconciled candidate no longer fits its document. In every case edits accepted so far
// are kept in the report and flushed.
func (c *Controller) Run(ctx context.Context, docs []core.Document, cands []core.Candidate) (*Report, error) {
	c.run.Lock()
	defer c.run.Unlock()

	report := &Report{RunID: c.cfg.RunID, Resolutions: make([]Resolution, len(cands))}
	byID := make(map[string]*document, len(docs))
	var order []*document
	for _, d := range docs {
		if _, dup := byID[d.ID]; dup {
			continue
		}
		st := &document{id: d.ID, content: d.Clone().Content}
		byID[d.ID] = st
		order = append(order, st)
	}
	for i, cand := range cands {
		report.Resolutions[i].Candidate = cand
	}

	c.update(func(s *ControllerState) {
		*s = ControllerState{RunID: c.cfg.RunID, Total: len(cands), Running: true}
	})
	c.log().Info("review started", "candidates", len(cands), "documents", len(order), "flush", c.cfg.Flush.String())

	var runErr error
	for i, cand := range cands {
		if err := ctx.Err(); err != nil {
			runErr = fmt.Errorf("%w: %w", core.ErrAborted, err)
			break
		}

		st, ok := byID[cand.SourceID]
		if !ok {
			runErr = fmt.Errorf("%w: candidate %s refers to a document outside the snapshot", core.ErrStaleOffset, cand)
			break
		}
		if st.err != nil {
			report.Resolutions[i].Status = Skipped
			c.advance(Skipped)
			continue
		}

		applied := cand.Shift(st.adjust)
		outcome, err := rewrite.Compute(st.content, applied, c.cfg.Link, c.cfg.Preview)
		if err != nil {
			runErr = err
			break
		}
		report.Resolutions[i].Applied = applied

		decision, err := c.decider.Decide(ctx, Proposal{
			Index:     i,
			Total:     len(cands),
			Candidate: applied,
			Outcome:   outcome,
		})
		if err != nil {
			if errors.Is(err, core.ErrAborted) {
				runErr = err
			} else {
				runErr = fmt.Errorf("%w: %w", core.ErrAborted, err)
			}
			report.Resolutions[i].Applied = core.Candidate{}
			break
		}

		if decision != core.Accepted {
			report.Resolutions[i].Status = Declined
			c.advance(Declined)
			continue
		}

		st.content = []byte(outcome.Canonical)
		st.adjust += outcome.Delta
		st.dirty = true
		st.accepted++
		report.Resolutions[i].Status = Accepted
		c.advance(Accepted)
		c.log().Debug("candidate accepted", "source", applied.SourceID, "target", applied.TargetID,
			"start", applied.Start, "delta", outcome.Delta)

		if c.cfg.Flush == FlushEachAccept {
			c.flush(ctx, st)
		}
	}

	if runErr != nil {
		report.Canceled = true
	}

	// Flush what is still pending even if ctx was canceled.
	flushCtx := context.WithoutCancel(ctx)
	for _, st := range order {
		if st.dirty && st.err == nil {
			c.flush(flushCtx, st)
		}
	}

	for _, st := range order {
		if st.accepted == 0 && st.err == nil {
			continue
		}
		report.Documents = append(report.Documents, DocumentResult{
			ID:       st.id,
			Content:  st.content,
			Accepted: st.accepted,
			Written:  st.written,
			Err:      st.err,
		})
	}

	c.update(func(s *ControllerState) { s.Running = false })
	c.log().Info("review finished",
		"accepted", report.Count(Accepted),
		"declined", report.Count(Declined),
		"skipped", report.Count(Skipped),
		"pending", report.Count(Pending),
		"written", len(report.Written()))

	if runErr != nil {
		c.log().Warn("review stopped early", "error", runErr)
	}
	return report, runErr
}

// flush writes st if a writer is configured. A failure halts the document.
func (c *Controller) flush(ctx context.Context, st *document) {
	if c.cfg.Writer == nil {
		st.dirty = false
		return
	}
	if err := c.cfg.Writer.Save(ctx, st.id, st.content); err != nil {
		st.err = err
		c.update(func(s *ControllerState) { s.Failed++ })
		c.log().Error("write-back failed", "id", st.id, "error", err)
		return
	}
	st.dirty = false
	st.written = true
}

func (c *Controller) advance(status Status) {
	c.update(func(s *ControllerState) {
		switch status {
		case Accepted:
			s.Presented++
			s.Accepted++
		case Declined:
			s.Presented++
			s.Declined++
		case Skipped:
			s.Skipped++
		}
	})
}

func (c *Controller) update(fn func(*ControllerState)) {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	fn(&c.state)
}

func (c *Controller) log() *slog.Logger {
	l := c.cfg.Logger
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	if c.cfg.RunID != "" {
		l = l.With("run_id", c.cfg.RunID)
	}
	return l
}
