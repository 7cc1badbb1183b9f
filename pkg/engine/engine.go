// Package engine orchestrates a linking run: snapshot, title index, scan, review and commit.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	vaultsource "github.com/nickrallison/obsidian-linker-new/pkg/adapters/lifecycle"
	"github.com/nickrallison/obsidian-linker-new/pkg/core"
	"github.com/nickrallison/obsidian-linker-new/pkg/git"
	"github.com/nickrallison/obsidian-linker-new/pkg/review"
	"github.com/nickrallison/obsidian-linker-new/pkg/rewrite"
	"github.com/nickrallison/obsidian-linker-new/pkg/scan"
	"github.com/nickrallison/obsidian-linker-new/pkg/titles"
)

// Plan is everything computed from one snapshot before review starts.
type Plan struct {
	RunID      string
	CreatedAt  time.Time
	Documents  []core.Document
	Titles     []core.TitleEntry
	Candidates []core.Candidate
	// BadParse lists documents excluded because they are not valid text.
	BadParse   []string
	Collisions []core.Collision
	// Discarded counts matches dropped for not falling on character boundaries.
	Discarded int
}

// Engine runs linking passes over the corpus behind a core.Service.
type Engine struct {
	svc    *core.Service
	cfg    Config
	logger *slog.Logger

	mu    sync.Mutex
	state State
}

// New creates an Engine. A nil logger discards output.
func New(svc *core.Service, cfg Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{svc: svc, cfg: cfg, logger: logger}
}

// Service returns the underlying service.
func (e *Engine) Service() *core.Service {
	return e.svc
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Plan snapshots the corpus, builds the title index and scans every document.
func (e *Engine) Plan(ctx context.Context) (*Plan, error) {
	runID := uuid.NewString()
	log := e.logger.With("run_id", runID)

	docs, err := e.svc.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	idx := titles.Build(docs, titles.Options{Aliases: e.cfg.Aliases})
	for _, id := range idx.BadParse {
		log.Warn("document excluded", "id", id, "error", core.ErrDecodeFailure)
	}
	res := scan.Scan(idx, scan.Options{
		CaseInsensitive: e.cfg.CaseInsensitive,
		LinkToSelf:      e.cfg.LinkToSelf,
	})
	collisions := append(append([]core.Collision(nil), idx.Collisions...), res.Collisions...)
	for _, c := range collisions {
		log.Warn("title collision", "error", c.Err())
	}
	if res.Discarded > 0 {
		log.Warn("matches discarded", "count", res.Discarded, "error", core.ErrBoundaryViolation)
	}

	plan := &Plan{
		RunID:      runID,
		CreatedAt:  time.Now(),
		Documents:  docs,
		Titles:     idx.Entries,
		Candidates: res.Candidates,
		BadParse:   idx.BadParse,
		Collisions: collisions,
		Discarded:  res.Discarded,
	}

	e.mu.Lock()
	e.state.Plans++
	e.state.LastRunID = runID
	e.state.Documents = len(docs)
	e.state.Titles = len(idx.Entries)
	e.state.Candidates = len(res.Candidates)
	e.mu.Unlock()

	log.Info("plan ready",
		"documents", len(docs),
		"titles", len(idx.Entries),
		"candidates", len(res.Candidates),
		"bad_parse", len(idx.BadParse),
		"collisions", len(collisions))
	return plan, nil
}

// Review drives the plan's candidates through decider, writes accepted edits back and,
// if the repository is versioned, commits the written documents.
//
// The report is returned even when err is non-nil. Accepted edits are committed even
// when the review was aborted.
func (e *Engine) Review(ctx context.Context, plan *Plan, decider review.Decider) (*review.Report, error) {
	log := e.logger.With("run_id", plan.RunID)
	ctx = context.WithValue(ctx, core.RunIDKey, plan.RunID)

	ctrl := review.New(review.Config{
		Link:    rewrite.Template(e.cfg.LinkTemplate),
		Preview: e.cfg.decorator(),
		Flush:   e.cfg.Flush,
		Writer:  e.svc,
		Logger:  e.logger,
		RunID:   plan.RunID,
	}, decider)

	report, runErr := ctrl.Run(ctx, plan.Documents, plan.Candidates)

	e.mu.Lock()
	e.state.Reviews++
	e.state.Accepted += report.Count(review.Accepted)
	e.state.Declined += report.Count(review.Declined)
	e.mu.Unlock()

	var commitErr error
	if written := report.Written(); len(written) > 0 {
		msg := CommitMessage(report)
		if err := e.svc.Commit(context.WithoutCancel(ctx), msg, written); err != nil {
			commitErr = fmt.Errorf("failed to commit linked documents: %w", err)
			log.Error("commit failed", "error", err)
		}
	}

	return report, errors.Join(runErr, commitErr)
}

// Run plans and reviews in one call.
func (e *Engine) Run(ctx context.Context, decider review.Decider) (*Plan, *review.Report, error) {
	plan, err := e.Plan(ctx)
	if err != nil {
		return nil, nil, err
	}
	report, err := e.Review(ctx, plan, decider)
	return plan, report, err
}

// Watch plans once, then again every time the repository reports a change, calling
// onPlan with each result. The documents are never modified. Watch blocks until ctx is
// done or the repository cannot be watched.
func (e *Engine) Watch(ctx context.Context, onPlan func(*Plan, error)) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	src := vaultsource.NewSource(e.svc)
	if err := src.Start(ctx); err != nil {
		return err
	}

	plan, err := e.Plan(ctx)
	if ctx.Err() != nil {
		return nil
	}
	onPlan(plan, err)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-src.Events():
			if !ok {
				return src.Err()
			}
			e.logger.Debug("replanning", "event", ev.String())
			plan, err := e.Plan(ctx)
			if ctx.Err() != nil {
				return nil
			}
			onPlan(plan, err)
		}
	}
}

// CommitMessage describes the documents a review wrote.
func CommitMessage(report *review.Report) string {
	total := 0
	var lines []string
	for _, d := range report.Documents {
		if !d.Written {
			continue
		}
		total += d.Accepted
		lines = append(lines, fmt.Sprintf("- %s: %d", d.ID, d.Accepted))
	}
	sort.Strings(lines)

	noun := "mentions"
	if total == 1 {
		noun = "mention"
	}
	body := strings.Join(lines, "\n")
	if report.RunID != "" {
		body += "\n\nRun-ID: " + report.RunID
	}
	return git.FormatCommitMessage(git.CommitTypeDocs, "links", fmt.Sprintf("link %d %s", total, noun), body)
}
