package review

import (
	"context"
	"fmt"
	"sync"

	"github.com/nickrallison/obsidian-linker-new/pkg/core"
)

// Proposal is what the reviewer sees for one candidate.
type Proposal struct {
	// Index is the zero-based position of the candidate in the run; Total is the run size.
	Index int
	Total int
	// Candidate carries the offsets reconciled against the current content.
	Candidate core.Candidate
	Outcome   core.Outcome
}

func (p Proposal) SourceID() string    { return p.Candidate.SourceID }
func (p Proposal) TargetID() string    { return p.Candidate.TargetID }
func (p Proposal) MatchedText() string { return p.Candidate.MatchedText }
func (p Proposal) Preview() string     { return p.Outcome.Preview }

// Decider produces exactly one decision per proposal. Decide blocks until the reviewer
// answers. A returned error cancels the rest of the run.
type Decider interface {
	Decide(ctx context.Context, p Proposal) (core.Decision, error)
}

// DeciderFunc adapts a function to a Decider.
type DeciderFunc func(ctx context.Context, p Proposal) (core.Decision, error)

// Decide implements Decider.
func (f DeciderFunc) Decide(ctx context.Context, p Proposal) (core.Decision, error) {
	return f(ctx, p)
}

// AcceptAll accepts every proposal.
var AcceptAll = DeciderFunc(func(context.Context, Proposal) (core.Decision, error) {
	return core.Accepted, nil
})

// ChannelDecider hands proposals to another goroutine (a UI) and waits for its answer.
//
// The UI reads Proposals() and calls Respond once per proposal received. Closing the
// channel decider with Quit aborts the run.
type ChannelDecider struct {
	proposals chan Proposal
	decisions chan core.Decision
	quit      chan struct{}
	quitOnce  sync.Once
}

// NewChannelDecider returns an unbuffered channel decider.
func NewChannelDecider() *ChannelDecider {
	return &ChannelDecider{
		proposals: make(chan Proposal),
		decisions: make(chan core.Decision),
		quit:      make(chan struct{}),
	}
}

// Proposals is the stream of proposals awaiting a decision.
func (d *ChannelDecider) Proposals() <-chan Proposal {
	return d.proposals
}

// Respond delivers the decision for the proposal most recently received.
// It blocks until the run takes the decision, Quit is called or ctx is done. A run that
// has already finished never takes it, so call Respond only for a proposal read from
// Proposals, or pass a ctx that ends with the run.
func (d *ChannelDecider) Respond(ctx context.Context, decision core.Decision) error {
	select {
	case d.decisions <- decision:
		return nil
	case <-d.quit:
		return core.ErrAborted
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Quit aborts the run at the next suspension point. Later calls do nothing.
func (d *ChannelDecider) Quit() {
	d.quitOnce.Do(func() { close(d.quit) })
}

// Decide implements Decider.
func (d *ChannelDecider) Decide(ctx context.Context, p Proposal) (core.Decision, error) {
	select {
	case d.proposals <- p:
	case <-d.quit:
		return core.Declined, core.ErrAborted
	case <-ctx.Done():
		return core.Declined, ctx.Err()
	}

	select {
	case decision := <-d.decisions:
		if decision != core.Accepted && decision != core.Declined {
			return core.Declined, fmt.Errorf("invalid decision %d", int(decision))
		}
		return decision, nil
	case <-d.quit:
		return core.Declined, core.ErrAborted
	case <-ctx.Done():
		return core.Declined, ctx.Err()
	}
}
