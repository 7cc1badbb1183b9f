// Package lifecycle exposes vault changes as a lifecycle.Source.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"

	"github.com/nickrallison/obsidian-linker-new/pkg/core"
)

// ErrNotWatchable is returned by Start when the repository cannot report changes.
var ErrNotWatchable = errors.New("repository does not support watching")

// ChangeEvent signals that the corpus changed. Bursts of changes are coalesced into one event.
type ChangeEvent struct {
	At time.Time
}

func (e ChangeEvent) String() string {
	return fmt.Sprintf("vault changed at %s", e.At.Format(time.RFC3339))
}

// Source bridges core.Service.Watch to the generic lifecycle Event interface.
type Source struct {
	svc *core.Service
	out chan lifecycle.Event

	mu  sync.Mutex
	err error
}

var _ lifecycle.Source = (*Source)(nil)

// NewSource creates a Source over the service's repository.
func NewSource(svc *core.Service) *Source {
	return &Source{
		svc: svc,
		out: make(chan lifecycle.Event, 1),
	}
}

// Events is closed once the watch ends.
func (s *Source) Events() <-chan lifecycle.Event {
	return s.out
}

// Start begins watching in the background. It fails immediately if the repository
// is not watchable.
func (s *Source) Start(ctx context.Context) error {
	if !s.svc.CanWatch() {
		return ErrNotWatchable
	}

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		err := s.svc.Watch(ctx, func() {
			// A pending event already covers this change.
			select {
			case s.out <- ChangeEvent{At: time.Now()}:
			default:
			}
		})
		if err != nil && ctx.Err() == nil {
			s.mu.Lock()
			s.err = err
			s.mu.Unlock()
		}
		return nil
	})
	return nil
}

// Err returns the error that ended the watch, if any.
func (s *Source) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
