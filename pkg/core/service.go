package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Service wraps a Repository with the corpus-level rules of a linking run:
// snapshots are deep copies, and write-backs are validated before reaching storage.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new Service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Repository returns the underlying storage port.
func (s *Service) Repository() Repository {
	return s.repo
}

// Snapshot captures the corpus once. The returned documents do not share memory with the repository.
func (s *Service) Snapshot(ctx context.Context) ([]Document, error) {
	docs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	out := make([]Document, 0, len(docs))
	seen := make(map[string]bool, len(docs))
	for _, d := range docs {
		if d.ID == "" {
			continue
		}
		if seen[d.ID] {
			if s.logger != nil {
				s.logger.Warn("duplicate document id in snapshot", "id", d.ID)
			}
			continue
		}
		seen[d.ID] = true
		out = append(out, d.Clone())
	}

	if s.logger != nil {
		s.logger.Debug("snapshot captured", "documents", len(out))
	}
	return out, nil
}

// Save writes the new content of a document back to storage.
// Any failure is wrapped in ErrPersistence so callers can tell it apart from engine errors.
func (s *Service) Save(ctx context.Context, id string, content []byte) error {
	if id == "" {
		return fmt.Errorf("%w: document ID cannot be empty", ErrPersistence)
	}
	if err := s.repo.Save(ctx, id, content); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrPersistence, id, err)
	}
	if s.logger != nil {
		s.logger.Debug("document written", "id", id, "bytes", len(content))
	}
	return nil
}

// Commit records the written documents as one change if the repository supports it.
// It is a no-op for repositories without versioning.
func (s *Service) Commit(ctx context.Context, message string, ids []string) error {
	c, ok := s.repo.(Committer)
	if !ok || len(ids) == 0 {
		return nil
	}
	return c.Commit(ctx, message, ids)
}

// Watch observes changes in the repository if supported.
func (s *Service) Watch(ctx context.Context, onChange func()) error {
	w, ok := s.repo.(Watchable)
	if !ok {
		return errors.New("repository does not support watching")
	}
	return w.Watch(ctx, onChange)
}

// CanWatch reports whether the repository can report changes.
func (s *Service) CanWatch() bool {
	_, ok := s.repo.(Watchable)
	return ok
}
