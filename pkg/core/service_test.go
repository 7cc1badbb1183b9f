package core_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/nickrallison/obsidian-linker-new/pkg/core"
)

// MockRepository implements core.Repository in memory.
// It deliberately does NOT implement core.Committer or core.Watchable to test fallbacks.
type MockRepository struct {
	docs map[string][]byte
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		docs: make(map[string][]byte),
	}
}

func (m *MockRepository) List(ctx context.Context) ([]core.Document, error) {
	var docs []core.Document
	for id, content := range m.docs {
		docs = append(docs, core.Document{ID: id, Content: content})
	}
	// Sort for deterministic tests
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].ID < docs[j].ID
	})
	return docs, nil
}

func (m *MockRepository) Get(ctx context.Context, id string) (core.Document, error) {
	content, ok := m.docs[id]
	if !ok {
		return core.Document{}, fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}
	return core.Document{ID: id, Content: content}, nil
}

func (m *MockRepository) Save(ctx context.Context, id string, content []byte) error {
	if _, ok := m.docs[id]; !ok {
		return fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}
	m.docs[id] = content
	return nil
}

func TestService_SnapshotIsDeepCopy(t *testing.T) {
	repo := NewMockRepository()
	repo.docs["A.md"] = []byte("See Beta")
	repo.docs["Beta.md"] = []byte("...")
	service := core.NewService(repo, nil)
	ctx := context.TODO()

	docs, err := service.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if docs[0].ID != "A.md" {
		t.Errorf("expected first document 'A.md', got '%s'", docs[0].ID)
	}

	docs[0].Content[0] = 'X'
	if string(repo.docs["A.md"]) != "See Beta" {
		t.Errorf("snapshot shares memory with repository: %q", repo.docs["A.md"])
	}
}

func TestService_SaveWrapsPersistenceErrors(t *testing.T) {
	repo := NewMockRepository()
	repo.docs["A.md"] = []byte("old")
	service := core.NewService(repo, nil)
	ctx := context.TODO()

	if err := service.Save(ctx, "A.md", []byte("new")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if string(repo.docs["A.md"]) != "new" {
		t.Errorf("expected content 'new', got '%s'", repo.docs["A.md"])
	}

	err := service.Save(ctx, "Gone.md", []byte("x"))
	if err == nil {
		t.Fatal("expected error for missing document")
	}
	if !errors.Is(err, core.ErrPersistence) || !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrPersistence wrapping ErrNotFound, got %v", err)
	}

	if err := service.Save(ctx, "", nil); !errors.Is(err, core.ErrPersistence) {
		t.Errorf("expected ErrPersistence for empty id, got %v", err)
	}
}

func TestService_OptionalCapabilities(t *testing.T) {
	repo := NewMockRepository()
	service := core.NewService(repo, nil)
	ctx := context.TODO()

	if err := service.Commit(ctx, "msg", []string{"A.md"}); err != nil {
		t.Errorf("Commit on non-versioned repo should be a no-op, got %v", err)
	}

	err := service.Watch(ctx, func() {})
	if err == nil {
		t.Fatal("expected error for non-watchable repo")
	}
	if err.Error() != "repository does not support watching" {
		t.Errorf("unexpected error msg: %v", err)
	}

	state, ok := service.State().(core.ServiceState)
	if !ok {
		t.Fatalf("unexpected state type %T", service.State())
	}
	if state.Versioned || state.Watchable {
		t.Errorf("unexpected capabilities: %+v", state)
	}
}

func TestCandidate_Shift(t *testing.T) {
	c := core.Candidate{SourceID: "A.md", TargetID: "B.md", Start: 10, End: 14, MatchedText: "Beta"}
	got := c.Shift(-3)
	if got.Start != 7 || got.End != 11 {
		t.Errorf("Shift(-3) = [%d:%d], want [7:11]", got.Start, got.End)
	}
	if got.Len() != 4 {
		t.Errorf("Len() = %d, want 4", got.Len())
	}
	if c.Start != 10 {
		t.Errorf("Shift mutated the receiver")
	}
}

func TestRunID(t *testing.T) {
	if got := core.RunID(context.Background()); got != "" {
		t.Errorf("RunID outside a run = %q, want empty", got)
	}
	ctx := context.WithValue(context.Background(), core.RunIDKey, "abc")
	if got := core.RunID(ctx); got != "abc" {
		t.Errorf("RunID = %q, want abc", got)
	}
}
