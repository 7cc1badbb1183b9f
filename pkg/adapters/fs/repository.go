package fs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nickrallison/obsidian-linker-new/pkg/core"
	"github.com/nickrallison/obsidian-linker-new/pkg/git"
)

// DefaultInclude selects the Markdown notes of a vault.
var DefaultInclude = []string{"**/*.md"}

// Repository implements core.Repository over a vault directory, optionally versioned with Git.
type Repository struct {
	Path   string
	git    *git.Client
	cache  *cache
	config Config

	mu            sync.RWMutex
	watcherActive bool
	lastList      *time.Time
}

// Config holds the configuration for the filesystem repository.
type Config struct {
	Path string
	// Include and Exclude are doublestar patterns matched against slash-separated
	// vault-relative paths. Exclude wins.
	Include []string
	Exclude []string
	// Gitless disables commits after a run.
	Gitless  bool
	ReadOnly bool
	// Concurrency bounds parallel reads while listing. Zero means 8.
	Concurrency int
	// Debounce is the quiet period before Watch reports a change. Zero means 200ms.
	Debounce     time.Duration
	Logger       *slog.Logger
	ErrorHandler func(error)
}

// NewRepository creates a new filesystem-backed repository.
func NewRepository(config Config) *Repository {
	if len(config.Include) == 0 {
		config.Include = DefaultInclude
	}
	if config.Concurrency <= 0 {
		config.Concurrency = 8
	}
	if config.Debounce <= 0 {
		config.Debounce = 200 * time.Millisecond
	}
	return &Repository{
		Path:   config.Path,
		git:    git.NewClient(config.Path, config.Logger),
		cache:  newCache(),
		config: config,
	}
}

// Initialize checks the vault directory, the filters and, unless gitless, the git work tree.
func (r *Repository) Initialize(ctx context.Context) error {
	info, err := os.Stat(r.Path)
	if os.IsNotExist(err) {
		return fmt.Errorf("vault path does not exist: %s", r.Path)
	}
	if err != nil {
		return fmt.Errorf("failed to stat vault: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("vault path is not a directory: %s", r.Path)
	}

	if err := validatePatterns(r.config.Include, r.config.Exclude); err != nil {
		return err
	}

	if !r.config.Gitless && !r.config.ReadOnly {
		if !git.IsInstalled() {
			return fmt.Errorf("git is not installed")
		}
		if !r.git.IsRepo() {
			return fmt.Errorf("path is not a git repository: %s", r.Path)
		}
	}
	return nil
}

// List returns every document matching the filters, sorted by ID.
//
// Workflow:
//  1. Walk the vault, skipping hidden directories (.git, .obsidian, .trash).
//  2. Read matching files concurrently; unchanged files come from the cache.
//  3. Sort by ID so snapshot order is stable across runs.
func (r *Repository) List(ctx context.Context) ([]core.Document, error) {
	var paths []string
	err := filepath.WalkDir(r.Path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != r.Path && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || strings.HasPrefix(d.Name(), TempFilePrefix) {
			return nil
		}
		rel, err := filepath.Rel(r.Path, path)
		if err != nil {
			return err
		}
		if r.matches(filepath.ToSlash(rel)) {
			paths = append(paths, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk vault: %w", err)
	}

	docs := make([]core.Document, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.config.Concurrency)
	for i, rel := range paths {
		g.Go(func() error {
			content, err := r.read(gctx, rel)
			if err != nil {
				return err
			}
			docs[i] = core.Document{ID: filepath.ToSlash(rel), Content: content}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })

	seen := make(map[string]bool, len(paths))
	for _, rel := range paths {
		seen[rel] = true
	}
	r.cache.Prune(seen)

	now := time.Now()
	r.mu.Lock()
	r.lastList = &now
	r.mu.Unlock()

	if r.config.Logger != nil {
		r.config.Logger.Debug("vault listed", "path", r.Path, "documents", len(docs), "cached", r.cache.Hits())
	}
	return docs, nil
}

func (r *Repository) read(ctx context.Context, rel string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	full := filepath.Join(r.Path, rel)
	info, err := os.Stat(full)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", rel, err)
	}
	if content, ok := r.cache.Get(rel, info.ModTime(), info.Size()); ok {
		return content, nil
	}
	content, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", rel, err)
	}
	r.cache.Set(rel, info.ModTime(), info.Size(), content)
	return content, nil
}

// Get retrieves a document by its vault-relative ID.
func (r *Repository) Get(ctx context.Context, id string) (core.Document, error) {
	full, err := r.resolve(id)
	if err != nil {
		return core.Document{}, err
	}
	content, err := os.ReadFile(full)
	if errors.Is(err, fs.ErrNotExist) {
		return core.Document{}, fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}
	if err != nil {
		return core.Document{}, fmt.Errorf("failed to read %s: %w", id, err)
	}
	return core.Document{ID: id, Content: content}, nil
}

// Save replaces the content of an existing document atomically, keeping its permissions.
// It never creates files: a document removed since the snapshot fails with core.ErrNotFound.
func (r *Repository) Save(ctx context.Context, id string, content []byte) error {
	if r.config.ReadOnly {
		return fmt.Errorf("%w: %s", core.ErrReadOnly, id)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := r.resolve(id)
	if err != nil {
		return err
	}

	info, err := os.Stat(full)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", id, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", id)
	}

	if err := writeFileAtomic(full, content, info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	r.cache.Delete(filepath.FromSlash(id))

	if r.config.Logger != nil {
		r.config.Logger.Debug("document saved", "id", id, "bytes", len(content), "run_id", core.RunID(ctx))
	}
	return nil
}

// Commit stages and commits the given documents. It is a no-op in gitless mode.
func (r *Repository) Commit(ctx context.Context, message string, ids []string) error {
	if r.config.Gitless || len(ids) == 0 {
		return nil
	}
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}

	unlock, err := r.git.Lock(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire git lock: %w", err)
	}
	defer unlock()

	files := make([]string, len(ids))
	for i, id := range ids {
		files[i] = filepath.FromSlash(id)
	}
	if err := r.git.Add(ctx, files...); err != nil {
		return fmt.Errorf("failed to git add: %w", err)
	}
	if err := r.git.Commit(ctx, git.AppendFooter(message), files...); err != nil {
		return fmt.Errorf("failed to git commit: %w", err)
	}
	if r.config.Logger != nil {
		r.config.Logger.Info("changes committed", "files", len(files), "run_id", core.RunID(ctx))
	}
	return nil
}

// resolve maps an ID to a path inside the vault.
func (r *Repository) resolve(id string) (string, error) {
	rel := filepath.FromSlash(id)
	if id == "" || !filepath.IsLocal(rel) {
		return "", fmt.Errorf("%w: invalid document id %q", core.ErrNotFound, id)
	}
	return filepath.Join(r.Path, rel), nil
}

// skipDir reports directories never scanned: VCS data, editor state, trash.
func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || name == "node_modules"
}

var (
	_ core.Repository = (*Repository)(nil)
	_ core.Committer  = (*Repository)(nil)
	_ core.Watchable  = (*Repository)(nil)
)
