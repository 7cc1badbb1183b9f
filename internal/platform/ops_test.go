package platform_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nickrallison/obsidian-linker-new/internal/platform"
	"github.com/nickrallison/obsidian-linker-new/pkg/adapters/fs"
	"github.com/nickrallison/obsidian-linker-new/pkg/adapters/memory"
	"github.com/nickrallison/obsidian-linker-new/pkg/core"
	"github.com/nickrallison/obsidian-linker-new/pkg/review"
)

func writeVault(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	}
	return dir
}

func TestInit(t *testing.T) {
	t.Run("Filesystem Adapter Detects Gitless Vault", func(t *testing.T) {
		dir := writeVault(t, map[string]string{"A.md": "a"})

		repo, err := platform.Init(dir)
		require.NoError(t, err)

		fsRepo, ok := repo.(*fs.Repository)
		require.True(t, ok, "expected fs repository, got %T", repo)
		assert.Equal(t, dir, fsRepo.Path)
		assert.True(t, fsRepo.State().(fs.RepositoryState).Gitless)
	})

	t.Run("Fails if Directory Missing", func(t *testing.T) {
		_, err := platform.Init(filepath.Join(t.TempDir(), "missing"))
		assert.Error(t, err)
	})

	t.Run("Injected Repository Wins", func(t *testing.T) {
		mem := memory.FromMap("A.md", "a")
		repo, err := platform.Init("ignored", platform.WithRepository(mem))
		require.NoError(t, err)
		assert.Same(t, mem, repo)
	})

	t.Run("Unknown Adapter", func(t *testing.T) {
		_, err := platform.Init("x", platform.WithAdapter("s3"))
		assert.Error(t, err)
	})

	t.Run("Read Only", func(t *testing.T) {
		dir := writeVault(t, map[string]string{"A.md": "a"})
		repo, err := platform.Init(dir, platform.WithReadOnly(true), platform.WithVersioning(false))
		require.NoError(t, err)
		err = repo.Save(context.Background(), "A.md", []byte("b"))
		assert.ErrorIs(t, err, core.ErrReadOnly)
	})
}

func TestNew_FilesystemRun(t *testing.T) {
	dir := writeVault(t, map[string]string{
		"A.md":            "See Beta for details.",
		"Beta.md":         "...",
		"drafts/Draft.md": "Beta draft",
	})

	eng, err := platform.New(dir,
		platform.WithVersioning(false),
		platform.WithExclude("drafts/**"),
		platform.WithPreviewStyle("markdown"),
	)
	require.NoError(t, err)

	plan, report, err := eng.Run(context.Background(), review.AcceptAll)
	require.NoError(t, err)
	require.NoError(t, report.Err())
	assert.Len(t, plan.Documents, 2)

	got, err := os.ReadFile(filepath.Join(dir, "A.md"))
	require.NoError(t, err)
	assert.Equal(t, "See [[Beta.md|Beta]] for details.", string(got))

	draft, err := os.ReadFile(filepath.Join(dir, "drafts", "Draft.md"))
	require.NoError(t, err)
	assert.Equal(t, "Beta draft", string(draft))
}

func TestNew_AppliesEngineOptions(t *testing.T) {
	eng, err := platform.New("", platform.WithAdapter("memory"),
		platform.WithCaseInsensitive(false),
		platform.WithLinkToSelf(true),
		platform.WithAliases(false),
		platform.WithPreviewColor("green"),
		platform.WithLinkTemplate("[{text}]({target})"),
		platform.WithFlush(review.FlushBatch),
	)
	require.NoError(t, err)

	cfg := eng.Config()
	assert.False(t, cfg.CaseInsensitive)
	assert.True(t, cfg.LinkToSelf)
	assert.False(t, cfg.Aliases)
	assert.Equal(t, "green", cfg.PreviewColor)
	assert.Equal(t, "[{text}]({target})", cfg.LinkTemplate)
	assert.Equal(t, review.FlushBatch, cfg.Flush)
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	_, err := platform.New("", platform.WithAdapter("memory"), platform.WithLinkTemplate("[[{target}]]"))
	assert.Error(t, err)

	_, err = platform.New("", platform.WithAdapter("memory"), platform.WithPreviewStyle("neon"))
	assert.Error(t, err)
}
