package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nickrallison/obsidian-linker-new/pkg/core"
)

func TestRepository_ListKeepsOrder(t *testing.T) {
	repo := FromMap("Zeta.md", "z", "A.md", "a", "M.md", "m")
	docs, err := repo.List(context.Background())
	require.NoError(t, err)

	var ids []string
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []string{"Zeta.md", "A.md", "M.md"}, ids)

	docs[0].Content[0] = 'X'
	assert.Equal(t, "z", repo.Content("Zeta.md"))
}

func TestRepository_SaveRequiresExisting(t *testing.T) {
	repo := FromMap("A.md", "old")
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "A.md", []byte("new")))
	assert.Equal(t, "new", repo.Content("A.md"))

	err := repo.Save(ctx, "Gone.md", []byte("x"))
	require.ErrorIs(t, err, core.ErrNotFound)

	repo.Remove("A.md")
	require.ErrorIs(t, repo.Save(ctx, "A.md", []byte("x")), core.ErrNotFound)
	_, err = repo.Get(ctx, "A.md")
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestRepository_ReadOnly(t *testing.T) {
	repo := New([]core.Document{{ID: "A.md", Content: []byte("a")}}, WithReadOnly(true))
	err := repo.Save(context.Background(), "A.md", []byte("b"))
	require.ErrorIs(t, err, core.ErrReadOnly)
	assert.Equal(t, "a", repo.Content("A.md"))

	state := repo.State().(State)
	assert.True(t, state.ReadOnly)
	assert.Equal(t, 1, state.Documents)
	assert.Zero(t, state.Writes)
}
