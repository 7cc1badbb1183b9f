package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitFrontmatter(t *testing.T) {
	t.Run("no frontmatter", func(t *testing.T) {
		fm, err := SplitFrontmatter([]byte("# Title\nbody"))
		require.NoError(t, err)
		assert.Equal(t, 0, fm.BodyStart)
		assert.Nil(t, fm.Meta)
	})

	t.Run("yaml header", func(t *testing.T) {
		content := []byte("---\naliases: [EC, Curves]\ntags: [math]\n---\nbody")
		fm, err := SplitFrontmatter(content)
		require.NoError(t, err)
		assert.Equal(t, "body", string(content[fm.BodyStart:]))
		assert.Equal(t, []string{"EC", "Curves"}, fm.Aliases())
	})

	t.Run("crlf delimiters", func(t *testing.T) {
		content := []byte("---\r\nalias: Foo\r\n---\r\nbody")
		fm, err := SplitFrontmatter(content)
		require.NoError(t, err)
		assert.Equal(t, "body", string(content[fm.BodyStart:]))
		assert.Equal(t, []string{"Foo"}, fm.Aliases())
	})

	t.Run("dashes inside values do not close", func(t *testing.T) {
		content := []byte("---\ntitle: a---b\n---\nbody")
		fm, err := SplitFrontmatter(content)
		require.NoError(t, err)
		assert.Equal(t, "body", string(content[fm.BodyStart:]))
	})

	t.Run("closing delimiter at end of file", func(t *testing.T) {
		content := []byte("---\na: 1\n---")
		fm, err := SplitFrontmatter(content)
		require.NoError(t, err)
		assert.Equal(t, len(content), fm.BodyStart)
	})

	t.Run("unclosed", func(t *testing.T) {
		_, err := SplitFrontmatter([]byte("---\na: 1\nbody"))
		require.Error(t, err)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := SplitFrontmatter([]byte("---\na: [1\n---\nbody"))
		require.Error(t, err)
	})
}

func TestAliases_IgnoresNonStrings(t *testing.T) {
	fm := Frontmatter{Meta: map[string]any{
		"aliases": []any{"One", 2, "  ", "Two "},
		"alias":   "Three",
	}}
	assert.Equal(t, []string{"One", "Two", "Three"}, fm.Aliases())
}

func spanTexts(content []byte, spans []Span) []string {
	var out []string
	for _, s := range spans {
		out = append(out, string(content[s.Start:s.End]))
	}
	return out
}

func TestLinkableRegions_Markdown(t *testing.T) {
	content := []byte("See Beta here.\n\n```\nBeta in code\n```\n\nUse `Beta` and [Beta](x.md) or [[Beta]].\n")
	regions := LinkableRegions("A.md", content, 0)
	texts := spanTexts(content, regions)

	assert.Contains(t, texts, "See Beta here.")
	for _, txt := range texts {
		assert.NotContains(t, txt, "in code")
		assert.NotContains(t, txt, "[[")
		assert.NotContains(t, txt, "`")
	}
}

func TestLinkableRegions_OffsetsAreDocumentRelative(t *testing.T) {
	content := []byte("---\ntitle: Beta\n---\nSee Beta for details.")
	fm, err := SplitFrontmatter(content)
	require.NoError(t, err)

	regions := LinkableRegions("A.md", content, fm.BodyStart)
	require.Len(t, regions, 1)
	assert.Equal(t, "See Beta for details.", string(content[regions[0].Start:regions[0].End]))
	assert.Equal(t, fm.BodyStart, regions[0].Start)
}

func TestLinkableRegions_PlainText(t *testing.T) {
	content := []byte("Beta and [[Beta]] and Beta")
	regions := LinkableRegions("notes.txt", content, 0)
	assert.Equal(t, []string{"Beta and ", " and Beta"}, spanTexts(content, regions))
}

func TestSubtract(t *testing.T) {
	regions := []Span{{0, 10}, {20, 30}}
	protected := []Span{{2, 4}, {8, 22}, {25, 40}}
	assert.Equal(t, []Span{{0, 2}, {4, 8}, {22, 25}}, subtract(regions, protected))
}

func TestMerge(t *testing.T) {
	assert.Equal(t, []Span{{0, 7}, {9, 10}}, merge([]Span{{3, 7}, {0, 3}, {9, 10}, {4, 5}}))
	assert.Nil(t, merge(nil))
}

func TestIsMarkdown(t *testing.T) {
	assert.True(t, IsMarkdown("a/B.md"))
	assert.True(t, IsMarkdown("x.MARKDOWN"))
	assert.False(t, IsMarkdown("x.txt"))
}
