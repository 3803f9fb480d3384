package page

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitFrontMatter_NoFrontMatter_ReturnsBodyOnly(t *testing.T) {
	input := []byte("# Title\n\n{% thm %}x{% endthm %}\n")

	fm, body, had, err := SplitFrontMatter(input)
	require.NoError(t, err)
	require.False(t, had)
	require.Empty(t, fm)
	require.Equal(t, input, body)
}

func TestSplitFrontMatter_YAML_SplitsFrontMatterAndBody(t *testing.T) {
	input := []byte("---\ntitle: Groups\n---\n# Title\n")

	fm, body, had, err := SplitFrontMatter(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("title: Groups\n"), fm)
	require.Equal(t, []byte("# Title\n"), body)
}

func TestSplitFrontMatter_CRLF(t *testing.T) {
	input := []byte("---\r\ntitle: Groups\r\n---\r\n# Title\r\n")

	fm, body, had, err := SplitFrontMatter(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("title: Groups\r\n"), fm)
	require.Equal(t, []byte("# Title\r\n"), body)
}

func TestSplitFrontMatter_EmptyBlock(t *testing.T) {
	fm, body, had, err := SplitFrontMatter([]byte("---\n---\n# Title\n"))
	require.NoError(t, err)
	require.True(t, had)
	require.Empty(t, fm)
	require.Equal(t, []byte("# Title\n"), body)
}

func TestSplitFrontMatter_ClosingDelimiterAtEOF(t *testing.T) {
	fm, body, had, err := SplitFrontMatter([]byte("---\ntitle: Only\n---"))
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("title: Only\n"), fm)
	require.Empty(t, body)
}

func TestSplitFrontMatter_MissingClosingDelimiter(t *testing.T) {
	_, _, had, err := SplitFrontMatter([]byte("---\ntitle: x\n# Title\n"))
	require.Error(t, err)
	require.False(t, had)
	require.True(t, errors.Is(err, ErrMissingClosingDelimiter))
}

func TestParseFrontMatter(t *testing.T) {
	fields, err := ParseFrontMatter([]byte("title: Groups\ntags: [algebra]\n"))
	require.NoError(t, err)
	require.Equal(t, "Groups", fields["title"])
	require.Equal(t, []any{"algebra"}, fields["tags"])

	empty, err := ParseFrontMatter(nil)
	require.NoError(t, err)
	require.Empty(t, empty)

	_, err = ParseFrontMatter([]byte("title: [unclosed\n"))
	require.Error(t, err)
}
