package page_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-mathtags/pkg/environment"
	"github.com/goliatone/go-mathtags/pkg/page"
	"github.com/goliatone/go-mathtags/pkg/render/template/liquid"
)

const groupsPage = "---\ntitle: Groups\n---\n# {{ page.title }}\n\n{% def {\"id\":\"group\"} %}A group is a monoid with inverses.{% enddef %}\n"

const groupsDefinition = `<div class="definitionCaption" id="group"><div class="definition" markdown="1" id="group">A group is a monoid with inverses.</div></div>`

func TestRenderer_ExpandsTagsWithFrontMatter(t *testing.T) {
	r, err := page.New()
	require.NoError(t, err)

	res, err := r.Render(context.Background(), []byte(groupsPage))
	require.NoError(t, err)
	require.Equal(t, map[string]any{"title": "Groups"}, res.FrontMatter)
	require.Equal(t, "# Groups\n\n"+groupsDefinition+"\n", res.Body)
}

func TestRenderer_Markdown(t *testing.T) {
	r, err := page.New(page.WithMarkdown(true))
	require.NoError(t, err)

	res, err := r.Render(context.Background(), []byte(groupsPage))
	require.NoError(t, err)
	require.Contains(t, res.Body, "<h1>Groups</h1>")
	require.Contains(t, res.Body, `<div class="definitionCaption" id="group"><div class="definition" markdown="1" id="group">`+
		`<p>A group is a monoid with inverses.</p></div></div>`)
}

func TestRenderer_MarkdownInsideEnvironment(t *testing.T) {
	r, err := page.New(page.WithMarkdown(true))
	require.NoError(t, err)

	res, err := r.Render(context.Background(), []byte(`{% thm {"id":"t"} %}A **bold** claim.{% endthm %}`))
	require.NoError(t, err)
	require.Equal(t, `<div class="theoremCaption" id="t"><div class="theorem" markdown="1" id="t"><p>A <strong>bold</strong> claim.</p></div></div>`+"\n", res.Body)
}

func TestRenderer_MarkdownLeavesScriptEnvironmentsRaw(t *testing.T) {
	r, err := page.New(page.WithMarkdown(true))
	require.NoError(t, err)

	res, err := r.Render(context.Background(), []byte("{% tikz %}\\draw **x**;{% endtikz %}\n\n{% lem %}Uses *x*.\n\n    code\n\n    more{% endlem %}\n\nAfter.\n"))
	require.NoError(t, err)
	require.Contains(t, res.Body, `<script type="text/tikz">\draw **x**;</script>`)
	require.Contains(t, res.Body, "<p>Uses <em>x</em>.</p>")
	require.Contains(t, res.Body, "<pre><code>code\n&#10;more")
	require.Contains(t, res.Body, "<p>After.</p>")
	require.NotContains(t, res.Body, "<p>more")
}

func TestRenderer_Sanitize(t *testing.T) {
	r, err := page.New(page.WithSanitize(true))
	require.NoError(t, err)

	src := "{% tikz {\"id\":\"sq\"} %}\\draw (0,0) rectangle (1,1);{% endtikz %}<a href=\"#\" onclick=\"steal()\">x</a><script>alert(1)</script>"
	res, err := r.Render(context.Background(), []byte(src))
	require.NoError(t, err)
	require.Contains(t, res.Body, `<script type="text/tikz">\draw (0,0) rectangle (1,1);</script>`)
	require.Contains(t, res.Body, `class="tikzCaption"`)
	require.Contains(t, res.Body, `id="sq"`)
	require.NotContains(t, res.Body, "alert")
	require.NotContains(t, res.Body, "onclick")
}

func TestSanitize_DropsForeignMarkupKeepsEnvironment(t *testing.T) {
	out := page.Sanitize(`<div class="theorem" markdown="1" id="t" style="color:red">T<iframe src="https://example.com"></iframe></div>`)
	require.Contains(t, out, `class="theorem"`)
	require.Contains(t, out, `markdown="1"`)
	require.Contains(t, out, `id="t"`)
	require.NotContains(t, out, "iframe")
	require.NotContains(t, out, "style")
}

func TestSanitize_PlaceholderLookalikeStaysText(t *testing.T) {
	out := page.Sanitize("<p>\uE000tikz:0\uE000 tikz-0</p>" + `<div class="tikz" id=""><script type="text/tikz">\node{A};</script></div>`)
	require.NotContains(t, out, "<p><script")
	require.Equal(t, 1, strings.Count(out, `<script type="text/tikz">\node{A};</script>`))
	require.Contains(t, out, "tikz:0")
}

func TestSanitize_ScriptInsideAttributeIsNotMasked(t *testing.T) {
	out := page.Sanitize(`<div class="theorem" title='<script type="text/tikz">'>kept</div><p>after</p><script type="text/tikz">\node{B};</script>`)
	require.Contains(t, out, "kept")
	require.Contains(t, out, "<p>after</p>")
	require.Contains(t, out, `<script type="text/tikz">\node{B};</script>`)
}

func TestRenderer_CustomEngine(t *testing.T) {
	reg := environment.DefaultRegistry()
	reg.MustRegister(environment.Environment{Name: "conj", Class: "conjecture", Markdown: true})
	engine, err := liquid.New(liquid.WithRegistry(reg))
	require.NoError(t, err)

	r, err := page.New(page.WithEngine(engine))
	require.NoError(t, err)

	res, err := r.Render(context.Background(), []byte(`{% conj %}C{% endconj %}`))
	require.NoError(t, err)
	require.Equal(t, `<div class="conjecture" markdown="1" id="">C</div>`, res.Body)
}

func TestRenderer_RenderFileSetsPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("{{ page.path }}"), 0o644))

	r, err := page.New()
	require.NoError(t, err)

	res, err := r.RenderFile(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, filepath.ToSlash(path), res.Body)

	_, err = r.RenderFile(context.Background(), filepath.Join(dir, "missing.md"))
	require.Error(t, err)
}

func TestRenderer_CanceledContext(t *testing.T) {
	r, err := page.New()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = r.Render(ctx, []byte(groupsPage))
	require.True(t, errors.Is(err, context.Canceled))
}

func TestRenderer_BrokenFrontMatter(t *testing.T) {
	r, err := page.New()
	require.NoError(t, err)

	_, err = r.Render(context.Background(), []byte("---\ntitle: x\n"))
	require.ErrorIs(t, err, page.ErrMissingClosingDelimiter)
}
