package page

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/yuin/goldmark"

	"github.com/goliatone/go-mathtags/pkg/render/template/liquid"
)

// Option configures a Renderer.
type Option func(*Renderer)

// WithEngine sets the Liquid engine used to expand tags. Defaults to an
// engine over the built-in environments.
func WithEngine(engine *liquid.Engine) Option {
	return func(r *Renderer) {
		r.engine = engine
	}
}

// WithMarkdown converts the expanded body from Markdown to HTML. Content of
// markdown="1" wrappers is converted as Markdown too; other wrappers keep
// their content raw.
func WithMarkdown(enabled bool) Option {
	return func(r *Renderer) {
		r.markdown = enabled
	}
}

// WithSanitize runs the final output through the preview sanitiser.
func WithSanitize(enabled bool) Option {
	return func(r *Renderer) {
		r.sanitize = enabled
	}
}

// WithLogger sets the logger used for stage timings.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Renderer expands environment tags in a single page.
type Renderer struct {
	engine   *liquid.Engine
	md       goldmark.Markdown
	markdown bool
	sanitize bool
	logger   *slog.Logger
}

// Result is a rendered page.
type Result struct {
	FrontMatter map[string]any
	Body        string
}

// New constructs a Renderer.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}

	if r.engine == nil {
		engine, err := liquid.New(liquid.WithLogger(r.logger))
		if err != nil {
			return nil, fmt.Errorf("page: create liquid engine: %w", err)
		}
		r.engine = engine
	}
	if r.markdown {
		r.md = newMarkdown()
	}
	return r, nil
}

// Render renders one page source. Front matter is exposed to Liquid as
// `page`; the returned Body never contains it.
func (r *Renderer) Render(ctx context.Context, source []byte) (Result, error) {
	return r.render(ctx, source, nil)
}

// RenderFile reads and renders the page at path. `page.path` defaults to the
// slash-separated path.
func (r *Renderer) RenderFile(ctx context.Context, path string) (Result, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("page: read %s: %w", path, err)
	}
	return r.render(ctx, source, map[string]any{"path": filepath.ToSlash(path)})
}

func (r *Renderer) render(ctx context.Context, source []byte, defaults map[string]any) (Result, error) {
	started := time.Now()

	rawFrontMatter, body, _, err := SplitFrontMatter(source)
	if err != nil {
		return Result{}, err
	}
	fields, err := ParseFrontMatter(rawFrontMatter)
	if err != nil {
		return Result{}, err
	}

	pageVars := make(map[string]any, len(fields)+len(defaults))
	for key, value := range defaults {
		pageVars[key] = value
	}
	for key, value := range fields {
		pageVars[key] = value
	}

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	out, err := r.engine.RenderString(string(body), map[string]any{"page": pageVars})
	if err != nil {
		return Result{}, fmt.Errorf("page: expand tags: %w", err)
	}

	if r.markdown {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		out, err = convertMarkdown(r.md, out)
		if err != nil {
			return Result{}, err
		}
	}

	if r.sanitize {
		out = Sanitize(out)
	}

	r.logger.Debug("page rendered",
		slog.Bool("markdown", r.markdown),
		slog.Bool("sanitize", r.sanitize),
		slog.Int("bytes", len(out)),
		slog.Duration("elapsed", time.Since(started)),
	)

	return Result{FrontMatter: fields, Body: out}, nil
}
