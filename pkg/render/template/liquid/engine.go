package liquid

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"sync"

	osteele "github.com/osteele/liquid"
	"github.com/osteele/liquid/render"

	"github.com/goliatone/go-mathtags/pkg/environment"
	"github.com/goliatone/go-mathtags/pkg/render/template"
)

// errTagTaken reports an environment whose name the host already defines.
var errTagTaken = errors.New("tag already defined")

// Engine renders Liquid templates with every registry environment available
// as a block tag.
type Engine struct {
	mu sync.RWMutex

	engine    *osteele.Engine
	registry  *environment.Registry
	files     fs.FS
	tplExt    string
	globals   map[string]any
	templates map[string]*osteele.Template
	logger    *slog.Logger
}

// Ensure Engine implements the TemplateRenderer interface.
var _ template.TemplateRenderer = (*Engine)(nil)

// New constructs an Engine. Without WithFS or WithBaseDir only inline
// template sources can be rendered.
func New(options ...Option) (*Engine, error) {
	cfg := &config{
		extension: ".liquid",
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	if cfg.registry == nil {
		cfg.registry = environment.DefaultRegistry()
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	files := cfg.templates
	if files == nil && cfg.baseDir != "" {
		info, err := os.Stat(cfg.baseDir)
		if err != nil {
			return nil, fmt.Errorf("liquid: base dir: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("liquid: base dir %q is not a directory", cfg.baseDir)
		}
		files = os.DirFS(cfg.baseDir)
	}

	e := &Engine{
		engine:    osteele.NewEngine(),
		registry:  cfg.registry,
		files:     files,
		tplExt:    cfg.extension,
		globals:   make(map[string]any),
		templates: make(map[string]*osteele.Template),
		logger:    cfg.logger,
	}

	for _, env := range cfg.registry.Environments() {
		if err := e.registerBlock(env); err != nil {
			return nil, err
		}
	}

	if err := e.GlobalContext(cfg.globalData); err != nil {
		return nil, fmt.Errorf("liquid: apply global data: %w", err)
	}
	return e, nil
}

// Registry returns the environments this engine registered as tags.
func (e *Engine) Registry() *environment.Registry {
	return e.registry
}

// registerBlock turns the host's duplicate-definition panic into an error.
func (e *Engine) registerBlock(env environment.Environment) (err error) {
	if environment.Reserved(env.Name) {
		return fmt.Errorf("liquid: environment %q: %w", env.Name, errTagTaken)
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("liquid: environment %q: %w: %v", env.Name, errTagTaken, r)
		}
	}()
	e.engine.RegisterBlock(env.Name, e.blockRenderer(env))
	return nil
}

func (e *Engine) blockRenderer(env environment.Environment) func(render.Context) (string, error) {
	return func(ctx render.Context) (string, error) {
		content, err := ctx.InnerString()
		if err != nil {
			return "", err
		}

		id, reason := environment.ReadIdentifier(ctx.TagArgs())
		if reason != nil && !errors.Is(reason, environment.ErrNoArgument) {
			e.logger.Debug("inline argument ignored",
				slog.String("tag", env.Name),
				slog.String("reason", reason.Error()),
			)
		}
		return env.Wrap(content, id), nil
	}
}

// Render renders inline template source or a named template.
func (e *Engine) Render(name string, data any, out ...io.Writer) (string, error) {
	if template.IsTemplateContent(name) {
		return e.RenderString(name, data, out...)
	}
	return e.RenderTemplate(name, data, out...)
}

// RenderTemplate loads (and caches) a named template and renders it.
func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.engine == nil {
		return "", errors.New("liquid: engine is nil")
	}
	if e.files == nil {
		return "", fmt.Errorf("liquid: no template source configured for %q", name)
	}

	templatePath := strings.TrimPrefix(name, "/")
	if !strings.HasSuffix(templatePath, e.tplExt) {
		templatePath += e.tplExt
	}

	tpl, err := e.getTemplate(templatePath)
	if err != nil {
		return "", err
	}

	bindings, err := e.bindings(data)
	if err != nil {
		return "", fmt.Errorf("liquid: convert data: %w", err)
	}

	rendered, serr := tpl.Render(bindings)
	if serr != nil {
		return "", fmt.Errorf("liquid: execute template %q: %w", templatePath, serr)
	}
	if err := template.WriteAll(string(rendered), out...); err != nil {
		return "", err
	}
	return string(rendered), nil
}

// RenderString parses and renders templateContent.
func (e *Engine) RenderString(templateContent string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.engine == nil {
		return "", errors.New("liquid: engine is nil")
	}

	bindings, err := e.bindings(data)
	if err != nil {
		return "", fmt.Errorf("liquid: convert data: %w", err)
	}

	rendered, serr := e.engine.ParseAndRenderString(templateContent, bindings)
	if serr != nil {
		return "", fmt.Errorf("liquid: render template string: %w", serr)
	}
	if err := template.WriteAll(rendered, out...); err != nil {
		return "", err
	}
	return rendered, nil
}

// RegisterFilter registers a filter taking one optional parameter. Register
// filters before rendering concurrently.
func (e *Engine) RegisterFilter(name string, fn func(input any, param any) (any, error)) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || fn == nil {
		return errors.New("liquid: filter name and function required")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.engine.RegisterFilter(trimmed, fn)
	return nil
}

// GlobalContext merges data into the bindings every render sees. Per-render
// data wins over globals.
func (e *Engine) GlobalContext(data any) error {
	if e == nil || e.engine == nil {
		return errors.New("liquid: engine is nil")
	}
	if data == nil {
		return nil
	}

	values, err := template.ContextMap(data)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for key, value := range values {
		e.globals[key] = value
	}
	return nil
}

func (e *Engine) bindings(data any) (osteele.Bindings, error) {
	values, err := template.ContextMap(data)
	if err != nil {
		return nil, err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make(osteele.Bindings, len(e.globals)+len(values))
	for key, value := range e.globals {
		out[key] = value
	}
	for key, value := range values {
		out[key] = value
	}
	return out, nil
}

func (e *Engine) getTemplate(path string) (*osteele.Template, error) {
	e.mu.RLock()
	if tpl, ok := e.templates[path]; ok {
		e.mu.RUnlock()
		return tpl, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if tpl, ok := e.templates[path]; ok {
		return tpl, nil
	}

	source, err := fs.ReadFile(e.files, path)
	if err != nil {
		return nil, fmt.Errorf("liquid: load template %q: %w", path, err)
	}
	tpl, serr := e.engine.ParseTemplate(source)
	if serr != nil {
		return nil, fmt.Errorf("liquid: parse template %q: %w", path, serr)
	}

	e.templates[path] = tpl
	return tpl, nil
}
