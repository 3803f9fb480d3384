// Package mathtags renders theorem-like, diagram and figure environments for
// static-site templates. The root package re-exports the pieces most callers
// need; the host bindings live under pkg/render/template.
package mathtags

import (
	"context"

	"github.com/goliatone/go-mathtags/pkg/environment"
	"github.com/goliatone/go-mathtags/pkg/page"
	"github.com/goliatone/go-mathtags/pkg/render/template/gotemplate"
	"github.com/goliatone/go-mathtags/pkg/render/template/liquid"
)

// Environment aliases environment.Environment.
type Environment = environment.Environment

// Identifier aliases environment.Identifier.
type Identifier = environment.Identifier

// Registry aliases environment.Registry.
type Registry = environment.Registry

// Built-in tag names.
const (
	TikZ        = environment.TikZ
	Quiver      = environment.Quiver
	Figure      = environment.Figure
	Definition  = environment.Definition
	Notation    = environment.Notation
	Example     = environment.Example
	Diagram     = environment.Diagram
	Proposition = environment.Proposition
	Lemma       = environment.Lemma
	Theorem     = environment.Theorem
	Corollary   = environment.Corollary
)

// Render wraps content with the built-in environment registered as name.
func Render(name, content, argument string) (string, error) {
	return environment.Render(name, content, argument)
}

// NewRegistry returns a registry seeded with the built-in environments.
func NewRegistry() *Registry {
	return environment.DefaultRegistry()
}

// NewLiquid builds a Jekyll-compatible engine with one block tag per
// environment.
func NewLiquid(options ...liquid.Option) (*liquid.Engine, error) {
	return liquid.New(options...)
}

// NewPongo2 builds a pongo2 engine exposing the `environment` block tag.
func NewPongo2(options ...gotemplate.Option) (*gotemplate.Engine, error) {
	return gotemplate.New(options...)
}

// RenderPage expands the tags of a single page with the default settings.
func RenderPage(ctx context.Context, source []byte) (page.Result, error) {
	r, err := page.New()
	if err != nil {
		return page.Result{}, err
	}
	return r.Render(ctx, source)
}
