// Package template defines the host engine contract shared by the Liquid
// (pkg/render/template/liquid) and pongo2 (pkg/render/template/gotemplate)
// adapters, plus small helpers both adapters use.
package template
