// Package xref indexes the cross-reference anchors of a rendered page: every
// captioned environment wrapper carries the id authors link to.
package xref

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/net/html"

	"github.com/goliatone/go-mathtags/pkg/environment"
)

// Anchor is one captioned environment found in rendered HTML.
type Anchor struct {
	ID          string
	Environment string
	Class       string
}

// Collect parses rendered HTML and returns the anchors in document order.
// A nil registry means the built-in environments.
func Collect(r io.Reader, reg *environment.Registry) ([]Anchor, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("xref: parse html: %w", err)
	}

	captions := captionClasses(reg)
	var anchors []Anchor

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "div" {
			if anchor, ok := anchorFor(n, captions); ok {
				anchors = append(anchors, anchor)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return anchors, nil
}

// Duplicates returns the non-blank ids used by more than one anchor, sorted.
func Duplicates(anchors []Anchor) []string {
	seen := make(map[string]int, len(anchors))
	for _, a := range anchors {
		if a.ID == "" {
			continue
		}
		seen[a.ID]++
	}

	var dups []string
	for id, n := range seen {
		if n > 1 {
			dups = append(dups, id)
		}
	}
	sort.Strings(dups)
	return dups
}

func captionClasses(reg *environment.Registry) map[string]string {
	if reg == nil {
		reg = environment.DefaultRegistry()
	}
	out := make(map[string]string)
	for _, env := range reg.Environments() {
		if env.Figure() {
			continue
		}
		class := env.CaptionClass()
		if _, taken := out[class]; !taken {
			out[class] = env.Name
		}
	}
	return out
}

func anchorFor(n *html.Node, captions map[string]string) (Anchor, bool) {
	id, hasID := attr(n, "id")
	if !hasID {
		return Anchor{}, false
	}
	classAttr, _ := attr(n, "class")
	for _, class := range strings.Fields(classAttr) {
		if name, ok := captions[class]; ok {
			return Anchor{ID: id, Environment: name, Class: class}, true
		}
	}
	return Anchor{}, false
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
