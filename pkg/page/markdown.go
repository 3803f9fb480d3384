package page

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	xhtml "golang.org/x/net/html"
)

// newMarkdown builds the goldmark converter used for previews. Raw HTML must
// pass through untouched, otherwise every environment wrapper would be
// dropped.
func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
}

// convertMarkdown converts the content of every markdown="1" div first, the
// way kramdown honours the attribute, and then the page itself. goldmark on
// its own leaves HTML block content raw.
func convertMarkdown(md goldmark.Markdown, body string) (string, error) {
	expanded, err := convertMarkdownBlocks(md, body)
	if err != nil {
		return "", err
	}
	return convert(md, expanded)
}

func convert(md goldmark.Markdown, src string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("page: convert markdown: %w", err)
	}
	return buf.String(), nil
}

// convertMarkdownBlocks rewrites src token by token. Everything outside
// markdown="1" divs is copied byte for byte.
func convertMarkdownBlocks(md goldmark.Markdown, src string) (string, error) {
	z := xhtml.NewTokenizer(strings.NewReader(src))
	var out strings.Builder

	for {
		tt := z.Next()
		if tt == xhtml.ErrorToken {
			if errors.Is(z.Err(), io.EOF) {
				return out.String(), nil
			}
			return "", fmt.Errorf("page: scan html: %w", z.Err())
		}

		raw := string(z.Raw())
		if tt != xhtml.StartTagToken || !isMarkdownDiv(z.Token()) {
			out.WriteString(raw)
			continue
		}

		inner, closing := collectDiv(z)
		nested, err := convertMarkdownBlocks(md, inner)
		if err != nil {
			return "", err
		}
		converted, err := convert(md, nested)
		if err != nil {
			return "", err
		}

		out.WriteString(raw)
		out.WriteString(keepInHTMLBlock(converted))
		out.WriteString(closing)
	}
}

func isMarkdownDiv(tok xhtml.Token) bool {
	if tok.Data != "div" {
		return false
	}
	for _, a := range tok.Attr {
		if a.Key == "markdown" && a.Val == "1" {
			return true
		}
	}
	return false
}

// collectDiv reads up to the end tag matching an already consumed div start
// tag. An unterminated div takes the rest of the input.
func collectDiv(z *xhtml.Tokenizer) (inner, closing string) {
	var b strings.Builder
	depth := 1
	for {
		tt := z.Next()
		if tt == xhtml.ErrorToken {
			return b.String(), ""
		}
		raw := string(z.Raw())
		switch tt {
		case xhtml.StartTagToken:
			if name, _ := z.TagName(); string(name) == "div" {
				depth++
			}
		case xhtml.EndTagToken:
			if name, _ := z.TagName(); string(name) == "div" {
				depth--
				if depth == 0 {
					return b.String(), raw
				}
			}
		}
		b.WriteString(raw)
	}
}

// keepInHTMLBlock drops the trailing newline and encodes blank lines, which
// would otherwise end the surrounding HTML block in the outer pass.
func keepInHTMLBlock(s string) string {
	s = strings.TrimRight(s, "\n")
	return strings.ReplaceAll(s, "\n\n", "\n&#10;")
}
