package page

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	xhtml "golang.org/x/net/html"

	"github.com/goliatone/go-mathtags/pkg/environment"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy

	classValues = regexp.MustCompile(`^[A-Za-z0-9_\- ]*$`)
)

// Sanitize strips everything a user-generated-content policy would not allow
// while keeping the environment wrappers and their TikZ sources intact. TikZ
// script elements are masked with per-call placeholders while the policy
// runs.
func Sanitize(rendered string) string {
	masked, slots := maskTikZ(rendered)
	cleaned := sanitizer().Sanitize(masked)
	if len(slots) == 0 {
		return cleaned
	}
	return strings.NewReplacer(slots...).Replace(cleaned)
}

// maskTikZ replaces every <script type="text/tikz"> element with a
// placeholder. slots holds placeholder/original pairs for strings.NewReplacer.
func maskTikZ(rendered string) (string, []string) {
	nonce := uuid.NewString()
	z := xhtml.NewTokenizer(strings.NewReader(rendered))

	var out strings.Builder
	var slots []string
	for {
		tt := z.Next()
		if tt == xhtml.ErrorToken {
			return out.String(), slots
		}
		raw := string(z.Raw())
		if tt != xhtml.StartTagToken || !isTikZScript(z.Token()) {
			out.WriteString(raw)
			continue
		}

		var script strings.Builder
		script.WriteString(raw)
		for {
			next := z.Next()
			if next == xhtml.ErrorToken {
				break
			}
			script.WriteString(string(z.Raw()))
			if next == xhtml.EndTagToken {
				break
			}
		}

		slot := fmt.Sprintf("tikz-%s-%d", nonce, len(slots)/2)
		slots = append(slots, slot, script.String())
		out.WriteString(slot)
	}
}

func isTikZScript(tok xhtml.Token) bool {
	if tok.Data != "script" {
		return false
	}
	for _, a := range tok.Attr {
		if a.Key == "type" && a.Val == environment.ScriptTikZ {
			return true
		}
	}
	return false
}

func sanitizer() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.UGCPolicy()
		p.AllowAttrs("class").Matching(classValues).OnElements("div", "span", "code", "pre")
		p.AllowAttrs("id").OnElements("div", "h1", "h2", "h3", "h4", "h5", "h6")
		p.AllowAttrs("markdown").Matching(regexp.MustCompile(`^1$`)).OnElements("div")
		policy = p
	})
	return policy
}
