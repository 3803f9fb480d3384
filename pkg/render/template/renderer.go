package template

import (
	"encoding/json"
	"io"
	"strings"
)

// TemplateRenderer is the contract every host engine adapter satisfies. Both
// the Liquid and the pongo2 adapters expand environment tags while rendering.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}

// IsTemplateContent reports whether s looks like inline template source
// rather than a template name.
func IsTemplateContent(s string) bool {
	return strings.Contains(s, "{{") || strings.Contains(s, "{%")
}

// WriteAll copies rendered output to every writer in out.
func WriteAll(rendered string, out ...io.Writer) error {
	for _, w := range out {
		if w == nil {
			continue
		}
		if _, err := io.WriteString(w, rendered); err != nil {
			return err
		}
	}
	return nil
}

// ContextMap normalises view data into a string-keyed map. Maps are copied
// shallowly; structs are round-tripped through JSON so templates see their
// json field names. Blank keys are dropped.
func ContextMap(data any) (map[string]any, error) {
	var in map[string]any
	switch v := data.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		in = v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(b, &in); err != nil {
			return nil, err
		}
	}

	out := make(map[string]any, len(in))
	for key, value := range in {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		out[key] = value
	}
	return out, nil
}
