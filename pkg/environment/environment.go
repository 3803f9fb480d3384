package environment

import (
	"fmt"
	"regexp"
	"strings"
)

// CaptionSuffix is appended to an environment's class to build the caption
// wrapper class when no explicit caption is configured.
const CaptionSuffix = "Caption"

// ScriptTikZ is the script type TikZ sources are wrapped in.
const ScriptTikZ = "text/tikz"

// FigureMarker is the kramdown block IAL prepended to figures that carry an
// id. It is emitted verbatim for the downstream Markdown processor.
const FigureMarker = "{:.figure}"

var namePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// reservedNames are tags and clause keywords the Liquid host already defines.
// An environment cannot shadow them, nor their end tags.
var reservedNames = map[string]struct{}{
	"assign": {}, "break": {}, "capture": {}, "case": {}, "comment": {},
	"continue": {}, "cycle": {}, "decrement": {}, "echo": {}, "else": {},
	"elsif": {}, "for": {}, "if": {}, "ifchanged": {}, "include": {},
	"increment": {}, "liquid": {}, "raw": {}, "render": {}, "tablerow": {},
	"unless": {}, "when": {},
}

// Reserved reports whether name collides with a tag of the template host.
func Reserved(name string) bool {
	if _, ok := reservedNames[name]; ok {
		return true
	}
	if rest, ok := strings.CutPrefix(name, "end"); ok {
		_, ok = reservedNames[rest]
		return ok
	}
	return false
}

// Environment configures one block tag. The zero Script disables the script
// wrapper; a non-empty Marker turns the environment figure-like: no wrapper
// div, no id attribute, and Marker prepended when an id is present.
type Environment struct {
	Name     string `json:"name" yaml:"name"`
	Class    string `json:"class,omitempty" yaml:"class,omitempty"`
	Markdown bool   `json:"markdown,omitempty" yaml:"markdown,omitempty"`
	Script   string `json:"script,omitempty" yaml:"script,omitempty"`
	Caption  string `json:"caption,omitempty" yaml:"caption,omitempty"`
	Marker   string `json:"marker,omitempty" yaml:"marker,omitempty"`
}

// Figure reports whether the environment renders in figure mode.
func (e Environment) Figure() bool {
	return e.Marker != ""
}

// CaptionClass returns the class of the outer wrapper emitted when an id is
// present.
func (e Environment) CaptionClass() string {
	if e.Caption != "" {
		return e.Caption
	}
	return e.Class + CaptionSuffix
}

// Validate checks that the environment can be registered with a host engine.
func (e Environment) Validate() error {
	if !namePattern.MatchString(e.Name) {
		return fmt.Errorf("%w: name %q must be a tag identifier", ErrInvalid, e.Name)
	}
	if Reserved(e.Name) {
		return fmt.Errorf("%w: name %q is a reserved template tag", ErrInvalid, e.Name)
	}
	if e.Figure() {
		if e.Class != "" || e.Script != "" || e.Markdown || e.Caption != "" {
			return fmt.Errorf("%w: environment %q sets a marker and wrapper options", ErrInvalid, e.Name)
		}
		return nil
	}
	if strings.TrimSpace(e.Class) == "" {
		return fmt.Errorf("%w: environment %q requires a class", ErrInvalid, e.Name)
	}
	if strings.ContainsAny(e.Class+e.Caption+e.Script, "\"<>") {
		return fmt.Errorf("%w: environment %q contains markup characters", ErrInvalid, e.Name)
	}
	return nil
}

// Render wraps content for this environment using the id read from argument.
func (e Environment) Render(content, argument string) string {
	return e.Wrap(content, ParseIdentifier(argument))
}

// Wrap produces the environment markup for content and an already parsed
// identifier. Content is inserted verbatim.
func (e Environment) Wrap(content string, id Identifier) string {
	if e.Figure() {
		if id.Present {
			return e.Marker + content
		}
		return content
	}

	var b strings.Builder
	b.Grow(len(content) + 128)

	if id.Present {
		writeOpen(&b, e.CaptionClass(), false, id.Value)
	}

	writeOpen(&b, e.Class, e.Markdown, id.Value)
	if e.Script != "" {
		b.WriteString(`<script type="`)
		b.WriteString(e.Script)
		b.WriteString(`">`)
		b.WriteString(content)
		b.WriteString(`</script>`)
	} else {
		b.WriteString(content)
	}
	b.WriteString(`</div>`)

	if id.Present {
		b.WriteString(`</div>`)
	}
	return b.String()
}

func writeOpen(b *strings.Builder, class string, markdown bool, id string) {
	b.WriteString(`<div class="`)
	b.WriteString(class)
	b.WriteString(`"`)
	if markdown {
		b.WriteString(` markdown="1"`)
	}
	b.WriteString(` id="`)
	b.WriteString(id)
	b.WriteString(`">`)
}

// Render renders content with one of the built-in environments. Unknown
// names return ErrNotFound.
func Render(name, content, argument string) (string, error) {
	env, ok := builtinByName[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return env.Render(content, argument), nil
}
