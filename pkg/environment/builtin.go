package environment

// Tag names of the built-in environments.
const (
	TikZ        = "tikz"
	Quiver      = "quiver"
	Figure      = "figure"
	Definition  = "def"
	Notation    = "not"
	Example     = "ex"
	Diagram     = "diag"
	Proposition = "prop"
	Lemma       = "lem"
	Theorem     = "thm"
	Corollary   = "cor"
)

var builtins = []Environment{
	{Name: TikZ, Class: "tikz", Script: ScriptTikZ},
	{Name: Quiver, Class: "quiver"},
	{Name: Figure, Marker: FigureMarker},
	theoremLike(Definition, "definition"),
	theoremLike(Notation, "notation"),
	theoremLike(Example, "example"),
	theoremLike(Diagram, "diagram"),
	theoremLike(Proposition, "proposition"),
	theoremLike(Lemma, "lemma"),
	theoremLike(Theorem, "theorem"),
	theoremLike(Corollary, "corollary"),
}

var builtinByName = func() map[string]Environment {
	out := make(map[string]Environment, len(builtins))
	for _, env := range builtins {
		out[env.Name] = env
	}
	return out
}()

func theoremLike(name, class string) Environment {
	return Environment{Name: name, Class: class, Markdown: true}
}

// Builtins returns a copy of the built-in environment table in declaration
// order.
func Builtins() []Environment {
	return append([]Environment(nil), builtins...)
}
