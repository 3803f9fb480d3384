// Package environment renders the block environments used by mathematical
// writing on static sites: theorem-like prose (definition, lemma, theorem,
// ...), TikZ sources, quiver diagrams and figures.
//
// Every environment is a configuration record for the same handler. The
// handler reads an optional JSON object from the tag's inline argument,
// extracts its "id" and wraps the block content in a classed <div>. When an
// id is present the markup is wrapped once more in a caption container that
// cross-reference tooling keys off. Malformed arguments never fail a render;
// they behave exactly like an absent argument.
//
// Host engines (Liquid, pongo2) live under pkg/render/template and delegate
// to Registry.Render.
package environment
