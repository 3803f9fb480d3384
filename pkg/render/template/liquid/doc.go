// Package liquid hosts the environment tags on a Jekyll-compatible Liquid
// engine (github.com/osteele/liquid). Each registered environment becomes a
// block tag named after it:
//
//	{% thm {"id":"pigeonhole"} %}Proof text{% endthm %}
//
// The block body is rendered as Liquid first and the result is wrapped
// verbatim by the environment.
package liquid
