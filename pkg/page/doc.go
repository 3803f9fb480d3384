// Package page is a small preview host for environment tags: it splits YAML
// front matter, exposes it to Liquid as `page`, expands the tags and can
// convert the result to HTML with goldmark and sanitise it with bluemonday.
//
// It is not a site generator; it renders one page at a time so authors can
// check their markup before the real build picks it up.
package page
