// Package markdown renders the constrained markdown dialect used by plans and reports: headings (#, ##, ###), fenced code blocks, inline code, **bold**, *italic*,
// "- " and "1. " lists, "---" rules, and paragraphs.
//
// Rendering is two steps. Parse tokenizes source into a Document, a tree of tagged Block and Inline nodes. A renderer walks the tree: RenderHTML emits an HTML
// fragment for the dashboard, RenderText emits terminal text. Render is Parse followed by RenderHTML with default options.
//
// Both steps are total and deterministic: malformed markdown degrades to literal text, and identical input yields byte-identical output.
//
// HTML output escapes '&', '<', and '>' in all text, including code; quotes are left alone. Tags carry fixed class hooks (ex: `<h1 class="md-h1">`) for styling.
// The output is safe to embed as element content but is not a sanitizer; callers serving HTML to a browser should pass it through Sanitize.
//
// Line endings: "\r\n" is normalized to "\n" before parsing.
//
// ParseOutline extracts a title, overview, and heading list from arbitrary CommonMark (not just the dialect above) for listings.
package markdown
