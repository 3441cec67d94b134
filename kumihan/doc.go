// Package kumihan converts Kumihan notation, a line-oriented and
// block-delimited markup, into nested HTML.
//
// Authors open a decorated block with a marker line such as
// `#太字+枠線 color=#ffcc00#`, close it with `##`, and may combine
// several decorations on one block. Parse builds an immutable Document
// tree; Render walks it and emits HTML. Malformed input never aborts a
// parse: each problem becomes a ValidationIssue plus a visibly flagged
// error fragment in the output, so a document with mistakes still
// converts end to end.
//
//	doc, err := kumihan.Parse(src, nil)
//	if err != nil {
//	    return err
//	}
//	html, err := kumihan.Render(doc, kumihan.RenderOptions{Standalone: true})
//
// Compound keywords resolve to a canonical nesting order that does not
// depend on the order they were written, so `#太字+枠線#` and
// `#枠線+太字#` render identically. The keyword table is injectable:
// pass a table built from DefaultKeywords plus custom entries to teach
// the parser new markers without touching it.
package kumihan
