package kumihan

import (
	"html"
	"strings"
)

// A TOCEntry is one heading in the table of contents.
type TOCEntry struct {
	ID    string
	Text  string
	Level int

	// Children are the headings nested under this one: every following
	// heading with a larger level, up to the next heading with a level
	// less than or equal to this one.
	Children []*TOCEntry
}

// A TOC is the navigation structure derived from a Document's
// headings.
type TOC struct {
	Entries []*TOCEntry
}

// GenerateTOC collects the Document's headings in document order and
// assigns each its anchor id, "heading-1", "heading-2", and so on.
// Ids are monotonic and unique even when heading texts repeat; the
// renderer assigns the same sequence to the headings themselves, so
// links and anchors always agree.
func GenerateTOC(doc *Document) *TOC {
	toc := &TOC{}

	// Stack of the entries still open for nesting; an incoming level k
	// nests under the nearest preceding heading with a smaller level.
	var open []*TOCEntry

	for i, h := range doc.Headings() {
		entry := &TOCEntry{
			ID:    headingID(i + 1),
			Text:  headingText(h),
			Level: h.Level,
		}

		for len(open) > 0 && open[len(open)-1].Level >= entry.Level {
			open = open[:len(open)-1]
		}
		if len(open) == 0 {
			toc.Entries = append(toc.Entries, entry)
		} else {
			parent := open[len(open)-1]
			parent.Children = append(parent.Children, entry)
		}
		open = append(open, entry)
	}

	return toc
}

func headingText(h *Node) string {
	if len(h.Text) > 0 {
		return h.Text
	}
	var parts []string
	for _, c := range h.Children() {
		if c.Type == ParagraphNode {
			parts = append(parts, c.Text)
		}
	}
	return strings.Join(parts, " ")
}

// HTML renders the TOC as a nested navigation list. An empty TOC
// renders to nothing.
func (t *TOC) HTML() string {
	if len(t.Entries) == 0 {
		return ""
	}
	br := &ByteRenderer{}
	br.Renderln(`<nav class="toc">`)
	renderEntries(br, t.Entries)
	br.Renderln("</nav>")
	return br.String()
}

func renderEntries(br *ByteRenderer, entries []*TOCEntry) {
	br.Renderln("<ul>")
	for _, e := range entries {
		br.Render(`<li><a href="#`, e.ID, `">`, html.EscapeString(e.Text), "</a>")
		if len(e.Children) > 0 {
			br.Renderln()
			renderEntries(br, e.Children)
		}
		br.Renderln("</li>")
	}
	br.Renderln("</ul>")
}
