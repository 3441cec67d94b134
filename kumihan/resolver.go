package kumihan

import (
	"fmt"
	"sort"
	"strings"
)

// A TagSpec is one HTML element to emit around a block's content:
// the tag name, its classes and an optional inline style. Resolve
// returns them outermost first.
type TagSpec struct {
	Tag     string
	Classes []string
	Style   string
	Summary string
}

// StartTag renders the opening tag, e.g. `<div class="box">`.
func (t TagSpec) StartTag() string {
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(t.Tag)
	if len(t.Classes) > 0 {
		b.WriteString(` class="`)
		b.WriteString(strings.Join(t.Classes, " "))
		b.WriteByte('"')
	}
	if len(t.Style) > 0 {
		b.WriteString(` style="`)
		b.WriteString(t.Style)
		b.WriteByte('"')
	}
	b.WriteByte('>')
	return b.String()
}

// EndTag renders the closing tag, e.g. `</div>`.
func (t TagSpec) EndTag() string {
	return "</" + t.Tag + ">"
}

// Resolve maps a KeywordSet to its canonical tag nesting. The result
// depends only on which keywords are in the set, never on the order
// they appeared in source: descriptors sort by rank, ties by table
// registration order. Two keywords in the same canonical slot conflict;
// the one later in source wins and a warning is recorded. A color
// attribute merges into exactly one descriptor: the color-capable one
// as a background, otherwise the outermost one as a text color.
func (t *KeywordTable) Resolve(set *KeywordSet, line int) ([]TagSpec, []ValidationIssue) {
	var issues []ValidationIssue

	// Gather descriptors, resolving slot conflicts last-wins.
	descriptors := make([]KeywordDescriptor, 0, len(set.Keywords))
	for _, name := range set.Keywords {
		d, ok := t.Lookup(name)
		if !ok || d.Special != SpecialNone {
			continue
		}
		if d.Slot != SlotNone {
			replaced := false
			for i, prev := range descriptors {
				if prev.Slot == d.Slot {
					issues = append(issues, ValidationIssue{
						Line:     line,
						Severity: SeverityWarning,
						Code:     CodeDuplicateSlot,
						Message:  fmt.Sprintf("keywords %q and %q occupy the same slot; %q wins", prev.Name, d.Name, d.Name),
					})
					descriptors[i] = d
					replaced = true
					break
				}
			}
			if replaced {
				continue
			}
		}
		descriptors = append(descriptors, d)
	}

	sort.SliceStable(descriptors, func(i, j int) bool {
		if descriptors[i].Rank != descriptors[j].Rank {
			return descriptors[i].Rank < descriptors[j].Rank
		}
		return t.orderIndex(descriptors[i].Name) < t.orderIndex(descriptors[j].Name)
	})

	specs := make([]TagSpec, len(descriptors))
	for i, d := range descriptors {
		specs[i] = TagSpec{
			Tag:     d.Tag,
			Classes: append([]string(nil), d.Classes...),
			Summary: d.Summary,
		}
	}

	if len(set.Color) > 0 && len(specs) > 0 {
		merged := false
		for i, d := range descriptors {
			if d.ColorCapable {
				specs[i].Style = "background-color:" + set.Color
				merged = true
				break
			}
		}
		if !merged {
			specs[0].Style = "color:" + set.Color
		}
	}

	return specs, issues
}
