package kumihan

import (
	"strings"
	"testing"
)

func TestGenerateTOCNesting(t *testing.T) {
	src := strings.Join([]string{
		"#見出し1# 第一章",
		"#見出し2# 第一節",
		"#見出し3# 第一項",
		"#見出し2# 第二節",
		"#見出し1# 第二章",
	}, "\n")
	toc := GenerateTOC(mustParse(t, src))

	if len(toc.Entries) != 2 {
		t.Fatalf("got %d top entries, want 2", len(toc.Entries))
	}
	first := toc.Entries[0]
	if first.Text != "第一章" || len(first.Children) != 2 {
		t.Fatalf("first chapter = %+v", first)
	}
	if first.Children[0].Text != "第一節" || len(first.Children[0].Children) != 1 {
		t.Errorf("first section = %+v", first.Children[0])
	}
	if first.Children[1].Text != "第二節" {
		t.Errorf("second section = %+v", first.Children[1])
	}
	if toc.Entries[1].Text != "第二章" || len(toc.Entries[1].Children) != 0 {
		t.Errorf("second chapter = %+v", toc.Entries[1])
	}
}

func TestGenerateTOCSkippedLevel(t *testing.T) {
	// A level-3 heading after a level-1 nests under it directly: the
	// rule is "nearest preceding heading with a smaller level".
	src := "#見出し1# 章\n#見出し3# 深い項"
	toc := GenerateTOC(mustParse(t, src))

	if len(toc.Entries) != 1 {
		t.Fatalf("got %d top entries, want 1", len(toc.Entries))
	}
	if len(toc.Entries[0].Children) != 1 || toc.Entries[0].Children[0].Text != "深い項" {
		t.Errorf("entries = %+v", toc.Entries[0])
	}
}

func TestTOCIdsUniqueForDuplicateText(t *testing.T) {
	src := strings.Join([]string{
		"#見出し1# 概要",
		"#見出し1# 詳細",
		"#見出し1# 概要",
	}, "\n")
	toc := GenerateTOC(mustParse(t, src))

	seen := map[string]bool{}
	for _, e := range toc.Entries {
		if seen[e.ID] {
			t.Errorf("duplicate id %q", e.ID)
		}
		seen[e.ID] = true
	}
	if toc.Entries[0].ID != "heading-1" || toc.Entries[2].ID != "heading-3" {
		t.Errorf("ids not assigned in document order: %+v", toc.Entries)
	}
}

func TestTOCHTMLEscapesHeadingText(t *testing.T) {
	toc := GenerateTOC(mustParse(t, "#見出し1# A & B"))
	html := toc.HTML()
	if !strings.Contains(html, "A &amp; B") {
		t.Errorf("heading text not escaped: %q", html)
	}
	if !strings.Contains(html, `<nav class="toc">`) {
		t.Errorf("nav wrapper missing: %q", html)
	}
}

func TestEmptyTOC(t *testing.T) {
	toc := GenerateTOC(mustParse(t, "ただの文章"))
	if got := toc.HTML(); got != "" {
		t.Errorf("empty TOC rendered %q", got)
	}
}
