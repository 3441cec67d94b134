package kumihan

import (
	"strings"
	"testing"
)

func renderFragment(t *testing.T, src string) string {
	t.Helper()
	doc := mustParse(t, src)
	html, err := Render(doc, RenderOptions{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	return html
}

func TestRenderSimpleBlock(t *testing.T) {
	got := renderFragment(t, "#太字#\n重要\n##")
	if strings.TrimSpace(got) != "<strong>重要</strong>" {
		t.Errorf("got %q", got)
	}
}

func TestRenderCompoundOrderIndependent(t *testing.T) {
	want := `<div class="box"><strong>内容</strong></div>`

	for _, src := range []string{
		"#太字+枠線#\n内容\n##",
		"#枠線+太字#\n内容\n##",
	} {
		got := renderFragment(t, src)
		if strings.TrimSpace(got) != want {
			t.Errorf("render(%q) = %q, want %q", src, got, want)
		}
	}
}

func TestRenderEscapesTextOnce(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "plain paragraph", src: "a < b & c > d"},
		{name: "inside one block", src: "#太字#\na < b & c > d\n##"},
		{name: "deeply nested", src: "#枠線#\n#ハイライト#\n#太字#\na < b & c > d\n##\n##\n##"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := renderFragment(t, tt.src)
			if !strings.Contains(got, "a &lt; b &amp; c &gt; d") {
				t.Errorf("expected exactly one level of escaping, got %q", got)
			}
			if strings.Contains(got, "&amp;lt;") || strings.Contains(got, "&amp;amp;") {
				t.Errorf("double escaping detected: %q", got)
			}
		})
	}
}

func TestRenderBalancedTags(t *testing.T) {
	src := strings.Join([]string{
		"#折りたたみ+枠線+太字#",
		"中身",
		"#ハイライト color=#00ff00#",
		"さらに中",
		"##",
		"##",
	}, "\n")
	got := renderFragment(t, src)

	for _, tag := range []string{"details", "div", "strong", "p"} {
		opens := strings.Count(got, "<"+tag)
		closes := strings.Count(got, "</"+tag+">")
		if opens != closes {
			t.Errorf("tag %q unbalanced: %d opens, %d closes in %q", tag, opens, closes, got)
		}
	}
}

func TestRenderEmptyBlock(t *testing.T) {
	got := renderFragment(t, "#枠線#\n##")
	if strings.TrimSpace(got) != `<div class="box"></div>` {
		t.Errorf("got %q", got)
	}
}

func TestRenderErrorFragment(t *testing.T) {
	got := renderFragment(t, "前の文\n#太文字#\n内容\n##\n後の文")

	if !strings.Contains(got, "<p>前の文</p>") || !strings.Contains(got, "<p>後の文</p>") {
		t.Errorf("surrounding content lost: %q", got)
	}
	if !strings.Contains(got, `class="kumihan-error"`) {
		t.Errorf("no error fragment: %q", got)
	}
	if !strings.Contains(got, "[line 2]") {
		t.Errorf("error fragment lacks the line number: %q", got)
	}
	if !strings.Contains(got, "太字") {
		t.Errorf("error fragment lacks the suggestion: %q", got)
	}
	if !strings.Contains(got, "<p>内容</p>") {
		t.Errorf("block content dropped: %q", got)
	}
}

func TestRenderUnclosedBlockStillRenders(t *testing.T) {
	got := renderFragment(t, "前\n#太字#\n内容")

	if !strings.Contains(got, "<p>前</p>") {
		t.Errorf("content before the broken block lost: %q", got)
	}
	if !strings.Contains(got, "<strong>") || !strings.Contains(got, "</strong>") {
		t.Errorf("best-effort block missing: %q", got)
	}
	if !strings.Contains(got, `class="kumihan-error"`) {
		t.Errorf("no visible error flag: %q", got)
	}
}

func TestRenderHighlightColor(t *testing.T) {
	got := renderFragment(t, "#ハイライト color=#ffcc00#\n注目\n##")
	if !strings.Contains(got, `<div class="highlight" style="background-color:#ffcc00">`) {
		t.Errorf("got %q", got)
	}
	if strings.Count(got, "#ffcc00") != 1 {
		t.Errorf("color duplicated: %q", got)
	}
}

func TestRenderDetailsSummary(t *testing.T) {
	got := renderFragment(t, "#ネタバレ#\n犯人は執事\n##")
	if !strings.Contains(got, `<details class="spoiler"><summary>ネタバレを表示</summary>`) {
		t.Errorf("got %q", got)
	}
	if !strings.Contains(got, "</details>") {
		t.Errorf("details not closed: %q", got)
	}
}

func TestRenderImagePath(t *testing.T) {
	got := renderFragment(t, "#画像 alt=図解# diagram.png")
	if !strings.Contains(got, `<img src="images/diagram.png" alt="図解">`) {
		t.Errorf("got %q", got)
	}
}

func TestRenderLists(t *testing.T) {
	got := renderFragment(t, "- #太字# 重要\n- 普通\n\n1. 最初")

	if !strings.Contains(got, "<ul>") || !strings.Contains(got, "</ul>") {
		t.Errorf("unordered list missing: %q", got)
	}
	if !strings.Contains(got, "<li><strong>重要</strong></li>") {
		t.Errorf("annotated item wrong: %q", got)
	}
	if !strings.Contains(got, "<li>普通</li>") {
		t.Errorf("plain item wrong: %q", got)
	}
	if !strings.Contains(got, "<ol>") {
		t.Errorf("ordered list missing: %q", got)
	}
}

func TestRenderHeadingAnchorsMatchTOC(t *testing.T) {
	src := strings.Join([]string{
		"#目次#",
		"#見出し1# 概要",
		"#見出し2# 背景",
		"#見出し1# 概要",
	}, "\n")
	got := renderFragment(t, src)

	for _, id := range []string{"heading-1", "heading-2", "heading-3"} {
		if !strings.Contains(got, `href="#`+id+`"`) {
			t.Errorf("TOC link for %s missing: %q", id, got)
		}
		if !strings.Contains(got, `id="`+id+`"`) {
			t.Errorf("anchor %s missing: %q", id, got)
		}
	}
	// Two headings share the text 概要 but never an id.
	if strings.Count(got, `id="heading-1"`) != 1 {
		t.Errorf("duplicate anchor id: %q", got)
	}
}

func TestRenderCodeBlock(t *testing.T) {
	got := renderFragment(t, "#コードブロック lang=go#\nfmt.Println(\"hi\")\n##")
	if !strings.Contains(got, "<pre><code>") || !strings.Contains(got, "</code></pre>") {
		t.Errorf("code block wrapper missing: %q", got)
	}
	if !strings.Contains(got, "Println") {
		t.Errorf("code content missing: %q", got)
	}
}

func TestRenderStandalone(t *testing.T) {
	doc := mustParse(t, "こんにちは")
	got, err := Render(doc, RenderOptions{Standalone: true, Title: "テスト<文書>"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.HasPrefix(got, "<!DOCTYPE html>") {
		t.Errorf("missing doctype: %q", got)
	}
	if !strings.Contains(got, "<title>テスト&lt;文書&gt;</title>") {
		t.Errorf("title not escaped: %q", got)
	}
	if !strings.Contains(got, "</html>") {
		t.Errorf("page not closed: %q", got)
	}
}

func TestRenderUnexpectedNodeType(t *testing.T) {
	doc := mustParse(t, "x")
	doc.Nodes()[0].Type = NodeType(99)

	if _, err := Render(doc, RenderOptions{}); err == nil {
		t.Fatal("an unexpected node kind must surface as a hard error")
	}
}

func TestRenderConcurrentDocuments(t *testing.T) {
	// Rendering is a pure walk; independent documents may render in
	// parallel.
	done := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			doc, err := Parse("#太字+枠線#\n内容\n##", nil)
			if err != nil {
				done <- err
				return
			}
			_, err = Render(doc, RenderOptions{})
			done <- err
		}()
	}
	for i := 0; i < 8; i++ {
		if err := <-done; err != nil {
			t.Fatal(err)
		}
	}
}
