package kumihan

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Classified
	}{
		{
			name: "blank line",
			text: "   ",
			want: Classified{Kind: LineBlank},
		},
		{
			name: "close marker",
			text: "##",
			want: Classified{Kind: LineClose},
		},
		{
			name: "close marker with surrounding spaces",
			text: "  ##  ",
			want: Classified{Kind: LineClose},
		},
		{
			name: "simple open marker",
			text: "#太字#",
			want: Classified{Kind: LineOpen, Marker: "太字"},
		},
		{
			name: "compound open marker with color",
			text: "#太字+枠線 color=#ffcc00#",
			want: Classified{Kind: LineOpen, Marker: "太字+枠線 color=#ffcc00"},
		},
		{
			name: "single-line block",
			text: "#太字# 重要",
			want: Classified{Kind: LineOpen, Marker: "太字", Inline: "重要"},
		},
		{
			name: "single-line block with hash in content",
			text: "#太字# C#を学ぶ",
			want: Classified{Kind: LineOpen, Marker: "太字", Inline: "C#を学ぶ"},
		},
		{
			name: "color value then inline content",
			text: "#ハイライト color=#ff0000# 注目",
			want: Classified{Kind: LineOpen, Marker: "ハイライト color=#ff0000", Inline: "注目"},
		},
		{
			name: "lone hash is text",
			text: "#これはマーカーではない",
			want: Classified{Kind: LineText, Content: "#これはマーカーではない"},
		},
		{
			name: "dash list item",
			text: "- 最初の項目",
			want: Classified{Kind: LineListItem, Marker: "-", Content: "最初の項目"},
		},
		{
			name: "bullet list item",
			text: "・二番目",
			want: Classified{Kind: LineListItem, Marker: "・", Content: "二番目"},
		},
		{
			name: "numbered list item",
			text: "12. 項目",
			want: Classified{Kind: LineListItem, Marker: "12.", Content: "項目", Ordered: true},
		},
		{
			name: "number without dot is text",
			text: "12 項目",
			want: Classified{Kind: LineText, Content: "12 項目"},
		},
		{
			name: "plain text",
			text: "ただの文章です。",
			want: Classified{Kind: LineText, Content: "ただの文章です。"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyLine(Line{Number: 1, Text: tt.text})
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ClassifyLine(%q) mismatch (-want +got):\n%s", tt.text, diff)
			}
		})
	}
}

func TestSplitLines(t *testing.T) {
	lines := SplitLines("一行目\r\n二行目\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if lines[0].Text != "一行目" {
		t.Errorf("CR not stripped: %q", lines[0].Text)
	}
	if lines[1].Number != 2 {
		t.Errorf("line numbers must be 1-based, got %d", lines[1].Number)
	}
}
