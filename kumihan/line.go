package kumihan

import (
	"strconv"
	"strings"
)

const (
	markerChar  = '#'
	closeMarker = "##"
)

// A Line is one raw source line with its 1-based line number.
type Line struct {
	Number int
	Text   string
}

// SplitLines splits the source text into Lines. Trailing carriage
// returns are stripped so CRLF input behaves like LF input.
func SplitLines(src string) []Line {
	raw := strings.Split(src, "\n")
	lines := make([]Line, len(raw))
	for i, text := range raw {
		lines[i] = Line{
			Number: i + 1,
			Text:   strings.TrimSuffix(text, "\r"),
		}
	}
	return lines
}

// A LineKind is the classification of one source line.
type LineKind uint32

const (
	LineBlank LineKind = iota
	LineOpen
	LineClose
	LineListItem
	LineText
)

// String returns a string representation of the LineKind.
func (k LineKind) String() string {
	switch k {
	case LineBlank:
		return "Blank"
	case LineOpen:
		return "OpenMarker"
	case LineClose:
		return "CloseMarker"
	case LineListItem:
		return "ListItem"
	case LineText:
		return "Text"
	}
	return "Invalid(" + strconv.Itoa(int(k)) + ")"
}

// A Classified is the result of classifying one Line: the kind plus the
// payload extracted from it.
type Classified struct {
	Kind LineKind

	// Marker is the keyword text between the marker characters of an
	// open-marker line, e.g. "太字+枠線 color=#ffcc00".
	Marker string

	// Inline is the text after the closing marker character of an
	// open-marker line. When non-empty the block is a single-line
	// block and no close-marker line is expected.
	Inline string

	// Ordered is set for list items introduced by "N. ".
	Ordered bool

	// Content is the item text of a list item or the trimmed text of a
	// plain text line.
	Content string
}

// ClassifyLine classifies a single Line. It is a pure function: no
// lookahead, no state. Leading and trailing whitespace is not
// significant for classification.
func ClassifyLine(l Line) Classified {
	text := strings.TrimSpace(l.Text)

	if len(text) == 0 {
		return Classified{Kind: LineBlank}
	}

	if text == closeMarker {
		return Classified{Kind: LineClose}
	}

	if text[0] == markerChar {
		if marker, inline, ok := splitMarker(text); ok {
			return Classified{Kind: LineOpen, Marker: marker, Inline: inline}
		}
		// A lone '#' with no closing marker is ordinary text.
		return Classified{Kind: LineText, Content: text}
	}

	if marker, content, ordered, ok := splitListItem(text); ok {
		return Classified{Kind: LineListItem, Content: content, Ordered: ordered, Marker: marker}
	}

	return Classified{Kind: LineText, Content: text}
}

// splitMarker extracts the keyword text of an open-marker line. The
// marker closes at the first '#' that is not the leading one and is not
// part of a color value such as "color=#ffcc00".
func splitMarker(text string) (marker, inline string, ok bool) {
	for i := 1; i < len(text); i++ {
		if text[i] != markerChar {
			continue
		}
		if i > 1 && text[i-1] == '=' {
			// Start of a hex color value, not the closing marker.
			continue
		}
		marker = strings.TrimSpace(text[1:i])
		inline = strings.TrimSpace(text[i+1:])
		return marker, inline, true
	}
	return "", "", false
}

// splitListItem recognizes the three list markers: "- ", "・" and
// "N. " with N a run of digits.
func splitListItem(text string) (marker, content string, ordered, ok bool) {
	if strings.HasPrefix(text, "- ") {
		return "-", strings.TrimSpace(text[2:]), false, true
	}
	if strings.HasPrefix(text, "・") {
		return "・", strings.TrimSpace(text[len("・"):]), false, true
	}

	// Ordered items: one or more digits, a dot and a space.
	i := 0
	for i < len(text) && text[i] >= '0' && text[i] <= '9' {
		i++
	}
	if i > 0 && strings.HasPrefix(text[i:], ". ") {
		return text[:i+1], strings.TrimSpace(text[i+2:]), true, true
	}

	return "", "", false, false
}
