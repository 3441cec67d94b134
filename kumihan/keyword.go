package kumihan

import (
	"fmt"
	"sort"
	"strings"
)

// A Slot is the canonical position a keyword occupies in the nesting
// order. Two keywords sharing a slot conflict: the later one wins and a
// warning is recorded.
type Slot uint32

const (
	SlotNone Slot = iota
	SlotDetails
	SlotHeading
)

// A SpecialKind marks keywords that produce a dedicated node kind
// instead of a generic decorated block.
type SpecialKind uint32

const (
	SpecialNone SpecialKind = iota
	SpecialImage
	SpecialToc
	SpecialCodeBlock
)

// A KeywordDescriptor maps one keyword name to the HTML it produces.
// The parser never branches on keyword names; all behavior comes from
// the descriptor table, so adding a keyword never touches control flow.
type KeywordDescriptor struct {
	Name    string
	Tag     string
	Classes []string

	// Rank orders compound keywords during resolution: lower ranks
	// render outermost. Keywords with equal rank keep their table
	// registration order.
	Rank int

	Slot    Slot
	Special SpecialKind

	// ColorCapable marks the descriptor that absorbs a color attribute
	// as a background style.
	ColorCapable bool

	// Summary is the <summary> text for details-type keywords.
	Summary string

	// HeadingLevel is 1..5 for the heading keywords, 0 otherwise.
	HeadingLevel int
}

// A KeywordTable is the injectable mapping from keyword names to
// descriptors consumed while parsing marker lines. Built-in defaults
// come from DefaultKeywords; callers may add or override entries before
// handing the table to Parse.
type KeywordTable struct {
	order  []string
	byName map[string]KeywordDescriptor
}

// NewKeywordTable returns an empty table.
func NewKeywordTable() *KeywordTable {
	return &KeywordTable{byName: make(map[string]KeywordDescriptor)}
}

// DefaultKeywords returns a table with the built-in keyword set.
func DefaultKeywords() *KeywordTable {
	t := NewKeywordTable()
	defaults := []KeywordDescriptor{
		{Name: "折りたたみ", Tag: "details", Rank: 10, Slot: SlotDetails, Summary: "詳細を表示"},
		{Name: "ネタバレ", Tag: "details", Classes: []string{"spoiler"}, Rank: 10, Slot: SlotDetails, Summary: "ネタバレを表示"},
		{Name: "枠線", Tag: "div", Classes: []string{"box"}, Rank: 20},
		{Name: "ハイライト", Tag: "div", Classes: []string{"highlight"}, Rank: 30, ColorCapable: true},
		{Name: "中央寄せ", Tag: "div", Classes: []string{"center"}, Rank: 40},
		{Name: "見出し1", Tag: "h1", Rank: 50, Slot: SlotHeading, HeadingLevel: 1},
		{Name: "見出し2", Tag: "h2", Rank: 50, Slot: SlotHeading, HeadingLevel: 2},
		{Name: "見出し3", Tag: "h3", Rank: 50, Slot: SlotHeading, HeadingLevel: 3},
		{Name: "見出し4", Tag: "h4", Rank: 50, Slot: SlotHeading, HeadingLevel: 4},
		{Name: "見出し5", Tag: "h5", Rank: 50, Slot: SlotHeading, HeadingLevel: 5},
		{Name: "太字", Tag: "strong", Rank: 60},
		{Name: "イタリック", Tag: "em", Rank: 61},
		{Name: "下線", Tag: "u", Rank: 62},
		{Name: "取り消し線", Tag: "del", Rank: 63},
		{Name: "コード", Tag: "code", Rank: 64},
		{Name: "画像", Tag: "img", Special: SpecialImage},
		{Name: "目次", Special: SpecialToc},
		{Name: "コードブロック", Tag: "pre", Special: SpecialCodeBlock},
	}
	for _, d := range defaults {
		t.Add(d)
	}
	return t
}

// Add registers or overrides a descriptor.
func (t *KeywordTable) Add(d KeywordDescriptor) {
	if _, exists := t.byName[d.Name]; !exists {
		t.order = append(t.order, d.Name)
	}
	t.byName[d.Name] = d
}

// Lookup returns the descriptor for a keyword name.
func (t *KeywordTable) Lookup(name string) (KeywordDescriptor, bool) {
	d, ok := t.byName[name]
	return d, ok
}

// Names returns the registered keyword names in registration order.
func (t *KeywordTable) Names() []string {
	return append([]string(nil), t.order...)
}

// orderIndex returns the registration position of a name, used as the
// deterministic tie-breaker between equal ranks.
func (t *KeywordTable) orderIndex(name string) int {
	for i, n := range t.order {
		if n == name {
			return i
		}
	}
	return len(t.order)
}

// Suggest returns the registered name nearest to the unknown name, or
// the empty string when nothing is close enough to be a likely typo.
func (t *KeywordTable) Suggest(name string) string {
	best := ""
	bestDist := maxSuggestDistance + 1
	for _, candidate := range t.order {
		d := editDistance(name, candidate)
		if d < bestDist {
			best = candidate
			bestDist = d
		}
	}
	if bestDist > maxSuggestDistance {
		return ""
	}
	return best
}

const maxSuggestDistance = 2

// editDistance is the Levenshtein distance between two strings,
// measured in runes so multi-byte keyword names compare sensibly.
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min3(cur[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// A KeywordSet is the parsed, duplicate-free keyword collection of one
// marker, in source order, plus its optional attributes.
type KeywordSet struct {
	Keywords []string

	// Color is a validated "#rrggbb" value or a named color, empty if
	// the marker carried no color attribute.
	Color string

	// Lang is the lexer hint of a code block, empty otherwise.
	Lang string

	// Alt is the alternative text of an image block, empty otherwise.
	Alt string
}

// Contains reports whether the set includes the keyword name.
func (s *KeywordSet) Contains(name string) bool {
	for _, k := range s.Keywords {
		if k == name {
			return true
		}
	}
	return false
}

func (s *KeywordSet) String() string {
	var b strings.Builder
	b.WriteString(strings.Join(s.Keywords, "+"))
	if len(s.Color) > 0 {
		b.WriteString(" color=")
		b.WriteString(s.Color)
	}
	if len(s.Lang) > 0 {
		b.WriteString(" lang=")
		b.WriteString(s.Lang)
	}
	return b.String()
}

// The recommended ceiling for combined keywords. Exceeding it is a
// style warning, never an error.
const softKeywordLimit = 3

const fullWidthConnector = "＋"

// namedColors are the color names accepted in a color attribute,
// matched case-insensitively but requiring consistent case.
var namedColors = []string{
	"black", "blue", "brown", "cyan", "gray", "green", "lime", "magenta",
	"navy", "orange", "pink", "purple", "red", "teal", "white", "yellow",
}

func knownColorName(name string) bool {
	lower := strings.ToLower(name)
	i := sort.SearchStrings(namedColors, lower)
	return i < len(namedColors) && namedColors[i] == lower
}

// consistentCase reports whether a named color is written either all
// lowercase or all uppercase. Mixed case inside one attribute is a
// syntax error.
func consistentCase(name string) bool {
	return name == strings.ToLower(name) || name == strings.ToUpper(name)
}

func validHexColor(v string) bool {
	if len(v) != 7 || v[0] != '#' {
		return false
	}
	for _, c := range v[1:] {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// ParseMarker parses the keyword text of a marker line into a
// KeywordSet. Problems never abort: each one is returned as an issue
// and the set keeps every keyword that did parse, so the caller can
// still pair the block with its close marker.
func ParseMarker(text string, line int, table *KeywordTable) (*KeywordSet, []ValidationIssue) {
	var issues []ValidationIssue
	set := &KeywordSet{}

	if len(strings.TrimSpace(text)) == 0 {
		issues = append(issues, ValidationIssue{
			Line:     line,
			Severity: SeverityError,
			Code:     CodeEmptyMarker,
			Message:  "marker has no keyword",
		})
		return set, issues
	}

	// The keyword part ends at the first attribute ("key=value" word).
	words := strings.Fields(text)
	keywordPart := ""
	attrWords := []string{}
	for i, w := range words {
		if strings.ContainsRune(w, '=') {
			attrWords = words[i:]
			break
		}
		if len(keywordPart) > 0 {
			keywordPart += " "
		}
		keywordPart += w
	}
	if len(attrWords) == 0 {
		keywordPart = strings.Join(words, " ")
	}

	halfWidth := strings.Contains(keywordPart, "+")
	fullWidth := strings.Contains(keywordPart, fullWidthConnector)
	if halfWidth && fullWidth {
		issues = append(issues, ValidationIssue{
			Line:     line,
			Severity: SeverityError,
			Code:     CodeMixedConnector,
			Message:  "compound mixes half-width '+' and full-width '＋' connectors",
		})
	}

	normalized := strings.ReplaceAll(keywordPart, fullWidthConnector, "+")
	for _, token := range strings.Split(normalized, "+") {
		token = strings.TrimSpace(token)
		if len(token) == 0 {
			continue
		}
		if set.Contains(token) {
			// Ordered insertion, duplicates dropped.
			continue
		}
		if _, ok := table.Lookup(token); !ok {
			issue := ValidationIssue{
				Line:     line,
				Severity: SeverityError,
				Code:     CodeUnknownKeyword,
				Message:  fmt.Sprintf("unknown keyword %q", token),
			}
			if s := table.Suggest(token); len(s) > 0 {
				issue.Suggestion = fmt.Sprintf("did you mean %q?", s)
			}
			issues = append(issues, issue)
			continue
		}
		set.Keywords = append(set.Keywords, token)
	}

	if len(set.Keywords) > softKeywordLimit {
		issues = append(issues, ValidationIssue{
			Line:     line,
			Severity: SeverityWarning,
			Code:     CodeCompoundSize,
			Message:  fmt.Sprintf("%d combined keywords; more than %d is hard to read", len(set.Keywords), softKeywordLimit),
		})
	}

	for _, w := range attrWords {
		key, value, _ := strings.Cut(w, "=")
		switch key {
		case "color":
			color, colorIssues := parseColor(value, line)
			issues = append(issues, colorIssues...)
			set.Color = color
		case "lang":
			set.Lang = value
		case "alt":
			set.Alt = value
		default:
			issues = append(issues, ValidationIssue{
				Line:     line,
				Severity: SeverityWarning,
				Code:     CodeUnknownAttribute,
				Message:  fmt.Sprintf("unknown attribute %q", key),
			})
		}
	}

	return set, issues
}

// parseColor validates a color attribute value: either "#rrggbb" or a
// known color name in consistent case. Invalid values are reported and
// dropped rather than rendered.
func parseColor(value string, line int) (string, []ValidationIssue) {
	if strings.HasPrefix(value, "#") {
		if !validHexColor(value) {
			return "", []ValidationIssue{{
				Line:     line,
				Severity: SeverityError,
				Code:     CodeColorSyntax,
				Message:  fmt.Sprintf("invalid hex color %q, expected #rrggbb", value),
			}}
		}
		return value, nil
	}

	if !knownColorName(value) {
		return "", []ValidationIssue{{
			Line:     line,
			Severity: SeverityError,
			Code:     CodeColorSyntax,
			Message:  fmt.Sprintf("unknown color name %q", value),
		}}
	}
	if !consistentCase(value) {
		return "", []ValidationIssue{{
			Line:     line,
			Severity: SeverityError,
			Code:     CodeColorCaseMix,
			Message:  fmt.Sprintf("color name %q mixes upper and lower case", value),
		}}
	}
	return value, nil
}
