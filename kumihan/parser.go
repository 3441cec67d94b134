package kumihan

import (
	"fmt"
	"strings"
)

// MaxNestingDepth bounds the open-block stack. Markers nested deeper
// become structure errors instead of unbounded recursion.
const MaxNestingDepth = 50

// Parse converts Kumihan notation into a Document. table is the
// injectable keyword mapping; nil means DefaultKeywords. Malformed
// input never fails the call: every recoverable problem is recorded as
// a ValidationIssue plus an error node at the offending spot, and the
// rest of the document parses normally. The only error returned is
// ErrNoContent for empty input.
func Parse(src string, table *KeywordTable) (*Document, error) {
	if len(src) == 0 {
		return nil, ErrNoContent
	}
	if table == nil {
		table = DefaultKeywords()
	}

	p := &parser{
		table:     table,
		colorCase: make(map[string]string),
		doc: &Document{
			root:  &Node{Type: DocumentNode},
			table: table,
		},
	}
	p.run(SplitLines(src))
	return p.doc, nil
}

// OpenBlockDepth reports how many blocks remain open after scanning
// src. External chunkers use it to find safe cut points: a boundary is
// safe only where the depth is zero, otherwise the cut would split an
// open block. nil table means DefaultKeywords.
func OpenBlockDepth(src string, table *KeywordTable) int {
	if table == nil {
		table = DefaultKeywords()
	}

	depth := 0
	verbatim := false
	for _, line := range SplitLines(src) {
		if verbatim {
			if strings.TrimSpace(line.Text) == closeMarker {
				depth--
				verbatim = false
			}
			continue
		}

		c := ClassifyLine(line)
		switch c.Kind {
		case LineOpen:
			if len(c.Inline) > 0 {
				// Single-line blocks close themselves.
				continue
			}
			set, _ := ParseMarker(c.Marker, line.Number, table)
			if special := specialKind(set, table); special == SpecialToc {
				continue
			} else if special == SpecialCodeBlock || special == SpecialImage {
				verbatim = true
			}
			depth++
		case LineClose:
			if depth > 0 {
				depth--
			}
		}
	}
	return depth
}

func specialKind(set *KeywordSet, table *KeywordTable) SpecialKind {
	for _, name := range set.Keywords {
		if d, ok := table.Lookup(name); ok && d.Special != SpecialNone {
			return d.Special
		}
	}
	return SpecialNone
}

// A frame is one entry of the open-block stack: the node being filled
// and the line its open marker appeared on.
type frame struct {
	node      *Node
	startLine int

	// verbatim frames (code blocks, images) collect raw lines; their
	// content is never scanned for markers.
	verbatim bool
}

// parser holds all mutable state of a single Parse call. It is never
// shared, so parsing is reentrant.
type parser struct {
	table *KeywordTable
	doc   *Document
	stack []frame

	// Pending paragraph lines and pending list, flushed when the
	// construct ends.
	para     []string
	paraLine int
	list     *Node

	// First-seen spelling per named color, for the document-wide
	// case-consistency check.
	colorCase map[string]string
}

func (p *parser) run(lines []Line) {
	for _, line := range lines {
		if top := p.top(); top != nil && top.verbatim {
			if strings.TrimSpace(line.Text) == closeMarker {
				p.closeBlock(line)
			} else {
				top.node.Text += line.Text + "\n"
			}
			continue
		}

		c := ClassifyLine(line)
		switch c.Kind {
		case LineBlank:
			p.flushPara()
			p.flushList()
		case LineOpen:
			p.flushPara()
			p.flushList()
			p.openBlock(line, c)
		case LineClose:
			p.flushPara()
			p.flushList()
			p.closeBlock(line)
		case LineListItem:
			p.flushPara()
			p.listItem(line, c)
		case LineText:
			p.flushList()
			if p.para == nil {
				p.paraLine = line.Number
			}
			p.para = append(p.para, c.Content)
		}
	}

	p.flushPara()
	p.flushList()

	// Frames still open at EOF: one structure error each, but the
	// collected children are kept so valid content is not lost.
	for len(p.stack) > 0 {
		f := p.pop()
		msg := fmt.Sprintf("block opened at line %d is never closed", f.startLine)
		p.issue(ValidationIssue{
			Line:     f.startLine,
			Severity: SeverityError,
			Code:     CodeUnclosedBlock,
			Message:  msg,
		})
		f.node.AppendChild(&Node{
			Type:       ErrorNode,
			LineNumber: f.startLine,
			Code:       CodeUnclosedBlock,
			Message:    msg,
		})
		p.finalize(f)
		p.attach(f.node)
	}
}

func (p *parser) top() *frame {
	if len(p.stack) == 0 {
		return nil
	}
	return &p.stack[len(p.stack)-1]
}

func (p *parser) pop() frame {
	f := p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]
	return f
}

// attach adds a finished node to the innermost open block, or to the
// document root when no block is open.
func (p *parser) attach(n *Node) {
	if top := p.top(); top != nil {
		top.node.AppendChild(n)
		return
	}
	p.doc.root.AppendChild(n)
}

func (p *parser) issue(i ValidationIssue) {
	p.doc.Issues = append(p.doc.Issues, i)
}

func (p *parser) addIssues(issues []ValidationIssue) bool {
	hasError := false
	for _, i := range issues {
		if i.Severity == SeverityError {
			hasError = true
		}
		p.issue(i)
	}
	return hasError
}

func (p *parser) flushPara() {
	if p.para == nil {
		return
	}
	p.attach(&Node{
		Type:       ParagraphNode,
		LineNumber: p.paraLine,
		Text:       strings.Join(p.para, "\n"),
	})
	p.para = nil
}

func (p *parser) flushList() {
	if p.list == nil {
		return
	}
	list := p.list
	p.list = nil
	p.attach(list)
}

// openBlock handles an open-marker line: parse the keyword text, build
// the right node kind and either attach it directly (single-line
// blocks, TOC markers) or push a frame for its content.
func (p *parser) openBlock(line Line, c Classified) {
	set, issues := ParseMarker(c.Marker, line.Number, p.table)
	syntaxError := p.addIssues(issues)
	p.checkColorCase(set, line.Number)

	if syntaxError {
		node := &Node{
			Type:       ErrorNode,
			LineNumber: line.Number,
			Keywords:   set,
		}
		for _, i := range issues {
			if i.Severity == SeverityError {
				node.Code = i.Code
				node.Message = i.Message
				if len(i.Suggestion) > 0 {
					node.Message += " (" + i.Suggestion + ")"
				}
				break
			}
		}
		p.openOrAttach(node, line, c.Inline, false)
		return
	}

	if special, node := p.specialNode(set, line); special {
		if node == nil {
			// TOC marker, already attached.
			return
		}
		p.openOrAttach(node, line, c.Inline, true)
		return
	}

	if len(set.Keywords) == 1 {
		if d, _ := p.table.Lookup(set.Keywords[0]); d.HeadingLevel > 0 {
			node := &Node{
				Type:       HeadingNode,
				LineNumber: line.Number,
				Level:      d.HeadingLevel,
				Keywords:   set,
			}
			p.doc.headings = append(p.doc.headings, node)
			p.openOrAttach(node, line, c.Inline, false)
			return
		}
	}

	tags, resolveIssues := p.table.Resolve(set, line.Number)
	p.addIssues(resolveIssues)
	node := &Node{
		Type:       BlockNode,
		LineNumber: line.Number,
		Keywords:   set,
		Tags:       tags,
	}
	p.openOrAttach(node, line, c.Inline, false)
}

// specialNode builds the node for markers whose keyword set contains a
// special keyword (image, TOC, code block). Special keywords do not
// combine with others; extra keywords in the set are simply ignored by
// resolution since they have no tag to contribute here.
func (p *parser) specialNode(set *KeywordSet, line Line) (bool, *Node) {
	for _, name := range set.Keywords {
		d, _ := p.table.Lookup(name)
		switch d.Special {
		case SpecialToc:
			p.attach(&Node{Type: TocMarkerNode, LineNumber: line.Number})
			return true, nil
		case SpecialImage:
			return true, &Node{
				Type:       ImageNode,
				LineNumber: line.Number,
				Keywords:   set,
				Alt:        set.Alt,
			}
		case SpecialCodeBlock:
			return true, &Node{
				Type:       CodeBlockNode,
				LineNumber: line.Number,
				Keywords:   set,
				Lang:       set.Lang,
			}
		}
	}
	return false, nil
}

// openOrAttach either attaches a single-line block directly or pushes
// an open frame for it, enforcing the nesting-depth bound.
func (p *parser) openOrAttach(node *Node, line Line, inline string, verbatim bool) {
	if len(inline) > 0 {
		switch node.Type {
		case ImageNode:
			node.Filename = inline
		case CodeBlockNode:
			node.Text = inline
		case HeadingNode:
			node.Text = inline
		default:
			node.AppendChild(&Node{
				Type:       ParagraphNode,
				LineNumber: line.Number,
				Text:       inline,
			})
		}
		p.finalizeNode(node)
		p.attach(node)
		return
	}

	if len(p.stack) >= MaxNestingDepth {
		msg := fmt.Sprintf("nesting deeper than %d blocks", MaxNestingDepth)
		p.issue(ValidationIssue{
			Line:     line.Number,
			Severity: SeverityError,
			Code:     CodeDepthExceeded,
			Message:  msg,
		})
		// The frame is still pushed, as an error node, so its close
		// marker pairs up; the explicit stack keeps depth harmless.
		node = &Node{
			Type:       ErrorNode,
			LineNumber: line.Number,
			Code:       CodeDepthExceeded,
			Message:    msg,
		}
		verbatim = false
	}

	p.stack = append(p.stack, frame{node: node, startLine: line.Number, verbatim: verbatim})
}

func (p *parser) closeBlock(line Line) {
	if len(p.stack) == 0 {
		msg := "close marker without a matching open marker"
		p.issue(ValidationIssue{
			Line:     line.Number,
			Severity: SeverityError,
			Code:     CodeOrphanClose,
			Message:  msg,
		})
		p.attach(&Node{
			Type:       ErrorNode,
			LineNumber: line.Number,
			Code:       CodeOrphanClose,
			Message:    msg,
		})
		// The line itself is kept as plain text.
		p.attach(&Node{
			Type:       ParagraphNode,
			LineNumber: line.Number,
			Text:       closeMarker,
		})
		return
	}

	f := p.pop()
	p.finalize(f)
	p.attach(f.node)
}

func (p *parser) finalize(f frame) {
	p.finalizeNode(f.node)
}

// finalizeNode fixes up a node when its block closes: verbatim content
// loses the trailing newline, images extract their filename, headings
// with a single paragraph child hoist the text.
func (p *parser) finalizeNode(n *Node) {
	switch n.Type {
	case CodeBlockNode:
		n.Text = strings.TrimSuffix(n.Text, "\n")
	case ImageNode:
		if len(n.Filename) == 0 {
			for _, raw := range strings.Split(n.Text, "\n") {
				if trimmed := strings.TrimSpace(raw); len(trimmed) > 0 {
					n.Filename = trimmed
					break
				}
			}
			n.Text = ""
		}
		if len(n.Alt) == 0 {
			n.Alt = n.Filename
		}
	case HeadingNode:
		if len(n.Text) == 0 && n.FirstChild != nil && n.FirstChild == n.LastChild && n.FirstChild.Type == ParagraphNode {
			n.Text = n.FirstChild.Text
			n.RemoveChild(n.FirstChild)
		}
	}
}

// listItem adds one item to the pending list, starting a new list when
// the marker kind changes.
func (p *parser) listItem(line Line, c Classified) {
	if p.list != nil && p.list.Ordered != c.Ordered {
		p.flushList()
	}
	if p.list == nil {
		p.list = &Node{
			Type:       ListNode,
			LineNumber: line.Number,
			Ordered:    c.Ordered,
		}
	}

	item := &Node{
		Type:       ListItemNode,
		LineNumber: line.Number,
		Text:       c.Content,
	}

	// An item whose text starts with "#kw#" carries a per-item
	// KeywordSet, applied to this item only.
	if len(c.Content) > 0 && c.Content[0] == markerChar && c.Content != closeMarker {
		if marker, rest, ok := splitMarker(c.Content); ok {
			set, issues := ParseMarker(marker, line.Number, p.table)
			if hasError := p.addIssues(issues); !hasError {
				p.checkColorCase(set, line.Number)
				tags, resolveIssues := p.table.Resolve(set, line.Number)
				p.addIssues(resolveIssues)
				item.Keywords = set
				item.Tags = tags
				item.Text = rest
			}
		}
	}

	p.list.AppendChild(item)
}

// checkColorCase enforces the document-wide rule that one named color
// is spelled with one case. The first spelling wins; later variants
// are flagged and rewritten to the first one.
func (p *parser) checkColorCase(set *KeywordSet, line int) {
	if len(set.Color) == 0 || strings.HasPrefix(set.Color, "#") {
		return
	}
	lower := strings.ToLower(set.Color)
	first, seen := p.colorCase[lower]
	if !seen {
		p.colorCase[lower] = set.Color
		return
	}
	if first != set.Color {
		p.issue(ValidationIssue{
			Line:       line,
			Severity:   SeverityWarning,
			Code:       CodeColorCaseMix,
			Message:    fmt.Sprintf("color %q was first written %q", set.Color, first),
			Suggestion: fmt.Sprintf("use %q consistently", first),
		})
		set.Color = first
	}
}
