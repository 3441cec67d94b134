package kumihan

import (
	"strconv"
)

// A TreeNode holds the links of the parse tree. Every child is owned by
// exactly one parent; there is no sharing between Documents.
type TreeNode struct {
	Parent, FirstChild, LastChild, PrevSibling, NextSibling *Node
}

// A NodeType is the type of a Node.
type NodeType uint32

const (
	ErrorNode NodeType = iota
	DocumentNode
	ParagraphNode
	HeadingNode
	BlockNode
	ListNode
	ListItemNode
	ImageNode
	TocMarkerNode
	CodeBlockNode
)

// String returns a string representation of the NodeType.
func (n NodeType) String() string {
	switch n {
	case ErrorNode:
		return "Error Node"
	case DocumentNode:
		return "Document Node"
	case ParagraphNode:
		return "Paragraph Node"
	case HeadingNode:
		return "Heading Node"
	case BlockNode:
		return "Block Node"
	case ListNode:
		return "List Node"
	case ListItemNode:
		return "ListItem Node"
	case ImageNode:
		return "Image Node"
	case TocMarkerNode:
		return "TocMarker Node"
	case CodeBlockNode:
		return "CodeBlock Node"
	}
	return "Invalid Node (" + strconv.Itoa(int(n)) + ")"
}

// A Node is one element of the parse tree.
type Node struct {
	TreeNode
	Type       NodeType
	LineNumber int

	// Keywords is the marker's KeywordSet for Block nodes and for list
	// items carrying an inline annotation. Owned by this node.
	Keywords *KeywordSet

	// Tags is the canonical nesting resolved from Keywords, outermost
	// first. Fixed at parse time so rendering stays a pure walk.
	Tags []TagSpec

	// Level is the heading level, 1..5.
	Level int

	// Text holds paragraph and list-item text, the verbatim content of
	// a code block, and the caption text of a heading.
	Text string

	// Image fields. Alt falls back to Filename when not supplied.
	Filename string
	Alt      string

	// Ordered distinguishes numbered from bulleted lists.
	Ordered bool

	// Lang is the lexer hint of a code block.
	Lang string

	// Error fields: the issue code and the human-readable message.
	Code    string
	Message string
}

// String returns a short description of the Node, mainly for test
// failures and debugging.
func (n *Node) String() string {
	switch n.Type {
	case ParagraphNode, CodeBlockNode:
		return n.Type.String() + " " + strconv.Quote(n.Text)
	case HeadingNode:
		return "Heading " + strconv.Itoa(n.Level) + " " + strconv.Quote(n.Text)
	case BlockNode:
		if n.Keywords != nil {
			return "Block " + n.Keywords.String()
		}
		return "Block"
	case ErrorNode:
		return "Error " + n.Code + " " + strconv.Quote(n.Message)
	}
	return n.Type.String()
}

// AppendChild adds child as the last child of parent.
//
// It will panic if child already has a parent or siblings.
func (parent *Node) AppendChild(child *Node) {
	if child.Parent != nil || child.PrevSibling != nil || child.NextSibling != nil {
		panic("AppendChild called for an already attached child Node")
	}
	last := parent.LastChild
	if last != nil {
		last.NextSibling = child
	} else {
		parent.FirstChild = child
	}
	parent.LastChild = child
	child.Parent = parent
	child.PrevSibling = last
}

// InsertBefore inserts newChild as a child of n, immediately before
// oldChild. oldChild may be nil, in which case newChild is appended.
//
// It will panic if newChild already has a parent or siblings.
func (n *Node) InsertBefore(newChild, oldChild *Node) {
	if newChild.Parent != nil || newChild.PrevSibling != nil || newChild.NextSibling != nil {
		panic("InsertBefore called for an attached child Node")
	}
	var prev, next *Node
	if oldChild != nil {
		prev, next = oldChild.PrevSibling, oldChild
	} else {
		prev = n.LastChild
	}
	if prev != nil {
		prev.NextSibling = newChild
	} else {
		n.FirstChild = newChild
	}
	if next != nil {
		next.PrevSibling = newChild
	} else {
		n.LastChild = newChild
	}
	newChild.Parent = n
	newChild.PrevSibling = prev
	newChild.NextSibling = next
}

// RemoveChild removes child from parent. Afterwards child has no parent
// and no siblings.
//
// It will panic if child's parent is not parent.
func (parent *Node) RemoveChild(child *Node) {
	if child.Parent != parent {
		panic("RemoveChild called for a non-child Node")
	}
	if parent.FirstChild == child {
		parent.FirstChild = child.NextSibling
	}
	if child.NextSibling != nil {
		child.NextSibling.PrevSibling = child.PrevSibling
	}
	if parent.LastChild == child {
		parent.LastChild = child.PrevSibling
	}
	if child.PrevSibling != nil {
		child.PrevSibling.NextSibling = child.NextSibling
	}
	child.Parent = nil
	child.PrevSibling = nil
	child.NextSibling = nil
}

// Children returns the direct children of n in order.
func (n *Node) Children() []*Node {
	var children []*Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		children = append(children, c)
	}
	return children
}

// A Document is the result of one Parse call: the node tree, the flat
// issue list and the heading index used by the TOC generator. It is
// immutable once built and safe for concurrent read-only use.
type Document struct {
	root     *Node
	headings []*Node

	// Issues lists every recovered problem in source order.
	Issues []ValidationIssue

	table *KeywordTable
}

// Root returns the document node at the top of the tree.
func (d *Document) Root() *Node {
	return d.root
}

// Nodes returns the top-level nodes in document order.
func (d *Document) Nodes() []*Node {
	return d.root.Children()
}

// Headings returns every heading node in document order, at any depth.
func (d *Document) Headings() []*Node {
	return append([]*Node(nil), d.headings...)
}

// Table returns the keyword table the document was parsed with.
func (d *Document) Table() *KeywordTable {
	return d.table
}

// HasErrors reports whether any issue has error severity.
func (d *Document) HasErrors() bool {
	for _, issue := range d.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}
