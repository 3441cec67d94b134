package kumihan

import (
	"bytes"
	"fmt"
	"html"
	"strconv"
)

// A ByteRenderer accumulates rendered output in a byte buffer. Render
// accepts heterogeneous values to keep call sites short.
type ByteRenderer struct {
	bytes.Buffer
}

// Render writes the given values to the buffer.
func (r *ByteRenderer) Render(inputs ...any) {
	for _, s := range inputs {
		switch v := s.(type) {
		case string:
			r.WriteString(v)
		case []byte:
			r.Write(v)
		case int:
			r.WriteString(strconv.Itoa(v))
		case byte:
			r.WriteByte(v)
		case rune:
			r.WriteRune(v)
		default:
			panic(fmt.Errorf("ByteRenderer: unsupported type %T", v))
		}
	}
}

// Renderln writes the given values followed by a newline.
func (r *ByteRenderer) Renderln(inputs ...any) {
	r.Render(inputs...)
	r.Render("\n")
}

// CloneBytes returns a copy of the accumulated bytes.
func (r *ByteRenderer) CloneBytes() []byte {
	return bytes.Clone(r.Bytes())
}

// imagePathPrefix is the fixed location rendered image references point
// to. Any packaging step copying assets must honor it.
const imagePathPrefix = "images/"

// RenderOptions carries caller choices that affect the emitted HTML
// wrapper, never parsing semantics.
type RenderOptions struct {
	// Title is the page title of a standalone document.
	Title string

	// CSS is extra style text appended to the built-in style block of
	// a standalone document.
	CSS string

	// Standalone wraps the fragment in a complete HTML page.
	Standalone bool

	// CodeStyle is the chroma style name for code blocks. Empty means
	// "github".
	CodeStyle string
}

// Render walks the Document depth-first and emits HTML. It is a pure
// function over an immutable Document and safe to call concurrently
// for independent documents. Text is escaped exactly once, regardless
// of nesting depth. The only error it can return signals an internal
// invariant violation (an unexpected node kind), never bad user input.
func Render(doc *Document, opts RenderOptions) (string, error) {
	r := &renderer{
		doc:  doc,
		opts: opts,
		toc:  GenerateTOC(doc),
	}

	br := &ByteRenderer{}
	if opts.Standalone {
		r.renderHead(br)
	}
	for _, n := range doc.Nodes() {
		if err := r.renderNode(br, n); err != nil {
			return "", err
		}
	}
	if opts.Standalone {
		br.Renderln("</body>")
		br.Renderln("</html>")
	}
	return br.String(), nil
}

type renderer struct {
	doc  *Document
	opts RenderOptions
	toc  *TOC

	// headingSeq counts headings during the walk. The walk visits
	// nodes in document order, so the sequence matches the ids the TOC
	// assigned and anchors never diverge from TOC links.
	headingSeq int
}

func (r *renderer) renderHead(br *ByteRenderer) {
	title := r.opts.Title
	if len(title) == 0 {
		title = "Document"
	}
	br.Renderln("<!DOCTYPE html>")
	br.Renderln(`<html lang="ja">`)
	br.Renderln("<head>")
	br.Renderln(`<meta charset="utf-8">`)
	br.Renderln("<title>", html.EscapeString(title), "</title>")
	br.Renderln("<style>")
	br.Renderln(defaultCSS)
	if len(r.opts.CSS) > 0 {
		br.Renderln(r.opts.CSS)
	}
	br.Renderln("</style>")
	br.Renderln("</head>")
	br.Renderln("<body>")
}

func (r *renderer) renderNode(br *ByteRenderer, n *Node) error {
	switch n.Type {

	case ParagraphNode:
		br.Renderln("<p>", html.EscapeString(n.Text), "</p>")

	case HeadingNode:
		r.headingSeq++
		id := headingID(r.headingSeq)
		br.Render("<h", n.Level, ` id="`, id, `">`)
		if len(n.Text) > 0 {
			br.Render(html.EscapeString(n.Text))
		} else {
			for _, c := range n.Children() {
				if c.Type == ParagraphNode {
					br.Render(html.EscapeString(c.Text))
					continue
				}
				if err := r.renderNode(br, c); err != nil {
					return err
				}
			}
		}
		br.Renderln("</h", n.Level, ">")

	case BlockNode:
		for _, tag := range n.Tags {
			br.Render(tag.StartTag())
			if len(tag.Summary) > 0 {
				br.Render("<summary>", html.EscapeString(tag.Summary), "</summary>")
			}
		}
		// A block holding a single paragraph renders its text inline,
		// so `#太字#` around one line gives `<strong>text</strong>`
		// rather than a paragraph inside an inline element.
		if only := n.FirstChild; only != nil && only == n.LastChild && only.Type == ParagraphNode {
			br.Render(html.EscapeString(only.Text))
		} else {
			for _, c := range n.Children() {
				if err := r.renderNode(br, c); err != nil {
					return err
				}
			}
		}
		for i := len(n.Tags) - 1; i >= 0; i-- {
			br.Render(n.Tags[i].EndTag())
		}
		br.Renderln()

	case ListNode:
		tag := "ul"
		if n.Ordered {
			tag = "ol"
		}
		br.Renderln("<", tag, ">")
		for _, item := range n.Children() {
			if err := r.renderNode(br, item); err != nil {
				return err
			}
		}
		br.Renderln("</", tag, ">")

	case ListItemNode:
		br.Render("<li>")
		for _, tag := range n.Tags {
			br.Render(tag.StartTag())
		}
		br.Render(html.EscapeString(n.Text))
		for i := len(n.Tags) - 1; i >= 0; i-- {
			br.Render(n.Tags[i].EndTag())
		}
		br.Renderln("</li>")

	case ImageNode:
		br.Renderln(`<img src="`, imagePathPrefix, html.EscapeString(n.Filename),
			`" alt="`, html.EscapeString(n.Alt), `">`)

	case TocMarkerNode:
		br.Render(r.toc.HTML())

	case CodeBlockNode:
		r.renderCode(br, n)

	case ErrorNode:
		br.Render(`<div class="kumihan-error">`)
		br.Render("[line ", n.LineNumber, "] ", html.EscapeString(n.Message))
		br.Renderln("</div>")
		for _, c := range n.Children() {
			if err := r.renderNode(br, c); err != nil {
				return err
			}
		}

	default:
		// Reaching this with a well-formed Document is a programming
		// error, not bad input.
		return fmt.Errorf("render: unexpected node type %s at line %d", n.Type, n.LineNumber)
	}

	return nil
}

func headingID(seq int) string {
	return "heading-" + strconv.Itoa(seq)
}

const defaultCSS = `body { max-width: 46em; margin: 0 auto; padding: 0 1em; line-height: 1.7; }
.box { border: 1px solid #333; padding: 0.5em 1em; margin: 0.5em 0; }
.highlight { padding: 0.2em 0.4em; }
.center { text-align: center; }
details.spoiler summary { color: #999; }
nav.toc { border: 1px solid #ccc; padding: 0.5em 1em; }
.kumihan-error { background: #ffecec; border-left: 4px solid #c00; padding: 0.3em 0.6em; margin: 0.3em 0; }`
