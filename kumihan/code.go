package kumihan

import (
	"html"

	"github.com/alecthomas/chroma/v2"
	hlhtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// renderCode emits a highlighted code block. The lexer comes from the
// block's lang attribute, falling back to content analysis and then to
// the plain-text lexer, so an unknown language never fails rendering.
func (r *renderer) renderCode(br *ByteRenderer, n *Node) {
	content := n.Text

	l := lexers.Get(n.Lang)
	if l == nil {
		l = lexers.Analyse(content)
	}
	if l == nil {
		l = lexers.Fallback
	}
	l = chroma.Coalesce(l)

	styleName := r.opts.CodeStyle
	if len(styleName) == 0 {
		styleName = "github"
	}
	s := styles.Get(styleName)

	f := hlhtml.New(hlhtml.Standalone(false), hlhtml.PreventSurroundingPre(true))

	it, err := l.Tokenise(nil, content)
	if err != nil {
		// Tokenising plain text cannot fail in practice; keep the
		// content visible rather than dropping the block.
		br.Renderln("<pre><code>", html.EscapeString(content), "</code></pre>")
		return
	}

	br.Renderln(`<div class="codecolor">`)
	br.Render("<pre><code>")
	var rb ByteRenderer
	if err := f.Format(&rb, s, it); err != nil {
		br.Render(html.EscapeString(content))
	} else {
		br.Render(rb.Bytes())
	}
	br.Renderln("</code></pre>")
	br.Renderln("</div>")
}
