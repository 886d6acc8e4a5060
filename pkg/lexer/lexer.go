// Package lexer turns HTML, XHTML and JSP-family markup into a flat,
// positioned node stream.
//
// Input is matched against an ordered list of channels; the first channel
// whose start delimiter matches consumes one region. The order is fixed so
// that, for example, "<!--" is never read as a tag. Text is the catch-all.
// The lexer never fails on malformed markup: unterminated regions run to
// the end of input and broken attributes are skipped.
package lexer

import (
	"fmt"
	"io"

	"github.com/adammathes/htmlverify/pkg/node"
	"github.com/adammathes/htmlverify/pkg/source"
)

// PageLexer dispatches the reader across its channels.
type PageLexer struct {
	channels []Channel
}

// New returns a lexer with the standard channel order.
func New() *PageLexer {
	return &PageLexer{channels: []Channel{
		htmlComment(),
		serverComment(),
		cdata(),
		doctype(),
		directive("<?", "?>"),
		directive("<%@", "%>"),
		expression("<%", "%>"),
		element{},
		text{},
	}}
}

// Parse consumes r and returns the document with its tag hierarchy built.
func (l *PageLexer) Parse(r *source.Reader) *node.Document {
	doc := &node.Document{}
	emit := func(n node.Node) {
		n.Base().Index = len(doc.Nodes)
		doc.Nodes = append(doc.Nodes, n)
	}

	for !r.AtEOF() {
		consumed := false
		for _, ch := range l.channels {
			if ch.Consume(r, emit) {
				consumed = true
				break
			}
		}
		if !consumed {
			// unreachable while text is the last channel
			text{}.Consume(r, emit)
		}
	}

	buildHierarchy(doc)
	return doc
}

// ParseString lexes an in-memory document.
func ParseString(s string) *node.Document {
	return New().Parse(source.FromString(s))
}

// ParseReader decodes r using charset and lexes it. Only read and
// decoding failures are returned as errors.
func ParseReader(r io.Reader, charset string) (*node.Document, error) {
	src, err := source.New(r, charset)
	if err != nil {
		return nil, fmt.Errorf("lexing: %w", err)
	}
	return New().Parse(src), nil
}
