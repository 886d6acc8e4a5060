package checks

import (
	"unicode"

	"github.com/adammathes/htmlverify/pkg/node"
	"github.com/adammathes/htmlverify/pkg/visitor"
)

// Measure keys.
const (
	MeasureLines        = "lines"
	MeasureNCLOC        = "ncloc"
	MeasureCommentLines = "comment_lines"
	MeasureElements     = "elements"
	MeasureDirectives   = "directives"
	MeasureExpressions  = "expressions"
)

// Metrics counts lines and node kinds. A line counts as code when any
// non-comment node puts a non-blank character on it, and as a comment line
// when a comment does.
type Metrics struct {
	visitor.Base

	codeLines    map[int]bool
	commentLines map[int]bool
	elements     int
	directives   int
	expressions  int
}

func (m *Metrics) StartDocument(ctx *visitor.Context) {
	m.Base.StartDocument(ctx)
	m.codeLines = make(map[int]bool)
	m.commentLines = make(map[int]bool)
	m.elements, m.directives, m.expressions = 0, 0, 0
}

func (m *Metrics) StartElement(t *node.TagNode) {
	m.elements++
	markLines(&t.Span, m.codeLines)
}

func (m *Metrics) EndElement(t *node.TagNode) {
	if t.IsEndElement {
		markLines(&t.Span, m.codeLines)
	}
}

func (m *Metrics) Characters(t *node.TextNode) {
	markLines(&t.Span, m.codeLines)
}

func (m *Metrics) Comment(c *node.CommentNode) {
	markLines(&c.Span, m.commentLines)
}

func (m *Metrics) Directive(d *node.DirectiveNode) {
	m.directives++
	markLines(&d.Span, m.codeLines)
}

func (m *Metrics) Expression(e *node.ExpressionNode) {
	m.expressions++
	markLines(&e.Span, m.codeLines)
}

func (m *Metrics) EndDocument() {
	m.AddMeasure(MeasureLines, countLines(m.Doc()))
	m.AddMeasure(MeasureNCLOC, len(m.codeLines))
	m.AddMeasure(MeasureCommentLines, len(m.commentLines))
	m.AddMeasure(MeasureElements, m.elements)
	m.AddMeasure(MeasureDirectives, m.directives)
	m.AddMeasure(MeasureExpressions, m.expressions)
}

func markLines(s *node.Span, lines map[int]bool) {
	line := s.Start.Line
	prevCR := false
	for _, c := range s.Code {
		switch {
		case c == '\n':
			if !prevCR {
				line++
			}
		case c == '\r':
			line++
		case !unicode.IsSpace(c):
			lines[line] = true
		}
		prevCR = c == '\r'
	}
}

// countLines returns the number of lines in the document; a trailing line
// break does not start a new line.
func countLines(doc *node.Document) int {
	if doc.Len() == 0 {
		return 0
	}
	last := doc.Nodes[doc.Len()-1].Base()
	if last.End.Column == 1 && last.End.Line > 1 {
		return last.End.Line - 1
	}
	return last.End.Line
}
