// Package visitor replays a parsed document to a list of checks.
package visitor

import (
	"github.com/adammathes/htmlverify/pkg/node"
	"github.com/adammathes/htmlverify/pkg/report"
)

// Visitor receives one callback per node in document order, bracketed by
// StartDocument and EndDocument.
type Visitor interface {
	StartDocument(ctx *Context)
	EndDocument()
	StartElement(t *node.TagNode)
	EndElement(t *node.TagNode)
	Characters(t *node.TextNode)
	Comment(c *node.CommentNode)
	Directive(d *node.DirectiveNode)
	Expression(e *node.ExpressionNode)
}

// Sink accumulates the findings of one file.
type Sink interface {
	AddIssue(m report.Message)
	AddMeasure(key string, value int)
}

// Context is what a visitor sees of the file being scanned.
type Context struct {
	File string
	Doc  *node.Document
	Sink Sink
}

// Base implements Visitor with no-ops. Checks embed it and override the
// callbacks they need; an override of StartDocument must call
// Base.StartDocument so the helpers below have a context.
type Base struct {
	ctx *Context
}

func (b *Base) StartDocument(ctx *Context) { b.ctx = ctx }
func (b *Base) EndDocument() {}
func (b *Base) StartElement(*node.TagNode) {}
func (b *Base) EndElement(*node.TagNode) {}
func (b *Base) Characters(*node.TextNode) {}
func (b *Base) Comment(*node.CommentNode) {}
func (b *Base) Directive(*node.DirectiveNode) {}
func (b *Base) Expression(*node.ExpressionNode) {}

// Context returns the context of the current document.
func (b *Base) Context() *Context { return b.ctx }

// Doc returns the current document.
func (b *Base) Doc() *node.Document { return b.ctx.Doc }

// AddIssue reports a finding on the first line of n.
func (b *Base) AddIssue(sev report.Severity, checkID string, n node.Node, msg string) {
	line := 0
	if n != nil {
		line = n.Base().Start.Line
	}
	b.AddLineIssue(sev, checkID, line, msg)
}

// AddLineIssue reports a finding on line.
func (b *Base) AddLineIssue(sev report.Severity, checkID string, line int, msg string) {
	b.ctx.Sink.AddIssue(report.Message{
		Severity: sev,
		CheckID:  checkID,
		Message:  msg,
		File:     b.ctx.File,
		Line:     line,
	})
}

// AddPreciseIssue reports a finding spanning the whole of n when n fits on
// one line, and falls back to its first line otherwise.
func (b *Base) AddPreciseIssue(sev report.Severity, checkID string, n node.Node, msg string) {
	s := n.Base()
	m := report.Message{
		Severity: sev,
		CheckID:  checkID,
		Message:  msg,
		File:     b.ctx.File,
		Line:     s.Start.Line,
	}
	if s.Start.Line == s.End.Line {
		m.Column = s.Start.Column
		m.EndColumn = s.End.Column
	}
	b.ctx.Sink.AddIssue(m)
}

// AddMeasure adds value to a measure of the current file.
func (b *Base) AddMeasure(key string, value int) {
	b.ctx.Sink.AddMeasure(key, value)
}
