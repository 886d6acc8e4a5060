package lexer

import (
	"strings"

	"github.com/adammathes/htmlverify/pkg/node"
	"github.com/adammathes/htmlverify/pkg/source"
)

// Channel recognizes one lexical region. Consume returns false without
// consuming anything when the region does not start at the reader's
// position; otherwise it consumes the region and emits exactly one node.
type Channel interface {
	Consume(r *source.Reader, emit func(node.Node)) bool
}

// delimited captures everything between a start and end delimiter.
// An unterminated region runs to the end of input.
type delimited struct {
	start string
	end   string
	// fold matches the start delimiter case-insensitively.
	fold  bool
	build func(span node.Span) node.Node
}

func (d *delimited) Consume(r *source.Reader, emit func(node.Node)) bool {
	if d.fold {
		if !r.HasPrefixFold(d.start) {
			return false
		}
	} else if !r.HasPrefix(d.start) {
		return false
	}

	start := r.Position()
	var sb strings.Builder
	r.PopString(d.start, &sb)
	r.PopTo(source.StopBefore(r, d.end), &sb)
	r.PopString(d.end, &sb)

	emit(d.build(node.Span{Code: sb.String(), Start: start, End: r.Position()}))
	return true
}

func htmlComment() Channel {
	return &delimited{start: "<!--", end: "-->", build: func(s node.Span) node.Node {
		return &node.CommentNode{Span: s, IsHTML: true}
	}}
}

func serverComment() Channel {
	return &delimited{start: "<%--", end: "--%>", build: func(s node.Span) node.Node {
		return &node.CommentNode{Span: s}
	}}
}

func cdata() Channel {
	return &delimited{start: "<![CDATA[", end: "]]>", build: func(s node.Span) node.Node {
		return &node.TextNode{Span: s, IsCDATA: true}
	}}
}

// directive captures <?...?> and <%@...%>; the captured text is parsed for
// a name and attributes the same way a tag is.
func directive(start, end string) Channel {
	return &delimited{start: start, end: end, build: func(s node.Span) node.Node {
		d := &node.DirectiveNode{Span: s}
		d.Name, d.Attributes = parseTag(s.Code, true)
		return d
	}}
}

func expression(start, end string) Channel {
	return &delimited{start: start, end: end, build: func(s node.Span) node.Node {
		return &node.ExpressionNode{Span: s}
	}}
}

// text is the catch-all channel: it takes at least one character and then
// everything up to the next '<'.
type text struct{}

func (text) Consume(r *source.Reader, emit func(node.Node)) bool {
	if r.AtEOF() {
		return false
	}
	start := r.Position()
	var sb strings.Builder
	r.PopInto(&sb)
	r.PopTo(source.StopAt('<'), &sb)

	emit(&node.TextNode{Span: node.Span{Code: sb.String(), Start: start, End: r.Position()}})
	return true
}
