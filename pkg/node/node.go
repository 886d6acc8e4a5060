// Package node defines the positioned node stream produced by the lexer.
//
// A parse yields a flat, ordered list of nodes (Tag, Text, Comment,
// Directive, Expression). Concatenating every node's Code reproduces the
// input, except where a nested tag was folded into an enclosing tag's
// attribute list. Tag nesting is recorded as indices into the owning
// Document rather than pointers: a tag owns the indices of its children
// and holds a non-owning index back to its parent.
package node

import (
	"fmt"
	"strings"

	"github.com/adammathes/htmlverify/pkg/source"
)

// Type identifies the kind of a node.
type Type int

const (
	Tag Type = iota
	Text
	Comment
	Directive
	Expression
)

func (t Type) String() string {
	switch t {
	case Tag:
		return "TAG"
	case Text:
		return "TEXT"
	case Comment:
		return "COMMENT"
	case Directive:
		return "DIRECTIVE"
	case Expression:
		return "EXPRESSION"
	default:
		return fmt.Sprintf("TYPE(%d)", int(t))
	}
}

// Node is implemented by *TagNode, *TextNode, *CommentNode,
// *DirectiveNode and *ExpressionNode.
type Node interface {
	Type() Type
	Base() *Span
}

// Span is the part every node shares: its raw text and where it sits.
// End is exclusive: the position just after the last character.
type Span struct {
	Code  string
	Start source.Position
	End   source.Position
	// Index is the node's position in its Document.
	Index int
}

// Base returns the span itself; it lets embedding types satisfy Node.
func (s *Span) Base() *Span { return s }

// StartLine is a shorthand for Start.Line.
func (s *Span) StartLine() int { return s.Start.Line }

// EndLine is the line of the last character of the node.
func (s *Span) EndLine() int {
	if s.End.Column == 1 && s.End.Line > s.Start.Line {
		return s.End.Line - 1
	}
	return s.End.Line
}

// TagNode is an element start or end tag, or a self-closing tag.
type TagNode struct {
	Span
	Name         string
	Attributes   []Attribute
	IsEndElement bool

	// Parent is the document index of the enclosing start tag, or -1.
	Parent int
	// Children are the document indices of nested start tags.
	Children []int
	// Match links a start tag to its end tag and an end tag to its start
	// tag; -1 when unclosed or orphaned. A self-closing tag matches itself.
	Match int
}

// Type implements Node.
func (t *TagNode) Type() Type { return Tag }

// HasEnd reports whether a start tag closes itself (<br/>).
func (t *TagNode) HasEnd() bool {
	return !t.IsEndElement && strings.HasSuffix(t.Code, "/>")
}

// Equals reports whether the tag has the given name, ignoring case.
func (t *TagNode) Equals(name string) bool {
	return strings.EqualFold(t.Name, name)
}

// LocalName strips a namespace prefix (c:if -> if).
func (t *TagNode) LocalName() string {
	if i := strings.LastIndexByte(t.Name, ':'); i >= 0 {
		return t.Name[i+1:]
	}
	return t.Name
}

// Attribute returns the value of the first attribute named name (case
// insensitive) and whether it is present.
func (t *TagNode) Attribute(name string) (string, bool) {
	for _, a := range t.Attributes {
		if strings.EqualFold(a.Name, name) {
			return a.Value, true
		}
	}
	return "", false
}

// HasAttribute reports whether an attribute named name is present.
func (t *TagNode) HasAttribute(name string) bool {
	_, ok := t.Attribute(name)
	return ok
}

// TextNode is character data between tags.
type TextNode struct {
	Span
	// IsCDATA is set for <![CDATA[...]]> sections.
	IsCDATA bool
}

// Type implements Node.
func (t *TextNode) Type() Type { return Text }

// IsBlank reports whether the text is whitespace only.
func (t *TextNode) IsBlank() bool {
	return strings.TrimSpace(t.Code) == ""
}

// CommentNode is an HTML (<!-- -->) or server-side (<%-- --%>) comment.
type CommentNode struct {
	Span
	IsHTML bool
}

// Type implements Node.
func (c *CommentNode) Type() Type { return Comment }

// DirectiveNode covers doctypes, XML declarations and JSP directives.
type DirectiveNode struct {
	Span
	Name       string
	Attributes []Attribute
	// IsHTML is set for <!DOCTYPE ...>.
	IsHTML bool
}

// Type implements Node.
func (d *DirectiveNode) Type() Type { return Directive }

// Attribute returns the value of the named attribute.
func (d *DirectiveNode) Attribute(name string) (string, bool) {
	for _, a := range d.Attributes {
		if strings.EqualFold(a.Name, name) {
			return a.Value, true
		}
	}
	return "", false
}

// ExpressionNode is an opaque embedded-language region such as <% ... %>.
type ExpressionNode struct {
	Span
}

// Type implements Node.
func (e *ExpressionNode) Type() Type { return Expression }
