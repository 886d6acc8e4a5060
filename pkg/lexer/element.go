package lexer

import (
	"strings"
	"unicode"

	"github.com/adammathes/htmlverify/pkg/node"
	"github.com/adammathes/htmlverify/pkg/source"
)

// element recognizes start, end and self-closing tags. A '<' only opens a
// tag when the next character can begin a tag name; "< a" is text.
type element struct{}

func (element) Consume(r *source.Reader, emit func(node.Node)) bool {
	if r.Peek() != '<' || !isTagStart(r.PeekAt(1)) {
		return false
	}
	start := r.Position()
	code := scanTag(r)

	t := &node.TagNode{
		Span:         node.Span{Code: code, Start: start, End: r.Position()},
		IsEndElement: strings.HasPrefix(code, "</"),
		Parent:       -1,
		Match:        -1,
	}
	t.Name, t.Attributes = parseTag(code, false)
	emit(t)
	return true
}

func isTagStart(c rune) bool {
	return unicode.IsLetter(c) || c == '/' || c == '!' || c == '?' || c == '_' || c == ':'
}

// scanTag consumes from '<' through the matching '>' (or to the end of
// input) and returns the captured text.
func scanTag(r *source.Reader) string {
	var sb strings.Builder
	r.PopInto(&sb)
	r.PopTo(&tagEndMatcher{r: r}, &sb)
	r.PopInto(&sb)
	return sb.String()
}

type parseMode int

const (
	beforeNodeName parseMode = iota
	beforeAttributeName
	afterAttributeName
	beforeAttributeValue
)

var (
	endQName         = source.StopAtSpaceOr('=', '>', '/', '<')
	endUnquotedValue = source.StopAtSpaceOr('>', '<')
)

// parseTag extracts the node name and attributes from captured tag text.
// It never fails: stray characters are skipped. Tags nested where an
// attribute name is expected become pseudo-attributes holding the nested
// text with an empty value. With directive set, the '%', '@' and '?' of
// <%@ %> and <? ?> delimiters are skipped as well.
func parseTag(code string, directive bool) (string, []node.Attribute) {
	var (
		name  string
		attrs []node.Attribute
		mode  = beforeNodeName
	)
	r := source.FromString(code)

	for !r.AtEOF() {
		c := r.Peek()
		switch {
		case unicode.IsSpace(c):
			r.Pop()
			continue
		case c == '=':
			r.Pop()
			// an '=' with no attribute name in front of it is dropped
			if mode == afterAttributeName {
				mode = beforeAttributeValue
			}
			continue
		case c == '<':
			switch mode {
			case beforeAttributeName, afterAttributeName:
				attrs = append(attrs, node.Attribute{Name: scanTag(r), HasValue: true})
				mode = beforeAttributeName
			case beforeAttributeValue:
				setValue(attrs, scanTag(r), 0)
				mode = beforeAttributeName
			default:
				r.Pop()
			}
			continue
		case c == '>':
			r.Pop()
			if mode == beforeAttributeValue {
				mode = beforeAttributeName
			}
			continue
		case c == '/' && mode != beforeAttributeValue:
			r.Pop()
			continue
		case directive && mode != beforeAttributeValue && (c == '%' || c == '@' || c == '?'):
			r.Pop()
			continue
		}

		switch mode {
		case beforeNodeName:
			var sb strings.Builder
			r.PopTo(endQName, &sb)
			name = sb.String()
			mode = beforeAttributeName
		case beforeAttributeName, afterAttributeName:
			var sb strings.Builder
			r.PopTo(endQName, &sb)
			attrs = append(attrs, node.Attribute{Name: sb.String()})
			mode = afterAttributeName
		case beforeAttributeValue:
			value, quote := parseValue(r)
			setValue(attrs, value, quote)
			mode = beforeAttributeName
		}
	}
	return name, attrs
}

func parseValue(r *source.Reader) (string, rune) {
	var sb strings.Builder
	c := r.Peek()
	if !isQuote(c) {
		r.PopTo(endUnquotedValue, &sb)
		return sb.String(), 0
	}
	r.Pop()
	r.PopTo(newQuoteMatcher(r, c), &sb)
	r.Pop()
	return sb.String(), c
}

func setValue(attrs []node.Attribute, value string, quote rune) {
	if len(attrs) == 0 {
		return
	}
	a := &attrs[len(attrs)-1]
	a.Value = value
	a.HasValue = true
	a.Quote = quote
}
