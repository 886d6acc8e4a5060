package lexer

import (
	"unicode"

	"github.com/adammathes/htmlverify/pkg/source"
)

// quoteMatcher follows a quoted attribute value character by character.
// The opening quote is on the stack when it is created; a quote of the
// other kind may open one nested level, so src="'a'" keeps its single
// quotes. A quote preceded by a backslash is ignored. Match returns true
// for the quote that closes the value.
//
// Tags and <% %> regions inside the value are skipped whole, so
// href="<c:url value="/x"/>" is one value. Lookahead comes from r.
type quoteMatcher struct {
	r      *source.Reader
	stack  []rune
	prev   rune
	inner  *tagEndMatcher
	inCode bool
}

func newQuoteMatcher(r *source.Reader, open rune) *quoteMatcher {
	return &quoteMatcher{r: r, stack: []rune{open}}
}

func (q *quoteMatcher) Match(c rune) bool {
	prev := q.prev
	q.prev = c
	switch {
	case q.inner != nil:
		if q.inner.Match(c) {
			q.inner = nil
		}
		return false
	case q.inCode:
		if prev == '%' && c == '>' {
			q.inCode = false
		}
		return false
	case c == '<' && q.r.HasPrefix("<%"):
		q.inCode = true
		// "<%" itself must not count as the closing "%>"
		q.prev = 0
		return false
	case c == '<' && embeddedTagAhead(q.r):
		q.inner = &tagEndMatcher{r: q.r}
		return false
	}

	if !isQuote(c) || prev == '\\' {
		return false
	}
	for i := len(q.stack) - 1; i >= 0; i-- {
		if q.stack[i] == c {
			q.stack = q.stack[:i]
			return len(q.stack) == 0
		}
	}
	if len(q.stack) < 2 {
		q.stack = append(q.stack, c)
	}
	return false
}

func isQuote(c rune) bool {
	return c == '"' || c == '\''
}

// embeddedTagAhead reports whether the '<' under r starts something that
// reads as a tag: an optional '/', a name, then whitespace, '/' or '>'.
// "a<b" and "x < y" inside a value stay plain text.
func embeddedTagAhead(r *source.Reader) bool {
	i := 1
	if r.PeekAt(i) == '/' {
		i++
	}
	if c := r.PeekAt(i); !unicode.IsLetter(c) && c != '_' {
		return false
	}
	for isNameChar(r.PeekAt(i)) {
		i++
	}
	c := r.PeekAt(i)
	return unicode.IsSpace(c) || c == '/' || c == '>'
}

func isNameChar(c rune) bool {
	return unicode.IsLetter(c) || unicode.IsDigit(c) || c == ':' || c == '-' || c == '_' || c == '.'
}

// tagEndMatcher finds the '>' that closes a tag. Tags nested inside the
// tag's byte range raise the depth so their '>' is skipped, and a quote
// directly after '=' starts a value in which '<' and '>' are plain text
// unless they delimit an embedded tag.
type tagEndMatcher struct {
	r           *source.Reader
	depth       int
	afterEquals bool
	quote       *quoteMatcher
}

func (m *tagEndMatcher) Match(c rune) bool {
	if m.quote != nil {
		if m.quote.Match(c) {
			m.quote = nil
		}
		return false
	}
	switch {
	case unicode.IsSpace(c):
		return false
	case c == '=':
		m.afterEquals = true
		return false
	case isQuote(c) && m.afterEquals:
		m.quote = newQuoteMatcher(m.r, c)
	case c == '<':
		m.depth++
	case c == '>':
		if m.depth == 0 {
			return true
		}
		m.depth--
	}
	m.afterEquals = false
	return false
}
