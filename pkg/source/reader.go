// Package source provides the character stream the lexer consumes: a
// lookahead reader over decoded runes that stamps every consumed character
// with a 1-based line and column.
package source

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// EOF is returned by Peek when no characters remain.
const EOF rune = -1

// Position is a location in the character stream.
type Position struct {
	Offset int // rune offset, starting at 0
	Line   int // line number, starting at 1
	Column int // column number, starting at 1
}

// IsValid reports whether the position has been set.
func (p Position) IsValid() bool { return p.Line > 0 }

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Reader is a pushback-free lookahead reader over a rune slice.
// It is created per file and consumed once.
type Reader struct {
	runes  []rune
	pos    int
	line   int
	column int
}

// FromString creates a Reader over an in-memory string.
func FromString(s string) *Reader {
	return &Reader{runes: []rune(s), line: 1, column: 1}
}

// New reads all of r, decoding it from the named charset (an empty name
// means UTF-8). A leading byte order mark overrides the charset.
func New(r io.Reader, charset string) (*Reader, error) {
	enc, err := lookupCharset(charset)
	if err != nil {
		return nil, err
	}
	decoded := transform.NewReader(r, unicode.BOMOverride(enc.NewDecoder()))
	data, err := io.ReadAll(decoded)
	if err != nil {
		return nil, fmt.Errorf("reading source: %w", err)
	}
	return FromString(string(data)), nil
}

func lookupCharset(name string) (encoding.Encoding, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return unicode.UTF8, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q: %w", name, err)
	}
	return enc, nil
}

// Position returns the position of the next character to be consumed.
func (r *Reader) Position() Position {
	return Position{Offset: r.pos, Line: r.line, Column: r.column}
}

// Peek returns the next character without consuming it, or EOF.
func (r *Reader) Peek() rune {
	return r.PeekAt(0)
}

// PeekAt returns the character i positions ahead, or EOF.
func (r *Reader) PeekAt(i int) rune {
	if r.pos+i < len(r.runes) && i >= 0 {
		return r.runes[r.pos+i]
	}
	return EOF
}

// PeekN returns up to n lookahead characters without consuming them.
func (r *Reader) PeekN(n int) string {
	end := r.pos + n
	if end > len(r.runes) {
		end = len(r.runes)
	}
	return string(r.runes[r.pos:end])
}

// HasPrefix reports whether the unconsumed input starts with s.
func (r *Reader) HasPrefix(s string) bool {
	i := 0
	for _, c := range s {
		if r.PeekAt(i) != c {
			return false
		}
		i++
	}
	return true
}

// HasPrefixFold is HasPrefix with ASCII case folding.
func (r *Reader) HasPrefixFold(s string) bool {
	return strings.EqualFold(r.PeekN(len([]rune(s))), s)
}

// AtEOF reports whether the stream is exhausted.
func (r *Reader) AtEOF() bool { return r.pos >= len(r.runes) }

// Pop consumes one character and returns it, or EOF.
func (r *Reader) Pop() rune {
	if r.pos >= len(r.runes) {
		return EOF
	}
	c := r.runes[r.pos]
	r.pos++
	switch {
	case c == '\n':
		r.line++
		r.column = 1
	case c == '\r' && r.Peek() != '\n':
		r.line++
		r.column = 1
	default:
		r.column++
	}
	return c
}

// PopInto consumes one character and appends it to buf.
func (r *Reader) PopInto(buf *strings.Builder) rune {
	c := r.Pop()
	if c != EOF {
		buf.WriteRune(c)
	}
	return c
}

// PopString consumes len(s) characters into buf. The caller is expected to
// have checked the prefix.
func (r *Reader) PopString(s string, buf *strings.Builder) {
	for range s {
		r.PopInto(buf)
	}
}

// PopTo consumes characters into buf until m matches the next character.
// The matching character is not consumed. Reaching the end of the stream
// stops the scan. It returns the number of characters consumed.
func (r *Reader) PopTo(m EndMatcher, buf *strings.Builder) int {
	n := 0
	for !r.AtEOF() {
		if m.Match(r.Peek()) {
			break
		}
		r.PopInto(buf)
		n++
	}
	return n
}
