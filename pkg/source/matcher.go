package source

import "unicode"

// EndMatcher decides whether a consuming scan stops before c.
type EndMatcher interface {
	Match(c rune) bool
}

// MatcherFunc adapts a function to EndMatcher.
type MatcherFunc func(c rune) bool

// Match calls f(c).
func (f MatcherFunc) Match(c rune) bool { return f(c) }

// StopAt matches any of the given characters.
func StopAt(chars ...rune) EndMatcher {
	return MatcherFunc(func(c rune) bool {
		for _, s := range chars {
			if c == s {
				return true
			}
		}
		return false
	})
}

// StopAtSpaceOr matches whitespace or any of the given characters.
func StopAtSpaceOr(chars ...rune) EndMatcher {
	set := StopAt(chars...)
	return MatcherFunc(func(c rune) bool {
		return unicode.IsSpace(c) || set.Match(c)
	})
}

// stringMatcher stops once the stream is positioned at a literal
// terminator, so PopTo leaves the terminator unconsumed.
type stringMatcher struct {
	r    *Reader
	term string
}

// StopBefore matches when the unconsumed input of r begins with term.
func StopBefore(r *Reader, term string) EndMatcher {
	return &stringMatcher{r: r, term: term}
}

func (m *stringMatcher) Match(c rune) bool {
	return m.r.HasPrefix(m.term)
}
