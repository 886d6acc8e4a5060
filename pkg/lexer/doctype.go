package lexer

import (
	"strings"
	"unicode"

	"github.com/adammathes/htmlverify/pkg/node"
)

func doctype() Channel {
	return &delimited{start: "<!DOCTYPE", end: ">", fold: true, build: func(s node.Span) node.Node {
		d := &node.DirectiveNode{Span: s, IsHTML: true}
		words := doctypeTokens(s.Code)
		if len(words) > 0 {
			d.Name = words[0].Name
			d.Attributes = words[1:]
		}
		return d
	}}
}

// doctypeTokens splits doctype text into words and quoted strings. Quoted
// strings keep their quote character. An unterminated quote takes the rest
// of the text, so a damaged doctype still yields a partial list.
func doctypeTokens(code string) []node.Attribute {
	var out []node.Attribute
	runes := []rune(code)
	for i := 0; i < len(runes); {
		c := runes[i]
		switch {
		case c == '"' || c == '\'':
			j := i + 1
			for j < len(runes) && runes[j] != c {
				j++
			}
			out = append(out, node.Attribute{Name: string(runes[i+1 : j]), Quote: c})
			i = j + 1
		case isDoctypeWord(c):
			j := i
			for j < len(runes) && isDoctypeWord(runes[j]) {
				j++
			}
			out = append(out, node.Attribute{Name: string(runes[i:j])})
			i = j
		default:
			i++
		}
	}
	return out
}

func isDoctypeWord(c rune) bool {
	return unicode.IsLetter(c) || unicode.IsDigit(c) || strings.ContainsRune("-._:/", c)
}
