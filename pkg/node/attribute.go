package node

// Attribute is a name/value pair captured from a tag.
//
// A tag or expression nested inside another tag's byte range, such as
// <td <c:if test="x">style="a"</c:if>>, is kept as a pseudo-attribute:
// Name holds the raw nested text and Value is empty.
type Attribute struct {
	Name     string
	Value    string
	HasValue bool
	// Quote is the quote character around the value, or 0 when unquoted.
	Quote rune
}

// IsNested reports whether the attribute is a folded nested tag.
func (a Attribute) IsNested() bool {
	return len(a.Name) > 0 && a.Name[0] == '<'
}
