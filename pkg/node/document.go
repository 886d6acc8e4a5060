package node

import "strings"

// Document is the arena holding every node of one parsed file.
// It is not modified after the lexer returns it.
type Document struct {
	Nodes []Node
}

// Len returns the number of nodes.
func (d *Document) Len() int { return len(d.Nodes) }

// Tag returns the node at i if it is a tag.
func (d *Document) Tag(i int) *TagNode {
	if i < 0 || i >= len(d.Nodes) {
		return nil
	}
	t, _ := d.Nodes[i].(*TagNode)
	return t
}

// Parent returns the enclosing start tag of t, or nil.
func (d *Document) Parent(t *TagNode) *TagNode {
	return d.Tag(t.Parent)
}

// Children returns the nested start tags of t in document order.
func (d *Document) Children(t *TagNode) []*TagNode {
	out := make([]*TagNode, 0, len(t.Children))
	for _, i := range t.Children {
		if c := d.Tag(i); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// Roots returns the start tags that have no parent.
func (d *Document) Roots() []*TagNode {
	var out []*TagNode
	for _, n := range d.Nodes {
		if t, ok := n.(*TagNode); ok && !t.IsEndElement && t.Parent < 0 {
			out = append(out, t)
		}
	}
	return out
}

// Tags returns all start tags named name (case insensitive).
func (d *Document) Tags(name string) []*TagNode {
	var out []*TagNode
	for _, n := range d.Nodes {
		if t, ok := n.(*TagNode); ok && !t.IsEndElement && t.Equals(name) {
			out = append(out, t)
		}
	}
	return out
}

// Code concatenates the raw text of every node.
func (d *Document) Code() string {
	var sb strings.Builder
	for _, n := range d.Nodes {
		sb.WriteString(n.Base().Code)
	}
	return sb.String()
}

// Types returns the node type sequence.
func (d *Document) Types() []Type {
	out := make([]Type, len(d.Nodes))
	for i, n := range d.Nodes {
		out[i] = n.Type()
	}
	return out
}
