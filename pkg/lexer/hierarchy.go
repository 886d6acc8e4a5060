package lexer

import "github.com/adammathes/htmlverify/pkg/node"

// buildHierarchy links start tags to their parents and end tags to their
// start tags by replaying the node list against a stack of open tags.
//
// An end tag that does not match the top of the stack is rolled up: if a
// tag with its name is open further down, everything above it is dropped
// as implicitly unclosed. An end tag with no open match anywhere is left
// as an orphan. Neither case is an error; both stay visible through Match.
func buildHierarchy(doc *node.Document) {
	var stack []*node.TagNode

	for _, n := range doc.Nodes {
		t, ok := n.(*node.TagNode)
		if !ok {
			continue
		}

		if !t.IsEndElement {
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				t.Parent = parent.Index
				parent.Children = append(parent.Children, t.Index)
			}
			if t.HasEnd() {
				t.Match = t.Index
			} else {
				stack = append(stack, t)
			}
			continue
		}

		for i := len(stack) - 1; i >= 0; i-- {
			if stack[i].Equals(t.Name) {
				stack[i].Match = t.Index
				t.Match = stack[i].Index
				stack = stack[:i]
				break
			}
		}
	}
}
