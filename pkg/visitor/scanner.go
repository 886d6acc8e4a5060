package visitor

import "github.com/adammathes/htmlverify/pkg/node"

// State is the phase of a Scan.
type State int

const (
	ScanIdle    State = iota // no Scan has run yet
	ScanStart                // StartDocument callbacks
	ScanPerNode              // node callbacks
	ScanEnd                  // EndDocument callbacks, and after a completed Scan
)

func (st State) String() string {
	switch st {
	case ScanStart:
		return "start"
	case ScanPerNode:
		return "per-node"
	case ScanEnd:
		return "end"
	}
	return "idle"
}

// Scanner replays documents to its visitors. A Scanner and its visitors
// serve one file at a time.
type Scanner struct {
	visitors []Visitor
	state    State
}

// NewScanner returns a scanner with the given visitors registered.
func NewScanner(visitors ...Visitor) *Scanner {
	return &Scanner{visitors: visitors}
}

// AddVisitor registers v after the visitors already present.
func (s *Scanner) AddVisitor(v Visitor) {
	s.visitors = append(s.visitors, v)
}

// State returns the phase of the current or last Scan.
func (s *Scanner) State() State {
	return s.state
}

// Visitors returns the registered visitors in order.
func (s *Scanner) Visitors() []Visitor {
	return s.visitors
}

// Scan calls StartDocument on every visitor, then for each node calls the
// matching callback on every visitor in registration order, then
// EndDocument. A self-closing tag gets both StartElement and EndElement.
// Panics raised by visitors are not recovered here.
func (s *Scanner) Scan(file string, doc *node.Document, sink Sink) {
	ctx := &Context{File: file, Doc: doc, Sink: sink}
	s.state = ScanStart
	for _, v := range s.visitors {
		v.StartDocument(ctx)
	}

	s.state = ScanPerNode
	for _, n := range doc.Nodes {
		for _, v := range s.visitors {
			dispatch(v, n)
		}
	}

	s.state = ScanEnd
	for _, v := range s.visitors {
		v.EndDocument()
	}
}

func dispatch(v Visitor, n node.Node) {
	switch n := n.(type) {
	case *node.TagNode:
		if n.IsEndElement {
			v.EndElement(n)
			return
		}
		v.StartElement(n)
		if n.HasEnd() {
			v.EndElement(n)
		}
	case *node.TextNode:
		v.Characters(n)
	case *node.CommentNode:
		v.Comment(n)
	case *node.DirectiveNode:
		v.Directive(n)
	case *node.ExpressionNode:
		v.Expression(n)
	}
}
