package checks

import (
	"fmt"
	"strings"

	"github.com/adammathes/htmlverify/pkg/node"
	"github.com/adammathes/htmlverify/pkg/report"
	"github.com/adammathes/htmlverify/pkg/visitor"
)

// UnclosedTag reports start tags that no end tag closes. Void elements,
// elements whose end tag is optional and self-closing tags are exempt.
// Tags dropped by rollup recovery show up here.
type UnclosedTag struct {
	visitor.Base
}

func (c *UnclosedTag) StartElement(t *node.TagNode) {
	if t.Match >= 0 || t.Name == "" || strings.ContainsAny(t.Name[:1], "!?") {
		return
	}
	if isVoid(t.Name) {
		return
	}
	if _, ok := lookup(optionalEndElements, t.Name); ok {
		return
	}
	c.AddPreciseIssue(report.Error, RuleUnclosedTag, t,
		fmt.Sprintf("The tag <%s> is never closed", t.Name))
}

// OrphanEndTag reports end tags that close nothing that is open.
type OrphanEndTag struct {
	visitor.Base
}

func (c *OrphanEndTag) EndElement(t *node.TagNode) {
	if !t.IsEndElement || t.Match >= 0 {
		return
	}
	c.AddPreciseIssue(report.Warning, RuleOrphanEndTag, t,
		fmt.Sprintf("The end tag </%s> has no matching start tag", t.Name))
}

// DoctypePresence requires a complete HTML page to start with a doctype.
// Fragments without an <html> element are not checked.
type DoctypePresence struct {
	visitor.Base
}

func (c *DoctypePresence) StartDocument(ctx *visitor.Context) {
	c.Base.StartDocument(ctx)

	html := ctx.Doc.Tags("html")
	if len(html) == 0 {
		return
	}
	for _, n := range ctx.Doc.Nodes {
		d, ok := n.(*node.DirectiveNode)
		if !ok || !d.IsHTML {
			continue
		}
		if d.Index > html[0].Index {
			c.AddIssue(report.Warning, RuleDoctype, d,
				"The <!DOCTYPE> declaration must come before the <html> tag")
		}
		return
	}
	c.AddLineIssue(report.Warning, RuleDoctype, 1, "Insert a <!DOCTYPE> declaration before this <html> tag")
}
