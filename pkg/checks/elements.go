package checks

import (
	"fmt"
	"strings"

	"golang.org/x/net/html/atom"

	"github.com/adammathes/htmlverify/pkg/node"
	"github.com/adammathes/htmlverify/pkg/report"
	"github.com/adammathes/htmlverify/pkg/visitor"
)

// DeprecatedElement flags elements that HTML5 made obsolete.
type DeprecatedElement struct {
	visitor.Base
}

func (c *DeprecatedElement) StartElement(t *node.TagNode) {
	if strings.Contains(t.Name, ":") {
		return
	}
	if hint, ok := lookup(deprecatedElements, t.Name); ok {
		c.AddPreciseIssue(report.Warning, RuleDeprecatedElement, t,
			fmt.Sprintf("Remove this deprecated <%s> element; %s", strings.ToLower(t.Name), hint))
	}
}

// ImageAlt requires a text alternative on images, image maps and image
// buttons.
type ImageAlt struct {
	visitor.Base
}

func (c *ImageAlt) StartElement(t *node.TagNode) {
	switch elementAtom(t.Name) {
	case atom.Img, atom.Area:
	case atom.Input:
		if typ, _ := t.Attribute("type"); !strings.EqualFold(strings.TrimSpace(typ), "image") {
			return
		}
	default:
		return
	}
	if t.HasAttribute("alt") || hasDynamicAttributes(t) {
		return
	}
	c.AddPreciseIssue(report.Warning, RuleImageAlt, t,
		fmt.Sprintf("Add an \"alt\" attribute to this <%s> element", strings.ToLower(t.Name)))
}

// hasDynamicAttributes reports whether attributes of t are produced by a
// nested server-side construct, in which case "alt" may be among them.
func hasDynamicAttributes(t *node.TagNode) bool {
	for _, a := range t.Attributes {
		if a.IsNested() {
			return true
		}
	}
	return false
}

// InlineEventHandler flags on* event handler attributes, which mix script
// into markup and defeat a strict Content-Security-Policy.
type InlineEventHandler struct {
	visitor.Base
}

func (c *InlineEventHandler) StartElement(t *node.TagNode) {
	for _, a := range t.Attributes {
		if a.IsNested() {
			continue
		}
		if isEventHandler(a.Name) {
			c.AddIssue(report.Warning, RuleInlineEventHandler, t,
				fmt.Sprintf("Move the inline \"%s\" handler into a script", strings.ToLower(a.Name)))
		}
	}
}
