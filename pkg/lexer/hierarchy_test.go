package lexer

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/adammathes/htmlverify/pkg/node"
)

func names(tags []*node.TagNode) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, t.Name)
	}
	return out
}

func TestHierarchyWellFormed(t *testing.T) {
	doc := ParseString("<ul><li>a</li><li>b<br/></li></ul>")
	ul := doc.Tag(0)

	if diff := cmp.Diff([]string{"li", "li"}, names(doc.Children(ul))); diff != "" {
		t.Errorf("ul children (-want +got):\n%s", diff)
	}
	if ul.Match < 0 || !doc.Tag(ul.Match).IsEndElement || doc.Tag(ul.Match).Name != "ul" {
		t.Errorf("ul not linked to its end tag: match %d", ul.Match)
	}

	second := doc.Children(ul)[1]
	if diff := cmp.Diff([]string{"br"}, names(doc.Children(second))); diff != "" {
		t.Errorf("second li children (-want +got):\n%s", diff)
	}
	br := doc.Children(second)[0]
	if br.Match != br.Index {
		t.Error("self-closing tag should match itself")
	}
	if doc.Parent(br) != second || doc.Parent(second) != ul || doc.Parent(ul) != nil {
		t.Error("parent links broken")
	}
	if diff := cmp.Diff([]string{"ul"}, names(doc.Roots())); diff != "" {
		t.Errorf("roots (-want +got):\n%s", diff)
	}
}

func TestHierarchyCaseInsensitiveClose(t *testing.T) {
	doc := ParseString("<DIV><p>x</P></div><span>")
	div := doc.Tag(0)
	if div.Match < 0 {
		t.Error("DIV should be closed by </div>")
	}
	if diff := cmp.Diff([]string{"DIV", "span"}, names(doc.Roots())); diff != "" {
		t.Errorf("roots (-want +got):\n%s", diff)
	}
}

func TestHierarchyRollup(t *testing.T) {
	doc := ParseString("<html><table><tr></table><p>")
	html, table, tr, endTable, p := doc.Tag(0), doc.Tag(1), doc.Tag(2), doc.Tag(3), doc.Tag(4)

	if tr.Match != -1 {
		t.Error("tr was rolled up and should stay unclosed")
	}
	if table.Match != endTable.Index || endTable.Match != table.Index {
		t.Error("</table> should close table")
	}
	if diff := cmp.Diff([]string{"table", "p"}, names(doc.Children(html))); diff != "" {
		t.Errorf("html children (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"tr"}, names(doc.Children(table))); diff != "" {
		t.Errorf("table children (-want +got):\n%s", diff)
	}
	if doc.Parent(p) != html {
		t.Error("p should be a sibling of table under html")
	}
	if html.Match != -1 || p.Match != -1 {
		t.Error("html and p are never closed")
	}
}

func TestHierarchyOrphanClose(t *testing.T) {
	doc := ParseString("<div></span><p></p></div>")
	div, span, p := doc.Tag(0), doc.Tag(1), doc.Tag(2)

	if span.Match != -1 {
		t.Error("orphan close should not match")
	}
	if div.Match != 4 {
		t.Errorf("div match = %d, want 4", div.Match)
	}
	if doc.Parent(p) != div {
		t.Error("orphan close corrupted the stack")
	}
}

func TestHierarchySkipsNonTags(t *testing.T) {
	doc := ParseString("<p><!-- <b> --><%= x %>text</p>")
	p := doc.Tag(0)
	if len(p.Children) != 0 {
		t.Errorf("p children = %v", p.Children)
	}
	if p.Match != 4 {
		t.Errorf("p match = %d", p.Match)
	}
}
