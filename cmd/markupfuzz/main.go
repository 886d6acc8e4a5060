// Command markupfuzz generates randomized markup pages with injected faults,
// lexes them and checks the invariants every node stream must satisfy:
// the nodes cover the input exactly, positions are contiguous and agree
// with the line breaks in each node, and start and end tags are matched in
// pairs. Failing pages are written out together with a JSON manifest.
package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/adammathes/htmlverify/pkg/lexer"
)

// Fault describes a single mutation applied to a generated page.
type Fault struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// PageSpec describes a generated page and what went wrong with it.
type PageSpec struct {
	ID         int      `json:"id"`
	Faults     []Fault  `json:"faults"`
	Filename   string   `json:"filename,omitempty"`
	Violations []string `json:"violations"`
}

// faultFunc is a function that mutates a page builder to inject a fault.
type faultFunc struct {
	name        string
	description string
	apply       func(b *pageBuilder, rng *rand.Rand)
	weight      int // relative probability weight
}

var allFaults = []faultFunc{
	{
		name:        "unterminated_comment",
		description: "Open an HTML comment that never closes",
		weight:      2,
		apply: func(b *pageBuilder, rng *rand.Rand) {
			b.insert(rng, "<!-- never closed ")
		},
	},
	{
		name:        "unterminated_tag",
		description: "Start a tag whose quoted attribute never closes",
		weight:      2,
		apply: func(b *pageBuilder, rng *rand.Rand) {
			b.insert(rng, `<div class="open`)
		},
	},
	{
		name:        "stray_quotes",
		description: "Put unbalanced quotes into attribute values",
		weight:      4,
		apply: func(b *pageBuilder, rng *rand.Rand) {
			options := []string{
				`<p title="it's">`,
				`<p title='say "hi"'>`,
				`<input value='don\'t'>`,
				`<a href="x" title=">">`,
				`<span data-x="a'b"c">`,
			}
			b.insert(rng, options[rng.Intn(len(options))])
		},
	},
	{
		name:        "nested_tag_in_attributes",
		description: "Put a server-side tag inside a start tag",
		weight:      4,
		apply: func(b *pageBuilder, rng *rand.Rand) {
			options := []string{
				`<td id="c"<c:if test="${x}">style="display:none"</c:if>>x</td>`,
				`<input <% if (on) { %>checked<% } %>>`,
				`<a href=<%= url %> class="x">link</a>`,
				`<li class="<c:out value='${cls}'/>">item</li>`,
				`<img src="<c:url value="/logo.png"/>" alt="Logo">`,
				`<a title="<%= t.get("k") %>">x</a>`,
			}
			b.insert(rng, options[rng.Intn(len(options))])
		},
	},
	{
		name:        "orphan_close",
		description: "Close an element that was never opened",
		weight:      3,
		apply: func(b *pageBuilder, rng *rand.Rand) {
			b.insert(rng, "</section>")
		},
	},
	{
		name:        "drop_close",
		description: "Remove the end tag of a block",
		weight:      3,
		apply: func(b *pageBuilder, rng *rand.Rand) {
			b.dropClose = true
		},
	},
	{
		name:        "scriptlet",
		description: "Embed scriptlets and expressions in text",
		weight:      3,
		apply: func(b *pageBuilder, rng *rand.Rand) {
			options := []string{
				"<% for (int i = 0; i < n; i++) { %>",
				"<%= user.getName() %>",
				"<%-- note <b> --%>",
				"<%@ include file=\"header.jspf\" %>",
			}
			b.insert(rng, options[rng.Intn(len(options))])
		},
	},
	{
		name:        "bare_less_than",
		description: "Use < in text",
		weight:      3,
		apply: func(b *pageBuilder, rng *rand.Rand) {
			options := []string{"1 < 2", "a <b", "<<<", "< a >", "x <= y"}
			b.insert(rng, options[rng.Intn(len(options))])
		},
	},
	{
		name:        "mixed_line_breaks",
		description: "Mix CR, LF and CRLF line breaks",
		weight:      2,
		apply: func(b *pageBuilder, rng *rand.Rand) {
			b.lineBreak = []string{"\r", "\r\n", "\n"}[rng.Intn(3)]
		},
	},
	{
		name:        "truncate",
		description: "Cut the page at a random offset",
		weight:      2,
		apply: func(b *pageBuilder, rng *rand.Rand) {
			b.truncate = true
		},
	},
	{
		name:        "cdata_and_pi",
		description: "Add CDATA sections and processing instructions",
		weight:      2,
		apply: func(b *pageBuilder, rng *rand.Rand) {
			b.insert(rng, "<![CDATA[ a < b ]]><?php echo $x; ?>")
		},
	},
}

// pageBuilder assembles a page out of fragments.
type pageBuilder struct {
	fragments []string
	lineBreak string
	dropClose bool
	truncate  bool
}

func newBuilder(blocks int) *pageBuilder {
	b := &pageBuilder{lineBreak: "\n"}
	b.fragments = append(b.fragments, "<!DOCTYPE html>", "<html>", "<body>")
	for i := 0; i < blocks; i++ {
		b.fragments = append(b.fragments,
			fmt.Sprintf(`<div class="block-%d">`, i),
			fmt.Sprintf(`  <p id="p%d">Paragraph %d with <b>bold</b> text</p>`, i, i),
			`  <img src="a.png" alt="">`,
			"</div>")
	}
	b.fragments = append(b.fragments, "</body>", "</html>")
	return b
}

func (b *pageBuilder) insert(rng *rand.Rand, frag string) {
	i := 1 + rng.Intn(len(b.fragments)-1)
	b.fragments = append(b.fragments[:i], append([]string{frag}, b.fragments[i:]...)...)
}

func (b *pageBuilder) build(rng *rand.Rand) string {
	frags := b.fragments
	if b.dropClose {
		for i, f := range frags {
			if f == "</div>" {
				frags = append(append([]string(nil), frags[:i]...), frags[i+1:]...)
				break
			}
		}
	}
	page := strings.Join(frags, b.lineBreak) + b.lineBreak
	if b.truncate && len(page) > 1 {
		page = page[:1+rng.Intn(len(page)-1)]
	}
	return page
}

func generatePage(id int, rng *rand.Rand) (*PageSpec, string) {
	b := newBuilder(1 + rng.Intn(4))
	spec := &PageSpec{ID: id}

	numFaults := rng.Intn(5)
	used := map[string]bool{}
	for i := 0; i < numFaults; i++ {
		total := 0
		for _, f := range allFaults {
			if !used[f.name] {
				total += f.weight
			}
		}
		if total == 0 {
			break
		}
		pick := rng.Intn(total)
		cumulative := 0
		for _, f := range allFaults {
			if used[f.name] {
				continue
			}
			cumulative += f.weight
			if pick < cumulative {
				used[f.name] = true
				f.apply(b, rng)
				spec.Faults = append(spec.Faults, Fault{Name: f.name, Description: f.description})
				break
			}
		}
	}
	return spec, b.build(rng)
}

// verify returns the invariant violations of the node stream of page.
func verify(page string) []string {
	var out []string
	doc := lexer.ParseString(page)

	if code := doc.Code(); code != page {
		out = append(out, fmt.Sprintf("coverage: %d of %d characters reproduced", len(code), len(page)))
	}

	line, col, offset := 1, 1, 0
	for i, n := range doc.Nodes {
		s := n.Base()
		if s.Index != i {
			out = append(out, fmt.Sprintf("node %d: index %d", i, s.Index))
		}
		if s.Code == "" {
			out = append(out, fmt.Sprintf("node %d: empty", i))
		}
		if s.Start.Line != line || s.Start.Column != col || s.Start.Offset != offset {
			out = append(out, fmt.Sprintf("node %d: starts at %d:%d@%d, previous ended at %d:%d@%d",
				i, s.Start.Line, s.Start.Column, s.Start.Offset, line, col, offset))
		}
		if breaks := countBreaks(s.Code); s.End.Line-s.Start.Line != breaks {
			out = append(out, fmt.Sprintf("node %d: spans lines %d..%d with %d line breaks",
				i, s.Start.Line, s.End.Line, breaks))
		}
		line, col, offset = s.End.Line, s.End.Column, s.End.Offset
	}

	for i := range doc.Nodes {
		t := doc.Tag(i)
		if t == nil || t.Match < 0 || t.Match == i {
			continue
		}
		m := doc.Tag(t.Match)
		if m == nil || m.Match != i || m.IsEndElement == t.IsEndElement {
			out = append(out, fmt.Sprintf("node %d: unpaired match %d", i, t.Match))
		}
	}
	return out
}

func countBreaks(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\n':
			n++
		case '\r':
			n++
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
		}
	}
	return n
}

func main() {
	count := flag.IntP("count", "n", 1000, "number of pages to generate")
	seed := flag.Int64("seed", 42, "random seed")
	outDir := flag.StringP("out", "o", "testdata/fuzz", "directory for failing pages and the manifest")
	verbose := flag.BoolP("verbose", "v", false, "print every page")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))

	var failures []PageSpec
	for i := 1; i <= *count; i++ {
		spec, page := generatePage(i, rng)
		spec.Violations = verify(page)

		faultNames := make([]string, len(spec.Faults))
		for j, f := range spec.Faults {
			faultNames[j] = f.Name
		}
		faultStr := "clean (no faults)"
		if len(faultNames) > 0 {
			faultStr = strings.Join(faultNames, ", ")
		}
		if *verbose || len(spec.Violations) > 0 {
			fmt.Printf("[%4d] %s: %d violations\n", i, faultStr, len(spec.Violations))
		}
		if len(spec.Violations) == 0 {
			continue
		}

		if err := os.MkdirAll(*outDir, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "mkdir %s: %v\n", *outDir, err)
			os.Exit(1)
		}
		spec.Filename = fmt.Sprintf("fuzz_%04d.html", i)
		path := filepath.Join(*outDir, spec.Filename)
		if err := os.WriteFile(path, []byte(page), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "write %s: %v\n", path, err)
			os.Exit(1)
		}
		failures = append(failures, *spec)
	}

	fmt.Printf("\nChecked %d pages, %d failed\n", *count, len(failures))
	if len(failures) == 0 {
		return
	}

	manifestPath := filepath.Join(*outDir, "manifest.json")
	manifestData, _ := json.MarshalIndent(failures, "", "  ")
	if err := os.WriteFile(manifestPath, manifestData, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write manifest: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Manifest: %s\n", manifestPath)
	os.Exit(1)
}
