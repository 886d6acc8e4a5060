// Command reportdiff compares two htmlverify JSON reports, a baseline and a
// current run, and lists the findings that appeared or went away. It exits
// 1 when the current run adds findings of severity ERROR or FATAL.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	flag "github.com/spf13/pflag"

	"github.com/adammathes/htmlverify/pkg/report"
)

// Change is one finding present in only one of the two reports.
type Change struct {
	File     string          `json:"file"`
	Type     string          `json:"type"` // "new" or "fixed"
	Severity report.Severity `json:"severity"`
	CheckID  string          `json:"check_id"`
	Line     int             `json:"line,omitempty"`
	Message  string          `json:"message"`
}

// findingKey identifies a finding across runs. Columns are left out so
// that edits elsewhere on a line do not count as a change.
type findingKey struct {
	file, checkID, message string
	line                   int
}

func loadReport(path string) (*report.JSONOutput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	var out report.JSONOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse report %s: %w", path, err)
	}
	return &out, nil
}

func index(out *report.JSONOutput) map[findingKey][]report.Message {
	idx := make(map[findingKey][]report.Message)
	for _, r := range out.Files {
		for _, m := range r.Messages {
			file := m.File
			if file == "" {
				file = r.File
			}
			k := findingKey{file: file, checkID: m.CheckID, message: m.Message, line: m.Line}
			idx[k] = append(idx[k], m)
		}
	}
	return idx
}

// diff returns the findings only in base as "fixed" and the findings only
// in cur as "new", ordered by file, line and check.
func diff(base, cur *report.JSONOutput) []Change {
	b, c := index(base), index(cur)
	var changes []Change
	collect := func(from, other map[findingKey][]report.Message, typ string) {
		for k, ms := range from {
			for _, m := range ms[min(len(ms), len(other[k])):] {
				changes = append(changes, Change{
					File: k.file, Type: typ, Severity: m.Severity,
					CheckID: k.checkID, Line: k.line, Message: k.message,
				})
			}
		}
	}
	collect(c, b, "new")
	collect(b, c, "fixed")

	sort.Slice(changes, func(i, j int) bool {
		x, y := changes[i], changes[j]
		if x.File != y.File {
			return x.File < y.File
		}
		if x.Line != y.Line {
			return x.Line < y.Line
		}
		if x.CheckID != y.CheckID {
			return x.CheckID < y.CheckID
		}
		return x.Type < y.Type
	})
	return changes
}

func isBlocking(c Change) bool {
	return c.Type == "new" && (c.Severity == report.Error || c.Severity == report.Fatal)
}

func main() {
	outPath := flag.StringP("out", "o", "", "write the changes as JSON to `file`")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: reportdiff [flags] <baseline.json> <current.json>")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}

	base, err := loadReport(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}
	cur, err := loadReport(flag.Arg(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}

	changes := diff(base, cur)
	added, fixed, blocking := 0, 0, 0
	for _, c := range changes {
		sign := "-"
		if c.Type == "new" {
			sign = "+"
			added++
		} else {
			fixed++
		}
		if isBlocking(c) {
			blocking++
		}
		fmt.Printf("%s %s:%d %s(%s): %s\n", sign, c.File, c.Line, c.Severity, c.CheckID, c.Message)
	}
	fmt.Printf("\n%d new, %d fixed\n", added, fixed)

	if *outPath != "" {
		data, _ := json.MarshalIndent(changes, "", "  ")
		if err := os.WriteFile(*outPath, data, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "write changes: %v\n", err)
			os.Exit(2)
		}
	}
	if blocking > 0 {
		os.Exit(1)
	}
}
