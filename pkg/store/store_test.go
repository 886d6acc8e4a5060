package store

import (
	"testing"

	"github.com/adammathes/htmlverify/pkg/report"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := New()
	if err != nil {
		t.Fatal(err)
	}

	a := report.NewReport("a.html")
	a.AddIssue(report.Message{Severity: report.Warning, CheckID: "R1", Message: "second", Line: 9})
	a.AddIssue(report.Message{Severity: report.Error, CheckID: "R2", Message: "first", Line: 2})
	a.AddMeasure("lines", 10)

	b := report.NewReport("b.html")
	b.AddIssue(report.Message{Severity: report.Warning, CheckID: "R1", Message: "other", Line: 1})
	b.AddMeasure("lines", 5)

	for _, r := range []*report.Report{a, b} {
		if err := s.AddReport(r); err != nil {
			t.Fatal(err)
		}
	}
	return s
}

func TestIssuesByFileOrdered(t *testing.T) {
	s := newStore(t)
	got := s.IssuesByFile("a.html")
	if len(got) != 2 {
		t.Fatalf("got %d issues", len(got))
	}
	if got[0].Line != 2 || got[1].Line != 9 {
		t.Errorf("not ordered by line: %v", got)
	}
	if len(s.IssuesByFile("missing.html")) != 0 {
		t.Error("unknown file should have no issues")
	}
}

func TestIssuesByRule(t *testing.T) {
	s := newStore(t)
	got := s.IssuesByRule("R1")
	if len(got) != 2 || got[0].File != "a.html" || got[1].File != "b.html" {
		t.Errorf("got %v", got)
	}
}

func TestRuleCounts(t *testing.T) {
	counts := newStore(t).RuleCounts()
	if counts["R1"] != 2 || counts["R2"] != 1 {
		t.Errorf("counts = %v", counts)
	}
}

func TestMeasures(t *testing.T) {
	s := newStore(t)
	if v, ok := s.Measure("a.html", "lines"); !ok || v != 10 {
		t.Errorf("a.html lines = %d (%v)", v, ok)
	}
	if _, ok := s.Measure("a.html", "ncloc"); ok {
		t.Error("unexpected measure")
	}
	if s.Total("lines") != 15 {
		t.Errorf("total lines = %d", s.Total("lines"))
	}
}

func TestFiles(t *testing.T) {
	files := newStore(t).Files()
	if len(files) != 2 || files[0] != "a.html" || files[1] != "b.html" {
		t.Errorf("files = %v", files)
	}
}
