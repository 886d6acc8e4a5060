package analyzer_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/cucumber/godog"

	"github.com/adammathes/htmlverify/pkg/analyzer"
	"github.com/adammathes/htmlverify/pkg/lexer"
	"github.com/adammathes/htmlverify/pkg/node"
	"github.com/adammathes/htmlverify/pkg/report"
)

// testdataRoot returns the absolute path to the testdata directory.
func testdataRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return filepath.Join(dir, "testdata")
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find repo root (no go.mod)")
		}
		dir = parent
	}
}

func TestFeatures(t *testing.T) {
	root := testdataRoot(t)

	suite := godog.TestSuite{
		ScenarioInitializer: func(ctx *godog.ScenarioContext) {
			initializeScenario(ctx, filepath.Join(root, "fixtures"))
		},
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{filepath.Join(root, "features")},
			TestingT: t,
			Strict:   true,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("feature suite failed")
	}
}

// scenarioState holds per-scenario state for step definitions.
type scenarioState struct {
	fixturesDir string
	basePath    string
	markup      string
	opts        analyzer.Options

	result *report.Report
	doc    *node.Document

	// asserted marks the messages matched by a Then step, for the
	// "no other issues" step.
	asserted map[int]bool
}

func (s *scenarioState) check(name string, src string) error {
	rpt, err := analyzer.AnalyzeSource(name, strings.NewReader(src), s.opts)
	if err != nil {
		return err
	}
	s.result = rpt
	s.asserted = make(map[int]bool)
	return nil
}

func (s *scenarioState) findMessage(sev report.Severity, checkID string, line int) error {
	if s.result == nil {
		return fmt.Errorf("no analysis result available")
	}
	for i, m := range s.result.Messages {
		if s.asserted[i] || m.Severity != sev || m.CheckID != checkID {
			continue
		}
		if line > 0 && m.Line != line {
			continue
		}
		s.asserted[i] = true
		return nil
	}
	return fmt.Errorf("expected %s %s (line %d), got:\n%s", sev, checkID, line, s.dump())
}

func (s *scenarioState) dump() string {
	var sb strings.Builder
	for _, m := range s.result.Messages {
		sb.WriteString("  " + m.String() + "\n")
	}
	return sb.String()
}

func initializeScenario(ctx *godog.ScenarioContext, fixturesDir string) {
	s := &scenarioState{fixturesDir: fixturesDir}

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		*s = scenarioState{fixturesDir: fixturesDir}
		return c, nil
	})

	// Given

	ctx.Step(`^test files located at '([^']*)'$`, func(path string) error {
		s.basePath = strings.Trim(path, "/")
		return nil
	})
	ctx.Step(`^the markup:$`, func(doc *godog.DocString) error {
		s.markup = doc.Content
		return nil
	})
	ctx.Step(`^the rule '([^']*)' is disabled$`, func(key string) error {
		if s.opts.Disabled == nil {
			s.opts.Disabled = make(map[string]bool)
		}
		s.opts.Disabled[key] = true
		return nil
	})
	ctx.Step(`^the rule '([^']*)' is reported as info$`, func(key string) error {
		if s.opts.Info == nil {
			s.opts.Info = make(map[string]bool)
		}
		s.opts.Info[key] = true
		return nil
	})
	ctx.Step(`^the charset is '([^']*)'$`, func(cs string) error {
		s.opts.Charset = cs
		return nil
	})

	// When

	ctx.Step(`^checking the markup$`, func() error {
		return s.check("inline.html", s.markup)
	})
	ctx.Step(`^checking file '([^']*)'$`, func(name string) error {
		path := filepath.Join(s.fixturesDir, s.basePath, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("fixture lookup: %w", err)
		}
		return s.check(name, string(data))
	})
	ctx.Step(`^tokenizing the markup$`, func() error {
		s.doc = lexer.ParseString(s.markup)
		return nil
	})

	// Then

	ctx.Step(`^(?:an? )?(fatal|error|warning|info) ([A-Za-z0-9-]+) is reported(?: on line (\d+))?$`,
		func(sev, checkID, line string) error {
			n := 0
			if line != "" {
				n, _ = strconv.Atoi(line)
			}
			return s.findMessage(report.Severity(strings.ToUpper(sev)), checkID, n)
		})
	ctx.Step(`^no (?:other )?issues are reported$`, func() error {
		if s.result == nil {
			return fmt.Errorf("no analysis result available")
		}
		for i, m := range s.result.Messages {
			if !s.asserted[i] {
				return fmt.Errorf("unexpected %s", m)
			}
		}
		return nil
	})
	ctx.Step(`^the measure '([^']*)' is (\d+)$`, func(key string, want int) error {
		if got := s.result.Measures[key]; got != want {
			return fmt.Errorf("measure %s = %d, want %d", key, got, want)
		}
		return nil
	})
	ctx.Step(`^the node types are '([^']*)'$`, func(want string) error {
		var got []string
		for _, t := range s.doc.Types() {
			got = append(got, t.String())
		}
		if strings.Join(got, " ") != want {
			return fmt.Errorf("node types = %q, want %q", strings.Join(got, " "), want)
		}
		return nil
	})
	ctx.Step(`^the markup round-trips$`, func() error {
		if code := s.doc.Code(); code != s.markup {
			return fmt.Errorf("reconstructed %q", code)
		}
		return nil
	})
	ctx.Step(`^node (\d+) is a tag named '([^']*)' with attributes:$`,
		func(i int, name string, table *godog.Table) error {
			t := s.doc.Tag(i)
			if t == nil || t.Name != name {
				return fmt.Errorf("node %d is not tag %s", i, name)
			}
			rows := table.Rows[1:]
			if len(t.Attributes) != len(rows) {
				return fmt.Errorf("got %d attributes: %+v", len(t.Attributes), t.Attributes)
			}
			for j, row := range rows {
				a := t.Attributes[j]
				if a.Name != row.Cells[0].Value || a.Value != row.Cells[1].Value {
					return fmt.Errorf("attribute %d = %s=%q, want %s=%q",
						j, a.Name, a.Value, row.Cells[0].Value, row.Cells[1].Value)
				}
			}
			return nil
		})
	ctx.Step(`^node (\d+) starts on line (\d+) column (\d+)$`, func(i, line, col int) error {
		if i >= s.doc.Len() {
			return fmt.Errorf("only %d nodes", s.doc.Len())
		}
		p := s.doc.Nodes[i].Base().Start
		if p.Line != line || p.Column != col {
			return fmt.Errorf("node %d starts at %d:%d", i, p.Line, p.Column)
		}
		return nil
	})
}
