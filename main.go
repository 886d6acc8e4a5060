package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/adammathes/htmlverify/pkg/analyzer"
	"github.com/adammathes/htmlverify/pkg/checks"
	"github.com/adammathes/htmlverify/pkg/report"
	"github.com/adammathes/htmlverify/pkg/store"
)

const version = "0.1.0"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("htmlverify", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: htmlverify [flags] <path>...")
		fs.PrintDefaults()
	}
	jsonOutput := fs.String("json", "", "write the JSON report to `file` (- for stdout)")
	htmlOutput := fs.String("html", "", "write an HTML report to `file`")
	charset := fs.String("charset", "", "encoding of the input files (default UTF-8)")
	workers := fs.IntP("workers", "j", 0, "files analyzed in parallel (default number of CPUs)")
	suffixes := fs.StringSlice("suffixes", analyzer.DefaultSuffixes, "file suffixes picked up in directories")
	archives := fs.Bool("archives", false, "also analyze markup inside archives found in directories")
	disable := fs.StringSlice("disable", nil, "rule keys not to run")
	info := fs.StringSlice("info", nil, "rule keys reported as INFO")
	listRules := fs.Bool("rules", false, "list the available rules and exit")
	showVersion := fs.Bool("version", false, "print the version and exit")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	if *showVersion {
		fmt.Printf("htmlverify %s\n", version)
		return 0
	}
	if *listRules {
		for _, r := range checks.Rules() {
			fmt.Printf("%-20s %-8s %s\n", r.Key, r.Severity, r.Description)
		}
		return 0
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	opts := analyzer.Options{
		Charset:  *charset,
		Workers:  *workers,
		Suffixes: *suffixes,
		Archives: *archives,
		Disabled: ruleSet(*disable),
		Info:     ruleSet(*info),
	}
	for _, set := range []map[string]bool{opts.Disabled, opts.Info} {
		for key := range set {
			if _, ok := checks.Lookup(key); !ok {
				fmt.Fprintf(os.Stderr, "Unknown rule %q\n", key)
				return 2
			}
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := analyzer.Analyze(ctx, fs.Args(), opts)
	if res == nil {
		fmt.Fprintf(os.Stderr, "Fatal: %v\n", err)
		return 2
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	// Text output to stderr
	for _, r := range res.Reports {
		r.WriteText(os.Stderr)
	}
	writeRuleCounts(res.Store)
	report.WriteSummary(os.Stderr, res.Reports)

	if *jsonOutput != "" {
		if err := writeJSON(res.Reports, *jsonOutput); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing JSON: %v\n", err)
			return 2
		}
	}

	if *htmlOutput != "" {
		if err := writeHTML(res.Reports, *htmlOutput); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing HTML: %v\n", err)
			return 2
		}
	}

	// Exit codes: 0=valid, 1=errors, 2=fatal
	fatal, errors := 0, 0
	for _, r := range res.Reports {
		fatal += r.FatalCount()
		errors += r.ErrorCount()
	}
	switch {
	case fatal > 0 || err != nil:
		return 2
	case errors > 0:
		return 1
	}
	return 0
}

func ruleSet(keys []string) map[string]bool {
	if len(keys) == 0 {
		return nil
	}
	m := make(map[string]bool, len(keys))
	for _, k := range keys {
		m[strings.ToUpper(strings.TrimSpace(k))] = true
	}
	return m
}

func writeRuleCounts(st *store.Store) {
	counts := st.RuleCounts()
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Fprintln(os.Stderr)
	for _, k := range keys {
		fmt.Fprintf(os.Stderr, "%6d  %s\n", counts[k], k)
	}
}

func writeJSON(reports []*report.Report, path string) error {
	if path == "-" {
		return report.WriteJSON(os.Stdout, reports)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return report.WriteJSON(f, reports)
}

func writeHTML(reports []*report.Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.WriteHTML(f, reports); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
