// Package analyzer runs the lexer and the registered checks over a set of
// files and collects one report per file.
package analyzer

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru"

	"github.com/adammathes/htmlverify/pkg/archive"
	"github.com/adammathes/htmlverify/pkg/checks"
	"github.com/adammathes/htmlverify/pkg/lexer"
	"github.com/adammathes/htmlverify/pkg/node"
	"github.com/adammathes/htmlverify/pkg/report"
	"github.com/adammathes/htmlverify/pkg/source"
	"github.com/adammathes/htmlverify/pkg/store"
	"github.com/adammathes/htmlverify/pkg/visitor"
)

// DefaultSuffixes are the file suffixes picked up when walking directories.
var DefaultSuffixes = []string{
	".html", ".htm", ".xhtml", ".shtml",
	".jsp", ".jspf", ".jspx", ".tag",
	".vue", ".twig", ".cshtml", ".erb", ".php",
}

const defaultCacheSize = 128

// Options configures an analysis run.
type Options struct {
	// Charset names the encoding of every input file. Empty means UTF-8.
	// A byte order mark in the file overrides it.
	Charset string

	// Workers bounds the number of files analyzed at once. Zero means
	// runtime.NumCPU().
	Workers int

	// Suffixes selects files found by walking directories. Files named
	// directly are always analyzed. Nil means DefaultSuffixes.
	Suffixes []string

	// Archives also opens archives found by walking directories and
	// analyzes their entries. Archives named directly are always opened.
	Archives bool

	// Disabled lists rule keys that are not run.
	Disabled map[string]bool

	// Info lists rule keys whose findings are reported as INFO.
	Info map[string]bool

	// CacheSize bounds the number of parsed documents kept for files with
	// identical content.
	CacheSize int

	// Extra builds additional visitors run after the built-in checks. It
	// is called once per file.
	Extra func() []visitor.Visitor
}

// Result holds the reports of a run and the store they were recorded into.
// Reports for unreadable paths come first, then files in discovery order.
type Result struct {
	Reports []*report.Report
	Store   *store.Store
}

// Analyzer holds the document cache shared by the files of a run.
type Analyzer struct {
	opts  Options
	cache *lru.Cache
}

// New returns an analyzer for opts.
func New(opts Options) (*Analyzer, error) {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.Suffixes == nil {
		opts.Suffixes = DefaultSuffixes
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = defaultCacheSize
	}
	cache, err := lru.New(opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating document cache: %w", err)
	}
	return &Analyzer{opts: opts, cache: cache}, nil
}

// Analyze runs a fresh analyzer over paths.
func Analyze(ctx context.Context, paths []string, opts Options) (*Result, error) {
	a, err := New(opts)
	if err != nil {
		return nil, err
	}
	return a.Analyze(ctx, paths)
}

// AnalyzeSource analyzes a single stream.
func AnalyzeSource(name string, r io.Reader, opts Options) (*report.Report, error) {
	a, err := New(opts)
	if err != nil {
		return nil, err
	}
	return a.AnalyzeSource(name, r), nil
}

// Analyze expands directories in paths and analyzes every file found.
// Cancelling ctx stops the run before the next file is started; files
// already running finish. Per-file failures never abort the run, they are
// reported as FATAL analysis-error messages in that file's report.
func (a *Analyzer) Analyze(ctx context.Context, paths []string) (*Result, error) {
	files, failed := a.discover(paths)

	st, err := store.New()
	if err != nil {
		return nil, err
	}

	reports := make([]*report.Report, len(files))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < a.opts.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				reports[i] = a.analyzeFile(files[i])
			}
		}()
	}

feed:
	for i := range files {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	res := &Result{Store: st, Reports: failed}
	for _, r := range reports {
		if r != nil {
			res.Reports = append(res.Reports, r)
		}
	}
	for _, r := range res.Reports {
		if err := st.AddReport(r); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return res, fmt.Errorf("analysis interrupted: %w", err)
	}
	return res, nil
}

// AnalyzeSource analyzes one stream under the given name.
func (a *Analyzer) AnalyzeSource(name string, r io.Reader) *report.Report {
	rep := report.NewReport(name)
	data, err := io.ReadAll(r)
	if err != nil {
		rep.Add(report.Fatal, report.AnalysisError, fmt.Sprintf("reading %s: %v", name, err))
		return rep
	}
	a.run(name, data, rep)
	return rep
}

func (a *Analyzer) analyzeFile(path string) *report.Report {
	rep := report.NewReport(path)
	data, err := readFile(path)
	if err != nil {
		rep.Add(report.Fatal, report.AnalysisError, fmt.Sprintf("reading file: %v", err))
		return rep
	}
	a.run(path, data, rep)
	return rep
}

// run lexes data and scans it with a fresh set of visitors. A panicking
// visitor abandons the file; findings added before the panic are kept.
func (a *Analyzer) run(name string, data []byte, rep *report.Report) {
	defer func() {
		if p := recover(); p != nil {
			rep.Add(report.Fatal, report.AnalysisError, fmt.Sprintf("analysis of %s failed: %v", name, p))
		}
	}()

	doc, err := a.parse(data)
	if err != nil {
		rep.Add(report.Fatal, report.AnalysisError, err.Error())
		return
	}

	visitors := checks.Visitors(a.opts.Disabled)
	if a.opts.Extra != nil {
		visitors = append(visitors, a.opts.Extra()...)
	}
	visitor.NewScanner(visitors...).Scan(name, doc, rep)

	if len(a.opts.Info) > 0 {
		rep.DowngradeToInfo(a.opts.Info)
	}
}

// readFile reads a plain file or an archive member named by
// archive.Member.
func readFile(name string) ([]byte, error) {
	arch, entry, ok := archive.SplitMember(name)
	if !ok {
		return os.ReadFile(name)
	}
	ar, err := archive.Open(arch)
	if err != nil {
		return nil, err
	}
	defer ar.Close()
	return ar.ReadFile(entry)
}

// parse returns the cached document for data when one exists. Cached
// documents are shared between files and must not be modified.
func (a *Analyzer) parse(data []byte) (*node.Document, error) {
	key := fmt.Sprintf("%x:%s", sha256.Sum256(data), strings.ToLower(a.opts.Charset))
	if doc, ok := a.cache.Get(key); ok {
		return doc.(*node.Document), nil
	}
	src, err := source.New(bytes.NewReader(data), a.opts.Charset)
	if err != nil {
		return nil, err
	}
	doc := lexer.New().Parse(src)
	a.cache.Add(key, doc)
	return doc, nil
}

// discover returns the files to analyze, in the order given and sorted
// within each directory, plus reports for paths that could not be read.
// Archive entries are listed under their archive.Member name.
func (a *Analyzer) discover(paths []string) ([]string, []*report.Report) {
	var files []string
	var failed []*report.Report
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}
	fail := func(p string, err error) {
		rep := report.NewReport(p)
		rep.Add(report.Fatal, report.AnalysisError, err.Error())
		failed = append(failed, rep)
	}
	expand := func(p string) {
		ar, err := archive.Open(p)
		if err != nil {
			fail(p, err)
			return
		}
		defer ar.Close()
		for _, entry := range ar.Entries(a.matches) {
			add(archive.Member(p, entry))
		}
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			fail(p, err)
			continue
		}
		if !info.IsDir() {
			if archive.IsArchive(p) {
				expand(p)
			} else {
				add(p)
			}
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				fail(path, err)
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			switch {
			case d.IsDir():
			case a.matches(path):
				add(path)
			case a.opts.Archives && archive.IsArchive(path):
				expand(path)
			}
			return nil
		})
		if err != nil {
			fail(p, err)
		}
	}
	return files, failed
}

func (a *Analyzer) matches(path string) bool {
	lower := strings.ToLower(path)
	for _, s := range a.opts.Suffixes {
		if strings.HasSuffix(lower, strings.ToLower(s)) {
			return true
		}
	}
	return false
}
