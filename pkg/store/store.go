// Package store keeps the findings and measures of a whole analysis run in
// an in-memory database indexed by file and by check.
package store

import (
	"fmt"
	"sort"

	"github.com/gofrs/uuid"
	memdb "github.com/hashicorp/go-memdb"

	"github.com/adammathes/htmlverify/pkg/report"
)

const (
	tableIssue   = "issue"
	tableMeasure = "measure"
)

// Issue is a stored finding.
type Issue struct {
	ID string
	report.Message
}

// Measure is a stored per-file measure.
type Measure struct {
	ID    string // file + "\x00" + key
	File  string
	Key   string
	Value int
}

var schema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		tableIssue: {
			Name: tableIssue,
			Indexes: map[string]*memdb.IndexSchema{
				"id":   {Name: "id", Unique: true, Indexer: &memdb.StringFieldIndex{Field: "ID"}},
				"file": {Name: "file", AllowMissing: true, Indexer: &memdb.StringFieldIndex{Field: "File"}},
				"rule": {Name: "rule", AllowMissing: true, Indexer: &memdb.StringFieldIndex{Field: "CheckID"}},
			},
		},
		tableMeasure: {
			Name: tableMeasure,
			Indexes: map[string]*memdb.IndexSchema{
				"id":   {Name: "id", Unique: true, Indexer: &memdb.StringFieldIndex{Field: "ID"}},
				"file": {Name: "file", AllowMissing: true, Indexer: &memdb.StringFieldIndex{Field: "File"}},
				"key":  {Name: "key", AllowMissing: true, Indexer: &memdb.StringFieldIndex{Field: "Key"}},
			},
		},
	},
}

// Store is safe for concurrent use.
type Store struct {
	db *memdb.MemDB
}

// New creates an empty store.
func New() (*Store, error) {
	db, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, fmt.Errorf("creating store: %w", err)
	}
	return &Store{db: db}, nil
}

// AddReport records every message and measure of r in one transaction.
func (s *Store) AddReport(r *report.Report) error {
	txn := s.db.Txn(true)
	defer txn.Abort()

	for _, m := range r.Messages {
		id, err := uuid.NewV4()
		if err != nil {
			return fmt.Errorf("issue id: %w", err)
		}
		if m.File == "" {
			m.File = r.File
		}
		if err := txn.Insert(tableIssue, &Issue{ID: id.String(), Message: m}); err != nil {
			return fmt.Errorf("storing issue: %w", err)
		}
	}
	for k, v := range r.Measures {
		ms := &Measure{ID: r.File + "\x00" + k, File: r.File, Key: k, Value: v}
		if err := txn.Insert(tableMeasure, ms); err != nil {
			return fmt.Errorf("storing measure: %w", err)
		}
	}
	txn.Commit()
	return nil
}

func (s *Store) issues(index, value string) []report.Message {
	txn := s.db.Txn(false)
	it, err := txn.Get(tableIssue, index, value)
	if err != nil {
		return nil
	}
	var out []report.Message
	for obj := it.Next(); obj != nil; obj = it.Next() {
		out = append(out, obj.(*Issue).Message)
	}
	sortMessages(out)
	return out
}

// IssuesByFile returns the findings of one file ordered by line.
func (s *Store) IssuesByFile(file string) []report.Message {
	return s.issues("file", file)
}

// IssuesByRule returns the findings of one check ordered by file and line.
func (s *Store) IssuesByRule(checkID string) []report.Message {
	return s.issues("rule", checkID)
}

// RuleCounts returns the number of findings per check.
func (s *Store) RuleCounts() map[string]int {
	txn := s.db.Txn(false)
	it, err := txn.Get(tableIssue, "id")
	if err != nil {
		return nil
	}
	counts := make(map[string]int)
	for obj := it.Next(); obj != nil; obj = it.Next() {
		counts[obj.(*Issue).CheckID]++
	}
	return counts
}

// Measure returns one measure of one file.
func (s *Store) Measure(file, key string) (int, bool) {
	txn := s.db.Txn(false)
	obj, err := txn.First(tableMeasure, "id", file+"\x00"+key)
	if err != nil || obj == nil {
		return 0, false
	}
	return obj.(*Measure).Value, true
}

// Total sums a measure across all files.
func (s *Store) Total(key string) int {
	txn := s.db.Txn(false)
	it, err := txn.Get(tableMeasure, "key", key)
	if err != nil {
		return 0
	}
	total := 0
	for obj := it.Next(); obj != nil; obj = it.Next() {
		total += obj.(*Measure).Value
	}
	return total
}

// Files returns the files that have findings or measures, sorted.
func (s *Store) Files() []string {
	seen := make(map[string]bool)
	txn := s.db.Txn(false)
	for _, table := range []string{tableIssue, tableMeasure} {
		it, err := txn.Get(table, "file")
		if err != nil {
			continue
		}
		for obj := it.Next(); obj != nil; obj = it.Next() {
			switch o := obj.(type) {
			case *Issue:
				seen[o.File] = true
			case *Measure:
				seen[o.File] = true
			}
		}
	}
	out := make([]string, 0, len(seen))
	for f := range seen {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

func sortMessages(ms []report.Message) {
	sort.SliceStable(ms, func(i, j int) bool {
		if ms[i].File != ms[j].File {
			return ms[i].File < ms[j].File
		}
		if ms[i].Line != ms[j].Line {
			return ms[i].Line < ms[j].Line
		}
		return ms[i].Column < ms[j].Column
	})
}
