package report

import "fmt"

// Severity levels for findings.
type Severity string

const (
	Fatal   Severity = "FATAL"
	Error   Severity = "ERROR"
	Warning Severity = "WARNING"
	Info    Severity = "INFO"
	Usage   Severity = "USAGE"
)

// AnalysisError is the check ID recorded when a file could not be read or
// a check failed while visiting it.
const AnalysisError = "analysis-error"

// Message represents a single finding.
type Message struct {
	Severity Severity `json:"severity"`
	CheckID  string   `json:"check_id"`
	Message  string   `json:"message"`
	File     string   `json:"file,omitempty"`
	Line     int      `json:"line,omitempty"`
	// Column and EndColumn give an optional precise span on Line.
	Column    int `json:"column,omitempty"`
	EndColumn int `json:"end_column,omitempty"`
}

// Location formats file:line:column, omitting the parts that are unset.
func (m Message) Location() string {
	loc := m.File
	if m.Line > 0 {
		loc += fmt.Sprintf(":%d", m.Line)
		if m.Column > 0 {
			loc += fmt.Sprintf(":%d", m.Column)
		}
	}
	return loc
}

func (m Message) String() string {
	if loc := m.Location(); loc != "" {
		return fmt.Sprintf("%s(%s): %s [%s]", m.Severity, m.CheckID, m.Message, loc)
	}
	return fmt.Sprintf("%s(%s): %s", m.Severity, m.CheckID, m.Message)
}

// Report collects the findings and measures of one analyzed file.
type Report struct {
	File     string         `json:"file"`
	Messages []Message      `json:"messages"`
	Measures map[string]int `json:"measures,omitempty"`
}

// NewReport creates an empty report for file.
func NewReport(file string) *Report {
	return &Report{File: file, Measures: make(map[string]int)}
}

// AddIssue appends a message, stamping it with the report's file.
func (r *Report) AddIssue(m Message) {
	if m.File == "" {
		m.File = r.File
	}
	r.Messages = append(r.Messages, m)
}

// Add appends a message without a line.
func (r *Report) Add(sev Severity, checkID string, msg string) {
	r.AddIssue(Message{Severity: sev, CheckID: checkID, Message: msg})
}

// AddMeasure adds value to the named measure.
func (r *Report) AddMeasure(key string, value int) {
	if r.Measures == nil {
		r.Measures = make(map[string]int)
	}
	r.Measures[key] += value
}

func (r *Report) count(sev Severity) int {
	n := 0
	for _, m := range r.Messages {
		if m.Severity == sev {
			n++
		}
	}
	return n
}

// FatalCount returns the number of FATAL messages.
func (r *Report) FatalCount() int { return r.count(Fatal) }

// ErrorCount returns the number of ERROR messages.
func (r *Report) ErrorCount() int { return r.count(Error) }

// WarningCount returns the number of WARNING messages.
func (r *Report) WarningCount() int { return r.count(Warning) }

// IsValid returns true if there are no FATAL or ERROR messages.
func (r *Report) IsValid() bool {
	return r.FatalCount() == 0 && r.ErrorCount() == 0
}

// DowngradeToInfo changes the severity of WARNING and ERROR messages whose
// CheckID is in the given set to INFO.
func (r *Report) DowngradeToInfo(checkIDs map[string]bool) {
	for i := range r.Messages {
		sev := r.Messages[i].Severity
		if (sev == Warning || sev == Error) && checkIDs[r.Messages[i].CheckID] {
			r.Messages[i].Severity = Info
		}
	}
}
