package report

import (
	"encoding/json"
	"io"
)

// JSONOutput is the JSON structure written for a batch of files.
type JSONOutput struct {
	Valid        bool      `json:"valid"`
	Files        []*Report `json:"files"`
	FatalCount   int       `json:"fatal_count"`
	ErrorCount   int       `json:"error_count"`
	WarningCount int       `json:"warning_count"`
}

// WriteJSON writes the report in JSON format to w.
func (r *Report) WriteJSON(w io.Writer) error {
	return WriteJSON(w, []*Report{r})
}

// WriteJSON writes the reports of several files as one document.
func WriteJSON(w io.Writer, reports []*Report) error {
	out := JSONOutput{Valid: true, Files: reports}
	if out.Files == nil {
		out.Files = []*Report{}
	}
	for _, r := range reports {
		if r.Messages == nil {
			r.Messages = []Message{}
		}
		out.Valid = out.Valid && r.IsValid()
		out.FatalCount += r.FatalCount()
		out.ErrorCount += r.ErrorCount()
		out.WarningCount += r.WarningCount()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
