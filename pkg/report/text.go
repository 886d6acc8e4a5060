package report

import (
	"fmt"
	"io"
)

// WriteText writes human-readable output for one file to w.
func (r *Report) WriteText(w io.Writer) {
	for _, m := range r.Messages {
		fmt.Fprintln(w, m.String())
	}
}

// WriteSummary writes the totals line for a batch of reports.
func WriteSummary(w io.Writer, reports []*Report) {
	var errs, warns, fatal int
	valid := true
	for _, r := range reports {
		errs += r.ErrorCount()
		warns += r.WarningCount()
		fatal += r.FatalCount()
		valid = valid && r.IsValid()
	}
	if valid && warns == 0 {
		fmt.Fprintf(w, "Checked %d files. No errors or warnings detected.\n", len(reports))
		return
	}
	fmt.Fprintf(w, "Checked %d files. Errors: %d, Warnings: %d, Fatal: %d\n",
		len(reports), errs, warns, fatal)
}
