package framework

import (
	"encoding/csv"
	"io"
	"strconv"
)

// Record is a single anytime-trace entry, taken whenever the archive
// improves. Generation is only meaningful for generational algorithms and
// stays zero otherwise.
type Record struct {
	Evaluation  int
	Generation  int
	Hypervolume float64
}

// Trace accumulates records in the order they were taken.
type Trace []Record

// WriteCSV writes the trace as CSV with a header row. When withGeneration is
// set the generation column appears between evaluation and hypervolume.
// Hypervolume values are printed with 12 significant digits.
func (t Trace) WriteCSV(w io.Writer, withGeneration bool) error {
	cw := csv.NewWriter(w)

	header := []string{"evaluation", "hypervolume"}
	if withGeneration {
		header = []string{"evaluation", "generation", "hypervolume"}
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, r := range t {
		row := make([]string, 0, 3)
		row = append(row, strconv.Itoa(r.Evaluation))
		if withGeneration {
			row = append(row, strconv.Itoa(r.Generation))
		}
		row = append(row, strconv.FormatFloat(r.Hypervolume, 'g', 12, 64))
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
