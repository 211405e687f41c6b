package csvexport

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"batchlens/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row (8 columns).
var columns = []string{
	"Position",
	"Filename",
	"Detected Model",
	"Category",
	"Confidence",
	"Rows",
	"Matched Fields",
	"Dependencies",
}

// Writer wraps csv.Writer for exporting a batch analysis as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the 8-column header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteBatch writes one row per file, in processing order.
func (w *Writer) WriteBatch(ba *domain.BatchAnalysis) error {
	for pos, filename := range ba.ProcessingOrder {
		report, ok := ba.Files[filename]
		if !ok {
			continue
		}
		if err := w.csv.Write(reportToRow(pos+1, filename, &report)); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// reportToRow converts a single file report to an 8-element string slice.
func reportToRow(position int, filename string, report *domain.FileReport) []string {
	a := &report.Analysis

	model := a.DetectedModel
	if model == "" {
		model = "(unclassified)"
	}

	matched := make([]string, 0, len(a.MatchedFields))
	for _, m := range a.MatchedFields {
		matched = append(matched, m.Header+"="+m.Field)
	}

	return []string{
		strconv.Itoa(position),
		filename,
		model,
		a.FileCategory,
		strconv.FormatFloat(a.Confidence, 'f', 2, 64),
		strconv.Itoa(report.TotalRows),
		strings.Join(matched, "; "),
		strings.Join(a.Dependencies, "; "),
	}
}
