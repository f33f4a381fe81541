// Package report serializes the audit record stream into a tabular file
// plus a companion summary of per-action totals.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"restyle/internal/audit"
)

// Columns of the tabular report, in order.
var columns = []string{
	"element", "elementType", "document", "namespace",
	"property", "value", "action", "mappedProperty", "mappedValue", "reason",
}

// WriteCSV writes one row per audit record.
func WriteCSV(path string, records []audit.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report %q: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		return fmt.Errorf("writing report header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.Element, r.ElementType, r.Document, r.Namespace,
			r.Property, r.Value, string(r.Decision), r.MappedProperty, r.MappedValue, r.Reason,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing report row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

// Summary is the input of the summary sheet.
type Summary struct {
	RunID             string
	Counts            audit.Counts
	Namespaces        int
	Documents         int
	Elements          int
	NativeLayoutSkips int
	MutationsQueued   int
	Committed         bool
}

// WriteSummary writes the totals-per-action companion file.
func WriteSummary(path string, s Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating summary %q: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	rows := [][]string{
		{"metric", "value"},
		{"runId", s.RunID},
		{"mapped", strconv.Itoa(s.Counts[audit.DecisionMapped])},
		{"removed", strconv.Itoa(s.Counts[audit.DecisionRemoved])},
		{"skipped", strconv.Itoa(s.Counts[audit.DecisionSkipped])},
		{"attributeSet", strconv.Itoa(s.Counts[audit.DecisionAttributeSet])},
		{"namespaces", strconv.Itoa(s.Namespaces)},
		{"documents", strconv.Itoa(s.Documents)},
		{"elements", strconv.Itoa(s.Elements)},
		{"nativeLayoutDocumentsSkipped", strconv.Itoa(s.NativeLayoutSkips)},
		{"mutationsQueued", strconv.Itoa(s.MutationsQueued)},
		{"committed", strconv.FormatBool(s.Committed)},
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing summary row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}
