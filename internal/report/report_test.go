package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restyle/internal/audit"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteCSV(t *testing.T) {
	records := []audit.Record{
		{
			Element: "header", ElementType: "DivContainer",
			Document: "CustomerPortal.Overview", Namespace: "CustomerPortal",
			Property: "Justify content", Value: "Center",
			Decision:       audit.DecisionMapped,
			MappedProperty: "Align content", MappedValue: "Center",
			Reason: "direct equivalent",
		},
		{
			Element: "list", ElementType: "ListView",
			Document: "CustomerPortal.Overview", Namespace: "CustomerPortal",
			Property: "Fill", Value: "true",
			Decision: audit.DecisionSkipped,
			Reason:   "no mapping for this property/value/element combination",
		},
	}

	path := filepath.Join(t.TempDir(), "report.csv")
	require.NoError(t, WriteCSV(path, records))

	rows := readCSV(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{
		"element", "elementType", "document", "namespace",
		"property", "value", "action", "mappedProperty", "mappedValue", "reason",
	}, rows[0])
	assert.Equal(t, "header", rows[1][0])
	assert.Equal(t, "mapped", rows[1][6])
	assert.Equal(t, "Align content", rows[1][7])
	assert.Equal(t, "skipped", rows[2][6])
	assert.Empty(t, rows[2][7])
}

func TestWriteCSV_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	require.NoError(t, WriteCSV(path, nil))

	rows := readCSV(t, path)
	require.Len(t, rows, 1, "an empty run still gets a header")
}

func TestWriteSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.csv")
	err := WriteSummary(path, Summary{
		RunID: "run-1",
		Counts: audit.Counts{
			audit.DecisionMapped:  5,
			audit.DecisionSkipped: 2,
		},
		Namespaces:        1,
		Documents:         3,
		Elements:          40,
		NativeLayoutSkips: 1,
		MutationsQueued:   6,
		Committed:         true,
	})
	require.NoError(t, err)

	rows := readCSV(t, path)
	byMetric := make(map[string]string)
	for _, row := range rows[1:] {
		byMetric[row[0]] = row[1]
	}
	assert.Equal(t, "run-1", byMetric["runId"])
	assert.Equal(t, "5", byMetric["mapped"])
	assert.Equal(t, "0", byMetric["removed"])
	assert.Equal(t, "2", byMetric["skipped"])
	assert.Equal(t, "3", byMetric["documents"])
	assert.Equal(t, "1", byMetric["nativeLayoutDocumentsSkipped"])
	assert.Equal(t, "true", byMetric["committed"])
}
