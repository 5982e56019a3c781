package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleDataset() Dataset {
	return Dataset{
		Title:   "Ongoing sessions",
		Headers: []string{"Course", "Session"},
		Rows: []map[string]string{
			{"Course": "CS101", "Session": "First feedback"},
			{"Course": "CS102"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	assert.Equal(t, []string{"Course,Session", "CS101,First feedback", "CS102,"}, lines)
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestXLSXExporterRender(t *testing.T) {
	out, err := NewXLSXExporter().Render(sampleDataset())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Ongoing sessions")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"CS101", "First feedback"}, rows[1])
}

func TestRenderRequiresHeaders(t *testing.T) {
	for _, format := range []string{FormatCSV, FormatPDF, FormatXLSX} {
		exporter, err := ForFormat(format)
		require.NoError(t, err)
		_, err = exporter.Render(Dataset{})
		assert.Error(t, err, format)
	}
}

func TestForFormatUnknown(t *testing.T) {
	_, err := ForFormat("docx")
	assert.Error(t, err)
}
