package service

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"school-web/internal/importer"
)

func readSheet(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetList()[0])
	require.NoError(t, err)
	return rows
}

func TestGenerateTemplate(t *testing.T) {
	svc := NewExcelService()
	path := filepath.Join(t.TempDir(), "teacher_template.xlsx")

	require.NoError(t, svc.GenerateTemplate(importer.TeacherSchema(), path))

	rows := readSheet(t, path)
	require.NotEmpty(t, rows)
	assert.Equal(t, importer.TeacherSchema().Headers(), rows[0])
	assert.Greater(t, len(rows), 1, "template carries sample rows")

	// A generated template must round-trip through the parser.
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	batch, err := importer.ParseWorkbook(buf, importer.TeacherSchema())
	require.NoError(t, err)
	assert.Len(t, batch, 2)
}

func TestWriteErrorReport(t *testing.T) {
	svc := NewExcelService()
	path := filepath.Join(t.TempDir(), "errors.xlsx")

	schema := importer.ClassSchema()
	batch := []importer.ImportRecord{
		{RowNumber: 1, Fields: map[string]string{"grade": "7", "section": "A", "subjects": "Math"}},
		{RowNumber: 2, Fields: map[string]string{"grade": "8", "section": "B", "subjects": "Physics"}},
	}
	rowErrors := []importer.RowError{
		{Row: 2, Message: "Class already exists in database"},
	}

	require.NoError(t, svc.WriteErrorReport(schema, batch, rowErrors, path))

	rows := readSheet(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, append([]string{"Row", "Reason"}, schema.Headers()...), rows[0])
	assert.Equal(t, "2", rows[1][0])
	assert.Equal(t, "Class already exists in database", rows[1][1])
	assert.Equal(t, "8", rows[1][2])
}

func TestExportRows(t *testing.T) {
	svc := NewExcelService()
	path := filepath.Join(t.TempDir(), "classes.xlsx")

	schema := importer.ClassSchema()
	data := []map[string]string{
		{"grade": "7", "section": "A", "class_teacher": "Jane Doe", "subjects": "Math"},
	}

	require.NoError(t, svc.ExportRows(schema, data, path))

	rows := readSheet(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, schema.Headers(), rows[0])
	assert.Equal(t, []string{"7", "A", "Jane Doe", "Math"}, rows[1])
}

func TestColumnName(t *testing.T) {
	assert.Equal(t, "A", columnName(0))
	assert.Equal(t, "Z", columnName(25))
	assert.Equal(t, "AA", columnName(26))
	assert.Equal(t, "AB", columnName(27))
}
