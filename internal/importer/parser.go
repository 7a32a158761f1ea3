package importer

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrEmptyFile means the uploaded workbook had a header row but no
	// data rows (or no rows at all).
	ErrEmptyFile = errors.New("file contains no data rows")
	// ErrUnreadableFile means the uploaded bytes could not be decoded as
	// a spreadsheet.
	ErrUnreadableFile = errors.New("file could not be read as a spreadsheet")
)

// ParseWorkbook turns an uploaded spreadsheet into an ordered batch of
// ImportRecords, one per data row, in file order. Columns are matched to
// schema fields by header label (case-insensitive; field names accepted
// too). Cell values are trimmed; blank cells become absent fields. The
// parser performs no validation and no duplicate checks.
func ParseWorkbook(r io.Reader, schema Schema) ([]ImportRecord, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrUnreadableFile
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}

	columns, err := mapColumns(rows[0], schema)
	if err != nil {
		return nil, err
	}

	var batch []ImportRecord
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if rowIsBlank(row) {
			continue
		}
		rec := ImportRecord{
			// 1-based data-row position in the file. Skipped blank
			// rows keep their slot so the number still points at
			// the right row in the user's original sheet.
			RowNumber: i,
			Fields:    map[string]string{},
		}
		for col, field := range columns {
			if col >= len(row) {
				continue
			}
			rec.Set(field, row[col])
		}
		batch = append(batch, rec)
	}

	if len(batch) == 0 {
		return nil, ErrEmptyFile
	}
	return batch, nil
}

// mapColumns matches header cells to schema fields. Every schema field must
// have a column; extra columns in the file are ignored.
func mapColumns(header []string, schema Schema) (map[int]string, error) {
	columns := map[int]string{}
	for _, spec := range schema.Fields {
		found := false
		for col, cell := range header {
			cell = strings.TrimSpace(cell)
			if strings.EqualFold(cell, spec.Label) || strings.EqualFold(cell, spec.Name) {
				columns[col] = spec.Name
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: missing column %q", ErrUnreadableFile, spec.Label)
		}
	}
	return columns, nil
}

func rowIsBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
