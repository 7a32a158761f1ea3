package service

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"school-web/internal/importer"
)

// ExcelService generates the spreadsheet artifacts around the import
// pipeline: upload templates, entity exports and post-commit error reports.
// Parsing uploaded files lives in the importer package, not here.
type ExcelService struct{}

func NewExcelService() *ExcelService {
	return &ExcelService{}
}

// templateSamples holds one example row per entity kind, written under the
// header so users see the expected shape.
var templateSamples = map[string][][]interface{}{
	"class": {
		{"10", "A", "R. Sharma", "Math, Physics, Chemistry"},
		{"10", "B", "S. Iyer", "Math, Biology, English"},
	},
	"teacher": {
		{"Asha Verma", "EMP-1041", "9876543210", "asha.verma@school.example", "Math, Physics", "M.Sc."},
		{"Ravi Nair", "EMP-1042", "9876501234", "ravi.nair@school.example", "English", "B.Ed."},
	},
	"student": {
		{"Aryan Gupta", "240115", "10", "A", "P. Gupta", "9988776655", "123456789012", "aryan@example.com"},
		{"Meera Joshi", "240116", "10", "A", "K. Joshi", "9988712345", "", ""},
	},
}

// GenerateTemplate writes an import template for one entity kind: styled
// header row from the schema labels plus a couple of sample rows.
func (s *ExcelService) GenerateTemplate(schema importer.Schema, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Import"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}

	headers := schema.Headers()
	for i, header := range headers {
		cell := fmt.Sprintf("%s1", columnName(i))
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	f.SetCellStyle(sheetName, "A1", fmt.Sprintf("%s1", columnName(len(headers)-1)), headerStyle)

	for rowIdx, rowData := range templateSamples[schema.Kind] {
		for colIdx, value := range rowData {
			cell := fmt.Sprintf("%s%d", columnName(colIdx), rowIdx+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	for i := range headers {
		col := columnName(i)
		f.SetColWidth(sheetName, col, col, 22)
	}

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")
	return f.SaveAs(outputPath)
}

// WriteErrorReport writes the rows a commit rejected, with their original
// row numbers and the server's verbatim rejection reasons, so the user can
// inspect the failed subset.
func (s *ExcelService) WriteErrorReport(schema importer.Schema, batch []importer.ImportRecord, rowErrors []importer.RowError, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Import Errors"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}

	headers := append([]string{"Row", "Reason"}, schema.Headers()...)
	for i, header := range headers {
		cell := fmt.Sprintf("%s1", columnName(i))
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#F4CCCC"}, Pattern: 1},
	})
	f.SetCellStyle(sheetName, "A1", fmt.Sprintf("%s1", columnName(len(headers)-1)), headerStyle)

	byRow := map[int]importer.ImportRecord{}
	for _, rec := range batch {
		byRow[rec.RowNumber] = rec
	}

	for i, rowErr := range rowErrors {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), rowErr.Row)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), rowErr.Message)
		rec, ok := byRow[rowErr.Row]
		if !ok {
			continue
		}
		for colIdx, spec := range schema.Fields {
			value, _ := rec.Get(spec.Name)
			cell := fmt.Sprintf("%s%d", columnName(colIdx+2), row)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")
	return f.SaveAs(outputPath)
}

// ExportRows writes a generic entity export: schema headers plus one row
// per field map, in schema column order.
func (s *ExcelService) ExportRows(schema importer.Schema, rows []map[string]string, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Export"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}

	headers := schema.Headers()
	for i, header := range headers {
		cell := fmt.Sprintf("%s1", columnName(i))
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	f.SetCellStyle(sheetName, "A1", fmt.Sprintf("%s1", columnName(len(headers)-1)), headerStyle)

	for rowIdx, fields := range rows {
		for colIdx, spec := range schema.Fields {
			cell := fmt.Sprintf("%s%d", columnName(colIdx), rowIdx+2)
			f.SetCellValue(sheetName, cell, fields[spec.Name])
		}
	}

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")
	return f.SaveAs(outputPath)
}

// columnName converts a 0-based column index to an Excel column label.
func columnName(index int) string {
	result := ""
	for index >= 0 {
		result = string(rune('A'+(index%26))) + result
		index = index/26 - 1
	}
	return result
}
