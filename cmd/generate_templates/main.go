package main

import (
	"fmt"
	"os"
	"path/filepath"

	"school-web/internal/importer"
	"school-web/internal/service"
)

// Writes the three bulk-import templates (classes, teachers, students)
// into storage/exports so they can be handed to school staff directly.
func main() {
	outputDir := filepath.Join("storage", "exports")
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		fmt.Printf("Error creating output directory: %v\n", err)
		return
	}

	excelService := service.NewExcelService()

	schemas := []importer.Schema{
		importer.ClassSchema(),
		importer.TeacherSchema(),
		importer.StudentSchema(),
	}

	for _, schema := range schemas {
		outputPath := filepath.Join(outputDir, fmt.Sprintf("%s_import_template.xlsx", schema.Kind))
		if err := excelService.GenerateTemplate(schema, outputPath); err != nil {
			fmt.Printf("Error generating %s template: %v\n", schema.Kind, err)
			return
		}
		fmt.Printf("✓ Template created: %s\n", outputPath)
	}
}
