package importer

import (
	"fmt"
	"strings"
)

// ImportRecord is one data row from an uploaded file. Fields holds only the
// columns that carried a non-blank value; an absent key and a blank cell are
// the same thing as far as validation is concerned.
type ImportRecord struct {
	// RowNumber is the 1-based data-row position in the source file
	// (header excluded). It never changes for the lifetime of a batch and
	// is what every error message shows to the user.
	RowNumber int               `json:"row_number"`
	Fields    map[string]string `json:"fields"`
}

// Get returns the field value and whether it is present.
func (r ImportRecord) Get(name string) (string, bool) {
	v, ok := r.Fields[name]
	return v, ok
}

// Set stores a trimmed value. A blank value removes the field entirely so
// that required checks treat cleared and never-filled cells uniformly.
func (r *ImportRecord) Set(name, value string) {
	value = strings.TrimSpace(value)
	if r.Fields == nil {
		r.Fields = map[string]string{}
	}
	if value == "" {
		delete(r.Fields, name)
		return
	}
	r.Fields[name] = value
}

// ValidationError describes why a single cell currently fails validation.
type ValidationError struct {
	Message string `json:"message"`
}

// ErrorMap is a sparse map from "{rowIndex}-{fieldName}" to the error on
// that cell. A key exists if and only if the cell currently fails
// validation; clearing removes the key, there are no tombstones.
type ErrorMap map[string]ValidationError

// CellKey builds the map key for a (row index, field) pair. Row index is
// the batch slice index, not the display row number.
func CellKey(rowIdx int, field string) string {
	return fmt.Sprintf("%d-%s", rowIdx, field)
}

func (m ErrorMap) set(rowIdx int, field, message string) {
	m[CellKey(rowIdx, field)] = ValidationError{Message: message}
}

func (m ErrorMap) setIfAbsent(rowIdx int, field, message string) {
	key := CellKey(rowIdx, field)
	if _, ok := m[key]; !ok {
		m[key] = ValidationError{Message: message}
	}
}

func (m ErrorMap) clear(rowIdx int, field string) {
	delete(m, CellKey(rowIdx, field))
}

// RowError is a per-row rejection reason reported by the bulk-create
// collaborator. Row refers to the record's RowNumber.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// CommitResult is the outcome of one bulk-create call. Errors empty means
// full success; Errors non-empty with Imported > 0 means partial success.
type CommitResult struct {
	Imported int        `json:"imported"`
	Errors   []RowError `json:"errors,omitempty"`
}

// Eligibility of a batch for commit.
const (
	CommitReady = "commit_ready"
	HasErrors   = "has_errors"
)
