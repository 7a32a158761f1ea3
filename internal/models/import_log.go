package models

import "time"

// ImportLog records the outcome of one bulk-import commit. FailedRows stays
// visible so the user can inspect the rejected subset; the imported rows
// are never rolled back or re-offered for retry.
type ImportLog struct {
	ID           int       `db:"id" json:"id"`
	SessionCode  string    `db:"session_code" json:"session_code"`
	EntityKind   string    `db:"entity_kind" json:"entity_kind"`
	TotalRows    int       `db:"total_rows" json:"total_rows"`
	ImportedRows int       `db:"imported_rows" json:"imported_rows"`
	FailedRows   int       `db:"failed_rows" json:"failed_rows"`
	ReportPath   string    `db:"report_path" json:"report_path,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
