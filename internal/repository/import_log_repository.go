package repository

import (
	"github.com/jmoiron/sqlx"

	"school-web/internal/models"
)

type ImportLogRepository struct {
	db *sqlx.DB
}

func NewImportLogRepository(db *sqlx.DB) *ImportLogRepository {
	return &ImportLogRepository{db: db}
}

func (r *ImportLogRepository) Create(log *models.ImportLog) error {
	query := `INSERT INTO import_logs (session_code, entity_kind, total_rows, imported_rows, failed_rows, report_path)
	          VALUES (:session_code, :entity_kind, :total_rows, :imported_rows, :failed_rows, :report_path)`
	result, err := r.db.NamedExec(query, log)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	log.ID = int(id)
	return nil
}

func (r *ImportLogRepository) FindBySessionCode(sessionCode string) (*models.ImportLog, error) {
	var log models.ImportLog
	query := `SELECT id, session_code, entity_kind, total_rows, imported_rows, failed_rows,
	          COALESCE(report_path, '') AS report_path, created_at
	          FROM import_logs WHERE session_code = ? LIMIT 1`
	if err := r.db.Get(&log, query, sessionCode); err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *ImportLogRepository) UpdateReportPath(id int, reportPath string) error {
	_, err := r.db.Exec("UPDATE import_logs SET report_path = ? WHERE id = ?", reportPath, id)
	return err
}

func (r *ImportLogRepository) FindRecent(limit int) ([]models.ImportLog, error) {
	var logs []models.ImportLog
	query := `SELECT id, session_code, entity_kind, total_rows, imported_rows, failed_rows,
	          COALESCE(report_path, '') AS report_path, created_at
	          FROM import_logs ORDER BY created_at DESC LIMIT ?`
	if err := r.db.Select(&logs, query, limit); err != nil {
		return nil, err
	}
	return logs, nil
}
