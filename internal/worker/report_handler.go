package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"school-web/internal/config"
	"school-web/internal/importer"
	"school-web/internal/repository"
	"school-web/internal/service"
	"school-web/internal/utils"
)

// ReportTaskHandler builds the downloadable XLSX error report for a
// committed import that had failed rows.
type ReportTaskHandler struct {
	db            *sqlx.DB
	redis         *redis.Client
	cfg           *config.Config
	excelService  *service.ExcelService
	importLogRepo *repository.ImportLogRepository
	log           *logrus.Entry
}

func NewReportTaskHandler(db *sqlx.DB, redis *redis.Client, cfg *config.Config) *ReportTaskHandler {
	return &ReportTaskHandler{
		db:            db,
		redis:         redis,
		cfg:           cfg,
		excelService:  service.NewExcelService(),
		importLogRepo: repository.NewImportLogRepository(db),
		log:           utils.ComponentLogger("worker"),
	}
}

type ReportTaskPayload struct {
	Kind        string                  `json:"kind"`
	SessionCode string                  `json:"session_code"`
	ImportLogID int                     `json:"import_log_id"`
	Batch       []importer.ImportRecord `json:"batch"`
	Errors      []importer.RowError     `json:"errors"`
}

func (h *ReportTaskHandler) Handle(ctx context.Context, task *asynq.Task) error {
	var payload ReportTaskPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	h.log.WithFields(logrus.Fields{
		"session_code": payload.SessionCode,
		"kind":         payload.Kind,
		"failed_rows":  len(payload.Errors),
	}).Info("building import error report")

	schema, err := importer.SchemaForKind(payload.Kind)
	if err != nil {
		return fmt.Errorf("unknown entity kind %q: %w", payload.Kind, err)
	}

	if err := os.MkdirAll(h.cfg.ExportPath, 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	fileName := fmt.Sprintf("import_errors_%s_%s.xlsx", payload.SessionCode, time.Now().Format("20060102_150405"))
	outputPath := filepath.Join(h.cfg.ExportPath, fileName)

	if err := h.excelService.WriteErrorReport(schema, payload.Batch, payload.Errors, outputPath); err != nil {
		return fmt.Errorf("failed to write error report: %w", err)
	}

	if err := h.importLogRepo.UpdateReportPath(payload.ImportLogID, outputPath); err != nil {
		return fmt.Errorf("failed to record report path: %w", err)
	}

	h.log.WithField("report_path", outputPath).Info("import error report ready")
	return nil
}
