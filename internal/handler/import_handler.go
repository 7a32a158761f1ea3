package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"school-web/internal/config"
	"school-web/internal/importer"
	"school-web/internal/models"
	"school-web/internal/repository"
	"school-web/internal/service"
	"school-web/internal/utils"
)

// ImportHandler drives the bulk-import flow for all three entity kinds:
// upload and parse, review with incremental revalidation, and commit.
type ImportHandler struct {
	staging       importer.StagingStore
	sessions      *importer.SessionManager
	excelService  *service.ExcelService
	importLogRepo *repository.ImportLogRepository
	classRepo     *repository.ClassRepository
	teacherRepo   *repository.TeacherRepository
	studentRepo   *repository.StudentRepository
	asynqClient   *asynq.Client
	cfg           *config.Config
	log           *logrus.Entry
}

func NewImportHandler(
	staging importer.StagingStore,
	sessions *importer.SessionManager,
	excelService *service.ExcelService,
	importLogRepo *repository.ImportLogRepository,
	classRepo *repository.ClassRepository,
	teacherRepo *repository.TeacherRepository,
	studentRepo *repository.StudentRepository,
	asynqClient *asynq.Client,
	cfg *config.Config,
) *ImportHandler {
	return &ImportHandler{
		staging:       staging,
		sessions:      sessions,
		excelService:  excelService,
		importLogRepo: importLogRepo,
		classRepo:     classRepo,
		teacherRepo:   teacherRepo,
		studentRepo:   studentRepo,
		asynqClient:   asynqClient,
		cfg:           cfg,
		log:           utils.ComponentLogger("import"),
	}
}

// collaborators resolves the schema and the persistence collaborators for
// one entity kind.
func (h *ImportHandler) collaborators(kind string) (importer.Schema, importer.SnapshotSource, importer.BulkCreator, error) {
	schema, err := importer.SchemaForKind(kind)
	if err != nil {
		return importer.Schema{}, nil, nil, err
	}
	switch schema.Kind {
	case "class":
		return schema, h.classRepo, h.classRepo, nil
	case "teacher":
		return schema, h.teacherRepo, h.teacherRepo, nil
	default:
		return schema, h.studentRepo, h.studentRepo, nil
	}
}

// UploadFile parses an uploaded spreadsheet and stages the batch for
// review. Parsing performs no validation; that happens when the review
// session opens.
func (h *ImportHandler) UploadFile(c *fiber.Ctx) error {
	schema, _, _, err := h.collaborators(c.Params("kind"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Unknown import kind", err)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "File is required", err)
	}

	ext := filepath.Ext(file.Filename)
	if ext != ".xlsx" && ext != ".xls" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Only Excel files (.xlsx, .xls) are allowed", nil)
	}
	if file.Size > int64(h.cfg.UploadMaxSize) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "File size exceeds maximum limit", nil)
	}

	src, err := file.Open()
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to read uploaded file", err)
	}
	defer src.Close()

	batch, err := importer.ParseWorkbook(src, schema)
	if errors.Is(err, importer.ErrEmptyFile) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Empty file: no data rows found", err)
	}
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Unreadable file", err)
	}

	sessionCode := importer.NewSessionCode()
	if err := h.staging.Put(c.Context(), importer.StagingKey(schema.Kind, sessionCode), batch); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to stage uploaded rows", err)
	}

	h.log.WithFields(logrus.Fields{
		"kind":    schema.Kind,
		"session": sessionCode,
		"rows":    len(batch),
	}).Info("batch staged for review")

	return utils.SuccessResponse(c, "File uploaded successfully", fiber.Map{
		"session_code": sessionCode,
		"kind":         schema.Kind,
		"total_rows":   len(batch),
		"preview":      previewRows(batch, 10),
	})
}

// OpenSession loads (or reuses) the review grid for a staged batch and
// returns the rows, the full error map and the commit eligibility. The
// grid is not considered loaded until the full validation pass, including
// its snapshot round-trip, has completed.
func (h *ImportHandler) OpenSession(c *fiber.Ctx) error {
	schema, source, creator, err := h.collaborators(c.Params("kind"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Unknown import kind", err)
	}
	sessionCode := c.Params("code")

	grid, ok := h.sessions.Get(sessionCode)
	if !ok {
		grid, err = importer.LoadGrid(c.Context(), schema.Kind, sessionCode, schema, h.staging, source, creator)
		if errors.Is(err, importer.ErrNoStagedData) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "No staged data found; upload a file first", err)
		}
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load review session", err)
		}
		h.sessions.Put(grid)
	}

	return utils.SuccessResponse(c, "Review session loaded", fiber.Map{
		"session_code": sessionCode,
		"kind":         schema.Kind,
		"fields":       schema.Fields,
		"rows":         grid.Rows(),
		"errors":       grid.Errors(),
		"eligibility":  grid.Eligibility(),
	})
}

type editCellRequest struct {
	RowIndex int    `json:"row_index"`
	Field    string `json:"field" validate:"required"`
	Value    string `json:"value"`
}

// EditCell applies a single-cell edit and revalidates the minimal affected
// subset, returning the full updated error map.
func (h *ImportHandler) EditCell(c *fiber.Ctx) error {
	grid, fail := h.loadedGrid(c)
	if fail != nil {
		return fail(c)
	}

	var req editCellRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := validateRequest(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), nil)
	}

	errs, err := grid.EditCell(c.Context(), req.RowIndex, req.Field, req.Value)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Failed to apply edit", err)
	}

	return utils.SuccessResponse(c, "Cell updated", fiber.Map{
		"errors":      errs,
		"eligibility": grid.Eligibility(),
	})
}

// Commit submits the whole batch in one request and reports the outcome:
// full success, or partial success with verbatim per-row reasons. Partial
// results still clear the staged batch since the imported rows must not be
// resubmitted. Transport failures leave everything untouched for a retry.
func (h *ImportHandler) Commit(c *fiber.Ctx) error {
	grid, fail := h.loadedGrid(c)
	if fail != nil {
		return fail(c)
	}

	batch := grid.Rows()
	result, err := grid.Submit(c.Context())
	if errors.Is(err, importer.ErrNotCommitReady) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Batch has validation errors and cannot be committed", err)
	}
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Import failed; nothing was recorded, you may retry", err)
	}

	h.sessions.Drop(grid.SessionCode())

	importLog := &models.ImportLog{
		SessionCode:  grid.SessionCode(),
		EntityKind:   grid.Kind(),
		TotalRows:    len(batch),
		ImportedRows: result.Imported,
		FailedRows:   len(result.Errors),
	}
	if err := h.importLogRepo.Create(importLog); err != nil {
		h.log.WithError(err).Warn("failed to record import log")
	}

	if len(result.Errors) > 0 && h.asynqClient != nil {
		h.enqueueErrorReport(grid.Kind(), grid.SessionCode(), importLog.ID, batch, result.Errors)
	}

	message := fmt.Sprintf("%d imported", result.Imported)
	if len(result.Errors) > 0 {
		message = fmt.Sprintf("%d imported, %d failed", result.Imported, len(result.Errors))
	}

	return utils.SuccessResponse(c, message, fiber.Map{
		"imported": result.Imported,
		"failed":   len(result.Errors),
		"errors":   result.Errors,
	})
}

// Abandon discards a staged batch and its live session.
func (h *ImportHandler) Abandon(c *fiber.Ctx) error {
	schema, _, _, err := h.collaborators(c.Params("kind"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Unknown import kind", err)
	}
	sessionCode := c.Params("code")

	h.sessions.Drop(sessionCode)
	if err := h.staging.Clear(c.Context(), importer.StagingKey(schema.Kind, sessionCode)); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to discard staged data", err)
	}
	return utils.SuccessResponse(c, "Import session discarded", nil)
}

// DownloadTemplate serves a generated import template for one entity kind.
func (h *ImportHandler) DownloadTemplate(c *fiber.Ctx) error {
	schema, _, _, err := h.collaborators(c.Params("kind"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Unknown import kind", err)
	}

	fileName := fmt.Sprintf("%s_import_template.xlsx", schema.Kind)
	outputPath := filepath.Join(h.cfg.ExportPath, fileName)
	if err := h.excelService.GenerateTemplate(schema, outputPath); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate template", err)
	}
	return c.Download(outputPath, fileName)
}

// RecentLogs lists the latest import outcomes.
func (h *ImportHandler) RecentLogs(c *fiber.Ctx) error {
	logs, err := h.importLogRepo.FindRecent(25)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve import logs", err)
	}
	return utils.SuccessResponse(c, "Import logs retrieved successfully", logs)
}

// loadedGrid resolves the live grid for the request's session, or returns
// the error responder to send. Edits and commits require the session to be
// loaded (validated) first.
func (h *ImportHandler) loadedGrid(c *fiber.Ctx) (*importer.Grid, func(*fiber.Ctx) error) {
	sessionCode := c.Params("code")
	grid, ok := h.sessions.Get(sessionCode)
	if !ok {
		return nil, func(c *fiber.Ctx) error {
			return utils.ErrorResponse(c, fiber.StatusConflict, "Review session not loaded; open the session first", nil)
		}
	}
	return grid, nil
}

func (h *ImportHandler) enqueueErrorReport(kind, sessionCode string, logID int, batch []importer.ImportRecord, rowErrors []importer.RowError) {
	payload, err := json.Marshal(fiber.Map{
		"kind":          kind,
		"session_code":  sessionCode,
		"import_log_id": logID,
		"batch":         batch,
		"errors":        rowErrors,
	})
	if err != nil {
		h.log.WithError(err).Warn("failed to encode report task payload")
		return
	}
	task := asynq.NewTask("import:report", payload)
	if _, err := h.asynqClient.Enqueue(task); err != nil {
		h.log.WithError(err).Warn("failed to enqueue error report task")
	}
}

func previewRows(batch []importer.ImportRecord, limit int) []importer.ImportRecord {
	if len(batch) > limit {
		return batch[:limit]
	}
	return batch
}
