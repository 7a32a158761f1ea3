package handler

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"school-web/internal/importer"
	"school-web/internal/models"
	"school-web/internal/repository"
	"school-web/internal/service"
	"school-web/internal/utils"
)

type ClassHandler struct {
	classRepo    *repository.ClassRepository
	excelService *service.ExcelService
	exportPath   string
}

func NewClassHandler(classRepo *repository.ClassRepository, excelService *service.ExcelService, exportPath string) *ClassHandler {
	return &ClassHandler{
		classRepo:    classRepo,
		excelService: excelService,
		exportPath:   exportPath,
	}
}

func (h *ClassHandler) GetClasses(c *fiber.Ctx) error {
	params := utils.GetPaginationParams(c)
	offset := utils.GetOffset(params.Page, params.Limit)

	classes, total, err := h.classRepo.FindAll(params.Limit, offset, params.Search)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve classes", err)
	}

	pagination := utils.CalculatePagination(params.Page, params.Limit, int64(total))
	return utils.PaginatedResponseBuilder(c, "Classes retrieved successfully", fiber.Map{
		"classes":    classes,
		"pagination": pagination,
	}, pagination)
}

func (h *ClassHandler) GetClass(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid class ID", err)
	}

	class, err := h.classRepo.FindByID(id)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Class not found", err)
	}
	return utils.SuccessResponse(c, "Class retrieved successfully", class)
}

func (h *ClassHandler) CreateClass(c *fiber.Ctx) error {
	var req models.ClassRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := validateRequest(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), nil)
	}

	class := &models.Class{
		Grade:        req.Grade,
		Section:      req.Section,
		ClassTeacher: req.ClassTeacher,
		Subjects:     req.Subjects,
	}
	if err := h.classRepo.Create(class); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create class", err)
	}
	return utils.SuccessResponse(c, "Class created successfully", class)
}

func (h *ClassHandler) UpdateClass(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid class ID", err)
	}

	var req models.ClassRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := validateRequest(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), nil)
	}

	class, err := h.classRepo.FindByID(id)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Class not found", err)
	}

	class.Grade = req.Grade
	class.Section = req.Section
	class.ClassTeacher = req.ClassTeacher
	class.Subjects = req.Subjects

	if err := h.classRepo.Update(class); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update class", err)
	}
	return utils.SuccessResponse(c, "Class updated successfully", class)
}

func (h *ClassHandler) DeleteClass(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid class ID", err)
	}
	if err := h.classRepo.Delete(id); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete class", err)
	}
	return utils.SuccessResponse(c, "Class deleted successfully", nil)
}

func (h *ClassHandler) ExportClasses(c *fiber.Ctx) error {
	classes, _, err := h.classRepo.FindAll(1000000, 0, "")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve classes", err)
	}

	rows := make([]map[string]string, len(classes))
	for i, class := range classes {
		rows[i] = map[string]string{
			"grade":         strconv.Itoa(class.Grade),
			"section":       class.Section,
			"class_teacher": class.ClassTeacher,
			"subjects":      class.Subjects,
		}
	}

	fileName := fmt.Sprintf("classes_export_%s.xlsx", time.Now().Format("20060102_150405"))
	outputPath := filepath.Join(h.exportPath, fileName)
	if err := h.excelService.ExportRows(importer.ClassSchema(), rows, outputPath); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to export classes", err)
	}
	return c.Download(outputPath, fileName)
}
