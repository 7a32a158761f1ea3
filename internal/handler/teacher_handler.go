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

type TeacherHandler struct {
	teacherRepo  *repository.TeacherRepository
	excelService *service.ExcelService
	exportPath   string
}

func NewTeacherHandler(teacherRepo *repository.TeacherRepository, excelService *service.ExcelService, exportPath string) *TeacherHandler {
	return &TeacherHandler{
		teacherRepo:  teacherRepo,
		excelService: excelService,
		exportPath:   exportPath,
	}
}

func (h *TeacherHandler) GetTeachers(c *fiber.Ctx) error {
	params := utils.GetPaginationParams(c)
	offset := utils.GetOffset(params.Page, params.Limit)

	teachers, total, err := h.teacherRepo.FindAll(params.Limit, offset, params.Search)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve teachers", err)
	}

	pagination := utils.CalculatePagination(params.Page, params.Limit, int64(total))
	return utils.PaginatedResponseBuilder(c, "Teachers retrieved successfully", fiber.Map{
		"teachers":   teachers,
		"pagination": pagination,
	}, pagination)
}

func (h *TeacherHandler) GetTeacher(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid teacher ID", err)
	}

	teacher, err := h.teacherRepo.FindByID(id)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Teacher not found", err)
	}
	return utils.SuccessResponse(c, "Teacher retrieved successfully", teacher)
}

func (h *TeacherHandler) CreateTeacher(c *fiber.Ctx) error {
	var req models.TeacherRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := validateRequest(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), nil)
	}

	teacher := &models.Teacher{
		Name:          req.Name,
		EmployeeID:    req.EmployeeID,
		ContactNumber: req.ContactNumber,
		Email:         req.Email,
		Subjects:      req.Subjects,
		Qualification: req.Qualification,
	}
	if err := h.teacherRepo.Create(teacher); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create teacher", err)
	}
	return utils.SuccessResponse(c, "Teacher created successfully", teacher)
}

func (h *TeacherHandler) UpdateTeacher(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid teacher ID", err)
	}

	var req models.TeacherRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := validateRequest(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), nil)
	}

	teacher, err := h.teacherRepo.FindByID(id)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Teacher not found", err)
	}

	teacher.Name = req.Name
	teacher.EmployeeID = req.EmployeeID
	teacher.ContactNumber = req.ContactNumber
	teacher.Email = req.Email
	teacher.Subjects = req.Subjects
	teacher.Qualification = req.Qualification

	if err := h.teacherRepo.Update(teacher); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update teacher", err)
	}
	return utils.SuccessResponse(c, "Teacher updated successfully", teacher)
}

func (h *TeacherHandler) DeleteTeacher(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid teacher ID", err)
	}
	if err := h.teacherRepo.Delete(id); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete teacher", err)
	}
	return utils.SuccessResponse(c, "Teacher deleted successfully", nil)
}

func (h *TeacherHandler) ExportTeachers(c *fiber.Ctx) error {
	teachers, _, err := h.teacherRepo.FindAll(1000000, 0, "")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve teachers", err)
	}

	rows := make([]map[string]string, len(teachers))
	for i, teacher := range teachers {
		rows[i] = map[string]string{
			"name":           teacher.Name,
			"employee_id":    teacher.EmployeeID,
			"contact_number": teacher.ContactNumber,
			"email":          teacher.Email,
			"subjects":       teacher.Subjects,
			"qualification":  teacher.Qualification,
		}
	}

	fileName := fmt.Sprintf("teachers_export_%s.xlsx", time.Now().Format("20060102_150405"))
	outputPath := filepath.Join(h.exportPath, fileName)
	if err := h.excelService.ExportRows(importer.TeacherSchema(), rows, outputPath); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to export teachers", err)
	}
	return c.Download(outputPath, fileName)
}
