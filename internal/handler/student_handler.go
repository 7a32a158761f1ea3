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

type StudentHandler struct {
	studentRepo  *repository.StudentRepository
	excelService *service.ExcelService
	exportPath   string
}

func NewStudentHandler(studentRepo *repository.StudentRepository, excelService *service.ExcelService, exportPath string) *StudentHandler {
	return &StudentHandler{
		studentRepo:  studentRepo,
		excelService: excelService,
		exportPath:   exportPath,
	}
}

func (h *StudentHandler) GetStudents(c *fiber.Ctx) error {
	params := utils.GetPaginationParams(c)
	offset := utils.GetOffset(params.Page, params.Limit)

	students, total, err := h.studentRepo.FindAll(params.Limit, offset, params.Search)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve students", err)
	}

	pagination := utils.CalculatePagination(params.Page, params.Limit, int64(total))
	return utils.PaginatedResponseBuilder(c, "Students retrieved successfully", fiber.Map{
		"students":   students,
		"pagination": pagination,
	}, pagination)
}

func (h *StudentHandler) GetStudent(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid student ID", err)
	}

	student, err := h.studentRepo.FindByID(id)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Student not found", err)
	}
	return utils.SuccessResponse(c, "Student retrieved successfully", student)
}

func (h *StudentHandler) CreateStudent(c *fiber.Ctx) error {
	var req models.StudentRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := validateRequest(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), nil)
	}

	student := &models.Student{
		Name:            req.Name,
		AdmissionNumber: req.AdmissionNumber,
		Grade:           req.Grade,
		Section:         req.Section,
		GuardianName:    req.GuardianName,
		GuardianContact: req.GuardianContact,
		NationalID:      req.NationalID,
		Email:           req.Email,
	}
	if err := h.studentRepo.Create(student); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create student", err)
	}
	return utils.SuccessResponse(c, "Student created successfully", student)
}

func (h *StudentHandler) UpdateStudent(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid student ID", err)
	}

	var req models.StudentRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := validateRequest(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), nil)
	}

	student, err := h.studentRepo.FindByID(id)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Student not found", err)
	}

	student.Name = req.Name
	student.AdmissionNumber = req.AdmissionNumber
	student.Grade = req.Grade
	student.Section = req.Section
	student.GuardianName = req.GuardianName
	student.GuardianContact = req.GuardianContact
	student.NationalID = req.NationalID
	student.Email = req.Email

	if err := h.studentRepo.Update(student); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update student", err)
	}
	return utils.SuccessResponse(c, "Student updated successfully", student)
}

func (h *StudentHandler) DeleteStudent(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid student ID", err)
	}
	if err := h.studentRepo.Delete(id); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete student", err)
	}
	return utils.SuccessResponse(c, "Student deleted successfully", nil)
}

func (h *StudentHandler) ExportStudents(c *fiber.Ctx) error {
	students, _, err := h.studentRepo.FindAll(1000000, 0, "")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve students", err)
	}

	rows := make([]map[string]string, len(students))
	for i, student := range students {
		rows[i] = map[string]string{
			"name":             student.Name,
			"admission_number": student.AdmissionNumber,
			"grade":            strconv.Itoa(student.Grade),
			"section":          student.Section,
			"guardian_name":    student.GuardianName,
			"guardian_contact": student.GuardianContact,
			"national_id":      student.NationalID,
			"email":            student.Email,
		}
	}

	fileName := fmt.Sprintf("students_export_%s.xlsx", time.Now().Format("20060102_150405"))
	outputPath := filepath.Join(h.exportPath, fileName)
	if err := h.excelService.ExportRows(importer.StudentSchema(), rows, outputPath); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to export students", err)
	}
	return c.Download(outputPath, fileName)
}
