package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	"school-web/internal/importer"
	"school-web/internal/models"
)

type StudentRepository struct {
	db *sqlx.DB
}

func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

func (r *StudentRepository) FindAll(limit, offset int, search string) ([]models.Student, int, error) {
	var students []models.Student
	var total int

	whereClause := ""
	args := []interface{}{}
	if search != "" {
		whereClause = "WHERE name LIKE ? OR admission_number LIKE ?"
		pattern := "%" + search + "%"
		args = append(args, pattern, pattern)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM students %s", whereClause)
	if err := r.db.Get(&total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT id, name, admission_number, grade, section,
		       COALESCE(guardian_name, '') AS guardian_name,
		       COALESCE(guardian_contact, '') AS guardian_contact,
		       COALESCE(national_id, '') AS national_id,
		       COALESCE(email, '') AS email,
		       created_at, updated_at
		FROM students %s
		ORDER BY grade, section, name
		LIMIT ? OFFSET ?`, whereClause)
	args = append(args, limit, offset)
	if err := r.db.Select(&students, query, args...); err != nil {
		return nil, 0, err
	}

	return students, total, nil
}

func (r *StudentRepository) FindByID(id int) (*models.Student, error) {
	var student models.Student
	query := `
		SELECT id, name, admission_number, grade, section,
		       COALESCE(guardian_name, '') AS guardian_name,
		       COALESCE(guardian_contact, '') AS guardian_contact,
		       COALESCE(national_id, '') AS national_id,
		       COALESCE(email, '') AS email,
		       created_at, updated_at
		FROM students WHERE id = ? LIMIT 1`
	if err := r.db.Get(&student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *StudentRepository) Create(student *models.Student) error {
	query := `INSERT INTO students (name, admission_number, grade, section,
	          guardian_name, guardian_contact, national_id, email)
	          VALUES (:name, :admission_number, :grade, :section,
	          :guardian_name, :guardian_contact, :national_id, :email)`
	result, err := r.db.NamedExec(query, student)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	student.ID = int(id)
	return nil
}

func (r *StudentRepository) Update(student *models.Student) error {
	query := `UPDATE students SET name = :name, admission_number = :admission_number,
	          grade = :grade, section = :section, guardian_name = :guardian_name,
	          guardian_contact = :guardian_contact, national_id = :national_id,
	          email = :email
	          WHERE id = :id`
	_, err := r.db.NamedExec(query, student)
	return err
}

func (r *StudentRepository) Delete(id int) error {
	_, err := r.db.Exec("DELETE FROM students WHERE id = ?", id)
	return err
}

// Snapshot returns every persisted student's admission number, unpaginated,
// for duplicate cross-checking.
func (r *StudentRepository) Snapshot(ctx context.Context) ([]map[string]string, error) {
	var numbers []string
	if err := r.db.SelectContext(ctx, &numbers, "SELECT admission_number FROM students"); err != nil {
		return nil, err
	}
	records := make([]map[string]string, len(numbers))
	for i, n := range numbers {
		records[i] = map[string]string{"admission_number": n}
	}
	return records, nil
}

// BulkCreate inserts a validated batch row by row, collecting per-row
// failures instead of aborting.
func (r *StudentRepository) BulkCreate(ctx context.Context, batch []importer.ImportRecord) (*importer.CommitResult, error) {
	result := &importer.CommitResult{}
	for _, rec := range batch {
		student, err := studentFromRecord(rec)
		if err == nil {
			err = r.Create(student)
		}
		if err != nil {
			result.Errors = append(result.Errors, importer.RowError{
				Row:     rec.RowNumber,
				Message: rowErrorMessage(err),
			})
			continue
		}
		result.Imported++
	}
	return result, nil
}

func studentFromRecord(rec importer.ImportRecord) (*models.Student, error) {
	gradeStr, _ := rec.Get("grade")
	grade, err := strconv.Atoi(gradeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid grade %q", gradeStr)
	}
	name, _ := rec.Get("name")
	admission, _ := rec.Get("admission_number")
	section, _ := rec.Get("section")
	guardianName, _ := rec.Get("guardian_name")
	guardianContact, _ := rec.Get("guardian_contact")
	nationalID, _ := rec.Get("national_id")
	email, _ := rec.Get("email")
	return &models.Student{
		Name:            name,
		AdmissionNumber: admission,
		Grade:           grade,
		Section:         strings.ToUpper(section),
		GuardianName:    guardianName,
		GuardianContact: guardianContact,
		NationalID:      nationalID,
		Email:           email,
	}, nil
}
