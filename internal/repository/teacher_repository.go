package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"school-web/internal/importer"
	"school-web/internal/models"
)

type TeacherRepository struct {
	db *sqlx.DB
}

func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

func (r *TeacherRepository) FindAll(limit, offset int, search string) ([]models.Teacher, int, error) {
	var teachers []models.Teacher
	var total int

	whereClause := ""
	args := []interface{}{}
	if search != "" {
		whereClause = "WHERE name LIKE ? OR employee_id LIKE ? OR email LIKE ?"
		pattern := "%" + search + "%"
		args = append(args, pattern, pattern, pattern)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM teachers %s", whereClause)
	if err := r.db.Get(&total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT id, name, employee_id, contact_number, email,
		       COALESCE(subjects, '') AS subjects,
		       COALESCE(qualification, '') AS qualification,
		       created_at, updated_at
		FROM teachers %s
		ORDER BY name
		LIMIT ? OFFSET ?`, whereClause)
	args = append(args, limit, offset)
	if err := r.db.Select(&teachers, query, args...); err != nil {
		return nil, 0, err
	}

	return teachers, total, nil
}

func (r *TeacherRepository) FindByID(id int) (*models.Teacher, error) {
	var teacher models.Teacher
	query := `
		SELECT id, name, employee_id, contact_number, email,
		       COALESCE(subjects, '') AS subjects,
		       COALESCE(qualification, '') AS qualification,
		       created_at, updated_at
		FROM teachers WHERE id = ? LIMIT 1`
	if err := r.db.Get(&teacher, query, id); err != nil {
		return nil, err
	}
	return &teacher, nil
}

func (r *TeacherRepository) Create(teacher *models.Teacher) error {
	query := `INSERT INTO teachers (name, employee_id, contact_number, email, subjects, qualification)
	          VALUES (:name, :employee_id, :contact_number, :email, :subjects, :qualification)`
	result, err := r.db.NamedExec(query, teacher)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	teacher.ID = int(id)
	return nil
}

func (r *TeacherRepository) Update(teacher *models.Teacher) error {
	query := `UPDATE teachers SET name = :name, employee_id = :employee_id,
	          contact_number = :contact_number, email = :email,
	          subjects = :subjects, qualification = :qualification
	          WHERE id = :id`
	_, err := r.db.NamedExec(query, teacher)
	return err
}

func (r *TeacherRepository) Delete(id int) error {
	_, err := r.db.Exec("DELETE FROM teachers WHERE id = ?", id)
	return err
}

// Snapshot returns every persisted teacher's identity-key fields (employee
// ID, mobile, email), unpaginated, for duplicate cross-checking.
func (r *TeacherRepository) Snapshot(ctx context.Context) ([]map[string]string, error) {
	var rows []struct {
		EmployeeID    string `db:"employee_id"`
		ContactNumber string `db:"contact_number"`
		Email         string `db:"email"`
	}
	if err := r.db.SelectContext(ctx, &rows, "SELECT employee_id, contact_number, email FROM teachers"); err != nil {
		return nil, err
	}
	records := make([]map[string]string, len(rows))
	for i, row := range rows {
		records[i] = map[string]string{
			"employee_id":    row.EmployeeID,
			"contact_number": row.ContactNumber,
			"email":          row.Email,
		}
	}
	return records, nil
}

// BulkCreate inserts a validated batch row by row, collecting per-row
// failures instead of aborting.
func (r *TeacherRepository) BulkCreate(ctx context.Context, batch []importer.ImportRecord) (*importer.CommitResult, error) {
	result := &importer.CommitResult{}
	for _, rec := range batch {
		teacher := teacherFromRecord(rec)
		if err := r.Create(teacher); err != nil {
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

func teacherFromRecord(rec importer.ImportRecord) *models.Teacher {
	name, _ := rec.Get("name")
	employeeID, _ := rec.Get("employee_id")
	contact, _ := rec.Get("contact_number")
	email, _ := rec.Get("email")
	subjects, _ := rec.Get("subjects")
	qualification, _ := rec.Get("qualification")
	return &models.Teacher{
		Name:          name,
		EmployeeID:    employeeID,
		ContactNumber: contact,
		Email:         email,
		Subjects:      subjects,
		Qualification: qualification,
	}
}
