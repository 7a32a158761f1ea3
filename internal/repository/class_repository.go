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

type ClassRepository struct {
	db *sqlx.DB
}

func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

func (r *ClassRepository) FindAll(limit, offset int, search string) ([]models.Class, int, error) {
	var classes []models.Class
	var total int

	whereClause := ""
	args := []interface{}{}
	if search != "" {
		whereClause = "WHERE CONCAT(grade, section) LIKE ? OR class_teacher LIKE ?"
		pattern := "%" + search + "%"
		args = append(args, pattern, pattern)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM classes %s", whereClause)
	if err := r.db.Get(&total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT id, grade, section,
		       COALESCE(class_teacher, '') AS class_teacher,
		       COALESCE(subjects, '') AS subjects,
		       created_at, updated_at
		FROM classes %s
		ORDER BY grade, section
		LIMIT ? OFFSET ?`, whereClause)
	args = append(args, limit, offset)
	if err := r.db.Select(&classes, query, args...); err != nil {
		return nil, 0, err
	}

	return classes, total, nil
}

func (r *ClassRepository) FindByID(id int) (*models.Class, error) {
	var class models.Class
	query := `
		SELECT id, grade, section,
		       COALESCE(class_teacher, '') AS class_teacher,
		       COALESCE(subjects, '') AS subjects,
		       created_at, updated_at
		FROM classes WHERE id = ? LIMIT 1`
	if err := r.db.Get(&class, query, id); err != nil {
		return nil, err
	}
	return &class, nil
}

func (r *ClassRepository) Create(class *models.Class) error {
	query := `INSERT INTO classes (grade, section, class_teacher, subjects)
	          VALUES (:grade, :section, :class_teacher, :subjects)`
	result, err := r.db.NamedExec(query, class)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	class.ID = int(id)
	return nil
}

func (r *ClassRepository) Update(class *models.Class) error {
	query := `UPDATE classes SET grade = :grade, section = :section,
	          class_teacher = :class_teacher, subjects = :subjects
	          WHERE id = :id`
	_, err := r.db.NamedExec(query, class)
	return err
}

func (r *ClassRepository) Delete(id int) error {
	_, err := r.db.Exec("DELETE FROM classes WHERE id = ?", id)
	return err
}

// Snapshot returns the identity-key fields of every persisted class. The
// duplicate detector needs the complete set, so there is no pagination.
func (r *ClassRepository) Snapshot(ctx context.Context) ([]map[string]string, error) {
	var rows []struct {
		Grade   int    `db:"grade"`
		Section string `db:"section"`
	}
	if err := r.db.SelectContext(ctx, &rows, "SELECT grade, section FROM classes"); err != nil {
		return nil, err
	}
	records := make([]map[string]string, len(rows))
	for i, row := range rows {
		records[i] = map[string]string{
			"grade":   strconv.Itoa(row.Grade),
			"section": row.Section,
		}
	}
	return records, nil
}

// BulkCreate inserts a validated batch row by row, collecting per-row
// failures instead of aborting. Imported rows stay imported; the caller
// reports the failed subset to the user.
func (r *ClassRepository) BulkCreate(ctx context.Context, batch []importer.ImportRecord) (*importer.CommitResult, error) {
	result := &importer.CommitResult{}
	for _, rec := range batch {
		class, err := classFromRecord(rec)
		if err == nil {
			err = r.Create(class)
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

func classFromRecord(rec importer.ImportRecord) (*models.Class, error) {
	gradeStr, _ := rec.Get("grade")
	grade, err := strconv.Atoi(gradeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid grade %q", gradeStr)
	}
	section, _ := rec.Get("section")
	teacher, _ := rec.Get("class_teacher")
	subjects, _ := rec.Get("subjects")
	return &models.Class{
		Grade:        grade,
		Section:      strings.ToUpper(section),
		ClassTeacher: teacher,
		Subjects:     subjects,
	}, nil
}
