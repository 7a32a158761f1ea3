package models

import "time"

// Teacher is a staff record. EmployeeID, ContactNumber and Email are each
// unique across the school.
type Teacher struct {
	ID            int       `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	EmployeeID    string    `db:"employee_id" json:"employee_id"`
	ContactNumber string    `db:"contact_number" json:"contact_number"`
	Email         string    `db:"email" json:"email"`
	Subjects      string    `db:"subjects" json:"subjects"`
	Qualification string    `db:"qualification" json:"qualification"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

type TeacherRequest struct {
	Name          string `json:"name" validate:"required"`
	EmployeeID    string `json:"employee_id" validate:"required"`
	ContactNumber string `json:"contact_number" validate:"required,len=10,numeric"`
	Email         string `json:"email" validate:"required,email"`
	Subjects      string `json:"subjects" validate:"required"`
	Qualification string `json:"qualification"`
}
