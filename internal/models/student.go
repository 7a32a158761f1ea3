package models

import "time"

// Student is an enrolled student, keyed by admission number.
type Student struct {
	ID              int       `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	AdmissionNumber string    `db:"admission_number" json:"admission_number"`
	Grade           int       `db:"grade" json:"grade"`
	Section         string    `db:"section" json:"section"`
	GuardianName    string    `db:"guardian_name" json:"guardian_name"`
	GuardianContact string    `db:"guardian_contact" json:"guardian_contact"`
	NationalID      string    `db:"national_id" json:"national_id"`
	Email           string    `db:"email" json:"email"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

type StudentRequest struct {
	Name            string `json:"name" validate:"required"`
	AdmissionNumber string `json:"admission_number" validate:"required,numeric"`
	Grade           int    `json:"grade" validate:"required,min=1,max=12"`
	Section         string `json:"section" validate:"required,len=1,alpha"`
	GuardianName    string `json:"guardian_name"`
	GuardianContact string `json:"guardian_contact" validate:"required,len=10,numeric"`
	NationalID      string `json:"national_id" validate:"omitempty,len=12,numeric"`
	Email           string `json:"email" validate:"omitempty,email"`
}
