package models

import "time"

// Class is one academic section, identified by grade plus section letter.
type Class struct {
	ID           int       `db:"id" json:"id"`
	Grade        int       `db:"grade" json:"grade"`
	Section      string    `db:"section" json:"section"`
	ClassTeacher string    `db:"class_teacher" json:"class_teacher"`
	Subjects     string    `db:"subjects" json:"subjects"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

type ClassRequest struct {
	Grade        int    `json:"grade" validate:"required,min=1,max=12"`
	Section      string `json:"section" validate:"required,len=1,alpha"`
	ClassTeacher string `json:"class_teacher"`
	Subjects     string `json:"subjects" validate:"required"`
}
