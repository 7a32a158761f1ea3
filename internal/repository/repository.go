package repository

import "strings"

// rowErrorMessage turns a per-row insert failure into the message shown to
// the user next to the rejected row. MySQL duplicate-key violations are the
// common case when two users import overlapping data concurrently.
func rowErrorMessage(err error) string {
	msg := err.Error()
	if strings.Contains(msg, "Duplicate entry") {
		return "already exists in database"
	}
	return msg
}
