package importer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSnapshotSource struct {
	records []map[string]string
	err     error
	calls   int
}

func (f *fakeSnapshotSource) Snapshot(context.Context) ([]map[string]string, error) {
	f.calls++
	return f.records, f.err
}

func teacherRow(rowNumber int, name, employeeID, mobile, email string) ImportRecord {
	rec := ImportRecord{RowNumber: rowNumber, Fields: map[string]string{}}
	rec.Set("name", name)
	rec.Set("employee_id", employeeID)
	rec.Set("contact_number", mobile)
	rec.Set("email", email)
	rec.Set("subjects", "Math")
	return rec
}

func TestValidateAll(t *testing.T) {
	source := &fakeSnapshotSource{records: []map[string]string{
		{"employee_id": "EMP-9", "contact_number": "1111111111", "email": "old@school.edu"},
	}}
	orch := NewOrchestrator(TeacherSchema(), source)

	batch := []ImportRecord{
		teacherRow(1, "Jane Doe", "EMP-1", "9876543210", "jane@school.edu"),
		teacherRow(2, "John Roe", "EMP-2", "987654321", "not-an-email"), // two bad cells
		teacherRow(3, "Old Hand", "EMP-9", "2222222222", "hand@school.edu"),
	}

	errs, err := orch.ValidateAll(context.Background(), batch)
	require.NoError(t, err)
	assert.Equal(t, 1, source.calls)

	assert.Equal(t, "Mobile number must be exactly 10 digits", errs[CellKey(1, "contact_number")].Message)
	assert.Equal(t, "Email must be a valid email address", errs[CellKey(1, "email")].Message)
	assert.Equal(t, "Employee ID already exists in database", errs[CellKey(2, "employee_id")].Message)
	assert.Len(t, errs, 3)
}

func TestValidateAllMissingRequired(t *testing.T) {
	orch := NewOrchestrator(TeacherSchema(), &fakeSnapshotSource{})

	rec := ImportRecord{RowNumber: 1, Fields: map[string]string{}}
	rec.Set("name", "Jane Doe")

	errs, err := orch.ValidateAll(context.Background(), []ImportRecord{rec})
	require.NoError(t, err)

	assert.Equal(t, "Employee ID is required", errs[CellKey(0, "employee_id")].Message)
	assert.Equal(t, "Mobile number is required", errs[CellKey(0, "contact_number")].Message)
	assert.Equal(t, "Email is required", errs[CellKey(0, "email")].Message)
	assert.Equal(t, "Subjects is required", errs[CellKey(0, "subjects")].Message)

	// Optional fields may be absent.
	_, ok := errs[CellKey(0, "qualification")]
	assert.False(t, ok)
}

func TestValidateAllSnapshotFailure(t *testing.T) {
	orch := NewOrchestrator(TeacherSchema(), &fakeSnapshotSource{err: errors.New("connection refused")})

	_, err := orch.ValidateAll(context.Background(), []ImportRecord{teacherRow(1, "Jane", "EMP-1", "9876543210", "jane@school.edu")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch existing teacher records")
}

func TestValidateFieldNonKeyStaysLocal(t *testing.T) {
	orch := NewOrchestrator(TeacherSchema(), &fakeSnapshotSource{})
	batch := []ImportRecord{
		teacherRow(1, "Jane Doe", "EMP-1", "9876543210", "jane@school.edu"),
		teacherRow(2, "John Roe", "EMP-2", "1234567890", "john@school.edu"),
	}
	errs, err := orch.ValidateAll(context.Background(), batch)
	require.NoError(t, err)
	require.Empty(t, errs)

	// Break a non-key cell, then fix it.
	batch[0].Set("subjects", " , ")
	errs, err = orch.ValidateField(batch, 0, "subjects", errs)
	require.NoError(t, err)
	assert.Equal(t, "Subjects must contain at least one value", errs[CellKey(0, "subjects")].Message)
	assert.Len(t, errs, 1)

	batch[0].Set("subjects", "Physics")
	errs, err = orch.ValidateField(batch, 0, "subjects", errs)
	require.NoError(t, err)
	assert.Empty(t, errs)
}

func TestValidateFieldResolvesDuplicatePair(t *testing.T) {
	orch := NewOrchestrator(TeacherSchema(), &fakeSnapshotSource{})
	batch := []ImportRecord{
		teacherRow(1, "Jane Doe", "EMP-1", "9876543210", "jane@school.edu"),
		teacherRow(2, "John Roe", "EMP-1", "1234567890", "john@school.edu"),
	}
	errs, err := orch.ValidateAll(context.Background(), batch)
	require.NoError(t, err)
	assert.Equal(t, "Employee ID duplicates row 2", errs[CellKey(0, "employee_id")].Message)
	assert.Equal(t, "Employee ID duplicates row 1", errs[CellKey(1, "employee_id")].Message)

	// Editing one side of the pair clears BOTH rows.
	batch[1].Set("employee_id", "EMP-2")
	errs, err = orch.ValidateField(batch, 1, "employee_id", errs)
	require.NoError(t, err)
	assert.Empty(t, errs)
}

func TestValidateFieldCreatesDuplicateElsewhere(t *testing.T) {
	orch := NewOrchestrator(TeacherSchema(), &fakeSnapshotSource{})
	batch := []ImportRecord{
		teacherRow(1, "Jane Doe", "EMP-1", "9876543210", "jane@school.edu"),
		teacherRow(2, "John Roe", "EMP-2", "1234567890", "john@school.edu"),
	}
	errs, err := orch.ValidateAll(context.Background(), batch)
	require.NoError(t, err)
	require.Empty(t, errs)

	// An edit on row 0 collides with the untouched row 1: both get flagged.
	batch[0].Set("employee_id", "EMP-2")
	errs, err = orch.ValidateField(batch, 0, "employee_id", errs)
	require.NoError(t, err)
	assert.Equal(t, "Employee ID duplicates row 2", errs[CellKey(0, "employee_id")].Message)
	assert.Equal(t, "Employee ID duplicates row 1", errs[CellKey(1, "employee_id")].Message)
}

func TestValidateFieldKeyEditKeepsOtherKeyErrors(t *testing.T) {
	orch := NewOrchestrator(TeacherSchema(), &fakeSnapshotSource{})
	batch := []ImportRecord{
		teacherRow(1, "Jane Doe", "EMP-1", "9876543210", "same@school.edu"),
		teacherRow(2, "John Roe", "EMP-2", "9876543210", "same@school.edu"),
	}
	errs, err := orch.ValidateAll(context.Background(), batch)
	require.NoError(t, err)
	// Mobile and email both collide.
	require.Len(t, errs, 4)

	// Fixing the mobile collision leaves the email collision in place.
	batch[1].Set("contact_number", "1234567890")
	errs, err = orch.ValidateField(batch, 1, "contact_number", errs)
	require.NoError(t, err)

	_, ok := errs[CellKey(0, "contact_number")]
	assert.False(t, ok)
	assert.Equal(t, "Email duplicates row 2", errs[CellKey(0, "email")].Message)
	assert.Equal(t, "Email duplicates row 1", errs[CellKey(1, "email")].Message)
}

func TestValidateFieldUnknownFieldAndRange(t *testing.T) {
	orch := NewOrchestrator(TeacherSchema(), &fakeSnapshotSource{})
	batch := []ImportRecord{teacherRow(1, "Jane", "EMP-1", "9876543210", "jane@school.edu")}
	errs := ErrorMap{}

	_, err := orch.ValidateField(batch, 0, "favourite_color", errs)
	assert.Error(t, err)

	_, err = orch.ValidateField(batch, 5, "email", errs)
	assert.Error(t, err)
}
