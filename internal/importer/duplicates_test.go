package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func classRow(rowNumber int, grade, section string) ImportRecord {
	rec := ImportRecord{RowNumber: rowNumber, Fields: map[string]string{}}
	rec.Set("grade", grade)
	rec.Set("section", section)
	rec.Set("subjects", "Math")
	return rec
}

func TestDetectDuplicatesFlagsBothRows(t *testing.T) {
	schema := ClassSchema()
	batch := []ImportRecord{
		classRow(1, "7", "A"),
		classRow(2, "8", "B"),
		classRow(3, "7", "A"),
	}

	errs := ErrorMap{}
	detectDuplicates(batch, schema.Keys[0], nil, errs)

	// Both colliding rows are flagged, each naming the other, on every
	// constituent field of the composite key.
	assert.Equal(t, "Class duplicates row 3", errs[CellKey(0, "grade")].Message)
	assert.Equal(t, "Class duplicates row 3", errs[CellKey(0, "section")].Message)
	assert.Equal(t, "Class duplicates row 1", errs[CellKey(2, "grade")].Message)
	assert.Equal(t, "Class duplicates row 1", errs[CellKey(2, "section")].Message)

	// The non-colliding row stays clean.
	_, ok := errs[CellKey(1, "grade")]
	assert.False(t, ok)
}

func TestDetectDuplicatesCaseInsensitiveKey(t *testing.T) {
	schema := ClassSchema()
	batch := []ImportRecord{
		classRow(1, "7", "a"),
		classRow(2, "7", "A"),
	}

	errs := ErrorMap{}
	detectDuplicates(batch, schema.Keys[0], nil, errs)
	assert.Len(t, errs, 4)
}

func TestDetectDuplicatesBlankKeyExempt(t *testing.T) {
	schema := ClassSchema()
	incomplete := ImportRecord{RowNumber: 2, Fields: map[string]string{}}
	incomplete.Set("grade", "7") // section missing: key value is blank

	batch := []ImportRecord{
		classRow(1, "7", "A"),
		incomplete,
		{RowNumber: 3, Fields: map[string]string{}},
	}

	errs := ErrorMap{}
	detectDuplicates(batch, schema.Keys[0], nil, errs)
	assert.Empty(t, errs, "rows with a partial or blank key never collide")
}

func TestDetectDuplicatesRemoteCollision(t *testing.T) {
	schema := ClassSchema()
	remote := buildRemoteIndex(schema, []map[string]string{
		{"grade": "7", "section": "A"},
	})

	batch := []ImportRecord{
		classRow(1, "7", "A"),
		classRow(2, "8", "B"),
	}

	errs := ErrorMap{}
	detectDuplicates(batch, schema.Keys[0], remote["grade_section"], errs)

	assert.Equal(t, "Class already exists in database", errs[CellKey(0, "grade")].Message)
	assert.Equal(t, "Class already exists in database", errs[CellKey(0, "section")].Message)
	_, ok := errs[CellKey(1, "grade")]
	assert.False(t, ok)
}

func TestDetectDuplicatesInBatchWinsOverRemote(t *testing.T) {
	schema := ClassSchema()
	remote := buildRemoteIndex(schema, []map[string]string{
		{"grade": "7", "section": "A"},
	})

	batch := []ImportRecord{
		classRow(1, "7", "A"),
		classRow(2, "7", "A"),
	}

	errs := ErrorMap{}
	detectDuplicates(batch, schema.Keys[0], remote["grade_section"], errs)

	// A value duplicated within the batch reports the in-batch collision,
	// not the remote one.
	assert.Equal(t, "Class duplicates row 2", errs[CellKey(0, "grade")].Message)
	assert.Equal(t, "Class duplicates row 1", errs[CellKey(1, "grade")].Message)
}

func TestDetectDuplicatesDoesNotOverwriteFieldErrors(t *testing.T) {
	schema := ClassSchema()
	batch := []ImportRecord{
		classRow(1, "7", "A"),
		classRow(2, "7", "A"),
	}

	errs := ErrorMap{}
	errs.set(0, "grade", "Grade must contain digits only")
	detectDuplicates(batch, schema.Keys[0], nil, errs)

	assert.Equal(t, "Grade must contain digits only", errs[CellKey(0, "grade")].Message)
	assert.Equal(t, "Class duplicates row 2", errs[CellKey(0, "section")].Message)
}

func TestClearKeyErrors(t *testing.T) {
	schema := ClassSchema()
	batch := []ImportRecord{
		classRow(1, "7", "A"),
		classRow(2, "7", "A"),
	}

	errs := ErrorMap{}
	detectDuplicates(batch, schema.Keys[0], nil, errs)
	errs.set(0, "subjects", "Subjects is required")

	clearKeyErrors(batch, schema.Keys[0], errs)

	assert.Len(t, errs, 1, "only non-key errors survive")
	_, ok := errs[CellKey(0, "subjects")]
	assert.True(t, ok)
}
