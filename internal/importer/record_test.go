package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordSetTrimsAndDeletesBlanks(t *testing.T) {
	rec := ImportRecord{RowNumber: 1, Fields: map[string]string{}}

	rec.Set("name", "  Jane Doe  ")
	v, ok := rec.Get("name")
	assert.True(t, ok)
	assert.Equal(t, "Jane Doe", v)

	// Clearing a value removes the field entirely.
	rec.Set("name", "   ")
	_, ok = rec.Get("name")
	assert.False(t, ok)
}

func TestRecordSetOnNilMap(t *testing.T) {
	var rec ImportRecord
	rec.Set("grade", "7")

	v, ok := rec.Get("grade")
	assert.True(t, ok)
	assert.Equal(t, "7", v)
}

func TestErrorMapSetIfAbsentKeepsExisting(t *testing.T) {
	errs := ErrorMap{}
	errs.set(0, "email", "Email must be a valid email address")
	errs.setIfAbsent(0, "email", "Email duplicates row 3")

	assert.Equal(t, "Email must be a valid email address", errs[CellKey(0, "email")].Message)

	errs.clear(0, "email")
	_, ok := errs[CellKey(0, "email")]
	assert.False(t, ok, "clearing removes the key, no tombstones")
}
