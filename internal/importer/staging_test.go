package importer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStagingKey(t *testing.T) {
	assert.Equal(t, "import:teacher:IMPORT-AB12CD34", StagingKey("teacher", "IMPORT-AB12CD34"))
}

func TestMemoryStagingRoundTrip(t *testing.T) {
	staging := NewMemoryStaging()
	ctx := context.Background()
	key := StagingKey("class", "IMPORT-1")

	batch := []ImportRecord{classRow(1, "7", "A")}
	require.NoError(t, staging.Put(ctx, key, batch))

	// Get reads without consuming.
	got, err := staging.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, batch, got)

	got, err = staging.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, batch, got)

	require.NoError(t, staging.Clear(ctx, key))
	_, err = staging.Get(ctx, key)
	assert.ErrorIs(t, err, ErrNoStagedData)
}

func TestMemoryStagingMissingKey(t *testing.T) {
	staging := NewMemoryStaging()
	_, err := staging.Get(context.Background(), StagingKey("teacher", "IMPORT-NOPE"))
	assert.ErrorIs(t, err, ErrNoStagedData)
}

func TestMemoryStagingKeysDoNotCollide(t *testing.T) {
	staging := NewMemoryStaging()
	ctx := context.Background()

	require.NoError(t, staging.Put(ctx, StagingKey("class", "IMPORT-A"), []ImportRecord{classRow(1, "7", "A")}))
	require.NoError(t, staging.Put(ctx, StagingKey("teacher", "IMPORT-A"), []ImportRecord{teacherRow(1, "Jane", "EMP-1", "9876543210", "jane@school.edu")}))

	classes, err := staging.Get(ctx, StagingKey("class", "IMPORT-A"))
	require.NoError(t, err)
	_, isClass := classes[0].Get("grade")
	assert.True(t, isClass)

	teachers, err := staging.Get(ctx, StagingKey("teacher", "IMPORT-A"))
	require.NoError(t, err)
	_, isTeacher := teachers[0].Get("employee_id")
	assert.True(t, isTeacher)
}
