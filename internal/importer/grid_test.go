package importer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBulkCreator struct {
	result *CommitResult
	err    error
	calls  int
	got    []ImportRecord
}

func (f *fakeBulkCreator) BulkCreate(_ context.Context, batch []ImportRecord) (*CommitResult, error) {
	f.calls++
	f.got = batch
	return f.result, f.err
}

func stageClassBatch(t *testing.T, staging StagingStore, code string, batch []ImportRecord) {
	t.Helper()
	require.NoError(t, staging.Put(context.Background(), StagingKey("class", code), batch))
}

func loadClassGrid(t *testing.T, staging StagingStore, code string, source SnapshotSource, creator BulkCreator) *Grid {
	t.Helper()
	grid, err := LoadGrid(context.Background(), "class", code, ClassSchema(), staging, source, creator)
	require.NoError(t, err)
	return grid
}

func TestLoadGridNoStagedData(t *testing.T) {
	staging := NewMemoryStaging()
	_, err := LoadGrid(context.Background(), "class", "IMPORT-MISSING", ClassSchema(), staging, &fakeSnapshotSource{}, &fakeBulkCreator{})
	assert.ErrorIs(t, err, ErrNoStagedData)
}

func TestGridEligibilityRecomputed(t *testing.T) {
	staging := NewMemoryStaging()
	stageClassBatch(t, staging, "IMPORT-1", []ImportRecord{
		classRow(1, "7", "A"),
		classRow(2, "7", "A"),
	})

	grid := loadClassGrid(t, staging, "IMPORT-1", &fakeSnapshotSource{}, &fakeBulkCreator{})
	assert.Equal(t, HasErrors, grid.Eligibility())

	// Fixing the collision flips eligibility without any cached state.
	_, err := grid.EditCell(context.Background(), 1, "section", "B")
	require.NoError(t, err)
	assert.Equal(t, CommitReady, grid.Eligibility())

	// Breaking a cell flips it right back.
	_, err = grid.EditCell(context.Background(), 0, "grade", "seven")
	require.NoError(t, err)
	assert.Equal(t, HasErrors, grid.Eligibility())
}

func TestGridEditPersistsToStaging(t *testing.T) {
	staging := NewMemoryStaging()
	stageClassBatch(t, staging, "IMPORT-2", []ImportRecord{classRow(1, "7", "A")})

	grid := loadClassGrid(t, staging, "IMPORT-2", &fakeSnapshotSource{}, &fakeBulkCreator{})
	_, err := grid.EditCell(context.Background(), 0, "class_teacher", "Jane Doe")
	require.NoError(t, err)

	staged, err := staging.Get(context.Background(), StagingKey("class", "IMPORT-2"))
	require.NoError(t, err)
	v, _ := staged[0].Get("class_teacher")
	assert.Equal(t, "Jane Doe", v, "a reload resumes from the edited batch")
}

func TestGridEditClearingRequiredCell(t *testing.T) {
	staging := NewMemoryStaging()
	stageClassBatch(t, staging, "IMPORT-3", []ImportRecord{classRow(1, "7", "A")})

	grid := loadClassGrid(t, staging, "IMPORT-3", &fakeSnapshotSource{}, &fakeBulkCreator{})
	errs, err := grid.EditCell(context.Background(), 0, "subjects", "   ")
	require.NoError(t, err)

	assert.Equal(t, "Subjects is required", errs[CellKey(0, "subjects")].Message)
	assert.Equal(t, HasErrors, grid.Eligibility())
}

func TestGridSubmitBlockedWithErrors(t *testing.T) {
	staging := NewMemoryStaging()
	stageClassBatch(t, staging, "IMPORT-4", []ImportRecord{
		classRow(1, "7", "A"),
		classRow(2, "7", "A"),
	})

	creator := &fakeBulkCreator{}
	grid := loadClassGrid(t, staging, "IMPORT-4", &fakeSnapshotSource{}, creator)

	_, err := grid.Submit(context.Background())
	assert.ErrorIs(t, err, ErrNotCommitReady)
	assert.Zero(t, creator.calls)

	// The staged batch is untouched.
	_, err = staging.Get(context.Background(), StagingKey("class", "IMPORT-4"))
	assert.NoError(t, err)
}

func TestGridSubmitFullSuccessClearsStaging(t *testing.T) {
	staging := NewMemoryStaging()
	stageClassBatch(t, staging, "IMPORT-5", []ImportRecord{
		classRow(1, "7", "A"),
		classRow(2, "8", "B"),
	})

	creator := &fakeBulkCreator{result: &CommitResult{Imported: 2}}
	grid := loadClassGrid(t, staging, "IMPORT-5", &fakeSnapshotSource{}, creator)

	result, err := grid.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 1, creator.calls)
	assert.Len(t, creator.got, 2, "the whole batch goes out in one request")

	_, err = staging.Get(context.Background(), StagingKey("class", "IMPORT-5"))
	assert.ErrorIs(t, err, ErrNoStagedData)
}

func TestGridSubmitPartialSuccessStillClearsStaging(t *testing.T) {
	staging := NewMemoryStaging()
	stageClassBatch(t, staging, "IMPORT-6", []ImportRecord{
		classRow(1, "7", "A"),
		classRow(2, "8", "B"),
	})

	creator := &fakeBulkCreator{result: &CommitResult{
		Imported: 1,
		Errors:   []RowError{{Row: 2, Message: "Class already exists in database"}},
	}}
	grid := loadClassGrid(t, staging, "IMPORT-6", &fakeSnapshotSource{}, creator)

	result, err := grid.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Len(t, result.Errors, 1)

	// Already-imported rows must not be resubmittable.
	_, err = staging.Get(context.Background(), StagingKey("class", "IMPORT-6"))
	assert.ErrorIs(t, err, ErrNoStagedData)
}

func TestGridSubmitTransportFailureKeepsStaging(t *testing.T) {
	staging := NewMemoryStaging()
	stageClassBatch(t, staging, "IMPORT-7", []ImportRecord{classRow(1, "7", "A")})

	creator := &fakeBulkCreator{err: errors.New("connection reset")}
	grid := loadClassGrid(t, staging, "IMPORT-7", &fakeSnapshotSource{}, creator)

	_, err := grid.Submit(context.Background())
	require.Error(t, err)

	// Nothing was recorded, so the user may retry unchanged.
	staged, err := staging.Get(context.Background(), StagingKey("class", "IMPORT-7"))
	require.NoError(t, err)
	assert.Len(t, staged, 1)
}

func TestGridRowNumbersStableAcrossEdits(t *testing.T) {
	staging := NewMemoryStaging()
	stageClassBatch(t, staging, "IMPORT-8", []ImportRecord{
		classRow(1, "7", "A"),
		classRow(4, "8", "B"), // blank rows in the file left a gap
	})

	grid := loadClassGrid(t, staging, "IMPORT-8", &fakeSnapshotSource{}, &fakeBulkCreator{})
	_, err := grid.EditCell(context.Background(), 1, "section", "C")
	require.NoError(t, err)

	rows := grid.Rows()
	assert.Equal(t, 1, rows[0].RowNumber)
	assert.Equal(t, 4, rows[1].RowNumber)
}

func TestGridErrorsReturnsCopy(t *testing.T) {
	staging := NewMemoryStaging()
	stageClassBatch(t, staging, "IMPORT-9", []ImportRecord{
		classRow(1, "7", "A"),
		classRow(2, "7", "A"),
	})

	grid := loadClassGrid(t, staging, "IMPORT-9", &fakeSnapshotSource{}, &fakeBulkCreator{})
	errs := grid.Errors()
	for k := range errs {
		delete(errs, k)
	}
	assert.NotEmpty(t, grid.Errors(), "callers cannot mutate the grid's map")
}
