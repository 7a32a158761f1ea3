package importer

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrNotCommitReady means Submit was called while the batch still carried
// validation errors (or was empty). Callers are expected to gate on
// Eligibility before submitting; this is the second line of defense.
var ErrNotCommitReady = errors.New("batch is not ready to commit")

// BulkCreator persists a validated batch in one request. The entity kind is
// implied by the implementation. Partial failures are reported per row in
// the CommitResult, never as a Go error; a Go error means transport or
// server failure and nothing was recorded.
type BulkCreator interface {
	BulkCreate(ctx context.Context, batch []ImportRecord) (*CommitResult, error)
}

// Grid owns the authoritative in-memory batch and error map for one review
// session. All access is serialized; edits during a pending submit wait.
type Grid struct {
	mu sync.Mutex

	kind        string
	sessionCode string
	batch       []ImportRecord
	errs        ErrorMap

	orch    *Orchestrator
	staging StagingStore
	creator BulkCreator
}

// LoadGrid starts a review session: it reads the staged batch, runs the
// full validation pass (including the one snapshot round-trip) and returns
// a loaded grid. A missing or empty staged batch yields ErrNoStagedData —
// the grid never synthesizes data.
func LoadGrid(ctx context.Context, kind, sessionCode string, schema Schema, staging StagingStore, source SnapshotSource, creator BulkCreator) (*Grid, error) {
	batch, err := staging.Get(ctx, StagingKey(kind, sessionCode))
	if err != nil {
		return nil, err
	}

	orch := NewOrchestrator(schema, source)
	errs, err := orch.ValidateAll(ctx, batch)
	if err != nil {
		return nil, err
	}

	return &Grid{
		kind:        kind,
		sessionCode: sessionCode,
		batch:       batch,
		errs:        errs,
		orch:        orch,
		staging:     staging,
		creator:     creator,
	}, nil
}

// EditCell mutates one field of one record, persists the updated batch back
// to staging and revalidates the minimal affected subset. It returns the
// full updated error map.
func (g *Grid) EditCell(ctx context.Context, rowIdx int, field, value string) (ErrorMap, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if rowIdx < 0 || rowIdx >= len(g.batch) {
		return nil, fmt.Errorf("row index %d out of range", rowIdx)
	}
	g.batch[rowIdx].Set(field, value)

	errs, err := g.orch.ValidateField(g.batch, rowIdx, field, g.errs)
	if err != nil {
		return nil, err
	}
	g.errs = errs

	// Keep the staged copy current so a reload resumes from the edited
	// batch, not the originally uploaded one.
	if err := g.staging.Put(ctx, StagingKey(g.kind, g.sessionCode), g.batch); err != nil {
		return nil, err
	}
	return g.snapshotErrors(), nil
}

// Eligibility is derived from the error map and batch every time, never
// cached, so it cannot drift.
func (g *Grid) Eligibility() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.eligibilityLocked()
}

func (g *Grid) eligibilityLocked() string {
	if len(g.errs) == 0 && len(g.batch) > 0 {
		return CommitReady
	}
	return HasErrors
}

// Submit sends the whole batch to the bulk-create collaborator in one
// request. On full or partial success the staging entry is cleared —
// already-imported rows must not be resubmitted. On transport failure
// nothing is cleared and the user may retry unchanged. The client performs
// no per-row retries; per-row commit semantics belong to the server.
func (g *Grid) Submit(ctx context.Context) (*CommitResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.eligibilityLocked() != CommitReady {
		return nil, ErrNotCommitReady
	}

	result, err := g.creator.BulkCreate(ctx, g.batch)
	if err != nil {
		return nil, err
	}

	// Best effort: the commit already succeeded, and the staging TTL
	// reaps any leftover entry.
	_ = g.staging.Clear(ctx, StagingKey(g.kind, g.sessionCode))
	return result, nil
}

// Rows returns a copy of the current batch in row order.
func (g *Grid) Rows() []ImportRecord {
	g.mu.Lock()
	defer g.mu.Unlock()
	rows := make([]ImportRecord, len(g.batch))
	copy(rows, g.batch)
	return rows
}

// Errors returns a copy of the current error map.
func (g *Grid) Errors() ErrorMap {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotErrors()
}

func (g *Grid) snapshotErrors() ErrorMap {
	out := make(ErrorMap, len(g.errs))
	for k, v := range g.errs {
		out[k] = v
	}
	return out
}

// SessionCode identifies this review session.
func (g *Grid) SessionCode() string { return g.sessionCode }

// Kind is the entity kind under review.
func (g *Grid) Kind() string { return g.kind }
