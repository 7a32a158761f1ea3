package importer

import (
	"context"
	"fmt"
)

// SnapshotSource fetches the complete set of already-persisted records of
// one entity kind, reduced to the fields that participate in identity keys.
// The duplicate detector tolerates no pagination: the returned set must be
// the whole current population.
type SnapshotSource interface {
	Snapshot(ctx context.Context) ([]map[string]string, error)
}

// Orchestrator runs field validators and the duplicate detector over a
// batch and maintains the sparse error map. The remote snapshot is fetched
// once per ValidateAll and cached for the session's lifetime; it is read-only.
type Orchestrator struct {
	schema Schema
	source SnapshotSource
	remote remoteIndex
}

func NewOrchestrator(schema Schema, source SnapshotSource) *Orchestrator {
	return &Orchestrator{schema: schema, source: source, remote: remoteIndex{}}
}

// ValidateAll validates every cell of every row, then runs the duplicate
// detector once per identity key over the whole batch, and returns the
// union as a fresh error map. Called once when a review session loads.
func (o *Orchestrator) ValidateAll(ctx context.Context, batch []ImportRecord) (ErrorMap, error) {
	records, err := o.source.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch existing %s records: %w", o.schema.Kind, err)
	}
	o.remote = buildRemoteIndex(o.schema, records)

	errs := ErrorMap{}
	for i, rec := range batch {
		for _, spec := range o.schema.Fields {
			o.validateCell(rec, i, spec, errs)
		}
	}
	for _, key := range o.schema.Keys {
		detectDuplicates(batch, key, o.remote[key.Name], errs)
	}
	return errs, nil
}

// ValidateField revalidates after a single-cell edit. The batch must
// already hold the new value at (rowIdx, field). For an identity-key field
// the key's errors are cleared across the whole batch, that field's
// validators re-run on every row and the detector re-runs for that key,
// because one edit can resolve or create collisions elsewhere. For any
// other field only the edited cell's entry is replaced. The same map is
// returned with untouched entries preserved.
func (o *Orchestrator) ValidateField(batch []ImportRecord, rowIdx int, field string, errs ErrorMap) (ErrorMap, error) {
	if rowIdx < 0 || rowIdx >= len(batch) {
		return errs, fmt.Errorf("row index %d out of range", rowIdx)
	}
	spec, ok := o.schema.Field(field)
	if !ok {
		return errs, fmt.Errorf("unknown field %q for kind %s", field, o.schema.Kind)
	}

	if !spec.IdentityKey {
		o.validateCell(batch[rowIdx], rowIdx, spec, errs)
		return errs, nil
	}

	for _, key := range o.schema.KeysFor(field) {
		clearKeyErrors(batch, key, errs)
		for _, keyField := range key.Fields {
			keySpec, _ := o.schema.Field(keyField)
			for i, rec := range batch {
				o.validateCell(rec, i, keySpec, errs)
			}
		}
		detectDuplicates(batch, key, o.remote[key.Name], errs)
	}
	return errs, nil
}

// validateCell applies one field's validators to one row and sets or clears
// the cell's entry. Absent optional fields are valid; absent required
// fields fail before any other check runs.
func (o *Orchestrator) validateCell(rec ImportRecord, rowIdx int, spec FieldSpec, errs ErrorMap) {
	value, present := rec.Get(spec.Name)
	if !present {
		if spec.Required {
			errs.set(rowIdx, spec.Name, fmt.Sprintf("%s is required", spec.Label))
		} else {
			errs.clear(rowIdx, spec.Name)
		}
		return
	}
	for _, check := range spec.Checks {
		if msg := check(value); msg != "" {
			errs.set(rowIdx, spec.Name, fmt.Sprintf("%s %s", spec.Label, msg))
			return
		}
	}
	errs.clear(rowIdx, spec.Name)
}
