package importer

import "fmt"

// remoteIndex holds the normalized identity-key values of already-persisted
// records, one value-set per identity key. It is built once per review
// session from a RemoteSnapshot and never mutated afterwards.
type remoteIndex map[string]map[string]bool

func buildRemoteIndex(schema Schema, records []map[string]string) remoteIndex {
	idx := remoteIndex{}
	for _, key := range schema.Keys {
		values := map[string]bool{}
		for _, rec := range records {
			if v := key.ValueFromMap(rec); v != "" {
				values[v] = true
			}
		}
		idx[key.Name] = values
	}
	return idx
}

// detectDuplicates scans the whole batch for one identity key and records
// collisions in errs. Rows with a blank key value are exempt. An in-batch
// collision flags BOTH rows, each message naming the other row's number, so
// the outcome is symmetric regardless of edit order. Remote collisions are
// checked only for values that are unique within the batch and flag the one
// row that carries them. Existing cell errors are never overwritten; field
// validator messages take precedence over duplicate messages.
func detectDuplicates(batch []ImportRecord, key IdentityKey, remote map[string]bool, errs ErrorMap) {
	firstSeen := map[string]int{}
	inBatchDup := map[string]bool{}

	for i, rec := range batch {
		kv := key.ValueOf(rec)
		if kv == "" {
			continue
		}
		if j, seen := firstSeen[kv]; seen {
			inBatchDup[kv] = true
			for _, field := range key.Fields {
				errs.setIfAbsent(i, field, duplicateMessage(key, batch[j].RowNumber))
				errs.setIfAbsent(j, field, duplicateMessage(key, rec.RowNumber))
			}
			continue
		}
		firstSeen[kv] = i
	}

	if len(remote) == 0 {
		return
	}
	for kv, i := range firstSeen {
		if inBatchDup[kv] || !remote[kv] {
			continue
		}
		for _, field := range key.Fields {
			errs.setIfAbsent(i, field, fmt.Sprintf("%s already exists in database", key.Label))
		}
	}
}

func duplicateMessage(key IdentityKey, otherRow int) string {
	return fmt.Sprintf("%s duplicates row %d", key.Label, otherRow)
}

// clearKeyErrors removes every error attached to the key's fields across the
// whole batch. The caller re-runs the field validators and the detector for
// that key immediately afterwards, so nothing legitimate is lost.
func clearKeyErrors(batch []ImportRecord, key IdentityKey, errs ErrorMap) {
	for i := range batch {
		for _, field := range key.Fields {
			errs.clear(i, field)
		}
	}
}
