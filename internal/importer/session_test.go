package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionCode(t *testing.T) {
	code := NewSessionCode()
	assert.True(t, strings.HasPrefix(code, "IMPORT-"))
	assert.Len(t, code, len("IMPORT-")+8)
	assert.Equal(t, strings.ToUpper(code), code)

	assert.NotEqual(t, code, NewSessionCode())
}

func TestSessionManager(t *testing.T) {
	staging := NewMemoryStaging()
	stageClassBatch(t, staging, "IMPORT-SM", []ImportRecord{classRow(1, "7", "A")})
	grid := loadClassGrid(t, staging, "IMPORT-SM", &fakeSnapshotSource{}, &fakeBulkCreator{})

	m := NewSessionManager()
	_, ok := m.Get("IMPORT-SM")
	require.False(t, ok)

	m.Put(grid)
	got, ok := m.Get("IMPORT-SM")
	require.True(t, ok)
	assert.Same(t, grid, got)

	m.Drop("IMPORT-SM")
	_, ok = m.Get("IMPORT-SM")
	assert.False(t, ok)
}
