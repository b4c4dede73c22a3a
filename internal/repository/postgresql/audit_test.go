package postgresql

import (
	"strings"
	"testing"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/audit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkBounds(t *testing.T) {
	tests := []struct {
		name  string
		total int
		want  [][2]int
	}{
		{"empty", 0, nil},
		{"single row", 1, [][2]int{{0, 1}}},
		{"exactly one chunk", maxAuditRowsPerInsert, [][2]int{{0, maxAuditRowsPerInsert}}},
		{"one past a chunk", maxAuditRowsPerInsert + 1, [][2]int{{0, maxAuditRowsPerInsert}, {maxAuditRowsPerInsert, maxAuditRowsPerInsert + 1}}},
		{"two full chunks plus one", 2*maxAuditRowsPerInsert + 1, [][2]int{
			{0, maxAuditRowsPerInsert},
			{maxAuditRowsPerInsert, 2 * maxAuditRowsPerInsert},
			{2 * maxAuditRowsPerInsert, 2*maxAuditRowsPerInsert + 1},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, chunkBounds(tt.total, maxAuditRowsPerInsert))
		})
	}
}

func TestBuildAuditInsert_FullChunkStaysUnderBindLimit(t *testing.T) {
	entries := make([]audit.Entry, maxAuditRowsPerInsert)
	for i := range entries {
		entries[i] = audit.Entry{
			ActorID:     "system",
			ActorRole:   "SYSTEM",
			ActionType:  audit.ActionRunPayroll,
			TargetTable: "payroll_cycles",
			Status:      audit.StatusSuccess,
		}
	}

	query, args, err := buildAuditInsert(entries, 0)
	require.NoError(t, err)

	assert.Len(t, args, maxAuditRowsPerInsert*auditColumns)
	assert.LessOrEqual(t, len(args), 65535)
	assert.Equal(t, 3*maxAuditRowsPerInsert, strings.Count(query, "::jsonb, $"))
	assert.Contains(t, query, "$65530)")
	assert.NotContains(t, query, "$65531")
}

func TestBuildAuditInsert_ReportsAbsoluteEntryIndex(t *testing.T) {
	entries := []audit.Entry{{AfterState: func() {}}}

	_, _, err := buildAuditInsert(entries, 6553)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entry 6553")
}
