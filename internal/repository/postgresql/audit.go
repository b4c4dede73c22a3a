package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/audit"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/database"
)

type auditRepositoryImpl struct {
	db *database.DB
}

func NewAuditRepository(db *database.DB) audit.AuditRepository {
	return &auditRepositoryImpl{db: db}
}

func marshalNullableJSON(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

// auditColumns is the number of bind parameters each audit row uses.
const auditColumns = 10

// maxAuditRowsPerInsert keeps one INSERT under the 65535 bind parameter limit
// of the Postgres wire protocol.
const maxAuditRowsPerInsert = 65535 / auditColumns

// InsertMany implements audit.AuditRepository. Large slices are split into
// several INSERTs that commit together.
func (r *auditRepositoryImpl) InsertMany(ctx context.Context, entries []audit.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	if len(entries) <= maxAuditRowsPerInsert {
		return r.insertChunk(ctx, entries, 0)
	}

	return NewTransactor(r.db).WithinTransaction(ctx, func(ctx context.Context) error {
		for _, b := range chunkBounds(len(entries), maxAuditRowsPerInsert) {
			if err := r.insertChunk(ctx, entries[b[0]:b[1]], b[0]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *auditRepositoryImpl) insertChunk(ctx context.Context, entries []audit.Entry, offset int) error {
	query, args, err := buildAuditInsert(entries, offset)
	if err != nil {
		return err
	}
	if _, err := GetQuerier(ctx, r.db).Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert audit logs: %w", err)
	}
	return nil
}

// buildAuditInsert renders one multi-row INSERT. offset is the index of the
// first entry in the caller's slice and only feeds error messages.
func buildAuditInsert(entries []audit.Entry, offset int) (string, []any, error) {
	p := &predicates{}
	values := make([]string, 0, len(entries))
	for i, e := range entries {
		n := offset + i
		before, err := marshalNullableJSON(e.BeforeState)
		if err != nil {
			return "", nil, fmt.Errorf("failed to marshal before state of entry %d: %w", n, err)
		}
		after, err := marshalNullableJSON(e.AfterState)
		if err != nil {
			return "", nil, fmt.Errorf("failed to marshal after state of entry %d: %w", n, err)
		}
		var changes []byte
		if len(e.Changes) > 0 {
			if changes, err = json.Marshal(e.Changes); err != nil {
				return "", nil, fmt.Errorf("failed to marshal changes of entry %d: %w", n, err)
			}
		}

		var targetID *string
		if e.TargetID != "" {
			targetID = &e.TargetID
		}

		values = append(values, fmt.Sprintf("(%s, %s, %s, %s, %s, %s::jsonb, %s::jsonb, %s::jsonb, %s, %s)",
			p.bind(e.ActorID), p.bind(e.ActorRole), p.bind(string(e.ActionType)), p.bind(e.TargetTable),
			p.bind(targetID), p.bind(nullableString(before)), p.bind(nullableString(after)), p.bind(nullableString(changes)),
			p.bind(string(e.Status)), p.bind(e.ErrorMessage),
		))
	}

	query := `
		INSERT INTO audit_logs (
			actor_id, actor_role, action_type, target_table, target_id,
			before_state, after_state, changes, status, error_message
		) VALUES ` + strings.Join(values, ", ")

	return query, p.args, nil
}

// chunkBounds splits [0, total) into half-open ranges of at most size items.
func chunkBounds(total, size int) [][2]int {
	var out [][2]int
	for lo := 0; lo < total; lo += size {
		out = append(out, [2]int{lo, min(lo+size, total)})
	}
	return out
}

func nullableString(b []byte) *string {
	if b == nil {
		return nil
	}
	s := string(b)
	return &s
}
