package audit

import "context"

type AuditRepository interface {
	// InsertMany writes all entries in a single statement.
	InsertMany(ctx context.Context, entries []Entry) error
}

// Recorder dispatches entries after the business operation has finished.
// Implementations never return an error; failures are logged and counted.
type Recorder interface {
	Record(ctx context.Context, entries ...Entry)
}
