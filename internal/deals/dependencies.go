package deals

import "context"

// DestinationStore reads and writes destination records.
type DestinationStore interface {
	FetchAll(executionContext context.Context) ([]DestinationRecord, error)
	Persist(executionContext context.Context, records []DestinationRecord) PersistResult
}

// DealNotifier delivers deal messages to the user.
type DealNotifier interface {
	Enabled() bool
	SendDealAlert(executionContext context.Context, deal Deal) bool
	SendDealSummary(executionContext context.Context, deals []Deal) bool
}

// PersistFailure describes a record the store refused.
type PersistFailure struct {
	RowID int
	City  string
	Error error
}

// PersistResult summarizes one persistence pass.
type PersistResult struct {
	Persisted []int
	Skipped   []int
	Failures  []PersistFailure
}
