package domain

import "time"

// SyncOutcome is the terminal state of one scheduler invocation.
type SyncOutcome string

const (
	// SyncCompleted means the batch target was reached; more data likely
	// remains and a continuation should be scheduled at offset+batchSize.
	SyncCompleted SyncOutcome = "completed"
	// SyncExhausted means the feed returned an empty page; no further
	// invocations should be scheduled.
	SyncExhausted SyncOutcome = "exhausted"
	// SyncFailed means a transport or decode error aborted the invocation.
	SyncFailed SyncOutcome = "failed"
)

// SyncRun describes one scheduler invocation. It carries no state across
// invocations; the continuation offset is persisted separately.
type SyncRun struct {
	Offset    int
	BatchSize int
	PageSize  int
	Processed int
	Groups    int
	Failures  int
	Outcome   SyncOutcome
}

// GroupResult is the per-group outcome of a reconcile pass. The run loop only
// inspects Err; failures never unwind across loop iterations.
type GroupResult struct {
	SKU        string
	Variations int
	Err        error
}

// SyncState is the externally persisted continuation offset of a named
// schedule.
type SyncState struct {
	Name       string `gorm:"primaryKey;size:60"`
	NextOffset int    `gorm:"type:int"`
	UpdatedAt  time.Time
}
