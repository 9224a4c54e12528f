package models

// RemoteUpdate targets an existing Bitable record by the record id the
// service assigned to it.
type RemoteUpdate struct {
	RecordID string
	Record   Record
}

// SyncPlan is the outcome of one planning pass: four disjoint action lists.
// It has no identity beyond a single sync run and is discarded after
// application.
type SyncPlan struct {
	CreateLocal  []Record
	UpdateLocal  []Record
	CreateRemote []Record
	UpdateRemote []RemoteUpdate

	// SkippedRemoteUpdates lists ids whose remote counterpart was read
	// without a record id, so the scheduled update had to be dropped.
	SkippedRemoteUpdates []string
}

// IsEmpty reports whether the plan contains no actions.
func (p *SyncPlan) IsEmpty() bool {
	return len(p.CreateLocal) == 0 && len(p.UpdateLocal) == 0 &&
		len(p.CreateRemote) == 0 && len(p.UpdateRemote) == 0
}

// SyncResult is the structured outcome returned to the caller of a sync run.
// Failures are reported through Success/Message, never as an error.
type SyncResult struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	LocalCreated   int    `json:"local_created"`
	LocalUpdated   int    `json:"local_updated"`
	RemoteCreated  int    `json:"remote_created"`
	RemoteUpdated  int    `json:"remote_updated"`
	TotalProcessed int    `json:"total_processed"`
}
