package services

import (
	"github.com/dmitrijs2005/promptsync/internal/models"
)

// ComputePlan derives the merge plan for one sync run from the two record
// snapshots. It is a pure function: no I/O, no mutation of its inputs.
//
// Each id is classified exactly once:
//   - local only            -> create remotely
//   - remote only           -> create locally
//   - both, local newer     -> update remotely, keyed by the counterpart's
//     record id; when that id is missing the update is skipped and the
//     record's own id is reported on the plan
//   - both, remote newer    -> update locally
//   - both, equal UpdatedAt -> no action, the pair counts as in sync
//
// Resolution is whole-record last-writer-wins on UpdatedAt; there is no
// field-level merging. Two divergent edits with byte-identical timestamps
// are treated as already reconciled.
func ComputePlan(local, remote []models.Record) models.SyncPlan {
	localByID := make(map[string]models.Record, len(local))
	for _, r := range local {
		localByID[r.Id] = r
	}
	remoteByID := make(map[string]models.Record, len(remote))
	for _, r := range remote {
		remoteByID[r.Id] = r
	}

	var plan models.SyncPlan

	for _, l := range local {
		r, ok := remoteByID[l.Id]
		if !ok {
			plan.CreateRemote = append(plan.CreateRemote, l)
			continue
		}
		switch {
		case l.UpdatedAt.After(r.UpdatedAt):
			if r.RecordID == "" {
				plan.SkippedRemoteUpdates = append(plan.SkippedRemoteUpdates, l.Id)
				continue
			}
			plan.UpdateRemote = append(plan.UpdateRemote, models.RemoteUpdate{RecordID: r.RecordID, Record: l})
		case r.UpdatedAt.After(l.UpdatedAt):
			plan.UpdateLocal = append(plan.UpdateLocal, r)
		}
	}

	for _, r := range remote {
		if _, ok := localByID[r.Id]; !ok {
			plan.CreateLocal = append(plan.CreateLocal, r)
		}
	}

	return plan
}
