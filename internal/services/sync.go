// Package services wires the Feishu client, the local prompt store and the
// merge planner into the sync operation exposed to the CLI.
package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/promptsync/internal/feishu"
	"github.com/dmitrijs2005/promptsync/internal/logging"
	"github.com/dmitrijs2005/promptsync/internal/models"
)

// RemoteClient is the Bitable surface the sync service needs. Implemented by
// *feishu.Client; tests provide fakes.
type RemoteClient interface {
	ListAll(ctx context.Context, ref feishu.TableRef) ([]models.Record, []string, error)
	BatchCreate(ctx context.Context, ref feishu.TableRef, records []models.Record) (int, error)
	BatchUpdate(ctx context.Context, ref feishu.TableRef, updates []models.RemoteUpdate) (int, error)
}

// PromptStore is the local-store collaborator. Records handed to
// ApplyCreates/ApplyUpdates must eventually be persisted with their Id
// preserved; persistence may be asynchronous relative to the sync run.
type PromptStore interface {
	Snapshot(ctx context.Context) ([]models.Record, error)
	ApplyCreates(ctx context.Context, records []models.Record) error
	ApplyUpdates(ctx context.Context, records []models.Record) error
}

type SyncService interface {
	Sync(ctx context.Context) models.SyncResult
}

type syncService struct {
	client RemoteClient
	store  PromptStore
	ref    feishu.TableRef
	log    logging.Logger
}

func NewSyncService(client RemoteClient, store PromptStore, ref feishu.TableRef, log logging.Logger) SyncService {
	return &syncService{client: client, store: store, ref: ref, log: log}
}

// Sync runs one full synchronization pass and always returns a structured
// result: any failure from the internal stages is converted here, at the
// boundary, into Success=false with the failure description. Callers must
// inspect Success, not an error channel.
func (s *syncService) Sync(ctx context.Context) models.SyncResult {
	result, err := s.run(ctx)
	if err != nil {
		s.log.Error(ctx, "sync failed", "error", err)
		return models.SyncResult{Success: false, Message: fmt.Sprintf("sync failed: %v", err)}
	}
	return result
}

func (s *syncService) run(ctx context.Context) (models.SyncResult, error) {
	remote, skipped, err := s.client.ListAll(ctx, s.ref)
	if err != nil {
		return models.SyncResult{}, fmt.Errorf("fetching remote records: %w", err)
	}
	if len(skipped) > 0 {
		s.log.Warn(ctx, "undecodable remote records were skipped", "count", len(skipped))
	}
	s.log.Info(ctx, "fetched remote records", "count", len(remote))

	local, err := s.store.Snapshot(ctx)
	if err != nil {
		return models.SyncResult{}, fmt.Errorf("reading local snapshot: %w", err)
	}
	s.log.Info(ctx, "read local records", "count", len(local))

	plan := ComputePlan(local, remote)
	for _, id := range plan.SkippedRemoteUpdates {
		s.log.Warn(ctx, "remote counterpart has no record_id, update skipped", "id", id)
	}
	s.log.Info(ctx, "computed sync plan",
		"create_local", len(plan.CreateLocal),
		"update_local", len(plan.UpdateLocal),
		"create_remote", len(plan.CreateRemote),
		"update_remote", len(plan.UpdateRemote))

	result := models.SyncResult{Success: true, Message: "sync completed"}

	created, err := s.client.BatchCreate(ctx, s.ref, plan.CreateRemote)
	if err != nil {
		return models.SyncResult{}, fmt.Errorf("creating remote records: %w", err)
	}
	result.RemoteCreated = created

	updated, err := s.client.BatchUpdate(ctx, s.ref, plan.UpdateRemote)
	if err != nil {
		return models.SyncResult{}, fmt.Errorf("updating remote records: %w", err)
	}
	result.RemoteUpdated = updated

	// Local applies may persist asynchronously, so their counts are recorded
	// optimistically and a store failure does not fail the run.
	if len(plan.CreateLocal) > 0 {
		if err := s.store.ApplyCreates(ctx, plan.CreateLocal); err != nil {
			s.log.Error(ctx, "applying local creates", "error", err)
		}
		result.LocalCreated = len(plan.CreateLocal)
	}
	if len(plan.UpdateLocal) > 0 {
		if err := s.store.ApplyUpdates(ctx, plan.UpdateLocal); err != nil {
			s.log.Error(ctx, "applying local updates", "error", err)
		}
		result.LocalUpdated = len(plan.UpdateLocal)
	}

	result.TotalProcessed = result.LocalCreated + result.LocalUpdated + result.RemoteCreated + result.RemoteUpdated
	return result, nil
}
