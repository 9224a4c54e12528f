// Package prompts persists the local prompt collection in SQLite.
package prompts

import (
	"context"
	"time"

	"github.com/dmitrijs2005/promptsync/internal/models"
)

// Repository is the local prompt store. Snapshot, ApplyCreates and
// ApplyUpdates serve the sync engine; the rest serve the CLI.
type Repository interface {
	Insert(ctx context.Context, r *models.Record) error
	GetAll(ctx context.Context) ([]models.Record, error)
	GetByID(ctx context.Context, id string) (*models.Record, error)
	DeleteByID(ctx context.Context, id string) error

	// Touch records a use of the prompt: last_used is set to the given
	// time without bumping updated_at, so using a prompt does not make it
	// win sync conflicts.
	Touch(ctx context.Context, id string, when time.Time) error

	Snapshot(ctx context.Context) ([]models.Record, error)
	ApplyCreates(ctx context.Context, records []models.Record) error
	ApplyUpdates(ctx context.Context, records []models.Record) error
}
