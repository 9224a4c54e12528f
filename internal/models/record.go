// Package models defines the data types shared by the local store, the
// Feishu client and the sync service.
package models

import "time"

// Record is the unit of synchronization: one prompt, identified by a stable
// client-generated id that is the join key between the local store and the
// remote Bitable table.
type Record struct {
	// Id is a globally unique identifier, assigned once on creation and
	// never changed afterwards.
	Id string `json:"id"`

	Title   string `json:"title"`
	Content string `json:"content"`

	// Tags is a JSON-encoded array of labels. Both sides store it as an
	// opaque string; the sync engine never looks inside.
	Tags string `json:"tags"`

	IsFavorite bool `json:"is_favorite"`

	// CreatedAt and UpdatedAt are UTC timestamps with millisecond
	// precision. UpdatedAt is the sole arbiter of recency during sync.
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// LastUsed is set when the prompt was used at least once.
	LastUsed *time.Time `json:"last_used,omitempty"`

	// RecordID is the identifier Bitable assigned to this record, empty
	// for records that only exist locally. It is remote-internal and must
	// never be used as the join key.
	RecordID string `json:"record_id,omitempty"`
}
