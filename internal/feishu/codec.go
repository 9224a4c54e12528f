package feishu

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/promptsync/internal/models"
)

// Remote field names of the prompts table.
const (
	fieldID         = "id"
	fieldTitle      = "title"
	fieldContent    = "content"
	fieldTags       = "tags"
	fieldIsFavorite = "isFavorite"
	fieldCreatedAt  = "createdAt"
	fieldUpdatedAt  = "updatedAt"
	fieldLastUsed   = "lastUsed"
)

// The isFavorite column is a single-select, not a checkbox, so booleans
// travel as these two fixed option labels.
const (
	favoriteYes = "是"
	favoriteNo  = "否"
)

// Fallbacks for optional text fields absent on the remote side.
const (
	defaultTitle = "未命名"
	defaultTags  = "[]"
)

// encodeFields turns a record into the Bitable field bag. Timestamps travel
// as epoch milliseconds; lastUsed is omitted entirely when unset so an
// update never clobbers an existing remote value with null.
func encodeFields(r models.Record) map[string]any {
	fav := favoriteNo
	if r.IsFavorite {
		fav = favoriteYes
	}

	fields := map[string]any{
		fieldID:         r.Id,
		fieldTitle:      r.Title,
		fieldContent:    r.Content,
		fieldTags:       r.Tags,
		fieldIsFavorite: fav,
		fieldCreatedAt:  r.CreatedAt.UnixMilli(),
		fieldUpdatedAt:  r.UpdatedAt.UnixMilli(),
	}
	if r.LastUsed != nil {
		fields[fieldLastUsed] = r.LastUsed.UnixMilli()
	}
	return fields
}

// listItem is one element of a records page.
type listItem struct {
	RecordID string                     `json:"record_id"`
	Fields   map[string]json.RawMessage `json:"fields"`
}

// decodeRecord parses one listed item into a Record. id, createdAt and
// updatedAt are required; title, content, tags, isFavorite and lastUsed fall
// back to defaults when missing or unreadable.
func decodeRecord(raw json.RawMessage) (models.Record, error) {
	var item listItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return models.Record{}, fmt.Errorf("malformed item: %w", err)
	}
	if item.RecordID == "" {
		return models.Record{}, fmt.Errorf("item has no record_id")
	}
	if item.Fields == nil {
		return models.Record{}, fmt.Errorf("record %s has no fields object", item.RecordID)
	}

	id, ok := textField(item.Fields, fieldID)
	if !ok || id == "" {
		return models.Record{}, fmt.Errorf("record %s: field %q is missing or not text", item.RecordID, fieldID)
	}

	createdAt, err := timeField(item.Fields, fieldCreatedAt)
	if err != nil {
		return models.Record{}, fmt.Errorf("record %s: %w", item.RecordID, err)
	}
	updatedAt, err := timeField(item.Fields, fieldUpdatedAt)
	if err != nil {
		return models.Record{}, fmt.Errorf("record %s: %w", item.RecordID, err)
	}

	rec := models.Record{
		Id:        id,
		Title:     defaultTitle,
		Tags:      defaultTags,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
		RecordID:  item.RecordID,
	}

	if title, ok := textField(item.Fields, fieldTitle); ok {
		rec.Title = title
	}
	if content, ok := textField(item.Fields, fieldContent); ok {
		rec.Content = content
	}
	if tags, ok := textField(item.Fields, fieldTags); ok {
		rec.Tags = tags
	}
	if fav, ok := textField(item.Fields, fieldIsFavorite); ok {
		rec.IsFavorite = fav == favoriteYes
	}
	// Any failure to read lastUsed yields "never used", never a decode error.
	if lastUsed, err := timeField(item.Fields, fieldLastUsed); err == nil {
		rec.LastUsed = &lastUsed
	}

	return rec, nil
}

func textField(fields map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := fields[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func timeField(fields map[string]json.RawMessage, key string) (time.Time, error) {
	raw, ok := fields[key]
	if !ok {
		return time.Time{}, fmt.Errorf("timestamp field %q is missing", key)
	}
	var ms int64
	if err := json.Unmarshal(raw, &ms); err != nil {
		return time.Time{}, fmt.Errorf("timestamp field %q is not a millisecond integer", key)
	}
	return time.UnixMilli(ms).UTC(), nil
}
