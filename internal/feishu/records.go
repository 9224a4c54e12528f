package feishu

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/promptsync/internal/common"
	"github.com/dmitrijs2005/promptsync/internal/models"
)

type listData struct {
	// items may be absent entirely when the table is empty.
	Items     []json.RawMessage `json:"items"`
	HasMore   bool              `json:"has_more"`
	PageToken string            `json:"page_token"`
}

type recordPayload struct {
	RecordID string         `json:"record_id,omitempty"`
	Fields   map[string]any `json:"fields"`
}

type batchRequest struct {
	Records []recordPayload `json:"records"`
}

type updateData struct {
	Records []json.RawMessage `json:"records"`
}

func (c *Client) recordsURL(ref TableRef, suffix string) string {
	return fmt.Sprintf("%s/bitable/v1/apps/%s/tables/%s/records%s", c.endpoint, ref.AppToken, ref.TableID, suffix)
}

// ListAll fetches every record of the table, page by page, decoding each
// item independently. Items that cannot be decoded are dropped; their
// reasons are returned alongside the decoded set so callers can account for
// them. An API error code or a missing data envelope aborts the whole read.
func (c *Client) ListAll(ctx context.Context, ref TableRef) ([]models.Record, []string, error) {
	var (
		records []models.Record
		skipped []string
	)

	pageToken := ""
	for {
		u := c.recordsURL(ref, fmt.Sprintf("?page_size=%d", c.pageSize))
		if pageToken != "" {
			u += "&page_token=" + url.QueryEscape(pageToken)
		}

		var env envelope
		if err := c.doJSON(ctx, http.MethodGet, u, nil, &env); err != nil {
			return nil, nil, fmt.Errorf("listing records: %w", err)
		}
		if env.Code != 0 {
			return nil, nil, apiError(env.Code, env.Msg)
		}
		if env.Data == nil {
			return nil, nil, fmt.Errorf("listing records: %w", common.ErrEmptyResponseData)
		}

		var data listData
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return nil, nil, fmt.Errorf("decoding records page: %w", err)
		}

		for _, raw := range data.Items {
			rec, err := decodeRecord(raw)
			if err != nil {
				c.log.Warn(ctx, "skipping undecodable record", "reason", err)
				skipped = append(skipped, err.Error())
				continue
			}
			records = append(records, rec)
		}

		if !data.HasMore {
			break
		}
		pageToken = data.PageToken
	}

	return records, skipped, nil
}

// BatchCreate submits the given records to the table in chunks of the
// configured batch size. It returns the number of records submitted in
// chunks the service accepted. Creation carries no idempotency key: a retry
// after an ambiguous failure may duplicate records.
func (c *Client) BatchCreate(ctx context.Context, ref TableRef, records []models.Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	u := c.recordsURL(ref, "/batch_create")

	total := 0
	for start := 0; start < len(records); start += c.batchSize {
		end := min(start+c.batchSize, len(records))
		chunk := records[start:end]

		req := batchRequest{Records: make([]recordPayload, 0, len(chunk))}
		for _, r := range chunk {
			req.Records = append(req.Records, recordPayload{Fields: encodeFields(r)})
		}

		var env envelope
		if err := c.doJSON(ctx, http.MethodPost, u, req, &env); err != nil {
			return total, fmt.Errorf("creating records: %w", err)
		}
		if env.Code != 0 {
			return total, apiError(env.Code, env.Msg)
		}

		total += len(chunk)
		c.log.Debug(ctx, "created remote records", "count", len(chunk))
	}

	return total, nil
}

// BatchUpdate rewrites existing records, each targeted by the record id the
// service assigned to it. The returned count is read from the response
// body's record list, which is authoritative for updates.
func (c *Client) BatchUpdate(ctx context.Context, ref TableRef, updates []models.RemoteUpdate) (int, error) {
	if len(updates) == 0 {
		return 0, nil
	}

	u := c.recordsURL(ref, "/batch_update")

	total := 0
	for start := 0; start < len(updates); start += c.batchSize {
		end := min(start+c.batchSize, len(updates))
		chunk := updates[start:end]

		req := batchRequest{Records: make([]recordPayload, 0, len(chunk))}
		for _, upd := range chunk {
			req.Records = append(req.Records, recordPayload{
				RecordID: upd.RecordID,
				Fields:   encodeFields(upd.Record),
			})
		}

		var env envelope
		if err := c.doJSON(ctx, http.MethodPost, u, req, &env); err != nil {
			return total, fmt.Errorf("updating records: %w", err)
		}
		if env.Code != 0 {
			return total, apiError(env.Code, env.Msg)
		}

		var data updateData
		if env.Data != nil {
			if err := json.Unmarshal(env.Data, &data); err != nil {
				return total, fmt.Errorf("decoding update response: %w", err)
			}
		}
		total += len(data.Records)
		c.log.Debug(ctx, "updated remote records", "count", len(data.Records))
	}

	return total, nil
}

// TableFields fetches the raw field metadata of the table. The body is
// returned verbatim; this is a debugging aid for mismatched column setups.
func (c *Client) TableFields(ctx context.Context, ref TableRef) (string, error) {
	u := fmt.Sprintf("%s/bitable/v1/apps/%s/tables/%s/fields", c.endpoint, ref.AppToken, ref.TableID)

	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, u, nil, &raw); err != nil {
		return "", fmt.Errorf("fetching table fields: %w", err)
	}
	return string(raw), nil
}
