package feishu

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/promptsync/internal/models"
)

const authPath = "/auth/v3/tenant_access_token/internal"

// newTestClient starts an httptest server that answers the auth endpoint
// itself and hands everything else to handler. authCalls counts token
// acquisitions.
func newTestClient(t *testing.T, authCalls *atomic.Int32, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == authPath {
			if authCalls != nil {
				authCalls.Add(1)
			}
			fmt.Fprint(w, `{"code":0,"msg":"ok","tenant_access_token":"t-test","expire":7200}`)
			return
		}
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	return NewClient("app-id", "app-secret", &ClientOptions{Endpoint: srv.URL})
}

func itemJSON(t *testing.T, id string, recordID string, updatedMs int64) string {
	t.Helper()
	b, err := json.Marshal(map[string]any{
		"record_id": recordID,
		"fields": map[string]any{
			"id":        id,
			"title":     "t-" + id,
			"content":   "c",
			"tags":      "[]",
			"createdAt": int64(1),
			"updatedAt": updatedMs,
		},
	})
	require.NoError(t, err)
	return string(b)
}

var testRef = TableRef{AppToken: "appTok", TableID: "tblX"}

func TestListAll_PaginatesAndSkipsBadItems(t *testing.T) {
	var pages []string
	bad := `{"record_id":"recBad","fields":{"title":"no id here"}}`
	pages = append(pages,
		fmt.Sprintf(`{"code":0,"msg":"","data":{"items":[%s],"has_more":true,"page_token":"p2"}}`, itemJSON(t, "a", "recA", 10)),
		fmt.Sprintf(`{"code":0,"msg":"","data":{"items":[%s,%s],"has_more":true,"page_token":"p3"}}`, itemJSON(t, "b", "recB", 20), bad),
		fmt.Sprintf(`{"code":0,"msg":"","data":{"items":[%s],"has_more":false}}`, itemJSON(t, "c", "recC", 30)),
	)

	var calls int32
	client := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		require.Equal(t, "500", r.URL.Query().Get("page_size"))
		switch n {
		case 1:
			require.Empty(t, r.URL.Query().Get("page_token"))
		case 2:
			require.Equal(t, "p2", r.URL.Query().Get("page_token"))
		case 3:
			require.Equal(t, "p3", r.URL.Query().Get("page_token"))
		}
		fmt.Fprint(w, pages[n-1])
	})

	records, skipped, err := client.ListAll(context.Background(), testRef)
	require.NoError(t, err)
	require.EqualValues(t, 3, atomic.LoadInt32(&calls))

	var ids []string
	for _, r := range records {
		ids = append(ids, r.Id)
	}
	require.Equal(t, []string{"a", "b", "c"}, ids)
	require.Len(t, skipped, 1)
	require.Contains(t, skipped[0], "id")
}

func TestListAll_EmptyTable(t *testing.T) {
	client := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		// items is absent entirely when the table is empty
		fmt.Fprint(w, `{"code":0,"msg":"","data":{"has_more":false}}`)
	})

	records, skipped, err := client.ListAll(context.Background(), testRef)
	require.NoError(t, err)
	require.Empty(t, records)
	require.Empty(t, skipped)
}

func TestListAll_CuratedErrorMessages(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{1254051, "table container) not found or deleted"},
		{1254010, "data table not found"},
		{1254032, "no access to this base"},
		{99991672, "Bitable read permission"},
		{42, "42 - some failure"},
	}

	for _, tc := range tests {
		t.Run(fmt.Sprint(tc.code), func(t *testing.T) {
			client := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprintf(w, `{"code":%d,"msg":"some failure"}`, tc.code)
			})

			_, _, err := client.ListAll(context.Background(), testRef)
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			require.Equal(t, tc.code, apiErr.Code)
			require.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestListAll_MissingDataEnvelopeIsFatal(t *testing.T) {
	client := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"code":0,"msg":"ok"}`)
	})

	_, _, err := client.ListAll(context.Background(), testRef)
	require.Error(t, err)
	require.Contains(t, err.Error(), "no data")
}

func TestBatchCreate_ReportsSubmittedCount(t *testing.T) {
	var gotRecords int32
	client := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasSuffix(r.URL.Path, "/batch_create"))
		var req batchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		atomic.AddInt32(&gotRecords, int32(len(req.Records)))
		for _, rec := range req.Records {
			require.NotEmpty(t, rec.Fields["id"])
			require.Empty(t, rec.RecordID)
		}
		fmt.Fprint(w, `{"code":0,"msg":"ok","data":{}}`)
	})

	records := []models.Record{
		{Id: "a", CreatedAt: time.UnixMilli(1), UpdatedAt: time.UnixMilli(2)},
		{Id: "b", CreatedAt: time.UnixMilli(1), UpdatedAt: time.UnixMilli(2)},
	}

	n, err := client.BatchCreate(context.Background(), testRef, records)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.EqualValues(t, 2, atomic.LoadInt32(&gotRecords))
}

func TestBatchCreate_ChunksAtBatchSize(t *testing.T) {
	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == authPath {
			fmt.Fprint(w, `{"code":0,"msg":"ok","tenant_access_token":"t-test","expire":7200}`)
			return
		}
		var req batchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.LessOrEqual(t, len(req.Records), 2)
		atomic.AddInt32(&requests, 1)
		fmt.Fprint(w, `{"code":0,"msg":"ok","data":{}}`)
	}))
	t.Cleanup(srv.Close)

	client := NewClient("id", "secret", &ClientOptions{Endpoint: srv.URL, BatchSize: 2})

	var records []models.Record
	for i := 0; i < 5; i++ {
		records = append(records, models.Record{Id: fmt.Sprintf("p%d", i)})
	}

	n, err := client.BatchCreate(context.Background(), testRef, records)
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.EqualValues(t, 3, atomic.LoadInt32(&requests))
}

func TestBatchUpdate_CountFromResponseBody(t *testing.T) {
	client := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasSuffix(r.URL.Path, "/batch_update"))
		var req batchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "rec1", req.Records[0].RecordID)
		// the service answered with one record although two were sent
		fmt.Fprint(w, `{"code":0,"msg":"ok","data":{"records":[{"record_id":"rec1"}]}}`)
	})

	updates := []models.RemoteUpdate{
		{RecordID: "rec1", Record: models.Record{Id: "a"}},
		{RecordID: "rec2", Record: models.Record{Id: "b"}},
	}

	n, err := client.BatchUpdate(context.Background(), testRef, updates)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestBatchWrite_EmptyInputMakesNoRequest(t *testing.T) {
	client := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("unexpected request to %s", r.URL.Path)
	})

	n, err := client.BatchCreate(context.Background(), testRef, nil)
	require.NoError(t, err)
	require.Zero(t, n)

	n, err = client.BatchUpdate(context.Background(), testRef, nil)
	require.NoError(t, err)
	require.Zero(t, n)
}
