package cli

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/promptsync/internal/common"
	"github.com/dmitrijs2005/promptsync/internal/config"
	"github.com/dmitrijs2005/promptsync/internal/models"
)

type fakeStore struct {
	records  []models.Record
	inserted []*models.Record
	touched  []string
	deleted  []string
}

func (f *fakeStore) Insert(ctx context.Context, r *models.Record) error {
	f.inserted = append(f.inserted, r)
	return nil
}

func (f *fakeStore) GetAll(ctx context.Context) ([]models.Record, error) {
	return f.records, nil
}

func (f *fakeStore) GetByID(ctx context.Context, id string) (*models.Record, error) {
	for i := range f.records {
		if f.records[i].Id == id {
			return &f.records[i], nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeStore) DeleteByID(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeStore) Touch(ctx context.Context, id string, when time.Time) error {
	f.touched = append(f.touched, id)
	return nil
}

func (f *fakeStore) Snapshot(ctx context.Context) ([]models.Record, error) { return f.records, nil }
func (f *fakeStore) ApplyCreates(ctx context.Context, r []models.Record) error {
	return nil
}
func (f *fakeStore) ApplyUpdates(ctx context.Context, r []models.Record) error {
	return nil
}

func newTestApp(input string, store *fakeStore) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	cfg := &config.Config{}
	cfg.LoadDefaults()
	return &App{
		config: cfg,
		store:  store,
		reader: bufio.NewReader(strings.NewReader(input)),
		out:    &out,
	}, &out
}

func TestAdd_InsertsPromptWithGeneratedId(t *testing.T) {
	store := &fakeStore{}
	app, out := newTestApp("My prompt\nline one\nline two\n\nwriting, daily\n", store)

	require.NoError(t, app.add(context.Background()))

	require.Len(t, store.inserted, 1)
	r := store.inserted[0]
	require.NotEmpty(t, r.Id)
	require.Equal(t, "My prompt", r.Title)
	require.Equal(t, "line one\nline two", r.Content)
	require.Equal(t, `["writing","daily"]`, r.Tags)
	require.True(t, r.CreatedAt.Equal(r.UpdatedAt))
	require.Contains(t, out.String(), r.Id)
}

func TestList_Empty(t *testing.T) {
	app, out := newTestApp("", &fakeStore{})

	require.NoError(t, app.list(context.Background()))
	require.Contains(t, out.String(), "No prompts yet")
}

func TestUse_PrintsContentAndTouches(t *testing.T) {
	store := &fakeStore{records: []models.Record{{Id: "p1", Content: "the text"}}}
	app, out := newTestApp("", store)

	require.NoError(t, app.use(context.Background(), []string{"p1"}))
	require.Contains(t, out.String(), "the text")
	require.Equal(t, []string{"p1"}, store.touched)
}

func TestUse_MissingArg(t *testing.T) {
	app, _ := newTestApp("", &fakeStore{})
	require.Error(t, app.use(context.Background(), nil))
}

func TestDelete_RemovesPrompt(t *testing.T) {
	store := &fakeStore{}
	app, _ := newTestApp("", store)

	require.NoError(t, app.delete(context.Background(), []string{"p1"}))
	require.Equal(t, []string{"p1"}, store.deleted)
}

func TestSync_WithoutConfiguration(t *testing.T) {
	app, _ := newTestApp("", &fakeStore{})

	err := app.sync(context.Background())
	require.ErrorIs(t, err, common.ErrConfigMissing)
}

func TestRun_UnknownCommand(t *testing.T) {
	app, _ := newTestApp("", &fakeStore{})

	err := app.Run(context.Background(), []string{"frobnicate"})
	require.Error(t, err)
}

func TestEncodeTags(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "[]"},
		{"a", `["a"]`},
		{" a , b ,", `["a","b"]`},
	}
	for _, tc := range tests {
		got, err := encodeTags(tc.in)
		require.NoError(t, err)
		require.Equal(t, tc.want, got)
	}
}

func TestPositionals(t *testing.T) {
	got := Positionals([]string{"-c", "conf.json", "-v", "use", "p1"})
	require.Equal(t, []string{"use", "p1"}, got)

	got = Positionals([]string{"--config=conf.json", "sync"})
	require.Equal(t, []string{"sync"}, got)
}
