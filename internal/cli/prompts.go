package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/promptsync/internal/models"
)

// now is a test seam.
var now = func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) }

func (a *App) add(ctx context.Context) error {
	title, err := GetSimpleText(a.reader, "- Title", a.out)
	if err != nil {
		return err
	}

	content, err := GetMultiline(a.reader, "- Prompt text", a.out)
	if err != nil {
		return err
	}

	tagsLine, err := GetSimpleText(a.reader, "- Tags (comma separated, empty for none)", a.out)
	if err != nil {
		return err
	}
	tags, err := encodeTags(tagsLine)
	if err != nil {
		return err
	}

	ts := now()
	r := &models.Record{
		Id:        uuid.NewString(),
		Title:     title,
		Content:   content,
		Tags:      tags,
		CreatedAt: ts,
		UpdatedAt: ts,
	}

	if err := a.store.Insert(ctx, r); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Added prompt %s\n", r.Id)
	return nil
}

// encodeTags turns a comma-separated line into the JSON array string both
// sides store.
func encodeTags(line string) (string, error) {
	tags := []string{}
	for _, t := range strings.Split(line, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encoding tags: %w", err)
	}
	return string(b), nil
}

func (a *App) list(ctx context.Context) error {
	records, err := a.store.GetAll(ctx)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Fprintln(a.out, "No prompts yet, try 'promptsync add'.")
		return nil
	}

	for _, r := range records {
		star := " "
		if r.IsFavorite {
			star = "*"
		}
		fmt.Fprintf(a.out, "%s %s  %-30s  updated %s\n",
			star, r.Id, r.Title, r.UpdatedAt.Format(time.RFC3339))
	}
	return nil
}

func (a *App) use(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: promptsync use <id>")
	}

	r, err := a.store.GetByID(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, r.Content)
	return a.store.Touch(ctx, r.Id, now())
}

func (a *App) delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: promptsync delete <id>")
	}

	if err := a.store.DeleteByID(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted prompt %s\n", args[0])
	return nil
}
