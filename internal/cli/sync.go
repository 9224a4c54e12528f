package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/promptsync/internal/common"
	"github.com/dmitrijs2005/promptsync/internal/feishu"
	"github.com/dmitrijs2005/promptsync/internal/services"
)

func (a *App) tableRef() feishu.TableRef {
	return feishu.TableRef{AppToken: a.config.AppToken, TableID: a.config.TableID}
}

// requireRemote guards the commands that talk to Feishu.
func (a *App) requireRemote() error {
	if a.client == nil {
		return common.ErrConfigMissing
	}
	return nil
}

func (a *App) sync(ctx context.Context) error {
	if err := a.requireRemote(); err != nil {
		return err
	}
	if !a.config.Enabled {
		return common.ErrSyncDisabled
	}

	svc := services.NewSyncService(a.client, a.store, a.tableRef(), a.log)
	res := svc.Sync(ctx)

	if !res.Success {
		fmt.Fprintf(a.out, "Sync failed: %s\n", res.Message)
		return nil
	}

	fmt.Fprintf(a.out, "Sync completed: %d records processed\n", res.TotalProcessed)
	fmt.Fprintf(a.out, "  created locally:  %d\n", res.LocalCreated)
	fmt.Fprintf(a.out, "  updated locally:  %d\n", res.LocalUpdated)
	fmt.Fprintf(a.out, "  created remotely: %d\n", res.RemoteCreated)
	fmt.Fprintf(a.out, "  updated remotely: %d\n", res.RemoteUpdated)
	return nil
}

func (a *App) testConnection(ctx context.Context) error {
	if err := a.requireRemote(); err != nil {
		return err
	}

	records, skipped, err := a.client.ListAll(ctx, a.tableRef())
	if err != nil {
		return fmt.Errorf("connection test failed: %w", err)
	}

	fmt.Fprintf(a.out, "Connection OK: found %d records", len(records))
	if len(skipped) > 0 {
		fmt.Fprintf(a.out, " (%d undecodable)", len(skipped))
	}
	fmt.Fprintln(a.out)
	return nil
}

func (a *App) tableFields(ctx context.Context) error {
	if err := a.requireRemote(); err != nil {
		return err
	}

	raw, err := a.client.TableFields(ctx, a.tableRef())
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, raw)
	return nil
}
