package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/promptsync/internal/config"
	"github.com/dmitrijs2005/promptsync/internal/feishu"
)

func (a *App) configure(ctx context.Context) error {
	appID, err := GetSimpleText(a.reader, "- Feishu App ID", a.out)
	if err != nil {
		return err
	}

	appSecret, err := GetSecret("- Feishu App Secret", a.out)
	if err != nil {
		return err
	}

	baseURL, err := GetSimpleText(a.reader, "- Bitable URL (copy it from the browser, it must contain ?table=)", a.out)
	if err != nil {
		return err
	}

	ref, err := feishu.ParseTableURL(baseURL)
	if err != nil {
		return err
	}

	a.config.AppID = appID
	a.config.AppSecret = appSecret
	a.config.BaseURL = baseURL
	a.config.AppToken = ref.AppToken
	a.config.TableID = ref.TableID
	a.config.Enabled = true

	path, err := config.DefaultPath()
	if err != nil {
		return err
	}
	if err := a.config.Save(path); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Configuration saved to %s (app_token=%s, table_id=%s)\n", path, ref.AppToken, ref.TableID)
	return nil
}

func (a *App) showConfig() error {
	m := a.config.Masked()
	fmt.Fprintf(a.out, "app_id:     %s\n", m.AppID)
	fmt.Fprintf(a.out, "app_secret: %s\n", m.AppSecret)
	fmt.Fprintf(a.out, "base_url:   %s\n", m.BaseURL)
	fmt.Fprintf(a.out, "app_token:  %s\n", m.AppToken)
	fmt.Fprintf(a.out, "table_id:   %s\n", m.TableID)
	fmt.Fprintf(a.out, "enabled:    %v\n", m.Enabled)
	fmt.Fprintf(a.out, "database:   %s\n", m.DatabasePath)
	return nil
}
