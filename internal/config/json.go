package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/promptsync/internal/flagx"
)

// JsonConfig is the DTO used for the config file on disk. It mirrors the
// field names the original desktop app used for its feishu_config.json.
type JsonConfig struct {
	AppID        string `json:"app_id"`
	AppSecret    string `json:"app_secret"`
	BaseURL      string `json:"base_url"`
	AppToken     string `json:"app_token"`
	TableID      string `json:"table_id"`
	Enabled      bool   `json:"enabled"`
	DatabasePath string `json:"database_path,omitempty"`
	Endpoint     string `json:"endpoint,omitempty"`
	PageSize     int    `json:"page_size,omitempty"`
	BatchSize    int    `json:"batch_size,omitempty"`
}

// DefaultPath returns the config file location: the -c/-config flag when
// given, otherwise promptsync/config.json under the user config directory.
func DefaultPath() (string, error) {
	if p := flagx.JsonConfigFlags(); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving user config dir: %w", err)
	}
	return filepath.Join(dir, "promptsync", "config.json"), nil
}

// parseJson overlays cfg with values from the config file. A missing file is
// fine (first run); a malformed one panics, the caller cannot proceed with
// half-read credentials.
func parseJson(cfg *Config) {
	path, err := DefaultPath()
	if err != nil {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return
		}
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	cfg.AppID = jc.AppID
	cfg.AppSecret = jc.AppSecret
	cfg.BaseURL = jc.BaseURL
	cfg.AppToken = jc.AppToken
	cfg.TableID = jc.TableID
	cfg.Enabled = jc.Enabled
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.Endpoint != "" {
		cfg.Endpoint = jc.Endpoint
	}
	if jc.PageSize > 0 {
		cfg.PageSize = jc.PageSize
	}
	if jc.BatchSize > 0 {
		cfg.BatchSize = jc.BatchSize
	}
}

// Save writes the config file, creating its directory if needed. The file is
// written 0600: it carries the app secret in clear, like the original app's
// config did.
func (c *Config) Save(path string) error {
	jc := JsonConfig{
		AppID:        c.AppID,
		AppSecret:    c.AppSecret,
		BaseURL:      c.BaseURL,
		AppToken:     c.AppToken,
		TableID:      c.TableID,
		Enabled:      c.Enabled,
		DatabasePath: c.DatabasePath,
		Endpoint:     c.Endpoint,
		PageSize:     c.PageSize,
		BatchSize:    c.BatchSize,
	}

	data, err := json.MarshalIndent(jc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
