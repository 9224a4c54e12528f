package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	require.Equal(t, "prompts.db", c.DatabasePath)
	require.Equal(t, 500, c.PageSize)
	require.Equal(t, 500, c.BatchSize)
	require.True(t, c.Enabled)
	require.False(t, c.IsConfigured())
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	c := Config{
		AppID:     "cli_x",
		AppSecret: "s3cret",
		BaseURL:   "https://acme.feishu.cn/base/tok?table=tbl1",
		AppToken:  "tok",
		TableID:   "tbl1",
		Enabled:   true,
		BatchSize: 100,
	}
	require.NoError(t, c.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var jc JsonConfig
	require.NoError(t, json.Unmarshal(data, &jc))
	require.Equal(t, "cli_x", jc.AppID)
	require.Equal(t, "s3cret", jc.AppSecret)
	require.Equal(t, "tok", jc.AppToken)
	require.Equal(t, "tbl1", jc.TableID)
	require.Equal(t, 100, jc.BatchSize)
}

func TestMasked(t *testing.T) {
	c := Config{AppID: "cli_x", AppSecret: "s3cret"}

	m := c.Masked()
	require.Equal(t, "********", m.AppSecret)
	require.Equal(t, "s3cret", c.AppSecret, "original must stay intact")

	empty := Config{}
	require.Empty(t, empty.Masked().AppSecret)
}

func TestIsConfigured(t *testing.T) {
	c := Config{AppID: "a", AppSecret: "b", AppToken: "c", TableID: "d"}
	require.True(t, c.IsConfigured())

	c.TableID = ""
	require.False(t, c.IsConfigured())
}
