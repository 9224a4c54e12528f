// Package config holds runtime settings for the promptsync CLI and their
// file persistence. Values are resolved as defaults, then the JSON config
// file, then command-line flags, each layer overriding the previous one.
package config

// Config holds the Feishu app credentials, the table reference parsed from
// the base URL, and local runtime settings.
type Config struct {
	AppID     string
	AppSecret string

	// BaseURL is the Bitable URL as entered by the user; AppToken and
	// TableID are derived from it when the config is saved.
	BaseURL  string
	AppToken string
	TableID  string

	// Enabled gates the sync command without forgetting the credentials.
	Enabled bool

	DatabasePath string

	// Endpoint overrides the Feishu Open API base, empty means the
	// public endpoint. Used by tests and self-hosted deployments.
	Endpoint string

	PageSize  int
	BatchSize int

	Verbose bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "prompts.db"
	c.PageSize = 500
	c.BatchSize = 500
	c.Enabled = true
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from the JSON config file (if present) and command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

// IsConfigured reports whether the remote side can be reached at all.
func (c *Config) IsConfigured() bool {
	return c.AppID != "" && c.AppSecret != "" && c.AppToken != "" && c.TableID != ""
}

// Masked returns a copy safe for display: the app secret is replaced with
// asterisks.
func (c *Config) Masked() Config {
	out := *c
	if out.AppSecret != "" {
		out.AppSecret = "********"
	}
	return out
}
