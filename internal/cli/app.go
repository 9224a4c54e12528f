// Package cli implements the promptsync command-line interface: local prompt
// management plus configuration and synchronization against the Feishu
// Bitable table.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/promptsync/internal/config"
	"github.com/dmitrijs2005/promptsync/internal/feishu"
	"github.com/dmitrijs2005/promptsync/internal/logging"
	"github.com/dmitrijs2005/promptsync/internal/repositories"
	"github.com/dmitrijs2005/promptsync/internal/repositories/prompts"
)

type App struct {
	config *config.Config
	log    logging.Logger
	repos  *repositories.Repositories
	store  prompts.Repository
	client *feishu.Client
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logging.NewDefault(cfg.Verbose)

	repos, err := repositories.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}

	a := &App{
		config: cfg,
		log:    log,
		repos:  repos,
		store:  repos.Prompts,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}

	if cfg.IsConfigured() {
		a.client = feishu.NewClient(cfg.AppID, cfg.AppSecret, &feishu.ClientOptions{
			Endpoint:  cfg.Endpoint,
			PageSize:  cfg.PageSize,
			BatchSize: cfg.BatchSize,
			Logger:    log,
		})
	}

	return a, nil
}

func (a *App) Close() error {
	return a.repos.Close()
}

// Run dispatches one subcommand. Unknown commands print usage.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.usage()
		return nil
	}

	switch args[0] {
	case "configure":
		return a.configure(ctx)
	case "show-config":
		return a.showConfig()
	case "test":
		return a.testConnection(ctx)
	case "fields":
		return a.tableFields(ctx)
	case "sync":
		return a.sync(ctx)
	case "add":
		return a.add(ctx)
	case "list":
		return a.list(ctx)
	case "use":
		return a.use(ctx, args[1:])
	case "delete":
		return a.delete(ctx, args[1:])
	case "help":
		a.usage()
		return nil
	default:
		a.usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func (a *App) usage() {
	fmt.Fprintln(a.out, `Usage: promptsync [flags] <command>

Commands:
  configure    set Feishu app credentials and the Bitable table URL
  show-config  print the current configuration (secret masked)
  test         verify the Feishu connection and count remote records
  fields       dump the remote table's field metadata
  sync         synchronize local prompts with the Bitable table
  add          add a prompt to the local library
  list         list local prompts
  use <id>     print a prompt and mark it as used
  delete <id>  delete a local prompt

Flags:
  -c <file>    config file path
  -d <file>    local database path
  -v           verbose logging`)
}

// Positionals strips the global flags from args, leaving the subcommand and
// its arguments.
func Positionals(args []string) []string {
	takesValue := map[string]bool{"c": true, "config": true, "d": true}
	isFlag := map[string]bool{"c": true, "config": true, "d": true, "v": true}

	var out []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if strings.HasPrefix(arg, "-") {
			name := strings.TrimLeft(arg, "-")
			if eq := strings.IndexByte(name, '='); eq >= 0 {
				if isFlag[name[:eq]] {
					continue
				}
			} else if isFlag[name] {
				if takesValue[name] && i+1 < len(args) {
					i++
				}
				continue
			}
		}
		out = append(out, arg)
	}
	return out
}
