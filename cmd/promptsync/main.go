package main

import (
	"context"
	"log"
	"os"

	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/promptsync/internal/cli"
	"github.com/dmitrijs2005/promptsync/internal/config"
)

func main() {
	ctx := context.Background()

	cfg := config.LoadConfig()
	app, err := cli.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer app.Close()

	if err := app.Run(ctx, cli.Positionals(os.Args[1:])); err != nil {
		log.Fatalf("%v", err)
	}
}
