// Package migrations embeds the SQL schema migrations for the local prompt
// store. They are applied with goose on startup.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
