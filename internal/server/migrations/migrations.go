// Package migrations embeds the goose SQL migrations for the captions schema.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
