// Package migrations embeds the goose SQL files so binaries and tests can run them without a checkout.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
