// Package migrations embeds the goose SQL migrations that create the kiosk's
// schema: the Users directory and the Logins ledger.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
