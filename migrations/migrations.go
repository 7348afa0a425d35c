// Package migrations embeds the SQL migrations of the storefront database.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
