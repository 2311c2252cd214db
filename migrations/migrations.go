// Package migrations embeds the SQL schema so the migrate binary and the
// integration tests run without a checkout.
package migrations

import "embed"

// FS holds the *.up.sql and *.down.sql files
//
//go:embed *.sql
var FS embed.FS
