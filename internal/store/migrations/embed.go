// Package migrations holds the SQL schema migrations of the business_cards table.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
