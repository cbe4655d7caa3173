// Package migrations embeds the ordered SQL schema files.
package migrations

import "embed"

// Files holds every NNNN_name.sql migration in goose annotation format.
//
//go:embed *.sql
var Files embed.FS
