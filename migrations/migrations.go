// Package migrations embeds the versioned SQL schema files so they can be
// applied from the binary without shipping the directory alongside it.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
