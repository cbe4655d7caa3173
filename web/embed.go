// Package web holds the site's templates and static assets, compiled into
// both binaries so a deploy is a single file.
package web

import "embed"

// Templates holds layouts, partials, pages and the datasheet report.
//
//go:embed templates
var Templates embed.FS

// Static holds CSS and JS served under /static/.
//
//go:embed static
var Static embed.FS
