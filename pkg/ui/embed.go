// Package ui provides the embedded web UI served by the clipgrab server.
package ui

import (
	_ "embed"
)

// IndexHTML is the single page downloader. It talks to /api/v1/resolve
// and /api/proxy on the same origin.
//
//go:embed index.html
var IndexHTML []byte
