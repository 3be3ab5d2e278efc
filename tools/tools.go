//go:build tools

package tools

// Tracks tool dependencies for reproducible builds. Run `go mod tidy` after
// adding/removing tools here.

import (
	_ "github.com/pressly/goose/v3/cmd/goose"
)
