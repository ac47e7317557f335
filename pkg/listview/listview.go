// Package listview re-exports the list view service for applications that
// embed it without reaching into components/.
package listview

import (
	core "github.com/goliatone/go-listview/components/listview"
)

// Service exposes the underlying components/listview.Service type.
type Service = core.Service

// Options re-export for convenience.
type Options = core.Options

// EntityKind re-export for convenience.
type EntityKind = core.EntityKind

// NewService proxies to the internal constructor.
func NewService(opts Options) *Service {
	return core.NewService(opts)
}
