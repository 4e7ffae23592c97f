// Package cmd implements the collectorking subcommands. Commands receive
// their dependencies through the App interface so they stay testable
// without a fully configured application.
package cmd

import (
	"github.com/rs/zerolog"

	"github.com/collectorking/collectorking"
)

// App is the surface the commands need from the application: the shared
// library instance, a way to build one with extra options, logging, and
// version information.
type App interface {
	Library() (collectorking.Library, error)
	LibraryWithOptions(extra ...collectorking.Option) (collectorking.Library, error)
	Logger() *zerolog.Logger

	Version() string
	Commit() string
	Date() string
	BuiltBy() string
}
