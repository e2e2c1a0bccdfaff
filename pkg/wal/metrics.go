package wal

import "github.com/nori-kv/wal/internal/observe"

// NewPrometheusMeter builds a Meter backed by registerer, suitable for
// passing as Config.Meter. cmd/wal-cli's metrics-serve subcommand pairs this
// with promhttp to expose the registry over HTTP.
var NewPrometheusMeter = observe.NewPrometheusMeter
