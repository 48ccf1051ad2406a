// Package factory provides a small generic registry used to instantiate
// configured modules by type name. A module is described in configuration by
// a type string plus a raw settings map; the registered factory decodes the
// settings into its own config struct and returns the implementation.
//
// The metrics sinks are the consumer in this repo: the run config lists sink
// entries ("prometheus", "influx", ...) and core/metrics resolves them
// through a Registry without knowing the concrete sink types.
package factory
