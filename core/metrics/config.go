package metrics

import "github.com/kilianp07/labstaff/core/factory"

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
	// PrometheusPort, when set, exposes /metrics during the run.
	PrometheusPort string `json:"prometheus_port"`
}
