package main

import (
	"net/http"

	"github.com/yourusername/esports-edge/internal/config"
	"github.com/yourusername/esports-edge/internal/metrics"
)

func metricsHandler(cfg *config.Config) http.Handler {
	if !cfg.Metrics.Enabled {
		return nil
	}
	return metrics.Handler()
}
