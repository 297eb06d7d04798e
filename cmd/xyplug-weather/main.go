// Command xyplug-weather is a single-invocation job plugin: it reads
// one JSON job document from stdin, fetches weather (and optionally
// air-quality) data for the requested location, and writes exactly one
// JSON result line to stdout. Status travels in the result's code
// field; the process always exits 0.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/pixlcore/xyplug-weather/internal/config"
	"github.com/pixlcore/xyplug-weather/internal/job"
	"github.com/pixlcore/xyplug-weather/internal/observability"
)

func main() {
	_ = godotenv.Load()

	logger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		logger = zap.NewNop()
	}

	cfg, err := config.LoadPlugin()
	if err != nil {
		// A broken plugin.yaml should not sink jobs; fall back to the
		// built-in defaults and say so on stderr.
		logger.Warn("plugin config invalid, using defaults", zap.Error(err))
		cfg = config.DefaultPlugin()
	}

	input, err := io.ReadAll(os.Stdin)
	if err != nil {
		logger.Error("read stdin", zap.Error(err))
		input = nil
	}

	report := runJob(cfg, logger, input)

	if err := json.NewEncoder(os.Stdout).Encode(report); err != nil {
		logger.Error("write result", zap.Error(err))
	}

	if err := observability.FlushTelemetry(logger, cfg.MetricsFile); err != nil {
		logger.Warn("flush telemetry", zap.Error(err))
	}
}

func runJob(cfg *config.Plugin, logger *zap.Logger, input []byte) *job.Report {
	return job.NewRunner(cfg, logger).Run(context.Background(), input)
}
