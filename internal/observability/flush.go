package observability

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/common/expfmt"
	"go.uber.org/zap"
)

// FlushTelemetry flushes telemetry before process exit. The process is
// one-shot, so instead of exposing a scrape endpoint the metrics are
// written to a Prometheus textfile when metricsPath is set (node
// exporter textfile collector convention). Log sync errors on stderr
// are ignored; stderr is not seekable on most platforms.
func FlushTelemetry(logger *zap.Logger, metricsPath string) error {
	if logger != nil {
		_ = logger.Sync()
	}
	if metricsPath == "" {
		return nil
	}
	return WriteTextfile(metricsPath)
}

// WriteTextfile gathers the plugin registry and writes it atomically
// (write-then-rename) in the Prometheus text exposition format.
func WriteTextfile(path string) error {
	mfs, err := registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create metrics file: %w", err)
	}
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(f, mf); err != nil {
			f.Close()
			os.Remove(tmp)
			return fmt.Errorf("encode metrics: %w", err)
		}
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close metrics file: %w", err)
	}
	if err := os.Rename(tmp, filepath.Clean(path)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename metrics file: %w", err)
	}
	return nil
}
