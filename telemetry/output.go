package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"

	"github.com/joseph-kwk/Pollution-Dispersion-Simulator/config"
)

// OutputManager handles structured run output: per-step CSV metrics and a
// copy of the effective configuration.
type OutputManager struct {
	dir         string
	metricsFile *os.File

	// Track if the CSV header has been written
	metricsHeaderWritten bool
}

// NewOutputManager creates a new output manager and initializes the output
// directory. Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	metricsPath := filepath.Join(dir, "metrics.csv")
	f, err := os.Create(metricsPath)
	if err != nil {
		return nil, fmt.Errorf("creating metrics.csv: %w", err)
	}
	om.metricsFile = f

	return om, nil
}

// Dir returns the output directory.
func (om *OutputManager) Dir() string { return om.dir }

// WriteConfig saves the effective configuration as YAML next to the
// metrics, so a run can be reproduced from its output directory alone.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	path := filepath.Join(om.dir, "config.yaml")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config.yaml: %w", err)
	}
	return nil
}

// WriteMetrics appends metric rows to metrics.csv, writing the header on
// first call only.
func (om *OutputManager) WriteMetrics(records []StepMetrics) error {
	if len(records) == 0 {
		return nil
	}
	if !om.metricsHeaderWritten {
		if err := gocsv.Marshal(records, om.metricsFile); err != nil {
			return fmt.Errorf("writing metrics.csv: %w", err)
		}
		om.metricsHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, om.metricsFile); err != nil {
		return fmt.Errorf("appending metrics.csv: %w", err)
	}
	return nil
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om.metricsFile != nil {
		return om.metricsFile.Close()
	}
	return nil
}
