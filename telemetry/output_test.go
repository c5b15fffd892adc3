package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/joseph-kwk/Pollution-Dispersion-Simulator/config"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil {
		t.Fatal(err)
	}
	if om != nil {
		t.Fatal("empty dir must disable output")
	}
}

func TestOutputManagerMetricsCSV(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	rows := []StepMetrics{
		{Step: 0, SimTime: 0, KineticEnergy: 1.5},
		{Step: 1, SimTime: 0.05, KineticEnergy: 1.4},
	}
	if err := om.WriteMetrics(rows); err != nil {
		t.Fatal(err)
	}
	// A second batch must append without repeating the header.
	if err := om.WriteMetrics([]StepMetrics{{Step: 2, SimTime: 0.1}}); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "metrics.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("metrics.csv has %d lines, want header plus 3 rows", len(lines))
	}
	if !strings.HasPrefix(lines[0], "step,sim_time,kinetic_energy") {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if strings.Count(string(data), "step,") != 1 {
		t.Error("header was repeated on append")
	}
}

func TestOutputManagerWriteConfig(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer om.Close()

	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	var back config.Config
	if err := yaml.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back.Grid.NX != cfg.Grid.NX || back.Physics.DT != cfg.Physics.DT {
		t.Error("saved config does not reproduce the effective configuration")
	}
}
