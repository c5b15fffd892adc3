package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/joseph-kwk/Pollution-Dispersion-Simulator/config"
	"github.com/joseph-kwk/Pollution-Dispersion-Simulator/solver"
	"github.com/joseph-kwk/Pollution-Dispersion-Simulator/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	steps := flag.Int("steps", 0, "Override configured step count (0 = use config)")
	outputDir := flag.String("output-dir", "", "Override output directory for CSV metrics and snapshots")
	logStats := flag.Bool("log-stats", false, "Log per-phase perf stats at the end of the run")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if *steps > 0 {
		cfg.Run.Steps = *steps
	}
	if *outputDir != "" {
		cfg.Output.Dir = *outputDir
	}

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	solver.Workers = cfg.Run.Workers

	stepper, err := solver.NewStepper(cfg)
	if err != nil {
		slog.Error("failed to build stepper", "error", err)
		os.Exit(1)
	}

	output, err := telemetry.NewOutputManager(cfg.Output.Dir)
	if err != nil {
		slog.Error("failed to set up output", "error", err)
		os.Exit(1)
	}
	if output != nil {
		defer output.Close()
		if err := output.WriteConfig(cfg); err != nil {
			slog.Error("failed to write config copy", "error", err)
			os.Exit(1)
		}
	}

	var snapshots *telemetry.SnapshotWriter
	if output != nil && cfg.Output.WriteSnapshots {
		snapshots, err = telemetry.NewSnapshotWriter(output.Dir(), stepper.Grid(), stepper.Current().Velocity.Policy, cfg.Physics.DT)
		if err != nil {
			slog.Error("failed to set up snapshots", "error", err)
			os.Exit(1)
		}
	}

	perf := telemetry.NewPerfCollector(cfg.Run.Steps)
	stepper.OnPhase = perf.AddPhase
	recorder := telemetry.NewRecorder(cfg.Physics.DT)

	slog.Info("starting simulation",
		"grid", cfg.Grid.NX*cfg.Grid.NY,
		"boundary", cfg.Grid.Boundary,
		"advection", cfg.Schemes.Advection,
		"diffusion", cfg.Schemes.Diffusion,
		"dt", cfg.Physics.DT,
		"viscosity", cfg.Physics.Viscosity,
		"steps", cfg.Run.Steps,
	)

	// Frame 0 is the initial state.
	recorder.Record(stepper.Current(), 0)
	if snapshots != nil {
		if err := snapshots.WriteFrame(stepper.Current()); err != nil {
			slog.Error("failed to write snapshot", "error", err)
			os.Exit(1)
		}
	}

	last := stepper.Current().Step
	for stepper.Status() != solver.Done {
		perf.StartStep()
		st := stepper.Step()
		elapsed := perf.EndStep()
		if st.Step == last {
			// Exhausted budget; nothing new to record.
			break
		}
		last = st.Step

		recorder.Record(st, elapsed)
		if !st.Converged() {
			slog.Warn("solver did not reach tolerance",
				"step", st.Step,
				"pressure_iters", st.Pressure.Iterations,
				"pressure_residual", st.Pressure.Residual,
				"diffusion_iters", st.Diffusion.Iterations,
				"diffusion_residual", st.Diffusion.Residual,
			)
		}
		if snapshots != nil && st.Step%cfg.Output.SnapshotInterval == 0 {
			if err := snapshots.WriteFrame(st); err != nil {
				slog.Error("failed to write snapshot", "error", err)
				os.Exit(1)
			}
		}
	}

	final := recorder.Metrics()[recorder.Len()-1]
	slog.Info("simulation finished",
		"steps", stepper.Current().Step,
		"kinetic_energy", final.KineticEnergy,
		"pollutant_mass", final.PollutantMass,
		"max_divergence", final.MaxDivergence,
	)

	if output != nil && cfg.Output.WriteMetrics {
		if err := output.WriteMetrics(recorder.Metrics()); err != nil {
			slog.Error("failed to write metrics", "error", err)
			os.Exit(1)
		}
	}
	if snapshots != nil {
		if err := snapshots.Close(); err != nil {
			slog.Error("failed to finalize snapshots", "error", err)
			os.Exit(1)
		}
	}
	if *logStats {
		perf.Stats().LogStats()
	}
}
