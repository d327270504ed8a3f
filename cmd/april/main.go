// Command april runs a short-range particle simulation from a YAML run
// config: a Lennard-Jones cuboid lattice inside reflective walls, driven by
// the configured integrator and container/layout choice. It exists as a
// thin, disposable entry point over the core; configuration and CLI
// parsing stay out of the spatial-interaction subsystem itself.
package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/jkkdy/april/pkg/boundary"
	"github.com/jkkdy/april/pkg/container"
	"github.com/jkkdy/april/pkg/force"
	"github.com/jkkdy/april/pkg/generate"
	"github.com/jkkdy/april/pkg/integrate"
	"github.com/jkkdy/april/pkg/logx"
	"github.com/jkkdy/april/pkg/mddomain"
	"github.com/jkkdy/april/pkg/mdconfig"
	"github.com/jkkdy/april/pkg/mdvec3"
	"github.com/jkkdy/april/pkg/monitor"
	"github.com/jkkdy/april/pkg/sim"
	"github.com/jkkdy/april/pkg/system"
)

// payload is the demo's particle user-data type; the LJ cuboid scenario
// needs none of the optional fields force descriptors key off.
type payload struct{}

func main() {
	root := &cobra.Command{
		Use:   "april",
		Short: "a short-range molecular-dynamics simulation runner",
	}
	root.AddCommand(newRunCmd())
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRunCmd() *cobra.Command {
	var configPath string
	var n int
	var sigma, epsilon float64
	var debug bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "run an NxNxN Lennard-Jones cuboid lattice",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := mdconfig.Default()
			if configPath != "" {
				loaded, err := mdconfig.Load(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			return runLJCuboid(cfg, n, sigma, epsilon, debug)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to a run config YAML file")
	cmd.Flags().IntVar(&n, "n", 10, "particles per axis")
	cmd.Flags().Float64Var(&sigma, "sigma", 1.0, "Lennard-Jones sigma")
	cmd.Flags().Float64Var(&epsilon, "epsilon", 1.0, "Lennard-Jones epsilon")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
	return cmd
}

func runLJCuboid(cfg mdconfig.RunConfig, n int, sigma, epsilon float64, debug bool) error {
	spacing := 1.1225 * sigma
	records, err := generate.ParticleCuboid[payload]{}.
		Count(n, n, n).
		Spacing(spacing).
		Mass(1.0).
		ToParticles()
	if err != nil {
		return err
	}

	lj := force.NewLennardJones[payload](epsilon, sigma).WithCutoff(3 * sigma)
	env := system.Environment[payload]{
		Particles:  records,
		TypeForces: []force.TypeInteraction[payload]{{T1: 0, T2: 0, Force: lj}},
		Boundaries: reflectiveWalls[payload](),
		Margin:     mddomain.Margin{Absolute: spacing},
	}

	sysCfg := translateConfig(cfg.Container)
	sys, err := system.Build(env, sysCfg)
	if err != nil {
		return err
	}

	logger := logx.NewDefault("april", debug)

	var scheme sim.Scheme[payload]
	if cfg.Integrator == mdconfig.IntegratorYoshida4 {
		scheme = integrate.Yoshida4[payload]{Dt: cfg.Dt}
	} else {
		scheme = integrate.VelocityVerlet[payload]{Dt: cfg.Dt}
	}

	runner := sim.New(sys, scheme).WithLogger(logger).WithMaxSteps(cfg.Steps)
	if cfg.Monitors.ProgressEnabled {
		prog := monitor.NewProgress[payload](cfg.Steps)
		go prog.Run()
		defer prog.Close()
		runner = runner.WithMonitors(prog)
	}
	if cfg.Monitors.BenchmarkEnabled {
		bench := monitor.NewBenchmark[payload](runner.RunID)
		runner = runner.WithMonitors(bench)
		if addr := cfg.Monitors.BenchmarkAddr; addr != "" {
			router := chi.NewRouter()
			router.Use(middleware.Recoverer)
			router.Handle("/metrics", bench.Handler())
			go func() {
				if err := http.ListenAndServe(addr, router); err != nil {
					logger.Errorf("metrics server on %s: %v", addr, err)
				}
			}()
		}
	}
	if cfg.Monitors.DumpEnabled {
		runner = runner.WithMonitors(monitor.NewDumpWriter[payload](cfg.Monitors.DumpDir, runner.RunID))
	}

	runner.Run()
	return nil
}

func reflectiveWalls[U any]() map[boundary.Face]boundary.Condition[U] {
	m := make(map[boundary.Face]boundary.Condition[U], len(boundary.Faces))
	for _, f := range boundary.Faces {
		m[f] = boundary.Reflective[U]{}
	}
	return m
}

func translateConfig(c mdconfig.ContainerConfig) system.Config {
	out := system.Config{
		ChunkWidth: c.ChunkWidth,
		Block:      c.Block,
	}
	switch c.Layout {
	case mdconfig.LayoutSoA:
		out.Layout = system.SoA
	case mdconfig.LayoutAoSoA:
		out.Layout = system.AoSoA
	default:
		out.Layout = system.AoS
	}
	switch c.Container {
	case mdconfig.ContainerLinkedCells:
		out.Container = system.LinkedCellsContainer
	default:
		out.Container = system.DirectSumContainer
	}
	switch c.CellSizeKind {
	case mdconfig.CellSizeFraction:
		out.CellSizePolicy = container.CutoffFraction(c.CellSizeValue)
	case mdconfig.CellSizeFactor:
		out.CellSizePolicy = container.CutoffFactor(c.CellSizeValue)
	case mdconfig.CellSizeAbsolute:
		out.CellSizePolicy = container.Absolute(c.CellSizeValue)
	default:
		out.CellSizePolicy = container.ExactCutoff()
	}
	switch c.CellOrder {
	case mdconfig.CellOrderMorton:
		out.CellOrder = mdvec3.Morton
	case mdconfig.CellOrderHilbert:
		out.CellOrder = mdvec3.Hilbert
	default:
		out.CellOrder = nil
	}
	return out
}
