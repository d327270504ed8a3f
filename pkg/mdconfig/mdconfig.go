// Package mdconfig loads a simulation run's configuration from YAML: layout
// and container choice, cell-size policy, integrator scheme and timestep,
// and monitor wiring. The core engine takes no dependency on this package:
// config loading is an outer-layer (cmd/april) concern, and the engine
// stays usable as a plain library.
package mdconfig

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jkkdy/april/pkg/aerr"
)

// LayoutKind mirrors system.LayoutKind in a YAML-friendly string form.
type LayoutKind string

const (
	LayoutAoS   LayoutKind = "aos"
	LayoutSoA   LayoutKind = "soa"
	LayoutAoSoA LayoutKind = "aosoa"
)

// ContainerKind mirrors system.ContainerKind in a YAML-friendly string form.
type ContainerKind string

const (
	ContainerDirectSum   ContainerKind = "direct_sum"
	ContainerLinkedCells ContainerKind = "linked_cells"
)

// CellSizeKind selects one of container.CellSizePolicy's constructors.
type CellSizeKind string

const (
	CellSizeExact    CellSizeKind = "exact"
	CellSizeFraction CellSizeKind = "fraction"
	CellSizeFactor   CellSizeKind = "factor"
	CellSizeAbsolute CellSizeKind = "absolute"
)

// CellOrderKind selects the cell-visitation order LinkedCells applies.
type CellOrderKind string

const (
	CellOrderLex     CellOrderKind = "lexicographic"
	CellOrderMorton  CellOrderKind = "morton"
	CellOrderHilbert CellOrderKind = "hilbert"
)

// IntegratorKind selects the time-stepping scheme.
type IntegratorKind string

const (
	IntegratorVelocityVerlet IntegratorKind = "velocity_verlet"
	IntegratorYoshida4       IntegratorKind = "yoshida4"
)

// ContainerConfig is the YAML shape of system.Config.
type ContainerConfig struct {
	Layout        LayoutKind    `yaml:"layout"`
	ChunkWidth    int           `yaml:"chunk_width"`
	Container     ContainerKind `yaml:"container"`
	CellSizeKind  CellSizeKind  `yaml:"cell_size_kind"`
	CellSizeValue float64       `yaml:"cell_size_value"`
	CellOrder     CellOrderKind `yaml:"cell_order"`
	Block         [3]int        `yaml:"block"`
}

// MonitorConfig selects and parameterizes the monitors attached to a run.
type MonitorConfig struct {
	DumpEnabled      bool   `yaml:"dump_enabled"`
	DumpDir          string `yaml:"dump_dir"`
	DumpEveryNSteps  int    `yaml:"dump_every_n_steps"`
	BenchmarkEnabled bool   `yaml:"benchmark_enabled"`
	BenchmarkAddr    string `yaml:"benchmark_addr"`
	ProgressEnabled  bool   `yaml:"progress_enabled"`
}

// RunConfig is the top-level document cmd/april reads.
type RunConfig struct {
	Integrator IntegratorKind  `yaml:"integrator"`
	Dt         float64         `yaml:"dt"`
	Steps      uint64          `yaml:"steps"`
	Container  ContainerConfig `yaml:"container"`
	Monitors   MonitorConfig   `yaml:"monitors"`
}

// Default returns a RunConfig matching system.DefaultConfig plus 1000
// velocity-Verlet steps of dt=1e-3.
func Default() RunConfig {
	return RunConfig{
		Integrator: IntegratorVelocityVerlet,
		Dt:         1e-3,
		Steps:      1000,
		Container: ContainerConfig{
			Layout:       LayoutAoS,
			Container:    ContainerDirectSum,
			CellSizeKind: CellSizeExact,
			CellOrder:    CellOrderLex,
		},
	}
}

// Load reads and parses a RunConfig from a YAML file at path.
func Load(path string) (RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RunConfig{}, aerr.New(aerr.IOError, "config", "read %s: %v", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return RunConfig{}, aerr.New(aerr.InvalidConfig, "config", "parse %s: %v", path, err)
	}
	if cfg.Dt <= 0 {
		return RunConfig{}, aerr.New(aerr.InvalidConfig, "config", "dt must be positive, got %g", cfg.Dt)
	}
	return cfg, nil
}
