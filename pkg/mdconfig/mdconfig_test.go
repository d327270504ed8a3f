package mdconfig_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jkkdy/april/pkg/aerr"
	"github.com/jkkdy/april/pkg/mdconfig"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
integrator: yoshida4
dt: 0.002
steps: 50
container:
  layout: aosoa
  chunk_width: 4
  container: linked_cells
  cell_size_kind: fraction
  cell_size_value: 2
  cell_order: morton
  block: [4, 4, 4]
monitors:
  dump_enabled: true
  dump_dir: /tmp/out
`)
	cfg, err := mdconfig.Load(path)
	require.NoError(t, err)
	assert.Equal(t, mdconfig.IntegratorYoshida4, cfg.Integrator)
	assert.Equal(t, 0.002, cfg.Dt)
	assert.Equal(t, uint64(50), cfg.Steps)
	assert.Equal(t, mdconfig.LayoutAoSoA, cfg.Container.Layout)
	assert.Equal(t, 4, cfg.Container.ChunkWidth)
	assert.Equal(t, mdconfig.ContainerLinkedCells, cfg.Container.Container)
	assert.Equal(t, mdconfig.CellOrderMorton, cfg.Container.CellOrder)
	assert.Equal(t, [3]int{4, 4, 4}, cfg.Container.Block)
	assert.True(t, cfg.Monitors.DumpEnabled)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "steps: 10\n")
	cfg, err := mdconfig.Load(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), cfg.Steps)
	assert.Equal(t, mdconfig.IntegratorVelocityVerlet, cfg.Integrator)
	assert.Equal(t, mdconfig.LayoutAoS, cfg.Container.Layout)
}

func TestLoad_MissingFileIsIOError(t *testing.T) {
	_, err := mdconfig.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.True(t, aerr.Is(err, aerr.IOError))
}

func TestLoad_RejectsNonPositiveDt(t *testing.T) {
	path := writeConfig(t, "dt: -1\n")
	_, err := mdconfig.Load(path)
	require.Error(t, err)
	assert.True(t, aerr.Is(err, aerr.InvalidConfig))
}

func TestLoad_RejectsMalformedYAML(t *testing.T) {
	path := writeConfig(t, "{{ not yaml")
	_, err := mdconfig.Load(path)
	require.Error(t, err)
	assert.True(t, aerr.Is(err, aerr.InvalidConfig))
}
