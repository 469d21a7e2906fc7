package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsCarrySpecValues(t *testing.T) {
	cfg := Defaults()

	assert.Equal(t, int64(10), cfg.Simulation.SnapshotInterval)
	assert.Equal(t, 3, cfg.Faction.MaxAlliances)
	assert.Equal(t, 0.02, cfg.Power.ArmyGrowth)
	assert.Equal(t, 0.008, cfg.Power.AirDecay)
	assert.Equal(t, 0.005, cfg.Economy.FoodPerPopulation)
	assert.Equal(t, 0.05, cfg.Alliance.FormationChance)
	assert.Equal(t, 0.9, cfg.War.VictoryCap)
	assert.Equal(t, 30.0, cfg.War.ConquestStability)
	assert.Equal(t, int64(10000), cfg.Region.MaxPopulation)
	assert.Equal(t, 0.05, cfg.Conflict.InsurrectionChance)
	assert.Equal(t, 5.0, cfg.Collapse.PowerFloor)
	assert.Equal(t, 1.2, cfg.Traits.MilitaristPowerGrowth)
}

func TestLoadOverridesSelectively(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	doc := `
simulation:
  snapshot_interval: 25
war:
  declaration_chance: 0.2
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, int64(25), cfg.Simulation.SnapshotInterval)
	assert.Equal(t, 0.2, cfg.War.DeclarationChance)
	// Untouched keys keep their defaults.
	assert.Equal(t, 0.05, cfg.Alliance.FormationChance)
	assert.Equal(t, 0.02, cfg.Power.ArmyGrowth)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("simulation: ["), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}
