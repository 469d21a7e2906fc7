package delta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/geosim/internal/config"
	"github.com/talgya/geosim/internal/domain"
)

func TestApplyScalarsAndAlliances(t *testing.T) {
	a := NewApplier(config.Defaults())
	w := testWorld()

	b := NewBuilder()
	b.ForFaction("f1").
		SetPower(domain.Power{Army: 42}).
		SetLegitimacy(61).
		SetKnowledge(3).
		AddAlliance("f2")
	b.ForFaction("f2").AddAlliance("f1")

	res := a.Apply(b.Build(), w)
	require.True(t, res.Applied)
	require.Empty(t, res.Errors)

	// Input world untouched; result world carries the changes.
	assert.Equal(t, 10.0, w.Factions["f1"].Power.Army)
	f1 := res.World.Factions["f1"]
	assert.Equal(t, 42.0, f1.Power.Army)
	assert.Equal(t, 61.0, f1.Legitimacy)
	assert.Equal(t, 3.0, f1.Knowledge)
	assert.True(t, f1.Alliances.Has("f2"))
	assert.True(t, res.World.Factions["f2"].Alliances.Has("f1"))
	assert.Empty(t, res.World.CheckInvariants())
}

func TestApplyRegionOwnershipTransfer(t *testing.T) {
	a := NewApplier(config.Defaults())
	w := testWorld()
	w.Regions["r1"].Owner = "f1"
	w.Factions["f1"].Regions.Add("r1")

	b := NewBuilder()
	b.ForRegion("r1").SetOwner("f2").SetStability(30)
	b.ForFaction("f1").RemoveRegion("r1")
	b.ForFaction("f2").AddRegion("r1")

	res := a.Apply(b.Build(), w)
	require.True(t, res.Applied)

	r1 := res.World.Regions["r1"]
	assert.Equal(t, "f2", r1.Owner)
	assert.Equal(t, 30.0, r1.SocioEconomic.Cohesion)
	assert.False(t, res.World.Factions["f1"].Regions.Has("r1"))
	assert.True(t, res.World.Factions["f2"].Regions.Has("r1"))
	assert.Empty(t, res.World.CheckInvariants())
}

func TestApplyOwnerClearByEmptyString(t *testing.T) {
	a := NewApplier(config.Defaults())
	w := testWorld()
	w.Regions["r1"].Owner = "f1"
	w.Factions["f1"].Regions.Add("r1")

	b := NewBuilder()
	b.ForRegion("r1").SetOwner("")
	b.ForFaction("f1").RemoveRegion("r1")

	res := a.Apply(b.Build(), w)
	require.True(t, res.Applied)
	assert.Equal(t, "", res.World.Regions["r1"].Owner)
	assert.False(t, res.World.Factions["f1"].Regions.Has("r1"))
}

func TestApplyCreationMayOwnCreatedRegionOwner(t *testing.T) {
	a := NewApplier(config.Defaults())
	w := testWorld()

	b := NewBuilder()
	b.ForRegion("r1").SetOwner("newborn")
	b.CreateFaction(FactionCreation{
		ID: "newborn", Name: "Newborn",
		Power:      domain.Power{Army: 15},
		Legitimacy: 60,
		Regions:    domain.NewIDSet("r1"),
	})

	res := a.Apply(b.Build(), w)
	require.True(t, res.Applied)

	nf := res.World.Factions["newborn"]
	require.NotNil(t, nf)
	assert.True(t, nf.IsActive)
	assert.Equal(t, 15.0, nf.Power.Army)
	assert.Equal(t, "newborn", res.World.Regions["r1"].Owner)
	assert.True(t, nf.Regions.Has("r1"))
	assert.Empty(t, res.World.CheckInvariants())
}

func TestApplyDeactivateKeepsFactionForHistory(t *testing.T) {
	a := NewApplier(config.Defaults())
	w := testWorld()

	b := NewBuilder()
	b.ForFaction("f1").Deactivate()

	res := a.Apply(b.Build(), w)
	require.True(t, res.Applied)
	require.NotNil(t, res.World.Factions["f1"])
	assert.False(t, res.World.Factions["f1"].IsActive)
}

func TestApplyDeletions(t *testing.T) {
	a := NewApplier(config.Defaults())
	w := testWorld()

	b := NewBuilder()
	b.DeleteRegion("r1")
	b.DeleteFaction("f2")

	res := a.Apply(b.Build(), w)
	require.True(t, res.Applied)
	assert.Nil(t, res.World.GetRegion("r1"))
	assert.Nil(t, res.World.GetFaction("f2"))
}

func TestApplyAbortsOnValidationErrorLeavingWorldUntouched(t *testing.T) {
	a := NewApplier(config.Defaults())
	w := testWorld()

	b := NewBuilder()
	b.ForFaction("f1").SetLegitimacy(75)
	b.ForFaction("ghost").SetLegitimacy(10)

	res := a.Apply(b.Build(), w)
	assert.False(t, res.Applied)
	assert.True(t, HasErrors(res.Errors))
	assert.Same(t, w, res.World)
	assert.Equal(t, 50.0, w.Factions["f1"].Legitimacy)
}

func TestApplyClampsOutOfRangeValues(t *testing.T) {
	cfg := config.Defaults()
	a := NewApplier(cfg)
	w := testWorld()

	b := NewBuilder()
	b.ForFaction("f1").
		SetLegitimacy(130).
		SetPower(domain.Power{Army: 500, Navy: 20}).
		SetResources(domain.Resources{Credits: -9999, Food: -10, Energy: -1})
	b.ForRegion("r1").SetStability(180)

	res := a.Apply(b.Build(), w)
	require.True(t, res.Applied)

	f1 := res.World.Factions["f1"]
	assert.Equal(t, cfg.Faction.MaxLegitimacy, f1.Legitimacy)
	assert.Equal(t, cfg.Faction.MaxBranchPower, f1.Power.Army)
	assert.Equal(t, cfg.Faction.MinResources, f1.Resources.Credits)
	assert.Zero(t, f1.Resources.Food)
	assert.Zero(t, f1.Resources.Energy)
	assert.Equal(t, 100.0, res.World.Regions["r1"].SocioEconomic.Cohesion)
}

func TestApplyReconcilesOwnershipFromRegions(t *testing.T) {
	a := NewApplier(config.Defaults())
	w := testWorld()
	w.Regions["r1"].Owner = "f1"
	w.Factions["f1"].Regions.Add("r1")

	// Only the region-side owner write; no faction-side bookkeeping.
	b := NewBuilder()
	b.ForRegion("r1").SetOwner("f2")

	res := a.Apply(b.Build(), w)
	require.True(t, res.Applied)
	assert.False(t, res.World.Factions["f1"].Regions.Has("r1"))
	assert.True(t, res.World.Factions["f2"].Regions.Has("r1"))
	assert.Empty(t, res.World.CheckInvariants())
}
