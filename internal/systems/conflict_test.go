package systems

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/geosim/internal/config"
	"github.com/talgya/geosim/internal/delta"
	"github.com/talgya/geosim/internal/domain"
)

func TestConflictCollapseIsDeterministic(t *testing.T) {
	f := newFaction("f1", domain.Power{Army: 2}, 50)
	w := worldOf(
		[]*domain.Faction{f},
		[]*domain.Region{newRegion("r1", "f1", domain.EnvRural, 1000, 20, 80)},
	)

	b := delta.NewBuilder()
	ConflictSystem{}.ComputeDelta(testCtx(1), w, b)
	d := b.Build()

	require.True(t, hasEvent(d, "COLLAPSE"))
	res := delta.NewApplier(config.Defaults()).Apply(d, w)
	require.True(t, res.Applied)

	collapsed := res.World.Factions["f1"]
	require.NotNil(t, collapsed, "collapsed faction must be retained for history")
	assert.False(t, collapsed.IsActive)
	assert.Equal(t, "", res.World.Regions["r1"].Owner)
	assert.Empty(t, res.World.CheckInvariants())
}

func TestConflictCollapseOnLowLegitimacy(t *testing.T) {
	f := newFaction("f1", domain.Power{Army: 50}, 5)
	w := worldOf([]*domain.Faction{f}, nil)

	b := delta.NewBuilder()
	ConflictSystem{}.ComputeDelta(testCtx(1), w, b)

	assert.True(t, hasEvent(b.Build(), "COLLAPSE"))
}

func TestConflictInsurrectionSpawnsFaction(t *testing.T) {
	w := worldOf(nil, []*domain.Region{newRegion("r_wild", "", domain.EnvWilderness, 300, 10, 30)})

	d := runUntilEvent(ConflictSystem{}, w, "INSURRECTION", 2000)
	require.NotNil(t, d, "no seed in range produced an insurrection")

	res := delta.NewApplier(config.Defaults()).Apply(d, w)
	require.True(t, res.Applied)

	r := res.World.Regions["r_wild"]
	require.NotEqual(t, "", r.Owner)
	newborn := res.World.Factions[r.Owner]
	require.NotNil(t, newborn)

	assert.True(t, newborn.IsActive)
	assert.Equal(t, 15.0, newborn.Power.Army)
	assert.Equal(t, 60.0, newborn.Legitimacy)
	assert.Equal(t, 10.0, newborn.Resources.Credits)
	assert.True(t, newborn.Regions.Has("r_wild"))
	assert.GreaterOrEqual(t, len(newborn.Traits), 1)
	assert.LessOrEqual(t, len(newborn.Traits), 2)
	assert.Equal(t, 40.0, r.SocioEconomic.Cohesion)
	assert.Empty(t, res.World.CheckInvariants())
}

func TestConflictInsurrectionSkipsPendingClaims(t *testing.T) {
	w := worldOf(nil, []*domain.Region{newRegion("r_wild", "", domain.EnvWilderness, 300, 10, 30)})

	for seed := int64(0); seed < 500; seed++ {
		b := delta.NewBuilder()
		b.ForRegion("r_wild").SetOwner("someone")
		ConflictSystem{}.ComputeDelta(testCtx(seed), w, b)
		assert.False(t, hasEvent(b.Build(), "INSURRECTION"))
	}
}

func TestConflictSecessionOfLowCohesionRegion(t *testing.T) {
	f := newFaction("f1", domain.Power{Army: 40, Navy: 10, Air: 10}, 80)
	w := worldOf(
		[]*domain.Faction{f},
		[]*domain.Region{
			newRegion("r_loyal", "f1", domain.EnvRural, 1000, 20, 90),
			newRegion("r_restless", "f1", domain.EnvRural, 1000, 20, 10),
		},
	)

	d := runUntilOnly(ConflictSystem{}, w, "REVOLT", []string{"CIVIL WAR", "COUP", "REVOLUTION"}, 2000)
	require.NotNil(t, d, "no seed in range produced a secession")

	res := delta.NewApplier(config.Defaults()).Apply(d, w)
	require.True(t, res.Applied)

	r := res.World.Regions["r_restless"]
	assert.Equal(t, "", r.Owner)
	assert.Equal(t, 0.0, r.SocioEconomic.Cohesion) // 10 - 20, floored
	assert.False(t, res.World.Factions["f1"].Regions.Has("r_restless"))
	assert.True(t, res.World.Factions["f1"].Regions.Has("r_loyal"))
	assert.InDelta(t, 40-5*0.6, res.World.Factions["f1"].Power.Army, 1e-9)
	assert.Empty(t, res.World.CheckInvariants())
}

func TestConflictRevolutionScalesPowerAndCohesion(t *testing.T) {
	f := newFaction("f1", domain.Power{Army: 50}, 15)
	w := worldOf(
		[]*domain.Faction{f},
		[]*domain.Region{newRegion("r1", "f1", domain.EnvRural, 1000, 20, 80)},
	)

	d := runUntilOnly(ConflictSystem{}, w, "REVOLUTION", []string{"COUP"}, 2000)
	require.NotNil(t, d, "no seed in range produced a revolution")

	res := delta.NewApplier(config.Defaults()).Apply(d, w)
	require.True(t, res.Applied)

	assert.InDelta(t, 50*0.8, res.World.Factions["f1"].Power.Army, 1e-9)
	assert.InDelta(t, 60, res.World.Regions["r1"].SocioEconomic.Cohesion, 1e-9)
}

func TestConflictCivilWarSplitsFaction(t *testing.T) {
	f := newFaction("f1", domain.Power{Army: 60, Navy: 20, Air: 20}, 20)
	w := worldOf(
		[]*domain.Faction{f},
		[]*domain.Region{
			newRegion("r1", "f1", domain.EnvRural, 1000, 20, 80),
			newRegion("r2", "f1", domain.EnvUrban, 2000, 40, 80),
		},
	)

	d := runUntilOnly(ConflictSystem{}, w, "CIVIL WAR", []string{"COUP", "REVOLT:"}, 2000)
	require.NotNil(t, d, "no seed in range produced a civil war")

	res := delta.NewApplier(config.Defaults()).Apply(d, w)
	require.True(t, res.Applied)

	var rebel *domain.Faction
	for _, fid := range res.World.FactionIDs() {
		if fid != "f1" {
			rebel = res.World.Factions[fid]
		}
	}
	require.NotNil(t, rebel, "rebel faction missing")

	assert.InDelta(t, 100*0.4, rebel.Power.Total(), 1e-9)
	assert.InDelta(t, 50.0, rebel.Legitimacy, 1e-9)
	assert.Equal(t, 1, len(rebel.Regions))
	assert.Equal(t, 1, len(res.World.Factions["f1"].Regions))
	assert.InDelta(t, 100*0.6, res.World.Factions["f1"].Power.Total(), 1e-9)
	assert.Empty(t, res.World.CheckInvariants())
}

func TestConflictCoup(t *testing.T) {
	f := newFaction("f1", domain.Power{Army: 30, Navy: 10, Air: 10}, 80, domain.TraitAutocrat)
	w := worldOf(
		[]*domain.Faction{f},
		[]*domain.Region{newRegion("r1", "f1", domain.EnvRural, 1000, 20, 80)},
	)

	d := runUntilEvent(ConflictSystem{}, w, "COUP", 3000)
	require.NotNil(t, d, "no seed in range produced a coup")

	res := delta.NewApplier(config.Defaults()).Apply(d, w)
	require.True(t, res.Applied)

	f1 := res.World.Factions["f1"]
	assert.InDelta(t, 40, f1.Power.Army, 1e-9)
	assert.InDelta(t, 15, f1.Power.Navy, 1e-9)
	assert.InDelta(t, 15, f1.Power.Air, 1e-9)
	assert.InDelta(t, 50, f1.Legitimacy, 1e-9)
	assert.InDelta(t, 65, res.World.Regions["r1"].SocioEconomic.Cohesion, 1e-9)
}
