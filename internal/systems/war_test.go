package systems

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/geosim/internal/config"
	"github.com/talgya/geosim/internal/delta"
	"github.com/talgya/geosim/internal/domain"
)

func warWorld() *domain.World {
	attacker := newFaction("f_att", domain.Power{Army: 90}, 50)
	defender := newFaction("f_def", domain.Power{Army: 20}, 50)
	return worldOf(
		[]*domain.Faction{attacker, defender},
		[]*domain.Region{newRegion("r_front", "f_def", domain.EnvRural, 1000, 20, 50)},
	)
}

func TestWarConquestTransfersRegion(t *testing.T) {
	w := warWorld()
	d := runUntilEvent(WarSystem{}, w, "conquered", 2000)
	require.NotNil(t, d, "no seed in range produced a conquest")

	res := delta.NewApplier(config.Defaults()).Apply(d, w)
	require.True(t, res.Applied)

	r := res.World.Regions["r_front"]
	assert.Equal(t, "f_att", r.Owner)
	assert.Equal(t, 30.0, r.SocioEconomic.Cohesion)

	att := res.World.Factions["f_att"]
	assert.True(t, att.Regions.Has("r_front"))
	assert.InDelta(t, 90*0.95, att.Power.Army, 1e-9)
	assert.InDelta(t, 50+5, att.Legitimacy, 1e-9)
	assert.InDelta(t, 100-5, att.Resources.Materials, 1e-9)

	assert.False(t, res.World.Factions["f_def"].Regions.Has("r_front"))
	assert.Empty(t, res.World.CheckInvariants())
}

func TestWarFailedAttackScalesBothPowers(t *testing.T) {
	// Reverse the odds: weak attacker, strong defender.
	attacker := newFaction("f_att", domain.Power{Army: 10}, 50)
	defender := newFaction("f_def", domain.Power{Army: 95}, 50)
	w := worldOf(
		[]*domain.Faction{attacker, defender},
		[]*domain.Region{newRegion("r_front", "f_def", domain.EnvRural, 1000, 20, 50)},
	)

	d := runUntilEvent(WarSystem{}, w, "failed to conquer", 2000)
	require.NotNil(t, d, "no seed in range produced a failed attack")

	res := delta.NewApplier(config.Defaults()).Apply(d, w)
	require.True(t, res.Applied)

	assert.InDelta(t, 10*0.8, res.World.Factions["f_att"].Power.Army, 1e-9)
	assert.InDelta(t, 95*0.9, res.World.Factions["f_def"].Power.Army, 1e-9)
	assert.Equal(t, "f_def", res.World.Regions["r_front"].Owner)
}

func TestWarColonizesNeutralWhenNoRivals(t *testing.T) {
	attacker := newFaction("f_att", domain.Power{Army: 40}, 50)
	w := worldOf(
		[]*domain.Faction{attacker},
		[]*domain.Region{newRegion("r_free", "", domain.EnvWilderness, 200, 10, 30)},
	)

	d := runUntilEvent(WarSystem{}, w, "EXPANSION", 2000)
	require.NotNil(t, d, "no seed in range colonized")

	res := delta.NewApplier(config.Defaults()).Apply(d, w)
	require.True(t, res.Applied)

	r := res.World.Regions["r_free"]
	assert.Equal(t, "f_att", r.Owner)
	assert.Equal(t, 80.0, r.SocioEconomic.Cohesion)
	assert.InDelta(t, 40-2.5, res.World.Factions["f_att"].Power.Army, 1e-9)
}

func TestWarNeverTargetsAllies(t *testing.T) {
	w := warWorld()
	w.Factions["f_att"].Alliances.Add("f_def")
	w.Factions["f_def"].Alliances.Add("f_att")

	for seed := int64(0); seed < 500; seed++ {
		b := delta.NewBuilder()
		WarSystem{}.ComputeDelta(testCtx(seed), w, b)
		d := b.Build()
		assert.False(t, hasEvent(d, "conquer"), "attacked an ally")
	}
}

func TestWarSkipsRegionsAlreadyClaimedThisTick(t *testing.T) {
	w := warWorld()

	for seed := int64(0); seed < 500; seed++ {
		b := delta.NewBuilder()
		// Another subsystem already re-owned the only target.
		b.ForRegion("r_front").SetOwner("f_att")
		WarSystem{}.ComputeDelta(testCtx(seed), w, b)
		assert.Empty(t, b.Build().Events)
	}
}
