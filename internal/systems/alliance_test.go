package systems

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/geosim/internal/config"
	"github.com/talgya/geosim/internal/delta"
	"github.com/talgya/geosim/internal/domain"
)

func allianceWorld() *domain.World {
	diplomat := newFaction("f_a", domain.Power{Army: 20}, 50, domain.TraitDiplomat)
	other := newFaction("f_b", domain.Power{Army: 20}, 50)
	return worldOf([]*domain.Faction{diplomat, other}, nil)
}

func TestAllianceFormationIsMutual(t *testing.T) {
	w := allianceWorld()
	d := runUntilEvent(AllianceSystem{}, w, "ALLIANCE:", 2000)
	require.NotNil(t, d, "no seed in range formed an alliance")

	res := delta.NewApplier(config.Defaults()).Apply(d, w)
	require.True(t, res.Applied)

	assert.True(t, res.World.Factions["f_a"].Alliances.Has("f_b"))
	assert.True(t, res.World.Factions["f_b"].Alliances.Has("f_a"))
	assert.Empty(t, res.World.CheckInvariants())
}

func TestAllianceBreakRemovesBothSides(t *testing.T) {
	w := allianceWorld()
	w.Factions["f_a"].Alliances.Add("f_b")
	w.Factions["f_b"].Alliances.Add("f_a")

	d := runUntilEvent(AllianceSystem{}, w, "ALLIANCE BROKEN", 2000)
	require.NotNil(t, d, "no seed in range broke the alliance")

	res := delta.NewApplier(config.Defaults()).Apply(d, w)
	require.True(t, res.Applied)

	assert.False(t, res.World.Factions["f_a"].Alliances.Has("f_b"))
	assert.False(t, res.World.Factions["f_b"].Alliances.Has("f_a"))
	assert.Empty(t, res.World.CheckInvariants())
}

func TestAllianceRespectsCap(t *testing.T) {
	// Both factions sit at the cap of 3; formation between them must
	// never fire no matter the seed.
	f1 := newFaction("f_a", domain.Power{Army: 20}, 50)
	f2 := newFaction("f_b", domain.Power{Army: 20}, 50)
	fillers := []*domain.Faction{f1, f2}
	for _, id := range []string{"x1", "x2", "x3"} {
		filler := newFaction(id, domain.Power{Army: 10}, 50)
		filler.IsActive = false // inert, only here to hold alliance edges
		f1.Alliances.Add(id)
		f2.Alliances.Add(id)
		filler.Alliances.Add("f_a")
		filler.Alliances.Add("f_b")
		fillers = append(fillers, filler)
	}
	w := worldOf(fillers, nil)

	for seed := int64(0); seed < 300; seed++ {
		b := delta.NewBuilder()
		AllianceSystem{}.ComputeDelta(testCtx(seed), w, b)
		assert.False(t, hasEvent(b.Build(), "ALLIANCE:"), "alliance formed past the cap")
	}
}

func TestAllianceNeedsTwoActiveFactions(t *testing.T) {
	lone := newFaction("f_a", domain.Power{Army: 20}, 50, domain.TraitDiplomat)
	w := worldOf([]*domain.Faction{lone}, nil)

	for seed := int64(0); seed < 100; seed++ {
		b := delta.NewBuilder()
		AllianceSystem{}.ComputeDelta(testCtx(seed), w, b)
		assert.Empty(t, b.Build().Events)
	}
}
