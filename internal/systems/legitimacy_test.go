package systems

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/geosim/internal/delta"
	"github.com/talgya/geosim/internal/domain"
)

func TestLegitimacySingleFaction(t *testing.T) {
	f := newFaction("f1", domain.Power{Army: 10}, 50)
	w := worldOf(
		[]*domain.Faction{f},
		[]*domain.Region{newRegion("r1", "f1", domain.EnvRural, 1000, 20, 80)},
	)

	b := delta.NewBuilder()
	LegitimacySystem{}.ComputeDelta(testCtx(1), w, b)
	d := b.Build()

	require.NotNil(t, d.FactionDeltas["f1"].Legitimacy)
	// decay, cohesion bonus, expansion penalty, stagnation penalty; a
	// lone faction has zero Gini.
	want := 50*0.99 + 80*0.3 - 1*0.5 - 1
	assert.InDelta(t, want, *d.FactionDeltas["f1"].Legitimacy, 1e-9)
}

func TestLegitimacyInequalityPenalty(t *testing.T) {
	strong := newFaction("f1", domain.Power{Army: 90}, 50)
	weak := newFaction("f2", domain.Power{Army: 10}, 50)
	w := worldOf([]*domain.Faction{strong, weak}, nil)

	b := delta.NewBuilder()
	LegitimacySystem{}.ComputeDelta(testCtx(1), w, b)
	d := b.Build()

	// Gini of {90, 10} is 0.4; both factions share the same penalty.
	want := 50*0.99 - 0.4*0.4*100 - 1
	assert.InDelta(t, want, *d.FactionDeltas["f1"].Legitimacy, 1e-9)
	assert.InDelta(t, want, *d.FactionDeltas["f2"].Legitimacy, 1e-9)
}

func TestLegitimacyAllianceBonusWithDiplomat(t *testing.T) {
	diplomat := newFaction("f1", domain.Power{Army: 10}, 50, domain.TraitDiplomat)
	other := newFaction("f2", domain.Power{Army: 10}, 50)
	diplomat.Alliances.Add("f2")
	other.Alliances.Add("f1")
	w := worldOf([]*domain.Faction{diplomat, other}, nil)

	b := delta.NewBuilder()
	LegitimacySystem{}.ComputeDelta(testCtx(1), w, b)
	d := b.Build()

	base := 50*0.99 - 1.0 // decay and stagnation, equal powers mean zero Gini
	assert.InDelta(t, base+1*2*1.5, *d.FactionDeltas["f1"].Legitimacy, 1e-9)
	assert.InDelta(t, base+1*2, *d.FactionDeltas["f2"].Legitimacy, 1e-9)
}

func TestLegitimacyStarvationPenaltyOnEmptyCoffers(t *testing.T) {
	broke := newFaction("f1", domain.Power{Army: 10}, 50)
	broke.Resources.Credits = -5
	solvent := newFaction("f2", domain.Power{Army: 10}, 50)
	w := worldOf([]*domain.Faction{broke, solvent}, nil)

	b := delta.NewBuilder()
	LegitimacySystem{}.ComputeDelta(testCtx(1), w, b)
	d := b.Build()

	diff := *d.FactionDeltas["f2"].Legitimacy - *d.FactionDeltas["f1"].Legitimacy
	assert.InDelta(t, 2.0, diff, 1e-9)
}

func TestLegitimacyAutocratHalvesCohesionImpact(t *testing.T) {
	autocrat := newFaction("f1", domain.Power{Army: 10}, 50, domain.TraitAutocrat)
	w := worldOf(
		[]*domain.Faction{autocrat},
		[]*domain.Region{newRegion("r1", "f1", domain.EnvRural, 1000, 20, 80)},
	)

	b := delta.NewBuilder()
	LegitimacySystem{}.ComputeDelta(testCtx(1), w, b)
	d := b.Build()

	want := 50*0.99 + 80*0.3*0.5 - 0.5 - 1
	assert.InDelta(t, want, *d.FactionDeltas["f1"].Legitimacy, 1e-9)
}

func TestLegitimacyClampedToBounds(t *testing.T) {
	f := newFaction("f1", domain.Power{Army: 10}, 99)
	regions := []*domain.Region{
		newRegion("r1", "f1", domain.EnvRural, 1000, 20, 100),
		newRegion("r2", "f1", domain.EnvRural, 1000, 20, 100),
	}
	w := worldOf([]*domain.Faction{f}, regions)

	b := delta.NewBuilder()
	LegitimacySystem{}.ComputeDelta(testCtx(1), w, b)
	d := b.Build()

	require.NotNil(t, d.FactionDeltas["f1"].Legitimacy)
	assert.LessOrEqual(t, *d.FactionDeltas["f1"].Legitimacy, 100.0)
	assert.GreaterOrEqual(t, *d.FactionDeltas["f1"].Legitimacy, 0.0)
}
