package systems

import (
	"github.com/talgya/geosim/internal/delta"
	"github.com/talgya/geosim/internal/domain"
)

// PowerSystem applies per-branch growth and decay, a bonus per owned
// region, and a navy bonus per coastal region.
type PowerSystem struct{}

func (PowerSystem) Name() string { return "power" }

func (PowerSystem) ComputeDelta(ctx *Context, w *domain.World, b *delta.Builder) {
	cfg := ctx.Cfg.Power
	tcfg := ctx.Cfg.Traits

	for _, fid := range w.ActiveFactionIDs() {
		f := w.Factions[fid]

		growthMod := 1.0
		if f.HasTrait(domain.TraitMilitarist) {
			growthMod = tcfg.MilitaristPowerGrowth
		} else if f.HasTrait(domain.TraitPacifist) {
			growthMod = tcfg.PacifistPowerGrowth
		}

		newPower := domain.Power{
			Army: f.Power.Army * (1 + cfg.ArmyGrowth*growthMod) * (1 - cfg.ArmyDecay),
			Navy: f.Power.Navy * (1 + cfg.NavyGrowth*growthMod) * (1 - cfg.NavyDecay),
			Air:  f.Power.Air * (1 + cfg.AirGrowth*growthMod) * (1 - cfg.AirDecay),
		}

		regionBonus := float64(len(f.Regions)) * cfg.RegionPowerFactor
		newPower.Army += regionBonus * cfg.RegionArmyShare
		newPower.Navy += regionBonus * cfg.RegionNavyShare
		newPower.Air += regionBonus * cfg.RegionAirShare

		for _, rid := range f.Regions.Members() {
			if r := w.GetRegion(rid); r != nil && r.Environment == domain.EnvCoastal {
				newPower.Navy += cfg.CoastalNavyBonus
			}
		}

		newPower = newPower.Clamp(0, ctx.Cfg.Faction.MaxBranchPower)

		if newPower != f.Power {
			b.ForFaction(fid).SetPower(newPower)
		}
	}
}
