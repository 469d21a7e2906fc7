package systems

import (
	"github.com/talgya/geosim/internal/delta"
	"github.com/talgya/geosim/internal/domain"
	"github.com/talgya/geosim/internal/metrics"
)

// LegitimacySystem recomputes each faction's legitimacy: slow decay, a
// cohesion bonus, an inequality penalty from the world power Gini, a
// starvation penalty, an alliance bonus, and expansion and stagnation
// penalties.
type LegitimacySystem struct{}

func (LegitimacySystem) Name() string { return "legitimacy" }

func (LegitimacySystem) ComputeDelta(ctx *Context, w *domain.World, b *delta.Builder) {
	cfg := ctx.Cfg.Legitimacy
	tcfg := ctx.Cfg.Traits
	fcfg := ctx.Cfg.Faction

	active := w.ActiveFactionIDs()
	powers := make([]float64, 0, len(active))
	for _, fid := range active {
		powers = append(powers, w.Factions[fid].Power.Total())
	}
	gini := metrics.Gini(powers)

	for _, fid := range active {
		f := w.Factions[fid]

		newVal := f.Legitimacy * (1 - cfg.BaseDecay)

		if len(f.Regions) > 0 {
			var totalCohesion float64
			count := 0
			for _, rid := range f.Regions.Members() {
				if r := w.GetRegion(rid); r != nil {
					totalCohesion += r.SocioEconomic.Cohesion
					count++
				}
			}
			if count > 0 {
				impact := cfg.StabilityFactor
				if f.HasTrait(domain.TraitAutocrat) {
					impact *= tcfg.AutocratStability
				}
				newVal += (totalCohesion / float64(count)) * impact
			}
		}

		giniPenalty := gini * cfg.InequalityPenalty * 100
		if f.HasTrait(domain.TraitPopulist) {
			giniPenalty *= tcfg.PopulistInequality
		}
		newVal -= giniPenalty

		if f.Resources.Credits < ctx.Cfg.Economy.StarvationThreshold ||
			f.Resources.Materials < ctx.Cfg.Economy.StarvationThreshold {
			newVal -= cfg.StarvationLoss
		}

		allianceBonus := float64(len(f.Alliances)) * cfg.AllianceBonus
		if f.HasTrait(domain.TraitDiplomat) {
			allianceBonus *= tcfg.DiplomatAllianceBonus
		}
		newVal += allianceBonus

		expansionPenalty := float64(len(f.Regions)) * cfg.ExpansionPenaltyFactor
		if f.HasTrait(domain.TraitImperialist) {
			expansionPenalty *= tcfg.ImperialistExpansion
		}
		newVal -= expansionPenalty

		if len(f.Regions) <= 1 {
			newVal -= cfg.StagnationPenalty
		}

		if f.HasTrait(domain.TraitPacifist) {
			newVal *= tcfg.PacifistLegitimacy
		}

		newVal = min(fcfg.MaxLegitimacy, max(fcfg.MinLegitimacy, newVal))

		if newVal != f.Legitimacy {
			b.ForFaction(fid).SetLegitimacy(newVal)
		}
	}
}
