package systems

import (
	"fmt"

	"github.com/talgya/geosim/internal/delta"
	"github.com/talgya/geosim/internal/domain"
)

// WarSystem lets each active faction occasionally strike: conquest of a
// rival-held region when rival targets exist, otherwise colonization of a
// neutral one.
type WarSystem struct{}

func (WarSystem) Name() string { return "war" }

func (WarSystem) ComputeDelta(ctx *Context, w *domain.World, b *delta.Builder) {
	cfg := ctx.Cfg.War
	tcfg := ctx.Cfg.Traits

	for _, fid := range w.ActiveFactionIDs() {
		attacker := w.Factions[fid]

		chance := cfg.DeclarationChance
		if attacker.HasTrait(domain.TraitPacifist) {
			chance *= tcfg.PacifistWarDeclaration
		}
		if ctx.Rand.Float64() >= chance {
			continue
		}

		// Partition targets, skipping regions some earlier attacker (or
		// subsystem) already re-owned this tick.
		var rivalHeld, neutral []string
		for _, rid := range w.RegionIDs() {
			r := w.Regions[rid]
			if b.HasPendingOwnerChange(rid) {
				continue
			}
			if r.Owner == "" {
				neutral = append(neutral, rid)
			} else if r.Owner != fid && !attacker.Alliances.Has(r.Owner) {
				rivalHeld = append(rivalHeld, rid)
			}
		}

		if len(rivalHeld) > 0 && ctx.Rand.Float64() > cfg.ColonizationChance {
			target := w.Regions[rngPick(ctx, rivalHeld)]
			defender := w.GetFaction(target.Owner)
			if defender == nil {
				continue
			}

			powerRatio := attacker.Power.Total() / max(defender.Power.Total(), 1)
			victoryChance := min(powerRatio/(cfg.VictoryPowerRatio*cfg.VictoryChanceFactor), cfg.VictoryCap)
			if attacker.HasTrait(domain.TraitMilitarist) {
				victoryChance *= tcfg.MilitaristVictory
			}

			if ctx.Rand.Float64() < victoryChance {
				b.ForRegion(target.ID).SetOwner(fid).SetStability(cfg.ConquestStability)
				b.ForFaction(defender.ID).RemoveRegion(target.ID)

				cost := cfg.ConquestMaterialsCost
				if attacker.HasTrait(domain.TraitImperialist) {
					cost *= tcfg.ImperialistConquestCost
				}
				legBonus := ctx.Cfg.Legitimacy.MilitaryVictoryBonus
				if attacker.HasTrait(domain.TraitImperialist) {
					legBonus *= tcfg.ImperialistVictoryBonus
				}

				b.ForFaction(fid).
					AddRegion(target.ID).
					SetResources(attacker.Resources.Sub(domain.Resources{Materials: cost})).
					SetLegitimacy(min(ctx.Cfg.Faction.MaxLegitimacy, attacker.Legitimacy+legBonus)).
					SetPower(attacker.Power.Scale(cfg.ConquestPowerRemaining))

				b.AddEvent(fmt.Sprintf("WAR: %s conquered %s from %s!", attacker.Name, target.Name, defender.Name))
			} else {
				b.ForFaction(fid).SetPower(attacker.Power.Scale(cfg.FailedAttackerRemaining))
				b.ForFaction(defender.ID).SetPower(defender.Power.Scale(cfg.FailedDefenderRemaining))
				b.AddEvent(fmt.Sprintf("WAR: %s failed to conquer %s from %s.", attacker.Name, target.Name, defender.Name))
			}
		} else if len(neutral) > 0 {
			target := w.Regions[rngPick(ctx, neutral)]

			cost := cfg.ColonizationArmyCost
			if attacker.HasTrait(domain.TraitImperialist) {
				cost *= tcfg.ImperialistConquestCost
			}

			b.ForRegion(target.ID).SetOwner(fid).SetStability(cfg.ColonizationStability)
			b.ForFaction(fid).
				AddRegion(target.ID).
				SetPower(attacker.Power.Sub(domain.Power{Army: cost}))

			b.AddEvent(fmt.Sprintf("EXPANSION: %s colonized the neutral region of %s.", attacker.Name, target.Name))
		}
	}
}
