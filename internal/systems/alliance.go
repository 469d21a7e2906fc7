package systems

import (
	"fmt"

	"github.com/talgya/geosim/internal/delta"
	"github.com/talgya/geosim/internal/domain"
)

// AllianceSystem occasionally forms a new alliance between two random
// active factions and occasionally breaks an existing one. Both sides of
// an edge are always written together so symmetry survives every tick.
type AllianceSystem struct{}

func (AllianceSystem) Name() string { return "alliance" }

func (AllianceSystem) ComputeDelta(ctx *Context, w *domain.World, b *delta.Builder) {
	cfg := ctx.Cfg.Alliance
	tcfg := ctx.Cfg.Traits
	fcfg := ctx.Cfg.Faction

	active := w.ActiveFactionIDs()
	if len(active) >= 2 {
		candidate := w.Factions[rngPick(ctx, active)]
		chance := cfg.FormationChance
		if candidate.HasTrait(domain.TraitDiplomat) {
			chance *= tcfg.DiplomatFormation
		}

		if ctx.Rand.Float64() < chance {
			partner := w.Factions[rngPick(ctx, active)]
			if candidate.ID != partner.ID && !candidate.Alliances.Has(partner.ID) &&
				len(candidate.Alliances) < fcfg.MaxAlliances &&
				len(partner.Alliances) < fcfg.MaxAlliances {
				b.ForFaction(candidate.ID).AddAlliance(partner.ID)
				b.ForFaction(partner.ID).AddAlliance(candidate.ID)
				b.AddEvent(fmt.Sprintf("ALLIANCE: %s and %s formed an alliance.", candidate.Name, partner.Name))
			}
		}
	}

	// Each existing edge is visited once, from its lower-id end; edges whose
	// lower-id end is an inactive faction are not visited.
	for _, fid := range active {
		f := w.Factions[fid]
		for _, aid := range f.Alliances.Members() {
			if aid <= fid {
				continue
			}
			if ctx.Rand.Float64() < cfg.BreakChance {
				b.ForFaction(fid).RemoveAlliance(aid)
				b.ForFaction(aid).RemoveAlliance(fid)

				otherName := aid
				if other := w.GetFaction(aid); other != nil {
					otherName = other.Name
				}
				b.AddEvent(fmt.Sprintf("ALLIANCE BROKEN: %s and %s are no longer allies.", f.Name, otherName))
			}
		}
	}
}

func rngPick(ctx *Context, ids []string) string {
	return ids[ctx.Rand.Intn(len(ids))]
}
