package systems

import (
	"fmt"

	"github.com/talgya/geosim/internal/delta"
	"github.com/talgya/geosim/internal/domain"
)

// InvestmentSystem lets a faction occasionally spend credits on one of
// its regions, favoring stability over infrastructure.
type InvestmentSystem struct{}

func (InvestmentSystem) Name() string { return "investment" }

func (InvestmentSystem) ComputeDelta(ctx *Context, w *domain.World, b *delta.Builder) {
	cfg := ctx.Cfg.Investment

	for _, fid := range w.ActiveFactionIDs() {
		f := w.Factions[fid]
		if len(f.Regions) == 0 {
			continue
		}
		if ctx.Rand.Float64() >= cfg.Chance {
			continue
		}

		rid := rngPick(ctx, f.Regions.Members())
		r := w.GetRegion(rid)
		if r == nil {
			continue
		}

		if ctx.Rand.Float64() < cfg.StabilityShare {
			if f.Resources.Credits < cfg.StabilityCost {
				continue
			}
			b.ForRegion(rid).SetStability(min(100, r.Stability()+cfg.StabilityGain))
			b.ForFaction(fid).SetResources(f.Resources.Sub(domain.Resources{Credits: cfg.StabilityCost}))
			b.AddEvent(fmt.Sprintf("INVESTMENT: %s invested in %s stability.", f.Name, r.Name))
		} else {
			if f.Resources.Credits < cfg.InfrastructureCost {
				continue
			}
			newInfra := min(100, r.SocioEconomic.Infrastructure+cfg.InfrastructureGain)
			b.ForRegion(rid).SetSocioEconomic(domain.SocioEconomic{
				Infrastructure: newInfra,
				Cohesion:       r.SocioEconomic.Cohesion,
			})
			b.ForFaction(fid).SetResources(f.Resources.Sub(domain.Resources{Credits: cfg.InfrastructureCost}))
			b.AddEvent(fmt.Sprintf("INVESTMENT: %s expanded infrastructure in %s (%.0f%%).", f.Name, r.Name, newInfra))
		}
	}
}
