package systems

import (
	"github.com/talgya/geosim/internal/delta"
	"github.com/talgya/geosim/internal/domain"
)

// RegionSystem evolves regions independently of their owners:
// infrastructure grows where cohesion is high, cohesion recovers toward
// 100, and population grows at an environment-specific rate.
type RegionSystem struct{}

func (RegionSystem) Name() string { return "region" }

func (RegionSystem) ComputeDelta(ctx *Context, w *domain.World, b *delta.Builder) {
	cfg := ctx.Cfg.Region

	for _, rid := range w.RegionIDs() {
		r := w.Regions[rid]
		se := r.SocioEconomic

		newSE := se
		if se.Cohesion > 70 {
			growth := cfg.InfraGrowth
			switch r.Environment {
			case domain.EnvUrban:
				growth *= cfg.InfraGrowthUrbanMod
			case domain.EnvWilderness:
				growth *= cfg.InfraGrowthWildMod
			}
			newSE.Infrastructure = min(100, se.Infrastructure+growth)
		}
		if se.Cohesion < 100 {
			recovery := cfg.CohesionRecoveryBase + se.Infrastructure/200
			newSE.Cohesion = min(100, se.Cohesion+recovery)
		}

		newPop := r.Population
		if r.Population < cfg.MaxPopulation {
			var rate float64
			switch r.Environment {
			case domain.EnvUrban:
				rate = cfg.GrowthUrban
			case domain.EnvRural:
				rate = cfg.GrowthRural
			case domain.EnvIndustrial:
				rate = cfg.GrowthIndustrial
			case domain.EnvCoastal:
				rate = cfg.GrowthCoastal
			case domain.EnvWilderness:
				rate = cfg.GrowthWilderness
			default:
				rate = cfg.GrowthIndustrial
			}
			growth := int64(float64(r.Population) * rate * (1 + se.Infrastructure/100))
			if growth < 1 {
				growth = 1
			}
			newPop = min(cfg.MaxPopulation, r.Population+growth)
		}

		if newSE != se || newPop != r.Population {
			rb := b.ForRegion(rid)
			if newSE != se {
				rb.SetSocioEconomic(newSE)
			}
			if newPop != r.Population {
				rb.SetPopulation(newPop)
			}
		}
	}
}
