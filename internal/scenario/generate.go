package scenario

import (
	"fmt"
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/geosim/internal/domain"
)

// GenConfig controls procedural world generation.
type GenConfig struct {
	Seed         int64
	Factions     int
	Regions      int
	NeutralShare float64 // fraction of regions left unowned
}

// DefaultGenConfig returns a mid-sized generated world setup.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Seed:         1,
		Factions:     4,
		Regions:      16,
		NeutralShare: 0.25,
	}
}

var regionNames = []string{
	"Ashford", "Bastion", "Caldera", "Duskmere", "Everfield", "Froststead",
	"Gale Harbor", "Highreach", "Ironmoor", "Juniper Vale", "Kestrel Bay",
	"Lowmarch", "Mirefen", "Northwatch", "Oakenshire", "Pale Coast",
	"Quarryton", "Ravenholt", "Stormwall", "Thornwood", "Umberfall",
	"Vantage", "Westergate", "Yarrow Plain", "Zephyr Point",
}

var factionNames = []string{
	"Amber Concord", "Boreal League", "Cinder Pact", "Dominion of Vale",
	"Ember Combine", "Free Assembly", "Grand Accord", "Harbor Union",
}

var factionColors = []string{
	"#E74C3C", "#3498DB", "#F1C40F", "#2ECC71", "#9B59B6", "#E67E22",
	"#1ABC9C", "#95A5A6",
}

// Generate builds a world from layered noise. Two noise fields drive
// development and cohesion; a third picks environments, so neighboring
// indices get correlated rather than uniformly random attributes.
func Generate(cfg GenConfig) *domain.World {
	rng := rand.New(rand.NewSource(cfg.Seed))
	devNoise := opensimplex.NewNormalized(cfg.Seed)
	cohNoise := opensimplex.NewNormalized(cfg.Seed + 1)
	envNoise := opensimplex.NewNormalized(cfg.Seed + 2)

	w := domain.NewWorld()

	for i := 0; i < cfg.Factions && i < len(factionNames); i++ {
		id := fmt.Sprintf("f_%02d", i+1)
		traits := domain.NewIDSet(domain.AllTraits[rng.Intn(len(domain.AllTraits))])
		if rng.Float64() < 0.5 {
			traits.Add(domain.AllTraits[rng.Intn(len(domain.AllTraits))])
		}
		w.Factions[id] = &domain.Faction{
			ID:         id,
			Name:       factionNames[i],
			Power:      domain.Power{Army: 20 + rng.Float64()*40, Navy: 5 + rng.Float64()*30, Air: 5 + rng.Float64()*25},
			Legitimacy: 40 + rng.Float64()*40,
			Resources:  domain.Resources{Credits: 50 + rng.Float64()*150, Materials: 30 + rng.Float64()*100, Food: 20, Energy: 20, Influence: 5},
			Regions:    domain.NewIDSet(),
			Alliances:  domain.NewIDSet(),
			Traits:     traits,
			Color:      factionColors[i%len(factionColors)],
			IsActive:   true,
		}
	}

	factionIDs := w.FactionIDs()
	neutral := int(math.Round(float64(cfg.Regions) * cfg.NeutralShare))

	for i := 0; i < cfg.Regions; i++ {
		id := fmt.Sprintf("r_%02d", i+1)
		name := regionNames[i%len(regionNames)]
		if i >= len(regionNames) {
			name = fmt.Sprintf("%s %d", name, i/len(regionNames)+1)
		}

		// Sample each region at a distinct point of the noise fields.
		x := float64(i) * 0.37
		y := float64(i) * 0.61
		dev := devNoise.Eval2(x, y)
		coh := cohNoise.Eval2(x, y)

		r := &domain.Region{
			ID:            id,
			Name:          name,
			Population:    200 + int64(dev*6000),
			Environment:   deriveEnvironment(envNoise.Eval2(x, y), dev),
			SocioEconomic: domain.SocioEconomic{Infrastructure: 10 + dev*70, Cohesion: 40 + coh*60},
		}

		if len(factionIDs) > 0 && i < cfg.Regions-neutral {
			owner := factionIDs[i%len(factionIDs)]
			r.Owner = owner
			w.Factions[owner].Regions.Add(id)
		}
		w.Regions[id] = r
	}

	return w
}

func deriveEnvironment(v, dev float64) domain.Environment {
	switch {
	case v < 0.2:
		return domain.EnvWilderness
	case v < 0.4:
		return domain.EnvRural
	case v < 0.6:
		return domain.EnvCoastal
	case v < 0.8:
		if dev > 0.5 {
			return domain.EnvIndustrial
		}
		return domain.EnvRural
	default:
		return domain.EnvUrban
	}
}
