package systems

import (
	"math/rand"
	"strings"

	"github.com/talgya/geosim/internal/config"
	"github.com/talgya/geosim/internal/delta"
	"github.com/talgya/geosim/internal/domain"
)

func testCtx(seed int64) *Context {
	return &Context{
		Cfg:  config.Defaults(),
		Rand: rand.New(rand.NewSource(seed)),
	}
}

func newFaction(id string, power domain.Power, legitimacy float64, traits ...domain.Trait) *domain.Faction {
	return &domain.Faction{
		ID:         id,
		Name:       strings.ToUpper(id),
		Power:      power,
		Legitimacy: legitimacy,
		Resources:  domain.Resources{Credits: 100, Materials: 100, Food: 10, Energy: 10, Influence: 5},
		Regions:    domain.NewIDSet(),
		Alliances:  domain.NewIDSet(),
		Traits:     domain.NewIDSet(traits...),
		Color:      "#808080",
		IsActive:   true,
	}
}

func newRegion(id string, owner string, env domain.Environment, pop int64, infra, cohesion float64) *domain.Region {
	return &domain.Region{
		ID:          id,
		Name:        strings.ToUpper(id),
		Population:  pop,
		Owner:       owner,
		Environment: env,
		SocioEconomic: domain.SocioEconomic{
			Infrastructure: infra,
			Cohesion:       cohesion,
		},
	}
}

func worldOf(factions []*domain.Faction, regions []*domain.Region) *domain.World {
	w := domain.NewWorld()
	for _, f := range factions {
		w.Factions[f.ID] = f
	}
	for _, r := range regions {
		w.Regions[r.ID] = r
		if r.Owner != "" {
			if f := w.GetFaction(r.Owner); f != nil {
				f.Regions.Add(r.ID)
			}
		}
	}
	return w
}

// runUntilEvent scans seeds until the system emits an event containing
// marker, returning the built delta. Probabilistic rules are pinned this
// way rather than by hardcoding draw positions.
func runUntilEvent(sys System, w *domain.World, marker string, maxSeeds int64) *delta.WorldDelta {
	return runUntilOnly(sys, w, marker, nil, maxSeeds)
}

// runUntilOnly is runUntilEvent with vetoes: seeds whose delta also
// contains any of the excluded markers are skipped, isolating one
// outcome of a system that can fire several in one tick.
func runUntilOnly(sys System, w *domain.World, marker string, exclude []string, maxSeeds int64) *delta.WorldDelta {
	for seed := int64(0); seed < maxSeeds; seed++ {
		b := delta.NewBuilder()
		sys.ComputeDelta(testCtx(seed), w, b)
		d := b.Build()
		if !hasEvent(d, marker) {
			continue
		}
		vetoed := false
		for _, ex := range exclude {
			if hasEvent(d, ex) {
				vetoed = true
				break
			}
		}
		if !vetoed {
			return d
		}
	}
	return nil
}

func hasEvent(d *delta.WorldDelta, marker string) bool {
	for _, ev := range d.Events {
		if strings.Contains(ev, marker) {
			return true
		}
	}
	return false
}
