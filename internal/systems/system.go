// Package systems contains the rule subsystems that drive the
// simulation. Each one is a pure function from the pre-tick world to a
// set of proposals on the delta builder; none of them touch the world
// directly.
package systems

import (
	"math/rand"

	"github.com/talgya/geosim/internal/config"
	"github.com/talgya/geosim/internal/delta"
	"github.com/talgya/geosim/internal/domain"
)

// Context carries the per-tick inputs shared by all subsystems: the rule
// configuration and the tick's deterministic random source.
type Context struct {
	Cfg  *config.Config
	Rand *rand.Rand
}

// System is one rule subsystem. ComputeDelta reads the world and writes
// proposals to the builder; it must not mutate the world.
type System interface {
	Name() string
	ComputeDelta(ctx *Context, w *domain.World, b *delta.Builder)
}

// Pipeline returns the subsystems in execution order. Passive evolution
// runs first, diplomatic and military interaction next, investment after
// that, and the destructive transitions last so their writes win over
// earlier ones. Every subsystem reads the same pre-tick world.
func Pipeline() []System {
	return []System{
		RegionSystem{},
		PowerSystem{},
		EconomySystem{},
		LegitimacySystem{},
		AllianceSystem{},
		WarSystem{},
		ResearchSystem{},
		TradeSystem{},
		InvestmentSystem{},
		ConflictSystem{},
	}
}
