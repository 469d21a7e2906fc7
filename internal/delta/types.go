// Package delta defines the per-tick mutation record, the builder the
// rule subsystems write to, and the validate/apply machinery that turns a
// delta into the next world state.
package delta

import "github.com/talgya/geosim/internal/domain"

// FactionDelta is the set of proposed changes to one faction. Nil scalar
// fields mean "leave unchanged"; set fields replace the current value.
type FactionDelta struct {
	Power      *domain.Power     `json:"power,omitempty"`
	Legitimacy *float64          `json:"legitimacy,omitempty"`
	Resources  *domain.Resources `json:"resources,omitempty"`
	Knowledge  *float64          `json:"knowledge,omitempty"`

	AddRegions      domain.IDSet `json:"add_regions,omitempty"`
	RemoveRegions   domain.IDSet `json:"remove_regions,omitempty"`
	AddAlliances    domain.IDSet `json:"add_alliances,omitempty"`
	RemoveAlliances domain.IDSet `json:"remove_alliances,omitempty"`

	Deactivate bool `json:"deactivate,omitempty"`
}

// RegionDelta is the set of proposed changes to one region. Owner uses a
// pointer so "set owner to nobody" (empty string) is distinct from "no
// owner change" (nil).
type RegionDelta struct {
	SocioEconomic *domain.SocioEconomic `json:"socio_economic,omitempty"`
	Stability     *float64              `json:"stability,omitempty"` // cohesion shortcut
	Population    *int64                `json:"population,omitempty"`
	Owner         *string               `json:"owner,omitempty"`
}

// FactionCreation describes a faction to bring into existence this tick.
type FactionCreation struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Power      domain.Power     `json:"power"`
	Legitimacy float64          `json:"legitimacy"`
	Resources  domain.Resources `json:"resources"`
	Knowledge  float64          `json:"knowledge"`
	Regions    domain.IDSet     `json:"regions"`
	Alliances  domain.IDSet     `json:"alliances"`
	Traits     domain.IDSet     `json:"traits"`
	Color      string           `json:"color"`
}

// RegionCreation describes a region to bring into existence this tick.
type RegionCreation struct {
	ID            string               `json:"id"`
	Name          string               `json:"name"`
	Population    int64                `json:"population"`
	Environment   domain.Environment   `json:"environment"`
	SocioEconomic domain.SocioEconomic `json:"socio_economic"`
	Owner         string               `json:"owner,omitempty"`
}

// WorldDelta is one tick's complete mutation record. It is what gets
// persisted per tick and replayed on load.
type WorldDelta struct {
	FactionDeltas map[string]*FactionDelta `json:"faction_deltas,omitempty"`
	RegionDeltas  map[string]*RegionDelta  `json:"region_deltas,omitempty"`

	CreateFactions map[string]*FactionCreation `json:"create_factions,omitempty"`
	CreateRegions  map[string]*RegionCreation  `json:"create_regions,omitempty"`
	DeleteFactions domain.IDSet                `json:"delete_factions,omitempty"`
	DeleteRegions  domain.IDSet                `json:"delete_regions,omitempty"`

	Events []string `json:"events,omitempty"`
}

// NewWorldDelta returns an empty delta with initialized containers.
func NewWorldDelta() *WorldDelta {
	return &WorldDelta{
		FactionDeltas:  make(map[string]*FactionDelta),
		RegionDeltas:   make(map[string]*RegionDelta),
		CreateFactions: make(map[string]*FactionCreation),
		CreateRegions:  make(map[string]*RegionCreation),
		DeleteFactions: domain.NewIDSet(),
		DeleteRegions:  domain.NewIDSet(),
	}
}
