// Package scenario reads and writes worlds in the stable JSON schema
// shared by scenario files and persisted snapshots. Parsing is tolerant:
// missing fields take defaults, power and resources accept a bare number
// shortcut, and unknown environments fall back to RURAL.
package scenario

import (
	"encoding/json"
	"fmt"

	"github.com/talgya/geosim/internal/domain"
)

type factionDoc struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Power      json.RawMessage `json:"power,omitempty"`
	Legitimacy *float64        `json:"legitimacy,omitempty"`
	Resources  json.RawMessage `json:"resources,omitempty"`
	Knowledge  float64         `json:"knowledge,omitempty"`
	Traits     []string        `json:"traits,omitempty"`
	Regions    []string        `json:"regions,omitempty"`
	Alliances  []string        `json:"alliances,omitempty"`
	IsActive   *bool           `json:"is_active,omitempty"`
	Color      string          `json:"color,omitempty"`
}

type regionDoc struct {
	ID            string                `json:"id"`
	Name          string                `json:"name"`
	Population    int64                 `json:"population"`
	Owner         *string               `json:"owner"`
	Environment   string                `json:"environment,omitempty"`
	SocioEconomic *domain.SocioEconomic `json:"socio_economic,omitempty"`
	Stability     *float64              `json:"stability,omitempty"` // legacy cohesion shortcut
}

type worldDoc struct {
	Factions []factionDoc `json:"factions"`
	Regions  []regionDoc  `json:"regions"`
}

// FromJSON parses a scenario or snapshot document into a world.
func FromJSON(data []byte) (*domain.World, error) {
	var doc worldDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}

	w := domain.NewWorld()

	for _, fd := range doc.Factions {
		if fd.ID == "" {
			return nil, fmt.Errorf("parse scenario: faction with empty id")
		}
		f := &domain.Faction{
			ID:         fd.ID,
			Name:       fd.Name,
			Power:      parsePower(fd.Power),
			Legitimacy: 50,
			Resources:  parseResources(fd.Resources),
			Knowledge:  fd.Knowledge,
			Regions:    domain.NewIDSet(fd.Regions...),
			Alliances:  domain.NewIDSet(fd.Alliances...),
			Traits:     domain.NewIDSet(fd.Traits...),
			Color:      fd.Color,
			IsActive:   true,
		}
		if fd.Legitimacy != nil {
			f.Legitimacy = *fd.Legitimacy
		}
		if fd.IsActive != nil {
			f.IsActive = *fd.IsActive
		}
		if f.Color == "" {
			f.Color = "#808080"
		}
		w.Factions[fd.ID] = f
	}

	for _, rd := range doc.Regions {
		if rd.ID == "" {
			return nil, fmt.Errorf("parse scenario: region with empty id")
		}
		se := domain.SocioEconomic{Infrastructure: 20, Cohesion: 100}
		if rd.SocioEconomic != nil {
			se = *rd.SocioEconomic
		} else if rd.Stability != nil {
			se.Cohesion = *rd.Stability
		}
		r := &domain.Region{
			ID:            rd.ID,
			Name:          rd.Name,
			Population:    rd.Population,
			Environment:   domain.ParseEnvironment(rd.Environment),
			SocioEconomic: se,
		}
		if rd.Owner != nil {
			r.Owner = *rd.Owner
		}
		w.Regions[rd.ID] = r
	}

	reconcile(w)
	return w, nil
}

// ToJSON serializes a world in the scenario schema, entities sorted by
// id so equal worlds produce byte-equal documents.
func ToJSON(w *domain.World) ([]byte, error) {
	doc := worldDoc{
		Factions: make([]factionDoc, 0, len(w.Factions)),
		Regions:  make([]regionDoc, 0, len(w.Regions)),
	}

	for _, fid := range w.FactionIDs() {
		f := w.Factions[fid]
		power, _ := json.Marshal(f.Power)
		resources, _ := json.Marshal(f.Resources)
		legitimacy := f.Legitimacy
		isActive := f.IsActive
		doc.Factions = append(doc.Factions, factionDoc{
			ID:         f.ID,
			Name:       f.Name,
			Power:      power,
			Legitimacy: &legitimacy,
			Resources:  resources,
			Knowledge:  f.Knowledge,
			Traits:     f.Traits.Members(),
			Regions:    f.Regions.Members(),
			Alliances:  f.Alliances.Members(),
			IsActive:   &isActive,
			Color:      f.Color,
		})
	}

	for _, rid := range w.RegionIDs() {
		r := w.Regions[rid]
		var owner *string
		if r.Owner != "" {
			o := r.Owner
			owner = &o
		}
		se := r.SocioEconomic
		doc.Regions = append(doc.Regions, regionDoc{
			ID:            r.ID,
			Name:          r.Name,
			Population:    r.Population,
			Owner:         owner,
			Environment:   string(r.Environment),
			SocioEconomic: &se,
		})
	}

	return json.Marshal(doc)
}

// parsePower accepts either the full object or a bare number, which
// seeds the army branch.
func parsePower(raw json.RawMessage) domain.Power {
	if len(raw) == 0 {
		return domain.Power{Army: 50}
	}
	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		return domain.Power{Army: num}
	}
	var p domain.Power
	if err := json.Unmarshal(raw, &p); err == nil {
		return p
	}
	return domain.Power{Army: 50}
}

// parseResources accepts either the full object or a bare number, which
// seeds credits.
func parseResources(raw json.RawMessage) domain.Resources {
	if len(raw) == 0 {
		return domain.Resources{Credits: 50}
	}
	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		return domain.Resources{Credits: num}
	}
	var r domain.Resources
	if err := json.Unmarshal(raw, &r); err == nil {
		return r
	}
	return domain.Resources{Credits: 50}
}

// reconcile settles the bidirectional ownership relation after a load.
// A faction listing a region it plausibly owns claims it if the region
// document left the owner blank; after that Region.Owner is the source
// of truth and each faction's region set is rebuilt from it.
func reconcile(w *domain.World) {
	for _, fid := range w.FactionIDs() {
		f := w.Factions[fid]
		for _, rid := range f.Regions.Members() {
			if r := w.GetRegion(rid); r != nil && r.Owner == "" {
				r.Owner = fid
			}
		}
		f.Regions = domain.NewIDSet()
	}
	for _, rid := range w.RegionIDs() {
		r := w.Regions[rid]
		if r.Owner == "" {
			continue
		}
		f := w.GetFaction(r.Owner)
		if f == nil {
			r.Owner = ""
			continue
		}
		f.Regions.Add(rid)
	}

	// Alliance edges must come out symmetric and irreflexive no matter
	// how the document listed them.
	for _, fid := range w.FactionIDs() {
		f := w.Factions[fid]
		f.Alliances.Remove(fid)
		for _, aid := range f.Alliances.Members() {
			other := w.GetFaction(aid)
			if other == nil {
				f.Alliances.Remove(aid)
				continue
			}
			other.Alliances.Add(fid)
		}
	}
}
