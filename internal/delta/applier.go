package delta

import (
	"github.com/talgya/geosim/internal/config"
	"github.com/talgya/geosim/internal/domain"
)

// ApplyResult reports what happened to one delta.
type ApplyResult struct {
	// World is the post-application state. When Applied is false it is
	// the input world, untouched.
	World   *domain.World
	Errors  []ValidationError
	Applied bool
}

// Applier turns a validated delta into the next world state.
//
// Application order matters for the ownership invariants:
//  1. faction field deltas (scalars, alliance sets)
//  2. region owner bookkeeping from add_regions / remove_regions
//  3. region deltas (scalars, owner shortcut)
//  4. creations, factions before regions
//  5. deletions, regions before factions
//
// All mutation happens on a clone; the caller only sees the new world
// when every step succeeded, so a mid-apply failure never leaves a
// half-applied tick.
type Applier struct {
	cfg       *config.Config
	validator *Validator
}

func NewApplier(cfg *config.Config) *Applier {
	return &Applier{cfg: cfg, validator: NewValidator(cfg)}
}

// Apply validates and applies a delta. Findings of error severity abort
// application; warnings ride along in the result.
func (a *Applier) Apply(d *WorldDelta, w *domain.World) ApplyResult {
	errs := a.validator.Validate(d, w)
	if HasErrors(errs) {
		return ApplyResult{World: w, Errors: errs, Applied: false}
	}

	next := w.Clone()

	a.applyFactionDeltas(d, next)
	a.applyRegionDeltas(d, next)
	a.applyCreations(d, next)
	a.applyDeletions(d, next)
	a.reconcileOwnership(next)
	a.clampAll(next)

	return ApplyResult{World: next, Errors: errs, Applied: true}
}

func (a *Applier) applyFactionDeltas(d *WorldDelta, w *domain.World) {
	for _, fid := range sortedKeys(d.FactionDeltas) {
		fd := d.FactionDeltas[fid]
		f := w.GetFaction(fid)
		if f == nil {
			continue
		}

		if fd.Power != nil {
			f.Power = *fd.Power
		}
		if fd.Legitimacy != nil {
			f.Legitimacy = *fd.Legitimacy
		}
		if fd.Resources != nil {
			f.Resources = *fd.Resources
		}
		if fd.Knowledge != nil {
			f.Knowledge = *fd.Knowledge
		}
		for _, aid := range fd.AddAlliances.Members() {
			if aid != fid {
				f.Alliances.Add(aid)
			}
		}
		for _, aid := range fd.RemoveAlliances.Members() {
			f.Alliances.Remove(aid)
		}
		if fd.Deactivate {
			f.IsActive = false
		}

		// Owner bookkeeping: add_regions seizes, remove_regions releases
		// only if the region is still held by this faction.
		for _, rid := range fd.AddRegions.Members() {
			if r := w.GetRegion(rid); r != nil {
				r.Owner = fid
			}
		}
		for _, rid := range fd.RemoveRegions.Members() {
			if r := w.GetRegion(rid); r != nil && r.Owner == fid {
				r.Owner = ""
			}
		}
	}
}

func (a *Applier) applyRegionDeltas(d *WorldDelta, w *domain.World) {
	for _, rid := range sortedKeys(d.RegionDeltas) {
		rd := d.RegionDeltas[rid]
		r := w.GetRegion(rid)
		if r == nil {
			continue
		}

		if rd.SocioEconomic != nil {
			r.SocioEconomic = *rd.SocioEconomic
		}
		if rd.Stability != nil {
			r.SocioEconomic.Cohesion = *rd.Stability
		}
		if rd.Population != nil {
			r.Population = *rd.Population
		}
		if rd.Owner != nil {
			r.Owner = *rd.Owner
		}
	}
}

// applyCreations inserts factions first so a created region (or a region
// owner write in the same delta) may reference a faction born this tick.
func (a *Applier) applyCreations(d *WorldDelta, w *domain.World) {
	for _, fid := range sortedKeys(d.CreateFactions) {
		data := d.CreateFactions[fid]
		if w.GetFaction(fid) != nil {
			continue
		}
		f := &domain.Faction{
			ID:         data.ID,
			Name:       data.Name,
			Power:      data.Power,
			Legitimacy: data.Legitimacy,
			Resources:  data.Resources,
			Knowledge:  data.Knowledge,
			Regions:    data.Regions.Clone(),
			Alliances:  data.Alliances.Clone(),
			Traits:     data.Traits.Clone(),
			Color:      data.Color,
			IsActive:   true,
		}
		if f.Regions == nil {
			f.Regions = domain.NewIDSet()
		}
		if f.Alliances == nil {
			f.Alliances = domain.NewIDSet()
		}
		if f.Traits == nil {
			f.Traits = domain.NewIDSet()
		}
		w.Factions[fid] = f

		for _, rid := range f.Regions.Members() {
			if r := w.GetRegion(rid); r != nil {
				r.Owner = fid
			}
		}
	}

	for _, rid := range sortedKeys(d.CreateRegions) {
		data := d.CreateRegions[rid]
		if w.GetRegion(rid) != nil {
			continue
		}
		w.Regions[rid] = &domain.Region{
			ID:            data.ID,
			Name:          data.Name,
			Population:    data.Population,
			Owner:         data.Owner,
			Environment:   data.Environment,
			SocioEconomic: data.SocioEconomic,
		}
	}
}

// applyDeletions removes regions before factions so no faction ever
// points at a region that outlived it.
func (a *Applier) applyDeletions(d *WorldDelta, w *domain.World) {
	for _, rid := range d.DeleteRegions.Members() {
		delete(w.Regions, rid)
	}
	for _, fid := range d.DeleteFactions.Members() {
		delete(w.Factions, fid)
	}
}

// reconcileOwnership rebuilds every faction's region set from
// Region.Owner, the single source of truth for the bidirectional
// ownership relation. Owners pointing at missing factions are cleared.
func (a *Applier) reconcileOwnership(w *domain.World) {
	for _, f := range w.Factions {
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

	// Alliance symmetry and irreflexivity, and no edges to missing
	// factions. Deactivation keeps the faction, so edges to inactive
	// factions stay.
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

// clampAll enforces the numeric invariants. A subsystem that slipped a
// semantically invalid but structurally fine value past validation gets
// clamped here rather than crashing the tick.
func (a *Applier) clampAll(w *domain.World) {
	fcfg := a.cfg.Faction
	for _, f := range w.Factions {
		f.Power = f.Power.Clamp(0, fcfg.MaxBranchPower)
		f.Legitimacy = min(fcfg.MaxLegitimacy, max(fcfg.MinLegitimacy, f.Legitimacy))
		f.Resources.Credits = max(fcfg.MinResources, f.Resources.Credits)
		f.Resources.Materials = max(fcfg.MinResources, f.Resources.Materials)
		f.Resources.Food = max(0, f.Resources.Food)
		f.Resources.Energy = max(0, f.Resources.Energy)
		f.Knowledge = max(0, f.Knowledge)
	}
	for _, r := range w.Regions {
		r.SocioEconomic.Cohesion = min(100, max(0, r.SocioEconomic.Cohesion))
		r.SocioEconomic.Infrastructure = min(100, max(0, r.SocioEconomic.Infrastructure))
		if r.Population < 0 {
			r.Population = 0
		}
	}
}
