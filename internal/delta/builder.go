package delta

import "github.com/talgya/geosim/internal/domain"

// Builder accumulates subsystem proposals into one WorldDelta. Within a
// tick the last write to a field wins; set operations union.
type Builder struct {
	d *WorldDelta
}

// NewBuilder returns an empty accumulator for one tick.
func NewBuilder() *Builder {
	return &Builder{d: NewWorldDelta()}
}

// ForFaction returns the typed sub-builder for one faction, creating its
// delta entry on first use.
func (b *Builder) ForFaction(id string) *FactionBuilder {
	fd, ok := b.d.FactionDeltas[id]
	if !ok {
		fd = &FactionDelta{}
		b.d.FactionDeltas[id] = fd
	}
	return &FactionBuilder{parent: b, d: fd}
}

// ForRegion returns the typed sub-builder for one region, creating its
// delta entry on first use.
func (b *Builder) ForRegion(id string) *RegionBuilder {
	rd, ok := b.d.RegionDeltas[id]
	if !ok {
		rd = &RegionDelta{}
		b.d.RegionDeltas[id] = rd
	}
	return &RegionBuilder{parent: b, d: rd}
}

// AddEvent appends a narrative message to the tick's event list.
func (b *Builder) AddEvent(msg string) *Builder {
	b.d.Events = append(b.d.Events, msg)
	return b
}

// CreateFaction records a faction creation.
func (b *Builder) CreateFaction(data FactionCreation) *Builder {
	b.d.CreateFactions[data.ID] = &data
	return b
}

// CreateRegion records a region creation.
func (b *Builder) CreateRegion(data RegionCreation) *Builder {
	b.d.CreateRegions[data.ID] = &data
	return b
}

// DeleteFaction marks a faction for removal at the end of the tick.
func (b *Builder) DeleteFaction(id string) *Builder {
	b.d.DeleteFactions.Add(id)
	return b
}

// DeleteRegion marks a region for removal at the end of the tick.
func (b *Builder) DeleteRegion(id string) *Builder {
	b.d.DeleteRegions.Add(id)
	return b
}

// HasPendingOwnerChange reports whether some earlier subsystem already
// re-owned the region this tick, via a region owner write, a creation
// claiming it, or a faction add_regions entry.
func (b *Builder) HasPendingOwnerChange(regionID string) bool {
	if rd, ok := b.d.RegionDeltas[regionID]; ok && rd.Owner != nil {
		return true
	}
	for _, fc := range b.d.CreateFactions {
		if fc.Regions.Has(regionID) {
			return true
		}
	}
	for _, fd := range b.d.FactionDeltas {
		if fd.AddRegions.Has(regionID) {
			return true
		}
	}
	return false
}

// Build returns the accumulated delta.
func (b *Builder) Build() *WorldDelta {
	return b.d
}

// FactionBuilder sets fields on one faction's delta.
type FactionBuilder struct {
	parent *Builder
	d      *FactionDelta
}

func (fb *FactionBuilder) SetPower(p domain.Power) *FactionBuilder {
	fb.d.Power = &p
	return fb
}

func (fb *FactionBuilder) SetLegitimacy(v float64) *FactionBuilder {
	fb.d.Legitimacy = &v
	return fb
}

func (fb *FactionBuilder) SetResources(r domain.Resources) *FactionBuilder {
	fb.d.Resources = &r
	return fb
}

func (fb *FactionBuilder) SetKnowledge(v float64) *FactionBuilder {
	fb.d.Knowledge = &v
	return fb
}

func (fb *FactionBuilder) AddRegion(regionID string) *FactionBuilder {
	if fb.d.AddRegions == nil {
		fb.d.AddRegions = domain.NewIDSet()
	}
	fb.d.AddRegions.Add(regionID)
	return fb
}

func (fb *FactionBuilder) RemoveRegion(regionID string) *FactionBuilder {
	if fb.d.RemoveRegions == nil {
		fb.d.RemoveRegions = domain.NewIDSet()
	}
	fb.d.RemoveRegions.Add(regionID)
	return fb
}

func (fb *FactionBuilder) AddAlliance(factionID string) *FactionBuilder {
	if fb.d.AddAlliances == nil {
		fb.d.AddAlliances = domain.NewIDSet()
	}
	fb.d.AddAlliances.Add(factionID)
	return fb
}

func (fb *FactionBuilder) RemoveAlliance(factionID string) *FactionBuilder {
	if fb.d.RemoveAlliances == nil {
		fb.d.RemoveAlliances = domain.NewIDSet()
	}
	fb.d.RemoveAlliances.Add(factionID)
	return fb
}

func (fb *FactionBuilder) Deactivate() *FactionBuilder {
	fb.d.Deactivate = true
	return fb
}

func (fb *FactionBuilder) Done() *Builder {
	return fb.parent
}

// RegionBuilder sets fields on one region's delta.
type RegionBuilder struct {
	parent *Builder
	d      *RegionDelta
}

func (rb *RegionBuilder) SetSocioEconomic(se domain.SocioEconomic) *RegionBuilder {
	rb.d.SocioEconomic = &se
	return rb
}

// SetStability writes the cohesion shortcut.
func (rb *RegionBuilder) SetStability(v float64) *RegionBuilder {
	rb.d.Stability = &v
	return rb
}

func (rb *RegionBuilder) SetPopulation(v int64) *RegionBuilder {
	rb.d.Population = &v
	return rb
}

// SetOwner assigns the region to a faction; the empty string clears
// ownership.
func (rb *RegionBuilder) SetOwner(factionID string) *RegionBuilder {
	rb.d.Owner = &factionID
	return rb
}

func (rb *RegionBuilder) Done() *Builder {
	return rb.parent
}
