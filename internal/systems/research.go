package systems

import (
	"github.com/talgya/geosim/internal/delta"
	"github.com/talgya/geosim/internal/domain"
)

// ResearchSystem converts influence into knowledge for factions with
// enough influence banked.
type ResearchSystem struct{}

func (ResearchSystem) Name() string { return "research" }

func (ResearchSystem) ComputeDelta(ctx *Context, w *domain.World, b *delta.Builder) {
	cfg := ctx.Cfg.Research
	tcfg := ctx.Cfg.Traits

	for _, fid := range w.ActiveFactionIDs() {
		f := w.Factions[fid]
		if f.Resources.Influence <= cfg.InfluenceThreshold {
			continue
		}

		gain := cfg.KnowledgeGain
		if f.HasTrait(domain.TraitTechnocrat) {
			gain *= tcfg.TechnocratResearch
		}

		newRes := f.Resources
		newRes.Influence -= cfg.InfluenceCost

		b.ForFaction(fid).
			SetResources(newRes).
			SetKnowledge(f.Knowledge + gain)
	}
}
