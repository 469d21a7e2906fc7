package systems

import (
	"fmt"

	"github.com/talgya/geosim/internal/delta"
	"github.com/talgya/geosim/internal/domain"
	"github.com/talgya/geosim/internal/rng"
)

// ConflictSystem handles the irreversible transitions. It runs last in
// the pipeline, so its writes win over earlier subsystems' writes to the
// same fields. Like every subsystem it reads the pre-tick world: collapse
// checks use pre-tick power and legitimacy, and earlier subsystems' work
// is visible only through the builder's pending owner changes.
//
// Order within the system: insurrections in unowned regions, secessions
// of low-cohesion regions, then per faction collapse, revolution, civil
// war, and coup.
type ConflictSystem struct{}

func (ConflictSystem) Name() string { return "conflict" }

func (ConflictSystem) ComputeDelta(ctx *Context, w *domain.World, b *delta.Builder) {
	cfg := ctx.Cfg.Conflict
	tcfg := ctx.Cfg.Traits

	for _, rid := range w.RegionIDs() {
		r := w.Regions[rid]

		if r.Owner == "" {
			// A region some other subsystem already claimed this tick is
			// no longer open to insurrection.
			if b.HasPendingOwnerChange(rid) {
				continue
			}
			if ctx.Rand.Float64() < cfg.InsurrectionChance {
				newID := freshFactionID(ctx, w, "nascent")
				newName := fmt.Sprintf("Commonalty of %s", r.Name)
				traits := domain.NewIDSet(rng.Sample(ctx.Rand, domain.AllTraits, 1+ctx.Rand.Intn(2))...)

				b.ForRegion(rid).SetOwner(newID).SetStability(cfg.InsurrectionCohesion)
				b.CreateFaction(delta.FactionCreation{
					ID:         newID,
					Name:       newName,
					Power:      domain.Power{Army: cfg.InsurrectionArmy},
					Legitimacy: cfg.InsurrectionLegitimacy,
					Resources:  domain.Resources{Credits: cfg.InsurrectionCredits},
					Regions:    domain.NewIDSet(rid),
					Alliances:  domain.NewIDSet(),
					Traits:     traits,
					Color:      "#00FF00",
				})
				b.AddEvent(fmt.Sprintf("INSURRECTION: %s (%s) established independence in %s!", newName, newID, r.Name))
			}
			continue
		}

		if r.SocioEconomic.Cohesion < cfg.RevoltThreshold {
			if ctx.Rand.Float64() < cfg.RevoltChance {
				b.ForRegion(rid).
					SetOwner("").
					SetStability(max(0, r.SocioEconomic.Cohesion-cfg.RevoltCohesionLoss))
				b.AddEvent(fmt.Sprintf("REVOLT: Region %s (%s) declared independence from %s.", r.Name, rid, r.Owner))

				fb := b.ForFaction(r.Owner)
				fb.RemoveRegion(rid)
				if owner := w.GetFaction(r.Owner); owner != nil {
					loss := domain.Power{
						Army: cfg.RevoltPowerLoss * 0.6,
						Navy: cfg.RevoltPowerLoss * 0.3,
						Air:  cfg.RevoltPowerLoss * 0.1,
					}
					fb.SetPower(owner.Power.Sub(loss))
				}
			}
		}
	}

	for _, fid := range w.ActiveFactionIDs() {
		f := w.Factions[fid]

		ccfg := ctx.Cfg.Collapse
		if f.Power.Total() < ccfg.PowerFloor || f.Legitimacy < ccfg.LegitimacyFloor {
			b.ForFaction(fid).Deactivate()
			b.AddEvent(fmt.Sprintf("COLLAPSE: Faction %s (%s) has collapsed!", f.Name, fid))
			for _, rid := range f.Regions.Members() {
				b.ForRegion(rid).SetOwner("")
			}
			continue
		}

		lcfg := ctx.Cfg.Legitimacy
		threshold := lcfg.RevolutionThreshold
		if f.HasTrait(domain.TraitPopulist) {
			threshold *= tcfg.PopulistRevolution
		}
		if f.Legitimacy < threshold && ctx.Rand.Float64() < lcfg.RevolutionChance {
			b.AddEvent(fmt.Sprintf("REVOLUTION: Revolution erupted in %s (%s)!", f.Name, fid))
			b.ForFaction(fid).SetPower(f.Power.Scale(cfg.RevolutionPowerRemaining))
			for _, rid := range f.Regions.Members() {
				if r := w.GetRegion(rid); r != nil {
					b.ForRegion(rid).SetStability(max(0, r.SocioEconomic.Cohesion-cfg.RevolutionCohesionLoss))
				}
			}
		}

		cwRisk := cfg.CivilWarChance + (1-f.Legitimacy/100)*cfg.CivilWarLegitimacyFactor
		if ctx.Rand.Float64() < cwRisk && len(f.Regions) >= 2 {
			b.AddEvent(fmt.Sprintf("CIVIL WAR: Civil war broke out in %s (%s)!", f.Name, fid))

			regions := f.Regions.Members()
			ctx.Rand.Shuffle(len(regions), func(i, j int) {
				regions[i], regions[j] = regions[j], regions[i]
			})
			rebelRegions := regions[:len(regions)/2]

			rebelID := freshFactionID(ctx, w, "rebels")
			rebelName := fmt.Sprintf("Rebels of %s", f.Name)
			traits := domain.NewIDSet(rng.Sample(ctx.Rand, domain.AllTraits, 1+ctx.Rand.Intn(2))...)

			b.ForFaction(fid).SetPower(f.Power.Scale(cfg.CivilWarParentPowerRatio))
			for _, rid := range rebelRegions {
				b.ForFaction(fid).RemoveRegion(rid)
				b.ForRegion(rid).SetOwner(rebelID)
			}

			b.CreateFaction(delta.FactionCreation{
				ID:         rebelID,
				Name:       rebelName,
				Power:      f.Power.Scale(cfg.CivilWarRebelPowerRatio),
				Legitimacy: cfg.CivilWarRebelLegitimacy,
				Resources:  f.Resources.Scale(cfg.CivilWarRebelResources),
				Regions:    domain.NewIDSet(rebelRegions...),
				Alliances:  domain.NewIDSet(),
				Traits:     traits,
				Color:      "#FF0000",
			})
			b.AddEvent(fmt.Sprintf("NEW FACTION: %s (%s) formed from civil war.", rebelName, rebelID))
		}

		coupChance := cfg.CoupChance
		if f.HasTrait(domain.TraitAutocrat) {
			coupChance *= tcfg.AutocratCoup
		}
		if ctx.Rand.Float64() < coupChance {
			b.AddEvent(fmt.Sprintf("COUP: Military coup in %s (%s)!", f.Name, fid))
			b.ForFaction(fid).
				SetPower(f.Power.Add(domain.Power{Army: cfg.CoupArmyGain, Navy: cfg.CoupNavyGain, Air: cfg.CoupAirGain})).
				SetLegitimacy(max(0, f.Legitimacy-cfg.CoupLegitimacyLoss))
			for _, rid := range f.Regions.Members() {
				if r := w.GetRegion(rid); r != nil {
					b.ForRegion(rid).SetStability(max(0, r.SocioEconomic.Cohesion-cfg.CoupCohesionLoss))
				}
			}
		}
	}
}

// freshFactionID derives a new id from the tick's random stream, keeping
// faction births reproducible under the session seed.
func freshFactionID(ctx *Context, w *domain.World, prefix string) string {
	for {
		id := fmt.Sprintf("%s_%08x", prefix, ctx.Rand.Uint32())
		if w.GetFaction(id) == nil {
			return id
		}
	}
}
