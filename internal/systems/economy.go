package systems

import (
	"fmt"
	"math"

	"github.com/talgya/geosim/internal/delta"
	"github.com/talgya/geosim/internal/domain"
)

// EconomySystem computes each faction's per-tick income from its regions,
// subtracts consumption and upkeep, and handles shortages.
//
// Every regional contribution is scaled by development (1 + infra/100)
// and by efficiency (cohesion/100).
type EconomySystem struct{}

func (EconomySystem) Name() string { return "economy" }

func (EconomySystem) ComputeDelta(ctx *Context, w *domain.World, b *delta.Builder) {
	cfg := ctx.Cfg.Economy
	tcfg := ctx.Cfg.Traits
	lcfg := ctx.Cfg.Legitimacy

	for _, fid := range w.ActiveFactionIDs() {
		f := w.Factions[fid]

		incMod := 1.0
		if f.HasTrait(domain.TraitIndustrialist) {
			incMod = tcfg.IndustrialistIncome
		}

		income := domain.Resources{
			Credits:   cfg.BaseCreditsIncome * incMod,
			Materials: cfg.BaseMaterialsIncome * incMod,
			Food:      cfg.BaseFoodIncome,
			Energy:    cfg.BaseEnergyIncome,
			Influence: cfg.BaseInfluenceIncome,
		}

		var totalPop int64
		for _, rid := range f.Regions.Members() {
			r := w.GetRegion(rid)
			if r == nil {
				continue
			}
			totalPop += r.Population

			popFactor := float64(r.Population) / 1000
			dev := 1 + r.SocioEconomic.Infrastructure/100
			eff := r.SocioEconomic.Cohesion / 100

			switch r.Environment {
			case domain.EnvUrban:
				income.Credits += cfg.RegionCreditsFactor * popFactor * 2.0 * dev * eff
				income.Energy -= cfg.UrbanEnergyDrain
			case domain.EnvCoastal:
				income.Credits += cfg.RegionCreditsFactor * popFactor * 1.25 * dev * eff
				income.Materials += cfg.RegionMaterialsFactor * 0.5 * dev * eff
				income.Food += cfg.CoastalFoodYield * popFactor * dev * eff
			case domain.EnvIndustrial:
				income.Materials += cfg.IndustrialMaterialYield * dev * eff
				income.Energy += cfg.IndustrialEnergyYield * dev * eff
				income.Credits += cfg.RegionCreditsFactor * 0.5 * dev * eff
			case domain.EnvRural:
				income.Food += cfg.RuralFoodYield * popFactor * dev * eff
				income.Materials += cfg.RegionMaterialsFactor * 0.5 * dev * eff
			default: // wilderness
				income.Materials += cfg.RegionMaterialsFactor * 0.3 * dev * eff
			}
		}

		foodReq := float64(totalPop) * cfg.FoodPerPopulation
		energyReq := f.Power.Total() * cfg.EnergyPerPower
		income.Food -= foodReq
		income.Energy -= energyReq

		upkeepMod := 1.0
		if f.HasTrait(domain.TraitMilitarist) {
			upkeepMod = tcfg.MilitaristUpkeep
		}
		income.Credits -= f.Power.Total() * cfg.UpkeepPowerFactor * upkeepMod

		newRes := f.Resources.Add(income)

		if newRes.Food < 0 {
			shortfall := math.Abs(newRes.Food) / (foodReq + 1)
			loss := shortfall * lcfg.StarvationLoss * 5
			b.ForFaction(fid).SetLegitimacy(max(0, f.Legitimacy-loss))
			b.AddEvent(fmt.Sprintf("FOOD SHORTAGE: %s is starving, legitimacy dropping.", f.Name))
			newRes.Food = 0
		}
		if newRes.Energy < 0 {
			b.AddEvent(fmt.Sprintf("ENERGY CRISIS: %s cannot meet its energy needs.", f.Name))
			newRes.Energy = 0
		}

		corruptionMod := 1.0
		if f.HasTrait(domain.TraitTechnocrat) {
			corruptionMod = tcfg.TechnocratCorruption
		}
		corruption := 1 - cfg.CorruptionFactor*corruptionMod
		newRes.Credits *= corruption
		newRes.Materials *= corruption
		newRes.Food *= 1 - cfg.PerishableDecay
		newRes.Energy *= 1 - cfg.PerishableDecay

		newRes = newRes.Clamp(ctx.Cfg.Faction.MinResources, ctx.Cfg.Faction.MaxResources)

		if newRes != f.Resources {
			b.ForFaction(fid).SetResources(newRes)
		}
	}
}
