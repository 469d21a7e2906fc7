// Package metrics derives statistical and geopolitical indices from a
// world. All functions are pure and idempotent: calling them twice on
// the same world yields equal reports.
package metrics

import (
	"math"
	"sort"

	"github.com/talgya/geosim/internal/domain"
)

// WorldMetrics are the global indicators of world state.
type WorldMetrics struct {
	TotalPower              float64 `json:"total_power"`
	HegemonyHHI             float64 `json:"hegemony_hhi"`
	PowerGini               float64 `json:"power_gini"`
	GlobalTension           float64 `json:"global_tension"`
	AvgLegitimacy           float64 `json:"avg_legitimacy"`
	AvgInfrastructure       float64 `json:"avg_infrastructure"`
	AvgKnowledge            float64 `json:"avg_knowledge"`
	AllianceDensity         float64 `json:"alliance_density"`
	FoodSecurityIndex       float64 `json:"food_security_index"`
	EnergySecurityIndex     float64 `json:"energy_security_index"`
	DiplomaticFragmentation float64 `json:"diplomatic_fragmentation"`
}

// FactionMetrics are the per-faction indicators.
type FactionMetrics struct {
	CompositePowerIndex  float64 `json:"composite_power_index"`
	StrategicDepth       float64 `json:"strategic_depth_index"`
	EconomicIntensity    float64 `json:"economic_intensity"`
	SupportGap           float64 `json:"support_gap"`
	TotalPopulation      int64   `json:"total_population"`
	UrbanizationRate     float64 `json:"urbanization_rate"`
	MilitaryBalanceRatio float64 `json:"military_balance_ratio"`
	FoodSecurityPct      float64 `json:"food_security_pct"`
	EnergySecurityPct    float64 `json:"energy_security_pct"`
	DiplomaticInfluence  float64 `json:"diplomatic_influence"`
	ThreatLevel          float64 `json:"threat_level"`
	TechAdvantage        float64 `json:"tech_advantage"`
}

// Report bundles world and per-faction metrics for one world state.
type Report struct {
	World    WorldMetrics              `json:"world"`
	Factions map[string]FactionMetrics `json:"factions"`
}

// Calculate produces the full report for the active factions of a world.
func Calculate(w *domain.World) Report {
	report := Report{
		World:    calculateWorld(w),
		Factions: make(map[string]FactionMetrics),
	}
	for _, fid := range w.ActiveFactionIDs() {
		report.Factions[fid] = calculateFaction(w, w.Factions[fid])
	}
	return report
}

func calculateWorld(w *domain.World) WorldMetrics {
	ids := w.ActiveFactionIDs()
	if len(ids) == 0 {
		return WorldMetrics{}
	}
	n := float64(len(ids))

	var totalPower, totalLegitimacy, totalKnowledge float64
	var totalFood, totalEnergy float64
	var allianceEdges float64
	isolated := 0
	powers := make([]float64, 0, len(ids))
	for _, fid := range ids {
		f := w.Factions[fid]
		totalPower += f.Power.Total()
		totalLegitimacy += f.Legitimacy
		totalKnowledge += f.Knowledge
		totalFood += f.Resources.Food
		totalEnergy += f.Resources.Energy
		allianceEdges += float64(len(f.Alliances))
		if len(f.Alliances) == 0 {
			isolated++
		}
		powers = append(powers, f.Power.Total())
	}
	allianceEdges /= 2

	var hhi float64
	for _, p := range powers {
		share := p / (totalPower + 0.1)
		hhi += share * share
	}

	avgLegitimacy := totalLegitimacy / n

	var totalPop int64
	var totalInfra float64
	regionCount := 0
	for _, rid := range w.RegionIDs() {
		r := w.Regions[rid]
		totalInfra += r.SocioEconomic.Infrastructure
		regionCount++
		if r.Owner != "" {
			if f := w.GetFaction(r.Owner); f != nil && f.IsActive {
				totalPop += r.Population
			}
		}
	}
	avgInfra := 0.0
	if regionCount > 0 {
		avgInfra = totalInfra / float64(regionCount)
	}

	return WorldMetrics{
		TotalPower:              totalPower,
		HegemonyHHI:             hhi,
		PowerGini:               Gini(powers),
		GlobalTension:           (100 - avgLegitimacy) * hhi * 10,
		AvgLegitimacy:           avgLegitimacy,
		AvgInfrastructure:       avgInfra,
		AvgKnowledge:            totalKnowledge / n,
		AllianceDensity:         allianceEdges / (n + 0.1),
		FoodSecurityIndex:       totalFood / (float64(totalPop)*0.01 + 1) * 10,
		EnergySecurityIndex:     totalEnergy / (totalPower*0.1 + 1) * 10,
		DiplomaticFragmentation: float64(isolated) / n,
	}
}

func calculateFaction(w *domain.World, f *domain.Faction) FactionMetrics {
	cpi := f.Power.Total() * (1 + f.Knowledge/100)

	var totalPop, urbanPop int64
	var regionPops []float64
	var totalCohesion float64
	for _, rid := range f.Regions.Members() {
		r := w.GetRegion(rid)
		if r == nil {
			continue
		}
		totalPop += r.Population
		regionPops = append(regionPops, float64(r.Population))
		totalCohesion += r.SocioEconomic.Cohesion
		if r.Environment == domain.EnvUrban {
			urbanPop += r.Population
		}
	}

	// Entropy of the population distribution across owned regions.
	var depth float64
	if len(regionPops) > 1 && totalPop > 0 {
		for _, p := range regionPops {
			if p <= 0 {
				continue
			}
			share := p / float64(totalPop)
			depth -= share * math.Log(share)
		}
	}

	avgCohesion := totalCohesion / (float64(len(f.Regions)) + 0.1)

	var otherPower float64
	otherCount := 0
	var threat float64
	var totalKnowledge float64
	activeCount := 0
	for _, oid := range w.ActiveFactionIDs() {
		o := w.Factions[oid]
		totalKnowledge += o.Knowledge
		activeCount++
		if oid == f.ID {
			continue
		}
		otherPower += o.Power.Total()
		otherCount++
		if !f.Alliances.Has(oid) && o.Power.Total() > f.Power.Total() {
			threat += (o.Power.Total() - f.Power.Total()) / 10
		}
	}
	avgOtherPower := otherPower / (float64(otherCount) + 0.1)

	var allyPower float64
	for _, aid := range f.Alliances.Members() {
		if a := w.GetFaction(aid); a != nil && a.IsActive {
			allyPower += a.Power.Total()
		}
	}

	avgKnowledge := 0.0
	if activeCount > 0 {
		avgKnowledge = totalKnowledge / float64(activeCount)
	}

	foodReq := float64(totalPop) * 0.01
	energyReq := f.Power.Total() * 0.1

	return FactionMetrics{
		CompositePowerIndex:  cpi,
		StrategicDepth:       depth,
		EconomicIntensity:    f.Resources.Total() / (float64(totalPop) + 1),
		SupportGap:           f.Legitimacy - avgCohesion,
		TotalPopulation:      totalPop,
		UrbanizationRate:     float64(urbanPop) / (float64(totalPop) + 0.1) * 100,
		MilitaryBalanceRatio: f.Power.Total() / (avgOtherPower + 0.1),
		FoodSecurityPct:      f.Resources.Food / (foodReq + 1) * 100,
		EnergySecurityPct:    f.Resources.Energy / (energyReq + 1) * 100,
		DiplomaticInfluence:  float64(len(f.Alliances))*10 + allyPower/10,
		ThreatLevel:          threat,
		TechAdvantage:        f.Knowledge - avgKnowledge,
	}
}

// Gini computes the classical Gini coefficient of the given values.
// Returns 0 for fewer than two values or a zero sum.
func Gini(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	var total, weighted float64
	for i, v := range sorted {
		total += v
		weighted += float64(i+1) * v
	}
	if total == 0 {
		return 0
	}
	return 2*weighted/(float64(n)*total) - float64(n+1)/float64(n)
}
