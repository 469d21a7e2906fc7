// Package config holds every tunable rule constant in one frozen block.
// Subsystems read their rates, thresholds and trait modifiers from it; a
// few fixed shape factors (per-environment income multipliers, branch
// splits of power losses) stay in the subsystem code. Each trait modifier
// is applied at one subsystem site; not every modifier has its own test.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the full rule parameter set for one session. It is stored in
// the session row so a saved run replays with the numbers it ran with.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation" json:"simulation"`
	Faction    FactionConfig    `yaml:"faction" json:"faction"`
	Power      PowerConfig      `yaml:"power" json:"power"`
	Economy    EconomyConfig    `yaml:"economy" json:"economy"`
	Legitimacy LegitimacyConfig `yaml:"legitimacy" json:"legitimacy"`
	Alliance   AllianceConfig   `yaml:"alliance" json:"alliance"`
	War        WarConfig        `yaml:"war" json:"war"`
	Research   ResearchConfig   `yaml:"research" json:"research"`
	Investment InvestmentConfig `yaml:"investment" json:"investment"`
	Region     RegionConfig     `yaml:"region" json:"region"`
	Conflict   ConflictConfig   `yaml:"conflict" json:"conflict"`
	Collapse   CollapseConfig   `yaml:"collapse" json:"collapse"`
	Traits     TraitConfig      `yaml:"traits" json:"traits"`
}

type SimulationConfig struct {
	SnapshotInterval int64 `yaml:"snapshot_interval" json:"snapshot_interval"`
}

type FactionConfig struct {
	MaxAlliances   int     `yaml:"max_alliances" json:"max_alliances"`
	MinLegitimacy  float64 `yaml:"min_legitimacy" json:"min_legitimacy"`
	MaxLegitimacy  float64 `yaml:"max_legitimacy" json:"max_legitimacy"`
	MinResources   float64 `yaml:"min_resources" json:"min_resources"` // debt floor for credits/materials
	MaxResources   float64 `yaml:"max_resources" json:"max_resources"`
	MaxBranchPower float64 `yaml:"max_branch_power" json:"max_branch_power"`
}

type PowerConfig struct {
	ArmyGrowth        float64 `yaml:"army_growth" json:"army_growth"`
	NavyGrowth        float64 `yaml:"navy_growth" json:"navy_growth"`
	AirGrowth         float64 `yaml:"air_growth" json:"air_growth"`
	ArmyDecay         float64 `yaml:"army_decay" json:"army_decay"`
	NavyDecay         float64 `yaml:"navy_decay" json:"navy_decay"`
	AirDecay          float64 `yaml:"air_decay" json:"air_decay"`
	RegionPowerFactor float64 `yaml:"region_power_factor" json:"region_power_factor"`
	RegionArmyShare   float64 `yaml:"region_army_share" json:"region_army_share"`
	RegionNavyShare   float64 `yaml:"region_navy_share" json:"region_navy_share"`
	RegionAirShare    float64 `yaml:"region_air_share" json:"region_air_share"`
	CoastalNavyBonus  float64 `yaml:"coastal_navy_bonus" json:"coastal_navy_bonus"`
}

type EconomyConfig struct {
	BaseCreditsIncome   float64 `yaml:"base_credits_income" json:"base_credits_income"`
	BaseMaterialsIncome float64 `yaml:"base_materials_income" json:"base_materials_income"`
	BaseFoodIncome      float64 `yaml:"base_food_income" json:"base_food_income"`
	BaseEnergyIncome    float64 `yaml:"base_energy_income" json:"base_energy_income"`
	BaseInfluenceIncome float64 `yaml:"base_influence_income" json:"base_influence_income"`

	RegionCreditsFactor     float64 `yaml:"region_credits_factor" json:"region_credits_factor"`
	RegionMaterialsFactor   float64 `yaml:"region_materials_factor" json:"region_materials_factor"`
	RuralFoodYield          float64 `yaml:"rural_food_yield" json:"rural_food_yield"`
	CoastalFoodYield        float64 `yaml:"coastal_food_yield" json:"coastal_food_yield"`
	IndustrialMaterialYield float64 `yaml:"industrial_material_yield" json:"industrial_material_yield"`
	IndustrialEnergyYield   float64 `yaml:"industrial_energy_yield" json:"industrial_energy_yield"`
	UrbanEnergyDrain        float64 `yaml:"urban_energy_drain" json:"urban_energy_drain"`

	FoodPerPopulation float64 `yaml:"food_per_population" json:"food_per_population"`
	EnergyPerPower    float64 `yaml:"energy_per_power" json:"energy_per_power"`
	UpkeepPowerFactor float64 `yaml:"upkeep_power_factor" json:"upkeep_power_factor"`
	CorruptionFactor  float64 `yaml:"corruption_factor" json:"corruption_factor"`
	PerishableDecay   float64 `yaml:"perishable_decay" json:"perishable_decay"`

	StarvationThreshold float64 `yaml:"starvation_threshold" json:"starvation_threshold"`
}

type LegitimacyConfig struct {
	BaseDecay              float64 `yaml:"base_decay" json:"base_decay"`
	StabilityFactor        float64 `yaml:"stability_factor" json:"stability_factor"`
	InequalityPenalty      float64 `yaml:"inequality_penalty" json:"inequality_penalty"`
	StarvationLoss         float64 `yaml:"starvation_loss" json:"starvation_loss"`
	AllianceBonus          float64 `yaml:"alliance_bonus" json:"alliance_bonus"`
	ExpansionPenaltyFactor float64 `yaml:"expansion_penalty_factor" json:"expansion_penalty_factor"`
	StagnationPenalty      float64 `yaml:"stagnation_penalty" json:"stagnation_penalty"`
	MilitaryVictoryBonus   float64 `yaml:"military_victory_bonus" json:"military_victory_bonus"`
	RevolutionThreshold    float64 `yaml:"revolution_threshold" json:"revolution_threshold"`
	RevolutionChance       float64 `yaml:"revolution_chance" json:"revolution_chance"`
}

type AllianceConfig struct {
	FormationChance        float64 `yaml:"formation_chance" json:"formation_chance"`
	BreakChance            float64 `yaml:"break_chance" json:"break_chance"`
	TradeThreshold         float64 `yaml:"trade_threshold" json:"trade_threshold"`
	TradeShortageThreshold float64 `yaml:"trade_shortage_threshold" json:"trade_shortage_threshold"`
	TradeAmount            float64 `yaml:"trade_amount" json:"trade_amount"`
	TradeCreditBonus       float64 `yaml:"trade_credit_bonus" json:"trade_credit_bonus"`
	TradeLegitimacyBonus   float64 `yaml:"trade_legitimacy_bonus" json:"trade_legitimacy_bonus"`
}

type WarConfig struct {
	DeclarationChance       float64 `yaml:"declaration_chance" json:"declaration_chance"`
	ColonizationChance      float64 `yaml:"colonization_chance" json:"colonization_chance"`
	VictoryPowerRatio       float64 `yaml:"victory_power_ratio" json:"victory_power_ratio"`
	VictoryChanceFactor     float64 `yaml:"victory_chance_factor" json:"victory_chance_factor"`
	VictoryCap              float64 `yaml:"victory_cap" json:"victory_cap"`
	ConquestStability       float64 `yaml:"conquest_stability" json:"conquest_stability"`
	ConquestMaterialsCost   float64 `yaml:"conquest_materials_cost" json:"conquest_materials_cost"`
	ConquestPowerRemaining  float64 `yaml:"conquest_power_remaining" json:"conquest_power_remaining"`
	FailedAttackerRemaining float64 `yaml:"failed_attacker_remaining" json:"failed_attacker_remaining"`
	FailedDefenderRemaining float64 `yaml:"failed_defender_remaining" json:"failed_defender_remaining"`
	ColonizationStability   float64 `yaml:"colonization_stability" json:"colonization_stability"`
	ColonizationArmyCost    float64 `yaml:"colonization_army_cost" json:"colonization_army_cost"`
}

type ResearchConfig struct {
	InfluenceThreshold float64 `yaml:"influence_threshold" json:"influence_threshold"`
	InfluenceCost      float64 `yaml:"influence_cost" json:"influence_cost"`
	KnowledgeGain      float64 `yaml:"knowledge_gain" json:"knowledge_gain"`
}

type InvestmentConfig struct {
	Chance             float64 `yaml:"chance" json:"chance"`
	StabilityShare     float64 `yaml:"stability_share" json:"stability_share"`
	StabilityCost      float64 `yaml:"stability_cost" json:"stability_cost"`
	StabilityGain      float64 `yaml:"stability_gain" json:"stability_gain"`
	InfrastructureCost float64 `yaml:"infrastructure_cost" json:"infrastructure_cost"`
	InfrastructureGain float64 `yaml:"infrastructure_gain" json:"infrastructure_gain"`
}

type RegionConfig struct {
	InfraGrowth          float64 `yaml:"infra_growth" json:"infra_growth"`
	InfraGrowthUrbanMod  float64 `yaml:"infra_growth_urban_mod" json:"infra_growth_urban_mod"`
	InfraGrowthWildMod   float64 `yaml:"infra_growth_wild_mod" json:"infra_growth_wild_mod"`
	CohesionRecoveryBase float64 `yaml:"cohesion_recovery_base" json:"cohesion_recovery_base"`
	MaxPopulation        int64   `yaml:"max_population" json:"max_population"`

	GrowthUrban      float64 `yaml:"growth_urban" json:"growth_urban"`
	GrowthRural      float64 `yaml:"growth_rural" json:"growth_rural"`
	GrowthIndustrial float64 `yaml:"growth_industrial" json:"growth_industrial"`
	GrowthCoastal    float64 `yaml:"growth_coastal" json:"growth_coastal"`
	GrowthWilderness float64 `yaml:"growth_wilderness" json:"growth_wilderness"`
}

type ConflictConfig struct {
	InsurrectionChance     float64 `yaml:"insurrection_chance" json:"insurrection_chance"`
	InsurrectionArmy       float64 `yaml:"insurrection_army" json:"insurrection_army"`
	InsurrectionLegitimacy float64 `yaml:"insurrection_legitimacy" json:"insurrection_legitimacy"`
	InsurrectionCredits    float64 `yaml:"insurrection_credits" json:"insurrection_credits"`
	InsurrectionCohesion   float64 `yaml:"insurrection_cohesion" json:"insurrection_cohesion"`

	RevoltThreshold    float64 `yaml:"revolt_threshold" json:"revolt_threshold"`
	RevoltChance       float64 `yaml:"revolt_chance" json:"revolt_chance"`
	RevoltCohesionLoss float64 `yaml:"revolt_cohesion_loss" json:"revolt_cohesion_loss"`
	RevoltPowerLoss    float64 `yaml:"revolt_power_loss" json:"revolt_power_loss"`

	RevolutionPowerRemaining float64 `yaml:"revolution_power_remaining" json:"revolution_power_remaining"`
	RevolutionCohesionLoss   float64 `yaml:"revolution_cohesion_loss" json:"revolution_cohesion_loss"`

	CivilWarChance           float64 `yaml:"civil_war_chance" json:"civil_war_chance"`
	CivilWarLegitimacyFactor float64 `yaml:"civil_war_legitimacy_factor" json:"civil_war_legitimacy_factor"`
	CivilWarRebelPowerRatio  float64 `yaml:"civil_war_rebel_power_ratio" json:"civil_war_rebel_power_ratio"`
	CivilWarParentPowerRatio float64 `yaml:"civil_war_parent_power_ratio" json:"civil_war_parent_power_ratio"`
	CivilWarRebelResources   float64 `yaml:"civil_war_rebel_resources" json:"civil_war_rebel_resources"`
	CivilWarRebelLegitimacy  float64 `yaml:"civil_war_rebel_legitimacy" json:"civil_war_rebel_legitimacy"`

	CoupChance         float64 `yaml:"coup_chance" json:"coup_chance"`
	CoupArmyGain       float64 `yaml:"coup_army_gain" json:"coup_army_gain"`
	CoupNavyGain       float64 `yaml:"coup_navy_gain" json:"coup_navy_gain"`
	CoupAirGain        float64 `yaml:"coup_air_gain" json:"coup_air_gain"`
	CoupLegitimacyLoss float64 `yaml:"coup_legitimacy_loss" json:"coup_legitimacy_loss"`
	CoupCohesionLoss   float64 `yaml:"coup_cohesion_loss" json:"coup_cohesion_loss"`
}

type CollapseConfig struct {
	PowerFloor      float64 `yaml:"power_floor" json:"power_floor"`
	LegitimacyFloor float64 `yaml:"legitimacy_floor" json:"legitimacy_floor"`
}

// TraitConfig maps each trait to the multipliers it applies at its
// declared subsystem sites.
type TraitConfig struct {
	MilitaristPowerGrowth   float64 `yaml:"militarist_power_growth" json:"militarist_power_growth"`
	MilitaristUpkeep        float64 `yaml:"militarist_upkeep" json:"militarist_upkeep"`
	MilitaristVictory       float64 `yaml:"militarist_victory" json:"militarist_victory"`
	PacifistPowerGrowth     float64 `yaml:"pacifist_power_growth" json:"pacifist_power_growth"`
	PacifistWarDeclaration  float64 `yaml:"pacifist_war_declaration" json:"pacifist_war_declaration"`
	PacifistLegitimacy      float64 `yaml:"pacifist_legitimacy" json:"pacifist_legitimacy"`
	IndustrialistIncome     float64 `yaml:"industrialist_income" json:"industrialist_income"`
	TechnocratCorruption    float64 `yaml:"technocrat_corruption" json:"technocrat_corruption"`
	TechnocratResearch      float64 `yaml:"technocrat_research" json:"technocrat_research"`
	PopulistInequality      float64 `yaml:"populist_inequality" json:"populist_inequality"`
	PopulistRevolution      float64 `yaml:"populist_revolution" json:"populist_revolution"`
	DiplomatFormation       float64 `yaml:"diplomat_formation" json:"diplomat_formation"`
	DiplomatAllianceBonus   float64 `yaml:"diplomat_alliance_bonus" json:"diplomat_alliance_bonus"`
	ImperialistConquestCost float64 `yaml:"imperialist_conquest_cost" json:"imperialist_conquest_cost"`
	ImperialistVictoryBonus float64 `yaml:"imperialist_victory_bonus" json:"imperialist_victory_bonus"`
	ImperialistExpansion    float64 `yaml:"imperialist_expansion" json:"imperialist_expansion"`
	AutocratStability       float64 `yaml:"autocrat_stability" json:"autocrat_stability"`
	AutocratCoup            float64 `yaml:"autocrat_coup" json:"autocrat_coup"`
}

// Defaults returns the standard rule set.
func Defaults() *Config {
	return &Config{
		Simulation: SimulationConfig{SnapshotInterval: 10},
		Faction: FactionConfig{
			MaxAlliances:   3,
			MinLegitimacy:  0,
			MaxLegitimacy:  100,
			MinResources:   -500,
			MaxResources:   10000,
			MaxBranchPower: 100,
		},
		Power: PowerConfig{
			ArmyGrowth:        0.02,
			NavyGrowth:        0.015,
			AirGrowth:         0.01,
			ArmyDecay:         0.005,
			NavyDecay:         0.003,
			AirDecay:          0.008,
			RegionPowerFactor: 0.2,
			RegionArmyShare:   0.6,
			RegionNavyShare:   0.3,
			RegionAirShare:    0.1,
			CoastalNavyBonus:  0.5,
		},
		Economy: EconomyConfig{
			BaseCreditsIncome:   10,
			BaseMaterialsIncome: 5,
			BaseFoodIncome:      1,
			BaseEnergyIncome:    0.5,
			BaseInfluenceIncome: 1,

			RegionCreditsFactor:     2.0,
			RegionMaterialsFactor:   2.0,
			RuralFoodYield:          3.0,
			CoastalFoodYield:        1.5,
			IndustrialMaterialYield: 4.0,
			IndustrialEnergyYield:   3.0,
			UrbanEnergyDrain:        1.0,

			FoodPerPopulation: 0.005,
			EnergyPerPower:    0.1,
			UpkeepPowerFactor: 0.2,
			CorruptionFactor:  0.02,
			PerishableDecay:   0.02,

			StarvationThreshold: 0,
		},
		Legitimacy: LegitimacyConfig{
			BaseDecay:              0.01,
			StabilityFactor:        0.3,
			InequalityPenalty:      0.4,
			StarvationLoss:         2.0,
			AllianceBonus:          2.0,
			ExpansionPenaltyFactor: 0.5,
			StagnationPenalty:      1.0,
			MilitaryVictoryBonus:   5.0,
			RevolutionThreshold:    25.0,
			RevolutionChance:       0.15,
		},
		Alliance: AllianceConfig{
			FormationChance:        0.05,
			BreakChance:            0.02,
			TradeThreshold:         50,
			TradeShortageThreshold: 10,
			TradeAmount:            10,
			TradeCreditBonus:       2,
			TradeLegitimacyBonus:   0.5,
		},
		War: WarConfig{
			DeclarationChance:       0.05,
			ColonizationChance:      0.2,
			VictoryPowerRatio:       1.1,
			VictoryChanceFactor:     1.5,
			VictoryCap:              0.9,
			ConquestStability:       30,
			ConquestMaterialsCost:   5,
			ConquestPowerRemaining:  0.95,
			FailedAttackerRemaining: 0.8,
			FailedDefenderRemaining: 0.9,
			ColonizationStability:   80,
			ColonizationArmyCost:    2.5,
		},
		Research: ResearchConfig{
			InfluenceThreshold: 10,
			InfluenceCost:      2,
			KnowledgeGain:      1,
		},
		Investment: InvestmentConfig{
			Chance:             0.1,
			StabilityShare:     0.6,
			StabilityCost:      10,
			StabilityGain:      15,
			InfrastructureCost: 15,
			InfrastructureGain: 5,
		},
		Region: RegionConfig{
			InfraGrowth:          0.1,
			InfraGrowthUrbanMod:  1.5,
			InfraGrowthWildMod:   0.5,
			CohesionRecoveryBase: 0.2,
			MaxPopulation:        10000,

			GrowthUrban:      0.005,
			GrowthRural:      0.003,
			GrowthIndustrial: 0.002,
			GrowthCoastal:    0.004,
			GrowthWilderness: 0.001,
		},
		Conflict: ConflictConfig{
			InsurrectionChance:     0.05,
			InsurrectionArmy:       15,
			InsurrectionLegitimacy: 60,
			InsurrectionCredits:    10,
			InsurrectionCohesion:   40, // revolt threshold + 20

			RevoltThreshold:    20,
			RevoltChance:       0.30,
			RevoltCohesionLoss: 20,
			RevoltPowerLoss:    5,

			RevolutionPowerRemaining: 0.8,
			RevolutionCohesionLoss:   20,

			CivilWarChance:           0.005,
			CivilWarLegitimacyFactor: 0.1,
			CivilWarRebelPowerRatio:  0.4,
			CivilWarParentPowerRatio: 0.6,
			CivilWarRebelResources:   0.5,
			CivilWarRebelLegitimacy:  50,

			CoupChance:         0.01,
			CoupArmyGain:       10,
			CoupNavyGain:       5,
			CoupAirGain:        5,
			CoupLegitimacyLoss: 30,
			CoupCohesionLoss:   15,
		},
		Collapse: CollapseConfig{
			PowerFloor:      5,
			LegitimacyFloor: 10,
		},
		Traits: TraitConfig{
			MilitaristPowerGrowth:   1.2,
			MilitaristUpkeep:        0.9,
			MilitaristVictory:       1.15,
			PacifistPowerGrowth:     0.8,
			PacifistWarDeclaration:  0.5,
			PacifistLegitimacy:      1.1,
			IndustrialistIncome:     1.3,
			TechnocratCorruption:    0.5,
			TechnocratResearch:      1.25,
			PopulistInequality:      0.5,
			PopulistRevolution:      0.5,
			DiplomatFormation:       1.5,
			DiplomatAllianceBonus:   1.5,
			ImperialistConquestCost: 0.7,
			ImperialistVictoryBonus: 2.0,
			ImperialistExpansion:    0.8,
			AutocratStability:       0.5,
			AutocratCoup:            2.0,
		},
	}
}

// Load reads a YAML file over the defaults. Missing keys keep their
// default values.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
