package scenario

import "github.com/talgya/geosim/internal/domain"

// Demo returns the standard three-faction starting world: a militarist
// hegemony, a diplomatic republic, a technocratic syndicate, and two
// neutral regions open to expansion.
func Demo() *domain.World {
	w := domain.NewWorld()

	w.Factions["f_hegemony"] = &domain.Faction{
		ID:         "f_hegemony",
		Name:       "Solar Hegemony",
		Power:      domain.Power{Army: 60, Navy: 30, Air: 20},
		Legitimacy: 45,
		Resources:  domain.Resources{Credits: 40, Materials: 150},
		Regions:    domain.NewIDSet("r_capital", "r_foundries"),
		Alliances:  domain.NewIDSet(),
		Traits:     domain.NewIDSet(domain.TraitMilitarist, domain.TraitIndustrialist),
		Color:      "#E74C3C",
		IsActive:   true,
	}
	w.Factions["f_republic"] = &domain.Faction{
		ID:         "f_republic",
		Name:       "United Republic",
		Power:      domain.Power{Army: 25, Navy: 35, Air: 30},
		Legitimacy: 85,
		Resources:  domain.Resources{Credits: 200, Materials: 40},
		Regions:    domain.NewIDSet("r_liberty", "r_breadbasket"),
		Alliances:  domain.NewIDSet(),
		Traits:     domain.NewIDSet(domain.TraitDiplomat, domain.TraitPacifist),
		Color:      "#3498DB",
		IsActive:   true,
	}
	w.Factions["f_syndicate"] = &domain.Faction{
		ID:         "f_syndicate",
		Name:       "Iron Syndicate",
		Power:      domain.Power{Army: 30, Navy: 15, Air: 45},
		Legitimacy: 60,
		Resources:  domain.Resources{Credits: 80, Materials: 90},
		Regions:    domain.NewIDSet("r_citadel", "r_outreach"),
		Alliances:  domain.NewIDSet(),
		Traits:     domain.NewIDSet(domain.TraitTechnocrat, domain.TraitMilitarist),
		Color:      "#F1C40F",
		IsActive:   true,
	}

	regions := []*domain.Region{
		{ID: "r_capital", Name: "Hegemon City", Population: 8000, Owner: "f_hegemony",
			Environment: domain.EnvUrban, SocioEconomic: domain.SocioEconomic{Infrastructure: 85, Cohesion: 90}},
		{ID: "r_foundries", Name: "Iron Foundries", Population: 1500, Owner: "f_hegemony",
			Environment: domain.EnvIndustrial, SocioEconomic: domain.SocioEconomic{Infrastructure: 60, Cohesion: 40}},
		{ID: "r_liberty", Name: "Liberty Port", Population: 3000, Owner: "f_republic",
			Environment: domain.EnvCoastal, SocioEconomic: domain.SocioEconomic{Infrastructure: 70, Cohesion: 95}},
		{ID: "r_breadbasket", Name: "Verdant Valleys", Population: 2000, Owner: "f_republic",
			Environment: domain.EnvRural, SocioEconomic: domain.SocioEconomic{Infrastructure: 40, Cohesion: 100}},
		{ID: "r_citadel", Name: "Syndicate Citadel", Population: 1200, Owner: "f_syndicate",
			Environment: domain.EnvIndustrial, SocioEconomic: domain.SocioEconomic{Infrastructure: 90, Cohesion: 70}},
		{ID: "r_outreach", Name: "Sky Station", Population: 600, Owner: "f_syndicate",
			Environment: domain.EnvUrban, SocioEconomic: domain.SocioEconomic{Infrastructure: 75, Cohesion: 80}},
		{ID: "r_deadzone", Name: "The Badlands", Population: 150,
			Environment: domain.EnvWilderness, SocioEconomic: domain.SocioEconomic{Infrastructure: 10, Cohesion: 30}},
		{ID: "r_coast_pass", Name: "Indigo Coast", Population: 900,
			Environment: domain.EnvCoastal, SocioEconomic: domain.SocioEconomic{Infrastructure: 30, Cohesion: 60}},
	}
	for _, r := range regions {
		w.Regions[r.ID] = r
	}

	return w
}
