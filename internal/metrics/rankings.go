package metrics

import (
	"sort"

	"github.com/talgya/geosim/internal/domain"
)

// Ranking is one row of a sorted faction leaderboard.
type Ranking struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// PowerRankings sorts active factions by composite power index.
func PowerRankings(w *domain.World) []Ranking {
	return rank(w, func(f *domain.Faction) float64 {
		return f.Power.Total() * (1 + f.Knowledge/100)
	})
}

// EconomicRankings sorts active factions by total stockpiled wealth.
func EconomicRankings(w *domain.World) []Ranking {
	return rank(w, func(f *domain.Faction) float64 {
		return f.Resources.Total()
	})
}

// StabilityRankings sorts active factions by the mean of legitimacy and
// average regional cohesion.
func StabilityRankings(w *domain.World) []Ranking {
	return rank(w, func(f *domain.Faction) float64 {
		var cohesion float64
		count := 0
		for _, rid := range f.Regions.Members() {
			if r := w.GetRegion(rid); r != nil {
				cohesion += r.SocioEconomic.Cohesion
				count++
			}
		}
		if count > 0 {
			cohesion /= float64(count)
		}
		return (f.Legitimacy + cohesion) / 2
	})
}

func rank(w *domain.World, score func(*domain.Faction) float64) []Ranking {
	var out []Ranking
	for _, fid := range w.ActiveFactionIDs() {
		f := w.Factions[fid]
		out = append(out, Ranking{ID: fid, Name: f.Name, Score: score(f)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID < out[j].ID
	})
	return out
}
