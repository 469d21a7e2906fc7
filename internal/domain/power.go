package domain

// Power is a faction's military strength split across three branches.
type Power struct {
	Army float64 `json:"army"`
	Navy float64 `json:"navy"`
	Air  float64 `json:"air"`
}

// Total is the combined strength of all branches.
func (p Power) Total() float64 {
	return p.Army + p.Navy + p.Air
}

func (p Power) Add(other Power) Power {
	return Power{
		Army: p.Army + other.Army,
		Navy: p.Navy + other.Navy,
		Air:  p.Air + other.Air,
	}
}

// Sub subtracts other from p, flooring each branch at zero.
func (p Power) Sub(other Power) Power {
	return Power{
		Army: max(0, p.Army-other.Army),
		Navy: max(0, p.Navy-other.Navy),
		Air:  max(0, p.Air-other.Air),
	}
}

func (p Power) Scale(factor float64) Power {
	return Power{
		Army: p.Army * factor,
		Navy: p.Navy * factor,
		Air:  p.Air * factor,
	}
}

// Clamp bounds each branch independently.
func (p Power) Clamp(lo, hi float64) Power {
	return Power{
		Army: min(hi, max(lo, p.Army)),
		Navy: min(hi, max(lo, p.Navy)),
		Air:  min(hi, max(lo, p.Air)),
	}
}
