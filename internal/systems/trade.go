package systems

import (
	"fmt"

	"github.com/talgya/geosim/internal/delta"
	"github.com/talgya/geosim/internal/domain"
)

// TradeSystem moves surplus energy and food between allied factions.
// Any transfer earns both sides credits and a little legitimacy.
type TradeSystem struct{}

func (TradeSystem) Name() string { return "trade" }

func (TradeSystem) ComputeDelta(ctx *Context, w *domain.World, b *delta.Builder) {
	active := w.ActiveFactionIDs()

	for i := 0; i < len(active); i++ {
		for j := i + 1; j < len(active); j++ {
			f1 := w.Factions[active[i]]
			f2 := w.Factions[active[j]]
			if !f2.Alliances.Has(f1.ID) {
				continue
			}
			tradeBetween(ctx, f1, f2, b)
		}
	}
}

func tradeBetween(ctx *Context, f1, f2 *domain.Faction, b *delta.Builder) {
	cfg := ctx.Cfg.Alliance

	res1 := f1.Resources
	res2 := f2.Resources
	traded := false

	transfer := func(from, to *float64) {
		if *from > cfg.TradeThreshold && *to < cfg.TradeShortageThreshold {
			*from -= cfg.TradeAmount
			*to += cfg.TradeAmount
			traded = true
		}
	}
	transfer(&res1.Energy, &res2.Energy)
	transfer(&res2.Energy, &res1.Energy)
	transfer(&res1.Food, &res2.Food)
	transfer(&res2.Food, &res1.Food)

	if !traded {
		return
	}

	res1.Credits += cfg.TradeCreditBonus
	res2.Credits += cfg.TradeCreditBonus

	maxLeg := ctx.Cfg.Faction.MaxLegitimacy
	b.ForFaction(f1.ID).
		SetResources(res1).
		SetLegitimacy(min(maxLeg, f1.Legitimacy+cfg.TradeLegitimacyBonus))
	b.ForFaction(f2.ID).
		SetResources(res2).
		SetLegitimacy(min(maxLeg, f2.Legitimacy+cfg.TradeLegitimacyBonus))

	b.AddEvent(fmt.Sprintf("TRADE: Trade agreement between %s and %s is active.", f1.Name, f2.Name))
}
