package delta

import (
	"fmt"
	"sort"

	"github.com/talgya/geosim/internal/config"
	"github.com/talgya/geosim/internal/domain"
)

// Severity classifies a validation finding. Errors abort the tick's
// application; warnings are logged and application proceeds.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// ValidationError describes one inconsistency found in a delta.
type ValidationError struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	EntityID string   `json:"entity_id"`
	Field    string   `json:"field"`
	Value    any      `json:"value,omitempty"`
}

func (e ValidationError) String() string {
	return fmt.Sprintf("[%s] %s (entity=%s field=%s)", e.Severity, e.Message, e.EntityID, e.Field)
}

// HasErrors reports whether any finding has error severity.
func HasErrors(errs []ValidationError) bool {
	for _, e := range errs {
		if e.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Validator checks a delta against the current world before application.
type Validator struct {
	cfg *config.Config
}

func NewValidator(cfg *config.Config) *Validator {
	return &Validator{cfg: cfg}
}

// Validate returns every inconsistency found. An empty result means the
// delta is safe to apply.
func (v *Validator) Validate(d *WorldDelta, w *domain.World) []ValidationError {
	var errs []ValidationError

	for _, fid := range sortedKeys(d.FactionDeltas) {
		errs = append(errs, v.validateFactionDelta(fid, d.FactionDeltas[fid], w)...)
	}
	for _, rid := range sortedKeys(d.RegionDeltas) {
		errs = append(errs, v.validateRegionDelta(rid, d.RegionDeltas[rid], d, w)...)
	}
	errs = append(errs, v.validateCoherence(d, w)...)

	return errs
}

func (v *Validator) validateFactionDelta(id string, fd *FactionDelta, w *domain.World) []ValidationError {
	var errs []ValidationError

	faction := w.GetFaction(id)
	if faction == nil {
		return []ValidationError{{
			Severity: SeverityError,
			Message:  fmt.Sprintf("faction %s does not exist", id),
			EntityID: id,
		}}
	}

	if fd.Power != nil {
		fcfg := v.cfg.Faction
		if fd.Power.Army < 0 || fd.Power.Navy < 0 || fd.Power.Air < 0 {
			errs = append(errs, ValidationError{
				Severity: SeverityError,
				Message:  "power branch below zero",
				EntityID: id,
				Field:    "power",
				Value:    fd.Power.Total(),
			})
		} else if fd.Power.Army > fcfg.MaxBranchPower || fd.Power.Navy > fcfg.MaxBranchPower || fd.Power.Air > fcfg.MaxBranchPower {
			errs = append(errs, ValidationError{
				Severity: SeverityWarning,
				Message:  "power branch above maximum, will be clamped",
				EntityID: id,
				Field:    "power",
				Value:    fd.Power.Total(),
			})
		}
	}

	if fd.Legitimacy != nil {
		if *fd.Legitimacy < v.cfg.Faction.MinLegitimacy || *fd.Legitimacy > v.cfg.Faction.MaxLegitimacy {
			errs = append(errs, ValidationError{
				Severity: SeverityWarning,
				Message:  "legitimacy out of bounds, will be clamped",
				EntityID: id,
				Field:    "legitimacy",
				Value:    *fd.Legitimacy,
			})
		}
	}

	for _, rid := range fd.AddRegions.Members() {
		if w.GetRegion(rid) == nil {
			errs = append(errs, ValidationError{
				Severity: SeverityError,
				Message:  fmt.Sprintf("region %s does not exist", rid),
				EntityID: id,
				Field:    "add_regions",
				Value:    rid,
			})
		}
	}

	for _, aid := range fd.AddAlliances.Members() {
		if w.GetFaction(aid) == nil {
			errs = append(errs, ValidationError{
				Severity: SeverityError,
				Message:  fmt.Sprintf("alliance target %s does not exist", aid),
				EntityID: id,
				Field:    "add_alliances",
				Value:    aid,
			})
		}
	}

	return errs
}

func (v *Validator) validateRegionDelta(id string, rd *RegionDelta, d *WorldDelta, w *domain.World) []ValidationError {
	var errs []ValidationError

	region := w.GetRegion(id)
	if region == nil {
		return []ValidationError{{
			Severity: SeverityError,
			Message:  fmt.Sprintf("region %s does not exist", id),
			EntityID: id,
		}}
	}

	if rd.Stability != nil && (*rd.Stability < 0 || *rd.Stability > 100) {
		errs = append(errs, ValidationError{
			Severity: SeverityWarning,
			Message:  "stability out of bounds, will be clamped",
			EntityID: id,
			Field:    "stability",
			Value:    *rd.Stability,
		})
	}
	if rd.SocioEconomic != nil {
		se := rd.SocioEconomic
		if se.Cohesion < 0 || se.Cohesion > 100 || se.Infrastructure < 0 || se.Infrastructure > 100 {
			errs = append(errs, ValidationError{
				Severity: SeverityWarning,
				Message:  "socio-economic values out of bounds, will be clamped",
				EntityID: id,
				Field:    "socio_economic",
			})
		}
	}

	// Owner may reference an existing faction, a faction created in this
	// same delta, or the empty string (clear).
	if rd.Owner != nil && *rd.Owner != "" {
		_, created := d.CreateFactions[*rd.Owner]
		if w.GetFaction(*rd.Owner) == nil && !created {
			errs = append(errs, ValidationError{
				Severity: SeverityError,
				Message:  fmt.Sprintf("owner %s does not exist", *rd.Owner),
				EntityID: id,
				Field:    "owner",
				Value:    *rd.Owner,
			})
		}
	}

	return errs
}

// validateCoherence catches cross-entity conflicts: two factions claiming
// the same region, and a faction id both created and deleted in one delta.
func (v *Validator) validateCoherence(d *WorldDelta, w *domain.World) []ValidationError {
	var errs []ValidationError

	claims := make(map[string]string)
	for _, fid := range sortedKeys(d.FactionDeltas) {
		for _, rid := range d.FactionDeltas[fid].AddRegions.Members() {
			if prev, ok := claims[rid]; ok {
				errs = append(errs, ValidationError{
					Severity: SeverityError,
					Message:  fmt.Sprintf("factions %s and %s both claim region %s", prev, fid, rid),
					EntityID: fid,
					Field:    "add_regions",
					Value:    rid,
				})
			} else {
				claims[rid] = fid
			}
		}
	}

	for _, fid := range d.DeleteFactions.Members() {
		if _, ok := d.CreateFactions[fid]; ok {
			errs = append(errs, ValidationError{
				Severity: SeverityError,
				Message:  fmt.Sprintf("faction %s both created and deleted in one delta", fid),
				EntityID: fid,
			})
		}
	}

	return errs
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
