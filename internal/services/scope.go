package services

import (
	"github.com/aurixon/api/internal/catalog"
	"github.com/aurixon/api/internal/repository"
)

// Scope labels used in dashboard and report breakdowns.
const (
	Scope1 = "Scope 1"
	Scope2 = "Scope 2"
	Scope3 = "Scope 3"
)

// ScopeLabels lists the breakdown keys in display order.
var ScopeLabels = []string{Scope1, Scope2, Scope3}

// BreakdownScope classifies an activity type for emissions breakdowns.
// Only the listed Scope 1 and Scope 2 types are singled out; every other
// type, including fire suppression, purchased gases and offsets, counts
// as Scope 3. This differs from the boundary grouping on purpose and is
// kept until the mapping is confirmed with product.
func BreakdownScope(activityType string) string {
	switch catalog.ActivityType(activityType) {
	case catalog.StationaryCombustion, catalog.MobileSources, catalog.RefrigerationAC:
		return Scope1
	case catalog.Electricity, catalog.Steam:
		return Scope2
	default:
		return Scope3
	}
}

// FoldScopes sums per-type totals into the three breakdown scopes. Every
// scope key is present, and the three values add up to the sum of the inputs.
func FoldScopes(totals []repository.ActivityTotal) map[string]float64 {
	out := map[string]float64{Scope1: 0, Scope2: 0, Scope3: 0}
	for _, t := range totals {
		out[BreakdownScope(t.ActivityType)] += t.Emissions
	}
	return out
}
