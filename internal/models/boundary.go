package models

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BoundaryColumnPrefix distinguishes "module is in scope" columns from
// activity data in storage. The API surface never shows it.
const BoundaryColumnPrefix = "has_"

// Boundary flags, one per activity category plus the Scope 2 dual
// reporting switch.
const (
	FlagStationaryCombustion       = "stationary_combustion"
	FlagMobileSources              = "mobile_sources"
	FlagRefrigerationAC            = "refrigeration_ac"
	FlagFireSuppression            = "fire_suppression"
	FlagPurchasedGases             = "purchased_gases"
	FlagElectricity                = "electricity"
	FlagSteam                      = "steam"
	FlagMarketBasedFactors         = "market_based_factors"
	FlagBusinessTravel             = "business_travel"
	FlagCommuting                  = "commuting"
	FlagTransportationDistribution = "transportation_distribution"
	FlagWaste                      = "waste"
	FlagOffsets                    = "offsets"
)

var (
	scope1Modules = []string{FlagStationaryCombustion, FlagMobileSources, FlagRefrigerationAC, FlagFireSuppression, FlagPurchasedGases}
	scope2Modules = []string{FlagElectricity, FlagSteam}
	scope3Modules = []string{FlagBusinessTravel, FlagCommuting, FlagTransportationDistribution, FlagWaste}
)

// BoundaryFlagNames lists every flag in storage column order.
var BoundaryFlagNames = []string{
	FlagStationaryCombustion,
	FlagMobileSources,
	FlagRefrigerationAC,
	FlagFireSuppression,
	FlagPurchasedGases,
	FlagElectricity,
	FlagSteam,
	FlagMarketBasedFactors,
	FlagBusinessTravel,
	FlagCommuting,
	FlagTransportationDistribution,
	FlagWaste,
	FlagOffsets,
}

// BoundaryFlags maps unprefixed flag names to their answers.
type BoundaryFlags map[string]bool

// BoundaryColumn returns the storage column for an unprefixed flag.
func BoundaryColumn(flag string) string {
	return BoundaryColumnPrefix + flag
}

// FlagFromColumn strips the storage prefix from a column name.
func FlagFromColumn(column string) string {
	return strings.TrimPrefix(column, BoundaryColumnPrefix)
}

// IsBoundaryFlag reports whether name is a known unprefixed flag.
func IsBoundaryFlag(name string) bool {
	for _, f := range BoundaryFlagNames {
		if f == name {
			return true
		}
	}
	return false
}

// NormalizeBoundaryFlags accepts keys with or without the storage prefix
// and returns them unprefixed. Keys that name no known flag are returned
// sorted in unknown. A flag given in both forms with different answers is
// dropped from flags and returned, unprefixed and sorted, in conflicting.
func NormalizeBoundaryFlags(in map[string]bool) (flags BoundaryFlags, unknown, conflicting []string) {
	flags = make(BoundaryFlags, len(in))
	for key, value := range in {
		name := FlagFromColumn(key)
		if !IsBoundaryFlag(name) {
			unknown = append(unknown, key)
			continue
		}
		if prev, seen := flags[name]; seen && prev != value {
			conflicting = append(conflicting, name)
			continue
		}
		flags[name] = value
	}
	for _, name := range conflicting {
		delete(flags, name)
	}
	sort.Strings(unknown)
	sort.Strings(conflicting)
	return flags, unknown, conflicting
}

// BoundaryQuestions is the single boundary record of a reporting period.
type BoundaryQuestions struct {
	ID                uuid.UUID     `json:"id"`
	ReportingPeriodID uuid.UUID     `json:"reporting_period_id"`
	Flags             BoundaryFlags `json:"flags"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// ScopeGroup reports whether any module of a scope is in the boundary.
type ScopeGroup struct {
	Enabled bool            `json:"enabled"`
	Modules map[string]bool `json:"modules"`
}

// Scope2Group adds the dual reporting switch to the Scope 2 group.
type Scope2Group struct {
	ScopeGroup
	MarketBasedFactors bool `json:"market_based_factors"`
}

// BoundarySummary is the scope enablement derived from boundary flags.
type BoundarySummary struct {
	Scope1  ScopeGroup  `json:"scope1"`
	Scope2  Scope2Group `json:"scope2"`
	Scope3  ScopeGroup  `json:"scope3"`
	Offsets bool        `json:"offsets"`
}

// SummarizeBoundary derives scope enablement from flags. Missing flags
// count as false. The result depends on nothing but flags.
func SummarizeBoundary(flags BoundaryFlags) BoundarySummary {
	return BoundarySummary{
		Scope1: groupOf(flags, scope1Modules),
		Scope2: Scope2Group{
			ScopeGroup:         groupOf(flags, scope2Modules),
			MarketBasedFactors: flags[FlagMarketBasedFactors],
		},
		Scope3:  groupOf(flags, scope3Modules),
		Offsets: flags[FlagOffsets],
	}
}

func groupOf(flags BoundaryFlags, modules []string) ScopeGroup {
	group := ScopeGroup{Modules: make(map[string]bool, len(modules))}
	for _, m := range modules {
		group.Modules[m] = flags[m]
		group.Enabled = group.Enabled || flags[m]
	}
	return group
}
