package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeBoundary_Scope2(t *testing.T) {
	summary := SummarizeBoundary(BoundaryFlags{
		FlagElectricity: true,
		FlagSteam:       false,
	})

	assert.True(t, summary.Scope2.Enabled)
	assert.Equal(t, map[string]bool{"electricity": true, "steam": false}, summary.Scope2.Modules)
	assert.False(t, summary.Scope2.MarketBasedFactors)
	assert.False(t, summary.Scope1.Enabled)
	assert.False(t, summary.Scope3.Enabled)
	assert.False(t, summary.Offsets)
}

func TestSummarizeBoundary_Groups(t *testing.T) {
	tests := []struct {
		name   string
		flags  BoundaryFlags
		scope1 bool
		scope2 bool
		scope3 bool
	}{
		{name: "empty", flags: BoundaryFlags{}},
		{name: "fire suppression enables scope 1", flags: BoundaryFlags{FlagFireSuppression: true}, scope1: true},
		{name: "purchased gases enables scope 1", flags: BoundaryFlags{FlagPurchasedGases: true}, scope1: true},
		{name: "steam enables scope 2", flags: BoundaryFlags{FlagSteam: true}, scope2: true},
		{name: "market factors alone do not enable scope 2", flags: BoundaryFlags{FlagMarketBasedFactors: true}},
		{name: "waste enables scope 3", flags: BoundaryFlags{FlagWaste: true}, scope3: true},
		{name: "offsets stand alone", flags: BoundaryFlags{FlagOffsets: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := SummarizeBoundary(tt.flags)
			assert.Equal(t, tt.scope1, summary.Scope1.Enabled, "scope1")
			assert.Equal(t, tt.scope2, summary.Scope2.Enabled, "scope2")
			assert.Equal(t, tt.scope3, summary.Scope3.Enabled, "scope3")
			assert.Len(t, summary.Scope1.Modules, 5)
			assert.Len(t, summary.Scope3.Modules, 4)
		})
	}
}

func TestSummarizeBoundary_IsPure(t *testing.T) {
	flags := BoundaryFlags{FlagMobileSources: true, FlagCommuting: true, FlagOffsets: true}

	first := SummarizeBoundary(flags)
	second := SummarizeBoundary(flags)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("summary changed between calls (-first +second):\n%s", diff)
	}
}

func TestNormalizeBoundaryFlags_RoundTrip(t *testing.T) {
	in := map[string]bool{}
	for i, name := range BoundaryFlagNames {
		in[name] = i%2 == 0
	}

	// Write path: unprefixed keys become storage columns.
	stored := map[string]bool{}
	flags, unknown, conflicting := NormalizeBoundaryFlags(in)
	require.Empty(t, unknown)
	require.Empty(t, conflicting)
	for name, v := range flags {
		stored[BoundaryColumn(name)] = v
	}

	// Read path: storage columns become unprefixed keys.
	out := map[string]bool{}
	for col, v := range stored {
		out[FlagFromColumn(col)] = v
	}

	assert.Equal(t, in, out)
}

func TestNormalizeBoundaryFlags_AcceptsPrefixed(t *testing.T) {
	flags, unknown, conflicting := NormalizeBoundaryFlags(map[string]bool{
		"has_electricity": true,
		"steam":           false,
		"has_teleporting": true,
		"lasers":          true,
	})

	assert.Equal(t, BoundaryFlags{"electricity": true, "steam": false}, flags)
	assert.Equal(t, []string{"has_teleporting", "lasers"}, unknown)
	assert.Empty(t, conflicting)
}

func TestNormalizeBoundaryFlags_BothForms(t *testing.T) {
	t.Run("agreeing answers collapse", func(t *testing.T) {
		flags, unknown, conflicting := NormalizeBoundaryFlags(map[string]bool{
			"has_waste": true,
			"waste":     true,
		})
		assert.Equal(t, BoundaryFlags{"waste": true}, flags)
		assert.Empty(t, unknown)
		assert.Empty(t, conflicting)
	})

	t.Run("differing answers are rejected every time", func(t *testing.T) {
		in := map[string]bool{
			"has_steam":       true,
			"steam":           false,
			"electricity":     false,
			"has_electricity": true,
			"offsets":         true,
		}
		// Map iteration order varies between runs of the loop.
		for i := 0; i < 50; i++ {
			flags, unknown, conflicting := NormalizeBoundaryFlags(in)
			require.Equal(t, BoundaryFlags{"offsets": true}, flags)
			require.Empty(t, unknown)
			require.Equal(t, []string{"electricity", "steam"}, conflicting)
		}
	})
}

func TestRole_Ordering(t *testing.T) {
	assert.True(t, RoleViewer < RoleEditor)
	assert.True(t, RoleEditor < RoleCompanyAdmin)
	assert.True(t, RoleCompanyAdmin < RoleInternalAdmin)
	assert.True(t, RoleCompanyAdmin.AtLeast(RoleEditor))
	assert.False(t, RoleViewer.AtLeast(RoleEditor))
	assert.True(t, RoleInternalAdmin.IsGlobal())
	assert.False(t, RoleCompanyAdmin.IsGlobal())
}

func TestParseRole(t *testing.T) {
	for _, name := range []string{"viewer", "editor", "company_admin", "internal_admin"} {
		role, err := ParseRole(name)
		require.NoError(t, err)
		assert.Equal(t, name, role.String())
	}

	_, err := ParseRole("superuser")
	assert.Error(t, err)
}

func TestRole_JSON(t *testing.T) {
	companyID := uuid.New()
	data, err := json.Marshal(RoleGrant{CompanyID: companyID, Role: RoleEditor})
	require.NoError(t, err)
	assert.JSONEq(t, `{"companyId":"`+companyID.String()+`","role":"editor"}`, string(data))

	var decoded RoleGrant
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, RoleEditor, decoded.Role)

	assert.Error(t, json.Unmarshal([]byte(`{"role":"root"}`), &decoded))
}

func TestEffectiveRole(t *testing.T) {
	companyA := uuid.New()
	companyB := uuid.New()

	grants := []RoleGrant{
		{CompanyID: companyA, Role: RoleViewer},
		{CompanyID: companyA, Role: RoleEditor},
	}
	assert.Equal(t, RoleEditor, EffectiveRole(grants, companyA))
	assert.Equal(t, RoleNone, EffectiveRole(grants, companyB))

	admin := []RoleGrant{{CompanyID: companyA, Role: RoleInternalAdmin}}
	assert.Equal(t, RoleInternalAdmin, EffectiveRole(admin, companyB))
}

func TestPeriodStatus_Transitions(t *testing.T) {
	tests := []struct {
		from, to PeriodStatus
		allowed  bool
	}{
		{PeriodDraft, PeriodActive, true},
		{PeriodActive, PeriodClosed, true},
		{PeriodDraft, PeriodDraft, true},
		{PeriodDraft, PeriodClosed, false},
		{PeriodActive, PeriodDraft, false},
		{PeriodClosed, PeriodActive, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}

	assert.False(t, PeriodStatus("archived").Valid())
	assert.True(t, PeriodQuarterly.Valid())
	assert.False(t, PeriodType("weekly").Valid())
}

func TestEmissionResult_Scan(t *testing.T) {
	tests := []struct {
		name      string
		input     interface{}
		wantError bool
		wantTotal float64
	}{
		{name: "nil value", input: nil},
		{name: "bytes", input: []byte(`{"total_emissions_mt_co2e":12.5,"co2_mt":12,"ch4_mt":0.3,"n2o_mt":0.2}`), wantTotal: 12.5},
		{name: "string", input: `{"total_emissions_mt_co2e":3}`, wantTotal: 3},
		{name: "negative total", input: []byte(`{"total_emissions_mt_co2e":-1}`), wantError: true},
		{name: "invalid JSON", input: []byte(`{invalid}`), wantError: true},
		{name: "unsupported input type", input: 42, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r EmissionResult
			err := r.Scan(tt.input)
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, r.TotalEmissionsMTCO2e)
		})
	}
}

func TestEmissionResult_ScanDualReport(t *testing.T) {
	var r EmissionResult
	err := r.Scan([]byte(`{
		"total_emissions_mt_co2e": 4,
		"location_based": {"total_emissions_mt_co2e": 4, "co2_mt": 3.9},
		"market_based": {"total_emissions_mt_co2e": 2.5, "is_fallback": true}
	}`))
	require.NoError(t, err)
	require.NotNil(t, r.LocationBased)
	require.NotNil(t, r.MarketBased)
	assert.Equal(t, 3.9, r.LocationBased.CO2MT)
	assert.True(t, r.MarketBased.IsFallback)
}

func TestEmissionResult_Value(t *testing.T) {
	val, err := EmissionResult{GasBreakdown: GasBreakdown{TotalEmissionsMTCO2e: 1.5, CO2MT: 1.5}}.Value()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(val.(string)), &decoded))
	assert.Equal(t, 1.5, decoded["total_emissions_mt_co2e"])
	_, hasMarket := decoded["market_based"]
	assert.False(t, hasMarket)

	_, err = EmissionResult{GasBreakdown: GasBreakdown{CO2MT: math.Inf(1)}}.Value()
	assert.Error(t, err)
}

func TestActivity_MarshalJSONFlattensFields(t *testing.T) {
	activity := Activity{
		ID:                uuid.New(),
		Type:              "electricity",
		CompanyID:         uuid.New(),
		ReportingPeriodID: uuid.New(),
		Fields: map[string]interface{}{
			"kwh_purchased":      1200.0,
			"calculation_method": "LOCATION_BASED",
		},
	}

	data, err := json.Marshal(activity)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 1200.0, decoded["kwh_purchased"])
	assert.Equal(t, "electricity", decoded["activity_type"])
	assert.Equal(t, activity.ID.String(), decoded["id"])
}
