// Package catalog holds the closed set of activity types and the field
// schema each of them accepts.
package catalog

import (
	"sort"
	"strings"
)

// ActivityType names one activity variant. The value doubles as the
// activity_type recorded on calculation results.
type ActivityType string

const (
	StationaryCombustion       ActivityType = "stationary_combustion"
	MobileSources              ActivityType = "mobile_sources"
	RefrigerationAC            ActivityType = "refrigeration_ac"
	FireSuppression            ActivityType = "fire_suppression"
	PurchasedGases             ActivityType = "purchased_gases"
	Electricity                ActivityType = "electricity"
	Steam                      ActivityType = "steam"
	BusinessTravelAir          ActivityType = "business_travel_air"
	BusinessTravelRail         ActivityType = "business_travel_rail"
	BusinessTravelRoad         ActivityType = "business_travel_road"
	BusinessTravelHotel        ActivityType = "business_travel_hotel"
	Commuting                  ActivityType = "commuting"
	TransportationDistribution ActivityType = "transportation_distribution"
	Waste                      ActivityType = "waste"
	Offsets                    ActivityType = "offsets"
)

// FieldKind is the value type a field accepts.
type FieldKind int

const (
	KindText FieldKind = iota
	KindNumber
	KindEnum
)

// Field describes one variant-specific column.
type Field struct {
	Name     string
	Kind     FieldKind
	Required bool
	// Dropdown names the option list for KindEnum fields.
	Dropdown string
}

// Variant is the schema of one activity type.
type Variant struct {
	Type  ActivityType
	Name  string
	Table string
	// Scope is the GHG Protocol scope of the variant; offsets are 0.
	Scope  int
	Fields []Field
	// Conditional lists fields required for a given calculation_method.
	Conditional map[string][]string
}

// Field returns the named field of the variant.
func (v Variant) Field(name string) (Field, bool) {
	for _, f := range v.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Columns returns the variant-specific column names in schema order.
func (v Variant) Columns() []string {
	cols := make([]string, len(v.Fields))
	for i, f := range v.Fields {
		cols[i] = f.Name
	}
	return cols
}

func text(name string, required bool) Field {
	return Field{Name: name, Kind: KindText, Required: required}
}

func number(name string, required bool) Field {
	return Field{Name: name, Kind: KindNumber, Required: required}
}

func enum(name, dropdown string, required bool) Field {
	return Field{Name: name, Kind: KindEnum, Dropdown: dropdown, Required: required}
}

var variants = []Variant{
	{
		Type: StationaryCombustion, Name: "Stationary Combustion", Table: "stationary_combustion_activities", Scope: 1,
		Fields: []Field{
			enum("fuel_combusted", "fuel_types", true),
			number("quantity_combusted", true),
			enum("units", "units", true),
			text("facility_name", false),
			text("description", false),
		},
	},
	{
		Type: MobileSources, Name: "Mobile Sources", Table: "mobile_sources_activities", Scope: 1,
		Fields: []Field{
			enum("vehicle_type", "vehicle_types", true),
			enum("calculation_method", "calculation_methods", true),
			text("on_road_or_non_road", true),
			enum("fuel_type", "fuel_types", false),
			number("fuel_usage", false),
			enum("units", "units", false),
			number("miles_traveled", false),
			text("description", false),
		},
		Conditional: map[string][]string{
			"FUEL_BASED":     {"fuel_usage", "units"},
			"DISTANCE_BASED": {"miles_traveled"},
		},
	},
	{
		Type: RefrigerationAC, Name: "Refrigeration & AC", Table: "refrigeration_ac_activities", Scope: 1,
		Fields: []Field{
			enum("refrigerant_type", "refrigerant_types", true),
			number("amount_released", true),
			enum("amount_units", "units", true),
			text("equipment_type", false),
		},
	},
	{
		Type: FireSuppression, Name: "Fire Suppression", Table: "fire_suppression_activities", Scope: 1,
		Fields: []Field{
			text("suppressant_type", true),
			number("amount_used", true),
			enum("amount_units", "units", true),
		},
	},
	{
		Type: PurchasedGases, Name: "Purchased Gases", Table: "purchased_gases_activities", Scope: 1,
		Fields: []Field{
			text("gas_type", true),
			number("amount_purchased", true),
			enum("amount_units", "units", true),
		},
	},
	{
		Type: Electricity, Name: "Electricity", Table: "electricity_activities", Scope: 2,
		Fields: []Field{
			number("kwh_purchased", true),
			enum("calculation_method", "calculation_methods", true),
			text("facility_name", false),
			text("grid_region", false),
			text("supplier_name", false),
			number("supplier_emission_factor", false),
		},
	},
	{
		Type: Steam, Name: "Steam & Heat", Table: "steam_activities", Scope: 2,
		Fields: []Field{
			number("amount_purchased", true),
			enum("amount_units", "units", true),
			text("facility_name", false),
		},
	},
	{
		Type: BusinessTravelAir, Name: "Air Travel", Table: "business_travel_air", Scope: 3,
		Fields: []Field{
			text("departure_city", true),
			text("arrival_city", true),
			enum("flight_type", "flight_types", true),
			enum("cabin_class", "cabin_classes", true),
			number("distance_km", true),
			text("trip_purpose", false),
		},
	},
	{
		Type: BusinessTravelRail, Name: "Rail Travel", Table: "business_travel_rail", Scope: 3,
		Fields: []Field{
			text("route", true),
			enum("rail_type", "rail_types", true),
			number("distance_km", true),
			text("trip_purpose", false),
		},
	},
	{
		Type: BusinessTravelRoad, Name: "Road Travel", Table: "business_travel_road", Scope: 3,
		Fields: []Field{
			enum("transport_type", "transport_types", true),
			enum("vehicle_size", "vehicle_sizes", true),
			number("distance_km", true),
			text("trip_purpose", false),
		},
	},
	{
		Type: BusinessTravelHotel, Name: "Hotel Accommodation", Table: "business_travel_hotel", Scope: 3,
		Fields: []Field{
			text("hotel_name", true),
			text("city_country", true),
			number("num_nights", true),
			number("num_rooms", false),
			enum("hotel_category", "hotel_categories", false),
		},
	},
	{
		Type: Commuting, Name: "Employee Commuting", Table: "commuting_activities", Scope: 3,
		Fields: []Field{
			enum("commute_mode", "commute_modes", true),
			number("num_commuters", false),
			number("distance_per_trip_km", false),
			number("commute_days_per_year", false),
		},
	},
	{
		Type: TransportationDistribution, Name: "Transportation & Distribution", Table: "transportation_distribution_activities", Scope: 3,
		Fields: []Field{
			enum("transport_mode", "transport_modes", true),
			number("weight_tons", false),
			number("distance_km", false),
			text("description", false),
		},
	},
	{
		Type: Waste, Name: "Waste", Table: "waste_activities", Scope: 3,
		Fields: []Field{
			enum("waste_type", "waste_types", true),
			enum("disposal_method", "disposal_methods", true),
			number("amount", true),
			enum("amount_units", "units", true),
		},
	},
	{
		Type: Offsets, Name: "Carbon Offsets", Table: "offsets_activities", Scope: 0,
		Fields: []Field{
			text("offset_description", true),
			number("amount_mtco2e", true),
			text("certification_standard", false),
		},
	},
}

var byType = func() map[ActivityType]Variant {
	m := make(map[ActivityType]Variant, len(variants))
	for _, v := range variants {
		m[v.Type] = v
	}
	return m
}()

// Variants returns every activity variant in catalog order.
func Variants() []Variant {
	out := make([]Variant, len(variants))
	copy(out, variants)
	return out
}

// Lookup resolves an activity type as it appears in a URL. Hyphens and
// underscores are interchangeable.
func Lookup(raw string) (Variant, bool) {
	v, ok := byType[ActivityType(strings.ReplaceAll(strings.TrimSpace(raw), "-", "_"))]
	return v, ok
}

var dropdowns = map[string][]string{
	"fuel_types":          {"Natural Gas", "Diesel", "Petrol", "LPG", "Kerosene", "Coal", "Biomass", "Other"},
	"vehicle_types":       {"Car", "Van", "Truck", "Bus", "Motorcycle", "Tractor", "Other"},
	"refrigerant_types":   {"HFC-134a", "HFC-407C", "HFC-410A", "HFC-507A", "Other HFCs", "Non-fluorinated"},
	"flight_types":        {"Domestic", "Short-haul", "Long-haul"},
	"cabin_classes":       {"Economy", "Business", "First"},
	"rail_types":          {"Passenger Train", "Freight Train", "Tram", "Metro"},
	"transport_types":     {"Car (rental)", "Taxi", "Bus", "Coach"},
	"vehicle_sizes":       {"Small", "Medium", "Large"},
	"commute_modes":       {"Car (solo)", "Car (shared)", "Public Transport", "Bicycle", "Walking", "Motorcycle", "Other"},
	"hotel_categories":    {"1-star", "2-star", "3-star", "4-star", "5-star"},
	"transport_modes":     {"Road", "Rail", "Air", "Sea", "Multi-modal"},
	"waste_types":         {"General Waste", "Recycling", "Organic/Food Waste", "Hazardous Waste", "Packaging", "Other"},
	"disposal_methods":    {"Landfill", "Incineration", "Recycling", "Composting", "Energy Recovery", "Other"},
	"units":               {"kg", "tonnes", "litres", "gallons", "cubic meters", "kWh", "MWh", "km", "miles", "kg CO2e", "tonnes CO2e"},
	"calculation_methods": {"FUEL_BASED", "DISTANCE_BASED", "LOCATION_BASED", "MARKET_BASED"},
}

// Dropdowns returns a copy of every option list keyed by name.
func Dropdowns() map[string][]string {
	out := make(map[string][]string, len(dropdowns))
	for name, options := range dropdowns {
		out[name] = append([]string(nil), options...)
	}
	return out
}

// Dropdown returns the options of one list.
func Dropdown(name string) ([]string, bool) {
	options, ok := dropdowns[name]
	if !ok {
		return nil, false
	}
	return append([]string(nil), options...), true
}

// DropdownNames returns the sorted names of all option lists.
func DropdownNames() []string {
	names := make([]string, 0, len(dropdowns))
	for name := range dropdowns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
