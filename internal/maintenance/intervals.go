package maintenance

import "sort"

// DefaultInterval applies to any type missing from DefaultIntervals, which
// covers free-text custom types.
const DefaultInterval = 3000

// Preset names.
const (
	PresetScooter = "scooter"
	PresetSport   = "sport"
	PresetCruiser = "cruiser"
	PresetCustom  = "custom"
)

// CustomType is the type a form sends when the rider typed their own label.
const CustomType = "Custom"

// IntervalTable maps a maintenance type to its interval in kilometers.
type IntervalTable map[string]int

// Preset is a named interval table for a class of motorcycle. Presets are
// reference data shown to riders; record derivation uses DefaultIntervals.
type Preset struct {
	Key       string        `json:"key"`
	Name      string        `json:"name"`
	Intervals IntervalTable `json:"intervals"`
}

// DefaultIntervals is the table every new record is derived from.
var DefaultIntervals = IntervalTable{
	"Oil Change":               1500,
	"Gear Oil Change":          6000,
	"Carbon Cleaning":          3000,
	"Spark Plug":               12000,
	"Spark Plug Cap":           12000,
	"Air Filter":               18000,
	"Drive Belt Replacement":   24000,
	"Weight Roller Set":        24000,
	"Slider Piece Replacement": 10000,
	"Wheel Bearing":            50000,
	"Ball Race Set":            50000,
	"Brake Bleeding":           12000,
}

var presets = map[string]Preset{
	PresetScooter: {
		Key:  PresetScooter,
		Name: "Scooter/PCX",
		Intervals: IntervalTable{
			"Oil Change":             1500,
			"Gear Oil Change":        6000,
			"Carbon Cleaning":        3000,
			"Spark Plug":             12000,
			"Air Filter":             18000,
			"Drive Belt Replacement": 24000,
			"Weight Roller Set":      24000,
			"CVT Cleaning":           12000,
		},
	},
	PresetSport: {
		Key:  PresetSport,
		Name: "Sport Bike",
		Intervals: IntervalTable{
			"Oil Change":        3000,
			"Oil Filter":        6000,
			"Air Filter":        12000,
			"Spark Plug":        15000,
			"Chain Cleaning":    1000,
			"Chain Replacement": 20000,
			"Brake Fluid":       24000,
			"Coolant":           24000,
		},
	},
	PresetCruiser: {
		Key:  PresetCruiser,
		Name: "Cruiser",
		Intervals: IntervalTable{
			"Oil Change":      5000,
			"Oil Filter":      10000,
			"Air Filter":      15000,
			"Spark Plug":      20000,
			"Belt Inspection": 8000,
			"Brake Fluid":     24000,
			"Final Drive":     30000,
		},
	},
	PresetCustom: {
		Key:       PresetCustom,
		Name:      "Custom",
		Intervals: DefaultIntervals,
	},
}

// LookupPreset returns the preset with the given key.
func LookupPreset(key string) (Preset, bool) {
	p, ok := presets[key]
	return p, ok
}

// IsValidPreset checks if a preset key is known
func IsValidPreset(key string) bool {
	_, ok := presets[key]
	return ok
}

// Presets returns every preset ordered by key.
func Presets() []Preset {
	out := make([]Preset, 0, len(presets))
	for _, p := range presets {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Interval returns the distance after which maintenanceType recurs.
func Interval(maintenanceType string) int {
	if km, ok := DefaultIntervals[maintenanceType]; ok {
		return km
	}
	return DefaultInterval
}

// Types lists the maintenance types a preset offers, sorted.
func Types(preset string) []string {
	table := DefaultIntervals
	if p, ok := presets[preset]; ok {
		table = p.Intervals
	}
	out := make([]string, 0, len(table))
	for k := range table {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
