package models

// Distance units accepted by AppSettings.DefaultUnit.
const (
	UnitKilometers = "km"
	UnitMiles      = "miles"
)

// AppSettings holds per-rider preferences.
type AppSettings struct {
	IsDarkMode       bool   `json:"isDarkMode" bson:"is_dark_mode"`
	DefaultUnit      string `json:"defaultUnit" bson:"default_unit"`
	ReminderDistance int    `json:"reminderDistance" bson:"reminder_distance"` // in kilometers
}

// DefaultSettings returns the settings a new garage starts with.
func DefaultSettings() AppSettings {
	return AppSettings{
		IsDarkMode:       false,
		DefaultUnit:      UnitKilometers,
		ReminderDistance: 500,
	}
}

// IsValidUnit checks if a distance unit is supported
func IsValidUnit(unit string) bool {
	return unit == UnitKilometers || unit == UnitMiles
}

// Garage is the whole-document view of a rider's data. It matches the
// document the mobile app kept under a single storage key and is used for
// import and export.
type Garage struct {
	Motorcycles []Motorcycle `json:"motorcycles"`
	Settings    AppSettings  `json:"settings"`
}
