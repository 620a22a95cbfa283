package models

// Category is one value of the closed alert taxonomy
type Category string

const (
	CategoryCrashDetected   Category = "Crash Detected"
	CategoryHeavyImpact     Category = "Heavy Impact"
	CategoryLightSensor     Category = "Light Sensor"
	CategoryOutOfCountry    Category = "Out Of Country"
	CategoryNoCommunication Category = "No Communication"
	CategoryOverTurn        Category = "Over-turn"
	CategoryTamper          Category = "Tamper Alert"
	CategoryLowBattery      Category = "Low Battery"
	CategoryMotion          Category = "Motion"
	CategoryNewPositions    Category = "New Positions"
	CategoryHighRiskArea    Category = "High Risk Area"
	CategoryGeoFence        Category = "Custom GeoFence"
	CategoryRotationStop    Category = "Rotation Stop"
	CategoryTemperature     Category = "Temperature"
	CategoryPressure        Category = "Pressure"
	CategoryHumidity        Category = "Humidity"
	CategoryOther           Category = "Other"
)

// CategoryAll is the listing filter value meaning "no filter"
const CategoryAll = "All"

// Crash Detected is part of the taxonomy even though no classifier rule produces it.
var categories = []Category{
	CategoryCrashDetected,
	CategoryHeavyImpact,
	CategoryLightSensor,
	CategoryOutOfCountry,
	CategoryNoCommunication,
	CategoryOverTurn,
	CategoryTamper,
	CategoryLowBattery,
	CategoryMotion,
	CategoryNewPositions,
	CategoryHighRiskArea,
	CategoryGeoFence,
	CategoryRotationStop,
	CategoryTemperature,
	CategoryPressure,
	CategoryHumidity,
	CategoryOther,
}

// Categories returns the taxonomy in display order. The slice is a copy.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Valid reports whether c belongs to the taxonomy
func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}
