// Package classifier maps free-text alert types onto the fixed category taxonomy.
package classifier

import (
	"strings"

	"tracker-alert-sync/internal/models"
)

type rule struct {
	needles  []string
	category models.Category
}

// Evaluated in order, first match wins. The order is part of the behavior.
var rules = []rule{
	{needles: []string{"heavy impact"}, category: models.CategoryHeavyImpact},
	{needles: []string{"light sensor"}, category: models.CategoryLightSensor},
	{needles: []string{"out of country"}, category: models.CategoryOutOfCountry},
	{needles: []string{"no communication"}, category: models.CategoryNoCommunication},
	{needles: []string{"over-turn", "overturn"}, category: models.CategoryOverTurn},
	{needles: []string{"tamper"}, category: models.CategoryTamper},
	{needles: []string{"low battery"}, category: models.CategoryLowBattery},
	{needles: []string{"motion"}, category: models.CategoryMotion},
	{needles: []string{"new position"}, category: models.CategoryNewPositions},
	{needles: []string{"high risk"}, category: models.CategoryHighRiskArea},
	{needles: []string{"geofence"}, category: models.CategoryGeoFence},
	{needles: []string{"rotation"}, category: models.CategoryRotationStop},
	{needles: []string{"temperature"}, category: models.CategoryTemperature},
	{needles: []string{"pressure"}, category: models.CategoryPressure},
	{needles: []string{"humidity"}, category: models.CategoryHumidity},
}

// Classify returns the category of alertType, CategoryOther when no rule matches
func Classify(alertType string) models.Category {
	lower := strings.ToLower(alertType)
	for _, r := range rules {
		for _, needle := range r.needles {
			if strings.Contains(lower, needle) {
				return r.category
			}
		}
	}
	return models.CategoryOther
}
