// Package aggregate derives category counts and per-bike rollups from alert records.
// Nothing here is stored; every result is recomputed from the records passed in.
package aggregate

import (
	"sort"
	"strings"

	"tracker-alert-sync/internal/models"
)

// Stats is the headline summary shown above an alert listing
type Stats struct {
	Total             int                     `json:"total"`
	OverTurn          int                     `json:"overTurn"`
	NoCommunication   int                     `json:"noCommunication"`
	HeavyImpactAlerts int                     `json:"heavyImpactAlerts"`
	Categories        map[models.Category]int `json:"categories"`
}

// CategoryStats counts records per category. Every taxonomy value is present, zero when absent.
func CategoryStats(records []models.AlertRecord) map[models.Category]int {
	counts := make(map[models.Category]int, len(models.Categories()))
	for _, c := range models.Categories() {
		counts[c] = 0
	}
	for _, r := range records {
		if _, ok := counts[r.Category]; ok {
			counts[r.Category]++
		}
	}
	return counts
}

// Headline computes Stats over records
func Headline(records []models.AlertRecord) Stats {
	counts := CategoryStats(records)
	return Stats{
		Total:             len(records),
		OverTurn:          counts[models.CategoryOverTurn],
		NoCommunication:   counts[models.CategoryNoCommunication],
		HeavyImpactAlerts: counts[models.CategoryHeavyImpact],
		Categories:        counts,
	}
}

// BikeSummaries groups records by tracker name, newest bike first.
// Records without a tracker name are ignored. The device serial comes from the
// record that last advanced the group's latest timestamp; among exact ties the
// earlier record keeps it.
func BikeSummaries(records []models.AlertRecord) []models.BikeSummary {
	bikes := group(records)
	sort.SliceStable(bikes, func(i, j int) bool {
		return bikes[i].LatestAlertAt.After(bikes[j].LatestAlertAt)
	})
	return bikes
}

func group(records []models.AlertRecord) []models.BikeSummary {
	index := make(map[string]int)
	bikes := make([]models.BikeSummary, 0)

	for _, r := range records {
		if r.TrackerName == "" {
			continue
		}

		i, ok := index[r.TrackerName]
		if !ok {
			i = len(bikes)
			index[r.TrackerName] = i
			bikes = append(bikes, models.BikeSummary{
				TrackerName:   r.TrackerName,
				DeviceSerial:  r.DeviceSerial,
				LatestAlertAt: r.IngestedAt,
			})
		}

		b := &bikes[i]
		b.AlertCount++
		if r.IngestedAt.After(b.LatestAlertAt) {
			b.LatestAlertAt = r.IngestedAt
			b.DeviceSerial = r.DeviceSerial
		}
	}
	return bikes
}

// Bike page sort orders
const (
	SortNewest = "newest"
	SortOldest = "oldest"
	SortAlerts = "alerts"
	SortDevice = "device"
)

// ValidSort reports whether s is a known bike sort order
func ValidSort(s string) bool {
	switch s {
	case SortNewest, SortOldest, SortAlerts, SortDevice:
		return true
	}
	return false
}

// BikeQuery selects one page of bikes
type BikeQuery struct {
	Page     int
	Limit    int
	SortBy   string
	Category string
	// Search is matched case-insensitively against tracker name and device serial.
	Search string
}

// BikePage is one page of bike summaries
type BikePage struct {
	Bikes      []models.BikeSummary `json:"bikes"`
	Pagination models.Pagination    `json:"pagination"`
}

// Bikes filters records, groups them per bike, sorts and paginates
func Bikes(records []models.AlertRecord, q BikeQuery) BikePage {
	search := strings.ToLower(q.Search)

	var kept []models.AlertRecord
	for _, r := range records {
		if q.Category != "" && q.Category != models.CategoryAll && string(r.Category) != q.Category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(r.TrackerName), search) &&
			!strings.Contains(strings.ToLower(r.DeviceSerial), search) {
			continue
		}
		kept = append(kept, r)
	}

	bikes := group(kept)
	types := alertTypes(kept)
	for i := range bikes {
		bikes[i].AlertTypes = types[bikes[i].TrackerName]
	}

	sortBikes(bikes, q.SortBy)

	p := models.NewPagination(q.Page, q.Limit, len(bikes))
	start, end := p.Bounds(len(bikes))
	page := bikes[start:end]
	if page == nil {
		page = []models.BikeSummary{}
	}
	return BikePage{Bikes: page, Pagination: p}
}

func sortBikes(bikes []models.BikeSummary, sortBy string) {
	var less func(a, b models.BikeSummary) bool
	switch sortBy {
	case SortOldest:
		less = func(a, b models.BikeSummary) bool { return a.LatestAlertAt.Before(b.LatestAlertAt) }
	case SortAlerts:
		less = func(a, b models.BikeSummary) bool { return a.AlertCount > b.AlertCount }
	case SortDevice:
		less = func(a, b models.BikeSummary) bool { return a.TrackerName < b.TrackerName }
	default:
		less = func(a, b models.BikeSummary) bool { return a.LatestAlertAt.After(b.LatestAlertAt) }
	}
	sort.SliceStable(bikes, func(i, j int) bool { return less(bikes[i], bikes[j]) })
}

// alertTypes lists each tracker's distinct categories in taxonomy order
func alertTypes(records []models.AlertRecord) map[string]string {
	present := make(map[string]map[models.Category]bool)
	for _, r := range records {
		if r.TrackerName == "" {
			continue
		}
		if present[r.TrackerName] == nil {
			present[r.TrackerName] = make(map[models.Category]bool)
		}
		present[r.TrackerName][r.Category] = true
	}

	out := make(map[string]string, len(present))
	for tracker, set := range present {
		var names []string
		for _, c := range models.Categories() {
			if set[c] {
				names = append(names, string(c))
			}
		}
		out[tracker] = strings.Join(names, ", ")
	}
	return out
}
