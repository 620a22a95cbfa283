// Package extractor captures labeled fields from tracker notification bodies.
//
// Each field has its own pattern, applied independently to the whole body, so
// a missing or garbled label only ever affects its own field.
package extractor

import (
	"regexp"
	"strings"

	"tracker-alert-sync/internal/models"
)

type fieldPattern struct {
	pattern *regexp.Regexp
	assign  func(d *models.AlertDraft, groups []string)
}

var fields = []fieldPattern{
	{
		pattern: regexp.MustCompile(`Alert type:\s*(.+)`),
		assign:  func(d *models.AlertDraft, g []string) { d.AlertType = trim(g[1]) },
	},
	{
		// stops at "(" so a trailing "(UTC)" style zone note is dropped
		pattern: regexp.MustCompile(`Time:\s*([^(\n]+)`),
		assign:  func(d *models.AlertDraft, g []string) { d.Time = trim(g[1]) },
	},
	{
		pattern: regexp.MustCompile(`Location:\s*(.+)`),
		assign:  func(d *models.AlertDraft, g []string) { d.Location = trim(g[1]) },
	},
	{
		pattern: regexp.MustCompile(`Latitude, Longitude:\s*([-\d.]+),\s*([-\d.]+)`),
		assign: func(d *models.AlertDraft, g []string) {
			d.Latitude = trim(g[1])
			d.Longitude = trim(g[2])
		},
	},
	{
		pattern: regexp.MustCompile(`Device Serial Number:\s*(.+)`),
		assign:  func(d *models.AlertDraft, g []string) { d.DeviceSerial = trim(g[1]) },
	},
	{
		pattern: regexp.MustCompile(`Tracker Name:\s*(.+)`),
		assign:  func(d *models.AlertDraft, g []string) { d.TrackerName = trim(g[1]) },
	},
	{
		pattern: regexp.MustCompile(`Account name:\s*(.+)`),
		assign:  func(d *models.AlertDraft, g []string) { d.AccountName = trim(g[1]) },
	},
}

// Extract returns the draft for body. Fields whose label is absent stay empty.
func Extract(body string) models.AlertDraft {
	var draft models.AlertDraft
	for _, f := range fields {
		if groups := f.pattern.FindStringSubmatch(body); groups != nil {
			f.assign(&draft, groups)
		}
	}
	return draft
}

func trim(s string) string {
	return strings.TrimSpace(s)
}
