package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tracker-alert-sync/internal/models"
)

const sampleBody = "Alert type: Heavy Impact Warning\n" +
	"Time: 2024-01-01 10:00 (UTC)\n" +
	"Location: Main St\n" +
	"Latitude, Longitude: 40.1, -73.9\n" +
	"Device Serial Number: ABC123\n" +
	"Tracker Name: Bike1\n" +
	"Account name: Acme"

func TestExtract_FullBody(t *testing.T) {
	draft := Extract(sampleBody)

	assert.Equal(t, models.AlertDraft{
		AlertType:    "Heavy Impact Warning",
		Time:         "2024-01-01 10:00",
		Location:     "Main St",
		Latitude:     "40.1",
		Longitude:    "-73.9",
		DeviceSerial: "ABC123",
		TrackerName:  "Bike1",
		AccountName:  "Acme",
	}, draft)
}

func TestExtract_EmptyBody(t *testing.T) {
	assert.Equal(t, models.AlertDraft{}, Extract(""))
}

func TestExtract_FieldsAreIndependent(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		check func(t *testing.T, d models.AlertDraft)
	}{
		{
			name: "Only tracker name",
			body: "Hello\nTracker Name: Bike42\nBye",
			check: func(t *testing.T, d models.AlertDraft) {
				assert.Equal(t, "Bike42", d.TrackerName)
				assert.Empty(t, d.AlertType)
				assert.Empty(t, d.DeviceSerial)
			},
		},
		{
			name: "Time without parenthesis stops at end of line",
			body: "Time: 2024-03-05 08:15\nLocation: Harbour Rd",
			check: func(t *testing.T, d models.AlertDraft) {
				assert.Equal(t, "2024-03-05 08:15", d.Time)
				assert.Equal(t, "Harbour Rd", d.Location)
			},
		},
		{
			name: "CRLF line endings are trimmed",
			body: "Alert type: Low Battery\r\nAccount name: Fleet Co\r\n",
			check: func(t *testing.T, d models.AlertDraft) {
				assert.Equal(t, "Low Battery", d.AlertType)
				assert.Equal(t, "Fleet Co", d.AccountName)
			},
		},
		{
			name: "Malformed coordinates leave both empty",
			body: "Latitude, Longitude: north, west\nTracker Name: Bike9",
			check: func(t *testing.T, d models.AlertDraft) {
				assert.Empty(t, d.Latitude)
				assert.Empty(t, d.Longitude)
				assert.Equal(t, "Bike9", d.TrackerName)
			},
		},
		{
			name: "Coordinates without space after comma",
			body: "Latitude, Longitude: -33.8688,151.2093",
			check: func(t *testing.T, d models.AlertDraft) {
				assert.Equal(t, "-33.8688", d.Latitude)
				assert.Equal(t, "151.2093", d.Longitude)
			},
		},
		{
			name: "First occurrence wins",
			body: "Tracker Name: First\nTracker Name: Second",
			check: func(t *testing.T, d models.AlertDraft) {
				assert.Equal(t, "First", d.TrackerName)
			},
		},
		{
			name: "Labels are case sensitive",
			body: "alert type: Motion\nTRACKER NAME: Bike1",
			check: func(t *testing.T, d models.AlertDraft) {
				assert.Empty(t, d.AlertType)
				assert.Empty(t, d.TrackerName)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, Extract(tt.body))
		})
	}
}
