package models

import "time"

// AlertDraft holds the labeled fields captured from a notification body.
// Every field defaults to the empty string.
type AlertDraft struct {
	AlertType    string
	Time         string
	Location     string
	Latitude     string
	Longitude    string
	DeviceSerial string
	TrackerName  string
	AccountName  string
}

// Candidate is a processed message waiting to be inserted into the store
type Candidate struct {
	SourceMessageID string
	Draft           AlertDraft
	Category        Category
	Body            string
}

// AlertRecord is the canonical, immutable alert kept in the store
type AlertRecord struct {
	ID              int       `json:"id"`
	SourceMessageID string    `json:"email_id"`
	Category        Category  `json:"alert_type"`
	AlertTime       string    `json:"alert_time"`
	Location        string    `json:"location"`
	Latitude        string    `json:"latitude"`
	Longitude       string    `json:"longitude"`
	DeviceSerial    string    `json:"device_serial"`
	TrackerName     string    `json:"tracker_name"`
	AccountName     string    `json:"account_name"`
	IngestedAt      time.Time `json:"created_at"`
	RawBodyExcerpt  string    `json:"raw_body"`
}

// BikeSummary is the per-tracker rollup derived from the current records
type BikeSummary struct {
	TrackerName   string    `json:"tracker_name"`
	DeviceSerial  string    `json:"device_serial"`
	LatestAlertAt time.Time `json:"latest_alert_at"`
	AlertCount    int       `json:"alert_count"`
	AlertTypes    string    `json:"alert_types,omitempty"`
}

// RawMessage is a message as fetched from the mailbox
type RawMessage struct {
	SourceID string
	Raw      []byte
}

// Credentials are the mailbox login secrets. They are opaque to the pipeline.
type Credentials struct {
	Email       string
	AppPassword string
}

// IsSet reports whether both the address and the password are present
func (c Credentials) IsSet() bool {
	return c.Email != "" && c.AppPassword != ""
}
