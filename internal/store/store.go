// Package store keeps the process-lifetime collection of alert records.
//
// Records are deduplicated by source message id. Every mutation happens under a
// single lock, so a reader sees either none or all of a batch, and two
// concurrent syncs cannot insert the same message twice.
package store

import (
	"sort"
	"sync"
	"time"

	"tracker-alert-sync/internal/mailparse"
	"tracker-alert-sync/internal/metrics"
	"tracker-alert-sync/internal/models"
)

const defaultExcerptLength = 500

// Store is an append-only, deduplicated, in-memory alert collection
type Store struct {
	mu      sync.RWMutex
	alerts  []models.AlertRecord
	seen    map[string]struct{}
	nextID  int
	now     func() time.Time
	excerpt int
}

// Option configures a Store
type Option func(*Store)

// WithClock overrides the source of IngestedAt timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithExcerptLength sets how many characters of the body are retained per record
func WithExcerptLength(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.excerpt = n
		}
	}
}

// New creates an empty store
func New(opts ...Option) *Store {
	s := &Store{
		seen:    make(map[string]struct{}),
		nextID:  1,
		now:     time.Now,
		excerpt: defaultExcerptLength,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListOptions filters and truncates a listing
type ListOptions struct {
	// Category is matched exactly; "" and models.CategoryAll disable the filter.
	Category string
	// Limit <= 0 means no limit.
	Limit int
}

// Has reports whether a record with the source message id is stored
func (s *Store) Has(sourceID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.seen[sourceID]
	return ok
}

// InsertIfNew stores the candidate unless its source message id is already present
func (s *Store) InsertIfNew(c models.Candidate) (models.AlertRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertLocked(c)
}

// InsertBatch stores every new candidate under one lock and returns the created records.
// Candidates repeating a stored id, or an id earlier in the batch, are dropped.
func (s *Store) InsertBatch(candidates []models.Candidate) []models.AlertRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	var created []models.AlertRecord
	for _, c := range candidates {
		if rec, ok := s.insertLocked(c); ok {
			created = append(created, rec)
		}
	}
	return created
}

func (s *Store) insertLocked(c models.Candidate) (models.AlertRecord, bool) {
	if _, dup := s.seen[c.SourceMessageID]; dup {
		return models.AlertRecord{}, false
	}

	category := c.Category
	if !category.Valid() {
		category = models.CategoryOther
	}

	rec := models.AlertRecord{
		ID:              s.nextID,
		SourceMessageID: c.SourceMessageID,
		Category:        category,
		AlertTime:       c.Draft.Time,
		Location:        c.Draft.Location,
		Latitude:        c.Draft.Latitude,
		Longitude:       c.Draft.Longitude,
		DeviceSerial:    c.Draft.DeviceSerial,
		TrackerName:     c.Draft.TrackerName,
		AccountName:     c.Draft.AccountName,
		IngestedAt:      s.now(),
		RawBodyExcerpt:  mailparse.Excerpt(c.Body, s.excerpt),
	}

	s.nextID++
	s.seen[rec.SourceMessageID] = struct{}{}
	s.alerts = append(s.alerts, rec)

	metrics.AlertsIngested.WithLabelValues(string(category)).Inc()
	metrics.AlertsCached.Set(float64(len(s.alerts)))
	return rec, true
}

// List filters by category, sorts newest first and truncates to the limit.
// Records with identical IngestedAt keep their insertion order.
func (s *Store) List(opts ListOptions) []models.AlertRecord {
	s.mu.RLock()
	out := filter(s.alerts, func(r models.AlertRecord) bool {
		return matchesCategory(r, opts.Category)
	})
	s.mu.RUnlock()

	sortNewestFirst(out)
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out
}

// Count returns the number of records in category ("" or "All" for every record)
func (s *Store) Count(category string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if category == "" || category == models.CategoryAll {
		return len(s.alerts)
	}
	n := 0
	for _, r := range s.alerts {
		if matchesCategory(r, category) {
			n++
		}
	}
	return n
}

// All returns a copy of every record in insertion order
func (s *Store) All() []models.AlertRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.AlertRecord, len(s.alerts))
	copy(out, s.alerts)
	return out
}

// History returns one page of a tracker's records, newest first
func (s *Store) History(trackerName string, page, limit int) ([]models.AlertRecord, models.Pagination) {
	s.mu.RLock()
	out := filter(s.alerts, func(r models.AlertRecord) bool {
		return r.TrackerName == trackerName
	})
	s.mu.RUnlock()

	sortNewestFirst(out)
	p := models.NewPagination(page, limit, len(out))
	start, end := p.Bounds(len(out))
	return out[start:end], p
}

// ClearAll empties the store; the next record gets id 1
func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.alerts = nil
	s.seen = make(map[string]struct{})
	s.nextID = 1
	metrics.AlertsCached.Set(0)
}

func matchesCategory(r models.AlertRecord, category string) bool {
	if category == "" || category == models.CategoryAll {
		return true
	}
	return string(r.Category) == category
}

func filter(records []models.AlertRecord, keep func(models.AlertRecord) bool) []models.AlertRecord {
	out := make([]models.AlertRecord, 0, len(records))
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func sortNewestFirst(records []models.AlertRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].IngestedAt.After(records[j].IngestedAt)
	})
}
