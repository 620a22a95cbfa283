package store

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tracker-alert-sync/internal/models"
)

// steppingClock returns a clock that advances one second per call
func steppingClock() func() time.Time {
	var mu sync.Mutex
	current := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Second)
		return current
	}
}

func candidate(id string, category models.Category, tracker string) models.Candidate {
	return models.Candidate{
		SourceMessageID: id,
		Category:        category,
		Draft:           models.AlertDraft{TrackerName: tracker, DeviceSerial: "SN-" + tracker},
		Body:            "Alert body " + id,
	}
}

func TestInsertIfNew_Dedup(t *testing.T) {
	s := New(WithClock(steppingClock()))

	rec, ok := s.InsertIfNew(candidate("10", models.CategoryMotion, "Bike1"))
	require.True(t, ok)
	assert.Equal(t, 1, rec.ID)
	assert.Equal(t, "10", rec.SourceMessageID)
	assert.Equal(t, "Bike1", rec.TrackerName)
	assert.Equal(t, "Alert body 10", rec.RawBodyExcerpt)

	_, ok = s.InsertIfNew(candidate("10", models.CategoryOther, "Bike2"))
	assert.False(t, ok)
	assert.Equal(t, 1, s.Count(""))
	assert.True(t, s.Has("10"))
	assert.False(t, s.Has("11"))
}

func TestInsertIfNew_EmptyCandidate(t *testing.T) {
	s := New()

	rec, ok := s.InsertIfNew(models.Candidate{SourceMessageID: "1", Category: models.CategoryOther})
	require.True(t, ok)
	assert.Equal(t, models.CategoryOther, rec.Category)
	assert.Empty(t, rec.TrackerName)
	assert.Empty(t, rec.AlertTime)
	assert.False(t, rec.IngestedAt.IsZero())
}

func TestInsertIfNew_OutOfTaxonomyCategoryBecomesOther(t *testing.T) {
	s := New()

	rec, ok := s.InsertIfNew(models.Candidate{SourceMessageID: "1", Category: "Bogus"})
	require.True(t, ok)
	assert.Equal(t, models.CategoryOther, rec.Category)
}

func TestInsertBatch(t *testing.T) {
	s := New(WithClock(steppingClock()))
	s.InsertIfNew(candidate("1", models.CategoryMotion, "Bike1"))

	created := s.InsertBatch([]models.Candidate{
		candidate("1", models.CategoryMotion, "Bike1"),
		candidate("2", models.CategoryTamper, "Bike2"),
		candidate("2", models.CategoryTamper, "Bike2"),
		candidate("3", models.CategoryOther, ""),
	})

	require.Len(t, created, 2)
	assert.Equal(t, 2, created[0].ID)
	assert.Equal(t, 3, created[1].ID)
	assert.Equal(t, 3, s.Count(models.CategoryAll))
}

func TestIDsStrictlyIncrease(t *testing.T) {
	s := New()
	for i := 0; i < 20; i++ {
		s.InsertIfNew(candidate(fmt.Sprint(i), models.CategoryOther, ""))
	}

	all := s.All()
	require.Len(t, all, 20)
	for i := 1; i < len(all); i++ {
		assert.Greater(t, all[i].ID, all[i-1].ID)
	}
}

func TestClearAll_RestartsNumbering(t *testing.T) {
	s := New()
	s.InsertIfNew(candidate("a", models.CategoryMotion, "Bike1"))
	s.InsertIfNew(candidate("b", models.CategoryMotion, "Bike1"))

	s.ClearAll()
	assert.Equal(t, 0, s.Count(""))
	assert.Empty(t, s.All())
	assert.False(t, s.Has("a"))

	rec, ok := s.InsertIfNew(candidate("a", models.CategoryMotion, "Bike1"))
	require.True(t, ok)
	assert.Equal(t, 1, rec.ID)
}

func TestList_FilterSortLimit(t *testing.T) {
	s := New(WithClock(steppingClock()))
	s.InsertIfNew(candidate("1", models.CategoryMotion, "Bike1"))
	s.InsertIfNew(candidate("2", models.CategoryOther, "Bike1"))
	s.InsertIfNew(candidate("3", models.CategoryOther, "Bike2"))
	s.InsertIfNew(candidate("4", models.CategoryMotion, "Bike2"))
	s.InsertIfNew(candidate("5", models.CategoryOther, "Bike3"))

	motion := s.List(ListOptions{Category: string(models.CategoryMotion)})
	require.Len(t, motion, 2)
	assert.Equal(t, "4", motion[0].SourceMessageID)
	assert.Equal(t, "1", motion[1].SourceMessageID)

	all := s.List(ListOptions{Category: models.CategoryAll})
	require.Len(t, all, 5)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].IngestedAt.After(all[i-1].IngestedAt))
	}

	limited := s.List(ListOptions{Limit: 2})
	require.Len(t, limited, 2)
	assert.Equal(t, "5", limited[0].SourceMessageID)
	assert.Equal(t, "4", limited[1].SourceMessageID)

	assert.Empty(t, s.List(ListOptions{Category: "Humidity"}))
	assert.Equal(t, 3, s.Count(string(models.CategoryOther)))
}

func TestList_TiesKeepInsertionOrder(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	s := New(WithClock(func() time.Time { return fixed }))
	for _, id := range []string{"x", "y", "z"} {
		s.InsertIfNew(candidate(id, models.CategoryOther, ""))
	}

	got := s.List(ListOptions{})
	require.Len(t, got, 3)
	assert.Equal(t, []string{"x", "y", "z"}, []string{got[0].SourceMessageID, got[1].SourceMessageID, got[2].SourceMessageID})
}

func TestList_ReturnsCopy(t *testing.T) {
	s := New()
	s.InsertIfNew(candidate("1", models.CategoryMotion, "Bike1"))

	got := s.List(ListOptions{})
	got[0].TrackerName = "mutated"

	assert.Equal(t, "Bike1", s.All()[0].TrackerName)
}

func TestExcerptLength(t *testing.T) {
	s := New(WithExcerptLength(5))

	rec, ok := s.InsertIfNew(models.Candidate{SourceMessageID: "1", Body: strings.Repeat("é", 10)})
	require.True(t, ok)
	assert.Equal(t, "ééééé", rec.RawBodyExcerpt)
}

func TestHistory(t *testing.T) {
	s := New(WithClock(steppingClock()))
	for i := 1; i <= 5; i++ {
		s.InsertIfNew(candidate(fmt.Sprint(i), models.CategoryMotion, "Bike1"))
	}
	s.InsertIfNew(candidate("other", models.CategoryMotion, "Bike2"))

	page, p := s.History("Bike1", 1, 2)
	require.Len(t, page, 2)
	assert.Equal(t, "5", page[0].SourceMessageID)
	assert.Equal(t, "4", page[1].SourceMessageID)
	assert.Equal(t, models.Pagination{Page: 1, Limit: 2, Total: 5, TotalPages: 3, HasNext: true, HasPrev: false}, p)

	page, p = s.History("Bike1", 3, 2)
	require.Len(t, page, 1)
	assert.Equal(t, "1", page[0].SourceMessageID)
	assert.False(t, p.HasNext)
	assert.True(t, p.HasPrev)

	page, p = s.History("Bike1", 9, 2)
	assert.Empty(t, page)
	assert.Equal(t, 5, p.Total)

	page, p = s.History("Missing", 1, 10)
	assert.Empty(t, page)
	assert.Equal(t, 0, p.TotalPages)
}

func TestConcurrentOverlappingBatches(t *testing.T) {
	s := New()

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var batch []models.Candidate
			for i := 0; i < 50; i++ {
				batch = append(batch, candidate(fmt.Sprint(i), models.CategoryMotion, "Bike1"))
			}
			s.InsertBatch(batch)
			_ = s.List(ListOptions{Limit: 10})
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			n := len(s.List(ListOptions{}))
			assert.Zero(t, n%50, "listing observed a partial batch of %d", n)
		}
	}()
	wg.Wait()

	all := s.All()
	require.Len(t, all, 50)
	ids := map[string]bool{}
	for _, r := range all {
		assert.False(t, ids[r.SourceMessageID], "duplicate %s", r.SourceMessageID)
		ids[r.SourceMessageID] = true
	}
}
