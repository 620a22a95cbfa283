package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tracker-alert-sync/internal/aggregate"
	"tracker-alert-sync/internal/logging"
	"tracker-alert-sync/internal/models"
	"tracker-alert-sync/internal/store"
)

// ConfigureRequest carries mailbox credentials
type ConfigureRequest struct {
	Email       string `json:"email" binding:"required"`
	AppPassword string `json:"app_password" binding:"required"`
}

// SyncRequest is the optional body of a sync call
type SyncRequest struct {
	Limit *int `json:"limit"`
}

const (
	bikesDefaultLimit   = 20
	bikesMaxLimit       = 100
	historyDefaultLimit = 50
	historyMaxLimit     = 200
)

// Root reports that the service is up
// GET /
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Bike Tracker API - Gmail IMAP Only",
		"status":  "running",
	})
}

// Health reports credential state and cache size
// GET /api/health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":           "healthy",
		"gmail_configured": h.credentials.Configured(),
		"cached_alerts":    h.store.Count(""),
	})
}

// Configure verifies and stores mailbox credentials
// POST /api/gmail/configure
func (h *Handler) Configure(c *gin.Context) {
	var req ConfigureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	creds := models.Credentials{Email: req.Email, AppPassword: req.AppPassword}
	if err := h.credentials.Configure(c.Request.Context(), creds, h.prober); err != nil {
		logging.Log.WithError(err).Warnf("Mailbox configuration rejected for %s", req.Email)
		respondDetail(c, http.StatusBadRequest, "Gmail connection failed: "+err.Error())
		return
	}

	logging.Log.Infof("Mailbox configured: %s", req.Email)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Gmail configured successfully",
	})
}

// Sync pulls new alerts from the mailbox
// POST /api/gmail/sync
func (h *Handler) Sync(c *gin.Context) {
	limit := h.config.Sync.DefaultLimit

	var req SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Limit != nil {
		if *req.Limit < 1 {
			respondError(c, http.StatusBadRequest, &models.ValidationError{Field: "limit", Message: "must be at least 1"})
			return
		}
		limit = *req.Limit
	}

	// a client disconnect must not discard a half-finished mailbox session
	ctx := context.WithoutCancel(c.Request.Context())
	result, err := h.syncer.Sync(ctx, limit)
	if err != nil {
		if errors.Is(err, models.ErrNotConfigured) {
			respondError(c, http.StatusBadRequest, err)
			return
		}
		respondDetail(c, http.StatusInternalServerError, "Sync failed: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      fmt.Sprintf("%d new alerts synced", result.NewAlerts),
		"new_alerts":   result.NewAlerts,
		"total_cached": result.TotalCached,
	})
}

// ListAlerts returns the newest alerts with headline stats over the returned set
// GET /api/alerts/list?category=Motion&limit=5000
func (h *Handler) ListAlerts(c *gin.Context) {
	limit, err := queryInt(c, "limit", h.config.Sync.ListDefaultLimit, 1, h.config.Sync.ListMaxLimit)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	alerts := h.store.List(store.ListOptions{
		Category: c.Query("category"),
		Limit:    limit,
	})

	email := h.credentials.Email()
	c.JSON(http.StatusOK, gin.H{
		"alerts":    alerts,
		"stats":     aggregate.Headline(alerts),
		"connected": email != "",
		"email":     email,
	})
}

// Categories returns the taxonomy and per-category counts over the whole store
// GET /api/alerts/categories
func (h *Handler) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories": models.Categories(),
		"stats":      aggregate.CategoryStats(h.store.All()),
	})
}

// ClearAll empties the store
// DELETE /api/alerts/clear-all
func (h *Handler) ClearAll(c *gin.Context) {
	h.store.ClearAll()
	logging.Log.Info("Alert cache cleared")
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "All alerts cleared from cache",
	})
}

// ListBikes returns every bike, most recently active first
// GET /api/bikes/list
func (h *Handler) ListBikes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"bikes": aggregate.BikeSummaries(h.store.All()),
	})
}

// PaginatedBikes returns one page of bikes
// GET /api/bikes/paginated?page=1&limit=20&sort_by=newest&category=Motion&search=bike
func (h *Handler) PaginatedBikes(c *gin.Context) {
	page, err := queryInt(c, "page", 1, 1, 0)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	limit, err := queryInt(c, "limit", bikesDefaultLimit, 1, bikesMaxLimit)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	sortBy := c.DefaultQuery("sort_by", aggregate.SortNewest)
	if !aggregate.ValidSort(sortBy) {
		respondError(c, http.StatusBadRequest, &models.ValidationError{Field: "sort_by", Message: "must be one of newest, oldest, alerts, device"})
		return
	}

	c.JSON(http.StatusOK, aggregate.Bikes(h.store.All(), aggregate.BikeQuery{
		Page:     page,
		Limit:    limit,
		SortBy:   sortBy,
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}))
}

// BikeHistory returns one page of a bike's alerts, newest first
// GET /api/bikes/:tracker_name/history?page=1&limit=50
func (h *Handler) BikeHistory(c *gin.Context) {
	page, err := queryInt(c, "page", 1, 1, 0)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	limit, err := queryInt(c, "limit", historyDefaultLimit, 1, historyMaxLimit)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	tracker := c.Param("tracker_name")
	alerts, pagination := h.store.History(tracker, page, limit)
	if pagination.Total == 0 {
		respondDetail(c, http.StatusNotFound, "No alerts found for bike "+tracker)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tracker_name": tracker,
		"alerts":       alerts,
		"pagination":   pagination,
	})
}

// queryInt parses an integer query parameter within [lo, hi]. A hi of 0 means unbounded.
func queryInt(c *gin.Context, name string, def, lo, hi int) (int, error) {
	raw, ok := c.GetQuery(name)
	if !ok {
		return def, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &models.ValidationError{Field: name, Message: "must be an integer"}
	}
	if v < lo || (hi > 0 && v > hi) {
		msg := fmt.Sprintf("must be at least %d", lo)
		if hi > 0 {
			msg = fmt.Sprintf("must be between %d and %d", lo, hi)
		}
		return 0, &models.ValidationError{Field: name, Message: msg}
	}
	return v, nil
}

func respondError(c *gin.Context, status int, err error) {
	respondDetail(c, status, err.Error())
}

func respondDetail(c *gin.Context, status int, detail string) {
	c.JSON(status, gin.H{"detail": detail})
}
