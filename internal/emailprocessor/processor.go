package emailprocessor

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"tracker-alert-sync/internal/classifier"
	"tracker-alert-sync/internal/extractor"
	imapclient "tracker-alert-sync/internal/imap"
	"tracker-alert-sync/internal/logging"
	"tracker-alert-sync/internal/mailparse"
	"tracker-alert-sync/internal/metrics"
	"tracker-alert-sync/internal/models"
	"tracker-alert-sync/internal/store"
)

// MessageSource fetches candidate messages in a single mailbox session
type MessageSource interface {
	FetchCandidates(ctx context.Context, creds models.Credentials, req imapclient.FetchRequest) ([]models.RawMessage, error)
}

// CredentialSource supplies the current mailbox login
type CredentialSource interface {
	Get() (models.Credentials, bool)
}

// SyncResult reports the outcome of one sync run
type SyncResult struct {
	NewAlerts   int
	TotalCached int
}

type Processor struct {
	source      MessageSource
	credentials CredentialSource
	store       *store.Store
	sender      string
}

// NewProcessor creates a new Processor that pulls alerts from sender into the store
func NewProcessor(source MessageSource, credentials CredentialSource, st *store.Store, sender string) *Processor {
	return &Processor{
		source:      source,
		credentials: credentials,
		store:       st,
		sender:      sender,
	}
}

// Sync orchestrates one run of the pipeline:
// fetch → decode → extract → classify → insert.
//
// Messages already in the store are not fetched again. New records are committed
// in one batch after the mailbox session has closed.
func (p *Processor) Sync(ctx context.Context, limit int) (SyncResult, error) {
	started := time.Now()
	defer func() { metrics.SyncDuration.Observe(time.Since(started).Seconds()) }()

	locallog := logging.Log.WithField("trace_id", uuid.New().String())

	creds, ok := p.credentials.Get()
	if !ok {
		metrics.SyncRuns.WithLabelValues(metrics.ResultNotConfigured).Inc()
		return SyncResult{}, models.ErrNotConfigured
	}

	locallog.Infof("Starting sync of up to %d messages for %s", limit, creds.Email)

	raws, err := p.source.FetchCandidates(ctx, creds, imapclient.FetchRequest{
		Sender: p.sender,
		Limit:  limit,
		Skip:   p.store.Has,
		Log:    locallog,
	})
	if err != nil {
		metrics.SyncRuns.WithLabelValues(metrics.ResultMailboxError).Inc()
		locallog.WithError(err).Error("Mailbox sync failed")
		var connErr *models.ConnectionError
		if errors.As(err, &connErr) || errors.Is(err, models.ErrNotConfigured) {
			return SyncResult{}, err
		}
		return SyncResult{}, &models.ConnectionError{Op: "fetch", Err: err}
	}

	candidates := make([]models.Candidate, 0, len(raws))
	for _, raw := range raws {
		candidates = append(candidates, p.ProcessMessage(raw, locallog))
	}

	created := p.store.InsertBatch(candidates)
	result := SyncResult{
		NewAlerts:   len(created),
		TotalCached: p.store.Count(""),
	}

	metrics.SyncRuns.WithLabelValues(metrics.ResultSuccess).Inc()
	locallog.Infof("Synced %d new alerts, %d cached", result.NewAlerts, result.TotalCached)
	return result, nil
}

// ProcessMessage turns one raw message into a store candidate. It never fails:
// an undecodable message becomes a candidate with empty fields, classified Other.
func (p *Processor) ProcessMessage(raw models.RawMessage, locallog *logrus.Entry) models.Candidate {
	body := mailparse.DecodeBody(raw.Raw)
	draft := extractor.Extract(body)
	category := classifier.Classify(draft.AlertType)

	entry := locallog.WithField("source_id", raw.SourceID)
	if body == "" {
		entry.Warn("Message has no plain-text body")
	}
	entry.WithFields(logrus.Fields{
		"subject":  mailparse.DecodeSubject(raw.Raw),
		"category": category,
		"tracker":  draft.TrackerName,
	}).Debug("Message processed")

	return models.Candidate{
		SourceMessageID: raw.SourceID,
		Draft:           draft,
		Category:        category,
		Body:            body,
	}
}
