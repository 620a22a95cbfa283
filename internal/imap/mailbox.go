package imap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/emersion/go-imap"
	"github.com/sirupsen/logrus"

	"tracker-alert-sync/internal/logging"
	"tracker-alert-sync/internal/metrics"
	"tracker-alert-sync/internal/models"
)

// FetchRequest selects the candidate messages of one session
type FetchRequest struct {
	Sender string
	Limit  int
	// Skip reports source ids that are already known; they are not fetched.
	Skip func(sourceID string) bool
	// Log carries the caller's trace fields; nil uses the global logger.
	Log *logrus.Entry
}

// Mailbox opens one IMAP session per call against a fixed server and folder.
type Mailbox struct {
	server    string
	folder    string
	newClient func() Client
}

// NewMailbox creates a Mailbox backed by StandardClient sessions
func NewMailbox(cfg models.EmailConfig) *Mailbox {
	timeout := cfg.FetchTimeout
	return &Mailbox{
		server: cfg.Imap,
		folder: cfg.MailBox,
		newClient: func() Client {
			return NewStandardClient(timeout)
		},
	}
}

// NewMailboxWithClient creates a Mailbox whose sessions come from newClient
func NewMailboxWithClient(server, folder string, newClient func() Client) *Mailbox {
	return &Mailbox{
		server:    server,
		folder:    folder,
		newClient: newClient,
	}
}

// Probe proves the credentials by logging in and out again
func (m *Mailbox) Probe(_ context.Context, creds models.Credentials) error {
	client, err := m.open(creds)
	if err != nil {
		return err
	}
	if err := client.Close(); err != nil {
		return &models.ConnectionError{Op: "logout", Err: err}
	}
	return nil
}

// FetchCandidates returns the raw bytes of the most recent req.Limit messages from req.Sender.
//
// UIDs are assumed to ascend with arrival order, so the newest matches are the
// last ones. A message that fails to fetch is logged and skipped; failures that
// prevent the session itself are returned as *models.ConnectionError.
func (m *Mailbox) FetchCandidates(ctx context.Context, creds models.Credentials, req FetchRequest) ([]models.RawMessage, error) {
	locallog := req.Log
	if locallog == nil {
		locallog = logrus.NewEntry(logging.Log)
	}

	client, err := m.open(creds)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := client.Close(); err != nil {
			locallog.WithError(err).Warn("IMAP logout failed")
		}
	}()

	uids, err := client.SearchFrom(req.Sender)
	if err != nil {
		return nil, &models.ConnectionError{Op: "search", Err: err}
	}

	uids = newest(uids, req.Limit)
	locallog.Infof("Found %d candidate messages from %s", len(uids), req.Sender)

	var out []models.RawMessage
	for _, uid := range uids {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		sourceID := strconv.FormatUint(uint64(uid), 10)
		if req.Skip != nil && req.Skip(sourceID) {
			metrics.DuplicatesSkipped.Inc()
			continue
		}

		raw, err := fetchRaw(client, uid)
		if err != nil {
			metrics.MessageErrors.Inc()
			msgErr := &models.MessageError{SourceID: sourceID, Err: err}
			locallog.WithField("source_id", sourceID).WithError(msgErr).Error("Skipping message")
			continue
		}

		metrics.MessagesFetched.Inc()
		out = append(out, models.RawMessage{SourceID: sourceID, Raw: raw})
	}

	return out, nil
}

// open connects, logs in and selects the folder. The client is closed on failure.
func (m *Mailbox) open(creds models.Credentials) (Client, error) {
	if !creds.IsSet() {
		return nil, models.ErrNotConfigured
	}

	client := m.newClient()
	if err := client.Connect(m.server); err != nil {
		return nil, &models.ConnectionError{Op: "connect", Err: err}
	}

	if err := client.Login(creds.Email, creds.AppPassword); err != nil {
		_ = client.Close()
		return nil, &models.ConnectionError{Op: "login", Err: err}
	}

	if err := client.SelectMailbox(m.folder); err != nil {
		_ = client.Close()
		return nil, &models.ConnectionError{Op: "select " + m.folder, Err: err}
	}

	return client, nil
}

func fetchRaw(client Client, uid uint32) ([]byte, error) {
	msg, err := client.FetchMessage(uid)
	if err != nil {
		return nil, err
	}

	r := msg.GetBody(&imap.BodySectionName{})
	if r == nil {
		return nil, errors.New("message body could not be retrieved")
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading message UID %d: %w", uid, err)
	}
	return raw, nil
}

// newest sorts uids ascending and keeps the last limit of them. A limit <= 0 keeps all.
func newest(uids []uint32, limit int) []uint32 {
	sorted := make([]uint32, len(uids))
	copy(sorted, uids)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	if limit > 0 && len(sorted) > limit {
		sorted = sorted[len(sorted)-limit:]
	}
	return sorted
}
