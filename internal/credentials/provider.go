// Package credentials holds the mailbox login in memory for the life of the process.
package credentials

import (
	"context"
	"sync"

	"tracker-alert-sync/internal/models"
)

// Prober proves that credentials can open a mailbox session
type Prober interface {
	Probe(ctx context.Context, creds models.Credentials) error
}

// Provider guards the current credentials. The password is never exposed except through Get.
type Provider struct {
	mu    sync.RWMutex
	creds models.Credentials
}

// NewProvider creates a Provider seeded with initial, which may be empty
func NewProvider(initial models.Credentials) *Provider {
	return &Provider{creds: initial}
}

// Get returns the current credentials and whether they are complete
func (p *Provider) Get() (models.Credentials, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.creds, p.creds.IsSet()
}

// Email returns the configured mailbox address, "" when unset
func (p *Provider) Email() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.creds.Email
}

// Configured reports whether a mailbox address is set
func (p *Provider) Configured() bool {
	return p.Email() != ""
}

// Configure replaces the credentials once prober accepts them. On failure the
// previous credentials stay in place.
func (p *Provider) Configure(ctx context.Context, creds models.Credentials, prober Prober) error {
	if err := prober.Probe(ctx, creds); err != nil {
		return err
	}

	p.mu.Lock()
	p.creds = creds
	p.mu.Unlock()
	return nil
}
