package credentials

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tracker-alert-sync/internal/models"
)

type fakeProber struct {
	err   error
	calls []models.Credentials
}

func (f *fakeProber) Probe(_ context.Context, creds models.Credentials) error {
	f.calls = append(f.calls, creds)
	return f.err
}

func TestProvider_Empty(t *testing.T) {
	p := NewProvider(models.Credentials{})

	_, ok := p.Get()
	assert.False(t, ok)
	assert.False(t, p.Configured())
	assert.Equal(t, "", p.Email())
}

func TestProvider_ConfigureCommitsAfterProbe(t *testing.T) {
	p := NewProvider(models.Credentials{})
	prober := &fakeProber{}
	creds := models.Credentials{Email: "fleet@example.com", AppPassword: "abcd efgh"}

	require.NoError(t, p.Configure(context.Background(), creds, prober))

	got, ok := p.Get()
	assert.True(t, ok)
	assert.Equal(t, creds, got)
	assert.Equal(t, []models.Credentials{creds}, prober.calls)
	assert.True(t, p.Configured())
}

func TestProvider_ConfigureKeepsPreviousOnFailure(t *testing.T) {
	old := models.Credentials{Email: "old@example.com", AppPassword: "old"}
	p := NewProvider(old)
	prober := &fakeProber{err: &models.ConnectionError{Op: "login", Err: errors.New("bad password")}}

	err := p.Configure(context.Background(), models.Credentials{Email: "new@example.com", AppPassword: "new"}, prober)

	var connErr *models.ConnectionError
	require.ErrorAs(t, err, &connErr)
	got, _ := p.Get()
	assert.Equal(t, old, got)
}

func TestProvider_PartialCredentialsAreNotUsable(t *testing.T) {
	p := NewProvider(models.Credentials{Email: "only@example.com"})

	_, ok := p.Get()
	assert.False(t, ok)
	assert.True(t, p.Configured())
}
