package network

import (
	"context"
	"errors"
	"testing"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConfigRepo struct {
	listActiveFn func(ctx context.Context) ([]network.Config, error)
	calls        int
}

func (f *fakeConfigRepo) ListActive(ctx context.Context) ([]network.Config, error) {
	f.calls++
	return f.listActiveFn(ctx)
}
func (f *fakeConfigRepo) List(ctx context.Context) ([]network.Config, error) {
	return f.listActiveFn(ctx)
}
func (f *fakeConfigRepo) UpsertByName(ctx context.Context, c network.Config) (network.Config, error) {
	return c, nil
}
func (f *fakeConfigRepo) SetActive(ctx context.Context, name string, active bool) error { return nil }

func reposWith(configs ...network.Config) *fakeConfigRepo {
	return &fakeConfigRepo{listActiveFn: func(ctx context.Context) ([]network.Config, error) {
		return configs, nil
	}}
}

func TestCheck_Policies(t *testing.T) {
	ctx := context.Background()
	office := cfg("192.168.1.0", strPtr("/24"))

	t.Run("allowed inside configured network", func(t *testing.T) {
		svc := NewNetworkService(reposWith(office), network.Policy{})
		assert.NoError(t, svc.Check(ctx, "192.168.1.9"))
	})

	t.Run("denied outside configured network", func(t *testing.T) {
		svc := NewNetworkService(reposWith(office), network.Policy{})
		assert.ErrorIs(t, svc.Check(ctx, "192.168.9.9"), network.ErrNetworkDenied)
	})

	t.Run("malformed address denied without touching storage", func(t *testing.T) {
		repo := reposWith(office)
		svc := NewNetworkService(repo, network.Policy{})
		assert.ErrorIs(t, svc.Check(ctx, "300.1.1.1"), network.ErrNetworkDenied)
		assert.Equal(t, 0, repo.calls)
	})

	t.Run("fail closed with no configs", func(t *testing.T) {
		svc := NewNetworkService(reposWith(), network.Policy{})
		err := svc.Check(ctx, "192.168.1.9")
		assert.ErrorIs(t, err, network.ErrNoNetworkConfigured)
		assert.ErrorIs(t, err, network.ErrNetworkDenied)
	})

	t.Run("fail open with no configs", func(t *testing.T) {
		svc := NewNetworkService(reposWith(), network.Policy{FailOpen: true})
		assert.NoError(t, svc.Check(ctx, "8.8.8.8"))
	})

	t.Run("fail open does not apply once configs exist", func(t *testing.T) {
		svc := NewNetworkService(reposWith(office), network.Policy{FailOpen: true})
		assert.ErrorIs(t, svc.Check(ctx, "8.8.8.8"), network.ErrNetworkDenied)
	})

	t.Run("disabled admits anything", func(t *testing.T) {
		svc := NewNetworkService(reposWith(office), network.Policy{Disabled: true})
		assert.NoError(t, svc.Check(ctx, "garbage"))
	})

	t.Run("loopback allowed by policy", func(t *testing.T) {
		svc := NewNetworkService(reposWith(office), network.Policy{AllowLoopback: true})
		assert.NoError(t, svc.Check(ctx, "::1"))
	})

	t.Run("require private rejects public address", func(t *testing.T) {
		svc := NewNetworkService(reposWith(cfg("8.8.8.8", nil)), network.Policy{RequirePrivate: true})
		assert.ErrorIs(t, svc.Check(ctx, "8.8.8.8"), network.ErrNetworkDenied)
	})

	t.Run("storage failure is not a denial", func(t *testing.T) {
		boom := errors.New("connection refused")
		repo := &fakeConfigRepo{listActiveFn: func(ctx context.Context) ([]network.Config, error) { return nil, boom }}
		svc := NewNetworkService(repo, network.Policy{})
		err := svc.Check(ctx, "192.168.1.9")
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, network.ErrNetworkDenied)
	})
}

func TestClassify(t *testing.T) {
	svc := NewNetworkService(reposWith(cfg("192.168.1.0", strPtr("/24"))), network.Policy{})

	c, err := svc.Classify(context.Background(), "::ffff:192.168.1.7")
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.7", c.IP)
	assert.True(t, c.Valid)
	assert.True(t, c.Private)
	assert.True(t, c.Allowed)
	assert.Empty(t, c.DenyReason)

	c, err = svc.Classify(context.Background(), "8.8.4.4")
	require.NoError(t, err)
	assert.False(t, c.Private)
	assert.False(t, c.Allowed)
	assert.NotEmpty(t, c.DenyReason)
}
