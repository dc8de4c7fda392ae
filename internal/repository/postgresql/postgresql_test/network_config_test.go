package postgresql_test

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/network"
	"github.com/cmlabs-hris/presence-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetworkConfigRepository_UpsertAndDeactivate(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewNetworkConfigRepository(setup.DB)

	subnet := "/24"
	_, err := repo.UpsertByName(ctx, network.Config{Name: "hq", IPAddress: "192.168.1.0", Subnet: &subnet, IsActive: true})
	require.NoError(t, err)
	updated, err := repo.UpsertByName(ctx, network.Config{Name: "hq", IPAddress: "10.0.0.0", Subnet: &subnet, IsActive: true})
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.0", updated.IPAddress)

	_, err = repo.UpsertByName(ctx, network.Config{Name: "lab", IPAddress: "172.16.0.5", IsActive: true})
	require.NoError(t, err)

	require.NoError(t, repo.SetActive(ctx, "lab", false))
	assert.ErrorIs(t, repo.SetActive(ctx, "missing", false), network.ErrNetworkConfigNotFound)

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "hq", active[0].Name)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestWithTransaction_RollsBack(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewNetworkConfigRepository(setup.DB)

	err := postgresql.WithTransaction(ctx, setup.DB, func(txCtx context.Context) error {
		if _, err := repo.UpsertByName(txCtx, network.Config{Name: "tmp", IPAddress: "10.1.1.1", IsActive: true}); err != nil {
			return err
		}
		return repo.SetActive(txCtx, "missing", true)
	})
	assert.ErrorIs(t, err, network.ErrNetworkConfigNotFound)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
