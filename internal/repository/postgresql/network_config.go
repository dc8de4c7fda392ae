package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/network"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const networkConfigColumns = `id, name, ip_address, subnet, is_active, created_at, updated_at`

type networkConfigRepository struct {
	db *database.DB
}

func NewNetworkConfigRepository(db *database.DB) network.ConfigRepository {
	return &networkConfigRepository{db: db}
}

func scanNetworkConfig(row pgx.Row) (network.Config, error) {
	var c network.Config
	err := row.Scan(&c.ID, &c.Name, &c.IPAddress, &c.Subnet, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *networkConfigRepository) list(ctx context.Context, query string) ([]network.Config, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list network configs: %w", err)
	}
	defer rows.Close()

	var configs []network.Config
	for rows.Next() {
		c, err := scanNetworkConfig(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan network config: %w", err)
		}
		configs = append(configs, c)
	}
	return configs, rows.Err()
}

// ListActive implements network.ConfigRepository.
func (r *networkConfigRepository) ListActive(ctx context.Context) ([]network.Config, error) {
	return r.list(ctx, `SELECT `+networkConfigColumns+` FROM network_configs WHERE is_active = TRUE ORDER BY name`)
}

// List implements network.ConfigRepository.
func (r *networkConfigRepository) List(ctx context.Context) ([]network.Config, error) {
	return r.list(ctx, `SELECT `+networkConfigColumns+` FROM network_configs ORDER BY name`)
}

// UpsertByName implements network.ConfigRepository.
func (r *networkConfigRepository) UpsertByName(ctx context.Context, cfg network.Config) (network.Config, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO network_configs (name, ip_address, subnet, is_active)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO UPDATE
		SET ip_address = EXCLUDED.ip_address,
			subnet = EXCLUDED.subnet,
			is_active = EXCLUDED.is_active,
			updated_at = NOW()
		RETURNING ` + networkConfigColumns

	saved, err := scanNetworkConfig(q.QueryRow(ctx, query, cfg.Name, cfg.IPAddress, cfg.Subnet, cfg.IsActive))
	if err != nil {
		return network.Config{}, fmt.Errorf("failed to upsert network config %q: %w", cfg.Name, err)
	}
	return saved, nil
}

// SetActive implements network.ConfigRepository.
func (r *networkConfigRepository) SetActive(ctx context.Context, name string, active bool) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE network_configs SET is_active = $2, updated_at = NOW() WHERE name = $1`, name, active)
	if err != nil {
		return fmt.Errorf("failed to update network config %q: %w", name, err)
	}
	if tag.RowsAffected() == 0 {
		return network.ErrNetworkConfigNotFound
	}
	return nil
}
