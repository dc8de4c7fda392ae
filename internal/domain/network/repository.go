package network

import "context"

type ConfigRepository interface {
	ListActive(ctx context.Context) ([]Config, error)
	List(ctx context.Context) ([]Config, error)
	// UpsertByName inserts or replaces the config with the same name.
	UpsertByName(ctx context.Context, cfg Config) (Config, error)
	SetActive(ctx context.Context, name string, active bool) error
}
