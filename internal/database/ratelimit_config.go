package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/enablementhq/tracker-api/internal/models"
)

// A single row keyed by "default" holds the API-wide rate. Per-route or
// per-user rates would add more keys, hence the key column.
const defaultRatelimitConfigKey = "default"

// RatelimitConfigRepository reads and writes the stored API rate limit.
// The server's rate limit reloader polls Get; `tracker-configure ratelimit
// set` writes through Set.
type RatelimitConfigRepository struct {
	db *DB
}

func NewRatelimitConfigRepository(db *DB) *RatelimitConfigRepository {
	return &RatelimitConfigRepository{db: db}
}

// Get returns the stored rate limit, or (nil, nil) when none has been
// configured yet.
func (r *RatelimitConfigRepository) Get(ctx context.Context) (*models.RatelimitConfig, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT config_key, rate, created_at, updated_at
		FROM ratelimit_config WHERE config_key = $1
	`, defaultRatelimitConfigKey)

	cfg := &models.RatelimitConfig{}
	switch err := row.Scan(&cfg.ConfigKey, &cfg.Rate, &cfg.CreatedAt, &cfg.UpdatedAt); {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("get ratelimit config: %w", err)
	}
	return cfg, nil
}

// Set upserts the rate limit. The rate is stored in ulule/limiter
// formatted form, e.g. "5-S" or "100-M"; callers validate the format,
// this layer only rejects blanks.
func (r *RatelimitConfigRepository) Set(ctx context.Context, cfg *models.RatelimitConfig) error {
	rate := strings.TrimSpace(cfg.Rate)
	if rate == "" {
		return fmt.Errorf("rate cannot be empty")
	}

	now := time.Now()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO ratelimit_config (config_key, rate, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (config_key) DO UPDATE SET
			rate = EXCLUDED.rate,
			updated_at = EXCLUDED.updated_at
	`, defaultRatelimitConfigKey, rate, now, now)
	if err != nil {
		return fmt.Errorf("set ratelimit config: %w", err)
	}
	return nil
}
