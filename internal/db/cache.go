package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// cacheMaxAge is how long a stored aggregation stays servable before a
// recompute is forced. The engine itself is stateless; this table is the
// external read-through cache layered above it.
const cacheMaxAge = 24 * time.Hour

// GetCityStatsCache returns the cached aggregation payload for a city, or
// ok=false when there is no entry or the entry is older than 24 hours.
func (db *DB) GetCityStatsCache(ctx context.Context, city, country string) ([]byte, bool, error) {
	var payload []byte
	var lastUpdate time.Time
	err := db.pool.QueryRow(ctx,
		`SELECT payload, last_data_update FROM city_stats_cache
		 WHERE LOWER(city) = LOWER($1) AND LOWER(country) = LOWER($2)`,
		city, country,
	).Scan(&payload, &lastUpdate)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get city stats cache: %w", err)
	}

	if time.Since(lastUpdate) > cacheMaxAge {
		return nil, false, nil
	}
	return payload, true, nil
}

// SaveCityStatsCache stores a freshly computed aggregation for a city,
// replacing any previous entry.
func (db *DB) SaveCityStatsCache(ctx context.Context, city, country string, stats any) error {
	jsonBytes, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal city stats: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO city_stats_cache (city, country, payload, last_data_update)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (city, country) DO UPDATE SET payload = $3, last_data_update = NOW()`,
		city, country, jsonBytes,
	)
	if err != nil {
		return fmt.Errorf("failed to save city stats cache: %w", err)
	}
	return nil
}
