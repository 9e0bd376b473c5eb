package projection

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/teamdesk/platform/internal/repository"
)

type postgresStore struct {
	db repository.DBTX
}

// NewPostgresStore keeps projections in the projections table created by
// the 000002 migration.
func NewPostgresStore(db repository.DBTX) Store {
	return &postgresStore{db: db}
}

func (s *postgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRow(ctx, `
		SELECT value FROM projections
		WHERE key = $1 AND (expires_at IS NULL OR expires_at > now())`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("get %s: %w", key, ErrMissing)
	}
	if err != nil {
		return nil, fmt.Errorf("select projection: %w", err)
	}
	return value, nil
}

func (s *postgresStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	var expires *time.Time
	if ttl > 0 {
		t := time.Now().Add(ttl)
		expires = &t
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO projections (key, value, expires_at, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at, updated_at = now()`,
		key, value, expires)
	if err != nil {
		return fmt.Errorf("upsert projection: %w", err)
	}
	return nil
}

func (s *postgresStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM projections WHERE key = $1`, key); err != nil {
		return fmt.Errorf("delete projection: %w", err)
	}
	return nil
}
