package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"signparty-service/internal/domain"
)

// CatalogLoader loads sign catalogs stored as JSONB in Postgres.
type CatalogLoader struct {
	pool *pgxpool.Pool
}

func NewCatalogLoader(pool *pgxpool.Pool) *CatalogLoader {
	return &CatalogLoader{pool: pool}
}

func (l *CatalogLoader) LoadCatalog(ctx context.Context, catalogID string) ([]domain.SignEntry, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT signs FROM sign_catalogs WHERE id=$1`, catalogID).Scan(&raw)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	var signs []domain.SignEntry
	if err := json.Unmarshal(raw, &signs); err != nil {
		return nil, fmt.Errorf("unmarshal catalog: %w", err)
	}
	return signs, nil
}
