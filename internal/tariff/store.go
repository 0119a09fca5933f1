package tariff

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store lists tariffs available in a district.
type Store interface {
	ListByDistrict(ctx context.Context, districtID int64) ([]Tariff, error)
}

// PostgresStore reads the tariff catalogue from the primary database.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs a store over the primary pool.
func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) ListByDistrict(ctx context.Context, districtID int64) ([]Tariff, error) {
	const q = `
		SELECT t.id, t.provider_id, t.name, t.technology, t.speed_mbps, t.price_rub
		FROM tariffs t
		JOIN tariff_districts td ON td.tariff_id = t.id
		WHERE td.district_id = $1
		ORDER BY t.price_rub`
	rows, err := s.pool.Query(ctx, q, districtID)
	if err != nil {
		return nil, fmt.Errorf("list tariffs: %w", err)
	}
	defer rows.Close()

	var out []Tariff
	for rows.Next() {
		var t Tariff
		if err := rows.Scan(&t.ID, &t.ProviderID, &t.Name, &t.Technology, &t.SpeedMbps, &t.PriceRub); err != nil {
			return nil, fmt.Errorf("scan tariff: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tariffs: %w", err)
	}
	return out, nil
}

// InMemoryStore backs tests and local runs without a database.
type InMemoryStore struct {
	mu         sync.RWMutex
	byDistrict map[int64][]Tariff
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{byDistrict: make(map[int64][]Tariff)}
}

// Seed adds tariffs to a district.
func (s *InMemoryStore) Seed(districtID int64, tariffs ...Tariff) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byDistrict[districtID] = append(s.byDistrict[districtID], tariffs...)
}

func (s *InMemoryStore) ListByDistrict(_ context.Context, districtID int64) ([]Tariff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Tariff, len(s.byDistrict[districtID]))
	copy(out, s.byDistrict[districtID])
	return out, nil
}
