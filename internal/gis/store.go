package gis

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"homenet/pkg/platform/sentinel"
)

// Store is the read-only lookup surface over the reference tables. All
// lookups are case-insensitive; a miss returns sentinel.ErrNotFound.
type Store interface {
	FindNodeByRegion(ctx context.Context, regionCode, name string, kind NodeKind) (*Node, error)
	FindNodeByParent(ctx context.Context, parentID int64, name string, kind NodeKind) (*Node, error)
	FindStreet(ctx context.Context, name string, districtID int64) (*Street, error)
	FindHouse(ctx context.Context, label string, streetID int64) (*House, error)
}

// PostgresStore queries the GIS reference database.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs a store over the GIS pool.
func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) FindNodeByRegion(ctx context.Context, regionCode, name string, kind NodeKind) (*Node, error) {
	const q = `
		SELECT id, region_code, name, COALESCE(parent_id, 0), kind, COALESCE(fias_id, '')
		FROM addr_objects
		WHERE region_code = $1 AND lower(name) = lower($2) AND kind = $3 AND parent_id IS NULL
		LIMIT 1`
	return s.scanNode(s.pool.QueryRow(ctx, q, regionCode, name, string(kind)), "node by region")
}

func (s *PostgresStore) FindNodeByParent(ctx context.Context, parentID int64, name string, kind NodeKind) (*Node, error) {
	const q = `
		SELECT id, region_code, name, COALESCE(parent_id, 0), kind, COALESCE(fias_id, '')
		FROM addr_objects
		WHERE parent_id = $1 AND lower(name) = lower($2) AND kind = $3
		LIMIT 1`
	return s.scanNode(s.pool.QueryRow(ctx, q, parentID, name, string(kind)), "node by parent")
}

func (s *PostgresStore) scanNode(row pgx.Row, what string) (*Node, error) {
	var n Node
	var kind string
	err := row.Scan(&n.ID, &n.RegionCode, &n.Name, &n.ParentID, &kind, &n.FiasID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", what, err)
	}
	n.Kind = NodeKind(kind)
	return &n, nil
}

func (s *PostgresStore) FindStreet(ctx context.Context, name string, districtID int64) (*Street, error) {
	const q = `
		SELECT id, name, district_id
		FROM streets
		WHERE district_id = $1 AND name ILIKE $2
		LIMIT 1`
	var st Street
	err := s.pool.QueryRow(ctx, q, districtID, name).Scan(&st.ID, &st.Name, &st.DistrictID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find street: %w", err)
	}
	return &st, nil
}

func (s *PostgresStore) FindHouse(ctx context.Context, label string, streetID int64) (*House, error) {
	const q = `
		SELECT id, label, street_id
		FROM houses
		WHERE street_id = $1 AND label ILIKE $2
		LIMIT 1`
	var h House
	err := s.pool.QueryRow(ctx, q, streetID, label).Scan(&h.ID, &h.Label, &h.StreetID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find house: %w", err)
	}
	return &h, nil
}
