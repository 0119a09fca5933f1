package gis

import (
	"context"
	"strings"
	"sync"

	"homenet/pkg/platform/sentinel"
)

// InMemoryStore mirrors the postgres store for tests and local runs. Matching
// is case-insensitive like ILIKE on the real tables.
type InMemoryStore struct {
	mu      sync.RWMutex
	nodes   []Node
	streets []Street
	houses  []House
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

// SeedNodes adds administrative nodes.
func (s *InMemoryStore) SeedNodes(nodes ...Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes = append(s.nodes, nodes...)
}

// SeedStreets adds streets.
func (s *InMemoryStore) SeedStreets(streets ...Street) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.streets = append(s.streets, streets...)
}

// SeedHouses adds houses.
func (s *InMemoryStore) SeedHouses(houses ...House) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.houses = append(s.houses, houses...)
}

func (s *InMemoryStore) FindNodeByRegion(_ context.Context, regionCode, name string, kind NodeKind) (*Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, n := range s.nodes {
		if n.ParentID == 0 && n.RegionCode == regionCode && n.Kind == kind && strings.EqualFold(n.Name, name) {
			node := n
			return &node, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) FindNodeByParent(_ context.Context, parentID int64, name string, kind NodeKind) (*Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, n := range s.nodes {
		if n.ParentID == parentID && n.Kind == kind && strings.EqualFold(n.Name, name) {
			node := n
			return &node, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) FindStreet(_ context.Context, name string, districtID int64) (*Street, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, st := range s.streets {
		if st.DistrictID == districtID && strings.EqualFold(st.Name, name) {
			street := st
			return &street, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) FindHouse(_ context.Context, label string, streetID int64) (*House, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, h := range s.houses {
		if h.StreetID == streetID && strings.EqualFold(h.Label, label) {
			house := h
			return &house, nil
		}
	}
	return nil, sentinel.ErrNotFound
}
