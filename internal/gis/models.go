// Package gis resolves structured addresses against the local three-level
// administrative reference data (region -> district/city -> street -> house).
// The reference tables are immutable from this package's point of view;
// they are refreshed out-of-band.
package gis

// NodeKind discriminates administrative objects in the hierarchy.
type NodeKind string

const (
	KindCity       NodeKind = "city"
	KindSettlement NodeKind = "settlement"
	KindArea       NodeKind = "area"
)

// Node is one administrative object. Top-level nodes hang off a region code;
// lower nodes off a parent node.
type Node struct {
	ID         int64
	RegionCode string
	Name       string
	ParentID   int64
	Kind       NodeKind
	FiasID     string
}

// Street belongs to a resolved district node.
type Street struct {
	ID         int64
	Name       string
	DistrictID int64
}

// House belongs to a street. Label carries the full house designation
// including any block qualifier.
type House struct {
	ID       int64
	Label    string
	StreetID int64
}

// StructuredAddress is the geocoded breakdown the resolver works from.
type StructuredAddress struct {
	RegionCode string
	Area       string
	City       string
	Settlement string
	Street     string
	House      string
	Block      string
	Flat       string
}

// District is the outcome of district resolution: the internal id used for
// street/house lookups and the FIAS id used to correlate with the CRM.
type District struct {
	ID     int64
	FiasID string
}
