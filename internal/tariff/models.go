// Package tariff is the thin read surface over the tariff catalogue. The
// catalogue itself is maintained elsewhere; this package only lists what can
// be sold in a district.
package tariff

// Tariff is one sellable internet plan.
type Tariff struct {
	ID         int64   `json:"id"`
	ProviderID int64   `json:"provider_id"`
	Name       string  `json:"name"`
	Technology string  `json:"technology"`
	SpeedMbps  int     `json:"speed_mbps"`
	PriceRub   float64 `json:"price_rub"`
}
