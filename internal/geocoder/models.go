package geocoder

// Suggestion is one candidate returned by the suggestion service. Data is nil
// when the service recognized the query but could not decompose it.
type Suggestion struct {
	Value string   `json:"value"`
	Data  *Address `json:"data"`
}

// Address is the structured administrative breakdown of a suggestion. All
// fields are optional; which of area/city/settlement are populated decides
// the hierarchy-resolution branch downstream.
type Address struct {
	RegionKladrID string `json:"region_kladr_id"`
	RegionFiasID  string `json:"region_fias_id"`
	Area          string `json:"area"`
	City          string `json:"city"`
	Settlement    string `json:"settlement"`
	Street        string `json:"street"`
	House         string `json:"house"`
	Block         string `json:"block"`
	Flat          string `json:"flat"`
}

// RegionCode derives the two-digit region code from the KLADR region
// identifier ("7200000000000" -> "72").
func (a *Address) RegionCode() string {
	if a == nil || len(a.RegionKladrID) < 2 {
		return ""
	}
	return a.RegionKladrID[:2]
}
