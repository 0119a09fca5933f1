package eissd

import (
	"encoding/xml"

	dErrors "homenet/pkg/domain-errors"
)

// Technology is one technology's availability at the checked address.
type Technology struct {
	Name      string
	Available bool
}

// Result is the parsed feasibility outcome. An empty Technologies slice is a
// valid result: the address is known but nothing can be provisioned there.
type Result struct {
	Technologies []Technology
}

// Feasible reports whether at least one technology is available.
func (r Result) Feasible() bool {
	for _, t := range r.Technologies {
		if t.Available {
			return true
		}
	}
	return false
}

// The vendor schema is undocumented; pointers distinguish "element absent"
// from "element empty" so any shape deviation fails the parse instead of
// silently defaulting.
type xmlResponse struct {
	XMLName xml.Name   `xml:"response"`
	Result  *xmlResult `xml:"GetTechCapabilityResult"`
}

type xmlResult struct {
	Entries []xmlTech `xml:"response"`
}

type xmlTech struct {
	TechName *string `xml:"TechName"`
	Res      *string `xml:"Res"`
}

// Parse decodes the vendor response, failing closed on any missing or
// malformed field. Parse failures are permanent for the given input; only
// transport failures are worth retrying.
func Parse(raw []byte) (Result, error) {
	var resp xmlResponse
	if err := xml.Unmarshal(raw, &resp); err != nil {
		return Result{}, dErrors.Wrap(err, dErrors.CodeProtocolParse, "malformed vendor XML")
	}
	if resp.Result == nil {
		return Result{}, dErrors.New(dErrors.CodeProtocolParse, "vendor response missing GetTechCapabilityResult")
	}

	techs := make([]Technology, 0, len(resp.Result.Entries))
	for i, entry := range resp.Result.Entries {
		if entry.TechName == nil {
			return Result{}, dErrors.Newf(dErrors.CodeProtocolParse, "technology entry %d missing TechName", i)
		}
		if entry.Res == nil {
			return Result{}, dErrors.Newf(dErrors.CodeProtocolParse, "technology entry %d missing Res", i)
		}
		techs = append(techs, Technology{
			Name:      *entry.TechName,
			Available: *entry.Res == "Y",
		})
	}
	return Result{Technologies: techs}, nil
}
