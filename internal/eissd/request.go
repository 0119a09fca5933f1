package eissd

import (
	"encoding/xml"
	"fmt"
	"time"
)

// Request carries the resolved address ids for one feasibility check.
// Constructed per call, never persisted.
type Request struct {
	ID         string
	Timestamp  time.Time
	RegionCode string
	DistrictID int64
	StreetID   int64
	HouseID    int64
	// Flat defaults to 0 when the address has no flat number.
	Flat int
}

// Service classes requested on every check. The vendor ignores classes it
// does not serve at the address; the fixed list matches what the CRM offers.
var serviceClassIDs = []int{1, 2, 10}

type xmlRequest struct {
	XMLName xml.Name      `xml:"request"`
	ID      string        `xml:"id,attr"`
	Body    xmlCapability `xml:"GetTechCapability"`
}

type xmlCapability struct {
	Date        string `xml:"date,attr"`
	Release     int    `xml:"Release"`
	RegionID    string `xml:"RegionId"`
	CityID      int64  `xml:"CityId"`
	StreetID    int64  `xml:"StreetId"`
	HouseID     int64  `xml:"HouseId"`
	Flat        int    `xml:"Flat"`
	SvcClassIDs struct {
		IDs []int `xml:"SvcClassId"`
	} `xml:"SvcClassIds"`
}

// marshalRequest renders the fixed vendor XML template. The timestamp is
// truncated to seconds and formatted with an explicit UTC offset, which is
// what the endpoint accepts.
func marshalRequest(req Request) ([]byte, error) {
	body := xmlRequest{
		ID: req.ID,
		Body: xmlCapability{
			Date:     req.Timestamp.Truncate(time.Second).Format("2006-01-02T15:04:05-07:00"),
			Release:  2,
			RegionID: req.RegionCode,
			CityID:   req.DistrictID,
			StreetID: req.StreetID,
			HouseID:  req.HouseID,
			Flat:     req.Flat,
		},
	}
	body.Body.SvcClassIDs.IDs = serviceClassIDs

	out, err := xml.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal feasibility request: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}
