// Package geocode resolves coordinates to human-readable place names through
// the Nominatim reverse-geocoding API. Lookups are best-effort: any failure
// produces placeholder values instead of an error, so a geocoder outage never
// blocks a listing.
package geocode

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/paulmach/orb"
)

const (
	defaultBaseURL   = "https://nominatim.openstreetmap.org"
	defaultUserAgent = "fieldvisits/1.0"
)

// Place is the resolved location of one report.
type Place struct {
	PlaceName string `json:"placeName"`
	Region    string `json:"region"`
	Zone      string `json:"zone"`
	Nation    string `json:"nation"`
}

// Unknown is returned when the lookup fails or the response has no address.
var Unknown = Place{
	PlaceName: "Unknown",
	Region:    "Not Available",
	Zone:      "Not Available",
	Nation:    "Not Available",
}

// NotAvailable is the placeholder for records that carry no coordinates at
// all, so no lookup was attempted.
var NotAvailable = Place{
	PlaceName: "Not Available",
	Region:    "Not Available",
	Zone:      "Not Available",
	Nation:    "Not Available",
}

// Client queries a Nominatim instance.
type Client struct {
	BaseURL   string
	UserAgent string
	HTTP      *http.Client
}

func NewClient() *Client {
	return &Client{
		BaseURL:   defaultBaseURL,
		UserAgent: defaultUserAgent,
		HTTP:      &http.Client{Timeout: 10 * time.Second},
	}
}

type reverseResponse struct {
	Address struct {
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
		County  string `json:"county"`
		State   string `json:"state"`
		Region  string `json:"region"`
		Country string `json:"country"`
	} `json:"address"`
	DisplayName string `json:"display_name"`
}

// Reverse resolves a point (lon/lat order, as orb stores it) to a Place.
// Never returns an error; failures fall back to the Unknown placeholders.
func (c *Client) Reverse(p orb.Point) Place {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("lat", fmt.Sprintf("%f", p.Lat()))
	q.Set("lon", fmt.Sprintf("%f", p.Lon()))
	q.Set("zoom", "10")
	q.Set("addressdetails", "1")

	req, err := http.NewRequest(http.MethodGet, c.BaseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return Unknown
	}
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return Unknown
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Unknown
	}

	var body reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Unknown
	}

	place := Place{
		PlaceName: firstNonEmpty(body.Address.City, body.Address.Town, body.Address.Village, body.Address.County),
		Region:    firstNonEmpty(body.Address.State, body.Address.Region),
		Zone:      body.Address.County,
		Nation:    body.Address.Country,
	}
	if place.PlaceName == "" {
		place.PlaceName = Unknown.PlaceName
	}
	if place.Region == "" {
		place.Region = Unknown.Region
	}
	if place.Zone == "" {
		place.Zone = Unknown.Zone
	}
	if place.Nation == "" {
		place.Nation = Unknown.Nation
	}
	return place
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
