package geocode

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/paulmach/orb"
)

func TestReverseParsesAddress(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"zoom":           r.URL.Query().Get("zoom"),
			"addressdetails": r.URL.Query().Get("addressdetails"),
			"format":         r.URL.Query().Get("format"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"display_name": "Dar es Salaam, Tanzania",
			"address": {
				"city": "Dar es Salaam",
				"county": "Ilala",
				"state": "Dar es Salaam Region",
				"country": "Tanzania"
			}
		}`))
	}))
	defer server.Close()

	c := NewClient()
	c.BaseURL = server.URL

	place := c.Reverse(orb.Point{39.208345, -6.792350})
	if place.PlaceName != "Dar es Salaam" {
		t.Errorf("place name = %q", place.PlaceName)
	}
	if place.Region != "Dar es Salaam Region" {
		t.Errorf("region = %q", place.Region)
	}
	if place.Zone != "Ilala" {
		t.Errorf("zone = %q", place.Zone)
	}
	if place.Nation != "Tanzania" {
		t.Errorf("nation = %q", place.Nation)
	}

	if gotQuery["zoom"] != "10" || gotQuery["addressdetails"] != "1" || gotQuery["format"] != "json" {
		t.Errorf("unexpected query params: %v", gotQuery)
	}
}

func TestReverseFallsBackToTown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"address": {"town": "Bagamoyo", "country": "Tanzania"}}`))
	}))
	defer server.Close()

	c := NewClient()
	c.BaseURL = server.URL

	place := c.Reverse(orb.Point{38.9, -6.44})
	if place.PlaceName != "Bagamoyo" {
		t.Errorf("place name = %q, want town fallback", place.PlaceName)
	}
	if place.Region != "Not Available" {
		t.Errorf("region = %q, want placeholder", place.Region)
	}
}

func TestReverseServerErrorReturnsUnknown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewClient()
	c.BaseURL = server.URL

	if place := c.Reverse(orb.Point{39.2, -6.8}); place != Unknown {
		t.Errorf("want Unknown placeholders, got %+v", place)
	}
}

func TestReverseUnreachableHostReturnsUnknown(t *testing.T) {
	c := NewClient()
	c.BaseURL = "http://127.0.0.1:1"

	if place := c.Reverse(orb.Point{39.2, -6.8}); place != Unknown {
		t.Errorf("want Unknown placeholders, got %+v", place)
	}
}
