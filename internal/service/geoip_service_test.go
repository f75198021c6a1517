package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iplanding-next/internal/config"
	"github.com/iplanding-next/internal/constants"
	"github.com/iplanding-next/internal/models"
)

func newGeoTestService(handler http.HandlerFunc) (*GeoIPService, *httptest.Server) {
	server := httptest.NewServer(handler)
	svc := NewGeoIPService(config.GeoConfig{
		APIURL:         server.URL,
		TimeoutSeconds: 2,
	})
	return svc, server
}

func TestGeoIPResolveLocalIPSkipsUpstream(t *testing.T) {
	called := false
	svc, server := newGeoTestService(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	defer server.Close()

	data := svc.Resolve(context.Background(), "127.0.0.1")
	if called {
		t.Fatal("expected no upstream call for local IP")
	}
	if data == nil {
		t.Fatal("expected placeholder location for local IP")
	}
	if data.CountryName != constants.LocalCountryName {
		t.Fatalf("expected country %q, got %q", constants.LocalCountryName, data.CountryName)
	}
	if data.Postal != "00000" || data.Latitude == nil || *data.Latitude != 0 {
		t.Fatalf("unexpected placeholder values: %+v", data)
	}
}

func TestGeoIPResolveSuccess(t *testing.T) {
	svc, server := newGeoTestService(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/8.8.8.8/json/" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ip":"8.8.8.8","city":"Mountain View","region":"California","country_name":"United States","country_code":"US","postal":"94043","latitude":37.386,"longitude":-122.0838,"timezone":"America/Los_Angeles","org":"Google LLC","asn":"AS15169"}`))
	})
	defer server.Close()

	data := svc.Resolve(context.Background(), "8.8.8.8")
	if data == nil {
		t.Fatal("expected location data")
	}
	if data.CountryName != "United States" || data.City != "Mountain View" {
		t.Fatalf("unexpected data: %+v", data)
	}
	if data.Latitude == nil || *data.Latitude != 37.386 {
		t.Fatalf("expected latitude 37.386, got %v", data.Latitude)
	}
}

func TestGeoIPResolveUpstreamErrorField(t *testing.T) {
	svc, server := newGeoTestService(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":true,"reason":"Reserved IP Address"}`))
	})
	defer server.Close()

	if data := svc.Resolve(context.Background(), "8.8.8.8"); data != nil {
		t.Fatalf("expected nil on upstream error, got %+v", data)
	}
}

func TestGeoIPResolveRateLimited(t *testing.T) {
	svc, server := newGeoTestService(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	defer server.Close()

	if data := svc.Resolve(context.Background(), "8.8.8.8"); data != nil {
		t.Fatalf("expected nil on 429, got %+v", data)
	}
}

func TestGeoIPResolveUnexpectedStatus(t *testing.T) {
	svc, server := newGeoTestService(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer server.Close()

	if data := svc.Resolve(context.Background(), "8.8.8.8"); data != nil {
		t.Fatalf("expected nil on 500, got %+v", data)
	}
}

func TestLocationDataApplyTo(t *testing.T) {
	lat := 52.52
	lon := 13.405
	data := &LocationData{
		CountryName: "Germany",
		CountryCode: "DE",
		City:        "Berlin",
		Latitude:    &lat,
		Longitude:   &lon,
		Timezone:    "Europe/Berlin",
	}
	log := &models.VisitorLog{IPAddress: "9.9.9.9"}
	data.ApplyTo(log)

	if log.Country == nil || *log.Country != "Germany" {
		t.Fatalf("expected country applied, got %v", log.Country)
	}
	if log.City == nil || *log.City != "Berlin" {
		t.Fatalf("expected city applied, got %v", log.City)
	}
	if log.Latitude == nil || *log.Latitude != 52.52 {
		t.Fatalf("expected latitude applied, got %v", log.Latitude)
	}
	if log.Region != nil {
		t.Fatalf("expected empty region to stay nil, got %v", log.Region)
	}
	if log.IPAddress != "9.9.9.9" {
		t.Fatal("expected ip address untouched")
	}
}

func TestLocationDataLocationColumnsSkipsEmpty(t *testing.T) {
	lat := 1.5
	data := &LocationData{
		CountryName: "Germany",
		Latitude:    &lat,
	}
	fields := data.LocationColumns()
	if fields["country"] != "Germany" {
		t.Fatalf("expected country column, got %v", fields["country"])
	}
	if fields["latitude"] != 1.5 {
		t.Fatalf("expected latitude column, got %v", fields["latitude"])
	}
	if _, ok := fields["city"]; ok {
		t.Fatal("expected empty city to be skipped")
	}
	if _, ok := fields["ip_address"]; ok {
		t.Fatal("location columns must not touch ip_address")
	}
}
