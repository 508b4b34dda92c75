package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tabhome/internal/models"
)

func TestLookupRequiresCityOrAdcode(t *testing.T) {
	svc := NewWeatherService("http://unused", time.Minute)

	_, err := svc.Lookup(context.Background(), "", "")
	if err == nil {
		t.Fatal("Lookup without city or adcode should fail")
	}

	lookupErr, ok := err.(*WeatherLookupError)
	if !ok {
		t.Fatalf("Expected a WeatherLookupError, got %T", err)
	}
	if lookupErr.Status != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", lookupErr.Status)
	}
	if lookupErr.Body.Code != "INVALID_ARGUMENT" {
		t.Errorf("Expected INVALID_ARGUMENT, got %q", lookupErr.Body.Code)
	}
}

func TestLookupRelaysUpstreamAndCaches(t *testing.T) {
	requests := 0
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if got := r.URL.Query().Get("city"); got != "北京市" {
			t.Errorf("Expected city param 北京市, got %q", got)
		}
		json.NewEncoder(w).Encode(models.WeatherData{
			Adcode:      "110000",
			City:        "北京市",
			Province:    "北京",
			Temperature: 21,
			Humidity:    40,
			Weather:     "晴",
			ReportTime:  "2026-08-28 10:00:00",
		})
	}))
	defer upstream.Close()

	svc := NewWeatherService(upstream.URL, time.Minute)

	data, err := svc.Lookup(context.Background(), "北京市", "")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if data.City != "北京市" || data.Temperature != 21 {
		t.Errorf("Unexpected weather data: %+v", data)
	}

	// Second lookup for the same city is served from cache
	if _, err := svc.Lookup(context.Background(), "北京市", ""); err != nil {
		t.Fatalf("Cached lookup failed: %v", err)
	}
	if requests != 1 {
		t.Errorf("Expected 1 upstream request, got %d", requests)
	}
}

func TestLookupAdcodeWinsOverCity(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("adcode") != "110000" {
			t.Errorf("Expected adcode param, got query %s", r.URL.RawQuery)
		}
		if r.URL.Query().Get("city") != "" {
			t.Error("City param must be omitted when adcode is set")
		}
		json.NewEncoder(w).Encode(models.WeatherData{Adcode: "110000", City: "北京市"})
	}))
	defer upstream.Close()

	svc := NewWeatherService(upstream.URL, time.Minute)
	if _, err := svc.Lookup(context.Background(), "北京市", "110000"); err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
}

func TestLookupRelaysUpstreamError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGone)
		json.NewEncoder(w).Encode(models.WeatherError{
			Code:    "INVALID_REGION",
			Message: "Region not supported",
		})
	}))
	defer upstream.Close()

	svc := NewWeatherService(upstream.URL, time.Minute)

	_, err := svc.Lookup(context.Background(), "atlantis", "")
	lookupErr, ok := err.(*WeatherLookupError)
	if !ok {
		t.Fatalf("Expected a WeatherLookupError, got %v", err)
	}
	if lookupErr.Status != http.StatusGone {
		t.Errorf("Upstream status should be relayed, got %d", lookupErr.Status)
	}
	if lookupErr.Body.Code != "INVALID_REGION" {
		t.Errorf("Upstream error code should be relayed, got %q", lookupErr.Body.Code)
	}
}

func TestLookupUnreachableUpstream(t *testing.T) {
	svc := NewWeatherService("http://127.0.0.1:1", time.Minute)

	_, err := svc.Lookup(context.Background(), "北京市", "")
	lookupErr, ok := err.(*WeatherLookupError)
	if !ok {
		t.Fatalf("Expected a WeatherLookupError, got %v", err)
	}
	if lookupErr.Status != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", lookupErr.Status)
	}
	if lookupErr.Body.Code != "INTERNAL_SERVER_ERROR" {
		t.Errorf("Expected INTERNAL_SERVER_ERROR, got %q", lookupErr.Body.Code)
	}
}
