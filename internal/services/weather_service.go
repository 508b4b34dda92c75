package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"tabhome/internal/models"
)

// WeatherLookupError carries the upstream's structured error body together
// with the HTTP status to relay
type WeatherLookupError struct {
	Status int
	Body   models.WeatherError
}

func (e *WeatherLookupError) Error() string {
	return fmt.Sprintf("weather lookup failed (%d): %s", e.Status, e.Body.Message)
}

// WeatherService relays city/adcode lookups to the upstream weather API.
// Responses are cached for the configured TTL (the dashboard polls on
// every tab open) and upstream calls are rate limited. No weather data is
// persisted; only the last-chosen city name lives in the key-value store.
type WeatherService struct {
	upstreamURL string
	client      *http.Client
	cache       *gocache.Cache
	limiter     *rate.Limiter
	log         *logrus.Entry
}

// NewWeatherService creates a new weather service
func NewWeatherService(upstreamURL string, cacheTTL time.Duration) *WeatherService {
	return &WeatherService{
		upstreamURL: upstreamURL,
		client:      &http.Client{Timeout: 15 * time.Second},
		cache:       gocache.New(cacheTTL, 2*cacheTTL),
		// 1 req/sec sustained with small bursts is plenty for a personal page
		limiter: rate.NewLimiter(rate.Limit(1), 5),
		log:     logrus.WithField("component", "weather"),
	}
}

// Lookup fetches the weather for a city name or adcode. Exactly one of the
// two should be non-empty; adcode wins when both are set.
func (s *WeatherService) Lookup(ctx context.Context, city, adcode string) (*models.WeatherData, error) {
	if city == "" && adcode == "" {
		return nil, &WeatherLookupError{
			Status: http.StatusBadRequest,
			Body: models.WeatherError{
				Code:    "INVALID_ARGUMENT",
				Message: "Either 'city' or 'adcode' parameter is required.",
				Details: map[string]string{},
			},
		}
	}

	cacheKey := "adcode:" + adcode
	if adcode == "" {
		cacheKey = "city:" + city
	}
	if cached, ok := s.cache.Get(cacheKey); ok {
		data := cached.(models.WeatherData)
		return &data, nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	params := url.Values{}
	if adcode != "" {
		params.Set("adcode", adcode)
	} else {
		params.Set("city", city)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.upstreamURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.WithError(err).Warn("upstream request failed")
		return nil, &WeatherLookupError{
			Status: http.StatusInternalServerError,
			Body: models.WeatherError{
				Code:    "INTERNAL_SERVER_ERROR",
				Message: "An internal error occurred while fetching weather data.",
				Details: map[string]string{},
			},
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		upstreamErr := models.WeatherError{
			Code:    "UNKNOWN_ERROR",
			Message: "Unknown error occurred",
		}
		// Relay the upstream's structured error when it parses
		json.Unmarshal(body, &upstreamErr)
		s.log.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"code":   upstreamErr.Code,
		}).Warn("upstream returned error")
		return nil, &WeatherLookupError{Status: resp.StatusCode, Body: upstreamErr}
	}

	var data models.WeatherData
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("failed to parse weather response: %w", err)
	}

	s.cache.SetDefault(cacheKey, data)
	s.log.WithFields(logrus.Fields{
		"city":   data.City,
		"adcode": data.Adcode,
	}).Debug("weather fetched")

	return &data, nil
}
