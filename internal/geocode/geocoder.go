// Package geocode resolves coordinates to human-readable addresses via the
// Google reverse-geocoding API, with a Redis cache in front. Lookups never
// fail the caller: every error path degrades to the UnknownLocation sentinel.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"
)

// UnknownLocation is stored when the address cannot be resolved.
const UnknownLocation = "Unknown location"

const (
	defaultBaseURL = "https://maps.googleapis.com/maps/api/geocode/json"
	requestTimeout = 5 * time.Second
	cacheTTL       = 30 * 24 * time.Hour
)

type Geocoder struct {
	apiKey  string
	baseURL string
	client  *http.Client
	cache   *redis.Client // nil disables caching
}

func New(apiKey string, cache *redis.Client) *Geocoder {
	return &Geocoder{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: requestTimeout},
		cache:   cache,
	}
}

// ReverseGeocode returns a formatted address for the coordinates, or
// UnknownLocation when no key is configured, the API call fails, or the
// response has no results.
func (g *Geocoder) ReverseGeocode(ctx context.Context, lat, lng float64) string {
	if g.apiKey == "" {
		return UnknownLocation
	}

	cacheKey := fmt.Sprintf("geocode:%.5f,%.5f", lat, lng)
	if g.cache != nil {
		if addr, err := g.cache.Get(ctx, cacheKey).Result(); err == nil && addr != "" {
			return addr
		}
	}

	endpoint := fmt.Sprintf("%s?latlng=%.6f,%.6f&key=%s", g.baseURL, lat, lng, url.QueryEscape(g.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return UnknownLocation
	}

	resp, err := g.client.Do(req)
	if err != nil {
		log.Printf("geocode: request: %v", err)
		return UnknownLocation
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("geocode: status %d", resp.StatusCode)
		return UnknownLocation
	}

	var body struct {
		Results []struct {
			FormattedAddress string `json:"formatted_address"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		log.Printf("geocode: decode: %v", err)
		return UnknownLocation
	}
	if len(body.Results) == 0 || body.Results[0].FormattedAddress == "" {
		return UnknownLocation
	}

	address := body.Results[0].FormattedAddress
	if g.cache != nil {
		if err := g.cache.Set(ctx, cacheKey, address, cacheTTL).Err(); err != nil {
			log.Printf("geocode: cache set: %v", err)
		}
	}

	return address
}
