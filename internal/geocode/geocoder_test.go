package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReverseGeocodeReturnsFormattedAddress(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.RawQuery, "latlng=12.900000,77.600000")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[{"formatted_address":"1 MG Road, Bengaluru"}]}`))
	}))
	defer server.Close()

	g := New("test-key", nil)
	g.baseURL = server.URL

	address := g.ReverseGeocode(context.Background(), 12.9, 77.6)
	assert.Equal(t, "1 MG Road, Bengaluru", address)
}

func TestReverseGeocodeWithoutKeyIsSentinel(t *testing.T) {
	g := New("", nil)

	address := g.ReverseGeocode(context.Background(), 12.9, 77.6)
	assert.Equal(t, UnknownLocation, address)
}

func TestReverseGeocodeServerErrorIsSentinel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	g := New("test-key", nil)
	g.baseURL = server.URL

	address := g.ReverseGeocode(context.Background(), 12.9, 77.6)
	assert.Equal(t, UnknownLocation, address)
}

func TestReverseGeocodeEmptyResultsIsSentinel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[]}`))
	}))
	defer server.Close()

	g := New("test-key", nil)
	g.baseURL = server.URL

	address := g.ReverseGeocode(context.Background(), 12.9, 77.6)
	assert.Equal(t, UnknownLocation, address)
}

func TestReverseGeocodeUnreachableHostIsSentinel(t *testing.T) {
	g := New("test-key", nil)
	g.baseURL = "http://127.0.0.1:1"

	address := g.ReverseGeocode(context.Background(), 12.9, 77.6)
	assert.Equal(t, UnknownLocation, address)
}
