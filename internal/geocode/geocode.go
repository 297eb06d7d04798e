// Package geocode resolves postal codes to coordinates and
// administrative-area metadata, with a cache in front of the live
// geocoding endpoint.
package geocode

import (
	"context"
	"encoding/json"
	"math"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/pixlcore/xyplug-weather/internal/client"
	"github.com/pixlcore/xyplug-weather/internal/observability"
)

// Location is a resolved place: coordinates plus whatever
// administrative metadata the geocoder reported. Immutable once
// resolved.
type Location struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Name        string  `json:"name,omitempty"`
	Admin1      string  `json:"admin1,omitempty"`
	Admin2      string  `json:"admin2,omitempty"`
	Admin3      string  `json:"admin3,omitempty"`
	Admin4      string  `json:"admin4,omitempty"`
	CountryCode string  `json:"country_code,omitempty"`
	Timezone    string  `json:"timezone,omitempty"`
	Elevation   float64 `json:"elevation,omitempty"`
	PostalCode  string  `json:"postal_code,omitempty"`
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// searchResult mirrors one geocoder match. Coordinates are pointers so
// an absent field is distinguishable from zero.
type searchResult struct {
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Name        string   `json:"name"`
	Admin1      string   `json:"admin1"`
	Admin2      string   `json:"admin2"`
	Admin3      string   `json:"admin3"`
	Admin4      string   `json:"admin4"`
	CountryCode string   `json:"country_code"`
	Timezone    string   `json:"timezone"`
	Elevation   float64  `json:"elevation"`
}

// Results stay raw so the cache write can keep geocoder fields this
// program does not model.
type searchResponse struct {
	Results []json.RawMessage `json:"results"`
}

// Resolver resolves postal codes, consulting the cache before the
// live geocoding endpoint.
type Resolver struct {
	fetcher *client.Fetcher
	cache   Cache
	backend string
	baseURL string
	apiKey  string
	timeout time.Duration
	logger  *zap.Logger
}

// NewResolver creates a Resolver. backend is the cache backend label
// used in metrics ("file" or "memcached").
func NewResolver(fetcher *client.Fetcher, cache Cache, backend, baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *Resolver {
	return &Resolver{
		fetcher: fetcher,
		cache:   cache,
		backend: backend,
		baseURL: baseURL,
		apiKey:  apiKey,
		timeout: timeout,
		logger:  logger,
	}
}

// Resolve returns the location for a postal code, or (nil, nil) when
// the geocoder has no usable match. Cache lookups never fail the call;
// a live lookup failure propagates so the caller can abort the job.
// Successful live lookups are written back to the cache best-effort.
func (r *Resolver) Resolve(ctx context.Context, postalCode string) (*Location, error) {
	key := SanitizeKey(postalCode)

	if loc, ok, err := r.cache.Get(ctx, key); err == nil && ok {
		observability.GeocodeCacheTotal.WithLabelValues(r.backend, "hit").Inc()
		r.logger.Debug("geocode cache hit", zap.String("postal_code", postalCode))
		return loc, nil
	}
	observability.GeocodeCacheTotal.WithLabelValues(r.backend, "miss").Inc()

	var resp searchResponse
	if err := r.fetcher.FetchJSON(ctx, "geocoding", r.searchURL(postalCode), r.timeout, &resp); err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, nil
	}

	var first searchResult
	if err := json.Unmarshal(resp.Results[0], &first); err != nil {
		return nil, nil
	}
	if first.Latitude == nil || first.Longitude == nil ||
		!isFinite(*first.Latitude) || !isFinite(*first.Longitude) {
		return nil, nil
	}

	loc := &Location{
		Latitude:    *first.Latitude,
		Longitude:   *first.Longitude,
		Name:        first.Name,
		Admin1:      first.Admin1,
		Admin2:      first.Admin2,
		Admin3:      first.Admin3,
		Admin4:      first.Admin4,
		CountryCode: first.CountryCode,
		Timezone:    first.Timezone,
		Elevation:   first.Elevation,
		PostalCode:  postalCode,
	}

	// Best-effort: the cache is an optimization, never a failure.
	if entry, err := augmentEntry(resp.Results[0], loc); err == nil {
		if err := r.cache.Set(ctx, key, entry); err != nil {
			r.logger.Debug("geocode cache write failed", zap.String("postal_code", postalCode), zap.Error(err))
		}
	}
	return loc, nil
}

// augmentEntry builds the stored cache document: the raw geocoder
// result with the resolved coordinates and postal code overlaid, so
// fields this program does not model survive the round trip.
func augmentEntry(raw json.RawMessage, loc *Location) ([]byte, error) {
	doc := map[string]any{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	doc["latitude"] = loc.Latitude
	doc["longitude"] = loc.Longitude
	doc["postal_code"] = loc.PostalCode
	return json.Marshal(doc)
}

func (r *Resolver) searchURL(postalCode string) string {
	v := url.Values{}
	v.Set("name", postalCode)
	v.Set("count", "1")
	v.Set("language", "en")
	v.Set("format", "json")
	if r.apiKey != "" {
		v.Set("apikey", r.apiKey)
	}
	return r.baseURL + "?" + v.Encode()
}
