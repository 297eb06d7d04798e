package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/pixlcore/xyplug-weather/internal/client"
)

func newTestResolver(t *testing.T, baseURL string) *Resolver {
	t.Helper()
	r, _ := newTestResolverDir(t, baseURL)
	return r
}

func newTestResolverDir(t *testing.T, baseURL string) (*Resolver, string) {
	t.Helper()
	dir := t.TempDir()
	cache := NewFileCache(dir)
	return NewResolver(client.New(""), cache, "file", baseURL, "", time.Second, zap.NewNop()), dir
}

func TestResolver_LiveLookupThenCacheHit(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		q := r.URL.Query()
		if q.Get("name") != "90210" || q.Get("count") != "1" || q.Get("format") != "json" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"results":[{"latitude":34.09,"longitude":-118.41,"name":"Beverly Hills","admin1":"California","country_code":"US","timezone":"America/Los_Angeles","feature_code":"PPLX"}]}`))
	}))
	defer server.Close()

	r, dir := newTestResolverDir(t, server.URL)
	ctx := context.Background()

	loc, err := r.Resolve(ctx, "90210")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if loc == nil {
		t.Fatal("Resolve() = nil, want location")
	}
	if loc.Latitude != 34.09 || loc.Admin1 != "California" || loc.PostalCode != "90210" {
		t.Errorf("Resolve() = %+v", loc)
	}

	// Second resolve must come from the cache without touching the
	// network.
	again, err := r.Resolve(ctx, "90210")
	if err != nil {
		t.Fatalf("second Resolve() error = %v", err)
	}
	if again == nil || again.Latitude != loc.Latitude || again.Admin1 != loc.Admin1 {
		t.Errorf("cached Resolve() = %+v, want %+v", again, loc)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("geocoder called %d times, want 1", got)
	}

	// The cache document carries the geocoder result verbatim, plus the
	// overlaid postal code.
	data, err := os.ReadFile(filepath.Join(dir, filePrefix+"90210.json"))
	if err != nil {
		t.Fatalf("read cache file: %v", err)
	}
	for _, want := range []string{`"feature_code":"PPLX"`, `"postal_code":"90210"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("cache file = %s, missing %s", data, want)
		}
	}
}

// TestResolver_CoordlessCacheEntryIsMiss verifies an entry whose
// coordinates were never written cannot come back as a hit at 0,0; the
// resolver must go to the live geocoder instead.
func TestResolver_CoordlessCacheEntryIsMiss(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"results":[{"latitude":34.09,"longitude":-118.41,"name":"Beverly Hills"}]}`))
	}))
	defer server.Close()

	r, dir := newTestResolverDir(t, server.URL)
	path := filepath.Join(dir, filePrefix+"90210.json")
	if err := os.WriteFile(path, []byte(`{"name":"Somewhere"}`), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	loc, err := r.Resolve(context.Background(), "90210")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if loc == nil || loc.Latitude != 34.09 || loc.Longitude != -118.41 {
		t.Errorf("Resolve() = %+v, want live coordinates", loc)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("geocoder called %d times, want 1 (coordless entry must not be a hit)", got)
	}
}

func TestResolver_NoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	loc, err := newTestResolver(t, server.URL).Resolve(context.Background(), "00000")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if loc != nil {
		t.Errorf("Resolve() = %+v, want nil for no results", loc)
	}
}

func TestResolver_ResultWithoutCoordinates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[{"name":"Nowhere"}]}`))
	}))
	defer server.Close()

	loc, err := newTestResolver(t, server.URL).Resolve(context.Background(), "00000")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if loc != nil {
		t.Errorf("Resolve() = %+v, want nil for coordless result", loc)
	}
}

func TestResolver_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestResolver(t, server.URL).Resolve(context.Background(), "90210")
	if err == nil {
		t.Fatal("Resolve() error = nil, want upstream failure")
	}
}

func TestResolver_APIKeyForwarded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("apikey") != "sekrit" {
			t.Errorf("apikey not forwarded: %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"results":[{"latitude":1,"longitude":2,"name":"X"}]}`))
	}))
	defer server.Close()

	r := NewResolver(client.New(""), NewFileCache(t.TempDir()), "file", server.URL, "sekrit", time.Second, zap.NewNop())
	if _, err := r.Resolve(context.Background(), "12345"); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
}

// TestResolver_CacheWriteFailureIgnored verifies a read-only cache dir
// does not fail resolution.
func TestResolver_CacheWriteFailureIgnored(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[{"latitude":1,"longitude":2,"name":"X"}]}`))
	}))
	defer server.Close()

	dir := t.TempDir()
	if err := makeReadOnly(t, dir); err != nil {
		t.Skipf("cannot make dir read-only: %v", err)
	}

	r := NewResolver(client.New(""), NewFileCache(dir), "file", server.URL, "", time.Second, zap.NewNop())
	loc, err := r.Resolve(context.Background(), "12345")
	if err != nil {
		t.Fatalf("Resolve() error = %v, cache write failures must be ignored", err)
	}
	if loc == nil {
		t.Fatal("Resolve() = nil, want location despite failed cache write")
	}
}

func makeReadOnly(t *testing.T, dir string) error {
	t.Helper()
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })
	return os.Chmod(dir, 0o555)
}
