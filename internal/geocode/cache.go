package geocode

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
)

// Cache defines the interface for geocode result caching backends.
// Entries are stored as raw JSON documents (the geocoder result
// augmented with the resolved coordinates), so cache files stay
// forward-compatible with consumers that read fields this program does
// not model. Get decodes only the fields it needs. Entries never
// expire: the same postal code always resolves to the same place, so
// overwrites are idempotent and a stale entry is as good as a fresh
// one.
type Cache interface {
	Get(ctx context.Context, key string) (*Location, bool, error)
	Set(ctx context.Context, key string, entry []byte) error
}

var unsafeKeyRunes = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SanitizeKey reduces a postal code to a filesystem- and
// memcached-safe cache key: every rune outside [A-Za-z0-9_.-] becomes
// an underscore.
func SanitizeKey(postalCode string) string {
	return unsafeKeyRunes.ReplaceAllString(postalCode, "_")
}

// cacheEntry is the stored document viewed through the fields this
// program reads. Coordinates are pointers so an entry written without
// them is distinguishable from one at 0,0.
type cacheEntry struct {
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
	PostalCode  string   `json:"postal_code"`
}

// decodeEntry parses a stored cache document. ok is false for anything
// unusable: bad JSON, coordinates absent or non-finite, or no name
// field at all. Callers treat ok=false as a miss.
func decodeEntry(data []byte) (*Location, bool) {
	var e cacheEntry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, false
	}
	if e.Latitude == nil || e.Longitude == nil ||
		!isFinite(*e.Latitude) || !isFinite(*e.Longitude) {
		return nil, false
	}
	if e.Name == "" && e.Admin1 == "" && e.Admin2 == "" && e.Admin3 == "" && e.Admin4 == "" {
		return nil, false
	}
	return &Location{
		Latitude:    *e.Latitude,
		Longitude:   *e.Longitude,
		Name:        e.Name,
		Admin1:      e.Admin1,
		Admin2:      e.Admin2,
		Admin3:      e.Admin3,
		Admin4:      e.Admin4,
		CountryCode: e.CountryCode,
		Timezone:    e.Timezone,
		Elevation:   e.Elevation,
		PostalCode:  e.PostalCode,
	}, true
}

const filePrefix = "xyplug-weather-geocode-"

// FileCache implements Cache with one JSON file per key in a shared
// directory, by default the system temp dir. Concurrent invocations
// may race on a file; that is tolerated because writes are idempotent
// and a corrupt read is just a miss. No locking, no expiry.
type FileCache struct {
	dir string
}

// NewFileCache creates a FileCache rooted at dir; an empty dir means
// the system temp directory.
func NewFileCache(dir string) *FileCache {
	if dir == "" {
		dir = os.TempDir()
	}
	return &FileCache{dir: dir}
}

func (c *FileCache) path(key string) string {
	return filepath.Join(c.dir, filePrefix+key+".json")
}

// Get reads and validates the cached entry for key. Every failure
// mode (missing file, unreadable file, bad JSON, entry without both
// coordinates present and finite, entry without any admin name) is a
// silent miss: the cache is a pure optimization and must never surface
// an error.
func (c *FileCache) Get(ctx context.Context, key string) (*Location, bool, error) {
	data, err := os.ReadFile(c.path(key))
	if err != nil {
		return nil, false, nil
	}
	loc, ok := decodeEntry(data)
	if !ok {
		return nil, false, nil
	}
	return loc, true, nil
}

// Set writes the entry document for key verbatim. Callers treat a
// write failure as non-fatal.
func (c *FileCache) Set(ctx context.Context, key string, entry []byte) error {
	return os.WriteFile(c.path(key), entry, 0o644)
}
