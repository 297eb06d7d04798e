package geocode

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitizeKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"90210", "90210"},
		{"SW1A 1AA", "SW1A_1AA"},
		{"75008-cedex", "75008-cedex"},
		{"a/b\\c:d", "a_b_c_d"},
		{"..", ".."},
		{"", ""},
	}

	for _, tt := range tests {
		if got := SanitizeKey(tt.in); got != tt.want {
			t.Errorf("SanitizeKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFileCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c := NewFileCache(dir)

	entry := []byte(`{"latitude":34.05,"longitude":-118.24,"name":"Beverly Hills","admin1":"California","feature_code":"PPL"}`)
	if err := c.Set(ctx, "90210", entry); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, ok, err := c.Get(ctx, "90210")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !ok {
		t.Fatal("Get() ok = false, want hit")
	}
	if got.Latitude != 34.05 || got.Longitude != -118.24 || got.Admin1 != "California" {
		t.Errorf("Get() = %+v", got)
	}

	// The stored file is the document verbatim, so fields this program
	// does not read survive for other cache consumers.
	data, err := os.ReadFile(filepath.Join(dir, filePrefix+"90210.json"))
	if err != nil {
		t.Fatalf("read cache file: %v", err)
	}
	if !strings.Contains(string(data), `"feature_code":"PPL"`) {
		t.Errorf("cache file = %s, want unmodeled fields kept", data)
	}
}

func TestFileCache_Miss(t *testing.T) {
	c := NewFileCache(t.TempDir())
	_, ok, err := c.Get(context.Background(), "nowhere")
	if err != nil {
		t.Fatalf("Get() error = %v, misses must be silent", err)
	}
	if ok {
		t.Error("Get() ok = true, want miss")
	}
}

// TestFileCache_InvalidEntries verifies that corrupt or incomplete
// entries are treated as misses, never as errors.
func TestFileCache_InvalidEntries(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c := NewFileCache(dir)

	tests := []struct {
		name string
		body string
	}{
		{"corrupt json", `{nope`},
		{"no admin names", `{"latitude": 1, "longitude": 2}`},
		{"missing coordinates", `{"name": "Somewhere"}`},
		{"null coordinate", `{"latitude": null, "longitude": 2, "name": "Somewhere"}`},
		{"empty object", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := SanitizeKey(tt.name)
			path := filepath.Join(dir, filePrefix+key+".json")
			if err := os.WriteFile(path, []byte(tt.body), 0o644); err != nil {
				t.Fatalf("write fixture: %v", err)
			}
			_, ok, err := c.Get(ctx, key)
			if err != nil {
				t.Errorf("Get() error = %v, want silent miss", err)
			}
			if ok {
				t.Error("Get() ok = true, want miss for invalid entry")
			}
		})
	}
}

func TestDecodeEntry(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{"coords and name", `{"latitude":1,"longitude":2,"name":"x"}`, true},
		{"coords and admin4 only", `{"latitude":1,"longitude":2,"admin4":"x"}`, true},
		{"zero coords with name", `{"latitude":0,"longitude":0,"name":"x"}`, true},
		{"coords without names", `{"latitude":1,"longitude":2}`, false},
		{"name without coords", `{"name":"x"}`, false},
		{"name with one coord", `{"latitude":1,"name":"x"}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, ok := decodeEntry([]byte(tt.body))
			if ok != tt.want {
				t.Errorf("decodeEntry() ok = %v, want %v", ok, tt.want)
			}
			if ok != (loc != nil) {
				t.Errorf("decodeEntry() loc = %v with ok = %v", loc, ok)
			}
		})
	}
}
