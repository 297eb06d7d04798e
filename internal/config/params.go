// Package config turns the loosely-typed job document into a typed
// parameter set, and loads the plugin-level file configuration. Every
// coercion rule lives here, applied once before any business logic
// runs.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrEmptyInput is returned when stdin carried no job document.
var ErrEmptyInput = errors.New("empty input")

// Default field lists requested from the forecast endpoint when the
// job does not name its own.
const (
	DefaultDailyFields  = "weathercode,temperature_2m_max,temperature_2m_min,snowfall_sum,showers_sum,rain_sum,windspeed_10m_max"
	DefaultHourlyFields = "weathercode,temperature_2m,precipitation,windspeed_10m,relativehumidity_2m"
)

const (
	defaultTimeout       = 30 * time.Second
	defaultForecastDays  = 7
	defaultForecastHours = 24
	maxForecastDays      = 16
	maxForecastHours     = 384
)

// Job is the raw input document read once from stdin.
type Job struct {
	Params map[string]any `json:"params"`
}

// ParseJob decodes the job document. Empty or unparseable input is the
// "input" failure class; everything downstream is "params".
func ParseJob(input []byte) (*Job, error) {
	if len(bytes.TrimSpace(input)) == 0 {
		return nil, ErrEmptyInput
	}
	var job Job
	if err := json.Unmarshal(input, &job); err != nil {
		return nil, fmt.Errorf("parse job document: %w", err)
	}
	return &job, nil
}

// Params is the normalized, strongly-typed job configuration.
// Latitude/Longitude are pointers so "not supplied" is distinguishable
// from zero (a legitimate coordinate).
type Params struct {
	PostalCode string
	Latitude   *float64 `validate:"omitempty,latitude"`
	Longitude  *float64 `validate:"omitempty,longitude"`

	TemperatureUnit   string
	WindspeedUnit     string
	PrecipitationUnit string
	Timezone          string

	Daily  []string
	Hourly []string

	AirQuality    bool
	ForecastDays  int
	ForecastHours int
	Timeout       time.Duration
}

// HasCoordinates reports whether both coordinates were supplied as
// finite numbers.
func (p *Params) HasCoordinates() bool {
	return p.Latitude != nil && p.Longitude != nil
}

var validate = validator.New()

// Normalize applies every coercion and default to the raw params
// mapping and validates the result. A nil mapping normalizes to pure
// defaults.
func Normalize(raw map[string]any) (*Params, error) {
	p := &Params{
		PostalCode:        asString(raw["postal_code"]),
		Latitude:          asNumber(raw["latitude"]),
		Longitude:         asNumber(raw["longitude"]),
		TemperatureUnit:   stringOr(raw["temperature_unit"], "celsius"),
		WindspeedUnit:     stringOr(raw["windspeed_unit"], "kmh"),
		PrecipitationUnit: stringOr(raw["precipitation_unit"], "mm"),
		Timezone:          stringOr(raw["timezone"], "auto"),
		AirQuality:        asBool(raw["air_quality"], false),
		ForecastDays:      clampInt(raw["forecast_days"], defaultForecastDays, 1, maxForecastDays),
		ForecastHours:     clampInt(raw["forecast_hours"], defaultForecastHours, 1, maxForecastHours),
		Timeout:           asTimeout(raw["timeout_ms"]),
	}

	if v, ok := raw["daily"]; ok {
		p.Daily = asList(v)
	} else {
		p.Daily = asList(DefaultDailyFields)
	}
	if v, ok := raw["hourly"]; ok {
		p.Hourly = asList(v)
	} else {
		p.Hourly = asList(DefaultHourlyFields)
	}

	if err := validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			field := strings.ToLower(verrs[0].Field())
			return nil, fmt.Errorf("parameter %s is out of range", field)
		}
		return nil, fmt.Errorf("validate params: %w", err)
	}
	return p, nil
}

// asString accepts strings and numbers; anything else is "".
func asString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	default:
		return ""
	}
}

func stringOr(v any, def string) string {
	if s := asString(v); s != "" {
		return s
	}
	return def
}

// asNumber accepts numbers and numeric strings. Non-finite values and
// everything unparseable report as absent.
func asNumber(v any) *float64 {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case int:
		f = float64(t)
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// Accepted boolean tokens, case-insensitive.
var (
	truthy = map[string]bool{"true": true, "yes": true, "on": true, "1": true}
	falsy  = map[string]bool{"false": true, "no": true, "off": true, "0": true}
)

// asBool accepts booleans, the usual string tokens, and numbers
// (non-zero is true). Anything else keeps the default.
func asBool(v any, def bool) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		s := strings.ToLower(strings.TrimSpace(t))
		if truthy[s] {
			return true
		}
		if falsy[s] {
			return false
		}
		return def
	default:
		return def
	}
}

// asList accepts arrays (elements coerced to strings) and
// comma-separated strings; entries are trimmed and empties dropped, so
// "" and "," both normalize to an empty list.
func asList(v any) []string {
	var items []string
	switch t := v.(type) {
	case []any:
		for _, e := range t {
			items = append(items, asString(e))
		}
	case []string:
		items = t
	case string:
		items = strings.Split(t, ",")
	default:
		return nil
	}

	var out []string
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

func clampInt(v any, def, min, max int) int {
	n := asNumber(v)
	if n == nil {
		return def
	}
	i := int(*n)
	if i < min {
		return min
	}
	if i > max {
		return max
	}
	return i
}

func asTimeout(v any) time.Duration {
	n := asNumber(v)
	if n == nil || *n <= 0 {
		return defaultTimeout
	}
	return time.Duration(*n) * time.Millisecond
}
