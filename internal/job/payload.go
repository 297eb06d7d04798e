package job

import (
	"github.com/pixlcore/xyplug-weather/internal/forecast"
	"github.com/pixlcore/xyplug-weather/internal/geocode"
)

// Payload is the success document emitted under data. Constructed
// once, never mutated.
type Payload struct {
	Location   *LocationInfo            `json:"location"`
	Current    *Current                 `json:"current,omitempty"`
	Daily      []forecast.PeriodSummary `json:"daily,omitempty"`
	Hourly     []forecast.PeriodSummary `json:"hourly,omitempty"`
	AirQuality map[string]any           `json:"air_quality,omitempty"`
	Units      Units                    `json:"units"`
}

// LocationInfo is the resolved location as emitted: the coordinates
// the forecast was fetched for, the provider's resolved timezone and
// elevation, and postal metadata when the job came in by postal code.
type LocationInfo struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Timezone    string  `json:"timezone,omitempty"`
	Elevation   float64 `json:"elevation,omitempty"`
	PostalCode  string  `json:"postal_code,omitempty"`
	Name        string  `json:"name,omitempty"`
	Admin1      string  `json:"admin1,omitempty"`
	Admin2      string  `json:"admin2,omitempty"`
	Admin3      string  `json:"admin3,omitempty"`
	Admin4      string  `json:"admin4,omitempty"`
	CountryCode string  `json:"country_code,omitempty"`
}

// Current is the emitted current-conditions entry. Summary is the
// fully assembled display line including the orchestrator-appended
// humidity and air-quality clauses.
type Current struct {
	Time          string   `json:"time,omitempty"`
	Temperature   *float64 `json:"temperature,omitempty"`
	Windspeed     *float64 `json:"windspeed,omitempty"`
	Winddirection *float64 `json:"winddirection,omitempty"`
	Weathercode   *int     `json:"weathercode,omitempty"`
	Emoji         string   `json:"emoji"`
	Description   string   `json:"description"`
	Summary       string   `json:"summary"`
}

// Units are the resolved display labels for the job's unit parameters.
type Units struct {
	Temperature   string `json:"temperature,omitempty"`
	Windspeed     string `json:"windspeed,omitempty"`
	Precipitation string `json:"precipitation,omitempty"`
}

func locationInfo(resp *forecast.Response, loc *geocode.Location) *LocationInfo {
	info := &LocationInfo{
		Latitude:  resp.Latitude,
		Longitude: resp.Longitude,
		Timezone:  resp.Timezone,
		Elevation: resp.Elevation,
	}
	if loc != nil {
		info.PostalCode = loc.PostalCode
		info.Name = loc.Name
		info.Admin1 = loc.Admin1
		info.Admin2 = loc.Admin2
		info.Admin3 = loc.Admin3
		info.Admin4 = loc.Admin4
		info.CountryCode = loc.CountryCode
	}
	return info
}
