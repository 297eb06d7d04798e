// Package forecast models the weather provider's forecast response and
// derives the display summaries for the current, daily and hourly
// periods.
package forecast

import "encoding/json"

// Block holds one of the provider's parallel-array sections ("daily"
// or "hourly"). The set of columns follows whatever fields the job
// requested, so arrays are kept raw and decoded on access. Unknown or
// malformed columns simply decode to nothing.
type Block map[string]json.RawMessage

// Strings decodes a column of strings (the "time" axis). Returns nil
// when the column is absent or not a string array.
func (b Block) Strings(field string) []string {
	raw, ok := b[field]
	if !ok {
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

// Numbers decodes a numeric column. Elements may be null (the provider
// pads short series), so values come back as pointers. Returns nil
// when the column is absent or not a numeric array.
func (b Block) Numbers(field string) []*float64 {
	raw, ok := b[field]
	if !ok {
		return nil
	}
	var out []*float64
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

// Len is the number of samples, taken from the time axis.
func (b Block) Len() int {
	return len(b.Strings("time"))
}

// CurrentWeather is the provider's current-conditions sample. Fields
// are pointers because the provider omits what it cannot measure.
type CurrentWeather struct {
	Time          string   `json:"time"`
	Temperature   *float64 `json:"temperature"`
	Windspeed     *float64 `json:"windspeed"`
	Winddirection *float64 `json:"winddirection"`
	Weathercode   *int     `json:"weathercode"`
}

// Response is the raw forecast document. Error/Reason carry the
// provider's application-level failure flag.
type Response struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Elevation float64 `json:"elevation"`
	Timezone  string  `json:"timezone"`

	CurrentWeather      *CurrentWeather   `json:"current_weather"`
	CurrentWeatherUnits map[string]string `json:"current_weather_units"`

	Daily      Block             `json:"daily"`
	DailyUnits map[string]string `json:"daily_units"`

	Hourly      Block             `json:"hourly"`
	HourlyUnits map[string]string `json:"hourly_units"`

	Error  bool   `json:"error"`
	Reason string `json:"reason"`
}
