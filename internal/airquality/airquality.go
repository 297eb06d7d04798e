// Package airquality summarizes air-quality responses and bands the
// European AQI.
package airquality

import (
	"math"

	"github.com/pixlcore/xyplug-weather/internal/forecast"
)

// Fields is the hourly field list requested from the air-quality
// endpoint.
const Fields = "pm10,pm2_5,carbon_monoxide,nitrogen_dioxide,sulphur_dioxide,ozone,european_aqi"

// Response is the raw air-quality document. The hourly block has the
// same parallel-array shape as the forecast blocks.
type Response struct {
	Hourly      forecast.Block    `json:"hourly"`
	HourlyUnits map[string]string `json:"hourly_units"`
	Error       bool              `json:"error"`
	Reason      string            `json:"reason"`
}

// Current flattens the first hourly sample into {time, field: value}.
// Only non-empty series with a present first element contribute a
// field. A finite european_aqi additionally gets its band attached.
// Returns nil when the response carries no hourly time series.
func Current(resp *Response) map[string]any {
	times := resp.Hourly.Strings("time")
	if len(times) == 0 {
		return nil
	}

	out := map[string]any{"time": times[0]}
	for field := range resp.Hourly {
		if field == "time" {
			continue
		}
		vals := resp.Hourly.Numbers(field)
		if len(vals) == 0 || vals[0] == nil {
			continue
		}
		out[field] = *vals[0]
	}

	if v, ok := out["european_aqi"].(float64); ok {
		if band, ok := Band(v); ok {
			out["band"] = band
		}
	}
	return out
}

// Band classifies a European AQI value into its qualitative band using
// inclusive upper thresholds. Non-finite input reports ok=false.
func Band(aqi float64) (string, bool) {
	if math.IsNaN(aqi) || math.IsInf(aqi, 0) {
		return "", false
	}
	switch {
	case aqi <= 20:
		return "Good", true
	case aqi <= 40:
		return "Fair", true
	case aqi <= 60:
		return "Moderate", true
	case aqi <= 80:
		return "Poor", true
	case aqi <= 100:
		return "Very Poor", true
	default:
		return "Extremely Poor", true
	}
}
