// Package wmo classifies WMO weather interpretation codes into display
// emoji and descriptions.
package wmo

// Classification pairs an emoji with a capitalized human-readable
// description of the conditions.
type Classification struct {
	Emoji       string `json:"emoji"`
	Description string `json:"description"`
}

// codes is the fixed mapping of known WMO weather codes. Codes absent
// from this table classify as unknown conditions.
var codes = map[int]Classification{
	0:  {"☀️", "Clear sky"},
	1:  {"🌤️", "Mainly clear"},
	2:  {"⛅", "Partly cloudy"},
	3:  {"☁️", "Overcast"},
	45: {"🌫️", "Fog"},
	48: {"🌫️", "Depositing rime fog"},
	51: {"🌦️", "Light drizzle"},
	53: {"🌦️", "Moderate drizzle"},
	55: {"🌧️", "Dense drizzle"},
	56: {"🌧️", "Light freezing drizzle"},
	57: {"🌧️", "Dense freezing drizzle"},
	61: {"🌦️", "Slight rain"},
	63: {"🌧️", "Moderate rain"},
	65: {"🌧️", "Heavy rain"},
	66: {"🌧️", "Light freezing rain"},
	67: {"🌧️", "Heavy freezing rain"},
	68: {"🌨️", "Slight sleet"},
	69: {"🌨️", "Heavy sleet"},
	71: {"🌨️", "Slight snow fall"},
	73: {"🌨️", "Moderate snow fall"},
	75: {"❄️", "Heavy snow fall"},
	77: {"❄️", "Snow grains"},
	79: {"❄️", "Ice pellets"},
	80: {"🌦️", "Slight rain showers"},
	81: {"🌧️", "Moderate rain showers"},
	82: {"⛈️", "Violent rain showers"},
	85: {"🌨️", "Slight snow showers"},
	86: {"❄️", "Heavy snow showers"},
	89: {"⛈️", "Slight hail showers"},
	90: {"⛈️", "Heavy hail showers"},
	95: {"⛈️", "Thunderstorm"},
	96: {"⛈️", "Thunderstorm with slight hail"},
	99: {"⛈️", "Thunderstorm with heavy hail"},
}

// Classify returns the classification for a numeric weather code. Codes
// outside the known table return the 🌪️ unknown-conditions fallback.
func Classify(code int) Classification {
	if c, ok := codes[code]; ok {
		return c
	}
	return Classification{Emoji: "🌪️", Description: "Unknown conditions"}
}

// Missing is the classification for a sample that carries no weather
// code at all. Distinct from Classify's fallback so callers can tell
// "no code reported" apart from "code we do not recognize".
func Missing() Classification {
	return Classification{Emoji: "❓", Description: "Unknown conditions"}
}
