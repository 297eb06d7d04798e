// Package units maps request unit codes to display labels.
package units

import "strings"

var temperature = map[string]string{
	"celsius":    "°C",
	"fahrenheit": "°F",
}

var windspeed = map[string]string{
	"kmh": "km/h",
	"ms":  "m/s",
	"mph": "mph",
	"kn":  "kn",
}

var precipitation = map[string]string{
	"mm":   "mm",
	"inch": "in",
}

// Temperature returns the display label for a temperature unit code,
// or "" when the code is not recognized.
func Temperature(code string) string {
	return temperature[normalize(code)]
}

// Windspeed returns the display label for a wind speed unit code,
// or "" when the code is not recognized.
func Windspeed(code string) string {
	return windspeed[normalize(code)]
}

// Precipitation returns the display label for a precipitation unit
// code, or "" when the code is not recognized.
func Precipitation(code string) string {
	return precipitation[normalize(code)]
}

func normalize(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
