package forecast

import (
	"strconv"
	"strings"

	"github.com/pixlcore/xyplug-weather/internal/datefmt"
	"github.com/pixlcore/xyplug-weather/internal/wmo"
)

// Labels are the display unit suffixes derived from the request
// parameters. They are the fallback when the provider response does
// not report a unit for a field; a field with neither gets no suffix.
type Labels struct {
	Temperature   string
	Windspeed     string
	Precipitation string
}

// PeriodSummary is one derived display entry for a day or an hour.
type PeriodSummary struct {
	Date        string `json:"date,omitempty"`
	Time        string `json:"time,omitempty"`
	Label       string `json:"label"`
	Emoji       string `json:"emoji"`
	Description string `json:"description"`
	Line        string `json:"line"`
}

// CurrentSummary carries the classified current sample plus its
// summary clauses. Humidity and air-quality clauses are appended by
// the orchestrator, not here.
type CurrentSummary struct {
	Time          string
	Temperature   *float64
	Windspeed     *float64
	Winddirection *float64
	Weathercode   *int
	Emoji         string
	Description   string
	Parts         []string
}

// BuildDaily derives one summary per day. Clause order is fixed:
// description, High, Low, one precipitation clause, Wind. Of the
// precipitation categories only the first positive one in priority
// order Snow > Showers > Rain is shown.
func BuildDaily(resp *Response, fallback Labels, tz string) []PeriodSummary {
	times := resp.Daily.Strings("time")
	if len(times) == 0 {
		return nil
	}

	codes := columns(resp.Daily, "weathercode", "weather_code")
	highs := columns(resp.Daily, "temperature_2m_max")
	lows := columns(resp.Daily, "temperature_2m_min")
	snow := columns(resp.Daily, "snowfall_sum")
	showers := columns(resp.Daily, "showers_sum")
	rain := columns(resp.Daily, "rain_sum")
	wind := columns(resp.Daily, "windspeed_10m_max", "wind_speed_10m_max")

	tempUnit := unitFor(resp.DailyUnits, fallback.Temperature, "temperature_2m_max", "temperature_2m_min")
	windUnit := unitFor(resp.DailyUnits, fallback.Windspeed, "windspeed_10m_max", "wind_speed_10m_max")

	out := make([]PeriodSummary, 0, len(times))
	for i, date := range times {
		cls := classifyAt(codes, i)
		label := datefmt.DayLabel(date, tz)

		parts := []string{cls.Description}
		if v, ok := at(highs, i); ok {
			parts = append(parts, Clause("High", v, tempUnit))
		}
		if v, ok := at(lows, i); ok {
			parts = append(parts, Clause("Low", v, tempUnit))
		}
		if v, ok := at(snow, i); ok && v > 0 {
			parts = append(parts, Clause("Snow", v, unitFor(resp.DailyUnits, fallback.Precipitation, "snowfall_sum")))
		} else if v, ok := at(showers, i); ok && v > 0 {
			parts = append(parts, Clause("Showers", v, unitFor(resp.DailyUnits, fallback.Precipitation, "showers_sum")))
		} else if v, ok := at(rain, i); ok && v > 0 {
			parts = append(parts, Clause("Rain", v, unitFor(resp.DailyUnits, fallback.Precipitation, "rain_sum")))
		}
		if v, ok := at(wind, i); ok {
			parts = append(parts, Clause("Wind", v, windUnit))
		}

		out = append(out, PeriodSummary{
			Date:        date,
			Label:       label,
			Emoji:       cls.Emoji,
			Description: cls.Description,
			Line:        label + ": " + strings.Join(parts, ", "),
		})
	}
	return out
}

// BuildHourly derives one summary per hour for up to limit leading
// entries; a negative limit means all available. Clause order is
// fixed: description, temperature, Precipitation (only when positive),
// Wind, Humidity.
func BuildHourly(resp *Response, fallback Labels, tz string, limit int) []PeriodSummary {
	times := resp.Hourly.Strings("time")
	n := len(times)
	if n == 0 {
		return nil
	}
	if limit < 0 || limit > n {
		limit = n
	}

	codes := columns(resp.Hourly, "weathercode", "weather_code")
	temps := columns(resp.Hourly, "temperature_2m")
	precip := columns(resp.Hourly, "precipitation")
	wind := columns(resp.Hourly, "windspeed_10m", "wind_speed_10m")
	humidity := columns(resp.Hourly, "relativehumidity_2m", "relative_humidity_2m")

	tempUnit := unitFor(resp.HourlyUnits, fallback.Temperature, "temperature_2m")
	precipUnit := unitFor(resp.HourlyUnits, fallback.Precipitation, "precipitation")
	windUnit := unitFor(resp.HourlyUnits, fallback.Windspeed, "windspeed_10m", "wind_speed_10m")
	humidityUnit := unitFor(resp.HourlyUnits, "%", "relativehumidity_2m", "relative_humidity_2m")

	out := make([]PeriodSummary, 0, limit)
	for i := 0; i < limit; i++ {
		cls := classifyAt(codes, i)
		label := datefmt.HourLabel(times[i], tz)

		parts := []string{cls.Description}
		if v, ok := at(temps, i); ok {
			parts = append(parts, Clause("", v, tempUnit))
		}
		if v, ok := at(precip, i); ok && v > 0 {
			parts = append(parts, Clause("Precipitation", v, precipUnit))
		}
		if v, ok := at(wind, i); ok {
			parts = append(parts, Clause("Wind", v, windUnit))
		}
		if v, ok := at(humidity, i); ok {
			parts = append(parts, Clause("Humidity", v, humidityUnit))
		}

		out = append(out, PeriodSummary{
			Time:        times[i],
			Label:       label,
			Emoji:       cls.Emoji,
			Description: cls.Description,
			Line:        label + ": " + strings.Join(parts, ", "),
		})
	}
	return out
}

// BuildCurrent derives the current-conditions summary. Returns nil
// when the response has no current sample.
func BuildCurrent(resp *Response, fallback Labels) *CurrentSummary {
	cw := resp.CurrentWeather
	if cw == nil {
		return nil
	}

	cls := wmo.Missing()
	if cw.Weathercode != nil {
		cls = wmo.Classify(*cw.Weathercode)
	}

	tempUnit := unitFor(resp.CurrentWeatherUnits, fallback.Temperature, "temperature")
	windUnit := unitFor(resp.CurrentWeatherUnits, fallback.Windspeed, "windspeed")

	parts := []string{cls.Description}
	if cw.Temperature != nil {
		parts = append(parts, Clause("", *cw.Temperature, tempUnit))
	}
	if cw.Windspeed != nil {
		parts = append(parts, Clause("Wind", *cw.Windspeed, windUnit))
	}

	return &CurrentSummary{
		Time:          cw.Time,
		Temperature:   cw.Temperature,
		Windspeed:     cw.Windspeed,
		Winddirection: cw.Winddirection,
		Weathercode:   cw.Weathercode,
		Emoji:         cls.Emoji,
		Description:   cls.Description,
		Parts:         parts,
	}
}

// HumidityNow returns the leading relative-humidity sample and its
// display unit, when the hourly block carries one. The current-weather
// sample has no humidity of its own, so the orchestrator borrows the
// first hourly value.
func HumidityNow(resp *Response) (float64, string, bool) {
	vals := columns(resp.Hourly, "relativehumidity_2m", "relative_humidity_2m")
	v, ok := at(vals, 0)
	if !ok {
		return 0, "", false
	}
	return v, unitFor(resp.HourlyUnits, "%", "relativehumidity_2m", "relative_humidity_2m"), true
}

// columns returns the first present column among alternate field
// spellings (the provider renamed several fields between API
// versions).
func columns(b Block, names ...string) []*float64 {
	for _, name := range names {
		if vals := b.Numbers(name); vals != nil {
			return vals
		}
	}
	return nil
}

// unitFor prefers the unit the provider reported for a field over the
// request-derived fallback label.
func unitFor(apiUnits map[string]string, fallback string, fields ...string) string {
	for _, field := range fields {
		if u, ok := apiUnits[field]; ok && u != "" {
			return u
		}
	}
	return fallback
}

func classifyAt(codes []*float64, i int) wmo.Classification {
	if i < len(codes) && codes[i] != nil {
		return wmo.Classify(int(*codes[i]))
	}
	return wmo.Missing()
}

func at(vals []*float64, i int) (float64, bool) {
	if i < len(vals) && vals[i] != nil {
		return *vals[i], true
	}
	return 0, false
}

// Clause renders "Name value<unit>". Degree and percent suffixes bind
// directly to the number; word units get a space.
func Clause(name string, v float64, unit string) string {
	val := strconv.FormatFloat(v, 'f', -1, 64)
	if unit != "" {
		if strings.HasPrefix(unit, "°") || unit == "%" {
			val += unit
		} else {
			val += " " + unit
		}
	}
	if name == "" {
		return val
	}
	return name + " " + val
}
