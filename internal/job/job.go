// Package job orchestrates one plugin invocation: validate the job
// document, resolve the location, fetch forecast and optional
// air-quality data, build summaries, and assemble the single result
// document.
package job

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pixlcore/xyplug-weather/internal/airquality"
	"github.com/pixlcore/xyplug-weather/internal/client"
	"github.com/pixlcore/xyplug-weather/internal/config"
	"github.com/pixlcore/xyplug-weather/internal/forecast"
	"github.com/pixlcore/xyplug-weather/internal/geocode"
	"github.com/pixlcore/xyplug-weather/internal/observability"
	"github.com/pixlcore/xyplug-weather/internal/units"
)

// Runner executes job documents against the configured endpoints.
type Runner struct {
	cfg     *config.Plugin
	fetcher *client.Fetcher
	cache   geocode.Cache
	backend string
	logger  *zap.Logger
}

// NewRunner wires a Runner from the plugin configuration. The cache
// backend defaults to per-host temp files; memcached is opt-in via
// plugin config. The cache is a pure optimization, so a misconfigured
// memcached backend is logged and falls back to the file backend
// rather than failing jobs.
func NewRunner(cfg *config.Plugin, logger *zap.Logger) *Runner {
	correlationID := uuid.NewString()
	logger = logger.With(zap.String("correlation_id", correlationID))

	var (
		cache   geocode.Cache
		backend string
	)
	switch cfg.CacheBackend {
	case "memcached":
		mc, err := geocode.NewMemcachedCache(cfg.MemcachedAddrs, cfg.MemcachedTimeout)
		if err == nil {
			cache = mc
			backend = "memcached"
			break
		}
		logger.Warn("memcached cache unavailable, using file cache", zap.Error(err))
		fallthrough
	default:
		cache = geocode.NewFileCache(cfg.CacheDir)
		backend = "file"
	}

	return &Runner{
		cfg:     cfg,
		fetcher: client.New(correlationID),
		cache:   cache,
		backend: backend,
		logger:  logger,
	}
}

// Run executes one job document end to end and returns the report to
// emit. It never panics on bad input; every failure maps to one of the
// four envelope codes.
func (r *Runner) Run(ctx context.Context, input []byte) *Report {
	report := r.run(ctx, input)
	observability.JobsTotal.WithLabelValues(fmt.Sprint(report.Code)).Inc()
	return report
}

func (r *Runner) run(ctx context.Context, input []byte) *Report {
	job, err := config.ParseJob(input)
	if err != nil {
		return failf(KindInput, "%v", err).report()
	}

	params, err := config.Normalize(job.Params)
	if err != nil {
		return failf(KindParams, "%v", err).report()
	}

	// Everything checkable without the network fails before any call
	// goes out.
	if len(params.Daily) == 0 && len(params.Hourly) == 0 {
		return failf(KindParams, "at least one of the daily or hourly field lists must be non-empty").report()
	}

	loc, failure := r.resolveLocation(ctx, params)
	if failure != nil {
		return failure.report()
	}

	lat, lon := coordinates(params, loc)
	r.logger.Info("fetching forecast",
		zap.Float64("latitude", lat),
		zap.Float64("longitude", lon),
		zap.Bool("air_quality", params.AirQuality),
	)

	resp, failure := r.fetchForecast(ctx, params, lat, lon)
	if failure != nil {
		return failure.report()
	}

	var aq map[string]any
	if params.AirQuality {
		res := r.fetchAirQuality(ctx, params, lat, lon)
		if res.Degraded != nil {
			r.logger.Warn("air quality degraded", zap.Error(res.Degraded))
			aq = map[string]any{"error": res.Degraded.Error()}
		} else {
			aq = res.Value
		}
	}

	return successReport(r.assemble(params, loc, resp, aq))
}

// resolveLocation enforces the location rules: a supplied postal code
// must geocode, otherwise both coordinates must be finite numbers.
func (r *Runner) resolveLocation(ctx context.Context, params *config.Params) (*geocode.Location, *Failure) {
	if params.PostalCode != "" {
		resolver := geocode.NewResolver(r.fetcher, r.cache, r.backend, r.cfg.GeocodingURL, r.cfg.APIKey, params.Timeout, r.logger)
		loc, err := resolver.Resolve(ctx, params.PostalCode)
		if err != nil {
			return nil, failf(KindParams, "postal code %q: %v", params.PostalCode, err)
		}
		if loc == nil {
			return nil, failf(KindParams, "postal code %q did not resolve to coordinates", params.PostalCode)
		}
		return loc, nil
	}
	if !params.HasCoordinates() {
		return nil, failf(KindParams, "either postal_code or finite latitude and longitude are required")
	}
	return nil, nil
}

func (r *Runner) fetchForecast(ctx context.Context, params *config.Params, lat, lon float64) (*forecast.Response, *Failure) {
	var resp forecast.Response
	if err := r.fetcher.FetchJSON(ctx, "forecast", r.forecastURL(params, lat, lon), params.Timeout, &resp); err != nil {
		return nil, failf(KindHTTP, "forecast fetch: %v", err)
	}
	if resp.Error {
		reason := resp.Reason
		if reason == "" {
			reason = "provider reported an error"
		}
		return nil, failf(KindAPI, "forecast provider: %s", reason)
	}
	return &resp, nil
}

// fetchAirQuality is best-effort: any failure degrades into an error
// recorded on the payload, never an abort.
func (r *Runner) fetchAirQuality(ctx context.Context, params *config.Params, lat, lon float64) Result[map[string]any] {
	var resp airquality.Response
	if err := r.fetcher.FetchJSON(ctx, "air_quality", r.airQualityURL(params, lat, lon), params.Timeout, &resp); err != nil {
		return degraded[map[string]any](err)
	}
	if resp.Error {
		reason := resp.Reason
		if reason == "" {
			reason = "provider reported an error"
		}
		return degraded[map[string]any](errors.New(reason))
	}
	return ok(airquality.Current(&resp))
}

func (r *Runner) assemble(params *config.Params, loc *geocode.Location, resp *forecast.Response, aq map[string]any) *Payload {
	labels := forecast.Labels{
		Temperature:   units.Temperature(params.TemperatureUnit),
		Windspeed:     units.Windspeed(params.WindspeedUnit),
		Precipitation: units.Precipitation(params.PrecipitationUnit),
	}
	tz := displayTimezone(params.Timezone, resp.Timezone)

	payload := &Payload{
		Location:   locationInfo(resp, loc),
		Daily:      forecast.BuildDaily(resp, labels, tz),
		Hourly:     forecast.BuildHourly(resp, labels, tz, params.ForecastHours),
		AirQuality: aq,
		Units: Units{
			Temperature:   labels.Temperature,
			Windspeed:     labels.Windspeed,
			Precipitation: labels.Precipitation,
		},
	}

	if cur := forecast.BuildCurrent(resp, labels); cur != nil {
		parts := cur.Parts
		if v, unit, present := forecast.HumidityNow(resp); present {
			parts = append(parts, forecast.Clause("Humidity", v, unit))
		}
		if clause, present := airQualityClause(aq); present {
			parts = append(parts, clause)
		}
		payload.Current = &Current{
			Time:          cur.Time,
			Temperature:   cur.Temperature,
			Windspeed:     cur.Windspeed,
			Winddirection: cur.Winddirection,
			Weathercode:   cur.Weathercode,
			Emoji:         cur.Emoji,
			Description:   cur.Description,
			Summary:       strings.Join(parts, ", "),
		}
	}
	return payload
}

// airQualityClause renders "Air Quality: Good (23)" when a banded AQI
// sample is available.
func airQualityClause(aq map[string]any) (string, bool) {
	if aq == nil {
		return "", false
	}
	band, ok := aq["band"].(string)
	if !ok {
		return "", false
	}
	value, ok := aq["european_aqi"].(float64)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("Air Quality: %s (%s)", band, strconv.FormatFloat(value, 'f', -1, 64)), true
}

// displayTimezone picks the zone used for summary labels: an explicit
// request zone wins, otherwise the zone the provider resolved "auto"
// to, otherwise UTC via datefmt's auto handling.
func displayTimezone(requested, resolved string) string {
	if requested != "" && !strings.EqualFold(requested, "auto") {
		return requested
	}
	if resolved != "" {
		return resolved
	}
	return requested
}

func (r *Runner) forecastURL(p *config.Params, lat, lon float64) string {
	v := url.Values{}
	v.Set("latitude", formatCoord(lat))
	v.Set("longitude", formatCoord(lon))
	if len(p.Daily) > 0 {
		v.Set("daily", strings.Join(p.Daily, ","))
	}
	if len(p.Hourly) > 0 {
		v.Set("hourly", strings.Join(p.Hourly, ","))
	}
	v.Set("current_weather", "true")
	v.Set("temperature_unit", p.TemperatureUnit)
	v.Set("windspeed_unit", p.WindspeedUnit)
	v.Set("precipitation_unit", p.PrecipitationUnit)
	v.Set("timezone", p.Timezone)
	v.Set("forecast_days", strconv.Itoa(p.ForecastDays))
	v.Set("forecast_hours", strconv.Itoa(p.ForecastHours))
	if r.cfg.APIKey != "" {
		v.Set("apikey", r.cfg.APIKey)
	}
	return r.cfg.ForecastURL + "?" + v.Encode()
}

func (r *Runner) airQualityURL(p *config.Params, lat, lon float64) string {
	v := url.Values{}
	v.Set("latitude", formatCoord(lat))
	v.Set("longitude", formatCoord(lon))
	v.Set("hourly", airquality.Fields)
	v.Set("timezone", p.Timezone)
	v.Set("forecast_hours", "1")
	if r.cfg.APIKey != "" {
		v.Set("apikey", r.cfg.APIKey)
	}
	return r.cfg.AirQualityURL + "?" + v.Encode()
}

// coordinates picks the effective forecast coordinates: the geocoded
// location when the job came in by postal code, else the supplied
// parameters. Callers reach here only after location validation.
func coordinates(p *config.Params, loc *geocode.Location) (float64, float64) {
	if loc != nil {
		return loc.Latitude, loc.Longitude
	}
	return *p.Latitude, *p.Longitude
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
