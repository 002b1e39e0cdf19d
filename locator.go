package nearcaptcha

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/k1LoW/errors"
	"github.com/k1LoW/nearcaptcha/config"
	"github.com/k1LoW/nearcaptcha/template"
)

// Coordinates is the approximate position of the caller.
type Coordinates struct {
	Lat float32 `json:"lat"`
	Lon float32 `json:"lon"`
}

// Store is the nearest branch returned by the store locator.
type Store struct {
	Address    string `json:"address"`
	TodayHours string `json:"today_hours"`
}

// Locator resolves the caller's coordinates and the nearest store.
type Locator struct {
	client *retryablehttp.Client
	cfg    *config.Locator
	logger *slog.Logger
}

type geolocationResponse struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Lat     *float32 `json:"lat"`
	Lon     *float32 `json:"lon"`
}

type storeLocatorResponse struct {
	Features []struct {
		Properties *struct {
			AddressLine1 *string `json:"addressLine1"`
			TodayHours   *string `json:"todayHours"`
		} `json:"properties"`
	} `json:"features"`
}

// NewLocator returns a Locator that issues requests with client.
func NewLocator(client *retryablehttp.Client, cfg *config.Locator, logger *slog.Logger) *Locator {
	return &Locator{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// Locate resolves the nearest store to the caller.
func (l *Locator) Locate(ctx context.Context) (_ *Store, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	c, err := l.Geolocate(ctx)
	if err != nil {
		return nil, err
	}
	return l.NearestStore(ctx, c)
}

// Geolocate asks the geolocation service for the caller's coordinates.
// Any failure, including a response without both lat and lon, is reported as ErrLocationFailed.
func (l *Locator) Geolocate(ctx context.Context) (_ Coordinates, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	b, err := l.get(ctx, l.cfg.GeolocationURL)
	if err != nil {
		l.logger.Error("failed to geolocate", slog.String("error", err.Error()))
		return Coordinates{}, fmt.Errorf("%w: %w", ErrLocationFailed, err)
	}
	var res *geolocationResponse
	if err := json.Unmarshal(b, &res); err != nil {
		l.logger.Error("failed to decode geolocation response", slog.String("error", err.Error()))
		return Coordinates{}, fmt.Errorf("%w: %w", ErrLocationFailed, err)
	}
	if res == nil || res.Lat == nil || res.Lon == nil {
		l.logger.Error("failed to geolocate: lat or lon is missing", slog.String("status", statusOf(res)), slog.String("message", messageOf(res)))
		return Coordinates{}, fmt.Errorf("%w: lat or lon is missing", ErrLocationFailed)
	}
	c := Coordinates{Lat: *res.Lat, Lon: *res.Lon}
	l.logger.Info("geolocated", slog.Any("lat", c.Lat), slog.Any("lon", c.Lon))
	return c, nil
}

// StoreLocatorURL builds the store locator query for c.
func (l *Locator) StoreLocatorURL(c Coordinates) (_ string, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	store := map[string]any{
		"latitude":   url.QueryEscape(formatCoordinate(c.Lat)),
		"longitude":  url.QueryEscape(formatCoordinate(c.Lon)),
		"radius":     l.cfg.Radius,
		"maxResults": l.cfg.MaxResults,
		"country":    url.QueryEscape(l.cfg.Country),
		"language":   url.QueryEscape(l.cfg.Language),
	}
	u, err := template.Expand(l.cfg.StoreLocatorURL, store)
	if err != nil {
		return "", fmt.Errorf("failed to expand store locator URL: %w", err)
	}
	if _, err := url.Parse(u); err != nil {
		return "", fmt.Errorf("invalid store locator URL %s: %w", u, err)
	}
	return u, nil
}

// NearestStore returns the first store listed by the store locator around c.
func (l *Locator) NearestStore(ctx context.Context, c Coordinates) (_ *Store, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	u, err := l.StoreLocatorURL(c)
	if err != nil {
		return nil, err
	}
	b, err := l.get(ctx, u)
	if err != nil {
		l.logger.Error("failed to fetch store locator", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to fetch store locator: %w", err)
	}
	var res storeLocatorResponse
	if err := json.Unmarshal(b, &res); err != nil {
		return nil, fmt.Errorf("failed to decode store locator response: %w", err)
	}
	if len(res.Features) == 0 {
		return nil, ErrNoStoreFound
	}
	p := res.Features[0].Properties
	if p == nil || p.AddressLine1 == nil || p.TodayHours == nil {
		return nil, fmt.Errorf("%w: address or hours is missing", ErrNoStoreFound)
	}
	s := &Store{
		Address:    *p.AddressLine1,
		TodayHours: *p.TodayHours,
	}
	l.logger.Info("found store", slog.String("address", s.Address))
	return s, nil
}

func (l *Locator) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	res, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to request %s: %w", rawURL, err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("failed to request %s: status code %d", rawURL, res.StatusCode)
	}
	b, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", rawURL, err)
	}
	l.logger.Debug("fetched", slog.String("url", rawURL), slog.Int("bytes", len(b)))
	return b, nil
}

// formatCoordinate renders f in its shortest decimal form.
func formatCoordinate(f float32) string {
	return strconv.FormatFloat(float64(f), 'f', -1, 32)
}

func statusOf(res *geolocationResponse) string {
	if res == nil {
		return ""
	}
	return res.Status
}

func messageOf(res *geolocationResponse) string {
	if res == nil {
		return ""
	}
	return res.Message
}
