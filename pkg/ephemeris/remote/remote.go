// Package remote implements ephemeris.Provider against a sidereal ephemeris
// server (see package server).
//
// Responses are pure functions of their query, so they are cached on disk
// through httputil and never refetched unless Refresh is set. Transport
// failures and 5xx answers are retried; 422 answers are mapped back onto the
// ephemeris sentinel errors so callers classify them exactly as they would
// a local provider's.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/matzehuels/sidereal/pkg/buildinfo"
	"github.com/matzehuels/sidereal/pkg/ephemeris"
	"github.com/matzehuels/sidereal/pkg/httputil"
	"github.com/matzehuels/sidereal/pkg/server"
)

// Provider queries a remote ephemeris server.
type Provider struct {
	base   string
	client *httputil.Client

	// Refresh bypasses cached responses.
	Refresh bool
}

// New returns a provider for the server at baseURL. A nil cache disables
// response caching.
func New(baseURL string, cache *httputil.Cache) (*Provider, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("remote: invalid base url %q", baseURL)
	}
	if cache != nil {
		cache = cache.Namespace("remote:" + u.Host + ":")
	}
	return &Provider{
		base:   strings.TrimRight(baseURL, "/"),
		client: httputil.NewClient(cache, map[string]string{"User-Agent": buildinfo.UserAgent()}),
	}, nil
}

// WithClient replaces the HTTP client, e.g. to tune retries in tests.
func (p *Provider) WithClient(c *httputil.Client) *Provider {
	p.client = c
	return p
}

// Name implements ephemeris.Provider.
func (p *Provider) Name() string { return "remote" }

// Position implements ephemeris.Provider.
func (p *Provider) Position(ctx context.Context, jd float64, body ephemeris.Body, sidereal bool) (ephemeris.Coordinates, error) {
	if !body.Valid() {
		return ephemeris.Coordinates{}, fmt.Errorf("%w: %d", ephemeris.ErrUnsupportedBody, int(body))
	}
	q := url.Values{}
	q.Set("jd", formatJD(jd))
	q.Set("sidereal", strconv.FormatBool(sidereal))

	var resp server.PositionResponse
	if err := p.get(ctx, "/v1/bodies/"+body.String(), q, &resp); err != nil {
		return ephemeris.Coordinates{}, err
	}
	return ephemeris.Coordinates{
		Longitude: resp.Longitude,
		Latitude:  resp.Latitude,
		Speed:     resp.Speed,
	}, nil
}

// Ayanamsa implements ephemeris.Provider.
func (p *Provider) Ayanamsa(ctx context.Context, jd float64) (float64, error) {
	q := url.Values{}
	q.Set("jd", formatJD(jd))

	var resp server.AyanamsaResponse
	if err := p.get(ctx, "/v1/ayanamsa", q, &resp); err != nil {
		return 0, err
	}
	return resp.Ayanamsa, nil
}

// HouseCusps implements ephemeris.Provider.
func (p *Provider) HouseCusps(ctx context.Context, jd, lat, lon float64, system string) (ephemeris.HouseData, error) {
	q := url.Values{}
	q.Set("jd", formatJD(jd))
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("system", system)

	var resp server.HousesResponse
	if err := p.get(ctx, "/v1/houses", q, &resp); err != nil {
		return ephemeris.HouseData{}, err
	}
	return ephemeris.HouseData{
		Cusps:     resp.Cusps,
		Ascendant: resp.Ascendant,
		MC:        resp.MC,
		ARMC:      resp.ARMC,
	}, nil
}

func (p *Provider) get(ctx context.Context, path string, q url.Values, v any) error {
	// Encode sorts keys, so identical queries share a cache entry.
	rel := path + "?" + q.Encode()
	err := p.client.Cached(ctx, rel, p.Refresh, v, func() error {
		return p.client.Get(ctx, p.base+rel, v)
	})
	if err != nil {
		return classify(err)
	}
	return nil
}

// classify maps structured server errors onto ephemeris sentinels.
func classify(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var se *httputil.StatusError
	if !errors.As(err, &se) {
		return fmt.Errorf("remote: %w", err)
	}

	var body server.ErrorResponse
	if json.Unmarshal(se.Body, &body) != nil || body.Error.Code == "" {
		return fmt.Errorf("remote: %w", err)
	}
	detail := body.Error
	switch detail.Code {
	case "UNSUPPORTED_BODY":
		return fmt.Errorf("%w: %s", ephemeris.ErrUnsupportedBody, detail.Message)
	case "UNSUPPORTED_HOUSE_SYSTEM":
		return fmt.Errorf("%w: %s", ephemeris.ErrUnsupportedHouseSystem, detail.Message)
	case "OUT_OF_RANGE":
		return fmt.Errorf("%w: %s", ephemeris.ErrOutOfRange, detail.Message)
	}
	return fmt.Errorf("remote: %s: %s: %w", detail.Code, detail.Message, err)
}

// formatJD keeps enough digits for sub-second resolution.
func formatJD(jd float64) string {
	return strconv.FormatFloat(jd, 'f', 8, 64)
}
