package server

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/sidereal/pkg/buildinfo"
	"github.com/matzehuels/sidereal/pkg/chart"
	"github.com/matzehuels/sidereal/pkg/ephemeris"
	"github.com/matzehuels/sidereal/pkg/errors"
	"github.com/matzehuels/sidereal/pkg/observability"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:   "ok",
		Provider: s.provider.Name(),
		Version:  buildinfo.Version,
	})
}

func (s *Server) handleAyanamsa(w http.ResponseWriter, r *http.Request) {
	jd, err := julianDay(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	v, err := query(r.Context(), s.provider, "ayanamsa", func(ctx context.Context) (float64, error) {
		return s.provider.Ayanamsa(ctx, jd)
	})
	if err != nil {
		s.writeError(w, r, chart.ProviderError(err, "ayanamsa at jd %.5f", jd))
		return
	}
	writeJSON(w, http.StatusOK, AyanamsaResponse{JD: jd, Ayanamsa: v})
}

func (s *Server) handlePosition(w http.ResponseWriter, r *http.Request) {
	body, err := ephemeris.ParseBody(chi.URLParam(r, "body"))
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidBody, err, "unknown body %q", chi.URLParam(r, "body")))
		return
	}
	jd, err := julianDay(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sidereal := false
	if v := r.URL.Query().Get("sidereal"); v != "" {
		if sidereal, err = strconv.ParseBool(v); err != nil {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "sidereal must be a boolean, got %q", v))
			return
		}
	}

	c, err := query(r.Context(), s.provider, "position", func(ctx context.Context) (ephemeris.Coordinates, error) {
		return s.provider.Position(ctx, jd, body, sidereal)
	})
	if err != nil {
		s.writeError(w, r, chart.ProviderError(err, "position of %s", body))
		return
	}
	writeJSON(w, http.StatusOK, PositionResponse{
		Body:      body,
		JD:        jd,
		Sidereal:  sidereal,
		Longitude: c.Longitude,
		Latitude:  c.Latitude,
		Speed:     c.Speed,
	})
}

func (s *Server) handleHouses(w http.ResponseWriter, r *http.Request) {
	jd, err := julianDay(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	lat, err := floatParam(q.Get("lat"), "lat", errors.ErrCodeInvalidLatitude)
	if err == nil {
		err = errors.ValidateLatitude(lat)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	lon, err := floatParam(q.Get("lon"), "lon", errors.ErrCodeInvalidLongitude)
	if err == nil {
		err = errors.ValidateLongitude(lon)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	system := q.Get("system")
	if system == "" {
		system = chart.DefaultHouseSystem
	}
	if err := errors.ValidateHouseSystem(system); err != nil {
		s.writeError(w, r, err)
		return
	}

	h, err := query(r.Context(), s.provider, "houses", func(ctx context.Context) (ephemeris.HouseData, error) {
		return s.provider.HouseCusps(ctx, jd, lat, lon, system)
	})
	if err != nil {
		s.writeError(w, r, chart.ProviderError(err, "house cusps (system %q)", system))
		return
	}
	writeJSON(w, http.StatusOK, HousesResponse{
		JD:        jd,
		Latitude:  lat,
		Longitude: lon,
		System:    system,
		Cusps:     h.Cusps,
		Ascendant: h.Ascendant,
		MC:        h.MC,
		ARMC:      h.ARMC,
	})
}

// query runs one provider call and reports it to the provider hooks.
func query[T any](ctx context.Context, p ephemeris.Provider, op string, fn func(context.Context) (T, error)) (T, error) {
	start := time.Now()
	v, err := fn(ctx)
	observability.Provider().OnQuery(ctx, p.Name(), op, time.Since(start), err)
	return v, err
}

func julianDay(r *http.Request) (float64, error) {
	return floatParam(r.URL.Query().Get("jd"), "jd", errors.ErrCodeInvalidInput)
}

func floatParam(raw, name string, code errors.Code) (float64, error) {
	if raw == "" {
		return 0, errors.New(code, "%s is required", name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New(code, "%s must be a finite number, got %q", name, raw)
	}
	return v, nil
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status >= 500 {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{
		Code:    string(code),
		Message: errors.UserMessage(err),
	}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, `{"error":{"code":"INTERNAL_ERROR","message":"encoding failed"}}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(data)
}
