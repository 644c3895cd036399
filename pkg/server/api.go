package server

import (
	"github.com/matzehuels/sidereal/pkg/ephemeris"
)

// Wire types of the ephemeris API. The remote provider decodes the same
// structs.

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a pkg/errors code and its user message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthResponse answers GET /healthz.
type HealthResponse struct {
	Status   string `json:"status"`
	Provider string `json:"provider"`
	Version  string `json:"version"`
}

// AyanamsaResponse answers GET /v1/ayanamsa.
type AyanamsaResponse struct {
	JD       float64 `json:"jd"`
	Ayanamsa float64 `json:"ayanamsa"`
}

// PositionResponse answers GET /v1/bodies/{body}.
type PositionResponse struct {
	Body      ephemeris.Body `json:"body"`
	JD        float64        `json:"jd"`
	Sidereal  bool           `json:"sidereal"`
	Longitude float64        `json:"longitude"`
	Latitude  float64        `json:"latitude"`
	Speed     float64        `json:"speed"`
}

// HousesResponse answers GET /v1/houses.
type HousesResponse struct {
	JD        float64     `json:"jd"`
	Latitude  float64     `json:"latitude"`
	Longitude float64     `json:"longitude"`
	System    string      `json:"system"`
	Cusps     [12]float64 `json:"cusps"`
	Ascendant float64     `json:"ascendant"`
	MC        float64     `json:"mc"`
	ARMC      float64     `json:"armc"`
}
