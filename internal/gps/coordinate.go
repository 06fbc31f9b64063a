package gps

import (
	"fmt"
	"math"
)

// Coordinate is a validated geographic position in decimal degrees.
// A Coordinate can only be obtained through NewCoordinate, so an
// out-of-range value never exists once constructed.
type Coordinate struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// RangeError reports a latitude or longitude outside its legal domain.
type RangeError struct {
	Axis  string // "latitude" or "longitude"
	Value float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("gps: %s %v out of range", e.Axis, e.Value)
}

// IsValidLatitude reports whether lat is within [-90, 90].
func IsValidLatitude(lat float64) bool {
	return lat >= -90 && lat <= 90
}

// IsValidLongitude reports whether lon is within [-180, 180].
func IsValidLongitude(lon float64) bool {
	return lon >= -180 && lon <= 180
}

// NewCoordinate builds a Coordinate, rejecting out-of-range values.
func NewCoordinate(lat, lon float64) (Coordinate, error) {
	if !IsValidLatitude(lat) {
		return Coordinate{}, &RangeError{Axis: "latitude", Value: lat}
	}
	if !IsValidLongitude(lon) {
		return Coordinate{}, &RangeError{Axis: "longitude", Value: lon}
	}
	return Coordinate{Latitude: lat, Longitude: lon}, nil
}

// DMS is a degrees-minutes-seconds angular value, used for display and
// export only; parsing works in decimal degrees throughout.
type DMS struct {
	Degrees int
	Minutes int
	Seconds float64
}

// DegreesToDMS splits decimal degrees into integer degrees, integer
// minutes and a seconds remainder rounded to six decimal places.
//
// Truncation is toward zero. For negative input the component signs are
// not normalized: -12.5 yields (-12, -30, -0). Callers that need a single
// signed triple must handle negative values themselves.
func DegreesToDMS(dd float64) DMS {
	deg := math.Trunc(dd)
	min := math.Trunc((dd - deg) * 60)
	sec := (dd - deg - min/60) * 3600
	sec = math.Round(sec*1e6) / 1e6
	return DMS{Degrees: int(deg), Minutes: int(min), Seconds: sec}
}

func (d DMS) String() string {
	return fmt.Sprintf("%d°%d'%.6f\"", d.Degrees, d.Minutes, d.Seconds)
}
