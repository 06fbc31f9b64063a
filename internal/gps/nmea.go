// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


package gps

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseError reports a malformed NMEA sentence: a field that should be
// numeric is not, the time is too short, or the sentence is truncated.
// It is distinct from "valid sentence, no usable fix", which parsers
// signal by returning a nil record and a nil error.
type ParseError struct {
	Sentence string // sentence tag, e.g. "$GNGGA"
	Field    string // human name of the offending field
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("nmea: %s: bad %s: %v", e.Sentence, e.Field, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Tokenize splits one terminator-stripped NMEA line into its
// comma-delimited fields. The checksum suffix (after '*') is not
// stripped; it rides along in the final field, which the sentence
// parsers never read. An empty line yields no fields. Tokenize never
// fails: prefix dispatch is the caller's job.
func Tokenize(line string) []string {
	if line == "" {
		return nil
	}
	return strings.Split(line, ",")
}

// parseLatLon decodes an NMEA coordinate field plus hemisphere letter
// into signed decimal degrees. Latitude raw values carry exactly two
// integer-degree digits (ddmm.mmmm), longitude exactly three
// (dddmm.mmmm); degDigits selects which.
func parseLatLon(raw, hemi string, degDigits int) (float64, error) {
	if raw == "" {
		return 0, fmt.Errorf("empty value")
	}
	if len(raw) <= degDigits {
		return 0, fmt.Errorf("value %q too short", raw)
	}
	deg, err := strconv.Atoi(raw[:degDigits])
	if err != nil {
		return 0, fmt.Errorf("degrees %q: %w", raw[:degDigits], err)
	}
	min, err := strconv.ParseFloat(raw[degDigits:], 64)
	if err != nil {
		return 0, fmt.Errorf("minutes %q: %w", raw[degDigits:], err)
	}
	dd := float64(deg) + min/60
	switch hemi {
	case "N", "E":
	case "S", "W":
		dd = -dd
	case "":
		return 0, fmt.Errorf("missing hemisphere")
	default:
		return 0, fmt.Errorf("hemisphere %q", hemi)
	}
	return dd, nil
}

// parseLatitude decodes a ddmm.mmmm latitude with its N/S hemisphere.
func parseLatitude(raw, hemi string) (float64, error) {
	return parseLatLon(raw, hemi, 2)
}

// parseLongitude decodes a dddmm.mmmm longitude with its E/W hemisphere.
func parseLongitude(raw, hemi string) (float64, error) {
	return parseLatLon(raw, hemi, 3)
}

// utcTime is a decoded NMEA time-of-day field.
type utcTime struct {
	hour, min, sec int
	micro          int
}

// parseUTCTime decodes a fixed-width HHMMSS[.ffffff] field. Microseconds
// come from the fractional remainder scaled by 1e6.
func parseUTCTime(raw string) (utcTime, error) {
	if len(raw) < 6 {
		return utcTime{}, fmt.Errorf("time %q too short", raw)
	}
	hour, err := strconv.Atoi(raw[0:2])
	if err != nil {
		return utcTime{}, fmt.Errorf("hour %q: %w", raw[0:2], err)
	}
	min, err := strconv.Atoi(raw[2:4])
	if err != nil {
		return utcTime{}, fmt.Errorf("minute %q: %w", raw[2:4], err)
	}
	sec, err := strconv.Atoi(raw[4:6])
	if err != nil {
		return utcTime{}, fmt.Errorf("second %q: %w", raw[4:6], err)
	}
	t := utcTime{hour: hour, min: min, sec: sec}
	if len(raw) > 6 {
		frac, err := strconv.ParseFloat("0"+raw[6:], 64)
		if err != nil {
			return utcTime{}, fmt.Errorf("fraction %q: %w", raw[6:], err)
		}
		t.micro = int(frac * 1e6)
	}
	return t, nil
}

// KnotsToKmh converts a speed over ground from knots to km/h.
func KnotsToKmh(knots float64) float64 {
	return knots * 1.852
}
