// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


package gps

import (
	"strconv"
	"strings"
	"time"
)

// Sentence tags as they appear on the wire from a GN (multi-GNSS)
// talker.
const (
	TagGGA = "$GNGGA"
	TagVTG = "$GNVTG"
)

// ggaMinFields covers indices 0-7, the only ones the parser reads. A
// full GGA sentence has 15 fields but trailing ones (HDOP, altitude,
// geoid separation, DGPS age) are never consumed here.
const ggaMinFields = 8

// PartialGGA is the position/fix half of a combined fix, produced by
// ParseGGA. Date and Time are already converted to the parser's civil
// timezone.
type PartialGGA struct {
	Coordinate   Coordinate
	Date         string // "2006-01-02"
	Time         string // "15:04:05"
	Satellites   int
	Quality      FixQuality
	HighAccuracy bool
}

// PartialVTG is the course/speed half of a combined fix, produced by
// ParseVTG. Either field may be absent on the wire.
type PartialVTG struct {
	Bearing  *float64
	SpeedKmh *float64
}

// Parser decodes GGA and VTG sentences into partial fix records.
// It holds the target civil timezone and a clock; GGA sentences carry
// no date field, so the calendar date is stamped from the clock's
// current UTC day.
type Parser struct {
	loc *time.Location
	now func() time.Time
}

// NewParser returns a Parser converting fix timestamps into loc.
func NewParser(loc *time.Location) *Parser {
	return &Parser{loc: loc, now: time.Now}
}

// ParseGGA decodes a fix sentence. It returns (nil, nil) when the line
// is not a GGA sentence or carries a non-actionable fix quality, and a
// *ParseError when a field it needs is malformed.
func (p *Parser) ParseGGA(line string) (*PartialGGA, error) {
	f := Tokenize(line)
	if len(f) == 0 || f[0] != TagGGA {
		return nil, nil
	}
	if len(f) < ggaMinFields {
		return nil, &ParseError{Sentence: TagGGA, Field: "field count",
			Err: errTooFewFields(len(f))}
	}

	q, err := strconv.Atoi(strings.TrimSpace(f[6]))
	if err != nil {
		return nil, &ParseError{Sentence: TagGGA, Field: "fix quality", Err: err}
	}
	quality := FixQuality(q)
	if !quality.Actionable() {
		// Recognized sentence, nothing worth keeping. Not an error.
		return nil, nil
	}

	tod, err := parseUTCTime(f[1])
	if err != nil {
		return nil, &ParseError{Sentence: TagGGA, Field: "time", Err: err}
	}

	lat, err := parseLatitude(f[2], f[3])
	if err != nil {
		return nil, &ParseError{Sentence: TagGGA, Field: "latitude", Err: err}
	}
	lon, err := parseLongitude(f[4], f[5])
	if err != nil {
		return nil, &ParseError{Sentence: TagGGA, Field: "longitude", Err: err}
	}
	coord, err := NewCoordinate(lat, lon)
	if err != nil {
		return nil, &ParseError{Sentence: TagGGA, Field: "coordinate", Err: err}
	}

	sats := 0
	if s := strings.TrimSpace(f[7]); s != "" {
		sats, err = strconv.Atoi(s)
		if err != nil {
			return nil, &ParseError{Sentence: TagGGA, Field: "satellites", Err: err}
		}
	}

	// The sentence carries only a time of day; stamp today's UTC date
	// onto it, then shift the whole timestamp into the civil timezone.
	nowUTC := p.now().UTC()
	utc := time.Date(nowUTC.Year(), nowUTC.Month(), nowUTC.Day(),
		tod.hour, tod.min, tod.sec, tod.micro*1000, time.UTC)
	local := utc.In(p.loc)

	return &PartialGGA{
		Coordinate:   coord,
		Date:         local.Format("2006-01-02"),
		Time:         local.Format("15:04:05"),
		Satellites:   sats,
		Quality:      quality,
		HighAccuracy: quality.HighAccuracy(),
	}, nil
}

// ParseVTG decodes a course/speed sentence. Field 1 is the true bearing
// in degrees, field 7 the ground speed in km/h (the "K" unit field).
// Empty fields decode to nil, not errors. Returns (nil, nil) when the
// line is not a VTG sentence.
func (p *Parser) ParseVTG(line string) (*PartialVTG, error) {
	f := Tokenize(line)
	if len(f) == 0 || f[0] != TagVTG {
		return nil, nil
	}
	if len(f) < 8 {
		return nil, &ParseError{Sentence: TagVTG, Field: "field count",
			Err: errTooFewFields(len(f))}
	}

	out := &PartialVTG{}
	if s := strings.TrimSpace(f[1]); s != "" {
		bearing, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, &ParseError{Sentence: TagVTG, Field: "bearing", Err: err}
		}
		out.Bearing = &bearing
	}
	if s := strings.TrimSpace(f[7]); s != "" {
		speed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, &ParseError{Sentence: TagVTG, Field: "speed", Err: err}
		}
		out.SpeedKmh = &speed
	}
	return out, nil
}

type errTooFewFields int

func (e errTooFewFields) Error() string {
	return "only " + strconv.Itoa(int(e)) + " fields"
}
