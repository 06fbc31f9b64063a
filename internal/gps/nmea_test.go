package gps

import (
	"errors"
	"math"
	"testing"
	"time"
)

func fixedParser(loc *time.Location) *Parser {
	p := NewParser(loc)
	p.now = func() time.Time {
		return time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	}
	return p
}

func TestTokenize(t *testing.T) {
	if got := Tokenize(""); got != nil {
		t.Fatalf("empty line: expected no fields, got %v", got)
	}
	f := Tokenize("$GNVTG,054.7,T,034.4,M,005.5,N,010.2,K*48")
	if len(f) != 9 {
		t.Fatalf("expected 9 fields, got %d: %v", len(f), f)
	}
	// The checksum is not stripped; it rides in the last field.
	if f[8] != "K*48" {
		t.Fatalf("expected checksum to trail the final field, got %q", f[8])
	}
}

func TestParseLatitude(t *testing.T) {
	lat, err := parseLatitude("4807.038", "N")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if math.Abs(lat-48.1173) > 1e-6 {
		t.Fatalf("expected 48.1173, got %v", lat)
	}

	lat, err = parseLatitude("4807.038", "S")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if lat >= 0 {
		t.Fatalf("expected negative latitude for S, got %v", lat)
	}

	for _, tc := range []struct{ raw, hemi string }{
		{"", "N"},
		{"4807.038", ""},
		{"4807.038", "X"},
		{"48xx.038", "N"},
		{"48", "N"},
	} {
		if _, err := parseLatitude(tc.raw, tc.hemi); err == nil {
			t.Fatalf("expected error for raw=%q hemi=%q", tc.raw, tc.hemi)
		}
	}
}

func TestParseLongitude(t *testing.T) {
	lon, err := parseLongitude("01131.000", "E")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if math.Abs(lon-11.5166666667) > 1e-6 {
		t.Fatalf("expected 11.51666..., got %v", lon)
	}

	lon, err = parseLongitude("01131.000", "W")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if lon >= 0 {
		t.Fatalf("expected negative longitude for W, got %v", lon)
	}
}

func TestParseUTCTime(t *testing.T) {
	tod, err := parseUTCTime("123519.25")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if tod.hour != 12 || tod.min != 35 || tod.sec != 19 {
		t.Fatalf("unexpected time: %+v", tod)
	}
	if tod.micro != 250000 {
		t.Fatalf("expected 250000 microseconds, got %d", tod.micro)
	}

	if _, err := parseUTCTime("1235"); err == nil {
		t.Fatalf("expected error for short time")
	}
	if _, err := parseUTCTime("12xx19"); err == nil {
		t.Fatalf("expected error for non-numeric time")
	}
}

func TestKnotsToKmh(t *testing.T) {
	if got := KnotsToKmh(10); got != 18.52 {
		t.Fatalf("expected 18.52, got %v", got)
	}
	if got := KnotsToKmh(0); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
}

func TestParseGGA_Valid(t *testing.T) {
	p := fixedParser(time.UTC)
	rec, err := p.ParseGGA("$GNGGA,123519.00,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,*47")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if rec == nil {
		t.Fatalf("expected a record")
	}
	if math.Abs(rec.Coordinate.Latitude-48.1173) > 1e-6 {
		t.Fatalf("latitude: expected 48.1173, got %v", rec.Coordinate.Latitude)
	}
	if math.Abs(rec.Coordinate.Longitude-11.5166666667) > 1e-6 {
		t.Fatalf("longitude: expected 11.51666..., got %v", rec.Coordinate.Longitude)
	}
	if rec.Quality != QualityGPS {
		t.Fatalf("expected quality 1, got %d", rec.Quality)
	}
	if rec.Satellites != 8 {
		t.Fatalf("expected 8 satellites, got %d", rec.Satellites)
	}
	if rec.HighAccuracy {
		t.Fatalf("quality 1 must not be high accuracy")
	}
	if rec.Date != "2024-03-15" || rec.Time != "12:35:19" {
		t.Fatalf("unexpected date/time: %s %s", rec.Date, rec.Time)
	}
}

func TestParseGGA_TimezoneConversion(t *testing.T) {
	// UTC+5:30; 12:35:19Z becomes 18:05:19 local.
	ist := time.FixedZone("IST", 5*3600+1800)
	p := fixedParser(ist)
	rec, err := p.ParseGGA("$GNGGA,123519.00,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,*47")
	if err != nil || rec == nil {
		t.Fatalf("parse: rec=%v err=%v", rec, err)
	}
	if rec.Time != "18:05:19" {
		t.Fatalf("expected 18:05:19 local, got %s", rec.Time)
	}
	if rec.Date != "2024-03-15" {
		t.Fatalf("unexpected local date: %s", rec.Date)
	}
}

func TestParseGGA_QualityGate(t *testing.T) {
	p := fixedParser(time.UTC)
	for _, q := range []string{"0", "6", "7", "8"} {
		rec, err := p.ParseGGA("$GNGGA,123519.00,4807.038,N,01131.000,E," + q + ",08,0.9,545.4,M,46.9,M,,*47")
		if err != nil {
			t.Fatalf("quality %s: expected silent drop, got err %v", q, err)
		}
		if rec != nil {
			t.Fatalf("quality %s: expected no record, got %+v", q, rec)
		}
	}
}

func TestParseGGA_HighAccuracy(t *testing.T) {
	p := fixedParser(time.UTC)
	for _, q := range []string{"4", "5"} {
		rec, err := p.ParseGGA("$GNGGA,123519.00,4807.038,N,01131.000,E," + q + ",08,0.9,545.4,M,46.9,M,,*47")
		if err != nil || rec == nil {
			t.Fatalf("quality %s: rec=%v err=%v", q, rec, err)
		}
		if !rec.HighAccuracy {
			t.Fatalf("quality %s: expected high accuracy", q)
		}
	}
}

func TestParseGGA_BlankSatellites(t *testing.T) {
	p := fixedParser(time.UTC)
	rec, err := p.ParseGGA("$GNGGA,123519.00,4807.038,N,01131.000,E,1,,0.9,545.4,M,46.9,M,,*47")
	if err != nil || rec == nil {
		t.Fatalf("rec=%v err=%v", rec, err)
	}
	if rec.Satellites != 0 {
		t.Fatalf("expected 0 satellites for blank field, got %d", rec.Satellites)
	}
}

func TestParseGGA_Malformed(t *testing.T) {
	p := fixedParser(time.UTC)

	// Not a GGA sentence at all: silent no-data, never an error.
	rec, err := p.ParseGGA("Invalid Sentence")
	if rec != nil || err != nil {
		t.Fatalf("expected nil/nil for foreign line, got rec=%v err=%v", rec, err)
	}

	// Recognized but broken sentences are structured parse errors.
	for _, line := range []string{
		"$GNGGA,123519.00,4807.038,N",                                         // truncated
		"$GNGGA,12,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,*47",       // short time
		"$GNGGA,123519.00,xxxx.xxx,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,*47", // bad latitude
		"$GNGGA,123519.00,4807.038,N,01131.000,E,Q,08,0.9,545.4,M,46.9,M,,*47", // bad quality
	} {
		_, err := p.ParseGGA(line)
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Fatalf("line %q: expected *ParseError, got %v", line, err)
		}
	}
}

func TestParseVTG_Valid(t *testing.T) {
	p := fixedParser(time.UTC)
	rec, err := p.ParseVTG("$GNVTG,054.7,T,034.4,M,005.5,N,010.2,K*48")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if rec == nil {
		t.Fatalf("expected a record")
	}
	if rec.Bearing == nil || math.Abs(*rec.Bearing-54.7) > 1e-9 {
		t.Fatalf("expected bearing 54.7, got %v", rec.Bearing)
	}
	if rec.SpeedKmh == nil || math.Abs(*rec.SpeedKmh-10.2) > 1e-9 {
		t.Fatalf("expected speed 10.2 km/h, got %v", rec.SpeedKmh)
	}
}

func TestParseVTG_EmptyFields(t *testing.T) {
	p := fixedParser(time.UTC)
	rec, err := p.ParseVTG("$GNVTG,,T,,M,,N,,K*48")
	if err != nil || rec == nil {
		t.Fatalf("rec=%v err=%v", rec, err)
	}
	if rec.Bearing != nil {
		t.Fatalf("expected nil bearing, got %v", *rec.Bearing)
	}
	if rec.SpeedKmh != nil {
		t.Fatalf("expected nil speed, got %v", *rec.SpeedKmh)
	}
}

func TestParseVTG_Malformed(t *testing.T) {
	p := fixedParser(time.UTC)
	rec, err := p.ParseVTG("Invalid Sentence")
	if rec != nil || err != nil {
		t.Fatalf("expected nil/nil for foreign line, got rec=%v err=%v", rec, err)
	}

	_, err = p.ParseVTG("$GNVTG,bad,T,034.4,M,005.5,N,010.2,K*48")
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
}
