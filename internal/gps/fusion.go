// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


package gps

import "time"

// Accumulator merges successive partial records (one GGA half, one VTG
// half) into a combined fix. It is owned by a single reader goroutine
// and is not safe for concurrent use.
//
// Completeness is a field-presence test: the position half must have
// arrived and the speed field must have been *seen*, even if it decoded
// to nil. A receiver standing still emits VTG sentences with an empty
// speed field; those still complete a fix.
type Accumulator struct {
	coord   *Coordinate
	date    string
	timeStr string
	sats    int
	quality FixQuality
	highAcc bool

	bearing   *float64
	speedKmh  *float64
	speedSeen bool

	firstAt time.Time
	maxAge  time.Duration
	now     func() time.Time
}

// NewAccumulator returns an empty accumulator. maxAge bounds how long a
// half-filled fix may wait for its other half; a partial older than
// maxAge is discarded when the next sentence arrives. Zero preserves
// the historical behavior of waiting forever.
func NewAccumulator(maxAge time.Duration) *Accumulator {
	return &Accumulator{maxAge: maxAge, now: time.Now}
}

// AddGGA merges the position half into the working fix.
func (a *Accumulator) AddGGA(g *PartialGGA) {
	a.expire()
	c := g.Coordinate
	a.coord = &c
	a.date = g.Date
	a.timeStr = g.Time
	a.sats = g.Satellites
	a.quality = g.Quality
	a.highAcc = g.HighAccuracy
	a.touch()
}

// AddVTG merges the course/speed half into the working fix.
func (a *Accumulator) AddVTG(v *PartialVTG) {
	a.expire()
	a.bearing = v.Bearing
	a.speedKmh = v.SpeedKmh
	a.speedSeen = true
	a.touch()
}

// Complete reports whether both halves have arrived.
func (a *Accumulator) Complete() bool {
	return a.coord != nil && a.date != "" && a.timeStr != "" && a.speedSeen
}

// Take snapshots the combined fix and resets the accumulator. This is
// the transaction boundary: ownership of the record transfers to the
// caller and the working state is cleared for the next fix. Take must
// only be called after Complete reports true.
func (a *Accumulator) Take() FixRecord {
	rec := FixRecord{
		Coordinate:   *a.coord,
		Date:         a.date,
		Time:         a.timeStr,
		SpeedKmh:     a.speedKmh,
		Bearing:      a.bearing,
		Quality:      a.quality,
		Satellites:   a.sats,
		HighAccuracy: a.highAcc,
	}
	a.reset()
	return rec
}

func (a *Accumulator) reset() {
	*a = Accumulator{maxAge: a.maxAge, now: a.now}
}

// expire drops a stale half-filled fix before merging new data.
func (a *Accumulator) expire() {
	if a.maxAge <= 0 || a.firstAt.IsZero() {
		return
	}
	if a.now().Sub(a.firstAt) > a.maxAge {
		a.reset()
	}
}

func (a *Accumulator) touch() {
	if a.firstAt.IsZero() {
		a.firstAt = a.now()
	}
}
