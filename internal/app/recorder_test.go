package app

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/relabs-tech/gps_recorder/internal/config"
	"github.com/relabs-tech/gps_recorder/internal/gps"
)

// scriptedSource replays a fixed set of lines, then reports EOF.
type scriptedSource struct {
	lines []string
	i     int
}

func (s *scriptedSource) ReadLine() (string, error) {
	if s.i >= len(s.lines) {
		return "", io.EOF
	}
	line := s.lines[s.i]
	s.i++
	return line, nil
}

func testRecorder() *Recorder {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewRecorder(&config.Config{}, log)
}

func runReadLoop(t *testing.T, lines []string) ([]gps.FixRecord, error) {
	t.Helper()
	r := testRecorder()
	fixes := make(chan gps.FixRecord, 16)
	err := r.readLoop(context.Background(), &scriptedSource{lines: lines}, time.UTC, fixes)
	close(fixes)
	var out []gps.FixRecord
	for rec := range fixes {
		out = append(out, rec)
	}
	return out, err
}

func TestReadLoop_OneFixPerSentencePair(t *testing.T) {
	fixes, err := runReadLoop(t, []string{
		"$GNGGA,123519.00,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,*47",
		"$GNVTG,054.7,T,034.4,M,005.5,N,010.2,K*48",
	})
	if err == nil {
		t.Fatalf("expected transport error at end of script")
	}
	if len(fixes) != 1 {
		t.Fatalf("expected 1 fix, got %d", len(fixes))
	}
	rec := fixes[0]
	if rec.SpeedKmh == nil || *rec.SpeedKmh != 10.2 {
		t.Fatalf("unexpected speed: %+v", rec.SpeedKmh)
	}
	if rec.Quality != gps.QualityGPS {
		t.Fatalf("unexpected quality: %v", rec.Quality)
	}
}

func TestReadLoop_EitherSentenceOrder(t *testing.T) {
	fixes, _ := runReadLoop(t, []string{
		"$GNVTG,054.7,T,034.4,M,005.5,N,010.2,K*48",
		"$GNGGA,123519.00,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,*47",
	})
	if len(fixes) != 1 {
		t.Fatalf("expected 1 fix, got %d", len(fixes))
	}
}

func TestReadLoop_GarbageAndRejectsAreSilent(t *testing.T) {
	fixes, _ := runReadLoop(t, []string{
		"Invalid Sentence",
		"$GNGGA,123519.00,4807.038,N,01131.000,E,0,08,0.9,545.4,M,46.9,M,,*47", // no fix
		"$GNGGA,bad",  // truncated
		"$GNTXT,hello", // foreign type
		"$GNGGA,123519.00,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,*47",
		"$GNVTG,054.7,T,034.4,M,005.5,N,010.2,K*48",
	})
	if len(fixes) != 1 {
		t.Fatalf("expected exactly 1 fix despite noise, got %d", len(fixes))
	}
}

func TestReadLoop_RepeatedGGANeverEmits(t *testing.T) {
	fixes, _ := runReadLoop(t, []string{
		"$GNGGA,123519.00,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,*47",
		"$GNGGA,123520.00,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,*47",
		"$GNGGA,123521.00,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,*47",
	})
	if len(fixes) != 0 {
		t.Fatalf("expected no fixes without a VTG half, got %d", len(fixes))
	}
}

func TestReadLoop_CancelledContextStopsCleanly(t *testing.T) {
	r := testRecorder()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fixes := make(chan gps.FixRecord, 1)
	err := r.readLoop(ctx, &scriptedSource{}, time.UTC, fixes)
	if err != nil {
		t.Fatalf("cancelled loop must exit nil, got %v", err)
	}
}
