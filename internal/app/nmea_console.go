package app

import (
	"fmt"
	"strings"

	nmea "github.com/adrianmo/go-nmea"
	"github.com/sirupsen/logrus"

	"github.com/relabs-tech/gps_recorder/internal/config"
	"github.com/relabs-tech/gps_recorder/internal/gps"
	"github.com/relabs-tech/gps_recorder/internal/serialport"
)

// RunNMEAConsole dumps every NMEA sentence a receiver emits, decoded
// with the go-nmea library. Bring-up tool: unlike the recorder it
// verifies checksums and understands all sentence types, so it answers
// "what is this unit actually sending" before the ingest path is wired.
func RunNMEAConsole(cfg *config.Config, log *logrus.Logger) error {
	port, device, err := serialport.Open(serialport.Config{
		Device: cfg.Serial.Device,
		Baud:   cfg.Serial.Baud,
	})
	if err != nil {
		return err
	}
	defer port.Close()
	log.WithFields(logrus.Fields{
		"device": device,
		"baud":   cfg.Serial.Baud,
	}).Info("nmea console: serial port opened")

	lr := serialport.NewLineReader(port)
	for {
		line, err := lr.ReadLine()
		if err != nil {
			return fmt.Errorf("gps read: %w", err)
		}
		if !strings.HasPrefix(line, "$") {
			continue
		}

		s, err := nmea.Parse(line)
		if err != nil {
			// Noisy receivers emit partial sentences; keep going.
			log.WithError(err).Debug("nmea console: parse error")
			continue
		}

		switch m := s.(type) {
		case nmea.GGA:
			fmt.Printf("[GGA] %s lat=%.6f lon=%.6f quality=%s sats=%d alt=%.1fm\n",
				m.Time, m.Latitude, m.Longitude, m.FixQuality, m.NumSatellites, m.Altitude)
		case nmea.VTG:
			fmt.Printf("[VTG] track=%.1f° speed=%.1f km/h\n",
				m.TrueTrack, m.GroundSpeedKPH)
		case nmea.RMC:
			fmt.Printf("[RMC] %s %s lat=%.6f lon=%.6f speed=%.1f km/h course=%.1f° validity=%s\n",
				m.Date, m.Time, m.Latitude, m.Longitude,
				gps.KnotsToKmh(m.Speed), m.Course, m.Validity)
		default:
			fmt.Printf("[%s] %s\n", s.DataType(), line)
		}
	}
}
