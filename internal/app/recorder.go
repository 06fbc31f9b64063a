// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/sirupsen/logrus"

	"github.com/relabs-tech/gps_recorder/internal/config"
	"github.com/relabs-tech/gps_recorder/internal/gps"
	"github.com/relabs-tech/gps_recorder/internal/serialport"
	"github.com/relabs-tech/gps_recorder/internal/store"
)

// fixQueueSize bounds the hand-off between the serial reader and the
// storage writer. When the writer falls behind, the reader blocks here
// instead of buffering fixes without limit.
const fixQueueSize = 16

// Recorder is the ingest daemon: serial NMEA stream in, fix rows out.
type Recorder struct {
	cfg *config.Config
	log *logrus.Logger
}

func NewRecorder(cfg *config.Config, log *logrus.Logger) *Recorder {
	return &Recorder{cfg: cfg, log: log}
}

// Run wires the pipeline and blocks until the context is cancelled or
// the serial transport fails. Parse failures and storage failures never
// stop ingestion; only transport loss does.
func (r *Recorder) Run(ctx context.Context) error {
	loc, err := time.LoadLocation(r.cfg.Timezone)
	if err != nil {
		return fmt.Errorf("timezone %q: %w", r.cfg.Timezone, err)
	}

	// ---- 1) Storage ----
	st, err := store.Open(ctx, store.Config{
		Host:     r.cfg.Database.Host,
		Port:     r.cfg.Database.Port,
		User:     r.cfg.Database.User,
		Password: r.cfg.Database.Password,
		Name:     r.cfg.Database.Name,
	})
	if err != nil {
		return err
	}
	defer st.Close()
	r.log.WithField("host", r.cfg.Database.Host).Info("connected to database")

	// ---- 2) MQTT fan-out (optional) ----
	var client mqtt.Client
	if r.cfg.MQTT.Enabled {
		opts := mqtt.NewClientOptions().
			AddBroker(r.cfg.MQTT.Broker).
			SetClientID(r.cfg.MQTT.ClientID)
		client = mqtt.NewClient(opts)
		if token := client.Connect(); token.Wait() && token.Error() != nil {
			return fmt.Errorf("mqtt connect: %w", token.Error())
		}
		defer client.Disconnect(250)
		r.log.WithField("broker", r.cfg.MQTT.Broker).Info("connected to MQTT broker")
	}

	// ---- 3) GPS serial port ----
	port, device, err := serialport.Open(serialport.Config{
		Device: r.cfg.Serial.Device,
		Baud:   r.cfg.Serial.Baud,
	})
	if err != nil {
		return err
	}
	defer port.Close()
	r.log.WithFields(logrus.Fields{
		"device": device,
		"baud":   r.cfg.Serial.Baud,
	}).Info("gps serial port opened")

	// A blocked serial read only returns once the port is closed, so
	// cancellation closes it out from under the reader.
	go func() {
		<-ctx.Done()
		port.Close()
	}()

	fixes := make(chan gps.FixRecord, fixQueueSize)
	writeDone := make(chan struct{})
	go func() {
		defer close(writeDone)
		r.writeLoop(ctx, fixes, st, client)
	}()

	err = r.readLoop(ctx, serialport.NewLineReader(port), loc, fixes)
	close(fixes)
	<-writeDone
	return err
}

// lineSource is the read side of the serial transport: one
// terminator-stripped line per call, transport errors propagated.
type lineSource interface {
	ReadLine() (string, error)
}

// readLoop is the single sequential owner of the tokenizer, parsers and
// fusion accumulator. It pushes completed fixes onto the bounded queue.
func (r *Recorder) readLoop(ctx context.Context, lr lineSource, loc *time.Location, fixes chan<- gps.FixRecord) error {
	parser := gps.NewParser(loc)
	acc := gps.NewAccumulator(r.cfg.Fusion.MaxAge)

	for {
		// Cancellation is checked between reads, never mid-parse.
		if ctx.Err() != nil {
			return nil
		}

		line, err := lr.ReadLine()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			// Transport error: fatal to this loop, reconnect policy is
			// the operator's (systemd restart or similar).
			return fmt.Errorf("gps read: %w", err)
		}

		switch {
		case strings.HasPrefix(line, gps.TagGGA):
			p, err := parser.ParseGGA(line)
			if err != nil {
				r.log.WithError(err).Warn("gga sentence discarded")
				continue
			}
			if p == nil {
				// Valid sentence, non-actionable fix quality.
				r.log.WithField("line", line).Debug("gga fix rejected")
				continue
			}
			acc.AddGGA(p)

		case strings.HasPrefix(line, gps.TagVTG):
			p, err := parser.ParseVTG(line)
			if err != nil {
				r.log.WithError(err).Warn("vtg sentence discarded")
				continue
			}
			if p == nil {
				continue
			}
			acc.AddVTG(p)

		default:
			continue
		}

		if !acc.Complete() {
			continue
		}
		rec := acc.Take()
		if err := rec.Validate(); err != nil {
			r.log.WithError(err).Debug("completed fix rejected")
			continue
		}
		select {
		case fixes <- rec:
		case <-ctx.Done():
			return nil
		}
	}
}

// writeLoop owns the storage and MQTT collaborators. Persistence errors
// are logged and swallowed; a database outage must never stop the read
// side.
func (r *Recorder) writeLoop(ctx context.Context, fixes <-chan gps.FixRecord, st *store.Store, client mqtt.Client) {
	// Fixes already queued still get written during shutdown.
	ctx = context.WithoutCancel(ctx)
	for rec := range fixes {
		if err := st.InsertFix(ctx, rec); err != nil {
			r.log.WithError(err).Error("fix not stored")
		} else {
			r.log.WithFields(logrus.Fields{
				"lat":  rec.Latitude,
				"lon":  rec.Longitude,
				"time": rec.Timestamp(),
			}).Info("fix stored")
		}

		if client == nil {
			continue
		}
		payload, err := json.Marshal(rec)
		if err != nil {
			r.log.WithError(err).Error("fix marshal failed")
			continue
		}
		if token := client.Publish(r.cfg.MQTT.Topic, 0, true, payload); token.Wait() && token.Error() != nil {
			r.log.WithError(token.Error()).Error("fix publish failed")
		}
	}
}
