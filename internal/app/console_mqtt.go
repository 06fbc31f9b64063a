package app

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/sirupsen/logrus"

	"github.com/relabs-tech/gps_recorder/internal/config"
	"github.com/relabs-tech/gps_recorder/internal/gps"
)

// RunConsole subscribes to the fix topic and prints each stored fix,
// one line per record, until interrupted.
func RunConsole(cfg *config.Config, log *logrus.Logger) error {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTT.Broker).
		SetClientID(cfg.MQTT.ClientID + "-console")

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("mqtt connect: %w", token.Error())
	}
	log.WithField("broker", cfg.MQTT.Broker).Info("console: connected to MQTT broker")

	token := client.Subscribe(cfg.MQTT.Topic, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var rec gps.FixRecord
		if err := json.Unmarshal(msg.Payload(), &rec); err != nil {
			log.WithError(err).Warn("console: fix unmarshal error")
			return
		}

		speed := "   -  "
		if rec.SpeedKmh != nil {
			speed = fmt.Sprintf("%6.1f", *rec.SpeedKmh)
		}
		bearing := "   -  "
		if rec.Bearing != nil {
			bearing = fmt.Sprintf("%6.1f", *rec.Bearing)
		}
		fmt.Printf(
			"[FIX]  %s  lat=%10.6f lon=%11.6f  speed=%s km/h  bearing=%s°  quality=%s sats=%d\n",
			rec.Timestamp(), rec.Latitude, rec.Longitude, speed, bearing, rec.Quality, rec.Satellites,
		)
	})
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("mqtt subscribe: %w", token.Error())
	}
	log.WithField("topic", cfg.MQTT.Topic).Info("console: subscribed to fix topic")

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("console: shutting down")
	client.Disconnect(250)
	return nil
}
