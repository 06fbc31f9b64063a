// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


package app

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/relabs-tech/gps_recorder/internal/config"
	"github.com/relabs-tech/gps_recorder/internal/gps"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // local dashboards only
	},
}

// fixFeed keeps the latest fix and fans each new one out to connected
// WebSocket clients.
type fixFeed struct {
	log *logrus.Logger

	mu      sync.RWMutex
	last    gps.FixRecord
	haveFix bool
	clients map[*websocket.Conn]struct{}
}

func newFixFeed(log *logrus.Logger) *fixFeed {
	return &fixFeed{log: log, clients: make(map[*websocket.Conn]struct{})}
}

func (f *fixFeed) publish(rec gps.FixRecord) {
	f.mu.Lock()
	f.last = rec
	f.haveFix = true
	conns := make([]*websocket.Conn, 0, len(f.clients))
	for c := range f.clients {
		conns = append(conns, c)
	}
	f.mu.Unlock()

	for _, c := range conns {
		if err := c.WriteJSON(rec); err != nil {
			f.log.WithError(err).Debug("websocket client dropped")
			f.remove(c)
		}
	}
}

func (f *fixFeed) add(c *websocket.Conn) {
	f.mu.Lock()
	f.clients[c] = struct{}{}
	f.mu.Unlock()
}

func (f *fixFeed) remove(c *websocket.Conn) {
	f.mu.Lock()
	delete(f.clients, c)
	f.mu.Unlock()
	c.Close()
}

// RunWeb serves the live fix feed: latest fix as JSON, a WebSocket push
// stream, and a health endpoint. Fixes arrive over MQTT from the
// recorder, so the web server runs anywhere the broker is reachable.
func RunWeb(cfg *config.Config, log *logrus.Logger) error {
	feed := newFixFeed(log)

	// ---- 1) Subscribe to the fix topic ----
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTT.Broker).
		SetClientID(cfg.MQTT.ClientID + "-web")
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("mqtt connect: %w", token.Error())
	}
	defer client.Disconnect(250)
	log.WithField("broker", cfg.MQTT.Broker).Info("web: connected to MQTT broker")

	token := client.Subscribe(cfg.MQTT.Topic, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var rec gps.FixRecord
		if err := json.Unmarshal(msg.Payload(), &rec); err != nil {
			log.WithError(err).Warn("web: fix payload unmarshal error")
			return
		}
		feed.publish(rec)
	})
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("mqtt subscribe: %w", token.Error())
	}
	log.WithField("topic", cfg.MQTT.Topic).Info("web: subscribed to fix topic")

	// ---- 2) HTTP surface ----
	router := mux.NewRouter()

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	router.HandleFunc("/api/fix", func(w http.ResponseWriter, r *http.Request) {
		feed.mu.RLock()
		defer feed.mu.RUnlock()
		if !feed.haveFix {
			http.Error(w, "no fix yet", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(feed.last); err != nil {
			log.WithError(err).Warn("web: json encode error")
		}
	}).Methods("GET")

	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.WithError(err).Warn("web: websocket upgrade error")
			return
		}
		feed.add(conn)
		// Drain (and ignore) client messages; removal happens on the
		// first read error.
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					feed.remove(conn)
					return
				}
			}
		}()
	})

	addr := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	log.WithField("addr", addr).Info("web server listening")
	return http.ListenAndServe(addr, router)
}
