// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gorilla/websocket"

	"github.com/relabs-tech/trip_odometer/internal/config"
	"github.com/relabs-tech/trip_odometer/internal/gps"
	"github.com/relabs-tech/trip_odometer/internal/odometer"
)

//go:embed web
var webFiles embed.FS

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// tripSnapshot is served by /api/trip.
type tripSnapshot struct {
	Summary odometer.Summary `json:"summary"`
	Track   []gps.Fix        `json:"track"`
}

// tripView keeps what the web server knows about the trip and the browsers
// that want to hear about new fixes.
type tripView struct {
	mu      sync.RWMutex
	summary odometer.Summary
	fixes   []gps.Fix
	clients map[*websocket.Conn]*sync.Mutex
}

func newTripView() *tripView {
	return &tripView{clients: make(map[*websocket.Conn]*sync.Mutex)}
}

func (v *tripView) addFix(f gps.Fix) {
	v.mu.Lock()
	v.fixes = append(v.fixes, f)
	clients := make(map[*websocket.Conn]*sync.Mutex, len(v.clients))
	for c, m := range v.clients {
		clients[c] = m
	}
	v.mu.Unlock()

	for conn, wmu := range clients {
		wmu.Lock()
		err := conn.WriteJSON(f)
		wmu.Unlock()
		if err != nil {
			log.Printf("web: websocket write error: %v", err)
			v.removeClient(conn)
		}
	}
}

func (v *tripView) setSummary(s odometer.Summary) {
	v.mu.Lock()
	v.summary = s
	v.mu.Unlock()
}

func (v *tripView) snapshot() tripSnapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return tripSnapshot{
		Summary: v.summary,
		Track:   append([]gps.Fix(nil), v.fixes...),
	}
}

func (v *tripView) removeClient(conn *websocket.Conn) {
	v.mu.Lock()
	delete(v.clients, conn)
	v.mu.Unlock()
	conn.Close()
}

func (v *tripView) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v.snapshot()); err != nil {
		log.Printf("web: json encode error: %v", err)
	}
}

// handleWS sends the track so far, then every new fix as it arrives.
func (v *tripView) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("web: websocket upgrade error: %v", err)
		return
	}

	// Backlog copy and registration share one view lock, so each fix is sent
	// exactly once. wmu stays held until the backlog is out.
	wmu := &sync.Mutex{}
	wmu.Lock()
	v.mu.Lock()
	backlog := append([]gps.Fix(nil), v.fixes...)
	v.clients[conn] = wmu
	v.mu.Unlock()

	for _, f := range backlog {
		if err := conn.WriteJSON(f); err != nil {
			wmu.Unlock()
			log.Printf("web: websocket write error: %v", err)
			v.removeClient(conn)
			return
		}
	}
	wmu.Unlock()

	// Nothing is expected from the browser; reading detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("web: websocket error: %v", err)
			}
			break
		}
	}
	v.removeClient(conn)
}

func (v *tripView) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/trip", v.handleSnapshot)
	mux.HandleFunc("/ws/trip", v.handleWS)
	static, err := fs.Sub(webFiles, "web")
	if err != nil {
		panic(err)
	}
	mux.Handle("/", http.FileServer(http.FS(static)))
	return mux
}

// RunWeb subscribes to the trip topics and serves the live trip to browsers.
func RunWeb() error {
	cfg := config.Get()
	view := newTripView()

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDWeb)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("web: connected to MQTT broker at %s", cfg.MQTTBroker)

	token := client.Subscribe(cfg.TopicTripFix, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var f gps.Fix
		if err := json.Unmarshal(msg.Payload(), &f); err != nil {
			log.Printf("web: fix unmarshal error: %v", err)
			return
		}
		view.addFix(f)
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("web: subscribed to %s", cfg.TopicTripFix)

	token = client.Subscribe(cfg.TopicTripSummary, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var s odometer.Summary
		if err := json.Unmarshal(msg.Payload(), &s); err != nil {
			log.Printf("web: summary unmarshal error: %v", err)
			return
		}
		view.setSummary(s)
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("web: subscribed to %s", cfg.TopicTripSummary)

	addr := fmt.Sprintf(":%d", cfg.WebServerPort)
	log.Printf("web server listening on %s", addr)
	return http.ListenAndServe(addr, view.routes())
}
