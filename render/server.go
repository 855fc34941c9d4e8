// Copyright 2021 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// HTTP server for clock images and frames
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/aamcrae/nixie/tube"

	"github.com/gorilla/websocket"
)

// Controller is the part of a clock that the server reads and changes.
type Controller interface {
	Frame() tube.Frame
	ApplyManual(timeStr, dateStr string) bool
	ShowTemperature(d time.Duration)
}

// Server serves the clock face and pushes frames to websocket clients.
//
//	GET  /clock.png     the current frame as an image
//	GET  /frame         the current frame as JSON
//	GET  /ws            a stream of JSON frames, sent when they change
//	POST /manual        set the time (time=HH:MM, date=YYYY-MM-DD); both empty clears it
//	POST /temperature   flash the temperature (optional seconds=N)
type Server struct {
	ctl      Controller
	image    *Image
	log      *slog.Logger
	upgrader websocket.Upgrader
	mu       sync.Mutex // Guards the fields below
	last     []byte
	clients  map[chan []byte]struct{}
}

// Frames queued per websocket client before frames are dropped.
const clientQueue = 8

// NewServer creates a server for the clock ctl.
func NewServer(ctl Controller, im *Image, log *slog.Logger) *Server {
	return &Server{
		ctl:     ctl,
		image:   im,
		log:     log,
		clients: make(map[chan []byte]struct{}),
	}
}

// Handler returns the routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /clock.png", s.handleImage)
	mux.HandleFunc("GET /frame", s.handleFrame)
	mux.HandleFunc("GET /ws", s.handleWS)
	mux.HandleFunc("POST /manual", s.handleManual)
	mux.HandleFunc("POST /temperature", s.handleTemperature)
	return mux
}

// Run serves on port until ctx is done.
func (s *Server) Run(ctx context.Context, port int) error {
	url := fmt.Sprintf(":%d", port)
	server := &http.Server{Addr: url, Handler: s.Handler()}
	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		server.Shutdown(sctx)
	}()
	s.log.Info("starting server", "addr", url)
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Render sends the frame to every websocket client if it has changed.
func (s *Server) Render(f tube.Frame) error {
	b := Marshal(f)
	s.mu.Lock()
	defer s.mu.Unlock()
	if bytes.Equal(b, s.last) {
		return nil
	}
	s.last = b
	for c := range s.clients {
		select {
		case c <- b:
		default:
			s.log.Debug("websocket client behind, frame dropped")
		}
	}
	return nil
}

// Clients returns the number of connected websocket clients.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/png")
	if err := s.image.WritePNG(w, s.ctl.Frame()); err != nil {
		s.log.Warn("error writing image", "error", err)
	}
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	s.writeFrame(w)
}

func (s *Server) writeFrame(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(Marshal(s.ctl.Frame()))
}

func (s *Server) handleManual(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	t, d := r.PostForm.Get("time"), r.PostForm.Get("date")
	if !s.ctl.ApplyManual(t, d) {
		http.Error(w, "invalid time or date", http.StatusBadRequest)
		return
	}
	s.log.Info("manual time set", "time", t, "date", d)
	s.writeFrame(w)
}

func (s *Server) handleTemperature(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var d time.Duration
	if v := r.PostForm.Get("seconds"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "invalid seconds", http.StatusBadRequest)
			return
		}
		d = time.Duration(n) * time.Second
	}
	s.ctl.ShowTemperature(d)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade", "error", err)
		return
	}
	defer conn.Close()
	c := make(chan []byte, clientQueue)
	current := Marshal(s.ctl.Frame())
	// The client starts from the last frame rendered, and is registered
	// before the lock is released so that no later frame is missed.
	s.mu.Lock()
	if s.last != nil {
		current = s.last
	}
	c <- current
	s.clients[c] = struct{}{}
	s.mu.Unlock()
	s.log.Debug("websocket client connected", "remote", r.RemoteAddr)
	defer func() {
		s.mu.Lock()
		delete(s.clients, c)
		s.mu.Unlock()
		s.log.Debug("websocket client disconnected", "remote", r.RemoteAddr)
	}()

	// The client sends nothing; reading detects when it goes away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case b := <-c:
			conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
				return
			}
		}
	}
}
