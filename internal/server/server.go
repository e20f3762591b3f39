package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/callebjorkell/led-server/internal/strip"
	"github.com/callebjorkell/led-server/internal/ws2812"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// Server is the HTTP control surface in front of the strip controller. It
// never touches the bus itself, it only requests transactions.
type Server struct {
	strip  *strip.Controller
	server *http.Server
	start  time.Time
}

func New(addr string, c *strip.Controller) *Server {
	s := &Server{
		strip: c,
		start: time.Now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.indexHandler)
	mux.HandleFunc("/update", s.updateHandler)
	mux.HandleFunc("/led", s.ledHandler)
	mux.HandleFunc("/health", s.healthHandler)
	mux.HandleFunc("/api/docs", docsHandler)
	mux.Handle("/metrics", promhttp.Handler())

	s.server = &http.Server{Addr: addr, Handler: mux}
	return s
}

func (s *Server) ListenAndServe() error {
	log.Infof("Starting LED control server on %v", s.server.Addr)
	err := s.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	log.Debug("Closing LED control server...")
	return s.server.Shutdown(ctx)
}

// updateHandler sets the whole strip to one color. Missing channel
// parameters default to the current committed color, so a single slider can
// be moved without resetting the others.
func (s *Server) updateHandler(w http.ResponseWriter, r *http.Request) {
	snap := s.strip.Snapshot()
	q := r.URL.Query()

	red, err := channelParam(q, "r", int(snap.Color.R))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	green, err := channelParam(q, "g", int(snap.Color.G))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	blue, err := channelParam(q, "b", int(snap.Color.B))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.strip.SetAll(red, green, blue); err != nil {
		log.Warn("Unable to update LEDs: ", err)
		writeError(w, http.StatusInternalServerError, "failed to update LEDs")
		return
	}

	io.WriteString(w, "OK")
}

// ledHandler sets a single LED, leaving the rest of the strip alone.
func (s *Server) ledHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if !q.Has("index") {
		writeError(w, http.StatusBadRequest, "parameter index is required")
		return
	}
	index, err := strconv.Atoi(q.Get("index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "parameter index must be an integer")
		return
	}

	current := ws2812.Color{}
	if snap := s.strip.Snapshot(); index >= 0 && index < len(snap.Pixels) {
		current = snap.Pixels[index]
	}
	red, err := channelParam(q, "r", int(current.R))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	green, err := channelParam(q, "g", int(current.G))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	blue, err := channelParam(q, "b", int(current.B))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	switch err := s.strip.SetOne(index, red, green, blue); {
	case errors.Is(err, strip.ErrIndexOutOfRange):
		writeError(w, http.StatusBadRequest, err.Error())
	case err != nil:
		log.Warn("Unable to update LED: ", err)
		writeError(w, http.StatusInternalServerError, "failed to update LED")
	default:
		io.WriteString(w, "OK")
	}
}

type colorPayload struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

type healthPayload struct {
	Status        string       `json:"status"`
	UptimeSeconds float64      `json:"server_uptime_seconds"`
	Uptime        string       `json:"server_uptime"`
	Updates       uint64       `json:"updates_processed"`
	NumLeds       int          `json:"num_leds"`
	Uniform       bool         `json:"uniform"`
	CurrentColor  colorPayload `json:"current_color"`
	// Pixels is only present when the strip is not uniformly colored.
	Pixels []colorPayload `json:"pixels,omitempty"`
	System systemStats    `json:"system"`
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	snap := s.strip.Snapshot()
	uptime := time.Since(s.start)

	payload := healthPayload{
		Status:        "ok",
		UptimeSeconds: float64(uptime.Milliseconds()) / 1000,
		Uptime:        formatUptime(uptime),
		Updates:       snap.Updates,
		NumLeds:       len(snap.Pixels),
		Uniform:       snap.Uniform,
		CurrentColor:  colorPayload{R: snap.Color.R, G: snap.Color.G, B: snap.Color.B},
		System:        collectSystemStats(),
	}
	if !snap.Uniform {
		payload.Pixels = make([]colorPayload, 0, len(snap.Pixels))
		for _, p := range snap.Pixels {
			payload.Pixels = append(payload.Pixels, colorPayload{R: p.R, G: p.G, B: p.B})
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Warn("Unable to write health response: ", err)
	}
}

func channelParam(q url.Values, name string, fallback int) (int, error) {
	if !q.Has(name) {
		return fallback, nil
	}
	v, err := strconv.Atoi(q.Get(name))
	if err != nil {
		return 0, fmt.Errorf("parameter %s must be an integer", name)
	}
	return v, nil
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func formatUptime(d time.Duration) string {
	seconds := int(d.Seconds())
	return fmt.Sprintf("%dh %dm %ds", seconds/3600, seconds%3600/60, seconds%60)
}
