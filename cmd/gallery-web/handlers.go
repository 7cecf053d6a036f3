package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/photogrid/gallery-loader/pkg/gallery"
	"github.com/photogrid/gallery-loader/pkg/store"
)

// galleryState is the JSON snapshot served to the presentation layer.
type galleryState struct {
	SessionID string              `json:"session_id"`
	Total     int                 `json:"total"`
	Records   []store.PhotoRecord `json:"records"`
	Ready     bool                `json:"ready"`
	Loading   bool                `json:"loading"`
	AllLoaded bool                `json:"all_loaded"`
	LastError string              `json:"last_error,omitempty"`
	Error     string              `json:"error,omitempty"`
}

// newMux wires the gallery session into the HTTP API.
func newMux(sess *gallery.Session) *http.ServeMux {
	// Scroll-proximity signals arrive in bursts; excess triggers are
	// rejected here so they don't even reach the session's no-op path.
	limiter := rate.NewLimiter(rate.Every(200*time.Millisecond), 5)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/gallery", stateHandler(sess))
	mux.HandleFunc("POST /api/gallery/more", moreHandler(sess, limiter))
	mux.HandleFunc("GET /healthz", healthHandler)
	mux.Handle("GET /metrics", promhttp.Handler())
	return mux
}

// stateHandler serves the current session snapshot.
func stateHandler(sess *gallery.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := galleryState{
			SessionID: sess.ID(),
			Total:     sess.Total(),
			Records:   sess.Records(),
			Ready:     sess.Ready(),
			Loading:   sess.Loading(),
			AllLoaded: sess.AllLoaded(),
		}
		if err := sess.LastError(); err != nil {
			state.LastError = err.Error()
		}
		if err := sess.Err(); err != nil {
			state.Error = err.Error()
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if err := json.NewEncoder(w).Encode(state); err != nil {
			http.Error(w, "encode state", http.StatusInternalServerError)
		}
	}
}

// moreHandler accepts a demand signal from any UI event source (scroll,
// button, timer) and triggers a batch load. The trigger returns
// immediately; overlapping triggers coalesce inside the session.
func moreHandler(sess *gallery.Session, limiter *rate.Limiter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, "too many triggers", http.StatusTooManyRequests)
			return
		}

		// Detached from the request context: the fetch outlives the
		// trigger request.
		go sess.LoadNextBatch(context.Background())
		w.WriteHeader(http.StatusAccepted)
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
