// Package http assembles the service's route table.
package http

import (
	nethttp "net/http"

	"github.com/gorilla/mux"

	"github.com/litovel-minicup/matchlive/internal/http/handlers"
)

// NewRouter registers the API and websocket routes.
func NewRouter(handler *handlers.Handler, serveWS nethttp.HandlerFunc) nethttp.Handler {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", handler.Health).Methods(nethttp.MethodGet)
	api.HandleFunc("/ready", handler.Ready).Methods(nethttp.MethodGet)
	api.HandleFunc("/matches", handler.Matches).Methods(nethttp.MethodGet)
	api.HandleFunc("/matches/{id}", handler.MatchByID).Methods(nethttp.MethodGet)
	api.HandleFunc("/matches/{id}/timeline", handler.Timeline).Methods(nethttp.MethodGet)
	api.HandleFunc("/matches/{id}/state", handler.ChangeState).Methods(nethttp.MethodPost)
	api.HandleFunc("/matches/{id}/events", handler.AddEvent).Methods(nethttp.MethodPost)

	if serveWS != nil {
		r.HandleFunc("/ws", serveWS)
	}

	return r
}
