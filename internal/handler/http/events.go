// Package http exposes the notifier's HTTP surface: the event intake
// endpoint the media management platform posts to, plus liveness and
// channel health endpoints.
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"media-notify/internal/handler/http/requestid"
	"media-notify/internal/handler/http/respond"
	"media-notify/internal/usecase/notify"
)

// eventRequest is the intake wire format: a declared event type plus the
// loosely structured payload.
type eventRequest struct {
	EventType string         `json:"event_type"`
	Payload   map[string]any `json:"payload"`
}

// EventHandler accepts platform events over HTTP and hands them to the
// notification router.
type EventHandler struct {
	router *notify.Router
}

// NewEventHandler creates an EventHandler over the given router.
func NewEventHandler(router *notify.Router) *EventHandler {
	return &EventHandler{router: router}
}

// Handle processes POST /events. The event is routed synchronously;
// delivery failures are a router concern and never turn into an HTTP
// error, so a well-formed request always yields 202 Accepted.
func (h *EventHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respond.Error(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}
	if req.EventType == "" {
		respond.Error(w, http.StatusBadRequest, errors.New("event_type is required"))
		return
	}

	slog.Default().Debug("event received",
		slog.String("request_id", requestid.FromContext(r.Context())),
		slog.String("event_type", req.EventType))

	h.router.Route(r.Context(), req.EventType, req.Payload)

	respond.JSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

// NewMux assembles the intake HTTP handler with request ID middleware.
func NewMux(router *notify.Router) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/events", NewEventHandler(router).Handle)
	mux.HandleFunc("/health", HealthHandler)
	mux.HandleFunc("/health/channels", ChannelHealthHandler(router))
	return requestid.Middleware(mux)
}
