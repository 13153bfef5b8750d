package http

import (
	"net/http"

	"media-notify/internal/handler/http/respond"
	"media-notify/internal/usecase/notify"
)

// healthResponse is the liveness probe body.
type healthResponse struct {
	Status string `json:"status"`
}

// channelHealthResponse reports per-channel delivery health.
type channelHealthResponse struct {
	Healthy  bool                         `json:"healthy"`
	Channels []notify.ChannelHealthStatus `json:"channels"`
}

// HealthHandler serves the liveness probe; it always returns 200 OK.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

// ChannelHealthHandler reports the state of every delivery channel,
// including circuit breaker status. The overall response is healthy when
// no enabled channel has an open breaker.
func ChannelHealthHandler(router *notify.Router) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		channels := router.ChannelHealth()

		healthy := true
		for _, ch := range channels {
			if ch.Enabled && ch.CircuitBreakerOpen {
				healthy = false
			}
		}

		code := http.StatusOK
		if !healthy {
			code = http.StatusServiceUnavailable
		}
		respond.JSON(w, code, channelHealthResponse{
			Healthy:  healthy,
			Channels: channels,
		})
	}
}
