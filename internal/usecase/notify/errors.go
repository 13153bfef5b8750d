package notify

import "errors"

// Sentinel errors for notify use case operations.
var (
	// ErrChannelDisabled indicates that a send was attempted on a channel
	// that is not enabled in the configuration.
	ErrChannelDisabled = errors.New("channel is disabled")

	// ErrCircuitOpen indicates that the channel's circuit breaker is open
	// and the send was rejected without touching the network. The breaker
	// closes again automatically after its timeout period.
	ErrCircuitOpen = errors.New("circuit breaker is open for this channel")
)
