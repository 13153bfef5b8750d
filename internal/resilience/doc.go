// Package resilience groups the failure handling building blocks used around
// outbound calls: fixed-delay retry for webhook delivery and circuit
// breaking to shed load from an endpoint that keeps failing.
package resilience
