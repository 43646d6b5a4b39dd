// Package metrics defines the Prometheus collectors for the marquee runtime.
//
// All collectors are registered via promauto at init time and exposed through
// the control server's /metrics endpoint. Fetch failures and backoff state are
// observable here without ever interrupting the visible scroll.
package metrics
