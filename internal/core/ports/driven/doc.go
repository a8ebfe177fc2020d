// Package driven defines the outbound ports of the sync core: interfaces
// the core depends on, implemented by infrastructure adapters (secret
// store, provider endpoints, configuration, persistence, notification).
package driven
