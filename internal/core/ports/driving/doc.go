// Package driving defines the inbound ports of the sync core: the
// operations the CLI (or any other entrypoint) invokes on the services.
package driving
