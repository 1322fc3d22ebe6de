// Package server wires configuration, storage, the alert pipeline and the
// HTTP surface into the sinawise-server process and runs it until shutdown.
package server
