// Package config implements loading, saving and validation of server settings.
//
// Settings live in a YAML file (optional) with environment variables layered on
// top, so the server can run fully configured from the environment alone.
// Missing push credentials never fail validation: notification dispatch simply
// runs degraded while the HTTP API keeps serving.
package config
