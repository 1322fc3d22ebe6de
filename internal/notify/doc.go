// Package notify defines the push-notification capability and its implementations.
//
// Transport publishes a structured Message to a named topic. The FCM
// implementation speaks Firebase Cloud Messaging with lazy one-time credential
// initialization; Noop is the degraded-mode stand-in selected at startup when
// no credentials are configured. Callers never branch on availability, they
// branch on the dispatch outcome.
package notify
