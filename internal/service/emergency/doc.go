// Package emergency implements the alert state and notification dispatch pipeline.
//
// Manager owns the singleton alert record and serializes its read-modify-write
// transitions. Policy decides per transition whether a push is attempted and
// with what urgency. Composer purely turns an alert into a transport payload.
// Dispatcher ties them to the notification transport and isolates the state
// commit from every delivery failure: the record is authoritative, push
// delivery is advisory.
package emergency
