// Package emergency contains core domain types for the emergency alert business logic.
//
// It defines Alert (the singleton emergency status record) with a Clone helper to
// avoid leaking internal references.
package emergency
