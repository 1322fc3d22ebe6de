// Package alertstate implements persistence for the singleton emergency alert record.
//
// The BoltRepository stores the record as JSON in a bbolt bucket and exposes the
// Repository interface the alert state manager depends on. Creation and writes run
// inside single update transactions so concurrent first accesses cannot duplicate
// the record.
package alertstate
