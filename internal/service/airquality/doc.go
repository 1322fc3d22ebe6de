// Package airquality classifies sensor measurements against PM2.5 thresholds
// and keeps the latest reading for the public API.
package airquality
