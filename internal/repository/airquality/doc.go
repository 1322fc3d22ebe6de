// Package airquality implements persistence for the latest air-quality reading.
package airquality
