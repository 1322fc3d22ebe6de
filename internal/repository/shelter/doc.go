// Package shelter implements persistence for evacuation posts ("posko").
package shelter
