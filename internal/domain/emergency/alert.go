package emergency

import "time"

// Alert represents the deployment-wide emergency status at a specific point in time.
// Exactly one logical record exists; it is created lazily on first access and is
// mutated only through trigger and clear operations.
type Alert struct {
	// UpdatedAt is the UTC instant of the last write. It never decreases.
	UpdatedAt time.Time
	// Level is the severity tag of the emergency. It is nil whenever Active is false.
	Level *string
	// Message is the human-readable description shown to clients.
	Message string
	// Active indicates whether an emergency is currently in effect.
	Active bool
}

// Clone returns a copy of the alert to avoid leaking internal references.
func (a *Alert) Clone() *Alert {
	if a == nil {
		return nil
	}

	cloned := *a
	if a.Level != nil {
		level := *a.Level
		cloned.Level = &level
	}

	return &cloned
}

// LevelOrEmpty returns the level tag or an empty string when no level is set.
func (a *Alert) LevelOrEmpty() string {
	if a == nil || a.Level == nil {
		return ""
	}

	return *a.Level
}
