package emergency

import domain "github.com/sinawise/sinawise-server/internal/domain/emergency"

// Urgency is the policy-selected delivery class of a notification.
type Urgency string

const (
	// UrgencyHigh requests expedited delivery that wakes devices.
	UrgencyHigh Urgency = "high"
	// UrgencyNormal requests standard delivery.
	UrgencyNormal Urgency = "normal"
)

// Decision is the policy verdict for a single state transition.
type Decision struct {
	// Notify indicates whether a push should be attempted.
	Notify bool
	// Urgency is the delivery class when Notify is true.
	Urgency Urgency
	// Reason explains a suppression, for the dispatch outcome.
	Reason string
}

// Policy decides, per transition, whether a push should be attempted and how.
//
// Suppression of clear notifications is an explicit, overridable policy
// rather than an accident of code path.
type Policy struct {
	// NotifyOnClear enables normal-priority pushes for clear transitions.
	NotifyOnClear bool
}

// Decide evaluates the transition from prev to next.
// An emergency is always announced, even over an already-active one: the
// level or message may have changed. Clears are silent unless opted in.
func (p Policy) Decide(_, next *domain.Alert) Decision {
	if next.Active {
		return Decision{
			Notify:  true,
			Urgency: UrgencyHigh,
		}
	}

	if p.NotifyOnClear {
		return Decision{
			Notify:  true,
			Urgency: UrgencyNormal,
		}
	}

	return Decision{
		Notify: false,
		Reason: "clear notifications are disabled",
	}
}
