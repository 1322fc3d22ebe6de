package emergency

import (
	"context"
	"errors"
	"time"

	domain "github.com/sinawise/sinawise-server/internal/domain/emergency"
	"github.com/sinawise/sinawise-server/internal/logger"
	"github.com/sinawise/sinawise-server/internal/metrics"
	"github.com/sinawise/sinawise-server/internal/notify"
)

// OutcomeKind classifies the result of a delivery attempt.
type OutcomeKind string

const (
	// OutcomeSent means the transport accepted the message.
	OutcomeSent OutcomeKind = "sent"
	// OutcomeSuppressed means policy decided not to notify.
	OutcomeSuppressed OutcomeKind = "suppressed"
	// OutcomeDegraded means no transport is configured.
	OutcomeDegraded OutcomeKind = "degraded"
	// OutcomeFailed means the transport was attempted and errored or timed out.
	OutcomeFailed OutcomeKind = "failed"
)

// Outcome is the result of attempting delivery. It is independent of and
// never blocks the state-change result: all four kinds are valid,
// non-exceptional outcomes of a successful state-changing call.
type Outcome struct {
	// Kind classifies the attempt.
	Kind OutcomeKind
	// MessageID is the transport identifier when Kind is OutcomeSent.
	MessageID string
	// Reason explains suppression, degradation or failure.
	Reason string
}

// Dispatcher orchestrates manager, policy, composer and transport, and is
// what the HTTP layer calls. It is the failure-isolation boundary: the state
// commit succeeds or fails independently of notification delivery.
type Dispatcher struct {
	manager   *Manager
	policy    Policy
	composer  Composer
	transport notify.Transport
	// sendTimeout bounds a single delivery attempt so a stalled transport
	// cannot stall the admin's request.
	sendTimeout time.Duration
}

// NewDispatcher wires the alert pipeline together.
func NewDispatcher(
	manager *Manager,
	policy Policy,
	composer Composer,
	transport notify.Transport,
	sendTimeout time.Duration,
) *Dispatcher {
	return &Dispatcher{
		manager:     manager,
		policy:      policy,
		composer:    composer,
		transport:   transport,
		sendTimeout: sendTimeout,
	}
}

// Trigger activates the emergency and then attempts delivery. Only a store
// failure is returned as an error; every delivery result is an Outcome.
func (d *Dispatcher) Trigger(ctx context.Context, level, message string) (*domain.Alert, Outcome, error) {
	prev, next, err := d.manager.Trigger(ctx, level, message)
	if err != nil {
		return nil, Outcome{}, err
	}

	return next, d.dispatch(ctx, prev, next), nil
}

// Clear deactivates the emergency and then attempts delivery, symmetric to Trigger.
func (d *Dispatcher) Clear(ctx context.Context, message string) (*domain.Alert, Outcome, error) {
	prev, next, err := d.manager.Clear(ctx, message)
	if err != nil {
		return nil, Outcome{}, err
	}

	return next, d.dispatch(ctx, prev, next), nil
}

// Status returns the current alert record without notification side effects.
func (d *Dispatcher) Status(ctx context.Context) (*domain.Alert, error) {
	return d.manager.GetOrCreate(ctx)
}

// dispatch runs policy, composer and transport for a committed transition.
// The send context is detached from the caller's cancellation: a client
// disconnect discards interest in the outcome, it does not cancel delivery.
func (d *Dispatcher) dispatch(ctx context.Context, prev, next *domain.Alert) Outcome {
	outcome := d.attempt(ctx, prev, next)

	metrics.NotificationsTotal.WithLabelValues(string(outcome.Kind)).Inc()

	return outcome
}

// attempt performs a single delivery attempt and classifies its result.
func (d *Dispatcher) attempt(ctx context.Context, prev, next *domain.Alert) Outcome {
	decision := d.policy.Decide(prev, next)
	if !decision.Notify {
		logger.InfoKV(ctx, "Notification suppressed", "reason", decision.Reason)

		return Outcome{Kind: OutcomeSuppressed, Reason: decision.Reason}
	}

	msg := d.composer.Compose(next, decision.Urgency)

	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.sendTimeout)
	defer cancel()

	messageID, err := d.transport.Send(sendCtx, msg)

	switch {
	case err == nil:
		logger.InfoKV(ctx, "Notification sent",
			"topic", msg.Topic, "message_id", messageID, "urgency", decision.Urgency)

		return Outcome{Kind: OutcomeSent, MessageID: messageID}
	case errors.Is(err, notify.ErrUnavailable):
		logger.WarnKV(ctx, "Notification transport unavailable", "topic", msg.Topic)

		return Outcome{Kind: OutcomeDegraded, Reason: "notification transport is not configured"}
	default:
		// The state change already succeeded; log with enough context to
		// retry manually and report the failure as an outcome.
		logger.ErrorKV(ctx, "Notification delivery failed",
			"topic", msg.Topic, "urgency", decision.Urgency, "error", err)

		return Outcome{Kind: OutcomeFailed, Reason: err.Error()}
	}
}
