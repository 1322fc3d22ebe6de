package emergency

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sinawise/sinawise-server/internal/notify"
)

var errTestTransport = errors.New("test transport error")

// fakeTransport is a scriptable Transport implementation for tests.
type fakeTransport struct {
	// messageID and err script the Send result.
	messageID string
	err       error
	// sent records every message passed to Send.
	sent []*notify.Message
	// block makes Send wait for ctx, simulating a stalled transport.
	block bool
}

// Send records the message and returns the scripted result.
func (f *fakeTransport) Send(ctx context.Context, msg *notify.Message) (string, error) {
	f.sent = append(f.sent, msg)

	if f.block {
		<-ctx.Done()

		return "", ctx.Err()
	}

	return f.messageID, f.err
}

// newTestDispatcher wires a dispatcher over in-memory fakes.
func newTestDispatcher(transport notify.Transport, notifyOnClear bool) *Dispatcher {
	return NewDispatcher(
		NewManager(new(memoryRepository)),
		Policy{NotifyOnClear: notifyOnClear},
		testComposer(),
		transport,
		50*time.Millisecond,
	)
}

// TestTrigger_Sent covers the happy path: state committed, push delivered.
func TestTrigger_Sent(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{messageID: "projects/sinawise/messages/1"}
	dispatcher := newTestDispatcher(transport, false)

	alert, outcome, err := dispatcher.Trigger(context.Background(), "AWAS", "Evacuate now")
	require.NoError(t, err)
	require.True(t, alert.Active)
	require.Equal(t, OutcomeSent, outcome.Kind)
	require.Equal(t, "projects/sinawise/messages/1", outcome.MessageID)

	require.Len(t, transport.sent, 1)
	require.Equal(t, "true", transport.sent[0].Data["active"])
	require.Equal(t, "AWAS", transport.sent[0].Data["level"])
	require.Equal(t, notify.PriorityHigh, transport.sent[0].Priority)
}

// TestClear_SuppressedByDefault asserts silence-on-clear unless opted in.
func TestClear_SuppressedByDefault(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{messageID: "id"}
	dispatcher := newTestDispatcher(transport, false)

	alert, outcome, err := dispatcher.Clear(context.Background(), "")
	require.NoError(t, err)
	require.False(t, alert.Active)
	require.Equal(t, OutcomeSuppressed, outcome.Kind)
	require.NotEmpty(t, outcome.Reason)
	require.Empty(t, transport.sent)
}

// TestClear_NotifyOnClear asserts the opt-in sends at normal urgency.
func TestClear_NotifyOnClear(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{messageID: "id"}
	dispatcher := newTestDispatcher(transport, true)

	_, outcome, err := dispatcher.Clear(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, OutcomeSent, outcome.Kind)

	require.Len(t, transport.sent, 1)
	require.Equal(t, notify.PriorityNormal, transport.sent[0].Priority)
	require.Equal(t, "INFO", transport.sent[0].Title)
}

// TestTrigger_TransportError asserts the state change survives delivery failure.
func TestTrigger_TransportError(t *testing.T) {
	t.Parallel()

	dispatcher := newTestDispatcher(&fakeTransport{err: errTestTransport}, false)

	alert, outcome, err := dispatcher.Trigger(context.Background(), "AWAS", "Evacuate now")
	require.NoError(t, err)
	require.True(t, alert.Active)
	require.Equal(t, OutcomeFailed, outcome.Kind)
	require.Contains(t, outcome.Reason, "test transport error")

	// A subsequent status read reflects the committed state.
	status, err := dispatcher.Status(context.Background())
	require.NoError(t, err)
	require.True(t, status.Active)
}

// TestTrigger_TransportTimeout asserts a stalled transport times out to Failed.
func TestTrigger_TransportTimeout(t *testing.T) {
	t.Parallel()

	dispatcher := newTestDispatcher(&fakeTransport{block: true}, false)

	alert, outcome, err := dispatcher.Trigger(context.Background(), "AWAS", "Evacuate now")
	require.NoError(t, err)
	require.True(t, alert.Active)
	require.Equal(t, OutcomeFailed, outcome.Kind)
}

// TestDegraded asserts both operations succeed at the state layer without credentials.
func TestDegraded(t *testing.T) {
	t.Parallel()

	dispatcher := newTestDispatcher(notify.Noop{}, true)

	alert, outcome, err := dispatcher.Trigger(context.Background(), "AWAS", "Evacuate now")
	require.NoError(t, err)
	require.True(t, alert.Active)
	require.Equal(t, OutcomeDegraded, outcome.Kind)

	alert, outcome, err = dispatcher.Clear(context.Background(), "")
	require.NoError(t, err)
	require.False(t, alert.Active)
	require.Equal(t, OutcomeDegraded, outcome.Kind)
}

// TestRoundtrip covers trigger then clear then status.
func TestRoundtrip(t *testing.T) {
	t.Parallel()

	dispatcher := newTestDispatcher(&fakeTransport{messageID: "id"}, false)
	ctx := context.Background()

	_, _, err := dispatcher.Trigger(ctx, "AWAS", "Evacuate now")
	require.NoError(t, err)

	_, _, err = dispatcher.Clear(ctx, "")
	require.NoError(t, err)

	status, err := dispatcher.Status(ctx)
	require.NoError(t, err)
	require.False(t, status.Active)
	require.Nil(t, status.Level)
	require.Equal(t, DefaultClearedMessage, status.Message)
}
