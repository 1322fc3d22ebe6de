package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// initTimeout bounds the one-time Firebase credential exchange.
const initTimeout = 15 * time.Second

// FCM publishes messages to Firebase Cloud Messaging topics.
//
// The messaging client is initialized lazily on the first send and exactly
// once per process; concurrent first sends share the same initialization.
type FCM struct {
	// credentialsFile is the path to the service account JSON, when file-based.
	credentialsFile string
	// credentialsJSON is the inline service account JSON, when env-based.
	credentialsJSON []byte

	initOnce sync.Once
	client   *messaging.Client
	initErr  error
}

// NewFCM creates a transport using a service account file path or inline JSON.
// Exactly one of the two should be set; the file takes precedence.
func NewFCM(credentialsFile string, credentialsJSON []byte) *FCM {
	return &FCM{
		credentialsFile: credentialsFile,
		credentialsJSON: credentialsJSON,
	}
}

// Configured reports whether any credential source is present.
func (t *FCM) Configured() bool {
	return t.credentialsFile != "" || len(t.credentialsJSON) > 0
}

// Send publishes the message to its topic and returns the transport message id.
func (t *FCM) Send(ctx context.Context, msg *Message) (string, error) {
	t.initOnce.Do(t.init)

	if t.initErr != nil {
		return "", fmt.Errorf("init messaging client: %w", t.initErr)
	}

	id, err := t.client.Send(ctx, toFCMMessage(msg))
	if err != nil {
		return "", fmt.Errorf("send to topic %q: %w", msg.Topic, err)
	}

	return id, nil
}

// init performs the one-time Firebase app and messaging client construction.
// It deliberately uses its own timeout instead of a caller context so that a
// canceled first send cannot poison the client for the process lifetime.
func (t *FCM) init() {
	ctx, cancel := context.WithTimeout(context.Background(), initTimeout)
	defer cancel()

	if !t.Configured() {
		t.initErr = ErrUnavailable

		return
	}

	opt := option.WithCredentialsJSON(t.credentialsJSON)
	if t.credentialsFile != "" {
		opt = option.WithCredentialsFile(t.credentialsFile)
	}

	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		t.initErr = fmt.Errorf("create firebase app: %w", err)

		return
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		t.initErr = fmt.Errorf("create messaging client: %w", err)

		return
	}

	t.client = client
}

// toFCMMessage converts the transport-neutral message into the FCM wire shape.
func toFCMMessage(msg *Message) *messaging.Message {
	ttl := msg.TTL

	androidPriority := "normal"
	apnsPriority := "5"

	if msg.Priority == PriorityHigh {
		androidPriority = "high"
		apnsPriority = "10"
	}

	var androidNotification *messaging.AndroidNotification
	if msg.AndroidChannelID != "" || msg.Sound != "" || msg.ClickAction != "" {
		androidNotification = &messaging.AndroidNotification{
			ChannelID:   msg.AndroidChannelID,
			Sound:       msg.Sound,
			ClickAction: msg.ClickAction,
		}
	}

	return &messaging.Message{
		Topic: msg.Topic,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: msg.Data,
		Android: &messaging.AndroidConfig{
			Priority:     androidPriority,
			TTL:          &ttl,
			Notification: androidNotification,
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{"apns-priority": apnsPriority},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound:            msg.Sound,
					ContentAvailable: msg.ContentAvailable,
				},
			},
		},
	}
}
