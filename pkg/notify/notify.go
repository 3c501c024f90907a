// Package notify delivers fire-and-forget outcome messages.
package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/yashrajoria/marketplace/pkg/aws"
)

// LogNotifier writes notifications to a zap logger. Error notifications are
// logged at warn level.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(kind, message string) {
	if kind == "error" {
		n.log.Warn(message, zap.String("kind", kind))
		return
	}
	n.log.Info(message, zap.String("kind", kind))
}

// Message is the payload published by SNSNotifier.
type Message struct {
	Kind    string    `json:"kind"`
	Message string    `json:"message"`
	Source  string    `json:"source"`
	SentAt  time.Time `json:"sent_at"`
}

// EventType is the event_type attribute of published notifications.
const EventType = "notification.created"

// SNSNotifier publishes each notification to a topic from a background
// goroutine so Notify never blocks the caller.
type SNSNotifier struct {
	publisher aws.SNSPublisher
	topicArn  string
	source    string
	timeout   time.Duration
	log       *zap.Logger
	now       func() time.Time

	pending sync.WaitGroup
}

func NewSNSNotifier(publisher aws.SNSPublisher, topicArn, source string, log *zap.Logger) *SNSNotifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &SNSNotifier{
		publisher: publisher,
		topicArn:  topicArn,
		source:    source,
		timeout:   5 * time.Second,
		log:       log,
		now:       time.Now,
	}
}

func (n *SNSNotifier) Notify(kind, message string) {
	msg := Message{Kind: kind, Message: message, Source: n.source, SentAt: n.now().UTC()}
	n.pending.Add(1)
	go func() {
		defer n.pending.Done()
		n.publish(msg)
	}()
}

// Wait blocks until every publish started so far has finished. Short-lived
// processes call it before exiting.
func (n *SNSNotifier) Wait() {
	n.pending.Wait()
}

func (n *SNSNotifier) publish(msg Message) {
	ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
	defer cancel()
	if err := n.publisher.PublishEvent(ctx, n.topicArn, EventType, msg); err != nil {
		n.log.Warn("notification publish failed", zap.String("kind", msg.Kind), zap.Error(err))
	}
}

// Notifier is satisfied by every notifier in this package.
type Notifier interface {
	Notify(kind, message string)
}

// Multi fans a notification out to several notifiers in order.
type Multi []Notifier

func (m Multi) Notify(kind, message string) {
	for _, n := range m {
		if n != nil {
			n.Notify(kind, message)
		}
	}
}
