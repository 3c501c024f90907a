package notify

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakePublisher struct {
	mu     sync.Mutex
	events []interface{}
	done   chan struct{}
}

func (f *fakePublisher) PublishEvent(_ context.Context, topicArn, eventType string, payload interface{}) error {
	f.mu.Lock()
	f.events = append(f.events, payload)
	f.mu.Unlock()
	f.done <- struct{}{}
	return nil
}

func TestLogNotifier_Levels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	n := NewLogNotifier(zap.New(core))

	n.Notify("success", "Added to wishlist")
	n.Notify("error", "Could not update your wishlist")

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "Could not update your wishlist", entries[1].Message)
}

func TestSNSNotifier_PublishesInBackground(t *testing.T) {
	pub := &fakePublisher{done: make(chan struct{}, 1)}
	n := NewSNSNotifier(pub, "arn:notifications", "wishlist-sync", nil)
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	n.now = func() time.Time { return fixed }

	n.Notify("error", "boom")

	select {
	case <-pub.done:
	case <-time.After(time.Second):
		t.Fatal("notification was not published")
	}
	pub.mu.Lock()
	defer pub.mu.Unlock()
	assert.Equal(t, Message{Kind: "error", Message: "boom", Source: "wishlist-sync", SentAt: fixed}, pub.events[0])
}

func TestMulti_FansOut(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	m := Multi{NewLogNotifier(zap.New(core)), nil, NewLogNotifier(zap.New(core))}

	m.Notify("success", "ok")

	assert.Equal(t, 2, logs.Len())
}

func TestSNSNotifier_WaitDrainsPending(t *testing.T) {
	pub := &fakePublisher{done: make(chan struct{}, 3)}
	n := NewSNSNotifier(pub, "arn:notifications", "wishlist-sync", nil)

	n.Notify("success", "one")
	n.Notify("success", "two")
	n.Notify("error", "three")
	n.Wait()

	pub.mu.Lock()
	defer pub.mu.Unlock()
	assert.Len(t, pub.events, 3)
}
