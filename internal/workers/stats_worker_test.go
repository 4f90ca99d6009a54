package workers

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cliptube/cliptube/pkg/logger"
	"github.com/cliptube/cliptube/pkg/queue"
)

type fakeRefresher struct {
	mu       sync.Mutex
	channels []string
}

func (f *fakeRefresher) RefreshChannelStats(ctx context.Context, channelID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.channels = append(f.channels, channelID)
	return nil
}

func (f *fakeRefresher) refreshed() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.channels...)
}

// fakeConsumer delivers its queued events and then blocks until the consume
// context is canceled.
type fakeConsumer struct {
	events []queue.Event

	mu         sync.Mutex
	closeCalls int
}

func (f *fakeConsumer) Consume(ctx context.Context, handler func(queue.Event) error, onError func(error)) error {
	for _, event := range f.events {
		if err := handler(event); err != nil {
			onError(err)
		}
	}
	<-ctx.Done()
	return ctx.Err()
}

func (f *fakeConsumer) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closeCalls++
	return nil
}

func (f *fakeConsumer) closed() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closeCalls
}

func TestStatsWorkerRefreshesAffectedChannel(t *testing.T) {
	refresher := &fakeRefresher{}
	// The empty-channel and unknown-type events must be skipped.
	consumer := &fakeConsumer{events: []queue.Event{
		{Type: queue.EventLikeToggled, ChannelID: "channel-1"},
		{Type: queue.EventLikeToggled, ChannelID: ""},
		{Type: "unrelated_event", ChannelID: "channel-2"},
		{Type: queue.EventSubscriptionToggled, ChannelID: "channel-3"},
	}}

	worker := NewStatsWorker(refresher, consumer, logger.New("error"))

	done := make(chan error, 1)
	go func() { done <- worker.Start(context.Background()) }()

	deadline := time.After(2 * time.Second)
	for len(refresher.refreshed()) < 2 {
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for refreshes, got %v", refresher.refreshed())
		case <-time.After(10 * time.Millisecond):
		}
	}

	if err := worker.Stop(); err != nil {
		t.Fatalf("Stop() error: %v", err)
	}
	if err := <-done; err != context.Canceled {
		t.Errorf("Start() returned %v, want context.Canceled", err)
	}

	got := refresher.refreshed()
	want := []string{"channel-1", "channel-3"}
	if len(got) != len(want) {
		t.Fatalf("refreshed channels = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("refreshed[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestStatsWorkerStopClosesConsumerOnce(t *testing.T) {
	refresher := &fakeRefresher{}
	consumer := &fakeConsumer{}

	worker := NewStatsWorker(refresher, consumer, logger.New("error"))

	done := make(chan error, 1)
	go func() { done <- worker.Start(context.Background()) }()

	// Give the consume loop a moment to install the cancel func.
	time.Sleep(20 * time.Millisecond)

	if err := worker.Stop(); err != nil {
		t.Fatalf("Stop() error: %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("consume loop did not exit after Stop")
	}

	if got := consumer.closed(); got != 1 {
		t.Errorf("consumer closed %d times, want exactly 1", got)
	}
}
