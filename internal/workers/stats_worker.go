package workers

import (
	"context"
	"sync"

	"github.com/cliptube/cliptube/pkg/logger"
	"github.com/cliptube/cliptube/pkg/queue"
	"github.com/sirupsen/logrus"
)

// StatsRefresher recomputes a channel's cached aggregates;
// services.DashboardService is the production implementation.
type StatsRefresher interface {
	RefreshChannelStats(ctx context.Context, channelID string) error
}

// EventConsumer is the event stream feeding the worker;
// queue.KafkaConsumer is the production implementation.
type EventConsumer interface {
	Consume(ctx context.Context, handler func(queue.Event) error, onError func(error)) error
	Close() error
}

// StatsWorker consumes engagement events and keeps the cached channel stats
// in step with them. Each event names the affected channel; the worker
// recomputes that channel's aggregates and overwrites the cache entry, so
// dashboard reads stay warm between TTL expiries.
//
// Stop owns the consumer: it cancels the consume loop and closes the
// consumer, so callers must not close it themselves.
type StatsWorker struct {
	dashboard StatsRefresher
	consumer  EventConsumer
	logger    *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
}

func NewStatsWorker(dashboard StatsRefresher, consumer EventConsumer, logger *logger.Logger) *StatsWorker {
	return &StatsWorker{
		dashboard: dashboard,
		consumer:  consumer,
		logger:    logger,
	}
}

func (w *StatsWorker) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	w.mu.Lock()
	w.cancel = cancel
	w.mu.Unlock()

	w.logger.Info("Stats worker started")

	return w.consumer.Consume(ctx, w.handleEvent, func(err error) {
		w.logger.WithError(err).Error("Stats worker event error")
	})
}

func (w *StatsWorker) handleEvent(event queue.Event) error {
	if event.ChannelID == "" {
		return nil
	}

	switch event.Type {
	case queue.EventVideoPublished,
		queue.EventVideoDeleted,
		queue.EventCommentCreated,
		queue.EventCommentDeleted,
		queue.EventLikeToggled,
		queue.EventSubscriptionToggled:
	default:
		return nil
	}

	if err := w.dashboard.RefreshChannelStats(context.Background(), event.ChannelID); err != nil {
		return err
	}

	w.logger.WithFields(logrus.Fields{
		"event_type": event.Type,
		"channel_id": event.ChannelID,
	}).Debug("Channel stats refreshed")
	return nil
}

func (w *StatsWorker) Stop() error {
	w.mu.Lock()
	cancel := w.cancel
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	return w.consumer.Close()
}
