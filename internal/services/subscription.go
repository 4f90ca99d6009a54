package services

import (
	"context"
	"fmt"

	"github.com/cliptube/cliptube/internal/models"
	"github.com/cliptube/cliptube/internal/pagination"
	"github.com/cliptube/cliptube/internal/repository"
	"github.com/cliptube/cliptube/pkg/apperrors"
	"github.com/cliptube/cliptube/pkg/logger"
	"github.com/cliptube/cliptube/pkg/queue"
)

type SubscriptionService struct {
	subRepo  SubscriptionStore
	userRepo UserStore
	producer EventPublisher
	logger   *logger.Logger
}

func NewSubscriptionService(
	subRepo SubscriptionStore,
	userRepo UserStore,
	producer EventPublisher,
	logger *logger.Logger,
) *SubscriptionService {
	return &SubscriptionService{
		subRepo:  subRepo,
		userRepo: userRepo,
		producer: producer,
		logger:   logger,
	}
}

// SubscriptionResult reports the state after a toggle.
type SubscriptionResult struct {
	Subscribed bool `json:"subscribed"`
}

// Toggle subscribes the user to the channel, or unsubscribes when the edge
// already exists. Self-subscription is rejected.
func (s *SubscriptionService) Toggle(ctx context.Context, channelID, subscriberID string) (*SubscriptionResult, error) {
	channel, subscriber, err := parseIDPair(channelID, subscriberID)
	if err != nil {
		return nil, err
	}
	if channel == subscriber {
		return nil, fmt.Errorf("cannot subscribe to own channel: %w", apperrors.ErrInvalidArgument)
	}

	channelUser, err := s.userRepo.GetByID(ctx, channel)
	if err != nil {
		return nil, err
	}
	if channelUser == nil {
		return nil, fmt.Errorf("channel: %w", apperrors.ErrNotFound)
	}

	subscribed := true
	err = s.subRepo.Create(ctx, &models.Subscription{
		SubscriberID: subscriber,
		ChannelID:    channel,
	})
	if err != nil {
		if !repository.IsDuplicate(err) {
			return nil, err
		}
		if _, err := s.subRepo.Delete(ctx, subscriber, channel); err != nil {
			return nil, err
		}
		subscribed = false
	}

	event, err := queue.NewEvent(queue.EventSubscriptionToggled, channel.String(), queue.SubscriptionEventData{
		ChannelID:    channel.String(),
		SubscriberID: subscriber.String(),
		Subscribed:   subscribed,
	})
	if err == nil {
		if err := s.producer.Publish(ctx, channel.String(), event); err != nil {
			s.logger.WithError(err).Error("Failed to publish event")
		}
	}

	return &SubscriptionResult{Subscribed: subscribed}, nil
}

// GetSubscribers lists the users subscribed to the channel, newest first.
func (s *SubscriptionService) GetSubscribers(ctx context.Context, channelID string, page, limit int) ([]models.PublicProfile, error) {
	channel, err := parseID(channelID)
	if err != nil {
		return nil, err
	}

	params, err := pagination.New(page, limit, "", "", nil)
	if err != nil {
		return nil, err
	}

	users, err := s.subRepo.ListSubscribers(ctx, channel, params.Offset(), params.Limit)
	if err != nil {
		return nil, err
	}
	return publicProfiles(users), nil
}

// GetSubscribedChannels lists the channels the user is subscribed to.
func (s *SubscriptionService) GetSubscribedChannels(ctx context.Context, subscriberID string, page, limit int) ([]models.PublicProfile, error) {
	subscriber, err := parseID(subscriberID)
	if err != nil {
		return nil, err
	}

	params, err := pagination.New(page, limit, "", "", nil)
	if err != nil {
		return nil, err
	}

	users, err := s.subRepo.ListSubscribedChannels(ctx, subscriber, params.Offset(), params.Limit)
	if err != nil {
		return nil, err
	}
	return publicProfiles(users), nil
}

func publicProfiles(users []*models.User) []models.PublicProfile {
	profiles := make([]models.PublicProfile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, u.Public())
	}
	return profiles
}
