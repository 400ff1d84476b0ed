package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"citydash/backend/services/dashboard-service/internal/apperr"
	"citydash/backend/services/dashboard-service/internal/models"
	"citydash/backend/services/dashboard-service/internal/repository"
	"citydash/backend/services/dashboard-service/internal/validation"
)

// SubscriberStore persists newsletter subscribers; Create returns repository.ErrDuplicateEmail
// for an existing address.
type SubscriberStore interface {
	Create(ctx context.Context, sub *models.Subscriber) error
	List(ctx context.Context) ([]models.Subscriber, error)
}

// SubscriptionService manages the newsletter list.
type SubscriptionService struct {
	store  SubscriberStore
	logger *zap.Logger
}

// NewSubscriptionService builds SubscriptionService.
func NewSubscriptionService(store SubscriberStore, logger *zap.Logger) *SubscriptionService {
	return &SubscriptionService{store: store, logger: logger}
}

// Subscribe normalises email and registers it. Uniqueness is decided by the store.
func (s *SubscriptionService) Subscribe(ctx context.Context, email string) (*models.Subscriber, error) {
	normalized, err := validation.NormalizeEmail(email)
	if err != nil {
		return nil, err
	}

	sub := &models.Subscriber{Email: normalized}
	if err := s.store.Create(ctx, sub); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperr.AlreadySubscribed(normalized)
		}
		s.logger.Error("create subscriber", zap.Error(err))
		return nil, apperr.Storage("Failed to subscribe", err)
	}
	s.logger.Info("subscriber added", zap.Int64("subscriber_id", sub.ID))
	return sub, nil
}

// List returns every subscriber.
func (s *SubscriptionService) List(ctx context.Context) ([]models.Subscriber, error) {
	subs, err := s.store.List(ctx)
	if err != nil {
		s.logger.Error("list subscribers", zap.Error(err))
		return nil, apperr.Storage("Failed to load subscribers", err)
	}
	return subs, nil
}
