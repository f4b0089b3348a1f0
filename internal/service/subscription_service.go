package service

import (
	"context"
	"time"

	"github.com/swapshop/marketplace-service/internal/domain/entity"
	"github.com/swapshop/marketplace-service/internal/platform/logger"
	"github.com/swapshop/marketplace-service/internal/repository"
)

// DispatchArmer is the scheduler surface the subscription service drives.
type DispatchArmer interface {
	Arm(ctx context.Context, sub *entity.Subscription) error
}

// SubscriptionService enforces the single-AwaitingDispatch rule: creating a
// subscription removes whatever is still awaiting, then inserts the new one.
// The delete-then-insert pair is not transactional; two concurrent creates
// can both pass the sweep.
type SubscriptionService struct {
	repo       repository.SubscriptionRepository
	dispatcher DispatchArmer
	log        logger.Logger
	now        func() time.Time
}

func NewSubscriptionService(repo repository.SubscriptionRepository, dispatcher DispatchArmer, log logger.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo:       repo,
		dispatcher: dispatcher,
		log:        log,
		now:        time.Now,
	}
}

type CreateSubscriptionInput struct {
	Date   time.Time `json:"date" validate:"required"`
	Header string    `json:"header" validate:"required"`
	Footer string    `json:"footer" validate:"required"`
}

// ListSubscriptionsInput filters over {date, state, audit} only.
type ListSubscriptionsInput struct {
	IDs    []string
	States []string
	Date   *repository.DateRange
}

func (s *SubscriptionService) Create(ctx context.Context, in CreateSubscriptionInput, actorID string) (string, error) {
	if err := checkStruct(in); err != nil {
		return "", err
	}
	if !in.Date.After(s.now()) {
		return "", ErrInvalidSchedule
	}

	deleted, err := s.repo.DeleteByState(ctx, entity.SubscriptionAwaitingDispatch)
	if err != nil {
		return "", err
	}
	if deleted > 0 {
		s.log.Infof("Replaced %d awaiting subscription(s)", deleted)
	}

	now := s.now().UTC()
	sub := &entity.Subscription{
		Date:   in.Date,
		Header: in.Header,
		Footer: in.Footer,
		State:  entity.SubscriptionAwaitingDispatch,
		AuditInfo: entity.AuditInfo{
			CreatedBy:   actorID,
			CreatedDate: now,
			UpdatedBy:   actorID,
			UpdatedDate: now,
		},
	}

	id, err := s.repo.Create(ctx, sub)
	if err != nil {
		return "", err
	}
	sub.ID = id

	if err := s.dispatcher.Arm(ctx, sub); err != nil {
		// The subscription row stays; the caller learns arming failed.
		s.log.Errorf("Failed to arm dispatch for subscription %s: %v", id, err)
		return id, err
	}
	return id, nil
}

func (s *SubscriptionService) List(ctx context.Context, in ListSubscriptionsInput) ([]entity.Subscription, error) {
	c := repository.Criteria{}
	if len(in.IDs) > 0 {
		c["id"] = in.IDs
	}
	if len(in.States) > 0 {
		c["state"] = in.States
	}
	if in.Date != nil {
		c["date"] = *in.Date
	}
	return s.repo.Find(ctx, c)
}
