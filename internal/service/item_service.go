package service

import (
	"context"
	"time"

	"github.com/swapshop/marketplace-service/internal/adapter/nats"
	"github.com/swapshop/marketplace-service/internal/domain/entity"
	"github.com/swapshop/marketplace-service/internal/platform/logger"
	"github.com/swapshop/marketplace-service/internal/repository"
)

const (
	natsSubjectItemCreated      = "item.created"
	natsSubjectItemStateChanged = "item.state.changed"
)

// ItemService owns the review lifecycle of offers, wanted ads and events.
// Items always enter in AwaitingReview; any state is reachable from any other
// by an admin transition, and only the dispatcher ever deletes items.
type ItemService struct {
	offers    repository.ListingRepository
	wanted    repository.ListingRepository
	events    repository.EventRepository
	publisher nats.MessagePublisher
	log       logger.Logger
	now       func() time.Time
}

func NewItemService(
	offers repository.ListingRepository,
	wanted repository.ListingRepository,
	events repository.EventRepository,
	publisher nats.MessagePublisher,
	log logger.Logger,
) *ItemService {
	return &ItemService{
		offers:    offers,
		wanted:    wanted,
		events:    events,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

type CreateListingInput struct {
	ItemName string `json:"itemName" validate:"required,max=50"`
	UserName string `json:"userName" validate:"required,max=50"`
	Info     string `json:"info" validate:"required,max=300"`
	Deal     string `json:"deal" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
}

type CreateEventInput struct {
	EventName   string    `json:"eventName" validate:"required,max=50"`
	When        time.Time `json:"when" validate:"required"`
	Info        string    `json:"info" validate:"required,max=300"`
	ContactInfo string    `json:"contactInfo" validate:"required,max=100"`
	Email       string    `json:"email" validate:"required,email"`
}

// ListItemsInput is the request-facing filter surface. Empty slices and nil
// ranges are omitted from the query entirely.
type ListItemsInput struct {
	IDs         []string
	Names       []string
	Emails      []string
	States      []string
	CreatedDate *repository.DateRange
	UpdatedDate *repository.DateRange
}

func (in ListItemsInput) criteria(nameField string) repository.Criteria {
	c := repository.Criteria{}
	if len(in.IDs) > 0 {
		c["id"] = in.IDs
	}
	if len(in.Names) > 0 {
		c[nameField] = in.Names
	}
	if len(in.Emails) > 0 {
		c["email"] = in.Emails
	}
	if len(in.States) > 0 {
		c["state"] = in.States
	}
	if in.CreatedDate != nil {
		c["createdDate"] = *in.CreatedDate
	}
	if in.UpdatedDate != nil {
		c["updatedDate"] = *in.UpdatedDate
	}
	return c
}

func (s *ItemService) CreateOffer(ctx context.Context, in CreateListingInput, actorID string) (string, error) {
	return s.createListing(ctx, s.offers, "offer", in, actorID)
}

func (s *ItemService) CreateWanted(ctx context.Context, in CreateListingInput, actorID string) (string, error) {
	return s.createListing(ctx, s.wanted, "wanted", in, actorID)
}

func (s *ItemService) createListing(ctx context.Context, repo repository.ListingRepository, category string, in CreateListingInput, actorID string) (string, error) {
	if err := checkStruct(in); err != nil {
		return "", err
	}

	now := s.now().UTC()
	listing := &entity.Listing{
		ItemName: in.ItemName,
		UserName: in.UserName,
		Info:     in.Info,
		Deal:     in.Deal,
		Email:    in.Email,
		// Review state is never caller-supplied.
		State: entity.StateAwaitingReview,
		AuditInfo: entity.AuditInfo{
			CreatedBy:   actorID,
			CreatedDate: now,
			UpdatedBy:   actorID,
			UpdatedDate: now,
		},
	}

	id, err := repo.Create(ctx, listing)
	if err != nil {
		return "", err
	}

	s.publishEvent(ctx, natsSubjectItemCreated, map[string]any{
		"category": category,
		"id":       id,
		"actor":    actorID,
	})
	return id, nil
}

func (s *ItemService) CreateEvent(ctx context.Context, in CreateEventInput, actorID string) (string, error) {
	if err := checkStruct(in); err != nil {
		return "", err
	}

	now := s.now().UTC()
	event := &entity.Event{
		EventName:   in.EventName,
		When:        in.When,
		Info:        in.Info,
		ContactInfo: in.ContactInfo,
		Email:       in.Email,
		State:       entity.StateAwaitingReview,
		AuditInfo: entity.AuditInfo{
			CreatedBy:   actorID,
			CreatedDate: now,
			UpdatedBy:   actorID,
			UpdatedDate: now,
		},
	}

	id, err := s.events.Create(ctx, event)
	if err != nil {
		return "", err
	}

	s.publishEvent(ctx, natsSubjectItemCreated, map[string]any{
		"category": "event",
		"id":       id,
		"actor":    actorID,
	})
	return id, nil
}

func (s *ItemService) ListOffers(ctx context.Context, in ListItemsInput) ([]entity.Listing, error) {
	return s.offers.Find(ctx, in.criteria("itemName"))
}

func (s *ItemService) ListWanted(ctx context.Context, in ListItemsInput) ([]entity.Listing, error) {
	return s.wanted.Find(ctx, in.criteria("itemName"))
}

func (s *ItemService) ListEvents(ctx context.Context, in ListItemsInput) ([]entity.Event, error) {
	return s.events.Find(ctx, in.criteria("eventName"))
}

func (s *ItemService) ChangeOfferState(ctx context.Context, ids []string, target entity.ItemState, actorID string) (repository.ChangeStateResult, error) {
	return s.changeState(ctx, s.offers.ChangeState, "offer", ids, target, actorID)
}

func (s *ItemService) ChangeWantedState(ctx context.Context, ids []string, target entity.ItemState, actorID string) (repository.ChangeStateResult, error) {
	return s.changeState(ctx, s.wanted.ChangeState, "wanted", ids, target, actorID)
}

func (s *ItemService) ChangeEventState(ctx context.Context, ids []string, target entity.ItemState, actorID string) (repository.ChangeStateResult, error) {
	return s.changeState(ctx, s.events.ChangeState, "event", ids, target, actorID)
}

type changeStateFunc func(ctx context.Context, ids []string, state entity.ItemState, actorID string) (repository.ChangeStateResult, error)

func (s *ItemService) changeState(ctx context.Context, change changeStateFunc, category string, ids []string, target entity.ItemState, actorID string) (repository.ChangeStateResult, error) {
	result, err := change(ctx, ids, target, actorID)
	if err != nil {
		return result, err
	}

	if result.Matched < result.Requested {
		s.log.Warnf("State change for %s matched %d of %d requested items", category, result.Matched, result.Requested)
	}
	s.publishEvent(ctx, natsSubjectItemStateChanged, map[string]any{
		"category": category,
		"ids":      ids,
		"state":    target,
		"actor":    actorID,
	})
	return result, nil
}

func (s *ItemService) publishEvent(ctx context.Context, subject string, message map[string]any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, subject, message); err != nil {
		s.log.Warnf("Failed to publish %s event: %v", subject, err)
	}
}
