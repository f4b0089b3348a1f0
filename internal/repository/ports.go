package repository

import (
	"context"

	"github.com/swapshop/marketplace-service/internal/domain/entity"
)

// ChangeStateResult reports a bulk state change. Matched may be lower than
// Requested when some ids do not exist; callers treat that as a soft signal,
// not an error.
type ChangeStateResult struct {
	Requested int64
	Matched   int64
}

// PruneFilter selects items for deletion: anything whose id is in IDs OR
// whose state is in States. Used by the dispatcher's cleanup sweep.
type PruneFilter struct {
	IDs    []string
	States []entity.ItemState
}

// ListingRepository persists one listing category (offers or wanted).
type ListingRepository interface {
	Create(ctx context.Context, listing *entity.Listing) (string, error)
	Find(ctx context.Context, criteria Criteria) ([]entity.Listing, error)
	ChangeState(ctx context.Context, ids []string, state entity.ItemState, actorID string) (ChangeStateResult, error)
	DeleteMatching(ctx context.Context, filter PruneFilter) (int64, error)
}

type EventRepository interface {
	Create(ctx context.Context, event *entity.Event) (string, error)
	Find(ctx context.Context, criteria Criteria) ([]entity.Event, error)
	ChangeState(ctx context.Context, ids []string, state entity.ItemState, actorID string) (ChangeStateResult, error)
	DeleteMatching(ctx context.Context, filter PruneFilter) (int64, error)
}

type SubscriptionRepository interface {
	Create(ctx context.Context, sub *entity.Subscription) (string, error)
	Find(ctx context.Context, criteria Criteria) ([]entity.Subscription, error)
	// DeleteByState removes every subscription in the given state and returns
	// the count removed. Used to enforce the single-AwaitingDispatch rule.
	DeleteByState(ctx context.Context, state entity.SubscriptionState) (int64, error)
	// UpdateState sets state and, when errMsg is non-empty, the error
	// diagnostic, refreshing the audit stamps.
	UpdateState(ctx context.Context, id, actorID string, state entity.SubscriptionState, errMsg string) error
}

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) (string, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByConfirmToken(ctx context.Context, token string) (*entity.User, error)
	FindVerified(ctx context.Context) ([]entity.User, error)
	SetVerified(ctx context.Context, id string) error
}
