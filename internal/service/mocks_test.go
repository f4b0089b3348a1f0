package service

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/swapshop/marketplace-service/internal/domain/entity"
	"github.com/swapshop/marketplace-service/internal/repository"
)

type MockListingRepository struct{ mock.Mock }

func (m *MockListingRepository) Create(ctx context.Context, listing *entity.Listing) (string, error) {
	args := m.Called(ctx, listing)
	return args.String(0), args.Error(1)
}

func (m *MockListingRepository) Find(ctx context.Context, criteria repository.Criteria) ([]entity.Listing, error) {
	args := m.Called(ctx, criteria)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Listing), args.Error(1)
}

func (m *MockListingRepository) ChangeState(ctx context.Context, ids []string, state entity.ItemState, actorID string) (repository.ChangeStateResult, error) {
	args := m.Called(ctx, ids, state, actorID)
	return args.Get(0).(repository.ChangeStateResult), args.Error(1)
}

func (m *MockListingRepository) DeleteMatching(ctx context.Context, filter repository.PruneFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

type MockEventRepository struct{ mock.Mock }

func (m *MockEventRepository) Create(ctx context.Context, event *entity.Event) (string, error) {
	args := m.Called(ctx, event)
	return args.String(0), args.Error(1)
}

func (m *MockEventRepository) Find(ctx context.Context, criteria repository.Criteria) ([]entity.Event, error) {
	args := m.Called(ctx, criteria)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Event), args.Error(1)
}

func (m *MockEventRepository) ChangeState(ctx context.Context, ids []string, state entity.ItemState, actorID string) (repository.ChangeStateResult, error) {
	args := m.Called(ctx, ids, state, actorID)
	return args.Get(0).(repository.ChangeStateResult), args.Error(1)
}

func (m *MockEventRepository) DeleteMatching(ctx context.Context, filter repository.PruneFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

type MockSubscriptionRepository struct{ mock.Mock }

func (m *MockSubscriptionRepository) Create(ctx context.Context, sub *entity.Subscription) (string, error) {
	args := m.Called(ctx, sub)
	return args.String(0), args.Error(1)
}

func (m *MockSubscriptionRepository) Find(ctx context.Context, criteria repository.Criteria) ([]entity.Subscription, error) {
	args := m.Called(ctx, criteria)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) DeleteByState(ctx context.Context, state entity.SubscriptionState) (int64, error) {
	args := m.Called(ctx, state)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSubscriptionRepository) UpdateState(ctx context.Context, id, actorID string, state entity.SubscriptionState, errMsg string) error {
	args := m.Called(ctx, id, actorID, state, errMsg)
	return args.Error(0)
}

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindByConfirmToken(ctx context.Context, confirmToken string) (*entity.User, error) {
	args := m.Called(ctx, confirmToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindVerified(ctx context.Context) ([]entity.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.User), args.Error(1)
}

func (m *MockUserRepository) SetVerified(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockSender struct{ mock.Mock }

func (m *MockSender) Send(to []string, subject, bodyHTML, bodyText string) error {
	args := m.Called(to, subject, bodyHTML, bodyText)
	return args.Error(0)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) Publish(ctx context.Context, subject string, message interface{}) error {
	args := m.Called(ctx, subject, message)
	return args.Error(0)
}

type MockArmer struct{ mock.Mock }

func (m *MockArmer) Arm(ctx context.Context, sub *entity.Subscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}
