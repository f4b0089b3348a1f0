package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/swapshop/marketplace-service/internal/domain/apperr"
	"github.com/swapshop/marketplace-service/internal/domain/entity"
	"github.com/swapshop/marketplace-service/internal/platform/logger"
	"github.com/swapshop/marketplace-service/internal/repository"
)

type itemFixture struct {
	offers    *MockListingRepository
	wanted    *MockListingRepository
	events    *MockEventRepository
	publisher *MockPublisher
	svc       *ItemService
}

func newItemFixture() *itemFixture {
	f := &itemFixture{
		offers:    new(MockListingRepository),
		wanted:    new(MockListingRepository),
		events:    new(MockEventRepository),
		publisher: new(MockPublisher),
	}
	f.svc = NewItemService(f.offers, f.wanted, f.events, f.publisher, logger.NewNop())
	return f
}

func validListingInput() CreateListingInput {
	return CreateListingInput{
		ItemName: "bike",
		UserName: "Alice",
		Info:     "barely used",
		Deal:     "free",
		Email:    "alice@example.com",
	}
}

func TestCreateOffer_ForcesAwaitingReview(t *testing.T) {
	f := newItemFixture()
	fixed := time.Date(2026, time.February, 1, 12, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return fixed }

	f.offers.On("Create", mock.Anything, mock.MatchedBy(func(l *entity.Listing) bool {
		return l.State == entity.StateAwaitingReview &&
			l.CreatedBy == "user-1" && l.UpdatedBy == "user-1" &&
			l.CreatedDate.Equal(fixed) && l.UpdatedDate.Equal(fixed)
	})).Return("offer-1", nil)
	f.publisher.On("Publish", mock.Anything, "item.created", mock.Anything).Return(nil)

	id, err := f.svc.CreateOffer(context.Background(), validListingInput(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "offer-1", id)
	f.offers.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
}

func TestCreateWanted_UsesWantedRepository(t *testing.T) {
	f := newItemFixture()
	f.wanted.On("Create", mock.Anything, mock.Anything).Return("wanted-1", nil)
	f.publisher.On("Publish", mock.Anything, "item.created", mock.Anything).Return(nil)

	id, err := f.svc.CreateWanted(context.Background(), validListingInput(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "wanted-1", id)
	f.offers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateOffer_ValidationFailure(t *testing.T) {
	f := newItemFixture()

	in := validListingInput()
	in.Email = "not-an-email"
	in.ItemName = ""

	_, err := f.svc.CreateOffer(context.Background(), in, "user-1")

	require.True(t, apperr.IsValidation(err))
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields["email"], "must be a valid email address")
	assert.Contains(t, ve.Fields["itemName"], "is required")
	f.offers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateEvent(t *testing.T) {
	f := newItemFixture()
	f.events.On("Create", mock.Anything, mock.MatchedBy(func(e *entity.Event) bool {
		return e.State == entity.StateAwaitingReview && e.EventName == "flea market"
	})).Return("event-1", nil)
	f.publisher.On("Publish", mock.Anything, "item.created", mock.Anything).Return(nil)

	id, err := f.svc.CreateEvent(context.Background(), CreateEventInput{
		EventName:   "flea market",
		When:        time.Now().Add(48 * time.Hour),
		Info:        "bring your own table",
		ContactInfo: "town hall",
		Email:       "organizer@example.com",
	}, "user-2")

	require.NoError(t, err)
	assert.Equal(t, "event-1", id)
	f.events.AssertExpectations(t)
}

func TestCreateOffer_NilPublisher(t *testing.T) {
	offers := new(MockListingRepository)
	svc := NewItemService(offers, new(MockListingRepository), new(MockEventRepository), nil, logger.NewNop())
	offers.On("Create", mock.Anything, mock.Anything).Return("offer-1", nil)

	_, err := svc.CreateOffer(context.Background(), validListingInput(), "user-1")
	require.NoError(t, err)
}

func TestListOffers_CriteriaMapping(t *testing.T) {
	f := newItemFixture()
	after := time.Now().Add(-24 * time.Hour)

	want := repository.Criteria{
		"id":          []string{"a", "b"},
		"itemName":    []string{"bike"},
		"email":       []string{"alice@example.com"},
		"state":       []string{"Approved"},
		"createdDate": repository.DateRange{After: &after},
	}
	f.offers.On("Find", mock.Anything, want).Return([]entity.Listing{}, nil)

	_, err := f.svc.ListOffers(context.Background(), ListItemsInput{
		IDs:         []string{"a", "b"},
		Names:       []string{"bike"},
		Emails:      []string{"alice@example.com"},
		States:      []string{"Approved"},
		CreatedDate: &repository.DateRange{After: &after},
	})

	require.NoError(t, err)
	f.offers.AssertExpectations(t)
}

func TestListEvents_UsesEventNameField(t *testing.T) {
	f := newItemFixture()
	f.events.On("Find", mock.Anything, repository.Criteria{
		"eventName": []string{"flea market"},
	}).Return([]entity.Event{}, nil)

	_, err := f.svc.ListEvents(context.Background(), ListItemsInput{Names: []string{"flea market"}})
	require.NoError(t, err)
	f.events.AssertExpectations(t)
}

func TestChangeOfferState(t *testing.T) {
	f := newItemFixture()
	ids := []string{"a", "b"}

	f.offers.On("ChangeState", mock.Anything, ids, entity.StateApproved, "admin-1").
		Return(repository.ChangeStateResult{Requested: 2, Matched: 2}, nil)
	f.publisher.On("Publish", mock.Anything, "item.state.changed", mock.Anything).Return(nil)

	result, err := f.svc.ChangeOfferState(context.Background(), ids, entity.StateApproved, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Matched)
	f.publisher.AssertExpectations(t)
}

func TestChangeEventState_PartialMatch(t *testing.T) {
	f := newItemFixture()
	ids := []string{"a", "missing"}

	f.events.On("ChangeState", mock.Anything, ids, entity.StateRejected, "admin-1").
		Return(repository.ChangeStateResult{Requested: 2, Matched: 1}, nil)
	f.publisher.On("Publish", mock.Anything, "item.state.changed", mock.Anything).Return(nil)

	result, err := f.svc.ChangeEventState(context.Background(), ids, entity.StateRejected, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Requested)
	assert.Equal(t, int64(1), result.Matched)
}
