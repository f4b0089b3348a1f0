package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/swapshop/marketplace-service/internal/domain/apperr"
	"github.com/swapshop/marketplace-service/internal/domain/entity"
	"github.com/swapshop/marketplace-service/internal/platform/logger"
	"github.com/swapshop/marketplace-service/internal/platform/token"
	"github.com/swapshop/marketplace-service/internal/repository"
	"github.com/swapshop/marketplace-service/internal/service"
)

const testSecret = "test-secret"

type mockItemService struct{ mock.Mock }

func (m *mockItemService) CreateOffer(ctx context.Context, in service.CreateListingInput, actorID string) (string, error) {
	args := m.Called(ctx, in, actorID)
	return args.String(0), args.Error(1)
}

func (m *mockItemService) CreateWanted(ctx context.Context, in service.CreateListingInput, actorID string) (string, error) {
	args := m.Called(ctx, in, actorID)
	return args.String(0), args.Error(1)
}

func (m *mockItemService) CreateEvent(ctx context.Context, in service.CreateEventInput, actorID string) (string, error) {
	args := m.Called(ctx, in, actorID)
	return args.String(0), args.Error(1)
}

func (m *mockItemService) ListOffers(ctx context.Context, in service.ListItemsInput) ([]entity.Listing, error) {
	args := m.Called(ctx, in)
	return args.Get(0).([]entity.Listing), args.Error(1)
}

func (m *mockItemService) ListWanted(ctx context.Context, in service.ListItemsInput) ([]entity.Listing, error) {
	args := m.Called(ctx, in)
	return args.Get(0).([]entity.Listing), args.Error(1)
}

func (m *mockItemService) ListEvents(ctx context.Context, in service.ListItemsInput) ([]entity.Event, error) {
	args := m.Called(ctx, in)
	return args.Get(0).([]entity.Event), args.Error(1)
}

func (m *mockItemService) ChangeOfferState(ctx context.Context, ids []string, target entity.ItemState, actorID string) (repository.ChangeStateResult, error) {
	args := m.Called(ctx, ids, target, actorID)
	return args.Get(0).(repository.ChangeStateResult), args.Error(1)
}

func (m *mockItemService) ChangeWantedState(ctx context.Context, ids []string, target entity.ItemState, actorID string) (repository.ChangeStateResult, error) {
	args := m.Called(ctx, ids, target, actorID)
	return args.Get(0).(repository.ChangeStateResult), args.Error(1)
}

func (m *mockItemService) ChangeEventState(ctx context.Context, ids []string, target entity.ItemState, actorID string) (repository.ChangeStateResult, error) {
	args := m.Called(ctx, ids, target, actorID)
	return args.Get(0).(repository.ChangeStateResult), args.Error(1)
}

type mockSubscriptionService struct{ mock.Mock }

func (m *mockSubscriptionService) Create(ctx context.Context, in service.CreateSubscriptionInput, actorID string) (string, error) {
	args := m.Called(ctx, in, actorID)
	return args.String(0), args.Error(1)
}

func (m *mockSubscriptionService) List(ctx context.Context, in service.ListSubscriptionsInput) ([]entity.Subscription, error) {
	args := m.Called(ctx, in)
	return args.Get(0).([]entity.Subscription), args.Error(1)
}

type mockUserService struct{ mock.Mock }

func (m *mockUserService) Register(ctx context.Context, in service.RegisterInput) (string, error) {
	args := m.Called(ctx, in)
	return args.String(0), args.Error(1)
}

func (m *mockUserService) ConfirmEmail(ctx context.Context, confirmToken string) error {
	return m.Called(ctx, confirmToken).Error(0)
}

func (m *mockUserService) Login(ctx context.Context, in service.LoginInput) (service.TokenResponse, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(service.TokenResponse), args.Error(1)
}

type routerFixture struct {
	items   *mockItemService
	subs    *mockSubscriptionService
	users   *mockUserService
	handler http.Handler
}

func newRouterFixture() *routerFixture {
	f := &routerFixture{
		items: new(mockItemService),
		subs:  new(mockSubscriptionService),
		users: new(mockUserService),
	}
	log := logger.NewNop()
	f.handler = NewRouter(
		NewItemHandler(f.items, log),
		NewSubscriptionHandler(f.subs, log),
		NewUserHandler(f.users, log),
		testSecret, log,
	)
	return f
}

func bearerFor(t *testing.T, userID, role string) string {
	t.Helper()
	signed, err := token.Sign(testSecret, userID, role, time.Hour)
	require.NoError(t, err)
	return "Bearer " + signed
}

func doJSON(f *routerFixture, method, path, auth string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func TestCreateOffer_RequiresToken(t *testing.T) {
	f := newRouterFixture()

	rec := doJSON(f, http.MethodPost, "/api/offers", "", map[string]string{})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	f.items.AssertNotCalled(t, "CreateOffer", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateOffer_GarbageToken(t *testing.T) {
	f := newRouterFixture()

	rec := doJSON(f, http.MethodPost, "/api/offers", "Bearer not-a-jwt", map[string]string{})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateOffer(t *testing.T) {
	f := newRouterFixture()
	in := service.CreateListingInput{
		ItemName: "bike",
		UserName: "Alice",
		Info:     "barely used",
		Deal:     "free",
		Email:    "alice@example.com",
	}
	f.items.On("CreateOffer", mock.Anything, in, "user-1").Return("offer-1", nil)

	rec := doJSON(f, http.MethodPost, "/api/offers", bearerFor(t, "user-1", "user"), in)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp createdResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "offer-1", resp.ID)
	f.items.AssertExpectations(t)
}

func TestCreateOffer_ValidationErrorBody(t *testing.T) {
	f := newRouterFixture()
	f.items.On("CreateOffer", mock.Anything, mock.Anything, mock.Anything).
		Return("", apperr.NewValidationError("failed to validate request", map[string][]string{
			"email": {"must be a valid email address"},
		}))

	rec := doJSON(f, http.MethodPost, "/api/offers", bearerFor(t, "user-1", "user"), map[string]string{})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Fields["email"], "must be a valid email address")
}

func TestListOffers_RequiresAdmin(t *testing.T) {
	f := newRouterFixture()

	rec := doJSON(f, http.MethodGet, "/api/offers", bearerFor(t, "user-1", "user"), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	f.items.AssertNotCalled(t, "ListOffers", mock.Anything, mock.Anything)
}

func TestListOffers_QueryMapping(t *testing.T) {
	f := newRouterFixture()
	f.items.On("ListOffers", mock.Anything, mock.MatchedBy(func(in service.ListItemsInput) bool {
		return len(in.States) == 1 && in.States[0] == "Approved" &&
			in.UpdatedDate != nil && in.UpdatedDate.Before != nil
	})).Return([]entity.Listing{}, nil)

	rec := doJSON(f, http.MethodGet,
		"/api/offers?state=Approved&updatedBefore=2026-03-01T00:00:00Z",
		bearerFor(t, "admin-1", string(entity.RoleAdmin)), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	f.items.AssertExpectations(t)
}

func TestListOffers_BadDate(t *testing.T) {
	f := newRouterFixture()

	rec := doJSON(f, http.MethodGet, "/api/offers?updatedBefore=yesterday",
		bearerFor(t, "admin-1", string(entity.RoleAdmin)), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChangeOfferState(t *testing.T) {
	f := newRouterFixture()
	f.items.On("ChangeOfferState", mock.Anything, []string{"a", "b"}, entity.StateApproved, "admin-1").
		Return(repository.ChangeStateResult{Requested: 2, Matched: 2}, nil)

	rec := doJSON(f, http.MethodPatch, "/api/offers/state",
		bearerFor(t, "admin-1", string(entity.RoleAdmin)),
		changeStateRequest{IDs: []string{"a", "b"}, State: "Approved"})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp changeStateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(2), resp.Matched)
}

func TestChangeOfferState_UnknownState(t *testing.T) {
	f := newRouterFixture()

	rec := doJSON(f, http.MethodPatch, "/api/offers/state",
		bearerFor(t, "admin-1", string(entity.RoleAdmin)),
		changeStateRequest{IDs: []string{"a"}, State: "Archived"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	f.items.AssertNotCalled(t, "ChangeOfferState", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateSubscription_PastDate(t *testing.T) {
	f := newRouterFixture()
	f.subs.On("Create", mock.Anything, mock.Anything, "admin-1").
		Return("", service.ErrInvalidSchedule)

	rec := doJSON(f, http.MethodPost, "/api/subscriptions",
		bearerFor(t, "admin-1", string(entity.RoleAdmin)),
		service.CreateSubscriptionInput{Date: time.Now().Add(-time.Hour), Header: "H", Footer: "F"})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, service.ErrInvalidSchedule.Error(), resp.Error)
}

func TestRegister(t *testing.T) {
	f := newRouterFixture()
	in := service.RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "correct horse"}
	f.users.On("Register", mock.Anything, in).Return("user-1", nil)

	rec := doJSON(f, http.MethodPost, "/api/auth/register", "", in)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestRegister_Conflict(t *testing.T) {
	f := newRouterFixture()
	f.users.On("Register", mock.Anything, mock.Anything).
		Return("", apperr.ErrConflict)

	rec := doJSON(f, http.MethodPost, "/api/auth/register", "",
		service.RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "correct horse"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	f := newRouterFixture()
	f.users.On("Login", mock.Anything, mock.Anything).
		Return(service.TokenResponse{}, service.ErrInvalidCredentials)

	rec := doJSON(f, http.MethodPost, "/api/auth/login", "",
		service.LoginInput{Email: "alice@example.com", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestConfirmEmail_UnknownToken(t *testing.T) {
	f := newRouterFixture()
	f.users.On("ConfirmEmail", mock.Anything, "tok-x").Return(apperr.ErrNotFound)

	rec := doJSON(f, http.MethodGet, "/api/auth/confirm/tok-x", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
