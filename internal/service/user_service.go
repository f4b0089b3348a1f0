package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/swapshop/marketplace-service/internal/adapter/email"
	"github.com/swapshop/marketplace-service/internal/domain/apperr"
	"github.com/swapshop/marketplace-service/internal/domain/entity"
	"github.com/swapshop/marketplace-service/internal/platform/logger"
	"github.com/swapshop/marketplace-service/internal/platform/token"
	"github.com/swapshop/marketplace-service/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	repo         repository.UserRepository
	sender       email.Sender
	jwtSecret    string
	tokenTimeout time.Duration
	uiBaseURL    string
	log          logger.Logger
	now          func() time.Time
}

func NewUserService(repo repository.UserRepository, sender email.Sender, jwtSecret string, tokenTimeout time.Duration, uiBaseURL string, log logger.Logger) *UserService {
	return &UserService{
		repo:         repo,
		sender:       sender,
		jwtSecret:    jwtSecret,
		tokenTimeout: tokenTimeout,
		uiBaseURL:    uiBaseURL,
		log:          log,
		now:          time.Now,
	}
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (string, error) {
	if err := checkStruct(in); err != nil {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now().UTC()
	user := &entity.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         entity.RoleUser,
		IsVerified:   false,
		ConfirmToken: uuid.NewString(),
		AuditInfo: entity.AuditInfo{
			CreatedDate: now,
			UpdatedDate: now,
		},
	}

	id, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return "", fmt.Errorf("email already registered: %w", apperr.ErrConflict)
		}
		return "", err
	}

	// The account exists either way; a failed confirmation mail only delays
	// verification.
	if err := s.sendConfirmEmail(user); err != nil {
		s.log.Warnf("Failed to send confirmation email to %s: %v", user.Email, err)
	}
	return id, nil
}

func (s *UserService) sendConfirmEmail(user *entity.User) error {
	link := fmt.Sprintf("%s/api/auth/confirm/%s", s.uiBaseURL, user.ConfirmToken)
	html := fmt.Sprintf(`<h1>Email Confirmation</h1>
<h2>Hello %s!</h2>
<p>Thank you for registering with SwapShop! Please confirm your email by clicking the link below. It will redirect you to the login page.</p>
<a href=%q>Click here to confirm your email.</a>`, user.Name, link)
	text := fmt.Sprintf("Hello %s!\nPlease confirm your SwapShop email: %s\n", user.Name, link)

	return s.sender.Send([]string{user.Email}, "Email confirmation", html, text)
}

func (s *UserService) ConfirmEmail(ctx context.Context, confirmToken string) error {
	user, err := s.repo.FindByConfirmToken(ctx, confirmToken)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.ErrNotFound
		}
		return err
	}
	return s.repo.SetVerified(ctx, user.ID)
}

func (s *UserService) Login(ctx context.Context, in LoginInput) (TokenResponse, error) {
	if err := checkStruct(in); err != nil {
		return TokenResponse{}, err
	}

	user, err := s.repo.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Same message whether email or password failed.
			return TokenResponse{}, ErrInvalidCredentials
		}
		return TokenResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return TokenResponse{}, ErrInvalidCredentials
	}

	signed, err := token.Sign(s.jwtSecret, user.ID, string(user.Role), s.tokenTimeout)
	if err != nil {
		return TokenResponse{}, err
	}
	return TokenResponse{Token: signed, ExpiresIn: int64(s.tokenTimeout.Seconds())}, nil
}
