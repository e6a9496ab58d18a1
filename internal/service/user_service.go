package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	appErrors "github.com/unclebandit/mailpulse-backend/internal/errors"
	"github.com/unclebandit/mailpulse-backend/internal/model"
	"github.com/unclebandit/mailpulse-backend/internal/repository"
)

// ErrInvalidCredentials is returned by Authenticate for an unknown email or a wrong password.
var ErrInvalidCredentials = errors.New("invalid email or password")

type UserService struct {
	UserRepo   repository.UserRepositoryInterface
	Logger     *zap.Logger
	BcryptCost int
}

type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name" validate:"required"`
}

// Register stores a new account with a bcrypt hash of the password. The email
// check runs before the insert; the unique constraint catches concurrent
// registrations that slip between the two.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*model.UserAccount, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))

	existing, err := s.UserRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, appErrors.NewPersistence("find user", err)
	}
	if existing != nil {
		return nil, appErrors.NewConflict("Email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost())
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, appErrors.NewValidation("password must be at most 72 bytes")
		}
		return nil, err
	}

	u := &model.UserAccount{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         in.Name,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.UserRepo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.NewConflict("Email already exists")
		}
		return nil, appErrors.NewPersistence("insert user", err)
	}

	s.Logger.Info("user registered", zap.String("user_id", u.ID.String()))
	return u, nil
}

// Authenticate checks a password against the stored hash.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*model.UserAccount, error) {
	u, err := s.UserRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, appErrors.NewPersistence("find user", err)
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *UserService) cost() int {
	if s.BcryptCost == 0 {
		return 10
	}
	return s.BcryptCost
}
