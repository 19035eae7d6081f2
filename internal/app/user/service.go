package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"rubiechat/internal/pkg/errs"
	"rubiechat/internal/pkg/logx"
)

// PasswordCost is the bcrypt cost used for new password hashes.
const PasswordCost = 12

// CreateParams are the columns written when registering with credentials.
type CreateParams struct {
	Name           string
	Email          string
	HashedPassword string
}

// OAuthParams describe an identity returned by a social provider.
type OAuthParams struct {
	Provider          string
	ProviderAccountID string
	Name              string
	Email             string
	Image             string
}

// ProfileParams are the editable profile columns.
type ProfileParams struct {
	ID    string
	Name  string
	Image string
}

// Store defines the persistence operations for accounts.
type Store interface {
	CreateUser(ctx context.Context, params CreateParams) (User, error)
	GetUserByID(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	ListUsersExcept(ctx context.Context, email string) ([]User, error)
	UpsertOAuthUser(ctx context.Context, params OAuthParams) (User, error)
	UpdateUserProfile(ctx context.Context, params ProfileParams) (User, error)
}

// RegisterInput is what a visitor submits to create an account.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Service encapsulates the account use-cases.
type Service struct {
	store  Store
	logger zerolog.Logger
}

// NewService returns a Service backed by store.
func NewService(store Store) *Service {
	return &Service{
		store:  store,
		logger: logx.Component("UserService"),
	}
}

// NormalizeEmail trims and lower-cases an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a credentials account. Failures are *errs.CustomError values:
// ErrMissingFields, ErrPasswordTooWeak, ErrEmailTaken or ErrUnknown.
func (s *Service) Register(ctx context.Context, input RegisterInput) (User, error) {
	name := strings.TrimSpace(input.Name)
	email := NormalizeEmail(input.Email)

	if name == "" || email == "" || input.Password == "" {
		return User{}, errs.NewError(errs.ErrMissingFields)
	}

	if !IsStrongPassword(input.Password) {
		return User{}, errs.NewError(errs.ErrPasswordTooWeak)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), PasswordCost)
	if err != nil {
		return User{}, errs.NewError(errs.ErrUnknown, fmt.Errorf("hash password: %w", err))
	}

	created, err := s.store.CreateUser(ctx, CreateParams{
		Name:           name,
		Email:          email,
		HashedPassword: string(hashed),
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			s.logger.Warn().Str("email", email).Msg("Registration conflict: email already exists.")
			return User{}, errs.NewError(errs.ErrEmailTaken)
		}
		return User{}, errs.NewError(errs.ErrUnknown, fmt.Errorf("create user: %w", err))
	}

	s.logger.Info().Str("user_id", created.ID).Msg("User registered.")
	return created, nil
}

// Authenticate checks an email/password pair. Every mismatch, including unknown
// emails and social-only accounts, is reported as ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return User{}, errs.NewError(errs.ErrInvalidCredentials)
	}

	found, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, errs.NewError(errs.ErrInvalidCredentials)
		}
		return User{}, errs.NewError(errs.ErrUnknown, fmt.Errorf("get user by email: %w", err))
	}

	if !found.HasPassword() {
		s.logger.Debug().Str("user_id", found.ID).Msg("Credentials sign-in attempted on a social-only account.")
		return User{}, errs.NewError(errs.ErrInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(found.HashedPassword), []byte(password)); err != nil {
		s.logger.Debug().Str("user_id", found.ID).Msg("Password mismatch.")
		return User{}, errs.NewError(errs.ErrInvalidCredentials)
	}

	return found, nil
}

// SignInWithProvider links or creates the account for a social identity.
func (s *Service) SignInWithProvider(ctx context.Context, params OAuthParams) (User, error) {
	params.Email = NormalizeEmail(params.Email)
	if params.Email == "" || params.ProviderAccountID == "" {
		return User{}, errs.NewError(errs.ErrInvalidCredentials)
	}

	if strings.TrimSpace(params.Name) == "" {
		params.Name = strings.SplitN(params.Email, "@", 2)[0]
	}

	u, err := s.store.UpsertOAuthUser(ctx, params)
	if err != nil {
		if errors.Is(err, ErrAccountNotLinked) {
			return User{}, errs.NewError(errs.ErrAccountNotLinked)
		}
		return User{}, errs.NewError(errs.ErrUnknown, fmt.Errorf("upsert oauth user: %w", err))
	}
	return u, nil
}

// Get returns the account with id, or ErrUserNotFound.
func (s *Service) Get(ctx context.Context, id string) (User, error) {
	u, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, errs.NewError(errs.ErrUserNotFound)
		}
		return User{}, errs.NewError(errs.ErrUnknown, fmt.Errorf("get user: %w", err))
	}
	return u, nil
}

// ListOthers returns every account except the viewer's, newest first.
func (s *Service) ListOthers(ctx context.Context, viewerEmail string) ([]User, error) {
	users, err := s.store.ListUsersExcept(ctx, NormalizeEmail(viewerEmail))
	if err != nil {
		return nil, errs.NewError(errs.ErrUnknown, fmt.Errorf("list users: %w", err))
	}
	return users, nil
}

// UpdateProfile changes the name and image of an account. An empty name keeps the old one.
func (s *Service) UpdateProfile(ctx context.Context, params ProfileParams) (User, error) {
	params.Name = strings.TrimSpace(params.Name)

	u, err := s.store.UpdateUserProfile(ctx, params)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, errs.NewError(errs.ErrUserNotFound)
		}
		return User{}, errs.NewError(errs.ErrUnknown, fmt.Errorf("update profile: %w", err))
	}
	return u, nil
}
