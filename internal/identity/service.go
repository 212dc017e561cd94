package identity

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned for unknown emails and wrong passwords
	// alike so login failures do not leak which part was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrAccountSuspended indicates the account exists but is not active.
	ErrAccountSuspended = errors.New("account is suspended")

	// ErrEmailTaken indicates the email is already registered.
	ErrEmailTaken = errors.New("email already registered")
)

var (
	emailPattern    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	idNumberPattern = regexp.MustCompile(`^\d{13}$`)
	phonePattern    = regexp.MustCompile(`^0\d{9}$`)
)

// Service manages the user lifecycle.
type Service struct {
	repo Repository
}

// NewService creates a new identity service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates a new active beneficiary user with a hashed password.
func (s *Service) Register(ctx context.Context, creds Credentials) (User, error) {
	creds.Email = strings.ToLower(strings.TrimSpace(creds.Email))
	creds.FullName = strings.TrimSpace(creds.FullName)

	if creds.FullName == "" {
		return User{}, errors.New("full name is required")
	}
	if !emailPattern.MatchString(creds.Email) {
		return User{}, errors.New("a valid email address is required")
	}
	if !idNumberPattern.MatchString(creds.IDNumber) {
		return User{}, errors.New("SA ID number must be 13 digits")
	}
	if creds.Phone != "" && !phonePattern.MatchString(creds.Phone) {
		return User{}, errors.New("phone number must be 10 digits starting with 0")
	}
	if len(creds.Password) < 8 {
		return User{}, errors.New("password must be at least 8 characters")
	}

	if _, err := s.repo.FindByEmail(ctx, creds.Email); err == nil {
		return User{}, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	now := time.Now().UTC()
	user := User{
		ID:           uuid.New().String(),
		FullName:     creds.FullName,
		Email:        creds.Email,
		Phone:        creds.Phone,
		IDNumber:     creds.IDNumber,
		PasswordHash: hash,
		Role:         RoleUser,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return User{}, err
	}

	return user, nil
}

// Authenticate verifies email/password credentials for an active account.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return User{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}

	if !user.Active {
		return User{}, ErrAccountSuspended
	}

	return user, nil
}

// VerifyEmail marks the user's email address as confirmed.
func (s *Service) VerifyEmail(ctx context.Context, userID string) error {
	return s.repo.MarkVerified(ctx, userID, "email")
}

// VerifyPhone marks the user's phone number as confirmed.
func (s *Service) VerifyPhone(ctx context.Context, userID string) error {
	return s.repo.MarkVerified(ctx, userID, "phone")
}
