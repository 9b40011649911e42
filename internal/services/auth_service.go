package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"swapflow/internal/config"
	"swapflow/internal/domain"
	"swapflow/internal/repos"
)

const sessionTTL = 7 * 24 * time.Hour

// ErrSuspended marks a valid session whose account is under suspension.
var ErrSuspended = errors.New("account suspended")

type AuthService struct {
	Users *repos.UserRepo
	Cfg   config.Config
}

// Register creates an account and opens a session. Emails on the configured
// admin allowlist get the ADMIN role; everyone else is a USER.
func (s *AuthService) Register(email, name, password string) (*domain.User, string, error) {
	if _, err := s.Users.ByEmail(email); err == nil {
		return nil, "", fmt.Errorf("%w: account already exists", domain.ErrConflict)
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, "", err
	}
	role := "USER"
	if s.Cfg.IsAdminEmail(email) {
		role = "ADMIN"
	}
	u := &domain.User{
		UserID:    domain.NewID("user"),
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Name:      name,
		Hash:      string(h),
		Role:      role,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.Users.Create(u); err != nil {
		return nil, "", err
	}
	token, err := s.openSession(u.UserID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *AuthService) Login(email, password string) (*domain.User, string, error) {
	u, err := s.Users.ByEmail(email)
	if err != nil {
		return nil, "", fmt.Errorf("%w: invalid email or password", domain.ErrUnauthorized)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, "", fmt.Errorf("%w: invalid email or password", domain.ErrUnauthorized)
	}
	token, err := s.openSession(u.UserID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *AuthService) openSession(userID string) (string, error) {
	token := "sess_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	if err := s.Users.CreateSession(token, userID, time.Now().Add(sessionTTL)); err != nil {
		return "", err
	}
	return token, nil
}

// CurrentUser resolves a session token, rejecting suspended accounts.
// A suspension whose end date has passed is lifted here, on the next
// authenticated request; there is no background sweep.
func (s *AuthService) CurrentUser(token string) (*domain.User, error) {
	u, err := s.Users.SessionUser(token)
	if err != nil {
		return nil, err
	}
	if u.SuspendedUntil != nil {
		until, perr := time.Parse(time.RFC3339, *u.SuspendedUntil)
		if perr == nil && until.After(time.Now().UTC()) {
			return nil, fmt.Errorf("%w until %s", ErrSuspended, *u.SuspendedUntil)
		}
		if err := s.Users.ClearExpiredSuspension(u.UserID); err != nil {
			return nil, err
		}
		u.SuspendedUntil = nil
		u.SuspensionReason = nil
	}
	return u, nil
}

func (s *AuthService) Logout(token string) error {
	return s.Users.DeleteSession(token)
}
