package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"friendfinder/backend/internal/auth"
	"friendfinder/backend/internal/mail"
	"friendfinder/backend/internal/models"
	"friendfinder/backend/internal/repository"
	"friendfinder/backend/pkg/jwt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService owns registration, login, OTP verification, and password
// reset.
type AuthService struct {
	users  *repository.UserRepository
	tokens *auth.ResetTokens
	mailer mail.Mailer
	log    *slog.Logger
}

// NewAuthService wires the auth service.
func NewAuthService(users *repository.UserRepository, tokens *auth.ResetTokens, mailer mail.Mailer, log *slog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, mailer: mailer, log: log}
}

// Register creates an account. Duplicate username and email are rejected
// with distinct errors, checked before insert.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:        username,
		Email:           email,
		PasswordHash:    string(hash),
		PrivacySettings: models.DefaultPrivacySettings(),
	}
	if err := s.users.Create(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login verifies the password and, on success, issues an OTP and emails it.
// No session is established until the OTP is verified.
func (s *AuthService) Login(ctx context.Context, login, password string) error {
	user, err := s.findByLogin(ctx, login)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}

	code, err := auth.IssueOTP(user, time.Now())
	if err != nil {
		return err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}

	body := fmt.Sprintf("Your verification code is %s. It expires in %d minutes.",
		code, int(auth.OTPTTL.Minutes()))
	if err := s.mailer.Send(user.Email, "Your login code", body); err != nil {
		s.log.Error("failed to send OTP email", "user", user.ID, "err", err)
		return err
	}
	return nil
}

// VerifyOTP checks the submitted code, consumes it, and returns a session
// token.
func (s *AuthService) VerifyOTP(ctx context.Context, login, code string) (string, error) {
	user, err := s.findByLogin(ctx, login)
	if err != nil {
		return "", err
	}

	if !auth.VerifyOTP(user, code, time.Now()) {
		return "", ErrInvalidOTP
	}
	// persist the cleared code so it cannot be replayed
	if err := s.users.Save(ctx, user); err != nil {
		return "", err
	}

	return jwt.GenerateToken(user.ID)
}

// RequestReset emails a signed reset token. The outcome is indistinguishable
// whether or not the email is registered.
func (s *AuthService) RequestReset(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	token, err := s.tokens.Issue(user.ID, user.ResetTokenVersion)
	if err != nil {
		return err
	}

	body := fmt.Sprintf("Use this token to reset your password: %s\nIt expires in %d minutes.",
		token, int(auth.ResetTokenTTL.Minutes()))
	if err := s.mailer.Send(user.Email, "Password reset", body); err != nil {
		s.log.Error("failed to send reset email", "user", user.ID, "err", err)
	}
	return nil
}

// ResetPassword resolves the token and replaces the password hash. Any
// invalid, expired, tampered, or already-used token fails as not-found.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	userID, version, err := s.tokens.Resolve(token)
	if err != nil {
		return ErrNotFound
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return ErrNotFound
	}
	if user.ResetTokenVersion != version {
		return ErrNotFound
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hash)
	// invalidate every outstanding reset token for this user
	user.ResetTokenVersion++
	return s.users.Save(ctx, user)
}

func (s *AuthService) findByLogin(ctx context.Context, login string) (*models.User, error) {
	user, err := s.users.GetByUsername(ctx, login)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	user, err = s.users.GetByEmail(ctx, login)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	return user, nil
}
