package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"courtyard/internal/api/config"
	"courtyard/internal/model"
	"courtyard/internal/pkg/consts"
	"courtyard/internal/pkg/redis"
	"courtyard/internal/pkg/security"
	"courtyard/internal/repository"

	log "log/slog"
)

// EmailSender abstracts the transactional mail provider so the account flow
// can be tested without a network.
type EmailSender interface {
	SendVerificationEmail(ctx context.Context, to, name, token string) error
	SendPasswordChangedEmail(ctx context.Context, to, name string) error
}

// UserService owns accounts: registration, credential checks, session
// tokens, email verification, and the lifecycle updates around them.
type UserService struct {
	userRepo   repository.UserRepo
	metricRepo repository.MetricRepo
	mailer     EmailSender
}

func NewUserService(userRepo repository.UserRepo, metricRepo repository.MetricRepo, mailer EmailSender) *UserService {
	return &UserService{
		userRepo:   userRepo,
		metricRepo: metricRepo,
		mailer:     mailer,
	}
}

// normalizeEmail lower-cases and trims an address. Every lookup and every
// stored address goes through this, so case never splits an account in two.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func newVerifyHash() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

// Register creates an account with a bcrypt-hashed password and kicks off
// email verification. The address must not already be registered.
func (s *UserService) Register(ctx context.Context, user *model.User, password string) (*model.User, error) {
	user.Email = normalizeEmail(user.Email)

	existing, err := s.userRepo.GetUserByEmail(ctx, user.Email)
	if err != nil {
		return nil, ErrPersistence
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	hashed, err := security.HashPassword(password)
	if err != nil {
		return nil, ErrParamInvalid
	}
	user.HashedPassword = hashed
	user.IsActive = true

	hash := newVerifyHash()
	user.EmailVerifyHash = &hash

	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		log.ErrorContext(ctx, "create user failed", "email", user.Email, "err", err)
		return nil, ErrPersistence
	}

	if err := s.metricRepo.IncrementCounter(ctx, "registered_users"); err != nil {
		log.WarnContext(ctx, "metric bump failed", "counter", "registered_users", "err", err)
	}

	s.sendVerification(ctx, user, hash)
	return user, nil
}

func (s *UserService) sendVerification(ctx context.Context, user *model.User, hash string) {
	token, err := security.GenerateVerificationToken(user.ID, hash)
	if err != nil {
		log.ErrorContext(ctx, "mint verification token failed", "user_id", user.ID, "err", err)
		return
	}
	if err := s.mailer.SendVerificationEmail(ctx, user.Email, user.Name, token); err != nil {
		log.WarnContext(ctx, "verification email failed", "user_id", user.ID, "err", err)
	}
}

// Authenticate checks credentials and mints a session token. Every wrong
// password is counted against the account before the error goes back; a
// successful login clears the counter.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return "", nil, ErrPersistence
	}
	if user == nil {
		return "", nil, ErrEmailNotFound
	}
	if !user.IsActive {
		return "", nil, ErrUserInactive
	}

	if err := security.CheckPasswordHash(password, user.HashedPassword); err != nil {
		// The counter update lands before the caller hears about the
		// failure.
		updateErr := s.userRepo.UpdateUser(ctx, user.ID, map[string]interface{}{
			"invalid_login_count": user.InvalidLoginCount + 1,
		})
		if updateErr != nil {
			log.ErrorContext(ctx, "invalid login count update failed", "user_id", user.ID, "err", updateErr)
		}
		return "", nil, ErrPasswordIncorrect
	}

	if user.InvalidLoginCount > 0 {
		if err := s.userRepo.UpdateUser(ctx, user.ID, map[string]interface{}{
			"invalid_login_count": 0,
		}); err != nil {
			log.WarnContext(ctx, "invalid login count reset failed", "user_id", user.ID, "err", err)
		}
	}

	token, err := security.GenerateToken(user.ID)
	if err != nil {
		return "", nil, UnExpectedError
	}
	return token, user, nil
}

// Logout blacklists the session token's signature for the remainder of its
// lifetime, so a copied token dies with the session.
func (s *UserService) Logout(ctx context.Context, tokenString string) error {
	claims, err := security.ValidateToken(tokenString)
	if err != nil {
		return UnauthorizedError
	}
	signature, err := security.ExtractSignature(tokenString)
	if err != nil {
		return UnauthorizedError
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	if err := redis.SetWithExpiration(ctx, consts.TokenBlacklistKey+signature, "1", ttl); err != nil {
		log.ErrorContext(ctx, "token blacklist failed", "err", err)
		return UnExpectedError
	}
	return nil
}

func (s *UserService) GetProfile(ctx context.Context, userID uint64) (*model.User, error) {
	user, err := s.userRepo.GetUserById(ctx, userID)
	if err != nil {
		return nil, ErrPersistence
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile applies the mutable profile fields.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint64, updates map[string]interface{}) error {
	allowed := map[string]bool{
		"name":            true,
		"mobile":          true,
		"apartment_no":    true,
		"mail_subscribed": true,
		"profile_path":    true,
	}
	filtered := map[string]interface{}{}
	for k, v := range updates {
		if allowed[k] {
			filtered[k] = v
		}
	}
	if len(filtered) == 0 {
		return ErrParamInvalid
	}
	if err := s.userRepo.UpdateUser(ctx, userID, filtered); err != nil {
		return ErrPersistence
	}
	return nil
}

// ChangePassword rotates the password after re-checking the current one.
func (s *UserService) ChangePassword(ctx context.Context, userID uint64, current, next string) error {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	if err := security.CheckPasswordHash(current, user.HashedPassword); err != nil {
		return ErrPasswordIncorrect
	}
	return s.setPassword(ctx, user, next)
}

// SetPassword rotates the password without the current one. Callers gate
// this behind a verified passcode.
func (s *UserService) SetPassword(ctx context.Context, email, next string) error {
	user, err := s.userRepo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return ErrPersistence
	}
	if user == nil {
		return ErrEmailNotFound
	}
	return s.setPassword(ctx, user, next)
}

func (s *UserService) setPassword(ctx context.Context, user *model.User, next string) error {
	hashed, err := security.HashPassword(next)
	if err != nil {
		return ErrParamInvalid
	}
	if err := s.userRepo.UpdateUser(ctx, user.ID, map[string]interface{}{
		"hashed_password":     hashed,
		"invalid_login_count": 0,
	}); err != nil {
		return ErrPersistence
	}
	if err := s.mailer.SendPasswordChangedEmail(ctx, user.Email, user.Name); err != nil {
		log.WarnContext(ctx, "password changed email failed", "user_id", user.ID, "err", err)
	}
	return nil
}

// VerifyEmail consumes a verification token. The hash inside the token must
// still match the stored one, so a rotated or consumed link stops working.
func (s *UserService) VerifyEmail(ctx context.Context, tokenString string) error {
	userID, hash, err := security.ParseVerificationToken(tokenString)
	if err != nil {
		return ErrVerificationInvalid
	}
	user, err := s.userRepo.GetUserById(ctx, userID)
	if err != nil {
		return ErrPersistence
	}
	if user == nil || user.EmailVerifyHash == nil || *user.EmailVerifyHash != hash {
		return ErrVerificationInvalid
	}

	now := time.Now()
	if err := s.userRepo.UpdateUser(ctx, userID, map[string]interface{}{
		"email_verified":    true,
		"email_verified_at": now,
		"email_verify_hash": nil,
	}); err != nil {
		return ErrPersistence
	}
	return nil
}

// ResendVerification rotates the verification hash and sends a fresh link.
func (s *UserService) ResendVerification(ctx context.Context, userID uint64) error {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	if user.EmailVerified {
		return nil
	}

	hash := newVerifyHash()
	if err := s.userRepo.UpdateUser(ctx, userID, map[string]interface{}{
		"email_verify_hash": hash,
	}); err != nil {
		return ErrPersistence
	}
	s.sendVerification(ctx, user, hash)
	return nil
}

// DeleteAccount removes the account and counts the departure.
func (s *UserService) DeleteAccount(ctx context.Context, userID uint64) error {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.userRepo.DeleteUser(ctx, user.ID); err != nil {
		return ErrPersistence
	}
	if err := s.metricRepo.IncrementCounter(ctx, "deleted_user_accounts"); err != nil {
		log.WarnContext(ctx, "metric bump failed", "counter", "deleted_user_accounts", "err", err)
	}
	return nil
}

// TokenExpiry exposes the configured session lifetime for login responses.
func (s *UserService) TokenExpiry() time.Duration {
	if config.Cfg != nil && config.Cfg.Auth.TokenExpiryMinutes > 0 {
		return time.Duration(config.Cfg.Auth.TokenExpiryMinutes) * time.Minute
	}
	return 1440 * time.Minute
}
