package service

import (
	"context"
	"time"

	"courtyard/internal/pkg/util"
	"courtyard/internal/repository"

	log "log/slog"
)

const (
	// A passcode is valid for 600 seconds from generation.
	otpTTL = 600 * time.Second
	// Three strikes on either counter before the lock engages.
	otpMaxAttempts = 3
	// The lock releases itself after ten minutes.
	otpLockDuration = 10 * time.Minute
)

// OtpService runs the one-time-passcode state machine: bounded generation,
// bounded verification attempts, and a self-expiring lock once either bound
// is hit. All timestamps compare at whole-second UTC granularity.
type OtpService struct {
	userRepo repository.UserRepo
	now      func() time.Time
	dispatch func(phone, code string) error
}

func NewOtpService(userRepo repository.UserRepo) *OtpService {
	return &OtpService{
		userRepo: userRepo,
		now:      time.Now,
		dispatch: util.SendSms,
	}
}

// NewOtpServiceWithClock wires an explicit clock and dispatcher, used by
// tests to walk the lock timeline deterministically.
func NewOtpServiceWithClock(userRepo repository.UserRepo, now func() time.Time, dispatch func(phone, code string) error) *OtpService {
	return &OtpService{
		userRepo: userRepo,
		now:      now,
		dispatch: dispatch,
	}
}

func (s *OtpService) nowSecond() time.Time {
	return s.now().UTC().Truncate(time.Second)
}

// lockExpired reports whether a lock set at lockedAt has run its course.
func (s *OtpService) lockExpired(lockedAt *time.Time) bool {
	if lockedAt == nil {
		return true
	}
	return !s.nowSecond().Before(lockedAt.UTC().Truncate(time.Second).Add(otpLockDuration))
}

// RequestOtp generates a fresh passcode for the user and dispatches it over
// SMS when a mobile number is on file. The third request without a
// successful verification in between engages the lock; a lock that has
// aged past its window self-releases and the counters start over.
func (s *OtpService) RequestOtp(ctx context.Context, email string) (string, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return "", ErrPersistence
	}
	if user == nil {
		return "", ErrEmailNotFound
	}

	if user.LockOtpSend {
		if !s.lockExpired(user.OtpLockedTime) {
			return "", ErrTooManyOtpRequests
		}
		// Lock has aged out: reset the machine before proceeding.
		user.LockOtpSend = false
		user.OtpGeneratedCount = 0
		user.InvalidOtpCount = 0
		user.OtpLockedTime = nil
	}

	if user.OtpGeneratedCount >= otpMaxAttempts {
		lockedAt := s.nowSecond()
		err := s.userRepo.UpdateUser(ctx, user.ID, map[string]interface{}{
			"lock_otp_send":   true,
			"otp_locked_time": lockedAt,
		})
		if err != nil {
			return "", ErrPersistence
		}
		return "", ErrTooManyOtpRequests
	}

	code := util.GenerateOtp()
	generatedAt := s.nowSecond()
	err = s.userRepo.UpdateUser(ctx, user.ID, map[string]interface{}{
		"otp":                   code,
		"otp_verification_time": generatedAt,
		"otp_generated_count":   user.OtpGeneratedCount + 1,
		"lock_otp_send":         false,
		"otp_locked_time":       nil,
		"invalid_otp_count":     user.InvalidOtpCount,
	})
	if err != nil {
		return "", ErrPersistence
	}

	// State is committed first, then delivery. A gateway failure never
	// rolls the counter back.
	if user.Mobile != nil && *user.Mobile != "" {
		if err := s.dispatch(*user.Mobile, code); err != nil {
			log.WarnContext(ctx, "otp dispatch failed", "user_id", user.ID, "err", err)
		}
	}

	return code, nil
}

// VerifyOtp checks a submitted passcode. The third wrong code engages the
// lock but still reports an invalid code; from the fourth attempt on the
// caller is throttled. A correct code clears the whole machine.
func (s *OtpService) VerifyOtp(ctx context.Context, email string, code string) error {
	user, err := s.userRepo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return ErrPersistence
	}
	if user == nil {
		return ErrEmailNotFound
	}

	if user.InvalidOtpCount >= otpMaxAttempts {
		return ErrTooManyOtpRequests
	}
	if user.LockOtpSend && !s.lockExpired(user.OtpLockedTime) {
		return ErrTooManyOtpRequests
	}

	if user.Otp == nil || user.OtpVerificationTime == nil {
		return ErrOtpInvalid
	}

	generatedAt := user.OtpVerificationTime.UTC().Truncate(time.Second)
	if s.nowSecond().Sub(generatedAt) > otpTTL {
		return ErrOtpExpired
	}

	if *user.Otp != code {
		invalid := user.InvalidOtpCount + 1
		updates := map[string]interface{}{
			"invalid_otp_count": invalid,
		}
		if invalid >= otpMaxAttempts {
			updates["lock_otp_send"] = true
			updates["otp_locked_time"] = s.nowSecond()
		}
		if err := s.userRepo.UpdateUser(ctx, user.ID, updates); err != nil {
			return ErrPersistence
		}
		return ErrOtpInvalid
	}

	// Success resets everything.
	err = s.userRepo.UpdateUser(ctx, user.ID, map[string]interface{}{
		"otp":                   nil,
		"otp_verification_time": nil,
		"otp_generated_count":   0,
		"invalid_otp_count":     0,
		"lock_otp_send":         false,
		"otp_locked_time":       nil,
	})
	if err != nil {
		return ErrPersistence
	}
	return nil
}
