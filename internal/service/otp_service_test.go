package service

import (
	"context"
	"testing"
	"time"

	"courtyard/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOtpFixture(t *testing.T) (*OtpService, *fakeUserRepo, *time.Time, *[]string) {
	t.Helper()
	repo := newFakeUserRepo()
	mobile := "5550001234"
	require.NoError(t, repo.CreateUser(context.Background(), &model.User{
		Name:   "Priya",
		Email:  "priya@example.com",
		Mobile: &mobile,
	}))

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	var sent []string
	svc := NewOtpServiceWithClock(repo,
		func() time.Time { return now },
		func(phone, code string) error {
			sent = append(sent, phone+":"+code)
			return nil
		},
	)
	return svc, repo, &now, &sent
}

func TestRequestOtpDispatchesAndPersists(t *testing.T) {
	svc, repo, _, sent := newOtpFixture(t)
	ctx := context.Background()

	code, err := svc.RequestOtp(ctx, "Priya@Example.com")
	require.NoError(t, err)
	assert.Len(t, code, 6)
	assert.Regexp(t, `^[0-9A-F]{6}$`, code)
	require.Len(t, *sent, 1)

	user, err := repo.GetUserByEmail(ctx, "priya@example.com")
	require.NoError(t, err)
	require.NotNil(t, user.Otp)
	assert.Equal(t, code, *user.Otp)
	assert.Equal(t, 1, user.OtpGeneratedCount)
}

func TestRequestOtpLocksOnFourthRequest(t *testing.T) {
	svc, _, now, _ := newOtpFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.RequestOtp(ctx, "priya@example.com")
		require.NoError(t, err)
	}

	_, err := svc.RequestOtp(ctx, "priya@example.com")
	assert.ErrorIs(t, err, ErrTooManyOtpRequests)

	// Still locked inside the window.
	*now = now.Add(9 * time.Minute)
	_, err = svc.RequestOtp(ctx, "priya@example.com")
	assert.ErrorIs(t, err, ErrTooManyOtpRequests)

	// The lock releases itself after ten minutes and the counters reset.
	*now = now.Add(time.Minute)
	code, err := svc.RequestOtp(ctx, "priya@example.com")
	require.NoError(t, err)
	assert.Len(t, code, 6)
}

func TestVerifyOtpExpiry(t *testing.T) {
	svc, _, now, _ := newOtpFixture(t)
	ctx := context.Background()

	code, err := svc.RequestOtp(ctx, "priya@example.com")
	require.NoError(t, err)

	// Exactly at the boundary the code still works.
	*now = now.Add(600 * time.Second)
	require.NoError(t, svc.VerifyOtp(ctx, "priya@example.com", code))

	code, err = svc.RequestOtp(ctx, "priya@example.com")
	require.NoError(t, err)
	*now = now.Add(601 * time.Second)
	assert.ErrorIs(t, svc.VerifyOtp(ctx, "priya@example.com", code), ErrOtpExpired)
}

func TestVerifyOtpThreeWrongCodesLock(t *testing.T) {
	svc, repo, _, _ := newOtpFixture(t)
	ctx := context.Background()

	code, err := svc.RequestOtp(ctx, "priya@example.com")
	require.NoError(t, err)

	// Three wrong codes each report an invalid code; the third also
	// engages the lock.
	assert.ErrorIs(t, svc.VerifyOtp(ctx, "priya@example.com", "000000"), ErrOtpInvalid)
	assert.ErrorIs(t, svc.VerifyOtp(ctx, "priya@example.com", "000000"), ErrOtpInvalid)
	assert.ErrorIs(t, svc.VerifyOtp(ctx, "priya@example.com", "000000"), ErrOtpInvalid)

	// From the fourth attempt on, even the right code is throttled.
	assert.ErrorIs(t, svc.VerifyOtp(ctx, "priya@example.com", code), ErrTooManyOtpRequests)

	user, err := repo.GetUserByEmail(ctx, "priya@example.com")
	require.NoError(t, err)
	assert.True(t, user.LockOtpSend)
	assert.Equal(t, 3, user.InvalidOtpCount)
}

func TestVerifyOtpSuccessResetsMachine(t *testing.T) {
	svc, repo, _, _ := newOtpFixture(t)
	ctx := context.Background()

	code, err := svc.RequestOtp(ctx, "priya@example.com")
	require.NoError(t, err)
	assert.ErrorIs(t, svc.VerifyOtp(ctx, "priya@example.com", "FFFFFF"), ErrOtpInvalid)
	require.NoError(t, svc.VerifyOtp(ctx, "priya@example.com", code))

	user, err := repo.GetUserByEmail(ctx, "priya@example.com")
	require.NoError(t, err)
	assert.Nil(t, user.Otp)
	assert.Zero(t, user.OtpGeneratedCount)
	assert.Zero(t, user.InvalidOtpCount)
	assert.False(t, user.LockOtpSend)

	// A consumed code cannot be replayed.
	assert.ErrorIs(t, svc.VerifyOtp(ctx, "priya@example.com", code), ErrOtpInvalid)
}

func TestRequestOtpUnknownEmail(t *testing.T) {
	svc, _, _, _ := newOtpFixture(t)
	_, err := svc.RequestOtp(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrEmailNotFound)
}
