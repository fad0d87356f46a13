package service

import (
	"context"
	"strings"
	"testing"

	"courtyard/internal/model"
	"courtyard/internal/pkg/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserFixture(t *testing.T) (*UserService, *fakeUserRepo, *fakeMetricRepo, *fakeMailer) {
	t.Helper()
	userRepo := newFakeUserRepo()
	metricRepo := newFakeMetricRepo()
	mailer := &fakeMailer{}
	return NewUserService(userRepo, metricRepo, mailer), userRepo, metricRepo, mailer
}

func registerUser(t *testing.T, svc *UserService, email string) *model.User {
	t.Helper()
	user, err := svc.Register(context.Background(), &model.User{
		Name:        "Ravi",
		Email:       email,
		ApartmentID: 1,
		ApartmentNo: "402",
	}, "s3cret-pass")
	require.NoError(t, err)
	return user
}

func TestRegisterNormalizesEmailAndCounts(t *testing.T) {
	svc, repo, metrics, mailer := newUserFixture(t)

	user := registerUser(t, svc, "  Ravi@Example.COM ")
	assert.Equal(t, "ravi@example.com", user.Email)
	assert.NotEqual(t, "s3cret-pass", user.HashedPassword)
	assert.Equal(t, 1, metrics.counts["registered_users"])
	assert.Len(t, mailer.verifications, 1)

	stored, err := repo.GetUserByEmail(context.Background(), "ravi@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored)

	// The same address in any casing is the same account.
	_, err = svc.Register(context.Background(), &model.User{
		Name:  "Ravi Again",
		Email: "RAVI@example.com",
	}, "another-pass")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestAuthenticateCountsFailures(t *testing.T) {
	svc, repo, _, _ := newUserFixture(t)
	registerUser(t, svc, "ravi@example.com")
	ctx := context.Background()

	_, _, err := svc.Authenticate(ctx, "ravi@example.com", "wrong")
	assert.ErrorIs(t, err, ErrPasswordIncorrect)
	_, _, err = svc.Authenticate(ctx, "RAVI@example.com", "wrong again")
	assert.ErrorIs(t, err, ErrPasswordIncorrect)

	user, err := repo.GetUserByEmail(ctx, "ravi@example.com")
	require.NoError(t, err)
	assert.Equal(t, 2, user.InvalidLoginCount)

	token, _, err := svc.Authenticate(ctx, "Ravi@Example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := security.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	user, err = repo.GetUserByEmail(ctx, "ravi@example.com")
	require.NoError(t, err)
	assert.Zero(t, user.InvalidLoginCount)
}

func TestAuthenticateUnknownAndInactive(t *testing.T) {
	svc, repo, _, _ := newUserFixture(t)
	user := registerUser(t, svc, "ravi@example.com")
	ctx := context.Background()

	_, _, err := svc.Authenticate(ctx, "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrEmailNotFound)

	repo.users[user.ID].IsActive = false
	_, _, err = svc.Authenticate(ctx, "ravi@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestVerifyEmailConsumesToken(t *testing.T) {
	svc, repo, _, mailer := newUserFixture(t)
	registerUser(t, svc, "ravi@example.com")
	ctx := context.Background()

	require.Len(t, mailer.verifications, 1)
	token := strings.SplitN(mailer.verifications[0], "|", 2)[1]

	require.NoError(t, svc.VerifyEmail(ctx, token))

	user, err := repo.GetUserByEmail(ctx, "ravi@example.com")
	require.NoError(t, err)
	assert.True(t, user.EmailVerified)
	assert.Nil(t, user.EmailVerifyHash)

	// The hash is gone, so the same link cannot verify twice.
	assert.ErrorIs(t, svc.VerifyEmail(ctx, token), ErrVerificationInvalid)
	assert.ErrorIs(t, svc.VerifyEmail(ctx, "not-a-token"), ErrVerificationInvalid)
}

func TestSetPasswordRotatesAndResets(t *testing.T) {
	svc, repo, _, mailer := newUserFixture(t)
	user := registerUser(t, svc, "ravi@example.com")
	ctx := context.Background()

	repo.users[user.ID].InvalidLoginCount = 2
	require.NoError(t, svc.SetPassword(ctx, "Ravi@example.com", "brand-new-pass"))
	assert.Len(t, mailer.passwordMails, 1)

	_, _, err := svc.Authenticate(ctx, "ravi@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, ErrPasswordIncorrect)
	_, _, err = svc.Authenticate(ctx, "ravi@example.com", "brand-new-pass")
	require.NoError(t, err)
}

func TestChangePasswordChecksCurrent(t *testing.T) {
	svc, _, _, _ := newUserFixture(t)
	user := registerUser(t, svc, "ravi@example.com")
	ctx := context.Background()

	assert.ErrorIs(t, svc.ChangePassword(ctx, user.ID, "wrong", "next-pass-123"), ErrPasswordIncorrect)
	require.NoError(t, svc.ChangePassword(ctx, user.ID, "s3cret-pass", "next-pass-123"))
}

func TestDeleteAccountCounts(t *testing.T) {
	svc, repo, metrics, _ := newUserFixture(t)
	user := registerUser(t, svc, "ravi@example.com")
	ctx := context.Background()

	require.NoError(t, svc.DeleteAccount(ctx, user.ID))
	assert.Equal(t, 1, metrics.counts["deleted_user_accounts"])

	gone, err := repo.GetUserById(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}
