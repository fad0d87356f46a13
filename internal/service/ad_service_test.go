package service

import (
	"context"
	"testing"
	"time"

	"courtyard/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdFixture(t *testing.T) (*AdService, *fakeAdRepo, *fakeUserRepo, *fakeMetricRepo, uint64) {
	t.Helper()
	adRepo := newFakeAdRepo()
	apartmentRepo := newFakeApartmentRepo()
	userRepo := newFakeUserRepo()
	metricRepo := newFakeMetricRepo()

	apartment := &model.Apartment{Name: "Lakeside Towers", Verified: true}
	require.NoError(t, apartmentRepo.Create(context.Background(), apartment))
	require.NoError(t, userRepo.CreateUser(context.Background(), &model.User{
		Name:  "Seller",
		Email: "seller@example.com",
	}))

	svc := NewAdService(adRepo, apartmentRepo, userRepo, metricRepo)
	return svc, adRepo, userRepo, metricRepo, apartment.ID
}

func TestCreateAdCountsAndValidatesApartment(t *testing.T) {
	svc, _, userRepo, metrics, apartmentID := newAdFixture(t)
	ctx := context.Background()

	ad, err := svc.CreateAd(ctx, &model.Ad{
		Title:       "Bookshelf",
		AdType:      "sale",
		PostedBy:    1,
		ApartmentID: apartmentID,
	})
	require.NoError(t, err)
	assert.True(t, ad.Active)
	assert.Equal(t, 1, metrics.counts["ads_posted"])

	seller, err := userRepo.GetUserById(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, seller.AdsPosted)

	_, err = svc.CreateAd(ctx, &model.Ad{Title: "Nope", PostedBy: 1, ApartmentID: 999})
	assert.ErrorIs(t, err, ErrApartmentNotFound)
}

func TestMarkSoldOwnerOnlyAndIdempotent(t *testing.T) {
	svc, adRepo, userRepo, metrics, apartmentID := newAdFixture(t)
	ctx := context.Background()

	ad, err := svc.CreateAd(ctx, &model.Ad{Title: "Bookshelf", AdType: "sale", PostedBy: 1, ApartmentID: apartmentID})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.MarkSold(ctx, ad.ID, 99), UnauthorizedError)

	require.NoError(t, svc.MarkSold(ctx, ad.ID, 1))
	stored, err := adRepo.GetById(ctx, ad.ID)
	require.NoError(t, err)
	assert.True(t, stored.Sold)
	assert.False(t, stored.Active)

	seller, err := userRepo.GetUserById(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, seller.ItemsSold)

	// Marking a sold ad again neither errors nor double-counts.
	require.NoError(t, svc.MarkSold(ctx, ad.ID, 1))
	assert.Equal(t, 1, metrics.counts["items_sold"])
}

func TestReportAdCounts(t *testing.T) {
	svc, _, _, metrics, apartmentID := newAdFixture(t)
	ctx := context.Background()

	ad, err := svc.CreateAd(ctx, &model.Ad{Title: "Bookshelf", AdType: "sale", PostedBy: 1, ApartmentID: apartmentID})
	require.NoError(t, err)

	require.NoError(t, svc.ReportAd(ctx, ad.ID))
	assert.Equal(t, 1, metrics.counts["ads_reported"])

	assert.ErrorIs(t, svc.ReportAd(ctx, 999), ErrAdNotFound)
}

func TestSweepExpiredDeactivatesOldAds(t *testing.T) {
	svc, adRepo, _, _, apartmentID := newAdFixture(t)
	ctx := context.Background()

	old := &model.Ad{Title: "Old", PostedBy: 1, ApartmentID: apartmentID, Active: true, CreatedAt: time.Now().AddDate(0, 0, -45)}
	require.NoError(t, adRepo.Create(ctx, old))
	fresh, err := svc.CreateAd(ctx, &model.Ad{Title: "Fresh", AdType: "sale", PostedBy: 1, ApartmentID: apartmentID})
	require.NoError(t, err)

	count, err := svc.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	stored, err := adRepo.GetById(ctx, old.ID)
	require.NoError(t, err)
	assert.False(t, stored.Active)

	kept, err := adRepo.GetById(ctx, fresh.ID)
	require.NoError(t, err)
	assert.True(t, kept.Active)
}

func TestListActiveSkipsDeactivatedAds(t *testing.T) {
	svc, adRepo, _, _, apartmentID := newAdFixture(t)
	ctx := context.Background()

	live, err := svc.CreateAd(ctx, &model.Ad{Title: "Live", AdType: "sale", PostedBy: 1, ApartmentID: apartmentID})
	require.NoError(t, err)
	retired := &model.Ad{Title: "Retired", PostedBy: 1, ApartmentID: apartmentID, Active: false}
	require.NoError(t, adRepo.Create(ctx, retired))

	ads, err := svc.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, ads, 1)
	assert.Equal(t, live.ID, ads[0].ID)
}
