package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"courtyard/internal/api/config"
	"courtyard/internal/model"
	"courtyard/internal/pkg/consts"
	"courtyard/internal/pkg/minio"
	"courtyard/internal/pkg/util"
	"courtyard/internal/repository"

	"github.com/google/uuid"
	log "log/slog"
)

// AdService owns classified listings: posting, browsing by apartment,
// image storage, the sold flow, and the rolling expiry sweep.
type AdService struct {
	adRepo        repository.AdRepo
	apartmentRepo repository.ApartmentRepo
	userRepo      repository.UserRepo
	metricRepo    repository.MetricRepo
}

func NewAdService(adRepo repository.AdRepo, apartmentRepo repository.ApartmentRepo, userRepo repository.UserRepo, metricRepo repository.MetricRepo) *AdService {
	return &AdService{
		adRepo:        adRepo,
		apartmentRepo: apartmentRepo,
		userRepo:      userRepo,
		metricRepo:    metricRepo,
	}
}

// CreateAd posts a listing into the poster's apartment and counts it
// against the poster and the daily metrics.
func (s *AdService) CreateAd(ctx context.Context, ad *model.Ad) (*model.Ad, error) {
	apartment, err := s.apartmentRepo.GetById(ctx, ad.ApartmentID)
	if err != nil {
		return nil, ErrPersistence
	}
	if apartment == nil || !apartment.Verified {
		return nil, ErrApartmentNotFound
	}
	if ad.AdType != consts.AdTypeSale && ad.AdType != consts.AdTypeRental {
		return nil, ErrParamInvalid
	}

	ad.Active = true
	ad.Sold = false
	if err := s.adRepo.Create(ctx, ad); err != nil {
		log.ErrorContext(ctx, "create ad failed", "user_id", ad.PostedBy, "err", err)
		return nil, ErrPersistence
	}

	poster, err := s.userRepo.GetUserById(ctx, ad.PostedBy)
	if err == nil && poster != nil {
		if err := s.userRepo.UpdateUser(ctx, poster.ID, map[string]interface{}{
			"ads_posted": poster.AdsPosted + 1,
		}); err != nil {
			log.WarnContext(ctx, "ads posted counter failed", "user_id", poster.ID, "err", err)
		}
	}
	if err := s.metricRepo.IncrementCounter(ctx, "ads_posted"); err != nil {
		log.WarnContext(ctx, "metric bump failed", "counter", "ads_posted", "err", err)
	}
	return ad, nil
}

func (s *AdService) GetAd(ctx context.Context, id uint64) (*model.Ad, error) {
	ad, err := s.adRepo.GetById(ctx, id)
	if err != nil {
		return nil, ErrPersistence
	}
	if ad == nil {
		return nil, ErrAdNotFound
	}
	return ad, nil
}

// getOwnedAd loads an ad and checks the caller owns it.
func (s *AdService) getOwnedAd(ctx context.Context, id, userID uint64) (*model.Ad, error) {
	ad, err := s.GetAd(ctx, id)
	if err != nil {
		return nil, err
	}
	if ad.PostedBy != userID {
		return nil, UnauthorizedError
	}
	return ad, nil
}

func (s *AdService) ListByApartment(ctx context.Context, apartmentID uint64) ([]*model.Ad, error) {
	ads, err := s.adRepo.GetByApartment(ctx, apartmentID)
	if err != nil {
		return nil, ErrPersistence
	}
	return ads, nil
}

// ListActive returns every listing still inside its active window, for
// the public sitemap and RSS feed.
func (s *AdService) ListActive(ctx context.Context) ([]*model.Ad, error) {
	ads, err := s.adRepo.ListActive(ctx)
	if err != nil {
		return nil, ErrPersistence
	}
	return ads, nil
}

func (s *AdService) ListByUser(ctx context.Context, userID uint64) ([]*model.Ad, error) {
	ads, err := s.adRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, ErrPersistence
	}
	return ads, nil
}

// UpdateAd applies owner edits to the mutable listing fields.
func (s *AdService) UpdateAd(ctx context.Context, id, userID uint64, updates map[string]interface{}) error {
	if _, err := s.getOwnedAd(ctx, id, userID); err != nil {
		return err
	}
	allowed := map[string]bool{
		"title": true, "description": true, "category": true,
		"price": true, "negotiable": true, "condition": true,
		"available_from": true, "publish_flat_no": true, "active": true,
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
	if err := s.adRepo.Update(ctx, id, filtered); err != nil {
		return ErrPersistence
	}
	return nil
}

// DeleteAd removes the listing, its image rows, and its object-storage
// folder.
func (s *AdService) DeleteAd(ctx context.Context, id, userID uint64) error {
	if _, err := s.getOwnedAd(ctx, id, userID); err != nil {
		return err
	}
	if err := s.adRepo.DeleteImages(ctx, id); err != nil {
		return ErrPersistence
	}
	if err := s.adRepo.Delete(ctx, id); err != nil {
		return ErrPersistence
	}
	if err := minio.DeleteFolder(ctx, adFolder(id)); err != nil {
		log.WarnContext(ctx, "ad image folder delete failed", "ad_id", id, "err", err)
	}
	return nil
}

// MarkSold closes a listing and credits the seller.
func (s *AdService) MarkSold(ctx context.Context, id, userID uint64) error {
	ad, err := s.getOwnedAd(ctx, id, userID)
	if err != nil {
		return err
	}
	if ad.Sold {
		return nil
	}
	if err := s.adRepo.Update(ctx, id, map[string]interface{}{
		"sold":   true,
		"active": false,
	}); err != nil {
		return ErrPersistence
	}

	seller, err := s.userRepo.GetUserById(ctx, userID)
	if err == nil && seller != nil {
		if err := s.userRepo.UpdateUser(ctx, seller.ID, map[string]interface{}{
			"items_sold": seller.ItemsSold + 1,
		}); err != nil {
			log.WarnContext(ctx, "items sold counter failed", "user_id", seller.ID, "err", err)
		}
	}
	if err := s.metricRepo.IncrementCounter(ctx, "items_sold"); err != nil {
		log.WarnContext(ctx, "metric bump failed", "counter", "items_sold", "err", err)
	}
	return nil
}

// ReportAd counts an abuse report against the daily metrics. Reports are
// tallied, not auto-actioned.
func (s *AdService) ReportAd(ctx context.Context, id uint64) error {
	if _, err := s.GetAd(ctx, id); err != nil {
		return err
	}
	if err := s.metricRepo.IncrementCounter(ctx, "ads_reported"); err != nil {
		return ErrPersistence
	}
	return nil
}

func adFolder(adID uint64) string {
	return fmt.Sprintf("ads/%d/", adID)
}

// AttachImage stores an uploaded photo and a generated thumbnail under the
// ad's folder and records both keys.
func (s *AdService) AttachImage(ctx context.Context, adID, userID uint64, reader io.Reader, size int64, contentType string) (*model.AdImage, error) {
	if _, err := s.getOwnedAd(ctx, adID, userID); err != nil {
		return nil, err
	}
	if !strings.HasPrefix(contentType, consts.MimePrefixImage) {
		return nil, ErrFileNotSupported
	}

	// The stream is needed twice, once for the original upload and once
	// for thumbnailing.
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return nil, ErrParamInvalid
	}

	name := uuid.NewString()
	imageKey := adFolder(adID) + name
	if _, err := minio.UploadFile(ctx, imageKey, bytes.NewReader(buf.Bytes()), size, contentType); err != nil {
		log.ErrorContext(ctx, "image upload failed", "ad_id", adID, "err", err)
		return nil, UnExpectedError
	}

	thumbKey := ""
	if thumb, err := util.MakeThumbnail(bytes.NewReader(buf.Bytes())); err != nil {
		log.WarnContext(ctx, "thumbnail generation failed", "ad_id", adID, "err", err)
	} else {
		thumbKey = adFolder(adID) + "thumb_" + name
		if _, err := minio.UploadFile(ctx, thumbKey, thumb, int64(thumb.Len()), "image/jpeg"); err != nil {
			log.WarnContext(ctx, "thumbnail upload failed", "ad_id", adID, "err", err)
			thumbKey = ""
		}
	}

	image := &model.AdImage{
		AdID:      adID,
		ImagePath: imageKey,
		ThumbPath: thumbKey,
	}
	if err := s.adRepo.AddImage(ctx, image); err != nil {
		return nil, ErrPersistence
	}
	return image, nil
}

func (s *AdService) GetAdImages(ctx context.Context, adID uint64) ([]*model.AdImage, error) {
	images, err := s.adRepo.GetImages(ctx, adID)
	if err != nil {
		return nil, ErrPersistence
	}
	return images, nil
}

// SweepExpired deactivates listings older than the configured window.
// Runs from the scheduler, and also via the job surface with the shared
// secret.
func (s *AdService) SweepExpired(ctx context.Context) (int64, error) {
	days := 30
	if config.Cfg != nil && config.Cfg.Ads.ExpiryDays > 0 {
		days = config.Cfg.Ads.ExpiryDays
	}
	cutoff := time.Now().AddDate(0, 0, -days)
	count, err := s.adRepo.DeactivateExpired(ctx, cutoff)
	if err != nil {
		return 0, ErrPersistence
	}
	if count > 0 {
		log.InfoContext(ctx, "expired ads deactivated", "count", count)
	}
	return count, nil
}
