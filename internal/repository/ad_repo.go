package repository

import (
	"courtyard/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type AdRepo interface {
	Create(ctx context.Context, ad *model.Ad) error
	GetById(ctx context.Context, id uint64) (*model.Ad, error)
	GetByApartment(ctx context.Context, apartmentID uint64) ([]*model.Ad, error)
	GetByUser(ctx context.Context, userID uint64) ([]*model.Ad, error)
	ListActive(ctx context.Context) ([]*model.Ad, error)
	Update(ctx context.Context, id uint64, updates map[string]interface{}) error
	Delete(ctx context.Context, id uint64) error
	DeactivateExpired(ctx context.Context, cutoff time.Time) (int64, error)
	AddImage(ctx context.Context, image *model.AdImage) error
	GetImages(ctx context.Context, adID uint64) ([]*model.AdImage, error)
	DeleteImages(ctx context.Context, adID uint64) error
}

type adRepoImpl struct {
	db *gorm.DB
}

func NewAdRepo(db *gorm.DB) AdRepo {
	return &adRepoImpl{db: db}
}

func (s *adRepoImpl) Create(ctx context.Context, ad *model.Ad) error {
	return s.db.WithContext(ctx).Create(ad).Error
}

func (s *adRepoImpl) GetById(ctx context.Context, id uint64) (*model.Ad, error) {
	ad := &model.Ad{}
	result := s.db.WithContext(ctx).First(ad, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return ad, nil
}

func (s *adRepoImpl) GetByApartment(ctx context.Context, apartmentID uint64) ([]*model.Ad, error) {
	ads := make([]*model.Ad, 0)
	err := s.db.WithContext(ctx).
		Where("apartment_id = ? AND active = 1", apartmentID).
		Order("created_at DESC").
		Find(&ads).Error
	return ads, err
}

func (s *adRepoImpl) GetByUser(ctx context.Context, userID uint64) ([]*model.Ad, error) {
	ads := make([]*model.Ad, 0)
	err := s.db.WithContext(ctx).
		Where("posted_by = ?", userID).
		Order("created_at DESC").
		Find(&ads).Error
	return ads, err
}

func (s *adRepoImpl) ListActive(ctx context.Context) ([]*model.Ad, error) {
	ads := make([]*model.Ad, 0)
	err := s.db.WithContext(ctx).
		Where("active = 1").
		Order("created_at DESC").
		Find(&ads).Error
	return ads, err
}

func (s *adRepoImpl) Update(ctx context.Context, id uint64, updates map[string]interface{}) error {
	return s.db.WithContext(ctx).Model(&model.Ad{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (s *adRepoImpl) Delete(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Delete(&model.Ad{}, id).Error
}

// DeactivateExpired flips Active off for ads created before the cutoff,
// returning how many rows changed. Called by the expiry sweep job.
func (s *adRepoImpl) DeactivateExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	result := s.db.WithContext(ctx).Model(&model.Ad{}).
		Where("active = 1 AND created_at < ?", cutoff).
		Update("active", false)
	return result.RowsAffected, result.Error
}

func (s *adRepoImpl) AddImage(ctx context.Context, image *model.AdImage) error {
	return s.db.WithContext(ctx).Create(image).Error
}

func (s *adRepoImpl) GetImages(ctx context.Context, adID uint64) ([]*model.AdImage, error) {
	images := make([]*model.AdImage, 0)
	err := s.db.WithContext(ctx).
		Where("ad_id = ?", adID).
		Find(&images).Error
	return images, err
}

func (s *adRepoImpl) DeleteImages(ctx context.Context, adID uint64) error {
	return s.db.WithContext(ctx).
		Where("ad_id = ?", adID).
		Delete(&model.AdImage{}).Error
}
