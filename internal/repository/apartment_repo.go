package repository

import (
	"courtyard/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type ApartmentRepo interface {
	GetAll(ctx context.Context) ([]*model.Apartment, error)
	GetById(ctx context.Context, id uint64) (*model.Apartment, error)
	SearchByName(ctx context.Context, name string) ([]*model.Apartment, error)
	Create(ctx context.Context, apartment *model.Apartment) error
	SetVerified(ctx context.Context, id uint64) error
}

type apartmentRepoImpl struct {
	db *gorm.DB
}

func NewApartmentRepo(db *gorm.DB) ApartmentRepo {
	return &apartmentRepoImpl{db: db}
}

func (s *apartmentRepoImpl) GetAll(ctx context.Context) ([]*model.Apartment, error) {
	apartments := make([]*model.Apartment, 0)
	err := s.db.WithContext(ctx).Order("name").Find(&apartments).Error
	return apartments, err
}

func (s *apartmentRepoImpl) GetById(ctx context.Context, id uint64) (*model.Apartment, error) {
	apartment := &model.Apartment{}
	result := s.db.WithContext(ctx).First(apartment, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return apartment, nil
}

func (s *apartmentRepoImpl) SearchByName(ctx context.Context, name string) ([]*model.Apartment, error) {
	apartments := make([]*model.Apartment, 0)
	err := s.db.WithContext(ctx).
		Where("name LIKE ?", "%"+name+"%").
		Find(&apartments).Error
	return apartments, err
}

func (s *apartmentRepoImpl) Create(ctx context.Context, apartment *model.Apartment) error {
	return s.db.WithContext(ctx).Create(apartment).Error
}

func (s *apartmentRepoImpl) SetVerified(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Model(&model.Apartment{}).
		Where("id = ?", id).
		Update("verified", true).Error
}
