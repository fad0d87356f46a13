package service

import (
	"context"
	"time"

	"courtyard/internal/model"
	"courtyard/internal/pkg/consts"
	"courtyard/internal/pkg/redis"
	"courtyard/internal/pkg/util"
	"courtyard/internal/repository"

	json "github.com/goccy/go-json"
	log "log/slog"
)

const apartmentCacheTTL = 10 * time.Minute

// ApartmentService serves the neighbourhood directory. The full verified
// list is small and read-heavy, so it sits in redis behind a short TTL.
type ApartmentService struct {
	apartmentRepo repository.ApartmentRepo
	metricRepo    repository.MetricRepo
}

func NewApartmentService(apartmentRepo repository.ApartmentRepo, metricRepo repository.MetricRepo) *ApartmentService {
	return &ApartmentService{
		apartmentRepo: apartmentRepo,
		metricRepo:    metricRepo,
	}
}

// ListApartments returns every verified apartment, cache first.
func (s *ApartmentService) ListApartments(ctx context.Context) ([]*model.Apartment, error) {
	if cached, err := redis.GetValue(ctx, consts.ApartmentListKey); err == nil && cached != "" {
		var apartments []*model.Apartment
		if err := json.Unmarshal([]byte(cached), &apartments); err == nil {
			return apartments, nil
		}
	}

	apartments, err := s.apartmentRepo.GetAll(ctx)
	if err != nil {
		return nil, ErrPersistence
	}

	if payload, err := json.Marshal(apartments); err == nil {
		if err := redis.SetWithExpiration(ctx, consts.ApartmentListKey, payload, apartmentCacheTTL); err != nil {
			log.WarnContext(ctx, "apartment cache write failed", "err", err)
		}
	}
	return apartments, nil
}

// SearchApartments matches verified apartments by name fragment.
func (s *ApartmentService) SearchApartments(ctx context.Context, name string) ([]*model.Apartment, error) {
	apartments, err := s.apartmentRepo.SearchByName(ctx, name)
	if err != nil {
		return nil, ErrPersistence
	}
	if len(apartments) == 0 {
		return nil, ErrApartmentNotFound
	}
	return apartments, nil
}

func (s *ApartmentService) GetApartment(ctx context.Context, id uint64) (*model.Apartment, error) {
	apartment, err := s.apartmentRepo.GetById(ctx, id)
	if err != nil {
		return nil, ErrPersistence
	}
	if apartment == nil {
		return nil, ErrApartmentNotFound
	}
	return apartment, nil
}

// SubmitApartment registers a new apartment. Addresses are title-cased on
// the way in; the entry stays unverified until moderation flips it.
func (s *ApartmentService) SubmitApartment(ctx context.Context, apartment *model.Apartment) (*model.Apartment, error) {
	apartment.Name = util.FormatAddress(apartment.Name)
	apartment.Address1 = util.FormatAddress(apartment.Address1)
	if apartment.Address2 != nil {
		formatted := util.FormatAddress(*apartment.Address2)
		apartment.Address2 = &formatted
	}
	apartment.City = util.FormatAddress(apartment.City)
	apartment.Verified = false

	if err := s.apartmentRepo.Create(ctx, apartment); err != nil {
		log.ErrorContext(ctx, "create apartment failed", "name", apartment.Name, "err", err)
		return nil, ErrPersistence
	}
	if err := s.metricRepo.IncrementCounter(ctx, "apartments_registered"); err != nil {
		log.WarnContext(ctx, "metric bump failed", "counter", "apartments_registered", "err", err)
	}
	return apartment, nil
}

// VerifyApartment flips the moderation gate and drops the stale cache.
func (s *ApartmentService) VerifyApartment(ctx context.Context, id uint64) error {
	apartment, err := s.GetApartment(ctx, id)
	if err != nil {
		return err
	}
	if err := s.apartmentRepo.SetVerified(ctx, apartment.ID); err != nil {
		return ErrPersistence
	}
	if err := redis.DeleteKey(ctx, consts.ApartmentListKey); err != nil {
		log.WarnContext(ctx, "apartment cache invalidation failed", "err", err)
	}
	return nil
}
