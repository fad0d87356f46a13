package repository

import (
	"courtyard/internal/model"
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MetricRepo interface {
	IncrementCounter(ctx context.Context, column string) error
	EnsureDate(ctx context.Context) error
	GetByDate(ctx context.Context, date time.Time) (*model.Metric, error)
	GetRange(ctx context.Context, from, to time.Time) ([]*model.Metric, error)
}

type metricRepoImpl struct {
	db *gorm.DB
}

func NewMetricRepo(db *gorm.DB) MetricRepo {
	return &metricRepoImpl{db: db}
}

func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// IncrementCounter bumps one counter column on today's row, inserting the
// row first if this is the first event of the day. The upsert keeps
// concurrent bumps from racing on the daily unique index.
func (s *metricRepoImpl) IncrementCounter(ctx context.Context, column string) error {
	metric := &model.Metric{Date: today()}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}},
			DoNothing: true,
		}).
		Create(metric).Error
	if err != nil {
		return errors.Wrap(err, "ensure metric row")
	}
	return s.db.WithContext(ctx).Model(&model.Metric{}).
		Where("date = ?", today()).
		Update(column, gorm.Expr(column+" + 1")).Error
}

// EnsureDate inserts today's counter row if it does not exist yet, so the
// reporting surface always has a row to read even on a quiet day.
func (s *metricRepoImpl) EnsureDate(ctx context.Context) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}},
			DoNothing: true,
		}).
		Create(&model.Metric{Date: today()}).Error
	return errors.Wrap(err, "ensure metric row")
}

func (s *metricRepoImpl) GetByDate(ctx context.Context, date time.Time) (*model.Metric, error) {
	metric := &model.Metric{}
	result := s.db.WithContext(ctx).Where("date = ?", date).First(metric)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return metric, nil
}

func (s *metricRepoImpl) GetRange(ctx context.Context, from, to time.Time) ([]*model.Metric, error) {
	metrics := make([]*model.Metric, 0)
	err := s.db.WithContext(ctx).
		Where("date BETWEEN ? AND ?", from, to).
		Order("date ASC").
		Find(&metrics).Error
	return metrics, err
}
