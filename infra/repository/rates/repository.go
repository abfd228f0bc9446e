// Package rates implements the singleton platform-rates repository on gorm.
package rates

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yashpatil27/trading-app-sub000/infra/repository/model"
	"github.com/yashpatil27/trading-app-sub000/pkg/domain"
	"github.com/yashpatil27/trading-app-sub000/pkg/repository"
)

// The rates table holds exactly one row.
const singletonID = 1

type repo struct {
	db *gorm.DB
}

// New creates a rates repository using the provided *gorm.DB session.
func New(db *gorm.DB) repository.RatesRepository {
	return &repo{db: db}
}

// Get implements repository.RatesRepository.
func (r *repo) Get(ctx context.Context) (*domain.Rates, error) {
	var m model.Rates
	err := r.db.WithContext(ctx).First(&m, "id = ?", singletonID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &domain.Rates{
		BuyRate:   m.BuyRate,
		SellRate:  m.SellRate,
		UpdatedAt: m.UpdatedAt,
	}, nil
}

// Put implements repository.RatesRepository.
func (r *repo) Put(ctx context.Context, rates *domain.Rates) error {
	m := model.Rates{
		ID:        singletonID,
		BuyRate:   rates.BuyRate,
		SellRate:  rates.SellRate,
		UpdatedAt: rates.UpdatedAt,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"buy_rate", "sell_rate", "updated_at"}),
		}).
		Create(&m).Error
}
