// Package transaction implements the ledger repository on gorm.
package transaction

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yashpatil27/trading-app-sub000/infra/repository/model"
	"github.com/yashpatil27/trading-app-sub000/pkg/domain"
	"github.com/yashpatil27/trading-app-sub000/pkg/repository"
)

type repo struct {
	db *gorm.DB
}

// New creates a ledger repository using the provided *gorm.DB session.
func New(db *gorm.DB) repository.TransactionRepository {
	return &repo{db: db}
}

// Create implements repository.TransactionRepository.
func (r *repo) Create(ctx context.Context, tx *domain.Transaction) error {
	m := mapDomainToModel(tx)
	return r.db.WithContext(ctx).Create(&m).Error
}

// LatestByUser implements repository.TransactionRepository.
func (r *repo) LatestByUser(
	ctx context.Context,
	userID uuid.UUID,
) (*domain.Transaction, error) {
	var m model.Transaction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, seq DESC").
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return mapModelToDomain(&m), nil
}

// ListByUser implements repository.TransactionRepository.
func (r *repo) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.Transaction, error) {
	var ms []model.Transaction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, seq ASC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	result := make([]*domain.Transaction, 0, len(ms))
	for i := range ms {
		result = append(result, mapModelToDomain(&ms[i]))
	}
	return result, nil
}

// LatestByUsers implements repository.TransactionRepository. One query for
// the whole batch; DISTINCT ON keeps only the newest row per user.
func (r *repo) LatestByUsers(
	ctx context.Context,
	userIDs []uuid.UUID,
) (map[uuid.UUID]*domain.Transaction, error) {
	result := make(map[uuid.UUID]*domain.Transaction, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}
	var ms []model.Transaction
	err := r.db.WithContext(ctx).
		Raw(`SELECT DISTINCT ON (user_id) * FROM transactions
		     WHERE user_id IN ?
		     ORDER BY user_id, created_at DESC, seq DESC`, userIDs).
		Scan(&ms).Error
	if err != nil {
		return nil, err
	}
	for i := range ms {
		result[ms[i].UserID] = mapModelToDomain(&ms[i])
	}
	return result, nil
}

// DeleteByUser implements repository.TransactionRepository.
func (r *repo) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.Transaction{}).Error
}

// --- Mappers ---

func mapDomainToModel(tx *domain.Transaction) model.Transaction {
	return model.Transaction{
		ID:          tx.ID,
		UserID:      tx.UserID,
		Kind:        string(tx.Kind),
		Currency:    string(tx.Currency),
		BtcAmount:   tx.BtcAmount,
		FiatAmount:  tx.FiatAmount,
		BtcUsdPrice: tx.BtcUsdPrice,
		BtcInrPrice: tx.BtcInrPrice,
		UsdInrRate:  tx.UsdInrRate,
		FiatBalance: tx.FiatBalance,
		BtcBalance:  tx.BtcBalance,
		Reason:      tx.Reason,
		CreatedAt:   tx.CreatedAt,
	}
}

func mapModelToDomain(m *model.Transaction) *domain.Transaction {
	return &domain.Transaction{
		ID:          m.ID,
		UserID:      m.UserID,
		Kind:        domain.TxKind(m.Kind),
		Currency:    domain.CurrencyKind(m.Currency),
		BtcAmount:   m.BtcAmount,
		FiatAmount:  m.FiatAmount,
		BtcUsdPrice: m.BtcUsdPrice,
		BtcInrPrice: m.BtcInrPrice,
		UsdInrRate:  m.UsdInrRate,
		FiatBalance: m.FiatBalance,
		BtcBalance:  m.BtcBalance,
		Reason:      m.Reason,
		CreatedAt:   m.CreatedAt,
	}
}
