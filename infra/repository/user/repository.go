// Package user implements the user repository on gorm.
package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yashpatil27/trading-app-sub000/infra/repository/model"
	"github.com/yashpatil27/trading-app-sub000/pkg/domain"
	"github.com/yashpatil27/trading-app-sub000/pkg/repository"
)

type repo struct {
	db *gorm.DB
}

// New creates a user repository using the provided *gorm.DB session.
func New(db *gorm.DB) repository.UserRepository {
	return &repo{db: db}
}

// Create implements repository.UserRepository.
func (r *repo) Create(ctx context.Context, u *domain.User) error {
	m := mapDomainToModel(u)
	return r.db.WithContext(ctx).Create(&m).Error
}

// Get implements repository.UserRepository.
func (r *repo) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var m model.User
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return mapModelToDomain(&m), nil
}

// GetForUpdate implements repository.UserRepository. The exclusive row lock
// is what serializes concurrent mutations for one user: a second mutation
// blocks here until the first one's transaction commits or rolls back.
func (r *repo) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var m model.User
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return mapModelToDomain(&m), nil
}

// Update implements repository.UserRepository.
func (r *repo) Update(ctx context.Context, u *domain.User) error {
	m := mapDomainToModel(u)
	return r.db.WithContext(ctx).Save(&m).Error
}

// List implements repository.UserRepository.
func (r *repo) List(ctx context.Context) ([]*domain.User, error) {
	var ms []model.User
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&ms).Error; err != nil {
		return nil, err
	}
	result := make([]*domain.User, 0, len(ms))
	for i := range ms {
		result = append(result, mapModelToDomain(&ms[i]))
	}
	return result, nil
}

// Delete implements repository.UserRepository.
func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.User{}, "id = ?", id).Error
}

// --- Mappers ---

func mapDomainToModel(u *domain.User) model.User {
	return model.User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Pin:       u.Pin,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
	}
}

func mapModelToDomain(m *model.User) *domain.User {
	return &domain.User{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Pin:       m.Pin,
		IsAdmin:   m.IsAdmin,
		CreatedAt: m.CreatedAt,
	}
}
