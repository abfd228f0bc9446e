// Package repository defines the persistence contracts the services depend
// on. Implementations live under infra/repository; tests substitute mocks.
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/yashpatil27/trading-app-sub000/pkg/domain"
)

// TransactionRepository is the append-only ledger store. Entries are
// immutable once created; the only delete path is cascading user deletion.
type TransactionRepository interface {
	// Create persists a fully-populated ledger entry.
	Create(ctx context.Context, tx *domain.Transaction) error

	// LatestByUser returns the user's most recent entry by creation time,
	// or (nil, nil) when the user has no ledger rows yet.
	LatestByUser(ctx context.Context, userID uuid.UUID) (*domain.Transaction, error)

	// ListByUser returns every entry for the user ordered ascending by
	// creation time, ready for replay.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Transaction, error)

	// LatestByUsers returns the most recent entry per user in one query.
	// Users with no ledger rows are absent from the result.
	LatestByUsers(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]*domain.Transaction, error)

	// DeleteByUser removes all of a user's entries. Callers must have
	// verified the derived balance is zero first.
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

// UserRepository stores the user records ledger entries hang off.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetForUpdate reads the user row under an exclusive lock, serializing
	// concurrent mutations for the same user for the duration of the
	// enclosing unit of work.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.User, error)

	Update(ctx context.Context, u *domain.User) error
	List(ctx context.Context) ([]*domain.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// RatesRepository stores the platform's singleton USD→INR rate pair.
type RatesRepository interface {
	// Get returns the current rates, or (nil, nil) when never configured.
	Get(ctx context.Context) (*domain.Rates, error)
	Put(ctx context.Context, r *domain.Rates) error
}
