// Package user manages the account lifecycle. Creation appends the
// zero-balance ledger marker in the same transaction as the user row, and
// deletion refuses to destroy financial history while a nonzero balance
// remains.
package user

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/yashpatil27/trading-app-sub000/pkg/domain"
	"github.com/yashpatil27/trading-app-sub000/pkg/repository"
	"github.com/yashpatil27/trading-app-sub000/pkg/service/balance"
	"github.com/yashpatil27/trading-app-sub000/pkg/service/trading"
)

// Service manages users and their ledger lifecycle.
type Service struct {
	uow      repository.UnitOfWork
	balances *balance.Service
	trading  *trading.Service
	logger   *slog.Logger
}

// New creates a user service.
func New(
	uow repository.UnitOfWork,
	balances *balance.Service,
	tradingSvc *trading.Service,
	logger *slog.Logger,
) *Service {
	return &Service{uow: uow, balances: balances, trading: tradingSvc, logger: logger}
}

// Create persists a new user together with their zero-balance ledger
// marker, atomically.
func (s *Service) Create(
	ctx context.Context,
	name, email, pin string,
	isAdmin bool,
) (*domain.User, error) {
	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: name and email are required", domain.ErrValidation)
	}

	u := &domain.User{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		Pin:       pin,
		IsAdmin:   isAdmin,
		CreatedAt: time.Now().UTC(),
	}
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		users, err := repository.Get[repository.UserRepository](uow)
		if err != nil {
			return err
		}
		if err := users.Create(ctx, u); err != nil {
			return err
		}
		txRepo, err := repository.Get[repository.TransactionRepository](uow)
		if err != nil {
			return err
		}
		return txRepo.Create(ctx, trading.InitialTransaction(u.ID, u.CreatedAt))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user created", "user_id", u.ID, "email", u.Email)
	return u, nil
}

// Get returns a user by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	users, err := repository.Get[repository.UserRepository](s.uow)
	if err != nil {
		return nil, err
	}
	return users.Get(ctx, id)
}

// List returns all users.
func (s *Service) List(ctx context.Context) ([]*domain.User, error) {
	users, err := repository.Get[repository.UserRepository](s.uow)
	if err != nil {
		return nil, err
	}
	return users.List(ctx)
}

// ResetPin replaces the user's credential and appends the ADMIN audit
// marker in the same transaction.
func (s *Service) ResetPin(ctx context.Context, id uuid.UUID, newPin string) error {
	if newPin == "" {
		return fmt.Errorf("%w: pin must not be empty", domain.ErrValidation)
	}
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		users, err := repository.Get[repository.UserRepository](uow)
		if err != nil {
			return err
		}
		u, err := users.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		u.Pin = newPin
		if err := users.Update(ctx, u); err != nil {
			return err
		}

		txRepo, err := repository.Get[repository.TransactionRepository](uow)
		if err != nil {
			return err
		}
		cur := domain.Balances{}
		if latest, err := txRepo.LatestByUser(ctx, id); err != nil {
			return err
		} else if latest != nil {
			cur = domain.BalancesOf(latest)
		}
		return txRepo.Create(ctx, &domain.Transaction{
			ID:          uuid.New(),
			UserID:      id,
			Kind:        domain.TxAdmin,
			Currency:    domain.CurrencyNone,
			FiatBalance: cur.Fiat,
			BtcBalance:  cur.Btc,
			Reason:      "pin reset",
			CreatedAt:   time.Now().UTC(),
		})
	})
	if err != nil {
		return err
	}
	s.logger.Info("pin reset", "user_id", id)
	return nil
}

// Delete removes a user and all their ledger rows. The derived balance must
// be exactly zero for both currencies; deleting a ledger with value in it
// destroys financial history and is refused with ErrPreconditionFailed.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		users, err := repository.Get[repository.UserRepository](uow)
		if err != nil {
			return err
		}
		if _, err := users.GetForUpdate(ctx, id); err != nil {
			return err
		}

		txRepo, err := repository.Get[repository.TransactionRepository](uow)
		if err != nil {
			return err
		}
		latest, err := txRepo.LatestByUser(ctx, id)
		if err != nil {
			return err
		}
		if latest != nil && !domain.BalancesOf(latest).IsZero() {
			return fmt.Errorf(
				"%w: user %s has a nonzero balance", domain.ErrPreconditionFailed, id,
			)
		}

		if err := txRepo.DeleteByUser(ctx, id); err != nil {
			return err
		}
		return users.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.balances.Invalidate(ctx, id)
	s.logger.Info("user deleted", "user_id", id)
	return nil
}
