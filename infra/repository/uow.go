// Package repository wires the gorm unit of work over the concrete
// repositories.
package repository

import (
	"context"
	"fmt"
	"reflect"

	"gorm.io/gorm"

	"github.com/yashpatil27/trading-app-sub000/infra/repository/rates"
	"github.com/yashpatil27/trading-app-sub000/infra/repository/transaction"
	"github.com/yashpatil27/trading-app-sub000/infra/repository/user"
	"github.com/yashpatil27/trading-app-sub000/pkg/repository"
)

// UoW provides transaction boundary and repository access in one
// abstraction. All repositories resolved inside Do share the transaction's
// DB session, so a ledger append can never commit without the writes that
// belong to the same operation.
type UoW struct {
	db           *gorm.DB
	tx           *gorm.DB
	repoRegistry map[reflect.Type]func(*gorm.DB) any
}

// NewUoW creates a new UoW for the given *gorm.DB.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{
		db: db,
		repoRegistry: map[reflect.Type]func(*gorm.DB) any{
			reflect.TypeOf((*repository.TransactionRepository)(nil)).Elem(): func(db *gorm.DB) any { return transaction.New(db) },
			reflect.TypeOf((*repository.UserRepository)(nil)).Elem():        func(db *gorm.DB) any { return user.New(db) },
			reflect.TypeOf((*repository.RatesRepository)(nil)).Elem():       func(db *gorm.DB) any { return rates.New(db) },
		},
	}
}

// Do runs the given function in a transaction boundary, providing a UoW
// bound to the transaction session.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txnUow := &UoW{db: u.db, tx: tx, repoRegistry: u.repoRegistry}
		return fn(txnUow)
	})
}

// GetRepository provides type-safe access to repositories using the
// transaction session when inside Do, the base session otherwise.
func (u *UoW) GetRepository(repoType reflect.Type) (any, error) {
	constructor, ok := u.repoRegistry[repoType]
	if !ok {
		return nil, fmt.Errorf("unsupported repository type: %v", repoType)
	}
	session := u.tx
	if session == nil {
		session = u.db
	}
	return constructor(session), nil
}
