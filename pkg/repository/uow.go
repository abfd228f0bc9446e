package repository

import (
	"context"
	"fmt"
	"reflect"
)

// UnitOfWork provides a transaction boundary and repository access in one
// abstraction. Every repository obtained inside Do shares the same database
// session, so a ledger append and any other write of the same operation
// commit or roll back together.
type UnitOfWork interface {
	// Do runs fn inside one atomic transaction. Returning an error rolls
	// everything back.
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	// GetRepository resolves a repository bound to the current transaction
	// session by its interface type.
	GetRepository(repoType reflect.Type) (any, error)
}

// Get resolves a typed repository from a unit of work.
func Get[T any](uow UnitOfWork) (T, error) {
	var zero T
	repoAny, err := uow.GetRepository(reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		return zero, err
	}
	repo, ok := repoAny.(T)
	if !ok {
		return zero, fmt.Errorf("repository has unexpected type %T", repoAny)
	}
	return repo, nil
}
