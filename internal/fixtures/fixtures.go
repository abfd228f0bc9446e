// Package fixtures provides in-memory repository fakes for service tests.
// The fake unit of work serializes Do blocks with a single mutex, modeling
// the per-user row locking the postgres implementation relies on.
package fixtures

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/yashpatil27/trading-app-sub000/pkg/domain"
	"github.com/yashpatil27/trading-app-sub000/pkg/repository"
)

type storedTx struct {
	tx  domain.Transaction
	seq int64
}

// MemoryStore backs the fake repositories.
type MemoryStore struct {
	serial sync.Mutex // serializes Do blocks
	dataMu sync.Mutex
	seq    int64

	txs   map[uuid.UUID][]storedTx
	users map[uuid.UUID]domain.User
	rates *domain.Rates

	// LatestByUsersCalls counts bulk ledger queries, for batching
	// assertions.
	LatestByUsersCalls atomic.Int64
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		txs:   make(map[uuid.UUID][]storedTx),
		users: make(map[uuid.UUID]domain.User),
	}
}

// SeedUser inserts a user directly.
func (s *MemoryStore) SeedUser(u domain.User) {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	s.users[u.ID] = u
}

// SeedRates sets the platform rates directly.
func (s *MemoryStore) SeedRates(r domain.Rates) {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	s.rates = &r
}

// SeedTransaction appends a ledger entry directly.
func (s *MemoryStore) SeedTransaction(tx domain.Transaction) {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	s.seq++
	s.txs[tx.UserID] = append(s.txs[tx.UserID], storedTx{tx: tx, seq: s.seq})
}

// Transactions returns the stored ledger for a user, ascending.
func (s *MemoryStore) Transactions(userID uuid.UUID) []domain.Transaction {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	entries := s.sorted(userID)
	out := make([]domain.Transaction, len(entries))
	for i, e := range entries {
		out[i] = e.tx
	}
	return out
}

func (s *MemoryStore) sorted(userID uuid.UUID) []storedTx {
	entries := append([]storedTx(nil), s.txs[userID]...)
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].tx.CreatedAt.Equal(entries[j].tx.CreatedAt) {
			return entries[i].seq < entries[j].seq
		}
		return entries[i].tx.CreatedAt.Before(entries[j].tx.CreatedAt)
	})
	return entries
}

// UoW is the fake unit of work over a MemoryStore.
type UoW struct {
	store *MemoryStore
}

// NewUoW creates a fake unit of work.
func NewUoW(store *MemoryStore) *UoW {
	return &UoW{store: store}
}

// Do implements repository.UnitOfWork. Blocks are fully serialized, like
// transactions contending on the same user row lock.
func (u *UoW) Do(_ context.Context, fn func(uow repository.UnitOfWork) error) error {
	u.store.serial.Lock()
	defer u.store.serial.Unlock()
	return fn(u)
}

// GetRepository implements repository.UnitOfWork.
func (u *UoW) GetRepository(repoType reflect.Type) (any, error) {
	switch repoType {
	case reflect.TypeOf((*repository.TransactionRepository)(nil)).Elem():
		return &txRepo{store: u.store}, nil
	case reflect.TypeOf((*repository.UserRepository)(nil)).Elem():
		return &userRepo{store: u.store}, nil
	case reflect.TypeOf((*repository.RatesRepository)(nil)).Elem():
		return &ratesRepo{store: u.store}, nil
	}
	return nil, fmt.Errorf("unsupported repository type: %v", repoType)
}

type txRepo struct {
	store *MemoryStore
}

func (r *txRepo) Create(_ context.Context, tx *domain.Transaction) error {
	r.store.dataMu.Lock()
	defer r.store.dataMu.Unlock()
	r.store.seq++
	r.store.txs[tx.UserID] = append(r.store.txs[tx.UserID], storedTx{tx: *tx, seq: r.store.seq})
	return nil
}

func (r *txRepo) LatestByUser(_ context.Context, userID uuid.UUID) (*domain.Transaction, error) {
	r.store.dataMu.Lock()
	defer r.store.dataMu.Unlock()
	entries := r.store.sorted(userID)
	if len(entries) == 0 {
		return nil, nil
	}
	tx := entries[len(entries)-1].tx
	return &tx, nil
}

func (r *txRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]*domain.Transaction, error) {
	r.store.dataMu.Lock()
	defer r.store.dataMu.Unlock()
	entries := r.store.sorted(userID)
	out := make([]*domain.Transaction, 0, len(entries))
	for i := range entries {
		tx := entries[i].tx
		out = append(out, &tx)
	}
	return out, nil
}

func (r *txRepo) LatestByUsers(
	ctx context.Context,
	userIDs []uuid.UUID,
) (map[uuid.UUID]*domain.Transaction, error) {
	r.store.LatestByUsersCalls.Add(1)
	result := make(map[uuid.UUID]*domain.Transaction, len(userIDs))
	for _, id := range userIDs {
		tx, err := r.LatestByUser(ctx, id)
		if err != nil {
			return nil, err
		}
		if tx != nil {
			result[id] = tx
		}
	}
	return result, nil
}

func (r *txRepo) DeleteByUser(_ context.Context, userID uuid.UUID) error {
	r.store.dataMu.Lock()
	defer r.store.dataMu.Unlock()
	delete(r.store.txs, userID)
	return nil
}

type userRepo struct {
	store *MemoryStore
}

func (r *userRepo) Create(_ context.Context, u *domain.User) error {
	r.store.dataMu.Lock()
	defer r.store.dataMu.Unlock()
	r.store.users[u.ID] = *u
	return nil
}

func (r *userRepo) Get(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.store.dataMu.Lock()
	defer r.store.dataMu.Unlock()
	u, ok := r.store.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (r *userRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	// Serialization is provided by the UoW mutex in this fake.
	return r.Get(ctx, id)
}

func (r *userRepo) Update(_ context.Context, u *domain.User) error {
	r.store.dataMu.Lock()
	defer r.store.dataMu.Unlock()
	if _, ok := r.store.users[u.ID]; !ok {
		return domain.ErrNotFound
	}
	r.store.users[u.ID] = *u
	return nil
}

func (r *userRepo) List(_ context.Context) ([]*domain.User, error) {
	r.store.dataMu.Lock()
	defer r.store.dataMu.Unlock()
	out := make([]*domain.User, 0, len(r.store.users))
	for id := range r.store.users {
		u := r.store.users[id]
		out = append(out, &u)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *userRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.store.dataMu.Lock()
	defer r.store.dataMu.Unlock()
	delete(r.store.users, id)
	return nil
}

type ratesRepo struct {
	store *MemoryStore
}

func (r *ratesRepo) Get(_ context.Context) (*domain.Rates, error) {
	r.store.dataMu.Lock()
	defer r.store.dataMu.Unlock()
	if r.store.rates == nil {
		return nil, nil
	}
	rates := *r.store.rates
	return &rates, nil
}

func (r *ratesRepo) Put(_ context.Context, rates *domain.Rates) error {
	r.store.dataMu.Lock()
	defer r.store.dataMu.Unlock()
	cp := *rates
	r.store.rates = &cp
	return nil
}
