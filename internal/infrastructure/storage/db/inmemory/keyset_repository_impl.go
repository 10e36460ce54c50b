package inmemory

import (
	"context"
	"sync"

	"github.com/nautilus-wallet/nautilus-daemon/internal/core/domain"
)

type keySetRepositoryImpl struct {
	keySet *domain.WalletKeySet
	lock   *sync.Mutex
}

func NewKeySetRepository() domain.KeySetRepository {
	return &keySetRepositoryImpl{lock: &sync.Mutex{}}
}

func (r *keySetRepositoryImpl) GetOrCreateKeySet(
	ctx context.Context, userPublicKey string,
) (*domain.WalletKeySet, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.keySet != nil {
		keySet := *r.keySet
		return &keySet, nil
	}

	keySet, err := domain.NewWalletKeySet(userPublicKey)
	if err != nil {
		return nil, err
	}
	r.keySet = keySet

	res := *keySet
	return &res, nil
}

func (r *keySetRepositoryImpl) GetKeySet(
	ctx context.Context,
) (*domain.WalletKeySet, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.keySet == nil {
		return nil, domain.ErrKeySetNotFound
	}
	keySet := *r.keySet
	return &keySet, nil
}

func (r *keySetRepositoryImpl) UpdateKeySet(
	ctx context.Context,
	updateFn func(k *domain.WalletKeySet) (*domain.WalletKeySet, error),
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.keySet == nil {
		return domain.ErrKeySetNotFound
	}

	keySet := *r.keySet
	updatedKeySet, err := updateFn(&keySet)
	if err != nil {
		return err
	}

	r.keySet = updatedKeySet
	return nil
}
