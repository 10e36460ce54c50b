package dbbadger

import (
	"context"

	"github.com/timshannon/badgerhold/v4"

	"github.com/nautilus-wallet/nautilus-daemon/internal/core/domain"
)

// The wallet holds exactly one key set, stored under a fixed key so that the
// watermarks and the key material always commit as one record.
const keySetKey = "keyset"

type keySetRepositoryImpl struct {
	store *badgerhold.Store
}

func newKeySetRepository(store *badgerhold.Store) domain.KeySetRepository {
	return &keySetRepositoryImpl{store}
}

func (r *keySetRepositoryImpl) GetOrCreateKeySet(
	ctx context.Context, userPublicKey string,
) (*domain.WalletKeySet, error) {
	keySet, err := r.getKeySet()
	if err != nil {
		return nil, err
	}
	if keySet != nil {
		return keySet, nil
	}

	keySet, err = domain.NewWalletKeySet(userPublicKey)
	if err != nil {
		return nil, err
	}
	if err := r.store.Insert(keySetKey, keySet); err != nil {
		if err == badgerhold.ErrKeyExists {
			return r.GetKeySet(ctx)
		}
		return nil, err
	}
	return keySet, nil
}

func (r *keySetRepositoryImpl) GetKeySet(
	ctx context.Context,
) (*domain.WalletKeySet, error) {
	keySet, err := r.getKeySet()
	if err != nil {
		return nil, err
	}
	if keySet == nil {
		return nil, domain.ErrKeySetNotFound
	}
	return keySet, nil
}

func (r *keySetRepositoryImpl) UpdateKeySet(
	ctx context.Context,
	updateFn func(k *domain.WalletKeySet) (*domain.WalletKeySet, error),
) error {
	keySet, err := r.GetKeySet(ctx)
	if err != nil {
		return err
	}

	updatedKeySet, err := updateFn(keySet)
	if err != nil {
		return err
	}

	return r.store.Update(keySetKey, updatedKeySet)
}

func (r *keySetRepositoryImpl) getKeySet() (*domain.WalletKeySet, error) {
	var keySet domain.WalletKeySet
	if err := r.store.Get(keySetKey, &keySet); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &keySet, nil
}
