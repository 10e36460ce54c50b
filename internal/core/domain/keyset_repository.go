package domain

import "context"

// KeySetRepository is the interface for the storage layer of the wallet key
// set. The key set is the only mutable shared state of the wallet core, all
// mutations go through UpdateKeySet which must commit the whole record or
// nothing.
type KeySetRepository interface {
	GetOrCreateKeySet(ctx context.Context, userPublicKey string) (*WalletKeySet, error)
	GetKeySet(ctx context.Context) (*WalletKeySet, error)
	UpdateKeySet(
		ctx context.Context,
		updateFn func(k *WalletKeySet) (*WalletKeySet, error),
	) error
}
