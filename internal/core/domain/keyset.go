package domain

import (
	"math/rand"
)

// Chain selects the external (receiving) or internal (change) branch of the
// HD derivation tree.
type Chain int

const (
	ExternalChain Chain = 0
	InternalChain Chain = 1
)

// WalletKeySet is the data structure holding the wallet's hierarchical key
// material and the pair of watermarks bounding safe address derivation.
// UserPublicKey is the user's base extended public key, CosigningPublicKey
// the one of the co-signing server, received with the first key set sync.
//
// MaxUsedIndex is the highest external index ever handed out as a receiving
// address, -1 when none was issued yet. MaxWatchingIndex is the highest index
// the backend committed to watch for incoming funds.
type WalletKeySet struct {
	UserPublicKey      string
	CosigningPublicKey string
	MaxUsedIndex       int
	MaxWatchingIndex   int
}

// ExternalIndices is the optional index field group of a key set response.
// MaxWatchingIndex may be missing even when the group is present.
type ExternalIndices struct {
	MaxUsedIndex     int
	MaxWatchingIndex *int
}

// KeySetResponse is the backend's authoritative view of the key set, as
// returned by the public key set update endpoint. Both field groups are
// optional and must be applied all-or-nothing.
type KeySetResponse struct {
	ExternalIndices    *ExternalIndices
	CosigningPublicKey string
}

// NewWalletKeySet returns a key set for the given base public key with no
// address ever issued and nothing watched yet.
func NewWalletKeySet(userPublicKey string) (*WalletKeySet, error) {
	if len(userPublicKey) <= 0 {
		return nil, ErrKeyUnavailable
	}
	return &WalletKeySet{
		UserPublicKey:    userPublicKey,
		MaxUsedIndex:     -1,
		MaxWatchingIndex: 0,
	}, nil
}

// HasCosigningKey returns whether the server's cosigning public key was
// received with a past sync.
func (k *WalletKeySet) HasCosigningKey() bool {
	return len(k.CosigningPublicKey) > 0
}

// IsStale returns whether the watermarks are inconsistent, ie. the backend
// watches fewer indices than the wallet already handed out. A stale key set
// requires a forced re-sync before the next allocation, never a clamp.
func (k *WalletKeySet) IsStale() bool {
	return k.MaxUsedIndex >= 0 && k.MaxWatchingIndex < k.MaxUsedIndex
}

// NextExternalIndex selects the index for the next receiving address and
// returns whether it advances the used watermark.
//
// The selection walks forward while the watching watermark leaves headroom.
// Once the headroom is exhausted the wallet does not fail hard: it falls back
// to a uniformly random, previously watched index. The fallback may return an
// address that was issued before and does not advance the watermark; frequent
// use of this branch means synchronization is falling behind.
func (k *WalletKeySet) NextExternalIndex(r *rand.Rand) (int, bool) {
	if k.MaxUsedIndex < 0 {
		return 0, true
	}
	if k.MaxUsedIndex < k.MaxWatchingIndex {
		return k.MaxUsedIndex + 1, true
	}
	if k.MaxWatchingIndex <= 0 {
		// Degenerate window: nothing was ever watched beyond index 0.
		return 0, false
	}
	return r.Intn(k.MaxWatchingIndex), false
}

// MarkIndexUsed advances the used watermark to the given index.
func (k *WalletKeySet) MarkIndexUsed(index int) {
	if index > k.MaxUsedIndex {
		k.MaxUsedIndex = index
	}
}

// ApplyKeySetResponse applies a backend key set response to the local key
// set. The backend is authoritative for the ceiling it is willing to watch:
// when the index group is present MaxUsedIndex is taken unconditionally and
// MaxWatchingIndex only if provided. The cosigning key, when present,
// replaces any prior value.
//
// Application is idempotent and all-or-nothing per field group.
func (k *WalletKeySet) ApplyKeySetResponse(res KeySetResponse) {
	if res.ExternalIndices != nil {
		k.MaxUsedIndex = res.ExternalIndices.MaxUsedIndex
		if res.ExternalIndices.MaxWatchingIndex != nil {
			k.MaxWatchingIndex = *res.ExternalIndices.MaxWatchingIndex
		}
	}
	if len(res.CosigningPublicKey) > 0 {
		k.CosigningPublicKey = res.CosigningPublicKey
	}
}

// DerivedAddress is a receiving address handed out to the caller, immutable
// once produced.
type DerivedAddress struct {
	Index         int
	ScriptVersion int
	Address       string
}
