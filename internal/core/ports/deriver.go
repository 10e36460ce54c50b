package ports

import (
	"github.com/nautilus-wallet/nautilus-daemon/internal/core/domain"
)

// KeyDeriver is the key derivation engine of the wallet: a pure, stateless
// capability deriving child keys from extended public keys and combining a
// (user, cosigning) key pair into a spendable address.
type KeyDeriver interface {
	// Derive returns the extended child key of the given base key at
	// (chain, index). It fails for indices outside the engine's valid
	// range, ie. the hardened range, which cannot be derived from a public
	// key.
	Derive(
		extendedKey string, chain domain.Chain, index uint32,
	) (string, error)
	// ConstructAddress combines the derived user key and the derived
	// cosigning key into an address for the given script version. It fails
	// when the keys cannot be combined into a valid output.
	ConstructAddress(
		userKey, cosigningKey string, scriptVersion int,
	) (string, error)
}
