package domain

import "errors"

var (
	// ErrKeyUnavailable is thrown when the base or cosigning public key is
	// missing from the local store. Not retryable without re-onboarding.
	ErrKeyUnavailable = errors.New("required key material is not available")
	// ErrCosigningKeyUnavailable ...
	ErrCosigningKeyUnavailable = errors.New("cosigning public key is not available")
	// ErrDerivationFailed is thrown when the derivation engine rejects the
	// index or chain of a child key.
	ErrDerivationFailed = errors.New("child key derivation failed")
	// ErrAddressConstruction is thrown when the derived keys cannot be
	// combined into a valid output script.
	ErrAddressConstruction = errors.New("address construction failed")
	// ErrSyncFailed wraps backend or network failures while updating the
	// public key set. Local state is never mutated when this is returned.
	ErrSyncFailed = errors.New("public key set synchronization failed")
	// ErrStaleWatermark is thrown when maxWatchingIndex < maxUsedIndex is
	// detected. A forced re-sync must run before the next allocation.
	ErrStaleWatermark = errors.New("watching watermark is behind the used watermark")

	// ErrNegativeAmount ...
	ErrNegativeAmount = errors.New("amount must not be negative")
	// ErrAmountTooBig ...
	ErrAmountTooBig = errors.New("amount exceeds the maximum number of satoshis")
	// ErrSwapInvalidUuid ...
	ErrSwapInvalidUuid = errors.New("swap uuid is not a valid uuid")
	// ErrSwapMissingInvoice ...
	ErrSwapMissingInvoice = errors.New("swap invoice must not be empty")
	// ErrSwapMissingRefund is thrown for v1 funding outputs without a refund
	// path.
	ErrSwapMissingRefund = errors.New("v1 funding output requires user lock time and refund address")
	// ErrSwapMissingKeys is thrown for v2+ funding outputs without both
	// public keys of the co-signed path.
	ErrSwapMissingKeys = errors.New("v2+ funding output requires user and cosigning public keys")
	// ErrSwapInvalidPaymentHash ...
	ErrSwapInvalidPaymentHash = errors.New("funding output payment hash is not a valid 32-byte hex string")
	// ErrSwapAlreadySettled is thrown when registering a settlement that
	// conflicts with an already recorded one.
	ErrSwapAlreadySettled = errors.New("swap settlement already registered with different data")
	// ErrSwapNotFound ...
	ErrSwapNotFound = errors.New("swap not found")
	// ErrKeySetNotFound ...
	ErrKeySetNotFound = errors.New("wallet key set not found")
)
