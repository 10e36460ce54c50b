package address

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"github.com/nautilus-wallet/nautilus-daemon/internal/core/domain"
	"github.com/nautilus-wallet/nautilus-daemon/internal/core/ports"
)

// DefaultScriptVersion is the script version of newly generated receiving
// addresses: a user key and a cosigning key combined into one output.
const DefaultScriptVersion = 3

var (
	syncFailureCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "nautilus_keyset_sync_failures_total",
		Help: "Number of failed public key set synchronizations.",
	})
	fallbackAllocCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "nautilus_address_fallback_allocations_total",
		Help: "Number of addresses allocated by reusing a watched index because the watch window was exhausted.",
	})
)

func init() {
	prometheus.MustRegister(syncFailureCounter, fallbackAllocCounter)
}

// Service allocates receiving addresses and keeps the local watermarks in
// sync with the gap limit state of the backend.
//
// The wallet key set is the only mutable shared state of the core, so both
// the allocation sequence (read watermark, derive, persist watermark) and the
// application of a sync response run under the same mutex and never
// interleave.
type Service struct {
	repoManager ports.RepoManager
	backend     ports.BackendService
	deriver     ports.KeyDeriver

	syncRetries    int
	syncRetryDelay time.Duration

	mtx  sync.Mutex
	rand *rand.Rand
}

func NewService(
	repoManager ports.RepoManager,
	backend ports.BackendService,
	deriver ports.KeyDeriver,
	syncRetries int, syncRetryDelay time.Duration,
) (*Service, error) {
	if repoManager == nil {
		return nil, fmt.Errorf("missing repo manager")
	}
	if backend == nil {
		return nil, fmt.Errorf("missing backend service")
	}
	if deriver == nil {
		return nil, fmt.Errorf("missing key deriver")
	}
	if syncRetries <= 0 {
		syncRetries = 3
	}

	return &Service{
		repoManager:    repoManager,
		backend:        backend,
		deriver:        deriver,
		syncRetries:    syncRetries,
		syncRetryDelay: syncRetryDelay,
		rand:           rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// GenerateExternalAddress returns the next fresh receiving address.
//
// While the backend's watch window leaves headroom the index walks forward
// and the used watermark is persisted before the address is returned, so
// that no index is ever handed out twice, even across a crash. Once the
// window is exhausted the service degrades to reusing a uniformly random,
// previously watched index without touching the watermark, and the caller
// may receive an address that was issued before.
func (s *Service) GenerateExternalAddress(
	ctx context.Context,
) (*domain.DerivedAddress, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	keySet, err := s.repoManager.KeySetRepository().GetKeySet(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrKeyUnavailable, err)
	}
	if !keySet.HasCosigningKey() {
		return nil, domain.ErrCosigningKeyUnavailable
	}

	if keySet.IsStale() {
		// The backend watches less than we handed out. Force a re-sync
		// before allocating anything from the inconsistent window.
		if err := s.syncLocked(ctx); err != nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrStaleWatermark, err)
		}
		if keySet, err = s.repoManager.KeySetRepository().GetKeySet(ctx); err != nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrKeyUnavailable, err)
		}
		if keySet.IsStale() {
			// The backend still watches less than we handed out. Allocating
			// from an inconsistent window would reuse unwatched indices.
			return nil, domain.ErrStaleWatermark
		}
	}

	nextIndex, advances := keySet.NextExternalIndex(s.rand)
	if !advances {
		fallbackAllocCounter.Inc()
		log.WithField("index", nextIndex).Warn(
			"watch window exhausted, reusing a previously watched index",
		)
	}

	addr, err := s.deriveAddress(keySet, nextIndex)
	if err != nil {
		return nil, err
	}

	if advances {
		if err := s.repoManager.KeySetRepository().UpdateKeySet(
			ctx, func(k *domain.WalletKeySet) (*domain.WalletKeySet, error) {
				k.MarkIndexUsed(nextIndex)
				return k, nil
			},
		); err != nil {
			return nil, fmt.Errorf("persisting used watermark: %w", err)
		}

		go s.syncInBackground()
	}

	return addr, nil
}

// SyncPublicKeySet reconciles the local watermarks with the backend's
// authoritative gap limit state. The operation is idempotent and applies
// the response all-or-nothing: on backend failure local state is untouched.
func (s *Service) SyncPublicKeySet(ctx context.Context) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.syncLocked(ctx)
}

func (s *Service) syncLocked(ctx context.Context) error {
	keySet, err := s.repoManager.KeySetRepository().GetKeySet(ctx)
	if err != nil {
		return fmt.Errorf("%w: %s", domain.ErrKeyUnavailable, err)
	}

	res, err := s.backend.UpdatePublicKeySet(ctx, keySet.UserPublicKey)
	if err != nil {
		return fmt.Errorf("%w: %s", domain.ErrSyncFailed, err)
	}

	return s.repoManager.KeySetRepository().UpdateKeySet(
		ctx, func(k *domain.WalletKeySet) (*domain.WalletKeySet, error) {
			k.ApplyKeySetResponse(*res)
			return k, nil
		},
	)
}

// syncInBackground refills the watch window after an allocation. It is fire
// and forget for the caller of GenerateExternalAddress but never dropped
// silently: every attempt is retried, failures are logged and counted.
func (s *Service) syncInBackground() {
	ctx := context.Background()

	var err error
	for i := 0; i < s.syncRetries; i++ {
		if err = s.SyncPublicKeySet(ctx); err == nil {
			return
		}
		syncFailureCounter.Inc()
		log.WithError(err).Warnf(
			"background key set sync failed, attempt %d of %d",
			i+1, s.syncRetries,
		)
		time.Sleep(s.syncRetryDelay * time.Duration(i+1))
	}
	log.WithError(err).Error(
		"background key set sync gave up, the watch window is not refilled",
	)
}

func (s *Service) deriveAddress(
	keySet *domain.WalletKeySet, index int,
) (*domain.DerivedAddress, error) {
	userKey, err := s.deriver.Derive(
		keySet.UserPublicKey, domain.ExternalChain, uint32(index),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrDerivationFailed, err)
	}
	cosigningKey, err := s.deriver.Derive(
		keySet.CosigningPublicKey, domain.ExternalChain, uint32(index),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrDerivationFailed, err)
	}

	addr, err := s.deriver.ConstructAddress(
		userKey, cosigningKey, DefaultScriptVersion,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrAddressConstruction, err)
	}

	return &domain.DerivedAddress{
		Index:         index,
		ScriptVersion: DefaultScriptVersion,
		Address:       addr,
	}, nil
}
