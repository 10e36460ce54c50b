package dbbadger

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	log "github.com/sirupsen/logrus"
	"github.com/timshannon/badgerhold/v4"

	"github.com/nautilus-wallet/nautilus-daemon/internal/core/domain"
	"github.com/nautilus-wallet/nautilus-daemon/internal/core/ports"
)

type repoManager struct {
	store *badgerhold.Store

	keySetRepository domain.KeySetRepository
	swapRepository   domain.SwapRepository
	rateRepository   domain.RateRepository
}

// NewRepoManager opens the badger wallet store under the given datadir, or
// in memory when the datadir is empty, and returns the manager giving access
// to all repositories.
func NewRepoManager(baseDbDir string, logger badger.Logger) (ports.RepoManager, error) {
	var dbDir string
	if len(baseDbDir) > 0 {
		dbDir = filepath.Join(baseDbDir, "wallet")
	}

	store, err := createDb(dbDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening wallet db: %w", err)
	}

	return &repoManager{
		store:            store,
		keySetRepository: newKeySetRepository(store),
		swapRepository:   newSwapRepository(store),
		rateRepository:   newRateRepository(store),
	}, nil
}

func (m *repoManager) KeySetRepository() domain.KeySetRepository {
	return m.keySetRepository
}

func (m *repoManager) SwapRepository() domain.SwapRepository {
	return m.swapRepository
}

func (m *repoManager) RateRepository() domain.RateRepository {
	return m.rateRepository
}

func (m *repoManager) Close() {
	m.store.Close()
}

func createDb(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	isInMemory := len(dbDir) <= 0

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger

	if isInMemory {
		opts.InMemory = true
	} else {
		opts.Compression = options.ZSTD
	}

	db, err := badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
	if err != nil {
		return nil, err
	}

	if !isInMemory {
		ticker := time.NewTicker(30 * time.Minute)

		go func() {
			for {
				<-ticker.C
				if err := db.Badger().RunValueLogGC(0.5); err != nil &&
					err != badger.ErrNoRewrite {
					log.Error(err)
				}
			}
		}()
	}

	return db, nil
}
