package inmemory

import (
	"github.com/nautilus-wallet/nautilus-daemon/internal/core/domain"
	"github.com/nautilus-wallet/nautilus-daemon/internal/core/ports"
)

type repoManager struct {
	keySetRepository domain.KeySetRepository
	swapRepository   domain.SwapRepository
	rateRepository   domain.RateRepository
}

// NewRepoManager returns a map-based manager, mainly used by unit tests.
func NewRepoManager() ports.RepoManager {
	return &repoManager{
		keySetRepository: NewKeySetRepository(),
		swapRepository:   NewSwapRepository(),
		rateRepository:   NewRateRepository(),
	}
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

func (m *repoManager) Close() {}
