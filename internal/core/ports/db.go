package ports

import (
	"github.com/nautilus-wallet/nautilus-daemon/internal/core/domain"
)

// RepoManager gives access to all the repositories of the wallet store.
type RepoManager interface {
	KeySetRepository() domain.KeySetRepository
	SwapRepository() domain.SwapRepository
	RateRepository() domain.RateRepository

	Close()
}
