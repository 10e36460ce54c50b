package realtime

import (
	"context"
	"fmt"
	"time"

	"github.com/lightningnetwork/lnd/clock"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/nautilus-wallet/nautilus-daemon/internal/core/domain"
	"github.com/nautilus-wallet/nautilus-daemon/internal/core/ports"
)

// FreshnessInterval is how long a fetched pair of reference windows is
// served from the store without hitting the backend.
const FreshnessInterval = 5 * time.Minute

// Service is a read-through cache of the fee rate and exchange rate
// reference windows. The backend returns both windows together, so a single
// freshness clock covers the pair: either window being stale refetches both,
// partial refreshes never happen.
type Service struct {
	repoManager ports.RepoManager
	backend     ports.BackendService
	clock       clock.Clock

	group singleflight.Group
}

func NewService(
	repoManager ports.RepoManager,
	backend ports.BackendService,
	clck clock.Clock,
) (*Service, error) {
	if repoManager == nil {
		return nil, fmt.Errorf("missing repo manager")
	}
	if backend == nil {
		return nil, fmt.Errorf("missing backend service")
	}
	if clck == nil {
		clck = clock.NewDefaultClock()
	}

	return &Service{
		repoManager: repoManager,
		backend:     backend,
		clock:       clck,
	}, nil
}

// Fetch returns the current pair of reference windows, from the store when
// both are fresh, from the backend otherwise. Concurrent refetches are
// collapsed into one backend call.
func (s *Service) Fetch(ctx context.Context) (*domain.RealTimeData, error) {
	cached, err := s.repoManager.RateRepository().GetRealTimeData(ctx)
	if err == nil && cached != nil &&
		cached.Fresh(s.clock.Now(), FreshnessInterval) {
		return cached, nil
	}

	// The refetch result is shared by every caller collapsed into the
	// group, so it must not die with whichever caller happened to start it.
	// The http client's own timeout still bounds the call.
	res, err, _ := s.group.Do("realtime", func() (interface{}, error) {
		return s.refetch(context.Background())
	})
	if err != nil {
		return nil, err
	}
	return res.(*domain.RealTimeData), nil
}

func (s *Service) refetch(ctx context.Context) (*domain.RealTimeData, error) {
	data, err := s.backend.FetchRealTimeData(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching real time data: %w", err)
	}

	now := s.clock.Now()
	data.FeeWindow.FetchedAt = now
	data.ExchangeRateWindow.FetchedAt = now

	if err := s.repoManager.RateRepository().SetRealTimeData(ctx, data); err != nil {
		return nil, fmt.Errorf("storing real time data: %w", err)
	}

	log.WithField("fee_targets", len(data.FeeWindow.FeesByConfTarget)).
		Debug("refreshed real time reference windows")
	return data, nil
}
