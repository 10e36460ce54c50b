package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/nautilus-wallet/nautilus-daemon/internal/core/application/swap"
	"github.com/nautilus-wallet/nautilus-daemon/internal/core/domain"
	"github.com/nautilus-wallet/nautilus-daemon/internal/core/ports"
)

// Service polls the backend for notifications and dispatches the messages
// the wallet core reacts to. Operation updates carrying a swap settlement
// feed the swap service; message types unknown to this client version are
// skipped, never treated as errors.
type Service struct {
	backend ports.BackendService
	swapSvc *swap.Service

	pollInterval time.Duration
	lastId       int64
}

func NewService(
	backend ports.BackendService,
	swapSvc *swap.Service,
	pollInterval time.Duration,
) (*Service, error) {
	if backend == nil {
		return nil, fmt.Errorf("missing backend service")
	}
	if swapSvc == nil {
		return nil, fmt.Errorf("missing swap service")
	}
	if pollInterval <= 0 {
		pollInterval = 30 * time.Second
	}

	return &Service{
		backend:      backend,
		swapSvc:      swapSvc,
		pollInterval: pollInterval,
	}, nil
}

// Run polls until the context is cancelled.
func (s *Service) Run(ctx context.Context) {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Poll(ctx); err != nil {
				log.WithError(err).Warn("notification poll failed")
			}
		}
	}
}

// Poll fetches and processes the notifications after the last processed id.
func (s *Service) Poll(ctx context.Context) error {
	notifications, err := s.backend.FetchNotificationsAfter(ctx, s.lastId)
	if err != nil {
		return fmt.Errorf("fetching notifications: %w", err)
	}

	for _, n := range notifications {
		if err := s.process(ctx, n); err != nil {
			return err
		}
		s.lastId = n.Id
	}
	return nil
}

func (s *Service) process(ctx context.Context, n domain.Notification) error {
	if !n.IsKnown() {
		log.WithField("type", n.Type).Debug("skipping unknown notification type")
		return nil
	}

	switch n.Type {
	case domain.NotificationOperationUpdate:
		update := n.OperationUpdate
		if update == nil || !update.HasSwapSettlement() {
			return nil
		}
		if err := s.swapSvc.RegisterSettlement(
			ctx, update.SwapUuid, update.PreimageInHex, *update.PayedAt,
		); err != nil {
			if isPermanent(err) {
				// Retrying can never succeed. Drop the message instead of
				// wedging the poll loop on it forever.
				log.WithError(err).WithField("swap", update.SwapUuid).Warn(
					"dropping unregistrable swap settlement",
				)
				return nil
			}
			return fmt.Errorf(
				"registering settlement for swap %s: %w", update.SwapUuid, err,
			)
		}
		log.WithField("swap", update.SwapUuid).Info("swap settled")
	default:
		// Known but with no client behavior attached yet.
	}
	return nil
}

// isPermanent reports whether registering a settlement failed for a reason
// no retry can change: the swap is unknown locally, the preimage does not
// match the funding output, or a conflicting settlement is already recorded.
// Transient failures keep the poll position so the message is retried.
func isPermanent(err error) bool {
	return errors.Is(err, domain.ErrSwapNotFound) ||
		errors.Is(err, domain.ErrSwapInvalidPaymentHash) ||
		errors.Is(err, domain.ErrSwapAlreadySettled)
}
