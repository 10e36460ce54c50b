package swap

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/lightningnetwork/lnd/lntypes"
	"github.com/lightningnetwork/lnd/zpay32"
	log "github.com/sirupsen/logrus"

	"github.com/nautilus-wallet/nautilus-daemon/internal/core/domain"
	"github.com/nautilus-wallet/nautilus-daemon/internal/core/ports"
)

// Service evaluates submarine swap quotes: it requests them from the
// backend, validates the funding output against the invoice being paid,
// computes the fee charged to the user and records settlements observed by
// the backend. All amount arithmetic happens in the domain model, in
// satoshis.
type Service struct {
	repoManager ports.RepoManager
	backend     ports.BackendService
	chainParams *chaincfg.Params
}

func NewService(
	repoManager ports.RepoManager,
	backend ports.BackendService,
	chainParams *chaincfg.Params,
) (*Service, error) {
	if repoManager == nil {
		return nil, fmt.Errorf("missing repo manager")
	}
	if backend == nil {
		return nil, fmt.Errorf("missing backend service")
	}
	if chainParams == nil {
		return nil, fmt.Errorf("missing chain params")
	}

	return &Service{repoManager, backend, chainParams}, nil
}

// RequestSwap asks the backend for a submarine swap quote for the given
// invoice, validates it and persists it.
//
// Besides the structural validation of the funding output, the payment hash
// collateralized by the quote must be the payment hash of the invoice: a
// backend quoting a different hash would fund someone else's payment.
func (s *Service) RequestSwap(
	ctx context.Context, invoice string, expirationInBlocks int,
) (*domain.SubmarineSwap, error) {
	decoded, err := zpay32.Decode(invoice, s.chainParams)
	if err != nil {
		return nil, fmt.Errorf("decoding invoice: %w", err)
	}

	swap, err := s.backend.RequestSwap(ctx, ports.SwapQuoteRequest{
		Invoice:                invoice,
		SwapExpirationInBlocks: expirationInBlocks,
	})
	if err != nil {
		return nil, fmt.Errorf("requesting swap quote: %w", err)
	}

	if err := swap.FundingOutput.Validate(); err != nil {
		return nil, err
	}
	if swap.FundingOutput.ServerPaymentHashInHex !=
		hex.EncodeToString(decoded.PaymentHash[:]) {
		return nil, fmt.Errorf(
			"%w: quote does not collateralize the invoice payment hash",
			domain.ErrSwapInvalidPaymentHash,
		)
	}

	if err := s.repoManager.SwapRepository().AddSwap(ctx, swap); err != nil {
		return nil, fmt.Errorf("persisting swap: %w", err)
	}

	log.WithFields(log.Fields{
		"swap":      swap.SwapUuid,
		"debt_type": swap.DebtType(),
	}).Debug("registered new submarine swap")
	return swap, nil
}

// LightningFee returns the total fee charged to the user for paying the
// swap's invoice, given the on-chain fee the funding transaction would pay
// under current network conditions.
func (s *Service) LightningFee(
	swap *domain.SubmarineSwap, onChainFee domain.Satoshis,
) (domain.Satoshis, error) {
	return swap.LightningFeeInSats(onChainFee)
}

// GetSwap returns the swap with the given uuid.
func (s *Service) GetSwap(
	ctx context.Context, swapUuid string,
) (*domain.SubmarineSwap, error) {
	return s.repoManager.SwapRepository().GetSwap(ctx, swapUuid)
}

// ListSwaps returns all known swaps.
func (s *Service) ListSwaps(ctx context.Context) ([]domain.SubmarineSwap, error) {
	return s.repoManager.SwapRepository().GetAllSwaps(ctx)
}

// RegisterSettlement records the settlement of a swap observed by the
// backend. The preimage must hash to the payment hash collateralized by the
// funding output, and the transition is monotonic: once settled a swap is
// never reverted.
func (s *Service) RegisterSettlement(
	ctx context.Context, swapUuid, preimageInHex string, payedAt time.Time,
) error {
	preimage, err := lntypes.MakePreimageFromStr(preimageInHex)
	if err != nil {
		return fmt.Errorf("decoding preimage: %w", err)
	}

	return s.repoManager.SwapRepository().UpdateSwap(
		ctx, swapUuid,
		func(swap *domain.SubmarineSwap) (*domain.SubmarineSwap, error) {
			if preimage.Hash().String() !=
				swap.FundingOutput.ServerPaymentHashInHex {
				return nil, fmt.Errorf(
					"%w: preimage does not match the swap payment hash",
					domain.ErrSwapInvalidPaymentHash,
				)
			}
			if err := swap.Settle(preimageInHex, payedAt); err != nil {
				return nil, err
			}
			return swap, nil
		},
	)
}
