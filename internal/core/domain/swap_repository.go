package domain

import "context"

// SwapRepository is the interface for the storage layer of submarine swaps.
type SwapRepository interface {
	AddSwap(ctx context.Context, swap *SubmarineSwap) error
	GetSwap(ctx context.Context, swapUuid string) (*SubmarineSwap, error)
	UpdateSwap(
		ctx context.Context,
		swapUuid string,
		updateFn func(s *SubmarineSwap) (*SubmarineSwap, error),
	) error
	GetAllSwaps(ctx context.Context) ([]SubmarineSwap, error)
}
