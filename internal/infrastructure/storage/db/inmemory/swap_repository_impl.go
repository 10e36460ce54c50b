package inmemory

import (
	"context"
	"fmt"
	"sync"

	"github.com/nautilus-wallet/nautilus-daemon/internal/core/domain"
)

type swapRepositoryImpl struct {
	swaps map[string]*domain.SubmarineSwap
	lock  *sync.Mutex
}

func NewSwapRepository() domain.SwapRepository {
	return &swapRepositoryImpl{
		swaps: map[string]*domain.SubmarineSwap{},
		lock:  &sync.Mutex{},
	}
}

func (r *swapRepositoryImpl) AddSwap(
	ctx context.Context, swap *domain.SubmarineSwap,
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.swaps[swap.SwapUuid]; ok {
		return fmt.Errorf("swap %s already exists", swap.SwapUuid)
	}
	res := *swap
	r.swaps[swap.SwapUuid] = &res
	return nil
}

func (r *swapRepositoryImpl) GetSwap(
	ctx context.Context, swapUuid string,
) (*domain.SubmarineSwap, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	return r.getSwap(swapUuid)
}

func (r *swapRepositoryImpl) UpdateSwap(
	ctx context.Context,
	swapUuid string,
	updateFn func(s *domain.SubmarineSwap) (*domain.SubmarineSwap, error),
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	swap, err := r.getSwap(swapUuid)
	if err != nil {
		return err
	}

	updatedSwap, err := updateFn(swap)
	if err != nil {
		return err
	}

	r.swaps[swapUuid] = updatedSwap
	return nil
}

func (r *swapRepositoryImpl) GetAllSwaps(
	ctx context.Context,
) ([]domain.SubmarineSwap, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	swaps := make([]domain.SubmarineSwap, 0, len(r.swaps))
	for _, swap := range r.swaps {
		swaps = append(swaps, *swap)
	}
	return swaps, nil
}

func (r *swapRepositoryImpl) getSwap(swapUuid string) (*domain.SubmarineSwap, error) {
	swap, ok := r.swaps[swapUuid]
	if !ok {
		return nil, domain.ErrSwapNotFound
	}
	res := *swap
	return &res, nil
}
