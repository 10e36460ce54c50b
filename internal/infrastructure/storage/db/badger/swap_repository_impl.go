package dbbadger

import (
	"context"
	"fmt"

	"github.com/timshannon/badgerhold/v4"

	"github.com/nautilus-wallet/nautilus-daemon/internal/core/domain"
)

type swapRepositoryImpl struct {
	store *badgerhold.Store
}

func newSwapRepository(store *badgerhold.Store) domain.SwapRepository {
	return &swapRepositoryImpl{store}
}

func (r *swapRepositoryImpl) AddSwap(
	ctx context.Context, swap *domain.SubmarineSwap,
) error {
	if err := r.store.Insert(swap.SwapUuid, swap); err != nil {
		if err == badgerhold.ErrKeyExists {
			return fmt.Errorf("swap %s already exists", swap.SwapUuid)
		}
		return err
	}
	return nil
}

func (r *swapRepositoryImpl) GetSwap(
	ctx context.Context, swapUuid string,
) (*domain.SubmarineSwap, error) {
	var swap domain.SubmarineSwap
	if err := r.store.Get(swapUuid, &swap); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrSwapNotFound
		}
		return nil, err
	}
	return &swap, nil
}

func (r *swapRepositoryImpl) UpdateSwap(
	ctx context.Context,
	swapUuid string,
	updateFn func(s *domain.SubmarineSwap) (*domain.SubmarineSwap, error),
) error {
	swap, err := r.GetSwap(ctx, swapUuid)
	if err != nil {
		return err
	}

	updatedSwap, err := updateFn(swap)
	if err != nil {
		return err
	}

	return r.store.Update(swapUuid, updatedSwap)
}

func (r *swapRepositoryImpl) GetAllSwaps(
	ctx context.Context,
) ([]domain.SubmarineSwap, error) {
	var swaps []domain.SubmarineSwap
	if err := r.store.Find(&swaps, nil); err != nil {
		return nil, err
	}
	return swaps, nil
}
