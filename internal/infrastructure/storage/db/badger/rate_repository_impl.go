package dbbadger

import (
	"context"

	"github.com/timshannon/badgerhold/v4"

	"github.com/nautilus-wallet/nautilus-daemon/internal/core/domain"
)

// Both reference windows are stored as one record: the backend returns them
// together and partial refreshes are forbidden.
const realTimeDataKey = "realtimedata"

type rateRepositoryImpl struct {
	store *badgerhold.Store
}

func newRateRepository(store *badgerhold.Store) domain.RateRepository {
	return &rateRepositoryImpl{store}
}

func (r *rateRepositoryImpl) GetRealTimeData(
	ctx context.Context,
) (*domain.RealTimeData, error) {
	var data domain.RealTimeData
	if err := r.store.Get(realTimeDataKey, &data); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &data, nil
}

func (r *rateRepositoryImpl) SetRealTimeData(
	ctx context.Context, data *domain.RealTimeData,
) error {
	return r.store.Upsert(realTimeDataKey, data)
}
