package inmemory

import (
	"context"
	"sync"

	"github.com/nautilus-wallet/nautilus-daemon/internal/core/domain"
)

type rateRepositoryImpl struct {
	data *domain.RealTimeData
	lock *sync.Mutex
}

func NewRateRepository() domain.RateRepository {
	return &rateRepositoryImpl{lock: &sync.Mutex{}}
}

func (r *rateRepositoryImpl) GetRealTimeData(
	ctx context.Context,
) (*domain.RealTimeData, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.data == nil {
		return nil, nil
	}
	data := *r.data
	return &data, nil
}

func (r *rateRepositoryImpl) SetRealTimeData(
	ctx context.Context, data *domain.RealTimeData,
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	res := *data
	r.data = &res
	return nil
}
