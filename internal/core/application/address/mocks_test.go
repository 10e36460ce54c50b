package address_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/nautilus-wallet/nautilus-daemon/internal/core/domain"
	"github.com/nautilus-wallet/nautilus-daemon/internal/core/ports"
)

/*
 * KeyDeriver
 */
type fakeDeriver struct{}

func (d fakeDeriver) Derive(
	extendedKey string, chain domain.Chain, index uint32,
) (string, error) {
	return fmt.Sprintf("%s/%d/%d", extendedKey, chain, index), nil
}

func (d fakeDeriver) ConstructAddress(
	userKey, cosigningKey string, scriptVersion int,
) (string, error) {
	return fmt.Sprintf("addr(%s,%s,v%d)", userKey, cosigningKey, scriptVersion), nil
}

type failingDeriver struct {
	fakeDeriver
}

func (d failingDeriver) Derive(
	extendedKey string, chain domain.Chain, index uint32,
) (string, error) {
	return "", fmt.Errorf("index out of range")
}

/*
 * BackendService
 */
type fakeBackend struct {
	lock        sync.Mutex
	updateCalls int
	response    *domain.KeySetResponse
	err         error
}

func (b *fakeBackend) UpdatePublicKeySet(
	ctx context.Context, basePublicKey string,
) (*domain.KeySetResponse, error) {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.updateCalls++
	if b.err != nil {
		return nil, b.err
	}
	if b.response != nil {
		return b.response, nil
	}
	return &domain.KeySetResponse{}, nil
}

func (b *fakeBackend) FetchRealTimeData(
	ctx context.Context,
) (*domain.RealTimeData, error) {
	return nil, fmt.Errorf("not implemented")
}

func (b *fakeBackend) RequestSwap(
	ctx context.Context, req ports.SwapQuoteRequest,
) (*domain.SubmarineSwap, error) {
	return nil, fmt.Errorf("not implemented")
}

func (b *fakeBackend) FetchNotificationsAfter(
	ctx context.Context, lastId int64,
) ([]domain.Notification, error) {
	return nil, fmt.Errorf("not implemented")
}

func (b *fakeBackend) calls() int {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.updateCalls
}
