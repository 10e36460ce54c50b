package notification_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/nautilus-wallet/nautilus-daemon/internal/core/application/notification"
	swapsvc "github.com/nautilus-wallet/nautilus-daemon/internal/core/application/swap"
	"github.com/nautilus-wallet/nautilus-daemon/internal/core/domain"
	"github.com/nautilus-wallet/nautilus-daemon/internal/core/ports"
	"github.com/nautilus-wallet/nautilus-daemon/internal/infrastructure/storage/db/inmemory"
)

const (
	testPreimage     = "0101010101010101010101010101010101010101010101010101010101010101"
	testPreimageHash = "72cd6e8422c407fb6d098690f1130b7ded7ec2f7f5e1d30bd9d521f015363793"
)

func TestPollRegistersSwapSettlement(t *testing.T) {
	t.Parallel()

	repoManager := inmemory.NewRepoManager()
	ctx := context.Background()

	swap := newSwap(t)
	require.NoError(t, repoManager.SwapRepository().AddSwap(ctx, swap))

	payedAt := time.Now()
	backend := &fakeBackend{
		notifications: []domain.Notification{
			{
				Id:   1,
				Type: domain.NotificationSessionAuthorized,
			},
			{
				Id:   2,
				Type: domain.NotificationOperationUpdate,
				OperationUpdate: &domain.OperationUpdate{
					OperationId:   7,
					Confirmations: 1,
					SwapUuid:      swap.SwapUuid,
					PreimageInHex: testPreimage,
					PayedAt:       &payedAt,
				},
			},
		},
	}

	svc := newService(t, repoManager, backend)
	require.NoError(t, svc.Poll(ctx))

	settled, err := repoManager.SwapRepository().GetSwap(ctx, swap.SwapUuid)
	require.NoError(t, err)
	require.True(t, settled.IsSettled())
	require.Equal(t, testPreimage, settled.PreimageInHex)

	// The second poll starts after the last processed id.
	require.NoError(t, svc.Poll(ctx))
	require.Equal(t, []int64{0, 2}, backend.afterIds())
}

func TestPollAdvancesPastUnregistrableSettlements(t *testing.T) {
	t.Parallel()

	repoManager := inmemory.NewRepoManager()
	ctx := context.Background()

	swap := newSwap(t)
	require.NoError(t, repoManager.SwapRepository().AddSwap(ctx, swap))

	payedAt := time.Now()
	backend := &fakeBackend{
		notifications: []domain.Notification{
			{
				// Settlement for a swap this wallet never requested. No
				// retry can register it, it must not block later messages.
				Id:   1,
				Type: domain.NotificationOperationUpdate,
				OperationUpdate: &domain.OperationUpdate{
					OperationId:   3,
					SwapUuid:      uuid.New().String(),
					PreimageInHex: testPreimage,
					PayedAt:       &payedAt,
				},
			},
			{
				// Preimage not hashing to the swap's payment hash.
				Id:   2,
				Type: domain.NotificationOperationUpdate,
				OperationUpdate: &domain.OperationUpdate{
					OperationId:   4,
					SwapUuid:      swap.SwapUuid,
					PreimageInHex: "0202020202020202020202020202020202020202020202020202020202020202",
					PayedAt:       &payedAt,
				},
			},
			{
				Id:   3,
				Type: domain.NotificationOperationUpdate,
				OperationUpdate: &domain.OperationUpdate{
					OperationId:   5,
					SwapUuid:      swap.SwapUuid,
					PreimageInHex: testPreimage,
					PayedAt:       &payedAt,
				},
			},
		},
	}

	svc := newService(t, repoManager, backend)
	require.NoError(t, svc.Poll(ctx))

	settled, err := repoManager.SwapRepository().GetSwap(ctx, swap.SwapUuid)
	require.NoError(t, err)
	require.True(t, settled.IsSettled())
	require.Equal(t, testPreimage, settled.PreimageInHex)

	// The dropped messages are not refetched.
	require.NoError(t, svc.Poll(ctx))
	require.Equal(t, []int64{0, 3}, backend.afterIds())
}

func TestPollSkipsUnknownNotificationTypes(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{
		notifications: []domain.Notification{
			{Id: 1, Type: domain.NotificationType("NEW_SHINY_FEATURE")},
			{Id: 2, Type: domain.NotificationNewOperation},
		},
	}

	svc := newService(t, inmemory.NewRepoManager(), backend)
	require.NoError(t, svc.Poll(context.Background()))
}

func TestPollSkipsUpdatesWithoutSettlement(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{
		notifications: []domain.Notification{
			{
				Id:   1,
				Type: domain.NotificationOperationUpdate,
				OperationUpdate: &domain.OperationUpdate{
					OperationId:   7,
					Confirmations: 3,
					Hash:          "deadbeef",
				},
			},
		},
	}

	svc := newService(t, inmemory.NewRepoManager(), backend)
	require.NoError(t, svc.Poll(context.Background()))
}

func TestPollPropagatesBackendFailure(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{err: fmt.Errorf("backend down")}
	svc := newService(t, inmemory.NewRepoManager(), backend)

	require.Error(t, svc.Poll(context.Background()))
}

func newService(
	t *testing.T, repoManager ports.RepoManager, backend ports.BackendService,
) *notification.Service {
	t.Helper()

	swapSvc, err := swapsvc.NewService(
		repoManager, backend, &chaincfg.MainNetParams,
	)
	require.NoError(t, err)

	svc, err := notification.NewService(backend, swapSvc, time.Second)
	require.NoError(t, err)
	return svc
}

func newSwap(t *testing.T) *domain.SubmarineSwap {
	t.Helper()

	swap, err := domain.NewSubmarineSwap(
		uuid.New().String(),
		"lnbc1invoice",
		domain.SubmarineSwapReceiver{Alias: "remote"},
		domain.SubmarineSwapFundingOutput{
			ScriptVersion:          3,
			OutputAddress:          "3NukFHQsxuJcsCYik2bnn6HVcirAhZhDRJ",
			OutputAmount:           25000,
			UserPublicKey:          "userkey",
			CosigningPublicKey:     "cosigningkey",
			ServerPaymentHashInHex: testPreimageHash,
			DebtType:               domain.DebtTypeNone,
		},
		domain.SubmarineSwapFees{Lightning: 100},
		time.Now().Add(time.Hour),
		false,
	)
	require.NoError(t, err)
	return swap
}

type fakeBackend struct {
	mtx           sync.Mutex
	notifications []domain.Notification
	afterCalls    []int64
	err           error
}

func (b *fakeBackend) FetchNotificationsAfter(
	ctx context.Context, lastId int64,
) ([]domain.Notification, error) {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	b.afterCalls = append(b.afterCalls, lastId)
	if b.err != nil {
		return nil, b.err
	}

	notifications := make([]domain.Notification, 0, len(b.notifications))
	for _, n := range b.notifications {
		if n.Id > lastId {
			notifications = append(notifications, n)
		}
	}
	return notifications, nil
}

func (b *fakeBackend) afterIds() []int64 {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	return append([]int64(nil), b.afterCalls...)
}

func (b *fakeBackend) UpdatePublicKeySet(
	ctx context.Context, basePublicKey string,
) (*domain.KeySetResponse, error) {
	return nil, fmt.Errorf("not implemented")
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
