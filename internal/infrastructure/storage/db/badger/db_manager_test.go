package dbbadger_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/nautilus-wallet/nautilus-daemon/internal/core/domain"
	dbbadger "github.com/nautilus-wallet/nautilus-daemon/internal/infrastructure/storage/db/badger"
)

const testUserPublicKey = "xpub661MyMwAqRbcFtXgS5sYJABqqG9YLmC4Q1Rdap9gSE8NqtwybGhePY2gZ29ESFjqJoCu1Rupje8YtGqsefD265TMg7usUDFdp6W1EGMcet8"

func TestKeySetRepository(t *testing.T) {
	repoManager, err := dbbadger.NewRepoManager("", nil)
	require.NoError(t, err)
	t.Cleanup(repoManager.Close)

	repo := repoManager.KeySetRepository()
	ctx := context.Background()

	_, err = repo.GetKeySet(ctx)
	require.ErrorIs(t, err, domain.ErrKeySetNotFound)

	keySet, err := repo.GetOrCreateKeySet(ctx, testUserPublicKey)
	require.NoError(t, err)
	require.Equal(t, testUserPublicKey, keySet.UserPublicKey)
	require.Equal(t, -1, keySet.MaxUsedIndex)

	// Creating again returns the stored record.
	again, err := repo.GetOrCreateKeySet(ctx, testUserPublicKey)
	require.NoError(t, err)
	require.Equal(t, keySet, again)

	err = repo.UpdateKeySet(
		ctx, func(k *domain.WalletKeySet) (*domain.WalletKeySet, error) {
			k.MarkIndexUsed(3)
			k.MaxWatchingIndex = 13
			return k, nil
		},
	)
	require.NoError(t, err)

	updated, err := repo.GetKeySet(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, updated.MaxUsedIndex)
	require.Equal(t, 13, updated.MaxWatchingIndex)
}

func TestKeySetUpdateRollsBackOnError(t *testing.T) {
	repoManager, err := dbbadger.NewRepoManager("", nil)
	require.NoError(t, err)
	t.Cleanup(repoManager.Close)

	repo := repoManager.KeySetRepository()
	ctx := context.Background()

	_, err = repo.GetOrCreateKeySet(ctx, testUserPublicKey)
	require.NoError(t, err)

	err = repo.UpdateKeySet(
		ctx, func(k *domain.WalletKeySet) (*domain.WalletKeySet, error) {
			k.MarkIndexUsed(9)
			return nil, domain.ErrStaleWatermark
		},
	)
	require.ErrorIs(t, err, domain.ErrStaleWatermark)

	keySet, err := repo.GetKeySet(ctx)
	require.NoError(t, err)
	require.Equal(t, -1, keySet.MaxUsedIndex)
}

func TestSwapRepository(t *testing.T) {
	repoManager, err := dbbadger.NewRepoManager("", nil)
	require.NoError(t, err)
	t.Cleanup(repoManager.Close)

	repo := repoManager.SwapRepository()
	ctx := context.Background()

	_, err = repo.GetSwap(ctx, uuid.New().String())
	require.ErrorIs(t, err, domain.ErrSwapNotFound)

	swap := newSwap(t)
	require.NoError(t, repo.AddSwap(ctx, swap))
	require.Error(t, repo.AddSwap(ctx, swap))

	stored, err := repo.GetSwap(ctx, swap.SwapUuid)
	require.NoError(t, err)
	require.Equal(t, swap.SwapUuid, stored.SwapUuid)
	require.Equal(t, swap.Fees, stored.Fees)
	require.False(t, stored.IsSettled())

	payedAt := time.Now().Truncate(time.Second)
	err = repo.UpdateSwap(
		ctx, swap.SwapUuid,
		func(s *domain.SubmarineSwap) (*domain.SubmarineSwap, error) {
			if err := s.Settle("aabbcc", payedAt); err != nil {
				return nil, err
			}
			return s, nil
		},
	)
	require.NoError(t, err)

	settled, err := repo.GetSwap(ctx, swap.SwapUuid)
	require.NoError(t, err)
	require.True(t, settled.IsSettled())

	other := newSwap(t)
	require.NoError(t, repo.AddSwap(ctx, other))

	swaps, err := repo.GetAllSwaps(ctx)
	require.NoError(t, err)
	require.Len(t, swaps, 2)
}

func TestRateRepository(t *testing.T) {
	repoManager, err := dbbadger.NewRepoManager("", nil)
	require.NoError(t, err)
	t.Cleanup(repoManager.Close)

	repo := repoManager.RateRepository()
	ctx := context.Background()

	data, err := repo.GetRealTimeData(ctx)
	require.NoError(t, err)
	require.Nil(t, data)

	now := time.Now().Truncate(time.Second)
	data = &domain.RealTimeData{
		FeeWindow: domain.FeeWindow{
			Id: 1,
			FeesByConfTarget: map[int]decimal.Decimal{
				1:  decimal.NewFromFloat(25.5),
				15: decimal.NewFromInt(10),
			},
			FetchedAt: now,
			ExpiresAt: now.Add(time.Hour),
		},
		ExchangeRateWindow: domain.ExchangeRateWindow{
			Id: 1,
			RatesByCurrency: map[string]decimal.Decimal{
				"USD": decimal.NewFromInt(64000),
			},
			FetchedAt: now,
		},
	}
	require.NoError(t, repo.SetRealTimeData(ctx, data))

	stored, err := repo.GetRealTimeData(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), stored.FeeWindow.Id)
	require.True(t, stored.FeeWindow.FastestFeeRate().Equal(decimal.NewFromFloat(25.5)))
	require.True(t, stored.ExchangeRateWindow.Rate("USD").Equal(decimal.NewFromInt(64000)))

	// Refreshing replaces both windows.
	data.FeeWindow.Id = 2
	data.ExchangeRateWindow.Id = 2
	require.NoError(t, repo.SetRealTimeData(ctx, data))

	stored, err = repo.GetRealTimeData(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), stored.FeeWindow.Id)
	require.Equal(t, int64(2), stored.ExchangeRateWindow.Id)
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
			ServerPaymentHashInHex: "0001020304050607080900010203040506070809000102030405060708090102",
			DebtType:               domain.DebtTypeNone,
		},
		domain.SubmarineSwapFees{Lightning: 100, Sweep: 50},
		time.Now().Add(time.Hour).Truncate(time.Second),
		false,
	)
	require.NoError(t, err)
	return swap
}
