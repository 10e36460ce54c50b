package swap_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	swapsvc "github.com/nautilus-wallet/nautilus-daemon/internal/core/application/swap"
	"github.com/nautilus-wallet/nautilus-daemon/internal/core/domain"
	"github.com/nautilus-wallet/nautilus-daemon/internal/core/ports"
	"github.com/nautilus-wallet/nautilus-daemon/internal/infrastructure/storage/db/inmemory"
)

// A zero-amount mainnet invoice and its payment hash.
const (
	testInvoice     = "lnbc1pjkkc4qpp506g22474pc5lle9nkwd2sgp2uk8muyxa79fga5dc9xfxwst0dwjqdz9235xjueqd9ejqcfqwd5k6urvv5sxjmnkda5kxefqveex7mfq2dkx7apqf4skx6rfdejjucqzzsxqyz5vqrzjqtqd37k2ya0pv8pqeyjs4lklcexjyw600g9qqp62r4j0ph8fcmlfwqqqqqysrpfykyqqqqqqqqqqqqqq9qsp5x88g0rk9e4qnsc6hgf4mrllrhu2f94psqkun9j4007pd0ts9ktcs9qyyssqdrq33g2nze886y98p0jsrezyva2jqqe3kgxaexrz0p470d7hpxrnxy5z3x9sdk0x3s23v0g78f2vgq7lckkp0gk7as5kxaygjzec0acpm7nz5l"
	testPaymentHash = "7e90a557d50e29ffe4b3b39aa8202ae58fbe10ddf1528ed1b8299267416f6ba4"

	// A 32-byte preimage and its sha256, for settlement checks.
	testPreimage     = "0101010101010101010101010101010101010101010101010101010101010101"
	testPreimageHash = "72cd6e8422c407fb6d098690f1130b7ded7ec2f7f5e1d30bd9d521f015363793"
)

func TestRequestSwap(t *testing.T) {
	t.Parallel()

	repoManager := inmemory.NewRepoManager()
	backend := &fakeBackend{quote: newQuote(t, testPaymentHash)}

	svc, err := swapsvc.NewService(repoManager, backend, &chaincfg.MainNetParams)
	require.NoError(t, err)
	ctx := context.Background()

	swap, err := svc.RequestSwap(ctx, testInvoice, 144)
	require.NoError(t, err)
	require.NotNil(t, swap)

	stored, err := svc.GetSwap(ctx, swap.SwapUuid)
	require.NoError(t, err)
	require.Equal(t, swap.SwapUuid, stored.SwapUuid)
	require.Equal(t, domain.DebtTypeNone, stored.DebtType())
}

func TestRequestSwapRejectsForeignPaymentHash(t *testing.T) {
	t.Parallel()

	// A quote collateralizing a different payment hash would fund someone
	// else's payment.
	foreignHash := "0001020304050607080900010203040506070809000102030405060708090102"
	backend := &fakeBackend{quote: newQuote(t, foreignHash)}

	svc, err := swapsvc.NewService(
		inmemory.NewRepoManager(), backend, &chaincfg.MainNetParams,
	)
	require.NoError(t, err)

	_, err = svc.RequestSwap(context.Background(), testInvoice, 144)
	require.ErrorIs(t, err, domain.ErrSwapInvalidPaymentHash)
}

func TestRequestSwapRejectsMalformedInvoice(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{quote: newQuote(t, testPaymentHash)}
	svc, err := swapsvc.NewService(
		inmemory.NewRepoManager(), backend, &chaincfg.MainNetParams,
	)
	require.NoError(t, err)

	_, err = svc.RequestSwap(context.Background(), "not an invoice", 144)
	require.Error(t, err)
	require.Zero(t, backend.calls())
}

func TestRegisterSettlement(t *testing.T) {
	t.Parallel()

	repoManager := inmemory.NewRepoManager()
	swap := newQuote(t, testPreimageHash)
	require.NoError(t, repoManager.SwapRepository().AddSwap(context.Background(), swap))

	svc, err := swapsvc.NewService(
		repoManager, &fakeBackend{}, &chaincfg.MainNetParams,
	)
	require.NoError(t, err)
	ctx := context.Background()

	payedAt := time.Now()
	require.NoError(t, svc.RegisterSettlement(ctx, swap.SwapUuid, testPreimage, payedAt))

	settled, err := svc.GetSwap(ctx, swap.SwapUuid)
	require.NoError(t, err)
	require.True(t, settled.IsSettled())
	require.Equal(t, testPreimage, settled.PreimageInHex)

	// Registering the same settlement twice is a no-op.
	require.NoError(t, svc.RegisterSettlement(ctx, swap.SwapUuid, testPreimage, payedAt))
}

func TestRegisterSettlementRejectsWrongPreimage(t *testing.T) {
	t.Parallel()

	repoManager := inmemory.NewRepoManager()
	swap := newQuote(t, testPaymentHash)
	require.NoError(t, repoManager.SwapRepository().AddSwap(context.Background(), swap))

	svc, err := swapsvc.NewService(
		repoManager, &fakeBackend{}, &chaincfg.MainNetParams,
	)
	require.NoError(t, err)
	ctx := context.Background()

	// testPreimage does not hash to testPaymentHash.
	err = svc.RegisterSettlement(ctx, swap.SwapUuid, testPreimage, time.Now())
	require.ErrorIs(t, err, domain.ErrSwapInvalidPaymentHash)

	stored, err := svc.GetSwap(ctx, swap.SwapUuid)
	require.NoError(t, err)
	require.False(t, stored.IsSettled())
}

func newQuote(t *testing.T, paymentHash string) *domain.SubmarineSwap {
	t.Helper()

	swap, err := domain.NewSubmarineSwap(
		uuid.New().String(),
		testInvoice,
		domain.SubmarineSwapReceiver{Alias: "remote"},
		domain.SubmarineSwapFundingOutput{
			ScriptVersion:          3,
			OutputAddress:          "3NukFHQsxuJcsCYik2bnn6HVcirAhZhDRJ",
			OutputAmount:           25000,
			ConfirmationsNeeded:    1,
			ExpirationInBlocks:     144,
			UserPublicKey:          "userkey",
			CosigningPublicKey:     "cosigningkey",
			ServerPaymentHashInHex: paymentHash,
			ServerPublicKeyInHex:   "02aabb",
			DebtType:               domain.DebtTypeNone,
		},
		domain.SubmarineSwapFees{Lightning: 100, Sweep: 50},
		time.Now().Add(time.Hour),
		false,
	)
	require.NoError(t, err)
	return swap
}

type fakeBackend struct {
	quote     *domain.SubmarineSwap
	swapCalls int
	err       error
}

func (b *fakeBackend) RequestSwap(
	ctx context.Context, req ports.SwapQuoteRequest,
) (*domain.SubmarineSwap, error) {
	b.swapCalls++
	if b.err != nil {
		return nil, b.err
	}
	return b.quote, nil
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

func (b *fakeBackend) FetchNotificationsAfter(
	ctx context.Context, lastId int64,
) ([]domain.Notification, error) {
	return nil, fmt.Errorf("not implemented")
}

func (b *fakeBackend) calls() int {
	return b.swapCalls
}
