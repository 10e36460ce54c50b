package ports

import (
	"context"

	"github.com/nautilus-wallet/nautilus-daemon/internal/core/domain"
)

// SwapQuoteRequest is the request for a submarine swap quote.
type SwapQuoteRequest struct {
	Invoice                string
	SwapExpirationInBlocks int
}

// BackendService defines the backend operations the wallet core depends on.
// The wire encoding is an implementation detail of the infrastructure layer.
type BackendService interface {
	// UpdatePublicKeySet sends the base public key and returns the backend's
	// authoritative view of the key set.
	UpdatePublicKeySet(
		ctx context.Context, basePublicKey string,
	) (*domain.KeySetResponse, error)
	// FetchRealTimeData returns the fee and exchange rate windows, always
	// together.
	FetchRealTimeData(ctx context.Context) (*domain.RealTimeData, error)
	// RequestSwap asks for a submarine swap quote for the given invoice.
	RequestSwap(
		ctx context.Context, req SwapQuoteRequest,
	) (*domain.SubmarineSwap, error)
	// FetchNotificationsAfter returns the notifications with id greater than
	// the given one, in id order.
	FetchNotificationsAfter(
		ctx context.Context, lastId int64,
	) ([]domain.Notification, error)
}
