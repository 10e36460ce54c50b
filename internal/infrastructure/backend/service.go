package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/ratelimit"

	"github.com/nautilus-wallet/nautilus-daemon/internal/core/domain"
	"github.com/nautilus-wallet/nautilus-daemon/internal/core/ports"
	"github.com/nautilus-wallet/nautilus-daemon/pkg/util"
)

var jsonHeader = map[string]string{"Content-Type": "application/json"}

type service struct {
	apiURL  string
	limiter ratelimit.Limiter
}

// NewService returns the HTTP implementation of the backend collaborator.
// Calls are rate limited client-side to stay within the backend's request
// budget.
func NewService(apiURL string, requestsPerSecond int) (ports.BackendService, error) {
	if len(apiURL) <= 0 {
		return nil, fmt.Errorf("missing backend api url")
	}
	if requestsPerSecond <= 0 {
		requestsPerSecond = 10
	}

	return &service{
		apiURL:  apiURL,
		limiter: ratelimit.New(requestsPerSecond),
	}, nil
}

func (s *service) UpdatePublicKeySet(
	ctx context.Context, basePublicKey string,
) (*domain.KeySetResponse, error) {
	body, err := json.Marshal(publicKeySetRequest{basePublicKey})
	if err != nil {
		return nil, err
	}

	res, err := s.post(ctx, "/keys/public-key-set", string(body))
	if err != nil {
		return nil, err
	}

	keySet := publicKeySetResponse{}
	if err := json.Unmarshal([]byte(res), &keySet); err != nil {
		return nil, fmt.Errorf("decoding key set response: %w", err)
	}
	return keySet.toDomain(), nil
}

func (s *service) FetchRealTimeData(ctx context.Context) (*domain.RealTimeData, error) {
	res, err := s.get(ctx, "/realtime")
	if err != nil {
		return nil, err
	}

	data := realTimeDataResponse{}
	if err := json.Unmarshal([]byte(res), &data); err != nil {
		return nil, fmt.Errorf("decoding real time data: %w", err)
	}
	return data.toDomain()
}

func (s *service) RequestSwap(
	ctx context.Context, req ports.SwapQuoteRequest,
) (*domain.SubmarineSwap, error) {
	body, err := json.Marshal(swapQuoteRequest{
		Invoice:                req.Invoice,
		SwapExpirationInBlocks: req.SwapExpirationInBlocks,
	})
	if err != nil {
		return nil, err
	}

	res, err := s.post(ctx, "/swaps", string(body))
	if err != nil {
		return nil, err
	}

	swap := submarineSwapJson{}
	if err := json.Unmarshal([]byte(res), &swap); err != nil {
		return nil, fmt.Errorf("decoding swap quote: %w", err)
	}
	return swap.toDomain()
}

func (s *service) FetchNotificationsAfter(
	ctx context.Context, lastId int64,
) ([]domain.Notification, error) {
	res, err := s.get(ctx, fmt.Sprintf("/notifications?after=%d", lastId))
	if err != nil {
		return nil, err
	}

	list := []notificationJson{}
	if err := json.Unmarshal([]byte(res), &list); err != nil {
		return nil, fmt.Errorf("decoding notifications: %w", err)
	}

	notifications := make([]domain.Notification, 0, len(list))
	for _, n := range list {
		notifications = append(notifications, n.toDomain())
	}
	return notifications, nil
}

func (s *service) get(ctx context.Context, path string) (string, error) {
	s.limiter.Take()

	status, res, err := util.NewHTTPRequest(
		ctx, http.MethodGet, s.apiURL+path, "", nil,
	)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("backend replied with status %d: %s", status, res)
	}
	return res, nil
}

func (s *service) post(ctx context.Context, path, body string) (string, error) {
	s.limiter.Take()

	status, res, err := util.NewHTTPRequest(
		ctx, http.MethodPost, s.apiURL+path, body, jsonHeader,
	)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("backend replied with status %d: %s", status, res)
	}
	return res, nil
}
