package backend

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nautilus-wallet/nautilus-daemon/internal/core/domain"
)

type publicKeySetRequest struct {
	BasePublicKey string `json:"basePublicKey"`
}

type externalIndicesJson struct {
	MaxUsedIndex     int  `json:"maxUsedIndex"`
	MaxWatchingIndex *int `json:"maxWatchingIndex,omitempty"`
}

type publicKeySetResponse struct {
	ExternalPublicKeyIndices *externalIndicesJson `json:"externalPublicKeyIndices,omitempty"`
	BaseCosigningPublicKey   string               `json:"baseCosigningPublicKey,omitempty"`
}

func (r publicKeySetResponse) toDomain() *domain.KeySetResponse {
	res := &domain.KeySetResponse{
		CosigningPublicKey: r.BaseCosigningPublicKey,
	}
	if r.ExternalPublicKeyIndices != nil {
		res.ExternalIndices = &domain.ExternalIndices{
			MaxUsedIndex:     r.ExternalPublicKeyIndices.MaxUsedIndex,
			MaxWatchingIndex: r.ExternalPublicKeyIndices.MaxWatchingIndex,
		}
	}
	return res
}

type feeWindowJson struct {
	Id               int64                      `json:"id"`
	FeesByConfTarget map[string]decimal.Decimal `json:"targetedFees"`
	ExpiresAt        time.Time                  `json:"expiresAt"`
}

type exchangeRateWindowJson struct {
	Id    int64                      `json:"id"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

type realTimeDataResponse struct {
	FeeWindow          feeWindowJson          `json:"feeWindow"`
	ExchangeRateWindow exchangeRateWindowJson `json:"exchangeRateWindow"`
}

func (r realTimeDataResponse) toDomain() (*domain.RealTimeData, error) {
	feesByTarget := make(map[int]decimal.Decimal, len(r.FeeWindow.FeesByConfTarget))
	for target, rate := range r.FeeWindow.FeesByConfTarget {
		t, err := strconv.Atoi(target)
		if err != nil {
			return nil, fmt.Errorf("invalid confirmation target %q", target)
		}
		feesByTarget[t] = rate
	}

	return &domain.RealTimeData{
		FeeWindow: domain.FeeWindow{
			Id:               r.FeeWindow.Id,
			FeesByConfTarget: feesByTarget,
			ExpiresAt:        r.FeeWindow.ExpiresAt,
		},
		ExchangeRateWindow: domain.ExchangeRateWindow{
			Id:              r.ExchangeRateWindow.Id,
			RatesByCurrency: r.ExchangeRateWindow.Rates,
		},
	}, nil
}

type swapQuoteRequest struct {
	Invoice                string `json:"invoice"`
	SwapExpirationInBlocks int    `json:"swapExpirationInBlocks"`
}

type swapReceiverJson struct {
	Alias            string   `json:"alias,omitempty"`
	NetworkAddresses []string `json:"networkAddresses"`
	PublicKey        string   `json:"publicKey,omitempty"`
}

type swapFundingOutputJson struct {
	ScriptVersion          int    `json:"scriptVersion"`
	OutputAddress          string `json:"outputAddress"`
	OutputAmountInSats     int64  `json:"outputAmountInSatoshis"`
	ConfirmationsNeeded    int    `json:"confirmationsNeeded"`
	ExpirationInBlocks     int    `json:"expirationInBlocks,omitempty"`
	UserLockTime           int    `json:"userLockTime,omitempty"`
	UserRefundAddress      string `json:"userRefundAddress,omitempty"`
	UserPublicKey          string `json:"userPublicKey,omitempty"`
	CosigningPublicKey     string `json:"cosigningPublicKey,omitempty"`
	ServerPaymentHashInHex string `json:"serverPaymentHashInHex"`
	ServerPublicKeyInHex   string `json:"serverPublicKeyInHex"`
	DebtType               string `json:"debtType"`
	DebtAmountInSats       int64  `json:"debtAmountInSatoshis"`
}

type swapFeesJson struct {
	LightningInSats    int64 `json:"lightningInSats"`
	SweepInSats        int64 `json:"sweepInSats"`
	ChannelOpenInSats  int64 `json:"channelOpenInSats"`
	ChannelCloseInSats int64 `json:"channelCloseInSats"`
}

type submarineSwapJson struct {
	SwapUuid           string                `json:"swapUuid"`
	Invoice            string                `json:"invoice"`
	Receiver           swapReceiverJson      `json:"receiver"`
	FundingOutput      swapFundingOutputJson `json:"fundingOutput"`
	Fees               swapFeesJson          `json:"fees"`
	ExpiresAt          time.Time             `json:"expiresAt"`
	WillPreOpenChannel bool                  `json:"willPreOpenChannel"`
	PayedAt            *time.Time            `json:"payedAt,omitempty"`
	PreimageInHex      string                `json:"preimageInHex,omitempty"`
}

func (r submarineSwapJson) toDomain() (*domain.SubmarineSwap, error) {
	swap, err := domain.NewSubmarineSwap(
		r.SwapUuid,
		r.Invoice,
		domain.SubmarineSwapReceiver{
			Alias:            r.Receiver.Alias,
			NetworkAddresses: r.Receiver.NetworkAddresses,
			PublicKey:        r.Receiver.PublicKey,
		},
		domain.SubmarineSwapFundingOutput{
			ScriptVersion:          r.FundingOutput.ScriptVersion,
			OutputAddress:          r.FundingOutput.OutputAddress,
			OutputAmount:           domain.Satoshis(r.FundingOutput.OutputAmountInSats),
			ConfirmationsNeeded:    r.FundingOutput.ConfirmationsNeeded,
			ExpirationInBlocks:     r.FundingOutput.ExpirationInBlocks,
			UserLockTime:           r.FundingOutput.UserLockTime,
			UserRefundAddress:      r.FundingOutput.UserRefundAddress,
			UserPublicKey:          r.FundingOutput.UserPublicKey,
			CosigningPublicKey:     r.FundingOutput.CosigningPublicKey,
			ServerPaymentHashInHex: r.FundingOutput.ServerPaymentHashInHex,
			ServerPublicKeyInHex:   r.FundingOutput.ServerPublicKeyInHex,
			DebtType:               domain.ParseDebtType(r.FundingOutput.DebtType),
			DebtAmount:             domain.Satoshis(r.FundingOutput.DebtAmountInSats),
		},
		domain.SubmarineSwapFees{
			Lightning:    domain.Satoshis(r.Fees.LightningInSats),
			Sweep:        domain.Satoshis(r.Fees.SweepInSats),
			ChannelOpen:  domain.Satoshis(r.Fees.ChannelOpenInSats),
			ChannelClose: domain.Satoshis(r.Fees.ChannelCloseInSats),
		},
		r.ExpiresAt,
		r.WillPreOpenChannel,
	)
	if err != nil {
		return nil, err
	}

	if r.PayedAt != nil && len(r.PreimageInHex) > 0 {
		if err := swap.Settle(r.PreimageInHex, *r.PayedAt); err != nil {
			return nil, err
		}
	}
	return swap, nil
}

type operationUpdateJson struct {
	OperationId   int64      `json:"id"`
	Confirmations int        `json:"confirmations"`
	Hash          string     `json:"hash,omitempty"`
	SwapUuid      string     `json:"swapUuid,omitempty"`
	PreimageInHex string     `json:"preimageInHex,omitempty"`
	PayedAt       *time.Time `json:"payedAt,omitempty"`
}

type notificationJson struct {
	Id                int64                `json:"id"`
	PreviousId        int64                `json:"previousId"`
	SenderSessionUuid string               `json:"senderSessionUuid"`
	MessageType       string               `json:"messageType"`
	OperationUpdate   *operationUpdateJson `json:"operationUpdate,omitempty"`
}

func (r notificationJson) toDomain() domain.Notification {
	n := domain.Notification{
		Id:                r.Id,
		PreviousId:        r.PreviousId,
		SenderSessionUuid: r.SenderSessionUuid,
		Type:              domain.NotificationType(r.MessageType),
	}
	if r.OperationUpdate != nil {
		n.OperationUpdate = &domain.OperationUpdate{
			OperationId:   r.OperationUpdate.OperationId,
			Confirmations: r.OperationUpdate.Confirmations,
			Hash:          r.OperationUpdate.Hash,
			SwapUuid:      r.OperationUpdate.SwapUuid,
			PreimageInHex: r.OperationUpdate.PreimageInHex,
			PayedAt:       r.OperationUpdate.PayedAt,
		}
	}
	return n
}
