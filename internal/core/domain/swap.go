package domain

import (
	"encoding/hex"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/google/uuid"
)

// Satoshis is an on-chain amount in the smallest unit. All fee and debt
// arithmetic is integer, never floating point.
type Satoshis int64

func (s Satoshis) validate() error {
	if s < 0 {
		return ErrNegativeAmount
	}
	if s > btcutil.MaxSatoshi {
		return ErrAmountTooBig
	}
	return nil
}

// DebtType classifies the debt relationship of a swap's funding output.
// The set is closed on the server side but open on the client: variants
// unknown to this version are preserved as DebtTypeUnknown instead of being
// rejected, so that new server-sent variants do not crash older clients.
type DebtType string

const (
	DebtTypeNone    DebtType = "NONE"
	DebtTypeLend    DebtType = "LEND"
	DebtTypeCollect DebtType = "COLLECT"
	DebtTypeUnknown DebtType = "UNKNOWN"
)

// ParseDebtType maps a server-sent tag to a DebtType, keeping unknown tags
// as the catch-all variant.
func ParseDebtType(tag string) DebtType {
	switch DebtType(tag) {
	case DebtTypeNone, DebtTypeLend, DebtTypeCollect:
		return DebtType(tag)
	default:
		return DebtTypeUnknown
	}
}

// SubmarineSwapFees is the four-way fee breakdown of a swap quote.
type SubmarineSwapFees struct {
	Lightning    Satoshis
	Sweep        Satoshis
	ChannelOpen  Satoshis
	ChannelClose Satoshis
}

// Total returns the sum of all four fee components.
func (f SubmarineSwapFees) Total() Satoshis {
	return f.Lightning + f.Sweep + f.ChannelOpen + f.ChannelClose
}

func (f SubmarineSwapFees) validate() error {
	for _, amount := range []Satoshis{
		f.Lightning, f.Sweep, f.ChannelOpen, f.ChannelClose,
	} {
		if err := amount.validate(); err != nil {
			return err
		}
	}
	return f.Total().validate()
}

// SubmarineSwapReceiver describes the counterpart of the swap. It is used
// for user-facing disclosure only, never for trust decisions.
type SubmarineSwapReceiver struct {
	Alias            string
	NetworkAddresses []string
	PublicKey        string
}

// SubmarineSwapFundingOutput is the on-chain output the wallet must pay to
// fund a swap.
//
// The script version selects the construction: version 1 outputs are
// spendable by the counterpart fulfilling the payment or, after UserLockTime
// blocks, by the user via UserRefundAddress; version 2 and above replace the
// timelocked refund with a path co-signed by UserPublicKey and
// CosigningPublicKey.
type SubmarineSwapFundingOutput struct {
	ScriptVersion       int
	OutputAddress       string
	OutputAmount        Satoshis
	ConfirmationsNeeded int
	// ExpirationInBlocks bounds how long the output stays claimable by the
	// counterpart, 0 when the quote carries no bound. Expiry detection lives
	// in the payment flow, the model only exposes the bound faithfully.
	ExpirationInBlocks int

	// v1 only.
	UserLockTime      int
	UserRefundAddress string

	// v2+ only.
	UserPublicKey      string
	CosigningPublicKey string

	ServerPaymentHashInHex string
	ServerPublicKeyInHex   string

	DebtType   DebtType
	DebtAmount Satoshis
}

// Validate checks the per-version field groups and the payment hash.
func (o SubmarineSwapFundingOutput) Validate() error {
	if err := o.OutputAmount.validate(); err != nil {
		return err
	}
	if err := o.DebtAmount.validate(); err != nil {
		return err
	}
	if hash, err := hex.DecodeString(o.ServerPaymentHashInHex); err != nil || len(hash) != 32 {
		return ErrSwapInvalidPaymentHash
	}

	if o.ScriptVersion == 1 {
		if o.UserLockTime <= 0 || len(o.UserRefundAddress) <= 0 {
			return ErrSwapMissingRefund
		}
		return nil
	}
	if len(o.UserPublicKey) <= 0 || len(o.CosigningPublicKey) <= 0 {
		return ErrSwapMissingKeys
	}
	return nil
}

// SubmarineSwap is the data structure representing a submarine swap quote
// received from the backend. It is immutable after creation except for the
// settlement fields, which transition from absent to present exactly once.
type SubmarineSwap struct {
	SwapUuid      string
	Invoice       string
	Receiver      SubmarineSwapReceiver
	FundingOutput SubmarineSwapFundingOutput
	Fees          SubmarineSwapFees

	ExpiresAt          time.Time
	WillPreOpenChannel bool

	PayedAt       *time.Time
	PreimageInHex string
}

// NewSubmarineSwap validates a backend swap quote and returns the swap.
func NewSubmarineSwap(
	swapUuid, invoice string,
	receiver SubmarineSwapReceiver,
	fundingOutput SubmarineSwapFundingOutput,
	fees SubmarineSwapFees,
	expiresAt time.Time, willPreOpenChannel bool,
) (*SubmarineSwap, error) {
	if _, err := uuid.Parse(swapUuid); err != nil {
		return nil, ErrSwapInvalidUuid
	}
	if len(invoice) <= 0 {
		return nil, ErrSwapMissingInvoice
	}
	if err := fees.validate(); err != nil {
		return nil, err
	}
	if err := fundingOutput.Validate(); err != nil {
		return nil, err
	}

	return &SubmarineSwap{
		SwapUuid:           swapUuid,
		Invoice:            invoice,
		Receiver:           receiver,
		FundingOutput:      fundingOutput,
		Fees:               fees,
		ExpiresAt:          expiresAt,
		WillPreOpenChannel: willPreOpenChannel,
	}, nil
}

// DebtType returns the debt classification carried on the funding output.
// Callers must branch on this instead of re-deriving it from amounts.
func (s *SubmarineSwap) DebtType() DebtType {
	return s.FundingOutput.DebtType
}

// LightningFeeInSats returns the total fee the user pays for a payment
// routed through this swap.
//
// For lend swaps the counterpart advances the funds and the user's on-chain
// settlement is deferred, so only the routing fee is charged at swap time.
// For every other debt type (0-conf, 1-conf, top-ups) the user pays on-chain
// now: routing fee + on-chain fee + sweep fee. The on-chain fee is supplied
// by the caller since it depends on transaction size and current network
// conditions, not on the quote.
func (s *SubmarineSwap) LightningFeeInSats(onChainFee Satoshis) (Satoshis, error) {
	if err := onChainFee.validate(); err != nil {
		return 0, err
	}

	if s.DebtType() == DebtTypeLend {
		return s.Fees.Lightning, nil
	}
	total := s.Fees.Lightning + onChainFee + s.Fees.Sweep
	if err := total.validate(); err != nil {
		return 0, err
	}
	return total, nil
}

// IsSettled returns whether the counterpart fulfilled the payment and
// revealed the preimage.
func (s *SubmarineSwap) IsSettled() bool {
	return s.PayedAt != nil && len(s.PreimageInHex) > 0
}

// Settle records the observed settlement. The transition happens exactly
// once: repeating the same settlement is a no-op, a conflicting one is an
// error and the recorded settlement is never reverted.
func (s *SubmarineSwap) Settle(preimageInHex string, payedAt time.Time) error {
	if s.IsSettled() {
		if s.PreimageInHex == preimageInHex && s.PayedAt.Equal(payedAt) {
			return nil
		}
		return ErrSwapAlreadySettled
	}

	s.PreimageInHex = preimageInHex
	s.PayedAt = &payedAt
	return nil
}

// ExpiredAtHeight returns whether the funding output is past its claimable
// window at the given block height, counting from the height the funding
// transaction confirmed at. Outputs without a bound never expire here.
func (s *SubmarineSwap) ExpiredAtHeight(fundedAtHeight, currentHeight int) bool {
	if s.FundingOutput.ExpirationInBlocks <= 0 {
		return false
	}
	return currentHeight >= fundedAtHeight+s.FundingOutput.ExpirationInBlocks
}
