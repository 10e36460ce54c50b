package deriver

import (
	"crypto/sha256"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"

	"github.com/nautilus-wallet/nautilus-daemon/internal/core/domain"
	"github.com/nautilus-wallet/nautilus-daemon/internal/core/ports"
)

type keyDeriver struct {
	chainParams *chaincfg.Params
}

// NewKeyDeriver returns the hdkeychain-backed implementation of the key
// derivation engine for the given network.
func NewKeyDeriver(chainParams *chaincfg.Params) (ports.KeyDeriver, error) {
	if chainParams == nil {
		return nil, fmt.Errorf("missing chain params")
	}
	return &keyDeriver{chainParams}, nil
}

func (d *keyDeriver) Derive(
	extendedKey string, chain domain.Chain, index uint32,
) (string, error) {
	if chain != domain.ExternalChain && chain != domain.InternalChain {
		return "", fmt.Errorf("invalid chain %d", chain)
	}
	if index >= hdkeychain.HardenedKeyStart {
		return "", fmt.Errorf(
			"index %d is in the hardened range, not derivable from a public key",
			index,
		)
	}

	key, err := hdkeychain.NewKeyFromString(extendedKey)
	if err != nil {
		return "", fmt.Errorf("parsing extended key: %w", err)
	}

	chainKey, err := key.Derive(uint32(chain))
	if err != nil {
		return "", fmt.Errorf("deriving chain branch: %w", err)
	}
	childKey, err := chainKey.Derive(index)
	if err != nil {
		return "", fmt.Errorf("deriving child %d: %w", index, err)
	}

	return childKey.String(), nil
}

func (d *keyDeriver) ConstructAddress(
	userKey, cosigningKey string, scriptVersion int,
) (string, error) {
	userPubKey, err := pubKeyOf(userKey)
	if err != nil {
		return "", err
	}

	switch scriptVersion {
	case 1:
		// Single-key output with a timelocked refund path at spend time.
		addr, err := btcutil.NewAddressPubKeyHash(
			btcutil.Hash160(userPubKey.SerializeCompressed()), d.chainParams,
		)
		if err != nil {
			return "", err
		}
		return addr.EncodeAddress(), nil
	case 2:
		cosigningPubKey, err := pubKeyOf(cosigningKey)
		if err != nil {
			return "", err
		}
		redeemScript, err := d.multisigScript(userPubKey, cosigningPubKey)
		if err != nil {
			return "", err
		}
		addr, err := btcutil.NewAddressScriptHash(redeemScript, d.chainParams)
		if err != nil {
			return "", err
		}
		return addr.EncodeAddress(), nil
	case 3:
		cosigningPubKey, err := pubKeyOf(cosigningKey)
		if err != nil {
			return "", err
		}
		redeemScript, err := d.multisigScript(userPubKey, cosigningPubKey)
		if err != nil {
			return "", err
		}
		// P2SH-wrapped P2WSH of the 2-of-2, spendable by legacy payers.
		witnessProgram := sha256.Sum256(redeemScript)
		witnessAddr, err := btcutil.NewAddressWitnessScriptHash(
			witnessProgram[:], d.chainParams,
		)
		if err != nil {
			return "", err
		}
		witnessScript, err := txscript.PayToAddrScript(witnessAddr)
		if err != nil {
			return "", err
		}
		addr, err := btcutil.NewAddressScriptHash(witnessScript, d.chainParams)
		if err != nil {
			return "", err
		}
		return addr.EncodeAddress(), nil
	default:
		return "", fmt.Errorf("unsupported script version %d", scriptVersion)
	}
}

// multisigScript builds the 2-of-2 redeem script between the user key and
// the cosigning key, in that fixed order.
func (d *keyDeriver) multisigScript(
	userPubKey, cosigningPubKey *btcec.PublicKey,
) ([]byte, error) {
	userAddr, err := btcutil.NewAddressPubKey(
		userPubKey.SerializeCompressed(), d.chainParams,
	)
	if err != nil {
		return nil, err
	}
	cosigningAddr, err := btcutil.NewAddressPubKey(
		cosigningPubKey.SerializeCompressed(), d.chainParams,
	)
	if err != nil {
		return nil, err
	}
	return txscript.MultiSigScript(
		[]*btcutil.AddressPubKey{userAddr, cosigningAddr}, 2,
	)
}

func pubKeyOf(extendedKey string) (*btcec.PublicKey, error) {
	key, err := hdkeychain.NewKeyFromString(extendedKey)
	if err != nil {
		return nil, fmt.Errorf("parsing extended key: %w", err)
	}
	pubKey, err := key.ECPubKey()
	if err != nil {
		return nil, fmt.Errorf("extracting public key: %w", err)
	}
	return pubKey, nil
}
