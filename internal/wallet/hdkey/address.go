package hdkey

import (
	"crypto/sha256"

	"github.com/btcsuite/btcd/btcutil"
	btcbase58 "github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"

	"github/chapool/wallet-core/internal/wallet/cashaddr"
	"github/chapool/wallet-core/internal/wallet/chains"
)

const (
	// dogeP2PKHVersion is the Dogecoin mainnet base58check version byte ("D" addresses).
	dogeP2PKHVersion = 0x1E
	// xrpAccountVersion is the XRP classic-address version byte ("r" addresses).
	xrpAccountVersion = 0x00
	// adaEnterpriseHeader is the CIP-19 enterprise address header: type 6
	// (payment key hash, no stake part) on mainnet.
	adaEnterpriseHeader = 0x61
)

// rippleAlphabet is the base58 dictionary XRP uses instead of the Bitcoin one.
var rippleAlphabet = base58.NewAlphabet("rpshnaf39wBUDNEGHJKLM4PQRST7VWXYZ2bcdeCg65jkm8oFqi1tuvAxyz")

// encodeAddress renders the canonical on-chain address of a public key for
// the given base chain. Token variants are resolved to their base chain
// before this is called.
func encodeAddress(base chains.Chain, publicKey []byte) (string, error) {
	switch base {
	case chains.BTC:
		addr, err := btcutil.NewAddressPubKeyHash(btcutil.Hash160(publicKey), &chaincfg.MainNetParams)
		if err != nil {
			return "", errors.Wrap(err, "failed to build P2PKH address")
		}
		return addr.EncodeAddress(), nil

	case chains.BCH:
		return cashaddr.Encode(cashaddr.TypeP2PKH, btcutil.Hash160(publicKey))

	case chains.ETH:
		pub, err := crypto.DecompressPubkey(publicKey)
		if err != nil {
			return "", errors.Wrap(err, "failed to decompress public key")
		}
		// Hex applies the EIP-55 mixed-case checksum
		return crypto.PubkeyToAddress(*pub).Hex(), nil

	case chains.DOGE:
		return btcbase58.CheckEncode(btcutil.Hash160(publicKey), dogeP2PKHVersion), nil

	case chains.XRP:
		return encodeRippleAddress(btcutil.Hash160(publicKey)), nil

	case chains.SOL:
		return base58.Encode(publicKey), nil

	case chains.ADA:
		return encodeCardanoAddress(publicKey)
	}

	return "", errors.Wrapf(chains.ErrUnsupportedChain, "no address encoding for %q", base)
}

// encodeRippleAddress base58check-encodes an account ID with the Ripple
// alphabet: version 0x00 || hash160, checksum = first 4 bytes of double
// SHA-256.
func encodeRippleAddress(accountID []byte) string {
	payload := append([]byte{xrpAccountVersion}, accountID...)

	first := sha256.Sum256(payload)
	second := sha256.Sum256(first[:])
	payload = append(payload, second[:4]...)

	return base58.FastBase58EncodingAlphabet(payload, rippleAlphabet)
}

// encodeCardanoAddress builds a CIP-19 enterprise address: bech32("addr",
// header || blake2b-224(pubkey)). Enterprise addresses carry no stake
// credential, which matches a signing-only core.
func encodeCardanoAddress(publicKey []byte) (string, error) {
	hasher, err := blake2b.New(28, nil)
	if err != nil {
		return "", errors.Wrap(err, "failed to create blake2b hasher")
	}
	hasher.Write(publicKey)
	keyHash := hasher.Sum(nil)

	payload := append([]byte{adaEnterpriseHeader}, keyHash...)
	converted, err := bech32.ConvertBits(payload, 8, 5, true)
	if err != nil {
		return "", errors.Wrap(err, "failed to regroup address bits")
	}

	addr, err := bech32.Encode("addr", converted)
	if err != nil {
		return "", errors.Wrap(err, "failed to bech32-encode address")
	}
	return addr, nil
}
