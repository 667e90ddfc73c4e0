package hdkey

import (
	"crypto/ed25519"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/pkg/errors"

	"github/chapool/wallet-core/internal/wallet/chains"
)

// AddressForPrivateKey computes the on-chain address controlled by a raw
// private key: a 32-byte secp256k1 scalar or a 32-byte ed25519 seed depending
// on the chain's curve family. The key bytes are read, never retained.
func AddressForPrivateKey(chain chains.Chain, privateKey []byte) (string, error) {
	info, err := chains.Get(chain)
	if err != nil {
		return "", err
	}

	if len(privateKey) != 32 {
		return "", errors.Errorf("private key must be 32 bytes, got %d", len(privateKey))
	}

	var publicKey []byte
	switch info.Curve {
	case chains.CurveSecp256k1:
		_, pub := btcec.PrivKeyFromBytes(privateKey)
		publicKey = pub.SerializeCompressed()
	case chains.CurveEd25519:
		priv := ed25519.NewKeyFromSeed(privateKey)
		publicKey = priv.Public().(ed25519.PublicKey)
	default:
		return "", errors.Errorf("unknown curve family %q", info.Curve)
	}

	return encodeAddress(info.Base, publicKey)
}
