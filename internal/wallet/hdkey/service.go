// Package hdkey implements BIP44-style hierarchical key derivation for every
// supported chain. secp256k1 chains walk a BIP32 tree; ed25519 chains use
// SLIP-10 hardened-only derivation.
package hdkey

import (
	"context"
	"crypto/ed25519"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip32"

	"github/chapool/wallet-core/internal/wallet/chains"
	"github/chapool/wallet-core/internal/wallet/mnemonic"
	"github/chapool/wallet-core/internal/wallet/secret"
)

const hardenedOffset = uint32(0x80000000)

type service struct {
	mnemonics mnemonic.Manager
}

// NewService creates a new hdkey Service
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewService(mnemonics mnemonic.Manager) (Service, error) {
	return &service{
		mnemonics: mnemonics,
	}, nil
}

// DeriveKeyForChain derives the key material for a chain at an address index
func (s *service) DeriveKeyForChain(_ context.Context, phrase string, chain chains.Chain, index uint32) (*Key, error) {
	info, err := chains.Get(chain)
	if err != nil {
		return nil, err
	}

	path, err := chains.PathFor(chain, index)
	if err != nil {
		return nil, err
	}

	seed, err := s.mnemonics.ToSeed(phrase, "")
	if err != nil {
		return nil, err
	}

	// Clear seed after use
	defer secret.Wipe(seed)

	indices, err := parsePath(path)
	if err != nil {
		return nil, err
	}

	key := &Key{
		Chain:          chain,
		Index:          index,
		DerivationPath: path,
	}

	switch info.Curve {
	case chains.CurveSecp256k1:
		priv, pub, err := deriveSecp256k1(seed, indices)
		if err != nil {
			return nil, err
		}
		key.PrivateKey = priv
		key.PublicKey = pub
	case chains.CurveEd25519:
		node, err := deriveSLIP10(seed, indices)
		if err != nil {
			return nil, err
		}
		key.PrivateKey = node
		edPriv := ed25519.NewKeyFromSeed(node)
		key.PublicKey = append([]byte(nil), edPriv.Public().(ed25519.PublicKey)...)
	default:
		return nil, errors.Errorf("unknown curve family %q", info.Curve)
	}

	address, err := encodeAddress(info.Base, key.PublicKey)
	if err != nil {
		key.Destroy()
		return nil, errors.Wrap(err, "failed to encode address")
	}
	key.Address = address

	return key, nil
}

// deriveSecp256k1 walks the BIP32 tree and returns the 32-byte private key
// and 33-byte compressed public key of the leaf.
func deriveSecp256k1(seed []byte, indices []uint32) ([]byte, []byte, error) {
	masterKey, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to create master key")
	}

	key := masterKey
	for _, index := range indices {
		key, err = key.NewChildKey(index)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "failed to derive child key at index %d", index)
		}
	}

	priv := append([]byte(nil), key.Key...)
	pub := append([]byte(nil), key.PublicKey().Key...)
	return priv, pub, nil
}

// parsePath parses a BIP44 path string into child indices
// Example: "m/44'/60'/0'/0/0" -> [2147483692, 2147483708, 2147483648, 0, 0]
func parsePath(path string) ([]uint32, error) {
	if !strings.HasPrefix(path, "m/") {
		return nil, errors.Errorf("invalid derivation path: %s", path)
	}

	parts := strings.Split(path[2:], "/")
	indices := make([]uint32, 0, len(parts))

	for _, part := range parts {
		hardened := strings.HasSuffix(part, "'")
		part = strings.TrimSuffix(part, "'")

		index, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid path segment: %s", part)
		}
		if index >= uint64(hardenedOffset) {
			return nil, errors.Errorf("path segment out of range: %s", part)
		}

		child := uint32(index)
		if hardened {
			child += hardenedOffset
		}
		indices = append(indices, child)
	}

	return indices, nil
}
