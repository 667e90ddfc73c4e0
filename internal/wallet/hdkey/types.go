package hdkey

import (
	"context"

	"github/chapool/wallet-core/internal/wallet/chains"
	"github/chapool/wallet-core/internal/wallet/secret"
)

// Service provides hierarchical deterministic key derivation
type Service interface {
	// DeriveKeyForChain derives the key material for a chain at an address
	// index. Identical (mnemonic, chain, index) inputs always yield identical
	// key material.
	// WARNING: Caller must destroy the returned key after use
	DeriveKeyForChain(ctx context.Context, mnemonic string, chain chains.Chain, index uint32) (*Key, error)
}

// Key is the material derived for one chain/index. It is never persisted by
// the core; the private key is a single-use, scrub-after-use resource.
type Key struct {
	Chain          chains.Chain
	Index          uint32
	DerivationPath string
	// PublicKey is the 33-byte compressed secp256k1 point or the 32-byte
	// ed25519 public key, depending on the chain's curve family.
	PublicKey []byte
	// PrivateKey is the 32-byte secp256k1 scalar or the 32-byte ed25519 seed.
	PrivateKey []byte
	Address    string
}

// Destroy zeroes the private-key bytes. Idempotent.
func (k *Key) Destroy() {
	secret.Wipe(k.PrivateKey)
}
