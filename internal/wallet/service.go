// Package wallet is the facade over the cryptographic core: mnemonic
// management, hierarchical key derivation, format validation and transaction
// signing. The facade is stateless and holds no shared mutable state; every
// call is independently and concurrently invocable.
package wallet

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github/chapool/wallet-core/internal/wallet/chains"
	"github/chapool/wallet-core/internal/wallet/hdkey"
	"github/chapool/wallet-core/internal/wallet/identity"
	"github/chapool/wallet-core/internal/wallet/mnemonic"
	"github/chapool/wallet-core/internal/wallet/secret"
	"github/chapool/wallet-core/internal/wallet/signer"
)

// Service provides the wallet cryptographic core
type Service interface {
	// GenerateMnemonic creates a random BIP39 mnemonic of 12 or 24 words
	GenerateMnemonic(wordCount int) (string, error)

	// ValidateMnemonic checks word count and BIP39 checksum
	ValidateMnemonic(phrase string) bool

	// DeriveKey derives the key material for a chain at an address index
	// WARNING: Caller must destroy the returned key after use
	DeriveKey(ctx context.Context, phrase string, chain chains.Chain, index uint32) (*hdkey.Key, error)

	// SignTransaction produces signed wire bytes from an unsigned descriptor
	// and a raw private key. The key buffer is zeroed on every exit path. If
	// expectedFrom is non-empty, the address derived from the private key
	// must match it or the call fails (with the key still zeroed).
	SignTransaction(ctx context.Context, req *signer.SignRequest, expectedFrom string) (*signer.SignResponse, error)

	// ValidateAddress checks an address against a chain's canonical format
	ValidateAddress(addr string, chain chains.Chain) bool

	// ValidateDerivationPath checks a path against a chain's template
	ValidateDerivationPath(path string, chain chains.Chain) bool
}

type service struct {
	mnemonics mnemonic.Manager
	keys      hdkey.Service
	signers   signer.Service
	log       zerolog.Logger
}

// NewService creates a new wallet core Service
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewService() (Service, error) {
	mnemonics := mnemonic.NewManager()

	keys, err := hdkey.NewService(mnemonics)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create hdkey service")
	}

	signers, err := signer.NewService()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create signer service")
	}

	return &service{
		mnemonics: mnemonics,
		keys:      keys,
		signers:   signers,
		log:       log.With().Str("component", "wallet_core").Logger(),
	}, nil
}

// GenerateMnemonic creates a random BIP39 mnemonic of 12 or 24 words
func (s *service) GenerateMnemonic(wordCount int) (string, error) {
	if wordCount == 0 {
		wordCount = mnemonic.DefaultWordCount
	}
	return s.mnemonics.Generate(wordCount)
}

// ValidateMnemonic checks word count and BIP39 checksum
func (s *service) ValidateMnemonic(phrase string) bool {
	return s.mnemonics.IsValid(phrase)
}

// DeriveKey derives the key material for a chain at an address index
func (s *service) DeriveKey(ctx context.Context, phrase string, chain chains.Chain, index uint32) (*hdkey.Key, error) {
	key, err := s.keys.DeriveKeyForChain(ctx, phrase, chain, index)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive key")
	}

	s.log.Debug().
		Str("chain", string(chain)).
		Uint32("index", index).
		Str("path", key.DerivationPath).
		Msg("Derived key")

	return key, nil
}

// ValidateAddress checks an address against a chain's canonical format
func (s *service) ValidateAddress(addr string, chain chains.Chain) bool {
	return identity.ValidAddress(addr, chain)
}

// ValidateDerivationPath checks a path against a chain's template
func (s *service) ValidateDerivationPath(path string, chain chains.Chain) bool {
	return identity.ValidDerivationPath(path, chain)
}

// SignTransaction produces signed wire bytes from an unsigned descriptor
func (s *service) SignTransaction(ctx context.Context, req *signer.SignRequest, expectedFrom string) (*signer.SignResponse, error) {
	if expectedFrom != "" {
		if err := s.verifyFromAddress(req, expectedFrom); err != nil {
			// The scrub contract holds on the refusal path too
			secret.Wipe(req.PrivateKey)
			return nil, err
		}
	}

	res, err := s.signers.Sign(ctx, req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign transaction")
	}

	s.log.Debug().
		Str("format", string(res.Format)).
		Msg("Signed transaction")

	return res, nil
}

// verifyFromAddress re-derives the address of the supplied private key and
// compares it with the caller's expectation before any signing happens.
func (s *service) verifyFromAddress(req *signer.SignRequest, expectedFrom string) error {
	chain, err := signingChain(req.UnsignedTx)
	if err != nil {
		return err
	}

	derived, err := hdkey.AddressForPrivateKey(chain, req.PrivateKey)
	if err != nil {
		return errors.Wrap(err, "failed to derive address from private key")
	}

	if derived != expectedFrom {
		return errors.New("from address does not match private key")
	}
	return nil
}

// signingChain maps a descriptor shape to the chain whose address encoding
// applies to the signing key.
func signingChain(tx signer.UnsignedTx) (chains.Chain, error) {
	switch t := tx.(type) {
	case *signer.EVMTx:
		return chains.ETH, nil
	case *signer.UTXOTx:
		return t.Chain, nil
	case *signer.SolanaTx:
		return chains.SOL, nil
	default:
		return "", errors.Wrapf(signer.ErrUnsupportedTransactionType, "%T", tx)
	}
}
