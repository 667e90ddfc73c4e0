// Package signer turns chain-tagged unsigned-transaction descriptors into
// final signed wire bytes. It implements the three wire formats directly:
// EIP-1559 RLP envelopes for EVM chains, legacy and BIP143 sighash for the
// Bitcoin family, and Solana message serialization.
//
// The package is stateless and performs no I/O; every call is independent and
// safe to invoke concurrently.
package signer

import (
	"context"

	"github.com/pkg/errors"

	"github/chapool/wallet-core/internal/wallet/secret"
)

type service struct{}

// NewService creates a new signer Service
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewService() (Service, error) {
	return &service{}, nil
}

// Sign dispatches on the descriptor's concrete shape. The private-key buffer
// is wiped before returning on every path.
func (s *service) Sign(ctx context.Context, req *SignRequest) (*SignResponse, error) {
	// Clear private key after use, also when signing fails
	defer secret.Wipe(req.PrivateKey)

	if req.UnsignedTx == nil {
		return nil, errors.Wrap(ErrUnsupportedTransactionType, "missing unsigned transaction")
	}

	switch tx := req.UnsignedTx.(type) {
	case *EVMTx:
		return s.signEVM(ctx, tx, req.PrivateKey)
	case *UTXOTx:
		return s.signUTXO(ctx, tx, req.PrivateKey)
	case *SolanaTx:
		return s.signSolana(ctx, tx, req.PrivateKey)
	default:
		return nil, errors.Wrapf(ErrUnsupportedTransactionType, "%T", req.UnsignedTx)
	}
}
