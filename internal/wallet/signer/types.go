package signer

import (
	"context"
	"math/big"

	"github.com/pkg/errors"

	"github/chapool/wallet-core/internal/wallet/chains"
)

// Service provides transaction signing functionality
type Service interface {
	// Sign turns an unsigned transaction descriptor plus a raw private key
	// into broadcast-ready wire bytes. The private-key buffer is zeroed on
	// every exit path, success or failure.
	Sign(ctx context.Context, req *SignRequest) (*SignResponse, error)
}

// Format identifies the text encoding of signed wire bytes.
type Format string

const (
	// FormatHex is used for EVM and UTXO results.
	FormatHex Format = "hex"
	// FormatBase64 is used for Solana results.
	FormatBase64 Format = "base64"
)

var (
	// ErrUnsupportedTransactionType is returned when the descriptor's
	// discriminant is not one of evm/btc/bch/sol. Always fatal to the call.
	ErrUnsupportedTransactionType = errors.New("unsupported transaction type")

	// ErrMalformedInput is returned when hex/base58/base64/CashAddr decoding
	// hits an invalid character or a structurally impossible length.
	ErrMalformedInput = errors.New("malformed input")
)

// SignRequest represents a request to sign a transaction
type SignRequest struct {
	// UnsignedTx is the chain-tagged descriptor built by an external
	// transaction preparer.
	UnsignedTx UnsignedTx

	// PrivateKey is the raw 32-byte secp256k1 scalar (EVM, UTXO) or ed25519
	// seed (Solana). Single-use: wiped before Sign returns.
	PrivateKey []byte
}

// SignResponse represents signed wire bytes ready for a broadcast collaborator
type SignResponse struct {
	SignedTx string
	Format   Format
}

// UnsignedTx is the tagged union of the four descriptor shapes. Exactly one
// concrete type backs any value; the signer rejects anything else.
type UnsignedTx interface {
	txType() string
}

// EVMTx is an EIP-1559 (type-2) transaction descriptor.
type EVMTx struct {
	ChainID              uint64
	Nonce                uint64
	MaxPriorityFeePerGas *big.Int
	MaxFeePerGas         *big.Int
	GasLimit             uint64
	// To is the 20-byte recipient address, 0x-prefixed hex.
	To string
	// Value is in wei; can exceed 64 bits.
	Value *big.Int
	// Data is optional calldata.
	Data []byte
}

func (*EVMTx) txType() string { return "evm" }

// UTXOInput references a previous output spent by the transaction. All
// inputs are assumed funded by the single signing key's P2PKH output
// (single-signer wallet model).
type UTXOInput struct {
	TxID  string
	Vout  uint32
	Value uint64
}

// UTXOOutput pays Value satoshi to Address.
type UTXOOutput struct {
	Address string
	Value   uint64
}

// UTXOTx is a Bitcoin-family P2PKH transaction descriptor for BTC or BCH.
type UTXOTx struct {
	Chain   chains.Chain
	Inputs  []UTXOInput
	Outputs []UTXOOutput
}

func (t *UTXOTx) txType() string {
	if t.Chain == chains.BCH {
		return "bch"
	}
	return "btc"
}

// SolanaAccountMeta is one account referenced by an instruction.
type SolanaAccountMeta struct {
	Pubkey     string
	IsSigner   bool
	IsWritable bool
}

// SolanaInstruction is one instruction of a Solana message.
type SolanaInstruction struct {
	ProgramID string
	Keys      []SolanaAccountMeta
	Data      []byte
}

// SolanaTx is a Solana transaction descriptor with a single required
// signature (the fee payer's).
type SolanaTx struct {
	FeePayer        string
	RecentBlockhash string
	Instructions    []SolanaInstruction
}

func (*SolanaTx) txType() string { return "sol" }
