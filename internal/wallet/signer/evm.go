package signer

import (
	"context"
	"encoding/hex"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// evmTxType is the EIP-2718 envelope byte of an EIP-1559 transaction.
const evmTxType = 0x02

// signEVM signs an EIP-1559 (type-2) transaction and returns the hex-encoded
// wire bytes.
//
// The unsigned payload is 0x02 || rlp([chainId, nonce, maxPriorityFeePerGas,
// maxFeePerGas, gasLimit, to, value, data, accessList]); the signed payload
// re-encodes the same fields with v, r, s appended. All integers are
// minimally encoded, which is required for hash and signature consensus
// validity.
func (s *service) signEVM(_ context.Context, tx *EVMTx, privateKey []byte) (*SignResponse, error) {
	ecdsaPrivateKey, err := crypto.ToECDSA(privateKey)
	if err != nil {
		return nil, errors.Wrap(err, "failed to convert private key to ECDSA")
	}

	to, err := decodeEVMAddress(tx.To)
	if err != nil {
		return nil, err
	}

	fields := [][]byte{
		rlpBytes(minimalUint64(tx.ChainID)),
		rlpBytes(minimalUint64(tx.Nonce)),
		rlpBytes(minimalBig(tx.MaxPriorityFeePerGas)),
		rlpBytes(minimalBig(tx.MaxFeePerGas)),
		rlpBytes(minimalUint64(tx.GasLimit)),
		rlpBytes(to),
		rlpBytes(minimalBig(tx.Value)),
		rlpBytes(tx.Data),
		rlpList(), // empty access list
	}

	unsigned := append([]byte{evmTxType}, rlpList(fields...)...)

	// keccak-256 of the typed envelope; the signing primitive must not hash
	// again
	digest := crypto.Keccak256(unsigned)

	sig, err := crypto.Sign(digest, ecdsaPrivateKey)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign transaction digest")
	}

	// sig is r(32) || s(32) || recovery bit
	r := stripLeadingZeros(sig[:32])
	sv := stripLeadingZeros(sig[32:64])

	var v []byte
	if sig[64] != 0 {
		v = []byte{sig[64]}
	}

	fields = append(fields, rlpBytes(v), rlpBytes(r), rlpBytes(sv))
	signed := append([]byte{evmTxType}, rlpList(fields...)...)

	return &SignResponse{
		SignedTx: hex.EncodeToString(signed),
		Format:   FormatHex,
	}, nil
}

// decodeEVMAddress decodes a 0x-prefixed 20-byte hex address.
func decodeEVMAddress(addr string) ([]byte, error) {
	hexPart := strings.TrimPrefix(addr, "0x")
	if len(hexPart) != 40 {
		return nil, errors.Wrapf(ErrMalformedInput, "recipient address %q is not 20 bytes", addr)
	}

	raw, err := hex.DecodeString(hexPart)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedInput, "recipient address %q: %v", addr, err)
	}
	return raw, nil
}
