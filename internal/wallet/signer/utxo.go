package signer

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"

	"github.com/btcsuite/btcd/btcec/v2"
	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/btcutil"
	btcbase58 "github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/pkg/errors"

	"github/chapool/wallet-core/internal/wallet/cashaddr"
	"github/chapool/wallet-core/internal/wallet/chains"
)

const (
	utxoTxVersion    = uint32(2)
	utxoSequence     = uint32(0xffffffff)
	utxoLocktime     = uint32(0)
	sigHashAll       = byte(0x01)
	sigHashAllForkID = byte(0x41)
)

// signUTXO signs a P2PKH transaction for BTC (legacy sighash) or BCH
// (BIP143-style sighash with SIGHASH_FORKID).
//
// Single-signer constraint: every input is assumed to spend a P2PKH output
// belonging to the signing key. Relaxing this changes the wire format
// substantially (per-input scriptPubKeys and sighash flags), so it is kept as
// an explicit model boundary rather than generalized.
func (s *service) signUTXO(_ context.Context, tx *UTXOTx, privateKey []byte) (*SignResponse, error) {
	if tx.Chain != chains.BTC && tx.Chain != chains.BCH {
		return nil, errors.Wrapf(ErrUnsupportedTransactionType, "utxo chain %q", tx.Chain)
	}
	if len(tx.Inputs) == 0 || len(tx.Outputs) == 0 {
		return nil, errors.Wrap(ErrMalformedInput, "transaction needs at least one input and one output")
	}

	priv, pub := btcec.PrivKeyFromBytes(privateKey)
	pubCompressed := pub.SerializeCompressed()

	// The scriptPubKey all inputs are assumed to spend
	signerScript := p2pkhScript(btcutil.Hash160(pubCompressed))

	outpoints, err := serializeOutpoints(tx.Inputs)
	if err != nil {
		return nil, err
	}

	outputsRaw, err := serializeOutputs(tx.Chain, tx.Outputs)
	if err != nil {
		return nil, err
	}

	sighashType := sigHashAll
	if tx.Chain == chains.BCH {
		sighashType = sigHashAllForkID
	}

	scriptSigs := make([][]byte, len(tx.Inputs))
	for i := range tx.Inputs {
		var digest []byte
		if tx.Chain == chains.BCH {
			digest = bip143Digest(tx, i, outpoints, outputsRaw, signerScript)
		} else {
			digest = legacyDigest(tx, i, outpoints, outputsRaw, signerScript)
		}

		// digest is already the final double-SHA256; sign it directly
		sig := btcecdsa.Sign(priv, digest).Serialize()
		sig = append(sig, sighashType)

		scriptSig := pushData(sig)
		scriptSig = append(scriptSig, pushData(pubCompressed)...)
		scriptSigs[i] = scriptSig
	}

	raw := assembleTx(outpoints, scriptSigs, outputsRaw)

	return &SignResponse{
		SignedTx: hex.EncodeToString(raw),
		Format:   FormatHex,
	}, nil
}

// legacyDigest builds the pre-BIP143 signature hash for input signIdx: all
// inputs serialized with empty scriptSigs except the one being signed, which
// carries the spent scriptPubKey.
func legacyDigest(tx *UTXOTx, signIdx int, outpoints [][]byte, outputsRaw []byte, signerScript []byte) []byte {
	var buf []byte
	buf = binary.LittleEndian.AppendUint32(buf, utxoTxVersion)

	buf = appendVarint(buf, uint64(len(tx.Inputs)))
	for i := range tx.Inputs {
		buf = append(buf, outpoints[i]...)
		if i == signIdx {
			buf = appendVarint(buf, uint64(len(signerScript)))
			buf = append(buf, signerScript...)
		} else {
			buf = appendVarint(buf, 0)
		}
		buf = binary.LittleEndian.AppendUint32(buf, utxoSequence)
	}

	buf = append(buf, outputsRaw...)
	buf = binary.LittleEndian.AppendUint32(buf, utxoLocktime)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(sigHashAll))

	return doubleSHA256(buf)
}

// bip143Digest builds the BCH sighash preimage (BIP143 with SIGHASH_FORKID):
// version || hashPrevouts || hashSequence || outpoint || scriptCode ||
// value || sequence || hashOutputs || locktime || sighashType.
func bip143Digest(tx *UTXOTx, signIdx int, outpoints [][]byte, outputsRaw []byte, signerScript []byte) []byte {
	var prevouts []byte
	for _, op := range outpoints {
		prevouts = append(prevouts, op...)
	}
	hashPrevouts := doubleSHA256(prevouts)

	var sequences []byte
	for range tx.Inputs {
		sequences = binary.LittleEndian.AppendUint32(sequences, utxoSequence)
	}
	hashSequence := doubleSHA256(sequences)

	// outputsRaw starts with the output-count varint, which the BIP143
	// hashOutputs commitment does not include
	hashOutputs := doubleSHA256(outputsRaw[varintLen(uint64(len(tx.Outputs))):])

	var buf []byte
	buf = binary.LittleEndian.AppendUint32(buf, utxoTxVersion)
	buf = append(buf, hashPrevouts...)
	buf = append(buf, hashSequence...)
	buf = append(buf, outpoints[signIdx]...)
	buf = appendVarint(buf, uint64(len(signerScript)))
	buf = append(buf, signerScript...)
	buf = binary.LittleEndian.AppendUint64(buf, tx.Inputs[signIdx].Value)
	buf = binary.LittleEndian.AppendUint32(buf, utxoSequence)
	buf = append(buf, hashOutputs...)
	buf = binary.LittleEndian.AppendUint32(buf, utxoLocktime)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(sigHashAllForkID))

	return doubleSHA256(buf)
}

// assembleTx serializes the final raw transaction with filled scriptSigs.
func assembleTx(outpoints [][]byte, scriptSigs [][]byte, outputsRaw []byte) []byte {
	var buf []byte
	buf = binary.LittleEndian.AppendUint32(buf, utxoTxVersion)

	buf = appendVarint(buf, uint64(len(outpoints)))
	for i, op := range outpoints {
		buf = append(buf, op...)
		buf = appendVarint(buf, uint64(len(scriptSigs[i])))
		buf = append(buf, scriptSigs[i]...)
		buf = binary.LittleEndian.AppendUint32(buf, utxoSequence)
	}

	buf = append(buf, outputsRaw...)
	buf = binary.LittleEndian.AppendUint32(buf, utxoLocktime)
	return buf
}

// serializeOutpoints renders each input's outpoint: byte-reversed txid
// followed by the little-endian output index.
func serializeOutpoints(inputs []UTXOInput) ([][]byte, error) {
	outpoints := make([][]byte, len(inputs))
	for i, in := range inputs {
		txid, err := hex.DecodeString(in.TxID)
		if err != nil || len(txid) != 32 {
			return nil, errors.Wrapf(ErrMalformedInput, "input %d txid %q", i, in.TxID)
		}

		op := make([]byte, 32, 36)
		for j := range txid {
			op[j] = txid[31-j]
		}
		outpoints[i] = binary.LittleEndian.AppendUint32(op, in.Vout)
	}
	return outpoints, nil
}

// serializeOutputs renders the output-count varint followed by each output's
// little-endian value and length-prefixed scriptPubKey.
func serializeOutputs(chain chains.Chain, outputs []UTXOOutput) ([]byte, error) {
	buf := appendVarint(nil, uint64(len(outputs)))
	for i, out := range outputs {
		script, err := outputScript(chain, out.Address)
		if err != nil {
			return nil, errors.Wrapf(err, "output %d", i)
		}

		buf = binary.LittleEndian.AppendUint64(buf, out.Value)
		buf = appendVarint(buf, uint64(len(script)))
		buf = append(buf, script...)
	}
	return buf, nil
}

// outputScript builds the scriptPubKey paying to a destination address.
func outputScript(chain chains.Chain, address string) ([]byte, error) {
	if chain == chains.BCH {
		return bchOutputScript(address)
	}

	addr, err := btcutil.DecodeAddress(address, &chaincfg.MainNetParams)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedInput, "address %q: %v", address, err)
	}

	script, err := txscript.PayToAddrScript(addr)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedInput, "address %q: %v", address, err)
	}
	return script, nil
}

// bchOutputScript accepts CashAddr or legacy base58check destinations.
func bchOutputScript(address string) ([]byte, error) {
	if version, hash, err := cashaddr.Decode(address); err == nil {
		switch version {
		case cashaddr.TypeP2PKH:
			return p2pkhScript(hash), nil
		case cashaddr.TypeP2SH:
			return p2shScript(hash), nil
		}
		return nil, errors.Wrapf(ErrMalformedInput, "address %q: unknown cashaddr type %d", address, version)
	}

	hash, version, err := btcbase58.CheckDecode(address)
	if err != nil || len(hash) != 20 {
		return nil, errors.Wrapf(ErrMalformedInput, "address %q is neither cashaddr nor legacy", address)
	}

	switch version {
	case 0x00:
		return p2pkhScript(hash), nil
	case 0x05:
		return p2shScript(hash), nil
	}
	return nil, errors.Wrapf(ErrMalformedInput, "address %q: unknown legacy version %d", address, version)
}

// p2pkhScript is OP_DUP OP_HASH160 <20 bytes> OP_EQUALVERIFY OP_CHECKSIG.
func p2pkhScript(hash160 []byte) []byte {
	script := make([]byte, 0, 25)
	script = append(script, txscript.OP_DUP, txscript.OP_HASH160, 0x14)
	script = append(script, hash160...)
	return append(script, txscript.OP_EQUALVERIFY, txscript.OP_CHECKSIG)
}

// p2shScript is OP_HASH160 <20 bytes> OP_EQUAL.
func p2shScript(hash160 []byte) []byte {
	script := make([]byte, 0, 23)
	script = append(script, txscript.OP_HASH160, 0x14)
	script = append(script, hash160...)
	return append(script, txscript.OP_EQUAL)
}

// pushData prefixes b with a minimal direct push opcode. Signatures and
// compressed public keys always fit a single-byte push.
func pushData(b []byte) []byte {
	return append([]byte{byte(len(b))}, b...)
}

// appendVarint appends the Bitcoin variable-length integer encoding of v.
func appendVarint(buf []byte, v uint64) []byte {
	switch {
	case v < 0xfd:
		return append(buf, byte(v))
	case v <= 0xffff:
		return binary.LittleEndian.AppendUint16(append(buf, 0xfd), uint16(v))
	case v <= 0xffffffff:
		return binary.LittleEndian.AppendUint32(append(buf, 0xfe), uint32(v))
	default:
		return binary.LittleEndian.AppendUint64(append(buf, 0xff), v)
	}
}

// varintLen is the serialized size of appendVarint(v).
func varintLen(v uint64) int {
	switch {
	case v < 0xfd:
		return 1
	case v <= 0xffff:
		return 3
	case v <= 0xffffffff:
		return 5
	default:
		return 9
	}
}

// doubleSHA256 is SHA-256 applied twice, the digest function of every
// Bitcoin-family sighash.
func doubleSHA256(b []byte) []byte {
	first := sha256.Sum256(b)
	second := sha256.Sum256(first[:])
	return second[:]
}
