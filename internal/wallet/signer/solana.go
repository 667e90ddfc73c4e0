package signer

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"sort"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

// solanaAccount is one entry of the message account table with merged flags.
type solanaAccount struct {
	pubkey     []byte
	isSigner   bool
	isWritable bool
}

// score orders accounts after the fee payer: signer+writable, signer,
// writable, readonly.
func (a solanaAccount) score() int {
	score := 0
	if a.isSigner {
		score += 2
	}
	if a.isWritable {
		score++
	}
	return score
}

// signSolana serializes and signs a Solana message. The private key is the
// 32-byte ed25519 seed; the single required signature is the fee payer's.
//
// Wire format: numSignatures(1) || signature(64) || message, base64-encoded.
func (s *service) signSolana(_ context.Context, tx *SolanaTx, privateKey []byte) (*SignResponse, error) {
	if len(privateKey) != ed25519.SeedSize {
		return nil, errors.Wrapf(ErrMalformedInput, "ed25519 seed must be %d bytes, got %d", ed25519.SeedSize, len(privateKey))
	}

	edPriv := ed25519.NewKeyFromSeed(privateKey)

	feePayer, err := decodeSolanaKey(tx.FeePayer)
	if err != nil {
		return nil, errors.Wrap(err, "fee payer")
	}

	// The fee payer must be the key we sign with, otherwise the single
	// signature can never verify on-chain
	if !bytes.Equal(feePayer, edPriv.Public().(ed25519.PublicKey)) {
		return nil, errors.New("fee payer does not match private key")
	}

	blockhash, err := decodeSolanaKey(tx.RecentBlockhash)
	if err != nil {
		return nil, errors.Wrap(err, "recent blockhash")
	}

	accounts, indexOf, err := collectAccounts(tx, feePayer)
	if err != nil {
		return nil, err
	}

	message, err := serializeMessage(tx, accounts, indexOf, blockhash)
	if err != nil {
		return nil, err
	}

	signature := ed25519.Sign(edPriv, message)

	wire := make([]byte, 0, 1+len(signature)+len(message))
	wire = append(wire, 1) // one required signature
	wire = append(wire, signature...)
	wire = append(wire, message...)

	return &SignResponse{
		SignedTx: base64.StdEncoding.EncodeToString(wire),
		Format:   FormatBase64,
	}, nil
}

// collectAccounts builds the ordered account table: the union of the fee
// payer, every instruction key and every program id, with signer/writable
// flags merged per account. The fee payer is always first; the rest sort by
// descending privilege score (stable, so equal scores keep reference order).
func collectAccounts(tx *SolanaTx, feePayer []byte) ([]solanaAccount, map[string]byte, error) {
	ordered := []solanaAccount{{pubkey: feePayer, isSigner: true, isWritable: true}}
	position := map[string]int{tx.FeePayer: 0}

	merge := func(key string, isSigner, isWritable bool) error {
		if idx, ok := position[key]; ok {
			// writable or signer anywhere makes the account writable/signer
			ordered[idx].isSigner = ordered[idx].isSigner || isSigner
			ordered[idx].isWritable = ordered[idx].isWritable || isWritable
			return nil
		}

		raw, err := decodeSolanaKey(key)
		if err != nil {
			return err
		}
		position[key] = len(ordered)
		ordered = append(ordered, solanaAccount{pubkey: raw, isSigner: isSigner, isWritable: isWritable})
		return nil
	}

	for _, ins := range tx.Instructions {
		for _, meta := range ins.Keys {
			if err := merge(meta.Pubkey, meta.IsSigner, meta.IsWritable); err != nil {
				return nil, nil, errors.Wrap(err, "instruction account")
			}
		}
		if err := merge(ins.ProgramID, false, false); err != nil {
			return nil, nil, errors.Wrap(err, "program id")
		}
	}

	rest := ordered[1:]
	sort.SliceStable(rest, func(i, j int) bool {
		return rest[i].score() > rest[j].score()
	})

	indexOf := make(map[string]byte, len(ordered))
	for i, acc := range ordered {
		indexOf[base58.Encode(acc.pubkey)] = byte(i)
	}

	return ordered, indexOf, nil
}

// serializeMessage renders the legacy Solana message: 3-byte header,
// compact-u16 prefixed account table, recent blockhash and compact-u16
// prefixed instruction list.
func serializeMessage(tx *SolanaTx, accounts []solanaAccount, indexOf map[string]byte, blockhash []byte) ([]byte, error) {
	var numRequiredSignatures, numReadonlySigned, numReadonlyUnsigned byte
	for _, acc := range accounts {
		switch {
		case acc.isSigner && acc.isWritable:
			numRequiredSignatures++
		case acc.isSigner:
			numRequiredSignatures++
			numReadonlySigned++
		case !acc.isWritable:
			numReadonlyUnsigned++
		}
	}

	msg := []byte{numRequiredSignatures, numReadonlySigned, numReadonlyUnsigned}

	msg = appendCompactU16(msg, uint16(len(accounts)))
	for _, acc := range accounts {
		msg = append(msg, acc.pubkey...)
	}

	msg = append(msg, blockhash...)

	msg = appendCompactU16(msg, uint16(len(tx.Instructions)))
	for i, ins := range tx.Instructions {
		programIdx, ok := indexOf[ins.ProgramID]
		if !ok {
			return nil, errors.Wrapf(ErrMalformedInput, "instruction %d: program id missing from account table", i)
		}
		msg = append(msg, programIdx)

		msg = appendCompactU16(msg, uint16(len(ins.Keys)))
		for _, meta := range ins.Keys {
			accountIdx, ok := indexOf[meta.Pubkey]
			if !ok {
				return nil, errors.Wrapf(ErrMalformedInput, "instruction %d: account %q missing from account table", i, meta.Pubkey)
			}
			msg = append(msg, accountIdx)
		}

		msg = appendCompactU16(msg, uint16(len(ins.Data)))
		msg = append(msg, ins.Data...)
	}

	return msg, nil
}

// appendCompactU16 appends Solana's variable-length u16 encoding: 7 bits per
// byte, high bit set on continuation bytes.
func appendCompactU16(buf []byte, v uint16) []byte {
	for {
		if v < 0x80 {
			return append(buf, byte(v))
		}
		buf = append(buf, byte(v&0x7f)|0x80)
		v >>= 7
	}
}

// decodeSolanaKey decodes a base58 string that must be exactly 32 bytes.
func decodeSolanaKey(s string) ([]byte, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedInput, "base58 %q: %v", s, err)
	}
	if len(raw) != 32 {
		return nil, errors.Wrapf(ErrMalformedInput, "%q decodes to %d bytes, want 32", s, len(raw))
	}
	return raw, nil
}
