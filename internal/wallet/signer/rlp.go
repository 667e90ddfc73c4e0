package signer

import (
	"encoding/binary"
	"math/big"
)

// Recursive Length Prefix encoding, the minimal subset needed for EIP-1559
// envelopes: byte strings and lists of already-encoded items.

const (
	rlpShortStringOffset = 0x80
	rlpShortListOffset   = 0xc0
	rlpShortLengthMax    = 55
)

// rlpBytes encodes a byte string.
func rlpBytes(b []byte) []byte {
	if len(b) == 1 && b[0] < rlpShortStringOffset {
		return b
	}
	return append(rlpLength(len(b), rlpShortStringOffset), b...)
}

// rlpList wraps already-encoded items into a list.
func rlpList(encodedItems ...[]byte) []byte {
	var payload []byte
	for _, item := range encodedItems {
		payload = append(payload, item...)
	}
	return append(rlpLength(len(payload), rlpShortListOffset), payload...)
}

// rlpLength builds the length prefix for a string (offset 0x80) or list
// (offset 0xc0) payload.
func rlpLength(length int, offset byte) []byte {
	if length <= rlpShortLengthMax {
		return []byte{offset + byte(length)}
	}

	lenBytes := minimalUint64(uint64(length))
	prefix := []byte{offset + rlpShortLengthMax + byte(len(lenBytes))}
	return append(prefix, lenBytes...)
}

// minimalUint64 is the minimal big-endian encoding: no leading zero bytes,
// zero encodes as the empty byte string.
func minimalUint64(v uint64) []byte {
	if v == 0 {
		return nil
	}

	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)

	i := 0
	for buf[i] == 0 {
		i++
	}
	return buf[i:]
}

// minimalBig encodes a non-negative big integer minimally; nil and zero both
// encode as the empty byte string.
func minimalBig(v *big.Int) []byte {
	if v == nil || v.Sign() == 0 {
		return nil
	}
	return v.Bytes()
}

// stripLeadingZeros trims leading zero bytes, as required for the r and s
// signature components.
func stripLeadingZeros(b []byte) []byte {
	for len(b) > 0 && b[0] == 0 {
		b = b[1:]
	}
	return b
}
