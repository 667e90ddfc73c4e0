// Package cashaddr implements the Bitcoin Cash CashAddr address encoding.
// Only the mainnet "bitcoincash" prefix and the P2PKH/P2SH 160-bit hash
// sizes are supported, which is all the signing core requires.
package cashaddr

import (
	"strings"

	"github.com/pkg/errors"
)

// MainnetPrefix is the human-readable prefix of mainnet addresses.
const MainnetPrefix = "bitcoincash"

// Address type bits carried in the version byte.
const (
	TypeP2PKH byte = 0x00
	TypeP2SH  byte = 0x08
)

const charset = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"

const checksumLen = 8

// ErrMalformed is returned for any structurally invalid CashAddr string:
// bad charset, bad checksum, or an impossible payload length.
var ErrMalformed = errors.New("malformed cashaddr")

var charsetRev = func() [128]int8 {
	var rev [128]int8
	for i := range rev {
		rev[i] = -1
	}
	for i, c := range charset {
		rev[c] = int8(i)
	}
	return rev
}()

// polyMod is the BCH 40-bit checksum function from the CashAddr spec.
func polyMod(values []byte) uint64 {
	c := uint64(1)
	for _, d := range values {
		c0 := byte(c >> 35)
		c = ((c & 0x07ffffffff) << 5) ^ uint64(d)
		if c0&0x01 != 0 {
			c ^= 0x98f2bc8e61
		}
		if c0&0x02 != 0 {
			c ^= 0x79b76d99e2
		}
		if c0&0x04 != 0 {
			c ^= 0xf33e5fb3c4
		}
		if c0&0x08 != 0 {
			c ^= 0xae2eabe2a8
		}
		if c0&0x10 != 0 {
			c ^= 0x1e4f43e470
		}
	}
	return c ^ 1
}

// expandPrefix maps each prefix character to its low 5 bits and appends the
// zero separator, per the checksum definition.
func expandPrefix(prefix string) []byte {
	out := make([]byte, 0, len(prefix)+1)
	for i := 0; i < len(prefix); i++ {
		out = append(out, prefix[i]&0x1f)
	}
	return append(out, 0)
}

// convertBits regroups the input from fromBits-wide to toBits-wide groups.
// With pad=false a non-zero remainder is an error (decode direction).
func convertBits(data []byte, fromBits, toBits uint, pad bool) ([]byte, error) {
	var acc uint32
	var bits uint
	maxv := uint32(1<<toBits) - 1
	out := make([]byte, 0, len(data)*int(fromBits)/int(toBits)+1)

	for _, b := range data {
		if uint(b)>>fromBits != 0 {
			return nil, errors.Wrapf(ErrMalformed, "invalid %d-bit value %d", fromBits, b)
		}
		acc = acc<<fromBits | uint32(b)
		bits += fromBits
		for bits >= toBits {
			bits -= toBits
			out = append(out, byte(acc>>bits&maxv))
		}
	}

	if pad {
		if bits > 0 {
			out = append(out, byte(acc<<(toBits-bits)&maxv))
		}
	} else if bits >= fromBits || acc<<(toBits-bits)&maxv != 0 {
		return nil, errors.Wrap(ErrMalformed, "non-zero padding")
	}

	return out, nil
}

// Encode builds a mainnet CashAddr from a version byte and a 20-byte hash.
func Encode(version byte, hash []byte) (string, error) {
	if len(hash) != 20 {
		return "", errors.Wrapf(ErrMalformed, "hash must be 20 bytes, got %d", len(hash))
	}

	payload, err := convertBits(append([]byte{version}, hash...), 8, 5, true)
	if err != nil {
		return "", err
	}

	checksumInput := append(expandPrefix(MainnetPrefix), payload...)
	checksumInput = append(checksumInput, make([]byte, checksumLen)...)
	mod := polyMod(checksumInput)

	var sb strings.Builder
	sb.WriteString(MainnetPrefix)
	sb.WriteByte(':')
	for _, v := range payload {
		sb.WriteByte(charset[v])
	}
	for i := 0; i < checksumLen; i++ {
		sb.WriteByte(charset[mod>>uint(5*(checksumLen-1-i))&0x1f])
	}

	return sb.String(), nil
}

// Decode parses a mainnet CashAddr (prefix optional) and returns the version
// byte and 20-byte hash.
func Decode(addr string) (byte, []byte, error) {
	addr = strings.ToLower(addr)
	body := addr
	if i := strings.IndexByte(addr, ':'); i >= 0 {
		if addr[:i] != MainnetPrefix {
			return 0, nil, errors.Wrapf(ErrMalformed, "unexpected prefix %q", addr[:i])
		}
		body = addr[i+1:]
	}

	if len(body) <= checksumLen {
		return 0, nil, errors.Wrap(ErrMalformed, "address too short")
	}

	values := make([]byte, len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c >= 128 || charsetRev[c] < 0 {
			return 0, nil, errors.Wrapf(ErrMalformed, "invalid character %q", c)
		}
		values[i] = byte(charsetRev[c])
	}

	if polyMod(append(expandPrefix(MainnetPrefix), values...)) != 0 {
		return 0, nil, errors.Wrap(ErrMalformed, "checksum mismatch")
	}

	decoded, err := convertBits(values[:len(values)-checksumLen], 5, 8, false)
	if err != nil {
		return 0, nil, err
	}
	if len(decoded) != 21 {
		return 0, nil, errors.Wrapf(ErrMalformed, "unexpected payload length %d", len(decoded))
	}

	return decoded[0], decoded[1:], nil
}
