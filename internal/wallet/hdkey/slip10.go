package hdkey

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"

	"github.com/pkg/errors"
)

const slip10Curve = "ed25519 seed"

// slip10Node holds a SLIP-10 ed25519 node: the raw 32-byte seed and chain
// code.
type slip10Node struct {
	key       []byte
	chainCode []byte
}

// deriveSLIP10 derives the 32-byte ed25519 seed at the given path. SLIP-10
// only defines hardened derivation for ed25519, so every segment must carry
// the hardened flag.
func deriveSLIP10(seed []byte, indices []uint32) ([]byte, error) {
	// Master node: HMAC-SHA512(Key="ed25519 seed", Data=BIP39 seed)
	mac := hmac.New(sha512.New, []byte(slip10Curve))
	mac.Write(seed)
	sum := mac.Sum(nil)

	node := slip10Node{
		key:       sum[:32],
		chainCode: sum[32:],
	}

	for _, index := range indices {
		if index < hardenedOffset {
			return nil, errors.Errorf("ed25519 derivation requires hardened segments, got %d", index)
		}
		node = slip10Child(node, index)
	}

	return node.key, nil
}

// slip10Child performs SLIP-10 hardened child derivation:
// I = HMAC-SHA512(chainCode, 0x00 || parentKey || index)
func slip10Child(parent slip10Node, index uint32) slip10Node {
	data := make([]byte, 0, 37)
	data = append(data, 0x00)
	data = append(data, parent.key...)
	data = binary.BigEndian.AppendUint32(data, index)

	mac := hmac.New(sha512.New, parent.chainCode)
	mac.Write(data)
	sum := mac.Sum(nil)

	return slip10Node{
		key:       sum[:32],
		chainCode: sum[32:],
	}
}
