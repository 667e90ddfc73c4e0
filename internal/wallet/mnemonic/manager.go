// Package mnemonic implements BIP39 mnemonic generation, validation and seed
// derivation. Seed derivation is deterministic: identical (phrase, passphrase)
// pairs always yield identical 64-byte seeds.
package mnemonic

import (
	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip39"
)

const (
	// DefaultWordCount is used when the caller does not request a length.
	DefaultWordCount = 12

	entropyBits12Words = 128
	entropyBits24Words = 256
)

// ErrInvalidMnemonic is returned when seed derivation is attempted on a
// phrase that fails the BIP39 word-count or checksum rules. The manager never
// silently substitutes a default phrase.
var ErrInvalidMnemonic = errors.New("invalid mnemonic")

type manager struct{}

// NewManager creates a new mnemonic Manager
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewManager() Manager {
	return &manager{}
}

// Generate creates a cryptographically random mnemonic of 12 or 24 words
func (m *manager) Generate(wordCount int) (string, error) {
	var bits int
	switch wordCount {
	case 12:
		bits = entropyBits12Words
	case 24:
		bits = entropyBits24Words
	default:
		return "", errors.Errorf("unsupported word count: %d (must be 12 or 24)", wordCount)
	}

	entropy, err := bip39.NewEntropy(bits)
	if err != nil {
		return "", errors.Wrap(err, "failed to generate entropy")
	}

	phrase, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", errors.Wrap(err, "failed to build mnemonic from entropy")
	}

	return phrase, nil
}

// IsValid checks the phrase's word count and BIP39 checksum
func (m *manager) IsValid(phrase string) bool {
	return bip39.IsMnemonicValid(phrase)
}

// ToSeed derives the deterministic 64-byte BIP39 seed
// (PBKDF2-HMAC-SHA512, 2048 rounds, salt "mnemonic"+passphrase)
func (m *manager) ToSeed(phrase string, passphrase string) ([]byte, error) {
	seed, err := bip39.NewSeedWithErrorChecking(phrase, passphrase)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidMnemonic, err.Error())
	}
	return seed, nil
}
