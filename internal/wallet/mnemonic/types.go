package mnemonic

// Manager provides BIP39 mnemonic and seed functionality
type Manager interface {
	// Generate creates a cryptographically random mnemonic of 12 or 24 words
	Generate(wordCount int) (string, error)

	// IsValid checks the phrase's word count and BIP39 checksum
	IsValid(phrase string) bool

	// ToSeed derives the deterministic 64-byte BIP39 seed, optionally salted
	// by a passphrase
	ToSeed(phrase string, passphrase string) ([]byte, error)
}
