// Package identity holds the pure format validators for public keys,
// addresses and derivation paths. Every predicate is side-effect free and
// never returns an error: malformed input simply yields false, so callers can
// use them as boolean gates without error-handling overhead.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	btcbase58 "github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/mr-tron/base58"

	"github/chapool/wallet-core/internal/wallet/cashaddr"
	"github/chapool/wallet-core/internal/wallet/chains"
)

var (
	evmAddressRe    = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
	solanaAddressRe = regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]{32,44}$`)
	bech32BodyRe    = regexp.MustCompile(`^[qpzry9x8gf2tvdw0s3jn54khce6mua7l]+$`)
)

// rippleAlphabet mirrors the alphabet used for address derivation in hdkey.
var rippleAlphabet = base58.NewAlphabet("rpshnaf39wBUDNEGHJKLM4PQRST7VWXYZ2bcdeCg65jkm8oFqi1tuvAxyz")

// ValidChain checks membership against the closed chain-tag set.
func ValidChain(tag string) bool {
	return chains.IsValid(tag)
}

// ValidSecp256k1PublicKey reports whether s is a compressed secp256k1 public
// key in hex: optional 0x prefix, exactly 66 hex characters, 02/03 prefix
// byte, and a point actually on the curve.
func ValidSecp256k1PublicKey(s string) bool {
	s = strings.TrimPrefix(s, "0x")
	if len(s) != 66 {
		return false
	}
	if s[:2] != "02" && s[:2] != "03" {
		return false
	}

	raw, err := hex.DecodeString(s)
	if err != nil {
		return false
	}

	_, err = btcec.ParsePubKey(raw)
	return err == nil
}

// ValidEd25519PublicKey reports whether s is a base58 string of 32-44
// characters (ambiguous glyphs 0 O I l excluded) decoding to exactly 32
// bytes.
func ValidEd25519PublicKey(s string) bool {
	if !solanaAddressRe.MatchString(s) {
		return false
	}

	raw, err := base58.Decode(s)
	return err == nil && len(raw) == 32
}

// ValidAddress reports whether addr matches the canonical address format of
// the given chain. Token variants validate against their base chain.
func ValidAddress(addr string, chain chains.Chain) bool {
	info, err := chains.Get(chain)
	if err != nil {
		return false
	}

	switch info.Base {
	case chains.BTC:
		// P2PKH ("1..."), P2SH ("3...") or Bech32 ("bc1...")
		_, err := btcutil.DecodeAddress(addr, &chaincfg.MainNetParams)
		return err == nil
	case chains.BCH:
		return validBCHAddress(addr)
	case chains.ETH:
		return evmAddressRe.MatchString(addr)
	case chains.SOL:
		return solanaAddressRe.MatchString(addr)
	case chains.DOGE:
		_, version, err := btcbase58.CheckDecode(addr)
		return err == nil && version == 0x1E
	case chains.XRP:
		return validRippleAddress(addr)
	case chains.ADA:
		return validCardanoAddress(addr)
	}

	return false
}

// ValidDerivationPath reports whether path matches the chain's canonical
// template with the index position treated as a wildcard non-negative
// integer.
func ValidDerivationPath(path string, chain chains.Chain) bool {
	info, err := chains.Get(chain)
	if err != nil {
		return false
	}

	parts := strings.SplitN(info.PathTemplate, "%d", 2)
	pattern := "^" + regexp.QuoteMeta(parts[0]) + `(0|[1-9][0-9]*)` + regexp.QuoteMeta(parts[1]) + "$"

	matched, err := regexp.MatchString(pattern, path)
	return err == nil && matched
}

// validBCHAddress accepts CashAddr (with or without the bitcoincash: prefix)
// or a legacy base58check address.
func validBCHAddress(addr string) bool {
	if version, _, err := cashaddr.Decode(addr); err == nil {
		return version == cashaddr.TypeP2PKH || version == cashaddr.TypeP2SH
	}

	// Legacy fallback: mainnet P2PKH (0x00) or P2SH (0x05)
	_, version, err := btcbase58.CheckDecode(addr)
	return err == nil && (version == 0x00 || version == 0x05)
}

// validRippleAddress checks an XRP classic address: leading r, Ripple-alphabet
// base58, 4-byte double-SHA256 checksum, 21-byte payload with version 0x00.
func validRippleAddress(addr string) bool {
	if !strings.HasPrefix(addr, "r") {
		return false
	}

	raw, err := base58.FastBase58DecodingAlphabet(addr, rippleAlphabet)
	if err != nil || len(raw) != 25 {
		return false
	}

	payload, checksum := raw[:21], raw[21:]
	if payload[0] != 0x00 {
		return false
	}

	first := sha256.Sum256(payload)
	second := sha256.Sum256(first[:])
	return string(second[:4]) == string(checksum)
}

// validCardanoAddress checks the addr1 prefix, overall length and bech32
// charset of the body. Full CIP-19 credential decoding is not required for
// format gating.
func validCardanoAddress(addr string) bool {
	if !strings.HasPrefix(addr, "addr1") {
		return false
	}

	body := addr[len("addr1"):]
	if len(body) < 50 || len(body) > 100 {
		return false
	}

	return bech32BodyRe.MatchString(body)
}
