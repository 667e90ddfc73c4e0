// Package chains defines the closed set of supported chain tags and the
// per-chain derivation metadata (curve family, BIP44 path template, base
// chain for token variants).
package chains

import (
	"fmt"

	"github.com/pkg/errors"
)

// Chain is a supported chain tag.
type Chain string

// Supported chain tags. Token variants (USDC_*, USDT_*) always reuse the
// derivation path and address of their underlying base chain.
const (
	BTC     Chain = "BTC"
	BCH     Chain = "BCH"
	ETH     Chain = "ETH"
	POL     Chain = "POL"
	SOL     Chain = "SOL"
	DOGE    Chain = "DOGE"
	XRP     Chain = "XRP"
	ADA     Chain = "ADA"
	BNB     Chain = "BNB"
	LN      Chain = "LN"
	USDCEth Chain = "USDC_ETH"
	USDCPol Chain = "USDC_POL"
	USDCSol Chain = "USDC_SOL"
	USDTEth Chain = "USDT_ETH"
	USDTPol Chain = "USDT_POL"
	USDTSol Chain = "USDT_SOL"
)

// Curve identifies the signature curve family of a chain.
type Curve string

const (
	// CurveSecp256k1 is used by Bitcoin-family and EVM-family chains.
	CurveSecp256k1 Curve = "secp256k1"
	// CurveEd25519 is used by Solana-family chains and Cardano.
	CurveEd25519 Curve = "ed25519"
)

// ErrUnsupportedChain is returned when a chain tag outside the closed set is
// supplied. No fallback chain is ever guessed.
var ErrUnsupportedChain = errors.New("unsupported chain")

// Info describes the derivation metadata of a chain tag.
type Info struct {
	Chain Chain
	// Base is the chain whose path and address this tag reuses. For native
	// coins Base == Chain.
	Base  Chain
	Curve Curve
	// PathTemplate is a fmt template with a single %d for the address index.
	PathTemplate string
}

// registry is the complete contract surface for "which chain". No other
// values are accepted anywhere in the core.
var registry = map[Chain]Info{
	BTC:  {Chain: BTC, Base: BTC, Curve: CurveSecp256k1, PathTemplate: "m/44'/0'/0'/0/%d"},
	LN:   {Chain: LN, Base: BTC, Curve: CurveSecp256k1, PathTemplate: "m/44'/0'/0'/0/%d"},
	BCH:  {Chain: BCH, Base: BCH, Curve: CurveSecp256k1, PathTemplate: "m/44'/145'/0'/0/%d"},
	ETH:  {Chain: ETH, Base: ETH, Curve: CurveSecp256k1, PathTemplate: "m/44'/60'/0'/0/%d"},
	POL:  {Chain: POL, Base: ETH, Curve: CurveSecp256k1, PathTemplate: "m/44'/60'/0'/0/%d"},
	BNB:  {Chain: BNB, Base: ETH, Curve: CurveSecp256k1, PathTemplate: "m/44'/60'/0'/0/%d"},
	DOGE: {Chain: DOGE, Base: DOGE, Curve: CurveSecp256k1, PathTemplate: "m/44'/3'/0'/0/%d"},
	XRP:  {Chain: XRP, Base: XRP, Curve: CurveSecp256k1, PathTemplate: "m/44'/144'/0'/0/%d"},
	SOL:  {Chain: SOL, Base: SOL, Curve: CurveEd25519, PathTemplate: "m/44'/501'/%d'/0'"},
	ADA:  {Chain: ADA, Base: ADA, Curve: CurveEd25519, PathTemplate: "m/1852'/1815'/0'/0'/%d'"},

	USDCEth: {Chain: USDCEth, Base: ETH, Curve: CurveSecp256k1, PathTemplate: "m/44'/60'/0'/0/%d"},
	USDTEth: {Chain: USDTEth, Base: ETH, Curve: CurveSecp256k1, PathTemplate: "m/44'/60'/0'/0/%d"},
	USDCPol: {Chain: USDCPol, Base: ETH, Curve: CurveSecp256k1, PathTemplate: "m/44'/60'/0'/0/%d"},
	USDTPol: {Chain: USDTPol, Base: ETH, Curve: CurveSecp256k1, PathTemplate: "m/44'/60'/0'/0/%d"},
	USDCSol: {Chain: USDCSol, Base: SOL, Curve: CurveEd25519, PathTemplate: "m/44'/501'/%d'/0'"},
	USDTSol: {Chain: USDTSol, Base: SOL, Curve: CurveEd25519, PathTemplate: "m/44'/501'/%d'/0'"},
}

// IsValid checks membership against the closed chain-tag set.
func IsValid(tag string) bool {
	_, ok := registry[Chain(tag)]
	return ok
}

// Get returns the derivation metadata for a chain tag.
func Get(chain Chain) (Info, error) {
	info, ok := registry[chain]
	if !ok {
		return Info{}, errors.Wrapf(ErrUnsupportedChain, "chain %q", chain)
	}
	return info, nil
}

// PathFor renders the BIP44 derivation path of a chain at the given address
// index.
func PathFor(chain Chain, index uint32) (string, error) {
	info, err := Get(chain)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(info.PathTemplate, index), nil
}

// All returns every supported chain tag. The slice is a copy.
func All() []Chain {
	tags := make([]Chain, 0, len(registry))
	for tag := range registry {
		tags = append(tags, tag)
	}
	return tags
}
