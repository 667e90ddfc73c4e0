package identity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github/chapool/wallet-core/internal/wallet/chains"
	"github/chapool/wallet-core/internal/wallet/identity"
)

func TestValidSecp256k1PublicKey(t *testing.T) {
	// the generator point, compressed
	valid := "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"

	assert.True(t, identity.ValidSecp256k1PublicKey(valid))
	assert.True(t, identity.ValidSecp256k1PublicKey("0x"+valid))
	assert.True(t, identity.ValidSecp256k1PublicKey("03"+valid[2:]))

	// uncompressed prefix is rejected even at the right length
	assert.False(t, identity.ValidSecp256k1PublicKey("04"+valid[2:]))
	// not a point on the curve
	assert.False(t, identity.ValidSecp256k1PublicKey("02ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"))
	assert.False(t, identity.ValidSecp256k1PublicKey(valid[:64]))
	assert.False(t, identity.ValidSecp256k1PublicKey(""))
	assert.False(t, identity.ValidSecp256k1PublicKey("zz79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"))
}

func TestValidEd25519PublicKey(t *testing.T) {
	// the Solana system program id decodes to 32 zero bytes
	assert.True(t, identity.ValidEd25519PublicKey("11111111111111111111111111111111"))
	assert.True(t, identity.ValidEd25519PublicKey("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"))

	// ambiguous glyphs 0 O I l are outside the base58 alphabet
	assert.False(t, identity.ValidEd25519PublicKey("0okenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"))
	assert.False(t, identity.ValidEd25519PublicKey("short"))
	assert.False(t, identity.ValidEd25519PublicKey(""))
}

func TestValidAddressBTC(t *testing.T) {
	assert.True(t, identity.ValidAddress("bc1qar0srrr7xfkvy5l643lydnw9re59gtzzwf5mdq", chains.BTC))
	assert.True(t, identity.ValidAddress("1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa", chains.BTC))
	assert.True(t, identity.ValidAddress("3J98t1WpEZ73CNmQviecrnyiWrnqRhWNLy", chains.BTC))

	assert.False(t, identity.ValidAddress("not-an-address", chains.BTC))
	assert.False(t, identity.ValidAddress("1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNb", chains.BTC)) // bad checksum
}

func TestValidAddressEVM(t *testing.T) {
	assert.True(t, identity.ValidAddress("0x9858EfFD232B4033E47d90003D41EC34EcaEda94", chains.ETH))
	assert.True(t, identity.ValidAddress("0x9858EfFD232B4033E47d90003D41EC34EcaEda94", chains.POL))
	assert.True(t, identity.ValidAddress("0x9858EfFD232B4033E47d90003D41EC34EcaEda94", chains.USDTEth))

	assert.False(t, identity.ValidAddress("not-an-address", chains.ETH))
	assert.False(t, identity.ValidAddress("9858EfFD232B4033E47d90003D41EC34EcaEda94", chains.ETH))
	assert.False(t, identity.ValidAddress("0x9858EfFD232B4033E47d90003D41EC34EcaEda9", chains.ETH))
	assert.False(t, identity.ValidAddress("0x9858EfFD232B4033E47d90003D41EC34EcaEda9Z", chains.ETH))
}

func TestValidAddressBCH(t *testing.T) {
	assert.True(t, identity.ValidAddress("bitcoincash:qpm2qsznhks23z7629mms6s4cwef74vcwvy22gdx6a", chains.BCH))
	assert.True(t, identity.ValidAddress("qpm2qsznhks23z7629mms6s4cwef74vcwvy22gdx6a", chains.BCH))
	// legacy form is also accepted
	assert.True(t, identity.ValidAddress("1BpEi6DfDAUFd7GtittLSdBeYJvcoaVggu", chains.BCH))

	assert.False(t, identity.ValidAddress("bitcoincash:qpm2qsznhks23z7629mms6s4cwef74vcwvy22gdx6q", chains.BCH))
	assert.False(t, identity.ValidAddress("not-an-address", chains.BCH))
}

func TestValidAddressSolana(t *testing.T) {
	assert.True(t, identity.ValidAddress("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA", chains.SOL))
	assert.True(t, identity.ValidAddress("11111111111111111111111111111111", chains.USDCSol))

	assert.False(t, identity.ValidAddress("short", chains.SOL))
	assert.False(t, identity.ValidAddress("contains-invalid-characters-000000000000", chains.SOL))
}

func TestValidAddressDOGE(t *testing.T) {
	assert.True(t, identity.ValidAddress("DH5yaieqoZN36fDVciNyRueRGvGLR3mr7L", chains.DOGE))

	// valid base58check but BTC version byte, not the DOGE one
	assert.False(t, identity.ValidAddress("1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa", chains.DOGE))
	assert.False(t, identity.ValidAddress("not-an-address", chains.DOGE))
}

func TestValidAddressXRP(t *testing.T) {
	// the XRP genesis account
	assert.True(t, identity.ValidAddress("rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh", chains.XRP))

	assert.False(t, identity.ValidAddress("Hb9CJAWyB4rj91VRWn96DkukG4bwdtyTh", chains.XRP))
	assert.False(t, identity.ValidAddress("rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTa", chains.XRP)) // bad checksum
	assert.False(t, identity.ValidAddress("not-an-address", chains.XRP))
}

func TestValidAddressADA(t *testing.T) {
	assert.True(t, identity.ValidAddress("addr1qx2fxv2umyhttkxyxp8x0dlpdt3k6cwng5pxj3jhsydzer3n0d3vllmyqwsx5wktcd8cc3sq835lu7drv2xwl2wywfgse35a3x", chains.ADA))

	assert.False(t, identity.ValidAddress("addr1short", chains.ADA))
	assert.False(t, identity.ValidAddress("stake1u9ylzsgxaa6xctf4juup682ar3juj85n8tx3hthnljg47zctvm3rc", chains.ADA))
	assert.False(t, identity.ValidAddress("not-an-address", chains.ADA))
}

func TestValidAddressUnknownChain(t *testing.T) {
	assert.False(t, identity.ValidAddress("0x9858EfFD232B4033E47d90003D41EC34EcaEda94", "XMR"))
}

func TestValidDerivationPath(t *testing.T) {
	assert.True(t, identity.ValidDerivationPath("m/44'/0'/0'/0/0", chains.BTC))
	assert.True(t, identity.ValidDerivationPath("m/44'/0'/0'/0/42", chains.BTC))
	assert.True(t, identity.ValidDerivationPath("m/44'/60'/0'/0/7", chains.USDCEth))
	assert.True(t, identity.ValidDerivationPath("m/44'/501'/3'/0'", chains.SOL))
	assert.True(t, identity.ValidDerivationPath("m/1852'/1815'/0'/0'/0'", chains.ADA))

	// wrong coin type for the chain
	assert.False(t, identity.ValidDerivationPath("m/44'/60'/0'/0/0", chains.BTC))
	// index must be a plain non-negative integer
	assert.False(t, identity.ValidDerivationPath("m/44'/0'/0'/0/-1", chains.BTC))
	assert.False(t, identity.ValidDerivationPath("m/44'/0'/0'/0/007", chains.BTC))
	// SOL account segment must stay hardened
	assert.False(t, identity.ValidDerivationPath("m/44'/501'/3/0'", chains.SOL))
	assert.False(t, identity.ValidDerivationPath("m/44'/501'/3'/0'/0'", chains.SOL))
	assert.False(t, identity.ValidDerivationPath("", chains.BTC))
}

func TestValidChain(t *testing.T) {
	assert.True(t, identity.ValidChain("BTC"))
	assert.True(t, identity.ValidChain("USDC_POL"))
	assert.False(t, identity.ValidChain("DOGE "))
	assert.False(t, identity.ValidChain("xmr"))
}

// validators are pure: second call always agrees with the first
func TestValidatorIdempotence(t *testing.T) {
	inputs := []string{
		"0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798",
		"garbage",
	}

	for _, in := range inputs {
		assert.Equal(t, identity.ValidSecp256k1PublicKey(in), identity.ValidSecp256k1PublicKey(in))
		assert.Equal(t, identity.ValidAddress(in, chains.BTC), identity.ValidAddress(in, chains.BTC))
		assert.Equal(t, identity.ValidEd25519PublicKey(in), identity.ValidEd25519PublicKey(in))
	}
}
