package signer_test

import (
	"bytes"
	"context"
	"encoding/hex"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github/chapool/wallet-core/internal/wallet/chains"
	"github/chapool/wallet-core/internal/wallet/signer"
)

const (
	testUTXOPrivateKeyHex = "619c335025c7f4012e556c2a58b2506e30b8511b53ade95ea316fd8c3286feb9"
	testUTXOTxID          = "9f96ade4b41d5433f4eda31e1738ec2b36f6e7d1420d94a6af99801a88f7f7ff"
)

func testUTXOKey(t *testing.T) []byte {
	t.Helper()

	key, err := hex.DecodeString(testUTXOPrivateKeyHex)
	require.NoError(t, err)
	return key
}

// parseScriptSig splits a P2PKH unlocking script into the DER signature
// (sighash byte included) and the compressed public key.
func parseScriptSig(t *testing.T, scriptSig []byte) (sig []byte, pub []byte) {
	t.Helper()

	require.NotEmpty(t, scriptSig)
	sigLen := int(scriptSig[0])
	require.Greater(t, len(scriptSig), 1+sigLen)
	sig = scriptSig[1 : 1+sigLen]

	rest := scriptSig[1+sigLen:]
	require.Equal(t, byte(33), rest[0])
	require.Len(t, rest, 34)
	return sig, rest[1:]
}

func TestSignUTXOBitcoin(t *testing.T) {
	ctx := context.Background()

	svc, err := signer.NewService()
	require.NoError(t, err)

	tx := &signer.UTXOTx{
		Chain: chains.BTC,
		Inputs: []signer.UTXOInput{
			{TxID: testUTXOTxID, Vout: 1, Value: 100_000},
		},
		Outputs: []signer.UTXOOutput{
			{Address: "1LqBGSKuX5yYUonjxT5qGfpUsXKYYWeabA", Value: 90_000},
		},
	}

	res, err := svc.Sign(ctx, &signer.SignRequest{UnsignedTx: tx, PrivateKey: testUTXOKey(t)})
	require.NoError(t, err)
	require.Equal(t, signer.FormatHex, res.Format)

	raw, err := hex.DecodeString(res.SignedTx)
	require.NoError(t, err)

	var decoded wire.MsgTx
	require.NoError(t, decoded.Deserialize(bytes.NewReader(raw)))

	assert.EqualValues(t, 2, decoded.Version)
	assert.EqualValues(t, 0, decoded.LockTime)
	require.Len(t, decoded.TxIn, 1)
	require.Len(t, decoded.TxOut, 1)

	// the outpoint hash round-trips to the display txid
	expectedHash, err := chainhash.NewHashFromStr(testUTXOTxID)
	require.NoError(t, err)
	assert.Equal(t, *expectedHash, decoded.TxIn[0].PreviousOutPoint.Hash)
	assert.EqualValues(t, 1, decoded.TxIn[0].PreviousOutPoint.Index)
	assert.EqualValues(t, 0xffffffff, decoded.TxIn[0].Sequence)

	// output pays the destination's canonical P2PKH script
	destAddr, err := btcutil.DecodeAddress("1LqBGSKuX5yYUonjxT5qGfpUsXKYYWeabA", &chaincfg.MainNetParams)
	require.NoError(t, err)
	destScript, err := txscript.PayToAddrScript(destAddr)
	require.NoError(t, err)
	assert.Equal(t, destScript, decoded.TxOut[0].PkScript)
	assert.EqualValues(t, 90_000, decoded.TxOut[0].Value)

	// scriptSig carries the signing key's own compressed pubkey
	sig, pub := parseScriptSig(t, decoded.TxIn[0].SignatureScript)
	priv, _ := btcec.PrivKeyFromBytes(testUTXOKey(t))
	require.Equal(t, priv.PubKey().SerializeCompressed(), pub)

	// legacy sighash: last byte is SIGHASH_ALL, and the DER part verifies
	// against the digest btcd computes for the spent P2PKH script
	require.Equal(t, byte(0x01), sig[len(sig)-1])

	selfAddr, err := btcutil.NewAddressPubKeyHash(btcutil.Hash160(pub), &chaincfg.MainNetParams)
	require.NoError(t, err)
	selfScript, err := txscript.PayToAddrScript(selfAddr)
	require.NoError(t, err)

	digest, err := txscript.CalcSignatureHash(selfScript, txscript.SigHashAll, &decoded, 0)
	require.NoError(t, err)

	parsedSig, err := btcecdsa.ParseDERSignature(sig[:len(sig)-1])
	require.NoError(t, err)
	assert.True(t, parsedSig.Verify(digest, priv.PubKey()))
}

func TestSignUTXOBitcoinMultipleInputs(t *testing.T) {
	ctx := context.Background()

	svc, err := signer.NewService()
	require.NoError(t, err)

	tx := &signer.UTXOTx{
		Chain: chains.BTC,
		Inputs: []signer.UTXOInput{
			{TxID: testUTXOTxID, Vout: 0, Value: 50_000},
			{TxID: "ef51e1b804cc89d182d279655c3aa89e815b1b309fe287d9b2b55d57b90ec68a", Vout: 3, Value: 60_000},
		},
		Outputs: []signer.UTXOOutput{
			{Address: "1LqBGSKuX5yYUonjxT5qGfpUsXKYYWeabA", Value: 70_000},
			{Address: "3J98t1WpEZ73CNmQviecrnyiWrnqRhWNLy", Value: 30_000},
		},
	}

	res, err := svc.Sign(ctx, &signer.SignRequest{UnsignedTx: tx, PrivateKey: testUTXOKey(t)})
	require.NoError(t, err)

	raw, err := hex.DecodeString(res.SignedTx)
	require.NoError(t, err)

	var decoded wire.MsgTx
	require.NoError(t, decoded.Deserialize(bytes.NewReader(raw)))
	require.Len(t, decoded.TxIn, 2)
	require.Len(t, decoded.TxOut, 2)

	priv, _ := btcec.PrivKeyFromBytes(testUTXOKey(t))
	selfAddr, err := btcutil.NewAddressPubKeyHash(btcutil.Hash160(priv.PubKey().SerializeCompressed()), &chaincfg.MainNetParams)
	require.NoError(t, err)
	selfScript, err := txscript.PayToAddrScript(selfAddr)
	require.NoError(t, err)

	// every input carries its own valid signature over its own digest
	for i, in := range decoded.TxIn {
		sig, pub := parseScriptSig(t, in.SignatureScript)
		assert.Equal(t, priv.PubKey().SerializeCompressed(), pub)

		digest, err := txscript.CalcSignatureHash(selfScript, txscript.SigHashAll, &decoded, i)
		require.NoError(t, err)

		parsedSig, err := btcecdsa.ParseDERSignature(sig[:len(sig)-1])
		require.NoError(t, err)
		assert.True(t, parsedSig.Verify(digest, priv.PubKey()), "input %d", i)
	}
}

func TestSignUTXOBitcoinCash(t *testing.T) {
	ctx := context.Background()

	svc, err := signer.NewService()
	require.NoError(t, err)

	tx := &signer.UTXOTx{
		Chain: chains.BCH,
		Inputs: []signer.UTXOInput{
			{TxID: testUTXOTxID, Vout: 0, Value: 100_000},
		},
		Outputs: []signer.UTXOOutput{
			{Address: "bitcoincash:qpm2qsznhks23z7629mms6s4cwef74vcwvy22gdx6a", Value: 95_000},
		},
	}

	res, err := svc.Sign(ctx, &signer.SignRequest{UnsignedTx: tx, PrivateKey: testUTXOKey(t)})
	require.NoError(t, err)

	raw, err := hex.DecodeString(res.SignedTx)
	require.NoError(t, err)

	var decoded wire.MsgTx
	require.NoError(t, decoded.Deserialize(bytes.NewReader(raw)))
	require.Len(t, decoded.TxIn, 1)
	require.Len(t, decoded.TxOut, 1)

	// SIGHASH_ALL | SIGHASH_FORKID trailer on the signature
	sig, _ := parseScriptSig(t, decoded.TxIn[0].SignatureScript)
	assert.Equal(t, byte(0x41), sig[len(sig)-1])

	// CashAddr destination resolves to its hash160 P2PKH script
	expectedHash, err := hex.DecodeString("76a04053bda0a88bda5177b86a15c3b29f559873")
	require.NoError(t, err)

	script := decoded.TxOut[0].PkScript
	require.Len(t, script, 25)
	assert.Equal(t, byte(txscript.OP_DUP), script[0])
	assert.Equal(t, expectedHash, script[3:23])
}

func TestSignUTXOBitcoinCashLegacyDestination(t *testing.T) {
	ctx := context.Background()

	svc, err := signer.NewService()
	require.NoError(t, err)

	// same hash160 as the cashaddr above, legacy encoding
	tx := &signer.UTXOTx{
		Chain: chains.BCH,
		Inputs: []signer.UTXOInput{
			{TxID: testUTXOTxID, Vout: 0, Value: 100_000},
		},
		Outputs: []signer.UTXOOutput{
			{Address: "1BpEi6DfDAUFd7GtittLSdBeYJvcoaVggu", Value: 95_000},
		},
	}

	res, err := svc.Sign(ctx, &signer.SignRequest{UnsignedTx: tx, PrivateKey: testUTXOKey(t)})
	require.NoError(t, err)

	raw, err := hex.DecodeString(res.SignedTx)
	require.NoError(t, err)

	var decoded wire.MsgTx
	require.NoError(t, decoded.Deserialize(bytes.NewReader(raw)))

	expectedHash, err := hex.DecodeString("76a04053bda0a88bda5177b86a15c3b29f559873")
	require.NoError(t, err)
	assert.Equal(t, expectedHash, decoded.TxOut[0].PkScript[3:23])
}

func TestSignUTXODeterministic(t *testing.T) {
	ctx := context.Background()

	svc, err := signer.NewService()
	require.NoError(t, err)

	tx := &signer.UTXOTx{
		Chain: chains.BTC,
		Inputs: []signer.UTXOInput{
			{TxID: testUTXOTxID, Vout: 0, Value: 100_000},
		},
		Outputs: []signer.UTXOOutput{
			{Address: "1LqBGSKuX5yYUonjxT5qGfpUsXKYYWeabA", Value: 90_000},
		},
	}

	first, err := svc.Sign(ctx, &signer.SignRequest{UnsignedTx: tx, PrivateKey: testUTXOKey(t)})
	require.NoError(t, err)

	second, err := svc.Sign(ctx, &signer.SignRequest{UnsignedTx: tx, PrivateKey: testUTXOKey(t)})
	require.NoError(t, err)

	assert.Equal(t, first.SignedTx, second.SignedTx)
}

func TestSignUTXORejectsInvalidDescriptors(t *testing.T) {
	ctx := context.Background()

	svc, err := signer.NewService()
	require.NoError(t, err)

	input := signer.UTXOInput{TxID: testUTXOTxID, Vout: 0, Value: 100_000}
	output := signer.UTXOOutput{Address: "1LqBGSKuX5yYUonjxT5qGfpUsXKYYWeabA", Value: 90_000}

	t.Run("doge is not a signable utxo chain", func(t *testing.T) {
		tx := &signer.UTXOTx{Chain: chains.DOGE, Inputs: []signer.UTXOInput{input}, Outputs: []signer.UTXOOutput{output}}
		_, err := svc.Sign(ctx, &signer.SignRequest{UnsignedTx: tx, PrivateKey: testUTXOKey(t)})
		assert.ErrorIs(t, err, signer.ErrUnsupportedTransactionType)
	})

	t.Run("no inputs", func(t *testing.T) {
		tx := &signer.UTXOTx{Chain: chains.BTC, Outputs: []signer.UTXOOutput{output}}
		_, err := svc.Sign(ctx, &signer.SignRequest{UnsignedTx: tx, PrivateKey: testUTXOKey(t)})
		assert.ErrorIs(t, err, signer.ErrMalformedInput)
	})

	t.Run("no outputs", func(t *testing.T) {
		tx := &signer.UTXOTx{Chain: chains.BTC, Inputs: []signer.UTXOInput{input}}
		_, err := svc.Sign(ctx, &signer.SignRequest{UnsignedTx: tx, PrivateKey: testUTXOKey(t)})
		assert.ErrorIs(t, err, signer.ErrMalformedInput)
	})

	t.Run("malformed txid", func(t *testing.T) {
		tx := &signer.UTXOTx{
			Chain:   chains.BTC,
			Inputs:  []signer.UTXOInput{{TxID: "abcd", Vout: 0, Value: 1}},
			Outputs: []signer.UTXOOutput{output},
		}
		_, err := svc.Sign(ctx, &signer.SignRequest{UnsignedTx: tx, PrivateKey: testUTXOKey(t)})
		assert.ErrorIs(t, err, signer.ErrMalformedInput)
	})

	t.Run("malformed destination", func(t *testing.T) {
		tx := &signer.UTXOTx{
			Chain:   chains.BTC,
			Inputs:  []signer.UTXOInput{input},
			Outputs: []signer.UTXOOutput{{Address: "not-an-address", Value: 1}},
		}
		_, err := svc.Sign(ctx, &signer.SignRequest{UnsignedTx: tx, PrivateKey: testUTXOKey(t)})
		assert.ErrorIs(t, err, signer.ErrMalformedInput)
	})
}
