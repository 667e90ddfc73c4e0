package signer

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"math/big"
	"strings"

	"github.com/pkg/errors"

	"github/chapool/wallet-core/internal/wallet/chains"
)

// JSON wire shapes for unsigned-transaction descriptors as produced by the
// external transaction preparer. The union is keyed by "type".

// Quantity is a big integer that unmarshals from a JSON number, a decimal
// string or a 0x-prefixed hex string. Used for amounts that can exceed 64
// bits (wei especially).
type Quantity struct {
	big.Int
}

// UnmarshalJSON implements json.Unmarshaler.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		q.Int.SetInt64(0)
		return nil
	}

	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
		base = 16
	}

	if _, ok := q.Int.SetString(s, base); !ok {
		return errors.Wrapf(ErrMalformedInput, "invalid quantity %q", string(data))
	}
	if q.Int.Sign() < 0 {
		return errors.Wrapf(ErrMalformedInput, "negative quantity %q", string(data))
	}
	return nil
}

type evmTxJSON struct {
	ChainID              uint64   `json:"chainId"`
	Nonce                uint64   `json:"nonce"`
	MaxPriorityFeePerGas Quantity `json:"maxPriorityFeePerGas"`
	MaxFeePerGas         Quantity `json:"maxFeePerGas"`
	GasLimit             Quantity `json:"gasLimit"`
	To                   string   `json:"to"`
	Value                Quantity `json:"value"`
	Data                 string   `json:"data,omitempty"`
}

type utxoInputJSON struct {
	TxID  string `json:"txid"`
	Vout  uint32 `json:"vout"`
	Value uint64 `json:"value"`
}

type utxoOutputJSON struct {
	Address string `json:"address"`
	Value   uint64 `json:"value"`
}

type utxoTxJSON struct {
	Inputs  []utxoInputJSON  `json:"inputs"`
	Outputs []utxoOutputJSON `json:"outputs"`
}

type solanaKeyJSON struct {
	Pubkey     string `json:"pubkey"`
	IsSigner   bool   `json:"isSigner"`
	IsWritable bool   `json:"isWritable"`
}

type solanaInstructionJSON struct {
	ProgramID string          `json:"programId"`
	Keys      []solanaKeyJSON `json:"keys"`
	Data      string          `json:"data,omitempty"` // base64
}

type solanaTxJSON struct {
	FeePayer        string                  `json:"feePayer"`
	RecentBlockhash string                  `json:"recentBlockhash"`
	Instructions    []solanaInstructionJSON `json:"instructions"`
}

// ParseUnsignedTx decodes a chain-tagged descriptor. An unknown "type"
// discriminant yields ErrUnsupportedTransactionType; structural decode
// failures yield ErrMalformedInput.
//
//nolint:ireturn // The tagged union is the point of this function
func ParseUnsignedTx(data []byte) (UnsignedTx, error) {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, errors.Wrap(ErrMalformedInput, err.Error())
	}

	switch envelope.Type {
	case "evm":
		return parseEVMTx(data)
	case "btc":
		return parseUTXOTx(data, chains.BTC)
	case "bch":
		return parseUTXOTx(data, chains.BCH)
	case "sol":
		return parseSolanaTx(data)
	default:
		return nil, errors.Wrapf(ErrUnsupportedTransactionType, "%q", envelope.Type)
	}
}

func parseEVMTx(data []byte) (*EVMTx, error) {
	var raw evmTxJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(ErrMalformedInput, err.Error())
	}

	var calldata []byte
	if hexPart := strings.TrimPrefix(raw.Data, "0x"); hexPart != "" {
		var err error
		calldata, err = hex.DecodeString(hexPart)
		if err != nil {
			return nil, errors.Wrapf(ErrMalformedInput, "calldata: %v", err)
		}
	}

	return &EVMTx{
		ChainID:              raw.ChainID,
		Nonce:                raw.Nonce,
		MaxPriorityFeePerGas: &raw.MaxPriorityFeePerGas.Int,
		MaxFeePerGas:         &raw.MaxFeePerGas.Int,
		GasLimit:             raw.GasLimit.Uint64(),
		To:                   raw.To,
		Value:                &raw.Value.Int,
		Data:                 calldata,
	}, nil
}

func parseUTXOTx(data []byte, chain chains.Chain) (*UTXOTx, error) {
	var raw utxoTxJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(ErrMalformedInput, err.Error())
	}

	tx := &UTXOTx{Chain: chain}
	for _, in := range raw.Inputs {
		tx.Inputs = append(tx.Inputs, UTXOInput(in))
	}
	for _, out := range raw.Outputs {
		tx.Outputs = append(tx.Outputs, UTXOOutput(out))
	}
	return tx, nil
}

func parseSolanaTx(data []byte) (*SolanaTx, error) {
	var raw solanaTxJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(ErrMalformedInput, err.Error())
	}

	tx := &SolanaTx{
		FeePayer:        raw.FeePayer,
		RecentBlockhash: raw.RecentBlockhash,
	}

	for i, ins := range raw.Instructions {
		decoded, err := base64.StdEncoding.DecodeString(ins.Data)
		if err != nil {
			return nil, errors.Wrapf(ErrMalformedInput, "instruction %d data: %v", i, err)
		}

		keys := make([]SolanaAccountMeta, 0, len(ins.Keys))
		for _, k := range ins.Keys {
			keys = append(keys, SolanaAccountMeta(k))
		}

		tx.Instructions = append(tx.Instructions, SolanaInstruction{
			ProgramID: ins.ProgramID,
			Keys:      keys,
			Data:      decoded,
		})
	}

	return tx, nil
}
