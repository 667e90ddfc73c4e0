// Package sign implements the "sign" subcommand: it reads an unsigned
// transaction descriptor (JSON, tagged by "type") from a file and the raw
// private key from an environment variable, and prints the signed wire bytes.
// The key buffer is zeroed whether signing succeeds or fails.
package sign

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github/chapool/wallet-core/internal/wallet"
	"github/chapool/wallet-core/internal/wallet/signer"
)

const privateKeyEnv = "WALLETCORE_PRIVATE_KEY"

// New returns the sign subcommand
func New() *cobra.Command {
	var (
		txFile       string
		expectedFrom string
	)

	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Signs an unsigned transaction descriptor into broadcast-ready wire bytes",
		Run: func(cmd *cobra.Command, _ []string) {
			data, err := os.ReadFile(txFile)
			if err != nil {
				log.Fatal().Err(err).Str("file", txFile).Msg("Failed to read unsigned transaction")
			}

			unsignedTx, err := signer.ParseUnsignedTx(data)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to parse unsigned transaction")
			}

			keyHex, ok := os.LookupEnv(privateKeyEnv)
			if !ok || keyHex == "" {
				log.Fatal().Str("env", privateKeyEnv).Msg("Private key environment variable is not set")
			}

			privateKey, err := hex.DecodeString(keyHex)
			if err != nil {
				log.Fatal().Msg("Private key is not valid hex")
			}

			svc, err := wallet.NewService()
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to create wallet service")
			}

			res, err := svc.SignTransaction(cmd.Context(), &signer.SignRequest{
				UnsignedTx: unsignedTx,
				PrivateKey: privateKey,
			}, expectedFrom)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to sign transaction")
			}

			fmt.Printf("format:    %s\n", res.Format)
			fmt.Printf("signed_tx: %s\n", res.SignedTx)
		},
	}

	cmd.Flags().StringVar(&txFile, "tx", "", "path to the unsigned transaction JSON")
	cmd.Flags().StringVar(&expectedFrom, "from", "", "refuse to sign if the key does not control this address")
	_ = cmd.MarkFlagRequired("tx")

	return cmd
}
