// Package derive implements the "derive" subcommand. The mnemonic is read
// from an environment variable (never a flag) so it cannot leak into shell
// history; the derived private key is printed only with an explicit opt-in
// and wiped either way.
package derive

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github/chapool/wallet-core/internal/config"
	"github/chapool/wallet-core/internal/wallet"
	"github/chapool/wallet-core/internal/wallet/chains"
)

// New returns the derive subcommand
func New() *cobra.Command {
	var (
		chain         string
		index         uint32
		revealPrivate bool
	)

	cmd := &cobra.Command{
		Use:   "derive",
		Short: "Derives the key material for a chain at an address index",
		Run: func(cmd *cobra.Command, _ []string) {
			cfg := config.DefaultServiceConfigFromEnv()

			phrase, ok := os.LookupEnv(cfg.Wallet.MnemonicEnv)
			if !ok || phrase == "" {
				log.Fatal().Str("env", cfg.Wallet.MnemonicEnv).Msg("Mnemonic environment variable is not set")
			}

			if !chains.IsValid(chain) {
				log.Fatal().Str("chain", chain).Msg("Unsupported chain tag")
			}

			svc, err := wallet.NewService()
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to create wallet service")
			}

			key, err := svc.DeriveKey(cmd.Context(), phrase, chains.Chain(chain), index)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to derive key")
			}
			defer key.Destroy()

			fmt.Printf("chain:      %s\n", key.Chain)
			fmt.Printf("path:       %s\n", key.DerivationPath)
			fmt.Printf("address:    %s\n", key.Address)
			fmt.Printf("public key: %s\n", hex.EncodeToString(key.PublicKey))
			if revealPrivate {
				fmt.Printf("private key: %s\n", hex.EncodeToString(key.PrivateKey))
			}
		},
	}

	cmd.Flags().StringVar(&chain, "chain", "", "chain tag (BTC, ETH, SOL, ...)")
	cmd.Flags().Uint32Var(&index, "index", 0, "address index")
	cmd.Flags().BoolVar(&revealPrivate, "reveal-private-key", false, "print the raw private key (dangerous)")
	_ = cmd.MarkFlagRequired("chain")

	return cmd
}
