// Package mnemonic implements the "mnemonic" subcommand: generating and
// validating BIP39 phrases.
package mnemonic

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github/chapool/wallet-core/internal/config"
	"github/chapool/wallet-core/internal/wallet"
)

// New returns the mnemonic subcommand
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mnemonic",
		Short: "Generate and validate BIP39 mnemonics",
	}

	cmd.AddCommand(newGenerate(), newCheck())
	return cmd
}

func newGenerate() *cobra.Command {
	var words int

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Generates a cryptographically random mnemonic",
		Run: func(_ *cobra.Command, _ []string) {
			if words == 0 {
				words = config.DefaultServiceConfigFromEnv().Wallet.DefaultMnemonicWords
			}

			svc, err := wallet.NewService()
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to create wallet service")
			}

			phrase, err := svc.GenerateMnemonic(words)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to generate mnemonic")
			}

			fmt.Println(phrase)
		},
	}

	cmd.Flags().IntVar(&words, "words", 0, "word count, 12 or 24 (default from env)")
	return cmd
}

func newCheck() *cobra.Command {
	return &cobra.Command{
		Use:   "check <phrase>",
		Short: "Validates a mnemonic's word count and checksum",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			svc, err := wallet.NewService()
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to create wallet service")
			}

			if !svc.ValidateMnemonic(args[0]) {
				log.Fatal().Msg("Mnemonic is invalid")
			}

			fmt.Println("valid")
		},
	}
}
