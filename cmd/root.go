package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github/chapool/wallet-core/cmd/derive"
	"github/chapool/wallet-core/cmd/env"
	"github/chapool/wallet-core/cmd/mnemonic"
	"github/chapool/wallet-core/cmd/sign"
	"github/chapool/wallet-core/cmd/validate"
	"github/chapool/wallet-core/internal/config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Version: config.GetFormattedBuildArgs(),
	Use:     "walletcore",
	Short:   config.ModuleName,
	Long: fmt.Sprintf(`%v

The cryptographic core of a non-custodial multi-chain wallet:
mnemonic management, hierarchical key derivation, format validation
and offline transaction signing. Performs no network I/O.`, config.ModuleName),
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		cfg := config.DefaultServiceConfigFromEnv()

		zerolog.SetGlobalLevel(cfg.Logger.Level)
		if cfg.Logger.PrettyPrintConsole {
			log.Logger = log.Output(zerolog.NewConsoleWriter())
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	// attach the subcommands
	rootCmd.AddCommand(
		derive.New(),
		env.New(),
		mnemonic.New(),
		sign.New(),
		validate.New(),
	)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Failed to execute root command")
		os.Exit(1)
	}
}
