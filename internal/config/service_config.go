// Package config holds the env-driven service configuration. The crypto core
// itself is configuration-free; these settings only shape the CLI surface and
// logging.
package config

import (
	"github.com/rs/zerolog"

	"github/chapool/wallet-core/internal/util"
)

// LoggerConfig controls zerolog behaviour.
type LoggerConfig struct {
	Level              zerolog.Level
	PrettyPrintConsole bool
}

// WalletConfig carries CLI defaults for the wallet core.
type WalletConfig struct {
	// DefaultMnemonicWords is used when no word count is requested (12 or 24).
	DefaultMnemonicWords int
	// MnemonicEnv names the environment variable the derive command reads the
	// mnemonic from, so the phrase never appears in shell history.
	MnemonicEnv string
}

// Service is the root configuration of the application.
type Service struct {
	Logger LoggerConfig
	Wallet WalletConfig
}

// DefaultServiceConfigFromEnv returns the service config resolved against the
// current environment.
func DefaultServiceConfigFromEnv() Service {
	return Service{
		Logger: LoggerConfig{
			Level:              util.LogLevelFromString(util.GetEnv("WALLETCORE_LOGGER_LEVEL", zerolog.InfoLevel.String())),
			PrettyPrintConsole: util.GetEnvAsBool("WALLETCORE_LOGGER_PRETTY_PRINT_CONSOLE", false),
		},
		Wallet: WalletConfig{
			DefaultMnemonicWords: util.GetEnvAsInt("WALLETCORE_DEFAULT_MNEMONIC_WORDS", 12),
			MnemonicEnv:          util.GetEnv("WALLETCORE_MNEMONIC_ENV", "WALLETCORE_MNEMONIC"),
		},
	}
}
