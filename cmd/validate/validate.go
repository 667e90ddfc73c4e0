// Package validate implements the "validate" subcommand: pure format checks
// for addresses, public keys and derivation paths. Invalid input exits with
// code 1 and no error output; the validators are boolean gates.
package validate

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github/chapool/wallet-core/internal/wallet/chains"
	"github/chapool/wallet-core/internal/wallet/identity"
)

// New returns the validate subcommand
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate address, public key and derivation path formats",
	}

	cmd.AddCommand(newAddress(), newPubkey(), newPath())
	return cmd
}

func report(ok bool) {
	if !ok {
		fmt.Println("invalid")
		os.Exit(1)
	}
	fmt.Println("valid")
}

func newAddress() *cobra.Command {
	var chain string

	cmd := &cobra.Command{
		Use:   "address <address>",
		Short: "Checks an address against a chain's canonical format",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			report(identity.ValidAddress(args[0], chains.Chain(chain)))
		},
	}

	cmd.Flags().StringVar(&chain, "chain", "", "chain tag (BTC, ETH, SOL, ...)")
	_ = cmd.MarkFlagRequired("chain")
	return cmd
}

func newPubkey() *cobra.Command {
	var curve string

	cmd := &cobra.Command{
		Use:   "pubkey <key>",
		Short: "Checks a compressed secp256k1 (hex) or ed25519 (base58) public key",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			switch curve {
			case "ed25519":
				report(identity.ValidEd25519PublicKey(args[0]))
			default:
				report(identity.ValidSecp256k1PublicKey(args[0]))
			}
		},
	}

	cmd.Flags().StringVar(&curve, "curve", "secp256k1", "curve family: secp256k1 or ed25519")
	return cmd
}

func newPath() *cobra.Command {
	var chain string

	cmd := &cobra.Command{
		Use:   "path <derivation-path>",
		Short: "Checks a derivation path against a chain's template",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			report(identity.ValidDerivationPath(args[0], chains.Chain(chain)))
		},
	}

	cmd.Flags().StringVar(&chain, "chain", "", "chain tag (BTC, ETH, SOL, ...)")
	_ = cmd.MarkFlagRequired("chain")
	return cmd
}
