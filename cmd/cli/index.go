package cli

import "github.com/spf13/cobra"

// RegisterRoutes attaches every command group defined in the cli package to
// the provided root command, and binds the shared --state flag that every
// subcommand reads its ledger snapshot through (see state.go). Grounded on
// the teacher's cmd/cli/index.go aggregator.
func RegisterRoutes(root *cobra.Command) {
	root.PersistentFlags().StringVar(&statePath, "state", defaultStatePath, "path to the ledger state file")
	root.AddCommand(
		EscrowCmd,
		ArbitratorCmd,
		DisputeCmd,
		ReputationCmd,
		DevnetCmd,
	)
}
