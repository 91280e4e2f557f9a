package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	core "jobescrow/core"
)

// genesisConfig is the YAML shape read by `devnet genesis`, grounded on the
// teacher's testnetStart config-file loading in cmd/cli/devnet.go: a plain
// struct unmarshaled with yaml.v3, no env overlay.
type genesisConfig struct {
	ProgramID         string           `yaml:"program_id"`
	PlatformAuthority string           `yaml:"platform_authority"`
	StartUnixTime     int64            `yaml:"start_unix_time"`
	FundedWallets     []genesisWallet  `yaml:"funded_wallets"`
}

type genesisWallet struct {
	Address  string `yaml:"address"`
	Lamports uint64 `yaml:"lamports"`
}

func devnetGenesis(cmd *cobra.Command, args []string) error {
	b, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	var cfg genesisConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return fmt.Errorf("parse genesis file: %w", err)
	}
	programID, err := parseKey(cfg.ProgramID)
	if err != nil {
		return err
	}
	l := core.NewSimLedger(programID, cfg.StartUnixTime)
	for _, w := range cfg.FundedWallets {
		addr, err := parseKey(w.Address)
		if err != nil {
			return err
		}
		l.Fund(addr, w.Lamports)
	}
	if err := saveLedger(l); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "genesis written to %s: %d funded wallet(s)\n", statePath, len(cfg.FundedWallets))
	return nil
}

func devnetAdvanceClock(cmd *cobra.Command, args []string) error {
	var seconds int64
	if _, err := fmt.Sscanf(args[0], "%d", &seconds); err != nil {
		return fmt.Errorf("invalid seconds: %s", args[0])
	}
	l, err := loadLedger()
	if err != nil {
		return err
	}
	l.AdvanceClock(seconds)
	if err := saveLedger(l); err != nil {
		return err
	}
	unix, slot := l.Clock()
	fmt.Fprintf(cmd.OutOrStdout(), "clock advanced: unix_time=%d slot=%d\n", unix, slot)
	return nil
}

func devnetFund(cmd *cobra.Command, args []string) error {
	addr, err := parseKey(args[0])
	if err != nil {
		return err
	}
	var lamports uint64
	if _, err := fmt.Sscanf(args[1], "%d", &lamports); err != nil {
		return fmt.Errorf("invalid lamports: %s", args[1])
	}
	l, err := loadLedger()
	if err != nil {
		return err
	}
	l.Fund(addr, lamports)
	if err := saveLedger(l); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "funded %s with %d lamports\n", addr, lamports)
	return nil
}

var devnetCmd = &cobra.Command{Use: "devnet", Short: "local in-memory devnet state"}

var devnetGenesisCmd = &cobra.Command{
	Use:   "genesis <genesis.yaml>",
	Short: "write a fresh ledger state file from a YAML genesis description",
	Args:  cobra.ExactArgs(1),
	RunE:  devnetGenesis,
}

var devnetAdvanceClockCmd = &cobra.Command{
	Use:   "advance-clock <seconds>",
	Short: "move the simulated clock forward, for exercising timelocks",
	Args:  cobra.ExactArgs(1),
	RunE:  devnetAdvanceClock,
}

var devnetFundCmd = &cobra.Command{
	Use:   "fund <address> <lamports>",
	Short: "credit a system-owned wallet account",
	Args:  cobra.ExactArgs(2),
	RunE:  devnetFund,
}

func init() {
	devnetCmd.AddCommand(devnetGenesisCmd, devnetAdvanceClockCmd, devnetFundCmd)
}

var DevnetCmd = devnetCmd
