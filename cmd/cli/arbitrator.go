package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	core "jobescrow/core"
)

type ArbitratorController struct{ ledger *core.SimLedger }

func (c ArbitratorController) InitPool(authority core.PublicKey, minStake uint64) (*core.ArbitratorPool, error) {
	c.ledger.SetSigners(authority)
	return core.InitArbitratorPool(c.ledger, authority, minStake)
}

func (c ArbitratorController) Register(agent, poolKey core.PublicKey, stake uint64) (*core.ArbitratorEntry, error) {
	c.ledger.SetSigners(agent)
	c.ledger.SetWritable(poolKey)
	return core.RegisterArbitrator(c.ledger, agent, poolKey, stake)
}

func (c ArbitratorController) Unregister(agent, poolKey, entryKey core.PublicKey) error {
	c.ledger.SetSigners(agent)
	c.ledger.SetWritable(poolKey, entryKey)
	return core.UnregisterArbitrator(c.ledger, agent, poolKey, entryKey)
}

func (c ArbitratorController) Remove(authority, poolKey, entryKey, agent core.PublicKey) error {
	c.ledger.SetSigners(authority)
	c.ledger.SetWritable(poolKey, entryKey)
	return core.RemoveArbitrator(c.ledger, authority, poolKey, entryKey, agent)
}

func (c ArbitratorController) Close(agent, entryKey core.PublicKey) error {
	c.ledger.SetSigners(agent)
	c.ledger.SetWritable(entryKey)
	return core.CloseArbitratorAccount(c.ledger, agent, entryKey)
}

var arbitratorCmd = &cobra.Command{
	Use:   "arbitrator",
	Short: "manage the arbitrator pool and individual registrations",
}

var arbitratorInitPoolCmd = &cobra.Command{
	Use:   "init-pool <authority> <min-stake-lamports>",
	Short: "create the singleton arbitrator pool",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		authority, err := parseKey(args[0])
		if err != nil {
			return err
		}
		minStake, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid min-stake: %w", err)
		}
		return withLedger(cmd, func(l *core.SimLedger) error {
			p, err := ArbitratorController{l}.InitPool(authority, minStake)
			if err != nil {
				return err
			}
			printJSON(cmd.OutOrStdout(), p)
			return nil
		})
	},
}

var arbitratorRegisterCmd = &cobra.Command{
	Use:   "register <agent> <pool-pda> <stake-lamports>",
	Short: "stake into the pool and become eligible for panel selection",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		agent, err := parseKey(args[0])
		if err != nil {
			return err
		}
		poolKey, err := parseKey(args[1])
		if err != nil {
			return err
		}
		stake, err := strconv.ParseUint(args[2], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid stake: %w", err)
		}
		return withLedger(cmd, func(l *core.SimLedger) error {
			e, err := ArbitratorController{l}.Register(agent, poolKey, stake)
			if err != nil {
				return err
			}
			printJSON(cmd.OutOrStdout(), e)
			return nil
		})
	},
}

var arbitratorUnregisterCmd = &cobra.Command{
	Use:   "unregister <agent> <pool-pda> <entry-pda>",
	Short: "leave the pool and reclaim stake, if not assigned to an open case",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		agent, err := parseKey(args[0])
		if err != nil {
			return err
		}
		poolKey, err := parseKey(args[1])
		if err != nil {
			return err
		}
		entryKey, err := parseKey(args[2])
		if err != nil {
			return err
		}
		return withLedger(cmd, func(l *core.SimLedger) error {
			return ArbitratorController{l}.Unregister(agent, poolKey, entryKey)
		})
	},
}

var arbitratorRemoveCmd = &cobra.Command{
	Use:   "remove <authority> <pool-pda> <entry-pda> <agent>",
	Short: "platform authority force-removes an arbitrator (no slashing)",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		keys := make([]core.PublicKey, 4)
		for i, a := range args {
			k, err := parseKey(a)
			if err != nil {
				return err
			}
			keys[i] = k
		}
		return withLedger(cmd, func(l *core.SimLedger) error {
			return ArbitratorController{l}.Remove(keys[0], keys[1], keys[2], keys[3])
		})
	},
}

var arbitratorCloseCmd = &cobra.Command{
	Use:   "close <agent> <entry-pda>",
	Short: "reclaim rent from an inactive arbitrator entry account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		agent, err := parseKey(args[0])
		if err != nil {
			return err
		}
		entryKey, err := parseKey(args[1])
		if err != nil {
			return err
		}
		return withLedger(cmd, func(l *core.SimLedger) error {
			return ArbitratorController{l}.Close(agent, entryKey)
		})
	},
}

func init() {
	arbitratorCmd.AddCommand(
		arbitratorInitPoolCmd,
		arbitratorRegisterCmd,
		arbitratorUnregisterCmd,
		arbitratorRemoveCmd,
		arbitratorCloseCmd,
	)
}

var ArbitratorCmd = arbitratorCmd
