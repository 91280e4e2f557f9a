package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	core "jobescrow/core"
)

type ReputationController struct{ ledger *core.SimLedger }

func (c ReputationController) Init(payer, agent core.PublicKey) (*core.AgentReputation, error) {
	c.ledger.SetSigners(payer)
	return core.InitReputation(c.ledger, payer, agent)
}

func (c ReputationController) ReleaseWithReputation(poster, escrowKey, worker, feeAccount, workerRep, posterRep core.PublicKey) (*core.JobEscrow, error) {
	c.ledger.SetSigners(poster)
	c.ledger.SetWritable(escrowKey, workerRep, posterRep)
	return core.ReleaseWithReputation(c.ledger, poster, escrowKey, worker, feeAccount, workerRep, posterRep)
}

func (c ReputationController) Get(agent core.PublicKey) (*core.AgentReputation, error) {
	key, _, err := core.ReputationPDA(c.ledger, agent)
	if err != nil {
		return nil, err
	}
	v, ok := c.ledger.Account(key)
	if !ok {
		return nil, fmt.Errorf("no reputation account for this agent")
	}
	return core.DecodeAgentReputation(v.Data)
}

var reputationCmd = &cobra.Command{
	Use:   "reputation",
	Short: "manage agent reputation accounts",
}

var reputationInitCmd = &cobra.Command{
	Use:   "init <payer> <agent>",
	Short: "create an agent's reputation account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		payer, err := parseKey(args[0])
		if err != nil {
			return err
		}
		agent, err := parseKey(args[1])
		if err != nil {
			return err
		}
		return withLedger(cmd, func(l *core.SimLedger) error {
			r, err := ReputationController{l}.Init(payer, agent)
			if err != nil {
				return err
			}
			printJSON(cmd.OutOrStdout(), r)
			return nil
		})
	},
}

var reputationReleaseCmd = &cobra.Command{
	Use:   "release <poster> <escrow-pda> <worker> <platform-fee-account> <worker-reputation> <poster-reputation>",
	Short: "approve work and update both parties' reputation in one call",
	Args:  cobra.ExactArgs(6),
	RunE: func(cmd *cobra.Command, args []string) error {
		keys := make([]core.PublicKey, 6)
		for i, a := range args {
			k, err := parseKey(a)
			if err != nil {
				return err
			}
			keys[i] = k
		}
		return withLedger(cmd, func(l *core.SimLedger) error {
			e, err := ReputationController{l}.ReleaseWithReputation(keys[0], keys[1], keys[2], keys[3], keys[4], keys[5])
			if err != nil {
				return err
			}
			printJSON(cmd.OutOrStdout(), e)
			return nil
		})
	},
}

var reputationInfoCmd = &cobra.Command{
	Use:   "info <agent>",
	Short: "show an agent's decoded reputation account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		agent, err := parseKey(args[0])
		if err != nil {
			return err
		}
		l, err := loadLedger()
		if err != nil {
			return err
		}
		r, err := ReputationController{l}.Get(agent)
		if err != nil {
			return err
		}
		printJSON(cmd.OutOrStdout(), r)
		return nil
	},
}

func init() {
	reputationCmd.AddCommand(reputationInitCmd, reputationReleaseCmd, reputationInfoCmd)
}

var ReputationCmd = reputationCmd
