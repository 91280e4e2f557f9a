package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	core "jobescrow/core"
)

type DisputeController struct{ ledger *core.SimLedger }

func (c DisputeController) Raise(initiator, escrowKey, poolKey core.PublicKey, reason string) (*core.DisputeCase, error) {
	c.ledger.SetSigners(initiator)
	c.ledger.SetWritable(escrowKey)
	return core.RaiseDisputeCase(c.ledger, initiator, escrowKey, poolKey, reason)
}

func (c DisputeController) Vote(arbitrator, disputeKey core.PublicKey, vote core.Vote) (*core.DisputeCase, error) {
	c.ledger.SetSigners(arbitrator)
	c.ledger.SetWritable(disputeKey)
	return core.CastArbitrationVote(c.ledger, arbitrator, disputeKey, vote)
}

func (c DisputeController) Finalize(escrowKey, disputeKey core.PublicKey) (*core.DisputeCase, error) {
	c.ledger.SetWritable(escrowKey, disputeKey)
	return core.FinalizeDisputeCase(c.ledger, escrowKey, disputeKey)
}

func (c DisputeController) Execute(escrowKey, disputeKey, worker, poster, feeAccount, workerRep, posterRep core.PublicKey) (*core.JobEscrow, error) {
	c.ledger.SetWritable(escrowKey, disputeKey, workerRep, posterRep)
	return core.ExecuteDisputeResolution(c.ledger, escrowKey, disputeKey, worker, poster, feeAccount, workerRep, posterRep)
}

func (c DisputeController) UpdateAccuracy(payer, disputeKey, arbitrator core.PublicKey) (*core.ArbitratorEntry, error) {
	c.ledger.SetSigners(payer)
	entryKey, _, err := core.ArbitratorEntryPDA(c.ledger, arbitrator)
	if err != nil {
		return nil, err
	}
	c.ledger.SetWritable(entryKey)
	return core.UpdateArbitratorAccuracy(c.ledger, payer, disputeKey, arbitrator)
}

func (c DisputeController) ClaimExpired(poster, escrowKey, disputeKey core.PublicKey) (*core.JobEscrow, error) {
	c.ledger.SetSigners(poster)
	c.ledger.SetWritable(escrowKey, disputeKey)
	return core.ClaimExpiredArbitration(c.ledger, poster, escrowKey, disputeKey)
}

func (c DisputeController) Close(signer, disputeKey, expectedAuthority core.PublicKey) error {
	c.ledger.SetSigners(signer)
	c.ledger.SetWritable(disputeKey)
	return core.CloseDisputeCase(c.ledger, signer, disputeKey, expectedAuthority)
}

var disputeCmd = &cobra.Command{
	Use:   "dispute",
	Short: "raise, vote on, and resolve arbitration cases",
}

func parseVote(s string) (core.Vote, error) {
	switch s {
	case "worker":
		return core.VoteForWorker, nil
	case "poster":
		return core.VoteForPoster, nil
	default:
		return core.VoteNone, fmt.Errorf("invalid vote %q: must be \"worker\" or \"poster\"", s)
	}
}

var disputeRaiseCmd = &cobra.Command{
	Use:   "raise <initiator> <escrow-pda> <pool-pda> <reason>",
	Short: "raise a dispute case and select a panel of arbitrators",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		initiator, err := parseKey(args[0])
		if err != nil {
			return err
		}
		escrowKey, err := parseKey(args[1])
		if err != nil {
			return err
		}
		poolKey, err := parseKey(args[2])
		if err != nil {
			return err
		}
		return withLedger(cmd, func(l *core.SimLedger) error {
			c, err := DisputeController{l}.Raise(initiator, escrowKey, poolKey, args[3])
			if err != nil {
				return err
			}
			printJSON(cmd.OutOrStdout(), c)
			return nil
		})
	},
}

var disputeVoteCmd = &cobra.Command{
	Use:   "vote <arbitrator> <dispute-pda> <worker|poster>",
	Short: "cast a panel member's vote",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		arbitrator, err := parseKey(args[0])
		if err != nil {
			return err
		}
		disputeKey, err := parseKey(args[1])
		if err != nil {
			return err
		}
		vote, err := parseVote(args[2])
		if err != nil {
			return err
		}
		return withLedger(cmd, func(l *core.SimLedger) error {
			c, err := DisputeController{l}.Vote(arbitrator, disputeKey, vote)
			if err != nil {
				return err
			}
			printJSON(cmd.OutOrStdout(), c)
			return nil
		})
	},
}

var disputeFinalizeCmd = &cobra.Command{
	Use:   "finalize <escrow-pda> <dispute-pda>",
	Short: "record the case's resolution from votes (or force-split after the grace period)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		escrowKey, err := parseKey(args[0])
		if err != nil {
			return err
		}
		disputeKey, err := parseKey(args[1])
		if err != nil {
			return err
		}
		return withLedger(cmd, func(l *core.SimLedger) error {
			c, err := DisputeController{l}.Finalize(escrowKey, disputeKey)
			if err != nil {
				return err
			}
			printJSON(cmd.OutOrStdout(), c)
			return nil
		})
	},
}

var disputeExecuteCmd = &cobra.Command{
	Use:   "execute <escrow-pda> <dispute-pda> <worker> <poster> <platform-fee-account> <worker-reputation> <poster-reputation>",
	Short: "move funds per the case's recorded resolution",
	Args:  cobra.ExactArgs(7),
	RunE: func(cmd *cobra.Command, args []string) error {
		keys := make([]core.PublicKey, 7)
		for i, a := range args {
			k, err := parseKey(a)
			if err != nil {
				return err
			}
			keys[i] = k
		}
		return withLedger(cmd, func(l *core.SimLedger) error {
			e, err := DisputeController{l}.Execute(keys[0], keys[1], keys[2], keys[3], keys[4], keys[5], keys[6])
			if err != nil {
				return err
			}
			printJSON(cmd.OutOrStdout(), e)
			return nil
		})
	},
}

var disputeAccuracyCmd = &cobra.Command{
	Use:   "update-accuracy <payer> <dispute-pda> <arbitrator>",
	Short: "credit an arbitrator's cases-correct count once, after finalization",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		payer, err := parseKey(args[0])
		if err != nil {
			return err
		}
		disputeKey, err := parseKey(args[1])
		if err != nil {
			return err
		}
		arbitrator, err := parseKey(args[2])
		if err != nil {
			return err
		}
		return withLedger(cmd, func(l *core.SimLedger) error {
			e, err := DisputeController{l}.UpdateAccuracy(payer, disputeKey, arbitrator)
			if err != nil {
				return err
			}
			printJSON(cmd.OutOrStdout(), e)
			return nil
		})
	},
}

var disputeClaimExpiredCmd = &cobra.Command{
	Use:   "claim-expired <poster> <escrow-pda> <dispute-pda>",
	Short: "poster reclaims funds if the panel never reached or recorded a resolution",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		poster, err := parseKey(args[0])
		if err != nil {
			return err
		}
		escrowKey, err := parseKey(args[1])
		if err != nil {
			return err
		}
		disputeKey, err := parseKey(args[2])
		if err != nil {
			return err
		}
		return withLedger(cmd, func(l *core.SimLedger) error {
			e, err := DisputeController{l}.ClaimExpired(poster, escrowKey, disputeKey)
			if err != nil {
				return err
			}
			printJSON(cmd.OutOrStdout(), e)
			return nil
		})
	},
}

var disputeCloseCmd = &cobra.Command{
	Use:   "close <signer> <dispute-pda> <expected-authority>",
	Short: "reclaim rent from a resolved dispute case",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		signer, err := parseKey(args[0])
		if err != nil {
			return err
		}
		disputeKey, err := parseKey(args[1])
		if err != nil {
			return err
		}
		expected, err := parseKey(args[2])
		if err != nil {
			return err
		}
		return withLedger(cmd, func(l *core.SimLedger) error {
			return DisputeController{l}.Close(signer, disputeKey, expected)
		})
	},
}

func init() {
	disputeCmd.AddCommand(
		disputeRaiseCmd,
		disputeVoteCmd,
		disputeFinalizeCmd,
		disputeExecuteCmd,
		disputeAccuracyCmd,
		disputeClaimExpiredCmd,
		disputeCloseCmd,
	)
}

var DisputeCmd = disputeCmd
