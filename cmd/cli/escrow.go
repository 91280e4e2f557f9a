package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	core "jobescrow/core"
)

// ---------------------------- Controller ----------------------------
//
// Grounded on the teacher's EscrowController struct in cmd/cli/escrow.go:
// a thin wrapper per subcommand around the core package's handler
// functions. Each method declares the signer and writable accounts its
// handler checks; the ledger load/save is done once by the caller.

type EscrowController struct{ ledger *core.SimLedger }

func (c EscrowController) Create(poster core.PublicKey, jobID []byte, amount uint64, expirySeconds int64) (*core.JobEscrow, error) {
	c.ledger.SetSigners(poster)
	return core.CreateEscrow(c.ledger, poster, core.HashJobID(jobID), amount, expirySeconds)
}

func (c EscrowController) Assign(poster, escrowKey, worker core.PublicKey) (*core.JobEscrow, error) {
	c.ledger.SetSigners(poster)
	c.ledger.SetWritable(escrowKey)
	return core.AssignWorker(c.ledger, poster, escrowKey, worker)
}

func (c EscrowController) Submit(worker, escrowKey core.PublicKey, proof []byte) (*core.JobEscrow, error) {
	c.ledger.SetSigners(worker)
	c.ledger.SetWritable(escrowKey)
	return core.SubmitWork(c.ledger, worker, escrowKey, core.HashJobID(proof))
}

func (c EscrowController) Approve(poster, escrowKey, worker, platformFeeAccount core.PublicKey) (*core.JobEscrow, error) {
	c.ledger.SetSigners(poster)
	c.ledger.SetWritable(escrowKey)
	return core.ApproveWork(c.ledger, poster, escrowKey, worker, platformFeeAccount)
}

func (c EscrowController) AutoRelease(escrowKey, worker, platformFeeAccount core.PublicKey) (*core.JobEscrow, error) {
	c.ledger.SetWritable(escrowKey)
	return core.AutoRelease(c.ledger, escrowKey, worker, platformFeeAccount)
}

func (c EscrowController) ReleaseToWorker(platformAuthority, escrowKey, worker, platformFeeAccount, poolKey core.PublicKey) (*core.JobEscrow, error) {
	c.ledger.SetSigners(platformAuthority)
	c.ledger.SetWritable(escrowKey)
	return core.ReleaseToWorker(c.ledger, platformAuthority, escrowKey, worker, platformFeeAccount, poolKey)
}

func (c EscrowController) RefundToPoster(platformAuthority, escrowKey, poolKey core.PublicKey) (*core.JobEscrow, error) {
	c.ledger.SetSigners(platformAuthority)
	c.ledger.SetWritable(escrowKey)
	return core.RefundToPoster(c.ledger, platformAuthority, escrowKey, poolKey)
}

func (c EscrowController) Dispute(signer, escrowKey, poolKey core.PublicKey) (*core.JobEscrow, error) {
	c.ledger.SetSigners(signer)
	c.ledger.SetWritable(escrowKey)
	return core.InitiateDispute(c.ledger, signer, escrowKey, poolKey)
}

func (c EscrowController) Cancel(poster, escrowKey core.PublicKey) (*core.JobEscrow, error) {
	c.ledger.SetSigners(poster)
	c.ledger.SetWritable(escrowKey)
	return core.CancelEscrow(c.ledger, poster, escrowKey)
}

func (c EscrowController) ClaimExpired(poster, escrowKey core.PublicKey) (*core.JobEscrow, error) {
	c.ledger.SetSigners(poster)
	c.ledger.SetWritable(escrowKey)
	return core.ClaimExpired(c.ledger, poster, escrowKey)
}

func (c EscrowController) Close(poster, escrowKey core.PublicKey) error {
	c.ledger.SetSigners(poster)
	c.ledger.SetWritable(escrowKey)
	return core.CloseEscrow(c.ledger, poster, escrowKey)
}

func (c EscrowController) Get(jobID []byte, poster core.PublicKey) (*core.JobEscrow, error) {
	key, _, err := core.EscrowPDA(c.ledger, core.HashJobID(jobID), poster)
	if err != nil {
		return nil, err
	}
	v, ok := c.ledger.Account(key)
	if !ok {
		return nil, fmt.Errorf("no escrow for this job/poster pair")
	}
	return core.DecodeJobEscrow(v.Data)
}

// ------------------------------ CLI ---------------------------------

var escrowCmd = &cobra.Command{
	Use:   "escrow",
	Short: "manage job escrows",
}

func withLedger(cmd *cobra.Command, fn func(*core.SimLedger) error) error {
	l, err := loadLedger()
	if err != nil {
		return err
	}
	if err := fn(l); err != nil {
		return err
	}
	return saveLedger(l)
}

var escrowCreateCmd = &cobra.Command{
	Use:   "create <poster> <job-id> <amount-lamports> <expiry-seconds>",
	Short: "lock funds for a new job",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		poster, err := parseKey(args[0])
		if err != nil {
			return err
		}
		amount, err := strconv.ParseUint(args[2], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid amount: %w", err)
		}
		expiry, err := strconv.ParseInt(args[3], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid expiry: %w", err)
		}
		return withLedger(cmd, func(l *core.SimLedger) error {
			e, err := EscrowController{l}.Create(poster, []byte(args[1]), amount, expiry)
			if err != nil {
				return err
			}
			printJSON(cmd.OutOrStdout(), e)
			return nil
		})
	},
}

var escrowAssignCmd = &cobra.Command{
	Use:   "assign <poster> <escrow-pda> <worker>",
	Short: "assign a worker to an active escrow",
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
		worker, err := parseKey(args[2])
		if err != nil {
			return err
		}
		return withLedger(cmd, func(l *core.SimLedger) error {
			e, err := EscrowController{l}.Assign(poster, escrowKey, worker)
			if err != nil {
				return err
			}
			printJSON(cmd.OutOrStdout(), e)
			return nil
		})
	},
}

var escrowSubmitCmd = &cobra.Command{
	Use:   "submit <worker> <escrow-pda> <proof>",
	Short: "submit proof of completed work",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		worker, err := parseKey(args[0])
		if err != nil {
			return err
		}
		escrowKey, err := parseKey(args[1])
		if err != nil {
			return err
		}
		return withLedger(cmd, func(l *core.SimLedger) error {
			e, err := EscrowController{l}.Submit(worker, escrowKey, []byte(args[2]))
			if err != nil {
				return err
			}
			printJSON(cmd.OutOrStdout(), e)
			return nil
		})
	},
}

var escrowApproveCmd = &cobra.Command{
	Use:   "approve <poster> <escrow-pda> <worker> <platform-fee-account>",
	Short: "poster approves submitted work, releasing funds to the worker",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		poster, err := parseKey(args[0])
		if err != nil {
			return err
		}
		escrowKey, err := parseKey(args[1])
		if err != nil {
			return err
		}
		worker, err := parseKey(args[2])
		if err != nil {
			return err
		}
		feeAccount, err := parseKey(args[3])
		if err != nil {
			return err
		}
		return withLedger(cmd, func(l *core.SimLedger) error {
			e, err := EscrowController{l}.Approve(poster, escrowKey, worker, feeAccount)
			if err != nil {
				return err
			}
			printJSON(cmd.OutOrStdout(), e)
			return nil
		})
	},
}

var escrowAutoReleaseCmd = &cobra.Command{
	Use:   "auto-release <escrow-pda> <worker> <platform-fee-account>",
	Short: "permissionlessly release funds once the review window has elapsed",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		escrowKey, err := parseKey(args[0])
		if err != nil {
			return err
		}
		worker, err := parseKey(args[1])
		if err != nil {
			return err
		}
		feeAccount, err := parseKey(args[2])
		if err != nil {
			return err
		}
		return withLedger(cmd, func(l *core.SimLedger) error {
			e, err := EscrowController{l}.AutoRelease(escrowKey, worker, feeAccount)
			if err != nil {
				return err
			}
			printJSON(cmd.OutOrStdout(), e)
			return nil
		})
	},
}

var escrowReleaseToWorkerCmd = &cobra.Command{
	Use:   "release-to-worker <platform-authority> <escrow-pda> <worker> <platform-fee-account> <pool-pda>",
	Short: "platform authority releases funds to the worker on the poster's behalf",
	Args:  cobra.ExactArgs(5),
	RunE: func(cmd *cobra.Command, args []string) error {
		keys := make([]core.PublicKey, 5)
		for i, a := range args {
			k, err := parseKey(a)
			if err != nil {
				return err
			}
			keys[i] = k
		}
		return withLedger(cmd, func(l *core.SimLedger) error {
			e, err := EscrowController{l}.ReleaseToWorker(keys[0], keys[1], keys[2], keys[3], keys[4])
			if err != nil {
				return err
			}
			printJSON(cmd.OutOrStdout(), e)
			return nil
		})
	},
}

var escrowRefundCmd = &cobra.Command{
	Use:   "refund <platform-authority> <escrow-pda> <pool-pda>",
	Short: "platform authority refunds a disputed escrow to the poster after the timelock",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		authority, err := parseKey(args[0])
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
			e, err := EscrowController{l}.RefundToPoster(authority, escrowKey, poolKey)
			if err != nil {
				return err
			}
			printJSON(cmd.OutOrStdout(), e)
			return nil
		})
	},
}

var escrowDisputeCmd = &cobra.Command{
	Use:   "dispute <signer> <escrow-pda> <pool-pda>",
	Short: "poster or platform authority flags the escrow as disputed",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		signer, err := parseKey(args[0])
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
			e, err := EscrowController{l}.Dispute(signer, escrowKey, poolKey)
			if err != nil {
				return err
			}
			printJSON(cmd.OutOrStdout(), e)
			return nil
		})
	},
}

var escrowCancelCmd = &cobra.Command{
	Use:   "cancel <poster> <escrow-pda>",
	Short: "cancel an escrow before a worker has been assigned",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		poster, err := parseKey(args[0])
		if err != nil {
			return err
		}
		escrowKey, err := parseKey(args[1])
		if err != nil {
			return err
		}
		return withLedger(cmd, func(l *core.SimLedger) error {
			e, err := EscrowController{l}.Cancel(poster, escrowKey)
			if err != nil {
				return err
			}
			printJSON(cmd.OutOrStdout(), e)
			return nil
		})
	},
}

var escrowClaimExpiredCmd = &cobra.Command{
	Use:   "claim-expired <poster> <escrow-pda>",
	Short: "poster reclaims funds from an escrow that expired before its work was accepted",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		poster, err := parseKey(args[0])
		if err != nil {
			return err
		}
		escrowKey, err := parseKey(args[1])
		if err != nil {
			return err
		}
		return withLedger(cmd, func(l *core.SimLedger) error {
			e, err := EscrowController{l}.ClaimExpired(poster, escrowKey)
			if err != nil {
				return err
			}
			printJSON(cmd.OutOrStdout(), e)
			return nil
		})
	},
}

var escrowCloseCmd = &cobra.Command{
	Use:   "close <poster> <escrow-pda>",
	Short: "reclaim rent from a terminal escrow account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		poster, err := parseKey(args[0])
		if err != nil {
			return err
		}
		escrowKey, err := parseKey(args[1])
		if err != nil {
			return err
		}
		return withLedger(cmd, func(l *core.SimLedger) error {
			return EscrowController{l}.Close(poster, escrowKey)
		})
	},
}

var escrowInfoCmd = &cobra.Command{
	Use:   "info <poster> <job-id>",
	Short: "show an escrow's decoded account state",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		poster, err := parseKey(args[0])
		if err != nil {
			return err
		}
		l, err := loadLedger()
		if err != nil {
			return err
		}
		e, err := EscrowController{l}.Get([]byte(args[1]), poster)
		if err != nil {
			return err
		}
		printJSON(cmd.OutOrStdout(), e)
		return nil
	},
}

func init() {
	escrowCmd.AddCommand(
		escrowCreateCmd,
		escrowAssignCmd,
		escrowSubmitCmd,
		escrowApproveCmd,
		escrowAutoReleaseCmd,
		escrowReleaseToWorkerCmd,
		escrowRefundCmd,
		escrowDisputeCmd,
		escrowCancelCmd,
		escrowClaimExpiredCmd,
		escrowCloseCmd,
		escrowInfoCmd,
	)
}

var EscrowCmd = escrowCmd
