package core

import "math/bits"

// Fee and payout arithmetic (spec §4.8): a flat PlatformFeeBps taken off the
// top of every worker payment, the remainder to the worker, using checked
// (non-underflowing) uint64 math throughout. Grounded on the teacher's
// Transfer(ctx, AssetRef{...}) calls in core/escrow.go, split here into a
// pure function (splitPayout) plus the ledger-mutating wrapper the escrow
// and dispute handlers call.

// splitPayout divides amount into (workerShare, platformFee) at
// PlatformFeeBps basis points, fee first, worker keeping the remainder so
// the split always sums back to amount exactly.
func splitPayout(amount uint64) (workerShare, platformFee uint64, err error) {
	hi, lo := bits.Mul64(amount, PlatformFeeBps)
	fee, _ := bits.Div64(hi, lo, 10000)
	remainder, err := checkedSub(amount, fee)
	if err != nil {
		return 0, 0, err
	}
	return remainder, fee, nil
}

// payoutToWorker moves the escrowed amount (not the rent) to worker and
// platformFeeAccount per splitPayout; used by every handler that releases
// an escrow to its worker.
func payoutToWorker(ledger Ledger, escrowKey PublicKey, e *JobEscrow, worker, platformFeeAccount PublicKey) error {
	if worker != e.Worker {
		return ErrInvalidWorker
	}
	workerShare, fee, err := splitPayout(e.Amount)
	if err != nil {
		return err
	}
	if err := ledger.DebitCredit(escrowKey, worker, workerShare); err != nil {
		return err
	}
	if fee > 0 {
		if err := ledger.DebitCredit(escrowKey, platformFeeAccount, fee); err != nil {
			return err
		}
	}
	return nil
}

// splitDisputeResolution implements the DisputeSplit payout (spec §4.7/§4.8):
// the fee is taken off the full amount first, then the remainder is split
// evenly between worker and poster — the fee is never computed on a half,
// and the poster's half carries no extra fee of its own.
func splitDisputeResolution(ledger Ledger, escrowKey PublicKey, e *JobEscrow, worker, poster, platformFeeAccount PublicKey) error {
	remaining, fee, err := splitPayout(e.Amount)
	if err != nil {
		return err
	}
	workerHalf := remaining / 2
	posterHalf := remaining - workerHalf
	if workerHalf > 0 {
		if err := ledger.DebitCredit(escrowKey, worker, workerHalf); err != nil {
			return err
		}
	}
	if fee > 0 {
		if err := ledger.DebitCredit(escrowKey, platformFeeAccount, fee); err != nil {
			return err
		}
	}
	if posterHalf > 0 {
		if err := ledger.DebitCredit(escrowKey, poster, posterHalf); err != nil {
			return err
		}
	}
	return nil
}
