package core

import (
	"errors"
	"testing"
)

// disputedEscrow drives a fresh escrow through assign/submit/dispute and
// returns its key together with a five-member arbitrator pool ready for
// raise_dispute_case.
func disputedEscrow(t *testing.T, l *SimLedger) (escrowKey PublicKey, poster, worker, poolKey PublicKey, agents []PublicKey) {
	t.Helper()
	poster = newFundedWallet(l, 10_000_000_000)
	worker = newFundedWallet(l, 0)
	escrowKey, _ = createTestEscrow(t, l, poster, 10_000_000, MinReviewBuffer*4)

	l.SetSigners(poster)
	l.SetWritable(escrowKey)
	if _, err := AssignWorker(l, poster, escrowKey, worker); err != nil {
		t.Fatalf("AssignWorker: %v", err)
	}
	l.SetSigners(worker)
	if _, err := SubmitWork(l, worker, escrowKey, HashJobID([]byte("proof"))); err != nil {
		t.Fatalf("SubmitWork: %v", err)
	}
	l.AdvanceClock(MinReviewBuffer + 1)

	l.SetSigners(poster)
	if _, err := InitiateDispute(l, poster, escrowKey, ZeroPublicKey); err != nil {
		t.Fatalf("InitiateDispute: %v", err)
	}

	poolKey = setupPool(t, l, MinArbitratorStake)
	agents = registerNArbitrators(t, l, poolKey, ArbitratorsPerDispute, MinArbitratorStake)
	return
}

func raiseTestDispute(t *testing.T, l *SimLedger, poster, escrowKey, poolKey PublicKey) PublicKey {
	t.Helper()
	l.SetSigners(poster)
	l.SetWritable(escrowKey)
	c, err := RaiseDisputeCase(l, poster, escrowKey, poolKey, "worker delivered broken code")
	if err != nil {
		t.Fatalf("RaiseDisputeCase: %v", err)
	}
	key, _, err := l.FindProgramAddress(disputeCaseSeeds(escrowKey))
	if err != nil {
		t.Fatalf("FindProgramAddress: %v", err)
	}
	if c.Escrow != escrowKey {
		t.Fatalf("dispute case escrow mismatch")
	}
	return key
}

func TestPanelSelectionIsDistinct(t *testing.T) {
	l, _ := newTestLedger(t)
	escrowKey, poster, _, poolKey, _ := disputedEscrow(t, l)
	disputeKey := raiseTestDispute(t, l, poster, escrowKey, poolKey)

	_, c, err := loadDispute(l, disputeKey, false)
	if err != nil {
		t.Fatalf("loadDispute: %v", err)
	}
	seen := make(map[PublicKey]bool, ArbitratorsPerDispute)
	for _, a := range c.Arbitrators {
		if seen[a] {
			t.Fatalf("panel contains duplicate arbitrator %v", a)
		}
		seen[a] = true
	}
}

func TestRaiseDisputeRequiresFullPanel(t *testing.T) {
	l, _ := newTestLedger(t)
	poster := newFundedWallet(l, 10_000_000_000)
	worker := newFundedWallet(l, 0)
	escrowKey, _ := createTestEscrow(t, l, poster, 10_000_000, MinReviewBuffer*4)
	l.SetSigners(poster)
	l.SetWritable(escrowKey)
	AssignWorker(l, poster, escrowKey, worker)
	l.SetSigners(worker)
	SubmitWork(l, worker, escrowKey, HashJobID([]byte("proof")))
	l.AdvanceClock(MinReviewBuffer + 1)
	l.SetSigners(poster)
	InitiateDispute(l, poster, escrowKey, ZeroPublicKey)

	poolKey := setupPool(t, l, MinArbitratorStake)
	registerNArbitrators(t, l, poolKey, ArbitratorsPerDispute-1, MinArbitratorStake)

	l.SetSigners(poster)
	l.SetWritable(escrowKey)
	if _, err := RaiseDisputeCase(l, poster, escrowKey, poolKey, "short"); !errors.Is(err, ErrPoolEmpty) {
		t.Fatalf("expected ErrPoolEmpty, got %v", err)
	}
}

func TestOneVotePerArbitrator(t *testing.T) {
	l, _ := newTestLedger(t)
	escrowKey, poster, _, poolKey, _ := disputedEscrow(t, l)
	disputeKey := raiseTestDispute(t, l, poster, escrowKey, poolKey)

	_, c, _ := loadDispute(l, disputeKey, false)
	arbitrator := c.Arbitrators[0]

	l.SetSigners(arbitrator)
	l.SetWritable(disputeKey)
	if _, err := CastArbitrationVote(l, arbitrator, disputeKey, VoteForWorker); err != nil {
		t.Fatalf("CastArbitrationVote: %v", err)
	}
	if _, err := CastArbitrationVote(l, arbitrator, disputeKey, VoteForPoster); !errors.Is(err, ErrAlreadyVoted) {
		t.Fatalf("expected ErrAlreadyVoted, got %v", err)
	}
}

func TestCastVoteRejectsNonPanelist(t *testing.T) {
	l, _ := newTestLedger(t)
	escrowKey, poster, _, poolKey, _ := disputedEscrow(t, l)
	disputeKey := raiseTestDispute(t, l, poster, escrowKey, poolKey)

	outsider := newFundedWallet(l, 0)
	l.SetSigners(outsider)
	l.SetWritable(disputeKey)
	if _, err := CastArbitrationVote(l, outsider, disputeKey, VoteForWorker); !errors.Is(err, ErrNotSelectedArbitrator) {
		t.Fatalf("expected ErrNotSelectedArbitrator, got %v", err)
	}
}

func TestFinalizeWorkerWinsAndExecute(t *testing.T) {
	l, _ := newTestLedger(t)
	escrowKey, poster, worker, poolKey, _ := disputedEscrow(t, l)
	disputeKey := raiseTestDispute(t, l, poster, escrowKey, poolKey)

	_, c, _ := loadDispute(l, disputeKey, false)
	l.SetWritable(disputeKey)
	for i := 0; i < ArbitrationMajority; i++ {
		l.SetSigners(c.Arbitrators[i])
		if _, err := CastArbitrationVote(l, c.Arbitrators[i], disputeKey, VoteForWorker); err != nil {
			t.Fatalf("CastArbitrationVote[%d]: %v", i, err)
		}
	}

	l.SetWritable(disputeKey, escrowKey)
	finalized, err := FinalizeDisputeCase(l, escrowKey, disputeKey)
	if err != nil {
		t.Fatalf("FinalizeDisputeCase: %v", err)
	}
	if finalized.Resolution != ResolutionWorkerWins {
		t.Fatalf("expected ResolutionWorkerWins, got %v", finalized.Resolution)
	}

	feeAcct := newFundedWallet(l, 0)
	e, err := ExecuteDisputeResolution(l, escrowKey, disputeKey, worker, poster, feeAcct, ZeroPublicKey, ZeroPublicKey)
	if err != nil {
		t.Fatalf("ExecuteDisputeResolution: %v", err)
	}
	if e.Status != StatusReleased {
		t.Fatalf("expected StatusReleased, got %v", e.Status)
	}
	workerView, _ := l.Account(worker)
	feeView, _ := l.Account(feeAcct)
	if *workerView.Lamports+*feeView.Lamports != 10_000_000 {
		t.Fatalf("payout does not conserve balance")
	}
}

func TestFinalizeForcesSplitAfterGracePeriod(t *testing.T) {
	l, _ := newTestLedger(t)
	escrowKey, poster, worker, poolKey, agents := disputedEscrow(t, l)
	disputeKey := raiseTestDispute(t, l, poster, escrowKey, poolKey)
	_ = agents

	l.AdvanceClock(ArbitrationVotingWindow + ArbitrationGracePeriod + 1)
	l.SetWritable(disputeKey, escrowKey)
	finalized, err := FinalizeDisputeCase(l, escrowKey, disputeKey)
	if err != nil {
		t.Fatalf("FinalizeDisputeCase: %v", err)
	}
	if finalized.Resolution != ResolutionSplit {
		t.Fatalf("expected ResolutionSplit, got %v", finalized.Resolution)
	}

	feeAcct := newFundedWallet(l, 0)
	posterBefore, _ := l.Account(poster)
	balBefore := *posterBefore.Lamports
	e, err := ExecuteDisputeResolution(l, escrowKey, disputeKey, worker, poster, feeAcct, ZeroPublicKey, ZeroPublicKey)
	if err != nil {
		t.Fatalf("ExecuteDisputeResolution: %v", err)
	}
	if e.Status != StatusReleased {
		t.Fatalf("expected StatusReleased after split, got %v", e.Status)
	}
	workerView, _ := l.Account(worker)
	feeView, _ := l.Account(feeAcct)
	posterAfter, _ := l.Account(poster)
	total := *workerView.Lamports + *feeView.Lamports + (*posterAfter.Lamports - balBefore)
	if total != 10_000_000 {
		t.Fatalf("split payout does not conserve balance: total=%d", total)
	}
}

func TestTerminalEscrowStaysStable(t *testing.T) {
	l, _ := newTestLedger(t)
	poster := newFundedWallet(l, 10_000_000_000)
	escrowKey, _ := createTestEscrow(t, l, poster, 10_000_000, MinExpiry*2)
	l.SetSigners(poster)
	l.SetWritable(escrowKey)
	if _, err := CancelEscrow(l, poster, escrowKey); err != nil {
		t.Fatalf("CancelEscrow: %v", err)
	}
	if _, err := AssignWorker(l, poster, escrowKey, newFundedWallet(l, 0)); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus on terminal escrow, got %v", err)
	}
}

func TestUpdateArbitratorAccuracyIsIdempotent(t *testing.T) {
	l, _ := newTestLedger(t)
	escrowKey, poster, _, poolKey, _ := disputedEscrow(t, l)
	disputeKey := raiseTestDispute(t, l, poster, escrowKey, poolKey)

	_, c, _ := loadDispute(l, disputeKey, false)
	l.SetWritable(disputeKey)
	for i := 0; i < ArbitrationMajority; i++ {
		l.SetSigners(c.Arbitrators[i])
		CastArbitrationVote(l, c.Arbitrators[i], disputeKey, VoteForWorker)
	}
	l.SetWritable(disputeKey, escrowKey)
	FinalizeDisputeCase(l, escrowKey, disputeKey)

	entryKey, _, _ := l.FindProgramAddress(arbitratorEntrySeeds(c.Arbitrators[0]))
	payer := newFundedWallet(l, 10_000_000_000)
	l.SetSigners(payer)
	l.SetWritable(entryKey)
	if _, err := UpdateArbitratorAccuracy(l, payer, disputeKey, c.Arbitrators[0]); err != nil {
		t.Fatalf("UpdateArbitratorAccuracy: %v", err)
	}
	if _, err := UpdateArbitratorAccuracy(l, payer, disputeKey, c.Arbitrators[0]); !errors.Is(err, ErrAlreadyClaimed) {
		t.Fatalf("expected ErrAlreadyClaimed on second claim, got %v", err)
	}
}
