package core

import (
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
)

const testStartTime = 1_800_000_000

func newTestLedger(t *testing.T) (*SimLedger, PublicKey) {
	t.Helper()
	programID := solana.NewWallet().PublicKey()
	return NewSimLedger(programID, testStartTime), programID
}

func newFundedWallet(l *SimLedger, lamports uint64) PublicKey {
	key := solana.NewWallet().PublicKey()
	l.Fund(key, lamports)
	return key
}

func createTestEscrow(t *testing.T, l *SimLedger, poster PublicKey, amount uint64, expiry int64) (PublicKey, *JobEscrow) {
	t.Helper()
	jobIDHash := HashJobID([]byte("job-1"))
	l.SetSigners(poster)
	e, err := CreateEscrow(l, poster, jobIDHash, amount, expiry)
	if err != nil {
		t.Fatalf("CreateEscrow: %v", err)
	}
	key, _, err := l.FindProgramAddress(escrowSeeds(jobIDHash, poster))
	if err != nil {
		t.Fatalf("FindProgramAddress: %v", err)
	}
	return key, e
}

func TestCreateEscrowHappyPath(t *testing.T) {
	l, _ := newTestLedger(t)
	poster := newFundedWallet(l, 10_000_000_000)

	escrowKey, e := createTestEscrow(t, l, poster, 5_000_000_000, MinExpiry)
	if e.Status != StatusActive {
		t.Fatalf("expected StatusActive, got %v", e.Status)
	}
	view, ok := l.Account(escrowKey)
	if !ok {
		t.Fatal("escrow account not created")
	}
	if *view.Lamports != 5_000_000_000+rentExemptMinimum(JobEscrowSpace+8) {
		t.Fatalf("unexpected escrow balance: %d", *view.Lamports)
	}
}

func TestCreateEscrowRejectsUnderMinimum(t *testing.T) {
	l, _ := newTestLedger(t)
	poster := newFundedWallet(l, 10_000_000_000)
	l.SetSigners(poster)
	_, err := CreateEscrow(l, poster, HashJobID([]byte("x")), 1, MinExpiry)
	if !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestCreateEscrowRejectsBadExpiry(t *testing.T) {
	l, _ := newTestLedger(t)
	poster := newFundedWallet(l, 10_000_000_000)
	l.SetSigners(poster)
	_, err := CreateEscrow(l, poster, HashJobID([]byte("x")), MinEscrowAmount, 1)
	if !errors.Is(err, ErrInvalidExpiry) {
		t.Fatalf("expected ErrInvalidExpiry, got %v", err)
	}
}

func TestAssignSubmitApproveHappyPath(t *testing.T) {
	l, _ := newTestLedger(t)
	poster := newFundedWallet(l, 10_000_000_000)
	worker := newFundedWallet(l, 0)
	feeAcct := newFundedWallet(l, 0)

	escrowKey, _ := createTestEscrow(t, l, poster, 10_000_000, MinReviewBuffer*2)

	l.SetSigners(poster)
	l.SetWritable(escrowKey)
	if _, err := AssignWorker(l, poster, escrowKey, worker); err != nil {
		t.Fatalf("AssignWorker: %v", err)
	}

	l.SetSigners(worker)
	proof := HashJobID([]byte("proof"))
	if _, err := SubmitWork(l, worker, escrowKey, proof); err != nil {
		t.Fatalf("SubmitWork: %v", err)
	}

	l.SetSigners(poster)
	e, err := ApproveWork(l, poster, escrowKey, worker, feeAcct)
	if err != nil {
		t.Fatalf("ApproveWork: %v", err)
	}
	if e.Status != StatusReleased {
		t.Fatalf("expected StatusReleased, got %v", e.Status)
	}

	workerView, _ := l.Account(worker)
	feeView, _ := l.Account(feeAcct)
	if *workerView.Lamports+*feeView.Lamports != 10_000_000 {
		t.Fatalf("payout does not conserve balance: worker=%d fee=%d", *workerView.Lamports, *feeView.Lamports)
	}
	if *feeView.Lamports != 10_000_000/10000*PlatformFeeBps {
		t.Fatalf("unexpected platform fee: %d", *feeView.Lamports)
	}
}

func TestAutoReleaseRequiresReviewWindow(t *testing.T) {
	l, _ := newTestLedger(t)
	poster := newFundedWallet(l, 10_000_000_000)
	worker := newFundedWallet(l, 0)
	feeAcct := newFundedWallet(l, 0)

	escrowKey, _ := createTestEscrow(t, l, poster, 10_000_000, MinReviewBuffer*2)
	l.SetSigners(poster)
	l.SetWritable(escrowKey)
	AssignWorker(l, poster, escrowKey, worker)
	l.SetSigners(worker)
	SubmitWork(l, worker, escrowKey, HashJobID([]byte("p")))

	if _, err := AutoRelease(l, escrowKey, worker, feeAcct); !errors.Is(err, ErrDeadlineNotReached) {
		t.Fatalf("expected ErrDeadlineNotReached, got %v", err)
	}

	l.AdvanceClock(ReviewWindow + 1)
	e, err := AutoRelease(l, escrowKey, worker, feeAcct)
	if err != nil {
		t.Fatalf("AutoRelease: %v", err)
	}
	if e.Status != StatusReleased {
		t.Fatalf("expected StatusReleased, got %v", e.Status)
	}
}

func TestCancelEscrowBeforeAssignment(t *testing.T) {
	l, _ := newTestLedger(t)
	poster := newFundedWallet(l, 10_000_000_000)
	escrowKey, _ := createTestEscrow(t, l, poster, 10_000_000, MinExpiry*2)

	before, _ := l.Account(poster)
	balanceBefore := *before.Lamports

	l.SetSigners(poster)
	l.SetWritable(escrowKey)
	e, err := CancelEscrow(l, poster, escrowKey)
	if err != nil {
		t.Fatalf("CancelEscrow: %v", err)
	}
	if e.Status != StatusCancelled {
		t.Fatalf("expected StatusCancelled, got %v", e.Status)
	}
	after, _ := l.Account(poster)
	if *after.Lamports != balanceBefore+10_000_000 {
		t.Fatalf("poster not refunded: before=%d after=%d", balanceBefore, *after.Lamports)
	}
}

func TestCancelEscrowRejectsAfterAssignment(t *testing.T) {
	l, _ := newTestLedger(t)
	poster := newFundedWallet(l, 10_000_000_000)
	worker := newFundedWallet(l, 0)
	escrowKey, _ := createTestEscrow(t, l, poster, 10_000_000, MinExpiry*2)

	l.SetSigners(poster)
	l.SetWritable(escrowKey)
	AssignWorker(l, poster, escrowKey, worker)

	if _, err := CancelEscrow(l, poster, escrowKey); !errors.Is(err, ErrWorkerAlreadyAssigned) {
		t.Fatalf("expected ErrWorkerAlreadyAssigned, got %v", err)
	}
}

func TestClaimExpiredRequiresPastDeadline(t *testing.T) {
	l, _ := newTestLedger(t)
	poster := newFundedWallet(l, 10_000_000_000)
	escrowKey, _ := createTestEscrow(t, l, poster, 10_000_000, MinExpiry)

	l.SetSigners(poster)
	l.SetWritable(escrowKey)
	if _, err := ClaimExpired(l, poster, escrowKey); !errors.Is(err, ErrDeadlineNotReached) {
		t.Fatalf("expected ErrDeadlineNotReached, got %v", err)
	}

	l.AdvanceClock(MinExpiry + 1)
	e, err := ClaimExpired(l, poster, escrowKey)
	if err != nil {
		t.Fatalf("ClaimExpired: %v", err)
	}
	if e.Status != StatusExpired {
		t.Fatalf("expected StatusExpired, got %v", e.Status)
	}
}

func TestCloseEscrowOnlyFromTerminalState(t *testing.T) {
	l, _ := newTestLedger(t)
	poster := newFundedWallet(l, 10_000_000_000)
	escrowKey, _ := createTestEscrow(t, l, poster, 10_000_000, MinExpiry*2)

	l.SetSigners(poster)
	l.SetWritable(escrowKey)
	if err := CloseEscrow(l, poster, escrowKey); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}

	CancelEscrow(l, poster, escrowKey)
	if err := CloseEscrow(l, poster, escrowKey); err != nil {
		t.Fatalf("CloseEscrow: %v", err)
	}
	if _, ok := l.Account(escrowKey); ok {
		t.Fatal("escrow account still exists after close")
	}
}
