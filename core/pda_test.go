package core

import "testing"

func TestEscrowPDAIsUniquePerJobAndPoster(t *testing.T) {
	l, _ := newTestLedger(t)
	posterA := newFundedWallet(l, 0)
	posterB := newFundedWallet(l, 0)
	jobHash := HashJobID([]byte("same-job"))

	keyA, _, err := l.FindProgramAddress(escrowSeeds(jobHash, posterA))
	if err != nil {
		t.Fatalf("FindProgramAddress(A): %v", err)
	}
	keyB, _, err := l.FindProgramAddress(escrowSeeds(jobHash, posterB))
	if err != nil {
		t.Fatalf("FindProgramAddress(B): %v", err)
	}
	if keyA == keyB {
		t.Fatal("expected distinct PDAs for distinct posters on the same job hash")
	}
}

func TestRequireOwnedByProgramRejectsForeignAccount(t *testing.T) {
	l, programID := newTestLedger(t)
	foreignOwner := newFundedWallet(l, 0)
	view := &AccountView{Key: foreignOwner, Owner: foreignOwner}
	if err := requireOwnedByProgram(l, view); err == nil {
		t.Fatal("expected ownership check to fail")
	}
	_ = programID
}

func TestRequireSignerRejectsNonSigner(t *testing.T) {
	view := &AccountView{IsSigner: false}
	if err := requireSigner(view); err == nil {
		t.Fatal("expected signer check to fail")
	}
	view.IsSigner = true
	if err := requireSigner(view); err != nil {
		t.Fatalf("expected signer check to pass: %v", err)
	}
}

func TestRequireUninitializedRejectsExistingAccount(t *testing.T) {
	l, _ := newTestLedger(t)
	poster := newFundedWallet(l, 10_000_000_000)
	escrowKey, _ := createTestEscrow(t, l, poster, MinEscrowAmount, MinExpiry)
	if err := requireUninitialized(l, escrowKey); err == nil {
		t.Fatal("expected already-exists error")
	}
}
