package core

import "testing"

func TestReleaseWithReputationUpdatesBothParties(t *testing.T) {
	l, _ := newTestLedger(t)
	poster := newFundedWallet(l, 10_000_000_000)
	worker := newFundedWallet(l, 0)
	feeAcct := newFundedWallet(l, 0)

	l.SetSigners(poster)
	if _, err := InitReputation(l, poster, worker); err != nil {
		t.Fatalf("InitReputation(worker): %v", err)
	}
	if _, err := InitReputation(l, poster, poster); err != nil {
		t.Fatalf("InitReputation(poster): %v", err)
	}
	workerRepKey, _, _ := l.FindProgramAddress(reputationSeeds(worker))
	posterRepKey, _, _ := l.FindProgramAddress(reputationSeeds(poster))

	escrowKey, _ := createTestEscrow(t, l, poster, 10_000_000, MinReviewBuffer*2)
	l.SetSigners(poster)
	l.SetWritable(escrowKey)
	AssignWorker(l, poster, escrowKey, worker)
	l.SetSigners(worker)
	SubmitWork(l, worker, escrowKey, HashJobID([]byte("proof")))

	l.SetSigners(poster)
	l.SetWritable(escrowKey, workerRepKey, posterRepKey)
	if _, err := ReleaseWithReputation(l, poster, escrowKey, worker, feeAcct, workerRepKey, posterRepKey); err != nil {
		t.Fatalf("ReleaseWithReputation: %v", err)
	}

	_, wr, err := loadReputation(l, workerRepKey, worker, false)
	if err != nil {
		t.Fatalf("loadReputation(worker): %v", err)
	}
	if wr.JobsCompleted != 1 {
		t.Fatalf("expected JobsCompleted=1, got %d", wr.JobsCompleted)
	}
	if wr.TotalEarned != 9_900_000 {
		t.Fatalf("expected TotalEarned=9900000, got %d", wr.TotalEarned)
	}
	if wr.ReputationScore != 10 {
		t.Fatalf("expected ReputationScore=10, got %d", wr.ReputationScore)
	}

	_, pr, err := loadReputation(l, posterRepKey, poster, false)
	if err != nil {
		t.Fatalf("loadReputation(poster): %v", err)
	}
	if pr.JobsPosted != 1 || pr.TotalSpent != 10_000_000 {
		t.Fatalf("unexpected poster reputation: %+v", pr)
	}
}

func TestReputationScoreIsMonotonicAcrossJobs(t *testing.T) {
	l, _ := newTestLedger(t)
	poster := newFundedWallet(l, 100_000_000_000)
	worker := newFundedWallet(l, 0)
	feeAcct := newFundedWallet(l, 0)

	l.SetSigners(poster)
	InitReputation(l, poster, worker)
	InitReputation(l, poster, poster)
	workerRepKey, _, _ := l.FindProgramAddress(reputationSeeds(worker))
	posterRepKey, _, _ := l.FindProgramAddress(reputationSeeds(poster))

	_, before, _ := loadReputation(l, workerRepKey, worker, false)
	prevScore := before.ReputationScore

	for i := 0; i < 3; i++ {
		jobID := []byte{byte(i)}
		jobIDHash := HashJobID(jobID)
		l.SetSigners(poster)
		escrowKey, bump, err := l.FindProgramAddress(escrowSeeds(jobIDHash, poster))
		if err != nil {
			t.Fatalf("FindProgramAddress: %v", err)
		}
		_ = bump
		e, err := CreateEscrow(l, poster, jobIDHash, 10_000_000, MinReviewBuffer*2)
		if err != nil {
			t.Fatalf("CreateEscrow[%d]: %v", i, err)
		}
		_ = e
		l.SetWritable(escrowKey)
		AssignWorker(l, poster, escrowKey, worker)
		l.SetSigners(worker)
		SubmitWork(l, worker, escrowKey, HashJobID(append([]byte("proof"), byte(i))))

		l.SetSigners(poster)
		l.SetWritable(escrowKey, workerRepKey, posterRepKey)
		if _, err := ReleaseWithReputation(l, poster, escrowKey, worker, feeAcct, workerRepKey, posterRepKey); err != nil {
			t.Fatalf("ReleaseWithReputation[%d]: %v", i, err)
		}

		_, after, _ := loadReputation(l, workerRepKey, worker, false)
		if after.ReputationScore <= prevScore {
			t.Fatalf("reputation score did not increase: prev=%d now=%d", prevScore, after.ReputationScore)
		}
		prevScore = after.ReputationScore
	}
}
