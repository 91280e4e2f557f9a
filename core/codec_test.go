package core

import "testing"

func TestJobEscrowEncodeDecodeRoundTrip(t *testing.T) {
	e := &JobEscrow{
		JobIDHash:    HashJobID([]byte("round-trip")),
		Poster:       solanaTestKey(1),
		Worker:       solanaTestKey(2),
		Amount:       42_000_000,
		Status:       StatusPendingReview,
		CreatedAt:    100,
		ExpiresAt:    200,
		SubmittedAt:  150,
		ProofHash:    HashJobID([]byte("proof")),
		HasProofHash: true,
		Bump:         7,
	}
	got, err := DecodeJobEscrow(e.Encode())
	if err != nil {
		t.Fatalf("DecodeJobEscrow: %v", err)
	}
	if got.Amount != e.Amount || got.Status != e.Status || got.Bump != e.Bump {
		t.Fatalf("round trip mismatch: got=%+v want=%+v", got, e)
	}
	if got.JobIDHash != e.JobIDHash || got.ProofHash != e.ProofHash {
		t.Fatalf("hash fields did not round trip")
	}
}

func TestDisputeCaseEncodeDecodeRoundTripWithReason(t *testing.T) {
	c := &DisputeCase{
		Escrow:         solanaTestKey(3),
		RaisedBy:       solanaTestKey(4),
		VotingDeadline: 999,
		Resolution:     ResolutionSplit,
		CreatedAt:      500,
		Bump:           1,
		Reason:         "worker never delivered",
	}
	c.Arbitrators[0] = solanaTestKey(5)
	c.Votes[0] = VoteForWorker

	got, err := DecodeDisputeCase(c.Encode())
	if err != nil {
		t.Fatalf("DecodeDisputeCase: %v", err)
	}
	if got.Reason != c.Reason {
		t.Fatalf("reason mismatch: got=%q want=%q", got.Reason, c.Reason)
	}
	if got.Arbitrators[0] != c.Arbitrators[0] || got.Votes[0] != c.Votes[0] {
		t.Fatalf("arbitrator/vote slot mismatch")
	}
}

func TestDecodeRejectsWrongDiscriminator(t *testing.T) {
	e := &JobEscrow{}
	data := e.Encode()
	if _, err := DecodeAgentReputation(data); err == nil {
		t.Fatal("expected discriminator mismatch error")
	}
}

func TestDecodeRejectsTruncatedData(t *testing.T) {
	e := &JobEscrow{}
	data := e.Encode()
	if _, err := DecodeJobEscrow(data[:len(data)-4]); err == nil {
		t.Fatal("expected short-read error")
	}
}

func solanaTestKey(seed byte) PublicKey {
	var k PublicKey
	k[0] = seed
	return k
}
