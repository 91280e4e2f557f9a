package core

import "testing"

func TestSplitPayoutConservesAmount(t *testing.T) {
	amounts := []uint64{MinEscrowAmount, 1, 999_999, 10_000_000, 123_456_789}
	for _, amount := range amounts {
		workerShare, fee, err := splitPayout(amount)
		if err != nil {
			t.Fatalf("splitPayout(%d): %v", amount, err)
		}
		if workerShare+fee != amount {
			t.Fatalf("splitPayout(%d) does not conserve: worker=%d fee=%d", amount, workerShare, fee)
		}
	}
}

func TestSplitPayoutFeeMatchesBasisPoints(t *testing.T) {
	const amount = 10_000_000
	_, fee, err := splitPayout(amount)
	if err != nil {
		t.Fatalf("splitPayout: %v", err)
	}
	want := amount / 10000 * PlatformFeeBps
	if fee != want {
		t.Fatalf("expected fee=%d, got %d", want, fee)
	}
}

func TestSplitPayoutZeroFeeOnSmallAmount(t *testing.T) {
	// Below 10000/PlatformFeeBps lamports, integer division rounds the fee to
	// zero; the worker still receives the entire amount.
	workerShare, fee, err := splitPayout(9)
	if err != nil {
		t.Fatalf("splitPayout: %v", err)
	}
	if fee != 0 || workerShare != 9 {
		t.Fatalf("expected zero fee on dust amount, got worker=%d fee=%d", workerShare, fee)
	}
}
