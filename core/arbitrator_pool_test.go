package core

import (
	"errors"
	"testing"
)

func setupPool(t *testing.T, l *SimLedger, minStake uint64) PublicKey {
	t.Helper()
	authority := newFundedWallet(l, 10_000_000_000)
	l.SetSigners(authority)
	if _, err := InitArbitratorPool(l, authority, minStake); err != nil {
		t.Fatalf("InitArbitratorPool: %v", err)
	}
	key, _, err := l.FindProgramAddress(arbitratorPoolSeeds())
	if err != nil {
		t.Fatalf("FindProgramAddress: %v", err)
	}
	return key
}

func registerNArbitrators(t *testing.T, l *SimLedger, poolKey PublicKey, n int, stake uint64) []PublicKey {
	t.Helper()
	l.SetWritable(poolKey)
	agents := make([]PublicKey, n)
	for i := 0; i < n; i++ {
		agent := newFundedWallet(l, stake*2)
		l.SetSigners(agent)
		if _, err := RegisterArbitrator(l, agent, poolKey, stake); err != nil {
			t.Fatalf("RegisterArbitrator[%d]: %v", i, err)
		}
		agents[i] = agent
	}
	return agents
}

func TestRegisterArbitratorRejectsBelowMinStake(t *testing.T) {
	l, _ := newTestLedger(t)
	poolKey := setupPool(t, l, MinArbitratorStake)
	agent := newFundedWallet(l, MinArbitratorStake)
	l.SetSigners(agent)
	l.SetWritable(poolKey)
	if _, err := RegisterArbitrator(l, agent, poolKey, MinArbitratorStake-1); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestRegisterArbitratorRejectsDuplicate(t *testing.T) {
	l, _ := newTestLedger(t)
	poolKey := setupPool(t, l, MinArbitratorStake)
	agents := registerNArbitrators(t, l, poolKey, 1, MinArbitratorStake)
	l.SetSigners(agents[0])
	l.SetWritable(poolKey)
	if _, err := RegisterArbitrator(l, agents[0], poolKey, MinArbitratorStake); !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("expected ErrAlreadyRegistered, got %v", err)
	}
}

func TestUnregisterArbitratorReturnsStake(t *testing.T) {
	l, _ := newTestLedger(t)
	poolKey := setupPool(t, l, MinArbitratorStake)
	agents := registerNArbitrators(t, l, poolKey, 1, MinArbitratorStake)
	agent := agents[0]

	entryKey, _, _ := l.FindProgramAddress(arbitratorEntrySeeds(agent))
	l.SetSigners(agent)
	l.SetWritable(poolKey, entryKey)

	before, _ := l.Account(agent)
	balanceBefore := *before.Lamports

	if err := UnregisterArbitrator(l, agent, poolKey, entryKey); err != nil {
		t.Fatalf("UnregisterArbitrator: %v", err)
	}
	after, _ := l.Account(agent)
	if *after.Lamports != balanceBefore+MinArbitratorStake {
		t.Fatalf("stake not returned: before=%d after=%d", balanceBefore, *after.Lamports)
	}

	_, pool, err := loadPool(l, poolKey, false)
	if err != nil {
		t.Fatalf("loadPool: %v", err)
	}
	if pool.ArbitratorCount != 0 {
		t.Fatalf("expected empty roster, got count=%d", pool.ArbitratorCount)
	}
}

func TestUnregisterArbitratorBlockedWhileAssigned(t *testing.T) {
	l, _ := newTestLedger(t)
	poolKey := setupPool(t, l, MinArbitratorStake)
	agents := registerNArbitrators(t, l, poolKey, ArbitratorsPerDispute, MinArbitratorStake)

	entryKey, _, _ := l.FindProgramAddress(arbitratorEntrySeeds(agents[0]))
	ev, entry, err := loadEntry(l, entryKey, agents[0], false)
	if err != nil {
		t.Fatalf("loadEntry: %v", err)
	}
	entry.AssignedCount = 1
	l.SetWritable(entryKey)
	copy(ev.Data, entry.Encode())

	l.SetSigners(agents[0])
	l.SetWritable(poolKey, entryKey)
	if err := UnregisterArbitrator(l, agents[0], poolKey, entryKey); !errors.Is(err, ErrArbitratorAssigned) {
		t.Fatalf("expected ErrArbitratorAssigned, got %v", err)
	}
}
