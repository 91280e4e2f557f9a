package core

// LedgerSnapshot is a JSON-serializable dump of a SimLedger, used by the CLI
// and devnet tooling to persist program state across separate process
// invocations (there is no long-running node in this repo's scope — see
// spec §1's "ledger runtime itself is out of scope"). Keys are base58
// addresses rather than PublicKey directly, since a fixed-size byte array
// does not round-trip through encoding/json as a map key.
type LedgerSnapshot struct {
	ProgramID string                     `json:"program_id"`
	UnixTime  int64                      `json:"unix_time"`
	Slot      uint64                     `json:"slot"`
	Accounts  map[string]SnapshotAccount `json:"accounts"`
}

// SnapshotAccount is one entry of LedgerSnapshot.Accounts.
type SnapshotAccount struct {
	Owner    string `json:"owner"`
	Lamports uint64 `json:"lamports"`
	Data     []byte `json:"data"`
	IsSystem bool   `json:"is_system"`
}

// Snapshot captures the ledger's current state for serialization.
func (l *SimLedger) Snapshot() LedgerSnapshot {
	s := LedgerSnapshot{
		ProgramID: l.programID.String(),
		UnixTime:  l.unixTime,
		Slot:      l.slot,
		Accounts:  make(map[string]SnapshotAccount, len(l.accounts)),
	}
	for key, a := range l.accounts {
		s.Accounts[key.String()] = SnapshotAccount{
			Owner:    a.owner.String(),
			Lamports: a.lamports,
			Data:     append([]byte(nil), a.data...),
			IsSystem: a.isSystem,
		}
	}
	return s
}

// RestoreSimLedger rebuilds a SimLedger from a previously captured snapshot.
// Signer/writable sets are never persisted: every CLI invocation dispatches
// exactly one instruction and declares its own signers fresh (spec §4.1).
func RestoreSimLedger(s LedgerSnapshot) (*SimLedger, error) {
	programID, err := ParsePublicKey(s.ProgramID)
	if err != nil {
		return nil, err
	}
	l := NewSimLedger(programID, s.UnixTime)
	l.slot = s.Slot
	for keyStr, sa := range s.Accounts {
		key, err := ParsePublicKey(keyStr)
		if err != nil {
			return nil, err
		}
		owner, err := ParsePublicKey(sa.Owner)
		if err != nil {
			return nil, err
		}
		l.accounts[key] = &simAccount{
			owner:    owner,
			lamports: sa.Lamports,
			data:     append([]byte(nil), sa.Data...),
			isSystem: sa.IsSystem,
		}
	}
	return l, nil
}
