package core

import (
	"fmt"
	"sort"

	"github.com/gagliardetto/solana-go"
)

// rentLamportsPerByteYear and accountHeaderBytes approximate Solana's real
// rent-exemption formula closely enough to exercise fee/payout arithmetic in
// tests without pulling in a full runtime; sim_ledger is a test/CLI/RPC
// stand-in (spec §1), not a rent-accounting model in its own right.
const (
	rentLamportsPerByteYear = 19
	accountHeaderBytes      = 128
)

func rentExemptMinimum(space int) uint64 {
	return uint64((space+accountHeaderBytes)*rentLamportsPerByteYear*2) / 100 * 100
}

type simAccount struct {
	owner      PublicKey
	lamports   uint64
	data       []byte
	isSystem   bool
}

// SimLedger is an in-memory Ledger (spec §4.1's abstraction boundary),
// grounded on the teacher's in-memory KV store pattern in
// core/escrow.go/CurrentStore() but reshaped around program-owned accounts,
// PDAs and lamports instead of a generic JSON object store. It backs the
// package's tests, the devnet CLI, and the RPC server.
type SimLedger struct {
	programID PublicKey
	accounts  map[PublicKey]*simAccount
	slot      uint64
	unixTime  int64
	hashes    []SlotHash
	signers   map[PublicKey]bool
	writable  map[PublicKey]bool
}

// NewSimLedger constructs an empty ledger for programID, with the clock
// seeded at startUnixTime.
func NewSimLedger(programID PublicKey, startUnixTime int64) *SimLedger {
	return &SimLedger{
		programID: programID,
		accounts:  make(map[PublicKey]*simAccount),
		unixTime:  startUnixTime,
		signers:   make(map[PublicKey]bool),
		writable:  make(map[PublicKey]bool),
	}
}

// Fund credits a system-owned wallet account with lamports, creating it if
// necessary. Test and CLI setup code uses this to seed posters, workers and
// arbitrators before submitting instructions.
func (l *SimLedger) Fund(key PublicKey, lamports uint64) {
	a, ok := l.accounts[key]
	if !ok {
		a = &simAccount{owner: solana.SystemProgramID, isSystem: true}
		l.accounts[key] = a
	}
	a.lamports += lamports
}

// SetSigners marks which account keys are signers for the instruction about
// to be dispatched; SetWritable does the same for the writable flag. A real
// runtime derives both from the transaction's account-meta list; here the
// caller (tests, CLI, RPC) states them explicitly per call.
func (l *SimLedger) SetSigners(keys ...PublicKey) {
	l.signers = make(map[PublicKey]bool, len(keys))
	for _, k := range keys {
		l.signers[k] = true
	}
}

func (l *SimLedger) SetWritable(keys ...PublicKey) {
	l.writable = make(map[PublicKey]bool, len(keys))
	for _, k := range keys {
		l.writable[k] = true
	}
}

// AdvanceClock moves the simulated clock forward by seconds and appends a
// fresh synthetic slot hash, used by tests to exercise timelocks and expiry.
func (l *SimLedger) AdvanceClock(seconds int64) {
	l.unixTime += seconds
	l.slot++
	var h [32]byte
	h[0] = byte(l.slot)
	h[1] = byte(l.slot >> 8)
	l.hashes = append([]SlotHash{{Slot: l.slot, Hash: h}}, l.hashes...)
	if len(l.hashes) > 64 {
		l.hashes = l.hashes[:64]
	}
}

func (l *SimLedger) ProgramID() PublicKey { return l.programID }

func (l *SimLedger) Account(key PublicKey) (*AccountView, bool) {
	a, ok := l.accounts[key]
	if !ok {
		return nil, false
	}
	return l.view(key, a), true
}

// DisputeCases returns every account tagged with the DisputeCase
// discriminator, decoded, in key order. It backs the RPC daemon's
// list-disputes surface (SPEC_FULL §4) — there is no index of open cases,
// so this does a full scan, acceptable for the in-memory devnet ledger this
// type stands in for.
func (l *SimLedger) DisputeCases() ([]*DisputeCase, error) {
	var out []*DisputeCase
	keys := make([]PublicKey, 0, len(l.accounts))
	for k := range l.accounts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	for _, k := range keys {
		a := l.accounts[k]
		if len(a.data) < 8 || checkDiscriminator(a.data, discDisputeCase) != nil {
			continue
		}
		c, err := DecodeDisputeCase(a.data)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (l *SimLedger) view(key PublicKey, a *simAccount) *AccountView {
	return &AccountView{
		Key:        key,
		Owner:      a.owner,
		IsSigner:   l.signers[key],
		IsWritable: l.writable[key],
		Lamports:   &a.lamports,
		Data:       a.data,
	}
}

func (l *SimLedger) CreateAccount(payer PublicKey, seeds [][]byte, bump uint8, space int) (*AccountView, error) {
	key, err := solana.CreateProgramAddress(append(append([][]byte{}, seeds...), []byte{bump}), l.programID)
	if err != nil {
		return nil, fmt.Errorf("derive pda: %w", err)
	}
	if _, exists := l.accounts[key]; exists {
		return nil, ErrAccountAlreadyExists
	}
	payerAcct, ok := l.accounts[payer]
	if !ok {
		return nil, ErrInvalidAccount
	}
	rent := rentExemptMinimum(space)
	if payerAcct.lamports < rent {
		return nil, ErrArithmetic
	}
	payerAcct.lamports -= rent
	a := &simAccount{owner: l.programID, lamports: rent, data: make([]byte, space)}
	l.accounts[key] = a
	l.writable[key] = true
	return l.view(key, a), nil
}

func (l *SimLedger) SystemTransfer(from, to PublicKey, lamports uint64) error {
	if !l.signers[from] {
		return ErrMissingRequiredSigner
	}
	return l.DebitCredit(from, to, lamports)
}

func (l *SimLedger) DebitCredit(from, to PublicKey, lamports uint64) error {
	fa, ok := l.accounts[from]
	if !ok {
		return ErrInvalidAccount
	}
	ta, ok := l.accounts[to]
	if !ok {
		return ErrInvalidAccount
	}
	newFrom, err := checkedSub(fa.lamports, lamports)
	if err != nil {
		return err
	}
	newTo, err := checkedAdd(ta.lamports, lamports)
	if err != nil {
		return err
	}
	fa.lamports = newFrom
	ta.lamports = newTo
	return nil
}

func (l *SimLedger) CloseAccount(key PublicKey, recipient PublicKey) error {
	a, ok := l.accounts[key]
	if !ok {
		return ErrInvalidAccount
	}
	ra, ok := l.accounts[recipient]
	if !ok {
		return ErrInvalidAccount
	}
	ra.lamports, a.lamports = ra.lamports+a.lamports, 0
	a.data = nil
	a.owner = ZeroPublicKey
	delete(l.accounts, key)
	return nil
}

func (l *SimLedger) Clock() (int64, uint64) { return l.unixTime, l.slot }

func (l *SimLedger) RecentSlotHashes() []SlotHash {
	out := make([]SlotHash, len(l.hashes))
	copy(out, l.hashes)
	sort.Slice(out, func(i, j int) bool { return out[i].Slot > out[j].Slot })
	return out
}

func (l *SimLedger) FindProgramAddress(seeds [][]byte) (PublicKey, uint8, error) {
	return solana.FindProgramAddress(seeds, l.programID)
}
