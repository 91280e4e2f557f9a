package core

import "github.com/gagliardetto/solana-go"

// PublicKey is a 32-byte ledger identity. We reuse gagliardetto/solana-go's
// PublicKey rather than rolling our own: it already gives us base58
// formatting and a well-tested FindProgramAddress implementation, and every
// Solana-shaped account layout in the retrieved reference pack
// (_examples/other_examples/..._revdist-state.go.go and friends) uses the
// same type for exactly this purpose.
type PublicKey = solana.PublicKey

// ZeroPublicKey is the all-zero sentinel used for "not yet assigned" fields
// (spec §3, JobEscrow.worker before assign_worker).
var ZeroPublicKey PublicKey

// SlotHash is one entry of the ledger's recent-slot-hashes sysvar, used only
// as an entropy source for dispute panel selection (spec §4.7).
type SlotHash struct {
	Slot uint64
	Hash [32]byte
}

// AccountView is the handle a handler receives for a single ledger account.
// Data is the account's live, fixed-length backing storage: writes to it are
// writes to the account, no separate "save" call is needed. Lamports is
// likewise a pointer into the live balance.
type AccountView struct {
	Key        PublicKey
	Owner      PublicKey
	IsSigner   bool
	IsWritable bool
	Lamports   *uint64
	Data       []byte
}

// Ledger is the external collaborator every handler is written against
// (spec §4.1). The on-chain program never talks to a real transaction
// runtime directly; it only ever calls through this interface, which is
// implemented for tests, the CLI, and the RPC server by sim_ledger.go, and
// in production by whatever ledger runtime embeds this program.
type Ledger interface {
	// ProgramID is this program's own address; every PDA is derived under it.
	ProgramID() PublicKey

	// Account returns the live handle for key, or ok=false if it does not
	// exist (distinct from an account that exists but is owned by another
	// program or has no data).
	Account(key PublicKey) (view *AccountView, ok bool)

	// CreateAccount allocates a new program-owned account at the PDA derived
	// from seeds+bump, with space bytes of data, funding it from payer's
	// balance for rent. It fails if the account already exists.
	CreateAccount(payer PublicKey, seeds [][]byte, bump uint8, space int) (*AccountView, error)

	// SystemTransfer moves lamports out of a user-controlled account via a
	// system-program CPI. from must be a signer in the current instruction.
	SystemTransfer(from, to PublicKey, lamports uint64) error

	// DebitCredit moves lamports directly between two program-owned (or
	// program-owned-and-external) accounts without a CPI: the program is
	// the owner of from and so may adjust both balances as a pure in-memory
	// mutation (spec §4.1).
	DebitCredit(from, to PublicKey, lamports uint64) error

	// CloseAccount zeroes an account's data and sweeps its entire lamport
	// balance to recipient, reclaiming the allocation.
	CloseAccount(key PublicKey, recipient PublicKey) error

	// Clock returns the current unix-second timestamp and slot. Handlers
	// call this exactly once to avoid time-of-check drift (spec §4.1).
	Clock() (unixSeconds int64, slot uint64)

	// RecentSlotHashes returns recent (slot, hash) pairs, newest first.
	RecentSlotHashes() []SlotHash

	// FindProgramAddress derives the canonical PDA and bump for seeds under
	// this program's ID.
	FindProgramAddress(seeds [][]byte) (PublicKey, uint8, error)
}
