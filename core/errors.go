package core

import "errors"

// The sentinels below are the flat error taxonomy surfaced by every handler (spec
// §4.9, §7). Handlers return one of these sentinels (optionally wrapped with
// extra context via pkg/utils.Wrap) instead of ad-hoc error strings, so that
// callers and tests can compare with errors.Is.
var (
	// Authorization failures.
	ErrUnauthorized           = errors.New("unauthorized")
	ErrMissingRequiredSigner  = errors.New("missing required signature")
	ErrNotSelectedArbitrator  = errors.New("not a selected arbitrator")

	// State-machine violations.
	ErrInvalidStatus        = errors.New("invalid status for this operation")
	ErrWorkerAlreadyAssigned = errors.New("worker already assigned")
	ErrNoWorkerAssigned     = errors.New("no worker assigned")
	ErrAlreadyVoted         = errors.New("arbitrator already voted")
	ErrAlreadyClaimed       = errors.New("already claimed")
	ErrNotInArbitration     = errors.New("escrow is not in arbitration")

	// Temporal violations.
	ErrDeadlineNotReached           = errors.New("deadline not reached")
	ErrDeadlinePassed               = errors.New("deadline passed")
	ErrInsufficientReviewTime       = errors.New("insufficient review time before expiry")
	ErrArbitrationGracePeriodNotPassed = errors.New("arbitration grace period not passed")

	// Structural violations.
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidExpiry       = errors.New("invalid expiry")
	ErrInvalidWorker       = errors.New("invalid worker pubkey")
	ErrInvalidPda          = errors.New("account does not match expected PDA")
	ErrIncorrectProgramId  = errors.New("account not owned by this program")
	ErrInvalidAccount      = errors.New("unexpected account in this slot")
	ErrInvalidAccountData  = errors.New("account data malformed or wrong discriminator")
	ErrAccountAlreadyExists = errors.New("account already exists")
	ErrPoolFull            = errors.New("arbitrator pool is full")
	ErrPoolEmpty           = errors.New("arbitrator pool has too few active members")
	ErrAlreadyRegistered   = errors.New("arbitrator already registered")
	ErrNotRegistered       = errors.New("arbitrator not registered")
	ErrReasonTooLong       = errors.New("dispute reason exceeds maximum length")
	ErrArbitratorAssigned  = errors.New("arbitrator is still assigned to an open dispute")

	// Arithmetic.
	ErrArithmetic = errors.New("arithmetic overflow or underflow")
)
