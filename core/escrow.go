package core

// JobEscrow state machine (spec §4.4), grounded on the teacher's
// core/escrow.go Escrow_Create/Deposit/Release/Cancel family but reshaped
// from a JSON-KV AssetRef transfer model onto PDA accounts and lamports
// moved through the Ledger interface. Every handler re-reads the clock
// exactly once (ledger.Clock()) and re-validates the account's discriminator,
// owner and PDA derivation before touching any field (spec §4.1, §4.3).

// CreateEscrow implements the create_escrow instruction. poster funds the
// new escrow PDA for amount lamports and seeds it from jobIDHash.
func CreateEscrow(ledger Ledger, poster PublicKey, jobIDHash [32]byte, amount uint64, expirySeconds int64) (*JobEscrow, error) {
	posterView, ok := ledger.Account(poster)
	if !ok {
		return nil, ErrInvalidAccount
	}
	if err := requireSigner(posterView); err != nil {
		return nil, err
	}
	if amount < MinEscrowAmount {
		return nil, ErrInvalidAmount
	}
	if expirySeconds == 0 {
		expirySeconds = DefaultExpiry
	}
	if expirySeconds < MinExpiry || expirySeconds > MaxExpiry {
		return nil, ErrInvalidExpiry
	}

	seeds := escrowSeeds(jobIDHash, poster)
	escrowKey, bump, err := ledger.FindProgramAddress(seeds)
	if err != nil {
		return nil, err
	}
	if err := requireUninitialized(ledger, escrowKey); err != nil {
		return nil, err
	}

	now, _ := ledger.Clock()
	e := &JobEscrow{
		JobIDHash: jobIDHash,
		Poster:    poster,
		Worker:    ZeroPublicKey,
		Amount:    amount,
		Status:    StatusActive,
		CreatedAt: now,
		ExpiresAt: now + expirySeconds,
		Bump:      bump,
	}

	escrowView, err := ledger.CreateAccount(poster, seeds, bump, JobEscrowSpace+8)
	if err != nil {
		return nil, err
	}
	if err := ledger.SystemTransfer(poster, escrowKey, amount); err != nil {
		return nil, err
	}
	copy(escrowView.Data, e.Encode())
	return e, nil
}

// loadEscrow resolves and decodes a JobEscrow account, running the full
// §4.3 validation chain (owner, PDA, writable) before returning it.
func loadEscrow(ledger Ledger, key PublicKey, requireMutable bool) (*AccountView, *JobEscrow, error) {
	v, ok := ledger.Account(key)
	if !ok {
		return nil, nil, ErrInvalidAccount
	}
	if err := requireOwnedByProgram(ledger, v); err != nil {
		return nil, nil, err
	}
	if requireMutable {
		if err := requireWritable(v); err != nil {
			return nil, nil, err
		}
	}
	e, err := DecodeJobEscrow(v.Data)
	if err != nil {
		return nil, nil, err
	}
	if err := requirePDA(ledger, v, escrowSeeds(e.JobIDHash, e.Poster), e.Bump); err != nil {
		return nil, nil, err
	}
	return v, e, nil
}

func saveEscrow(v *AccountView, e *JobEscrow) { copy(v.Data, e.Encode()) }

// AssignWorker implements assign_worker: the poster names the worker for an
// Active, unassigned escrow.
func AssignWorker(ledger Ledger, poster, escrowKey, worker PublicKey) (*JobEscrow, error) {
	v, e, err := loadEscrow(ledger, escrowKey, true)
	if err != nil {
		return nil, err
	}
	posterView, ok := ledger.Account(poster)
	if !ok || posterView.Key != e.Poster {
		return nil, ErrUnauthorized
	}
	if err := requireSigner(posterView); err != nil {
		return nil, err
	}
	if e.Status != StatusActive {
		return nil, ErrInvalidStatus
	}
	if e.HasWorker() {
		return nil, ErrWorkerAlreadyAssigned
	}
	if worker == ZeroPublicKey || worker == poster {
		return nil, ErrInvalidWorker
	}
	e.Worker = worker
	saveEscrow(v, e)
	return e, nil
}

// SubmitWork implements submit_work: the assigned worker attaches a proof
// hash and moves the escrow into PendingReview.
func SubmitWork(ledger Ledger, worker, escrowKey PublicKey, proofHash [32]byte) (*JobEscrow, error) {
	v, e, err := loadEscrow(ledger, escrowKey, true)
	if err != nil {
		return nil, err
	}
	workerView, ok := ledger.Account(worker)
	if !ok || workerView.Key != e.Worker {
		return nil, ErrUnauthorized
	}
	if err := requireSigner(workerView); err != nil {
		return nil, err
	}
	if e.Status != StatusActive || !e.HasWorker() {
		return nil, ErrInvalidStatus
	}
	now, _ := ledger.Clock()
	if now+MinReviewBuffer > e.ExpiresAt {
		return nil, ErrInsufficientReviewTime
	}
	e.ProofHash = proofHash
	e.HasProofHash = true
	e.SubmittedAt = now
	e.Status = StatusPendingReview
	saveEscrow(v, e)
	return e, nil
}

// ApproveWork implements approve_work: the poster accepts submitted work and
// releases payment immediately.
func ApproveWork(ledger Ledger, poster, escrowKey, worker, platformFeeAccount PublicKey) (*JobEscrow, error) {
	v, e, err := loadEscrow(ledger, escrowKey, true)
	if err != nil {
		return nil, err
	}
	posterView, ok := ledger.Account(poster)
	if !ok || posterView.Key != e.Poster {
		return nil, ErrUnauthorized
	}
	if err := requireSigner(posterView); err != nil {
		return nil, err
	}
	if e.Status != StatusPendingReview {
		return nil, ErrInvalidStatus
	}
	if err := payoutToWorker(ledger, escrowKey, e, worker, platformFeeAccount); err != nil {
		return nil, err
	}
	e.Status = StatusReleased
	saveEscrow(v, e)
	return e, nil
}

// ReleaseToWorker implements release_to_worker: the platform authority may
// release an Active (not yet submitted) or PendingReview job directly,
// independent of the poster's own approve_work path — e.g. when the poster
// is unresponsive but has not disputed. Distinct from ApproveWork
// (poster-signed) and AutoRelease (permissionless, only after the review
// window elapses).
func ReleaseToWorker(ledger Ledger, platformAuthority, escrowKey, worker, platformFeeAccount, poolKey PublicKey) (*JobEscrow, error) {
	v, e, err := loadEscrow(ledger, escrowKey, true)
	if err != nil {
		return nil, err
	}
	if err := requirePlatformAuthority(ledger, poolKey, platformAuthority); err != nil {
		return nil, err
	}
	if e.Status != StatusActive && e.Status != StatusPendingReview {
		return nil, ErrInvalidStatus
	}
	if !e.HasWorker() {
		return nil, ErrNoWorkerAssigned
	}
	if err := payoutToWorker(ledger, escrowKey, e, worker, platformFeeAccount); err != nil {
		return nil, err
	}
	e.Status = StatusReleased
	saveEscrow(v, e)
	return e, nil
}

// AutoRelease implements auto_release: once the review window has elapsed
// with no poster action, anyone may force the release to the worker.
func AutoRelease(ledger Ledger, escrowKey, worker, platformFeeAccount PublicKey) (*JobEscrow, error) {
	v, e, err := loadEscrow(ledger, escrowKey, true)
	if err != nil {
		return nil, err
	}
	if e.Status != StatusPendingReview {
		return nil, ErrInvalidStatus
	}
	now, _ := ledger.Clock()
	if now < e.SubmittedAt+ReviewWindow {
		return nil, ErrDeadlineNotReached
	}
	if err := payoutToWorker(ledger, escrowKey, e, worker, platformFeeAccount); err != nil {
		return nil, err
	}
	e.Status = StatusReleased
	saveEscrow(v, e)
	return e, nil
}

// InitiateDispute implements initiate_dispute: the legacy single-authority
// path — either the poster or the platform authority may contest an Active
// or PendingReview job with an assigned worker. The worker is not a valid
// signer here; a worker who wants to contest uses raise_dispute_case.
func InitiateDispute(ledger Ledger, signer, escrowKey, poolKey PublicKey) (*JobEscrow, error) {
	v, e, err := loadEscrow(ledger, escrowKey, true)
	if err != nil {
		return nil, err
	}
	if signer == e.Poster {
		signerView, ok := ledger.Account(signer)
		if !ok {
			return nil, ErrInvalidAccount
		}
		if err := requireSigner(signerView); err != nil {
			return nil, err
		}
	} else if err := requirePlatformAuthority(ledger, poolKey, signer); err != nil {
		return nil, ErrUnauthorized
	}
	if e.Status != StatusActive && e.Status != StatusPendingReview {
		return nil, ErrInvalidStatus
	}
	if !e.HasWorker() {
		return nil, ErrNoWorkerAssigned
	}
	now, _ := ledger.Clock()
	e.Status = StatusDisputed
	e.DisputeInitiatedAt = now
	saveEscrow(v, e)
	return e, nil
}

// RefundToPoster implements refund_to_poster: the platform authority settles
// a disputed job back to the poster without empanelling arbitration (e.g. an
// off-chain-negotiated resolution).
func RefundToPoster(ledger Ledger, platformAuthority, escrowKey, poolKey PublicKey) (*JobEscrow, error) {
	v, e, err := loadEscrow(ledger, escrowKey, true)
	if err != nil {
		return nil, err
	}
	if err := requirePlatformAuthority(ledger, poolKey, platformAuthority); err != nil {
		return nil, err
	}
	if e.Status != StatusDisputed {
		return nil, ErrInvalidStatus
	}
	now, _ := ledger.Clock()
	if now < e.DisputeInitiatedAt+RefundTimelock {
		return nil, ErrDeadlineNotReached
	}
	if err := ledger.DebitCredit(escrowKey, e.Poster, e.Amount); err != nil {
		return nil, err
	}
	e.Status = StatusRefunded
	saveEscrow(v, e)
	return e, nil
}

// ClaimExpired implements claim_expired: the poster reclaims funds from an
// escrow that expired before a worker ever submitted accepted work.
func ClaimExpired(ledger Ledger, poster, escrowKey PublicKey) (*JobEscrow, error) {
	v, e, err := loadEscrow(ledger, escrowKey, true)
	if err != nil {
		return nil, err
	}
	posterView, ok := ledger.Account(poster)
	if !ok || posterView.Key != e.Poster {
		return nil, ErrUnauthorized
	}
	if err := requireSigner(posterView); err != nil {
		return nil, err
	}
	if e.Status != StatusActive && e.Status != StatusPendingReview {
		return nil, ErrInvalidStatus
	}
	now, _ := ledger.Clock()
	if now <= e.ExpiresAt {
		return nil, ErrDeadlineNotReached
	}
	if err := ledger.DebitCredit(escrowKey, e.Poster, e.Amount); err != nil {
		return nil, err
	}
	e.Status = StatusExpired
	saveEscrow(v, e)
	return e, nil
}

// CancelEscrow implements cancel_escrow: the poster withdraws an Active job
// that has no worker assigned yet.
func CancelEscrow(ledger Ledger, poster, escrowKey PublicKey) (*JobEscrow, error) {
	v, e, err := loadEscrow(ledger, escrowKey, true)
	if err != nil {
		return nil, err
	}
	posterView, ok := ledger.Account(poster)
	if !ok || posterView.Key != e.Poster {
		return nil, ErrUnauthorized
	}
	if err := requireSigner(posterView); err != nil {
		return nil, err
	}
	if e.Status != StatusActive {
		return nil, ErrInvalidStatus
	}
	if e.HasWorker() {
		return nil, ErrWorkerAlreadyAssigned
	}
	if err := ledger.DebitCredit(escrowKey, e.Poster, e.Amount); err != nil {
		return nil, err
	}
	e.Status = StatusCancelled
	saveEscrow(v, e)
	return e, nil
}

// CloseEscrow implements close_escrow: reclaim the account's rent once it
// has reached a terminal state. No handler other than this one may touch a
// terminal escrow (spec §4.4).
func CloseEscrow(ledger Ledger, poster, escrowKey PublicKey) error {
	_, e, err := loadEscrow(ledger, escrowKey, true)
	if err != nil {
		return err
	}
	posterView, ok := ledger.Account(poster)
	if !ok || posterView.Key != e.Poster {
		return ErrUnauthorized
	}
	if err := requireSigner(posterView); err != nil {
		return err
	}
	if !e.Status.IsTerminal() {
		return ErrInvalidStatus
	}
	return ledger.CloseAccount(escrowKey, poster)
}
