package core

import "fmt"

// Opcode dispatch table (spec §6), grounded on the teacher's
// core/opcode_dispatcher.go Register/Dispatch pair: handlers are registered
// once at package init into a fixed-size array indexed by opcode, and a
// double-registration panics immediately rather than silently overwriting a
// handler — the same fail-fast posture the teacher uses for its opcode
// space.
//
// Account ordering is fixed per opcode and documented next to each case in
// Dispatch; a real client builds the instruction's account-meta list in
// exactly that order.
type handlerFunc func(ledger Ledger, accounts []PublicKey, payload []byte) error

var handlers [opcodeCount]handlerFunc

func register(op Opcode, fn handlerFunc) {
	if handlers[op] != nil {
		panic(fmt.Sprintf("core: duplicate handler registration for opcode %s", op))
	}
	handlers[op] = fn
}

func init() {
	register(OpCreateEscrow, dispatchCreateEscrow)
	register(OpAssignWorker, dispatchAssignWorker)
	register(OpSubmitWork, dispatchSubmitWork)
	register(OpReleaseToWorker, dispatchReleaseToWorker)
	register(OpApproveWork, dispatchApproveWork)
	register(OpAutoRelease, dispatchAutoRelease)
	register(OpInitiateDispute, dispatchInitiateDispute)
	register(OpRefundToPoster, dispatchRefundToPoster)
	register(OpClaimExpired, dispatchClaimExpired)
	register(OpCancelEscrow, dispatchCancelEscrow)
	register(OpCloseEscrow, dispatchCloseEscrow)
	register(OpInitReputation, dispatchInitReputation)
	register(OpReleaseWithReputation, dispatchReleaseWithReputation)
	register(OpInitArbitratorPool, dispatchInitArbitratorPool)
	register(OpRegisterArbitrator, dispatchRegisterArbitrator)
	register(OpUnregisterArbitrator, dispatchUnregisterArbitrator)
	register(OpRaiseDisputeCase, dispatchRaiseDisputeCase)
	register(OpCastArbitrationVote, dispatchCastArbitrationVote)
	register(OpFinalizeDisputeCase, dispatchFinalizeDisputeCase)
	register(OpExecuteDisputeResolution, dispatchExecuteDisputeResolution)
	register(OpUpdateArbitratorAccuracy, dispatchUpdateArbitratorAccuracy)
	register(OpClaimExpiredArbitration, dispatchClaimExpiredArbitration)
	register(OpRemoveArbitrator, dispatchRemoveArbitrator)
	register(OpCloseDisputeCase, dispatchCloseDisputeCase)
	register(OpCloseArbitratorAccount, dispatchCloseArbitratorAccount)
}

// Dispatch decodes a raw instruction and routes it to the registered
// handler for its opcode, the single entry point a transaction runtime
// embedding this program would call.
func Dispatch(ledger Ledger, accounts []PublicKey, data []byte) error {
	ix, err := ParseInstruction(data)
	if err != nil {
		return err
	}
	fn := handlers[ix.Opcode]
	if fn == nil {
		return ErrInvalidAccountData
	}
	return fn(ledger, accounts, ix.Payload)
}

func accountAt(accounts []PublicKey, i int) (PublicKey, error) {
	if i >= len(accounts) {
		return ZeroPublicKey, ErrInvalidAccount
	}
	return accounts[i], nil
}

// accounts: [poster]
func dispatchCreateEscrow(ledger Ledger, accounts []PublicKey, payload []byte) error {
	poster, err := accountAt(accounts, 0)
	if err != nil {
		return err
	}
	r := newPayloadReader(payload)
	jobIDHash := r.bytes32()
	amount := r.u64()
	expiry := r.i64()
	if r.err != nil {
		return r.err
	}
	_, err = CreateEscrow(ledger, poster, jobIDHash, amount, expiry)
	return err
}

// accounts: [poster, escrow]
func dispatchAssignWorker(ledger Ledger, accounts []PublicKey, payload []byte) error {
	poster, err := accountAt(accounts, 0)
	if err != nil {
		return err
	}
	escrow, err := accountAt(accounts, 1)
	if err != nil {
		return err
	}
	r := newPayloadReader(payload)
	worker := r.pubkey()
	if r.err != nil {
		return r.err
	}
	_, err = AssignWorker(ledger, poster, escrow, worker)
	return err
}

// accounts: [worker, escrow]
func dispatchSubmitWork(ledger Ledger, accounts []PublicKey, payload []byte) error {
	worker, err := accountAt(accounts, 0)
	if err != nil {
		return err
	}
	escrow, err := accountAt(accounts, 1)
	if err != nil {
		return err
	}
	r := newPayloadReader(payload)
	proof := r.bytes32()
	if r.err != nil {
		return r.err
	}
	_, err = SubmitWork(ledger, worker, escrow, proof)
	return err
}

// accounts: [platformAuthority, escrow, worker, platformFeeAccount, pool]
func dispatchReleaseToWorker(ledger Ledger, accounts []PublicKey, payload []byte) error {
	authority, err := accountAt(accounts, 0)
	if err != nil {
		return err
	}
	escrow, err := accountAt(accounts, 1)
	if err != nil {
		return err
	}
	worker, err := accountAt(accounts, 2)
	if err != nil {
		return err
	}
	fee, err := accountAt(accounts, 3)
	if err != nil {
		return err
	}
	pool, err := accountAt(accounts, 4)
	if err != nil {
		return err
	}
	_, err = ReleaseToWorker(ledger, authority, escrow, worker, fee, pool)
	return err
}

// accounts: [poster, escrow, worker, platformFeeAccount]
func dispatchApproveWork(ledger Ledger, accounts []PublicKey, _ []byte) error {
	poster, err := accountAt(accounts, 0)
	if err != nil {
		return err
	}
	escrow, err := accountAt(accounts, 1)
	if err != nil {
		return err
	}
	worker, err := accountAt(accounts, 2)
	if err != nil {
		return err
	}
	fee, err := accountAt(accounts, 3)
	if err != nil {
		return err
	}
	_, err = ApproveWork(ledger, poster, escrow, worker, fee)
	return err
}

// accounts: [escrow, worker, platformFeeAccount]
func dispatchAutoRelease(ledger Ledger, accounts []PublicKey, _ []byte) error {
	escrow, err := accountAt(accounts, 0)
	if err != nil {
		return err
	}
	worker, err := accountAt(accounts, 1)
	if err != nil {
		return err
	}
	fee, err := accountAt(accounts, 2)
	if err != nil {
		return err
	}
	_, err = AutoRelease(ledger, escrow, worker, fee)
	return err
}

// accounts: [signer, escrow, pool]
func dispatchInitiateDispute(ledger Ledger, accounts []PublicKey, _ []byte) error {
	signer, err := accountAt(accounts, 0)
	if err != nil {
		return err
	}
	escrow, err := accountAt(accounts, 1)
	if err != nil {
		return err
	}
	pool, err := accountAt(accounts, 2)
	if err != nil {
		return err
	}
	_, err = InitiateDispute(ledger, signer, escrow, pool)
	return err
}

// accounts: [platformAuthority, escrow, pool]
func dispatchRefundToPoster(ledger Ledger, accounts []PublicKey, _ []byte) error {
	authority, err := accountAt(accounts, 0)
	if err != nil {
		return err
	}
	escrow, err := accountAt(accounts, 1)
	if err != nil {
		return err
	}
	pool, err := accountAt(accounts, 2)
	if err != nil {
		return err
	}
	_, err = RefundToPoster(ledger, authority, escrow, pool)
	return err
}

// accounts: [poster, escrow]
func dispatchClaimExpired(ledger Ledger, accounts []PublicKey, _ []byte) error {
	poster, err := accountAt(accounts, 0)
	if err != nil {
		return err
	}
	escrow, err := accountAt(accounts, 1)
	if err != nil {
		return err
	}
	_, err = ClaimExpired(ledger, poster, escrow)
	return err
}

// accounts: [poster, escrow]
func dispatchCancelEscrow(ledger Ledger, accounts []PublicKey, _ []byte) error {
	poster, err := accountAt(accounts, 0)
	if err != nil {
		return err
	}
	escrow, err := accountAt(accounts, 1)
	if err != nil {
		return err
	}
	_, err = CancelEscrow(ledger, poster, escrow)
	return err
}

// accounts: [poster, escrow]
func dispatchCloseEscrow(ledger Ledger, accounts []PublicKey, _ []byte) error {
	poster, err := accountAt(accounts, 0)
	if err != nil {
		return err
	}
	escrow, err := accountAt(accounts, 1)
	if err != nil {
		return err
	}
	return CloseEscrow(ledger, poster, escrow)
}

// accounts: [payer, agent]
func dispatchInitReputation(ledger Ledger, accounts []PublicKey, _ []byte) error {
	payer, err := accountAt(accounts, 0)
	if err != nil {
		return err
	}
	agent, err := accountAt(accounts, 1)
	if err != nil {
		return err
	}
	_, err = InitReputation(ledger, payer, agent)
	return err
}

// accounts: [poster, escrow, worker, platformFeeAccount, workerReputation, posterReputation]
func dispatchReleaseWithReputation(ledger Ledger, accounts []PublicKey, _ []byte) error {
	poster, err := accountAt(accounts, 0)
	if err != nil {
		return err
	}
	escrow, err := accountAt(accounts, 1)
	if err != nil {
		return err
	}
	worker, err := accountAt(accounts, 2)
	if err != nil {
		return err
	}
	fee, err := accountAt(accounts, 3)
	if err != nil {
		return err
	}
	workerRep, err := accountAt(accounts, 4)
	if err != nil {
		return err
	}
	posterRep, err := accountAt(accounts, 5)
	if err != nil {
		return err
	}
	_, err = ReleaseWithReputation(ledger, poster, escrow, worker, fee, workerRep, posterRep)
	return err
}

// accounts: [platformAuthority, pool]
func dispatchInitArbitratorPool(ledger Ledger, accounts []PublicKey, payload []byte) error {
	authority, err := accountAt(accounts, 0)
	if err != nil {
		return err
	}
	r := newPayloadReader(payload)
	minStake := r.u64()
	if r.err != nil {
		return r.err
	}
	_, err = InitArbitratorPool(ledger, authority, minStake)
	return err
}

// accounts: [agent, pool]
func dispatchRegisterArbitrator(ledger Ledger, accounts []PublicKey, payload []byte) error {
	agent, err := accountAt(accounts, 0)
	if err != nil {
		return err
	}
	pool, err := accountAt(accounts, 1)
	if err != nil {
		return err
	}
	r := newPayloadReader(payload)
	stake := r.u64()
	if r.err != nil {
		return r.err
	}
	_, err = RegisterArbitrator(ledger, agent, pool, stake)
	return err
}

// accounts: [agent, pool, entry]
func dispatchUnregisterArbitrator(ledger Ledger, accounts []PublicKey, _ []byte) error {
	agent, err := accountAt(accounts, 0)
	if err != nil {
		return err
	}
	pool, err := accountAt(accounts, 1)
	if err != nil {
		return err
	}
	entry, err := accountAt(accounts, 2)
	if err != nil {
		return err
	}
	return UnregisterArbitrator(ledger, agent, pool, entry)
}

// accounts: [initiator, escrow, pool]
func dispatchRaiseDisputeCase(ledger Ledger, accounts []PublicKey, payload []byte) error {
	initiator, err := accountAt(accounts, 0)
	if err != nil {
		return err
	}
	escrow, err := accountAt(accounts, 1)
	if err != nil {
		return err
	}
	pool, err := accountAt(accounts, 2)
	if err != nil {
		return err
	}
	r := newPayloadReader(payload)
	reason := r.rest()
	_, err = RaiseDisputeCase(ledger, initiator, escrow, pool, reason)
	return err
}

// accounts: [arbitrator, disputeCase]
func dispatchCastArbitrationVote(ledger Ledger, accounts []PublicKey, payload []byte) error {
	arbitrator, err := accountAt(accounts, 0)
	if err != nil {
		return err
	}
	disputeCase, err := accountAt(accounts, 1)
	if err != nil {
		return err
	}
	r := newPayloadReader(payload)
	vote := Vote(r.u8())
	if r.err != nil {
		return r.err
	}
	_, err = CastArbitrationVote(ledger, arbitrator, disputeCase, vote)
	return err
}

// accounts: [disputeCase, escrow]
func dispatchFinalizeDisputeCase(ledger Ledger, accounts []PublicKey, _ []byte) error {
	disputeCase, err := accountAt(accounts, 0)
	if err != nil {
		return err
	}
	escrow, err := accountAt(accounts, 1)
	if err != nil {
		return err
	}
	_, err = FinalizeDisputeCase(ledger, escrow, disputeCase)
	return err
}

// accounts: [escrow, disputeCase, worker, poster, platformFeeAccount, workerReputation, posterReputation]
func dispatchExecuteDisputeResolution(ledger Ledger, accounts []PublicKey, _ []byte) error {
	escrow, err := accountAt(accounts, 0)
	if err != nil {
		return err
	}
	disputeCase, err := accountAt(accounts, 1)
	if err != nil {
		return err
	}
	worker, err := accountAt(accounts, 2)
	if err != nil {
		return err
	}
	poster, err := accountAt(accounts, 3)
	if err != nil {
		return err
	}
	fee, err := accountAt(accounts, 4)
	if err != nil {
		return err
	}
	workerRep, err := accountAt(accounts, 5)
	if err != nil {
		return err
	}
	posterRep, err := accountAt(accounts, 6)
	if err != nil {
		return err
	}
	_, err = ExecuteDisputeResolution(ledger, escrow, disputeCase, worker, poster, fee, workerRep, posterRep)
	return err
}

// accounts: [payer, disputeCase, arbitrator]
func dispatchUpdateArbitratorAccuracy(ledger Ledger, accounts []PublicKey, _ []byte) error {
	payer, err := accountAt(accounts, 0)
	if err != nil {
		return err
	}
	disputeCase, err := accountAt(accounts, 1)
	if err != nil {
		return err
	}
	arbitrator, err := accountAt(accounts, 2)
	if err != nil {
		return err
	}
	_, err = UpdateArbitratorAccuracy(ledger, payer, disputeCase, arbitrator)
	return err
}

// accounts: [poster, escrow, disputeCase]
func dispatchClaimExpiredArbitration(ledger Ledger, accounts []PublicKey, _ []byte) error {
	poster, err := accountAt(accounts, 0)
	if err != nil {
		return err
	}
	escrow, err := accountAt(accounts, 1)
	if err != nil {
		return err
	}
	disputeCase, err := accountAt(accounts, 2)
	if err != nil {
		return err
	}
	_, err = ClaimExpiredArbitration(ledger, poster, escrow, disputeCase)
	return err
}

// accounts: [platformAuthority, pool, entry, agent]
func dispatchRemoveArbitrator(ledger Ledger, accounts []PublicKey, _ []byte) error {
	authority, err := accountAt(accounts, 0)
	if err != nil {
		return err
	}
	pool, err := accountAt(accounts, 1)
	if err != nil {
		return err
	}
	entry, err := accountAt(accounts, 2)
	if err != nil {
		return err
	}
	agent, err := accountAt(accounts, 3)
	if err != nil {
		return err
	}
	return RemoveArbitrator(ledger, authority, pool, entry, agent)
}

// accounts: [signer, disputeCase, pool (optional)]. Without the pool only
// the case's raiser may close it; with it, the pool's authority may as well.
func dispatchCloseDisputeCase(ledger Ledger, accounts []PublicKey, _ []byte) error {
	signer, err := accountAt(accounts, 0)
	if err != nil {
		return err
	}
	disputeCase, err := accountAt(accounts, 1)
	if err != nil {
		return err
	}
	authority := ZeroPublicKey
	if len(accounts) > 2 {
		_, pool, err := loadPool(ledger, accounts[2], false)
		if err != nil {
			return err
		}
		authority = pool.Authority
	}
	return CloseDisputeCase(ledger, signer, disputeCase, authority)
}

// accounts: [agent, entry]
func dispatchCloseArbitratorAccount(ledger Ledger, accounts []PublicKey, _ []byte) error {
	agent, err := accountAt(accounts, 0)
	if err != nil {
		return err
	}
	entry, err := accountAt(accounts, 1)
	if err != nil {
		return err
	}
	return CloseArbitratorAccount(ledger, agent, entry)
}
