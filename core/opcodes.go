package core

// Opcode is the single-byte instruction discriminator from spec §6. Unlike
// the teacher's 24-bit, per-subsystem opcode space (core/opcode_dispatcher.go
// assigns a 0xCCNNNN code per function across dozens of subsystems), this
// program has exactly one subsystem and spec §6 fixes the encoding at a
// single byte, 0..24.
type Opcode uint8

const (
	OpCreateEscrow Opcode = iota // 0
	OpAssignWorker
	OpSubmitWork
	OpReleaseToWorker
	OpApproveWork
	OpAutoRelease
	OpInitiateDispute
	OpRefundToPoster
	OpClaimExpired
	OpCancelEscrow
	OpCloseEscrow
	OpInitReputation
	OpReleaseWithReputation
	OpInitArbitratorPool
	OpRegisterArbitrator
	OpUnregisterArbitrator
	OpRaiseDisputeCase
	OpCastArbitrationVote
	OpFinalizeDisputeCase
	OpExecuteDisputeResolution
	OpUpdateArbitratorAccuracy
	OpClaimExpiredArbitration
	OpRemoveArbitrator
	OpCloseDisputeCase
	OpCloseArbitratorAccount // 24
	opcodeCount
)

// opcodeNames mirrors the catalogue banner in the teacher's
// core/opcode_dispatcher.go, kept here so core/opcode_lint.go and the CLI
// can print a human name for an opcode without a giant switch statement.
var opcodeNames = [opcodeCount]string{
	OpCreateEscrow:             "CreateEscrow",
	OpAssignWorker:             "AssignWorker",
	OpSubmitWork:               "SubmitWork",
	OpReleaseToWorker:          "ReleaseToWorker",
	OpApproveWork:              "ApproveWork",
	OpAutoRelease:              "AutoRelease",
	OpInitiateDispute:          "InitiateDispute",
	OpRefundToPoster:           "RefundToPoster",
	OpClaimExpired:             "ClaimExpired",
	OpCancelEscrow:             "CancelEscrow",
	OpCloseEscrow:              "CloseEscrow",
	OpInitReputation:           "InitReputation",
	OpReleaseWithReputation:    "ReleaseWithReputation",
	OpInitArbitratorPool:       "InitArbitratorPool",
	OpRegisterArbitrator:       "RegisterArbitrator",
	OpUnregisterArbitrator:     "UnregisterArbitrator",
	OpRaiseDisputeCase:         "RaiseDisputeCase",
	OpCastArbitrationVote:      "CastArbitrationVote",
	OpFinalizeDisputeCase:      "FinalizeDisputeCase",
	OpExecuteDisputeResolution: "ExecuteDisputeResolution",
	OpUpdateArbitratorAccuracy: "UpdateArbitratorAccuracy",
	OpClaimExpiredArbitration:  "ClaimExpiredArbitration",
	OpRemoveArbitrator:         "RemoveArbitrator",
	OpCloseDisputeCase:         "CloseDisputeCase",
	OpCloseArbitratorAccount:   "CloseArbitratorAccount",
}

func (op Opcode) String() string {
	if int(op) >= len(opcodeNames) {
		return "Unknown"
	}
	return opcodeNames[op]
}
