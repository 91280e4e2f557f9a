package core

// Account layouts (spec §3). Each type's SPACE is the byte length excluding
// the 8-byte discriminator that checkDiscriminator verifies on every load.

// EscrowStatus is JobEscrow.status (spec §4.4).
type EscrowStatus uint8

const (
	StatusActive EscrowStatus = iota + 1
	StatusPendingReview
	StatusDisputed
	StatusInArbitration
	StatusDisputeWorkerWins
	StatusDisputePosterWins
	StatusDisputeSplit
	StatusReleased
	StatusRefunded
	StatusExpired
	StatusCancelled
)

// IsTerminal reports whether status is one of the escrow terminal states
// (spec §4.4, "no handler other than close_* mutates any escrow field").
func (s EscrowStatus) IsTerminal() bool {
	switch s {
	case StatusReleased, StatusRefunded, StatusExpired, StatusCancelled:
		return true
	default:
		return false
	}
}

// Vote is one arbitrator's ballot in a DisputeCase.
type Vote uint8

const (
	VoteNone Vote = iota
	VoteForWorker
	VoteForPoster
)

// Resolution is the finalized outcome of a DisputeCase.
type Resolution uint8

const (
	ResolutionPending Resolution = iota
	ResolutionWorkerWins
	ResolutionPosterWins
	ResolutionSplit
)

// JobEscrow — spec §3, one per (job, poster). PDA seeds:
// ("escrow", sha256(job_id), poster).
type JobEscrow struct {
	JobIDHash           [32]byte
	Poster              PublicKey
	Worker              PublicKey
	Amount              uint64
	Status              EscrowStatus
	CreatedAt           int64
	ExpiresAt           int64
	DisputeInitiatedAt  int64
	SubmittedAt         int64
	ProofHash           [32]byte
	HasProofHash        bool
	DisputeCase         PublicKey
	HasDisputeCase      bool
	Bump                uint8
}

const JobEscrowSpace = 32 + 32 + 32 + 8 + 1 + 8 + 8 + 8 + 8 + 32 + 1 + 32 + 1 + 1

func (e *JobEscrow) HasWorker() bool { return e.Worker != ZeroPublicKey }

func (e *JobEscrow) Encode() []byte {
	w := newEncoder(discJobEscrow)
	w.bytes32(e.JobIDHash)
	w.pubkey(e.Poster)
	w.pubkey(e.Worker)
	w.u64(e.Amount)
	w.u8(uint8(e.Status))
	w.i64(e.CreatedAt)
	w.i64(e.ExpiresAt)
	w.i64(e.DisputeInitiatedAt)
	w.i64(e.SubmittedAt)
	w.bytes32(e.ProofHash)
	w.boolean(e.HasProofHash)
	w.pubkey(e.DisputeCase)
	w.boolean(e.HasDisputeCase)
	w.u8(e.Bump)
	return w.bytesOut()
}

func DecodeJobEscrow(data []byte) (*JobEscrow, error) {
	d := newDecoder(data, discJobEscrow)
	e := &JobEscrow{
		JobIDHash:          d.bytes32(),
		Poster:             d.pubkey(),
		Worker:             d.pubkey(),
		Amount:             d.u64(),
		Status:             EscrowStatus(d.u8()),
		CreatedAt:          d.i64(),
		ExpiresAt:          d.i64(),
		DisputeInitiatedAt: d.i64(),
		SubmittedAt:        d.i64(),
		ProofHash:          d.bytes32(),
		HasProofHash:       d.boolean(),
		DisputeCase:        d.pubkey(),
		HasDisputeCase:     d.boolean(),
		Bump:               d.u8(),
	}
	if d.err != nil {
		return nil, d.err
	}
	return e, nil
}

// AgentReputation — spec §3, one per agent. PDA seeds: ("reputation", agent).
type AgentReputation struct {
	Agent            PublicKey
	JobsCompleted    uint64
	JobsPosted       uint64
	TotalEarned      uint64
	TotalSpent       uint64
	DisputesWon      uint64
	DisputesLost     uint64
	ReputationScore  int64
	CreatedAt        int64
	Bump             uint8
}

const AgentReputationSpace = 32 + 8*6 + 8 + 8 + 1

// RecomputeScore applies the saturating formula from spec §4.5.
func (r *AgentReputation) RecomputeScore() {
	r.ReputationScore = satAddI64(
		satAddI64(satMulI64U64(int64(r.JobsCompleted), 10), satMulI64U64(int64(r.DisputesWon), 5)),
		-satMulI64U64(int64(r.DisputesLost), 10),
	)
}

func (r *AgentReputation) Encode() []byte {
	w := newEncoder(discAgentReputation)
	w.pubkey(r.Agent)
	w.u64(r.JobsCompleted)
	w.u64(r.JobsPosted)
	w.u64(r.TotalEarned)
	w.u64(r.TotalSpent)
	w.u64(r.DisputesWon)
	w.u64(r.DisputesLost)
	w.i64(r.ReputationScore)
	w.i64(r.CreatedAt)
	w.u8(r.Bump)
	return w.bytesOut()
}

func DecodeAgentReputation(data []byte) (*AgentReputation, error) {
	d := newDecoder(data, discAgentReputation)
	r := &AgentReputation{
		Agent:           d.pubkey(),
		JobsCompleted:   d.u64(),
		JobsPosted:      d.u64(),
		TotalEarned:     d.u64(),
		TotalSpent:      d.u64(),
		DisputesWon:     d.u64(),
		DisputesLost:    d.u64(),
		ReputationScore: d.i64(),
		CreatedAt:       d.i64(),
		Bump:            d.u8(),
	}
	if d.err != nil {
		return nil, d.err
	}
	return r, nil
}

// ArbitratorPool — spec §3, singleton. PDA seeds: ("arbitrator_pool_v2").
type ArbitratorPool struct {
	Authority        PublicKey
	MinStake         uint64
	ArbitratorCount  uint8
	Arbitrators      [MaxArbitrators]PublicKey
	Bump             uint8
}

const ArbitratorPoolSpace = 32 + 8 + 1 + MaxArbitrators*32 + 1

// ActiveSlice returns the populated prefix of Arbitrators.
func (p *ArbitratorPool) ActiveSlice() []PublicKey {
	return p.Arbitrators[:p.ArbitratorCount]
}

func (p *ArbitratorPool) Encode() []byte {
	w := newEncoder(discArbitratorPool)
	w.pubkey(p.Authority)
	w.u64(p.MinStake)
	w.u8(p.ArbitratorCount)
	for _, a := range p.Arbitrators {
		w.pubkey(a)
	}
	w.u8(p.Bump)
	return w.bytesOut()
}

func DecodeArbitratorPool(data []byte) (*ArbitratorPool, error) {
	d := newDecoder(data, discArbitratorPool)
	p := &ArbitratorPool{
		Authority: d.pubkey(),
		MinStake:  d.u64(),
	}
	p.ArbitratorCount = d.u8()
	for i := range p.Arbitrators {
		p.Arbitrators[i] = d.pubkey()
	}
	p.Bump = d.u8()
	if d.err != nil {
		return nil, d.err
	}
	return p, nil
}

// ArbitratorEntry — spec §3, one per registered agent. PDA seeds:
// ("arbitrator", agent).
//
// AssignedCount (not in spec §3's field list) tracks the number of disputes
// this arbitrator is currently selected on whose case has not yet been
// finalized or claimed as expired;
// it backs the §9 open-question decision to block unregister_arbitrator
// mid-case (see DESIGN.md).
type ArbitratorEntry struct {
	Agent         PublicKey
	Stake         uint64
	CasesVoted    uint64
	CasesCorrect  uint64
	IsActive      bool
	RegisteredAt  int64
	AssignedCount uint64
	Bump          uint8
}

const ArbitratorEntrySpace = 32 + 8 + 8 + 8 + 1 + 8 + 8 + 1

func (e *ArbitratorEntry) Encode() []byte {
	w := newEncoder(discArbitratorEntry)
	w.pubkey(e.Agent)
	w.u64(e.Stake)
	w.u64(e.CasesVoted)
	w.u64(e.CasesCorrect)
	w.boolean(e.IsActive)
	w.i64(e.RegisteredAt)
	w.u64(e.AssignedCount)
	w.u8(e.Bump)
	return w.bytesOut()
}

func DecodeArbitratorEntry(data []byte) (*ArbitratorEntry, error) {
	d := newDecoder(data, discArbitratorEntry)
	e := &ArbitratorEntry{
		Agent:        d.pubkey(),
		Stake:        d.u64(),
		CasesVoted:   d.u64(),
		CasesCorrect: d.u64(),
		IsActive:     d.boolean(),
		RegisteredAt: d.i64(),
	}
	e.AssignedCount = d.u64()
	e.Bump = d.u8()
	if d.err != nil {
		return nil, d.err
	}
	return e, nil
}

// DisputeCase — spec §3, one per disputed escrow. PDA seeds:
// ("dispute", escrow). Variable length: fixed part plus a length-prefixed
// reason string (<= MaxReasonLen bytes).
type DisputeCase struct {
	Escrow         PublicKey
	RaisedBy       PublicKey
	Arbitrators    [ArbitratorsPerDispute]PublicKey
	Votes          [ArbitratorsPerDispute]Vote
	VotingDeadline int64
	Resolution     Resolution
	CreatedAt      int64
	Bump           uint8
	Reason         string
}

// DisputeCaseFixedSpace is the portion of SPACE before the length-prefixed
// reason string.
const DisputeCaseFixedSpace = 32 + 32 + ArbitratorsPerDispute*32 + ArbitratorsPerDispute + 8 + 1 + 8 + 1

// Space returns this instance's actual encoded length (excluding the 8-byte
// discriminator), which varies with len(Reason).
func (c *DisputeCase) Space() int { return DisputeCaseFixedSpace + 2 + len(c.Reason) }

func (c *DisputeCase) Encode() []byte {
	w := newEncoder(discDisputeCase)
	w.pubkey(c.Escrow)
	w.pubkey(c.RaisedBy)
	for _, a := range c.Arbitrators {
		w.pubkey(a)
	}
	for _, v := range c.Votes {
		w.u8(uint8(v))
	}
	w.i64(c.VotingDeadline)
	w.u8(uint8(c.Resolution))
	w.i64(c.CreatedAt)
	w.u8(c.Bump)
	reason := []byte(c.Reason)
	w.u16(uint16(len(reason)))
	w.rawBytes(reason)
	return w.bytesOut()
}

func DecodeDisputeCase(data []byte) (*DisputeCase, error) {
	d := newDecoder(data, discDisputeCase)
	c := &DisputeCase{
		Escrow:   d.pubkey(),
		RaisedBy: d.pubkey(),
	}
	for i := range c.Arbitrators {
		c.Arbitrators[i] = d.pubkey()
	}
	for i := range c.Votes {
		c.Votes[i] = Vote(d.u8())
	}
	c.VotingDeadline = d.i64()
	c.Resolution = Resolution(d.u8())
	c.CreatedAt = d.i64()
	c.Bump = d.u8()
	reasonLen := d.u16()
	if int(reasonLen) > MaxReasonLen {
		return nil, ErrInvalidAccountData
	}
	reason := d.rawBytes(int(reasonLen))
	if d.err != nil {
		return nil, d.err
	}
	c.Reason = string(reason)
	return c, nil
}

// AccuracyClaim — spec §3, idempotence marker for update_arbitrator_accuracy.
// PDA seeds: ("accuracy_claim", dispute_case, arbitrator). Carries no fields
// beyond the discriminator; its mere existence is the token.
type AccuracyClaim struct{}

const AccuracyClaimSpace = 0

func (AccuracyClaim) Encode() []byte {
	w := newEncoder(discAccuracyClaim)
	return w.bytesOut()
}

func DecodeAccuracyClaim(data []byte) (*AccuracyClaim, error) {
	if err := checkDiscriminator(data, discAccuracyClaim); err != nil {
		return nil, err
	}
	return &AccuracyClaim{}, nil
}
