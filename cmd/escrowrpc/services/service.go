package services

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	core "jobescrow/core"
)

// EscrowService wraps the core package's handlers around a single
// long-lived, mutex-guarded SimLedger, the RPC-daemon analogue of the CLI's
// per-invocation state file (cmd/cli/state.go): the daemon keeps the ledger
// in memory for its whole run and persists a snapshot to disk after every
// mutating call, so a restart picks state back up.
type EscrowService struct {
	mu        sync.Mutex
	ledger    *core.SimLedger
	statePath string
}

func NewService(statePath string) (*EscrowService, error) {
	s := &EscrowService{statePath: statePath}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *EscrowService) load() error {
	b, err := os.ReadFile(s.statePath)
	if err != nil {
		return fmt.Errorf("read ledger state %s (run `jobescrow devnet genesis` first): %w", s.statePath, err)
	}
	var snap core.LedgerSnapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return fmt.Errorf("parse ledger state %s: %w", s.statePath, err)
	}
	l, err := core.RestoreSimLedger(snap)
	if err != nil {
		return err
	}
	s.ledger = l
	return nil
}

func (s *EscrowService) persist() error {
	snap := s.ledger.Snapshot()
	b, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.statePath, b, 0o644)
}

// withLedger serializes access to the ledger and persists it after fn
// returns successfully, mirroring the CLI's load-mutate-save cycle but
// without reloading from disk on every call.
func (s *EscrowService) withLedger(fn func(*core.SimLedger) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(s.ledger); err != nil {
		return err
	}
	return s.persist()
}

func (s *EscrowService) CreateEscrow(poster core.PublicKey, jobID []byte, amount uint64, expirySeconds int64) (*core.JobEscrow, error) {
	var e *core.JobEscrow
	err := s.withLedger(func(l *core.SimLedger) error {
		l.SetSigners(poster)
		var err error
		e, err = core.CreateEscrow(l, poster, core.HashJobID(jobID), amount, expirySeconds)
		return err
	})
	return e, err
}

func (s *EscrowService) AssignWorker(poster, escrowKey, worker core.PublicKey) (*core.JobEscrow, error) {
	var e *core.JobEscrow
	err := s.withLedger(func(l *core.SimLedger) error {
		l.SetSigners(poster)
		l.SetWritable(escrowKey)
		var err error
		e, err = core.AssignWorker(l, poster, escrowKey, worker)
		return err
	})
	return e, err
}

func (s *EscrowService) SubmitWork(worker, escrowKey core.PublicKey, proof []byte) (*core.JobEscrow, error) {
	var e *core.JobEscrow
	err := s.withLedger(func(l *core.SimLedger) error {
		l.SetSigners(worker)
		l.SetWritable(escrowKey)
		var err error
		e, err = core.SubmitWork(l, worker, escrowKey, core.HashJobID(proof))
		return err
	})
	return e, err
}

func (s *EscrowService) ApproveWork(poster, escrowKey, worker, feeAccount core.PublicKey) (*core.JobEscrow, error) {
	var e *core.JobEscrow
	err := s.withLedger(func(l *core.SimLedger) error {
		l.SetSigners(poster)
		l.SetWritable(escrowKey)
		var err error
		e, err = core.ApproveWork(l, poster, escrowKey, worker, feeAccount)
		return err
	})
	return e, err
}

func (s *EscrowService) ReleaseToWorker(authority, escrowKey, worker, feeAccount, poolKey core.PublicKey) (*core.JobEscrow, error) {
	var e *core.JobEscrow
	err := s.withLedger(func(l *core.SimLedger) error {
		l.SetSigners(authority)
		l.SetWritable(escrowKey)
		var err error
		e, err = core.ReleaseToWorker(l, authority, escrowKey, worker, feeAccount, poolKey)
		return err
	})
	return e, err
}

func (s *EscrowService) AutoRelease(escrowKey, worker, feeAccount core.PublicKey) (*core.JobEscrow, error) {
	var e *core.JobEscrow
	err := s.withLedger(func(l *core.SimLedger) error {
		l.SetWritable(escrowKey)
		var err error
		e, err = core.AutoRelease(l, escrowKey, worker, feeAccount)
		return err
	})
	return e, err
}

func (s *EscrowService) RefundToPoster(authority, escrowKey, poolKey core.PublicKey) (*core.JobEscrow, error) {
	var e *core.JobEscrow
	err := s.withLedger(func(l *core.SimLedger) error {
		l.SetSigners(authority)
		l.SetWritable(escrowKey)
		var err error
		e, err = core.RefundToPoster(l, authority, escrowKey, poolKey)
		return err
	})
	return e, err
}

func (s *EscrowService) InitiateDispute(signer, escrowKey, poolKey core.PublicKey) (*core.JobEscrow, error) {
	var e *core.JobEscrow
	err := s.withLedger(func(l *core.SimLedger) error {
		l.SetSigners(signer)
		l.SetWritable(escrowKey)
		var err error
		e, err = core.InitiateDispute(l, signer, escrowKey, poolKey)
		return err
	})
	return e, err
}

func (s *EscrowService) CancelEscrow(poster, escrowKey core.PublicKey) (*core.JobEscrow, error) {
	var e *core.JobEscrow
	err := s.withLedger(func(l *core.SimLedger) error {
		l.SetSigners(poster)
		l.SetWritable(escrowKey)
		var err error
		e, err = core.CancelEscrow(l, poster, escrowKey)
		return err
	})
	return e, err
}

func (s *EscrowService) ClaimExpired(poster, escrowKey core.PublicKey) (*core.JobEscrow, error) {
	var e *core.JobEscrow
	err := s.withLedger(func(l *core.SimLedger) error {
		l.SetSigners(poster)
		l.SetWritable(escrowKey)
		var err error
		e, err = core.ClaimExpired(l, poster, escrowKey)
		return err
	})
	return e, err
}

func (s *EscrowService) GetEscrow(jobID []byte, poster core.PublicKey) (*core.JobEscrow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key, _, err := core.EscrowPDA(s.ledger, core.HashJobID(jobID), poster)
	if err != nil {
		return nil, err
	}
	v, ok := s.ledger.Account(key)
	if !ok {
		return nil, fmt.Errorf("no escrow for this job/poster pair")
	}
	return core.DecodeJobEscrow(v.Data)
}

// --- arbitration ---

func (s *EscrowService) RaiseDispute(initiator, escrowKey, poolKey core.PublicKey, reason string) (*core.DisputeCase, error) {
	var c *core.DisputeCase
	err := s.withLedger(func(l *core.SimLedger) error {
		l.SetSigners(initiator)
		l.SetWritable(escrowKey)
		var err error
		c, err = core.RaiseDisputeCase(l, initiator, escrowKey, poolKey, reason)
		return err
	})
	return c, err
}

func (s *EscrowService) CastVote(arbitrator, disputeKey core.PublicKey, vote core.Vote) (*core.DisputeCase, error) {
	var c *core.DisputeCase
	err := s.withLedger(func(l *core.SimLedger) error {
		l.SetSigners(arbitrator)
		l.SetWritable(disputeKey)
		var err error
		c, err = core.CastArbitrationVote(l, arbitrator, disputeKey, vote)
		return err
	})
	return c, err
}

func (s *EscrowService) FinalizeDispute(escrowKey, disputeKey core.PublicKey) (*core.DisputeCase, error) {
	var c *core.DisputeCase
	err := s.withLedger(func(l *core.SimLedger) error {
		l.SetWritable(escrowKey, disputeKey)
		var err error
		c, err = core.FinalizeDisputeCase(l, escrowKey, disputeKey)
		return err
	})
	return c, err
}

func (s *EscrowService) ExecuteDisputeResolution(escrowKey, disputeKey, worker, poster, feeAccount, workerRep, posterRep core.PublicKey) (*core.JobEscrow, error) {
	var e *core.JobEscrow
	err := s.withLedger(func(l *core.SimLedger) error {
		l.SetWritable(escrowKey, disputeKey, workerRep, posterRep)
		var err error
		e, err = core.ExecuteDisputeResolution(l, escrowKey, disputeKey, worker, poster, feeAccount, workerRep, posterRep)
		return err
	})
	return e, err
}

func (s *EscrowService) RegisterArbitrator(agent, poolKey core.PublicKey, stake uint64) (*core.ArbitratorEntry, error) {
	var e *core.ArbitratorEntry
	err := s.withLedger(func(l *core.SimLedger) error {
		l.SetSigners(agent)
		l.SetWritable(poolKey)
		var err error
		e, err = core.RegisterArbitrator(l, agent, poolKey, stake)
		return err
	})
	return e, err
}

// --- reputation ---

func (s *EscrowService) InitReputation(payer, agent core.PublicKey) (*core.AgentReputation, error) {
	var r *core.AgentReputation
	err := s.withLedger(func(l *core.SimLedger) error {
		l.SetSigners(payer)
		var err error
		r, err = core.InitReputation(l, payer, agent)
		return err
	})
	return r, err
}

// ListOpenDisputes returns every DisputeCase account still pending
// resolution, for the RPC daemon's list-disputes surface (SPEC_FULL §4).
func (s *EscrowService) ListOpenDisputes() ([]*core.DisputeCase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all, err := s.ledger.DisputeCases()
	if err != nil {
		return nil, err
	}
	open := make([]*core.DisputeCase, 0, len(all))
	for _, c := range all {
		if c.Resolution == core.ResolutionPending {
			open = append(open, c)
		}
	}
	return open, nil
}

func (s *EscrowService) GetReputation(agent core.PublicKey) (*core.AgentReputation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key, _, err := core.ReputationPDA(s.ledger, agent)
	if err != nil {
		return nil, err
	}
	v, ok := s.ledger.Account(key)
	if !ok {
		return nil, fmt.Errorf("no reputation account for this agent")
	}
	return core.DecodeAgentReputation(v.Data)
}
