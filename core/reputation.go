package core

// AgentReputation lifecycle (spec §4.5). A reputation account is optional
// per agent: jobs work fine without one, but release_with_reputation lets a
// poster route a release through both parties' reputation accounts so their
// track record accrues.

// InitReputation implements init_reputation: creates an empty reputation
// account for agent, payer funding the rent.
func InitReputation(ledger Ledger, payer, agent PublicKey) (*AgentReputation, error) {
	payerView, ok := ledger.Account(payer)
	if !ok {
		return nil, ErrInvalidAccount
	}
	if err := requireSigner(payerView); err != nil {
		return nil, err
	}
	seeds := reputationSeeds(agent)
	key, bump, err := ledger.FindProgramAddress(seeds)
	if err != nil {
		return nil, err
	}
	if err := requireUninitialized(ledger, key); err != nil {
		return nil, err
	}
	now, _ := ledger.Clock()
	r := &AgentReputation{Agent: agent, CreatedAt: now, Bump: bump}
	v, err := ledger.CreateAccount(payer, seeds, bump, AgentReputationSpace+8)
	if err != nil {
		return nil, err
	}
	copy(v.Data, r.Encode())
	return r, nil
}

func loadReputation(ledger Ledger, key, agent PublicKey, requireMutable bool) (*AccountView, *AgentReputation, error) {
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
	r, err := DecodeAgentReputation(v.Data)
	if err != nil {
		return nil, nil, err
	}
	if r.Agent != agent {
		return nil, nil, ErrInvalidAccount
	}
	if err := requirePDA(ledger, v, reputationSeeds(agent), r.Bump); err != nil {
		return nil, nil, err
	}
	return v, r, nil
}

// ReleaseWithReputation implements release_with_reputation: identical
// payout to approve_work, but also updates both the worker's and poster's
// reputation accounts (spec §4.5's RecomputeScore formula).
func ReleaseWithReputation(ledger Ledger, poster, escrowKey, worker, platformFeeAccount, workerRepKey, posterRepKey PublicKey) (*JobEscrow, error) {
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
	workerShare, _, err := splitPayout(e.Amount)
	if err != nil {
		return nil, err
	}
	if err := payoutToWorker(ledger, escrowKey, e, worker, platformFeeAccount); err != nil {
		return nil, err
	}
	e.Status = StatusReleased
	saveEscrow(v, e)

	wv, wr, err := loadReputation(ledger, workerRepKey, worker, true)
	if err != nil {
		return nil, err
	}
	wr.JobsCompleted++
	wr.TotalEarned, err = checkedAdd(wr.TotalEarned, workerShare)
	if err != nil {
		return nil, err
	}
	wr.RecomputeScore()
	copy(wv.Data, wr.Encode())

	pv, pr, err := loadReputation(ledger, posterRepKey, poster, true)
	if err != nil {
		return nil, err
	}
	pr.JobsPosted++
	pr.TotalSpent, err = checkedAdd(pr.TotalSpent, e.Amount)
	if err != nil {
		return nil, err
	}
	pr.RecomputeScore()
	copy(pv.Data, pr.Encode())

	return e, nil
}

// disputeOutcome describes what execute_dispute_resolution owes each
// party's reputation account (spec §4.7's per-resolution effect text):
// which side (if any) is credited a dispute win/loss, whether a
// jobs_completed/jobs_posted counter moves regardless of who won, and how
// much each side actually received (worker) or kept locked up (poster) —
// zero on the side that received nothing back.
type disputeOutcome struct {
	workerWon, posterWon   bool
	jobsMove               bool
	workerEarned, posterSpent uint64
}

// applyDisputeOutcome folds a finalized dispute's result into both parties'
// reputation accounts (spec §4.5/§4.7), shared by execute_dispute_resolution.
// Accounts without a reputation PDA are silently skipped — holding one is
// optional (spec §4.5).
func applyDisputeOutcome(ledger Ledger, workerRepKey, posterRepKey, worker, poster PublicKey, o disputeOutcome) error {
	if wv, wr, err := loadReputation(ledger, workerRepKey, worker, true); err == nil {
		if o.workerWon {
			wr.DisputesWon++
		} else if o.posterWon {
			wr.DisputesLost++
		}
		if o.jobsMove {
			wr.JobsCompleted++
		}
		if o.workerEarned > 0 {
			if v, err := checkedAdd(wr.TotalEarned, o.workerEarned); err == nil {
				wr.TotalEarned = v
			}
		}
		wr.RecomputeScore()
		copy(wv.Data, wr.Encode())
	}
	if pv, pr, err := loadReputation(ledger, posterRepKey, poster, true); err == nil {
		if o.posterWon {
			pr.DisputesWon++
		} else if o.workerWon {
			pr.DisputesLost++
		}
		if o.jobsMove {
			pr.JobsPosted++
		}
		if o.posterSpent > 0 {
			if v, err := checkedAdd(pr.TotalSpent, o.posterSpent); err == nil {
				pr.TotalSpent = v
			}
		}
		pr.RecomputeScore()
		copy(pv.Data, pr.Encode())
	}
	return nil
}
