package core

// ArbitratorPool / ArbitratorEntry lifecycle (spec §4.6), grounded on the
// teacher's core/authority_nodes.go AuthoritySet admission/registration
// pattern, reshaped from an in-memory voter-weight map onto a fixed-capacity
// on-chain pool account plus one PDA entry per arbitrator.

// InitArbitratorPool implements init_arbitrator_pool: a one-time, singleton
// pool account created by the platform authority.
func InitArbitratorPool(ledger Ledger, authority PublicKey, minStake uint64) (*ArbitratorPool, error) {
	authView, ok := ledger.Account(authority)
	if !ok {
		return nil, ErrInvalidAccount
	}
	if err := requireSigner(authView); err != nil {
		return nil, err
	}
	seeds := arbitratorPoolSeeds()
	key, bump, err := ledger.FindProgramAddress(seeds)
	if err != nil {
		return nil, err
	}
	if err := requireUninitialized(ledger, key); err != nil {
		return nil, err
	}
	p := &ArbitratorPool{Authority: authority, MinStake: minStake, Bump: bump}
	v, err := ledger.CreateAccount(authority, seeds, bump, ArbitratorPoolSpace+8)
	if err != nil {
		return nil, err
	}
	copy(v.Data, p.Encode())
	return p, nil
}

func loadPool(ledger Ledger, key PublicKey, requireMutable bool) (*AccountView, *ArbitratorPool, error) {
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
	p, err := DecodeArbitratorPool(v.Data)
	if err != nil {
		return nil, nil, err
	}
	if err := requirePDA(ledger, v, arbitratorPoolSeeds(), p.Bump); err != nil {
		return nil, nil, err
	}
	return v, p, nil
}

func loadEntry(ledger Ledger, key, agent PublicKey, requireMutable bool) (*AccountView, *ArbitratorEntry, error) {
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
	e, err := DecodeArbitratorEntry(v.Data)
	if err != nil {
		return nil, nil, err
	}
	if e.Agent != agent {
		return nil, nil, ErrInvalidAccount
	}
	if err := requirePDA(ledger, v, arbitratorEntrySeeds(agent), e.Bump); err != nil {
		return nil, nil, err
	}
	return v, e, nil
}

// RegisterArbitrator implements register_arbitrator: agent stakes at least
// the pool's minimum and is appended to both the pool's roster and its own
// entry account.
func RegisterArbitrator(ledger Ledger, agent, poolKey PublicKey, stake uint64) (*ArbitratorEntry, error) {
	agentView, ok := ledger.Account(agent)
	if !ok {
		return nil, ErrInvalidAccount
	}
	if err := requireSigner(agentView); err != nil {
		return nil, err
	}
	pv, pool, err := loadPool(ledger, poolKey, true)
	if err != nil {
		return nil, err
	}
	if stake < pool.MinStake {
		return nil, ErrInvalidAmount
	}
	if int(pool.ArbitratorCount) >= MaxArbitrators {
		return nil, ErrPoolFull
	}
	for _, a := range pool.ActiveSlice() {
		if a == agent {
			return nil, ErrAlreadyRegistered
		}
	}

	entrySeeds := arbitratorEntrySeeds(agent)
	entryKey, bump, err := ledger.FindProgramAddress(entrySeeds)
	if err != nil {
		return nil, err
	}
	if err := requireUninitialized(ledger, entryKey); err != nil {
		return nil, err
	}
	now, _ := ledger.Clock()
	entry := &ArbitratorEntry{Agent: agent, Stake: stake, IsActive: true, RegisteredAt: now, Bump: bump}
	ev, err := ledger.CreateAccount(agent, entrySeeds, bump, ArbitratorEntrySpace+8)
	if err != nil {
		return nil, err
	}
	if err := ledger.SystemTransfer(agent, entryKey, stake); err != nil {
		return nil, err
	}
	copy(ev.Data, entry.Encode())

	pool.Arbitrators[pool.ArbitratorCount] = agent
	pool.ArbitratorCount++
	copy(pv.Data, pool.Encode())
	return entry, nil
}

// removeFromRoster removes agent from the pool's active slice, compacting
// the remainder, mirroring the teacher's AuthoritySet removal pattern.
func removeFromRoster(pool *ArbitratorPool, agent PublicKey) bool {
	active := pool.ActiveSlice()
	for i, a := range active {
		if a != agent {
			continue
		}
		copy(pool.Arbitrators[i:], pool.Arbitrators[i+1:pool.ArbitratorCount])
		pool.ArbitratorCount--
		pool.Arbitrators[pool.ArbitratorCount] = ZeroPublicKey
		return true
	}
	return false
}

// UnregisterArbitrator implements unregister_arbitrator: the arbitrator
// withdraws voluntarily, refused while they are still assigned to any open
// dispute (AssignedCount > 0; spec §9 open-question decision, see
// DESIGN.md).
func UnregisterArbitrator(ledger Ledger, agent, poolKey, entryKey PublicKey) error {
	agentView, ok := ledger.Account(agent)
	if !ok {
		return ErrInvalidAccount
	}
	if err := requireSigner(agentView); err != nil {
		return err
	}
	pv, pool, err := loadPool(ledger, poolKey, true)
	if err != nil {
		return err
	}
	ev, entry, err := loadEntry(ledger, entryKey, agent, true)
	if err != nil {
		return err
	}
	if entry.AssignedCount > 0 {
		return ErrArbitratorAssigned
	}
	if !removeFromRoster(pool, agent) {
		return ErrNotRegistered
	}
	copy(pv.Data, pool.Encode())
	entry.IsActive = false
	copy(ev.Data, entry.Encode())
	return ledger.DebitCredit(entryKey, agent, entry.Stake)
}

// requirePlatformAuthority anchors a caller-supplied signer against the
// single platform authority fixed at init_arbitrator_pool time (spec §6:
// "a single constant public key is the authority"), the same pool.Authority
// field RemoveArbitrator has always checked — every other admin-gated
// handler anchors against it the same way rather than trusting a
// caller-supplied "expected authority" value, which a malicious caller could
// simply set to match itself.
func requirePlatformAuthority(ledger Ledger, poolKey, signer PublicKey) error {
	signerView, ok := ledger.Account(signer)
	if !ok {
		return ErrInvalidAccount
	}
	if err := requireSigner(signerView); err != nil {
		return err
	}
	_, pool, err := loadPool(ledger, poolKey, false)
	if err != nil {
		return err
	}
	if pool.Authority != signer {
		return ErrUnauthorized
	}
	return nil
}

// RemoveArbitrator implements remove_arbitrator: the platform authority
// force-removes a misbehaving arbitrator, slashing is out of scope (spec
// Non-goals) so the stake is still returned.
func RemoveArbitrator(ledger Ledger, authority, poolKey, entryKey, agent PublicKey) error {
	if err := requirePlatformAuthority(ledger, poolKey, authority); err != nil {
		return err
	}
	pv, pool, err := loadPool(ledger, poolKey, true)
	if err != nil {
		return err
	}
	ev, entry, err := loadEntry(ledger, entryKey, agent, true)
	if err != nil {
		return err
	}
	if !removeFromRoster(pool, agent) {
		return ErrNotRegistered
	}
	copy(pv.Data, pool.Encode())
	entry.IsActive = false
	copy(ev.Data, entry.Encode())
	return ledger.DebitCredit(entryKey, agent, entry.Stake)
}

// CloseArbitratorAccount implements close_arbitrator_account: reclaim an
// entry's rent once it has been unregistered/removed (IsActive == false)
// and its stake already withdrawn.
func CloseArbitratorAccount(ledger Ledger, agent, entryKey PublicKey) error {
	_, entry, err := loadEntry(ledger, entryKey, agent, true)
	if err != nil {
		return err
	}
	if entry.IsActive {
		return ErrInvalidStatus
	}
	agentView, ok := ledger.Account(agent)
	if !ok {
		return ErrInvalidAccount
	}
	if err := requireSigner(agentView); err != nil {
		return err
	}
	return ledger.CloseAccount(entryKey, agent)
}
