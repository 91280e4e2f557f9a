package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"jobescrow/cmd/escrowrpc/services"
	core "jobescrow/core"
)

// EscrowController provides HTTP handlers over EscrowService, grounded on
// the teacher's walletserver/controllers.WalletController shape: a thin
// decode-call-encode layer, no business logic of its own.
type EscrowController struct {
	svc *services.EscrowService
}

func NewEscrowController(svc *services.EscrowService) *EscrowController {
	return &EscrowController{svc: svc}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (c *EscrowController) CreateEscrow(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Poster        string `json:"poster"`
		JobID         string `json:"job_id"`
		AmountLamports uint64 `json:"amount_lamports"`
		ExpirySeconds int64  `json:"expiry_seconds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	poster, err := core.ParsePublicKey(req.Poster)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	e, err := c.svc.CreateEscrow(poster, []byte(req.JobID), req.AmountLamports, req.ExpirySeconds)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (c *EscrowController) AssignWorker(w http.ResponseWriter, r *http.Request) {
	var req struct{ Poster, Escrow, Worker string }
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	poster, err1 := core.ParsePublicKey(req.Poster)
	escrowKey, err2 := core.ParsePublicKey(req.Escrow)
	worker, err3 := core.ParsePublicKey(req.Worker)
	if err := firstErr(err1, err2, err3); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	e, err := c.svc.AssignWorker(poster, escrowKey, worker)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (c *EscrowController) SubmitWork(w http.ResponseWriter, r *http.Request) {
	var req struct{ Worker, Escrow, Proof string }
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	worker, err1 := core.ParsePublicKey(req.Worker)
	escrowKey, err2 := core.ParsePublicKey(req.Escrow)
	if err := firstErr(err1, err2); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	e, err := c.svc.SubmitWork(worker, escrowKey, []byte(req.Proof))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (c *EscrowController) ApproveWork(w http.ResponseWriter, r *http.Request) {
	var req struct{ Poster, Escrow, Worker, PlatformFeeAccount string }
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	poster, err1 := core.ParsePublicKey(req.Poster)
	escrowKey, err2 := core.ParsePublicKey(req.Escrow)
	worker, err3 := core.ParsePublicKey(req.Worker)
	feeAccount, err4 := core.ParsePublicKey(req.PlatformFeeAccount)
	if err := firstErr(err1, err2, err3, err4); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	e, err := c.svc.ApproveWork(poster, escrowKey, worker, feeAccount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (c *EscrowController) AutoRelease(w http.ResponseWriter, r *http.Request) {
	var req struct{ Escrow, Worker, PlatformFeeAccount string }
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	escrowKey, err1 := core.ParsePublicKey(req.Escrow)
	worker, err2 := core.ParsePublicKey(req.Worker)
	feeAccount, err3 := core.ParsePublicKey(req.PlatformFeeAccount)
	if err := firstErr(err1, err2, err3); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	e, err := c.svc.AutoRelease(escrowKey, worker, feeAccount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (c *EscrowController) Dispute(w http.ResponseWriter, r *http.Request) {
	var req struct{ Signer, Escrow, Pool string }
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	signer, err1 := core.ParsePublicKey(req.Signer)
	escrowKey, err2 := core.ParsePublicKey(req.Escrow)
	poolKey, err3 := core.ParsePublicKey(req.Pool)
	if err := firstErr(err1, err2, err3); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	e, err := c.svc.InitiateDispute(signer, escrowKey, poolKey)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (c *EscrowController) Get(w http.ResponseWriter, r *http.Request) {
	poster, err1 := core.ParsePublicKey(r.URL.Query().Get("poster"))
	if err1 != nil {
		writeError(w, http.StatusBadRequest, err1)
		return
	}
	jobID := r.URL.Query().Get("job_id")
	e, err := c.svc.GetEscrow([]byte(jobID), poster)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// DisputeController and ReputationController share the same request model;
// kept as methods on EscrowController to avoid threading a second *services
// pointer through routes.Register for what is, underneath, one service.

func (c *EscrowController) RaiseDispute(w http.ResponseWriter, r *http.Request) {
	var req struct{ Initiator, Escrow, Pool, Reason string }
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	initiator, err1 := core.ParsePublicKey(req.Initiator)
	escrowKey, err2 := core.ParsePublicKey(req.Escrow)
	poolKey, err3 := core.ParsePublicKey(req.Pool)
	if err := firstErr(err1, err2, err3); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	d, err := c.svc.RaiseDispute(initiator, escrowKey, poolKey, req.Reason)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (c *EscrowController) CastVote(w http.ResponseWriter, r *http.Request) {
	var req struct{ Arbitrator, Dispute, Vote string }
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	arbitrator, err1 := core.ParsePublicKey(req.Arbitrator)
	disputeKey, err2 := core.ParsePublicKey(req.Dispute)
	if err := firstErr(err1, err2); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var vote core.Vote
	switch req.Vote {
	case "worker":
		vote = core.VoteForWorker
	case "poster":
		vote = core.VoteForPoster
	default:
		writeError(w, http.StatusBadRequest, errInvalidVote)
		return
	}
	d, err := c.svc.CastVote(arbitrator, disputeKey, vote)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (c *EscrowController) FinalizeDispute(w http.ResponseWriter, r *http.Request) {
	var req struct{ Escrow, Dispute string }
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	escrowKey, err1 := core.ParsePublicKey(req.Escrow)
	disputeKey, err2 := core.ParsePublicKey(req.Dispute)
	if err := firstErr(err1, err2); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	d, err := c.svc.FinalizeDispute(escrowKey, disputeKey)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (c *EscrowController) ListOpenDisputes(w http.ResponseWriter, r *http.Request) {
	cases, err := c.svc.ListOpenDisputes()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, cases)
}

func (c *EscrowController) RegisterArbitrator(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Agent        string `json:"agent"`
		Pool         string `json:"pool"`
		StakeLamports uint64 `json:"stake_lamports"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	agent, err1 := core.ParsePublicKey(req.Agent)
	poolKey, err2 := core.ParsePublicKey(req.Pool)
	if err := firstErr(err1, err2); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	e, err := c.svc.RegisterArbitrator(agent, poolKey, req.StakeLamports)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (c *EscrowController) InitReputation(w http.ResponseWriter, r *http.Request) {
	var req struct{ Payer, Agent string }
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	payer, err1 := core.ParsePublicKey(req.Payer)
	agent, err2 := core.ParsePublicKey(req.Agent)
	if err := firstErr(err1, err2); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	rep, err := c.svc.InitReputation(payer, agent)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusCreated, rep)
}

func (c *EscrowController) GetReputation(w http.ResponseWriter, r *http.Request) {
	agent, err := core.ParsePublicKey(r.URL.Query().Get("agent"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	rep, err := c.svc.GetReputation(agent)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

var errInvalidVote = errors.New(`vote must be "worker" or "poster"`)

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
