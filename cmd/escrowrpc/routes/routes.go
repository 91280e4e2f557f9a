package routes

import (
	"github.com/go-chi/chi/v5"

	"jobescrow/cmd/escrowrpc/controllers"
	"jobescrow/cmd/escrowrpc/middleware"
)

// Register mirrors the teacher's walletserver/routes.Register: one flat
// list of method+path -> controller method bindings, with the request
// logger applied to the whole router.
func Register(r chi.Router, c *controllers.EscrowController) {
	r.Use(middleware.Logger)

	r.Route("/api/escrow", func(r chi.Router) {
		r.Post("/create", c.CreateEscrow)
		r.Post("/assign", c.AssignWorker)
		r.Post("/submit", c.SubmitWork)
		r.Post("/approve", c.ApproveWork)
		r.Post("/auto-release", c.AutoRelease)
		r.Post("/dispute", c.Dispute)
		r.Get("/", c.Get)
	})

	r.Route("/api/dispute", func(r chi.Router) {
		r.Post("/raise", c.RaiseDispute)
		r.Post("/vote", c.CastVote)
		r.Post("/finalize", c.FinalizeDispute)
		r.Get("/open", c.ListOpenDisputes)
	})

	r.Route("/api/arbitrator", func(r chi.Router) {
		r.Post("/register", c.RegisterArbitrator)
	})

	r.Route("/api/reputation", func(r chi.Router) {
		r.Post("/init", c.InitReputation)
		r.Get("/", c.GetReputation)
	})
}
