package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"jobescrow/cmd/escrowrpc/config"
	"jobescrow/cmd/escrowrpc/controllers"
	"jobescrow/cmd/escrowrpc/routes"
	"jobescrow/cmd/escrowrpc/services"
)

// main wires config -> service -> controller -> router exactly the way the
// teacher's walletserver/main.go does, with gorilla/mux swapped for chi
// (spec's RPC surface, §4's "supplemented surface") and the wallet service
// swapped for the escrow service.
func main() {
	if err := config.Load(); err != nil {
		logrus.Fatalf("load config: %v", err)
	}

	svc, err := services.NewService(config.AppConfig.StatePath)
	if err != nil {
		logrus.Fatalf("init service: %v", err)
	}
	ctrl := controllers.NewEscrowController(svc)

	r := chi.NewRouter()
	routes.Register(r, ctrl)

	logrus.Infof("escrow rpc server listening on :%s", config.AppConfig.Port)
	if err := http.ListenAndServe(":"+config.AppConfig.Port, r); err != nil {
		logrus.Fatal(err)
	}
}
