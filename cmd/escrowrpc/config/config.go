package config

import (
	"os"

	"github.com/joho/godotenv"
)

// ServerConfig holds the small set of settings the RPC daemon needs beyond
// what pkg/config already covers (program/escrow/arbitration parameters) —
// grounded on the teacher's walletserver/config.ServerConfig, which keeps
// the HTTP-layer-only settings (port) separate from the domain config.
type ServerConfig struct {
	Port      string
	StatePath string
}

var AppConfig ServerConfig

// Load reads JOBESCROWRPC_PORT and JOBESCROWRPC_STATE from the environment
// (optionally populated from a .env file, as the teacher does), defaulting
// to "8080" and "devnet-state.json".
func Load() error {
	_ = godotenv.Load("cmd/escrowrpc/.env")
	_ = godotenv.Load(".env")

	port := os.Getenv("JOBESCROWRPC_PORT")
	if port == "" {
		port = "8080"
	}
	statePath := os.Getenv("JOBESCROWRPC_STATE")
	if statePath == "" {
		statePath = "devnet-state.json"
	}
	AppConfig = ServerConfig{Port: port, StatePath: statePath}
	return nil
}
