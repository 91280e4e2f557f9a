package config

import (
	"os"
	"testing"

	"github.com/spf13/viper"

	"jobescrow/internal/testutil"
)

func TestLoadConfigDefault(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	defer os.Chdir(wd)
	viper.Reset()

	if err := os.Chdir(".."); err != nil {
		t.Fatalf("chdir failed: %v", err)
	}
	LoadConfig("")
	if AppConfig.Program.ID != "Jobescrow11111111111111111111111111111111" {
		t.Fatalf("unexpected program id: %s", AppConfig.Program.ID)
	}
	if AppConfig.Escrow.PlatformFeeBps != 100 {
		t.Fatalf("expected platform fee bps 100, got %d", AppConfig.Escrow.PlatformFeeBps)
	}
}

func TestLoadConfigOverride(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	defer os.Chdir(wd)
	viper.Reset()

	if err := os.Chdir(".."); err != nil {
		t.Fatalf("chdir failed: %v", err)
	}
	LoadConfig("bootstrap")
	if AppConfig.Arbitration.MinStakeLamports != 50_000_000 {
		t.Fatalf("expected overridden min stake 50000000, got %d", AppConfig.Arbitration.MinStakeLamports)
	}
	if AppConfig.RPC.ListenAddr != ":9090" {
		t.Fatalf("expected overridden listen addr, got %s", AppConfig.RPC.ListenAddr)
	}
}

func TestLoadConfigSandbox(t *testing.T) {
	sb, err := testutil.NewSandbox()
	if err != nil {
		t.Fatalf("NewSandbox failed: %v", err)
	}
	defer sb.Cleanup()

	if err := os.Mkdir(sb.Path("config"), 0700); err != nil {
		t.Fatalf("Mkdir failed: %v", err)
	}

	data := []byte("program:\n  id: Sandbox1111111111111111111111111111111111\nescrow:\n  min_amount_lamports: 7\n")
	if err := sb.WriteFile("config/default.yaml", data, 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	defer os.Chdir(wd)
	viper.Reset()

	if err := os.Chdir(sb.Root); err != nil {
		t.Fatalf("chdir failed: %v", err)
	}
	LoadConfig("")

	if AppConfig.Program.ID != "Sandbox1111111111111111111111111111111111" {
		t.Fatalf("expected sandbox program id, got %s", AppConfig.Program.ID)
	}
	if AppConfig.Escrow.MinAmountLamports != 7 {
		t.Fatalf("expected min amount 7, got %d", AppConfig.Escrow.MinAmountLamports)
	}
}
