package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	core "jobescrow/core"
)

// Every command in this package operates on a state file rather than a
// live daemon connection: there is no long-running node in this repo's
// scope (spec §1), so the CLI reads a JSON ledger snapshot, applies exactly
// one instruction, and writes the snapshot back. `devnet genesis` creates
// the initial file; every other command requires one to already exist.
const defaultStatePath = "devnet-state.json"

var statePath = defaultStatePath

func loadLedger() (*core.SimLedger, error) {
	b, err := os.ReadFile(statePath)
	if err != nil {
		return nil, fmt.Errorf("read ledger state %s (run `jobescrow devnet genesis` first): %w", statePath, err)
	}
	var snap core.LedgerSnapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return nil, fmt.Errorf("parse ledger state %s: %w", statePath, err)
	}
	return core.RestoreSimLedger(snap)
}

func saveLedger(l *core.SimLedger) error {
	snap := l.Snapshot()
	b, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(statePath, b, 0o644)
}

func parseKey(s string) (core.PublicKey, error) {
	k, err := core.ParsePublicKey(s)
	if err != nil {
		return core.PublicKey{}, fmt.Errorf("invalid address %q: %w", s, err)
	}
	return k, nil
}

func printJSON(out io.Writer, v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(out, "error: %v\n", err)
		return
	}
	out.Write(append(b, '\n'))
}
