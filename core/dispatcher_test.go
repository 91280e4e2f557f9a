package core

import (
	"encoding/binary"
	"testing"
)

func TestVerifyOpcodeTableHasNoGaps(t *testing.T) {
	if err := VerifyOpcodeTable(); err != nil {
		t.Fatalf("VerifyOpcodeTable: %v", err)
	}
}

func TestOpcodeTableCoversEveryOpcode(t *testing.T) {
	table := OpcodeTable()
	if len(table) != int(opcodeCount) {
		t.Fatalf("expected %d opcodes, got %d", opcodeCount, len(table))
	}
	for i, entry := range table {
		if entry.Value != uint8(i) {
			t.Fatalf("opcode table out of order at index %d: value=%d", i, entry.Value)
		}
		if entry.Name == "" {
			t.Fatalf("opcode %d has empty name", i)
		}
	}
}

func TestDispatchCreateEscrowViaRawInstruction(t *testing.T) {
	l, _ := newTestLedger(t)
	poster := newFundedWallet(l, 10_000_000_000)
	l.SetSigners(poster)

	jobIDHash := HashJobID([]byte("dispatched-job"))
	data := make([]byte, 1+32+8+8)
	data[0] = byte(OpCreateEscrow)
	copy(data[1:33], jobIDHash[:])
	binary.LittleEndian.PutUint64(data[33:41], 5_000_000_000)
	binary.LittleEndian.PutUint64(data[41:49], uint64(MinExpiry))

	if err := Dispatch(l, []PublicKey{poster}, data); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	escrowKey, _, err := l.FindProgramAddress(escrowSeeds(jobIDHash, poster))
	if err != nil {
		t.Fatalf("FindProgramAddress: %v", err)
	}
	v, ok := l.Account(escrowKey)
	if !ok {
		t.Fatal("escrow account not created via Dispatch")
	}
	e, err := DecodeJobEscrow(v.Data)
	if err != nil {
		t.Fatalf("DecodeJobEscrow: %v", err)
	}
	if e.Status != StatusActive || e.Amount != 5_000_000_000 {
		t.Fatalf("unexpected decoded escrow: %+v", e)
	}
}

func TestDispatchUnknownOpcode(t *testing.T) {
	l, _ := newTestLedger(t)
	if err := Dispatch(l, nil, []byte{200}); err == nil {
		t.Fatal("expected error for unknown opcode")
	}
}

func TestDispatchEmptyInstructionData(t *testing.T) {
	l, _ := newTestLedger(t)
	if err := Dispatch(l, nil, nil); err == nil {
		t.Fatal("expected error for empty instruction data")
	}
}
