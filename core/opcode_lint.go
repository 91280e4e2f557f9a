package core

import "fmt"

// VerifyOpcodeTable checks that every opcode in [0, opcodeCount) has both a
// registered dispatcher handler and a name, the same "no gaps, no
// collisions" philosophy as the teacher's core/gas_table.go ("must have a
// unique entry for every opcode"). cmd/genopcodes runs this as part of
// generating its printable opcode table, and core's own tests call it
// directly so a new opcode added without wiring both sides fails loudly.
func VerifyOpcodeTable() error {
	for op := Opcode(0); op < opcodeCount; op++ {
		if handlers[op] == nil {
			return fmt.Errorf("core: opcode %d has no registered handler", op)
		}
		if opcodeNames[op] == "" {
			return fmt.Errorf("core: opcode %d has no name", op)
		}
	}
	return nil
}

// OpcodeTable returns every opcode's numeric value and name, in order, for
// documentation/CLI printing.
func OpcodeTable() []struct {
	Value uint8
	Name  string
} {
	out := make([]struct {
		Value uint8
		Name  string
	}, 0, opcodeCount)
	for op := Opcode(0); op < opcodeCount; op++ {
		out = append(out, struct {
			Value uint8
			Name  string
		}{Value: uint8(op), Name: op.String()})
	}
	return out
}
