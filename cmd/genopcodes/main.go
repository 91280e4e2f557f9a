// Command genopcodes prints the program's opcode table and fails loudly if
// it has any gap or collision, mirroring the teacher's cmd/opcode-lint.
package main

import (
	"fmt"
	"log"

	"jobescrow/core"
)

func main() {
	if err := core.VerifyOpcodeTable(); err != nil {
		log.Fatalf("opcode table invalid: %v", err)
	}
	table := core.OpcodeTable()
	for _, entry := range table {
		fmt.Printf("%3d  %s\n", entry.Value, entry.Name)
	}
	fmt.Printf("checked %d opcodes, no gaps detected\n", len(table))
}
