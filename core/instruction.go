package core

import "encoding/binary"

// Instruction wire format (spec §6): byte 0 is the Opcode, the remainder is
// a payload whose layout is specific to that opcode. Accounts are not part of
// the payload — like a real Solana instruction, they come from the
// transaction's account list and are threaded through positionally by the
// caller (see Dispatch).
type Instruction struct {
	Opcode  Opcode
	Payload []byte
}

// ParseInstruction splits raw instruction data into its opcode and payload.
func ParseInstruction(data []byte) (*Instruction, error) {
	if len(data) < 1 {
		return nil, ErrInvalidAccountData
	}
	op := Opcode(data[0])
	if op >= opcodeCount {
		return nil, ErrInvalidAccountData
	}
	return &Instruction{Opcode: op, Payload: data[1:]}, nil
}

// payloadReader reads fixed-width little-endian fields out of an
// instruction's payload, the same shape as core/codec.go's decoder but
// without an account discriminator to check.
type payloadReader struct {
	data []byte
	off  int
	err  error
}

func newPayloadReader(data []byte) *payloadReader { return &payloadReader{data: data} }

func (r *payloadReader) need(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.off+n > len(r.data) {
		r.err = ErrInvalidAccountData
		return nil
	}
	out := r.data[r.off : r.off+n]
	r.off += n
	return out
}

func (r *payloadReader) u8() uint8 {
	b := r.need(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *payloadReader) u64() uint64 {
	b := r.need(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (r *payloadReader) i64() int64 {
	b := r.need(8)
	if b == nil {
		return 0
	}
	return int64(binary.LittleEndian.Uint64(b))
}

func (r *payloadReader) bytes32() (out [32]byte) {
	b := r.need(32)
	if b == nil {
		return out
	}
	copy(out[:], b)
	return out
}

func (r *payloadReader) pubkey() (out PublicKey) {
	b := r.need(32)
	if b == nil {
		return out
	}
	copy(out[:], b)
	return out
}

// rest returns every remaining byte as a string (used for DisputeCase's
// reason field, which is not length-prefixed in the instruction payload —
// its length is implicit in the instruction's total size).
func (r *payloadReader) rest() string {
	if r.err != nil {
		return ""
	}
	out := string(r.data[r.off:])
	r.off = len(r.data)
	return out
}
