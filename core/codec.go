package core

import (
	"bytes"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/binary"
)

// Discriminator is the 8-byte type tag every account begins with (spec §3,
// §4.2). We derive it the way Anchor-style Solana programs do — sha256 of a
// namespaced name, truncated to 8 bytes — a convention borrowed from
// _examples/other_examples/..._usdc_instructions.go.go's
// getAnchorDiscriminator helper. It is not part of any wire compatibility
// requirement, just a deterministic, collision-resistant tag.
type Discriminator [8]byte

func accountDiscriminator(name string) Discriminator {
	h := sha256.Sum256([]byte("account:" + name))
	var d Discriminator
	copy(d[:], h[:8])
	return d
}

var (
	discJobEscrow      = accountDiscriminator("JobEscrow")
	discAgentReputation = accountDiscriminator("AgentReputation")
	discArbitratorPool  = accountDiscriminator("ArbitratorPool")
	discArbitratorEntry = accountDiscriminator("ArbitratorEntry")
	discDisputeCase     = accountDiscriminator("DisputeCase")
	discAccuracyClaim   = accountDiscriminator("AccuracyClaim")
)

// checkDiscriminator verifies data carries the expected 8-byte tag. The
// comparison is constant-time per spec §3 ("compared constant-time").
func checkDiscriminator(data []byte, want Discriminator) error {
	if len(data) < 8 {
		return ErrInvalidAccountData
	}
	if subtle.ConstantTimeCompare(data[:8], want[:]) != 1 {
		return ErrInvalidAccountData
	}
	return nil
}

// encoder writes fixed-width little-endian fields to a growable buffer. All
// scalar fields in every account type are written through this type rather
// than by reinterpreting the byte slice in place — spec §9 calls the latter
// sound only when owner checks strictly precede every load, and an explicit
// accessor path removes the risk entirely.
type encoder struct {
	buf bytes.Buffer
}

func newEncoder(disc Discriminator) *encoder {
	e := &encoder{}
	e.buf.Write(disc[:])
	return e
}

func (e *encoder) u8(v uint8)   { e.buf.WriteByte(v) }
func (e *encoder) boolean(v bool) {
	if v {
		e.buf.WriteByte(1)
	} else {
		e.buf.WriteByte(0)
	}
}
func (e *encoder) u16(v uint16) { _ = binary.Write(&e.buf, binary.LittleEndian, v) }
func (e *encoder) u64(v uint64) { _ = binary.Write(&e.buf, binary.LittleEndian, v) }
func (e *encoder) i64(v int64)  { _ = binary.Write(&e.buf, binary.LittleEndian, v) }
func (e *encoder) bytes32(v [32]byte) { e.buf.Write(v[:]) }
func (e *encoder) pubkey(v PublicKey) { e.buf.Write(v[:]) }
func (e *encoder) rawBytes(v []byte)  { e.buf.Write(v) }

func (e *encoder) bytesOut() []byte { return e.buf.Bytes() }

// decoder reads fixed-width little-endian fields from a fixed-length slice,
// erroring on any short read instead of panicking on an out-of-bounds slice
// reinterpretation.
type decoder struct {
	data []byte
	off  int
	err  error
}

func newDecoder(data []byte, disc Discriminator) *decoder {
	d := &decoder{data: data}
	if e := checkDiscriminator(data, disc); e != nil {
		d.err = e
		return d
	}
	d.off = 8
	return d
}

func (d *decoder) need(n int) []byte {
	if d.err != nil {
		return nil
	}
	if d.off+n > len(d.data) {
		d.err = ErrInvalidAccountData
		return nil
	}
	out := d.data[d.off : d.off+n]
	d.off += n
	return out
}

func (d *decoder) u8() uint8 {
	b := d.need(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (d *decoder) boolean() bool { return d.u8() != 0 }

func (d *decoder) u16() uint16 {
	b := d.need(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (d *decoder) u64() uint64 {
	b := d.need(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (d *decoder) i64() int64 {
	b := d.need(8)
	if b == nil {
		return 0
	}
	return int64(binary.LittleEndian.Uint64(b))
}

func (d *decoder) bytes32() (out [32]byte) {
	b := d.need(32)
	if b == nil {
		return out
	}
	copy(out[:], b)
	return out
}

func (d *decoder) pubkey() (out PublicKey) {
	b := d.need(32)
	if b == nil {
		return out
	}
	copy(out[:], b)
	return out
}

func (d *decoder) rawBytes(n int) []byte {
	b := d.need(n)
	if b == nil {
		return nil
	}
	out := make([]byte, n)
	copy(out, b)
	return out
}
