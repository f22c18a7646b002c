// Package wire provides a small little-endian binary codec for laying
// out the fixed-header, length-prefixed packets that framewire.Extractor
// implementations typically look for, plus a ready-made Extractor for
// that exact layout.
package wire // import "github.com/go-daq/framewire/wire"

import (
	"encoding/binary"
	"io"
	"math"
)

// Encoder writes little-endian scalars to an io.Writer, latching the
// first error encountered so call sites don't need to check after every
// field.
type Encoder struct {
	w   io.Writer
	err error

	buf []byte
}

// NewEncoder returns an Encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w, buf: make([]byte, 8)}
}

// Err returns the first error encountered by a Write* call, if any.
func (enc *Encoder) Err() error { return enc.err }

func (enc *Encoder) WriteU8(v uint8) {
	if enc.err != nil {
		return
	}
	enc.buf[0] = v
	_, enc.err = enc.w.Write(enc.buf[:1])
}

func (enc *Encoder) WriteU16(v uint16) {
	if enc.err != nil {
		return
	}
	binary.LittleEndian.PutUint16(enc.buf[:2], v)
	_, enc.err = enc.w.Write(enc.buf[:2])
}

func (enc *Encoder) WriteU32(v uint32) {
	if enc.err != nil {
		return
	}
	binary.LittleEndian.PutUint32(enc.buf[:4], v)
	_, enc.err = enc.w.Write(enc.buf[:4])
}

func (enc *Encoder) WriteU64(v uint64) {
	if enc.err != nil {
		return
	}
	binary.LittleEndian.PutUint64(enc.buf[:8], v)
	_, enc.err = enc.w.Write(enc.buf[:8])
}

func (enc *Encoder) WriteF64(v float64) {
	if enc.err != nil {
		return
	}
	binary.LittleEndian.PutUint64(enc.buf[:8], math.Float64bits(v))
	_, enc.err = enc.w.Write(enc.buf[:8])
}

func (enc *Encoder) WriteBytes(p []byte) {
	if enc.err != nil {
		return
	}
	_, enc.err = enc.w.Write(p)
}

// WritePacket writes a Sync, a little-endian u32 length, and payload —
// the same framing EncodeFramed/DecodeExtractor expect to find on the
// wire.
func (enc *Encoder) WritePacket(sync []byte, payload []byte) {
	enc.WriteBytes(sync)
	enc.WriteU32(uint32(len(payload)))
	enc.WriteBytes(payload)
}
