package wire // import "github.com/go-daq/framewire/wire"

import (
	"bytes"
	"encoding/binary"
)

// SyncLengthExtractor builds an extractor matching the layout WritePacket
// emits: a fixed sync sequence, a little-endian u32 payload length, then
// the payload itself. maxPayload bounds how large a length field is
// trusted before the extractor gives up and skips past the sync instead
// of waiting forever on a corrupt length.
//
// The returned function has the exact tri-valued contract a
// framewire.Extractor must satisfy: 0 undecided, negative -k to skip k
// bytes of garbage, positive p for a complete packet of p bytes at
// offset 0.
func SyncLengthExtractor(sync []byte, maxPayload int) func(buf []byte, n int) int {
	hdr := len(sync) + 4
	return func(buf []byte, n int) int {
		i := bytes.Index(buf[:n], sync)
		if i < 0 {
			// No sync anywhere in the buffer: if the buffer ends with a
			// partial match of the sync's prefix, keep that tail, else
			// the whole thing is garbage.
			keep := partialSyncTail(buf[:n], sync)
			if keep == n {
				return 0
			}
			return -(n - keep)
		}
		if i > 0 {
			return -i
		}
		if n < hdr {
			return 0
		}
		length := int(binary.LittleEndian.Uint32(buf[len(sync):hdr]))
		if length < 0 || length > maxPayload {
			// Corrupt length field: the sync match was spurious, skip
			// past it and let the caller resynchronize further in.
			return -len(sync)
		}
		total := hdr + length
		if n < total {
			return 0
		}
		return total
	}
}

// partialSyncTail returns the length of the longest suffix of buf that
// is a prefix of sync, so a sync straddling a read boundary isn't
// discarded as garbage.
func partialSyncTail(buf, sync []byte) int {
	max := len(sync) - 1
	if max > len(buf) {
		max = len(buf)
	}
	for k := max; k > 0; k-- {
		if bytes.Equal(buf[len(buf)-k:], sync[:k]) {
			return k
		}
	}
	return 0
}
