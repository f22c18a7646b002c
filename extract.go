package framewire // import "github.com/go-daq/framewire"

// Extractor identifies packet boundaries within buf[:n]. Its result is
// tri-valued:
//
//   - 0: undecided, no definite packet start/end visible yet.
//   - negative -k (k>0): the first k bytes are garbage; discard and retry.
//   - positive p: a packet of exactly p bytes begins at offset 0.
//
// Extractor must not return p > n, must be deterministic over a given
// buffer prefix, and must not modify buf.
type Extractor func(buf []byte, n int) int

// packetView is a transient (offset, length) pair into a buffer.
// length == 0 means "no packet found".
type packetView struct {
	offset int
	length int
}

// findPacket runs the recursive/idempotent packet search described in
// spec.md §4.3.1. It never mutates stats on its own; callers that need
// the extract_last "tentative acceptance" accounting pass a non-nil
// onTentative callback, invoked with (skipped, size) exactly where the
// search would have updated stats in that mode.
func findPacket(extract Extractor, extractLast bool, buf []byte, n int, onTentative func(skipped, size int)) (packetView, error) {
	r := extract(buf[:n], n)
	if r > n {
		return packetView{}, newError(KindLengthViolation, "extractor returned length %d > buffer length %d", r, n)
	}
	if r == 0 {
		return packetView{}, nil
	}

	var start, size int
	if r < 0 {
		start = -r
		size = 0
	} else {
		start = 0
		size = r
	}

	if extractLast && r > 0 {
		if onTentative != nil {
			onTentative(start, size)
		}
	}

	remaining := n - (start + size)
	if remaining == 0 {
		return packetView{offset: start, length: size}, nil
	}

	if size == 0 || (size > 0 && extractLast) {
		next, err := findPacket(extract, extractLast, buf[start+size:], remaining, onTentative)
		if err != nil {
			return packetView{}, err
		}
		if !extractLast {
			// First-match mode: this level only ever got here on a garbage
			// skip (size == 0), so there is nothing of this level's own to
			// fall back to. The recursive result, even an undecided one
			// (next.length == 0), is authoritative and must be translated
			// into this level's coordinates so the full chain of proven
			// garbage is reported up, not just the piece this level saw.
			return packetView{offset: start + size + next.offset, length: next.length}, nil
		}
		// extract_last mode: a fresher candidate further in the buffer
		// overrides this level's tentatively accepted packet; absent one,
		// fall back to it.
		if next.length == 0 {
			return packetView{offset: start, length: size}, nil
		}
		return packetView{offset: start + size + next.offset, length: next.length}, nil
	}

	return packetView{offset: start, length: size}, nil
}
