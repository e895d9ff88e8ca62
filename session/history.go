package session

// historyDepth is how many recent generations are remembered. Three is
// enough to catch still lifes and period-2 and period-3 oscillators.
const historyDepth = 3

// history keeps fingerprints of recent generations for cycle detection
type history struct {
	hashes []string
}

// observe reports whether hash matches one of the remembered generations and
// then records it
func (h *history) observe(hash string) bool {
	repeated := false
	for _, prev := range h.hashes {
		if prev == hash {
			repeated = true
			break
		}
	}

	h.hashes = append(h.hashes, hash)
	if len(h.hashes) > historyDepth {
		h.hashes = h.hashes[1:]
	}
	return repeated
}

// restart forgets everything except the given starting generation
func (h *history) restart(hash string) {
	h.hashes = append(h.hashes[:0], hash)
}
