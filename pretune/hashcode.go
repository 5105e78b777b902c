package pretune

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// HashCode folds member hashes into one value. Generated Hash methods seed
// one with NewHashCode, Add each member's hash in declaration order and
// return Sum.
type HashCode struct {
	digest *xxhash.Digest
	buf    [8]byte
}

// NewHashCode returns an empty accumulator.
func NewHashCode() *HashCode {
	return &HashCode{digest: xxhash.New()}
}

// Add feeds one member hash.
func (h *HashCode) Add(v uint64) {
	binary.LittleEndian.PutUint64(h.buf[:], v)
	_, _ = h.digest.Write(h.buf[:])
}

// Sum returns the combined hash of everything added so far.
func (h *HashCode) Sum() uint64 {
	return h.digest.Sum64()
}
