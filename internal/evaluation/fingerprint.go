package evaluation

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
)

// Fingerprint digests the normalized prediction set: ids sorted ascending,
// one per line. Two files with the same predicted set produce the same
// fingerprint regardless of row order, and SHA-256 makes an accidental
// collision between different sets negligible.
func (p PredictionSet) Fingerprint() string {
	ids := make([]int, 0, len(p))
	for id := range p {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var b strings.Builder
	for i, id := range ids {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strconv.Itoa(id))
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
