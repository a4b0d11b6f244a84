package dataset

import (
	"fmt"

	"github.com/zeebo/xxh3"
)

// NormalizerVersion is folded into every fingerprint. Bump it whenever
// Normalize changes its output so cached tables are not reused.
const NormalizerVersion = 1

// Fingerprint identifies one dataset version: the raw bytes as read plus
// the normalizer that produced the table.
func Fingerprint(data []byte) string {
	h := xxh3.New()
	fmt.Fprintf(h, "kinostat/normalize/v%d\n", NormalizerVersion)
	h.Write(data)
	sum := h.Sum128()
	return fmt.Sprintf("%016x%016x", sum.Hi, sum.Lo)
}
