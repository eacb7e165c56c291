package checkout

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"lucentphoto.com/app/internal/modules/cart"
)

// idempotencyWindow is the coarse time bucket baked into the key. A retry
// inside the window dedupes against the original provider call; a retry that
// crosses the boundary intentionally mints a new key so a genuinely stuck
// session can be retried.
const idempotencyWindow = 5 * time.Minute

// IdempotencyKey derives a stable dedup key from cart contents, customer
// email and the current time bucket. Line order does not matter.
func IdempotencyKey(lines []cart.ResolvedLine, email string, now time.Time) string {
	sorted := make([]cart.ResolvedLine, len(lines))
	copy(sorted, lines)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].ProductType != sorted[j].ProductType {
			return sorted[i].ProductType < sorted[j].ProductType
		}
		return sorted[i].ProductID < sorted[j].ProductID
	})

	var b strings.Builder
	for _, l := range sorted {
		fmt.Fprintf(&b, "%s:%d:%d:%s|", l.ProductType, l.ProductID, l.Quantity, l.Size)
	}
	bucket := now.Unix() / int64(idempotencyWindow/time.Second)
	fmt.Fprintf(&b, "%s|%d", email, bucket)

	sum := sha256.Sum256([]byte(b.String()))
	return fmt.Sprintf("checkout-%s-%d", hex.EncodeToString(sum[:])[:16], bucket)
}
