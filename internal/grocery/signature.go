package grocery

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
)

// Signature fingerprints the content of a grocery list. Each line renders as
// "name|unit|amount" with a lower-cased name and the amount fixed to two
// decimals; the rendered lines are sorted, joined with "||" and hashed.
// Usage labels and line order do not affect the result.
func Signature(lines []Line) string {
	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = strings.ToLower(l.Name) + "|" + string(l.Unit) + "|" + strconv.FormatFloat(l.Amount, 'f', 2, 64)
	}
	sort.Strings(parts)
	sum := sha256.Sum256([]byte(strings.Join(parts, "||")))
	return hex.EncodeToString(sum[:])
}
