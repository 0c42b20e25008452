package proximity

import (
	"strconv"
	"sync/atomic"
)

// matchSize approximates the bytes one collected Match occupies.
const matchSize = 3 * strconv.IntSize / 8

// budget accounts scratch and result memory for one call. A nil budget or a
// non-positive limit never refuses.
type budget struct {
	limit int64
	used  atomic.Int64
}

func newBudget(limit int64) *budget {
	if limit <= 0 {
		return nil
	}
	return &budget{limit: limit}
}

// reserve claims n bytes, or returns false and claims nothing.
func (b *budget) reserve(n int) bool {
	if b == nil {
		return true
	}
	if b.used.Add(int64(n)) > b.limit {
		b.used.Add(-int64(n))
		return false
	}
	return true
}
