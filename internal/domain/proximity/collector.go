package proximity

// collector accumulates matches in discovery order and enforces the match cap
// and memory budget.
type collector struct {
	matches []Match
	added   int
	max     int
	budget  *budget
	status  Status
}

// newCollector appends into dst so callers can supply their own storage.
func newCollector(dst []Match, limit int, b *budget) *collector {
	return &collector{matches: dst, max: limit, budget: b}
}

// add reserves room for m and stores it. It reports whether m was stored;
// done tells the caller whether to keep going.
func (c *collector) add(m Match) bool {
	if c.done() {
		return false
	}
	if !c.budget.reserve(matchSize) {
		c.status = StatusResourceExhausted
		return false
	}
	return c.push(m)
}

// push stores a match without touching the budget.
func (c *collector) push(m Match) bool {
	if c.done() {
		return false
	}
	c.matches = append(c.matches, m)
	c.added++
	if c.added >= c.max {
		c.status = StatusCapReached
	}
	return true
}

// exhaust records that a scratch allocation failed. An earlier cap stays in effect.
func (c *collector) exhaust() {
	if c.status == StatusComplete {
		c.status = StatusResourceExhausted
	}
}

func (c *collector) done() bool { return c.status != StatusComplete }

// remaining is how many more matches fit under the cap.
func (c *collector) remaining() int { return c.max - c.added }
