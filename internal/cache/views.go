package cache

import (
	"github.com/arisanov/pomo/internal/models"
)

// Stats is a read-only rollup of the cached sessions, for status views
// and observability.
type Stats struct {
	ByState      map[models.SessionState][]models.Session
	Counts       map[models.SessionState]int
	TotalSeconds int
	AvgSeconds   float64
	HitRate      float64
}

// Stats recomputes the rollup only when the cache contents have
// changed since the last call; otherwise the memoized copy is
// returned.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.statsGen == c.gen && c.stats != nil {
		s := *c.stats
		s.HitRate = c.hitRateLocked() // counters move without mutating contents
		return s
	}

	s := Stats{
		ByState: make(map[models.SessionState][]models.Session),
		Counts:  make(map[models.SessionState]int),
	}
	for _, e := range c.entries {
		s.ByState[e.session.State] = append(s.ByState[e.session.State], e.session)
		s.Counts[e.session.State]++
		s.TotalSeconds += e.session.ActualSeconds
	}
	if len(c.entries) > 0 {
		s.AvgSeconds = float64(s.TotalSeconds) / float64(len(c.entries))
	}
	s.HitRate = c.hitRateLocked()

	c.stats = &s
	c.statsGen = c.gen
	return s
}

func (c *Cache) hitRateLocked() float64 {
	total := c.hits + c.misses
	if total == 0 {
		return 0
	}
	return float64(c.hits) / float64(total)
}
