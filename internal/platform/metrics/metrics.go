package metrics

import (
	"sync/atomic"
	"time"
)

type Collector struct {
	totalRequests   atomic.Uint64
	errorRequests   atomic.Uint64
	rateLimited     atomic.Uint64
	forbidden       atomic.Uint64
	totalDurationMs atomic.Uint64
	clockIns        atomic.Uint64
	clockOuts       atomic.Uint64
	duplicateClocks atomic.Uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	c.totalRequests.Add(1)
	switch {
	case status >= 500:
		c.errorRequests.Add(1)
	case status == 429:
		c.rateLimited.Add(1)
	case status == 403:
		c.forbidden.Add(1)
	}
	c.totalDurationMs.Add(uint64(duration.Milliseconds()))
}

func (c *Collector) RecordForbidden() {
	c.forbidden.Add(1)
}

// RecordClock counts clock actions; applied is false for repeated submissions.
func (c *Collector) RecordClock(clockIn, applied bool) {
	if !applied {
		c.duplicateClocks.Add(1)
		return
	}
	if clockIn {
		c.clockIns.Add(1)
		return
	}
	c.clockOuts.Add(1)
}

func (c *Collector) Snapshot() map[string]any {
	total := c.totalRequests.Load()
	totalMs := c.totalDurationMs.Load()
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"requestsTotal":        total,
		"errorsTotal":          c.errorRequests.Load(),
		"rateLimitedTotal":     c.rateLimited.Load(),
		"forbiddenTotal":       c.forbidden.Load(),
		"avgDurationMs":        avg,
		"totalDurationMs":      totalMs,
		"clockInsTotal":        c.clockIns.Load(),
		"clockOutsTotal":       c.clockOuts.Load(),
		"duplicateClocksTotal": c.duplicateClocks.Load(),
	}
}
