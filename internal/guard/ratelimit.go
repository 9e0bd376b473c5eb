package guard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/teamdesk/platform/internal/domain"
)

// ReportLimiter caps how many reports of one kind a caller may generate
// within a sliding window. Every generation reads all tables and replays a
// document, so a coach re-clicking "monthly" should not starve the others.
type ReportLimiter struct {
	mu     sync.Mutex
	issued map[reportQuota][]time.Time
	limit  int
	window time.Duration
	now    func() time.Time
}

type reportQuota struct {
	subject string
	kind    string
}

// NewReportLimiter allows limit reports per caller and kind in each window.
func NewReportLimiter(limit int, window time.Duration) *ReportLimiter {
	if limit < 1 {
		limit = 1
	}
	return &ReportLimiter{
		issued: make(map[reportQuota][]time.Time),
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// Allow records a generation of kind for subject, or refuses it when the
// quota is spent. A refusal does not count against the quota.
func (rl *ReportLimiter) Allow(_ context.Context, subject, kind string) domain.GuardResult {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	q := reportQuota{subject: subject, kind: kind}
	recent := rl.prune(q, now)

	if len(recent) >= rl.limit {
		retry := recent[0].Add(rl.window).Sub(now).Round(time.Second)
		return domain.GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("%s reports limited to %d per %s, retry in %s", kind, rl.limit, rl.window, retry),
			Guard:   "report_limiter",
		}
	}
	rl.issued[q] = append(recent, now)
	return domain.GuardResult{Allowed: true}
}

// RetryAfter returns how long subject waits before the next kind report is
// accepted; zero when one is available now.
func (rl *ReportLimiter) RetryAfter(subject, kind string) time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	recent := rl.prune(reportQuota{subject: subject, kind: kind}, now)
	if len(recent) < rl.limit {
		return 0
	}
	return recent[0].Add(rl.window).Sub(now)
}

// prune drops generations that left the window and forgets idle quotas.
func (rl *ReportLimiter) prune(q reportQuota, now time.Time) []time.Time {
	cutoff := now.Add(-rl.window)
	entries := rl.issued[q]
	recent := entries[:0]
	for _, t := range entries {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}
	if len(recent) == 0 {
		delete(rl.issued, q)
		return nil
	}
	rl.issued[q] = recent
	return recent
}
