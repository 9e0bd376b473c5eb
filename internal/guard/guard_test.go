package guard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportLimiter_AllowsUnderLimit(t *testing.T) {
	rl := NewReportLimiter(3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		result := rl.Allow(ctx, "coach-1", "monthly")
		assert.True(t, result.Allowed, "report %d should be allowed", i+1)
	}
}

func TestReportLimiter_BlocksOverLimit(t *testing.T) {
	rl := NewReportLimiter(2, time.Minute)
	ctx := context.Background()
	start := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
	now := start
	rl.now = func() time.Time { return now }

	rl.Allow(ctx, "coach-1", "monthly")
	now = start.Add(20 * time.Second)
	rl.Allow(ctx, "coach-1", "monthly")
	result := rl.Allow(ctx, "coach-1", "monthly")

	assert.False(t, result.Allowed)
	assert.Equal(t, "report_limiter", result.Guard)
	assert.Equal(t, "monthly reports limited to 2 per 1m0s, retry in 40s", result.Reason)
	assert.Equal(t, 40*time.Second, rl.RetryAfter("coach-1", "monthly"))

	now = start.Add(61 * time.Second)
	assert.True(t, rl.Allow(ctx, "coach-1", "monthly").Allowed, "oldest generation left the window")
	assert.False(t, rl.Allow(ctx, "coach-1", "monthly").Allowed)
}

func TestReportLimiter_QuotaPerSubjectAndKind(t *testing.T) {
	rl := NewReportLimiter(1, time.Minute)
	ctx := context.Background()

	assert.True(t, rl.Allow(ctx, "coach-1", "monthly").Allowed)
	assert.False(t, rl.Allow(ctx, "coach-1", "monthly").Allowed)
	assert.True(t, rl.Allow(ctx, "coach-1", "dossier").Allowed)
	assert.True(t, rl.Allow(ctx, "coach-2", "monthly").Allowed)
	assert.Zero(t, rl.RetryAfter("coach-3", "monthly"))
}

func TestReportLimiter_ForgetsIdleQuotas(t *testing.T) {
	rl := NewReportLimiter(1, time.Minute)
	start := time.Now()
	now := start
	rl.now = func() time.Time { return now }

	rl.Allow(context.Background(), "coach-1", "squad")
	require.Len(t, rl.issued, 1)

	now = start.Add(2 * time.Minute)
	assert.Zero(t, rl.RetryAfter("coach-1", "squad"))
	assert.Empty(t, rl.issued)
}

func TestCircuitBreaker_ClosedByDefault(t *testing.T) {
	cb := NewCircuitBreaker(3, 5*time.Second)

	result := cb.Check(context.Background(), "attendance")
	assert.True(t, result.Allowed)
	assert.Equal(t, CircuitClosed, cb.State("attendance"))
}

func TestCircuitBreaker_OpensOnThreshold(t *testing.T) {
	cb := NewCircuitBreaker(2, 5*time.Second)
	ctx := context.Background()

	cb.Check(ctx, "attendance")
	cb.RecordFailure("attendance")
	cb.RecordFailure("attendance")

	result := cb.Check(ctx, "attendance")
	assert.False(t, result.Allowed)
	assert.Equal(t, "circuit_breaker", result.Guard)
	assert.Equal(t, CircuitOpen, cb.State("attendance"))

	assert.True(t, cb.Check(ctx, "matches").Allowed, "other tables are unaffected")
}

func TestCircuitBreaker_SuccessResets(t *testing.T) {
	cb := NewCircuitBreaker(2, 5*time.Second)
	ctx := context.Background()

	cb.Check(ctx, "attendance")
	cb.RecordFailure("attendance")
	cb.RecordSuccess("attendance")
	cb.RecordFailure("attendance")

	result := cb.Check(ctx, "attendance")
	assert.True(t, result.Allowed)
}

func TestCircuitBreaker_HalfOpenTrialCall(t *testing.T) {
	cb := NewCircuitBreaker(1, time.Second)
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	cb.now = func() time.Time { return now }

	cb.RecordFailure("players")
	require.False(t, cb.Check(ctx, "players").Allowed)

	now = now.Add(2 * time.Second)
	require.True(t, cb.Check(ctx, "players").Allowed, "one trial call after reset timeout")
	assert.Equal(t, CircuitHalfOpen, cb.State("players"))
	assert.False(t, cb.Check(ctx, "players").Allowed, "second caller waits for the trial call")

	t.Run("failed trial call reopens", func(t *testing.T) {
		cb.RecordFailure("players")
		assert.Equal(t, CircuitOpen, cb.State("players"))
		assert.False(t, cb.Check(ctx, "players").Allowed)
	})

	t.Run("successful trial call closes", func(t *testing.T) {
		now = now.Add(2 * time.Second)
		require.True(t, cb.Check(ctx, "players").Allowed)
		cb.RecordSuccess("players")
		assert.Equal(t, CircuitClosed, cb.State("players"))
		assert.True(t, cb.Check(ctx, "players").Allowed)
	})
}

func TestIdempotencyGuard_AllowsFirst(t *testing.T) {
	ig := NewIdempotencyGuard()

	result := ig.Check(context.Background(), "req-123")
	assert.True(t, result.Allowed)
}

func TestIdempotencyGuard_BlocksDuplicate(t *testing.T) {
	ig := NewIdempotencyGuard()
	ctx := context.Background()

	ig.Check(ctx, "req-123")
	result := ig.Check(ctx, "req-123")

	assert.False(t, result.Allowed)
	assert.Equal(t, "idempotency", result.Guard)
}

func TestIdempotencyGuard_EmptyKeyAllowed(t *testing.T) {
	ig := NewIdempotencyGuard()
	ctx := context.Background()

	assert.True(t, ig.Check(ctx, "").Allowed)
	assert.True(t, ig.Check(ctx, "").Allowed)
}

func TestIdempotencyGuard_RemoveAllowsRetry(t *testing.T) {
	ig := NewIdempotencyGuard()
	ctx := context.Background()

	ig.Check(ctx, "req-123")
	ig.Remove("req-123")

	assert.True(t, ig.Check(ctx, "req-123").Allowed)
}
