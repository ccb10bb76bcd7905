package request

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostBackoff_NoStateProceedsImmediately(t *testing.T) {
	b := NewHostBackoff(time.Second, time.Minute)

	start := time.Now()
	err := b.Wait(context.Background(), "example.com")
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestHostBackoff_FailureDelays(t *testing.T) {
	b := NewHostBackoff(20*time.Millisecond, time.Second)

	b.RecordFailure("example.com")

	start := time.Now()
	err := b.Wait(context.Background(), "example.com")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
}

func TestHostBackoff_ExponentialGrowthCapped(t *testing.T) {
	b := NewHostBackoff(time.Second, 4*time.Second)

	assert.Equal(t, time.Second, b.delay(1))
	assert.Equal(t, 2*time.Second, b.delay(2))
	assert.Equal(t, 4*time.Second, b.delay(3))
	// Capped at maxDelay
	assert.Equal(t, 4*time.Second, b.delay(10))
}

func TestHostBackoff_SuccessRecovers(t *testing.T) {
	b := NewHostBackoff(time.Hour, time.Hour)

	b.RecordFailure("example.com")
	b.RecordSuccess("example.com")

	start := time.Now()
	err := b.Wait(context.Background(), "example.com")
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestHostBackoff_WaitHonoursContext(t *testing.T) {
	b := NewHostBackoff(time.Hour, time.Hour)
	b.RecordFailure("example.com")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := b.Wait(ctx, "example.com")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
