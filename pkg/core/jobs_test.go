package core

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

// TestBaseJob_LockUnlock tests the atomic lock behavior.
func TestBaseJob_LockUnlock(t *testing.T) {
	b := NewBaseJob("test")

	if !b.TryLock() {
		t.Fatal("First TryLock should succeed")
	}
	if b.TryLock() {
		t.Error("Second TryLock should fail when already locked")
	}
	b.Unlock()
	if !b.TryLock() {
		t.Error("TryLock should succeed after Unlock")
	}
}

func TestBaseJob_Name(t *testing.T) {
	b := NewBaseJob("WhazzupRefresh")
	if got := b.Name(); got != "WhazzupRefresh" {
		t.Errorf("Name() = %v, want WhazzupRefresh", got)
	}
}

// TestTimeJob_ShouldFire tests the time-based trigger logic.
func TestTimeJob_ShouldFire(t *testing.T) {
	var runs atomic.Int32
	j := NewTimeJob("test", time.Hour, func(ctx context.Context) {
		runs.Add(1)
	})

	if !j.ShouldFire() {
		t.Fatal("First evaluation should fire")
	}
	j.Run(context.Background())

	if runs.Load() != 1 {
		t.Fatalf("expected 1 run, got %d", runs.Load())
	}
	if j.ShouldFire() {
		t.Error("Should not fire again before threshold")
	}

	// Simulate elapsed time
	j.lastTime = time.Now().Add(-2 * time.Hour)
	if !j.ShouldFire() {
		t.Error("Should fire after threshold elapsed")
	}
}

func TestTimeJob_NoReentry(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	j := NewTimeJob("test", 0, func(ctx context.Context) {
		close(started)
		<-release
	})

	go j.Run(context.Background())
	<-started

	if j.ShouldFire() {
		t.Error("Running job must not fire again")
	}
	close(release)
}
