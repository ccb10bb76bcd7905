package probe

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRunAll(t *testing.T) {
	checks := []Check{
		{
			Name: "Reachable",
			Run: func(ctx context.Context) error {
				return nil
			},
			Critical: true,
		},
		{
			Name: "Down",
			Run: func(ctx context.Context) error {
				return errors.New("endpoint down")
			},
		},
	}

	results := RunAll(context.Background(), checks)

	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].Err != nil {
		t.Errorf("Expected first check to pass, got error: %v", results[0].Err)
	}
	if results[1].Err == nil {
		t.Error("Expected second check to fail, got nil")
	}
	if results[1].Critical {
		t.Error("Criticality should carry over from the check")
	}
}

func TestRunAllDeadline(t *testing.T) {
	checks := []Check{
		{
			Name:    "Hanging",
			Timeout: 10 * time.Millisecond,
			Run: func(ctx context.Context) error {
				<-ctx.Done()
				return ctx.Err()
			},
		},
	}

	results := RunAll(context.Background(), checks)
	if !errors.Is(results[0].Err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline error, got %v", results[0].Err)
	}
}

func TestGate(t *testing.T) {
	tests := []struct {
		name    string
		results []Result
		wantErr bool
	}{
		{
			name: "All Pass",
			results: []Result{
				{Name: "C1", Critical: true},
			},
			wantErr: false,
		},
		{
			name: "Critical Failure",
			results: []Result{
				{Name: "C1", Critical: true, Err: errors.New("fail")},
			},
			wantErr: true,
		},
		{
			name: "Non-Critical Failure",
			results: []Result{
				{Name: "C1", Err: errors.New("fail")},
			},
			wantErr: false,
		},
		{
			name: "Mixed Failure",
			results: []Result{
				{Name: "C1", Err: errors.New("fail")},
				{Name: "C2", Critical: true, Err: errors.New("fail")},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Gate(tt.results)
			if (err != nil) != tt.wantErr {
				t.Errorf("Gate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
