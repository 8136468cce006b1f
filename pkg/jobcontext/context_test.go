package jobcontext

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestJobBeginMetadata(t *testing.T) {
	id := uuid.New()
	ctx, cancel := JobBegin(context.Background(), id, "agent_join")
	defer cancel()

	if got := GetJobID(ctx); got != id {
		t.Errorf("expected job id %s, got %s", id, got)
	}
	if got := GetJobType(ctx); got != "agent_join" {
		t.Errorf("expected job type agent_join, got %q", got)
	}
	if GetJobStartTime(ctx).IsZero() {
		t.Error("expected start time to be set")
	}
	if _, ok := ctx.Deadline(); !ok {
		t.Error("expected job context to carry a deadline")
	}
}

func TestJobEndRetriesUntilSuccess(t *testing.T) {
	ctx, cancel := JobBegin(context.Background(), uuid.New(), "test")
	defer cancel()

	calls := 0
	err := JobEnd(ctx, func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 attempts, got %d", calls)
	}
}

func TestJobEndExhaustsRetries(t *testing.T) {
	ctx, cancel := JobBegin(context.Background(), uuid.New(), "test")
	defer cancel()

	calls := 0
	wantErr := errors.New("persistent")
	err := JobEnd(ctx, func(ctx context.Context) error {
		calls++
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected persistent error, got %v", err)
	}
	if calls != GetMaxRetries(ctx) {
		t.Errorf("expected %d attempts, got %d", GetMaxRetries(ctx), calls)
	}
}

func TestJobEndRecoversPanic(t *testing.T) {
	ctx, cancel := JobBegin(context.Background(), uuid.New(), "test")
	defer cancel()

	calls := 0
	err := JobEnd(ctx, func(ctx context.Context) error {
		calls++
		if calls == 1 {
			panic("boom")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected recovery then success, got %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 attempts, got %d", calls)
	}
}

func TestJobEndStopsOnCancel(t *testing.T) {
	ctx, cancel := JobBegin(context.Background(), uuid.New(), "test")
	cancel()

	calls := 0
	err := JobEnd(ctx, func(ctx context.Context) error {
		calls++
		return errors.New("should not retry")
	})
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
	if calls > 1 {
		t.Errorf("expected at most one attempt after cancel, got %d", calls)
	}
}
