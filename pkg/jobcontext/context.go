package jobcontext

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type KeyContext string

var (
	keyJobID        KeyContext = "job_id"
	keyJobType      KeyContext = "job_type"
	keyRetryAttempt KeyContext = "retry_attempt"
	keyJobStartTime KeyContext = "job_start_time"
	keyMaxRetries   KeyContext = "max_retries"
)

// JobBegin initializes a job context with metadata and timeout.
// Background jobs (agent join, transcript capture) run under a hard 5 minute
// deadline to prevent goroutine leaks when the agent never responds.
func JobBegin(parentCtx context.Context, jobID uuid.UUID, jobType string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parentCtx, 5*time.Minute)

	ctx = context.WithValue(ctx, keyJobID, jobID)
	ctx = context.WithValue(ctx, keyJobType, jobType)
	ctx = context.WithValue(ctx, keyRetryAttempt, 0)
	ctx = context.WithValue(ctx, keyMaxRetries, 3)
	ctx = context.WithValue(ctx, keyJobStartTime, time.Now())

	return ctx, cancel
}

// JobEnd executes the job function with panic recovery and retry logic.
// Returns the last error if the job fails after all retries.
func JobEnd(ctx context.Context, jobFunc func(context.Context) error) error {
	var (
		err        error
		maxRetries = GetMaxRetries(ctx)
		attempt    = GetRetryAttempt(ctx)
	)

	for attempt < maxRetries {
		ctx = SetRetryAttempt(ctx, attempt)

		func(ctx context.Context) {
			defer func() {
				if p := recover(); p != nil {
					err = fmt.Errorf("panic recovered: %v", p)
				}
			}()

			if ctx.Err() != nil {
				err = fmt.Errorf("context cancelled before job execution: %w", ctx.Err())
				return
			}

			err = jobFunc(ctx)
		}(ctx)

		if err == nil {
			return nil
		}

		if ctx.Err() != nil {
			return err
		}

		attempt++
	}

	return err
}

// GetJobID returns the job ID from the context
func GetJobID(ctx context.Context) uuid.UUID {
	if id, ok := ctx.Value(keyJobID).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

// GetJobType returns the job type from the context
func GetJobType(ctx context.Context) string {
	if t, ok := ctx.Value(keyJobType).(string); ok {
		return t
	}
	return ""
}

// GetRetryAttempt returns the current retry attempt from the context
func GetRetryAttempt(ctx context.Context) int {
	if a, ok := ctx.Value(keyRetryAttempt).(int); ok {
		return a
	}
	return 0
}

// SetRetryAttempt records the current retry attempt in the context
func SetRetryAttempt(ctx context.Context, attempt int) context.Context {
	return context.WithValue(ctx, keyRetryAttempt, attempt)
}

// GetMaxRetries returns the retry budget from the context
func GetMaxRetries(ctx context.Context) int {
	if m, ok := ctx.Value(keyMaxRetries).(int); ok {
		return m
	}
	return 3
}

// GetJobStartTime returns when the job began
func GetJobStartTime(ctx context.Context) time.Time {
	if t, ok := ctx.Value(keyJobStartTime).(time.Time); ok {
		return t
	}
	return time.Time{}
}
