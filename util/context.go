package util

import (
	"context"
	"sync"
	"time"
)

// ContextJob is a context that outlives its parent by up to a bounded delay,
// or until the job reports it is done.
type ContextJob struct {
	jobDone chan struct{}
	ctx     context.Context
	cancel  context.CancelFunc
	once    sync.Once
}

func (cj *ContextJob) Done() {
	cj.once.Do(func() {
		close(cj.jobDone)
	})
}

func (cj *ContextJob) GetContext() context.Context {
	return cj.ctx
}

func DelayedCancelContextWithJob(
	parent context.Context,
	maxDelay time.Duration,
) *ContextJob {
	jobDone := make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		// Wait for parent context to be canceled.
		select {
		case <-parent.Done():
		case <-jobDone:
			cancel()
			return
		}
		// Now either wait for job finish using a channel signaling,
		// or just timeout after max delay duration.
		select {
		case <-jobDone:
			cancel()
		case <-time.After(maxDelay):
			cancel()
		}
	}()

	return &ContextJob{
		ctx:     ctx,
		cancel:  cancel,
		jobDone: jobDone,
	}
}

// SleepContext waits for d or until ctx is done, whichever comes first.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
