package util

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSleepContextWaits(t *testing.T) {
	start := time.Now()
	assert.NoError(t, SleepContext(context.Background(), 20*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestSleepContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	assert.ErrorIs(t, SleepContext(ctx, time.Minute), context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
	assert.ErrorIs(t, SleepContext(ctx, 0), context.Canceled)
}

func TestDelayedCancelContextOutlivesParent(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	job := DelayedCancelContextWithJob(parent, time.Minute)

	cancel()
	select {
	case <-job.GetContext().Done():
		t.Fatal("job context cancelled together with its parent")
	case <-time.After(20 * time.Millisecond):
	}

	job.Done()
	select {
	case <-job.GetContext().Done():
	case <-time.After(time.Second):
		t.Fatal("job context not cancelled after the job finished")
	}
}

func TestDelayedCancelContextGivesUpAfterDelay(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	job := DelayedCancelContextWithJob(parent, 10*time.Millisecond)
	cancel()

	select {
	case <-job.GetContext().Done():
	case <-time.After(time.Second):
		t.Fatal("job context outlived its maximum delay")
	}
}

func TestCancelableIoReaderStopsAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := NewCancelableIoReader(ctx, &endlessReader{})

	buf := make([]byte, 4)
	n, err := r.Read(buf)
	assert.NoError(t, err)
	assert.Equal(t, 4, n)

	cancel()
	_, err = r.Read(buf)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCancelableIoReaderDropsReadFinishingAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := NewCancelableIoReader(ctx, cancelingReader{cancel: cancel})

	n, err := r.Read(make([]byte, 8))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, n)
}

func TestCancelableIoReaderPassesEOF(t *testing.T) {
	r := NewCancelableIoReader(context.Background(), strings.NewReader("kill_bots | \n"))

	data, err := io.ReadAll(r)
	assert.NoError(t, err)
	assert.Equal(t, "kill_bots | \n", string(data))
}

// cancelingReader simulates a shutdown signal arriving while stdin is being read.
type cancelingReader struct {
	cancel context.CancelFunc
}

func (c cancelingReader) Read(p []byte) (int, error) {
	c.cancel()
	return copy(p, "start_match | ..."), nil
}

type endlessReader struct{}

func (endlessReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 'x'
	}
	return len(p), nil
}
