package job

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingReporter struct {
	calls atomic.Int32
}

func (r *countingReporter) ReportStatus() {
	r.calls.Add(1)
}

func TestStatusJob(t *testing.T) {

	require := require.New(t)

	reporter := &countingReporter{}
	j := NewStatusJob(50*time.Millisecond, reporter, zap.Must(zap.NewDevelopment()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(j.Start(ctx))

	require.Eventually(func() bool { return reporter.calls.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Second)
	defer stopCancel()
	j.Stop(stopCtx)

	after := reporter.calls.Load()
	time.Sleep(200 * time.Millisecond)
	require.LessOrEqual(reporter.calls.Load(), after+1, "a run in flight may still finish")
}

func TestStatusJobDisabled(t *testing.T) {

	reporter := &countingReporter{}
	j := NewStatusJob(0, reporter, zap.NewNop())
	assert.NoError(t, j.Start(context.Background()))
	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, reporter.calls.Load())
	j.Stop(context.Background())
}
