package workerpool_test

import (
	"context"
	"testing"
	"time"

	"github.com/smilemakc/rankcore/internal/engineerr"
	"github.com/smilemakc/rankcore/internal/rowset"
	"github.com/smilemakc/rankcore/internal/scheduler/workerpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOffloadCompletesWithinBudget(t *testing.T) {
	pool := workerpool.New(2)
	want := &rowset.RowSet{}
	rs, err := pool.OffloadWithTimeout(context.Background(), 200*time.Millisecond, func() (*rowset.RowSet, error) {
		return want, nil
	})
	require.NoError(t, err)
	assert.Same(t, want, rs)
}

func TestOffloadDeadlineExceeded(t *testing.T) {
	pool := workerpool.New(2)
	start := time.Now()
	_, err := pool.OffloadWithTimeout(context.Background(), 20*time.Millisecond, func() (*rowset.RowSet, error) {
		time.Sleep(200 * time.Millisecond)
		return nil, nil
	})
	elapsed := time.Since(start)
	require.Error(t, err)
	assert.True(t, engineerr.Is(err, engineerr.KindDeadlineExceeded))
	assert.Less(t, elapsed, 100*time.Millisecond, "caller must not block past the budget")
}

func TestOffloadCancelledByParent(t *testing.T) {
	pool := workerpool.New(2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := pool.OffloadWithTimeout(ctx, time.Second, func() (*rowset.RowSet, error) {
		time.Sleep(time.Second)
		return nil, nil
	})
	require.Error(t, err)
	assert.True(t, engineerr.Is(err, engineerr.KindCancelled))
}
