package concurrent

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapAsyncPreservesOrder(t *testing.T) {
	in := []int{30, 10, 20}

	out, err := MapAsync(context.Background(), in, func(_ context.Context, _ int, v int) (int, error) {
		time.Sleep(time.Duration(v) * time.Millisecond)
		return v * 2, nil
	})

	require.NoError(t, err)
	assert.Equal(t, []int{60, 20, 40}, out)
}

func TestMapAsyncFirstErrorDoesNotCancelSiblings(t *testing.T) {
	boom := errors.New("boom")
	var finished atomic.Int32

	_, err := MapAsync(context.Background(), []int{0, 1, 2}, func(ctx context.Context, idx int, _ int) (struct{}, error) {
		if idx == 0 {
			return struct{}{}, boom
		}
		time.Sleep(5 * time.Millisecond)
		if ctx.Err() == nil {
			finished.Add(1)
		}
		return struct{}{}, nil
	})

	assert.ErrorIs(t, err, boom)
	assert.EqualValues(t, 2, finished.Load())
}

func TestSettleCollectsEveryOutcome(t *testing.T) {
	bad := errors.New("odd")

	errs := Settle(context.Background(), []int{1, 2, 3, 4}, func(_ context.Context, v int) error {
		if v%2 == 1 {
			return bad
		}
		return nil
	})

	require.Len(t, errs, 4)
	assert.ErrorIs(t, errs[0], bad)
	assert.NoError(t, errs[1])
	assert.ErrorIs(t, errs[2], bad)
	assert.NoError(t, errs[3])
}
