package parallel_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/trace-postprocess/utils/parallel"
)

func TestGoMap(t *testing.T) {
	in := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	out := parallel.GoMap(in, func(v int) int { return v * v })
	assert.Equal(t, []int{1, 4, 9, 16, 25, 36, 49, 64, 81, 100}, out)
	assert.Empty(t, parallel.GoMap([]int{}, func(v int) int { return v }))
}

func TestGoFor(t *testing.T) {
	var sum atomic.Int64
	parallel.GoFor([]int64{1, 2, 3, 4}, func(v int64) { sum.Add(v) })
	assert.Equal(t, int64(10), sum.Load())
}

func TestGoForIndex(t *testing.T) {
	out := make([]int, 20)
	err := parallel.GoForIndex(context.Background(), len(out), 3, func(_ context.Context, i int) error {
		out[i] = i + 1
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 20, out[19])

	boom := errors.New("boom")
	err = parallel.GoForIndex(context.Background(), 5, 2, func(_ context.Context, i int) error {
		if i == 3 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
}
