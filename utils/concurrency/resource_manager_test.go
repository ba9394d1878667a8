package concurrency

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConcurrency(t *testing.T) {

	t.Run("NoError", func(t *testing.T) {

		acc := make([]int, 8)

		rm := NewResourceManager(context.Background(), make([]bool, 4))

		for i := range acc {
			rm.Run(func(r bool) (err error) {
				acc[i]++
				return
			})
		}

		require.NoError(t, rm.Wait())

		for i := range acc {
			require.Equal(t, acc[i], 1)
		}
	})

	t.Run("WithError", func(t *testing.T) {

		errBad := errors.New("something bad happened")

		rm := NewResourceManager(context.Background(), make([]bool, 4))

		for i := 0; i < 8; i++ {
			rm.Run(func(r bool) (err error) {
				if i == 2 {
					return errBad
				}
				return
			})
		}

		require.ErrorIs(t, rm.Wait(), errBad)
	})

	t.Run("ExclusiveResource", func(t *testing.T) {

		// Each resource counts how many tasks hold it at the same time.
		resources := []*atomic.Int32{{}, {}}

		var violations atomic.Int32

		rm := NewResourceManager(context.Background(), resources)

		for i := 0; i < 64; i++ {
			rm.Run(func(r *atomic.Int32) (err error) {
				if r.Add(1) != 1 {
					violations.Add(1)
				}
				r.Add(-1)
				return
			})
		}

		require.NoError(t, rm.Wait())
		require.Zero(t, violations.Load())
	})

	t.Run("Cancelled", func(t *testing.T) {

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var ran atomic.Int32

		rm := NewResourceManager(ctx, make([]bool, 2))

		for i := 0; i < 4; i++ {
			rm.Run(func(r bool) (err error) {
				ran.Add(1)
				return
			})
		}

		require.ErrorIs(t, rm.Wait(), context.Canceled)
		require.Zero(t, ran.Load())
	})
}
