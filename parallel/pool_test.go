package parallel

import (
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
)

func TestPool(t *testing.T) {
	for _, workers := range []int{0, 1, 4} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			pool := Start(workers)

			errOdd := errors.New("odd")
			var sum atomic.Int64
			for i := range 20 {
				pool.Go(func() error {
					sum.Add(int64(i))
					if i%2 == 1 {
						return fmt.Errorf("job %d: %w", i, errOdd)
					}
					return nil
				})
			}

			err := pool.Wait()
			if !errors.Is(err, errOdd) {
				t.Errorf("Wait() error = %v, want errOdd", err)
			}
			if got := sum.Load(); got != 190 {
				t.Errorf("sum = %d, want 190", got)
			}
			done, failed := pool.Stats()
			if done != 10 || failed != 10 {
				t.Errorf("Stats() = %d, %d; want 10, 10", done, failed)
			}
		})
	}
}

func TestPoolNoErrors(t *testing.T) {
	pool := Start(3)
	for range 5 {
		pool.Go(func() error { return nil })
	}
	if err := pool.Wait(); err != nil {
		t.Errorf("Wait() error = %v", err)
	}
	// A second Wait is harmless.
	if err := pool.Wait(); err != nil {
		t.Errorf("second Wait() error = %v", err)
	}
}
