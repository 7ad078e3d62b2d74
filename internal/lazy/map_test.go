package lazy

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caster-engine/internal/errors"
)

func TestGetOrComputeOnce(t *testing.T) {
	var m Map[string, *int]

	var calls atomic.Int32
	compute := func() (*int, error) {
		calls.Add(1)
		v := 42
		return &v, nil
	}

	const workers = 32

	results := make([]*int, workers)

	var (
		start sync.WaitGroup
		wg    sync.WaitGroup
	)

	start.Add(1)

	for i := range workers {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()
			start.Wait()

			v, err := m.GetOrCompute("k", compute)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	start.Done()
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())

	for _, r := range results {
		assert.Same(t, results[0], r)
	}

	assert.Equal(t, 1, m.Len())
}

func TestErrorsAreCached(t *testing.T) {
	var m Map[int, string]

	boom := errors.New("boom")
	calls := 0

	for range 3 {
		_, err := m.GetOrCompute(1, func() (string, error) {
			calls++
			return "", boom
		})
		require.ErrorIs(t, err, boom)
	}

	assert.Equal(t, 1, calls)
}

func TestPanicBecomesError(t *testing.T) {
	var m Map[int, int]

	_, err := m.GetOrCompute(7, func() (int, error) { panic("bad") })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad")

	_, err = m.GetOrCompute(7, func() (int, error) { return 1, nil })
	require.Error(t, err)
}

func TestLoadAndKeys(t *testing.T) {
	var m Map[string, int]

	_, ok := m.Load("a")
	assert.False(t, ok)

	_, _ = m.GetOrCompute("a", func() (int, error) { return 1, nil })
	_, _ = m.GetOrCompute("b", func() (int, error) { return 2, nil })

	v, ok := m.Load("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.ElementsMatch(t, []string{"a", "b"}, m.Keys())
}
