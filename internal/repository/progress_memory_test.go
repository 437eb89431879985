package repository

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/lexyai/drafter/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercent(t *testing.T) {
	cases := []struct {
		completed, total, want int
	}{
		{0, 0, 0},
		{3, 0, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 12},
		{3, 8, 38},
		{5, 4, 100},
		{-1, 4, 0},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%d_of_%d", tc.completed, tc.total), func(t *testing.T) {
			assert.Equal(t, tc.want, Percent(tc.completed, tc.total))
		})
	}
}

func TestProgressMemory_Lifecycle(t *testing.T) {
	store := NewProgressMemory(0)

	store.Init("d1", 3, "Starting generation")
	p, ok := store.Get("d1")
	require.True(t, ok)
	assert.Equal(t, entity.ProgressStatusRunning, p.Status)
	assert.Equal(t, 0, p.Percent)
	assert.Equal(t, 3, p.TotalSections)
	assert.Equal(t, "Starting generation", p.CurrentStep)

	store.Update("d1", 1, -1, "Drafting Section A (1 of 3)")
	p, _ = store.Get("d1")
	assert.Equal(t, 33, p.Percent)
	assert.Equal(t, 3, p.TotalSections)

	store.Update("d1", 3, 3, "")
	p, _ = store.Get("d1")
	assert.Equal(t, RunningPercentCap, p.Percent)
	assert.Equal(t, "Drafting Section A (1 of 3)", p.CurrentStep)
	assert.Equal(t, entity.ProgressStatusRunning, p.Status)

	store.Complete("d1", "Contract ready")
	p, _ = store.Get("d1")
	assert.Equal(t, entity.ProgressStatusCompleted, p.Status)
	assert.Equal(t, 100, p.Percent)
	assert.Equal(t, 3, p.CompletedSections)
	assert.Equal(t, "Contract ready", p.CurrentStep)
	assert.Nil(t, p.Error)
}

func TestProgressMemory_PercentMonotonicAndCapped(t *testing.T) {
	store := NewProgressMemory(0)
	for _, total := range []int{1, 2, 3, 7, 19, 40} {
		id := fmt.Sprintf("d-%d", total)
		store.Init(id, total, "")
		last := 0
		for completed := 0; completed <= total; completed++ {
			store.Update(id, completed, -1, "")
			p, _ := store.Get(id)
			assert.GreaterOrEqual(t, p.Percent, last)
			assert.LessOrEqual(t, p.Percent, RunningPercentCap)
			last = p.Percent
		}
		store.Complete(id, "")
		p, _ := store.Get(id)
		assert.Equal(t, 100, p.Percent)
	}
}

func TestProgressMemory_UnknownDrafts(t *testing.T) {
	store := NewProgressMemory(0)

	_, ok := store.Get("missing")
	assert.False(t, ok)

	idle := store.Snapshot("missing")
	assert.Equal(t, entity.ProgressStatusIdle, idle.Status)
	assert.Equal(t, 0, idle.Percent)

	store.Update("u", 2, 4, "step")
	p, _ := store.Get("u")
	assert.Equal(t, entity.ProgressStatusRunning, p.Status)
	assert.Equal(t, 50, p.Percent)

	store.Complete("c", "done")
	p, _ = store.Get("c")
	assert.Equal(t, entity.ProgressStatusCompleted, p.Status)
	assert.Equal(t, 0, p.TotalSections)
	assert.Equal(t, 100, p.Percent)

	store.Fail("f", "boom")
	p, _ = store.Get("f")
	assert.Equal(t, entity.ProgressStatusFailed, p.Status)
	require.NotNil(t, p.Error)
	assert.Equal(t, "boom", *p.Error)
}

func TestProgressMemory_FailPreservesFields(t *testing.T) {
	store := NewProgressMemory(0)
	store.Init("d", 3, "Starting generation")
	store.Update("d", 1, 3, "Drafting Section B (2 of 3)")

	store.Fail("d", "upstream error")

	p, _ := store.Get("d")
	assert.Equal(t, entity.ProgressStatusFailed, p.Status)
	assert.Equal(t, 1, p.CompletedSections)
	assert.Equal(t, 3, p.TotalSections)
	assert.Equal(t, 33, p.Percent)
	assert.Equal(t, "Drafting Section B (2 of 3)", p.CurrentStep)
	assert.Equal(t, "upstream error", *p.Error)
}

func TestProgressMemory_GetReturnsCopy(t *testing.T) {
	store := NewProgressMemory(0)
	store.Init("d", 2, "x")
	store.Fail("d", "err")

	p, _ := store.Get("d")
	p.Percent = 77
	*p.Error = "mutated"

	again, _ := store.Get("d")
	assert.Equal(t, 0, again.Percent)
	assert.Equal(t, "err", *again.Error)
}

func TestProgressMemory_CompleteClearsError(t *testing.T) {
	store := NewProgressMemory(0)
	store.Fail("d", "first attempt failed")
	store.Complete("d", "")

	p, _ := store.Get("d")
	assert.Nil(t, p.Error)
}

func TestProgressMemory_Expires(t *testing.T) {
	store := NewProgressMemory(20 * time.Millisecond)
	store.Init("d", 1, "")

	assert.Eventually(t, func() bool {
		_, ok := store.Get("d")
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestProgressMemory_Concurrent(t *testing.T) {
	store := NewProgressMemory(0)
	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("d-%d", i%4)
			store.Init(id, 10, "")
			for c := 1; c <= 10; c++ {
				store.Update(id, c, -1, "")
				_ = store.Snapshot(id)
			}
		}(i)
	}
	wg.Wait()

	for i := range 4 {
		p, ok := store.Get(fmt.Sprintf("d-%d", i))
		require.True(t, ok)
		assert.LessOrEqual(t, p.Percent, RunningPercentCap)
	}
}
